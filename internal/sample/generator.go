package sample

import (
	"fmt"
	"strings"
	"time"

	"db-upsert/internal/dataset"
	"db-upsert/internal/schema"

	"github.com/brianvoe/gofakeit/v6"
)

// dates are drawn from the year before this instant so that a seed always yields the same rows
var epoch = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

// Generate builds a dataset of n synthetic rows shaped like table. Generated and integer key
// columns are numbered 1..n; other values follow the column type and meaning. The same seed
// produces the same rows.
func Generate(table *schema.Table, n int, seed int64) (*dataset.Frame, error) {
	if n < 0 {
		return nil, fmt.Errorf("row count must not be negative, got %d", n)
	}
	faker := gofakeit.New(seed)
	rows := make([][]any, n)
	for i := range rows {
		row := make([]any, len(table.Columns))
		for j, col := range table.Columns {
			if (col.IsAutoInc || col.IsPK) && isInteger(col) {
				row[j] = int64(i + 1)
				continue
			}
			row[j] = GenerateValue(faker, col)
		}
		rows[i] = row
	}
	return dataset.New(table.ColumnNames(), rows)
}

// GenerateValue produces one random value for col.
func GenerateValue(faker *gofakeit.Faker, col *schema.Column) any {
	dataType := strings.ToLower(col.DataType)
	colName := strings.ToLower(col.Name)

	switch {
	case dataType == "year":
		return int64(2000 + faker.Number(0, 25))
	case isText(dataType):
		return truncate(textValue(faker, colName, col.Meaning, col.Length), col.Length)
	case strings.Contains(dataType, "date") || strings.Contains(dataType, "time"):
		value := faker.DateRange(epoch.AddDate(-1, 0, 0), epoch)
		if dataType == "date" {
			return value.Truncate(24 * time.Hour)
		}
		return value.Truncate(time.Second)
	case isInteger(col):
		return int64(integerValue(faker, dataType, colName, col))
	case strings.Contains(dataType, "decimal") || strings.Contains(dataType, "numeric") ||
		strings.Contains(dataType, "float") || strings.Contains(dataType, "double") ||
		strings.Contains(dataType, "real") || strings.Contains(dataType, "money"):
		return faker.Price(0.99, 999.99)
	case strings.Contains(dataType, "bool") || dataType == "bit":
		return faker.Bool()
	case strings.Contains(dataType, "uuid") || strings.Contains(dataType, "uniqueidentifier"):
		return faker.UUID()
	case strings.Contains(dataType, "binary") || strings.Contains(dataType, "blob") || strings.Contains(dataType, "bytea"):
		return faker.LetterN(8)
	}
	if col.IsNullable {
		return nil
	}
	return faker.Word()
}

func textValue(faker *gofakeit.Faker, colName, meaning string, length int) string {
	isID := strings.HasSuffix(colName, "id")
	has := func(keyword string) bool {
		return strings.Contains(meaning, keyword) || strings.Contains(colName, keyword)
	}

	switch {
	case has("year"):
		return fmt.Sprintf("%d", 2000+faker.Number(0, 25))
	case isID:
		return faker.Regex("[A-Z]{3}[0-9]{5}")
	case has("phone"):
		return faker.Phone()
	case has("email"):
		return faker.Email()
	case has("password"):
		return faker.Password(true, true, true, false, false, 12)
	case has("first"):
		return faker.FirstName()
	case has("last"):
		return faker.LastName()
	case has("user"):
		return faker.Username()
	case has("company"):
		return faker.Company()
	case has("product") || has("item"):
		return faker.ProductName()
	case has("name"):
		if length > 0 && length < 3 {
			return faker.LetterN(uint(length))
		}
		return faker.Name()
	case has("address"):
		return faker.Street()
	case has("zip"):
		return faker.Zip()
	case has("country"):
		return faker.Country()
	case has("city"):
		return faker.City()
	case has("state"):
		return faker.State()
	case has("yesno") || has("flag") || strings.HasPrefix(colName, "is_"):
		if faker.Bool() {
			return "Y"
		}
		return "N"
	case has("title") || has("subject"):
		return faker.Sentence(3)
	case has("description") || has("comment") || has("text") || has("message"):
		return faker.Sentence(10)
	case length > 0 && length < 20:
		return faker.Word()
	}
	return faker.Sentence(5)
}

func integerValue(faker *gofakeit.Faker, dataType, colName string, col *schema.Column) int {
	switch {
	case strings.Contains(colName, "active") || strings.Contains(colName, "enabled") ||
		strings.Contains(col.Meaning, "yesno") || strings.HasPrefix(colName, "is_"):
		return faker.Number(0, 1)
	case strings.Contains(colName, "year"):
		return 2000 + faker.Number(0, 25)
	case strings.Contains(dataType, "tinyint"):
		return faker.Number(0, 127)
	case strings.Contains(dataType, "smallint"):
		return faker.Number(1, 30000)
	}

	// precision bounds the value when it is small enough to matter
	maxVal := 50000
	if col.Length > 0 && col.Length < 5 {
		maxVal = 1
		for i := 0; i < col.Length; i++ {
			maxVal *= 10
		}
		maxVal--
	}
	return faker.Number(1, maxVal)
}

func isText(dataType string) bool {
	for _, marker := range []string{"char", "text", "string", "clob"} {
		if strings.Contains(dataType, marker) {
			return true
		}
	}
	return false
}

func isInteger(col *schema.Column) bool {
	dataType := strings.ToLower(col.DataType)
	return strings.Contains(dataType, "int") && !strings.Contains(dataType, "interval") && !strings.Contains(dataType, "point")
}

func truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) > limit {
		return string(runes[:limit])
	}
	return s
}
