package schema

import "strings"

var abbreviations = map[string]string{
	"nm": "name", "dt": "date", "no": "number", "cd": "code",
	"desc": "description", "amt": "amount", "cnt": "count", "qty": "quantity",
	"addr": "address", "tel": "phone", "ph": "phone", "mob": "phone",
	"pwd": "password", "passwd": "password", "pw": "password",
	"img": "image", "zip": "zipcode", "msg": "message", "txt": "text",
	"subj": "subject", "usr": "user", "emp": "employee",
	"dept": "department", "grp": "group", "cat": "category",
	"loc": "location", "lat": "latitude", "lng": "longitude", "lon": "longitude",
	"bal": "balance", "avg": "average", "prc": "price",
	"reg": "registered", "mod": "modified", "del": "deleted", "cre": "created",
	"upd": "updated", "yn": "yesno", "flg": "flag", "stat": "status", "sts": "status",
	"typ": "type", "val": "value", "seq": "sequence", "idx": "index",
}

// commentMeanings is checked in order; the first keyword found in a column comment wins.
var commentMeanings = []struct {
	meaning  string
	keywords []string
}{
	{"phone", []string{"mobile", "phone"}},
	{"email", []string{"email", "mail"}},
	{"address", []string{"address"}},
	{"zipcode", []string{"zip", "postal"}},
	{"name", []string{"name"}},
	{"password", []string{"password"}},
	{"description", []string{"desc"}},
	{"date", []string{"date", "time"}},
	{"price", []string{"price", "cost", "amount"}},
	{"count", []string{"count", "qty", "quantity"}},
	{"yesno", []string{"flag", "yes/no"}},
	{"country", []string{"country"}},
	{"city", []string{"city"}},
}

// AnalyzeMeaning guesses what a column holds from its comment, falling back to its name
// with common abbreviations expanded ("cust_nm" -> "cust name").
func AnalyzeMeaning(colName, comment string) string {
	c := strings.ToLower(comment)
	for _, candidate := range commentMeanings {
		for _, keyword := range candidate.keywords {
			if strings.Contains(c, keyword) {
				return candidate.meaning
			}
		}
	}

	parts := strings.Split(strings.ToLower(colName), "_")
	for i, part := range parts {
		if full, ok := abbreviations[part]; ok {
			parts[i] = full
		}
	}
	return strings.Join(parts, " ")
}
