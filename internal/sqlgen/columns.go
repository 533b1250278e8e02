package sqlgen

import "strings"

// Partition is the role split of a dataset's columns for one statement.
type Partition struct {
	// Match correlates source and target rows, in the caller's order.
	Match []string
	// Update is every column that is not a match column.
	Update []string
	// Insert is every column that is not a constraint column.
	Insert []string
}

// Classify partitions all into match, update and insert columns.
//
// match and constraint must be subsets of all. Update and Insert keep the order of all.
// With fold set, names compare case-insensitively and are reported with the dataset's spelling.
func Classify(all, match, constraint []string, fold bool) (Partition, error) {
	matched, err := resolve("match", all, match, fold)
	if err != nil {
		return Partition{}, err
	}
	if _, err = resolve("constraint", all, constraint, fold); err != nil {
		return Partition{}, err
	}
	return Partition{
		Match:  matched,
		Update: subtract(all, match, fold),
		Insert: subtract(all, constraint, fold),
	}, nil
}

// resolve checks that every name is in all and returns them de-duplicated in the dataset's spelling.
func resolve(role string, all, names []string, fold bool) ([]string, error) {
	result := make([]string, 0, len(names))
	for _, name := range names {
		canonical, ok := lookup(all, name, fold)
		if !ok {
			return nil, &ValidationError{Role: role, Column: name}
		}
		if _, seen := lookup(result, canonical, false); !seen {
			result = append(result, canonical)
		}
	}
	return result, nil
}

func subtract(all, excluded []string, fold bool) []string {
	result := make([]string, 0, len(all))
	for _, name := range all {
		if _, ok := lookup(excluded, name, fold); !ok {
			result = append(result, name)
		}
	}
	return result
}

// intersect keeps the names of all that are in selected, in the order of all.
func intersect(all, selected []string) []string {
	result := make([]string, 0, len(selected))
	for _, name := range all {
		if _, ok := lookup(selected, name, false); ok {
			result = append(result, name)
		}
	}
	return result
}

func lookup(names []string, name string, fold bool) (string, bool) {
	for _, candidate := range names {
		if candidate == name || (fold && strings.EqualFold(candidate, name)) {
			return candidate, true
		}
	}
	return "", false
}
