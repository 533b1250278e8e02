package dialect

import (
	"strings"
)

// QuoteWith wraps name in the open/close characters, doubling any closing character inside it.
func QuoteWith(open, close byte, name string) string {
	var sb strings.Builder
	sb.Grow(len(name) + 2)
	sb.WriteByte(open)
	for i := 0; i < len(name); i++ {
		if name[i] == close {
			sb.WriteByte(close)
		}
		sb.WriteByte(name[i])
	}
	sb.WriteByte(close)
	return sb.String()
}

// DefaultNormalizeType lower-cases the type name.
func DefaultNormalizeType(sqlType string) string {
	return strings.ToLower(sqlType)
}

// normalizeType lower-cases sqlType, strips any length or precision suffix and maps engine
// specific names through aliases.
func normalizeType(sqlType string, aliases map[string]string) string {
	t := strings.ToLower(strings.TrimSpace(sqlType))
	if i := strings.IndexByte(t, '('); i > 0 {
		t = strings.TrimSpace(t[:i])
	}
	if alias, ok := aliases[t]; ok {
		return alias
	}
	return t
}

// DefaultIsAutoIncrement detects auto_increment, identity and sequence defaults in the extra field.
func DefaultIsAutoIncrement(_ string, extra string) bool {
	extraLower := strings.ToLower(extra)
	return strings.Contains(extraLower, "auto_increment") ||
		strings.Contains(extraLower, "identity") ||
		strings.Contains(extraLower, "nextval")
}

func namedPlaceholder(prefix, column string) string {
	return prefix + column
}
