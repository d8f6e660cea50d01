// Package transform normalizes downloaded tabular files: column headers
// are rewritten to snake_case while data rows pass through untouched.
package transform

import "strings"

// NormalizeHeader converts a column name to its canonical snake_case
// form. The transform is deterministic and total: every input maps to
// exactly one output, which may be empty when the input consists only of
// stripped characters.
//
// Applied in order: lowercase; delete apostrophes, double quotes, and
// backticks; replace parentheses, percent, ampersand, hyphen, and space
// with underscores; collapse runs of underscores; strip one leading and
// one trailing underscore.
func NormalizeHeader(name string) string {
	lowered := strings.ToLower(name)

	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		switch r {
		case '\'', '"', '`':
			// dropped
		case '(', ')', '%', '&', '-', ' ':
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}

	cleaned := b.String()
	for strings.Contains(cleaned, "__") {
		cleaned = strings.ReplaceAll(cleaned, "__", "_")
	}

	cleaned = strings.TrimPrefix(cleaned, "_")
	cleaned = strings.TrimSuffix(cleaned, "_")

	return cleaned
}

// NormalizeHeaders applies NormalizeHeader to every element.
func NormalizeHeaders(names []string) []string {
	normalized := make([]string, len(names))
	for i, name := range names {
		normalized[i] = NormalizeHeader(name)
	}
	return normalized
}
