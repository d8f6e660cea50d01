package catalog

import (
	"strings"

	"github.com/jonesrussell/datasync/internal/logger"
)

// hospitalLiteral is a fixed secondary match applied to title and
// description regardless of the configured topic. The CMS catalog tags
// several hospital datasets outside the "hospitals" theme, and the
// upstream feed has historically relied on this extra match to catch
// them.
const hospitalLiteral = "hospital"

// Filter selects catalog entries relevant to a topic.
type Filter struct {
	logger logger.Interface
}

// NewFilter creates a new relevance filter.
func NewFilter(log logger.Interface) *Filter {
	return &Filter{logger: log}
}

// Relevant keeps datasets whose title, description, themes, or keywords
// contain the topic token, or whose title or description contain the
// literal "hospital". Matching is case-insensitive substring containment
// and input order is preserved.
func (f *Filter) Relevant(datasets []Dataset, topic string) []Dataset {
	token := strings.ToLower(topic)

	matched := make([]Dataset, 0, len(datasets))
	for i := range datasets {
		if matchesTopic(&datasets[i], token) {
			matched = append(matched, datasets[i])
		}
	}

	f.logger.Info("Filtered catalog by topic",
		"topic", topic,
		"matched", len(matched),
		"total", len(datasets),
	)

	return matched
}

// matchesTopic reports whether a dataset matches the topic token or the
// fixed literal match.
func matchesTopic(d *Dataset, token string) bool {
	title := strings.ToLower(d.Title)
	description := strings.ToLower(d.Description)

	if strings.Contains(title, token) || strings.Contains(description, token) {
		return true
	}

	for _, theme := range d.Themes {
		if strings.Contains(strings.ToLower(theme), token) {
			return true
		}
	}

	for _, keyword := range d.Keywords {
		if strings.Contains(strings.ToLower(keyword), token) {
			return true
		}
	}

	return strings.Contains(title, hospitalLiteral) ||
		strings.Contains(description, hospitalLiteral)
}
