package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/datasync/internal/catalog"
	"github.com/jonesrussell/datasync/internal/logger"
)

func TestFilter_Relevant(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		dataset catalog.Dataset
		topic   string
		matched bool
	}{
		{
			name:    "topic in title",
			dataset: catalog.Dataset{Identifier: "a", Title: "Hospitals - General Information"},
			topic:   "hospitals",
			matched: true,
		},
		{
			name:    "topic match is case-insensitive",
			dataset: catalog.Dataset{Identifier: "a", Themes: []string{"Hospitals"}},
			topic:   "hospitals",
			matched: true,
		},
		{
			name:    "topic in description",
			dataset: catalog.Dataset{Identifier: "a", Description: "Data about hospitals nationwide"},
			topic:   "hospitals",
			matched: true,
		},
		{
			name:    "topic in keywords",
			dataset: catalog.Dataset{Identifier: "a", Keywords: []string{"care", "Hospitals"}},
			topic:   "hospitals",
			matched: true,
		},
		{
			name:    "substring containment counts",
			dataset: catalog.Dataset{Identifier: "a", Title: "State hospitalization rates"},
			topic:   "hospital",
			matched: true,
		},
		{
			name:    "literal hospital match with unrelated topic",
			dataset: catalog.Dataset{Identifier: "a", Title: "Hospital readmission rates"},
			topic:   "dialysis",
			matched: true,
		},
		{
			name:    "literal match does not extend to themes",
			dataset: catalog.Dataset{Identifier: "a", Themes: []string{"Hospital care"}},
			topic:   "dialysis",
			matched: false,
		},
		{
			name:    "no match",
			dataset: catalog.Dataset{Identifier: "a", Title: "Home health agencies", Themes: []string{"Home health"}},
			topic:   "hospitals",
			matched: false,
		},
	}

	for i := range tests {
		tt := &tests[i]
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			filter := catalog.NewFilter(logger.NewNoOp())
			matched := filter.Relevant([]catalog.Dataset{tt.dataset}, tt.topic)
			if tt.matched {
				require.Len(t, matched, 1)
			} else {
				require.Empty(t, matched)
			}
		})
	}
}

func TestFilter_Relevant_PreservesOrder(t *testing.T) {
	t.Parallel()

	datasets := []catalog.Dataset{
		{Identifier: "c", Title: "Hospitals C"},
		{Identifier: "x", Title: "Nursing homes"},
		{Identifier: "a", Title: "Hospitals A"},
		{Identifier: "b", Title: "Hospitals B"},
	}

	filter := catalog.NewFilter(logger.NewNoOp())
	matched := filter.Relevant(datasets, "hospitals")

	require.Len(t, matched, 3)
	assert.Equal(t, "c", matched[0].Identifier)
	assert.Equal(t, "a", matched[1].Identifier)
	assert.Equal(t, "b", matched[2].Identifier)
}
