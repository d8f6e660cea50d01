package transform_test

import (
	"testing"

	"github.com/jonesrussell/datasync/internal/transform"
)

func TestNormalizeHeader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"already clean", "provider_id", "provider_id"},
		{"uppercase", "Provider ID", "provider_id"},
		{"apostrophe and parens", "Patient's Name (%)", "patients_name"},
		{"multiple spaces collapse", "A   B", "a_b"},
		{"hyphen and ampersand", "Heart Attack & Stroke - Rate", "heart_attack_stroke_rate"},
		{"quotes dropped", `"Footnote"`, "footnote"},
		{"backtick dropped", "ZIP`Code", "zipcode"},
		{"only underscores", "___", ""},
		{"only stripped characters", "(%)", ""},
		{"empty input", "", ""},
		{"leading and trailing space", " County Name ", "county_name"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := transform.NormalizeHeader(tt.input)
			if result != tt.expected {
				t.Errorf("NormalizeHeader(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestNormalizeHeader_Deterministic(t *testing.T) {
	t.Parallel()

	const input = "Patient's Name (%)"

	first := transform.NormalizeHeader(input)
	for i := 0; i < 10; i++ {
		if got := transform.NormalizeHeader(input); got != first {
			t.Fatalf("expected stable output, got %q then %q", first, got)
		}
	}
}

func TestNormalizeHeader_NoDoubleUnderscores(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"A - B",
		"(X) (Y)",
		"% & - ()",
		"a__b___c",
	}

	for _, input := range inputs {
		result := transform.NormalizeHeader(input)
		for i := 1; i < len(result); i++ {
			if result[i] == '_' && result[i-1] == '_' {
				t.Errorf("NormalizeHeader(%q) = %q contains doubled underscore", input, result)
				break
			}
		}
	}
}

func TestNormalizeHeaders(t *testing.T) {
	t.Parallel()

	input := []string{"Provider ID", "Patient's Name (%)", "___"}
	expected := []string{"provider_id", "patients_name", ""}

	result := transform.NormalizeHeaders(input)
	if len(result) != len(expected) {
		t.Fatalf("expected %d headers, got %d", len(expected), len(result))
	}
	for i := range expected {
		if result[i] != expected[i] {
			t.Errorf("header %d: got %q, want %q", i, result[i], expected[i])
		}
	}
}
