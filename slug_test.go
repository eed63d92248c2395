package guard_test

import (
	"testing"

	guard "github.com/goliatone/go-tenant-guard"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeSlug(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "whitespace only",
			input:    "   ",
			expected: "",
		},
		{
			name:     "already canonical",
			input:    "my-shop",
			expected: "my-shop",
		},
		{
			name:     "uppercase and punctuation",
			input:    "My Shop!",
			expected: "myshop",
		},
		{
			name:     "diacritics stripped",
			input:    "Café-Ayé",
			expected: "cafe-aye",
		},
		{
			name:     "repeated hyphens collapsed",
			input:    "my---shop",
			expected: "my-shop",
		},
		{
			name:     "hyphen runs after removal collapse",
			input:    "a - - b",
			expected: "a-b",
		},
		{
			name:     "leading and trailing underscores trimmed",
			input:    "__tenant__",
			expected: "tenant",
		},
		{
			name:     "inner underscores kept",
			input:    "my_shop",
			expected: "my_shop",
		},
		{
			name:     "digits kept",
			input:    "Shop 42",
			expected: "shop42",
		},
		{
			name:     "surrounding whitespace",
			input:    "  my-shop  ",
			expected: "my-shop",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, guard.NormalizeSlug(tc.input))
		})
	}
}

func TestNormalizeSlugIdempotent(t *testing.T) {
	inputs := []string{
		"My Shop!",
		"Café-Ayé",
		"__a--b__",
		"",
		"already-canonical_1",
	}

	for _, input := range inputs {
		once := guard.NormalizeSlug(input)
		assert.Equal(t, once, guard.NormalizeSlug(once), "input %q", input)
	}
}
