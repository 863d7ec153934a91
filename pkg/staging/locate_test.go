package staging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountOccurrences(t *testing.T) {
	tests := []struct {
		name     string
		haystack string
		needle   string
		want     int
	}{
		{"single match", "Hello World", "World", 1},
		{"no match", "Hello World", "planet", 0},
		{"multiple matches", "foo bar foo baz foo", "foo", 3},
		{"non-overlapping consumption", "aaaa", "aa", 2},
		{"overlap candidates not counted", "aaa", "aa", 1},
		{"empty needle", "anything", "", 0},
		{"empty haystack", "", "x", 0},
		{"both empty", "", "", 0},
		{"needle longer than haystack", "ab", "abc", 0},
		{"multiline target", "a\nb\na\nb", "a\nb", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountOccurrences(tt.haystack, tt.needle))
		})
	}
}

func TestValidateUnique(t *testing.T) {
	require.NoError(t, validateUnique("a.txt", "Hello World", "World"))

	err := validateUnique("a.txt", "Hello World", "planet")
	var notFound *TargetNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "a.txt", notFound.Path)
	assert.Equal(t, "planet", notFound.Target)

	err = validateUnique("a.txt", "foo foo foo", "foo")
	var ambiguous *AmbiguousTargetError
	require.ErrorAs(t, err, &ambiguous)
	assert.Equal(t, 3, ambiguous.Count)
	assert.Equal(t, "a.txt", ambiguous.Path)

	assert.ErrorIs(t, validateUnique("a.txt", "content", ""), ErrEmptyTarget)
}
