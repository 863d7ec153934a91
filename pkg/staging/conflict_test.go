package staging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConflictsSameAgentNeverConflicts(t *testing.T) {
	cache, _, _ := newTestCache(map[string]string{"a.txt": "Hello World"})

	// Overlapping edits by one agent are sequential, not conflicting.
	require.NoError(t, cache.StageReplace("alice", "a.txt", "Hello World", "Hi Universe"))
	require.NoError(t, cache.StageReplace("alice", "a.txt", "Universe", "Galaxy"))

	found, err := cache.Conflicts("a.txt")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestConflictsCrossAgentOverlap(t *testing.T) {
	cache, _, _ := newTestCache(map[string]string{"a.txt": "Hello World"})

	require.NoError(t, cache.StageReplace("alice", "a.txt", "World", "Universe"))
	require.NoError(t, cache.StageReplace("bob", "a.txt", "World", "Galaxy"))

	found, err := cache.Conflicts("a.txt")
	require.NoError(t, err)
	require.Len(t, found, 1, "one colliding pair yields exactly one de-duplicated record")

	c := found[0]
	assert.Equal(t, "a.txt", c.Path)
	assert.Equal(t, [2]string{"alice", "bob"}, c.Agents)
	assert.Equal(t, Range{Start: 6, End: 11}, c.Range)
	assert.NotEmpty(t, c.ID)
	assert.True(t, c.Involves("alice"))
	assert.True(t, c.Involves("bob"))
	assert.False(t, c.Involves("carol"))

	has, err := cache.HasConflicts("a.txt")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestConflictsDisjointRanges(t *testing.T) {
	cache, _, _ := newTestCache(map[string]string{"a.txt": "Hello World"})

	require.NoError(t, cache.StageReplace("alice", "a.txt", "Hello", "Hi"))
	require.NoError(t, cache.StageReplace("bob", "a.txt", "World", "Universe"))

	found, err := cache.Conflicts("a.txt")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestConflictsTouchingSpansDoNotConflict(t *testing.T) {
	// "Hello" occupies [0,5), " Worl" occupies [5,10): exactly touching.
	cache, _, _ := newTestCache(map[string]string{"a.txt": "Hello World"})

	require.NoError(t, cache.StageReplace("alice", "a.txt", "Hello", "Howdy"))
	require.NoError(t, cache.StageDelete("bob", "a.txt", " Worl"))

	found, err := cache.Conflicts("a.txt")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestConflictsInsertAtSpanBoundary(t *testing.T) {
	// An insertion point exactly at a replace boundary still collides.
	cache, _, _ := newTestCache(map[string]string{"a.txt": "Hello World"})

	require.NoError(t, cache.StageReplace("alice", "a.txt", "Hello", "Howdy"))
	// Insert after "Hello" lands at point 5, the end boundary of [0,5).
	require.NoError(t, cache.StageInsert("bob", "a.txt", "Hello", ",", After))

	found, err := cache.Conflicts("a.txt")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, Range{Start: 0, End: 5}, found[0].Range)
}

func TestConflictsEqualInsertionPoints(t *testing.T) {
	cache, _, _ := newTestCache(map[string]string{"a.txt": "Hello World"})

	require.NoError(t, cache.StageInsert("alice", "a.txt", "Hello", " there", After))
	require.NoError(t, cache.StageInsert("bob", "a.txt", "Hello", " again", After))

	found, err := cache.Conflicts("a.txt")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.True(t, found[0].Range.IsPoint())
}

func TestConflictsDistinctInsertionPoints(t *testing.T) {
	cache, _, _ := newTestCache(map[string]string{"a.txt": "Hello World"})

	require.NoError(t, cache.StageInsert("alice", "a.txt", "Hello", "X", Before))
	require.NoError(t, cache.StageInsert("bob", "a.txt", "World", "Y", After))

	found, err := cache.Conflicts("a.txt")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestConflictsRangesMeasuredAgainstBase(t *testing.T) {
	// Alice's second op targets text that only exists in her virtual view.
	// Its range cannot be located in the base, so it is excluded from the
	// conflict analysis rather than guessed at.
	cache, _, _ := newTestCache(map[string]string{"a.txt": "Hello World"})

	require.NoError(t, cache.StageReplace("alice", "a.txt", "World", "Universe"))
	require.NoError(t, cache.StageInsert("alice", "a.txt", "Universe", "!", After))
	require.NoError(t, cache.StageReplace("bob", "a.txt", "Hello", "Hi"))

	found, err := cache.Conflicts("a.txt")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestAllConflictsAggregatesFiles(t *testing.T) {
	cache, _, _ := newTestCache(map[string]string{
		"a.txt": "Hello World",
		"b.txt": "lorem ipsum",
	})

	require.NoError(t, cache.StageReplace("alice", "a.txt", "World", "Universe"))
	require.NoError(t, cache.StageReplace("bob", "a.txt", "World", "Galaxy"))
	require.NoError(t, cache.StageDelete("alice", "b.txt", "lorem"))
	require.NoError(t, cache.StageReplace("bob", "b.txt", "lorem ipsum", "dolor"))

	all, err := cache.AllConflicts()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a.txt", all[0].Path)
	assert.Equal(t, "b.txt", all[1].Path)
}

func TestConflictsThreeAgentsPairwise(t *testing.T) {
	cache, _, _ := newTestCache(map[string]string{"a.txt": "Hello World"})

	require.NoError(t, cache.StageReplace("alice", "a.txt", "World", "A"))
	require.NoError(t, cache.StageReplace("bob", "a.txt", "World", "B"))
	require.NoError(t, cache.StageReplace("carol", "a.txt", "World", "C"))

	found, err := cache.Conflicts("a.txt")
	require.NoError(t, err)
	// Three agents on the same span: alice/bob, alice/carol, bob/carol.
	assert.Len(t, found, 3)
}
