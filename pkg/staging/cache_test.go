package staging

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memLoader is an in-memory Loader with call counting.
type memLoader struct {
	files map[string]string
	errs  map[string]error
	loads map[string]int
}

func newMemLoader(files map[string]string) *memLoader {
	if files == nil {
		files = make(map[string]string)
	}
	return &memLoader{files: files, errs: make(map[string]error), loads: make(map[string]int)}
}

func (l *memLoader) Load(path string) ([]byte, error) {
	l.loads[path]++
	if err := l.errs[path]; err != nil {
		return nil, err
	}
	content, ok := l.files[path]
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, fs.ErrNotExist)
	}
	return []byte(content), nil
}

// memWriter is an in-memory Writer recording every persisted write.
type memWriter struct {
	writes  map[string]string
	failErr error
}

func newMemWriter() *memWriter {
	return &memWriter{writes: make(map[string]string)}
}

func (w *memWriter) Write(path string, data []byte) error {
	if w.failErr != nil {
		return w.failErr
	}
	w.writes[path] = string(data)
	return nil
}

func newTestCache(files map[string]string) (*Cache, *memLoader, *memWriter) {
	loader := newMemLoader(files)
	writer := newMemWriter()
	return NewCache(loader, writer), loader, writer
}

func TestReadLoadsBaseOnce(t *testing.T) {
	cache, loader, _ := newTestCache(map[string]string{"a.txt": "Hello World"})

	got, err := cache.Read("alice", "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "Hello World", got)

	// Second read, even by another agent, hits the cache.
	_, err = cache.Read("bob", "a.txt")
	require.NoError(t, err)
	assert.Equal(t, 1, loader.loads["a.txt"])
}

func TestReadMissingFile(t *testing.T) {
	cache, loader, _ := newTestCache(nil)

	_, err := cache.Read("alice", "missing.txt")
	assert.ErrorIs(t, err, ErrNotExist)

	// The "does not exist" marker is cached too.
	_, err = cache.Read("alice", "missing.txt")
	assert.ErrorIs(t, err, ErrNotExist)
	assert.Equal(t, 1, loader.loads["missing.txt"])
}

func TestReadPropagatesLoaderFailure(t *testing.T) {
	cache, loader, _ := newTestCache(nil)
	ioErr := errors.New("permission denied")
	loader.errs["secret.txt"] = ioErr

	_, err := cache.Read("alice", "secret.txt")
	assert.ErrorIs(t, err, ioErr)

	// Hard failures are not cached; a retry goes back to the loader.
	loader.errs = map[string]error{}
	loader.files["secret.txt"] = "ok now"
	got, err := cache.Read("alice", "secret.txt")
	require.NoError(t, err)
	assert.Equal(t, "ok now", got)
}

func TestStageReadYourOwnWrites(t *testing.T) {
	cache, _, _ := newTestCache(map[string]string{"a.txt": "Hello World"})

	require.NoError(t, cache.StageReplace("alice", "a.txt", "World", "Universe"))
	got, err := cache.Read("alice", "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "Hello Universe", got)

	require.NoError(t, cache.StageInsert("alice", "a.txt", "Universe", "!", After))
	got, err = cache.Read("alice", "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "Hello Universe!", got)

	require.NoError(t, cache.StageDelete("alice", "a.txt", "Hello "))
	got, err = cache.Read("alice", "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "Universe!", got)

	// Each edit is reflected exactly once.
	assert.Len(t, cache.PendingOperations("alice", "a.txt"), 3)
}

func TestStageDoesNotLeakAcrossAgents(t *testing.T) {
	cache, _, _ := newTestCache(map[string]string{"a.txt": "Hello World"})

	require.NoError(t, cache.StageReplace("alice", "a.txt", "World", "Universe"))

	got, err := cache.Read("bob", "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "Hello World", got, "bob must see the unmodified base")
}

func TestStageValidationErrors(t *testing.T) {
	cache, _, _ := newTestCache(map[string]string{"a.txt": "foo bar foo"})

	var notFound *TargetNotFoundError
	err := cache.StageReplace("alice", "a.txt", "missing", "x")
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "a.txt", notFound.Path)

	var ambiguous *AmbiguousTargetError
	err = cache.StageDelete("alice", "a.txt", "foo")
	require.ErrorAs(t, err, &ambiguous)
	assert.Equal(t, 2, ambiguous.Count)

	assert.ErrorIs(t, cache.StageReplace("alice", "a.txt", "", "x"), ErrEmptyTarget)
	assert.ErrorIs(t, cache.StageReplace("alice", "missing.txt", "x", "y"), ErrNotExist)

	// Failed validation stages nothing.
	assert.False(t, cache.HasPending("alice"))
}

func TestStageValidatesAgainstVirtualView(t *testing.T) {
	// "bar" is ambiguous in the base but becomes unique after alice's own
	// earlier edit. Staging must validate against her virtual view.
	cache, _, _ := newTestCache(map[string]string{"a.txt": "bar one bar two"})

	require.NoError(t, cache.StageReplace("alice", "a.txt", "bar one", "BAR one"))
	require.NoError(t, cache.StageReplace("alice", "a.txt", "bar", "baz"))

	got, err := cache.Read("alice", "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "BAR one baz two", got)
}

func TestDiscard(t *testing.T) {
	cache, _, _ := newTestCache(map[string]string{"a.txt": "Hello World", "b.txt": "other"})

	require.NoError(t, cache.StageReplace("alice", "a.txt", "World", "Universe"))
	require.NoError(t, cache.StageReplace("alice", "b.txt", "other", "changed"))
	require.NoError(t, cache.StageReplace("bob", "a.txt", "Hello", "Hi"))

	assert.Equal(t, []string{"a.txt", "b.txt"}, cache.PendingFiles("alice"))

	cache.DiscardFile("alice", "a.txt")
	assert.Equal(t, []string{"b.txt"}, cache.PendingFiles("alice"))

	cache.Discard("alice")
	assert.False(t, cache.HasPending("alice"))
	assert.True(t, cache.HasPending("bob"), "discard must not touch other agents")
	assert.Equal(t, []string{"bob"}, cache.Agents())
}

func TestInvalidateReloadsBase(t *testing.T) {
	cache, loader, _ := newTestCache(map[string]string{"a.txt": "old content"})

	got, err := cache.Read("alice", "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "old content", got)

	// The snapshot is immutable until explicitly invalidated.
	loader.files["a.txt"] = "new content"
	got, err = cache.Read("alice", "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "old content", got)

	cache.Invalidate("a.txt")
	got, err = cache.Read("alice", "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "new content", got)
}
