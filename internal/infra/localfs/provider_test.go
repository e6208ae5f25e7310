package localfs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGrantStore keeps grants in memory.
type fakeGrantStore struct {
	grants []string
	puts   int
}

func (s *fakeGrantStore) Put(key string, value any) {
	s.puts++
	s.grants = append([]string(nil), value.([]string)...)
}

func (s *fakeGrantStore) Get(key string, out any) bool {
	if s.grants == nil {
		return false
	}
	*out.(*[]string) = append([]string(nil), s.grants...)
	return true
}

func makeTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "album"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "track.mp3"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o644))
	return root
}

func TestProvider_List(t *testing.T) {
	root := makeTree(t)
	p, err := New(map[string]any{"root": root}, nil)
	require.NoError(t, err)

	entries, err := p.List(root)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "album", entries[0].Name)
	assert.True(t, entries[0].IsDirectory)
	assert.Equal(t, filepath.Join(root, "album"), entries[0].Location)

	assert.Equal(t, "notes.txt", entries[1].Name)
	assert.Equal(t, "track.mp3", entries[2].Name)
	assert.False(t, entries[2].IsDirectory)
}

func TestProvider_RootJail(t *testing.T) {
	root := makeTree(t)
	p, err := New(map[string]any{"root": filepath.Join(root, "album")}, nil)
	require.NoError(t, err)

	_, err = p.List(root)
	assert.Error(t, err, "listing outside the root must be rejected")
	assert.False(t, p.CanRead(root))
	assert.Error(t, p.GrantAccess(root))

	assert.True(t, p.CanRead(filepath.Join(root, "album")))
}

func TestProvider_NoRootAllowsAnyPath(t *testing.T) {
	root := makeTree(t)
	p, err := New(nil, nil)
	require.NoError(t, err)

	entries, err := p.List(root)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestProvider_CanRead(t *testing.T) {
	root := makeTree(t)
	p, err := New(map[string]any{"root": root}, nil)
	require.NoError(t, err)

	assert.True(t, p.CanRead(root))
	assert.True(t, p.CanRead(filepath.Join(root, "track.mp3")))
	assert.False(t, p.CanRead(filepath.Join(root, "missing")))
}

func TestProvider_GrantsPersisted(t *testing.T) {
	root := makeTree(t)
	store := &fakeGrantStore{}

	p, err := New(map[string]any{"root": root}, store)
	require.NoError(t, err)

	album := filepath.Join(root, "album")
	require.NoError(t, p.GrantAccess(album))
	assert.Equal(t, []string{album}, store.grants)

	// A fresh provider over the same store sees the grant set.
	p2, err := New(map[string]any{"root": root}, store)
	require.NoError(t, err)
	require.NoError(t, p2.RevokeAccess(album))
	assert.Empty(t, store.grants)
}

func TestProvider_RevokeUnknownIsNoop(t *testing.T) {
	store := &fakeGrantStore{}
	p, err := New(nil, store)
	require.NoError(t, err)

	require.NoError(t, p.RevokeAccess("/never/granted"))
	assert.Zero(t, store.puts)
}

func TestProvider_GrantMissingLocation(t *testing.T) {
	root := makeTree(t)
	p, err := New(map[string]any{"root": root}, nil)
	require.NoError(t, err)

	assert.Error(t, p.GrantAccess(filepath.Join(root, "missing")))
}

func TestNew_BadSettings(t *testing.T) {
	_, err := New(map[string]any{"root": 42}, nil)
	assert.Error(t, err)
}
