package browse

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tnxec2/FoplrAudio/internal/app/storage"
)

// fakeProvider serves a canned tree keyed by location.
type fakeProvider struct {
	tree map[string][]storage.Entry
}

func (p *fakeProvider) List(location string) ([]storage.Entry, error) {
	entries, ok := p.tree[location]
	if !ok {
		return nil, errors.Newf("no such location: %s", location)
	}
	return entries, nil
}

func (p *fakeProvider) GrantAccess(string) error  { return nil }
func (p *fakeProvider) RevokeAccess(string) error { return nil }
func (p *fakeProvider) CanRead(location string) bool {
	_, ok := p.tree[location]
	return ok
}

func file(name, location, mediaType string) storage.Entry {
	return storage.Entry{Name: name, Location: location, MediaType: mediaType}
}

func dir(name, location string) storage.Entry {
	return storage.Entry{Name: name, Location: location, IsDirectory: true}
}

func TestBrowser_List(t *testing.T) {
	provider := &fakeProvider{tree: map[string][]storage.Entry{
		"/music": {
			file("zebra.mp3", "/music/zebra.mp3", "audio/mpeg"),
			file("notes.txt", "/music/notes.txt", "text/plain"),
			dir("b-side", "/music/b-side"),
			file(".hidden.mp3", "/music/.hidden.mp3", "audio/mpeg"),
			dir(".git", "/music/.git"),
			file("Alpha.flac", "/music/Alpha.flac", ""),
			dir("Archive", "/music/Archive"),
			file("weird.audiofile", "/music/weird.audiofile", "audio/x-custom"),
		},
	}}

	b := New(provider, nil)
	items, err := b.List("/music")
	require.NoError(t, err)

	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}

	// Directories first, then files, both case-insensitively sorted.
	// Hidden entries and non-audio files are filtered out; the unknown
	// extension with an audio media type survives.
	assert.Equal(t, []string{"Archive", "b-side", "Alpha.flac", "weird.audiofile", "zebra.mp3"}, names)

	for _, item := range items {
		assert.Equal(t, "/music", item.Parent)
	}
}

func TestBrowser_ListUnreadableRoot(t *testing.T) {
	b := New(&fakeProvider{tree: map[string][]storage.Entry{}}, nil)

	items, err := b.List("/missing")
	assert.Error(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestBrowser_CustomExtensions(t *testing.T) {
	provider := &fakeProvider{tree: map[string][]storage.Entry{
		"/music": {
			file("track.opus", "/music/track.opus", ""),
			file("track.mp3", "/music/track.mp3", ""),
		},
	}}

	b := New(provider, []string{".opus"})
	items, err := b.List("/music")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "track.opus", items[0].Name)
}

func TestBrowser_ListRecursive(t *testing.T) {
	provider := &fakeProvider{tree: map[string][]storage.Entry{
		"/music": {
			file("intro.mp3", "/music/intro.mp3", "audio/mpeg"),
			file(".bonus.mp3", "/music/.bonus.mp3", "audio/mpeg"),
			dir("album", "/music/album"),
			dir(".trash", "/music/.trash"),
			dir("broken", "/music/broken"),
		},
		"/music/album": {
			file("01.mp3", "/music/album/01.mp3", "audio/mpeg"),
			file("cover.jpg", "/music/album/cover.jpg", "image/jpeg"),
		},
		// "/music/broken" is absent on purpose: unreadable children are
		// omitted, not fatal.
	}}

	b := New(provider, nil)
	files := b.ListRecursive("/music")

	locations := make([]string, 0, len(files))
	for _, f := range files {
		locations = append(locations, f.Location)
	}
	// Hidden directories are pruned; hidden audio files are collected.
	assert.Equal(t, []string{"/music/intro.mp3", "/music/.bonus.mp3", "/music/album/01.mp3"}, locations)
	assert.Equal(t, "/music/album", files[2].Parent)
}

func TestBrowser_ListRecursiveUnreadableRoot(t *testing.T) {
	b := New(&fakeProvider{tree: map[string][]storage.Entry{}}, nil)
	files := b.ListRecursive("/missing")
	assert.NotNil(t, files)
	assert.Empty(t, files)
}
