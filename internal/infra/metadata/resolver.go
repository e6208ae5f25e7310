// Package metadata resolves tags from local audio files.
package metadata

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/dhowden/tag"

	"github.com/Tnxec2/FoplrAudio/internal/app/queue"
)

// Resolver reads embedded tags (ID3, MP4, Vorbis comments) from files
// on the local filesystem.
type Resolver struct{}

// New creates a file tag resolver.
func New() Resolver {
	return Resolver{}
}

// Resolve extracts title, artist, album, album artist and embedded
// artwork from the file at location.
func (Resolver) Resolve(location string) (queue.Tags, error) {
	f, err := os.Open(location)
	if err != nil {
		return queue.Tags{}, errors.Wrapf(err, "failed to open %s", location)
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return queue.Tags{}, errors.Wrapf(err, "failed to read tags from %s", location)
	}

	tags := queue.Tags{
		Title:       m.Title(),
		Artist:      m.Artist(),
		Album:       m.Album(),
		AlbumArtist: m.AlbumArtist(),
	}
	if pic := m.Picture(); pic != nil {
		tags.Artwork = pic.Data
	}
	return tags, nil
}
