// Package browse lists the audio files and subfolders of storage
// locations.
package browse

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/Tnxec2/FoplrAudio/internal/app/storage"
	"github.com/Tnxec2/FoplrAudio/internal/domain/media"
)

// hiddenPrefix marks entries excluded from listings.
const hiddenPrefix = "."

// DefaultAudioExtensions is the fallback allow-list used when the
// configuration provides none.
var DefaultAudioExtensions = []string{".mp3", ".wav", ".ogg", ".m4a", ".flac"}

// Browser lists folder contents through a storage provider.
type Browser struct {
	provider   storage.Provider
	extensions map[string]struct{}
}

// New creates a browser. extensions is the audio file allow-list
// (lowercase, leading dot); empty falls back to the default set.
func New(provider storage.Provider, extensions []string) *Browser {
	if len(extensions) == 0 {
		extensions = DefaultAudioExtensions
	}
	set := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		set[strings.ToLower(ext)] = struct{}{}
	}
	return &Browser{provider: provider, extensions: set}
}

// List returns the visible children of location: subfolders and
// recognized audio files, directories first, then files sorted
// case-insensitively. A total failure to read the location yields an
// empty list plus the error.
func (b *Browser) List(location string) ([]media.FileItem, error) {
	entries, err := b.provider.List(location)
	if err != nil {
		return []media.FileItem{}, errors.Wrapf(err, "failed to list folder %s", location)
	}

	items := make([]media.FileItem, 0, len(entries))
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name, hiddenPrefix) {
			continue
		}
		if !entry.IsDirectory && !b.isAudioFile(entry) {
			continue
		}
		items = append(items, media.FileItem{
			Name:        entry.Name,
			Location:    entry.Location,
			IsDirectory: entry.IsDirectory,
			Parent:      location,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].IsDirectory != items[j].IsDirectory {
			return items[i].IsDirectory
		}
		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})
	return items, nil
}

// ListRecursive returns every recognized audio file under location,
// depth first. Hidden directories are skipped, hidden audio files are
// not: only the folder view filters dot files. Children that cannot be
// read are omitted; the provider tree is assumed cycle free.
func (b *Browser) ListRecursive(location string) []media.FileItem {
	files := make([]media.FileItem, 0)

	entries, err := b.provider.List(location)
	if err != nil {
		zlog.Debug().Msgf("browse: skipping unreadable folder %s: %v", location, err)
		return files
	}

	for _, entry := range entries {
		if entry.IsDirectory {
			if strings.HasPrefix(entry.Name, hiddenPrefix) {
				continue
			}
			files = append(files, b.ListRecursive(entry.Location)...)
			continue
		}
		if b.isAudioFile(entry) {
			files = append(files, media.FileItem{
				Name:        entry.Name,
				Location:    entry.Location,
				IsDirectory: false,
				Parent:      location,
			})
		}
	}
	return files
}

// isAudioFile recognizes audio by declared media type or extension;
// either check is sufficient.
func (b *Browser) isAudioFile(entry storage.Entry) bool {
	if strings.HasPrefix(entry.MediaType, "audio/") {
		return true
	}
	ext := strings.ToLower(filepath.Ext(entry.Name))
	_, ok := b.extensions[ext]
	return ok
}
