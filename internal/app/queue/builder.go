// Package queue builds transport queue entries from file listings.
// Building is a pure function of the file set; this is the only place
// metadata extraction happens.
package queue

import (
	zlog "github.com/rs/zerolog/log"

	"github.com/Tnxec2/FoplrAudio/internal/domain/media"
)

// Tags is the metadata resolved from one file.
type Tags struct {
	Title       string
	Artist      string
	Album       string
	AlbumArtist string
	Artwork     []byte
}

// Resolver extracts tags from a file location.
type Resolver interface {
	Resolve(location string) (Tags, error)
}

// Build turns files into ordered queue entries. Directories are
// skipped. A file whose metadata cannot be resolved degrades to its
// name as title; one bad file never aborts the rest of the queue.
func Build(resolver Resolver, files []media.FileItem) []media.QueueItem {
	items := make([]media.QueueItem, 0, len(files))
	for _, file := range files {
		if file.IsDirectory {
			continue
		}
		items = append(items, buildItem(resolver, file))
	}
	return items
}

func buildItem(resolver Resolver, file media.FileItem) media.QueueItem {
	tags, err := resolver.Resolve(file.Location)
	if err != nil {
		zlog.Debug().Msgf("queue: metadata failed for %s, using filename: %v", file.Location, err)
		return media.QueueItem{Location: file.Location, Title: file.Name}
	}

	title := tags.Title
	if title == "" {
		title = file.Name
	}
	return media.QueueItem{
		Location:    file.Location,
		Title:       title,
		Artist:      tags.Artist,
		Album:       tags.Album,
		AlbumArtist: tags.AlbumArtist,
		Artwork:     tags.Artwork,
	}
}
