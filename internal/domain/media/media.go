// Package media provides the domain entities of the folder player.
package media

// Place represents a bookmarked root storage location.
// Identity is the location token; the display name is presentation only.
type Place struct {
	Location    string `json:"location"`
	DisplayName string `json:"displayName"`
}

// FileItem represents one entry of a folder listing.
// FileItems are transient: they are rebuilt on every listing and only a
// serializable projection of them ends up in the breadcrumb stack.
type FileItem struct {
	Name        string `json:"name"`
	Location    string `json:"location"`
	IsDirectory bool   `json:"isDirectory"`
	Parent      string `json:"parent"`
}

// QueueItem represents a playable entry of the transport queue.
// Built once when a file enters a queue, immutable thereafter.
type QueueItem struct {
	Location    string `json:"location"`
	Title       string `json:"title"`
	Artist      string `json:"artist,omitempty"`
	Album       string `json:"album,omitempty"`
	AlbumArtist string `json:"albumArtist,omitempty"`
	Artwork     []byte `json:"artwork,omitempty"`
}

// QueueLocations returns the ordered location tokens of a queue.
// Two queues with equal location sequences are considered identical for
// persistence purposes, regardless of metadata differences.
func QueueLocations(items []QueueItem) []string {
	locations := make([]string, len(items))
	for i, item := range items {
		locations[i] = item.Location
	}
	return locations
}

// SameQueue reports whether two queues contain the same locations in
// the same order.
func SameQueue(a, b []QueueItem) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Location != b[i].Location {
			return false
		}
	}
	return true
}
