package media

import "strings"

// Kind classifies a track for display purposes, derived from its title.
type Kind int

const (
	KindMusic Kind = iota
	KindAudiobook
	KindPodcast
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindAudiobook:
		return "audiobook"
	case KindPodcast:
		return "podcast"
	default:
		return "music"
	}
}

// TrackKind guesses the display class of a track from its title.
func TrackKind(title string) Kind {
	lower := strings.ToLower(title)
	switch {
	case strings.Contains(lower, "hörspiel"),
		strings.Contains(lower, "hoerspiel"),
		strings.Contains(lower, "audio drama"),
		strings.Contains(lower, "audiobook"):
		return KindAudiobook
	case strings.Contains(lower, "podcast"),
		strings.Contains(lower, "episode"):
		return KindPodcast
	default:
		return KindMusic
	}
}
