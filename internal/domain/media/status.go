package media

import "bytes"

// RepeatMode represents the repeat behavior of the transport.
type RepeatMode int

const (
	RepeatOff RepeatMode = iota // No repeat
	RepeatAll                   // Repeat the whole queue
	RepeatOne                   // Repeat the current item
)

// String returns the string representation of the repeat mode.
func (m RepeatMode) String() string {
	switch m {
	case RepeatOff:
		return "off"
	case RepeatAll:
		return "all"
	case RepeatOne:
		return "one"
	default:
		return "unknown"
	}
}

// Next returns the mode following m in the off -> all -> one cycle.
func (m RepeatMode) Next() RepeatMode {
	switch m {
	case RepeatOff:
		return RepeatAll
	case RepeatAll:
		return RepeatOne
	default:
		return RepeatOff
	}
}

// PlayerStatus is the consolidated, observable snapshot of the session.
// It is always replaced wholesale by the session controller, never
// field-mutated in place, so observers cannot see a torn state.
//
// Invariants: -1 <= CurrentIndex < len(Queue); CurrentIndex == -1 iff
// the queue is empty; 0 <= PositionMs <= DurationMs when DurationMs > 0.
type PlayerStatus struct {
	TrackTitle  string
	TrackArtist string
	Artwork     []byte

	IsPlaying   bool
	ShuffleMode bool
	Repeat      RepeatMode
	PauseAtEnd  bool

	DurationMs int64
	PositionMs int64

	Queue        []QueueItem
	CurrentIndex int
	Loading      bool
}

// NewPlayerStatus returns the initial status: empty queue, index -1,
// loading until the first restore completes.
func NewPlayerStatus() PlayerStatus {
	return PlayerStatus{CurrentIndex: -1, Loading: true}
}

// Equal reports whether two snapshots are equivalent for change
// detection. Position is deliberately ignored: it advances continuously
// and would make every comparison a change.
func (s PlayerStatus) Equal(other PlayerStatus) bool {
	if s.IsPlaying != other.IsPlaying ||
		s.Loading != other.Loading ||
		s.ShuffleMode != other.ShuffleMode ||
		s.Repeat != other.Repeat ||
		s.PauseAtEnd != other.PauseAtEnd ||
		s.DurationMs != other.DurationMs ||
		s.CurrentIndex != other.CurrentIndex ||
		s.TrackTitle != other.TrackTitle ||
		s.TrackArtist != other.TrackArtist {
		return false
	}
	if !bytes.Equal(s.Artwork, other.Artwork) {
		return false
	}
	if len(s.Queue) != len(other.Queue) {
		return false
	}
	for i := range s.Queue {
		if s.Queue[i].Location != other.Queue[i].Location ||
			s.Queue[i].Title != other.Queue[i].Title {
			return false
		}
	}
	return true
}
