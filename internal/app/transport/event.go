package transport

import "github.com/Tnxec2/FoplrAudio/internal/domain/media"

// EventType represents a transport event type.
type EventType int

const (
	EventPlayingChanged     EventType = iota // Playback started or stopped
	EventCurrentItemChanged                  // The current item changed
	EventQueueChanged                        // The queue contents changed
	EventShuffleChanged                      // Shuffle mode changed
	EventRepeatChanged                       // Repeat mode changed
)

// String returns the string representation of the event type.
func (e EventType) String() string {
	switch e {
	case EventPlayingChanged:
		return "playing_changed"
	case EventCurrentItemChanged:
		return "current_item_changed"
	case EventQueueChanged:
		return "queue_changed"
	case EventShuffleChanged:
		return "shuffle_changed"
	case EventRepeatChanged:
		return "repeat_changed"
	default:
		return "unknown"
	}
}

// ItemChangeReason is the closed set of causes for a current-item
// transition.
type ItemChangeReason int

const (
	ReasonAutoAdvance ItemChangeReason = iota // Previous item finished
	ReasonUserSelect                          // Explicit select/skip/seek
	ReasonQueueEdit                           // Queue was rewritten or edited
	ReasonRepeat                              // Single-item repeat restarted
)

// String returns the string representation of the reason.
func (r ItemChangeReason) String() string {
	switch r {
	case ReasonAutoAdvance:
		return "auto_advance"
	case ReasonUserSelect:
		return "user_select"
	case ReasonQueueEdit:
		return "queue_edit"
	case ReasonRepeat:
		return "repeat"
	default:
		return "unknown"
	}
}

// Event represents a transport event.
type Event struct {
	Type    EventType
	Reason  ItemChangeReason // Set for EventCurrentItemChanged
	Playing bool             // Set for EventPlayingChanged
	Shuffle bool             // Set for EventShuffleChanged
	Repeat  media.RepeatMode // Set for EventRepeatChanged
}
