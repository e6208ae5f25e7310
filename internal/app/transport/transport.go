// Package transport defines the capability interface of the playback
// engine the session controller drives. The engine owns the actual
// queue and emits events; the controller never assumes a command
// succeeded before the matching event arrives.
package transport

import "github.com/Tnxec2/FoplrAudio/internal/domain/media"

// Transport is the playback engine handle.
type Transport interface {
	// Queue commands.
	LoadQueue(items []media.QueueItem, startIndex int, startPositionMs int64) error
	AddItems(items []media.QueueItem) error
	RemoveItem(index int) error
	SelectItem(index int) error

	// Transport commands.
	Play() error
	Pause() error
	Seek(positionMs int64) error
	Next() error
	Previous() error
	SetShuffle(enabled bool) error
	SetRepeatMode(mode media.RepeatMode) error
	SetPauseAtEnd(enabled bool) error

	// Accessors. These reflect the engine's own state, which is the
	// ground truth the controller copies from.
	IsPlaying() bool
	PositionMs() int64
	DurationMs() int64
	CurrentIndex() int
	CurrentItem() (media.QueueItem, bool)
	QueueSnapshot() []media.QueueItem

	// Events returns the event stream. Events arrive in emission order
	// and must be consumed promptly.
	Events() <-chan Event

	// Close detaches the handle and stops event delivery.
	Close()
}

// Connector acquires a transport handle asynchronously. Acquisition may
// fail (engine not running yet); the controller decides the retry
// policy.
type Connector interface {
	Connect() (Transport, error)
}
