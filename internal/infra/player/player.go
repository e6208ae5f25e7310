// Package player provides an in-process playback transport: a
// timer-driven queue engine implementing the transport contract. It
// performs no audio decode; track progress is tracked by wall clock and
// durations come from an optional hook or a fixed default. It exists so
// the engine runs end to end without an external playback service.
package player

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/Tnxec2/FoplrAudio/internal/app/transport"
	"github.com/Tnxec2/FoplrAudio/internal/domain/media"
)

// Errors
var (
	ErrQueueEmpty      = errors.New("queue is empty")
	ErrIndexOutOfRange = errors.New("queue index out of range")
)

// Options configures the player.
type Options struct {
	// DefaultTrackDuration is used when DurationFor is nil or returns 0.
	DefaultTrackDuration time.Duration
	// DurationFor resolves the duration of a queue item, if known.
	DurationFor func(item media.QueueItem) time.Duration
}

// Player is a transport.Transport over an internal queue.
type Player struct {
	mu sync.Mutex

	items []media.QueueItem
	order []int // play order, values are indices into items
	pos   int   // position within order, -1 when queue is empty

	playing    bool
	shuffle    bool
	repeat     media.RepeatMode
	pauseAtEnd bool

	// Position tracking: elapsed accumulates while paused; while
	// playing the live position is elapsed + time since startTime.
	startTime time.Time
	elapsed   time.Duration

	timerCancel func()

	opts    Options
	eventCh chan transport.Event

	ctx       context.Context
	cancel    context.CancelFunc
	closed    bool
	closeOnce sync.Once

	rng *rand.Rand
}

// New creates a stopped player with an empty queue.
func New(opts Options) *Player {
	if opts.DefaultTrackDuration <= 0 {
		opts.DefaultTrackDuration = 3 * time.Minute
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Player{
		items:   make([]media.QueueItem, 0),
		order:   make([]int, 0),
		pos:     -1,
		opts:    opts,
		eventCh: make(chan transport.Event, 16),
		ctx:     ctx,
		cancel:  cancel,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Events returns the event stream.
func (p *Player) Events() <-chan transport.Event {
	return p.eventCh
}

// LoadQueue replaces the queue, positioning on startIndex at
// startPositionMs without starting playback.
func (p *Player) LoadQueue(items []media.QueueItem, startIndex int, startPositionMs int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopTimerLocked()
	p.items = append(p.items[:0:0], items...)
	p.playing = false

	if len(p.items) == 0 {
		p.order = p.order[:0]
		p.pos = -1
		p.elapsed = 0
		p.sendEventLocked(transport.Event{Type: transport.EventQueueChanged})
		return nil
	}

	if startIndex < 0 || startIndex >= len(p.items) {
		startIndex = 0
	}
	p.rebuildOrderLocked(startIndex)
	p.elapsed = time.Duration(startPositionMs) * time.Millisecond
	if p.elapsed < 0 {
		p.elapsed = 0
	}

	p.sendEventLocked(transport.Event{Type: transport.EventQueueChanged})
	p.sendEventLocked(transport.Event{
		Type:   transport.EventCurrentItemChanged,
		Reason: transport.ReasonQueueEdit,
	})
	return nil
}

// AddItems appends items without interrupting playback.
func (p *Player) AddItems(items []media.QueueItem) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(items) == 0 {
		return nil
	}
	wasEmpty := len(p.items) == 0

	base := len(p.items)
	p.items = append(p.items, items...)
	for i := range items {
		p.order = append(p.order, base+i)
	}
	if wasEmpty {
		p.pos = 0
		p.elapsed = 0
	}

	p.sendEventLocked(transport.Event{Type: transport.EventQueueChanged})
	if wasEmpty {
		p.sendEventLocked(transport.Event{
			Type:   transport.EventCurrentItemChanged,
			Reason: transport.ReasonQueueEdit,
		})
	}
	return nil
}

// RemoveItem removes the item at index. Removing the current item
// advances to the following one, or stops when none is left.
func (p *Player) RemoveItem(index int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if index < 0 || index >= len(p.items) {
		return ErrIndexOutOfRange
	}

	current := p.currentIndexLocked()
	p.items = append(p.items[:index], p.items[index+1:]...)

	// Rebuild the order without the removed index, shifting the rest.
	newOrder := p.order[:0]
	for _, idx := range p.order {
		if idx == index {
			continue
		}
		if idx > index {
			idx--
		}
		newOrder = append(newOrder, idx)
	}
	p.order = newOrder

	currentRemoved := current == index
	switch {
	case len(p.items) == 0:
		p.stopTimerLocked()
		p.pos = -1
		p.elapsed = 0
		if p.playing {
			p.playing = false
			p.sendEventLocked(transport.Event{Type: transport.EventPlayingChanged, Playing: false})
		}
	case currentRemoved:
		if p.pos >= len(p.order) {
			p.pos = 0
		}
		p.elapsed = 0
		if p.playing {
			p.restartTimerLocked()
		}
	default:
		// Keep pointing at the same item.
		p.pos = p.orderPositionLocked(shiftIndex(current, index))
	}

	p.sendEventLocked(transport.Event{Type: transport.EventQueueChanged})
	if currentRemoved && len(p.items) > 0 {
		p.sendEventLocked(transport.Event{
			Type:   transport.EventCurrentItemChanged,
			Reason: transport.ReasonQueueEdit,
		})
	}
	return nil
}

// SelectItem jumps to the queue item at index and keeps the current
// playing state.
func (p *Player) SelectItem(index int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if index < 0 || index >= len(p.items) {
		return ErrIndexOutOfRange
	}
	p.pos = p.orderPositionLocked(index)
	p.elapsed = 0
	if p.playing {
		p.restartTimerLocked()
	}
	p.sendEventLocked(transport.Event{
		Type:   transport.EventCurrentItemChanged,
		Reason: transport.ReasonUserSelect,
	})
	return nil
}

// Play starts or resumes playback.
func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.items) == 0 {
		return ErrQueueEmpty
	}
	if p.playing {
		return nil
	}
	p.playing = true
	p.startTime = time.Now()
	p.restartTimerLocked()
	p.sendEventLocked(transport.Event{Type: transport.EventPlayingChanged, Playing: true})
	return nil
}

// Pause pauses playback, keeping the position.
func (p *Player) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.playing {
		return nil
	}
	p.stopTimerLocked()
	p.elapsed += time.Since(p.startTime)
	p.playing = false
	p.sendEventLocked(transport.Event{Type: transport.EventPlayingChanged, Playing: false})
	return nil
}

// Seek moves the position within the current item.
func (p *Player) Seek(positionMs int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.pos < 0 {
		return ErrQueueEmpty
	}
	target := time.Duration(positionMs) * time.Millisecond
	if target < 0 {
		target = 0
	}
	if d := p.currentDurationLocked(); target > d {
		target = d
	}
	p.elapsed = target
	p.startTime = time.Now()
	if p.playing {
		p.restartTimerLocked()
	}
	return nil
}

// Next advances to the following item in play order.
func (p *Player) Next() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.pos < 0 {
		return ErrQueueEmpty
	}
	switch {
	case p.pos+1 < len(p.order):
		p.pos++
	case p.repeat == media.RepeatAll:
		p.pos = 0
	default:
		return nil
	}
	p.elapsed = 0
	p.startTime = time.Now()
	if p.playing {
		p.restartTimerLocked()
	}
	p.sendEventLocked(transport.Event{
		Type:   transport.EventCurrentItemChanged,
		Reason: transport.ReasonUserSelect,
	})
	return nil
}

// Previous goes back one item, or restarts the current one when at the
// head of the play order.
func (p *Player) Previous() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.pos < 0 {
		return ErrQueueEmpty
	}
	changed := true
	switch {
	case p.pos > 0:
		p.pos--
	case p.repeat == media.RepeatAll:
		p.pos = len(p.order) - 1
	default:
		changed = false
	}
	p.elapsed = 0
	p.startTime = time.Now()
	if p.playing {
		p.restartTimerLocked()
	}
	if changed {
		p.sendEventLocked(transport.Event{
			Type:   transport.EventCurrentItemChanged,
			Reason: transport.ReasonUserSelect,
		})
	}
	return nil
}

// SetShuffle rebuilds the play order. The current item stays current.
func (p *Player) SetShuffle(enabled bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.shuffle == enabled {
		return nil
	}
	p.shuffle = enabled
	if current := p.currentIndexLocked(); current >= 0 {
		p.rebuildOrderLocked(current)
	}
	p.sendEventLocked(transport.Event{Type: transport.EventShuffleChanged, Shuffle: enabled})
	return nil
}

// SetRepeatMode sets the repeat behavior.
func (p *Player) SetRepeatMode(mode media.RepeatMode) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.repeat == mode {
		return nil
	}
	p.repeat = mode
	p.sendEventLocked(transport.Event{Type: transport.EventRepeatChanged, Repeat: mode})
	return nil
}

// SetPauseAtEnd controls whether playback pauses when the queue ends
// instead of stopping on the last item.
func (p *Player) SetPauseAtEnd(enabled bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pauseAtEnd = enabled
	return nil
}

// IsPlaying reports whether playback is running.
func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// PositionMs returns the position within the current item.
func (p *Player) PositionMs() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	position := p.elapsed
	if p.playing {
		position += time.Since(p.startTime)
	}
	if d := p.currentDurationLocked(); position > d {
		position = d
	}
	return position.Milliseconds()
}

// DurationMs returns the duration of the current item.
func (p *Player) DurationMs() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.currentDurationLocked().Milliseconds()
}

// CurrentIndex returns the queue index of the current item, -1 when
// the queue is empty.
func (p *Player) CurrentIndex() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.currentIndexLocked()
}

// CurrentItem returns the current item.
func (p *Player) CurrentItem() (media.QueueItem, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	index := p.currentIndexLocked()
	if index < 0 {
		return media.QueueItem{}, false
	}
	return p.items[index], true
}

// QueueSnapshot returns a copy of the queue in display order.
func (p *Player) QueueSnapshot() []media.QueueItem {
	p.mu.Lock()
	defer p.mu.Unlock()

	result := make([]media.QueueItem, len(p.items))
	copy(result, p.items)
	return result
}

// Close stops timers and closes the event stream. Commands issued on a
// retained handle afterwards are accepted but emit no events.
func (p *Player) Close() {
	p.mu.Lock()
	p.stopTimerLocked()
	p.playing = false
	p.closed = true
	p.mu.Unlock()

	p.cancel()
	p.closeOnce.Do(func() { close(p.eventCh) })
}

// onTrackEnd handles a track finishing naturally.
func (p *Player) onTrackEnd() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.playing || p.pos < 0 {
		return
	}

	if p.repeat == media.RepeatOne {
		p.elapsed = 0
		p.startTime = time.Now()
		p.restartTimerLocked()
		p.sendEventLocked(transport.Event{
			Type:   transport.EventCurrentItemChanged,
			Reason: transport.ReasonRepeat,
		})
		return
	}

	atEnd := p.pos+1 >= len(p.order)
	if atEnd && p.repeat != media.RepeatAll {
		// End of queue: stay on the last item, rewound and paused.
		p.stopTimerLocked()
		p.elapsed = 0
		p.playing = false
		zlog.Debug().Msg("player: queue finished")
		p.sendEventLocked(transport.Event{Type: transport.EventPlayingChanged, Playing: false})
		return
	}

	if atEnd {
		p.pos = 0
	} else {
		p.pos++
	}
	p.elapsed = 0
	p.startTime = time.Now()

	wrapped := atEnd
	if wrapped && p.pauseAtEnd {
		p.stopTimerLocked()
		p.playing = false
		p.sendEventLocked(transport.Event{Type: transport.EventPlayingChanged, Playing: false})
	} else {
		p.restartTimerLocked()
	}
	p.sendEventLocked(transport.Event{
		Type:   transport.EventCurrentItemChanged,
		Reason: transport.ReasonAutoAdvance,
	})
}

// rebuildOrderLocked builds the play order with current first when
// shuffling. Must be called with p.mu held.
func (p *Player) rebuildOrderLocked(current int) {
	p.order = p.order[:0]
	for i := range p.items {
		p.order = append(p.order, i)
	}
	if p.shuffle {
		p.rng.Shuffle(len(p.order), func(i, j int) {
			p.order[i], p.order[j] = p.order[j], p.order[i]
		})
		// Move the current item to the head so it keeps playing.
		at := p.orderPositionLocked(current)
		p.order[0], p.order[at] = p.order[at], p.order[0]
		p.pos = 0
		return
	}
	p.pos = current
}

// orderPositionLocked returns the play-order position of a queue index.
// Must be called with p.mu held.
func (p *Player) orderPositionLocked(index int) int {
	for at, idx := range p.order {
		if idx == index {
			return at
		}
	}
	return 0
}

// currentIndexLocked returns the queue index of the current item.
// Must be called with p.mu held.
func (p *Player) currentIndexLocked() int {
	if p.pos < 0 || p.pos >= len(p.order) {
		return -1
	}
	return p.order[p.pos]
}

// currentDurationLocked returns the duration of the current item.
// Must be called with p.mu held.
func (p *Player) currentDurationLocked() time.Duration {
	index := p.currentIndexLocked()
	if index < 0 {
		return 0
	}
	if p.opts.DurationFor != nil {
		if d := p.opts.DurationFor(p.items[index]); d > 0 {
			return d
		}
	}
	return p.opts.DefaultTrackDuration
}

// restartTimerLocked arms the end-of-track timer for the remaining
// duration. Must be called with p.mu held.
func (p *Player) restartTimerLocked() {
	p.stopTimerLocked()

	remaining := p.currentDurationLocked() - p.elapsed
	if p.playing {
		remaining -= time.Since(p.startTime)
	}
	if remaining < 0 {
		remaining = 0
	}

	ctx, cancel := context.WithCancel(p.ctx)
	p.timerCancel = cancel
	go func() {
		timer := time.NewTimer(remaining)
		defer timer.Stop()
		select {
		case <-ctx.Done():
		case <-timer.C:
			p.onTrackEnd()
		}
	}()
}

// stopTimerLocked cancels a pending end-of-track timer. Must be called
// with p.mu held.
func (p *Player) stopTimerLocked() {
	if p.timerCancel != nil {
		p.timerCancel()
		p.timerCancel = nil
	}
}

// sendEventLocked sends an event without blocking. Must be called with
// p.mu held. A closed player drops the event: its channel is gone.
func (p *Player) sendEventLocked(e transport.Event) {
	if p.closed {
		return
	}
	select {
	case p.eventCh <- e:
	case <-p.ctx.Done():
	default:
		zlog.Warn().Msgf("player: event channel full, dropping %s", e.Type)
	}
}

// shiftIndex adjusts a queue index after removal of removed.
func shiftIndex(index, removed int) int {
	if index > removed {
		return index - 1
	}
	return index
}
