// Package session provides the session controller: the single owner of
// the observable player state. It reconciles durable state from a
// previous run, live transport events and user navigation, and drives
// persistence. All state mutation happens on one event loop; transport
// events, user operations and background completions are messages
// processed strictly in order.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/Tnxec2/FoplrAudio/internal/app/browse"
	"github.com/Tnxec2/FoplrAudio/internal/app/navigation"
	"github.com/Tnxec2/FoplrAudio/internal/app/places"
	"github.com/Tnxec2/FoplrAudio/internal/app/queue"
	"github.com/Tnxec2/FoplrAudio/internal/app/storage"
	"github.com/Tnxec2/FoplrAudio/internal/app/transport"
	"github.com/Tnxec2/FoplrAudio/internal/domain/media"
)

// Store is the persistence surface the controller needs.
type Store interface {
	SavePathStack(stack []media.FileItem)
	LoadPathStack() []media.FileItem
	ClearPathStack()
	SaveQueue(items []media.QueueItem)
	LoadQueue() []media.QueueItem
	SaveQueueIndex(index int)
	LoadQueueIndex() int
	SaveShuffle(enabled bool)
	LoadShuffle() bool
	SaveRepeat(mode media.RepeatMode)
	LoadRepeat() media.RepeatMode
	SavePauseAtEnd(enabled bool)
	LoadPauseAtEnd() bool
}

// RetryPolicy controls automatic transport reconnection.
type RetryPolicy struct {
	Enabled     bool
	MaxAttempts int
	Backoff     time.Duration // base delay, doubled per attempt
}

// Config holds controller configuration.
type Config struct {
	TickInterval time.Duration // position refresh interval
	Retry        RetryPolicy
}

// Controller is the session controller.
type Controller struct {
	cfg       Config
	sessionID string

	store     Store
	provider  storage.Provider
	browser   *browse.Browser
	resolver  queue.Resolver
	registry  *places.Registry
	stack     *navigation.Stack
	connector transport.Connector

	// Observable snapshot state, replaced wholesale under mu.
	mu           sync.RWMutex
	status       media.PlayerStatus
	currentFiles []media.FileItem
	breadcrumbs  []media.FileItem
	showPlaylist bool

	// Event-loop-owned state. Touched only from run().
	tr                transport.Transport
	events            <-chan transport.Event
	connecting        bool
	connectGen        int
	browseGen         uint64
	suppressQueueSave bool

	tasks   chan func()
	updates chan struct{}
	notices chan Notice

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a controller with its initial status restored from the
// store: persisted settings applied, empty queue, loading until the
// first restore completes.
func New(
	cfg Config,
	store Store,
	provider storage.Provider,
	browser *browse.Browser,
	resolver queue.Resolver,
	registry *places.Registry,
	connector transport.Connector,
) *Controller {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = 500 * time.Millisecond
	}

	status := media.NewPlayerStatus()
	status.ShuffleMode = store.LoadShuffle()
	status.Repeat = store.LoadRepeat()
	status.PauseAtEnd = store.LoadPauseAtEnd()

	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		cfg:       cfg,
		sessionID: uuid.New().String(),
		store:     store,
		provider:  provider,
		browser:   browser,
		resolver:  resolver,
		registry:  registry,
		stack:     navigation.NewStack(),
		connector: connector,
		status:    status,
		tasks:     make(chan func(), 32),
		updates:   make(chan struct{}, 1),
		notices:   make(chan Notice, 8),
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
}

// Start launches the event loop, restores the breadcrumb stack and
// begins connecting to the transport.
func (c *Controller) Start() {
	zlog.Info().Msgf("session: starting: session_id=%s", c.sessionID)
	go c.run()
	c.restoreNavigation()
	c.Connect()
}

// Close stops the event loop and detaches from the transport.
func (c *Controller) Close() {
	c.cancel()
	<-c.done
	zlog.Info().Msgf("session: stopped: session_id=%s", c.sessionID)
}

// Done returns a channel closed when the controller has stopped.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// Status returns the current player snapshot.
func (c *Controller) Status() media.PlayerStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

// CurrentFiles returns the listing of the currently open folder.
func (c *Controller) CurrentFiles() []media.FileItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]media.FileItem, len(c.currentFiles))
	copy(result, c.currentFiles)
	return result
}

// Breadcrumbs returns the visited-folder stack, oldest first.
func (c *Controller) Breadcrumbs() []media.FileItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]media.FileItem, len(c.breadcrumbs))
	copy(result, c.breadcrumbs)
	return result
}

// Places returns the bookmarked places.
func (c *Controller) Places() []media.Place {
	return c.registry.List()
}

// ShowPlaylist reports whether the playlist overlay is visible.
func (c *Controller) ShowPlaylist() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.showPlaylist
}

// Updates returns a coalescing signal channel; receive then read
// Status and the view accessors.
func (c *Controller) Updates() <-chan struct{} {
	return c.updates
}

// Notices returns the stream of transient user-visible notices.
func (c *Controller) Notices() <-chan Notice {
	return c.notices
}

// run is the single-consumer event loop. Every state mutation happens
// here, which serializes transport events against user operations
// without further locking.
func (c *Controller) run() {
	defer func() {
		if r := recover(); r != nil {
			zlog.Error().Msgf("session: event loop panicked: %v", r)
			go c.run()
			return
		}
		if c.tr != nil {
			c.tr.Close()
			c.tr = nil
		}
		close(c.done)
	}()

	ticker := time.NewTicker(c.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case task := <-c.tasks:
			task()
		case ev, ok := <-c.events:
			if !ok {
				c.events = nil
				continue
			}
			c.handleTransportEvent(ev)
		case <-ticker.C:
			c.handleTick()
		}
	}
}

// post schedules a task on the event loop.
func (c *Controller) post(task func()) {
	select {
	case c.tasks <- task:
	case <-c.ctx.Done():
	}
}

// snapshot returns the current status for copy-on-write mutation.
func (c *Controller) snapshot() media.PlayerStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

// setStatus replaces the snapshot wholesale and signals observers when
// anything they can see actually changed.
func (c *Controller) setStatus(status media.PlayerStatus) {
	c.mu.Lock()
	changed := !c.status.Equal(status) || c.status.PositionMs != status.PositionMs
	c.status = status
	c.mu.Unlock()
	if changed {
		c.signalUpdate()
	}
}

func (c *Controller) setCurrentFiles(files []media.FileItem) {
	c.mu.Lock()
	c.currentFiles = files
	c.mu.Unlock()
	c.signalUpdate()
}

func (c *Controller) setBreadcrumbs(items []media.FileItem) {
	c.mu.Lock()
	c.breadcrumbs = items
	c.mu.Unlock()
	c.signalUpdate()
}

func (c *Controller) setShowPlaylist(visible bool) {
	c.mu.Lock()
	c.showPlaylist = visible
	c.mu.Unlock()
	c.signalUpdate()
}

func (c *Controller) signalUpdate() {
	select {
	case c.updates <- struct{}{}:
	default:
	}
}

func (c *Controller) notify(n Notice) {
	zlog.Info().Msgf("session: notice: code=%s message=%s", n.Code, n.Message)
	select {
	case c.notices <- n:
	default:
	}
}

// handleTransportEvent processes one transport event. A current-item
// change re-derives track info first, then re-evaluates the queue, so
// the queue snapshot always happens-after the index update of the same
// event.
func (c *Controller) handleTransportEvent(ev transport.Event) {
	zlog.Debug().Msgf("session: transport event: type=%s", ev.Type)

	switch ev.Type {
	case transport.EventPlayingChanged:
		status := c.snapshot()
		status.IsPlaying = ev.Playing
		c.setStatus(status)

	case transport.EventCurrentItemChanged:
		c.updateCurrentItem()
		c.refreshQueue()

	case transport.EventQueueChanged:
		c.refreshQueue()

	case transport.EventShuffleChanged:
		status := c.snapshot()
		status.ShuffleMode = ev.Shuffle
		c.setStatus(status)
		c.store.SaveShuffle(ev.Shuffle)

	case transport.EventRepeatChanged:
		status := c.snapshot()
		status.Repeat = ev.Repeat
		c.setStatus(status)
		c.store.SaveRepeat(ev.Repeat)
	}
}

// updateCurrentItem re-derives track metadata, duration and index from
// the transport's current item. Position restarts at zero.
func (c *Controller) updateCurrentItem() {
	if c.tr == nil {
		return
	}
	status := c.snapshot()
	if item, ok := c.tr.CurrentItem(); ok {
		status.TrackTitle = item.Title
		status.TrackArtist = item.Artist
		status.Artwork = item.Artwork
	} else {
		status.TrackTitle = ""
		status.TrackArtist = ""
		status.Artwork = nil
	}
	status.DurationMs = c.tr.DurationMs()
	status.PositionMs = 0
	status.CurrentIndex = c.tr.CurrentIndex()
	c.setStatus(status)
}

// refreshQueue re-snapshots the transport queue. The full queue is
// persisted only when the ordered locations differ from the previous
// snapshot; the current-index pointer is persisted every time, since it
// changes on every track advance while full-queue changes are rare.
func (c *Controller) refreshQueue() {
	if c.tr == nil {
		return
	}

	items := c.tr.QueueSnapshot()
	index := c.tr.CurrentIndex()
	if len(items) == 0 {
		index = -1
	} else if index < 0 || index >= len(items) {
		index = 0
	}

	status := c.snapshot()
	if !media.SameQueue(status.Queue, items) {
		status.Queue = items
		status.CurrentIndex = index
		c.setStatus(status)
		if !c.suppressQueueSave {
			c.store.SaveQueue(items)
		}
	} else if status.CurrentIndex != index {
		status.CurrentIndex = index
		c.setStatus(status)
	}
	c.suppressQueueSave = false
	c.store.SaveQueueIndex(index)
}

// handleTick refreshes position and duration while the transport plays.
// This is the only polled state: position changes continuously and is
// not worth an event per tick.
func (c *Controller) handleTick() {
	if c.tr == nil || !c.tr.IsPlaying() {
		return
	}
	status := c.snapshot()
	status.PositionMs = c.tr.PositionMs()
	status.DurationMs = c.tr.DurationMs()
	c.setStatus(status)
}

func (c *Controller) setLoading(loading bool) {
	status := c.snapshot()
	if status.Loading == loading {
		return
	}
	status.Loading = loading
	c.setStatus(status)
}
