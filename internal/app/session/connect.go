package session

import (
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/Tnxec2/FoplrAudio/internal/app/transport"
)

// Connect requests a transport handle. Only one request can be
// outstanding; further calls while one is pending are no-ops, enforced
// by a generation counter on the event loop.
func (c *Controller) Connect() {
	c.post(c.startConnect)
}

func (c *Controller) startConnect() {
	if c.tr != nil || c.connecting {
		return
	}
	c.connecting = true
	c.connectGen++
	gen := c.connectGen
	zlog.Info().Msgf("session: connecting to transport: generation=%d", gen)
	go c.connectAttempt(gen, 0)
}

func (c *Controller) connectAttempt(gen, attempt int) {
	tr, err := c.connector.Connect()

	c.post(func() {
		if gen != c.connectGen || c.tr != nil {
			zlog.Debug().Msgf("session: discarding superseded connect result: generation=%d", gen)
			return
		}

		if err != nil {
			retry := c.cfg.Retry
			if retry.Enabled && attempt+1 < retry.MaxAttempts {
				delay := retry.Backoff << attempt
				zlog.Warn().Msgf("session: transport connect failed (attempt %d/%d), retrying in %v: %v",
					attempt+1, retry.MaxAttempts, delay, err)
				time.AfterFunc(delay, func() {
					c.connectAttempt(gen, attempt+1)
				})
				return
			}
			c.connecting = false
			zlog.Error().Msgf("session: transport connect failed, giving up: %v", err)
			return
		}

		c.connecting = false
		c.attach(tr)
	})
}

// attach wires an acquired transport: subscribes to its events, pushes
// the persisted settings, then either adopts the transport's existing
// queue as ground truth or restores the last persisted queue into it.
func (c *Controller) attach(tr transport.Transport) {
	c.tr = tr
	c.events = tr.Events()
	zlog.Info().Msg("session: transport attached")

	status := c.snapshot()
	if err := tr.SetShuffle(status.ShuffleMode); err != nil {
		zlog.Warn().Msgf("session: failed to push shuffle mode: %v", err)
	}
	if err := tr.SetRepeatMode(status.Repeat); err != nil {
		zlog.Warn().Msgf("session: failed to push repeat mode: %v", err)
	}
	if err := tr.SetPauseAtEnd(status.PauseAtEnd); err != nil {
		zlog.Warn().Msgf("session: failed to push pause-at-end: %v", err)
	}

	if snapshot := tr.QueueSnapshot(); len(snapshot) > 0 {
		// The transport already has a queue; it is the ground truth.
		// Only the index pointer is persisted, no queue rewrite.
		c.suppressQueueSave = true
		c.refreshQueue()
		c.updateCurrentItem()
		status = c.snapshot()
		status.IsPlaying = tr.IsPlaying()
		status.Loading = false
		c.setStatus(status)
		return
	}

	go c.restoreQueue(tr)
}

// restoreQueue loads the persisted queue off the event loop and hands
// it to the transport, preserving the persisted current index.
func (c *Controller) restoreQueue(tr transport.Transport) {
	items := c.store.LoadQueue()
	index := c.store.LoadQueueIndex()

	c.post(func() {
		if c.tr != tr {
			return
		}
		if len(items) > 0 {
			if index < 0 || index >= len(items) {
				index = 0
			}
			// The resulting queue-changed event is the state we just
			// loaded; skip the redundant full-queue write.
			c.suppressQueueSave = true
			if err := tr.LoadQueue(items, index, 0); err != nil {
				zlog.Error().Msgf("session: failed to restore queue: %v", err)
				c.suppressQueueSave = false
			}
			zlog.Info().Msgf("session: restored queue: items=%d index=%d", len(items), index)
		}
		c.setLoading(false)
	})
}
