package player

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tnxec2/FoplrAudio/internal/app/transport"
	"github.com/Tnxec2/FoplrAudio/internal/domain/media"
)

func testQueue(n int) []media.QueueItem {
	items := make([]media.QueueItem, n)
	for i := range items {
		items[i] = media.QueueItem{
			Location: string(rune('a'+i)) + ".mp3",
			Title:    string(rune('A' + i)),
		}
	}
	return items
}

// drainEvents empties the pending event buffer.
func drainEvents(p *Player) []transport.Event {
	var events []transport.Event
	for {
		select {
		case e := <-p.Events():
			events = append(events, e)
		default:
			return events
		}
	}
}

func newTestPlayer(t *testing.T, opts Options) *Player {
	t.Helper()
	p := New(opts)
	t.Cleanup(p.Close)
	return p
}

func TestPlayer_LoadQueue(t *testing.T) {
	p := newTestPlayer(t, Options{})

	require.NoError(t, p.LoadQueue(testQueue(3), 1, 0))
	assert.Equal(t, 1, p.CurrentIndex())
	assert.False(t, p.IsPlaying())

	item, ok := p.CurrentItem()
	require.True(t, ok)
	assert.Equal(t, "B", item.Title)

	events := drainEvents(p)
	require.Len(t, events, 2)
	assert.Equal(t, transport.EventQueueChanged, events[0].Type)
	assert.Equal(t, transport.EventCurrentItemChanged, events[1].Type)
	assert.Equal(t, transport.ReasonQueueEdit, events[1].Reason)
}

func TestPlayer_LoadQueueClampsIndex(t *testing.T) {
	p := newTestPlayer(t, Options{})

	require.NoError(t, p.LoadQueue(testQueue(2), 7, 0))
	assert.Equal(t, 0, p.CurrentIndex())

	require.NoError(t, p.LoadQueue(nil, 0, 0))
	assert.Equal(t, -1, p.CurrentIndex())
	_, ok := p.CurrentItem()
	assert.False(t, ok)
}

func TestPlayer_LoadQueueRestoresPosition(t *testing.T) {
	p := newTestPlayer(t, Options{})

	require.NoError(t, p.LoadQueue(testQueue(1), 0, 42_000))
	assert.Equal(t, int64(42_000), p.PositionMs())
}

func TestPlayer_PlayPause(t *testing.T) {
	p := newTestPlayer(t, Options{})

	assert.ErrorIs(t, p.Play(), ErrQueueEmpty)

	require.NoError(t, p.LoadQueue(testQueue(2), 0, 0))
	drainEvents(p)

	require.NoError(t, p.Play())
	assert.True(t, p.IsPlaying())

	require.NoError(t, p.Pause())
	assert.False(t, p.IsPlaying())

	events := drainEvents(p)
	require.Len(t, events, 2)
	assert.Equal(t, transport.EventPlayingChanged, events[0].Type)
	assert.True(t, events[0].Playing)
	assert.Equal(t, transport.EventPlayingChanged, events[1].Type)
	assert.False(t, events[1].Playing)
}

func TestPlayer_NextPrevious(t *testing.T) {
	tests := []struct {
		name      string
		repeat    media.RepeatMode
		start     int
		op        func(p *Player) error
		wantIndex int
	}{
		{name: "next advances", repeat: media.RepeatOff, start: 0, op: (*Player).Next, wantIndex: 1},
		{name: "next at end stays", repeat: media.RepeatOff, start: 2, op: (*Player).Next, wantIndex: 2},
		{name: "next at end wraps on repeat all", repeat: media.RepeatAll, start: 2, op: (*Player).Next, wantIndex: 0},
		{name: "previous goes back", repeat: media.RepeatOff, start: 1, op: (*Player).Previous, wantIndex: 0},
		{name: "previous at head stays", repeat: media.RepeatOff, start: 0, op: (*Player).Previous, wantIndex: 0},
		{name: "previous at head wraps on repeat all", repeat: media.RepeatAll, start: 0, op: (*Player).Previous, wantIndex: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPlayer(t, Options{})
			require.NoError(t, p.LoadQueue(testQueue(3), tt.start, 0))
			require.NoError(t, p.SetRepeatMode(tt.repeat))

			require.NoError(t, tt.op(p))
			assert.Equal(t, tt.wantIndex, p.CurrentIndex())
		})
	}
}

func TestPlayer_SelectItem(t *testing.T) {
	p := newTestPlayer(t, Options{})
	require.NoError(t, p.LoadQueue(testQueue(3), 0, 0))
	drainEvents(p)

	assert.ErrorIs(t, p.SelectItem(3), ErrIndexOutOfRange)
	assert.ErrorIs(t, p.SelectItem(-1), ErrIndexOutOfRange)

	require.NoError(t, p.SelectItem(2))
	assert.Equal(t, 2, p.CurrentIndex())

	events := drainEvents(p)
	require.Len(t, events, 1)
	assert.Equal(t, transport.EventCurrentItemChanged, events[0].Type)
	assert.Equal(t, transport.ReasonUserSelect, events[0].Reason)
}

func TestPlayer_RemoveItem(t *testing.T) {
	t.Run("before current keeps item", func(t *testing.T) {
		p := newTestPlayer(t, Options{})
		require.NoError(t, p.LoadQueue(testQueue(3), 2, 0))

		require.NoError(t, p.RemoveItem(0))
		assert.Equal(t, 1, p.CurrentIndex())
		item, _ := p.CurrentItem()
		assert.Equal(t, "C", item.Title)
	})

	t.Run("current advances to next", func(t *testing.T) {
		p := newTestPlayer(t, Options{})
		require.NoError(t, p.LoadQueue(testQueue(3), 1, 0))

		require.NoError(t, p.RemoveItem(1))
		item, _ := p.CurrentItem()
		assert.Equal(t, "C", item.Title)
	})

	t.Run("last item empties queue", func(t *testing.T) {
		p := newTestPlayer(t, Options{})
		require.NoError(t, p.LoadQueue(testQueue(1), 0, 0))
		require.NoError(t, p.Play())

		require.NoError(t, p.RemoveItem(0))
		assert.Equal(t, -1, p.CurrentIndex())
		assert.False(t, p.IsPlaying())
	})

	t.Run("out of range", func(t *testing.T) {
		p := newTestPlayer(t, Options{})
		require.NoError(t, p.LoadQueue(testQueue(1), 0, 0))
		assert.ErrorIs(t, p.RemoveItem(5), ErrIndexOutOfRange)
	})
}

func TestPlayer_AddItems(t *testing.T) {
	p := newTestPlayer(t, Options{})

	require.NoError(t, p.AddItems(testQueue(2)))
	assert.Equal(t, 0, p.CurrentIndex())
	assert.Len(t, p.QueueSnapshot(), 2)

	require.NoError(t, p.AddItems(testQueue(3)[2:]))
	assert.Equal(t, 0, p.CurrentIndex(), "appending must not move the current item")
	assert.Len(t, p.QueueSnapshot(), 3)
}

func TestPlayer_SetShuffleKeepsCurrent(t *testing.T) {
	p := newTestPlayer(t, Options{})
	require.NoError(t, p.LoadQueue(testQueue(8), 5, 0))
	drainEvents(p)

	require.NoError(t, p.SetShuffle(true))
	assert.Equal(t, 5, p.CurrentIndex())

	events := drainEvents(p)
	require.Len(t, events, 1)
	assert.Equal(t, transport.EventShuffleChanged, events[0].Type)
	assert.True(t, events[0].Shuffle)

	// Every queue index appears exactly once in the snapshot.
	assert.Len(t, p.QueueSnapshot(), 8)

	require.NoError(t, p.SetShuffle(false))
	assert.Equal(t, 5, p.CurrentIndex())
}

func TestPlayer_AutoAdvance(t *testing.T) {
	p := newTestPlayer(t, Options{
		DurationFor: func(media.QueueItem) time.Duration { return 20 * time.Millisecond },
	})
	require.NoError(t, p.LoadQueue(testQueue(2), 0, 0))
	drainEvents(p)
	require.NoError(t, p.Play())

	require.Eventually(t, func() bool {
		return p.CurrentIndex() == 1
	}, 2*time.Second, 5*time.Millisecond)
	assert.True(t, p.IsPlaying())
}

func TestPlayer_EndOfQueueStops(t *testing.T) {
	p := newTestPlayer(t, Options{
		DurationFor: func(media.QueueItem) time.Duration { return 20 * time.Millisecond },
	})
	require.NoError(t, p.LoadQueue(testQueue(1), 0, 0))
	require.NoError(t, p.Play())

	require.Eventually(t, func() bool {
		return !p.IsPlaying()
	}, 2*time.Second, 5*time.Millisecond)

	// Rewound to the start of the last item, not past it.
	assert.Equal(t, 0, p.CurrentIndex())
	assert.Equal(t, int64(0), p.PositionMs())
}

func TestPlayer_RepeatOneRestarts(t *testing.T) {
	p := newTestPlayer(t, Options{
		DurationFor: func(media.QueueItem) time.Duration { return 20 * time.Millisecond },
	})
	require.NoError(t, p.LoadQueue(testQueue(2), 0, 0))
	require.NoError(t, p.SetRepeatMode(media.RepeatOne))
	drainEvents(p)
	require.NoError(t, p.Play())

	require.Eventually(t, func() bool {
		for _, e := range drainEvents(p) {
			if e.Type == transport.EventCurrentItemChanged && e.Reason == transport.ReasonRepeat {
				return true
			}
		}
		return false
	}, 2*time.Second, 5*time.Millisecond)

	assert.Equal(t, 0, p.CurrentIndex())
	assert.True(t, p.IsPlaying())
}

func TestPlayer_PauseAtEndOfQueueWrap(t *testing.T) {
	p := newTestPlayer(t, Options{
		DurationFor: func(media.QueueItem) time.Duration { return 20 * time.Millisecond },
	})
	require.NoError(t, p.LoadQueue(testQueue(2), 1, 0))
	require.NoError(t, p.SetRepeatMode(media.RepeatAll))
	require.NoError(t, p.SetPauseAtEnd(true))
	require.NoError(t, p.Play())

	// The queue wraps back to the head but playback pauses there.
	require.Eventually(t, func() bool {
		return !p.IsPlaying()
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, p.CurrentIndex())
}

func TestPlayer_Seek(t *testing.T) {
	p := newTestPlayer(t, Options{DefaultTrackDuration: 10 * time.Second})

	assert.ErrorIs(t, p.Seek(1000), ErrQueueEmpty)

	require.NoError(t, p.LoadQueue(testQueue(1), 0, 0))

	require.NoError(t, p.Seek(4000))
	assert.Equal(t, int64(4000), p.PositionMs())

	// Clamped to track bounds.
	require.NoError(t, p.Seek(-100))
	assert.Equal(t, int64(0), p.PositionMs())
	require.NoError(t, p.Seek(60_000))
	assert.Equal(t, int64(10_000), p.PositionMs())
}

func TestPlayer_CommandsAfterClose(t *testing.T) {
	p := New(Options{})
	require.NoError(t, p.LoadQueue(testQueue(2), 0, 0))
	p.Close()

	// A retained handle stays safe to use; events are simply dropped.
	assert.NotPanics(t, func() {
		_ = p.Play()
		_ = p.Next()
		_ = p.SetShuffle(true)
		_ = p.LoadQueue(testQueue(1), 0, 0)
		p.Close()
	})
}

func TestPlayer_DurationFallback(t *testing.T) {
	p := newTestPlayer(t, Options{DefaultTrackDuration: 7 * time.Second})
	require.NoError(t, p.LoadQueue(testQueue(1), 0, 0))
	assert.Equal(t, int64(7000), p.DurationMs())
}
