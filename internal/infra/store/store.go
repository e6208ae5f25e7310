// Package store provides durable key-value persistence for session
// state, backed by a single JSON file. Writes are last-write-wins; each
// key holds an independently recoverable facet of state, so no
// transactional grouping across keys is needed.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/Tnxec2/FoplrAudio/internal/domain/media"
)

// Persisted keys, one per concern.
const (
	keyPlaces     = "media_places"
	keyPathStack  = "path_stack"
	keyQueue      = "last_queue"
	keyQueueIndex = "last_queue_index"
	keyShuffle    = "shuffle_mode"
	keyRepeat     = "repeat_mode"
	keyPauseAtEnd = "pause_at_end"
)

// Store is a JSON-file-backed key-value store.
type Store struct {
	mu   sync.Mutex
	path string
	data map[string]json.RawMessage
}

// Open loads the store file at path, creating parent directories as
// needed. A missing file yields an empty store; a corrupt file is
// discarded with a warning rather than blocking startup.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create store directory")
	}

	s := &Store{
		path: path,
		data: make(map[string]json.RawMessage),
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, errors.Wrap(err, "failed to read store file")
	}

	if err := json.Unmarshal(raw, &s.data); err != nil {
		zlog.Warn().Msgf("store: discarding corrupt state file %s: %v", path, err)
		s.data = make(map[string]json.RawMessage)
	}
	return s, nil
}

// Put stores value under key and flushes the file. Flush errors are
// logged and swallowed: persistence is fire-and-forget for callers.
func (s *Store) Put(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(value)
	if err != nil {
		zlog.Error().Msgf("store: failed to encode key %s: %v", key, err)
		return
	}
	s.data[key] = raw
	s.flushLocked()
}

// Get decodes the value under key into out. Returns false if the key is
// absent or the stored value cannot be decoded.
func (s *Store) Get(key string, out any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.data[key]
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		zlog.Warn().Msgf("store: failed to decode key %s: %v", key, err)
		return false
	}
	return true
}

// Delete removes key and flushes the file. No-op if the key is absent.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[key]; !ok {
		return
	}
	delete(s.data, key)
	s.flushLocked()
}

// flushLocked writes the whole store atomically (temp file + rename).
// Must be called with s.mu held.
func (s *Store) flushLocked() {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		zlog.Error().Msgf("store: failed to encode state: %v", err)
		return
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		zlog.Error().Msgf("store: failed to write state file: %v", err)
		return
	}
	if err := os.Rename(tmp, s.path); err != nil {
		zlog.Error().Msgf("store: failed to replace state file: %v", err)
	}
}

// SavePlaces persists the bookmarked places list.
func (s *Store) SavePlaces(places []media.Place) {
	s.Put(keyPlaces, places)
}

// LoadPlaces returns the persisted places, or an empty list.
func (s *Store) LoadPlaces() []media.Place {
	var places []media.Place
	if !s.Get(keyPlaces, &places) || places == nil {
		return []media.Place{}
	}
	return places
}

// SavePathStack persists the breadcrumb stack, oldest first.
func (s *Store) SavePathStack(stack []media.FileItem) {
	s.Put(keyPathStack, stack)
}

// LoadPathStack returns the persisted breadcrumb stack, or an empty one.
func (s *Store) LoadPathStack() []media.FileItem {
	var stack []media.FileItem
	if !s.Get(keyPathStack, &stack) || stack == nil {
		return []media.FileItem{}
	}
	return stack
}

// ClearPathStack removes the persisted breadcrumb stack.
func (s *Store) ClearPathStack() {
	s.Delete(keyPathStack)
}

// SaveQueue persists the full queue as an ordered list.
func (s *Store) SaveQueue(items []media.QueueItem) {
	s.Put(keyQueue, items)
}

// LoadQueue returns the persisted queue, or an empty one.
func (s *Store) LoadQueue() []media.QueueItem {
	var items []media.QueueItem
	if !s.Get(keyQueue, &items) || items == nil {
		return []media.QueueItem{}
	}
	return items
}

// SaveQueueIndex persists the current queue index.
func (s *Store) SaveQueueIndex(index int) {
	s.Put(keyQueueIndex, index)
}

// LoadQueueIndex returns the persisted queue index, defaulting to -1.
func (s *Store) LoadQueueIndex() int {
	index := -1
	if !s.Get(keyQueueIndex, &index) {
		return -1
	}
	return index
}

// SaveShuffle persists the shuffle flag.
func (s *Store) SaveShuffle(enabled bool) {
	s.Put(keyShuffle, enabled)
}

// LoadShuffle returns the persisted shuffle flag, defaulting to false.
func (s *Store) LoadShuffle() bool {
	var enabled bool
	s.Get(keyShuffle, &enabled)
	return enabled
}

// SaveRepeat persists the repeat mode.
func (s *Store) SaveRepeat(mode media.RepeatMode) {
	s.Put(keyRepeat, int(mode))
}

// LoadRepeat returns the persisted repeat mode, defaulting to off.
// Out-of-range stored values also resolve to off.
func (s *Store) LoadRepeat() media.RepeatMode {
	var mode int
	if !s.Get(keyRepeat, &mode) {
		return media.RepeatOff
	}
	if mode < int(media.RepeatOff) || mode > int(media.RepeatOne) {
		return media.RepeatOff
	}
	return media.RepeatMode(mode)
}

// SavePauseAtEnd persists the pause-at-end-of-queue flag.
func (s *Store) SavePauseAtEnd(enabled bool) {
	s.Put(keyPauseAtEnd, enabled)
}

// LoadPauseAtEnd returns the persisted pause-at-end flag, defaulting to
// false.
func (s *Store) LoadPauseAtEnd() bool {
	var enabled bool
	s.Get(keyPauseAtEnd, &enabled)
	return enabled
}
