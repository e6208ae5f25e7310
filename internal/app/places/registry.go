// Package places manages the bookmarked root storage locations.
package places

import (
	"sync"

	zlog "github.com/rs/zerolog/log"

	"github.com/Tnxec2/FoplrAudio/internal/app/storage"
	"github.com/Tnxec2/FoplrAudio/internal/domain/media"
)

// Store is the persistence surface the registry needs.
type Store interface {
	SavePlaces(places []media.Place)
	LoadPlaces() []media.Place
}

// Registry is the in-memory bookmark list backed by the store.
type Registry struct {
	mu       sync.Mutex
	store    Store
	provider storage.Provider
	places   []media.Place
}

// NewRegistry creates a registry seeded from the persisted list.
func NewRegistry(store Store, provider storage.Provider) *Registry {
	return &Registry{
		store:    store,
		provider: provider,
		places:   store.LoadPlaces(),
	}
}

// Add appends a place if its location is not already bookmarked, then
// persists the full list. Returns false without a persistence write
// when the location is already present. The access grant must have
// been requested by the caller before Add.
func (r *Registry) Add(location, displayName string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.places {
		if p.Location == location {
			return false
		}
	}
	r.places = append(r.places, media.Place{Location: location, DisplayName: displayName})
	r.store.SavePlaces(r.places)
	return true
}

// Remove removes a place by value, persists the remaining list and
// revokes the provider grant. Revoke failures are logged and
// swallowed: a bookmark must never become un-removable because of a
// transient permission error. No-op when the place is not present.
func (r *Registry) Remove(place media.Place) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	index := -1
	for i, p := range r.places {
		if p == place {
			index = i
			break
		}
	}
	if index < 0 {
		return false
	}

	r.places = append(r.places[:index], r.places[index+1:]...)
	r.store.SavePlaces(r.places)

	if err := r.provider.RevokeAccess(place.Location); err != nil {
		zlog.Warn().Msgf("places: failed to revoke access for %s: %v", place.Location, err)
	}
	return true
}

// List returns a copy of the cached list. It never touches the store.
func (r *Registry) List() []media.Place {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]media.Place, len(r.places))
	copy(result, r.places)
	return result
}
