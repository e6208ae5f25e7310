// Package localfs implements the storage provider over the local
// filesystem. Location tokens are absolute paths; access grants are
// bookkeeping recorded in the persistence store so that removing a
// bookmark releases its grant the same way a real capability system
// would.
package localfs

import (
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"

	"github.com/Tnxec2/FoplrAudio/internal/app/storage"
)

const grantsKey = "access_grants"

// GrantStore persists the set of granted locations.
type GrantStore interface {
	Put(key string, value any)
	Get(key string, out any) bool
}

// Settings configures the local provider.
type Settings struct {
	// Root restricts enumeration to paths under this directory.
	// Empty means no restriction.
	Root string `yaml:"root" mapstructure:"root"`
	// FollowSymlinks controls whether symlinked entries are listed.
	FollowSymlinks bool `yaml:"follow_symlinks" mapstructure:"follow_symlinks" default:"false"`
}

// Provider is a storage.Provider over the local disk.
type Provider struct {
	mu       sync.Mutex
	settings Settings
	store    GrantStore
	grants   map[string]struct{}
}

// New creates a provider from an opaque settings map.
func New(settings map[string]any, store GrantStore) (*Provider, error) {
	var cfg Settings
	if err := mapstructure.Decode(settings, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to decode settings")
	}
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, errors.Wrap(err, "validation failed")
	}
	if cfg.Root != "" {
		abs, err := filepath.Abs(cfg.Root)
		if err != nil {
			return nil, errors.Wrap(err, "failed to resolve root")
		}
		cfg.Root = abs
	}

	p := &Provider{
		settings: cfg,
		store:    store,
		grants:   make(map[string]struct{}),
	}

	var granted []string
	if store != nil && store.Get(grantsKey, &granted) {
		for _, g := range granted {
			p.grants[g] = struct{}{}
		}
	}
	return p, nil
}

// List returns the children of location, tagged with a media type
// guessed from the file extension.
func (p *Provider) List(location string) ([]storage.Entry, error) {
	if !p.inRoot(location) {
		return nil, errors.Newf("location outside provider root: %s", location)
	}

	dirEntries, err := os.ReadDir(location)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list %s", location)
	}

	entries := make([]storage.Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		if !p.settings.FollowSymlinks && de.Type()&os.ModeSymlink != 0 {
			continue
		}
		entries = append(entries, storage.Entry{
			Name:        de.Name(),
			Location:    filepath.Join(location, de.Name()),
			IsDirectory: de.IsDir(),
			MediaType:   mime.TypeByExtension(strings.ToLower(filepath.Ext(de.Name()))),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// GrantAccess records a durable grant for location.
func (p *Provider) GrantAccess(location string) error {
	if !p.inRoot(location) {
		return errors.Newf("location outside provider root: %s", location)
	}
	if _, err := os.Stat(location); err != nil {
		return errors.Wrapf(err, "location not readable: %s", location)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.grants[location] = struct{}{}
	p.saveGrantsLocked()
	return nil
}

// RevokeAccess releases the grant for location.
func (p *Provider) RevokeAccess(location string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.grants[location]; !ok {
		return nil
	}
	delete(p.grants, location)
	p.saveGrantsLocked()
	return nil
}

// CanRead reports whether location is inside the root and readable.
func (p *Provider) CanRead(location string) bool {
	if !p.inRoot(location) {
		return false
	}
	info, err := os.Stat(location)
	if err != nil {
		return false
	}
	if info.IsDir() {
		f, err := os.Open(location)
		if err != nil {
			return false
		}
		_ = f.Close()
	}
	return true
}

func (p *Provider) inRoot(location string) bool {
	if p.settings.Root == "" {
		return true
	}
	rel, err := filepath.Rel(p.settings.Root, location)
	if err != nil {
		return false
	}
	return rel == "." || (!strings.HasPrefix(rel, "..") && !filepath.IsAbs(rel))
}

// saveGrantsLocked persists the grant set. Must be called with p.mu
// held.
func (p *Provider) saveGrantsLocked() {
	if p.store == nil {
		return
	}
	granted := make([]string, 0, len(p.grants))
	for g := range p.grants {
		granted = append(granted, g)
	}
	sort.Strings(granted)
	p.store.Put(grantsKey, granted)
	zlog.Debug().Msgf("localfs: grants updated: count=%d", len(granted))
}
