package localfs

import (
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/Tnxec2/FoplrAudio/internal/app/storage"
	"github.com/Tnxec2/FoplrAudio/internal/infra/config"
)

// NewProviderFromConfig creates a storage provider from configuration.
func NewProviderFromConfig(cfg *config.Config, store GrantStore) (storage.Provider, error) {
	switch cfg.Storage.Type {
	case "localfs", "":
		zlog.Debug().Msgf("creating storage provider: type=localfs settings=%+v", cfg.Storage.Settings)
		return New(cfg.Storage.Settings, store)
	default:
		return nil, errors.Newf("unsupported storage provider type: %s", cfg.Storage.Type)
	}
}
