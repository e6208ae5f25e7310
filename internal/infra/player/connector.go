package player

import (
	"github.com/cockroachdb/errors"

	"github.com/Tnxec2/FoplrAudio/internal/app/transport"
)

// Connector hands out the in-process player as a transport handle.
type Connector struct {
	player *Player
}

// NewConnector creates a connector for p.
func NewConnector(p *Player) *Connector {
	return &Connector{player: p}
}

// Connect returns the player. It fails only when no player was wired.
func (c *Connector) Connect() (transport.Transport, error) {
	if c.player == nil {
		return nil, errors.New("no player available")
	}
	return c.player, nil
}
