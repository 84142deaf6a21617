// Package config loads server and client configuration from environment
// variables over sensible defaults. See DESIGN.md for the grounding of this
// package's layout and what it deliberately leaves out.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"bombit/internal/model"
)

// ErrConfig covers malformed startup parameters. Fatal at startup.
var ErrConfig = errors.New("config error")

// Server is the full set of knobs for cmd/server.
type Server struct {
	ListenAddr string
	Game       model.GameConfig
	Slots      int
	MetricsAddr string
	MessageRateLimit float64
	BurstLimit       int
}

// LoadServer builds a Server config from defaults overridden by environment
// variables.
func LoadServer() (Server, error) {
	cfg := Server{
		ListenAddr: getEnvString("BOMBIT_LISTEN_ADDR", ":9108"),
		Game: model.GameConfig{
			ServerName:      getEnvString("BOMBIT_SERVER_NAME", "bombit"),
			PlayersCount:    uint8(getEnvInt("BOMBIT_PLAYERS", 2)),
			SizeX:           uint16(getEnvInt("BOMBIT_SIZE_X", 13)),
			SizeY:           uint16(getEnvInt("BOMBIT_SIZE_Y", 13)),
			GameLength:      uint16(getEnvInt("BOMBIT_GAME_LENGTH", 200)),
			ExplosionRadius: uint16(getEnvInt("BOMBIT_EXPLOSION_RADIUS", 2)),
			BombTimer:       uint16(getEnvInt("BOMBIT_BOMB_TIMER", 3)),
			TurnDuration:    time.Duration(getEnvInt("BOMBIT_TURN_DURATION_MS", 500)) * time.Millisecond,
			InitialBlocks:   uint32(getEnvInt("BOMBIT_INITIAL_BLOCKS", 30)),
			Seed:            int64(getEnvInt("BOMBIT_SEED", 42)),
		},
		Slots:            getEnvInt("BOMBIT_SLOTS", 25),
		MetricsAddr:      getEnvString("BOMBIT_METRICS_ADDR", ":9109"),
		MessageRateLimit: float64(getEnvInt("BOMBIT_RATE_LIMIT_MSG_SEC", 30)),
		BurstLimit:       getEnvInt("BOMBIT_RATE_LIMIT_BURST", 10),
	}
	if err := cfg.validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

func (c Server) validate() error {
	if c.Game.PlayersCount < 1 {
		return fmt.Errorf("%w: players count must be >= 1, got %d", ErrConfig, c.Game.PlayersCount)
	}
	if c.Game.SizeX == 0 || c.Game.SizeY == 0 {
		return fmt.Errorf("%w: grid dimensions must be > 0, got %dx%d", ErrConfig, c.Game.SizeX, c.Game.SizeY)
	}
	if c.Game.BombTimer == 0 {
		return fmt.Errorf("%w: bomb timer must be > 0", ErrConfig)
	}
	if c.Slots < int(c.Game.PlayersCount) {
		return fmt.Errorf("%w: slots (%d) must be >= players count (%d)", ErrConfig, c.Slots, c.Game.PlayersCount)
	}
	return nil
}

// Client is the full set of knobs for cmd/client.
type Client struct {
	ServerAddr string
	PlayerName string
	GUIListen  string
	GUISend    string
}

// LoadClient builds a Client config from defaults overridden by environment
// variables.
func LoadClient() Client {
	return Client{
		ServerAddr: getEnvString("BOMBIT_SERVER_ADDR", "127.0.0.1:9108"),
		PlayerName: getEnvString("BOMBIT_PLAYER_NAME", "player"),
		GUIListen:  getEnvString("BOMBIT_GUI_LISTEN_ADDR", "127.0.0.1:9201"),
		GUISend:    getEnvString("BOMBIT_GUI_SEND_ADDR", "127.0.0.1:9200"),
	}
}

func getEnvString(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}
