package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadServerAppliesEnvOverrides(t *testing.T) {
	os.Setenv("BOMBIT_PLAYERS", "4")
	os.Setenv("BOMBIT_SIZE_X", "7")
	defer os.Unsetenv("BOMBIT_PLAYERS")
	defer os.Unsetenv("BOMBIT_SIZE_X")

	cfg, err := LoadServer()
	require.NoError(t, err)
	require.Equal(t, uint8(4), cfg.Game.PlayersCount)
	require.Equal(t, uint16(7), cfg.Game.SizeX)
}

func TestLoadServerRejectsSlotsBelowPlayerCount(t *testing.T) {
	os.Setenv("BOMBIT_PLAYERS", "30")
	os.Setenv("BOMBIT_SLOTS", "25")
	defer os.Unsetenv("BOMBIT_PLAYERS")
	defer os.Unsetenv("BOMBIT_SLOTS")

	_, err := LoadServer()
	require.ErrorIs(t, err, ErrConfig)
}

func TestLoadClientDefaults(t *testing.T) {
	cfg := LoadClient()
	require.NotEmpty(t, cfg.ServerAddr)
	require.NotEmpty(t, cfg.PlayerName)
}
