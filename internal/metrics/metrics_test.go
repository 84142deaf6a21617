package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHandlerExposesRegisteredCounters(t *testing.T) {
	s := New()
	s.PlayersJoined.Inc()
	s.GamesStarted.Inc()
	s.BombsExploded.Add(3)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "bombit_players_joined_total 1")
	require.Contains(t, body, "bombit_games_started_total 1")
	require.Contains(t, body, "bombit_bombs_exploded_total 3")
}

func TestNewServersHaveIndependentRegistries(t *testing.T) {
	a := New()
	b := New()
	a.PlayersJoined.Inc()

	rec := httptest.NewRecorder()
	b.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	lines := strings.Split(rec.Body.String(), "\n")
	for _, l := range lines {
		if strings.HasPrefix(l, "bombit_players_joined_total") {
			require.Equal(t, "bombit_players_joined_total 0", l)
		}
	}
}
