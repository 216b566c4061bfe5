package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/rpsduel/internal/api/response"
)

func TestReadEvents(t *testing.T) {
	stream := "event: connected\ndata: {\"status\":\"connected\"}\n\n" +
		": keepalive\n\n" +
		"event: screen\ndata: {\"screen\":\"battle\"}\n\n" +
		"event: note\ndata: a\ndata: b\n\n"

	type ev struct{ name, data string }
	var got []ev
	err := readEvents(strings.NewReader(stream), func(event, data string) {
		got = append(got, ev{event, data})
	})

	require.NoError(t, err)
	assert.Equal(t, []ev{
		{"connected", `{"status":"connected"}`},
		{"screen", `{"screen":"battle"}`},
		{"note", "a\nb"},
	}, got)
}

func TestOutputText(t *testing.T) {
	pick := "rock"
	tests := []struct {
		name     string
		data     any
		contains []string
	}{
		{
			name:     "me",
			data:     response.Me{Player: response.Player{ID: "p_1", DisplayName: "Alice", IsGuest: true}, Score: 6},
			contains: []string{"Player: Alice (p_1)", "Guest: yes", "Score: 6"},
		},
		{
			name: "match in countdown",
			data: response.Match{
				ID: "M1", Kind: "bot", Phase: "countdown", Round: 2, RemainingTime: 3,
				Opponent: response.Player{ID: "bot", DisplayName: "bot"}, SelectedAction: &pick,
			},
			contains: []string{"Match: M1 (bot)", "Round: 2", "Remaining: 3s", "Your pick: rock"},
		},
		{
			name:     "waiting",
			data:     response.MatchmakingStatus{Status: "waiting", QueueSize: 1},
			contains: []string{"Status: waiting", "Queue size: 1"},
		},
		{
			name:     "leaderboard",
			data:     response.Leaderboard{Entries: []response.LeaderboardEntry{{Rank: 1, DisplayName: "Alice", Score: 10}}},
			contains: []string{"1. Alice", "10"},
		},
		{
			name:     "empty leaderboard",
			data:     response.Leaderboard{},
			contains: []string{"No scores yet"},
		},
		{
			name:     "state",
			data:     response.PlayerState{Screen: "battle", Data: map[string]any{"remaining-time": 4}},
			contains: []string{"Screen: battle", "remaining-time: 4"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			out := &Output{format: "text", w: &buf}
			out.Print(tt.data)
			for _, want := range tt.contains {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestOutputJSON(t *testing.T) {
	var buf bytes.Buffer
	out := &Output{format: "json", w: &buf}
	out.Print(HealthResult{Status: "ok"})
	assert.JSONEq(t, `{"status":"ok"}`, buf.String())
}

func TestClientErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":"NOT_IN_MATCH","message":"Not in a match"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "tok")
	err := c.Get(context.Background(), "/api/v1/match", nil)
	require.Error(t, err)
	assert.Equal(t, "Not in a match (NOT_IN_MATCH)", err.Error())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "NOT_IN_MATCH", apiErr.Code)
}

func TestClientErrorWithoutEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewClient(srv.URL, "").Get(context.Background(), "/api/v1/health", nil)
	require.Error(t, err)
	assert.Equal(t, "HTTP 502: bad gateway", err.Error())
}

func TestConfigTokenRoundTrip(t *testing.T) {
	c := &Config{TokenFile: filepath.Join(t.TempDir(), "nested", "token")}

	require.NoError(t, c.LoadToken())
	assert.Empty(t, c.Token)

	require.NoError(t, c.SaveToken("sess_abc"))

	loaded := &Config{TokenFile: c.TokenFile}
	require.NoError(t, loaded.LoadToken())
	assert.Equal(t, "sess_abc", loaded.Token)

	require.NoError(t, loaded.ClearToken())
	assert.Empty(t, loaded.Token)
	assert.NoFileExists(t, c.TokenFile)

	// Clearing twice is fine
	require.NoError(t, loaded.ClearToken())
}
