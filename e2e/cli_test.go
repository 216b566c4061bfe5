package e2e_test

import (
	"bufio"
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/rpsduel/internal/api"
	"github.com/mcoot/rpsduel/internal/api/response"
	"github.com/mcoot/rpsduel/internal/factory"
	"github.com/mcoot/rpsduel/internal/services/match"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
	tokenFile  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(t.TempDir(), "rpsduel-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/rpsduel")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	// Create temp token file
	tokenFile := filepath.Join(t.TempDir(), "token")

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
		tokenFile:  tokenFile,
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token-file", r.tokenFile,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func (r *cliRunner) runWithToken(token string, args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token", token,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	server   *http.Server
	addr     string
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	// Short rounds so matches finish quickly in real time
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	app, err := factory.New(factory.Config{
		Logger: logger,
		MatchConfig: match.Config{
			RoundDuration: 300 * time.Millisecond,
			TickInterval:  100 * time.Millisecond,
			ResultDelay:   100 * time.Millisecond,
		},
	})
	require.NoError(t, err)

	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		AuthService:    app.AuthService,
		GameController: app.GameController,
		ScoringService: app.ScoringService,
		Publisher:      app.Publisher,
		HubManager:     app.HubManager,
	})

	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)

	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	// Start server
	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	// Wait for server to be ready
	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		server: server,
		addr:   serverURL,
		shutdown: func() {
			app.HubManager.Close()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
			_ = app.Close()
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// Response types for JSON parsing

type healthResponse struct {
	Status string `json:"status"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func decodeOutput[T any](t *testing.T, output string) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal([]byte(output), &out), "output: %s", output)
	return out
}

// waitForMenu polls until the player is no longer in a match
func waitForMenu(t *testing.T, cli *cliRunner, token string) {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		output, err := cli.runWithToken(token, "match", "show")
		if err != nil && strings.Contains(output, "NOT_IN_MATCH") {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("match did not finish in time")
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, "ok", decodeOutput[healthResponse](t, output).Status)
}

func TestCLI_PlayerCommands(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Create guest
	output, err := cli.run("player", "guest", "--name", "Alice")
	require.NoError(t, err, "output: %s", output)

	authResp := decodeOutput[response.AuthResponse](t, output)
	assert.Equal(t, "Alice", authResp.Player.DisplayName)
	assert.True(t, authResp.Player.IsGuest)
	assert.NotEmpty(t, authResp.SessionToken)

	// Get me (token should be saved in token file)
	output, err = cli.run("player", "me")
	require.NoError(t, err, "output: %s", output)

	me := decodeOutput[response.Me](t, output)
	assert.Equal(t, authResp.Player.ID, me.ID)
	assert.Equal(t, 0, me.Score)

	output, err = cli.run("player", "state")
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, "main-menu", decodeOutput[response.PlayerState](t, output).Screen)

	output, err = cli.run("player", "logout")
	require.NoError(t, err, "output: %s", output)
	assert.Contains(t, output, "Logged out")

	output, err = cli.run("player", "me")
	require.Error(t, err)
	assert.Contains(t, output, "UNAUTHORIZED")
}

func TestCLI_QueueAndMatch(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("player", "guest", "--name", "Alice")
	require.NoError(t, err, "output: %s", output)
	alice := decodeOutput[response.AuthResponse](t, output).SessionToken

	output, err = cli.run("player", "guest", "--name", "Bob")
	require.NoError(t, err, "output: %s", output)
	bob := decodeOutput[response.AuthResponse](t, output).SessionToken

	output, err = cli.runWithToken(alice, "queue", "join")
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, "waiting", decodeOutput[response.MatchmakingStatus](t, output).Status)

	output, err = cli.runWithToken(bob, "queue", "join")
	require.NoError(t, err, "output: %s", output)
	status := decodeOutput[response.MatchmakingStatus](t, output)
	require.Equal(t, "matched", status.Status)
	assert.Equal(t, "Alice", status.Match.Opponent.DisplayName)

	// Late picks are accepted silently, so these succeed whichever phase the round is in
	output, err = cli.runWithToken(alice, "match", "pick", "rock")
	require.NoError(t, err, "output: %s", output)
	output, err = cli.runWithToken(bob, "match", "pick", "rock")
	require.NoError(t, err, "output: %s", output)

	waitForMenu(t, cli, alice)
	waitForMenu(t, cli, bob)

	output, err = cli.runWithToken(alice, "player", "state")
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, "main-menu", decodeOutput[response.PlayerState](t, output).Screen)

	output, err = cli.run("leaderboard", "--limit", "5")
	require.NoError(t, err, "output: %s", output)
	board := decodeOutput[response.Leaderboard](t, output)
	require.NotEmpty(t, board.Entries)
	assert.GreaterOrEqual(t, board.Entries[0].Score, 1)
}

func TestCLI_QueueLeave(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("player", "guest", "--name", "Alice")
	require.NoError(t, err, "output: %s", output)

	output, err = cli.run("queue", "join")
	require.NoError(t, err, "output: %s", output)

	output, err = cli.run("queue", "leave")
	require.NoError(t, err, "output: %s", output)
	assert.Contains(t, decodeOutput[messageResponse](t, output).Message, "Left")

	output, err = cli.run("queue", "status")
	require.NoError(t, err, "output: %s", output)
	assert.Equal(t, "idle", decodeOutput[response.MatchmakingStatus](t, output).Status)
}

func TestCLI_BotMatch(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("player", "guest", "--name", "Carol")
	require.NoError(t, err, "output: %s", output)
	token := decodeOutput[response.AuthResponse](t, output).SessionToken

	output, err = cli.run("match", "bot")
	require.NoError(t, err, "output: %s", output)
	m := decodeOutput[response.Match](t, output)
	assert.Equal(t, "bot", m.Kind)
	assert.True(t, m.Opponent.IsBot)

	// Starting another bot match while playing fails
	output, err = cli.run("match", "bot")
	require.Error(t, err)
	assert.Contains(t, output, "ALREADY_IN_MATCH")

	waitForMenu(t, cli, token)
}

func TestCLI_Events(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("player", "guest", "--name", "Dave")
	require.NoError(t, err, "output: %s", output)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, cli.binaryPath,
		"--server", cli.serverURL, "--token-file", cli.tokenFile, "events", "--json")
	stdout, err := cmd.StdoutPipe()
	require.NoError(t, err)
	require.NoError(t, cmd.Start())
	defer func() { _ = cmd.Process.Kill(); _ = cmd.Wait() }()

	type event struct {
		Event string `json:"event"`
		Data  string `json:"data"`
	}
	scanner := bufio.NewScanner(stdout)

	require.True(t, scanner.Scan())
	assert.Equal(t, "connected", decodeOutput[event](t, scanner.Text()).Event)

	require.True(t, scanner.Scan())
	replay := decodeOutput[event](t, scanner.Text())
	assert.Equal(t, "screen", replay.Event)
	assert.JSONEq(t, `{"screen":"main-menu"}`, replay.Data)

	// A bot match pushes the battle screen to the open stream
	output, err = cli.run("match", "bot")
	require.NoError(t, err, "output: %s", output)

	require.True(t, scanner.Scan())
	pushed := decodeOutput[event](t, scanner.Text())
	assert.Equal(t, "screen", pushed.Event)
	assert.Contains(t, pushed.Data, "bot-battle")
}

func TestCLI_ErrorHandling(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Not logged in
	output, err := cli.run("player", "me")
	require.Error(t, err)
	assert.Contains(t, output, "UNAUTHORIZED")

	output, err = cli.run("player", "guest", "--name", "Erin")
	require.NoError(t, err, "output: %s", output)

	// No match in progress
	output, err = cli.run("match", "pick", "paper")
	require.Error(t, err)
	assert.Contains(t, output, "NOT_IN_MATCH")

	// Unknown actions are rejected before any request is made
	output, err = cli.run("match", "pick", "lizard")
	require.Error(t, err)
	assert.Contains(t, output, "invalid action")

	// The bot's name is reserved
	output, err = cli.run("player", "guest", "--name", "bot")
	require.Error(t, err)
	assert.Contains(t, output, "RESERVED_NAME")
}
