package e2e_test

import (
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

	"github.com/pixelden/gameroom/internal/api"
	"github.com/pixelden/gameroom/internal/factory"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
	playerID   string
	name       string
}

func newCLIRunner(t *testing.T, serverURL, playerID, name string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(projectRoot, "bin", "gameroomctl-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/gameroomctl")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
		playerID:   playerID,
		name:       name,
	}
}

func (r *cliRunner) withIdentity(playerID, name string) *cliRunner {
	return &cliRunner{
		binaryPath: r.binaryPath,
		serverURL:  r.serverURL,
		playerID:   playerID,
		name:       name,
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--player-id", r.playerID,
		"--name", r.name,
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

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	app, err := factory.New(factory.Config{Logger: logger})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:            logger,
		RoomCoordinator:   app.RoomCoordinator,
		SessionController: app.SessionController,
		HubManager:        app.HubManager,
	})

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		addr: serverURL,
		shutdown: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
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

type roomResponse struct {
	ID       string `json:"id"`
	Code     string `json:"code"`
	GameType string `json:"game_type"`
	Status   string `json:"status"`
	HostID   string `json:"host_id"`
	Players  []struct {
		PlayerID string `json:"player_id"`
		IsHost   bool   `json:"is_host"`
		IsReady  bool   `json:"is_ready"`
	} `json:"players"`
}

type sessionResponse struct {
	ID       string `json:"id"`
	GameType string `json:"game_type"`
	Phase    string `json:"phase"`
	Moves    int    `json:"moves"`
	Winners  []int  `json:"winners"`
}

type startedGameResponse struct {
	Room    roomResponse    `json:"room"`
	Session sessionResponse `json:"session"`
}

type healthResponse struct {
	Status string `json:"status"`
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr, "alice", "Alice")

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)

	var resp healthResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestCLI_RoomLifecycle(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	alice := newCLIRunner(t, ts.addr, "alice", "Alice")
	bob := alice.withIdentity("bob", "Bob")

	// Alice creates a room
	output, err := alice.run("room", "create", "go_fish")
	require.NoError(t, err, "output: %s", output)

	var room roomResponse
	require.NoError(t, json.Unmarshal([]byte(output), &room))
	assert.Equal(t, "waiting", room.Status)
	assert.Equal(t, "alice", room.HostID)
	assert.Len(t, room.Code, 6)
	code := room.Code
	t.Logf("Created room: %s", code)

	// Bob joins
	output, err = bob.run("room", "join", code)
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &room))
	assert.Len(t, room.Players, 2)

	// Both mark ready
	output, err = alice.run("room", "ready", code)
	require.NoError(t, err, "output: %s", output)
	output, err = bob.run("room", "ready", code)
	require.NoError(t, err, "output: %s", output)

	// Bob cannot start the game
	output, err = bob.run("room", "start", code)
	assert.Error(t, err, "non-host should not be able to start")
	assert.Contains(t, strings.ToLower(output), "host")

	// Alice starts
	output, err = alice.run("room", "start", code)
	require.NoError(t, err, "output: %s", output)

	var started startedGameResponse
	require.NoError(t, json.Unmarshal([]byte(output), &started))
	assert.Equal(t, "playing", started.Room.Status)
	assert.Equal(t, "playing", started.Session.Phase)
	assert.NotEmpty(t, started.Session.ID)
	t.Logf("Game started, session: %s", started.Session.ID)

	// The room now shows as playing
	output, err = alice.run("room", "get", code)
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &room))
	assert.Equal(t, "playing", room.Status)
}

func TestCLI_SoloReversiAgainstAI(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr, "alice", "Alice")

	output, err := cli.run("session", "new", "reversi", "--opponents", "1", "--difficulty", "easy")
	require.NoError(t, err, "output: %s", output)

	var sess sessionResponse
	require.NoError(t, json.Unmarshal([]byte(output), &sess))
	assert.Equal(t, "playing", sess.Phase)
	sessionID := sess.ID

	// Open with a legal move; the AI answers in the same request
	output, err = cli.run("session", "move", sessionID, `{"row":2,"col":3}`)
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &sess))
	assert.Equal(t, 2, sess.Moves)

	// Undo rewinds the AI reply and the human move together
	output, err = cli.run("session", "undo", sessionID)
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &sess))
	assert.Equal(t, 0, sess.Moves)
}

func TestCLI_BaccaratSession(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr, "alice", "Alice")

	output, err := cli.run("session", "new", "baccarat", "--opponents", "0")
	require.NoError(t, err, "output: %s", output)

	var sess sessionResponse
	require.NoError(t, json.Unmarshal([]byte(output), &sess))

	output, err = cli.run("session", "move", sess.ID, `{"type":"bank","amount":10}`)
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &sess))
	assert.Equal(t, "round_end", sess.Phase)
}

func TestCLI_ErrorHandling(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr, "alice", "Alice")

	// Get non-existent room
	output, err := cli.run("room", "get", "NOPE22")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "not found")

	// Illegal move JSON
	output, err = cli.run("session", "move", "whatever", "not-json")
	assert.Error(t, err)

	// Unknown game type
	output, err = cli.run("room", "create", "poker")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "game type")
}
