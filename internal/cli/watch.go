package cli

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "watch <code>",
		Short: "Stream realtime events from a room",
		Long: `Connect to the room's websocket endpoint and stream events as they happen.

Events include:
  - room_updated:  membership or ready flags changed
  - player_joined: a player joined
  - player_left:   a player left
  - host_changed:  host migrated to another player
  - game_started:  the game began
  - game_state:    a move was applied
  - game_over:     the game finished

Press Ctrl+C to disconnect.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return watchRoom(args[0], jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output events as JSON lines")

	return cmd
}

// roomEvent mirrors the server's event envelope
type roomEvent struct {
	Type    string          `json:"type"`
	RoomID  string          `json:"room_id"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func watchRoom(code string, jsonOutput bool) error {
	wsURL, err := websocketURL(cfg.ServerURL, code, cfg.PlayerID)
	if err != nil {
		return err
	}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", wsURL, err)
	}
	defer conn.Close()

	fmt.Fprintf(os.Stderr, "Watching room %s (Ctrl+C to stop)\n", code)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	msgCh := make(chan []byte)
	errCh := make(chan error, 1)
	go func() {
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				errCh <- err
				return
			}
			msgCh <- data
		}
	}()

	for {
		select {
		case <-sigCh:
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return nil
		case err := <-errCh:
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return err
		case data := <-msgCh:
			printEvent(data, jsonOutput)
		}
	}
}

func printEvent(data []byte, jsonOutput bool) {
	if jsonOutput {
		fmt.Println(string(data))
		return
	}

	var ev roomEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		fmt.Println(string(data))
		return
	}
	fmt.Printf("[%s] %s\n", time.Now().Format("15:04:05"), ev.Type)
}

// websocketURL converts the configured server URL into the room's
// websocket endpoint
func websocketURL(serverURL, code, playerID string) (string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}
	switch u.Scheme {
	case "http", "":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/api/v1/rooms/" + code + "/ws"
	u.RawQuery = url.Values{"player_id": {playerID}}.Encode()
	return u.String(), nil
}
