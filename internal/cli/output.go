package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Room:
		o.printRoom(v)
	case RoomList:
		o.printRoomList(v)
	case Session:
		o.printSession(v)
	case StartedGame:
		o.printRoom(v.Room)
		o.printSession(v.Session)
	case HealthResult:
		fmt.Printf("Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Room response type (matches API)
type Room struct {
	ID         string          `json:"id"`
	Code       string          `json:"code"`
	GameType   string          `json:"game_type"`
	Visibility string          `json:"visibility"`
	Status     string          `json:"status"`
	HostID     string          `json:"host_id"`
	MaxPlayers int             `json:"max_players"`
	Players    []RoomPlayer    `json:"players"`
	GameState  json.RawMessage `json:"game_state,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// RoomPlayer response type
type RoomPlayer struct {
	PlayerID    string `json:"player_id"`
	DisplayName string `json:"display_name"`
	IsHost      bool   `json:"is_host"`
	IsReady     bool   `json:"is_ready"`
	IsConnected bool   `json:"is_connected"`
}

// RoomList response type
type RoomList struct {
	Rooms []Room `json:"rooms"`
}

// Seat response type
type Seat struct {
	PlayerID    string `json:"player_id"`
	DisplayName string `json:"display_name"`
	Kind        string `json:"kind"`
	Difficulty  string `json:"difficulty,omitempty"`
}

// Session response type
type Session struct {
	ID       string          `json:"id"`
	GameType string          `json:"game_type"`
	Phase    string          `json:"phase"`
	Seats    []Seat          `json:"seats"`
	RoomID   string          `json:"room_id,omitempty"`
	State    json.RawMessage `json:"state"`
	Moves    int             `json:"moves"`
	Winners  []int           `json:"winners,omitempty"`
}

// StartedGame response type
type StartedGame struct {
	Room    Room    `json:"room"`
	Session Session `json:"session"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printRoom(r Room) {
	fmt.Printf("Room %s (%s)\n", r.Code, r.GameType)
	fmt.Printf("  Status: %s  Visibility: %s  Players: %d/%d\n",
		r.Status, r.Visibility, len(r.Players), r.MaxPlayers)
	for _, p := range r.Players {
		tags := []string{}
		if p.IsHost {
			tags = append(tags, "host")
		}
		if p.IsReady {
			tags = append(tags, "ready")
		}
		if !p.IsConnected {
			tags = append(tags, "disconnected")
		}
		suffix := ""
		if len(tags) > 0 {
			suffix = " [" + strings.Join(tags, ", ") + "]"
		}
		fmt.Printf("  - %s (%s)%s\n", p.DisplayName, p.PlayerID, suffix)
	}
}

func (o *Output) printRoomList(l RoomList) {
	if len(l.Rooms) == 0 {
		fmt.Println("No open rooms")
		return
	}
	fmt.Printf("%-8s %-14s %-10s %s\n", "CODE", "GAME", "PLAYERS", "CREATED")
	for _, r := range l.Rooms {
		fmt.Printf("%-8s %-14s %d/%-8d %s\n",
			r.Code, r.GameType, len(r.Players), r.MaxPlayers,
			r.CreatedAt.Format(time.RFC3339))
	}
}

func (o *Output) printSession(s Session) {
	fmt.Printf("Session %s (%s)\n", s.ID, s.GameType)
	fmt.Printf("  Phase: %s  Moves: %d\n", s.Phase, s.Moves)
	for i, seat := range s.Seats {
		kind := seat.Kind
		if seat.Kind == "ai" && seat.Difficulty != "" {
			kind = "ai/" + seat.Difficulty
		}
		fmt.Printf("  Seat %d: %s (%s)\n", i, seat.DisplayName, kind)
	}
	if s.Winners != nil {
		if len(s.Winners) == 0 {
			fmt.Println("  Result: draw")
		} else {
			labels := make([]string, len(s.Winners))
			for i, w := range s.Winners {
				labels[i] = fmt.Sprintf("seat %d", w)
			}
			fmt.Printf("  Winners: %s\n", strings.Join(labels, ", "))
		}
	}
	printBoard(s.GameType, s.State)
}

// printBoard renders a reversi position as a grid; other game states
// stay JSON since hands are private to the server
func printBoard(gameType string, state json.RawMessage) {
	if gameType != "reversi" || len(state) == 0 {
		return
	}
	var s struct {
		Board [8][8]int8 `json:"board"`
		Turn  int8       `json:"turn"`
	}
	if err := json.Unmarshal(state, &s); err != nil {
		return
	}

	glyphs := map[int8]string{0: ".", 1: "X", 2: "O"}
	fmt.Println("    a b c d e f g h")
	for row := 0; row < 8; row++ {
		cells := make([]string, 8)
		for col := 0; col < 8; col++ {
			cells[col] = glyphs[s.Board[row][col]]
		}
		fmt.Printf("  %d %s\n", row+1, strings.Join(cells, " "))
	}
	fmt.Printf("  To move: %s\n", glyphs[s.Turn])
}
