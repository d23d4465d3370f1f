package model

// PlayerID uniquely identifies a player. Identity is resolved outside
// this subsystem; the ID is opaque here.
type PlayerID string

// PlayerKind distinguishes human seats from AI seats
type PlayerKind string

const (
	KindHuman PlayerKind = "human"
	KindAI    PlayerKind = "ai"
)

// Difficulty selects an AI strategy tier
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyMaster Difficulty = "master"
)

// Valid reports whether d is a known difficulty tier
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyMaster:
		return true
	}
	return false
}

// Seat describes one participant slot in a game session. AI seats
// carry the difficulty consumed by the strategy module.
type Seat struct {
	PlayerID    PlayerID   `json:"player_id,omitempty"` // empty for AI seats
	DisplayName string     `json:"display_name"`
	Kind        PlayerKind `json:"kind"`
	Difficulty  Difficulty `json:"difficulty,omitempty"`
}

// IsAI reports whether the seat is played by the AI strategy module
func (s Seat) IsAI() bool {
	return s.Kind == KindAI
}
