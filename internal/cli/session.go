package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Game session commands",
	}

	cmd.AddCommand(newSessionNewCmd())
	cmd.AddCommand(newSessionGetCmd())
	cmd.AddCommand(newSessionMoveCmd())
	cmd.AddCommand(newSessionUndoCmd())

	return cmd
}

func newSessionNewCmd() *cobra.Command {
	var aiOpponents int
	var difficulty string

	cmd := &cobra.Command{
		Use:   "new <game-type>",
		Short: "Start a single-player session against the computer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seats := []map[string]string{
				{
					"player_id":    cfg.PlayerID,
					"display_name": cfg.Name,
					"kind":         "human",
				},
			}
			for i := 0; i < aiOpponents; i++ {
				seats = append(seats, map[string]string{
					"display_name": fmt.Sprintf("Computer %d", i+1),
					"kind":         "ai",
					"difficulty":   difficulty,
				})
			}

			req := map[string]any{
				"game_type": args[0],
				"seats":     seats,
			}

			var result Session
			if err := client.Post("/api/v1/sessions", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&aiOpponents, "opponents", 1, "Number of AI opponents (0 for baccarat)")
	cmd.Flags().StringVar(&difficulty, "difficulty", "medium", "AI difficulty: easy, medium, hard, master")

	return cmd
}

func newSessionGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <session-id>",
		Short: "Get session state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Session
			if err := client.Get(fmt.Sprintf("/api/v1/sessions/%s", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSessionMoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move <session-id> <move-json>",
		Short: "Play a move",
		Long: `Play a move against a session. The move is the game family's JSON form:

  reversi       '{"row": 2, "col": 3}'
  crazy_eights  '{"action": "play", "card_id": 17}' or '{"action": "draw"}'
  go_fish       '{"target": 1, "rank": 7}'
  baccarat      '{"type": "player", "amount": 10}'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !json.Valid([]byte(args[1])) {
				return fmt.Errorf("move is not valid JSON: %s", strconv.Quote(args[1]))
			}
			req := map[string]any{
				"player_id": cfg.PlayerID,
				"move":      json.RawMessage(args[1]),
			}

			var result Session
			if err := client.Post(fmt.Sprintf("/api/v1/sessions/%s/moves", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	return cmd
}

func newSessionUndoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "undo <session-id>",
		Short: "Undo your last move (single-player only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Session
			if err := client.Post(fmt.Sprintf("/api/v1/sessions/%s/undo", args[0]), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
