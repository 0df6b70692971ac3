// internal/database/results.go
package database

import (
	"context"
	"encoding/json"
	"fmt"
)

// ResultPlayer is one seat in a finished game's audit row.
type ResultPlayer struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	HandSize int    `json:"handSize"`
}

// RecordGameResult inserts one audit row for a finished game. Write-only:
// nothing in gameplay reads it back.
func RecordGameResult(ctx context.Context, gameID, roomName, winnerID, winnerName string, players []ResultPlayer) error {
	playersJSON, err := json.Marshal(players)
	if err != nil {
		return fmt.Errorf("failed to marshal result players: %w", err)
	}

	_, err = DB.Exec(ctx, `
		INSERT INTO game_results (game_id, room_name, winner_id, winner_name, players, finished_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`, gameID, roomName, winnerID, winnerName, playersJSON)
	if err != nil {
		return fmt.Errorf("failed to insert game result: %w", err)
	}
	return nil
}
