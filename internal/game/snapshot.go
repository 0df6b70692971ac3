// internal/game/snapshot.go
package game

// PlayerSnapshot is one seat as seen by a requesting player. Hand is only
// populated for the requesting player themselves; everyone else is reduced to
// a hand size.
type PlayerSnapshot struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	HandSize  int      `json:"handSize"`
	Connected bool     `json:"isConnected"`
	Hand      []string `json:"hand,omitempty"`
}

// Snapshot is the per-player view of a game, produced after every mutation
// and on demand for get_game_state. Field names are part of the wire format
// clients consume.
type Snapshot struct {
	GameID                string           `json:"gameId"`
	GameState             GameState        `json:"gameState"`
	DrawPileSize          int              `json:"drawPileSize"`
	TopCard               string           `json:"topCard,omitempty"`
	Players               []PlayerSnapshot `json:"players"`
	CurrentPlayer         string           `json:"currentPlayer,omitempty"`
	IsMyTurn              bool             `json:"isMyTurn"`
	WaitingForColorChoice bool             `json:"waitingForColorChoice"`
	ColorChoicePlayer     string           `json:"colorChoicePlayer,omitempty"`
	ShouldChooseColor     bool             `json:"shouldChooseColor,omitempty"`
	Winner                string           `json:"winner,omitempty"`
	WinnerName            string           `json:"winnerName,omitempty"`
}

// Snapshot builds the view of the game for forPlayer. An unknown (or empty)
// forPlayer yields a fully redacted view with no hand contents.
func (g *Game) Snapshot(forPlayer string) *Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	snap := &Snapshot{
		GameID:                g.ID,
		GameState:             g.State,
		DrawPileSize:          g.DrawPile.Size(),
		WaitingForColorChoice: g.PendingColorChooser != "",
	}
	if top := g.topCard(); top != nil {
		snap.TopCard = top.String()
	}

	for _, p := range g.Players {
		ps := PlayerSnapshot{
			ID:        p.ID,
			Name:      p.Name,
			HandSize:  p.HandSize(),
			Connected: p.Connected,
		}
		if p.ID == forPlayer {
			ps.Hand = make([]string, len(p.Hand))
			for i, c := range p.Hand {
				ps.Hand[i] = c.String()
			}
		}
		snap.Players = append(snap.Players, ps)
	}

	if len(g.Players) > 0 {
		current := g.currentPlayer()
		snap.CurrentPlayer = current.ID
		snap.IsMyTurn = current.ID == forPlayer
	}

	if g.PendingColorChooser != "" {
		snap.ColorChoicePlayer = g.PendingColorChooser
		snap.ShouldChooseColor = g.PendingColorChooser == forPlayer
	}

	if g.Winner != nil {
		snap.Winner = g.Winner.ID
		snap.WinnerName = g.Winner.Name
	}

	return snap
}
