// internal/game/errors.go
package game

// GameError is an error with a stable machine-readable code. Every failing
// engine or manager operation is a no-op: the error is detected before any
// state is mutated.
type GameError struct {
	Code string
	Msg  string
}

func (e *GameError) ErrorCode() string { return e.Code }
func (e *GameError) Error() string     { return e.Msg }

var (
	// ErrGameNotFound means the game id resolves to nothing.
	ErrGameNotFound = &GameError{"GAME_NOT_FOUND", "game not found"}
	// ErrPlayerNotInGame means the player id is not mapped to any game.
	ErrPlayerNotInGame = &GameError{"PLAYER_NOT_IN_GAME", "player is not in any game"}
	// ErrGameFull means all seats are taken.
	ErrGameFull = &GameError{"GAME_FULL", "game is full"}
	// ErrAlreadyStarted means the game left the waiting state.
	ErrAlreadyStarted = &GameError{"ALREADY_STARTED", "game has already started"}
	// ErrAlreadyInGame means the player is seated in another game.
	ErrAlreadyInGame = &GameError{"ALREADY_IN_GAME", "player is already in a game"}
	// ErrNotEnoughPlayers means fewer than two players are seated.
	ErrNotEnoughPlayers = &GameError{"NOT_ENOUGH_PLAYERS", "at least 2 players are required"}
	// ErrNotInProgress means the game is not accepting turn actions.
	ErrNotInProgress = &GameError{"NOT_IN_PROGRESS", "game is not in progress"}
	// ErrNotYourTurn means the caller is not the current player.
	ErrNotYourTurn = &GameError{"NOT_YOUR_TURN", "it is not your turn"}
	// ErrColorChoicePending means only the designated player's color choice is accepted.
	ErrColorChoicePending = &GameError{"COLOR_CHOICE_PENDING", "waiting for a color choice"}
	// ErrNoColorChoicePending means there is no color choice to make.
	ErrNoColorChoicePending = &GameError{"NO_COLOR_CHOICE", "no color choice is pending"}
	// ErrNotColorChooser means a different player must choose the color.
	ErrNotColorChooser = &GameError{"NOT_COLOR_CHOOSER", "another player must choose the color"}
	// ErrIllegalCard means the indexed card cannot follow the top card.
	ErrIllegalCard = &GameError{"ILLEGAL_CARD", "card cannot be played on the current top card"}
	// ErrNoCardsLeft means the draw and discard piles together cannot supply a card.
	ErrNoCardsLeft = &GameError{"NO_CARDS_LEFT", "no cards left to draw"}
)
