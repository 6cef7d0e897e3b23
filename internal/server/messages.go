package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santorinifree/santorini-server-go/internal/game"
)

var errNoHint = errors.New("no hint available for current situation")

func errNotFound(id string) error {
	return fmt.Errorf("game %s not found", id)
}

func errUnknownMessage(t string) error {
	return fmt.Errorf("unknown message type: %s", t)
}

// Message is the wire envelope for both directions.
type Message struct {
	Type      string          `json:"type"`
	SessionID string          `json:"session_id,omitempty"`
	GameID    string          `json:"game_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// Inbound message types.
const (
	MsgRegister     = "register"
	MsgCreateGame   = "create_game"
	MsgJoinGame     = "join_game"
	MsgAction       = "action"
	MsgHint         = "hint"
	MsgLegalActions = "legal_actions"
)

// Outbound message types.
const (
	MsgRegistered = "registered"
	MsgGameState  = "game_state"
	MsgHintResult = "hint_result"
	MsgError      = "error"
)

// RegisterRequest names the connecting player.
type RegisterRequest struct {
	Name string `json:"name"`
}

// RegisteredPayload returns the client's session token.
type RegisteredPayload struct {
	SessionID string `json:"session_id"`
}

// PlayerSetup describes one player when creating a game.
type PlayerSetup struct {
	Name  string `json:"name"`
	Power string `json:"power"`
}

// CreateGameRequest starts a new game. Seed is optional; tests and demos
// pass one for reproducible placement.
type CreateGameRequest struct {
	Players [2]PlayerSetup `json:"players"`
	Seed    *int64         `json:"seed,omitempty"`
}

// ActionRequest submits one game action.
type ActionRequest struct {
	Action game.Action `json:"action"`
}

// HintPayload carries a suggested action.
type HintPayload struct {
	Action    game.Action `json:"action"`
	HintsLeft int         `json:"hints_left"`
}

// ErrorPayload reports a rejected request. The client re-renders from the
// next game_state; the session itself is unaffected.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorCode maps engine errors to stable wire codes.
func errorCode(err error) string {
	switch {
	case errors.Is(err, game.ErrGameAlreadyOver):
		return "GAME_ALREADY_OVER"
	case errors.Is(err, game.ErrNoSelectableWorker):
		return "NO_SELECTABLE_WORKER"
	case errors.Is(err, game.ErrOutOfPhase):
		return "OUT_OF_PHASE"
	case errors.Is(err, game.ErrIllegalSelection):
		return "ILLEGAL_SELECTION"
	case errors.Is(err, game.ErrIllegalMove):
		return "ILLEGAL_MOVE"
	case errors.Is(err, game.ErrIllegalBuild):
		return "ILLEGAL_BUILD"
	default:
		return "BAD_REQUEST"
	}
}
