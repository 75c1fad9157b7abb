package websocket

import (
	"encoding/json"
	"errors"

	"github.com/rocketscienceinc/tictactoe-mnk/internal/entity"
	"github.com/rocketscienceinc/tictactoe-mnk/internal/settings"
	"github.com/rocketscienceinc/tictactoe-mnk/transport/view"
)

const (
	actionGameNew      = "game:new"
	actionGameGet      = "game:get"
	actionGameTurn     = "game:turn"
	actionGameReset    = "game:reset"
	actionGameSettings = "game:settings"
	actionGameLeave    = "game:leave"
)

var (
	errMalformedMessage = errors.New("malformed message")
	errUnknownAction    = errors.New("unknown action")
	errNoGame           = errors.New("no game selected")
	errMissingCell      = errors.New("cell is required")
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Payload is what a client may send with an action. GameID falls back to the game
// the connection last opened.
type Payload struct {
	GameID    string `json:"game_id,omitempty"`
	Size      *int   `json:"size,omitempty"`
	WinLength *int   `json:"win_length,omitempty"`
	Cell      *int   `json:"cell,omitempty"`
}

func (that *Payload) patch() settings.Patch {
	return settings.Patch{Size: that.Size, WinLength: that.WinLength}
}

type ResponsePayload struct {
	GameID string     `json:"game_id,omitempty"`
	Game   *view.Game `json:"game,omitempty"`
	Error  string     `json:"error,omitempty"`
	Reason string     `json:"reason,omitempty"`
}

// Response is a handler result before it is put on the wire.
type Response struct {
	game   *entity.Game
	gameID string
}

func (that *Response) message(action string) *Message {
	payload := ResponsePayload{
		GameID: that.gameID,
		Game:   view.NewGame(that.game),
	}
	if payload.GameID == "" && that.game != nil {
		payload.GameID = that.game.ID
	}

	return &Message{
		Action:  action,
		Payload: mustMarshal(payload),
	}
}

func errorMessage(action string, err error, game *entity.Game) *Message {
	body := view.NewError(err, game)

	return &Message{
		Action: action,
		Payload: mustMarshal(ResponsePayload{
			Game:   body.Game,
			Error:  body.Error,
			Reason: body.Reason,
		}),
	}
}

type session struct {
	gameID string
}

func (that *session) resolve(payload *Payload) (string, error) {
	if payload.GameID != "" {
		return payload.GameID, nil
	}

	if that.gameID == "" {
		return "", errNoGame
	}

	return that.gameID, nil
}

func mustMarshal(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
