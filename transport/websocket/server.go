package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-mnk/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-mnk/internal/entity"
	"github.com/rocketscienceinc/tictactoe-mnk/internal/settings"
)

const (
	shutdownTimeout = 5 * time.Second
	maxMessageSize  = 4096
)

type gameService interface {
	NewGame(ctx context.Context, form settings.Form) (*entity.Game, error)
	GetGame(ctx context.Context, id string) (*entity.Game, error)

	MakeMove(ctx context.Context, id string, cell int) (*entity.Game, error)
	ResetBoard(ctx context.Context, id string) (*entity.Game, error)
	PatchSettings(ctx context.Context, id string, patch settings.Patch) (*entity.Game, error)

	EndGame(ctx context.Context, id string) error
}

// handler - answers one action; the session holds the game the connection is playing.
type handler func(ctx context.Context, session *session, payload *Payload) (*Response, error)

type Server struct {
	logger   *slog.Logger
	games    gameService
	upgrader websocket.Upgrader

	handlers map[string]handler
}

func New(logger *slog.Logger, games gameService) *Server {
	server := &Server{
		logger: logger.With("component", "websocket"),
		games:  games,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},
		handlers: make(map[string]handler),
	}

	server.handlers[actionGameNew] = server.handleNewGame
	server.handlers[actionGameGet] = server.handleGetGame
	server.handlers[actionGameTurn] = server.handleGameTurn
	server.handlers[actionGameReset] = server.handleGameReset
	server.handlers[actionGameSettings] = server.handleGameSettings
	server.handlers[actionGameLeave] = server.handleGameLeave

	return server
}

func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", that.upgradeToWebSocket)

	return mux
}

// Start - starts WebSocket server and stops it when ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// upgradeToWebSocket - upgrades the connection to WebSocket.
func (that *Server) upgradeToWebSocket(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeConnection")

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	defer conn.Close()

	conn.SetReadLimit(maxMessageSize)

	log.Info("WebSocket connection established", "remote", conn.RemoteAddr().String())

	if err = that.handleMessages(req.Context(), conn); err != nil {
		log.Error("error handling messages", "error", err)
	}
}

// handleMessages - processes messages from the client until it goes away.
func (that *Server) handleMessages(ctx context.Context, conn *websocket.Conn) error {
	log := that.logger.With("method", "handleMessages")

	sess := &session{}

	for {
		_, data, err := conn.ReadMessage()
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			log.Info("client closed connection", "gameID", sess.gameID)
			return nil
		}

		if err != nil {
			return fmt.Errorf("failed to read message: %w", err)
		}

		response := that.process(ctx, sess, data)
		if err = conn.WriteJSON(response); err != nil {
			return fmt.Errorf("failed to write message: %w", err)
		}
	}
}

// process - decodes one message, runs its handler and builds the reply. It never fails:
// every problem becomes an error reply for the same action.
func (that *Server) process(ctx context.Context, sess *session, data []byte) *Message {
	log := that.logger.With("method", "process")

	var message Message
	if err := json.Unmarshal(data, &message); err != nil {
		log.Debug("failed to unmarshal message", "error", err)
		return errorMessage("", fmt.Errorf("%w: %w", errMalformedMessage, err), nil)
	}

	handle, ok := that.handlers[message.Action]
	if !ok {
		log.Debug("unknown action", "action", message.Action)
		return errorMessage(message.Action, fmt.Errorf("%w: %q", errUnknownAction, message.Action), nil)
	}

	var payload Payload
	if len(message.Payload) > 0 {
		if err := json.Unmarshal(message.Payload, &payload); err != nil {
			return errorMessage(message.Action, classifyPayloadError(err), nil)
		}
	}

	response, err := handle(ctx, sess, &payload)
	if err != nil {
		var game *entity.Game
		if response != nil {
			game = response.game
		}
		return errorMessage(message.Action, err, game)
	}

	return response.message(message.Action)
}

// classifyPayloadError - a size or win length that is not an integer is an invalid config,
// anything else is a malformed message.
func classifyPayloadError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && (typeErr.Field == "size" || typeErr.Field == "win_length") {
		return fmt.Errorf("%w: %w", apperror.ErrInvalidConfig, err)
	}

	return fmt.Errorf("%w: %w", errMalformedMessage, err)
}
