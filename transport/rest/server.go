package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	logger *slog.Logger
	mux    *http.ServeMux
}

func NewServer(logger *slog.Logger, games gameService, formSettings formSettings) *Server {
	log := logger.With("component", "rest")

	ping := NewPingHandler()
	handlers := NewGameHandlers(log, games)
	settingsHandler := NewSettingsHandler(log, formSettings)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", ping.PingHandler)
	mux.HandleFunc("GET /settings", settingsHandler.GetSettings)
	mux.HandleFunc("POST /games", handlers.CreateGame)
	mux.HandleFunc("GET /games/{id}", handlers.GetGame)
	mux.HandleFunc("POST /games/{id}/moves", handlers.MakeMove)
	mux.HandleFunc("POST /games/{id}/reset", handlers.ResetBoard)
	mux.HandleFunc("PUT /games/{id}/settings", handlers.ChangeSettings)
	mux.HandleFunc("DELETE /games/{id}", handlers.EndGame)

	return &Server{
		logger: log,
		mux:    mux,
	}
}

func (that *Server) Handler() http.Handler {
	return that.mux
}

// Start - serves HTTP on port until ctx is done, then shuts down gracefully.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
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
