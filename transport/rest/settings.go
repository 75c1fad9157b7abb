package rest

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/rocketscienceinc/tictactoe-mnk/internal/entity"
	"github.com/rocketscienceinc/tictactoe-mnk/internal/settings"
)

type formSettings interface {
	Bounds() settings.Bounds
	Clamp(form settings.Form) settings.Form
}

type SettingsHandler interface {
	GetSettings(w http.ResponseWriter, r *http.Request)
}

// settingsView tells the settings screen its limits and what its inputs should show.
type settingsView struct {
	MinSize      int           `json:"min_size"`
	MaxSize      int           `json:"max_size"`
	MinWinLength int           `json:"min_win_length"`
	Form         settings.Form `json:"form"`
}

type settingsHandler struct {
	logger   *slog.Logger
	settings formSettings
}

func NewSettingsHandler(logger *slog.Logger, provider formSettings) SettingsHandler {
	return &settingsHandler{
		logger:   logger,
		settings: provider,
	}
}

// GetSettings - returns the bounds and the clamped form for ?size=&win_length=.
// A missing parameter takes its default; an unparsable one reads as zero and clamps to 3.
func (that *settingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	form := settings.Default()

	query := r.URL.Query()
	if query.Has("size") {
		form.Size = parseInput(query.Get("size"))
	}

	if query.Has("win_length") {
		form.WinLength = parseInput(query.Get("win_length"))
	}

	bounds := that.settings.Bounds()

	writeJSON(that.logger, w, http.StatusOK, settingsView{
		MinSize:      bounds.MinSize,
		MaxSize:      bounds.MaxSize,
		MinWinLength: entity.MinWinLength,
		Form:         that.settings.Clamp(form),
	})
}

// parseInput reads a number input; anything that is not an integer reads as zero.
func parseInput(raw string) int {
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}
