package rest

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-mnk/internal/settings"
)

func TestGetSettings(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  settings.Form
	}{
		{name: "Defaults without parameters", query: "", want: settings.Form{Size: 5, WinLength: 4}},
		{name: "Size only keeps the default win length", query: "?size=6", want: settings.Form{Size: 6, WinLength: 4}},
		{name: "Unparsable input falls back to 3", query: "?size=abc&win_length=", want: settings.Form{Size: 3, WinLength: 3}},
		{name: "Oversized input is held at the bounds", query: "?size=50&win_length=40", want: settings.Form{Size: 20, WinLength: 20}},
		{name: "Win length never exceeds size", query: "?size=4&win_length=9", want: settings.Form{Size: 4, WinLength: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given: a server with the default bounds
			srv, _ := newTestServer(t)

			// When: the settings screen asks for its state
			resp := doRequest(t, http.MethodGet, srv.URL+"/settings"+tt.query, "")

			// Then: bounds and the clamped form
			require.Equal(t, http.StatusOK, resp.StatusCode)
			body := decode[settingsView](t, resp)
			assert.Equal(t, 3, body.MinSize)
			assert.Equal(t, settings.DefaultMaxSize, body.MaxSize)
			assert.Equal(t, 3, body.MinWinLength)
			assert.Equal(t, tt.want, body.Form)
		})
	}
}
