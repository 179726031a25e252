package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"photobooth/pkg/protocol"
)

func TestHealthHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	HealthHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, map[string]string{"status": "ok"}, body)
}

func TestCreateRoomHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/rooms", nil)
	req.Host = "booth.example.com"
	CreateRoomHandler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Code string `json:"code"`
		URL  string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Code)
	require.Equal(t, "http://booth.example.com/rooms/"+body.Code, body.URL)
}

func TestCreateRoomHandlerRejectsGet(t *testing.T) {
	rec := httptest.NewRecorder()
	CreateRoomHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/rooms", nil))
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCreateRoomHandlerCodesAreFresh(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		rec := httptest.NewRecorder()
		CreateRoomHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/rooms", nil))

		var body struct {
			Code string `json:"code"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.False(t, seen[body.Code], "duplicate code %s", body.Code)
		seen[body.Code] = true
	}
}

func TestSettingsHandler(t *testing.T) {
	settings := Settings{
		ICEMode:    "stun-turn",
		ICEServers: []protocol.ICEServer{{URLs: []string{"stun:stun.example.com:3478"}}},
	}

	tests := []struct {
		name      string
		publicURL string
		forwarded string
		wantWSURL string
	}{
		{
			name:      "plain http",
			wantWSURL: "ws://booth.example.com/ws",
		},
		{
			name:      "behind https proxy",
			forwarded: "https",
			wantWSURL: "wss://booth.example.com/ws",
		},
		{
			name:      "explicit public url",
			publicURL: "wss://ws.example.com/ws",
			wantWSURL: "wss://ws.example.com/ws",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := settings
			s.PublicWSURL = tt.publicURL

			req := httptest.NewRequest(http.MethodGet, "/api/settings", nil)
			req.Host = "booth.example.com"
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-Proto", tt.forwarded)
			}

			rec := httptest.NewRecorder()
			SettingsHandler(s).ServeHTTP(rec, req)
			require.Equal(t, http.StatusOK, rec.Code)

			var body struct {
				WSURL   string `json:"wsURL"`
				ICEMode string `json:"iceMode"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.Equal(t, tt.wantWSURL, body.WSURL)
			require.Equal(t, "stun-turn", body.ICEMode)
		})
	}
}
