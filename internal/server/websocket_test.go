package server

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"travel-vault-server/internal/auth"
)

func TestWebSocketPingPong(t *testing.T) {
	r, sessions := newTestRouter(t, &scriptedCompleter{reply: "ok"})
	token := signIn(t, r)
	if !sessions.IsAuthenticated() {
		t.Fatalf("expected signed-in session")
	}

	srv := httptest.NewServer(r)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(map[string]string{"type": "ping"}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	var resp map[string]any
	if err := json.Unmarshal(data, &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp["type"] != "pong" {
		t.Fatalf("expected pong, got %v", resp)
	}
}

func TestWebSocketRejectsBadToken(t *testing.T) {
	r, _ := newTestRouter(t, &scriptedCompleter{})
	signIn(t, r)

	srv := httptest.NewServer(r)
	defer srv.Close()

	bad, err := auth.CreateToken("someone-else", "", auth.TokenConfig{Secret: "other", Expiry: time.Hour, Issuer: "test"})
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + bad
	if _, _, err := websocket.DefaultDialer.Dial(wsURL, nil); err == nil {
		t.Fatalf("expected dial to fail for bad token")
	}
}
