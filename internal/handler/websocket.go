package handler

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"travel-vault-server/internal/assistant"
	"travel-vault-server/internal/auth"
	"travel-vault-server/internal/hub"
	"travel-vault-server/internal/vault"
)

type WebSocketHandler struct {
	Hub         *hub.Hub
	Sessions    *vault.SessionStore
	Engine      *assistant.Engine
	TokenConfig auth.TokenConfig
}

type clientMessage struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
}

type serverMessage struct {
	Type  string      `json:"type"`
	Event string      `json:"event,omitempty"`
	Body  interface{} `json:"body,omitempty"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type wsWriter struct {
	conn *websocket.Conn
}

func (w *wsWriter) Write(message []byte) error {
	w.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return w.conn.WriteMessage(websocket.TextMessage, message)
}

func (w *wsWriter) Close() error {
	return w.conn.Close()
}

// Serve upgrades the connection and streams store and transcript updates to
// the signed-in user. Incoming "message" frames feed the assistant engine.
func (h *WebSocketHandler) Serve(c *gin.Context) {
	tokenString := c.Query("token")
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authentication token"})
		return
	}
	claims, err := auth.VerifyToken(tokenString, h.TokenConfig)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authentication token"})
		return
	}
	current, ok := h.Sessions.Current()
	if !ok || current.ID != claims.UserID {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session is no longer active"})
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	conn := &hub.Connection{UserID: claims.UserID, Writer: &wsWriter{conn: ws}}
	h.Hub.Register(conn)
	defer func() {
		h.Hub.Unregister(conn)
		_ = ws.Close()
	}()

	ws.SetReadLimit(1024 * 1024)
	const pongWait = 60 * time.Second
	const writeWait = 10 * time.Second
	pingPeriod := (pongWait * 9) / 10

	ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	done := make(chan struct{})
	var closeOnce sync.Once
	closeDone := func() {
		closeOnce.Do(func() {
			close(done)
		})
	}
	defer closeDone()

	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				deadline := time.Now().Add(writeWait)
				if err := ws.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
					_ = ws.Close()
					return
				}
			}
		}
	}()

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}

		switch msg.Type {
		case "ping":
			out, _ := json.Marshal(serverMessage{Type: "pong"})
			_ = conn.Writer.Write(out)
		case "message":
			if msg.Message == "" {
				continue
			}
			// Transcript updates reach the client through the engine's
			// event hook; only guard failures need a direct reply.
			if err := h.Engine.Send(c.Request.Context(), msg.Message); err != nil {
				out, _ := json.Marshal(serverMessage{Type: "error", Body: err.Error()})
				_ = conn.Writer.Write(out)
			}
		}
	}
}
