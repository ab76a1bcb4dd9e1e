package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"travel-vault-server/internal/assistant"
	"travel-vault-server/internal/auth"
	"travel-vault-server/internal/hub"
	"travel-vault-server/internal/storage"
	"travel-vault-server/internal/vault"
)

type scriptedCompleter struct {
	reply string
	err   error
}

func (s *scriptedCompleter) Complete(ctx context.Context, messages []assistant.ChatMessage) (string, error) {
	return s.reply, s.err
}

func newTestRouter(t *testing.T, completer assistant.Completer) (*gin.Engine, *vault.SessionStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	backend, err := storage.NewFileBackend(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileBackend: %v", err)
	}
	queue := storage.NewQueue(backend, nil)

	sessions := vault.NewSessionStore(queue, "travel-vault")
	deps := Deps{
		Sessions:    sessions,
		Loyalty:     vault.NewLoyaltyStore(queue, "travel-vault"),
		KTNs:        vault.NewKTNStore(queue, "travel-vault"),
		Settings:    vault.NewSettingsStore(queue, "travel-vault"),
		Engine:      assistant.NewEngine(completer, queue, "travel-vault"),
		Hub:         hub.New(),
		TokenConfig: auth.TokenConfig{Secret: "secret", Expiry: time.Hour, Issuer: "test"},
		Version:     "test",
	}
	return NewRouter(deps), sessions
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func signIn(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/v1/auth/apple", "", map[string]any{
		"credential": map[string]any{
			"id":    "apple-1",
			"email": "ada@example.com",
			"name":  map[string]any{"firstName": "Ada", "lastName": "Lovelace"},
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("sign in: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Token == "" {
		t.Fatalf("expected token")
	}
	return resp.Token
}

func TestSignInFlow(t *testing.T) {
	r, sessions := newTestRouter(t, &scriptedCompleter{})

	token := signIn(t, r)

	if !sessions.IsAuthenticated() {
		t.Fatalf("expected signed-in session")
	}

	w := doJSON(t, r, http.MethodGet, "/v1/me", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var me struct {
		User struct {
			Name string `json:"name"`
		} `json:"user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &me); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if me.User.Name != "Ada Lovelace" {
		t.Fatalf("expected derived display name, got %q", me.User.Name)
	}

	w = doJSON(t, r, http.MethodPost, "/v1/auth/signout", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("signout: expected 200, got %d", w.Code)
	}
	w = doJSON(t, r, http.MethodGet, "/v1/me", token, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after signout, got %d", w.Code)
	}
}

func TestSignInFailureMapping(t *testing.T) {
	r, _ := newTestRouter(t, &scriptedCompleter{})

	w := doJSON(t, r, http.MethodPost, "/v1/auth/apple", "", map[string]any{"errorCode": "cancelled"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp["error"] != "Sign in was cancelled" {
		t.Fatalf("unexpected error message %q", resp["error"])
	}

	w = doJSON(t, r, http.MethodPost, "/v1/auth/apple", "", map[string]any{"credential": map[string]any{"id": ""}})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty credential id, got %d", w.Code)
	}
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	r, _ := newTestRouter(t, &scriptedCompleter{})

	for _, path := range []string{"/v1/loyalty", "/v1/ktn", "/v1/settings", "/v1/assistant/messages"} {
		w := doJSON(t, r, http.MethodGet, path, "", nil)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", path, w.Code)
		}
	}
}

func TestLoyaltyEndpoints(t *testing.T) {
	r, _ := newTestRouter(t, &scriptedCompleter{})
	token := signIn(t, r)

	w := doJSON(t, r, http.MethodPost, "/v1/loyalty", token, map[string]any{
		"airlineId":    "ua",
		"airlineName":  "United",
		"memberNumber": "MP123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("create: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var created struct {
		Program struct {
			ID string `json:"id"`
		} `json:"program"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if created.Program.ID == "" {
		t.Fatalf("expected assigned id")
	}

	w = doJSON(t, r, http.MethodPost, "/v1/loyalty", token, map[string]any{"airlineId": "dl"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without member number, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPut, "/v1/loyalty/"+created.Program.ID, token, map[string]any{
		"airlineId":    "ua",
		"airlineName":  "United",
		"memberNumber": "MP999",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPut, "/v1/loyalty/ghost", token, map[string]any{"memberNumber": "x"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown id, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodDelete, "/v1/loyalty/"+created.Program.ID, token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/v1/loyalty", token, nil)
	var list struct {
		Programs []any `json:"programs"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(list.Programs) != 0 {
		t.Fatalf("expected empty list, got %d", len(list.Programs))
	}
}

func TestKTNNumberOnlyFlow(t *testing.T) {
	r, _ := newTestRouter(t, &scriptedCompleter{})
	token := signIn(t, r)

	w := doJSON(t, r, http.MethodPost, "/v1/ktn", token, map[string]any{"number": "987654321"})
	if w.Code != http.StatusOK {
		t.Fatalf("create: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var created struct {
		KTN struct {
			Nickname string `json:"nickname"`
		} `json:"ktn"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if created.KTN.Nickname != "KTN" {
		t.Fatalf("expected default nickname, got %q", created.KTN.Nickname)
	}

	w = doJSON(t, r, http.MethodPost, "/v1/ktn", token, map[string]any{"nickname": "Mom"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without number, got %d", w.Code)
	}
}

func TestSettingsEndpoints(t *testing.T) {
	r, _ := newTestRouter(t, &scriptedCompleter{})
	token := signIn(t, r)

	w := doJSON(t, r, http.MethodGet, "/v1/settings", token, nil)
	var resp struct {
		Settings struct {
			IsDarkMode bool `json:"isDarkMode"`
		} `json:"settings"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !resp.Settings.IsDarkMode {
		t.Fatalf("expected dark mode on by default")
	}

	w = doJSON(t, r, http.MethodPost, "/v1/settings/dark-mode/toggle", token, nil)
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Settings.IsDarkMode {
		t.Fatalf("expected dark mode toggled off")
	}
}

func TestAssistantEndpoints(t *testing.T) {
	completer := &scriptedCompleter{reply: "Pack light clothes..."}
	r, _ := newTestRouter(t, completer)
	token := signIn(t, r)

	w := doJSON(t, r, http.MethodPost, "/v1/assistant/messages", token, map[string]any{
		"content": "What should I pack for a beach vacation?",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("send: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Messages []struct {
			ID     string `json:"id"`
			Role   string `json:"role"`
			Status string `json:"status"`
		} `json:"messages"`
		QuickActions []struct {
			ID string `json:"id"`
		} `json:"quickActions"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(resp.Messages))
	}
	if resp.Messages[1].Status != "delivered" {
		t.Fatalf("expected delivered assistant message, got %+v", resp.Messages[1])
	}
	if len(resp.QuickActions) == 0 || resp.QuickActions[0].ID != "packing-checklist" {
		t.Fatalf("unexpected quick actions %+v", resp.QuickActions)
	}

	w = doJSON(t, r, http.MethodPost, "/v1/assistant/messages", token, map[string]any{"content": "   "})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank message, got %d", w.Code)
	}

	msgID := resp.Messages[1].ID
	w = doJSON(t, r, http.MethodPost, "/v1/assistant/messages/"+msgID+"/bookmark", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("bookmark: expected 200, got %d", w.Code)
	}
	w = doJSON(t, r, http.MethodGet, "/v1/assistant/bookmarks", token, nil)
	var bookmarks struct {
		Messages []any `json:"messages"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &bookmarks); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(bookmarks.Messages) != 1 {
		t.Fatalf("expected 1 bookmark, got %d", len(bookmarks.Messages))
	}

	w = doJSON(t, r, http.MethodGet, "/v1/assistant/search?q=pack", token, nil)
	if err := json.Unmarshal(w.Body.Bytes(), &bookmarks); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(bookmarks.Messages) != 2 {
		t.Fatalf("expected 2 search hits, got %d", len(bookmarks.Messages))
	}

	w = doJSON(t, r, http.MethodPost, "/v1/assistant/messages/ghost/retry", token, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown retry id, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/v1/assistant/sessions", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("new session: expected 200, got %d", w.Code)
	}
	w = doJSON(t, r, http.MethodGet, "/v1/assistant/sessions", token, nil)
	var sessions struct {
		Sessions []struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"sessions"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &sessions); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(sessions.Sessions) != 2 {
		t.Fatalf("expected current plus archived session, got %d", len(sessions.Sessions))
	}
}

func TestHealthAndVersion(t *testing.T) {
	r, _ := newTestRouter(t, &scriptedCompleter{})

	w := doJSON(t, r, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", w.Code)
	}
	w = doJSON(t, r, http.MethodGet, "/v1/version", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("version: expected 200, got %d", w.Code)
	}
}
