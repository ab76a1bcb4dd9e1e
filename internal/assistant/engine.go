package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"travel-vault-server/internal/ident"
	"travel-vault-server/internal/model"
	"travel-vault-server/internal/storage"
)

const errorReply = "Sorry, I'm having trouble connecting right now. Please try again later."

const defaultTitle = "New Chat"

var (
	ErrEmptyMessage  = errors.New("message is empty")
	ErrSendInFlight  = errors.New("a send is already in flight")
	ErrNotRetryable  = errors.New("message is not retryable")
	ErrNoSuchSession = errors.New("no such session")
)

// chatState is the persisted shape of the transcript. Quick actions are
// derived data and are never written.
type chatState struct {
	Session  model.ChatSession   `json:"session"`
	Messages []model.Message     `json:"messages"`
	Sessions []model.ChatSession `json:"sessions"`
}

// Engine drives the assistant conversation. At most one completion request
// is in flight at a time; concurrent sends are rejected rather than queued.
type Engine struct {
	completer Completer
	queue     *storage.Queue
	key       string
	now       func() time.Time

	// OnEvent, when set, observes every transcript change. Set it before
	// serving traffic; it is invoked outside the engine lock.
	OnEvent func(event string, body any)

	mu           sync.Mutex
	inFlight     bool
	typing       bool
	messages     []model.Message
	quickActions []model.QuickAction
	session      model.ChatSession
	sessions     []model.ChatSession
}

func NewEngine(completer Completer, queue *storage.Queue, namespace string) *Engine {
	return NewEngineWithNow(completer, queue, namespace, time.Now)
}

func NewEngineWithNow(completer Completer, queue *storage.Queue, namespace string, now func() time.Time) *Engine {
	e := &Engine{
		completer: completer,
		queue:     queue,
		key:       namespace + "-chat",
		now:       now,
	}
	e.session = e.newSessionMarker()
	return e
}

func (e *Engine) newSessionMarker() model.ChatSession {
	ts := e.now().UnixMilli()
	return model.ChatSession{ID: uuid.NewString(), Title: defaultTitle, CreatedAt: ts, UpdatedAt: ts}
}

// Load restores the persisted transcript and session markers. An absent key
// keeps the fresh session.
func (e *Engine) Load() error {
	data, ok, err := e.queue.Get(e.key)
	if err != nil {
		return fmt.Errorf("load %s: %w", e.key, err)
	}
	if !ok {
		return nil
	}

	var state chatState
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("load %s: %w", e.key, err)
	}

	e.mu.Lock()
	if state.Session.ID != "" {
		e.session = state.Session
	}
	e.messages = state.Messages
	e.sessions = state.Sessions
	e.mu.Unlock()
	return nil
}

// Send appends content as a user message and synchronously requests a
// completion. Network and HTTP failures are recorded on the transcript, not
// returned; the error return covers only validation and the in-flight guard.
func (e *Engine) Send(ctx context.Context, content string) error {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return ErrEmptyMessage
	}

	e.mu.Lock()
	if e.inFlight {
		e.mu.Unlock()
		return ErrSendInFlight
	}

	history := e.historyLocked(len(e.messages))
	firstExchange := len(e.messages) == 0

	msg := model.Message{
		ID:        ident.New(),
		Role:      model.RoleUser,
		Content:   trimmed,
		Timestamp: e.now().UnixMilli(),
		Status:    model.StatusSending,
	}
	e.messages = append(e.messages, msg)
	e.inFlight = true
	e.typing = true
	e.quickActions = nil
	e.session.UpdatedAt = msg.Timestamp
	e.persistLocked()
	e.mu.Unlock()
	e.emitMessages()
	e.emitTyping(true)

	history = append(history, ChatMessage{Role: string(model.RoleUser), Content: trimmed})
	e.finish(msg.ID, trimmed, firstExchange, e.complete(ctx, history))
	return nil
}

// Retry re-issues a failed user message. Assistant messages that arrived
// after it are discarded first.
func (e *Engine) Retry(ctx context.Context, id string) error {
	e.mu.Lock()
	if e.inFlight {
		e.mu.Unlock()
		return ErrSendInFlight
	}

	idx := -1
	for i := range e.messages {
		if e.messages[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 || e.messages[idx].Role != model.RoleUser {
		e.mu.Unlock()
		return ErrNotRetryable
	}

	target := e.messages[idx]
	kept := e.messages[:0]
	for _, m := range e.messages {
		if m.Role == model.RoleAssistant && m.Timestamp > target.Timestamp {
			continue
		}
		kept = append(kept, m)
	}
	e.messages = kept

	for i := range e.messages {
		if e.messages[i].ID == id {
			idx = i
			e.messages[i].Status = model.StatusSending
			e.messages[i].Error = ""
			break
		}
	}

	history := e.historyLocked(idx)
	history = append(history, ChatMessage{Role: string(model.RoleUser), Content: target.Content})
	firstExchange := idx == 0

	e.inFlight = true
	e.typing = true
	e.quickActions = nil
	e.session.UpdatedAt = e.now().UnixMilli()
	e.persistLocked()
	e.mu.Unlock()
	e.emitMessages()
	e.emitTyping(true)

	e.finish(target.ID, target.Content, firstExchange, e.complete(ctx, history))
	return nil
}

type completion struct {
	text string
	err  error
}

func (e *Engine) complete(ctx context.Context, history []ChatMessage) completion {
	text, err := e.completer.Complete(ctx, history)
	return completion{text: text, err: err}
}

// historyLocked builds the wire conversation from the first n transcript
// entries, always led by the system prompt. Callers hold mu.
func (e *Engine) historyLocked(n int) []ChatMessage {
	history := make([]ChatMessage, 0, n+2)
	history = append(history, ChatMessage{Role: "system", Content: systemPrompt})
	for _, m := range e.messages[:n] {
		history = append(history, ChatMessage{Role: string(m.Role), Content: m.Content})
	}
	return history
}

// finish applies the completion outcome to the transcript and releases the
// in-flight guard.
func (e *Engine) finish(msgID, userText string, firstExchange bool, c completion) {
	e.mu.Lock()
	ts := e.now().UnixMilli()

	if c.err != nil {
		for i := range e.messages {
			if e.messages[i].ID == msgID {
				e.messages[i].Status = model.StatusError
				e.messages[i].Error = c.err.Error()
				break
			}
		}
		e.messages = append(e.messages, model.Message{
			ID:        ident.New(),
			Role:      model.RoleAssistant,
			Content:   errorReply,
			Timestamp: ts,
			Status:    model.StatusError,
		})
		e.quickActions = nil
	} else {
		for i := range e.messages {
			if e.messages[i].ID == msgID {
				e.messages[i].Status = model.StatusSent
				break
			}
		}
		e.messages = append(e.messages, model.Message{
			ID:        ident.New(),
			Role:      model.RoleAssistant,
			Content:   c.text,
			Timestamp: ts,
			Status:    model.StatusDelivered,
		})
		e.quickActions = deriveQuickActions(userText, firstExchange)
	}

	e.inFlight = false
	e.typing = false
	e.session.UpdatedAt = ts
	e.persistLocked()
	e.mu.Unlock()
	e.emitMessages()
	e.emitTyping(false)
}

// ClearMessages wipes the transcript and quick actions in place. The session
// marker is kept.
func (e *Engine) ClearMessages() {
	e.mu.Lock()
	e.messages = nil
	e.quickActions = nil
	e.session.UpdatedAt = e.now().UnixMilli()
	e.persistLocked()
	e.mu.Unlock()
	e.emitMessages()
}

// NewSession archives the current marker when the transcript is non-empty,
// then starts a fresh transcript. Archived sessions keep only their marker.
func (e *Engine) NewSession() model.ChatSession {
	e.mu.Lock()
	if len(e.messages) > 0 {
		archived := e.session
		archived.Title = deriveTitle(e.messages)
		archived.UpdatedAt = e.now().UnixMilli()
		e.sessions = append([]model.ChatSession{archived}, e.sessions...)
	}
	e.messages = nil
	e.quickActions = nil
	e.session = e.newSessionMarker()
	out := e.session
	e.persistLocked()
	e.mu.Unlock()
	e.emitMessages()
	return out
}

// Sessions lists the current marker followed by archived ones, newest first.
func (e *Engine) Sessions() []model.ChatSession {
	e.mu.Lock()
	defer e.mu.Unlock()
	current := e.session
	if len(e.messages) > 0 {
		current.Title = deriveTitle(e.messages)
	}
	out := make([]model.ChatSession, 0, len(e.sessions)+1)
	out = append(out, current)
	out = append(out, e.sessions...)
	return out
}

// DeleteSession removes an archived marker. Deleting the current session
// clears the transcript and stamps a fresh marker.
func (e *Engine) DeleteSession(id string) error {
	e.mu.Lock()
	if id == e.session.ID {
		e.messages = nil
		e.quickActions = nil
		e.session = e.newSessionMarker()
		e.persistLocked()
		e.mu.Unlock()
		e.emitMessages()
		return nil
	}
	for i := range e.sessions {
		if e.sessions[i].ID == id {
			e.sessions = append(e.sessions[:i], e.sessions[i+1:]...)
			e.persistLocked()
			e.mu.Unlock()
			return nil
		}
	}
	e.mu.Unlock()
	return ErrNoSuchSession
}

// ToggleBookmark flips the bookmark flag. Unknown ids are a no-op.
func (e *Engine) ToggleBookmark(id string) bool {
	e.mu.Lock()
	for i := range e.messages {
		if e.messages[i].ID == id {
			e.messages[i].IsBookmarked = !e.messages[i].IsBookmarked
			e.persistLocked()
			e.mu.Unlock()
			e.emitMessages()
			return true
		}
	}
	e.mu.Unlock()
	return false
}

// SetCategory tags a message with a free-text category. Unknown ids are a
// no-op.
func (e *Engine) SetCategory(id, category string) bool {
	e.mu.Lock()
	for i := range e.messages {
		if e.messages[i].ID == id {
			e.messages[i].Category = category
			e.persistLocked()
			e.mu.Unlock()
			e.emitMessages()
			return true
		}
	}
	e.mu.Unlock()
	return false
}

func (e *Engine) Messages() []model.Message {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.copyMessagesLocked()
}

func (e *Engine) QuickActions() []model.QuickAction {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]model.QuickAction, len(e.quickActions))
	copy(out, e.quickActions)
	return out
}

func (e *Engine) Typing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.typing
}

// Loading reports whether a completion request is in flight.
func (e *Engine) Loading() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inFlight
}

// Session returns the current session marker.
func (e *Engine) Session() model.ChatSession {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session
}

// Bookmarked returns the bookmarked messages in transcript order.
func (e *Engine) Bookmarked() []model.Message {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []model.Message
	for _, m := range e.messages {
		if m.IsBookmarked {
			out = append(out, m)
		}
	}
	return out
}

// ByCategory returns the messages tagged with category, matched exactly.
func (e *Engine) ByCategory(category string) []model.Message {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []model.Message
	for _, m := range e.messages {
		if m.Category == category {
			out = append(out, m)
		}
	}
	return out
}

// Search returns messages whose content contains query, case-insensitively.
func (e *Engine) Search(query string) []model.Message {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	var out []model.Message
	for _, m := range e.messages {
		if strings.Contains(strings.ToLower(m.Content), q) {
			out = append(out, m)
		}
	}
	return out
}

func (e *Engine) copyMessagesLocked() []model.Message {
	out := make([]model.Message, len(e.messages))
	copy(out, e.messages)
	return out
}

func (e *Engine) persistLocked() {
	messages := e.messages
	if messages == nil {
		messages = []model.Message{}
	}
	sessions := e.sessions
	if sessions == nil {
		sessions = []model.ChatSession{}
	}
	data, err := json.Marshal(chatState{Session: e.session, Messages: messages, Sessions: sessions})
	if err != nil {
		return
	}
	e.queue.Put(e.key, data)
}

func (e *Engine) emitMessages() {
	if e.OnEvent == nil {
		return
	}
	e.OnEvent("chat.messages", e.Messages())
}

func (e *Engine) emitTyping(v bool) {
	if e.OnEvent == nil {
		return
	}
	e.OnEvent("chat.typing", v)
}

// deriveTitle names a transcript after its first user message, truncated to
// 30 characters.
func deriveTitle(messages []model.Message) string {
	for _, m := range messages {
		if m.Role != model.RoleUser {
			continue
		}
		runes := []rune(m.Content)
		if len(runes) <= 30 {
			return m.Content
		}
		return string(runes[:30]) + "..."
	}
	return defaultTitle
}
