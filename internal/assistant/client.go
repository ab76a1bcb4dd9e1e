// Package assistant wraps the hosted completion endpoint behind a chat
// engine with a persisted transcript, bookmarks, categories, and suggested
// follow-up actions.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const systemPrompt = "You are a helpful travel assistant. Provide concise, accurate information about travel destinations, airlines, hotels, travel tips, and other travel-related topics. Keep responses friendly and informative."

const DefaultEndpoint = "https://toolkit.rork.com/text/llm/"

// ChatMessage is one entry of the wire conversation sent to the endpoint.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completer produces an assistant reply for a conversation.
type Completer interface {
	Complete(ctx context.Context, messages []ChatMessage) (string, error)
}

// Client talks to the hosted completion endpoint.
type Client struct {
	url        string
	httpClient *http.Client
}

func NewClient(url string, timeout time.Duration) *Client {
	if url == "" {
		url = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type completionRequest struct {
	Messages []ChatMessage `json:"messages"`
}

type completionResponse struct {
	Completion string `json:"completion"`
}

// Complete posts the conversation and returns the completion text.
func (c *Client) Complete(ctx context.Context, messages []ChatMessage) (string, error) {
	body, err := json.Marshal(completionRequest{Messages: messages})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("completion endpoint returned %d: %s", resp.StatusCode, data)
	}

	var out completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return out.Completion, nil
}
