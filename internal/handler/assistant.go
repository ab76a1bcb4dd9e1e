package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"travel-vault-server/internal/assistant"
)

type AssistantHandler struct {
	Engine *assistant.Engine
}

type sendBody struct {
	Content string `json:"content"`
}

type categoryBody struct {
	Category string `json:"category"`
}

func (h *AssistantHandler) Messages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"messages":     h.Engine.Messages(),
		"quickActions": h.Engine.QuickActions(),
		"isTyping":     h.Engine.Typing(),
	})
}

// Send dispatches a user message and blocks until the completion settles.
// Transport failures land on the transcript, so the response is 200 either
// way; only validation and the in-flight guard fail the request.
func (h *AssistantHandler) Send(c *gin.Context) {
	var body sendBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	err := h.Engine.Send(c.Request.Context(), body.Content)
	switch {
	case errors.Is(err, assistant.ErrEmptyMessage):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is empty"})
		return
	case errors.Is(err, assistant.ErrSendInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": "A message is already being sent"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		return
	}

	h.Messages(c)
}

func (h *AssistantHandler) Retry(c *gin.Context) {
	err := h.Engine.Retry(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, assistant.ErrNotRetryable):
		c.JSON(http.StatusNotFound, gin.H{"error": "Message is not retryable"})
		return
	case errors.Is(err, assistant.ErrSendInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": "A message is already being sent"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retry message"})
		return
	}

	h.Messages(c)
}

func (h *AssistantHandler) ToggleBookmark(c *gin.Context) {
	if !h.Engine.ToggleBookmark(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AssistantHandler) SetCategory(c *gin.Context) {
	var body categoryBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if !h.Engine.SetCategory(c.Param("id"), body.Category) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AssistantHandler) Bookmarks(c *gin.Context) {
	messages := h.Engine.Bookmarked()
	if category := c.Query("category"); category != "" {
		filtered := messages[:0]
		for _, m := range messages {
			if m.Category == category {
				filtered = append(filtered, m)
			}
		}
		messages = filtered
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

func (h *AssistantHandler) ByCategory(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"messages": h.Engine.ByCategory(c.Query("category"))})
}

func (h *AssistantHandler) Search(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"messages": h.Engine.Search(c.Query("q"))})
}

func (h *AssistantHandler) QuickActions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"quickActions": h.Engine.QuickActions()})
}

func (h *AssistantHandler) Clear(c *gin.Context) {
	h.Engine.ClearMessages()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AssistantHandler) Sessions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sessions": h.Engine.Sessions()})
}

func (h *AssistantHandler) NewSession(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"session": h.Engine.NewSession()})
}

func (h *AssistantHandler) DeleteSession(c *gin.Context) {
	if err := h.Engine.DeleteSession(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
