package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"travel-vault-server/internal/model"
	"travel-vault-server/internal/vault"
)

type KTNHandler struct {
	Store *vault.KTNStore
}

func (h *KTNHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ktns": h.Store.List()})
}

// Create accepts either a full KTN or just a number; a missing nickname gets
// the default label.
func (h *KTNHandler) Create(c *gin.Context) {
	var body model.KTN
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if body.Nickname == "" {
		body.Nickname = vault.DefaultNickname
	}

	ktn, err := h.Store.Add(body)
	if err != nil {
		if errors.Is(err, vault.ErrNumberRequired) || errors.Is(err, vault.ErrNicknameRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save KTN"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ktn": ktn})
}

func (h *KTNHandler) Update(c *gin.Context) {
	var body model.KTN
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	body.ID = c.Param("id")

	ok, err := h.Store.Update(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "KTN not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ktn": body})
}

func (h *KTNHandler) Delete(c *gin.Context) {
	if !h.Store.Delete(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "KTN not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
