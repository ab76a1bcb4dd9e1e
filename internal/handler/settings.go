package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"travel-vault-server/internal/model"
	"travel-vault-server/internal/vault"
)

type SettingsHandler struct {
	Store *vault.SettingsStore
}

func (h *SettingsHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"settings": h.Store.Get()})
}

func (h *SettingsHandler) Put(c *gin.Context) {
	var body model.Settings
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	h.Store.Set(body)
	c.JSON(http.StatusOK, gin.H{"settings": body})
}

func (h *SettingsHandler) ToggleDarkMode(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"settings": h.Store.ToggleDarkMode()})
}
