package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"travel-vault-server/internal/model"
	"travel-vault-server/internal/vault"
)

type LoyaltyHandler struct {
	Store *vault.LoyaltyStore
}

func (h *LoyaltyHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"programs": h.Store.List()})
}

func (h *LoyaltyHandler) Create(c *gin.Context) {
	var body model.LoyaltyProgram
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	program, err := h.Store.Add(body)
	if err != nil {
		if errors.Is(err, vault.ErrMemberNumberRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save program"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"program": program})
}

func (h *LoyaltyHandler) Update(c *gin.Context) {
	var body model.LoyaltyProgram
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
		c.JSON(http.StatusNotFound, gin.H{"error": "Program not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"program": body})
}

func (h *LoyaltyHandler) Delete(c *gin.Context) {
	if !h.Store.Delete(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Program not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
