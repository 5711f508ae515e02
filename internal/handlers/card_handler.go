package handlers

import (
	"context"
	"net/http"

	"card-bookmark-api/internal/cards"
	"card-bookmark-api/internal/models"

	"github.com/gin-gonic/gin"
)

// CardService is what the card handlers need from the card service.
type CardService interface {
	List() []models.Card
	Add(ctx context.Context, in cards.NewCard) (string, error)
	Delete(ctx context.Context, id string) error
}

// CreateCardRequest represents the request payload for creating a card
type CreateCardRequest struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// CardHandler serves the card routes.
type CardHandler struct {
	cards CardService
}

// NewCardHandler constructs a CardHandler.
func NewCardHandler(svc CardService) *CardHandler {
	return &CardHandler{cards: svc}
}

// List handles GET /cards
// Returns the cached cards; never touches the store.
func (h *CardHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.cards.List())
}

// Create handles POST /card
// Stores a new card and returns its generated id.
func (h *CardHandler) Create(c *gin.Context) {
	var req CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	id, err := h.cards.Add(c.Request.Context(), cards.NewCard{
		URL:         req.URL,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create card",
		})
		return
	}

	c.JSON(http.StatusCreated, id)
}

// Delete handles DELETE /card/:id
// Succeeds whether or not the card existed.
func (h *CardHandler) Delete(c *gin.Context) {
	cardID := c.Param("id")
	if cardID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Card ID is required",
		})
		return
	}

	if err := h.cards.Delete(c.Request.Context(), cardID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to delete card",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Card deleted",
		"id":      cardID,
	})
}
