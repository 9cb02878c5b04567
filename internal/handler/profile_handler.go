package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/resalehq/pricing-engine/internal/model"
)

type ProfileLister interface {
	List(ctx context.Context) ([]model.MarketProfile, error)
}

type ProfileHandler struct {
	store ProfileLister
}

func NewProfileHandler(store ProfileLister) *ProfileHandler {
	return &ProfileHandler{store: store}
}

func (h *ProfileHandler) List(c *gin.Context) {
	profiles, err := h.store.List(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": profiles})
}
