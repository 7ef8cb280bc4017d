package handlers

import (
	"context"
	"net/http"

	"github.com/andresuchdata/stationops/backend-go/internal/domain"
	"github.com/andresuchdata/stationops/backend-go/internal/permission"
	"github.com/andresuchdata/stationops/backend-go/internal/service"
	"github.com/gin-gonic/gin"
)

type ProfileService interface {
	Get(ctx context.Context, user domain.UserContext, id string) (*domain.UserProfile, error)
	Update(ctx context.Context, user domain.UserContext, id string, in service.ProfileInput) (*domain.UserProfile, error)
}

type ProfileHandler struct {
	service ProfileService
}

func NewProfileHandler(service ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// Permissions returns the caller's effective role and its capability record.
func (h *ProfileHandler) Permissions(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":        user,
		"role":        permission.EffectiveRole(user.Role),
		"permissions": permission.Resolve(user.Role),
	})
}

func (h *ProfileHandler) Get(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	profile, err := h.service.Get(c.Request.Context(), user, c.Query("id"))
	if err != nil {
		respondError(c, "Failed to get profile", err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var in service.ProfileInput
	if !bindJSON(c, &in) {
		return
	}

	profile, err := h.service.Update(c.Request.Context(), user, c.Query("id"), in)
	if err != nil {
		respondError(c, "Failed to update profile", err)
		return
	}

	c.JSON(http.StatusOK, profile)
}
