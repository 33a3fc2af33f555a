package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/glp1care/companion-api/internal/domain/repository"
	apperrors "github.com/glp1care/companion-api/internal/pkg/errors"
)

// UserHandler serves the authenticated user's own profile.
type UserHandler struct {
	userRepo repository.UserRepository
}

func NewUserHandler(userRepo repository.UserRepository) *UserHandler {
	return &UserHandler{userRepo: userRepo}
}

// GetMe returns the caller's local profile. Requires the auth middleware,
// which puts the verified subject id into the context.
// GET /api/users/me
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Unauthorized"})
		return
	}

	user, err := h.userRepo.GetByID(userID.(string))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Profile not found"})
			return
		}
		log.Printf("[UserHandler] failed to load profile for user=%v: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    user,
	})
}
