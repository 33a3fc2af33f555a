package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/glp1care/companion-api/internal/pkg/errors"
	"github.com/glp1care/companion-api/internal/service"
)

// NaverAuthenticator runs the Naver login bridge.
type NaverAuthenticator interface {
	Authenticate(ctx context.Context, input service.NaverAuthInput) (*service.NaverAuthResult, error)
}

// AccountDeleter permanently deletes the caller's account.
type AccountDeleter interface {
	DeleteAccount(ctx context.Context, accessToken string) error
}

// AuthHandler exposes the mobile auth endpoints: Naver social login and
// account deletion. Tokens travel in JSON and the Authorization header; no
// cookies, no CSRF (mobile clients only).
type AuthHandler struct {
	naverAuth NaverAuthenticator
	account   AccountDeleter
}

func NewAuthHandler(naverAuth NaverAuthenticator, account AccountDeleter) *AuthHandler {
	return &AuthHandler{
		naverAuth: naverAuth,
		account:   account,
	}
}

// NaverLoginRequest is the login bridge request body. The consent flags are
// optional; when omitted no consent record is written.
type NaverLoginRequest struct {
	AccessToken     string `json:"access_token" binding:"required"`
	AgreedToTerms   *bool  `json:"agreed_to_terms"`
	AgreedToPrivacy *bool  `json:"agreed_to_privacy"`
}

// NaverLoginResponse is the success envelope, mirroring what the mobile
// client expects from the auth flow.
type NaverLoginResponse struct {
	Success      bool           `json:"success"`
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	IsNewUser    bool           `json:"is_new_user"`
	User         loginUserBlock `json:"user"`
}

type loginUserBlock struct {
	ID           string                 `json:"id"`
	Email        string                 `json:"email"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
}

// NaverLogin bridges a Naver access token to a first-class session.
// POST /api/auth/naver
func (h *AuthHandler) NaverLogin(c *gin.Context) {
	var req NaverLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFailure(c, "access_token is required")
		return
	}

	result, err := h.naverAuth.Authenticate(c.Request.Context(), service.NaverAuthInput{
		AccessToken:     req.AccessToken,
		AgreedToTerms:   req.AgreedToTerms,
		AgreedToPrivacy: req.AgreedToPrivacy,
	})
	if err != nil {
		h.handleFlowError(c, err)
		return
	}

	sessionUser := result.Session.User
	c.JSON(http.StatusOK, NaverLoginResponse{
		Success:      true,
		AccessToken:  result.Session.AccessToken,
		RefreshToken: result.Session.RefreshToken,
		IsNewUser:    result.IsNewUser,
		User: loginUserBlock{
			ID:           sessionUser.ID,
			Email:        sessionUser.Email,
			UserMetadata: sessionUser.UserMetadata,
		},
	})
}

// DeleteAccount permanently deletes the caller's account and everything it
// owns. The target identity comes only from the verified bearer token.
// DELETE /api/account
func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	token, ok := bearerToken(c)
	if !ok {
		respondFailure(c, "Missing or invalid Authorization header")
		return
	}

	if err := h.account.DeleteAccount(c.Request.Context(), token); err != nil {
		h.handleFlowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Account deleted successfully",
	})
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// handleFlowError maps flow errors onto the failure envelope. The contract
// with the mobile client is a 400 plus {success:false, error}; retry policy
// is the client's call, except for the orphaned-credential case which needs
// operator reconciliation.
func (h *AuthHandler) handleFlowError(c *gin.Context, err error) {
	log.Printf("[AuthHandler] flow error: %v", err)

	switch {
	case errors.Is(err, service.ErrInvalidProviderToken):
		respondFailure(c, "Invalid Naver access token")
	case errors.Is(err, service.ErrProvisioningFailed):
		respondFailure(c, "Failed to create account")
	case errors.Is(err, service.ErrSessionBootstrapFailed):
		respondFailure(c, "Failed to create session")
	case errors.Is(err, apperrors.ErrUnauthorized):
		respondFailure(c, "Invalid or expired token")
	case errors.Is(err, service.ErrAccountDataDeleteFailed):
		respondFailure(c, "Failed to delete account data, please try again")
	case errors.Is(err, service.ErrAccountCredentialOrphaned):
		respondFailure(c, "Account deletion did not fully complete, please contact support")
	case errors.Is(err, apperrors.ErrValidation):
		respondFailure(c, "Invalid request data")
	default:
		respondFailure(c, "Internal server error")
	}
}

func respondFailure(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   message,
	})
}
