package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/glp1care/companion-api/internal/domain/repository"
	apperrors "github.com/glp1care/companion-api/internal/pkg/errors"
	"github.com/glp1care/companion-api/pkg/gotrue"
)

// AccountService permanently deletes a caller's identity: the local user row
// (cascading to every dependent table) first, then the auth record.
type AccountService struct {
	authAdmin    AuthAdminAPI
	authPublic   AuthPublicAPI
	userRepo     repository.UserRepository
	emailService EmailService
}

func NewAccountService(
	authAdmin AuthAdminAPI,
	authPublic AuthPublicAPI,
	userRepo repository.UserRepository,
	emailService EmailService,
) (*AccountService, error) {
	if authAdmin == nil || authPublic == nil {
		return nil, fmt.Errorf("auth backend clients are required")
	}
	if userRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if emailService == nil {
		emailService = &NoopEmailService{}
	}
	return &AccountService{
		authAdmin:    authAdmin,
		authPublic:   authPublic,
		userRepo:     userRepo,
		emailService: emailService,
	}, nil
}

// DeleteAccount erases the caller's account. The id to delete comes only
// from the caller's own verified token, never from request input, so a
// caller can never delete anyone else.
//
// Ordering is load-bearing: the local row goes first because the relational
// store cascades from users(id) to every dependent table, while nothing
// cascades from the auth record into the store. Reversing the order would
// orphan the dependent records.
func (s *AccountService) DeleteAccount(ctx context.Context, accessToken string) error {
	token := strings.TrimSpace(accessToken)
	if token == "" {
		return fmt.Errorf("%w: missing access token", apperrors.ErrUnauthorized)
	}

	authUser, err := s.authPublic.GetUser(ctx, token)
	if err != nil {
		return fmt.Errorf("%w: token rejected by auth backend: %v", apperrors.ErrUnauthorized, err)
	}
	userID := authUser.ID
	log.Printf("[Account] deleting account for user=%s", userID)

	// The goodbye email address has to be read before the rows disappear.
	var goodbyeEmail, goodbyeName string
	if local, lookupErr := s.userRepo.GetByID(userID); lookupErr == nil {
		if local.HasRealEmail() {
			goodbyeEmail = local.Email
			goodbyeName = local.Name
		}
	} else if !errors.Is(lookupErr, apperrors.ErrNotFound) {
		log.Printf("[Account] profile lookup before deletion failed for user=%s: %v", userID, lookupErr)
	}

	rows, err := s.userRepo.DeleteByID(userID)
	if err != nil {
		log.Printf("[Account] local data deletion failed for user=%s: %v", userID, err)
		return fmt.Errorf("%w: %v", ErrAccountDataDeleteFailed, err)
	}
	if rows == 0 {
		// Already absent: a previous attempt got past this step. Continue so
		// the retry can finish off the auth record.
		log.Printf("[Account] no local row for user=%s, continuing with credential deletion", userID)
	} else {
		log.Printf("[Account] removed local data for user=%s", userID)
	}

	if err := s.authAdmin.DeleteUser(ctx, userID, false); err != nil {
		if gotrue.IsNotFound(err) {
			log.Printf("[Account] auth record for user=%s already gone", userID)
		} else {
			// Local data is gone but the login credential still exists. Do
			// not retry blindly; the reconcile job detects and finishes these.
			log.Printf("[Account] credential deletion failed after data removal for user=%s: %v", userID, err)
			return fmt.Errorf("%w: user=%s: %v", ErrAccountCredentialOrphaned, userID, err)
		}
	}

	if goodbyeEmail != "" {
		if emailErr := s.emailService.SendAccountDeleted(ctx, goodbyeEmail, goodbyeName); emailErr != nil {
			log.Printf("[Account] failed to send deletion confirmation for user=%s: %v", userID, emailErr)
		}
	}

	log.Printf("[Account] account fully deleted for user=%s", userID)
	return nil
}
