package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/glp1care/companion-api/internal/domain/entity"
	"github.com/glp1care/companion-api/internal/domain/repository"
	"github.com/glp1care/companion-api/internal/provider/naver"
	apperrors "github.com/glp1care/companion-api/internal/pkg/errors"
	"github.com/glp1care/companion-api/pkg/gotrue"
)

// NaverProviderName identifies the Naver OAuth provider in user rows and
// auth-record metadata.
const NaverProviderName = "naver"

// NaverAuthInput carries the mobile client's login request. The consent
// flags are pointers: nil means the client did not send them, which skips
// consent capture entirely.
type NaverAuthInput struct {
	AccessToken     string
	AgreedToTerms   *bool
	AgreedToPrivacy *bool
}

// NaverAuthResult is the outcome of a successful login bridge.
type NaverAuthResult struct {
	Session   *gotrue.Session
	IsNewUser bool
	User      *entity.User
}

// provisionOutcome tags the result of idempotent auth-record provisioning.
type provisionOutcome int

const (
	provisionCreated provisionOutcome = iota
	provisionExists
)

// NaverAuthService bridges a Naver-issued access token to a first-class
// session: verify with Naver, provision the auth record idempotently,
// bootstrap a session through a one-time link, and upsert the local profile.
type NaverAuthService struct {
	verifier     NaverVerifier
	authAdmin    AuthAdminAPI
	authPublic   AuthPublicAPI
	userRepo     repository.UserRepository
	consentRepo  repository.ConsentRecordRepository
	settingsRepo repository.NotificationSettingRepository
	emailService EmailService
}

func NewNaverAuthService(
	verifier NaverVerifier,
	authAdmin AuthAdminAPI,
	authPublic AuthPublicAPI,
	userRepo repository.UserRepository,
	consentRepo repository.ConsentRecordRepository,
	settingsRepo repository.NotificationSettingRepository,
	emailService EmailService,
) (*NaverAuthService, error) {
	if verifier == nil {
		return nil, fmt.Errorf("naver verifier is required")
	}
	if authAdmin == nil || authPublic == nil {
		return nil, fmt.Errorf("auth backend clients are required")
	}
	if userRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if consentRepo == nil {
		return nil, fmt.Errorf("consent record repository is required")
	}
	if settingsRepo == nil {
		return nil, fmt.Errorf("notification setting repository is required")
	}
	if emailService == nil {
		emailService = &NoopEmailService{}
	}
	return &NaverAuthService{
		verifier:     verifier,
		authAdmin:    authAdmin,
		authPublic:   authPublic,
		userRepo:     userRepo,
		consentRepo:  consentRepo,
		settingsRepo: settingsRepo,
		emailService: emailService,
	}, nil
}

// PlaceholderEmail synthesizes the deterministic stand-in address used when
// Naver withholds the user's email. Stable per Naver id and scoped to a
// reserved domain, so it never collides with a deliverable address.
func PlaceholderEmail(naverUserID string) string {
	return fmt.Sprintf("naver_%s@%s", naverUserID, entity.PlaceholderEmailDomain)
}

// Authenticate runs the full login bridge. Concurrent duplicate calls for
// the same Naver identity converge on one local row: provisioning treats
// already-exists as success and the profile write is a single-statement
// upsert keyed on the immutable subject id.
func (s *NaverAuthService) Authenticate(ctx context.Context, input NaverAuthInput) (*NaverAuthResult, error) {
	profile, err := s.verifier.GetProfile(ctx, input.AccessToken)
	if err != nil {
		if errors.Is(err, naver.ErrTokenRejected) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidProviderToken, err)
		}
		return nil, fmt.Errorf("%w: profile fetch failed: %v", ErrInvalidProviderToken, err)
	}

	providerEmail := strings.TrimSpace(profile.Email)
	loginEmail := providerEmail
	if loginEmail == "" {
		loginEmail = PlaceholderEmail(profile.ID)
	}

	outcome, err := s.provisionAuthUser(ctx, loginEmail, providerEmail, profile)
	if err != nil {
		return nil, err
	}
	isNewUser := outcome == provisionCreated
	if isNewUser {
		log.Printf("[NaverAuth] provisioned new auth record for naver_id=%s", profile.ID)
	}

	session, err := s.bootstrapSession(ctx, loginEmail)
	if err != nil {
		log.Printf("[NaverAuth] session bootstrap failed for naver_id=%s: %v", profile.ID, err)
		return nil, err
	}
	userID := session.User.ID

	user := &entity.User{
		ID:              userID,
		OAuthProvider:   NaverProviderName,
		OAuthUserID:     profile.ID,
		Name:            profile.DisplayName(),
		Email:           providerEmail,
		ProfileImageURL: strings.TrimSpace(profile.ProfileImage),
		LastLoginAt:     time.Now(),
	}
	if err := s.userRepo.Upsert(user); err != nil {
		log.Printf("[NaverAuth] profile upsert failed for user=%s: %v", userID, err)
		return nil, fmt.Errorf("failed to save user profile: %w", err)
	}

	if isNewUser {
		s.captureConsent(userID, input)
		s.createDefaultSettings(userID)
		s.sendWelcomeEmail(ctx, user)
	}

	return &NaverAuthResult{
		Session:   session,
		IsNewUser: isNewUser,
		User:      user,
	}, nil
}

// provisionAuthUser attempts to create the auth record with the email
// pre-verified (Naver already proved ownership of the identity; there is no
// confirmation round-trip). Already-exists is the normal returning-user
// path, detected by structured error code.
func (s *NaverAuthService) provisionAuthUser(ctx context.Context, loginEmail, providerEmail string, profile *naver.Profile) (provisionOutcome, error) {
	params := gotrue.CreateUserParams{
		Email:        loginEmail,
		EmailConfirm: true,
		UserMetadata: map[string]interface{}{
			"provider":            NaverProviderName,
			"naver_id":            profile.ID,
			"naver_nickname":      profile.Nickname,
			"naver_profile_image": profile.ProfileImage,
			"naver_email":         providerEmail,
			"name":                profile.DisplayName(),
		},
	}

	_, err := s.authAdmin.CreateUser(ctx, params)
	if err == nil {
		return provisionCreated, nil
	}
	if gotrue.IsAlreadyExists(err) {
		return provisionExists, nil
	}
	log.Printf("[NaverAuth] auth record creation failed for naver_id=%s: %v", profile.ID, err)
	return 0, fmt.Errorf("%w: %v", ErrProvisioningFailed, err)
}

// bootstrapSession issues a one-time magic-link token through the admin API
// and redeems it immediately through the non-privileged client. The admin
// API can create users but cannot mint a session directly; redemption is not
// a privileged operation and must not run with the service-role key.
func (s *NaverAuthService) bootstrapSession(ctx context.Context, email string) (*gotrue.Session, error) {
	link, err := s.authAdmin.GenerateLink(ctx, gotrue.GenerateLinkParams{
		Type:  gotrue.LinkTypeMagicLink,
		Email: email,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: generate link: %v", ErrSessionBootstrapFailed, err)
	}
	if strings.TrimSpace(link.HashedToken) == "" {
		return nil, fmt.Errorf("%w: generated link is missing hashed_token", ErrSessionBootstrapFailed)
	}

	session, err := s.authPublic.VerifyOTP(ctx, gotrue.VerifyOTPParams{
		Type:      gotrue.LinkTypeMagicLink,
		TokenHash: link.HashedToken,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: verify otp: %v", ErrSessionBootstrapFailed, err)
	}
	if session.AccessToken == "" || session.RefreshToken == "" {
		return nil, fmt.Errorf("%w: session tokens missing after otp verification", ErrSessionBootstrapFailed)
	}
	if session.User == nil || strings.TrimSpace(session.User.ID) == "" {
		return nil, fmt.Errorf("%w: user id missing after otp verification", ErrSessionBootstrapFailed)
	}
	if _, err := uuid.Parse(session.User.ID); err != nil {
		return nil, fmt.Errorf("%w: backend returned a malformed user id", ErrSessionBootstrapFailed)
	}
	return session, nil
}

// captureConsent records ToS/privacy agreement for a brand-new user. Only
// runs when the client actually sent the flags. The unique index on
// consent_records.user_id absorbs retried or concurrent duplicate attempts.
func (s *NaverAuthService) captureConsent(userID string, input NaverAuthInput) {
	if input.AgreedToTerms == nil {
		return
	}
	record := &entity.ConsentRecord{
		UserID:         userID,
		TermsOfService: *input.AgreedToTerms,
		PrivacyPolicy:  true,
	}
	if input.AgreedToPrivacy != nil {
		record.PrivacyPolicy = *input.AgreedToPrivacy
	}

	err := s.consentRepo.Create(record)
	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrConflict):
		log.Printf("[NaverAuth] consent already recorded for user=%s", userID)
	default:
		// The session is already issued; a consent write failure is logged
		// for follow-up instead of failing the login.
		log.Printf("[NaverAuth] failed to record consent for user=%s: %v", userID, err)
	}
}

func (s *NaverAuthService) createDefaultSettings(userID string) {
	err := s.settingsRepo.CreateDefaults(userID)
	if err != nil && !errors.Is(err, apperrors.ErrConflict) {
		log.Printf("[NaverAuth] failed to create default notification settings for user=%s: %v", userID, err)
	}
}

func (s *NaverAuthService) sendWelcomeEmail(ctx context.Context, user *entity.User) {
	if !user.HasRealEmail() {
		return
	}
	if err := s.emailService.SendWelcome(ctx, user.Email, user.Name); err != nil {
		log.Printf("[NaverAuth] failed to send welcome email to user=%s: %v", user.ID, err)
	}
}
