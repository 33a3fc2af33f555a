// Package gotrue is a minimal client for the GoTrue auth server that backs
// the app (Supabase flavor). Two handles exist on purpose: AdminClient holds
// the service-role key for privileged user administration, Client holds the
// anon key for non-privileged calls (OTP redemption, token introspection).
// Both are stateless; credentials are injected at construction.
package gotrue

import "time"

// User is an auth record as returned by the GoTrue API.
type User struct {
	ID           string                 `json:"id"`
	Aud          string                 `json:"aud,omitempty"`
	Email        string                 `json:"email,omitempty"`
	Phone        string                 `json:"phone,omitempty"`
	UserMetadata map[string]interface{} `json:"user_metadata,omitempty"`
	AppMetadata  map[string]interface{} `json:"app_metadata,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

// Session is an issued access/refresh token pair.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user,omitempty"`
}

// CreateUserParams is the body for the admin create-user endpoint.
type CreateUserParams struct {
	Email        string                 `json:"email"`
	EmailConfirm bool                   `json:"email_confirm"`
	UserMetadata map[string]interface{} `json:"user_metadata,omitempty"`
}

// GenerateLinkParams requests a one-time verification link.
type GenerateLinkParams struct {
	Type  string `json:"type"`
	Email string `json:"email"`
}

// GeneratedLink is the admin generate-link response. HashedToken is the
// server-side redeemable form of the one-time token; ActionLink is the
// user-facing URL (unused here, the hash is redeemed directly).
type GeneratedLink struct {
	ActionLink       string `json:"action_link"`
	EmailOTP         string `json:"email_otp,omitempty"`
	HashedToken      string `json:"hashed_token"`
	RedirectTo       string `json:"redirect_to,omitempty"`
	VerificationType string `json:"verification_type"`
}

// VerifyOTPParams redeems a one-time token hash for a session.
type VerifyOTPParams struct {
	Type      string `json:"type"`
	TokenHash string `json:"token_hash"`
}

// LinkTypeMagicLink is the link type used for passwordless session bootstrap.
const LinkTypeMagicLink = "magiclink"
