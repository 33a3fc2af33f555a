package service

import (
	"context"

	"github.com/glp1care/companion-api/internal/provider/naver"
	"github.com/glp1care/companion-api/pkg/gotrue"
)

// AuthAdminAPI is the privileged surface of the session backend (service-role
// key). Satisfied by *gotrue.AdminClient.
type AuthAdminAPI interface {
	CreateUser(ctx context.Context, params gotrue.CreateUserParams) (*gotrue.User, error)
	GenerateLink(ctx context.Context, params gotrue.GenerateLinkParams) (*gotrue.GeneratedLink, error)
	DeleteUser(ctx context.Context, id string, shouldSoftDelete bool) error
	ListUsers(ctx context.Context, page, perPage int) ([]gotrue.User, error)
}

// AuthPublicAPI is the non-privileged surface of the session backend (anon
// key). OTP redemption is deliberately not an admin operation. Satisfied by
// *gotrue.Client.
type AuthPublicAPI interface {
	VerifyOTP(ctx context.Context, params gotrue.VerifyOTPParams) (*gotrue.Session, error)
	GetUser(ctx context.Context, accessToken string) (*gotrue.User, error)
}

// NaverVerifier verifies a Naver access token and returns the profile the
// provider vouches for. Satisfied by *naver.Client.
type NaverVerifier interface {
	GetProfile(ctx context.Context, accessToken string) (*naver.Profile, error)
}
