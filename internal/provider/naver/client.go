// Package naver verifies Naver-issued access tokens by calling the Naver
// profile endpoint. The token is never decoded locally; the provider's
// response is the only trusted source of the Naver user id.
package naver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultProfileURL is Naver's "get my profile" endpoint.
const DefaultProfileURL = "https://openapi.naver.com/v1/nid/me"

// resultCodeOK marks a successful Naver API response. Naver returns HTTP 200
// with a non-"00" resultcode for rejected tokens, so both the status code and
// the embedded code have to be checked.
const resultCodeOK = "00"

// ErrTokenRejected is returned when Naver refuses to validate the token,
// either with a non-2xx status or an embedded error code.
var ErrTokenRejected = errors.New("naver rejected the access token")

// Profile is the identity claim returned by Naver. Email, nickname, image
// and name are optional; users can decline to share them.
type Profile struct {
	ID           string `json:"id"`
	Email        string `json:"email,omitempty"`
	Nickname     string `json:"nickname,omitempty"`
	ProfileImage string `json:"profile_image,omitempty"`
	Name         string `json:"name,omitempty"`
}

// DisplayName picks the best available display name, falling back to "User"
// when Naver supplied neither a nickname nor a name.
func (p *Profile) DisplayName() string {
	if name := strings.TrimSpace(p.Nickname); name != "" {
		return name
	}
	if name := strings.TrimSpace(p.Name); name != "" {
		return name
	}
	return "User"
}

type apiResponse struct {
	ResultCode string  `json:"resultcode"`
	Message    string  `json:"message"`
	Response   Profile `json:"response"`
}

// Client fetches Naver profiles. Stateless; safe for concurrent use.
type Client struct {
	profileURL string
	httpClient *http.Client
}

func NewClient(profileURL string) *Client {
	if strings.TrimSpace(profileURL) == "" {
		profileURL = DefaultProfileURL
	}
	return &Client{
		profileURL: profileURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// GetProfile verifies the access token against Naver and returns the profile
// it vouches for. Any verification failure is reported as ErrTokenRejected.
func (c *Client) GetProfile(ctx context.Context, accessToken string) (*Profile, error) {
	if strings.TrimSpace(accessToken) == "" {
		return nil, fmt.Errorf("%w: empty access token", ErrTokenRejected)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.profileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create naver profile request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("naver profile request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("%w: status=%d body=%s", ErrTokenRejected, resp.StatusCode, string(body))
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to parse naver profile response: %w", err)
	}
	if payload.ResultCode != resultCodeOK {
		return nil, fmt.Errorf("%w: resultcode=%s message=%s", ErrTokenRejected, payload.ResultCode, payload.Message)
	}
	if strings.TrimSpace(payload.Response.ID) == "" {
		return nil, fmt.Errorf("%w: profile response is missing the user id", ErrTokenRejected)
	}

	profile := payload.Response
	return &profile, nil
}
