package gotrue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

// Client talks to GoTrue with the anon (publishable) key. It is the
// non-privileged execution context: OTP redemption and token introspection
// are regular auth operations, not admin ones.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, anonKey string) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("gotrue base url is required")
	}
	if strings.TrimSpace(anonKey) == "" {
		return nil, fmt.Errorf("gotrue anon key is required")
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     anonKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}, nil
}

// VerifyOTP redeems a one-time token hash for a session. The hash becomes
// invalid after the first redemption.
func (c *Client) VerifyOTP(ctx context.Context, params VerifyOTPParams) (*Session, error) {
	var session Session
	err := doJSON(ctx, c.httpClient, http.MethodPost, c.baseURL+"/verify", c.apiKey, "", params, &session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// GetUser resolves the user that owns the given access token. The token is
// sent as the bearer credential, so the server can only ever answer with the
// caller's own identity.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*User, error) {
	if strings.TrimSpace(accessToken) == "" {
		return nil, fmt.Errorf("access token is required")
	}
	var user User
	err := doJSON(ctx, c.httpClient, http.MethodGet, c.baseURL+"/user", c.apiKey, accessToken, nil, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// doJSON issues a JSON request and decodes a JSON response. Non-2xx bodies
// are parsed into *APIError so callers can match on structured codes.
func doJSON(ctx context.Context, client *http.Client, method, url, apiKey, bearer string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode gotrue request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to create gotrue request: %w", err)
	}
	req.Header.Set("apikey", apiKey)
	if bearer == "" {
		bearer = apiKey
	}
	req.Header.Set("Authorization", "Bearer "+bearer)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("gotrue request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return parseAPIError(resp.StatusCode, raw)
	}

	if out == nil {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode gotrue response: %w", err)
	}
	return nil
}
