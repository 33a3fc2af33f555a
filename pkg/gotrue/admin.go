package gotrue

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// AdminClient talks to GoTrue with the service-role key. It can create and
// delete auth records and mint one-time links, but it cannot redeem them —
// redemption happens through the non-privileged Client.
type AdminClient struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

func NewAdminClient(baseURL, serviceRoleKey string) (*AdminClient, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("gotrue base url is required")
	}
	if strings.TrimSpace(serviceRoleKey) == "" {
		return nil, fmt.Errorf("gotrue service role key is required")
	}
	return &AdminClient{
		baseURL:    baseURL,
		serviceKey: serviceRoleKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}, nil
}

// CreateUser creates an auth record. With EmailConfirm set, the address is
// marked verified immediately and no confirmation email goes out.
func (c *AdminClient) CreateUser(ctx context.Context, params CreateUserParams) (*User, error) {
	var user User
	err := doJSON(ctx, c.httpClient, http.MethodPost, c.baseURL+"/admin/users", c.serviceKey, "", params, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GenerateLink mints a one-time verification link for the given email. The
// returned HashedToken is redeemable exactly once via Client.VerifyOTP.
func (c *AdminClient) GenerateLink(ctx context.Context, params GenerateLinkParams) (*GeneratedLink, error) {
	var link GeneratedLink
	err := doJSON(ctx, c.httpClient, http.MethodPost, c.baseURL+"/admin/generate_link", c.serviceKey, "", params, &link)
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// DeleteUser removes an auth record. shouldSoftDelete=false is a hard delete
// with no tombstone retention.
func (c *AdminClient) DeleteUser(ctx context.Context, id string, shouldSoftDelete bool) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("user id is required")
	}
	body := map[string]bool{"should_soft_delete": shouldSoftDelete}
	endpoint := c.baseURL + "/admin/users/" + url.PathEscape(id)
	return doJSON(ctx, c.httpClient, http.MethodDelete, endpoint, c.serviceKey, "", body, nil)
}

// ListUsers returns one page of auth records. Pages start at 1.
func (c *AdminClient) ListUsers(ctx context.Context, page, perPage int) ([]User, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 50
	}
	endpoint := c.baseURL + "/admin/users?page=" + strconv.Itoa(page) + "&per_page=" + strconv.Itoa(perPage)

	var payload struct {
		Users []User `json:"users"`
	}
	if err := doJSON(ctx, c.httpClient, http.MethodGet, endpoint, c.serviceKey, "", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Users, nil
}
