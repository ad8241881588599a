package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"sync"
	"time"

	"github.com/tastepass/tastepass/pkg/domain"
)

// Client is the TastePass directory API client.
type Client struct {
	baseURL    string
	deviceID   string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// New creates a new API client. token may be empty for the
// pre-authentication endpoints (register, login, password reset).
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetToken replaces the bearer token attached to subsequent requests.
// Pass the empty string to clear it (logout).
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// SetDeviceID sets the installation id sent as X-Device-Id on every
// request.
func (c *Client) SetDeviceID(id string) {
	c.deviceID = id
}

// AuthUserPayload is the user record inside the login response. The
// server sends split first/last names; display name derivation happens
// in the session manager.
type AuthUserPayload struct {
	ID        string         `json:"id"`
	FirstName string         `json:"firstName"`
	LastName  string         `json:"lastName"`
	Email     string         `json:"email"`
	Company   domain.Company `json:"company"`
}

// AuthResponse is the payload returned by the authentication endpoint.
type AuthResponse struct {
	Token             string          `json:"token"`
	User              AuthUserPayload `json:"user"`
	PinnedRestaurants []string        `json:"pinnedRestaurants"`
}

// Authenticate exchanges credentials for a token, user record, and the
// user's pinned-favorite ids.
func (c *Client) Authenticate(ctx context.Context, email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.post(ctx, "/users/auth", body, &resp); err != nil {
		return nil, fmt.Errorf("client.Authenticate: %w", err)
	}
	return &resp, nil
}

// RegisterRequest is the payload for creating a new account.
type RegisterRequest struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Company    string `json:"company"`
	Invitation string `json:"invitation"`
	Password   string `json:"password"`
}

// RegisteredUser is the created account returned by the registration
// endpoint. The account still needs email verification before login.
type RegisteredUser struct {
	ID        string `json:"_id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*RegisteredUser, error) {
	var resp struct {
		User *RegisteredUser `json:"user"`
	}
	if err := c.post(ctx, "/users/register", req, &resp); err != nil {
		return nil, fmt.Errorf("client.Register: %w", err)
	}
	if resp.User == nil {
		return nil, fmt.Errorf("client.Register: response missing user")
	}
	return resp.User, nil
}

// InvitationResult is the response from invitation-code validation.
type InvitationResult struct {
	Valid   bool   `json:"valid"`
	Company string `json:"company"`
}

// ValidateInvitation checks a company invitation code before
// registration is attempted.
func (c *Client) ValidateInvitation(ctx context.Context, code string) (*InvitationResult, error) {
	var result InvitationResult
	if err := c.get(ctx, "/company/validate-invitation-code/"+url.PathEscape(code), &result); err != nil {
		return nil, fmt.Errorf("client.ValidateInvitation: %w", err)
	}
	return &result, nil
}

// VerifyEmail submits the one-time code mailed after registration.
func (c *Client) VerifyEmail(ctx context.Context, userID, otp string) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	body := map[string]string{"userId": userID, "otp": otp}
	if err := c.post(ctx, "/users/verify-email", body, &resp); err != nil {
		return "", fmt.Errorf("client.VerifyEmail: %w", err)
	}
	return resp.Message, nil
}

// UpdatePasswordRequest carries the identity and credentials for a
// password change.
type UpdatePasswordRequest struct {
	UserID          string `json:"userId"`
	Email           string `json:"email"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// UpdatePassword changes the password of a logged-in user. Returns the
// server's confirmation message.
func (c *Client) UpdatePassword(ctx context.Context, req UpdatePasswordRequest) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	if err := c.post(ctx, "/users/update-password", req, &resp); err != nil {
		return "", fmt.Errorf("client.UpdatePassword: %w", err)
	}
	return resp.Message, nil
}

// UpdateFavorites replaces the user's pinned-restaurant set server-side.
func (c *Client) UpdateFavorites(ctx context.Context, userID string, restaurantIDs []string) error {
	body := map[string]any{"userId": userID, "restaurantIds": restaurantIDs}
	if err := c.post(ctx, "/users/update-favorites", body, nil); err != nil {
		return fmt.Errorf("client.UpdateFavorites: %w", err)
	}
	return nil
}

// ForgotPassword starts the password reset flow; the server mails a
// verification code to the address.
func (c *Client) ForgotPassword(ctx context.Context, email, newPassword string) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	body := map[string]string{"email": email, "newPassword": newPassword}
	if err := c.post(ctx, "/users/forgot-password", body, &resp); err != nil {
		return "", fmt.Errorf("client.ForgotPassword: %w", err)
	}
	return resp.Message, nil
}

// VerifyForgotPassword completes the reset flow with the mailed code.
func (c *Client) VerifyForgotPassword(ctx context.Context, email, newPassword, code string) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	body := map[string]string{
		"email":            email,
		"newPassword":      newPassword,
		"verificationCode": code,
	}
	if err := c.post(ctx, "/users/verify-forgot-password", body, &resp); err != nil {
		return "", fmt.Errorf("client.VerifyForgotPassword: %w", err)
	}
	return resp.Message, nil
}

// RotatedRestaurants fetches the user's current rotation of partner
// restaurants.
func (c *Client) RotatedRestaurants(ctx context.Context, userID string) ([]domain.Restaurant, error) {
	var restaurants []domain.Restaurant
	if err := c.get(ctx, "/users/rotated-restaurants/"+url.PathEscape(userID), &restaurants); err != nil {
		return nil, fmt.Errorf("client.RotatedRestaurants: %w", err)
	}
	return restaurants, nil
}

// Menu fetches a restaurant's menu and flattens the server's nested
// {section: {itemName: {...}}} shape into ordered sections. A 404 means
// the restaurant has no menu; callers can detect it with IsStatus.
func (c *Client) Menu(ctx context.Context, restaurantID string) ([]domain.MenuSection, error) {
	var resp struct {
		Menu map[string]map[string]json.RawMessage `json:"menu"`
	}
	if err := c.get(ctx, "/restaurant/"+url.PathEscape(restaurantID)+"/menu", &resp); err != nil {
		return nil, fmt.Errorf("client.Menu: %w", err)
	}

	sections := make([]domain.MenuSection, 0, len(resp.Menu))
	for name, rawItems := range resp.Menu {
		sec := domain.MenuSection{Name: name}
		itemNames := make([]string, 0, len(rawItems))
		for itemName := range rawItems {
			// The server tucks bookkeeping keys in among the dishes.
			if itemName == "ingredients" || itemName == "_id" {
				continue
			}
			itemNames = append(itemNames, itemName)
		}
		sort.Strings(itemNames)
		for _, itemName := range itemNames {
			var item domain.MenuItem
			if err := json.Unmarshal(rawItems[itemName], &item); err != nil {
				continue
			}
			item.Name = itemName
			sec.Items = append(sec.Items, item)
		}
		sections = append(sections, sec)
	}
	sort.Slice(sections, func(i, j int) bool { return sections[i].Name < sections[j].Name })
	return sections, nil
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, body, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if c.deviceID != "" {
		req.Header.Set("X-Device-Id", c.deviceID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode >= 400 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
		if readErr != nil {
			return &HTTPError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", readErr)}
		}
		var apiErr struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if json.Unmarshal(respBody, &apiErr) == nil {
			if apiErr.Message != "" {
				return &HTTPError{StatusCode: resp.StatusCode, Message: apiErr.Message}
			}
			if apiErr.Error != "" {
				return &HTTPError{StatusCode: resp.StatusCode, Message: apiErr.Error}
			}
		}
		return &HTTPError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
