package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is used when no API address is configured.
const DefaultBaseURL = "http://localhost:3000"

// Client provides typed access to the TechnoByteX API for interactive tools.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option customises client instantiation.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// New constructs a Client pointing at the provided API base URL.
func New(base string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(base)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.HasPrefix(trimmed, "http://") && !strings.HasPrefix(trimmed, "https://") {
		trimmed = "http://" + trimmed
	}
	if _, err := url.Parse(trimmed); err != nil {
		return nil, fmt.Errorf("invalid api base url: %w", err)
	}
	cli := &Client{
		baseURL:    strings.TrimRight(trimmed, "/"),
		httpClient: &http.Client{Timeout: 45 * time.Second},
	}
	for _, opt := range opts {
		opt(cli)
	}
	return cli, nil
}

// APIError represents an error response from the API.
type APIError struct {
	Status  int
	Message string
}

func (e APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api request failed with status %d", e.Status)
	}
	return fmt.Sprintf("api request failed (%d): %s", e.Status, e.Message)
}

func (c *Client) do(ctx context.Context, method, path string, body any, token string, v any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	endpoint := c.baseURL + path
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if strings.TrimSpace(token) != "" {
		req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(token))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return APIError{Status: resp.StatusCode, Message: extractError(resp.Body)}
	}

	if v == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func extractError(body io.Reader) string {
	if body == nil {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
	}
	data, err := io.ReadAll(body)
	if err != nil || len(data) == 0 {
		return ""
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return strings.TrimSpace(string(data))
	}
	return strings.TrimSpace(payload.Message)
}

// RegisterResponse confirms a new account.
type RegisterResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	RedirectTo string `json:"redirectTo"`
}

// Register creates a regular user account.
func (c *Client) Register(ctx context.Context, email, password, username string) (RegisterResponse, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
		"username": username,
	}
	var resp RegisterResponse
	if err := c.do(ctx, http.MethodPost, "/api/register", body, "", &resp); err != nil {
		return RegisterResponse{}, err
	}
	return resp, nil
}

// LoginResponse captures the session issued by the API.
type LoginResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	RedirectTo string `json:"redirectTo"`
	Token      string `json:"token"`
	ExpiresIn  int64  `json:"expiresIn"`
	Role       string `json:"role"`
	Username   string `json:"username"`
}

// Expiry returns the session lifetime.
func (r LoginResponse) Expiry() time.Duration {
	return time.Duration(r.ExpiresIn) * time.Second
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResponse, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}
	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/login", body, "", &resp); err != nil {
		return LoginResponse{}, err
	}
	return resp, nil
}

// User reflects API user payloads.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Session returns the account bound to token.
func (c *Client) Session(ctx context.Context, token string) (User, error) {
	var resp struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/session", nil, token, &resp); err != nil {
		return User{}, err
	}
	return resp.User, nil
}

// Chat sends message to the assistant and returns its answer.
func (c *Client) Chat(ctx context.Context, token, message string) (string, error) {
	var resp struct {
		Response string `json:"response"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/chat", map[string]string{"message": message}, token, &resp); err != nil {
		return "", err
	}
	return resp.Response, nil
}

// Video is a featured channel upload.
type Video struct {
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
	ID        string `json:"id"`
}

// ChannelData summarises the channel shown on the dashboard.
type ChannelData struct {
	Subscribers    int     `json:"subscribers"`
	ChannelName    string  `json:"channelName"`
	WelcomeMessage string  `json:"welcomeMessage"`
	Videos         []Video `json:"videos"`
}

// ChannelData fetches the public channel summary.
func (c *Client) ChannelData(ctx context.Context) (ChannelData, error) {
	var data ChannelData
	if err := c.do(ctx, http.MethodGet, "/api/channel-data", nil, "", &data); err != nil {
		return ChannelData{}, err
	}
	return data, nil
}

// Setting is an admin-managed site option.
type Setting struct {
	ID        string    `json:"settingId"`
	Value     string    `json:"value"`
	UpdatedBy string    `json:"updatedBy"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SaveSetting stores value under id. Requires an admin token.
func (c *Client) SaveSetting(ctx context.Context, token, id, value string) (string, error) {
	body := map[string]string{
		"settingId": id,
		"value":     value,
	}
	var resp struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/admin/settings", body, token, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// ListSettings returns every stored setting. Requires an admin token.
func (c *Client) ListSettings(ctx context.Context, token string) ([]Setting, error) {
	var resp struct {
		Settings []Setting `json:"settings"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/admin/settings", nil, token, &resp); err != nil {
		return nil, err
	}
	return resp.Settings, nil
}
