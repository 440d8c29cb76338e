// Copyright 2026 The SkillBridge Authors
// SPDX-License-Identifier: Apache-2.0

package marketplace

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/skillbridge/skillbridge/lib/secret"
)

// Header names set on outgoing requests.
const (
	// CurrentUserHeader carries the JSON of the current user record. The
	// backend authorizes requests from it.
	CurrentUserHeader = "x-current-user"

	// RequestIDHeader carries a fresh UUID per request for correlation
	// with server logs.
	RequestIDHeader = "X-Request-ID"
)

// maxResponseSize bounds how much of a response body is read. The
// largest legitimate response is the public directory listing.
const maxResponseSize = 8 << 20

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	// BaseURL is the marketplace API root (e.g., "http://localhost:4000").
	BaseURL string
	// HTTPClient is used for all requests. If nil, http.DefaultClient is used.
	HTTPClient *http.Client
	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
	// DisableLegacyUserHeader stops the client from sending the user
	// record in the x-current-user header. Only useful against a backend
	// that authenticates by bearer token alone.
	DisableLegacyUserHeader bool
}

// Client talks to the marketplace REST API. It is stateless with
// respect to identity: every authenticated call takes the credential
// user explicitly. Safe for concurrent use.
type Client struct {
	baseURL          string
	httpClient       *http.Client
	logger           *slog.Logger
	legacyUserHeader bool
}

// API is the full set of marketplace operations. Consumers should
// declare the narrower interface they need instead of depending on API.
type API interface {
	Login(ctx context.Context, email string, password *secret.Buffer) (*User, error)
	Register(ctx context.Context, request RegisterRequest) (*User, error)
	PublicUsers(ctx context.Context, credential *User) ([]PublicProfile, error)
	User(ctx context.Context, credential *User, userID string) (*User, error)
	UpdateUser(ctx context.Context, credential *User, userID string, update ProfileUpdate) (*User, error)
	Conversations(ctx context.Context, credential *User) ([]ConversationSummary, error)
	Messages(ctx context.Context, credential *User, contactID string) ([]Message, error)
	SendMessage(ctx context.Context, credential *User, request SendMessageRequest) (*Message, error)
}

var _ API = (*Client)(nil)

// NewClient creates a marketplace client.
func NewClient(config ClientConfig) (*Client, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("marketplace: BaseURL is required")
	}
	parsed, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("marketplace: invalid BaseURL %q: %w", config.BaseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("marketplace: BaseURL %q must be http or https", config.BaseURL)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:          strings.TrimRight(config.BaseURL, "/"),
		httpClient:       httpClient,
		logger:           logger,
		legacyUserHeader: !config.DisableLegacyUserHeader,
	}, nil
}

// BaseURL returns the API root the client was configured with, without
// a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Login exchanges an email and password for the user's record. The
// password buffer is read but not closed; the caller retains ownership.
func (c *Client) Login(ctx context.Context, email string, password *secret.Buffer) (*User, error) {
	if email == "" {
		return nil, fmt.Errorf("marketplace: email is required for login")
	}
	if password == nil {
		return nil, fmt.Errorf("marketplace: password is required for login")
	}

	// Password is converted to string at the JSON serialization boundary.
	loginRequest := struct {
		EmailID  string `json:"emailId"`
		Password string `json:"password"`
	}{EmailID: email, Password: password.String()}

	body, err := c.doRequest(ctx, http.MethodPost, "/api/login", nil, loginRequest)
	if err != nil {
		return nil, fmt.Errorf("marketplace: login failed: %w", err)
	}
	return decodeUser(body, "login")
}

// Register creates an account and returns its record. The password
// buffer is read but not closed; the caller retains ownership.
func (c *Client) Register(ctx context.Context, request RegisterRequest) (*User, error) {
	if request.EmailID == "" {
		return nil, fmt.Errorf("marketplace: email is required for registration")
	}
	if request.Password == nil {
		return nil, fmt.Errorf("marketplace: password is required for registration")
	}

	registerRequest := struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		EmailID   string `json:"emailId"`
		Password  string `json:"password"`
	}{
		FirstName: request.FirstName,
		LastName:  request.LastName,
		EmailID:   request.EmailID,
		Password:  request.Password.String(),
	}

	body, err := c.doRequest(ctx, http.MethodPost, "/api/register", nil, registerRequest)
	if err != nil {
		return nil, fmt.Errorf("marketplace: registration failed: %w", err)
	}
	return decodeUser(body, "register")
}

// PublicUsers returns the public directory of profiles. credential may
// be nil; the endpoint does not require it.
func (c *Client) PublicUsers(ctx context.Context, credential *User) ([]PublicProfile, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/api/users/public", credential, nil)
	if err != nil {
		return nil, fmt.Errorf("marketplace: listing public users failed: %w", err)
	}
	var response usersEnvelope
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("marketplace: failed to parse public users response: %w", err)
	}
	if response.Users == nil {
		response.Users = []PublicProfile{}
	}
	return response.Users, nil
}

// User fetches the full record for userID.
func (c *Client) User(ctx context.Context, credential *User, userID string) (*User, error) {
	if userID == "" {
		return nil, fmt.Errorf("marketplace: user ID is required")
	}
	body, err := c.doRequest(ctx, http.MethodGet, "/api/users/"+url.PathEscape(userID), credential, nil)
	if err != nil {
		return nil, fmt.Errorf("marketplace: fetching user %s failed: %w", userID, err)
	}
	return decodeUser(body, "user")
}

// UpdateUser applies a partial profile update and returns the server's
// canonical record.
func (c *Client) UpdateUser(ctx context.Context, credential *User, userID string, update ProfileUpdate) (*User, error) {
	if userID == "" {
		return nil, fmt.Errorf("marketplace: user ID is required")
	}
	body, err := c.doRequest(ctx, http.MethodPut, "/api/users/"+url.PathEscape(userID), credential, update)
	if err != nil {
		return nil, fmt.Errorf("marketplace: updating user %s failed: %w", userID, err)
	}
	return decodeUser(body, "update")
}

// Conversations returns the credential user's conversation summaries.
// An empty result is a non-nil empty slice.
func (c *Client) Conversations(ctx context.Context, credential *User) ([]ConversationSummary, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/api/messages/conversations", credential, nil)
	if err != nil {
		return nil, fmt.Errorf("marketplace: listing conversations failed: %w", err)
	}
	var response conversationsEnvelope
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("marketplace: failed to parse conversations response: %w", err)
	}
	if response.Conversations == nil {
		response.Conversations = []ConversationSummary{}
	}
	return response.Conversations, nil
}

// Messages returns the thread between the credential user and
// contactID, in server order.
func (c *Client) Messages(ctx context.Context, credential *User, contactID string) ([]Message, error) {
	if contactID == "" {
		return nil, fmt.Errorf("marketplace: contact ID is required")
	}
	query := url.Values{"contactId": {contactID}}
	body, err := c.doRequest(ctx, http.MethodGet, "/api/messages", credential, nil, query)
	if err != nil {
		return nil, fmt.Errorf("marketplace: listing messages with %s failed: %w", contactID, err)
	}
	var response messagesEnvelope
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("marketplace: failed to parse messages response: %w", err)
	}
	if response.Messages == nil {
		response.Messages = []Message{}
	}
	return response.Messages, nil
}

// SendMessage posts a message and returns the stored message as the
// server recorded it.
func (c *Client) SendMessage(ctx context.Context, credential *User, request SendMessageRequest) (*Message, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "/api/messages", credential, request)
	if err != nil {
		return nil, fmt.Errorf("marketplace: sending message failed: %w", err)
	}
	var response messageEnvelope
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("marketplace: failed to parse send response: %w", err)
	}
	if response.Message == nil {
		return nil, ErrMissingMessage
	}
	return response.Message, nil
}

func decodeUser(body []byte, operation string) (*User, error) {
	var response userEnvelope
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("marketplace: failed to parse %s response: %w", operation, err)
	}
	if response.User == nil {
		return nil, ErrMissingUser
	}
	return response.User, nil
}

// doRequest performs an HTTP request to the API and returns the response
// body. On 2xx, returns the body. On any other status, returns an
// *APIError. credential may be nil for unauthenticated endpoints. query
// may be omitted for endpoints without query parameters.
func (c *Client) doRequest(ctx context.Context, method, path string, credential *User, requestBody any, query ...url.Values) ([]byte, error) {
	requestURL := c.baseURL + path
	if len(query) > 0 && query[0] != nil {
		requestURL += "?" + query[0].Encode()
	}

	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("marketplace: failed to encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, requestURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("marketplace: failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	request.Header.Set(RequestIDHeader, requestID)
	request.Header.Set("Accept", "application/json")
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if credential != nil {
		if err := c.setCredential(request, credential); err != nil {
			return nil, err
		}
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		c.logger.Error("marketplace request failed",
			"method", method,
			"path", path,
			"request_id", requestID,
			"error", err,
		)
		return nil, fmt.Errorf("marketplace: request to %s %s failed: %w", method, path, err)
	}
	defer response.Body.Close()

	responseBody, err := readResponse(response.Body)
	if err != nil {
		return nil, fmt.Errorf("marketplace: failed to read response body: %w", err)
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return responseBody, nil
	}

	// Error bodies are {"error": "..."}. Anything else still yields an
	// APIError so callers can branch on the status.
	apiErr := &APIError{StatusCode: response.StatusCode}
	if jsonErr := json.Unmarshal(responseBody, apiErr); jsonErr != nil {
		apiErr.Message = ""
	}
	c.logger.Debug("marketplace request rejected",
		"method", method,
		"path", path,
		"request_id", requestID,
		"status", response.StatusCode,
	)
	return nil, apiErr
}

func (c *Client) setCredential(request *http.Request, credential *User) error {
	if c.legacyUserHeader {
		encoded, err := json.Marshal(credential)
		if err != nil {
			return fmt.Errorf("marketplace: failed to encode credential: %w", err)
		}
		request.Header.Set(CurrentUserHeader, string(encoded))
	}
	if credential.Token != "" {
		request.Header.Set("Authorization", "Bearer "+credential.Token)
	}
	return nil
}

var errResponseTooLarge = errors.New("response exceeds size limit")

// readResponse reads body up to maxResponseSize.
func readResponse(body io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(body, maxResponseSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxResponseSize {
		return nil, errResponseTooLarge
	}
	return data, nil
}
