package client

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

// Client is the transport-agnostic contract the CLI depends on.
type Client interface {
	Signup(ctx context.Context, name, email, password string) (string, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	Ping(ctx context.Context) error
}

// User is the account data returned on login.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Session is the result of a successful login.
type Session struct {
	User        User   `json:"userdata"`
	AccessToken string `json:"accessToken"`
}

type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient returns a client for the server at baseURL, e.g.
// "http://127.0.0.1:3000". timeout bounds each request.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Signup registers an account and returns its ID.
func (c *HTTPClient) Signup(ctx context.Context, name, email, password string) (string, error) {
	req := map[string]string{"name": name, "email": email, "password": password}

	var resp struct {
		Message string `json:"message"`
		UserID  string `json:"userId"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/auth/signup", req, &resp); err != nil {
		return "", err
	}
	return resp.UserID, nil
}

// Login exchanges credentials for an access token.
func (c *HTTPClient) Login(ctx context.Context, email, password string) (*Session, error) {
	req := map[string]string{"email": email, "password": password}

	var s Session
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", req, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Ping checks that the server answers its health endpoint.
func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return &APIError{StatusCode: resp.StatusCode, Message: e.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
