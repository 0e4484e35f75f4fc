package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/embaixada-angola/studentportal/internal/domain/user"
)

// HTTPClient talks to the real embassy API. Invalid credentials and backend
// faults come back as distinct errors; the session store collapses both into
// its boolean contract.
type HTTPClient struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SetToken attaches the session token to subsequent calls (needed by Update).
func (c *HTTPClient) SetToken(token string) {
	c.token = token
}

type authEnvelope struct {
	Success bool      `json:"success"`
	User    user.User `json:"user"`
	Token   string    `json:"token"`
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (Result, error) {
	body := user.LoginRequest{Email: email, Password: password}

	var env authEnvelope

	status, err := c.do(ctx, http.MethodPost, "/auth/login", body, &env)

	if err != nil {
		return Result{}, err
	}

	if status == http.StatusUnauthorized || !env.Success {
		return Result{}, ErrInvalidCredentials
	}

	if status != http.StatusOK {
		return Result{}, fmt.Errorf("login: unexpected status %d", status)
	}

	return Result{User: env.User, Token: env.Token}, nil
}

func (c *HTTPClient) Register(ctx context.Context, req user.RegisterRequest) (Result, error) {
	var env authEnvelope

	status, err := c.do(ctx, http.MethodPost, "/auth/register", req, &env)

	if err != nil {
		return Result{}, err
	}

	if status == http.StatusBadRequest || status == http.StatusConflict || !env.Success {
		return Result{}, ErrInvalidCredentials
	}

	if status != http.StatusCreated {
		return Result{}, fmt.Errorf("register: unexpected status %d", status)
	}

	return Result{User: env.User, Token: env.Token}, nil
}

func (c *HTTPClient) Update(ctx context.Context, userID string, upd user.Update) error {
	var env authEnvelope

	status, err := c.do(ctx, http.MethodPatch, "/users/"+userID, upd, &env)

	if err != nil {
		return err
	}

	if status != http.StatusOK {
		return fmt.Errorf("update user: unexpected status %d", status)
	}

	return nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) (int, error) {
	payload, err := json.Marshal(in)

	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))

	if err != nil {
		return 0, err
	}

	req.Header.Set("Content-Type", "application/json")

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)

	if err != nil {
		return 0, err
	}

	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	if err != nil {
		return resp.StatusCode, err
	}

	if out != nil && len(raw) > 0 {
		// error bodies use a different shape; ignore decode failures there
		if err := json.Unmarshal(raw, out); err != nil && resp.StatusCode < 400 {
			return resp.StatusCode, err
		}
	}

	return resp.StatusCode, nil
}
