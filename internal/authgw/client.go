// Package authgw is the only synchronous cross-service dependency the
// ledgers carry: token verification against the auth service. A slow
// gateway is reported as a timeout, not as a rejected token.
package authgw

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	ErrUnauthorized       = errors.New("invalid or expired token")
	ErrGatewayTimeout     = errors.New("auth gateway timed out")
	ErrGatewayUnavailable = errors.New("auth gateway unavailable")
)

const (
	RoleRider  = "rider"
	RoleDriver = "driver"
)

// User is the verified subject attached to every authenticated request.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type verifyResponse struct {
	Valid bool  `json:"valid"`
	User  *User `json:"user,omitempty"`
}

type Client struct {
	baseURL string
	timeout time.Duration
	httpc   *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		timeout: timeout,
		httpc:   &http.Client{},
	}
}

// Verify calls POST /verify-token with the bearer token. A non-2xx
// response or valid:false maps to ErrUnauthorized; a deadline overrun
// maps to ErrGatewayTimeout; anything else to ErrGatewayUnavailable.
func (c *Client) Verify(ctx context.Context, token string) (User, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.baseURL+"/verify-token", nil)
	if err != nil {
		return User{}, fmt.Errorf("build verify request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpc.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || reqCtx.Err() == context.DeadlineExceeded {
			return User{}, ErrGatewayTimeout
		}
		return User{}, ErrGatewayUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return User{}, ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return User{}, ErrGatewayUnavailable
	}

	var body verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return User{}, ErrGatewayUnavailable
	}
	if !body.Valid || body.User == nil {
		return User{}, ErrUnauthorized
	}
	return *body.User, nil
}
