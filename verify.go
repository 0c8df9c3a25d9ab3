package recaptcha

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Response is the siteverify judgment for a single token. Success false with
// ErrorCodes is a normal outcome (expired or invalid token), not an error.
type Response struct {
	Success     bool     `json:"success"`
	ChallengeTS string   `json:"challenge_ts,omitempty"`
	Hostname    string   `json:"hostname,omitempty"`
	Action      string   `json:"action,omitempty"`
	Score       *float64 `json:"score,omitempty"`
	ErrorCodes  []string `json:"error-codes,omitempty"`
}

// Verify submits a response token to the siteverify endpoint and returns the
// parsed judgment. Argument validation happens before any I/O.
func (c *Client) Verify(ctx context.Context, secret, token string) (*Response, error) {
	return c.VerifyWithIP(ctx, secret, token, "")
}

// VerifyWithIP is Verify with the end user's IP address included in the
// request, which lets the endpoint cross-check where the challenge was
// solved. An empty remoteIP omits the field entirely.
func (c *Client) VerifyWithIP(ctx context.Context, secret, token, remoteIP string) (*Response, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrMissingSecret
	}
	if strings.TrimSpace(token) == "" {
		return nil, ErrMissingToken
	}

	form := url.Values{}
	form.Set("secret", secret)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.verifyURL, bytes.NewBufferString(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("recaptcha: build siteverify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &NetworkError{Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("recaptcha: decode siteverify response: %w", err)
	}
	return &out, nil
}
