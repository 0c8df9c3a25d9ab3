// Package recaptcha embeds the Google reCAPTCHA v2 widget into web pages and
// verifies the tokens it produces against the siteverify endpoint.
//
// The Client is the low-level surface: Render produces the widget HTML for a
// page and Verify submits a response token server-side. On top of it, Service
// and Middleware add per-action policies with secrets loaded from the
// environment or HashiCorp Vault.
package recaptcha

import (
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Version is reported in the User-Agent header of siteverify requests.
const Version = "1.0.0"

const (
	defaultScriptURL = "https://www.google.com/recaptcha/api.js?onload=onloadCallback&render=explicit"
	defaultVerifyURL = "https://www.google.com/recaptcha/api/siteverify"
	defaultUserAgent = "Sidnet reCAPTCHA Go client/" + Version
)

// Client holds the fixed endpoint configuration. It is immutable after New
// and safe for concurrent use.
type Client struct {
	scriptURL string
	verifyURL string
	userAgent string
	locale    string
	http      *http.Client
}

// Option modifies a Client under construction.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client used for siteverify
// calls. The supplied client must be safe for concurrent use.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.http = httpClient
		}
	}
}

// WithLocale sets the widget language, appended to the script URL as the hl
// query parameter.
func WithLocale(locale string) Option {
	return func(c *Client) {
		c.locale = locale
	}
}

// WithScriptURL overrides the widget script URL.
func WithScriptURL(scriptURL string) Option {
	return func(c *Client) {
		c.scriptURL = scriptURL
	}
}

// WithVerifyURL overrides the siteverify endpoint, which lets tests point the
// client at a mock server.
func WithVerifyURL(verifyURL string) Option {
	return func(c *Client) {
		c.verifyURL = verifyURL
	}
}

// WithUserAgent overrides the User-Agent sent on siteverify requests.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// New returns a Client configured for the public Google endpoints unless
// options say otherwise.
func New(options ...Option) *Client {
	c := &Client{
		scriptURL: defaultScriptURL,
		verifyURL: defaultVerifyURL,
		userAgent: defaultUserAgent,
		http:      &http.Client{Timeout: 5 * time.Second},
	}
	for _, opt := range options {
		opt(c)
	}
	if c.locale != "" {
		sep := "?"
		if strings.Contains(c.scriptURL, "?") {
			sep = "&"
		}
		c.scriptURL += sep + "hl=" + url.QueryEscape(c.locale)
	}
	return c
}
