package recaptcha

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
)

var (
	serviceOnce    sync.Once
	defaultService Service
)

// FailureHandler is invoked when a request fails verification.
type FailureHandler func(http.ResponseWriter, *http.Request, VerificationResult)

type middlewareConfig struct {
	service        Service
	failureHandler FailureHandler
}

// MiddlewareOption modifies middleware behavior.
type MiddlewareOption func(*middlewareConfig)

// WithFailureHandler replaces the default JSON 400 response on failure.
func WithFailureHandler(handler FailureHandler) MiddlewareOption {
	return func(cfg *middlewareConfig) {
		if handler != nil {
			cfg.failureHandler = handler
		}
	}
}

// WithService verifies with the given Service instead of the lazily built
// package default.
func WithService(svc Service) MiddlewareOption {
	return func(cfg *middlewareConfig) {
		if svc != nil {
			cfg.service = svc
		}
	}
}

// Middleware wraps a handler so that requests only pass when they carry a
// valid reCAPTCHA token for the given action.
func Middleware(action string, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := middlewareConfig{
		failureHandler: JSONFailureHandler(http.StatusBadRequest),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			svc := cfg.service
			if svc == nil {
				serviceOnce.Do(func() {
					defaultService = NewService()
				})
				svc = defaultService
			}

			token := extractToken(r)
			if token == "" {
				cfg.failureHandler(w, r, VerificationResult{
					Success: false,
					Status:  "token_missing",
					Message: "missing recaptcha token",
				})
				return
			}

			result := svc.Verify(r.Context(), token, clientIP(r), action)
			if !result.Success {
				cfg.failureHandler(w, r, result)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// JSONFailureHandler writes the verification result as JSON with the given
// status code.
func JSONFailureHandler(status int) FailureHandler {
	return func(w http.ResponseWriter, _ *http.Request, result VerificationResult) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(result)
	}
}

func extractToken(r *http.Request) string {
	if t := r.Header.Get("X-Recaptcha-Token"); t != "" {
		return t
	}
	if err := r.ParseForm(); err == nil {
		if t := r.FormValue("g-recaptcha-response"); t != "" {
			return t
		}
		if t := r.FormValue("token"); t != "" {
			return t
		}
	}
	if r.Body != nil {
		b, _ := io.ReadAll(r.Body)
		if len(b) > 0 {
			var m map[string]any
			_ = json.Unmarshal(b, &m)
			r.Body = io.NopCloser(strings.NewReader(string(b)))
			if v, ok := m["token"].(string); ok {
				return v
			}
		}
	}
	return ""
}

func clientIP(r *http.Request) string {
	if ip, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return ip
	}
	return r.RemoteAddr
}
