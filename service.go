package recaptcha

import (
	"context"
	"errors"
	"fmt"
	"log"

	cfg "github.com/Sidnet/recaptcha/internal/config"
	"github.com/Sidnet/recaptcha/internal/policy"
)

// ActionMetadata is the page-facing configuration for a protected action:
// everything a template needs to embed the widget.
type ActionMetadata struct {
	Action  string
	SiteKey string
	Options RenderOptions
}

// VerificationResult is the service-level outcome of checking one token
// against an action's policy.
type VerificationResult struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Service verifies tokens against per-action policies, resolving secrets
// through the configured secret source.
type Service interface {
	Verify(ctx context.Context, token, ip, action string) VerificationResult
}

type service struct {
	client *Client
}

// NewService returns a Service backed by a Client built with the given
// options.
func NewService(options ...Option) Service {
	return &service{client: New(options...)}
}

func (s *service) Verify(ctx context.Context, token, ip, action string) VerificationResult {
	store, err := policy.Current()
	if err != nil {
		return VerificationResult{
			Success: false,
			Status:  "policy_error",
			Message: fmt.Sprintf("failed to load policy: %v", err),
		}
	}
	pol, ok := store.PolicyFor(action)
	if !ok {
		log.Printf("[recaptcha] no policy override for '%s', using defaults (min_score=%.2f)", action, pol.MinScore)
	}

	secret, err := cfg.Get(pol.SecretKey)
	if err != nil {
		return VerificationResult{
			Success: false,
			Status:  "config_error",
			Message: fmt.Sprintf("failed to load secret '%s': %v", pol.SecretKey, err),
		}
	}

	res, err := s.client.VerifyWithIP(ctx, secret, token, ip)
	if err != nil {
		status := "verify_error"
		var netErr *NetworkError
		if errors.As(err, &netErr) {
			status = "network_error"
		}
		return VerificationResult{
			Success: false,
			Status:  status,
			Message: fmt.Sprintf("verify error: %v", err),
		}
	}
	if !res.Success {
		return VerificationResult{
			Success: false,
			Status:  "rejected",
			Message: fmt.Sprintf("token rejected: %v", res.ErrorCodes),
		}
	}

	// v3 responses carry the action the token was minted for.
	if res.Action != "" && res.Action != action {
		return VerificationResult{
			Success: false,
			Status:  "action_mismatch",
			Message: fmt.Sprintf("action mismatch: expected '%s', got '%s'", action, res.Action),
		}
	}

	if res.Score != nil && *res.Score < pol.MinScore {
		return VerificationResult{
			Success: false,
			Status:  "score_too_low",
			Message: fmt.Sprintf("score too low: %.2f < %.2f", *res.Score, pol.MinScore),
		}
	}

	return VerificationResult{
		Success: true,
		Status:  "verified",
		Message: "recaptcha verification passed",
	}
}

// Metadata returns the action's site key and widget render options using the
// shared policy store, without requiring a Service instance.
func Metadata(action string) (ActionMetadata, error) {
	store, err := policy.Current()
	if err != nil {
		return ActionMetadata{}, err
	}
	pol, _ := store.PolicyFor(action)

	opts := RenderOptions{}
	if pol.Theme != "" {
		opts["theme"] = pol.Theme
	}
	if pol.Size != "" {
		opts["size"] = pol.Size
	}
	return ActionMetadata{
		Action:  action,
		SiteKey: pol.SiteKey,
		Options: opts,
	}, nil
}
