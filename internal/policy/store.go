// Package policy loads the per-action reCAPTCHA policy file and keeps it
// current, reloading when the file changes on disk.
package policy

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Sidnet/recaptcha/internal/config"
)

const defaultMinScore = 0.5

// Policy is the resolved configuration for one protected action: which site
// key the page embeds, which config key holds the secret, how the widget
// looks, and the minimum v3 score accepted.
type Policy struct {
	MinScore  float64
	SiteKey   string
	SecretKey string
	Theme     string
	Size      string
}

type rawPolicy struct {
	MinScore  *float64 `json:"min_score,omitempty" validate:"omitempty,gte=0,lte=1"`
	SiteKey   string   `json:"site_key,omitempty"`
	SecretKey string   `json:"secret_key,omitempty"`
	Theme     string   `json:"theme,omitempty" validate:"omitempty,oneof=dark light"`
	Size      string   `json:"size,omitempty" validate:"omitempty,oneof=compact normal"`
}

type rawPolicyConfig struct {
	Global  rawPolicy            `json:"global"`
	Actions map[string]rawPolicy `json:"actions" validate:"required,min=1,dive"`
}

// Store holds the parsed policy set. Reads are safe for concurrent use.
type Store struct {
	global  Policy
	actions map[string]Policy
	mu      sync.RWMutex
}

var (
	policies      *Store
	policyPath    string
	policyModTime time.Time
	policyMu      sync.Mutex

	validate = validator.New()
)

// Current returns the latest policy store, reloading from disk when the file
// at RECAPTCHA_CONFIG changes.
func Current() (*Store, error) {
	path, err := resolvePolicyPath()
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("could not stat recaptcha policy config: %w", err)
	}

	policyMu.Lock()
	defer policyMu.Unlock()

	if policies != nil && path == policyPath && info.ModTime().Equal(policyModTime) {
		return policies, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not open recaptcha policy config: %w", err)
	}

	store, err := parseAndBuild(data)
	if err != nil {
		return nil, err
	}

	policies = store
	policyPath = path
	policyModTime = info.ModTime()
	return policies, nil
}

func parseAndBuild(data []byte) (*Store, error) {
	var cfg rawPolicyConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("could not parse recaptcha policy config: %w", err)
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid recaptcha policy config: %w", err)
	}

	base := Policy{
		MinScore:  defaultMinScore,
		SiteKey:   strings.TrimSpace(cfg.Global.SiteKey),
		SecretKey: strings.TrimSpace(cfg.Global.SecretKey),
		Theme:     strings.TrimSpace(cfg.Global.Theme),
		Size:      strings.TrimSpace(cfg.Global.Size),
	}
	if cfg.Global.MinScore != nil {
		base.MinScore = *cfg.Global.MinScore
	}

	actions := make(map[string]Policy, len(cfg.Actions))
	missingSiteKey := base.SiteKey == ""
	missingSecretKey := base.SecretKey == ""
	for name, raw := range cfg.Actions {
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("recaptcha policy action name cannot be empty")
		}
		p := base
		if raw.MinScore != nil {
			p.MinScore = *raw.MinScore
		}
		if s := strings.TrimSpace(raw.SiteKey); s != "" {
			p.SiteKey = s
		} else if p.SiteKey == "" {
			missingSiteKey = true
		}
		if s := strings.TrimSpace(raw.SecretKey); s != "" {
			p.SecretKey = s
		} else if p.SecretKey == "" {
			missingSecretKey = true
		}
		if s := strings.TrimSpace(raw.Theme); s != "" {
			p.Theme = s
		}
		if s := strings.TrimSpace(raw.Size); s != "" {
			p.Size = s
		}
		actions[name] = p
	}
	if missingSiteKey {
		return nil, fmt.Errorf("recaptcha policy requires a site_key in global or for every action")
	}
	if missingSecretKey {
		return nil, fmt.Errorf("recaptcha policy requires a secret_key in global or for every action")
	}

	return &Store{
		global:  base,
		actions: actions,
	}, nil
}

// PolicyFor returns the policy for an action, falling back to the global
// policy. The second return reports whether an action-specific entry exists.
func (ps *Store) PolicyFor(action string) (Policy, bool) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	if policy, ok := ps.actions[action]; ok {
		return policy, true
	}
	return ps.global, false
}

func resolvePolicyPath() (string, error) {
	val, err := config.Get("RECAPTCHA_CONFIG")
	if err != nil {
		return "", fmt.Errorf("RECAPTCHA_CONFIG must be set")
	}

	path := strings.TrimSpace(val)
	if path == "" {
		return "", fmt.Errorf("RECAPTCHA_CONFIG must be set")
	}
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("could not stat recaptcha policy config (%s): %w", path, err)
	}
	return path, nil
}
