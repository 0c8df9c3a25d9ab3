// Package config resolves secret values (reCAPTCHA secret keys, policy file
// locations) from a pluggable backend: plain environment variables or
// HashiCorp Vault, selected via RECAPTCHA_SECRET_SOURCE.
package config

import (
	"fmt"
	"os"
	"strings"
	"sync"
)

// Source is a backend that can resolve configuration values by key.
type Source interface {
	Get(key string) (string, error)
	Name() string
}

var (
	defaultSource Source
	sourceOnce    sync.Once
	sourceErr     error
)

// Get returns the value for key from the configured source.
func Get(key string) (string, error) {
	src, err := currentSource()
	if err != nil {
		return "", err
	}
	return src.Get(key)
}

// MustGet returns the value for key or panics when it is missing.
func MustGet(key string) string {
	val, err := Get(key)
	if err != nil {
		panic(err)
	}
	return val
}

// GetDefault returns the value for key, falling back to defaultVal when the
// key is missing or empty.
func GetDefault(key, defaultVal string) string {
	val, err := Get(key)
	if err != nil || val == "" {
		return defaultVal
	}
	return val
}

func currentSource() (Source, error) {
	sourceOnce.Do(func() {
		name := strings.ToLower(strings.TrimSpace(os.Getenv("RECAPTCHA_SECRET_SOURCE")))
		if name == "" {
			name = "env"
		}
		defaultSource, sourceErr = newSource(name)
	})
	return defaultSource, sourceErr
}

func newSource(name string) (Source, error) {
	switch name {
	case "env":
		return newEnvSource(), nil
	case "vault":
		return newVaultSource()
	default:
		return nil, fmt.Errorf("unknown secret source: %s (env|vault)", name)
	}
}
