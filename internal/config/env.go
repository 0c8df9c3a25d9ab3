package config

import (
	"fmt"
	"os"
)

// envSource resolves values from environment variables (.env in dev).
type envSource struct{}

func newEnvSource() *envSource {
	return &envSource{}
}

func (e *envSource) Name() string {
	return "env"
}

func (e *envSource) Get(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("env %s not set", key)
	}
	return val, nil
}
