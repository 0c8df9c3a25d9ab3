package policy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfig = `{
	"global": {
		"site_key": "global-site-key",
		"secret_key": "GLOBAL_SECRET",
		"theme": "light"
	},
	"actions": {
		"login": {"min_score": 0.7, "theme": "dark"},
		"search": {"site_key": "search-site-key", "size": "compact"}
	}
}`

func TestParseAndBuildOverrides(t *testing.T) {
	store, err := parseAndBuild([]byte(validConfig))
	require.NoError(t, err)

	login, ok := store.PolicyFor("login")
	require.True(t, ok)
	assert.Equal(t, 0.7, login.MinScore)
	assert.Equal(t, "dark", login.Theme)
	assert.Equal(t, "global-site-key", login.SiteKey)
	assert.Equal(t, "GLOBAL_SECRET", login.SecretKey)

	search, ok := store.PolicyFor("search")
	require.True(t, ok)
	assert.Equal(t, "search-site-key", search.SiteKey)
	assert.Equal(t, "compact", search.Size)
	assert.Equal(t, defaultMinScore, search.MinScore)
}

func TestParseAndBuildFallbackToGlobal(t *testing.T) {
	store, err := parseAndBuild([]byte(validConfig))
	require.NoError(t, err)

	pol, ok := store.PolicyFor("unknown-action")
	assert.False(t, ok)
	assert.Equal(t, "global-site-key", pol.SiteKey)
	assert.Equal(t, "light", pol.Theme)
}

func TestParseAndBuildRejectsBadConfigs(t *testing.T) {
	cases := map[string]string{
		"not json":          `{`,
		"no actions":        `{"global": {"site_key": "k", "secret_key": "s"}}`,
		"bad theme":         `{"global": {"site_key": "k", "secret_key": "s", "theme": "purple"}, "actions": {"login": {}}}`,
		"bad size":          `{"global": {"site_key": "k", "secret_key": "s"}, "actions": {"login": {"size": "huge"}}}`,
		"score out of range": `{"global": {"site_key": "k", "secret_key": "s", "min_score": 1.5}, "actions": {"login": {}}}`,
		"missing site key":  `{"global": {"secret_key": "s"}, "actions": {"login": {}}}`,
		"missing secret":    `{"global": {"site_key": "k"}, "actions": {"login": {}}}`,
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseAndBuild([]byte(cfg))
			assert.Error(t, err)
		})
	}
}

func TestCurrentLoadsFromConfiguredPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.json")
	require.NoError(t, os.WriteFile(path, []byte(validConfig), 0o600))
	t.Setenv("RECAPTCHA_CONFIG", path)

	store, err := Current()
	require.NoError(t, err)
	pol, ok := store.PolicyFor("login")
	assert.True(t, ok)
	assert.Equal(t, "dark", pol.Theme)
}

func TestCurrentMissingFile(t *testing.T) {
	t.Setenv("RECAPTCHA_CONFIG", filepath.Join(t.TempDir(), "nope.json"))

	_, err := Current()
	assert.Error(t, err)
}
