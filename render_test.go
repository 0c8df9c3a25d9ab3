package recaptcha

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSiteKey = "6LeIxAcTAAAAAJcZVRqyHh71UMIEGNQ_MXjiZKhI"

func TestRenderWidgetStructure(t *testing.T) {
	c := New()
	out, err := c.Render(testSiteKey, nil)
	require.NoError(t, err)

	html := string(out)
	id := "recaptcha_6LeIxAcTAA"
	assert.Contains(t, html, "grecaptcha.render('"+id+"'")
	assert.Contains(t, html, `<div id="`+id+`"></div>`)
	assert.Equal(t, 2, strings.Count(html, id), "element id should appear in the inline script and the container")
	assert.Contains(t, html, `"sitekey":"`+testSiteKey+`"`)
	assert.Contains(t, html, "https://www.google.com/recaptcha/api.js")

	// script before container
	assert.Less(t, strings.Index(html, "grecaptcha.render"), strings.Index(html, "<div"))
}

func TestRenderIsDeterministic(t *testing.T) {
	c := New()
	opts := RenderOptions{"theme": "dark", "size": "compact", "type": "audio"}

	first, err := c.Render(testSiteKey, opts)
	require.NoError(t, err)
	second, err := c.Render(testSiteKey, opts)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRenderForwardsOptions(t *testing.T) {
	c := New()
	out, err := c.Render(testSiteKey, RenderOptions{"theme": "dark", "custom-key": "x"})
	require.NoError(t, err)

	html := string(out)
	assert.Contains(t, html, `"theme":"dark"`)
	assert.Contains(t, html, `"custom-key":"x"`, "unknown keys pass through untouched")
}

func TestRenderShortSiteKey(t *testing.T) {
	c := New()
	out, err := c.Render("abc", nil)
	require.NoError(t, err)
	assert.Contains(t, string(out), `<div id="recaptcha_abc"></div>`)
}

func TestRenderMissingSiteKey(t *testing.T) {
	c := New()
	for _, key := range []string{"", "   "} {
		_, err := c.Render(key, nil)
		require.ErrorIs(t, err, ErrMissingSiteKey)
	}
}

func TestRenderLocaleInScriptURL(t *testing.T) {
	c := New(WithLocale("tr"))
	out, err := c.Render(testSiteKey, nil)
	require.NoError(t, err)
	assert.Contains(t, string(out), "hl=tr")
}
