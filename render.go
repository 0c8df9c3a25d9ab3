package recaptcha

import (
	"encoding/json"
	"fmt"
	"html/template"
	"strings"
)

// RenderOptions carries widget display options keyed the way the client-side
// API expects them (theme, type, size). Keys are forwarded to
// grecaptcha.render verbatim; unknown keys are not rejected.
type RenderOptions map[string]string

var widgetTmpl = template.Must(template.New("widget").Parse(
	`<script type="text/javascript">
var onloadCallback = function() {
  grecaptcha.render('{{.ElementID}}', {{.Params}});
};
</script>
<script src="{{.ScriptURL}}" async defer></script>
<div id="{{.ElementID}}"></div>
`))

// Render produces the HTML fragment that embeds the widget: an inline
// onloadCallback script, the remote api.js script tag, and the container div
// the widget is rendered into. It performs no I/O and the output is
// deterministic for a given Client, site key and options.
func (c *Client) Render(siteKey string, opts RenderOptions) (template.HTML, error) {
	if strings.TrimSpace(siteKey) == "" {
		return "", ErrMissingSiteKey
	}

	params := make(map[string]string, len(opts)+1)
	for k, v := range opts {
		params[k] = v
	}
	params["sitekey"] = siteKey
	// Map keys marshal in sorted order, so the fragment is byte-stable.
	blob, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("recaptcha: encode widget params: %w", err)
	}

	var buf strings.Builder
	err = widgetTmpl.Execute(&buf, struct {
		ElementID string
		Params    template.JS
		ScriptURL string
	}{
		ElementID: elementID(siteKey),
		Params:    template.JS(blob),
		ScriptURL: c.scriptURL,
	})
	if err != nil {
		return "", fmt.Errorf("recaptcha: render widget: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// elementID derives the container id from the site key. The widget only needs
// a stable anchor per page, so the first ten characters are enough.
func elementID(siteKey string) string {
	if len(siteKey) > 10 {
		siteKey = siteKey[:10]
	}
	return "recaptcha_" + siteKey
}
