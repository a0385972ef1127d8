package scaffold

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	iconPolicyOnce sync.Once
	iconPolicy     *bluemonday.Policy
)

// sanitizeIcon keeps icon-font <i>/<span> tags and inline SVG shapes of a
// section icon and drops everything else, scripts and handlers included.
func sanitizeIcon(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(iconSanitizer().Sanitize(trimmed))
}

func iconSanitizer() *bluemonday.Policy {
	iconPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("i", "span", "svg", "path", "circle", "rect", "g")
		policy.AllowAttrs("class", "aria-hidden").OnElements("i", "span")
		policy.AllowAttrs("xmlns", "viewBox", "width", "height", "fill", "stroke", "class", "aria-hidden").OnElements("svg")
		policy.AllowAttrs("d", "cx", "cy", "r", "x", "y", "width", "height", "fill", "stroke").OnElements("path", "circle", "rect")
		iconPolicy = policy
	})
	return iconPolicy
}
