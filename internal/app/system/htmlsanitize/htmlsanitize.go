// internal/app/system/htmlsanitize/htmlsanitize.go
package htmlsanitize

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

// richTextPolicy is the UGC policy widened for editor output: class
// attributes, table spans, and inline formatting tags.
func richTextPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.UGCPolicy()
		p.AllowAttrs("class").Globally()
		p.AllowAttrs("colspan", "rowspan").OnElements("td", "th")
		p.AllowStyles("width", "text-align").OnElements("table", "tr", "td", "th")
		p.AllowElements("u", "s", "sub", "sup", "mark")
		policy = p
	})
	return policy
}

// Sanitize strips scripts, event handlers, javascript: URLs, and any tag the
// rich-text policy does not allow. Text without markup is returned as is so
// plain entities like "A & B" are not escaped.
func Sanitize(s string) string {
	if IsPlainText(s) {
		return s
	}
	return richTextPolicy().Sanitize(s)
}

// IsPlainText reports whether s contains no tag-like markup.
func IsPlainText(s string) bool {
	return !(strings.Contains(s, "<") && strings.Contains(s, ">"))
}
