// Package sanitize escapes untrusted text before it is placed into markup.
package sanitize

import "github.com/a-h/templ"

// HTML escapes <, >, &, ' and " so s renders as literal text
func HTML(s string) string {
	if s == "" {
		return ""
	}
	return templ.EscapeString(s)
}
