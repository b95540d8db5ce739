// Package normalize cleans user-supplied strings before they are validated
// and stored.
package normalize

import "strings"

// Username trims surrounding whitespace. Case is preserved: usernames
// compare case-sensitively.
func Username(u string) string {
	return strings.TrimSpace(u)
}

// Text trims free text (discussion names, message content). The text is
// stored as typed; clients escape it when rendering.
func Text(s string) string {
	return strings.TrimSpace(s)
}
