// Package htmlsanitize strips unsafe HTML from user-supplied rich text
// before it is stored. Resource descriptions and instructional notes arrive
// from the editor as limited HTML; everything else is treated as plain text.
package htmlsanitize

import (
	"github.com/microcosm-cc/bluemonday"
)

// policy allows the formatting subset the editor produces (paragraphs,
// emphasis, lists, links) and nothing else.
var policy = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.RequireNoFollowOnLinks(true)
	return p
}()

// Sanitize returns s with all disallowed HTML removed. Plain text passes
// through unchanged.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return policy.Sanitize(s)
}
