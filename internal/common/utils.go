package common

import "strings"

// HasAny returns true if s contains any of the substrings.
func HasAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// WantsHTML reports whether an Accept header asks for a web page rather
// than JSON.
func WantsHTML(accept string) bool {
	accept = strings.ToLower(accept)
	return HasAny(accept, "text/html", "application/xhtml+xml") && !strings.Contains(accept, "application/json")
}
