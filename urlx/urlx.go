// Package urlx provides the small URL helpers shared by the auditor,
// transformer, and crawler.
package urlx

import (
	"net/url"
	"strings"
)

// Host returns the lowercase host of a URL, or "" if it cannot be parsed.
// Domain equality throughout the module is exact lowercase host match:
// no subdomain folding, no scheme consideration.
func Host(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Host)
}

// Resolve returns href resolved against base. Malformed input returns href
// unchanged so callers can still record the raw value.
func Resolve(base, href string) string {
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	h, err := url.Parse(href)
	if err != nil {
		return href
	}
	return b.ResolveReference(h).String()
}

// LastPathSegment returns the final non-empty path segment of a URL, or "".
func LastPathSegment(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	path := u.Path
	for len(path) > 0 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}
