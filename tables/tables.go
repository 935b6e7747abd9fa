// Package tables holds the constant lookup tables shared by the auditor and
// the remediation transformer. All data here is immutable process-wide state;
// nothing mutates it after init.
package tables

import (
	"regexp"
	"strings"
)

// VaguePhrases is the set of link texts considered non-descriptive.
// Matching is on trimmed, lowercased visible text.
var VaguePhrases = map[string]bool{
	"click here": true,
	"here":       true,
	"read more":  true,
	"learn more": true,
	"more":       true,
	"this":       true,
	"link":       true,
}

// ContactPattern matches body text that suggests an obvious contact path.
var ContactPattern = regexp.MustCompile(`(?i)\b(contact|support|help|call us|phone)\b`)

// TelLinkPattern matches tel: hrefs with a digit after an optional '+'.
var TelLinkPattern = regexp.MustCompile(`(?i)^tel:\+?\d`)

// AutocompleteHint maps name/id keywords to autocomplete tokens. Rules are
// ordered: the first match wins, mirroring the remediation rule order.
type AutocompleteHint struct {
	// Keywords that must all appear in the field's name+id (lowercased).
	Keywords []string
	Token    string
}

// AutocompleteHints is the fixed keyword-to-hint table used when a field
// carries no autocomplete attribute.
var AutocompleteHints = []AutocompleteHint{
	{Keywords: []string{"email"}, Token: "email"},
	{Keywords: []string{"first", "name"}, Token: "given-name"},
	{Keywords: []string{"last", "name"}, Token: "family-name"},
	{Keywords: []string{"phone"}, Token: "tel"},
	{Keywords: []string{"tel"}, Token: "tel"},
}

// HintFor returns the autocomplete token for a field's combined name+id
// (already lowercased), or "" when no rule matches.
func HintFor(nameID string) string {
	for _, h := range AutocompleteHints {
		ok := true
		for _, kw := range h.Keywords {
			if !strings.Contains(nameID, kw) {
				ok = false
				break
			}
		}
		if ok {
			return h.Token
		}
	}
	return ""
}
