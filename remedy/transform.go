// Package remedy rewrites a page to fix common age-inclusion issues and
// reports every mutation in an ordered change log.
//
// Rules apply in a fixed order, each conditionally. Re-running the
// transformer on already-fixed markup is safe: each rule checks its
// precondition first. The CSS injection rule is the one exception and
// prepends a new style block on every run.
package remedy

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/infrajoy/agelens/dom"
	"github.com/infrajoy/agelens/tables"
	"github.com/infrajoy/agelens/urlx"
)

const visuallyHiddenStyle = "position:absolute;left:-9999px;top:auto;width:1px;height:1px;overflow:hidden;"

var (
	userScalableNoPattern = regexp.MustCompile(`(?i)user-scalable\s*=\s*no`)
	maxScaleOnePattern    = regexp.MustCompile(`(?i)maximum-scale\s*=\s*1(\.0+)?(\s*(?:[,;]|$))`)
)

// landmarkKinds lists the three landmark roles the transformer backfills,
// in insertion order.
var landmarkKinds = []struct {
	tag  string
	role string
}{
	{"header", "banner"},
	{"nav", "navigation"},
	{"footer", "contentinfo"},
}

type transformer struct {
	doc     *dom.Document
	baseURL string
	css     string
	changes []string
}

func (t *transformer) log(format string, args ...any) {
	t.changes = append(t.changes, fmt.Sprintf(format, args...))
}

// rules run in this exact order; ordering is part of the contract.
var rules = []func(*transformer){
	(*transformer).ensureSkipLink,
	(*transformer).normalizeViewport,
	(*transformer).backfillLandmarks,
	(*transformer).labelControls,
	(*transformer).fixInputs,
	(*transformer).fixLinks,
	(*transformer).injectCSS,
}

// Transform mutates the document in place and returns the ordered change
// log. css may be empty to skip stylesheet injection.
func Transform(d *dom.Document, baseURL, css string) []string {
	t := &transformer{doc: d, baseURL: baseURL, css: css}
	for _, rule := range rules {
		rule(t)
	}
	return t.changes
}

// Apply parses raw HTML, transforms it with the configuration's generated
// CSS, and returns the rewritten markup plus the change log.
func Apply(htmlText, baseURL string, cfg Config) (string, []string, error) {
	d, err := dom.Parse(htmlText)
	if err != nil {
		return "", nil, fmt.Errorf("parse: %w", err)
	}
	changes := Transform(d, baseURL, BuildCSS(cfg))
	return d.Render(), changes, nil
}

// Rule 1: if no skip-link pattern exists, ensure a main container and insert
// a visually hidden skip link as the first body element.
func (t *transformer) ensureSkipLink() {
	if len(t.doc.Select(`a[href^="#"][href*="main"], a[href^="#"][href*="content"], a[href*="skip"]`)) > 0 {
		return
	}
	body := t.doc.Body()

	main := t.doc.SelectOne("main")
	if main == nil {
		main = dom.NewElement("main")
		dom.PrependChild(body, main)
	}
	if dom.Attr(main, "id") == "" {
		dom.SetAttr(main, "id", "main")
	}

	skip := dom.NewElement("a", "href", "#"+dom.Attr(main, "id"), "style", visuallyHiddenStyle)
	dom.SetText(skip, "Skip to content")
	dom.PrependChild(body, skip)
	t.log("Added Skip to content and <main>.")
}

// Rule 2: create a responsive viewport meta if absent; otherwise rewrite
// zoom-blocking directives in place. Logs only when content changed, so
// re-running on fixed markup is a no-op.
func (t *transformer) normalizeViewport() {
	vp := t.doc.SelectOne("meta[name=viewport]")
	if vp == nil {
		vp = dom.NewElement("meta", "name", "viewport", "content", "width=device-width, initial-scale=1")
		dom.AppendChild(t.doc.Head(), vp)
		t.log("Added viewport meta.")
		return
	}
	content := dom.Attr(vp, "content")
	fixed := userScalableNoPattern.ReplaceAllString(content, "user-scalable=yes")
	fixed = maxScaleOnePattern.ReplaceAllString(fixed, "maximum-scale=5$2")
	if fixed != content {
		dom.SetAttr(vp, "content", fixed)
		t.log("Enabled pinch-zoom.")
	}
}

// Rule 3: append an empty placeholder for each missing landmark kind.
func (t *transformer) backfillLandmarks() {
	body := t.doc.Body()
	for _, lm := range landmarkKinds {
		if len(t.doc.Select(lm.tag+",[role="+lm.role+"]")) > 0 {
			continue
		}
		dom.AppendChild(body, dom.NewElement(lm.tag))
		t.log("Inserted <%s> landmark.", lm.tag)
	}
}

// Rule 4: give unlabeled interactive controls a generic accessible label.
func (t *transformer) labelControls() {
	for _, el := range t.doc.Select("button,[role=button],a[role=button]") {
		if dom.Text(el) == "" && strings.TrimSpace(dom.Attr(el, "aria-label")) == "" {
			dom.SetAttr(el, "aria-label", "Action")
			t.log("Added aria-label to unlabeled button/control.")
		}
	}
}

// Rule 5: correct declared input types implied by name/id, and assign an
// autocomplete hint from the fixed keyword table when none is present.
func (t *transformer) fixInputs() {
	for _, el := range t.doc.Select("input") {
		nameID := strings.ToLower(dom.Attr(el, "name") + " " + dom.Attr(el, "id"))
		typ := strings.ToLower(dom.Attr(el, "type"))

		if strings.Contains(nameID, "email") && typ != "email" {
			dom.SetAttr(el, "type", "email")
			t.log("Input type=email.")
		}
		if (strings.Contains(nameID, "phone") || strings.Contains(nameID, "tel")) && typ != "tel" {
			dom.SetAttr(el, "type", "tel")
			t.log("Input type=tel.")
		}

		if dom.Attr(el, "autocomplete") == "" {
			if hint := tables.HintFor(nameID); hint != "" {
				dom.SetAttr(el, "autocomplete", hint)
				t.log("Autocomplete %s.", hint)
			}
		}
	}
}

// Rule 6: mark external links with rel=noopener and rewrite vague link text
// using the title attribute, the last URL path segment, or a generic label.
func (t *transformer) fixLinks() {
	baseHost := urlx.Host(t.baseURL)
	for _, a := range t.doc.Select("a[href]") {
		href := dom.Attr(a, "href")

		if strings.HasPrefix(href, "http") && urlx.Host(href) != baseHost {
			rel := strings.Fields(dom.Attr(a, "rel"))
			if !containsWord(rel, "noopener") {
				rel = append(rel, "noopener")
				dom.SetAttr(a, "rel", strings.Join(rel, " "))
				t.log("rel=noopener on external link.")
			}
		}

		label := strings.ToLower(strings.TrimSpace(dom.Text(a)))
		if tables.VaguePhrases[label] {
			newLabel := dom.Attr(a, "title")
			if newLabel == "" {
				newLabel = urlx.LastPathSegment(href)
			}
			if newLabel == "" {
				newLabel = "Learn more"
			}
			dom.SetText(a, newLabel)
			t.log("Rewrote vague link to '%s'.", newLabel)
		}
	}
}

// Rule 7: inject the generated stylesheet as the first child of head.
// Not idempotent: every run appends another style block.
func (t *transformer) injectCSS() {
	if t.css == "" {
		return
	}
	style := dom.NewElement("style", "id", "agelens-css")
	dom.SetText(style, t.css)
	dom.PrependChild(t.doc.Head(), style)
	t.log("Injected age-friendly CSS.")
}

func containsWord(words []string, w string) bool {
	for _, x := range words {
		if x == w {
			return true
		}
	}
	return false
}
