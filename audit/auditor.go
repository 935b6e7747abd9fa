// Package audit turns a parsed page into a weighted age-inclusion score, a
// category breakdown, raw check metrics, and ordered recommendations.
//
// Every extraction rule is independent and tolerant of absence: a page
// missing a construct yields a neutral default (zero, false, empty), never
// an error. Only total fetch/parse failure — upstream of this package —
// makes a page unauditable.
package audit

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/infrajoy/agelens/contrast"
	"github.com/infrajoy/agelens/dom"
	"github.com/infrajoy/agelens/readability"
	"github.com/infrajoy/agelens/tables"
	"github.com/infrajoy/agelens/urlx"
)

var (
	skipHrefPattern = regexp.MustCompile(`(?i)(content|main|skip)`)
	skipTextPattern = regexp.MustCompile(`(?i)skip`)

	userScalableNoPattern = regexp.MustCompile(`(?i)user-scalable\s*=\s*no`)
	// Matches only an exact cap of 1 (or 1.0...), bounded so that
	// maximum-scale=1.5 or =10 is not flagged.
	maxScaleOnePattern = regexp.MustCompile(`(?i)maximum-scale\s*=\s*1(\.0+)?\s*(?:[,;]|$)`)
)

// landmarkSelectors covers the four required region types, by tag or
// explicit role.
var landmarkSelectors = []string{
	"main,[role=main]",
	"nav,[role=navigation]",
	"header,[role=banner]",
	"footer,[role=contentinfo]",
}

// Audit inspects a parsed document and produces the full audit result for
// the page served at pageURL.
func Audit(d *dom.Document, pageURL string) *Result {
	checks := collect(d, pageURL)
	breakdown := subscores(checks)
	return &Result{
		URL:             pageURL,
		Score:           overall(breakdown),
		Breakdown:       breakdown,
		Checks:          checks,
		Recommendations: recommend(checks, breakdown),
	}
}

func collect(d *dom.Document, pageURL string) Checks {
	var c Checks

	bodyText := dom.Text(d.Body())
	c.WordCount = len(strings.Fields(bodyText))
	c.ReadingEase = readability.ReadingEase(bodyText)

	collectHeadings(d, &c)
	collectSkipLink(d, &c)
	collectLandmarks(d, &c)
	collectImages(d, &c)
	collectControls(d, &c)
	collectInputHygiene(d, &c)
	collectViewport(d, &c)
	collectLinks(d, pageURL, &c)
	c.HasContactWord = tables.ContactPattern.MatchString(bodyText)

	findings := contrast.FindLowContrast(d)
	c.LowContrastCount = len(findings)
	if len(findings) > 10 {
		findings = findings[:10]
	}
	c.LowContrastExamples = findings

	return c
}

// collectHeadings gathers heading levels in document order. A jump is a
// consecutive level increase greater than 1 (H2 directly to H4).
func collectHeadings(d *dom.Document, c *Checks) {
	var levels []int
	for _, el := range d.Elements() {
		tag := dom.Tag(el)
		if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
			levels = append(levels, int(tag[1]-'0'))
		}
	}
	for i := 1; i < len(levels); i++ {
		if levels[i]-levels[i-1] > 1 {
			c.HeadingJumps++
		}
	}
	for _, l := range levels {
		if l == 1 {
			c.HasH1 = true
			break
		}
	}
}

func collectSkipLink(d *dom.Document, c *Checks) {
	for _, a := range d.Select("a") {
		href := dom.Attr(a, "href")
		if !strings.Contains(href, "#") {
			continue
		}
		if skipHrefPattern.MatchString(href) || skipTextPattern.MatchString(dom.Text(a)) {
			c.HasSkipLink = true
			return
		}
	}
}

func collectLandmarks(d *dom.Document, c *Checks) {
	for _, sel := range landmarkSelectors {
		if d.SelectOne(sel) != nil {
			c.LandmarkCount++
		}
	}
}

// collectImages computes alt-text coverage. Zero images means perfect
// coverage by definition.
func collectImages(d *dom.Document, c *Checks) {
	imgs := d.Select("img")
	if len(imgs) == 0 {
		c.ImgAltCoverage = 1.0
		return
	}
	withAlt := 0
	for _, img := range imgs {
		if strings.TrimSpace(dom.Attr(img, "alt")) != "" {
			withAlt++
		}
	}
	c.ImgAltCoverage = float64(withAlt) / float64(len(imgs))
}

func collectControls(d *dom.Document, c *Checks) {
	for _, el := range d.Select("button,[role=button],a[role=button]") {
		if dom.Text(el) == "" && strings.TrimSpace(dom.Attr(el, "aria-label")) == "" {
			c.UnlabeledButtons++
		}
	}
	for _, el := range d.Select("input,select,textarea") {
		if inputUnlabeled(d, el) {
			c.UnlabeledInputs++
		}
	}
}

// inputUnlabeled reports whether a form field has no associated label: no
// label[for], no wrapping label, no accessible-label attribute. Hidden
// fields are exempt.
func inputUnlabeled(d *dom.Document, el *html.Node) bool {
	if strings.ToLower(dom.Attr(el, "type")) == "hidden" {
		return false
	}
	aria := dom.Attr(el, "aria-label")
	if aria == "" {
		aria = dom.Attr(el, "aria-labelledby")
	}
	if strings.TrimSpace(aria) != "" {
		return false
	}
	if id := dom.Attr(el, "id"); id != "" {
		if d.SelectOne(`label[for="`+id+`"]`) != nil {
			return false
		}
	}
	return dom.Ancestor(el, "label") == nil
}

func collectInputHygiene(d *dom.Document, c *Checks) {
	c.InputTypes = map[string]int{}
	for _, el := range d.Select("input") {
		t := strings.ToLower(dom.Attr(el, "type"))
		c.InputTypes[t]++

		nameID := strings.ToLower(dom.Attr(el, "name") + dom.Attr(el, "id"))
		if t != "email" && strings.Contains(nameID, "email") {
			c.MissingEmailType = true
		}
		if t != "tel" && (strings.Contains(nameID, "phone") || strings.Contains(nameID, "tel")) {
			c.MissingTelType = true
		}
	}
	for _, el := range d.Select("input,select,textarea") {
		if strings.TrimSpace(dom.Attr(el, "autocomplete")) == "" {
			c.MissingAutocomplete++
		}
	}
}

func collectViewport(d *dom.Document, c *Checks) {
	vp := d.SelectOne("meta[name=viewport]")
	if vp == nil {
		return
	}
	c.ViewportMeta = true
	content := dom.Attr(vp, "content")
	c.ViewportBlocksZoom = userScalableNoPattern.MatchString(content) ||
		maxScaleOnePattern.MatchString(content)
}

func collectLinks(d *dom.Document, pageURL string, c *Checks) {
	pageHost := urlx.Host(pageURL)
	for _, a := range d.Select("a[href]") {
		c.TotalLinks++
		href := dom.Attr(a, "href")

		label := strings.ToLower(strings.TrimSpace(dom.Text(a)))
		if tables.VaguePhrases[label] {
			c.VagueLinks++
		}

		if strings.HasPrefix(href, "http") {
			host := urlx.Host(href)
			if host != "" && host != pageHost && !hasSafetyRel(a) {
				c.ExternalNoWarn++
			}
		}

		if tables.TelLinkPattern.MatchString(href) {
			c.HasTelLink = true
		}
		if strings.HasPrefix(strings.ToLower(href), "mailto:") {
			c.HasMailto = true
		}
	}
}

func hasSafetyRel(a *html.Node) bool {
	for _, r := range strings.Fields(dom.Attr(a, "rel")) {
		if r == "noopener" || r == "noreferrer" {
			return true
		}
	}
	return false
}
