package remedy

import (
	"strings"
	"testing"

	"github.com/infrajoy/agelens/dom"
)

func mustParse(t *testing.T, text string) *dom.Document {
	t.Helper()
	d, err := dom.Parse(text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return d
}

func TestEnsureSkipLink_Added(t *testing.T) {
	// WHAT: A page without a skip link gains a visually hidden one targeting
	// a <main> container, inserted first in body.
	d := mustParse(t, `<body><p>content</p></body>`)
	changes := Transform(d, "https://example.com/", "")

	skip := d.SelectOne(`a[href^="#"]`)
	if skip == nil {
		t.Fatal("skip link not inserted")
	}
	if dom.Text(skip) != "Skip to content" {
		t.Errorf("skip text = %q", dom.Text(skip))
	}
	if d.SelectOne("main") == nil {
		t.Error("main container not created")
	}
	if !containsChange(changes, "Added Skip to content and <main>.") {
		t.Errorf("change log missing skip entry: %v", changes)
	}
}

func TestEnsureSkipLink_Idempotent(t *testing.T) {
	// WHAT: Re-running the transform on fixed markup adds nothing.
	// WHY: Each structural rule checks its precondition before mutating.
	d := mustParse(t, `<body><p>content</p></body>`)
	Transform(d, "https://example.com/", "")
	first := d.Render()

	changes := Transform(d, "https://example.com/", "")
	if containsChange(changes, "Added Skip to content and <main>.") {
		t.Errorf("skip link added twice: %v", changes)
	}
	if got := len(d.Select("main")); got != 1 {
		t.Errorf("main count = %d after second run, want 1", got)
	}
	if strings.Count(d.Render(), "Skip to content") != strings.Count(first, "Skip to content") {
		t.Error("second run duplicated skip link")
	}
}

func TestNormalizeViewport_RewritesBlocking(t *testing.T) {
	// WHAT: user-scalable=no becomes yes and an exact maximum-scale=1 cap is
	// raised to 5; a cap of 1.5 is untouched.
	d := mustParse(t, `<head><meta name="viewport" content="width=device-width, user-scalable=no, maximum-scale=1"></head><body></body>`)
	changes := Transform(d, "https://example.com/", "")

	content := dom.Attr(d.SelectOne("meta[name=viewport]"), "content")
	if strings.Contains(content, "user-scalable=no") {
		t.Errorf("user-scalable=no survived: %q", content)
	}
	if !strings.Contains(content, "user-scalable=yes") {
		t.Errorf("user-scalable=yes missing: %q", content)
	}
	if !strings.Contains(content, "maximum-scale=5") {
		t.Errorf("maximum-scale not raised: %q", content)
	}
	if !containsChange(changes, "Enabled pinch-zoom.") {
		t.Errorf("change log missing zoom entry: %v", changes)
	}
}

func TestNormalizeViewport_LeavesLargeCap(t *testing.T) {
	// WHAT: maximum-scale=1.5 is not a zoom block and must not be rewritten
	// or logged.
	d := mustParse(t, `<head><meta name="viewport" content="width=device-width, maximum-scale=1.5"></head><body></body>`)
	changes := Transform(d, "https://example.com/", "")

	content := dom.Attr(d.SelectOne("meta[name=viewport]"), "content")
	if !strings.Contains(content, "maximum-scale=1.5") {
		t.Errorf("cap 1.5 rewritten: %q", content)
	}
	if containsChange(changes, "Enabled pinch-zoom.") {
		t.Errorf("logged a change without changing anything: %v", changes)
	}
}

func TestNormalizeViewport_AddsWhenMissing(t *testing.T) {
	// WHAT: A page with no viewport meta gains a responsive one in head.
	d := mustParse(t, `<body></body>`)
	changes := Transform(d, "https://example.com/", "")

	vp := d.SelectOne("meta[name=viewport]")
	if vp == nil {
		t.Fatal("viewport meta not added")
	}
	if dom.Attr(vp, "content") != "width=device-width, initial-scale=1" {
		t.Errorf("content = %q", dom.Attr(vp, "content"))
	}
	if !containsChange(changes, "Added viewport meta.") {
		t.Errorf("change log missing viewport entry: %v", changes)
	}
}

func TestBackfillLandmarks(t *testing.T) {
	// WHAT: Missing header/nav/footer are appended; a present nav (by tag or
	// role) is not duplicated.
	d := mustParse(t, `<body><div role="navigation">menu</div></body>`)
	changes := Transform(d, "https://example.com/", "")

	if d.SelectOne("header") == nil || d.SelectOne("footer") == nil {
		t.Error("header/footer not backfilled")
	}
	if d.SelectOne("nav") != nil {
		t.Error("nav inserted despite role=navigation present")
	}
	if !containsChange(changes, "Inserted <header> landmark.") || !containsChange(changes, "Inserted <footer> landmark.") {
		t.Errorf("change log missing landmark entries: %v", changes)
	}
}

func TestLabelControls(t *testing.T) {
	// WHAT: A button with no text and no aria-label gets aria-label=Action;
	// labeled buttons are untouched.
	d := mustParse(t, `<body><button></button><button>Save</button></body>`)
	Transform(d, "https://example.com/", "")

	buttons := d.Select("button")
	if dom.Attr(buttons[0], "aria-label") != "Action" {
		t.Errorf("unlabeled button aria-label = %q", dom.Attr(buttons[0], "aria-label"))
	}
	if dom.HasAttr(buttons[1], "aria-label") {
		t.Error("labeled button was modified")
	}
}

func TestFixInputs(t *testing.T) {
	// WHAT: name/id keywords drive type correction and autocomplete hints.
	d := mustParse(t, `<body><form>
		<input name="email" type="text">
		<input name="phone_number" type="text">
		<input name="first_name" type="text">
		<input name="q" type="search" autocomplete="off">
	</form></body>`)
	Transform(d, "https://example.com/", "")

	inputs := d.Select("input")
	if dom.Attr(inputs[0], "type") != "email" || dom.Attr(inputs[0], "autocomplete") != "email" {
		t.Errorf("email input: type=%q autocomplete=%q",
			dom.Attr(inputs[0], "type"), dom.Attr(inputs[0], "autocomplete"))
	}
	if dom.Attr(inputs[1], "type") != "tel" || dom.Attr(inputs[1], "autocomplete") != "tel" {
		t.Errorf("phone input: type=%q autocomplete=%q",
			dom.Attr(inputs[1], "type"), dom.Attr(inputs[1], "autocomplete"))
	}
	if dom.Attr(inputs[2], "autocomplete") != "given-name" {
		t.Errorf("first name autocomplete = %q", dom.Attr(inputs[2], "autocomplete"))
	}
	// Explicit autocomplete, even "off", is respected.
	if dom.Attr(inputs[3], "autocomplete") != "off" {
		t.Errorf("existing autocomplete overwritten: %q", dom.Attr(inputs[3], "autocomplete"))
	}
}

func TestFixLinks(t *testing.T) {
	// WHAT: External links gain rel=noopener; vague text is rewritten from
	// title, then the last path segment, then a generic label.
	d := mustParse(t, `<body>
		<a href="https://other.example.org/pricing/page">click here</a>
		<a href="https://other.example.org/x" title="Partner docs">read more</a>
		<a href="https://other.example.org/" rel="nofollow noopener">more</a>
		<a href="/internal">learn more</a>
	</body>`)
	changes := Transform(d, "https://example.com/", "")

	links := d.Select("a[href^=http]")
	if !strings.Contains(dom.Attr(links[0], "rel"), "noopener") {
		t.Error("external link missing noopener")
	}
	if dom.Text(links[0]) != "page" {
		t.Errorf("vague link text = %q, want last path segment", dom.Text(links[0]))
	}
	if dom.Text(links[1]) != "Partner docs" {
		t.Errorf("title not preferred: %q", dom.Text(links[1]))
	}
	if strings.Count(dom.Attr(links[2], "rel"), "noopener") != 1 {
		t.Errorf("noopener duplicated: %q", dom.Attr(links[2], "rel"))
	}
	if dom.Text(links[2]) != "Learn more" {
		t.Errorf("fallback label = %q", dom.Text(links[2]))
	}
	// Internal links never get noopener.
	internal := d.SelectOne(`a[href="/internal"]`)
	if strings.Contains(dom.Attr(internal, "rel"), "noopener") {
		t.Error("internal link gained noopener")
	}
	if !containsChange(changes, "rel=noopener on external link.") {
		t.Errorf("change log missing noopener entry: %v", changes)
	}
}

func TestInjectCSS(t *testing.T) {
	// WHAT: The generated stylesheet lands as the first child of head; empty
	// CSS injects nothing.
	d := mustParse(t, `<head><title>t</title></head><body></body>`)
	Transform(d, "https://example.com/", "html{}")
	style := d.SelectOne("style#agelens-css")
	if style == nil {
		t.Fatal("style not injected")
	}
	if d.Head().FirstChild != style {
		t.Error("style is not the first head child")
	}

	d2 := mustParse(t, `<body></body>`)
	changes := Transform(d2, "https://example.com/", "")
	if d2.SelectOne("style") != nil || containsChange(changes, "Injected age-friendly CSS.") {
		t.Error("empty CSS still injected")
	}
}

func TestApply_RoundTrip(t *testing.T) {
	// WHAT: Apply parses, transforms, and re-serializes in one call.
	out, changes, err := Apply(`<body><p>hello</p></body>`, "https://example.com/", DefaultConfig())
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !strings.Contains(out, "Skip to content") {
		t.Error("output missing skip link")
	}
	if !strings.Contains(out, "agelens-css") {
		t.Error("output missing injected CSS")
	}
	if len(changes) == 0 {
		t.Error("no changes reported")
	}
}

func TestBuildCSS_Toggles(t *testing.T) {
	// WHAT: Each toggle controls its block; scale appears in the root rule.
	cfg := DefaultConfig()
	css := BuildCSS(cfg)
	for _, want := range []string{
		"calc(16px * 1.25)",
		"text-decoration: underline",
		"min-height:44px",
		"outline:3px solid",
		"prefers-reduced-motion",
	} {
		if !strings.Contains(css, want) {
			t.Errorf("default CSS missing %q", want)
		}
	}

	cfg.UnderlineLinks = false
	cfg.MinTargets = false
	cfg.FocusOutline = false
	cfg.ReducedMotion = false
	css = BuildCSS(cfg)
	for _, absent := range []string{"underline", "44px", "outline:3px", "reduced-motion"} {
		if strings.Contains(css, absent) {
			t.Errorf("disabled toggle still present: %q", absent)
		}
	}
}

func TestBuildCSS_NormalizesScale(t *testing.T) {
	// WHAT: An out-of-range scale falls back to 1.25 instead of failing.
	cfg := DefaultConfig()
	cfg.TextScale = 3.0
	if !strings.Contains(BuildCSS(cfg), "calc(16px * 1.25)") {
		t.Error("out-of-range scale not normalized")
	}
	cfg.TextScale = 1.5
	if !strings.Contains(BuildCSS(cfg), "calc(16px * 1.5)") {
		t.Error("in-range scale not kept")
	}
}

func TestBuildCSS_Deterministic(t *testing.T) {
	// WHAT: The same config always yields identical CSS bytes.
	if BuildCSS(DefaultConfig()) != BuildCSS(DefaultConfig()) {
		t.Error("BuildCSS not deterministic")
	}
}

func containsChange(changes []string, want string) bool {
	for _, c := range changes {
		if c == want {
			return true
		}
	}
	return false
}
