// Package contrast implements WCAG contrast math over inline styles.
//
// Only elements declaring both an inline foreground and background color are
// visible to this analyzer. Stylesheet and computed-style contrast is out of
// scope — a stated limitation, not a silent one.
package contrast

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/infrajoy/agelens/dom"
)

// Color is an RGBA color with channels in [0,1].
type Color struct {
	R, G, B, A float64
}

// Finding reports one element whose text contrast falls below the WCAG
// threshold for its size class.
type Finding struct {
	Tag        string  `json:"tag"`
	Text       string  `json:"text"` // truncated to 120 characters
	Ratio      float64 `json:"ratio"`
	Color      string  `json:"color"`
	Background string  `json:"bg"`
}

// ParseColor parses a CSS color: 3- or 6-digit hex, or rgb()/rgba() with
// comma-separated channels. Channels are clamped to [0,1]; a functional alpha
// above 1 is treated as 0-255 and divided by 255. Returns ok=false on any
// malformed input — no partial results.
func ParseColor(spec string) (Color, bool) {
	s := strings.ToLower(strings.TrimSpace(spec))
	if s == "" {
		return Color{}, false
	}

	if strings.HasPrefix(s, "#") {
		return parseHex(s[1:])
	}

	if strings.HasPrefix(s, "rgb(") || strings.HasPrefix(s, "rgba(") {
		open := strings.IndexByte(s, '(')
		end := strings.IndexByte(s, ')')
		if end < open {
			return Color{}, false
		}
		return parseFunctional(s[open+1 : end])
	}

	return Color{}, false
}

func parseHex(v string) (Color, bool) {
	var r, g, b uint64
	var err error
	switch len(v) {
	case 3:
		r, err = strconv.ParseUint(strings.Repeat(v[0:1], 2), 16, 8)
		if err != nil {
			return Color{}, false
		}
		g, err = strconv.ParseUint(strings.Repeat(v[1:2], 2), 16, 8)
		if err != nil {
			return Color{}, false
		}
		b, err = strconv.ParseUint(strings.Repeat(v[2:3], 2), 16, 8)
		if err != nil {
			return Color{}, false
		}
	case 6:
		r, err = strconv.ParseUint(v[0:2], 16, 8)
		if err != nil {
			return Color{}, false
		}
		g, err = strconv.ParseUint(v[2:4], 16, 8)
		if err != nil {
			return Color{}, false
		}
		b, err = strconv.ParseUint(v[4:6], 16, 8)
		if err != nil {
			return Color{}, false
		}
	default:
		return Color{}, false
	}
	return clampColor(Color{
		R: float64(r) / 255.0,
		G: float64(g) / 255.0,
		B: float64(b) / 255.0,
		A: 1.0,
	}), true
}

func parseFunctional(body string) (Color, bool) {
	parts := strings.Split(body, ",")
	if len(parts) < 3 {
		return Color{}, false
	}
	var ch [3]float64
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil {
			return Color{}, false
		}
		ch[i] = f / 255.0
	}
	a := 1.0
	if len(parts) > 3 {
		f, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil {
			return Color{}, false
		}
		if f > 1 {
			f = f / 255.0
		}
		a = f
	}
	return clampColor(Color{R: ch[0], G: ch[1], B: ch[2], A: a}), true
}

func clampColor(c Color) Color {
	return Color{R: clamp01(c.R), G: clamp01(c.G), B: clamp01(c.B), A: clamp01(c.A)}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// RelativeLuminance returns the WCAG relative luminance of a color:
// per-channel sRGB gamma expansion combined as 0.2126R + 0.7152G + 0.0722B.
func RelativeLuminance(c Color) float64 {
	f := func(ch float64) float64 {
		if ch <= 0.03928 {
			return ch / 12.92
		}
		return math.Pow((ch+0.055)/1.055, 2.4)
	}
	return 0.2126*f(c.R) + 0.7152*f(c.G) + 0.0722*f(c.B)
}

// Ratio returns the contrast ratio between two colors, always >= 1.0.
// Symmetric in its arguments.
func Ratio(fg, bg Color) float64 {
	l1 := RelativeLuminance(fg)
	l2 := RelativeLuminance(bg)
	hi := math.Max(l1, l2)
	lo := math.Min(l1, l2)
	return (hi + 0.05) / (lo + 0.05)
}

var (
	stylePropPattern = map[string]*regexp.Regexp{}
	fontSizePattern  = regexp.MustCompile(`^([\d.]+)\s*px`)
)

func init() {
	for _, name := range []string{"color", "background-color", "font-size"} {
		stylePropPattern[name] = regexp.MustCompile(`(?i)(?:^|;)\s*` + name + `\s*:\s*([^;]+)`)
	}
}

// StyleValue extracts one declaration's value from an inline style attribute.
func StyleValue(n *html.Node, prop string) string {
	pat, ok := stylePropPattern[prop]
	if !ok {
		pat = regexp.MustCompile(`(?i)(?:^|;)\s*` + regexp.QuoteMeta(prop) + `\s*:\s*([^;]+)`)
	}
	m := pat.FindStringSubmatch(dom.Attr(n, "style"))
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// Large-text pixel thresholds: >= 18.66px approximates 14pt bold, >= 24px
// approximates 18pt. font-weight is deliberately not consulted; this is a
// known approximation, not a literal WCAG rule.
const (
	largeTextPxBold = 18.66
	largeTextPx     = 24.0
)

// WCAG AA thresholds.
const (
	ThresholdNormal = 4.5
	ThresholdLarge  = 3.0
)

// FindLowContrast scans every element carrying both inline foreground and
// background colors and non-empty text, and reports those whose contrast
// ratio falls below the threshold for their size class. Unparseable colors
// produce no finding for that element rather than an error.
func FindLowContrast(d *dom.Document) []Finding {
	var findings []Finding
	for _, el := range d.Elements() {
		rawFg := StyleValue(el, "color")
		rawBg := StyleValue(el, "background-color")
		fg, okFg := ParseColor(rawFg)
		bg, okBg := ParseColor(rawBg)
		if !okFg || !okBg {
			continue
		}
		txt := dom.Text(el)
		if txt == "" {
			continue
		}

		ratio := Ratio(fg, bg)
		threshold := ThresholdNormal
		if isLargeText(el) {
			threshold = ThresholdLarge
		}
		if ratio >= threshold {
			continue
		}

		findings = append(findings, Finding{
			Tag:        dom.Tag(el),
			Text:       truncate(txt, 120),
			Ratio:      math.Round(ratio*100) / 100,
			Color:      rawFg,
			Background: rawBg,
		})
	}
	return findings
}

func isLargeText(n *html.Node) bool {
	fs := StyleValue(n, "font-size")
	if fs == "" {
		return false
	}
	m := fontSizePattern.FindStringSubmatch(fs)
	if m == nil {
		return false
	}
	px, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return false
	}
	return px >= largeTextPxBold || px >= largeTextPx
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
