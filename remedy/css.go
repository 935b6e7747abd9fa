package remedy

import (
	"fmt"
	"strings"
)

// BuildCSS generates the age-friendly stylesheet for a configuration.
// Pure and deterministic: the same Config always yields the same CSS.
//
// Always included: scaled root font size, readable line height, constrained
// line length, paragraph spacing. Conditional: underlined links, 44x44
// minimum targets, strong focus outline, reduced-motion override.
func BuildCSS(cfg Config) string {
	cfg = cfg.normalized()

	css := []string{
		fmt.Sprintf("html { font-size: calc(16px * %g); }", cfg.TextScale),
		fmt.Sprintf("body { line-height:1.6; font-family:%s; max-width:90ch; margin-inline:auto; padding:1rem; }", cfg.FontStack),
		"p { margin: 0.75em 0; }",
	}
	if cfg.UnderlineLinks {
		css = append(css,
			"a { text-decoration: underline; text-underline-offset: 2px; }",
			"a:visited { opacity: .9; }")
	}
	if cfg.MinTargets {
		css = append(css,
			"button,a,input,select,textarea { min-height:44px; min-width:44px; }",
			"button,input,select,textarea { font-size:1em; }")
	}
	if cfg.FocusOutline {
		css = append(css,
			"*:focus { outline:3px solid #1a73e8 !important; outline-offset:2px; }")
	}
	if cfg.ReducedMotion {
		css = append(css,
			"@media (prefers-reduced-motion: reduce){*{animation:none!important;transition:none!important;scroll-behavior:auto!important;}}")
	}
	return strings.Join(css, "\n")
}
