package remedy

// DefaultFontStack is the system font stack used when none is configured.
const DefaultFontStack = "-apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Helvetica, Arial, sans-serif"

const (
	defaultTextScale = 1.25
	minTextScale     = 1.0
	maxTextScale     = 1.6
)

// Config controls the generated age-friendly CSS and which remediation
// toggles apply. Invalid or missing values fall back to defaults rather
// than failing.
type Config struct {
	// TextScale multiplies the root font size. Valid range 1.0-1.6.
	TextScale float64

	UnderlineLinks bool
	MinTargets     bool // minimum 44x44 interactive target sizing
	FocusOutline   bool
	ReducedMotion  bool

	FontStack string
}

// DefaultConfig returns the documented defaults: scale 1.25, every toggle
// on, system font stack.
func DefaultConfig() Config {
	return Config{
		TextScale:      defaultTextScale,
		UnderlineLinks: true,
		MinTargets:     true,
		FocusOutline:   true,
		ReducedMotion:  true,
		FontStack:      DefaultFontStack,
	}
}

// normalized returns a copy with out-of-range values replaced by defaults.
func (c Config) normalized() Config {
	if c.TextScale < minTextScale || c.TextScale > maxTextScale {
		c.TextScale = defaultTextScale
	}
	if c.FontStack == "" {
		c.FontStack = DefaultFontStack
	}
	return c
}
