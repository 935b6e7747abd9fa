package audit

import (
	"fmt"
	"math"
)

// recRule is one predicate-to-message pair. Rules run in fixed order, each
// fires at most once, so recommendation output is deterministic for
// identical input.
type recRule struct {
	when func(Checks, Breakdown) bool
	text func(Checks, Breakdown) string
}

func fixed(msg string) func(Checks, Breakdown) string {
	return func(Checks, Breakdown) string { return msg }
}

var recRules = []recRule{
	{
		when: func(c Checks, _ Breakdown) bool { return !c.HasSkipLink },
		text: fixed("Add a visible 'Skip to content' link (WCAG 2.4.1)."),
	},
	{
		when: func(c Checks, _ Breakdown) bool { return !c.HasH1 },
		text: fixed("Add a single, descriptive H1."),
	},
	{
		when: func(c Checks, _ Breakdown) bool { return c.HeadingJumps > 0 },
		text: fixed("Fix heading hierarchy to avoid level jumps."),
	},
	{
		when: func(c Checks, _ Breakdown) bool { return c.LandmarkCount < 3 },
		text: fixed("Include landmarks: <main>, <nav>, <header>, <footer>."),
	},
	{
		when: func(c Checks, _ Breakdown) bool { return c.ImgAltCoverage < 1 },
		text: func(c Checks, _ Breakdown) string {
			return fmt.Sprintf("Add alt text (~%d%% missing) (WCAG 1.1.1).",
				int(math.Round((1-c.ImgAltCoverage)*100)))
		},
	},
	{
		when: func(c Checks, _ Breakdown) bool { return c.UnlabeledButtons > 0 },
		text: func(c Checks, _ Breakdown) string {
			return fmt.Sprintf("Label buttons/controls (%d unlabeled) (WCAG 4.1.2).", c.UnlabeledButtons)
		},
	},
	{
		when: func(c Checks, _ Breakdown) bool { return c.UnlabeledInputs > 0 },
		text: func(c Checks, _ Breakdown) string {
			return fmt.Sprintf("Associate labels with inputs (%d unlabeled) (WCAG 3.3.2).", c.UnlabeledInputs)
		},
	},
	{
		when: func(c Checks, _ Breakdown) bool { return !c.ViewportMeta },
		text: fixed("Add responsive viewport meta (WCAG 1.4.10)."),
	},
	{
		when: func(c Checks, _ Breakdown) bool { return c.ViewportBlocksZoom },
		text: fixed("Allow pinch-zoom (remove user-scalable=no / max-scale=1) (WCAG 1.4.4)."),
	},
	{
		when: func(_ Checks, b Breakdown) bool { return b.TextReadability < 60 },
		text: func(_ Checks, b Breakdown) string {
			return fmt.Sprintf("Simplify copy; Flesch %d (target 60-70).", int(math.Round(b.TextReadability)))
		},
	},
	{
		when: func(c Checks, _ Breakdown) bool { return c.VagueLinks > 0 },
		text: func(c Checks, _ Breakdown) string {
			return fmt.Sprintf("Replace vague link text (%d) with descriptive labels (WCAG 2.4.4).", c.VagueLinks)
		},
	},
	{
		when: func(c Checks, _ Breakdown) bool { return !c.HasTelLink },
		text: fixed("Expose a tap-to-call link (tel:+...)."),
	},
	{
		when: func(c Checks, _ Breakdown) bool { return !c.HasMailto },
		text: fixed("Expose a mailto support link or contact form."),
	},
	{
		when: func(c Checks, _ Breakdown) bool { return c.MissingEmailType },
		text: fixed("Use <input type='email'> for email fields."),
	},
	{
		when: func(c Checks, _ Breakdown) bool { return c.MissingTelType },
		text: fixed("Use <input type='tel'> for phone fields."),
	},
	{
		when: func(c Checks, _ Breakdown) bool { return c.MissingAutocomplete > 0 },
		text: fixed("Add autocomplete hints (name, email, address...)."),
	},
	{
		when: func(c Checks, _ Breakdown) bool { return c.ExternalNoWarn > 0 },
		text: fixed("Mark external links with rel=noopener / clear labels."),
	},
	{
		when: func(c Checks, _ Breakdown) bool { return c.LowContrastCount > 0 },
		text: func(c Checks, _ Breakdown) string {
			return fmt.Sprintf("Improve low text/background contrast on %d element(s).", c.LowContrastCount)
		},
	},
}

// recommend re-checks each underlying condition directly (not the subscore)
// and appends the rule's message when it holds. Output is plain export-safe
// text with no control characters.
func recommend(c Checks, b Breakdown) []string {
	var out []string
	for _, r := range recRules {
		if r.when(c, b) {
			out = append(out, r.text(c, b))
		}
	}
	return out
}
