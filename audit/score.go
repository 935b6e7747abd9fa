package audit

import "math"

// Published category weights. They sum to 1.00; discoverability is advisory
// and must never dominate the score.
const (
	weightStructureNav       = 0.18
	weightTextReadability    = 0.20
	weightVisualAlternatives = 0.15
	weightControlsForms      = 0.20
	weightMobileZoom         = 0.12
	weightLinkClarity        = 0.10
	weightDiscoverability    = 0.05
)

// Weights returns the published category weights keyed by breakdown name.
func Weights() map[string]float64 {
	return map[string]float64{
		"structureNav":       weightStructureNav,
		"textReadability":    weightTextReadability,
		"visualAlternatives": weightVisualAlternatives,
		"controlsForms":      weightControlsForms,
		"mobileZoom":         weightMobileZoom,
		"linkClarity":        weightLinkClarity,
		"discoverability":    weightDiscoverability,
	}
}

func subscores(c Checks) Breakdown {
	headingScore := 0.0
	if c.HasH1 {
		headingScore = 60
	}
	headingScore += math.Max(0, 40-10*math.Min(4, float64(c.HeadingJumps)))

	skip := 0.0
	if c.HasSkipLink {
		skip = 100
	}
	structureNav := 0.4*skip + 0.4*headingScore + 0.2*math.Min(100, 100*float64(c.LandmarkCount)/4)

	controlsForms := math.Max(0, 100-(0.6*math.Min(100, 5*float64(c.UnlabeledButtons))+
		0.4*math.Min(100, 5*float64(c.UnlabeledInputs))))

	viewport := 0.0
	if c.ViewportMeta {
		viewport = 100
	}
	zoom := 100.0
	if c.ViewportBlocksZoom {
		zoom = 0
	}
	mobileZoom := 0.6*viewport + 0.4*zoom

	linkClarity := 100.0
	if c.TotalLinks > 0 {
		linkClarity = math.Max(0, 100-100*float64(c.VagueLinks)/float64(c.TotalLinks))
	}

	disc := 0.0
	if c.HasTelLink {
		disc += 35
	}
	if c.HasMailto {
		disc += 25
	}
	if c.HasContactWord {
		disc += 40
	}

	return Breakdown{
		StructureNav:       clamp100(structureNav),
		TextReadability:    clamp100(c.ReadingEase),
		VisualAlternatives: clamp100(100 * c.ImgAltCoverage),
		ControlsForms:      clamp100(controlsForms),
		MobileZoom:         clamp100(mobileZoom),
		LinkClarity:        clamp100(linkClarity),
		Discoverability:    math.Min(100, disc),
	}
}

// overall folds the breakdown into the weighted 0-100 integer score.
func overall(b Breakdown) int {
	s := weightStructureNav*b.StructureNav +
		weightTextReadability*b.TextReadability +
		weightVisualAlternatives*b.VisualAlternatives +
		weightControlsForms*b.ControlsForms +
		weightMobileZoom*b.MobileZoom +
		weightLinkClarity*b.LinkClarity +
		weightDiscoverability*b.Discoverability
	return int(math.Round(s))
}

func clamp100(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
