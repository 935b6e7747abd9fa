package audit

import "github.com/infrajoy/agelens/contrast"

// Result is the outcome of auditing one page. It is created fresh per URL
// and never mutated after Audit returns it.
type Result struct {
	URL             string    `json:"url"`
	Score           int       `json:"score"`
	Breakdown       Breakdown `json:"breakdown"`
	Checks          Checks    `json:"checks"`
	Recommendations []string  `json:"recommendations"`
}

// Breakdown holds the seven category subscores, each in [0,100].
type Breakdown struct {
	StructureNav       float64 `json:"structureNav"`
	TextReadability    float64 `json:"textReadability"`
	VisualAlternatives float64 `json:"visualAlternatives"`
	ControlsForms      float64 `json:"controlsForms"`
	MobileZoom         float64 `json:"mobileZoom"`
	LinkClarity        float64 `json:"linkClarity"`
	Discoverability    float64 `json:"discoverability"`
}

// Checks holds the raw extracted metrics the subscores are computed from.
// Every field degrades to its zero value when the page lacks the construct;
// no extraction rule may fail the audit.
type Checks struct {
	WordCount           int                `json:"wordCount"`
	ReadingEase         float64            `json:"readingEase"`
	HasH1               bool               `json:"hasH1"`
	HeadingJumps        int                `json:"headingJumps"`
	HasSkipLink         bool               `json:"hasSkipLink"`
	LandmarkCount       int                `json:"landmarkCount"`
	ImgAltCoverage      float64            `json:"imgAltCoverage"`
	UnlabeledButtons    int                `json:"unlabeledButtons"`
	UnlabeledInputs     int                `json:"unlabeledInputs"`
	InputTypes          map[string]int     `json:"inputTypes"`
	MissingEmailType    bool               `json:"missingEmailType"`
	MissingTelType      bool               `json:"missingTelType"`
	MissingAutocomplete int                `json:"missingAutocomplete"`
	ViewportMeta        bool               `json:"viewportMeta"`
	ViewportBlocksZoom  bool               `json:"viewportBlocksZoom"`
	TotalLinks          int                `json:"totalLinks"`
	VagueLinks          int                `json:"vagueLinks"`
	ExternalNoWarn      int                `json:"externalNoWarn"`
	HasTelLink          bool               `json:"hasTelLink"`
	HasMailto           bool               `json:"hasMailto"`
	HasContactWord      bool               `json:"hasContactWord"`
	LowContrastCount    int                `json:"lowContrastCount"`
	LowContrastExamples []contrast.Finding `json:"lowContrastExamples"`
}
