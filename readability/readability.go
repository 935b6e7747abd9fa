// Package readability scores text with the Flesch Reading Ease formula.
//
// Syllable counting is deliberately coarse: vowel-run counting, not phonetic
// analysis. The output feeds a heuristic audit subscore, not linguistics.
package readability

import (
	"regexp"
	"strings"
)

var (
	nonLetterPattern = regexp.MustCompile(`[^a-z]`)
	vowelRunPattern  = regexp.MustCompile(`[aeiouy]+`)
	sentencePattern  = regexp.MustCompile(`[.!?]+`)
)

// Syllables estimates the syllable count of one word: lowercase, strip
// non-letters, drop a single trailing "e", count maximal vowel runs.
// Any non-empty alphabetic token counts at least 1.
func Syllables(word string) int {
	w := nonLetterPattern.ReplaceAllString(strings.ToLower(word), "")
	if w == "" {
		return 0
	}
	w = strings.TrimSuffix(w, "e")
	n := len(vowelRunPattern.FindAllString(w, -1))
	if n < 1 {
		n = 1
	}
	return n
}

// ReadingEase returns the Flesch Reading Ease of a text, clamped to [0,120].
// Sentence and word counts have a floor of 1, so empty text never divides
// by zero.
func ReadingEase(text string) float64 {
	sentences := len(sentencePattern.FindAllString(text, -1))
	if sentences < 1 {
		sentences = 1
	}
	words := strings.Fields(text)
	wordCount := len(words)
	if wordCount < 1 {
		wordCount = 1
	}

	syllables := 0
	for _, w := range words {
		syllables += Syllables(w)
	}

	wps := float64(wordCount) / float64(sentences)
	spw := float64(syllables) / float64(wordCount)
	score := 206.835 - 1.015*wps - 84.6*spw

	if score < 0 {
		return 0
	}
	if score > 120 {
		return 120
	}
	return score
}
