package segment

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var sentencePattern = regexp.MustCompile(`[^.!?…]+(?:[.!?…]+|$)`)

// SplitSentences splits text on sentence-terminal punctuation (. ! ? and ellipsis)
func SplitSentences(text string) []string {
	matches := sentencePattern.FindAllString(text, -1)
	sentences := make([]string, 0, len(matches))
	for _, m := range matches {
		if s := strings.TrimSpace(m); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// CandidateSentences keeps sentences longer than minChars, capped at maxSentences
func CandidateSentences(text string, minChars, maxSentences int) []string {
	var candidates []string
	for _, s := range SplitSentences(text) {
		if utf8.RuneCountInString(s) <= minChars {
			continue
		}
		candidates = append(candidates, s)
		if maxSentences > 0 && len(candidates) >= maxSentences {
			break
		}
	}
	return candidates
}
