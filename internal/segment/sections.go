// Package segment splits extracted paper text into canonical sections and sentences.
package segment

import (
	"regexp"
	"strings"

	"github.com/ppiankov/originscan/internal/model"
)

// Rule locates one section: it starts at the first start keyword and runs
// until the earliest later stop keyword, or the end of the text
type Rule struct {
	Section model.SectionName
	Start   *regexp.Regexp
	Stop    *regexp.Regexp
}

func keywordPattern(words ...string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b(` + strings.Join(words, "|") + `)\b`)
}

// Heading lists the keywords that open a section and the ones that close it
// in addition to every other section's opening keywords
type Heading struct {
	Section model.SectionName
	Start   []string
	Stop    []string
}

// trailingHeadings end any section, since the reference list is never prose
var trailingHeadings = []string{"references", "bibliography"}

// DefaultHeadings covers the canonical sections in document order
var DefaultHeadings = []Heading{
	{Section: model.SectionAbstract, Start: []string{"abstract", "summary"}, Stop: []string{"background"}},
	{Section: model.SectionIntroduction, Start: []string{"introduction"}, Stop: []string{"approach"}},
	{Section: model.SectionMethodology, Start: []string{"methodology", "methods"}},
	{Section: model.SectionResults, Start: []string{"results", "findings"}, Stop: []string{"analysis"}},
	{Section: model.SectionDiscussion, Start: []string{"discussion"}},
	{Section: model.SectionConclusion, Start: []string{"conclusion", "summary"}},
}

// DefaultRules are evaluated independently, one per canonical section
var DefaultRules = RulesFor(DefaultHeadings)

// RulesFor compiles headings into rules. A section stops at its own stop
// words, at the opening keyword of any other section or at the reference
// list, whichever comes first. Keywords that also open the section itself
// are never used as stops.
func RulesFor(headings []Heading) []Rule {
	rules := make([]Rule, 0, len(headings))
	for _, h := range headings {
		own := make(map[string]bool, len(h.Start))
		for _, w := range h.Start {
			own[w] = true
		}

		var stops []string
		seen := make(map[string]bool)
		add := func(words []string) {
			for _, w := range words {
				if own[w] || seen[w] {
					continue
				}
				seen[w] = true
				stops = append(stops, w)
			}
		}
		add(h.Stop)
		for _, other := range headings {
			if other.Section != h.Section {
				add(other.Start)
			}
		}
		add(trailingHeadings)

		rules = append(rules, Rule{
			Section: h.Section,
			Start:   keywordPattern(h.Start...),
			Stop:    keywordPattern(stops...),
		})
	}
	return rules
}

var (
	citationPattern   = regexp.MustCompile(`\[[^\]]*\]`)
	figurePattern     = regexp.MustCompile(`\b(Figure|Table)\s+\d+`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Segmenter extracts sections from plain text
type Segmenter struct {
	rules []Rule
}

// NewSegmenter creates a segmenter with the default heading rules
func NewSegmenter() *Segmenter {
	return &Segmenter{rules: DefaultRules}
}

// NewSegmenterWithRules creates a segmenter with custom rules
func NewSegmenterWithRules(rules []Rule) *Segmenter {
	return &Segmenter{rules: rules}
}

// Segment returns a SectionMap holding every canonical section.
// Sections whose heading never occurs are empty.
func (s *Segmenter) Segment(text string) model.SectionMap {
	sections := model.NewSectionMap()
	for _, rule := range s.rules {
		sections[rule.Section] = Clean(extractSpan(text, rule))
	}
	return sections
}

func extractSpan(text string, rule Rule) string {
	loc := rule.Start.FindStringIndex(text)
	if loc == nil {
		return ""
	}

	rest := text[loc[1]:]
	end := len(text)
	if stop := rule.Stop.FindStringIndex(rest); stop != nil {
		end = loc[1] + stop[0]
	}
	return text[loc[0]:end]
}

// Clean strips citation markers and figure/table references, then collapses whitespace
func Clean(text string) string {
	text = citationPattern.ReplaceAllString(text, "")
	text = figurePattern.ReplaceAllString(text, "")
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Validate checks that the segmentation found something worth analyzing.
// The returned error is advisory: callers log it and continue.
func Validate(sections model.SectionMap, characterCount int, minChars int) error {
	if sections.AllEmpty() {
		return &model.InsufficientContentError{Reason: "no recognizable sections", CharacterCount: characterCount}
	}
	if characterCount < minChars {
		return &model.InsufficientContentError{Reason: "document too short for meaningful analysis", CharacterCount: characterCount}
	}
	return nil
}
