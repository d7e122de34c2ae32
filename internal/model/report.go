package model

import "time"

// Report is the complete originality analysis of one document.
// Summary, DetailedResults and Recommendations form the contract consumed by
// the UI and by the downstream trust-score combiner.
type Report struct {
	ID         string    `json:"id,omitempty"`
	Filename   string    `json:"filename,omitempty"`
	AnalyzedAt time.Time `json:"analyzedAt,omitempty"`
	Backend    string    `json:"backend,omitempty"` // Configured similarity backend

	Summary         Summary          `json:"summary"`
	DetailedResults []SectionResult  `json:"detailedResults"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Summary holds the headline numbers of a report
type Summary struct {
	OverallScore     int              `json:"overallScore"`
	PlagiarismRisk   RiskLevel        `json:"plagiarismRisk"`
	AnalyzedSections []SectionName    `json:"analyzedSections"`
	DocumentMetadata DocumentMetadata `json:"documentMetadata"`
}

// SectionResult is the originality score of one section
type SectionResult struct {
	Section        SectionName      `json:"section"`
	Score          float64          `json:"score"` // 0-100, higher is more original
	FlaggedCount   int              `json:"flaggedCount"`
	Examples       []FlaggedExample `json:"examples"`
	TotalSentences int              `json:"totalSentences,omitempty"`
	Backend        string           `json:"backend,omitempty"` // Backend that produced the score
}

// FlaggedExample is a sentence judged similar to a reference source
type FlaggedExample struct {
	Sentence        string  `json:"sentence"`
	Similarity      float64 `json:"similarity"` // 0-1
	PotentialSource string  `json:"potentialSource"`
	SourceURL       string  `json:"sourceUrl,omitempty"`
}

// Recommendation is remediation advice for a low-scoring section
type Recommendation struct {
	Section   SectionName `json:"section"`
	Advice    string      `json:"advice"`
	Resources []string    `json:"resources,omitempty"`
}

// RiskLevel classifies the overall score
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskModerate RiskLevel = "Moderate"
	RiskHigh     RiskLevel = "High"
	RiskVeryHigh RiskLevel = "Very High"
)

// Rank orders risk levels from Low (0) to Very High (3); unknown levels rank -1
func (r RiskLevel) Rank() int {
	switch r {
	case RiskLow:
		return 0
	case RiskModerate:
		return 1
	case RiskHigh:
		return 2
	case RiskVeryHigh:
		return 3
	default:
		return -1
	}
}

// MaxExamplesPerSection bounds the flagged examples kept in a report
const MaxExamplesPerSection = 3
