// Package report assembles the final originality report.
package report

import (
	"math"

	"github.com/ppiankov/originscan/internal/model"
)

// Build assembles a report from already computed parts. It does not
// recompute the overall score or the risk level; it only truncates examples
// and rounds the displayed section scores.
func Build(results []model.SectionResult, overall int, risk model.RiskLevel, metadata model.DocumentMetadata, recs []model.Recommendation) *model.Report {
	detailed := make([]model.SectionResult, len(results))
	analyzed := make([]model.SectionName, 0, len(results))

	for i, r := range results {
		examples := r.Examples
		if len(examples) > model.MaxExamplesPerSection {
			examples = examples[:model.MaxExamplesPerSection]
		}
		r.Examples = append([]model.FlaggedExample{}, examples...)
		r.Score = math.Round(r.Score)
		detailed[i] = r
		analyzed = append(analyzed, r.Section)
	}

	if recs == nil {
		recs = []model.Recommendation{}
	}

	return &model.Report{
		Summary: model.Summary{
			OverallScore:     overall,
			PlagiarismRisk:   risk,
			AnalyzedSections: analyzed,
			DocumentMetadata: metadata,
		},
		DetailedResults: detailed,
		Recommendations: recs,
	}
}
