package score

import (
	"math"

	"github.com/ppiankov/originscan/internal/model"
)

// Weights is the fixed contribution of each section to the overall score
var Weights = map[model.SectionName]float64{
	model.SectionAbstract:     0.15,
	model.SectionIntroduction: 0.10,
	model.SectionMethodology:  0.25,
	model.SectionResults:      0.30,
	model.SectionDiscussion:   0.15,
	model.SectionConclusion:   0.05,
}

// Aggregate combines section scores into the overall score and its risk level.
// A missing section counts as 100; malformed scores count as 100 and
// out-of-range scores are clamped, so it never fails.
func Aggregate(results []model.SectionResult) (int, model.RiskLevel) {
	scores := make(map[model.SectionName]float64, len(model.CanonicalSections))
	for _, r := range results {
		if _, seen := scores[r.Section]; seen || !r.Section.Valid() {
			continue
		}
		scores[r.Section] = clampScore(r.Score)
	}

	var total float64
	for _, name := range model.CanonicalSections {
		s, ok := scores[name]
		if !ok {
			s = 100
		}
		total += Weights[name] * s
	}

	overall := int(math.Round(clampScore(total)))
	return overall, ClassifyRisk(overall)
}

// ClassifyRisk maps an overall score to a risk level
func ClassifyRisk(score int) model.RiskLevel {
	switch {
	case score > 85:
		return model.RiskLow
	case score > 70:
		return model.RiskModerate
	case score > 50:
		return model.RiskHigh
	default:
		return model.RiskVeryHigh
	}
}

func clampScore(v float64) float64 {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return 100
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}
