package score

import (
	"fmt"
	"math"

	"github.com/ppiankov/originscan/internal/model"
)

// DefaultRecommendBelow is the section score under which advice is emitted
const DefaultRecommendBelow = 70

// recommendationResources are attached to every recommendation
var recommendationResources = []string{"Citation guidelines", "Paraphrasing tools"}

// GenerateRecommendations emits one recommendation per section scoring below 70
func GenerateRecommendations(results []model.SectionResult) []model.Recommendation {
	return GenerateRecommendationsBelow(results, DefaultRecommendBelow)
}

// GenerateRecommendationsBelow emits one recommendation per section scoring below threshold.
// Scores are compared as they are displayed, rounded to whole points.
func GenerateRecommendationsBelow(results []model.SectionResult, threshold float64) []model.Recommendation {
	recs := []model.Recommendation{}
	for _, r := range results {
		if math.Round(clampScore(r.Score)) >= threshold {
			continue
		}
		recs = append(recs, model.Recommendation{
			Section:   r.Section,
			Advice:    fmt.Sprintf("Review %d potentially unoriginal statements in this section", r.FlaggedCount),
			Resources: append([]string(nil), recommendationResources...),
		})
	}
	return recs
}
