package report

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/originscan/internal/model"
)

func examples(n int) []model.FlaggedExample {
	out := make([]model.FlaggedExample, n)
	for i := range out {
		out[i] = model.FlaggedExample{Sentence: fmt.Sprintf("sentence %d", i), Similarity: 0.9, PotentialSource: "Journal X (2022) by Smith, J."}
	}
	return out
}

func TestBuild_TruncatesAndRounds(t *testing.T) {
	results := []model.SectionResult{
		{Section: model.SectionMethodology, Score: 63.6, FlaggedCount: 5, Examples: examples(5)},
		{Section: model.SectionResults, Score: 100, Examples: nil},
	}
	meta := model.DocumentMetadata{PageCount: 12, CharacterCount: 24031}

	r := Build(results, 78, model.RiskModerate, meta, nil)

	require.Len(t, r.DetailedResults, 2)
	assert.Len(t, r.DetailedResults[0].Examples, 3)
	assert.Equal(t, 5, r.DetailedResults[0].FlaggedCount, "flagged count is not truncated")
	assert.Equal(t, 64.0, r.DetailedResults[0].Score)
	assert.NotNil(t, r.DetailedResults[1].Examples)

	assert.Equal(t, 78, r.Summary.OverallScore)
	assert.Equal(t, model.RiskModerate, r.Summary.PlagiarismRisk)
	assert.Equal(t, []model.SectionName{model.SectionMethodology, model.SectionResults}, r.Summary.AnalyzedSections)
	assert.Equal(t, meta, r.Summary.DocumentMetadata)
	assert.NotNil(t, r.Recommendations)

	assert.Len(t, results[0].Examples, 5, "input is not mutated")
	assert.Equal(t, 63.6, results[0].Score)
}

func TestBuild_JSONShape(t *testing.T) {
	r := Build(
		[]model.SectionResult{{Section: model.SectionMethodology, Score: 64, FlaggedCount: 3, Examples: examples(1)}},
		78, model.RiskModerate,
		model.DocumentMetadata{PageCount: 12, CharacterCount: 24031},
		[]model.Recommendation{{Section: model.SectionMethodology, Advice: "Review 3 potentially unoriginal statements in this section"}},
	)

	raw, err := json.Marshal(r)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	summary := decoded["summary"].(map[string]any)
	assert.Equal(t, 78.0, summary["overallScore"])
	assert.Equal(t, "Moderate", summary["plagiarismRisk"])
	meta := summary["documentMetadata"].(map[string]any)
	assert.Equal(t, 12.0, meta["pages"])
	assert.Equal(t, 24031.0, meta["textLength"])
	assert.Equal(t, false, meta["isScanned"])

	detail := decoded["detailedResults"].([]any)[0].(map[string]any)
	assert.Equal(t, "methodology", detail["section"])
	assert.Equal(t, 3.0, detail["flaggedCount"])
	example := detail["examples"].([]any)[0].(map[string]any)
	assert.Equal(t, "Journal X (2022) by Smith, J.", example["potentialSource"])

	rec := decoded["recommendations"].([]any)[0].(map[string]any)
	assert.Equal(t, "Review 3 potentially unoriginal statements in this section", rec["advice"])
}
