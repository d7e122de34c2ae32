package pipeline

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ppiankov/originscan/internal/model"
)

func sampleReport() *model.Report {
	return &model.Report{
		ID:       "0e5c4c0a-3d7e-4d7f-9a55-2b8f0c1d2e3f",
		Filename: "paper.pdf",
		Backend:  "embedding",
		Summary: model.Summary{
			OverallScore:     85,
			PlagiarismRisk:   model.RiskModerate,
			AnalyzedSections: model.CanonicalSections,
			DocumentMetadata: model.DocumentMetadata{PageCount: 12, CharacterCount: 48213},
		},
		DetailedResults: []model.SectionResult{
			{Section: model.SectionAbstract, Score: 100, Examples: []model.FlaggedExample{}},
			{
				Section:      model.SectionMethodology,
				Score:        40,
				FlaggedCount: 4,
				Backend:      "embedding",
				Examples: []model.FlaggedExample{
					{Sentence: "Cores were sliced into layers.", Similarity: 0.91, PotentialSource: "Sediment Protocols (2019) by Smith, J.", SourceURL: "https://example.org/p"},
				},
			},
		},
		Recommendations: []model.Recommendation{
			{Section: model.SectionMethodology, Advice: "Review 4 potentially unoriginal statements in this section", Resources: []string{"Citation guidelines", "Paraphrasing tools"}},
		},
	}
}

func TestRenderer_Markdown(t *testing.T) {
	md := NewRenderer(true).Markdown(sampleReport())

	for _, want := range []string{
		"# Originality Report: paper.pdf",
		"| Overall score | **85/100** |",
		"| Plagiarism risk | Moderate |",
		"| Characters | 48,213 |",
		"| methodology | 40 | 4 | embedding |",
		"### Methodology",
		"Similarity: 91%",
		"Potential source: Sediment Protocols (2019) by Smith, J.",
		"- ... and 3 more",
		"## Recommendations",
		"**Methodology**: Review 4 potentially unoriginal statements in this section (Citation guidelines, Paraphrasing tools)",
		"not proof of plagiarism",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q\n%s", want, md)
		}
	}
}

func TestRenderer_MarkdownWithoutFooter(t *testing.T) {
	md := NewRenderer(false).Markdown(sampleReport())
	if strings.Contains(md, "not proof of plagiarism") {
		t.Error("expected footer to be omitted")
	}
}

func TestRenderer_RenderJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.json")
	if err := NewRenderer(true).RenderJSON(sampleReport(), path); err != nil {
		t.Fatalf("RenderJSON failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	summary, ok := decoded["summary"].(map[string]any)
	if !ok {
		t.Fatalf("missing summary object: %s", data)
	}
	if summary["overallScore"] != float64(85) || summary["plagiarismRisk"] != "Moderate" {
		t.Errorf("unexpected summary %v", summary)
	}
	meta := summary["documentMetadata"].(map[string]any)
	if meta["pages"] != float64(12) || meta["textLength"] != float64(48213) || meta["isScanned"] != false {
		t.Errorf("unexpected metadata %v", meta)
	}
}

func TestRenderer_RenderSummary(t *testing.T) {
	var buf bytes.Buffer
	NewRenderer(false).RenderSummary(&buf, sampleReport())

	out := buf.String()
	if !strings.Contains(out, "85/100 (Moderate risk)") {
		t.Errorf("summary missing score line:\n%s", out)
	}
	if !strings.Contains(out, "Recommendations: 1") {
		t.Errorf("summary missing recommendations:\n%s", out)
	}
}
