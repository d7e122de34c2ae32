package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/ppiankov/originscan/internal/model"
)

// Renderer writes reports as JSON, Markdown or a terminal summary
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer; includeFooter appends the disclaimer to Markdown
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the report as indented JSON to path
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return writeFile(path, append(data, '\n'))
}

// RenderMarkdown writes the Markdown report to path
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	return writeFile(path, []byte(r.Markdown(report)))
}

// Markdown renders the report as a Markdown document
func (r *Renderer) Markdown(report *model.Report) string {
	var b strings.Builder
	s := report.Summary

	title := report.Filename
	if title == "" {
		title = "document"
	}
	fmt.Fprintf(&b, "# Originality Report: %s\n\n", title)

	b.WriteString("| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| Overall score | **%d/100** |\n", s.OverallScore)
	fmt.Fprintf(&b, "| Plagiarism risk | %s |\n", s.PlagiarismRisk)
	fmt.Fprintf(&b, "| Pages | %d |\n", s.DocumentMetadata.PageCount)
	fmt.Fprintf(&b, "| Characters | %s |\n", humanize.Comma(int64(s.DocumentMetadata.CharacterCount)))
	if report.Backend != "" {
		fmt.Fprintf(&b, "| Similarity backend | %s |\n", report.Backend)
	}
	if !report.AnalyzedAt.IsZero() {
		fmt.Fprintf(&b, "| Analyzed at | %s |\n", report.AnalyzedAt.Format("2006-01-02 15:04:05 MST"))
	}
	if report.ID != "" {
		fmt.Fprintf(&b, "| Report ID | `%s` |\n", report.ID)
	}
	b.WriteString("\n")

	b.WriteString("## Sections\n\n")
	b.WriteString("| Section | Score | Flagged | Backend |\n|---|---:|---:|---|\n")
	for _, res := range report.DetailedResults {
		fmt.Fprintf(&b, "| %s | %.0f | %d | %s |\n", res.Section, res.Score, res.FlaggedCount, orDash(res.Backend))
	}
	b.WriteString("\n")

	for _, res := range report.DetailedResults {
		if len(res.Examples) == 0 {
			continue
		}
		fmt.Fprintf(&b, "### %s\n\n", sectionTitle(res.Section))
		for _, ex := range res.Examples {
			fmt.Fprintf(&b, "- > %s\n", ex.Sentence)
			fmt.Fprintf(&b, "  - Similarity: %.0f%%\n", ex.Similarity*100)
			fmt.Fprintf(&b, "  - Potential source: %s\n", ex.PotentialSource)
			if ex.SourceURL != "" {
				fmt.Fprintf(&b, "  - Link: %s\n", ex.SourceURL)
			}
		}
		if extra := res.FlaggedCount - len(res.Examples); extra > 0 {
			fmt.Fprintf(&b, "- ... and %d more\n", extra)
		}
		b.WriteString("\n")
	}

	if len(report.Recommendations) > 0 {
		b.WriteString("## Recommendations\n\n")
		for _, rec := range report.Recommendations {
			fmt.Fprintf(&b, "- **%s**: %s", sectionTitle(rec.Section), rec.Advice)
			if len(rec.Resources) > 0 {
				fmt.Fprintf(&b, " (%s)", strings.Join(rec.Resources, ", "))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if r.includeFooter {
		b.WriteString("---\n\n")
		b.WriteString("_Scores are heuristic indicators of textual similarity, not proof of plagiarism. ")
		b.WriteString("Review flagged sentences manually before drawing conclusions._\n")
	}
	return b.String()
}

// RenderSummary prints a short terminal summary of the report
func (r *Renderer) RenderSummary(w io.Writer, report *model.Report) {
	s := report.Summary
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "  %s\n", orDash(report.Filename))
	fmt.Fprintf(w, "  Overall score:  %d/100 (%s risk)\n", s.OverallScore, s.PlagiarismRisk)
	fmt.Fprintf(w, "  Document:       %d pages, %s characters\n",
		s.DocumentMetadata.PageCount, humanize.Comma(int64(s.DocumentMetadata.CharacterCount)))
	for _, res := range report.DetailedResults {
		fmt.Fprintf(w, "    %-13s %3.0f  (%d flagged)\n", res.Section, res.Score, res.FlaggedCount)
	}
	if n := len(report.Recommendations); n > 0 {
		fmt.Fprintf(w, "  Recommendations: %d\n", n)
	}
	fmt.Fprintf(w, "\n")
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func sectionTitle(s model.SectionName) string {
	name := string(s)
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
