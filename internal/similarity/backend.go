// Package similarity decides which sentences of a section resemble existing work.
package similarity

import (
	"context"
	"fmt"
	"math"

	"github.com/ppiankov/originscan/internal/model"
)

// Kind names a similarity backend
type Kind string

const (
	KindEmbedding  Kind = "embedding"
	KindLiterature Kind = "literature"
	KindFallback   Kind = "fallback"
)

// ParseKind validates a backend name from configuration
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindEmbedding, KindLiterature, KindFallback:
		return k, nil
	case "":
		return KindEmbedding, nil
	default:
		return "", fmt.Errorf("unknown similarity backend: %s (supported: embedding, literature, fallback)", s)
	}
}

// Analysis is the sentence-level outcome for one section
type Analysis struct {
	TotalSentences int
	Flagged        []model.FlaggedExample
}

// Score returns max(0, 100 - flagged*100/total); no sentences scores 100
func (a *Analysis) Score() float64 {
	if a == nil || a.TotalSentences == 0 {
		return 100
	}
	return math.Max(0, 100-float64(len(a.Flagged))*100/float64(a.TotalSentences))
}

// Backend scores candidate sentences against reference material
type Backend interface {
	Kind() Kind
	Analyze(ctx context.Context, sentences []string) (*Analysis, error)
}

// Source is a reference a flagged sentence is attributed to
type Source struct {
	Title   string
	Authors string
	Year    int
	URL     string
}

// Describe renders the source the way reports show it
func (s Source) Describe() string {
	if s.Year > 0 {
		return fmt.Sprintf("%s (%d) by %s", s.Title, s.Year, s.Authors)
	}
	return fmt.Sprintf("%s by %s", s.Title, s.Authors)
}

func flag(sentence string, sim float64, src Source) model.FlaggedExample {
	return model.FlaggedExample{
		Sentence:        sentence,
		Similarity:      clampUnit(sim),
		PotentialSource: src.Describe(),
		SourceURL:       src.URL,
	}
}

// Cosine returns the cosine similarity of a and b, or 0 when undefined
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, magA, magB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		magA += x * x
		magB += y * y
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}

// bestMatch returns the index and similarity of the closest reference vector
func bestMatch(vec []float32, refs [][]float32) (int, float64) {
	best, bestSim := -1, math.Inf(-1)
	for i, ref := range refs {
		if sim := Cosine(vec, ref); sim > bestSim {
			best, bestSim = i, sim
		}
	}
	return best, bestSim
}

func clampUnit(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
