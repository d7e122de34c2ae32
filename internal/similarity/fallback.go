package similarity

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"
)

// attributionKeywords mark reported speech, a weak hint of borrowed text
var attributionKeywords = []string{"according to", "stated that", "mentioned", "noted", "said", "reported"}

// LowConfidenceHeuristic flags sentences by keyword or at random.
// It needs no network and never fails, so it backs every other backend.
// Its output is not a meaningful originality signal.
type LowConfidenceHeuristic struct {
	rate float64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewLowConfidenceHeuristic creates the heuristic; seed 0 seeds from the clock
func NewLowConfidenceHeuristic(rate float64, seed int64) *LowConfidenceHeuristic {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return NewLowConfidenceHeuristicWithRand(rate, rand.New(rand.NewSource(seed)))
}

// NewLowConfidenceHeuristicWithRand creates the heuristic with an explicit random source
func NewLowConfidenceHeuristicWithRand(rate float64, rng *rand.Rand) *LowConfidenceHeuristic {
	return &LowConfidenceHeuristic{rate: rate, rng: rng}
}

// Kind returns KindFallback
func (h *LowConfidenceHeuristic) Kind() Kind {
	return KindFallback
}

// Analyze never returns an error
func (h *LowConfidenceHeuristic) Analyze(ctx context.Context, sentences []string) (*Analysis, error) {
	analysis := &Analysis{TotalSentences: len(sentences)}

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, sentence := range sentences {
		if !containsAttribution(sentence) && h.rng.Float64() >= h.rate {
			continue
		}
		sim := 0.75 + h.rng.Float64()*0.2
		analysis.Flagged = append(analysis.Flagged, flag(sentence, sim, placeholderSource(h.rng)))
	}
	return analysis, nil
}

func containsAttribution(sentence string) bool {
	lower := strings.ToLower(sentence)
	for _, kw := range attributionKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
