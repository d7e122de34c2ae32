// Package metrics exposes analysis counters in Prometheus text format.
package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ppiankov/originscan/internal/model"
)

// Registry holds the counters of one process
type Registry struct {
	analysisStarted   atomic.Uint64
	analysisCompleted atomic.Uint64
	analysisFailed    atomic.Uint64
	fallbacks         atomic.Uint64

	riskMu sync.Mutex
	risk   map[model.RiskLevel]uint64

	analysisDuration *histogram
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		risk:             make(map[model.RiskLevel]uint64),
		analysisDuration: newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000}),
	}
}

// IncAnalysisStarted increments the started counter
func (r *Registry) IncAnalysisStarted() {
	r.analysisStarted.Add(1)
}

// IncAnalysisFailed increments the failed counter
func (r *Registry) IncAnalysisFailed() {
	r.analysisFailed.Add(1)
}

// IncFallback counts a section re-scored by the fallback heuristic
func (r *Registry) IncFallback() {
	r.fallbacks.Add(1)
}

// ObserveCompleted records a finished analysis with its risk level and duration
func (r *Registry) ObserveCompleted(risk model.RiskLevel, d time.Duration) {
	r.analysisCompleted.Add(1)

	r.riskMu.Lock()
	r.risk[risk]++
	r.riskMu.Unlock()

	ms := float64(d) / float64(time.Millisecond)
	if ms < 0 {
		ms = 0
	}
	r.analysisDuration.Observe(ms)
}

// Handler exposes metrics in Prometheus text format
func (r *Registry) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, r.Render())
	}
}

// Render renders metrics in Prometheus text format
func (r *Registry) Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "analysis_started_total", "Total analyses started", r.analysisStarted.Load())
	writeCounter(&buf, "analysis_completed_total", "Total analyses completed", r.analysisCompleted.Load())
	writeCounter(&buf, "analysis_failed_total", "Total analyses failed", r.analysisFailed.Load())
	writeCounter(&buf, "similarity_fallback_total", "Sections re-scored by the fallback heuristic", r.fallbacks.Load())
	r.writeRisk(&buf)
	writeHistogram(&buf, "analysis_duration_ms", "Analysis duration in milliseconds", r.analysisDuration.Snapshot())
	return buf.String()
}

func (r *Registry) writeRisk(buf *bytes.Buffer) {
	r.riskMu.Lock()
	levels := make([]model.RiskLevel, 0, len(r.risk))
	for level := range r.risk {
		levels = append(levels, level)
	}
	counts := make(map[model.RiskLevel]uint64, len(r.risk))
	for k, v := range r.risk {
		counts[k] = v
	}
	r.riskMu.Unlock()

	sort.Slice(levels, func(i, j int) bool { return levels[i].Rank() < levels[j].Rank() })

	fmt.Fprintf(buf, "# HELP analysis_risk_total Completed analyses by plagiarism risk\n")
	fmt.Fprintf(buf, "# TYPE analysis_risk_total counter\n")
	for _, level := range levels {
		fmt.Fprintf(buf, "analysis_risk_total{risk=%q} %d\n", string(level), counts[level])
	}
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

// Observe counts value in the first bucket that holds it; rendering accumulates
func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			return
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
