package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/originscan/internal/model"
)

func TestRegistry_Render(t *testing.T) {
	r := NewRegistry()
	r.IncAnalysisStarted()
	r.IncAnalysisStarted()
	r.IncAnalysisFailed()
	r.IncFallback()
	r.ObserveCompleted(model.RiskModerate, 300*time.Millisecond)
	r.ObserveCompleted(model.RiskLow, 50*time.Millisecond)

	out := r.Render()
	for _, line := range []string{
		"analysis_started_total 2",
		"analysis_completed_total 2",
		"analysis_failed_total 1",
		"similarity_fallback_total 1",
		`analysis_risk_total{risk="Low"} 1`,
		`analysis_risk_total{risk="Moderate"} 1`,
		`analysis_duration_ms_bucket{le="100"} 1`,
		`analysis_duration_ms_bucket{le="250"} 1`,
		`analysis_duration_ms_bucket{le="500"} 2`,
		`analysis_duration_ms_bucket{le="+Inf"} 2`,
		"analysis_duration_ms_sum 350",
		"analysis_duration_ms_count 2",
	} {
		assert.Contains(t, out, line+"\n")
	}
	assert.Less(t, strings.Index(out, `risk="Low"`), strings.Index(out, `risk="Moderate"`))
}

func TestRegistry_Handler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRegistry()
	r.IncAnalysisStarted()

	router := gin.New()
	router.GET("/metrics", r.Handler())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, rec.Body.String(), "analysis_started_total 1")
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "100", formatFloat(100))
	assert.Equal(t, "0.5", formatFloat(0.5))
}
