package literature

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/originscan/internal/cache"
	"github.com/ppiankov/originscan/internal/model"
	"github.com/ppiankov/originscan/internal/worker"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>ArXiv Query</title>
  <entry>
    <id>http://arxiv.org/abs/2101.00001v2</id>
    <published>2021-01-04T18:00:00Z</published>
    <title>Attention Is
      Mostly What You Need</title>
    <summary>  We study   attention
      mechanisms in depth. </summary>
    <author><name>Ada Lovelace</name></author>
    <author><name>Alan Turing</name></author>
    <link href="http://arxiv.org/abs/2101.00001v2" rel="alternate" type="text/html"/>
    <link title="pdf" href="http://arxiv.org/pdf/2101.00001v2" rel="related" type="application/pdf"/>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/1999.12345v1</id>
    <published>1999-12-31T00:00:00Z</published>
    <title>No PDF Here</title>
    <summary>Abstract text.</summary>
  </entry>
</feed>`

func TestParseFeed(t *testing.T) {
	papers, err := ParseFeed(strings.NewReader(sampleFeed))
	require.NoError(t, err)
	require.Len(t, papers, 2)

	first := papers[0]
	assert.Equal(t, "2101.00001v2", first.ID)
	assert.Equal(t, "Attention Is Mostly What You Need", first.Title)
	assert.Equal(t, "We study attention mechanisms in depth.", first.Summary)
	assert.Equal(t, 2021, first.Year)
	assert.Equal(t, "http://arxiv.org/pdf/2101.00001v2", first.URL)
	assert.Equal(t, "Ada Lovelace, Alan Turing", first.AuthorList())

	second := papers[1]
	assert.Equal(t, "https://arxiv.org/abs/1999.12345v1", second.URL)
	assert.Equal(t, "Unknown", second.AuthorList())
}

func TestParseFeed_Invalid(t *testing.T) {
	_, err := ParseFeed(strings.NewReader("<feed><entry>"))
	assert.Error(t, err)
}

func TestClient_QueryURL(t *testing.T) {
	c := NewClient(model.LiteratureConfig{BaseURL: "http://example.test/api/query", MaxResults: 5, QueryChars: 10}, model.HTTPConfig{}, Options{})

	parsed, err := url.Parse(c.QueryURL(`The "quick" brown fox jumps over`))
	require.NoError(t, err)

	q := parsed.Query()
	assert.Equal(t, `all:"The quick"`, q.Get("search_query"))
	assert.Equal(t, "5", q.Get("max_results"))
	assert.Equal(t, "relevance", q.Get("sortBy"))
}

func newArxivServer(t *testing.T, robots string, queries *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/robots.txt":
			_, _ = fmt.Fprint(w, robots)
		case "/api/query":
			queries.Add(1)
			assert.Equal(t, "originscan/test", r.Header.Get("User-Agent"))
			w.Header().Set("Content-Type", "application/atom+xml")
			_, _ = fmt.Fprint(w, sampleFeed)
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestClient_Search(t *testing.T) {
	var queries atomic.Int32
	server := newArxivServer(t, "User-agent: *\nAllow: /\n", &queries)
	defer server.Close()

	c := NewClient(
		model.LiteratureConfig{BaseURL: server.URL + "/api/query", MaxResults: 1, RespectRobots: true},
		model.HTTPConfig{UserAgent: "originscan/test"},
		Options{
			HTTPClient: server.Client(),
			Limiter:    worker.NewLimiter(100, 1),
			Cache:      cache.NewMemoryCache(time.Minute, time.Minute),
		},
	)

	papers, err := c.Search(context.Background(), "attention mechanisms in transformer models")
	require.NoError(t, err)
	require.Len(t, papers, 1, "results are capped at max_results")
	assert.Equal(t, "Attention Is Mostly What You Need", papers[0].Title)

	again, err := c.Search(context.Background(), "attention mechanisms in transformer models")
	require.NoError(t, err)
	assert.Equal(t, papers, again)
	assert.Equal(t, int32(1), queries.Load(), "second search is served from cache")
}

func TestClient_Search_RobotsDisallow(t *testing.T) {
	var queries atomic.Int32
	server := newArxivServer(t, "User-agent: *\nDisallow: /api\n", &queries)
	defer server.Close()

	c := NewClient(
		model.LiteratureConfig{BaseURL: server.URL + "/api/query", RespectRobots: true},
		model.HTTPConfig{UserAgent: "originscan/test"},
		Options{HTTPClient: server.Client()},
	)

	_, err := c.Search(context.Background(), "anything at all")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "robots.txt disallows")
	assert.Equal(t, int32(0), queries.Load())
}

func TestClient_Search_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := NewClient(model.LiteratureConfig{BaseURL: server.URL}, model.HTTPConfig{}, Options{HTTPClient: server.Client()})

	_, err := c.Search(context.Background(), "excerpt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestClient_Search_EmptyExcerpt(t *testing.T) {
	c := NewClient(model.LiteratureConfig{}, model.HTTPConfig{}, Options{})
	papers, err := c.Search(context.Background(), "   ")
	assert.NoError(t, err)
	assert.Empty(t, papers)
}
