// Package literature searches published work for passages resembling a section.
package literature

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ppiankov/originscan/internal/cache"
	"github.com/ppiankov/originscan/internal/logging"
	"github.com/ppiankov/originscan/internal/model"
	"github.com/ppiankov/originscan/internal/util"
	"github.com/ppiankov/originscan/internal/worker"
)

// Paper is one search hit
type Paper struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Summary string   `json:"summary"`
	Authors []string `json:"authors"`
	Year    int      `json:"year"`
	URL     string   `json:"url"`
}

// AuthorList joins the author names, or returns "Unknown"
func (p Paper) AuthorList() string {
	if len(p.Authors) == 0 {
		return "Unknown"
	}
	return strings.Join(p.Authors, ", ")
}

// Searcher finds candidate papers for a text excerpt
type Searcher interface {
	Search(ctx context.Context, excerpt string) ([]Paper, error)
}

// Client queries the arXiv Atom API
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *worker.Limiter
	robots     *util.RobotsChecker
	cache      cache.Cache
	cacheTTL   time.Duration
	maxResults int
	queryChars int
	userAgent  string
	logger     *slog.Logger
}

// Options wires the optional collaborators of a Client
type Options struct {
	HTTPClient *http.Client
	Limiter    *worker.Limiter
	Cache      cache.Cache
	CacheTTL   time.Duration
	Logger     *slog.Logger
}

// NewClient creates an arXiv client from configuration
func NewClient(cfg model.LiteratureConfig, httpCfg model.HTTPConfig, opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = util.NewHTTPClient(timeout, httpCfg.HTTPProxy, httpCfg.HTTPSProxy, httpCfg.NoProxy)
	}

	c := &Client{
		baseURL:    cfg.BaseURL,
		httpClient: httpClient,
		limiter:    opts.Limiter,
		cache:      opts.Cache,
		cacheTTL:   opts.CacheTTL,
		maxResults: cfg.MaxResults,
		queryChars: cfg.QueryChars,
		userAgent:  httpCfg.UserAgent,
		logger:     logging.OrNop(opts.Logger),
	}
	if c.baseURL == "" {
		c.baseURL = "http://export.arxiv.org/api/query"
	}
	if c.maxResults <= 0 {
		c.maxResults = 5
	}
	if c.queryChars <= 0 {
		c.queryChars = 100
	}
	if c.cache == nil {
		c.cache = cache.Noop{}
	}
	if cfg.RespectRobots {
		c.robots = util.NewRobotsChecker(c.userAgent, httpClient)
	}
	return c
}

// QueryURL builds the search URL for an excerpt
func (c *Client) QueryURL(excerpt string) string {
	params := url.Values{}
	params.Set("search_query", fmt.Sprintf(`all:"%s"`, queryExcerpt(excerpt, c.queryChars)))
	params.Set("max_results", strconv.Itoa(c.maxResults))
	params.Set("sortBy", "relevance")
	return c.baseURL + "?" + params.Encode()
}

// Search returns up to maxResults papers matching the start of excerpt
func (c *Client) Search(ctx context.Context, excerpt string) ([]Paper, error) {
	if strings.TrimSpace(excerpt) == "" {
		return nil, nil
	}

	queryURL := c.QueryURL(excerpt)
	key := cache.Key("arxiv", queryURL)

	var papers []Paper
	if cache.GetJSON(c.cache, key, &papers) {
		c.logger.Debug("literature cache hit", "url", queryURL)
		return papers, nil
	}

	if c.robots != nil {
		allowed, err := c.robots.Allowed(ctx, queryURL)
		if err != nil {
			return nil, fmt.Errorf("robots check: %w", err)
		}
		if !allowed {
			return nil, fmt.Errorf("robots.txt disallows %s", queryURL)
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, queryURL); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, queryURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query arXiv: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("arXiv API error (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	papers, err = ParseFeed(resp.Body)
	if err != nil {
		return nil, err
	}
	if len(papers) > c.maxResults {
		papers = papers[:c.maxResults]
	}

	c.logger.Debug("literature search", "url", queryURL, "results", len(papers))
	_ = cache.SetJSON(c.cache, key, papers, c.cacheTTL)
	return papers, nil
}

type atomFeed struct {
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID        string       `xml:"id"`
	Title     string       `xml:"title"`
	Summary   string       `xml:"summary"`
	Published string       `xml:"published"`
	Authors   []atomAuthor `xml:"author"`
	Links     []atomLink   `xml:"link"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

type atomLink struct {
	Href  string `xml:"href,attr"`
	Title string `xml:"title,attr"`
	Rel   string `xml:"rel,attr"`
	Type  string `xml:"type,attr"`
}

// ParseFeed decodes an arXiv Atom response
func ParseFeed(r io.Reader) ([]Paper, error) {
	var feed atomFeed
	if err := xml.NewDecoder(r).Decode(&feed); err != nil {
		return nil, fmt.Errorf("decode Atom feed: %w", err)
	}

	papers := make([]Paper, 0, len(feed.Entries))
	for _, e := range feed.Entries {
		id := e.ID
		if i := strings.LastIndex(id, "/"); i >= 0 {
			id = id[i+1:]
		}

		p := Paper{
			ID:      id,
			Title:   normalizeSpace(e.Title),
			Summary: normalizeSpace(e.Summary),
			URL:     pdfLink(e.Links),
		}
		if p.URL == "" && id != "" {
			p.URL = "https://arxiv.org/abs/" + id
		}
		if len(e.Published) >= 4 {
			p.Year, _ = strconv.Atoi(e.Published[:4])
		}
		for _, a := range e.Authors {
			if name := normalizeSpace(a.Name); name != "" {
				p.Authors = append(p.Authors, name)
			}
		}
		papers = append(papers, p)
	}
	return papers, nil
}

func pdfLink(links []atomLink) string {
	for _, l := range links {
		if l.Title == "pdf" {
			return l.Href
		}
	}
	return ""
}

var spacePattern = regexp.MustCompile(`\s+`)

func normalizeSpace(s string) string {
	return strings.TrimSpace(spacePattern.ReplaceAllString(s, " "))
}

// queryExcerpt takes the first n runes of text, dropping quotes that would end the phrase query
func queryExcerpt(text string, n int) string {
	text = strings.ReplaceAll(normalizeSpace(text), `"`, "")
	runes := []rune(text)
	if len(runes) > n {
		runes = runes[:n]
	}
	return strings.TrimSpace(string(runes))
}
