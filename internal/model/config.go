package model

import "time"

// Config holds the complete originscan configuration
type Config struct {
	Analysis     AnalysisConfig     `yaml:"analysis" mapstructure:"analysis"`
	Extract      ExtractConfig      `yaml:"extract" mapstructure:"extract"`
	Similarity   SimilarityConfig   `yaml:"similarity" mapstructure:"similarity"`
	Embedding    EmbeddingConfig    `yaml:"embedding" mapstructure:"embedding"`
	Literature   LiteratureConfig   `yaml:"literature" mapstructure:"literature"`
	Fallback     FallbackConfig     `yaml:"fallback" mapstructure:"fallback"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	HTTP         HTTPConfig         `yaml:"http" mapstructure:"http"`
	Server       ServerConfig       `yaml:"server" mapstructure:"server"`
	Archive      ArchiveConfig      `yaml:"archive" mapstructure:"archive"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Logging      LoggingConfig      `yaml:"logging" mapstructure:"logging"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
}

// AnalysisConfig tunes sentence selection and thresholds
type AnalysisConfig struct {
	MinSectionChars  int           `yaml:"min_section_chars" mapstructure:"min_section_chars"`   // Shorter sections score 100
	MinSentenceChars int           `yaml:"min_sentence_chars" mapstructure:"min_sentence_chars"` // Sentences at or below are dropped
	MaxSentences     int           `yaml:"max_sentences" mapstructure:"max_sentences"`           // Per section
	MinDocumentChars int           `yaml:"min_document_chars" mapstructure:"min_document_chars"` // Soft validation threshold
	RecommendBelow   float64       `yaml:"recommend_below" mapstructure:"recommend_below"`       // Section score threshold
	SectionTimeout   time.Duration `yaml:"section_timeout" mapstructure:"section_timeout"`       // Per section backend call
}

// ExtractConfig bounds document extraction
type ExtractConfig struct {
	MaxFileBytes   int64 `yaml:"max_file_bytes" mapstructure:"max_file_bytes"`
	MinTextPerPage int   `yaml:"min_text_per_page" mapstructure:"min_text_per_page"` // Below this a PDF counts as scanned
}

// SimilarityConfig selects the similarity backend
type SimilarityConfig struct {
	Backend    string  `yaml:"backend" mapstructure:"backend"` // embedding, literature, fallback
	Threshold  float64 `yaml:"threshold" mapstructure:"threshold"`
	CorpusPath string  `yaml:"corpus_path" mapstructure:"corpus_path"`
}

// EmbeddingConfig configures the sentence-embedding provider
type EmbeddingConfig struct {
	Provider          string        `yaml:"provider" mapstructure:"provider"` // local, openai, ollama, huggingface
	Model             string        `yaml:"model" mapstructure:"model"`
	APIKey            string        `yaml:"-" mapstructure:"api_key"`
	BaseURL           string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"`
	BatchSize         int           `yaml:"batch_size" mapstructure:"batch_size"`
	Dimension         int           `yaml:"dimension" mapstructure:"dimension"` // Local provider only
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// LiteratureConfig configures the external literature search
type LiteratureConfig struct {
	BaseURL       string        `yaml:"base_url" mapstructure:"base_url"`
	MaxResults    int           `yaml:"max_results" mapstructure:"max_results"`
	QueryChars    int           `yaml:"query_chars" mapstructure:"query_chars"`
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
}

// FallbackConfig tunes the low-confidence heuristic
type FallbackConfig struct {
	RandomFlagRate float64 `yaml:"random_flag_rate" mapstructure:"random_flag_rate"`
	Seed           int64   `yaml:"seed" mapstructure:"seed"` // 0 means time-seeded
}

// CacheConfig controls the embedding and search cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// HTTPConfig is shared by the outbound HTTP clients
type HTTPConfig struct {
	UserAgent  string `yaml:"user_agent" mapstructure:"user_agent"`
	HTTPProxy  string `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy    string `yaml:"no_proxy" mapstructure:"no_proxy"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr           string        `yaml:"addr" mapstructure:"addr"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes" mapstructure:"max_upload_bytes"`
	RequestTimeout time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"`
}

// ArchiveConfig selects where reports are persisted
type ArchiveConfig struct {
	Driver string `yaml:"driver" mapstructure:"driver"` // memory, sqlite
	Path   string `yaml:"path" mapstructure:"path"`
}

// ConcurrencyConfig sizes the batch worker pool
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitingConfig limits outbound requests per host
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// LoggingConfig configures the structured logger
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // text, json
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			MinSectionChars:  100,
			MinSentenceChars: 25,
			MaxSentences:     50,
			MinDocumentChars: 500,
			RecommendBelow:   70,
			SectionTimeout:   30 * time.Second,
		},
		Extract: ExtractConfig{
			MaxFileBytes:   5 * 1024 * 1024,
			MinTextPerPage: 100,
		},
		Similarity: SimilarityConfig{
			Backend:   "embedding",
			Threshold: 0.82,
		},
		Embedding: EmbeddingConfig{
			Provider:          "local",
			Timeout:           30 * time.Second,
			BatchSize:         16,
			Dimension:         256,
			RequestsPerSecond: 10,
		},
		Literature: LiteratureConfig{
			BaseURL:       "http://export.arxiv.org/api/query",
			MaxResults:    5,
			QueryChars:    100,
			Timeout:       15 * time.Second,
			RespectRobots: true,
		},
		Fallback: FallbackConfig{
			RandomFlagRate: 0.10,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".originscan-cache",
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   7 * 24 * time.Hour,
		},
		HTTP: HTTPConfig{
			UserAgent: "originscan/0.1 (+https://github.com/ppiankov/originscan)",
		},
		Server: ServerConfig{
			Addr:           ":8080",
			MaxUploadBytes: 5 * 1024 * 1024,
			RequestTimeout: 2 * time.Minute,
		},
		Archive: ArchiveConfig{
			Driver: "memory",
			Path:   "originscan.db",
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 0.33, // arXiv asks for one request every three seconds
			BurstSize:         1,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
	}
}
