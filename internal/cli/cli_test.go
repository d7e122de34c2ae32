package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/originscan/internal/model"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"paper", "paper"},
		{"my paper: draft?", "my-paper_-draft_"},
		{"a/b\\c", "a_b_c"},
		{"..hidden", "hidden"},
		{strings.Repeat("x", 150), strings.Repeat("x", 100)},
	}
	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSetDefaultsRegistersNestedKeys(t *testing.T) {
	v := viper.New()
	if err := setDefaults(v, model.DefaultConfig()); err != nil {
		t.Fatalf("setDefaults failed: %v", err)
	}

	if got := v.GetString("similarity.backend"); got != "embedding" {
		t.Errorf("similarity.backend = %q, want embedding", got)
	}
	if got := v.GetFloat64("similarity.threshold"); got != 0.82 {
		t.Errorf("similarity.threshold = %v, want 0.82", got)
	}
	if got := v.GetDuration("analysis.section_timeout"); got != 30*time.Second {
		t.Errorf("analysis.section_timeout = %v, want 30s", got)
	}
	if !v.IsSet("embedding.api_key") {
		t.Error("expected embedding.api_key to be registered")
	}
}

func TestEnvOverridesDefaults(t *testing.T) {
	t.Setenv("ORIGINSCAN_SIMILARITY_BACKEND", "fallback")
	t.Setenv("ORIGINSCAN_FALLBACK_SEED", "9")

	v := viper.New()
	if err := setDefaults(v, model.DefaultConfig()); err != nil {
		t.Fatalf("setDefaults failed: %v", err)
	}
	v.SetEnvPrefix("ORIGINSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := model.DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if cfg.Similarity.Backend != "fallback" {
		t.Errorf("backend = %q, want fallback", cfg.Similarity.Backend)
	}
	if cfg.Fallback.Seed != 9 {
		t.Errorf("seed = %d, want 9", cfg.Fallback.Seed)
	}
	if cfg.Embedding.Timeout != 30*time.Second {
		t.Errorf("embedding timeout = %v, want 30s", cfg.Embedding.Timeout)
	}
}

func TestApplyProviderEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("HF_API_KEY", "hf-test")
	t.Setenv("OLLAMA_BASE_URL", "http://ollama:11434")

	cfg := model.DefaultConfig()
	cfg.Embedding.Provider = "openai"
	applyProviderEnv(cfg)
	if cfg.Embedding.APIKey != "sk-test" {
		t.Errorf("openai key = %q", cfg.Embedding.APIKey)
	}

	cfg = model.DefaultConfig()
	cfg.Embedding.Provider = "huggingface"
	applyProviderEnv(cfg)
	if cfg.Embedding.APIKey != "hf-test" {
		t.Errorf("huggingface key = %q", cfg.Embedding.APIKey)
	}

	cfg = model.DefaultConfig()
	cfg.Embedding.Provider = "ollama"
	applyProviderEnv(cfg)
	if cfg.Embedding.BaseURL != "http://ollama:11434" {
		t.Errorf("ollama base url = %q", cfg.Embedding.BaseURL)
	}
}

func TestInitConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".originscan", "config.yaml")

	if err := initConfigFile(path); err != nil {
		t.Fatalf("initConfigFile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	var cfg model.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("written config is not valid YAML: %v", err)
	}
	if cfg.Similarity.Threshold != 0.82 || cfg.Analysis.MaxSentences != 50 {
		t.Errorf("unexpected config round trip: %+v", cfg.Similarity)
	}
	if strings.Contains(string(data), "api_key") {
		t.Error("api key must not be written to the config file")
	}

	if err := initConfigFile(path); err == nil {
		t.Error("expected error when the file already exists")
	}
}
