package cli

import (
	"github.com/spf13/cobra"

	"github.com/ppiankov/originscan/internal/model"
)

// analysisFlags are shared by analyze, batch and serve
type analysisFlags struct {
	backend    string
	corpus     string
	provider   string
	embedModel string
	threshold  float64
	noCache    bool
	seed       int64
}

func (f *analysisFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.backend, "backend", "", "similarity backend (embedding, literature, fallback)")
	cmd.Flags().StringVar(&f.corpus, "corpus", "", "reference corpus file (YAML or JSON)")
	cmd.Flags().StringVar(&f.provider, "provider", "", "embedding provider (local, openai, ollama, huggingface)")
	cmd.Flags().StringVar(&f.embedModel, "model", "", "embedding model name")
	cmd.Flags().Float64Var(&f.threshold, "threshold", 0, "cosine similarity at which a sentence is flagged")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the embedding and search cache")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "seed for the fallback heuristic (0 = time based)")
}

// apply overrides cfg with the flags the user actually set
func (f *analysisFlags) apply(cmd *cobra.Command, cfg *model.Config) {
	flags := cmd.Flags()
	if flags.Changed("backend") {
		cfg.Similarity.Backend = f.backend
	}
	if flags.Changed("corpus") {
		cfg.Similarity.CorpusPath = f.corpus
	}
	if flags.Changed("provider") {
		cfg.Embedding.Provider = f.provider
	}
	if flags.Changed("model") {
		cfg.Embedding.Model = f.embedModel
	}
	if flags.Changed("threshold") {
		cfg.Similarity.Threshold = f.threshold
	}
	if f.noCache {
		cfg.Cache.Enabled = false
	}
	if flags.Changed("seed") {
		cfg.Fallback.Seed = f.seed
	}
	applyProviderEnv(cfg)
}
