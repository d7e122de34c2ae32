package cli

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/originscan/internal/logging"
	"github.com/ppiankov/originscan/internal/model"
)

// version is overridden at build time with -ldflags "-X ...cli.version=..."
var version = "0.1.0"

var (
	cfgFile   string
	verbose   bool
	logLevel  string
	logFormat string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "originscan",
	Short: "originscan - originality scoring for academic papers",
	Long: `originscan extracts the text of a submitted paper, splits it into the
canonical academic sections, compares each section's sentences with
reference material and reports a weighted originality score.

Scores are heuristic indicators of textual similarity, not proof of plagiarism.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "originscan v%s\n", version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.originscan/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (text, json)")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in .env, the config file and ENV variables
func initConfig() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	if err := setDefaults(viper.GetViper(), model.DefaultConfig()); err != nil {
		fmt.Fprintf(os.Stderr, "Error registering defaults: %v\n", err)
	}

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(filepath.Join(home, ".originscan"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match ORIGINSCAN_*
	viper.SetEnvPrefix("ORIGINSCAN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	} else if err != nil && cfgFile != "" {
		fmt.Fprintf(os.Stderr, "Error reading config file %s: %v\n", cfgFile, err)
	}
}

// setDefaults registers every key of cfg so AutomaticEnv can override it
func setDefaults(v *viper.Viper, cfg *model.Config) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	var tree map[string]any
	if err := yaml.NewDecoder(bytes.NewReader(raw)).Decode(&tree); err != nil {
		return err
	}
	flattenDefaults(v, "", tree)

	// keys hidden from YAML output still need env lookup
	v.SetDefault("embedding.api_key", "")
	return nil
}

func flattenDefaults(v *viper.Viper, prefix string, tree map[string]any) {
	for key, value := range tree {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		if sub, ok := value.(map[string]any); ok {
			flattenDefaults(v, full, sub)
			continue
		}
		v.SetDefault(full, value)
	}
}

// loadConfig merges defaults, config file, environment and flags
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}
	applyProviderEnv(cfg)
	return cfg, nil
}

// applyProviderEnv fills provider credentials from their conventional variables
func applyProviderEnv(cfg *model.Config) {
	if cfg.Embedding.APIKey == "" {
		switch strings.ToLower(cfg.Embedding.Provider) {
		case "openai":
			cfg.Embedding.APIKey = os.Getenv("OPENAI_API_KEY")
		case "huggingface", "hf":
			cfg.Embedding.APIKey = firstEnv("HUGGING_FACE_TOKEN", "HF_API_KEY")
		}
	}
	if cfg.Embedding.BaseURL == "" && strings.EqualFold(cfg.Embedding.Provider, "ollama") {
		cfg.Embedding.BaseURL = os.Getenv("OLLAMA_BASE_URL")
	}
	if cfg.HTTP.HTTPProxy == "" {
		cfg.HTTP.HTTPProxy = firstEnv("HTTP_PROXY", "http_proxy")
	}
	if cfg.HTTP.HTTPSProxy == "" {
		cfg.HTTP.HTTPSProxy = firstEnv("HTTPS_PROXY", "https_proxy")
	}
	if cfg.HTTP.NoProxy == "" {
		cfg.HTTP.NoProxy = firstEnv("NO_PROXY", "no_proxy")
	}
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func newLogger(cfg *model.Config) *slog.Logger {
	return logging.New(cfg.Logging)
}
