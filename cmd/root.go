package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/datasage-io/datasage-cli/internal/ai"
	cfgpkg "github.com/datasage-io/datasage-cli/internal/config"
	"github.com/datasage-io/datasage-cli/internal/dataset"
	"github.com/datasage-io/datasage-cli/internal/session"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	// Retry/HTTP flags (override config if set)
	flagHTTPTimeoutSec   int
	flagRetryMaxAttempts int
	flagRetryBaseDelayMs int
	flagRetryMaxDelayMs  int
	// Model flags (override config if set)
	flagModel       string
	flagTemperature float64
	flagMaxTokens   int

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "datasage",
	Short: "DataSage: AI-assisted analysis of CSV datasets",
	Long: `DataSage loads a CSV dataset and answers questions about it: narrative
overviews, statistical summaries, insight reports, generated charts, and a
correlation-aware analysis REPL, all backed by a hosted language model.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.datasage/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().IntVar(&flagHTTPTimeoutSec, "http-timeout", 0, "HTTP client timeout in seconds (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagRetryMaxAttempts, "retry-max", 0, "max retry attempts on 429/5xx (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagRetryBaseDelayMs, "retry-base-ms", 0, "base retry backoff in ms (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagRetryMaxDelayMs, "retry-max-ms", 0, "max retry backoff cap in ms (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagModel, "model", "", "model identifier (overrides config)")
	rootCmd.PersistentFlags().Float64Var(&flagTemperature, "temperature", 0, "sampling temperature (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagMaxTokens, "max-tokens", 0, "completion token cap (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: allow running commands that don't need config
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c

	f := rootCmd.PersistentFlags()
	if f.Changed("http-timeout") && flagHTTPTimeoutSec > 0 {
		cfg.HTTPTimeoutSec = flagHTTPTimeoutSec
	}
	if f.Changed("retry-max") && flagRetryMaxAttempts > 0 {
		cfg.RetryMaxAttempts = flagRetryMaxAttempts
	}
	if f.Changed("retry-base-ms") && flagRetryBaseDelayMs > 0 {
		cfg.RetryBaseDelayMs = flagRetryBaseDelayMs
	}
	if f.Changed("retry-max-ms") && flagRetryMaxDelayMs > 0 {
		cfg.RetryMaxDelayMs = flagRetryMaxDelayMs
	}
	if f.Changed("model") && flagModel != "" {
		cfg.Model = flagModel
	}
	if f.Changed("temperature") {
		cfg.Temperature = flagTemperature
	}
	if f.Changed("max-tokens") && flagMaxTokens > 0 {
		cfg.MaxTokens = flagMaxTokens
	}
}

// newClient builds the completion client from the loaded configuration.
// A missing credential is fatal for every model-backed command.
func newClient() (*ai.Client, error) {
	if cfg == nil {
		return nil, errors.New("configuration not loaded")
	}
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, err
	}
	return ai.New(cfg.APIKey, cfg.Model,
		ai.WithTemperature(cfg.Temperature),
		ai.WithMaxTokens(cfg.MaxTokens),
		ai.WithHTTPTimeout(time.Duration(cfg.HTTPTimeoutSec)*time.Second),
		ai.WithRetry(cfg.RetryMaxAttempts,
			time.Duration(cfg.RetryBaseDelayMs)*time.Millisecond,
			time.Duration(cfg.RetryMaxDelayMs)*time.Millisecond),
	), nil
}

// newSession loads the dataset and builds the per-invocation session.
// The credential check happens here: every dataset command is one action
// away from a model call, and a missing key halts before any work is done.
func newSession(csvPath string) (*session.Session, error) {
	client, err := newClient()
	if err != nil {
		return nil, err
	}
	ds, err := loadDataset(csvPath)
	if err != nil {
		return nil, err
	}
	s, err := session.New(ds, client)
	if err != nil {
		return nil, err
	}
	if debug {
		rows, cols := ds.Shape()
		fmt.Fprintf(os.Stderr, "session %s: %s loaded (%d rows, %d cols), model %s\n",
			s.ID, ds.Name, rows, cols, client.Model())
	}
	return s, nil
}

func loadDataset(path string) (*dataset.Dataset, error) {
	opt := dataset.DefaultOptions()
	if flagMaxRows > 0 {
		opt.MaxRows = flagMaxRows
	}
	switch flagDelimiter {
	case "":
	case ",":
		opt.Delimiter = ','
	case ";":
		opt.Delimiter = ';'
	case "\t", "tab":
		opt.Delimiter = '\t'
	default:
		return nil, fmt.Errorf("unsupported --delimiter: %s", flagDelimiter)
	}
	return dataset.Load(path, opt)
}
