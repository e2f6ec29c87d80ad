package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	cfgpkg "github.com/datasage-io/datasage-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the stored configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			return fmt.Errorf("configuration not loaded")
		}
		key := "(not set)"
		if cfg.APIKey != "" {
			key = "(set)"
		}
		fmt.Printf("api_key: %s\n", key)
		fmt.Printf("model: %s\n", cfg.Model)
		fmt.Printf("temperature: %g\n", cfg.Temperature)
		fmt.Printf("max_tokens: %d\n", cfg.MaxTokens)
		fmt.Printf("http_timeout_sec: %d\n", cfg.HTTPTimeoutSec)
		fmt.Printf("retry_max_attempts: %d\n", cfg.RetryMaxAttempts)
		fmt.Printf("retry_base_delay_ms: %d\n", cfg.RetryBaseDelayMs)
		fmt.Printf("retry_max_delay_ms: %d\n", cfg.RetryMaxDelayMs)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Persist one configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			return fmt.Errorf("configuration not loaded")
		}
		key, val := args[0], args[1]
		switch key {
		case "api_key":
			cfg.APIKey = val
		case "model":
			cfg.Model = val
		case "temperature":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return fmt.Errorf("temperature must be a number: %w", err)
			}
			cfg.Temperature = f
		case "max_tokens", "http_timeout_sec", "retry_max_attempts", "retry_base_delay_ms", "retry_max_delay_ms":
			n, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("%s must be an integer: %w", key, err)
			}
			switch key {
			case "max_tokens":
				cfg.MaxTokens = n
			case "http_timeout_sec":
				cfg.HTTPTimeoutSec = n
			case "retry_max_attempts":
				cfg.RetryMaxAttempts = n
			case "retry_base_delay_ms":
				cfg.RetryBaseDelayMs = n
			case "retry_max_delay_ms":
				cfg.RetryMaxDelayMs = n
			}
		default:
			return fmt.Errorf("unknown config key %q (api_key, model, temperature, max_tokens, http_timeout_sec, retry_max_attempts, retry_base_delay_ms, retry_max_delay_ms)", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Println("✓ Configuration updated")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
