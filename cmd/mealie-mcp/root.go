package main

import (
	"time"

	"github.com/hyperengineering/mealie-mcp"
	"github.com/spf13/cobra"
)

var (
	cfgURL     string
	cfgToken   string
	cfgTimeout time.Duration
	cfgDebug   bool
	outputJSON bool
)

var rootCmd = &cobra.Command{
	Use:   "mealie-mcp",
	Short: "Mealie MCP server",
	Long: `mealie-mcp exposes a Mealie recipe manager to AI assistants over the
Model Context Protocol.

Recipes, meal plans, shopping lists, foods, units and organizers are
available as MCP tools and resources.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgURL, "url", "", "Mealie base URL (env: MEALIE_URL)")
	rootCmd.PersistentFlags().StringVar(&cfgToken, "token", "", "Mealie API token (env: MEALIE_API_TOKEN)")
	rootCmd.PersistentFlags().DurationVar(&cfgTimeout, "timeout", 0, "Upstream request timeout (env: MEALIE_TIMEOUT, default 30s)")
	rootCmd.PersistentFlags().BoolVar(&cfgDebug, "debug", false, "Log every upstream request and response (env: MEALIE_MCP_DEBUG)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output as JSON")
}

// loadConfig reads the environment, then applies flags, which win.
func loadConfig() (mealie.Config, error) {
	cfg, err := mealie.ConfigFromEnv()
	if err != nil {
		return mealie.Config{}, err
	}

	if cfgURL != "" {
		cfg.BaseURL = cfgURL
	}
	if cfgToken != "" {
		cfg.APIToken = cfgToken
	}
	if cfgTimeout != 0 {
		cfg.Timeout = cfgTimeout
	}
	if cfgDebug {
		cfg.Debug = true
	}

	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return mealie.Config{}, err
	}
	return cfg, nil
}
