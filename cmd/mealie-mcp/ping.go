package main

import (
	"fmt"

	"github.com/hyperengineering/mealie-mcp"
	"github.com/spf13/cobra"
)

type pingResult struct {
	OK      bool   `json:"ok"`
	URL     string `json:"url"`
	Version string `json:"version,omitempty"`
	Error   string `json:"error,omitempty"`
}

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check connectivity to Mealie",
	Long:  `Call the Mealie about endpoint with the configured URL and token and report the server version.`,
	RunE:  runPing,
}

func init() {
	rootCmd.AddCommand(pingCmd)
}

func runPing(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := mealie.New(cfg)
	if err != nil {
		return err
	}

	var info *mealie.AppInfo
	err = runWithSpinner(cmd.ErrOrStderr(), "Contacting "+cfg.BaseURL, func() error {
		var pingErr error
		info, pingErr = client.Ping(cmd.Context())
		return pingErr
	})

	if outputJSON {
		result := pingResult{OK: err == nil, URL: cfg.BaseURL}
		if err != nil {
			result.Error = scrubSensitiveData(mealie.Message(err))
		} else {
			result.Version = info.Version
		}
		if encErr := outputAsJSON(cmd, result); encErr != nil {
			return encErr
		}
		return err
	}

	if err != nil {
		printError(cmd.ErrOrStderr(), "Cannot reach %s", cfg.BaseURL)
		return err
	}

	out := cmd.OutOrStdout()
	printSuccess(out, "Connected to %s", cfg.BaseURL)
	printLabel(out, "  Mealie version: ")
	fmt.Fprintln(out, info.Version)
	return nil
}
