package main

import (
	"fmt"

	"github.com/hyperengineering/mealie-mcp"
	mealiemcp "github.com/hyperengineering/mealie-mcp/mcp"
	"github.com/spf13/cobra"
)

var (
	serveTransport string
	serveAddr      string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start a Model Context Protocol (MCP) server backed by a Mealie instance.

The default transport is stdio, for assistants that launch the server as a
subprocess. Use --transport http to serve the streamable HTTP transport.

Example client configuration:

  {
    "mcpServers": {
      "mealie": {
        "command": "mealie-mcp",
        "args": ["serve"],
        "env": {
          "MEALIE_URL": "https://mealie.example.com",
          "MEALIE_API_TOKEN": "..."
        }
      }
    }
  }

Environment variables:
  MEALIE_URL             Mealie base URL (required)
  MEALIE_API_TOKEN       Mealie API token (required)
  MEALIE_TIMEOUT         Upstream request timeout (default 30s)
  MEALIE_MCP_DEBUG       Log upstream requests and responses
  MEALIE_MCP_LOG_LEVEL   debug, info, warn or error (default info)
  MEALIE_MCP_LOG_FORMAT  console or json (default console)

Logs always go to stderr.`,
	Example: `  mealie-mcp serve
  mealie-mcp serve --transport http --addr :9000`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveTransport, "transport", "stdio", "Transport: stdio or http")
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address for the http transport")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveTransport != "stdio" && serveTransport != "http" {
		return fmt.Errorf("unknown transport %q: use stdio or http", serveTransport)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := mealie.NewLogger(cfg, cmd.ErrOrStderr())
	logger.Info().
		Str("url", cfg.BaseURL).
		Str("token", redact(cfg.APIToken)).
		Dur("timeout", cfg.Timeout).
		Str("transport", serveTransport).
		Str("version", version).
		Msg("starting mealie-mcp")

	client, err := mealie.New(cfg, mealie.WithLogger(logger))
	if err != nil {
		return err
	}

	server := mealiemcp.NewServer(client,
		mealiemcp.WithLogger(logger),
		mealiemcp.WithVersion(version),
	)
	if serveTransport == "http" {
		return server.RunHTTP(serveAddr)
	}
	return server.Run()
}
