package main

import (
	"fmt"
	"strings"

	mealiemcp "github.com/hyperengineering/mealie-mcp/mcp"
	"github.com/spf13/cobra"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the MCP tools this server provides",
	Long:  `Print every tool name and description. No Mealie connection is needed.`,
	RunE:  runTools,
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}

func runTools(cmd *cobra.Command, args []string) error {
	tools := mealiemcp.NewServer(nil).ListTools()

	if outputJSON {
		return outputAsJSON(cmd, tools)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Mealie MCP tools (%d)\n\n", len(tools)))
	for _, t := range tools {
		sb.WriteString(fmt.Sprintf("- `%s` %s\n", t.Name, t.Description))
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderMarkdown(sb.String()))
	return nil
}
