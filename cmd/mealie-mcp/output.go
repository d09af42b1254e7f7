package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// outputAsJSON writes any value as formatted JSON to the command's stdout.
func outputAsJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError prints an error to w, ensuring the API token is never shown.
func outputError(w io.Writer, err error) {
	msg := scrubSensitiveData(err.Error())
	if isTTY() {
		fmt.Fprintf(w, "%s %s\n", errorStyle.Render("Error:"), msg)
		return
	}
	fmt.Fprintf(w, "Error: %s\n", msg)
}

// scrubSensitiveData replaces any configured token in msg.
func scrubSensitiveData(msg string) string {
	for _, token := range []string{cfgToken, os.Getenv("MEALIE_API_TOKEN")} {
		if token != "" && strings.Contains(msg, token) {
			msg = strings.ReplaceAll(msg, token, "[REDACTED]")
		}
	}
	return msg
}

// redact shows only enough of a token to tell two apart.
func redact(token string) string {
	if len(token) <= 8 {
		return "[REDACTED]"
	}
	return token[:4] + "…[REDACTED]"
}
