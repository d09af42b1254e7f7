package mealie

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// NewLogger builds the process logger described by cfg.
// Output goes to w, or stderr when w is nil. Stdout is reserved for the
// stdio transport and must never be used.
func NewLogger(cfg Config, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}

	if cfg.LogFormat != "json" {
		cw := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
		if f, ok := w.(*os.File); !ok || !isatty.IsTerminal(f.Fd()) {
			cw.NoColor = true
		}
		w = cw
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	if cfg.Debug {
		level = zerolog.DebugLevel
	}

	return zerolog.New(w).Level(level).With().Timestamp().Str("component", "mealie-mcp").Logger()
}

// logCall records one upstream round trip. Bodies are only rendered when
// debug logging is enabled.
func (c *Client) logCall(method, path string, status int, started time.Time, reqBody, respBody []byte, err error) {
	if err != nil {
		c.logger.Warn().
			Str("method", method).
			Str("path", path).
			Int("status", status).
			Dur("duration", time.Since(started)).
			Err(err).
			Msg("upstream call failed")
		return
	}

	ev := c.logger.Debug()
	if !ev.Enabled() {
		return
	}
	if len(reqBody) > 0 {
		ev = ev.Str("request_body", truncateForLog(string(reqBody), 2000))
	}
	if len(respBody) > 0 {
		ev = ev.Str("response_body", truncateForLog(string(respBody), 4000))
	}
	ev.Str("method", method).
		Str("path", path).
		Int("status", status).
		Dur("duration", time.Since(started)).
		Msg("upstream call")
}

// truncateForLog truncates a string for logging purposes.
func truncateForLog(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:runeBoundary(s, maxLen)] + fmt.Sprintf("... [truncated, %d bytes total]", len(s))
}
