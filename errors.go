package mealie

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"
)

// Common errors returned by the Mealie client.
var (
	// ErrNotFound matches any *APIError with status 404 via errors.Is.
	ErrNotFound = errors.New("not found")

	// ErrEmptyName is returned when an entity name is blank.
	ErrEmptyName = errors.New("name cannot be empty")

	// ErrInvalidEntryType is returned for a meal plan entry type outside EntryTypes.
	ErrInvalidEntryType = errors.New("invalid meal plan entry type")

	// ErrInvalidDate is returned when a date is not formatted as YYYY-MM-DD.
	ErrInvalidDate = errors.New("date must be formatted as YYYY-MM-DD")

	errEmptyBody = errors.New("expected a JSON body, got none")
	errNoItems   = errors.New(`paginated response has no "items" member`)
)

// ConfigurationError is returned when connection configuration is missing
// or malformed. It is fatal at startup.
// Extractable via errors.As().
type ConfigurationError struct {
	Field   string
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// ValidationError is returned when tool input is rejected before any
// upstream call is made.
// Extractable via errors.As(). Supports Unwrap() when Err is set.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// APIError is returned for any non-2xx upstream response.
// Message holds the human-readable text extracted from the response body,
// whichever shape the upstream used.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mealie: %s %s failed (status %d): %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// Is reports whether target is ErrNotFound and this is a 404.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// FormatError is returned when a 2xx response body cannot be decoded as the
// expected JSON.
type FormatError struct {
	Method string
	Path   string
	Body   string
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("mealie: %s %s returned malformed JSON: %v", e.Method, e.Path, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// Message returns the text a tool caller should see for err.
// Upstream errors contribute only their extracted message.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

func newAPIError(method, path string, statusCode int, body []byte) *APIError {
	return &APIError{
		Method:     method,
		Path:       path,
		StatusCode: statusCode,
		Message:    extractErrorMessage(statusCode, body),
		Body:       truncate(string(body), 2000),
	}
}

// validationIssue is one entry of a 422 detail list.
type validationIssue struct {
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
	Type string `json:"type"`
}

// errorDetail decodes the "detail" member, which may be a string, a list of
// validation issues, or an object carrying a message.
type errorDetail struct {
	text   string
	issues []validationIssue
}

func (d *errorDetail) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		d.text = s
		return nil
	}

	var issues []validationIssue
	if err := json.Unmarshal(data, &issues); err == nil {
		d.issues = issues
		return nil
	}

	var obj struct {
		Message string `json:"message"`
		Error   any    `json:"error"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		d.text = obj.Message
		return nil
	}

	d.text = strings.TrimSpace(string(data))
	return nil
}

func (d errorDetail) String() string {
	if d.text != "" {
		return d.text
	}
	parts := make([]string, 0, len(d.issues))
	for _, issue := range d.issues {
		loc := make([]string, 0, len(issue.Loc))
		for _, l := range issue.Loc {
			loc = append(loc, fmt.Sprint(l))
		}
		if len(loc) > 0 {
			parts = append(parts, fmt.Sprintf("%s: %s", strings.Join(loc, "."), issue.Msg))
		} else {
			parts = append(parts, issue.Msg)
		}
	}
	return strings.Join(parts, "; ")
}

// errorBody covers the object-shaped error bodies the upstream produces.
type errorBody struct {
	Detail  *errorDetail `json:"detail"`
	Message string       `json:"message"`
	Error   any          `json:"error"`
}

func extractErrorMessage(statusCode int, body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return http.StatusText(statusCode)
	}

	var s string
	if err := json.Unmarshal(body, &s); err == nil && s != "" {
		return s
	}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		if eb.Detail != nil {
			if msg := eb.Detail.String(); msg != "" {
				return msg
			}
		}
		if eb.Message != "" {
			return eb.Message
		}
		if msg, ok := eb.Error.(string); ok && msg != "" {
			return msg
		}
	}

	return truncate(trimmed, 200)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:runeBoundary(s, maxLen)] + "..."
}

// runeBoundary returns the largest index <= n that does not split a rune.
func runeBoundary(s string, n int) int {
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return n
}
