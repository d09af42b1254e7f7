package mealie

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-querystring/query"
	"github.com/rs/zerolog"
)

// Version is reported in the User-Agent header. Set by the CLI at startup.
var Version = "dev"

// Client is the single point of contact with the Mealie REST API.
// A Client holds only configuration; it caches nothing and is safe for
// concurrent use.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     zerolog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger used for upstream call tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a Client from cfg. The configuration is validated first.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		baseURL: cfg.BaseURL,
		token:   cfg.APIToken,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the configured upstream root URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Get issues a GET and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, q url.Values, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, q, nil, out)
}

// Post issues a POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, nil, body, out)
}

// Put issues a PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPut, path, nil, body, out)
}

// Patch issues a PATCH with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPatch, path, nil, body, out)
}

// Delete issues a DELETE. out may be nil.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil, out)
}

// GetBytes issues a GET and returns the raw response body.
func (c *Client) GetBytes(ctx context.Context, path string) ([]byte, error) {
	_, body, err := c.do(ctx, http.MethodGet, path, nil, nil, "")
	return body, err
}

// Multipart is a multipart/form-data payload. Files holds binary parts keyed
// by form name; Fields holds plain text parts.
type Multipart struct {
	Files  map[string]FilePart
	Fields map[string]string
}

// FilePart is one binary part of a Multipart payload.
type FilePart struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Upload sends a multipart body with the given method.
func (c *Client) Upload(ctx context.Context, method, path string, payload Multipart, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for name, f := range payload.Files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, name, f.Filename))
		ct := f.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		if err != nil {
			return fmt.Errorf("mealie: build multipart: %w", err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return fmt.Errorf("mealie: build multipart: %w", err)
		}
	}
	for name, value := range payload.Fields {
		if err := w.WriteField(name, value); err != nil {
			return fmt.Errorf("mealie: build multipart: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("mealie: build multipart: %w", err)
	}

	_, body, err := c.do(ctx, method, path, nil, buf.Bytes(), w.FormDataContentType())
	if err != nil {
		return err
	}
	return decodeBody(method, path, body, out)
}

// Ping checks connectivity and returns the upstream application info.
func (c *Client) Ping(ctx context.Context) (*AppInfo, error) {
	var info AppInfo
	if err := c.Get(ctx, "/api/app/about", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, q url.Values, in, out any) error {
	var payload []byte
	contentType := ""
	if in != nil {
		var err error
		payload, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("mealie: encode %s %s body: %w", method, path, err)
		}
		contentType = "application/json"
	}

	_, body, err := c.do(ctx, method, path, q, payload, contentType)
	if err != nil {
		return err
	}
	return decodeBody(method, path, body, out)
}

// do performs one HTTP round trip. Non-2xx statuses become *APIError.
func (c *Client) do(ctx context.Context, method, path string, q url.Values, payload []byte, contentType string) (int, []byte, error) {
	started := time.Now()

	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("mealie: create request: %w", err)
	}
	c.setHeaders(req)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = fmt.Errorf("mealie: %s %s: %w", method, path, err)
		c.logCall(method, path, 0, started, payload, nil, err)
		return 0, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		err = fmt.Errorf("mealie: %s %s: read body: %w", method, path, err)
		c.logCall(method, path, resp.StatusCode, started, payload, nil, err)
		return resp.StatusCode, nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := newAPIError(method, path, resp.StatusCode, body)
		c.logCall(method, path, resp.StatusCode, started, payload, body, apiErr)
		return resp.StatusCode, body, apiErr
	}

	c.logCall(method, path, resp.StatusCode, started, payload, body, nil)
	return resp.StatusCode, body, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "mealie-mcp/"+Version)
}

// decodeBody decodes a 2xx body into out. A nil out discards the body; any
// other out requires a JSON value, so an empty or null body is a FormatError.
func decodeBody(method, path string, body []byte, out any) error {
	if out == nil {
		return nil
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return &FormatError{Method: method, Path: path, Body: string(trimmed), Err: errEmptyBody}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &FormatError{Method: method, Path: path, Body: truncate(string(body), 200), Err: err}
	}
	return nil
}

// UnwrapItems returns the record array carried by raw. Paginated envelopes
// yield their "items" member, which must be present; a null member means
// no records. Bare arrays are returned as is.
func UnwrapItems(raw json.RawMessage) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, errEmptyBody
	}

	switch trimmed[0] {
	case '[':
		return trimmed, nil
	case '{':
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, err
		}
		member, ok := envelope["items"]
		if !ok {
			return nil, errNoItems
		}
		items := bytes.TrimSpace(member)
		if bytes.Equal(items, []byte("null")) {
			return json.RawMessage("[]"), nil
		}
		if items[0] != '[' {
			return nil, fmt.Errorf("items member is not an array")
		}
		return items, nil
	default:
		return nil, fmt.Errorf("expected array or paginated object")
	}
}

// getItems fetches path and decodes the unwrapped item array into []T.
func getItems[T any](ctx context.Context, c *Client, path string, q url.Values) ([]T, error) {
	var raw json.RawMessage
	if err := c.Get(ctx, path, q, &raw); err != nil {
		return nil, err
	}
	items, err := UnwrapItems(raw)
	if err != nil {
		return nil, &FormatError{Method: http.MethodGet, Path: path, Body: truncate(string(raw), 200), Err: err}
	}
	var out []T
	if err := json.Unmarshal(items, &out); err != nil {
		return nil, &FormatError{Method: http.MethodGet, Path: path, Body: truncate(string(items), 200), Err: err}
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// ListAll fetches every record of a paginated collection in one request.
func ListAll[T any](ctx context.Context, c *Client, path string, q url.Values) ([]T, error) {
	values := url.Values{}
	for k, v := range q {
		values[k] = v
	}
	values.Set("page", "1")
	values.Set("perPage", "-1")
	return getItems[T](ctx, c, path, values)
}

// PageQuery selects one page of a paginated collection.
type PageQuery struct {
	Page           int    `url:"page,omitempty"`
	PerPage        int    `url:"perPage,omitempty"`
	OrderBy        string `url:"orderBy,omitempty"`
	OrderDirection string `url:"orderDirection,omitempty"`
}

// getPage fetches a single page, encoding opts with go-querystring.
func getPage[T any](ctx context.Context, c *Client, path string, opts any) (*Page[T], error) {
	q, err := query.Values(opts)
	if err != nil {
		return nil, fmt.Errorf("mealie: encode query: %w", err)
	}
	var page Page[T]
	if err := c.Get(ctx, path, q, &page); err != nil {
		return nil, err
	}
	if page.Items == nil {
		page.Items = []T{}
	}
	return &page, nil
}

// escape path-escapes a caller-supplied identifier.
func escape(s string) string {
	return url.PathEscape(strings.TrimSpace(s))
}
