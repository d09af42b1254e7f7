package mealie

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"
)

const webhooksPath = "/api/households/webhooks"

// WebhookTypes are the webhook payloads the upstream can send.
var WebhookTypes = []string{"mealplan"}

// WebhookInput describes a scheduled webhook. ScheduledTime is the daily
// time of day, HH:MM or HH:MM:SS.
type WebhookInput struct {
	Name          string
	URL           string
	Type          string
	ScheduledTime string
	Enabled       bool
}

// ListWebhooks returns every webhook of the household.
func (c *Client) ListWebhooks(ctx context.Context) ([]Record, error) {
	return ListAll[Record](ctx, c, webhooksPath, nil)
}

// GetWebhook fetches a webhook by id.
func (c *Client) GetWebhook(ctx context.Context, id string) (Record, error) {
	return c.getByID(ctx, webhooksPath, id)
}

// CreateWebhook creates a webhook.
func (c *Client) CreateWebhook(ctx context.Context, in WebhookInput) (Record, error) {
	if err := validateWebhookURL(in.URL); err != nil {
		return nil, err
	}
	at, err := parseTimeOfDay(in.ScheduledTime)
	if err != nil {
		return nil, err
	}
	kind, err := parseWebhookType(in.Type)
	if err != nil {
		return nil, err
	}
	payload := map[string]any{
		"name":          in.Name,
		"url":           in.URL,
		"webhookType":   kind,
		"scheduledTime": at,
		"enabled":       in.Enabled,
	}
	var rec Record
	if err := c.Post(ctx, webhooksPath, payload, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// WebhookUpdate describes changes to a webhook. Empty strings and a nil
// Enabled keep the current values.
type WebhookUpdate struct {
	Name          string
	URL           string
	Type          string
	ScheduledTime string
	Enabled       *bool
}

// UpdateWebhook reads the webhook, applies u and writes it back.
func (c *Client) UpdateWebhook(ctx context.Context, id string, u WebhookUpdate) (Record, error) {
	if u == (WebhookUpdate{}) {
		return nil, &ValidationError{Message: "no fields to update"}
	}
	if u.URL != "" {
		if err := validateWebhookURL(u.URL); err != nil {
			return nil, err
		}
	}
	if u.ScheduledTime != "" {
		at, err := parseTimeOfDay(u.ScheduledTime)
		if err != nil {
			return nil, err
		}
		u.ScheduledTime = at
	}
	if u.Type != "" {
		kind, err := parseWebhookType(u.Type)
		if err != nil {
			return nil, err
		}
		u.Type = kind
	}

	rec, err := c.GetWebhook(ctx, id)
	if err != nil {
		return nil, err
	}
	setIfNotEmpty(rec, "name", u.Name)
	setIfNotEmpty(rec, "url", u.URL)
	setIfNotEmpty(rec, "webhookType", u.Type)
	setIfNotEmpty(rec, "scheduledTime", u.ScheduledTime)
	if u.Enabled != nil {
		rec["enabled"] = *u.Enabled
	}

	var out Record
	if err := c.Put(ctx, webhooksPath+"/"+escape(firstNonEmpty(rec.ID(), id)), rec, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteWebhook deletes a webhook.
func (c *Client) DeleteWebhook(ctx context.Context, id string) error {
	return c.deleteByID(ctx, webhooksPath, id)
}

// TestWebhook fires a webhook once, now.
func (c *Client) TestWebhook(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return &ValidationError{Field: "webhook_id", Message: "required"}
	}
	return c.Post(ctx, webhooksPath+"/"+escape(id)+"/test", nil, nil)
}

// RerunWebhooks fires every webhook scheduled for today again.
func (c *Client) RerunWebhooks(ctx context.Context) error {
	return c.Post(ctx, webhooksPath+"/rerun", nil, nil)
}

func validateWebhookURL(raw string) error {
	u, err := url.ParseRequestURI(strings.TrimSpace(raw))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &ValidationError{Field: "url", Message: "must be an absolute http or https URL", Err: err}
	}
	return nil
}

// parseTimeOfDay normalizes a time of day to HH:MM.
func parseTimeOfDay(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04"), nil
		}
	}
	return "", &ValidationError{Field: "scheduled_time", Message: fmt.Sprintf("%q is not an HH:MM time", s)}
}

func parseWebhookType(s string) (string, error) {
	if s == "" {
		return WebhookTypes[0], nil
	}
	if !slices.Contains(WebhookTypes, s) {
		return "", &ValidationError{Field: "webhook_type", Message: fmt.Sprintf("must be one of %s", strings.Join(WebhookTypes, ", "))}
	}
	return s, nil
}
