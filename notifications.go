package mealie

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

const notificationsPath = "/api/households/events/notifications"

// NotificationEvents are the event switches of a notifier's options.
var NotificationEvents = []string{
	"testMessage", "webhookTask",
	"recipeCreated", "recipeUpdated", "recipeDeleted",
	"userSignup",
	"dataMigrations", "dataExport", "dataImport",
	"mealplanEntryCreated",
	"shoppingListCreated", "shoppingListUpdated", "shoppingListDeleted",
	"cookbookCreated", "cookbookUpdated", "cookbookDeleted",
	"tagCreated", "tagUpdated", "tagDeleted",
	"categoryCreated", "categoryUpdated", "categoryDeleted",
	"labelCreated", "labelUpdated", "labelDeleted",
}

// ListNotifiers returns every event notifier of the household.
func (c *Client) ListNotifiers(ctx context.Context) ([]Record, error) {
	return ListAll[Record](ctx, c, notificationsPath, nil)
}

// GetNotifier fetches a notifier by id. The upstream never returns the
// Apprise URL.
func (c *Client) GetNotifier(ctx context.Context, id string) (Record, error) {
	return c.getByID(ctx, notificationsPath, id)
}

// NotifierInput describes a new notifier. Options switches events on or
// off by name; see NotificationEvents.
type NotifierInput struct {
	Name       string
	AppriseURL string
	Enabled    bool
	Options    map[string]bool
}

// CreateNotifier creates a notifier. The upstream creation endpoint takes
// only the name and URL, so a disabled notifier or one with options is
// finished with an update.
func (c *Client) CreateNotifier(ctx context.Context, in NotifierInput) (Record, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, &ValidationError{Field: "name", Message: "required", Err: ErrEmptyName}
	}
	if err := validateNotificationOptions(in.Options); err != nil {
		return nil, err
	}
	payload := map[string]any{"name": in.Name}
	setIfNotEmpty(payload, "appriseUrl", in.AppriseURL)

	var rec Record
	if err := c.Post(ctx, notificationsPath, payload, &rec); err != nil {
		return nil, err
	}
	if in.Enabled && len(in.Options) == 0 {
		return rec, nil
	}
	enabled := in.Enabled
	return c.UpdateNotifier(ctx, rec.ID(), NotifierUpdate{Enabled: &enabled, Options: in.Options})
}

// NotifierUpdate describes changes to a notifier. Options are merged into
// the current switches.
type NotifierUpdate struct {
	Name       string
	AppriseURL string
	Enabled    *bool
	Options    map[string]bool
}

// UpdateNotifier reads the notifier, applies u and writes it back.
func (c *Client) UpdateNotifier(ctx context.Context, id string, u NotifierUpdate) (Record, error) {
	if u.Name == "" && u.AppriseURL == "" && u.Enabled == nil && len(u.Options) == 0 {
		return nil, &ValidationError{Message: "no fields to update"}
	}
	if err := validateNotificationOptions(u.Options); err != nil {
		return nil, err
	}
	rec, err := c.GetNotifier(ctx, id)
	if err != nil {
		return nil, err
	}
	setIfNotEmpty(rec, "name", u.Name)
	setIfNotEmpty(rec, "appriseUrl", u.AppriseURL)
	if u.Enabled != nil {
		rec["enabled"] = *u.Enabled
	}
	if len(u.Options) > 0 {
		opts, _ := rec["options"].(map[string]any)
		if opts == nil {
			opts = map[string]any{}
		}
		for k, v := range u.Options {
			opts[k] = v
		}
		rec["options"] = opts
	}

	var out Record
	if err := c.Put(ctx, notificationsPath+"/"+escape(firstNonEmpty(rec.ID(), id)), rec, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteNotifier deletes a notifier.
func (c *Client) DeleteNotifier(ctx context.Context, id string) error {
	return c.deleteByID(ctx, notificationsPath, id)
}

// TestNotifier sends a test message through a notifier.
func (c *Client) TestNotifier(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return &ValidationError{Field: "notification_id", Message: "required"}
	}
	return c.Post(ctx, notificationsPath+"/"+escape(id)+"/test", nil, nil)
}

func validateNotificationOptions(opts map[string]bool) error {
	for k := range opts {
		if !slices.Contains(NotificationEvents, k) {
			return &ValidationError{Field: "options." + k, Message: fmt.Sprintf("unknown event; expected one of %s", strings.Join(NotificationEvents, ", "))}
		}
	}
	return nil
}
