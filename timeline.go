package mealie

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"
)

const timelinePath = "/api/recipes/timeline/events"

// TimelineEventTypes are the kinds of timeline event the upstream stores.
var TimelineEventTypes = []string{"info", "comment", "system"}

// TimelineQuery selects a page of timeline events. Recipe, a slug or id,
// limits the page to one recipe's history.
type TimelineQuery struct {
	PageQuery
	QueryFilter string `url:"queryFilter,omitempty"`
	Recipe      string `url:"-"`
}

// ListTimelineEvents returns one page of timeline events, newest first
// unless the query orders them otherwise.
func (c *Client) ListTimelineEvents(ctx context.Context, q TimelineQuery) (*Page[Record], error) {
	q.PageQuery = withPageDefaults(q.PageQuery)
	if q.OrderBy == "" {
		q.OrderBy = "timestamp"
		q.OrderDirection = "desc"
	}
	if strings.TrimSpace(q.Recipe) != "" {
		id, err := c.recipeID(ctx, q.Recipe)
		if err != nil {
			return nil, err
		}
		filter := fmt.Sprintf(`recipe_id="%s"`, id)
		if q.QueryFilter != "" {
			filter = "(" + q.QueryFilter + ") AND " + filter
		}
		q.QueryFilter = filter
	}
	return getPage[Record](ctx, c, timelinePath, q)
}

// GetTimelineEvent fetches one event.
func (c *Client) GetTimelineEvent(ctx context.Context, id string) (Record, error) {
	return c.getByID(ctx, timelinePath, id)
}

// TimelineEventInput describes a new event. A zero Timestamp means now; an
// empty UserID attributes the event to the token's user.
type TimelineEventInput struct {
	Recipe    string
	Subject   string
	EventType string
	Message   string
	UserID    string
	Timestamp time.Time
}

// CreateTimelineEvent adds an event to a recipe's history.
func (c *Client) CreateTimelineEvent(ctx context.Context, in TimelineEventInput) (Record, error) {
	if strings.TrimSpace(in.Subject) == "" {
		return nil, &ValidationError{Field: "subject", Message: "required"}
	}
	eventType, err := parseEventType(in.EventType)
	if err != nil {
		return nil, err
	}
	recipeID, err := c.recipeID(ctx, in.Recipe)
	if err != nil {
		return nil, err
	}
	userID := in.UserID
	if userID == "" {
		if userID, err = c.selfID(ctx); err != nil {
			return nil, err
		}
	}
	ts := in.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	payload := map[string]any{
		"recipeId":  recipeID,
		"userId":    userID,
		"subject":   in.Subject,
		"eventType": eventType,
		"timestamp": ts.UTC().Format(time.RFC3339),
	}
	setIfNotEmpty(payload, "eventMessage", in.Message)

	var rec Record
	if err := c.Post(ctx, timelinePath, payload, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// TimelineEventUpdate describes changes to an event.
type TimelineEventUpdate struct {
	Subject   string
	EventType string
	Message   Update[string]
	Timestamp time.Time
}

// UpdateTimelineEvent reads the event, applies u and writes it back.
func (c *Client) UpdateTimelineEvent(ctx context.Context, id string, u TimelineEventUpdate) (Record, error) {
	if u.Subject == "" && u.EventType == "" && u.Timestamp.IsZero() && u.Message.IsKeep() {
		return nil, &ValidationError{Message: "no fields to update"}
	}
	if u.EventType != "" {
		et, err := parseEventType(u.EventType)
		if err != nil {
			return nil, err
		}
		u.EventType = et
	}
	rec, err := c.GetTimelineEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	setIfNotEmpty(rec, "subject", u.Subject)
	setIfNotEmpty(rec, "eventType", u.EventType)
	if !u.Timestamp.IsZero() {
		rec["timestamp"] = u.Timestamp.UTC().Format(time.RFC3339)
	}
	u.Message.Apply(rec, "eventMessage")

	var out Record
	if err := c.Put(ctx, timelinePath+"/"+escape(firstNonEmpty(rec.ID(), id)), rec, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteTimelineEvent deletes an event.
func (c *Client) DeleteTimelineEvent(ctx context.Context, id string) error {
	return c.deleteByID(ctx, timelinePath, id)
}

// TimelineImageResult reports an image attached to an event.
type TimelineImageResult struct {
	EventID   string `json:"event_id"`
	SourceURL string `json:"source_url"`
	Extension string `json:"extension"`
	Bytes     int    `json:"bytes"`
}

// UploadTimelineImageFromURL downloads imageURL and attaches it to an event.
func (c *Client) UploadTimelineImageFromURL(ctx context.Context, id, imageURL string) (*TimelineImageResult, error) {
	if strings.TrimSpace(id) == "" {
		return nil, &ValidationError{Field: "event_id", Message: "required"}
	}
	img, err := c.fetchImage(ctx, imageURL)
	if err != nil {
		return nil, err
	}
	payload := Multipart{
		Files: map[string]FilePart{
			"image": {
				Filename:    "image." + img.ext,
				ContentType: imageContentType(img.ext),
				Data:        img.data,
			},
		},
		Fields: map[string]string{"extension": img.ext},
	}
	if err := c.Upload(ctx, http.MethodPut, timelinePath+"/"+escape(id)+"/image", payload, nil); err != nil {
		return nil, err
	}
	return &TimelineImageResult{EventID: id, SourceURL: img.source, Extension: img.ext, Bytes: len(img.data)}, nil
}

func parseEventType(s string) (string, error) {
	if s == "" {
		return "info", nil
	}
	s = strings.ToLower(strings.TrimSpace(s))
	if !slices.Contains(TimelineEventTypes, s) {
		return "", &ValidationError{Field: "event_type", Message: fmt.Sprintf("must be one of %s", strings.Join(TimelineEventTypes, ", "))}
	}
	return s, nil
}
