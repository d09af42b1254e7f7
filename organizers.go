package mealie

import (
	"context"
	"strings"
)

// IsOrganizer reports whether k is a tag, category or tool.
func (k EntityKind) IsOrganizer() bool {
	return k == KindTag || k == KindCategory || k == KindTool
}

func organizerPath(kind EntityKind, id string) (string, error) {
	if !kind.IsOrganizer() {
		return "", &ValidationError{Field: "kind", Message: "not an organizer: " + string(kind)}
	}
	if id == "" {
		return kind.Path(), nil
	}
	return kind.Path() + "/" + escape(id), nil
}

// ListOrganizers returns every tag, category or tool.
func (c *Client) ListOrganizers(ctx context.Context, kind EntityKind) ([]Record, error) {
	path, err := organizerPath(kind, "")
	if err != nil {
		return nil, err
	}
	return ListAll[Record](ctx, c, path, nil)
}

// GetOrganizer fetches one organizer by id.
func (c *Client) GetOrganizer(ctx context.Context, kind EntityKind, id string) (Record, error) {
	if strings.TrimSpace(id) == "" {
		return nil, &ValidationError{Field: "id", Message: "required"}
	}
	path, err := organizerPath(kind, id)
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := c.Get(ctx, path, nil, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// CreateOrganizer creates an organizer. onHand only applies to tools.
func (c *Client) CreateOrganizer(ctx context.Context, kind EntityKind, name string, onHand bool) (Record, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &ValidationError{Field: "name", Message: "required", Err: ErrEmptyName}
	}
	path, err := organizerPath(kind, "")
	if err != nil {
		return nil, err
	}
	payload := map[string]any{"name": name}
	if kind == KindTool && onHand {
		payload["onHand"] = true
	}
	var rec Record
	if err := c.Post(ctx, path, payload, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// UpdateOrganizer renames an organizer. An empty slug keeps the current one.
func (c *Client) UpdateOrganizer(ctx context.Context, kind EntityKind, id, name, slug string) (Record, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &ValidationError{Field: "name", Message: "required", Err: ErrEmptyName}
	}
	path, err := organizerPath(kind, id)
	if err != nil {
		return nil, err
	}

	current, err := c.GetOrganizer(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	current["name"] = name
	if slug != "" {
		current["slug"] = slug
	}

	var rec Record
	if err := c.Put(ctx, path, current, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// DeleteOrganizer deletes an organizer by id.
func (c *Client) DeleteOrganizer(ctx context.Context, kind EntityKind, id string) error {
	if strings.TrimSpace(id) == "" {
		return &ValidationError{Field: "id", Message: "required"}
	}
	path, err := organizerPath(kind, id)
	if err != nil {
		return err
	}
	return c.Delete(ctx, path, nil)
}
