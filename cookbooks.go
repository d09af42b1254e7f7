package mealie

import (
	"context"
	"strings"
)

const cookbooksPath = "/api/households/cookbooks"

// ListCookbooks returns every cookbook.
func (c *Client) ListCookbooks(ctx context.Context) ([]Record, error) {
	return ListAll[Record](ctx, c, cookbooksPath, nil)
}

// GetCookbook fetches a cookbook by id or slug.
func (c *Client) GetCookbook(ctx context.Context, id string) (Record, error) {
	return c.getByID(ctx, cookbooksPath, id)
}

// CookbookInput describes a cookbook.
type CookbookInput struct {
	Name        string
	Description string
	Slug        string
	Public      bool
}

// CreateCookbook creates a cookbook.
func (c *Client) CreateCookbook(ctx context.Context, in CookbookInput) (Record, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, &ValidationError{Field: "name", Message: "required", Err: ErrEmptyName}
	}
	payload := map[string]any{
		"name":        in.Name,
		"description": in.Description,
		"public":      in.Public,
	}
	setIfNotEmpty(payload, "slug", in.Slug)

	var rec Record
	if err := c.Post(ctx, cookbooksPath, payload, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// CookbookUpdate describes changes to a cookbook. A nil Public keeps the
// current visibility.
type CookbookUpdate struct {
	Name        string
	Description Update[string]
	Slug        string
	Public      *bool
}

// UpdateCookbook reads the cookbook, applies u and writes it back.
func (c *Client) UpdateCookbook(ctx context.Context, id string, u CookbookUpdate) (Record, error) {
	if u.Name == "" && u.Slug == "" && u.Public == nil && u.Description.IsKeep() {
		return nil, &ValidationError{Message: "no fields to update"}
	}
	rec, err := c.GetCookbook(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Name != "" {
		rec["name"] = u.Name
	}
	if u.Slug != "" {
		rec["slug"] = u.Slug
	}
	if u.Public != nil {
		rec["public"] = *u.Public
	}
	u.Description.Apply(rec, "description")

	var out Record
	if err := c.Put(ctx, cookbooksPath+"/"+escape(firstNonEmpty(rec.ID(), id)), rec, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteCookbook deletes a cookbook by id.
func (c *Client) DeleteCookbook(ctx context.Context, id string) error {
	return c.deleteByID(ctx, cookbooksPath, id)
}
