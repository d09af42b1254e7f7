package mealie

import (
	"context"
	"strings"
)

const commentsPath = "/api/comments"

// ListRecipeComments returns the comments on a recipe, oldest first as the
// upstream orders them.
func (c *Client) ListRecipeComments(ctx context.Context, slug string) ([]Record, error) {
	if strings.TrimSpace(slug) == "" {
		return nil, &ValidationError{Field: "slug", Message: "required"}
	}
	return getItems[Record](ctx, c, recipesPath+"/"+escape(slug)+"/comments", nil)
}

// CreateComment comments on a recipe given by slug or id.
func (c *Client) CreateComment(ctx context.Context, recipe, text string) (Record, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &ValidationError{Field: "text", Message: "required"}
	}
	id, err := c.recipeID(ctx, recipe)
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := c.Post(ctx, commentsPath, map[string]any{"recipeId": id, "text": text}, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// GetComment fetches a comment by id.
func (c *Client) GetComment(ctx context.Context, id string) (Record, error) {
	return c.getByID(ctx, commentsPath, id)
}

// UpdateComment reads the comment, replaces its text and writes it back.
func (c *Client) UpdateComment(ctx context.Context, id, text string) (Record, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &ValidationError{Field: "text", Message: "required"}
	}
	rec, err := c.GetComment(ctx, id)
	if err != nil {
		return nil, err
	}
	rec["text"] = text

	var out Record
	if err := c.Put(ctx, commentsPath+"/"+escape(firstNonEmpty(rec.ID(), id)), rec, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteComment deletes a comment.
func (c *Client) DeleteComment(ctx context.Context, id string) error {
	return c.deleteByID(ctx, commentsPath, id)
}
