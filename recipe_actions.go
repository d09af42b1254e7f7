package mealie

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

const recipeActionsPath = "/api/households/recipe-actions"

// RecipeActionTypes are the kinds of recipe action. A link action opens its
// URL with the recipe appended; a post action sends the recipe to its URL.
var RecipeActionTypes = []string{"link", "post"}

// ListRecipeActions returns one page of recipe actions.
func (c *Client) ListRecipeActions(ctx context.Context, q PageQuery) (*Page[Record], error) {
	return getPage[Record](ctx, c, recipeActionsPath, withPageDefaults(q))
}

// GetRecipeAction fetches a recipe action by id.
func (c *Client) GetRecipeAction(ctx context.Context, id string) (Record, error) {
	return c.getByID(ctx, recipeActionsPath, id)
}

// CreateRecipeAction creates a recipe action.
func (c *Client) CreateRecipeAction(ctx context.Context, actionType, title, actionURL string) (Record, error) {
	kind, err := parseActionType(actionType)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(title) == "" {
		return nil, &ValidationError{Field: "title", Message: "required"}
	}
	if strings.TrimSpace(actionURL) == "" {
		return nil, &ValidationError{Field: "url", Message: "required"}
	}
	payload := map[string]any{"actionType": kind, "title": title, "url": actionURL}
	var rec Record
	if err := c.Post(ctx, recipeActionsPath, payload, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// RecipeActionUpdate describes changes to a recipe action. Empty fields keep
// their values.
type RecipeActionUpdate struct {
	ActionType string
	Title      string
	URL        string
}

// UpdateRecipeAction reads the action, applies u and writes it back.
func (c *Client) UpdateRecipeAction(ctx context.Context, id string, u RecipeActionUpdate) (Record, error) {
	if u == (RecipeActionUpdate{}) {
		return nil, &ValidationError{Message: "no fields to update"}
	}
	if u.ActionType != "" {
		kind, err := parseActionType(u.ActionType)
		if err != nil {
			return nil, err
		}
		u.ActionType = kind
	}
	rec, err := c.GetRecipeAction(ctx, id)
	if err != nil {
		return nil, err
	}
	setIfNotEmpty(rec, "actionType", u.ActionType)
	setIfNotEmpty(rec, "title", u.Title)
	setIfNotEmpty(rec, "url", u.URL)

	var out Record
	if err := c.Put(ctx, recipeActionsPath+"/"+escape(firstNonEmpty(rec.ID(), id)), rec, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteRecipeAction deletes a recipe action.
func (c *Client) DeleteRecipeAction(ctx context.Context, id string) error {
	return c.deleteByID(ctx, recipeActionsPath, id)
}

// TriggerResult reports a triggered recipe action. For link actions URL is
// the address to open; post actions run upstream and return nothing.
type TriggerResult struct {
	ActionID   string `json:"action_id"`
	ActionType string `json:"action_type"`
	Recipe     string `json:"recipe"`
	URL        string `json:"url,omitempty"`
}

// TriggerRecipeAction runs an action against a recipe given by slug. Link
// actions are resolved locally since the upstream only executes post
// actions.
func (c *Client) TriggerRecipeAction(ctx context.Context, id, slug string, scale float64) (*TriggerResult, error) {
	if strings.TrimSpace(slug) == "" {
		return nil, &ValidationError{Field: "recipe_slug", Message: "required"}
	}
	action, err := c.GetRecipeAction(ctx, id)
	if err != nil {
		return nil, err
	}
	out := &TriggerResult{ActionID: firstNonEmpty(action.ID(), id), ActionType: action.String("actionType"), Recipe: slug}

	if out.ActionType == "link" {
		out.URL = action.String("url") + slug
		return out, nil
	}
	if scale <= 0 {
		scale = 1
	}
	path := recipeActionsPath + "/" + escape(out.ActionID) + "/trigger/" + escape(slug)
	if err := c.Post(ctx, path, map[string]any{"recipeScale": scale}, nil); err != nil {
		return nil, err
	}
	return out, nil
}

func parseActionType(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if !slices.Contains(RecipeActionTypes, s) {
		return "", &ValidationError{Field: "action_type", Message: fmt.Sprintf("must be one of %s", strings.Join(RecipeActionTypes, ", "))}
	}
	return s, nil
}
