package mealie

import (
	"context"
	"strings"
)

const (
	foodsPath = "/api/foods"
	unitsPath = "/api/units"
)

// ListFoods returns one page of foods.
func (c *Client) ListFoods(ctx context.Context, q PageQuery) (*Page[Food], error) {
	return getPage[Food](ctx, c, foodsPath, withPageDefaults(q))
}

// GetFood fetches a food by id.
func (c *Client) GetFood(ctx context.Context, id string) (Record, error) {
	return c.getByID(ctx, foodsPath, id)
}

// CreateFood creates a food.
func (c *Client) CreateFood(ctx context.Context, name, description string) (Record, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &ValidationError{Field: "name", Message: "required", Err: ErrEmptyName}
	}
	payload := map[string]any{"name": name, "description": description}
	var rec Record
	if err := c.Post(ctx, foodsPath, payload, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// FoodUpdate describes changes to a food.
type FoodUpdate struct {
	Name        string
	Description Update[string]
	LabelID     Update[string]
}

// UpdateFood reads the food, applies u and writes the full object back.
func (c *Client) UpdateFood(ctx context.Context, id string, u FoodUpdate) (Record, error) {
	if u.Name == "" && u.Description.IsKeep() && u.LabelID.IsKeep() {
		return nil, &ValidationError{Message: "no fields to update"}
	}
	rec, err := c.GetFood(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Name != "" {
		rec["name"] = u.Name
	}
	u.Description.Apply(rec, "description")
	u.LabelID.Apply(rec, "labelId")

	var out Record
	if err := c.Put(ctx, foodsPath+"/"+escape(id), rec, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteFood deletes a food by id.
func (c *Client) DeleteFood(ctx context.Context, id string) error {
	return c.deleteByID(ctx, foodsPath, id)
}

// MergeFoods folds from into to; every reference to from moves to to.
func (c *Client) MergeFoods(ctx context.Context, from, to string) (Record, error) {
	return c.merge(ctx, foodsPath+"/merge", "fromFood", "toFood", from, to)
}

// ListUnits returns one page of units.
func (c *Client) ListUnits(ctx context.Context, q PageQuery) (*Page[Unit], error) {
	return getPage[Unit](ctx, c, unitsPath, withPageDefaults(q))
}

// GetUnit fetches a unit by id.
func (c *Client) GetUnit(ctx context.Context, id string) (Record, error) {
	return c.getByID(ctx, unitsPath, id)
}

// CreateUnit creates a unit.
func (c *Client) CreateUnit(ctx context.Context, name, description, abbreviation string) (Record, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &ValidationError{Field: "name", Message: "required", Err: ErrEmptyName}
	}
	payload := map[string]any{"name": name, "description": description, "abbreviation": abbreviation}
	var rec Record
	if err := c.Post(ctx, unitsPath, payload, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// UnitUpdate describes changes to a unit.
type UnitUpdate struct {
	Name         string
	Description  Update[string]
	Abbreviation Update[string]
}

// UpdateUnit sends only the changed keys with PATCH; a cleared field is
// sent as null.
func (c *Client) UpdateUnit(ctx context.Context, id string, u UnitUpdate) (Record, error) {
	if strings.TrimSpace(id) == "" {
		return nil, &ValidationError{Field: "id", Message: "required"}
	}
	patch := map[string]any{}
	if u.Name != "" {
		patch["name"] = u.Name
	}
	u.Description.Apply(patch, "description")
	u.Abbreviation.Apply(patch, "abbreviation")
	if len(patch) == 0 {
		return nil, &ValidationError{Message: "no fields to update"}
	}

	var rec Record
	if err := c.Patch(ctx, unitsPath+"/"+escape(id), patch, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// DeleteUnit deletes a unit by id.
func (c *Client) DeleteUnit(ctx context.Context, id string) error {
	return c.deleteByID(ctx, unitsPath, id)
}

// MergeUnits folds from into to.
func (c *Client) MergeUnits(ctx context.Context, from, to string) (Record, error) {
	return c.merge(ctx, unitsPath+"/merge", "fromUnit", "toUnit", from, to)
}

func (c *Client) merge(ctx context.Context, path, fromKey, toKey, from, to string) (Record, error) {
	if from == "" || to == "" {
		return nil, &ValidationError{Message: "both source and target ids are required"}
	}
	if from == to {
		return nil, &ValidationError{Message: "cannot merge an entity into itself"}
	}
	out := Record{}
	if err := c.Post(ctx, path, map[string]any{fromKey: from, toKey: to}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) getByID(ctx context.Context, base, id string) (Record, error) {
	if strings.TrimSpace(id) == "" {
		return nil, &ValidationError{Field: "id", Message: "required"}
	}
	var rec Record
	if err := c.Get(ctx, base+"/"+escape(id), nil, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (c *Client) deleteByID(ctx context.Context, base, id string) error {
	if strings.TrimSpace(id) == "" {
		return &ValidationError{Field: "id", Message: "required"}
	}
	return c.Delete(ctx, base+"/"+escape(id), nil)
}

func withPageDefaults(q PageQuery) PageQuery {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PerPage == 0 {
		q.PerPage = 50
	}
	return q
}
