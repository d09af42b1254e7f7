package mealie

import (
	"context"
	"strings"
	"time"
)

const (
	shoppingListsPath = "/api/households/shopping/lists"
	shoppingItemsPath = "/api/households/shopping/items"
)

// ListShoppingLists returns every shopping list.
func (c *Client) ListShoppingLists(ctx context.Context) ([]Record, error) {
	return ListAll[Record](ctx, c, shoppingListsPath, nil)
}

// GetShoppingList fetches a list with its items.
func (c *Client) GetShoppingList(ctx context.Context, id string) (Record, error) {
	return c.getByID(ctx, shoppingListsPath, id)
}

// CreateShoppingList creates an empty list.
func (c *Client) CreateShoppingList(ctx context.Context, name string) (Record, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &ValidationError{Field: "name", Message: "required", Err: ErrEmptyName}
	}
	var rec Record
	if err := c.Post(ctx, shoppingListsPath, map[string]any{"name": name}, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// DeleteShoppingList deletes a list by id.
func (c *Client) DeleteShoppingList(ctx context.Context, id string) error {
	return c.deleteByID(ctx, shoppingListsPath, id)
}

// ShoppingItemInput describes an item to add. Unit and Food are names,
// resolved to ids and created when missing.
type ShoppingItemInput struct {
	ListID   string
	Note     string
	Quantity float64
	Unit     string
	Food     string
	Display  string
}

// AddShoppingItem adds one item to a list.
func (c *Client) AddShoppingItem(ctx context.Context, in ShoppingItemInput) (Record, error) {
	return c.addShoppingItem(ctx, in, c.NewResolver(KindUnit), c.NewResolver(KindFood))
}

// AddShoppingItems adds each item independently. Unit and food lookups are
// shared across the batch.
func (c *Client) AddShoppingItems(ctx context.Context, listID string, items []ShoppingItemInput) (*BatchResult, error) {
	if strings.TrimSpace(listID) == "" {
		return nil, &ValidationError{Field: "list_id", Message: "required"}
	}
	if len(items) == 0 {
		return nil, &ValidationError{Field: "items", Message: "at least one item is required"}
	}

	units := c.NewResolver(KindUnit)
	foods := c.NewResolver(KindFood)
	result := &BatchResult{Results: []ItemResult{}}
	for i, item := range items {
		item.ListID = listID
		rec, err := c.addShoppingItem(ctx, item, units, foods)
		result.record(i, rec.ID(), err)
	}
	return result, nil
}

func (c *Client) addShoppingItem(ctx context.Context, in ShoppingItemInput, units, foods *Resolver) (Record, error) {
	if strings.TrimSpace(in.ListID) == "" {
		return nil, &ValidationError{Field: "list_id", Message: "required"}
	}
	if strings.TrimSpace(in.Note) == "" && strings.TrimSpace(in.Food) == "" {
		return nil, &ValidationError{Field: "note", Message: "either note or food is required"}
	}
	if in.Quantity == 0 {
		in.Quantity = 1
	}

	payload := map[string]any{
		"shoppingListId": in.ListID,
		"note":           in.Note,
		"quantity":       in.Quantity,
	}
	if in.Unit != "" {
		ref, err := units.Resolve(ctx, in.Unit)
		if err != nil {
			return nil, err
		}
		payload["unitId"] = ref.ID
	}
	if in.Food != "" {
		ref, err := foods.Resolve(ctx, in.Food)
		if err != nil {
			return nil, err
		}
		payload["foodId"] = ref.ID
		payload["isFood"] = true
	}
	setIfNotEmpty(payload, "display", in.Display)

	var rec Record
	if err := c.Post(ctx, shoppingItemsPath, payload, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// CheckShoppingItem sets an item's checked flag, writing back the full item.
func (c *Client) CheckShoppingItem(ctx context.Context, id string, checked bool) (Record, error) {
	rec, err := c.getByID(ctx, shoppingItemsPath, id)
	if err != nil {
		return nil, err
	}
	rec["checked"] = checked

	var out Record
	if err := c.Put(ctx, shoppingItemsPath+"/"+escape(id), rec, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return rec, nil
	}
	return out, nil
}

// DeleteShoppingItem deletes an item by id.
func (c *Client) DeleteShoppingItem(ctx context.Context, id string) error {
	return c.deleteByID(ctx, shoppingItemsPath, id)
}

// AddRecipeToShoppingList adds a recipe's ingredients to a list. A scale of
// zero means one serving multiple.
func (c *Client) AddRecipeToShoppingList(ctx context.Context, listID, recipeID string, scale float64) (Record, error) {
	if listID == "" || recipeID == "" {
		return nil, &ValidationError{Message: "list_id and recipe_id are required"}
	}
	if scale <= 0 {
		scale = 1
	}
	payload := map[string]any{"recipeId": recipeID, "recipeIncrementQuantity": scale}
	out := Record{}
	path := shoppingListsPath + "/" + escape(listID) + "/recipe/" + escape(recipeID)
	if err := c.Post(ctx, path, payload, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RemoveRecipeFromShoppingList removes a recipe's ingredients from a list.
func (c *Client) RemoveRecipeFromShoppingList(ctx context.Context, listID, recipeID string) (Record, error) {
	if listID == "" || recipeID == "" {
		return nil, &ValidationError{Message: "list_id and recipe_id are required"}
	}
	out := Record{}
	path := shoppingListsPath + "/" + escape(listID) + "/recipe/" + escape(recipeID) + "/delete"
	if err := c.Post(ctx, path, map[string]any{"recipeDecrementQuantity": 1}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GeneratedList reports the outcome of GenerateShoppingListFromMealPlan.
type GeneratedList struct {
	ListID    string       `json:"list_id"`
	Name      string       `json:"name"`
	StartDate string       `json:"start_date"`
	EndDate   string       `json:"end_date"`
	Recipes   *BatchResult `json:"recipes"`
	ItemCount int          `json:"item_count"`
	// ItemCountError is set when the finished list could not be re-read,
	// in which case ItemCount is unknown rather than zero.
	ItemCountError string `json:"item_count_error,omitempty"`
}

// GenerateShoppingListFromMealPlan creates a list holding the ingredients of
// every recipe planned in r. Missing bounds default to the coming week.
// Recipes that fail to add are reported without aborting the rest.
func (c *Client) GenerateShoppingListFromMealPlan(ctx context.Context, r MealPlanRange, name string) (*GeneratedList, error) {
	r, err := r.DefaultRange(time.Now(), 6)
	if err != nil {
		return nil, err
	}
	entries, err := c.ListMealPlans(ctx, r)
	if err != nil {
		return nil, err
	}

	var recipeIDs []string
	seen := map[string]bool{}
	for _, e := range entries {
		id := e.String("recipeId")
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		recipeIDs = append(recipeIDs, id)
	}
	if len(recipeIDs) == 0 {
		return nil, &ValidationError{Message: "no recipes planned between " + r.Start + " and " + r.End}
	}

	if name == "" {
		start, _ := time.Parse(DateLayout, r.Start)
		end, _ := time.Parse(DateLayout, r.End)
		name = "Meal Plan - " + start.Format("Jan 02") + " to " + end.Format("Jan 02")
	}

	list, err := c.CreateShoppingList(ctx, name)
	if err != nil {
		return nil, err
	}
	listID := list.ID()

	added := &BatchResult{Results: []ItemResult{}}
	for i, id := range recipeIDs {
		_, err := c.AddRecipeToShoppingList(ctx, listID, id, 1)
		added.record(i, id, err)
	}

	out := &GeneratedList{ListID: listID, Name: name, StartDate: r.Start, EndDate: r.End, Recipes: added}
	final, err := c.GetShoppingList(ctx, listID)
	if err != nil {
		c.logger.Warn().Err(err).Str("list_id", listID).Msg("could not count generated list items")
		out.ItemCountError = Message(err)
		return out, nil
	}
	items, _ := final["listItems"].([]any)
	out.ItemCount = len(items)
	return out, nil
}

// ClearCheckedItems deletes every checked item on a list, reporting each
// deletion separately.
func (c *Client) ClearCheckedItems(ctx context.Context, listID string) (*BatchResult, error) {
	list, err := c.GetShoppingList(ctx, listID)
	if err != nil {
		return nil, err
	}
	items, _ := list["listItems"].([]any)

	result := &BatchResult{Results: []ItemResult{}}
	for i, raw := range items {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if checked, _ := item["checked"].(bool); !checked {
			continue
		}
		id := Record(item).ID()
		result.record(i, id, c.DeleteShoppingItem(ctx, id))
	}
	return result, nil
}
