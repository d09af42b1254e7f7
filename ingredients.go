package mealie

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// RefInput names a unit or food inside an ingredient. ID is optional.
type RefInput struct {
	ID   string
	Name string
}

// IngredientInput is one structured ingredient line.
type IngredientInput struct {
	Quantity     *float64
	Unit         *RefInput
	Food         *RefInput
	Note         string
	Display      string
	Title        string
	OriginalText string
	ReferenceID  string
}

// IngredientRef is the minimal object form of a known unit or food.
type IngredientRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NormalizeRef returns the payload value for an ingredient's unit or food.
// A reference with a confirmed id becomes {id, name}. An unknown name is sent
// as a bare string, unless createMissing is set, in which case the entity is
// created first.
func NormalizeRef(ctx context.Context, r *Resolver, in *RefInput, createMissing bool) (any, error) {
	if in == nil || (in.ID == "" && strings.TrimSpace(in.Name) == "") {
		return nil, nil
	}
	if in.ID != "" {
		return IngredientRef{ID: in.ID, Name: in.Name}, nil
	}

	name := strings.TrimSpace(in.Name)
	ref, ok, err := r.Lookup(ctx, name)
	if err != nil {
		return nil, err
	}
	if ok {
		return IngredientRef{ID: ref.ID, Name: ref.Name}, nil
	}
	if !createMissing {
		return name, nil
	}

	ref, err = r.Resolve(ctx, name)
	if err != nil {
		return nil, err
	}
	return IngredientRef{ID: ref.ID, Name: ref.Name}, nil
}

// IngredientDisplay renders "quantity unit food, note" omitting absent parts.
func IngredientDisplay(in IngredientInput) string {
	var parts []string
	if in.Quantity != nil && *in.Quantity != 0 {
		parts = append(parts, strconv.FormatFloat(*in.Quantity, 'f', -1, 64))
	}
	if in.Unit != nil && in.Unit.Name != "" {
		parts = append(parts, in.Unit.Name)
	}
	if in.Food != nil && in.Food.Name != "" {
		parts = append(parts, in.Food.Name)
	}
	display := strings.Join(parts, " ")
	if in.Note != "" {
		if display == "" {
			return in.Note
		}
		display += ", " + in.Note
	}
	return display
}

// BuildIngredients converts structured inputs into upstream ingredient
// objects. Units and foods are each fetched at most once for the whole list.
func (c *Client) BuildIngredients(ctx context.Context, inputs []IngredientInput, createMissing bool) ([]map[string]any, error) {
	units := c.NewResolver(KindUnit)
	foods := c.NewResolver(KindFood)

	out := make([]map[string]any, 0, len(inputs))
	for i, in := range inputs {
		unit, err := NormalizeRef(ctx, units, in.Unit, createMissing)
		if err != nil {
			return nil, err
		}
		food, err := NormalizeRef(ctx, foods, in.Food, createMissing)
		if err != nil {
			return nil, err
		}

		if unit == nil && food == nil && in.Note == "" && in.Display == "" && in.OriginalText == "" {
			return nil, &ValidationError{Field: "ingredients[" + strconv.Itoa(i) + "]", Message: "needs a food, unit, note or display text"}
		}

		ing := map[string]any{
			"referenceId": firstNonEmpty(in.ReferenceID, uuid.NewString()),
			"unit":        unit,
			"food":        food,
			"note":        in.Note,
			"display":     firstNonEmpty(in.Display, IngredientDisplay(in)),
		}
		if in.Quantity != nil {
			ing["quantity"] = *in.Quantity
		}
		if in.Title != "" {
			ing["title"] = in.Title
		}
		if in.OriginalText != "" {
			ing["originalText"] = in.OriginalText
		}
		out = append(out, ing)
	}
	return out, nil
}

// UpdateRecipeIngredients replaces the recipe's ingredient list. The full
// recipe is fetched, only recipeIngredient is replaced, and the complete
// object is written back.
func (c *Client) UpdateRecipeIngredients(ctx context.Context, slug string, inputs []IngredientInput, createMissing bool) (Record, error) {
	if len(inputs) == 0 {
		return nil, &ValidationError{Field: "ingredients", Message: "at least one ingredient is required"}
	}

	ingredients, err := c.BuildIngredients(ctx, inputs, createMissing)
	if err != nil {
		return nil, err
	}

	rec, err := c.GetRecipe(ctx, slug)
	if err != nil {
		return nil, err
	}
	slug = firstNonEmpty(rec.String("slug"), slug)
	rec["recipeIngredient"] = ingredients

	if err := c.Put(ctx, recipesPath+"/"+escape(slug), rec, nil); err != nil {
		return nil, err
	}
	return c.GetRecipe(ctx, slug)
}
