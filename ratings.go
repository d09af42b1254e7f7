package mealie

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-querystring/query"
)

const (
	selfPath  = "/api/users/self"
	usersPath = "/api/users"
)

// MaxRating is the highest star rating the upstream accepts.
const MaxRating = 5.0

// UserRating is one of the current user's recipe ratings.
type UserRating struct {
	RecipeID   string   `json:"recipeId"`
	Rating     *float64 `json:"rating"`
	IsFavorite bool     `json:"isFavorite"`
}

// userRatings is the envelope of the self ratings and favorites endpoints.
type userRatings struct {
	Ratings []UserRating `json:"ratings"`
}

// FavoriteRecipe is a favorite with the recipe fields worth showing.
type FavoriteRecipe struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Slug        string   `json:"slug"`
	Description string   `json:"description,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	Tags        []string `json:"tags"`
	Categories  []string `json:"categories"`
}

// selfID returns the id of the user the token belongs to.
func (c *Client) selfID(ctx context.Context) (string, error) {
	var me Record
	if err := c.Get(ctx, selfPath, nil, &me); err != nil {
		return "", err
	}
	id := me.ID()
	if id == "" {
		return "", &FormatError{Method: http.MethodGet, Path: selfPath, Err: fmt.Errorf("user has no id")}
	}
	return id, nil
}

// SetRecipeRating rates a recipe for the current user. A nil favorite keeps
// the favorite flag unchanged; a rating of 0 clears the stars.
func (c *Client) SetRecipeRating(ctx context.Context, slug string, rating float64, favorite *bool) (Record, error) {
	if strings.TrimSpace(slug) == "" {
		return nil, &ValidationError{Field: "slug", Message: "required"}
	}
	if rating < 0 || rating > MaxRating {
		return nil, &ValidationError{Field: "rating", Message: fmt.Sprintf("must be between 0 and %g", MaxRating)}
	}
	uid, err := c.selfID(ctx)
	if err != nil {
		return nil, err
	}

	payload := map[string]any{"rating": rating}
	if favorite != nil {
		payload["isFavorite"] = *favorite
	}
	if err := c.Post(ctx, usersPath+"/"+escape(uid)+"/ratings/"+escape(slug), payload, nil); err != nil {
		return nil, err
	}
	out := Record{"slug": slug, "rating": rating}
	if favorite != nil {
		out["isFavorite"] = *favorite
	}
	return out, nil
}

// ListRatings returns the current user's ratings.
func (c *Client) ListRatings(ctx context.Context) ([]UserRating, error) {
	var out userRatings
	if err := c.Get(ctx, selfPath+"/ratings", nil, &out); err != nil {
		return nil, err
	}
	if out.Ratings == nil {
		out.Ratings = []UserRating{}
	}
	return out.Ratings, nil
}

// GetRecipeRating returns the current user's rating of one recipe. The
// recipe may be given by slug; the upstream endpoint takes an id.
func (c *Client) GetRecipeRating(ctx context.Context, recipe string) (*UserRating, error) {
	id, err := c.recipeID(ctx, recipe)
	if err != nil {
		return nil, err
	}
	var out UserRating
	if err := c.Get(ctx, selfPath+"/ratings/"+escape(id), nil, &out); err != nil {
		return nil, err
	}
	if out.RecipeID == "" {
		out.RecipeID = id
	}
	return &out, nil
}

// AddFavorite marks a recipe as a favorite of the current user.
func (c *Client) AddFavorite(ctx context.Context, slug string) error {
	return c.favorite(ctx, http.MethodPost, slug)
}

// RemoveFavorite unmarks a favorite.
func (c *Client) RemoveFavorite(ctx context.Context, slug string) error {
	return c.favorite(ctx, http.MethodDelete, slug)
}

func (c *Client) favorite(ctx context.Context, method, slug string) error {
	if strings.TrimSpace(slug) == "" {
		return &ValidationError{Field: "slug", Message: "required"}
	}
	uid, err := c.selfID(ctx)
	if err != nil {
		return err
	}
	path := usersPath + "/" + escape(uid) + "/favorites/" + escape(slug)
	if method == http.MethodDelete {
		return c.Delete(ctx, path, nil)
	}
	return c.Post(ctx, path, nil, nil)
}

// ListFavorites returns the current user's favorite recipes. Favorites whose
// recipe can no longer be read are skipped.
func (c *Client) ListFavorites(ctx context.Context) ([]FavoriteRecipe, error) {
	var env userRatings
	if err := c.Get(ctx, selfPath+"/favorites", nil, &env); err != nil {
		return nil, err
	}
	out := make([]FavoriteRecipe, 0, len(env.Ratings))
	for _, fav := range env.Ratings {
		if !fav.IsFavorite || fav.RecipeID == "" {
			continue
		}
		rec, err := c.GetRecipe(ctx, fav.RecipeID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				c.logger.Debug().Str("recipe", fav.RecipeID).Msg("favorite recipe missing")
				continue
			}
			return nil, err
		}
		out = append(out, FavoriteRecipe{
			ID:          rec.ID(),
			Name:        rec.String("name"),
			Slug:        rec.String("slug"),
			Description: rec.String("description"),
			Rating:      fav.Rating,
			Tags:        refNames(rec.Refs("tags")),
			Categories:  refNames(rec.Refs("recipeCategory")),
		})
	}
	return out, nil
}

// SuggestionQuery narrows recipe suggestions. Foods and Tools are ids of
// what is on hand.
type SuggestionQuery struct {
	Limit           int      `url:"limit,omitempty"`
	Foods           []string `url:"foods,omitempty"`
	Tools           []string `url:"tools,omitempty"`
	MaxMissingFoods int      `url:"maxMissingFoods,omitempty"`
	MaxMissingTools int      `url:"maxMissingTools,omitempty"`
}

// Suggestion is one suggested recipe and what is missing to cook it.
type Suggestion struct {
	Recipe       RecipeSummary `json:"recipe"`
	MissingFoods []Ref         `json:"missingFoods"`
	MissingTools []Ref         `json:"missingTools"`
}

// SuggestRecipes asks the upstream for recipes to cook.
func (c *Client) SuggestRecipes(ctx context.Context, q SuggestionQuery) ([]Suggestion, error) {
	if q.Limit <= 0 {
		q.Limit = 10
	}
	values, err := query.Values(q)
	if err != nil {
		return nil, fmt.Errorf("mealie: encode query: %w", err)
	}
	return getItems[Suggestion](ctx, c, recipesPath+"/suggestions", values)
}

// recipeID resolves a slug or id to the recipe id.
func (c *Client) recipeID(ctx context.Context, ref string) (string, error) {
	if strings.TrimSpace(ref) == "" {
		return "", &ValidationError{Field: "recipe_id", Message: "required"}
	}
	rec, err := c.GetRecipe(ctx, ref)
	if err != nil {
		return "", err
	}
	return firstNonEmpty(rec.ID(), ref), nil
}

func refNames(refs []Ref) []string {
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		out = append(out, r.Name)
	}
	return out
}
