package mcp

import (
	"context"
	"fmt"

	"github.com/hyperengineering/mealie-mcp"
	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) ratingTools() []toolDef {
	return []toolDef{
		{
			tool: mcp.NewTool("mealie_recipes_rating_set",
				mcp.WithDescription("Rate a recipe for the current user, 0 to 5 stars. A rating of 0 clears the stars."),
				mcp.WithString("slug", mcp.Description("The recipe slug"), mcp.Required()),
				mcp.WithNumber("rating", mcp.Description("Stars, 0 to 5; halves allowed"), mcp.Required(), mcp.Min(0), mcp.Max(mealie.MaxRating)),
				mcp.WithBoolean("is_favorite", mcp.Description("Also set or unset the favorite flag")),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				slug, err := requiredString(args, "slug")
				if err != nil {
					return nil, err
				}
				rating, ok := floatArg(args, "rating")
				if !ok {
					return nil, &mealie.ValidationError{Field: "rating", Message: "required"}
				}
				rec, err := s.client.SetRecipeRating(ctx, slug, rating, optionalBool(args, "is_favorite"))
				if err != nil {
					return nil, err
				}
				return map[string]any{
					"success": true,
					"message": fmt.Sprintf("Rating set to %g", rating),
					"data":    rec,
				}, nil
			},
		},
		{
			tool: mcp.NewTool("mealie_recipes_rating_get",
				mcp.WithDescription("Get the current user's rating of one recipe."),
				mcp.WithString("recipe_id", mcp.Description("Recipe id or slug"), mcp.Required()),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				id, err := requiredString(args, "recipe_id")
				if err != nil {
					return nil, err
				}
				return s.client.GetRecipeRating(ctx, id)
			},
		},
		{
			tool: mcp.NewTool("mealie_ratings_list",
				mcp.WithDescription("List the current user's recipe ratings."),
			),
			handle: func(ctx context.Context, _ map[string]any) (any, error) {
				ratings, err := s.client.ListRatings(ctx)
				if err != nil {
					return nil, err
				}
				return map[string]any{"count": len(ratings), "ratings": ratings}, nil
			},
		},
		{
			tool: mcp.NewTool("mealie_recipes_favorite_add",
				mcp.WithDescription("Add a recipe to the current user's favorites."),
				mcp.WithString("slug", mcp.Description("The recipe slug"), mcp.Required()),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				slug, err := requiredString(args, "slug")
				if err != nil {
					return nil, err
				}
				if err := s.client.AddFavorite(ctx, slug); err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "message": fmt.Sprintf("Recipe %q added to favorites", slug)}, nil
			},
		},
		{
			tool: mcp.NewTool("mealie_recipes_favorite_remove",
				mcp.WithDescription("Remove a recipe from the current user's favorites."),
				mcp.WithString("slug", mcp.Description("The recipe slug"), mcp.Required()),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				slug, err := requiredString(args, "slug")
				if err != nil {
					return nil, err
				}
				if err := s.client.RemoveFavorite(ctx, slug); err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "message": fmt.Sprintf("Recipe %q removed from favorites", slug)}, nil
			},
		},
		{
			tool: mcp.NewTool("mealie_favorites_list",
				mcp.WithDescription("List the current user's favorite recipes."),
			),
			handle: func(ctx context.Context, _ map[string]any) (any, error) {
				favs, err := s.client.ListFavorites(ctx)
				if err != nil {
					return nil, err
				}
				return map[string]any{"count": len(favs), "favorites": favs}, nil
			},
		},
		{
			tool: mcp.NewTool("mealie_recipes_suggestions",
				mcp.WithDescription("Suggest recipes to cook, optionally from the foods and tools on hand."),
				mcp.WithNumber("limit", mcp.Description("Maximum suggestions (default 10)")),
				mcp.WithArray("foods", mcp.Description("Ids of foods on hand"), mcp.WithStringItems()),
				mcp.WithArray("tools", mcp.Description("Ids of tools on hand"), mcp.WithStringItems()),
				mcp.WithNumber("max_missing_foods", mcp.Description("Allow up to this many missing foods")),
				mcp.WithNumber("max_missing_tools", mcp.Description("Allow up to this many missing tools")),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				suggestions, err := s.client.SuggestRecipes(ctx, mealie.SuggestionQuery{
					Limit:           intArg(args, "limit", 10),
					Foods:           stringSliceArg(args, "foods"),
					Tools:           stringSliceArg(args, "tools"),
					MaxMissingFoods: intArg(args, "max_missing_foods", 0),
					MaxMissingTools: intArg(args, "max_missing_tools", 0),
				})
				if err != nil {
					return nil, err
				}
				return map[string]any{"count": len(suggestions), "suggestions": suggestions}, nil
			},
		},
	}
}

func (s *Server) sharingTools() []toolDef {
	return []toolDef{
		{
			tool: mcp.NewTool("mealie_recipes_shared_list",
				mcp.WithDescription("List recipe share links."),
				mcp.WithString("recipe_id", mcp.Description("Only links of this recipe (id or slug)")),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				shares, err := s.client.ListSharedRecipes(ctx, stringArg(args, "recipe_id"))
				if err != nil {
					return nil, err
				}
				return map[string]any{"count": len(shares), "shared_recipes": shares}, nil
			},
		},
		{
			tool: mcp.NewTool("mealie_recipes_shared_create",
				mcp.WithDescription("Create a share link for a recipe. The link id is the token anonymous visitors use."),
				mcp.WithString("recipe_id", mcp.Description("Recipe id or slug"), mcp.Required()),
				mcp.WithString("expires_at", mcp.Description("Expiry as an RFC 3339 timestamp or YYYY-MM-DD date (default set upstream)")),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				recipe, err := requiredString(args, "recipe_id")
				if err != nil {
					return nil, err
				}
				expires, err := mealie.ParseTimestamp("expires_at", stringArg(args, "expires_at"))
				if err != nil {
					return nil, err
				}
				return s.client.ShareRecipe(ctx, recipe, expires)
			},
		},
		{
			tool: mcp.NewTool("mealie_recipes_shared_get",
				mcp.WithDescription("Get a share link by id."),
				mcp.WithString("item_id", mcp.Description("The share link id"), mcp.Required()),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				id, err := requiredString(args, "item_id")
				if err != nil {
					return nil, err
				}
				return s.client.GetSharedRecipe(ctx, id)
			},
		},
		{
			tool: mcp.NewTool("mealie_recipes_shared_delete",
				mcp.WithDescription("Revoke a share link."),
				mcp.WithString("item_id", mcp.Description("The share link id"), mcp.Required()),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				id, err := requiredString(args, "item_id")
				if err != nil {
					return nil, err
				}
				if err := s.client.DeleteSharedRecipe(ctx, id); err != nil {
					return nil, err
				}
				return deleted("share link", id), nil
			},
		},
		{
			tool: mcp.NewTool("mealie_recipes_shared_access",
				mcp.WithDescription("Read the recipe behind a share token."),
				mcp.WithString("token_id", mcp.Description("The share token"), mcp.Required()),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				token, err := requiredString(args, "token_id")
				if err != nil {
					return nil, err
				}
				return s.client.OpenSharedRecipe(ctx, token)
			},
		},
	}
}
