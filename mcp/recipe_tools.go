package mcp

import (
	"context"
	"encoding/base64"
	"strings"
	"time"

	"github.com/hyperengineering/mealie-mcp"
	"github.com/mark3labs/mcp-go/mcp"
)

const clearHint = ` Pass "` + mealie.ClearSentinel + `" to clear it.`

func (s *Server) utilityTools() []toolDef {
	return []toolDef{
		{
			tool: mcp.NewTool("mealie_ping",
				mcp.WithDescription("Check connectivity to the Mealie instance and report its version."),
			),
			handle: func(ctx context.Context, _ map[string]any) (any, error) {
				info, err := s.client.Ping(ctx)
				if err != nil {
					return nil, err
				}
				return map[string]any{"status": "ok", "url": s.client.BaseURL(), "version": info.Version}, nil
			},
		},
	}
}

func (s *Server) recipeTools() []toolDef {
	return []toolDef{
		{
			tool: mcp.NewTool("mealie_recipes_search",
				mcp.WithDescription("Search recipes by text, tags and categories."),
				mcp.WithString("query", mcp.Description("Search term matched against name and description")),
				mcp.WithArray("tags", mcp.Description("Tag names or slugs to filter by"), mcp.WithStringItems()),
				mcp.WithArray("categories", mcp.Description("Category names or slugs to filter by"), mcp.WithStringItems()),
				mcp.WithNumber("limit", mcp.Description("Maximum number of results (default 10)")),
			),
			handle: s.handleRecipesSearch,
		},
		{
			tool: mcp.NewTool("mealie_recipes_get",
				mcp.WithDescription("Get the full details of a recipe."),
				mcp.WithString("slug", mcp.Description("The recipe slug or id"), mcp.Required()),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				slug, err := requiredString(args, "slug")
				if err != nil {
					return nil, err
				}
				return s.client.GetRecipe(ctx, slug)
			},
		},
		{
			tool: mcp.NewTool("mealie_recipes_list",
				mcp.WithDescription("List recipes one page at a time."),
				mcp.WithNumber("page", mcp.Description("Page number, starting at 1")),
				mcp.WithNumber("per_page", mcp.Description("Recipes per page (default 20)")),
				mcp.WithString("order_by", mcp.Description("Field to order by, e.g. name or dateAdded")),
				mcp.WithString("order_direction", mcp.Description("asc or desc"), mcp.Enum("asc", "desc")),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				return s.client.SearchRecipes(ctx, mealie.RecipeQuery{PageQuery: mealie.PageQuery{
					Page:           intArg(args, "page", 1),
					PerPage:        intArg(args, "per_page", 20),
					OrderBy:        stringArg(args, "order_by"),
					OrderDirection: stringArg(args, "order_direction"),
				}})
			},
		},
		{
			tool: mcp.NewTool("mealie_recipes_create",
				mcp.WithDescription("Create a recipe. Tags, categories and tools are given by name and created when missing."),
				mcp.WithString("name", mcp.Description("Recipe name"), mcp.Required()),
				mcp.WithString("description", mcp.Description("Recipe description")),
				mcp.WithString("recipe_yield", mcp.Description(`Yield, e.g. "4 servings"`)),
				mcp.WithString("total_time", mcp.Description(`Total time, e.g. "1 hour"`)),
				mcp.WithString("prep_time", mcp.Description("Prep time")),
				mcp.WithString("cook_time", mcp.Description("Cook time")),
				mcp.WithString("org_url", mcp.Description("Original recipe URL")),
				mcp.WithArray("ingredients", mcp.Description(`Ingredient lines, e.g. ["2 cups flour"]`), mcp.WithStringItems()),
				mcp.WithArray("instructions", mcp.Description("Instruction steps in order"), mcp.WithStringItems()),
				mcp.WithArray("tags", mcp.Description("Tag names"), mcp.WithStringItems()),
				mcp.WithArray("categories", mcp.Description("Category names"), mcp.WithStringItems()),
				mcp.WithArray("tools", mcp.Description("Tool names"), mcp.WithStringItems()),
			),
			handle: s.handleRecipesCreate,
		},
		{
			tool: mcp.NewTool("mealie_recipes_create_from_url",
				mcp.WithDescription("Import a recipe by scraping a URL."),
				mcp.WithString("url", mcp.Description("URL of the recipe page"), mcp.Required()),
				mcp.WithBoolean("include_tags", mcp.Description("Keep tags found on the page (default false)")),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				u, err := requiredString(args, "url")
				if err != nil {
					return nil, err
				}
				return s.client.CreateRecipeFromURL(ctx, u, boolArg(args, "include_tags", false))
			},
		},
		{
			tool: mcp.NewTool("mealie_recipes_create_from_urls_bulk",
				mcp.WithDescription("Queue imports for several recipe URLs."),
				mcp.WithArray("urls", mcp.Description("Recipe URLs"), mcp.WithStringItems(), mcp.Required()),
				mcp.WithBoolean("include_tags", mcp.Description("Keep tags found on the pages (default false)")),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				return s.client.CreateRecipesFromURLs(ctx, stringSliceArg(args, "urls"), boolArg(args, "include_tags", false))
			},
		},
		{
			tool: mcp.NewTool("mealie_recipes_update",
				mcp.WithDescription("Update a recipe. Omitted fields are left unchanged. Given tags, categories and tools are added to the existing ones. Ingredients and instructions replace the existing lists."),
				mcp.WithString("slug", mcp.Description("The recipe slug"), mcp.Required()),
				mcp.WithString("name", mcp.Description("New name")),
				mcp.WithString("description", mcp.Description("New description."+clearHint)),
				mcp.WithString("recipe_yield", mcp.Description("New yield."+clearHint)),
				mcp.WithString("total_time", mcp.Description("New total time."+clearHint)),
				mcp.WithString("prep_time", mcp.Description("New prep time."+clearHint)),
				mcp.WithString("cook_time", mcp.Description("New cook time."+clearHint)),
				mcp.WithString("org_url", mcp.Description("New source URL."+clearHint)),
				mcp.WithArray("ingredients", mcp.Description("Ingredient lines"), mcp.WithStringItems()),
				mcp.WithArray("instructions", mcp.Description("Instruction steps"), mcp.WithStringItems()),
				mcp.WithArray("tags", mcp.Description("Tag names to add"), mcp.WithStringItems()),
				mcp.WithArray("categories", mcp.Description("Category names to add"), mcp.WithStringItems()),
				mcp.WithArray("tools", mcp.Description("Tool names to add"), mcp.WithStringItems()),
			),
			handle: s.handleRecipesUpdate,
		},
		{
			tool: mcp.NewTool("mealie_recipes_update_structured_ingredients",
				mcp.WithDescription("Replace a recipe's ingredients with structured ingredients, such as the output of mealie_parser_ingredients_batch. Unknown units and foods are sent by name unless create_missing is set."),
				mcp.WithString("slug", mcp.Description("The recipe slug"), mcp.Required()),
				mcp.WithArray("parsed_ingredients",
					mcp.Description("Ingredient objects with quantity, unit, food, note and display"),
					mcp.Items(map[string]any{"type": "object"}),
					mcp.Required(),
				),
				mcp.WithBoolean("create_missing", mcp.Description("Create units and foods that do not exist yet (default false)")),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				slug, err := requiredString(args, "slug")
				if err != nil {
					return nil, err
				}
				items, err := objectSliceArg(args, "parsed_ingredients")
				if err != nil {
					return nil, err
				}
				return s.client.UpdateRecipeIngredients(ctx, slug, ingredientArgs(items), boolArg(args, "create_missing", false))
			},
		},
		{
			tool: mcp.NewTool("mealie_recipes_delete",
				mcp.WithDescription("Delete a recipe."),
				mcp.WithString("slug", mcp.Description("The recipe slug"), mcp.Required()),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				slug, err := requiredString(args, "slug")
				if err != nil {
					return nil, err
				}
				if err := s.client.DeleteRecipe(ctx, slug); err != nil {
					return nil, err
				}
				return deleted("recipe", slug), nil
			},
		},
		{
			tool: mcp.NewTool("mealie_recipes_duplicate",
				mcp.WithDescription("Copy a recipe."),
				mcp.WithString("slug", mcp.Description("Slug of the recipe to copy"), mcp.Required()),
				mcp.WithString("new_name", mcp.Description("Name for the copy")),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				slug, err := requiredString(args, "slug")
				if err != nil {
					return nil, err
				}
				return s.client.DuplicateRecipe(ctx, slug, stringArg(args, "new_name"))
			},
		},
		{
			tool: mcp.NewTool("mealie_recipes_update_last_made",
				mcp.WithDescription("Record that a recipe was made."),
				mcp.WithString("slug", mcp.Description("The recipe slug"), mcp.Required()),
				mcp.WithString("timestamp", mcp.Description("RFC 3339 timestamp (default now)")),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				slug, err := requiredString(args, "slug")
				if err != nil {
					return nil, err
				}
				var ts time.Time
				if raw := stringArg(args, "timestamp"); raw != "" {
					ts, err = time.Parse(time.RFC3339, raw)
					if err != nil {
						return nil, &mealie.ValidationError{Field: "timestamp", Message: "must be an RFC 3339 timestamp", Err: err}
					}
				}
				return s.client.UpdateLastMade(ctx, slug, ts)
			},
		},
		{
			tool: mcp.NewTool("mealie_recipes_bulk_tag",
				mcp.WithDescription("Add tags to several recipes. Missing tags are created."),
				mcp.WithArray("recipe_ids", mcp.Description("Recipe ids or slugs"), mcp.WithStringItems(), mcp.Required()),
				mcp.WithArray("tags", mcp.Description("Tag names"), mcp.WithStringItems(), mcp.Required()),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				return s.client.BulkTagRecipes(ctx, stringSliceArg(args, "recipe_ids"), stringSliceArg(args, "tags"))
			},
		},
		{
			tool: mcp.NewTool("mealie_recipes_bulk_categorize",
				mcp.WithDescription("Add categories to several recipes. Missing categories are created."),
				mcp.WithArray("recipe_ids", mcp.Description("Recipe ids or slugs"), mcp.WithStringItems(), mcp.Required()),
				mcp.WithArray("categories", mcp.Description("Category names"), mcp.WithStringItems(), mcp.Required()),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				return s.client.BulkCategorizeRecipes(ctx, stringSliceArg(args, "recipe_ids"), stringSliceArg(args, "categories"))
			},
		},
		{
			tool: mcp.NewTool("mealie_recipes_bulk_delete",
				mcp.WithDescription("Delete several recipes."),
				mcp.WithArray("recipe_ids", mcp.Description("Recipe ids or slugs"), mcp.WithStringItems(), mcp.Required()),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				slugs, err := s.client.BulkDeleteRecipes(ctx, stringSliceArg(args, "recipe_ids"))
				if err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "deleted": slugs}, nil
			},
		},
		{
			tool: mcp.NewTool("mealie_recipes_bulk_export",
				mcp.WithDescription("Queue an export archive of several recipes. The result lists the exports available for download."),
				mcp.WithArray("recipe_ids", mcp.Description("Recipe ids or slugs"), mcp.WithStringItems(), mcp.Required()),
				mcp.WithString("export_format", mcp.Description("Archive format (default json)"), mcp.Enum(mealie.ExportTypes...)),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				return s.client.BulkExportRecipes(ctx, stringSliceArg(args, "recipe_ids"), stringArg(args, "export_format"))
			},
		},
		{
			tool: mcp.NewTool("mealie_recipes_bulk_update_settings",
				mcp.WithDescription("Change settings of several recipes. Only the given settings are sent."),
				mcp.WithArray("recipe_ids", mcp.Description("Recipe ids or slugs"), mcp.WithStringItems(), mcp.Required()),
				mcp.WithBoolean("public", mcp.Description("Visible without login")),
				mcp.WithBoolean("show_nutrition", mcp.Description("Show nutrition facts")),
				mcp.WithBoolean("show_assets", mcp.Description("Show attached assets")),
				mcp.WithBoolean("landscape_view", mcp.Description("Use the landscape layout")),
				mcp.WithBoolean("disable_comments", mcp.Description("Turn comments off")),
				mcp.WithBoolean("locked", mcp.Description("Only the owner may edit")),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				slugs, err := s.client.BulkUpdateSettings(ctx, stringSliceArg(args, "recipe_ids"), mealie.RecipeSettings{
					Public:          optionalBool(args, "public"),
					ShowNutrition:   optionalBool(args, "show_nutrition"),
					ShowAssets:      optionalBool(args, "show_assets"),
					LandscapeView:   optionalBool(args, "landscape_view"),
					DisableComments: optionalBool(args, "disable_comments"),
					Locked:          optionalBool(args, "locked"),
				})
				if err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "updated": slugs}, nil
			},
		},
		{
			tool: mcp.NewTool("mealie_recipes_create_from_image",
				mcp.WithDescription("Create a recipe from a photo of one. Needs the upstream OpenAI integration. Give either image_data or image_url."),
				mcp.WithString("image_data", mcp.Description("Base64 image, optionally as a data: URL")),
				mcp.WithString("extension", mcp.Description("Image extension for image_data (default jpg)")),
				mcp.WithString("image_url", mcp.Description("Image or page URL to download instead")),
			),
			handle: s.handleRecipesCreateFromImage,
		},
		{
			tool: mcp.NewTool("mealie_recipes_upload_image_from_url",
				mcp.WithDescription("Download an image, or the preview image of a web page, and set it as the recipe image."),
				mcp.WithString("slug", mcp.Description("The recipe slug"), mcp.Required()),
				mcp.WithString("image_url", mcp.Description("Image or page URL"), mcp.Required()),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				slug, err := requiredString(args, "slug")
				if err != nil {
					return nil, err
				}
				imageURL, err := requiredString(args, "image_url")
				if err != nil {
					return nil, err
				}
				return s.client.UploadRecipeImageFromURL(ctx, slug, imageURL)
			},
		},
	}
}

func (s *Server) handleRecipesSearch(ctx context.Context, args map[string]any) (any, error) {
	page, err := s.client.SearchRecipes(ctx, mealie.RecipeQuery{
		Search:     stringArg(args, "query"),
		Tags:       stringSliceArg(args, "tags"),
		Categories: stringSliceArg(args, "categories"),
		PageQuery:  mealie.PageQuery{Page: 1, PerPage: intArg(args, "limit", 10)},
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{"total": page.Total, "recipes": page.Items}, nil
}

func (s *Server) handleRecipesCreate(ctx context.Context, args map[string]any) (any, error) {
	name, err := requiredString(args, "name")
	if err != nil {
		return nil, err
	}
	return s.client.CreateRecipe(ctx, mealie.RecipeInput{
		Name:         name,
		Description:  stringArg(args, "description"),
		RecipeYield:  stringArg(args, "recipe_yield"),
		TotalTime:    stringArg(args, "total_time"),
		PrepTime:     stringArg(args, "prep_time"),
		CookTime:     stringArg(args, "cook_time"),
		OrgURL:       stringArg(args, "org_url"),
		Ingredients:  stringSliceArg(args, "ingredients"),
		Instructions: stringSliceArg(args, "instructions"),
		Tags:         stringSliceArg(args, "tags"),
		Categories:   stringSliceArg(args, "categories"),
		Tools:        stringSliceArg(args, "tools"),
	})
}

func (s *Server) handleRecipesUpdate(ctx context.Context, args map[string]any) (any, error) {
	slug, err := requiredString(args, "slug")
	if err != nil {
		return nil, err
	}
	return s.client.UpdateRecipe(ctx, slug, mealie.RecipeUpdate{
		Name:         stringArg(args, "name"),
		Description:  updateArg(args, "description"),
		RecipeYield:  updateArg(args, "recipe_yield"),
		TotalTime:    updateArg(args, "total_time"),
		PrepTime:     updateArg(args, "prep_time"),
		CookTime:     updateArg(args, "cook_time"),
		OrgURL:       updateArg(args, "org_url"),
		Ingredients:  stringSliceArg(args, "ingredients"),
		Instructions: stringSliceArg(args, "instructions"),
		Tags:         stringSliceArg(args, "tags"),
		Categories:   stringSliceArg(args, "categories"),
		Tools:        stringSliceArg(args, "tools"),
	})
}

func (s *Server) handleRecipesCreateFromImage(ctx context.Context, args map[string]any) (any, error) {
	data, imageURL := stringArg(args, "image_data"), stringArg(args, "image_url")
	switch {
	case data != "" && imageURL != "":
		return nil, &mealie.ValidationError{Field: "image_data", Message: "give image_data or image_url, not both"}
	case imageURL != "":
		return s.client.CreateRecipeFromImageURL(ctx, imageURL)
	case data == "":
		return nil, &mealie.ValidationError{Field: "image_data", Message: "image_data or image_url is required"}
	}
	img, ext, err := decodeImageData(data, stringArg(args, "extension"))
	if err != nil {
		return nil, err
	}
	return s.client.CreateRecipeFromImage(ctx, img, ext)
}

// decodeImageData reads base64 image bytes. A data: URL prefix, when
// present, supplies the extension.
func decodeImageData(data, ext string) ([]byte, string, error) {
	if rest, ok := strings.CutPrefix(data, "data:"); ok {
		meta, payload, found := strings.Cut(rest, ",")
		if !found || !strings.HasSuffix(meta, ";base64") {
			return nil, "", &mealie.ValidationError{Field: "image_data", Message: "data URL must be base64 encoded"}
		}
		if ext == "" {
			ext = strings.TrimPrefix(strings.TrimSuffix(meta, ";base64"), "image/")
		}
		data = payload
	}
	img, err := base64.StdEncoding.DecodeString(strings.TrimSpace(data))
	if err != nil {
		return nil, "", &mealie.ValidationError{Field: "image_data", Message: "not valid base64", Err: err}
	}
	if ext == "jpeg" {
		ext = "jpg"
	}
	return img, ext, nil
}
