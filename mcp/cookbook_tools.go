package mcp

import (
	"context"

	"github.com/hyperengineering/mealie-mcp"
	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) parserTools() []toolDef {
	parserOpt := mcp.WithString("parser",
		mcp.Description("Parser to use (default nlp)"),
		mcp.Enum(mealie.Parsers...),
	)
	return []toolDef{
		{
			tool: mcp.NewTool("mealie_parser_ingredient",
				mcp.WithDescription("Parse one ingredient line into quantity, unit, food and note."),
				mcp.WithString("ingredient", mcp.Description(`Ingredient text, e.g. "2 cups flour"`), mcp.Required()),
				parserOpt,
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				return s.client.ParseIngredient(ctx, stringArg(args, "ingredient"), stringArg(args, "parser"))
			},
		},
		{
			tool: mcp.NewTool("mealie_parser_ingredients_batch",
				mcp.WithDescription("Parse several ingredient lines. The output can be passed to mealie_recipes_update_structured_ingredients."),
				mcp.WithArray("ingredients", mcp.Description("Ingredient lines"), mcp.WithStringItems(), mcp.Required()),
				parserOpt,
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				return s.client.ParseIngredients(ctx, stringSliceArg(args, "ingredients"), stringArg(args, "parser"))
			},
		},
	}
}

func (s *Server) cookbookTools() []toolDef {
	return []toolDef{
		{
			tool: mcp.NewTool("mealie_cookbooks_list",
				mcp.WithDescription("List cookbooks."),
			),
			handle: func(ctx context.Context, _ map[string]any) (any, error) {
				return s.client.ListCookbooks(ctx)
			},
		},
		{
			tool: mcp.NewTool("mealie_cookbooks_get",
				mcp.WithDescription("Get a cookbook by id or slug."),
				mcp.WithString("cookbook_id", mcp.Description("The cookbook id or slug"), mcp.Required()),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				id, err := requiredString(args, "cookbook_id")
				if err != nil {
					return nil, err
				}
				return s.client.GetCookbook(ctx, id)
			},
		},
		{
			tool: mcp.NewTool("mealie_cookbooks_create",
				mcp.WithDescription("Create a cookbook."),
				mcp.WithString("name", mcp.Description("Cookbook name"), mcp.Required()),
				mcp.WithString("description", mcp.Description("Cookbook description")),
				mcp.WithString("slug", mcp.Description("URL slug (default derived from the name)")),
				mcp.WithBoolean("public", mcp.Description("Visible to everyone (default false)")),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				return s.client.CreateCookbook(ctx, mealie.CookbookInput{
					Name:        stringArg(args, "name"),
					Description: stringArg(args, "description"),
					Slug:        stringArg(args, "slug"),
					Public:      boolArg(args, "public", false),
				})
			},
		},
		{
			tool: mcp.NewTool("mealie_cookbooks_update",
				mcp.WithDescription("Update a cookbook. Omitted fields are left unchanged."),
				mcp.WithString("cookbook_id", mcp.Description("The cookbook id"), mcp.Required()),
				mcp.WithString("name", mcp.Description("New name")),
				mcp.WithString("description", mcp.Description("New description."+clearHint)),
				mcp.WithString("slug", mcp.Description("New slug")),
				mcp.WithBoolean("public", mcp.Description("New visibility")),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				id, err := requiredString(args, "cookbook_id")
				if err != nil {
					return nil, err
				}
				return s.client.UpdateCookbook(ctx, id, mealie.CookbookUpdate{
					Name:        stringArg(args, "name"),
					Description: updateArg(args, "description"),
					Slug:        stringArg(args, "slug"),
					Public:      optionalBool(args, "public"),
				})
			},
		},
		{
			tool: mcp.NewTool("mealie_cookbooks_delete",
				mcp.WithDescription("Delete a cookbook."),
				mcp.WithString("cookbook_id", mcp.Description("The cookbook id"), mcp.Required()),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				id, err := requiredString(args, "cookbook_id")
				if err != nil {
					return nil, err
				}
				if err := s.client.DeleteCookbook(ctx, id); err != nil {
					return nil, err
				}
				return deleted("cookbook", id), nil
			},
		},
	}
}
