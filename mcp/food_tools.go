package mcp

import (
	"context"

	"github.com/hyperengineering/mealie-mcp"
	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) foodTools() []toolDef {
	return []toolDef{
		{
			tool: mcp.NewTool("mealie_foods_list",
				mcp.WithDescription("List ingredient foods one page at a time."),
				mcp.WithNumber("page", mcp.Description("Page number, starting at 1")),
				mcp.WithNumber("per_page", mcp.Description("Foods per page (default 50)")),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				return s.client.ListFoods(ctx, pageArgs(args))
			},
		},
		{
			tool: mcp.NewTool("mealie_foods_get",
				mcp.WithDescription("Get a food by id."),
				mcp.WithString("food_id", mcp.Description("The food id"), mcp.Required()),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				id, err := requiredString(args, "food_id")
				if err != nil {
					return nil, err
				}
				return s.client.GetFood(ctx, id)
			},
		},
		{
			tool: mcp.NewTool("mealie_foods_create",
				mcp.WithDescription("Create a food."),
				mcp.WithString("name", mcp.Description("Food name"), mcp.Required()),
				mcp.WithString("description", mcp.Description("Food description")),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				name, err := requiredString(args, "name")
				if err != nil {
					return nil, err
				}
				return s.client.CreateFood(ctx, name, stringArg(args, "description"))
			},
		},
		{
			tool: mcp.NewTool("mealie_foods_update",
				mcp.WithDescription("Update a food. Omitted fields are left unchanged."),
				mcp.WithString("food_id", mcp.Description("The food id"), mcp.Required()),
				mcp.WithString("name", mcp.Description("New name")),
				mcp.WithString("description", mcp.Description("New description."+clearHint)),
				mcp.WithString("label_id", mcp.Description("Shopping label id."+clearHint)),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				id, err := requiredString(args, "food_id")
				if err != nil {
					return nil, err
				}
				return s.client.UpdateFood(ctx, id, mealie.FoodUpdate{
					Name:        stringArg(args, "name"),
					Description: updateArg(args, "description"),
					LabelID:     updateArg(args, "label_id"),
				})
			},
		},
		{
			tool: mcp.NewTool("mealie_foods_delete",
				mcp.WithDescription("Delete a food."),
				mcp.WithString("food_id", mcp.Description("The food id"), mcp.Required()),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				id, err := requiredString(args, "food_id")
				if err != nil {
					return nil, err
				}
				if err := s.client.DeleteFood(ctx, id); err != nil {
					return nil, err
				}
				return deleted("food", id), nil
			},
		},
		{
			tool: mcp.NewTool("mealie_foods_merge",
				mcp.WithDescription("Merge one food into another. Every reference to the source moves to the target and the source is removed."),
				mcp.WithString("from_food_id", mcp.Description("Food to merge away"), mcp.Required()),
				mcp.WithString("to_food_id", mcp.Description("Food to keep"), mcp.Required()),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				return s.client.MergeFoods(ctx, stringArg(args, "from_food_id"), stringArg(args, "to_food_id"))
			},
		},
	}
}

func (s *Server) unitTools() []toolDef {
	return []toolDef{
		{
			tool: mcp.NewTool("mealie_units_list",
				mcp.WithDescription("List ingredient units one page at a time."),
				mcp.WithNumber("page", mcp.Description("Page number, starting at 1")),
				mcp.WithNumber("per_page", mcp.Description("Units per page (default 50)")),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				return s.client.ListUnits(ctx, pageArgs(args))
			},
		},
		{
			tool: mcp.NewTool("mealie_units_get",
				mcp.WithDescription("Get a unit by id."),
				mcp.WithString("unit_id", mcp.Description("The unit id"), mcp.Required()),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				id, err := requiredString(args, "unit_id")
				if err != nil {
					return nil, err
				}
				return s.client.GetUnit(ctx, id)
			},
		},
		{
			tool: mcp.NewTool("mealie_units_create",
				mcp.WithDescription("Create a unit."),
				mcp.WithString("name", mcp.Description("Unit name"), mcp.Required()),
				mcp.WithString("description", mcp.Description("Unit description")),
				mcp.WithString("abbreviation", mcp.Description(`Abbreviation, e.g. "tbsp"`)),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				name, err := requiredString(args, "name")
				if err != nil {
					return nil, err
				}
				return s.client.CreateUnit(ctx, name, stringArg(args, "description"), stringArg(args, "abbreviation"))
			},
		},
		{
			tool: mcp.NewTool("mealie_units_update",
				mcp.WithDescription("Update a unit. Only the given fields are sent."),
				mcp.WithString("unit_id", mcp.Description("The unit id"), mcp.Required()),
				mcp.WithString("name", mcp.Description("New name")),
				mcp.WithString("description", mcp.Description("New description."+clearHint)),
				mcp.WithString("abbreviation", mcp.Description("New abbreviation."+clearHint)),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				id, err := requiredString(args, "unit_id")
				if err != nil {
					return nil, err
				}
				return s.client.UpdateUnit(ctx, id, mealie.UnitUpdate{
					Name:         stringArg(args, "name"),
					Description:  updateArg(args, "description"),
					Abbreviation: updateArg(args, "abbreviation"),
				})
			},
		},
		{
			tool: mcp.NewTool("mealie_units_delete",
				mcp.WithDescription("Delete a unit."),
				mcp.WithString("unit_id", mcp.Description("The unit id"), mcp.Required()),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				id, err := requiredString(args, "unit_id")
				if err != nil {
					return nil, err
				}
				if err := s.client.DeleteUnit(ctx, id); err != nil {
					return nil, err
				}
				return deleted("unit", id), nil
			},
		},
		{
			tool: mcp.NewTool("mealie_units_merge",
				mcp.WithDescription("Merge one unit into another."),
				mcp.WithString("from_unit_id", mcp.Description("Unit to merge away"), mcp.Required()),
				mcp.WithString("to_unit_id", mcp.Description("Unit to keep"), mcp.Required()),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				return s.client.MergeUnits(ctx, stringArg(args, "from_unit_id"), stringArg(args, "to_unit_id"))
			},
		},
	}
}

func pageArgs(args map[string]any) mealie.PageQuery {
	return mealie.PageQuery{
		Page:    intArg(args, "page", 1),
		PerPage: intArg(args, "per_page", 50),
	}
}
