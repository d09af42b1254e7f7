package mcp

import (
	"context"

	"github.com/hyperengineering/mealie-mcp"
	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) shoppingTools() []toolDef {
	return []toolDef{
		{
			tool: mcp.NewTool("mealie_shopping_lists_list",
				mcp.WithDescription("List shopping lists."),
			),
			handle: func(ctx context.Context, _ map[string]any) (any, error) {
				return s.client.ListShoppingLists(ctx)
			},
		},
		{
			tool: mcp.NewTool("mealie_shopping_lists_get",
				mcp.WithDescription("Get a shopping list with its items."),
				mcp.WithString("list_id", mcp.Description("The list id"), mcp.Required()),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				id, err := requiredString(args, "list_id")
				if err != nil {
					return nil, err
				}
				return s.client.GetShoppingList(ctx, id)
			},
		},
		{
			tool: mcp.NewTool("mealie_shopping_lists_create",
				mcp.WithDescription("Create an empty shopping list."),
				mcp.WithString("name", mcp.Description("List name"), mcp.Required()),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				name, err := requiredString(args, "name")
				if err != nil {
					return nil, err
				}
				return s.client.CreateShoppingList(ctx, name)
			},
		},
		{
			tool: mcp.NewTool("mealie_shopping_lists_delete",
				mcp.WithDescription("Delete a shopping list."),
				mcp.WithString("list_id", mcp.Description("The list id"), mcp.Required()),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				id, err := requiredString(args, "list_id")
				if err != nil {
					return nil, err
				}
				if err := s.client.DeleteShoppingList(ctx, id); err != nil {
					return nil, err
				}
				return deleted("shopping list", id), nil
			},
		},
		{
			tool: mcp.NewTool("mealie_shopping_lists_clear_checked",
				mcp.WithDescription("Remove every checked item from a shopping list."),
				mcp.WithString("list_id", mcp.Description("The list id"), mcp.Required()),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				id, err := requiredString(args, "list_id")
				if err != nil {
					return nil, err
				}
				return s.client.ClearCheckedItems(ctx, id)
			},
		},
		{
			tool: mcp.NewTool("mealie_shopping_items_add",
				mcp.WithDescription("Add an item to a shopping list. Unit and food are names and are created when missing."),
				mcp.WithString("list_id", mcp.Description("The list id"), mcp.Required()),
				mcp.WithString("note", mcp.Description("Free text for the item")),
				mcp.WithNumber("quantity", mcp.Description("Quantity (default 1)")),
				mcp.WithString("unit", mcp.Description("Unit name")),
				mcp.WithString("food", mcp.Description("Food name")),
				mcp.WithString("display", mcp.Description("Display text")),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				listID, err := requiredString(args, "list_id")
				if err != nil {
					return nil, err
				}
				in := shoppingItemArgs(args)
				in.ListID = listID
				return s.client.AddShoppingItem(ctx, in)
			},
		},
		{
			tool: mcp.NewTool("mealie_shopping_items_add_bulk",
				mcp.WithDescription("Add several items to a shopping list. Each item is a note string or an object with note, quantity, unit, food and display. Failures are reported per item."),
				mcp.WithString("list_id", mcp.Description("The list id"), mcp.Required()),
				mcp.WithArray("items", mcp.Description("Items to add"), mcp.Required()),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				listID, err := requiredString(args, "list_id")
				if err != nil {
					return nil, err
				}
				raw, _ := args["items"].([]any)
				items := make([]mealie.ShoppingItemInput, 0, len(raw))
				for _, item := range raw {
					switch v := item.(type) {
					case string:
						items = append(items, mealie.ShoppingItemInput{Note: v})
					case map[string]any:
						items = append(items, shoppingItemArgs(v))
					default:
						items = append(items, mealie.ShoppingItemInput{})
					}
				}
				return s.client.AddShoppingItems(ctx, listID, items)
			},
		},
		{
			tool: mcp.NewTool("mealie_shopping_items_check",
				mcp.WithDescription("Check or uncheck a shopping list item."),
				mcp.WithString("item_id", mcp.Description("The item id"), mcp.Required()),
				mcp.WithBoolean("checked", mcp.Description("New checked state (default true)")),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				id, err := requiredString(args, "item_id")
				if err != nil {
					return nil, err
				}
				return s.client.CheckShoppingItem(ctx, id, boolArg(args, "checked", true))
			},
		},
		{
			tool: mcp.NewTool("mealie_shopping_items_delete",
				mcp.WithDescription("Delete a shopping list item."),
				mcp.WithString("item_id", mcp.Description("The item id"), mcp.Required()),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				id, err := requiredString(args, "item_id")
				if err != nil {
					return nil, err
				}
				if err := s.client.DeleteShoppingItem(ctx, id); err != nil {
					return nil, err
				}
				return deleted("shopping item", id), nil
			},
		},
		{
			tool: mcp.NewTool("mealie_shopping_items_add_recipe",
				mcp.WithDescription("Add a recipe's ingredients to a shopping list."),
				mcp.WithString("list_id", mcp.Description("The list id"), mcp.Required()),
				mcp.WithString("recipe_id", mcp.Description("The recipe id"), mcp.Required()),
				mcp.WithNumber("scale", mcp.Description("Serving multiple (default 1)")),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				scale, _ := floatArg(args, "scale")
				return s.client.AddRecipeToShoppingList(ctx, stringArg(args, "list_id"), stringArg(args, "recipe_id"), scale)
			},
		},
		{
			tool: mcp.NewTool("mealie_shopping_items_remove_recipe",
				mcp.WithDescription("Remove a recipe's ingredients from a shopping list."),
				mcp.WithString("list_id", mcp.Description("The list id"), mcp.Required()),
				mcp.WithString("recipe_id", mcp.Description("The recipe id"), mcp.Required()),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				return s.client.RemoveRecipeFromShoppingList(ctx, stringArg(args, "list_id"), stringArg(args, "recipe_id"))
			},
		},
		{
			tool: mcp.NewTool("mealie_shopping_generate_from_mealplan",
				mcp.WithDescription("Create a shopping list from every recipe planned in a date range. Defaults to today through the next six days."),
				mcp.WithString("start_date", mcp.Description("First date, YYYY-MM-DD")),
				mcp.WithString("end_date", mcp.Description("Last date, YYYY-MM-DD")),
				mcp.WithString("list_name", mcp.Description("Name for the new list")),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				return s.client.GenerateShoppingListFromMealPlan(ctx, rangeArgs(args), stringArg(args, "list_name"))
			},
		},
	}
}

func shoppingItemArgs(args map[string]any) mealie.ShoppingItemInput {
	quantity, _ := floatArg(args, "quantity")
	return mealie.ShoppingItemInput{
		Note:     stringArg(args, "note"),
		Quantity: quantity,
		Unit:     stringArg(args, "unit"),
		Food:     stringArg(args, "food"),
		Display:  stringArg(args, "display"),
	}
}
