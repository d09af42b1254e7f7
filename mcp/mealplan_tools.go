package mcp

import (
	"context"
	"strings"

	"github.com/hyperengineering/mealie-mcp"
	"github.com/mark3labs/mcp-go/mcp"
)

var entryTypeNames = func() []string {
	names := make([]string, 0, len(mealie.EntryTypes))
	for _, t := range mealie.EntryTypes {
		names = append(names, string(t))
	}
	return names
}()

var entryTypeHint = " One of " + strings.Join(entryTypeNames, ", ") + "."

func (s *Server) mealPlanTools() []toolDef {
	return []toolDef{
		{
			tool: mcp.NewTool("mealie_mealplans_list",
				mcp.WithDescription("List meal plan entries in a date range. Defaults to today through the next seven days."),
				mcp.WithString("start_date", mcp.Description("First date, YYYY-MM-DD")),
				mcp.WithString("end_date", mcp.Description("Last date, YYYY-MM-DD")),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				return s.client.ListMealPlans(ctx, rangeArgs(args))
			},
		},
		{
			tool: mcp.NewTool("mealie_mealplans_today",
				mcp.WithDescription("List today's meal plan entries."),
			),
			handle: func(ctx context.Context, _ map[string]any) (any, error) {
				return s.client.TodayMealPlans(ctx)
			},
		},
		{
			tool: mcp.NewTool("mealie_mealplans_get",
				mcp.WithDescription("Get a meal plan entry by id."),
				mcp.WithString("mealplan_id", mcp.Description("The entry id"), mcp.Required()),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				id, err := requiredString(args, "mealplan_id")
				if err != nil {
					return nil, err
				}
				return s.client.GetMealPlan(ctx, id)
			},
		},
		{
			tool: mcp.NewTool("mealie_mealplans_get_by_date",
				mcp.WithDescription("List the meal plan entries for one date."),
				mcp.WithString("meal_date", mcp.Description("Date, YYYY-MM-DD"), mcp.Required()),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				date, err := requiredString(args, "meal_date")
				if err != nil {
					return nil, err
				}
				return s.client.MealPlansForDate(ctx, date)
			},
		},
		{
			tool: mcp.NewTool("mealie_mealplans_create",
				mcp.WithDescription("Plan a meal. Give either a recipe id or a title for a free-form note."),
				mcp.WithString("meal_date", mcp.Description("Date, YYYY-MM-DD"), mcp.Required()),
				mcp.WithString("entry_type", mcp.Description("Meal slot (default dinner)."+entryTypeHint), mcp.Enum(entryTypeNames...)),
				mcp.WithString("recipe_id", mcp.Description("Recipe id")),
				mcp.WithString("title", mcp.Description("Title for an entry without a recipe")),
				mcp.WithString("text", mcp.Description("Note text")),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				date, err := requiredString(args, "meal_date")
				if err != nil {
					return nil, err
				}
				return s.client.CreateMealPlan(ctx, mealie.MealPlanInput{
					Date:      date,
					EntryType: stringArg(args, "entry_type"),
					RecipeID:  stringArg(args, "recipe_id"),
					Title:     stringArg(args, "title"),
					Text:      stringArg(args, "text"),
				})
			},
		},
		{
			tool: mcp.NewTool("mealie_mealplans_update",
				mcp.WithDescription("Update a meal plan entry. Omitted fields are left unchanged."),
				mcp.WithString("mealplan_id", mcp.Description("The entry id"), mcp.Required()),
				mcp.WithString("meal_date", mcp.Description("New date, YYYY-MM-DD")),
				mcp.WithString("entry_type", mcp.Description("New meal slot."+entryTypeHint), mcp.Enum(entryTypeNames...)),
				mcp.WithString("recipe_id", mcp.Description("New recipe id."+clearHint)),
				mcp.WithString("title", mcp.Description("New title."+clearHint)),
				mcp.WithString("text", mcp.Description("New note text."+clearHint)),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				id, err := requiredString(args, "mealplan_id")
				if err != nil {
					return nil, err
				}
				return s.client.UpdateMealPlan(ctx, id, mealPlanUpdateArgs(args))
			},
		},
		{
			tool: mcp.NewTool("mealie_mealplans_delete",
				mcp.WithDescription("Delete a meal plan entry."),
				mcp.WithString("mealplan_id", mcp.Description("The entry id"), mcp.Required()),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				id, err := requiredString(args, "mealplan_id")
				if err != nil {
					return nil, err
				}
				if err := s.client.DeleteMealPlan(ctx, id); err != nil {
					return nil, err
				}
				return deleted("meal plan entry", id), nil
			},
		},
		{
			tool: mcp.NewTool("mealie_mealplans_random",
				mcp.WithDescription("Plan a random recipe, honoring the household's meal plan rules."),
				mcp.WithString("meal_date", mcp.Description("Date, YYYY-MM-DD (default today)")),
				mcp.WithString("entry_type", mcp.Description("Meal slot (default dinner)."+entryTypeHint), mcp.Enum(entryTypeNames...)),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				return s.client.RandomMealPlan(ctx, stringArg(args, "meal_date"), stringArg(args, "entry_type"))
			},
		},
		{
			tool: mcp.NewTool("mealie_mealplans_search",
				mcp.WithDescription("Find meal plan entries whose recipe name, title or text contains the query. Defaults to 30 days either side of today."),
				mcp.WithString("query", mcp.Description("Text to look for"), mcp.Required()),
				mcp.WithString("start_date", mcp.Description("First date, YYYY-MM-DD")),
				mcp.WithString("end_date", mcp.Description("Last date, YYYY-MM-DD")),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				q, err := requiredString(args, "query")
				if err != nil {
					return nil, err
				}
				return s.client.SearchMealPlans(ctx, q, rangeArgs(args))
			},
		},
		{
			tool: mcp.NewTool("mealie_mealplans_delete_range",
				mcp.WithDescription("Delete every meal plan entry between two dates. Each deletion is reported separately."),
				mcp.WithString("start_date", mcp.Description("First date, YYYY-MM-DD"), mcp.Required()),
				mcp.WithString("end_date", mcp.Description("Last date, YYYY-MM-DD"), mcp.Required()),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				return s.client.DeleteMealPlansInRange(ctx, rangeArgs(args))
			},
		},
		{
			tool: mcp.NewTool("mealie_mealplans_update_batch",
				mcp.WithDescription("Update several meal plan entries. Each object takes mealplan_id plus the fields of mealie_mealplans_update. Failures are reported per entry."),
				mcp.WithArray("updates",
					mcp.Description("Update objects"),
					mcp.Items(map[string]any{"type": "object"}),
					mcp.Required(),
				),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				updates, err := objectSliceArg(args, "updates")
				if err != nil {
					return nil, err
				}
				items := make([]mealie.MealPlanBatchItem, 0, len(updates))
				for _, u := range updates {
					items = append(items, mealie.MealPlanBatchItem{
						ID:     stringArg(u, "mealplan_id"),
						Update: mealPlanUpdateArgs(u),
					})
				}
				return s.client.UpdateMealPlans(ctx, items)
			},
		},
	}
}

func (s *Server) mealPlanRuleTools() []toolDef {
	return []toolDef{
		{
			tool: mcp.NewTool("mealie_mealplan_rules_list",
				mcp.WithDescription("List meal plan rules."),
			),
			handle: func(ctx context.Context, _ map[string]any) (any, error) {
				return s.client.ListMealPlanRules(ctx)
			},
		},
		{
			tool: mcp.NewTool("mealie_mealplan_rules_get",
				mcp.WithDescription("Get a meal plan rule by id."),
				mcp.WithString("rule_id", mcp.Description("The rule id"), mcp.Required()),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				id, err := requiredString(args, "rule_id")
				if err != nil {
					return nil, err
				}
				return s.client.GetMealPlanRule(ctx, id)
			},
		},
		{
			tool: mcp.NewTool("mealie_mealplan_rules_create",
				mcp.WithDescription("Create a rule limiting which recipes random planning may pick. Tags and categories are given by name and created when missing."),
				mcp.WithString("name", mcp.Description("Rule name"), mcp.Required()),
				mcp.WithString("entry_type", mcp.Description("Meal slot the rule applies to."+entryTypeHint), mcp.Enum(entryTypeNames...)),
				mcp.WithString("day", mcp.Description("Weekday the rule applies to, e.g. monday (default any day)")),
				mcp.WithArray("tags", mcp.Description("Tag names"), mcp.WithStringItems()),
				mcp.WithArray("categories", mcp.Description("Category names"), mcp.WithStringItems()),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				return s.client.CreateMealPlanRule(ctx, ruleArgs(args))
			},
		},
		{
			tool: mcp.NewTool("mealie_mealplan_rules_update",
				mcp.WithDescription("Update a meal plan rule. Given tags and categories replace the rule's current ones."),
				mcp.WithString("rule_id", mcp.Description("The rule id"), mcp.Required()),
				mcp.WithString("name", mcp.Description("New name")),
				mcp.WithString("entry_type", mcp.Description("New meal slot."+entryTypeHint), mcp.Enum(entryTypeNames...)),
				mcp.WithString("day", mcp.Description("New weekday")),
				mcp.WithArray("tags", mcp.Description("Tag names"), mcp.WithStringItems()),
				mcp.WithArray("categories", mcp.Description("Category names"), mcp.WithStringItems()),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				id, err := requiredString(args, "rule_id")
				if err != nil {
					return nil, err
				}
				return s.client.UpdateMealPlanRule(ctx, id, ruleArgs(args))
			},
		},
		{
			tool: mcp.NewTool("mealie_mealplan_rules_delete",
				mcp.WithDescription("Delete a meal plan rule."),
				mcp.WithString("rule_id", mcp.Description("The rule id"), mcp.Required()),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				id, err := requiredString(args, "rule_id")
				if err != nil {
					return nil, err
				}
				if err := s.client.DeleteMealPlanRule(ctx, id); err != nil {
					return nil, err
				}
				return deleted("meal plan rule", id), nil
			},
		},
	}
}

func rangeArgs(args map[string]any) mealie.MealPlanRange {
	return mealie.MealPlanRange{Start: stringArg(args, "start_date"), End: stringArg(args, "end_date")}
}

func mealPlanUpdateArgs(args map[string]any) mealie.MealPlanUpdate {
	return mealie.MealPlanUpdate{
		Date:      stringArg(args, "meal_date"),
		EntryType: stringArg(args, "entry_type"),
		RecipeID:  updateArg(args, "recipe_id"),
		Title:     updateArg(args, "title"),
		Text:      updateArg(args, "text"),
	}
}

func ruleArgs(args map[string]any) mealie.MealPlanRuleInput {
	return mealie.MealPlanRuleInput{
		Name:       stringArg(args, "name"),
		EntryType:  stringArg(args, "entry_type"),
		Day:        stringArg(args, "day"),
		Tags:       stringSliceArg(args, "tags"),
		Categories: stringSliceArg(args, "categories"),
	}
}
