package mcp

import (
	"context"
	"strings"

	"github.com/hyperengineering/mealie-mcp"
	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) webhookTools() []toolDef {
	return []toolDef{
		{
			tool: mcp.NewTool("mealie_webhooks_list",
				mcp.WithDescription("List the household's scheduled webhooks."),
			),
			handle: func(ctx context.Context, _ map[string]any) (any, error) {
				hooks, err := s.client.ListWebhooks(ctx)
				if err != nil {
					return nil, err
				}
				return map[string]any{"total": len(hooks), "webhooks": hooks}, nil
			},
		},
		{
			tool: mcp.NewTool("mealie_webhooks_get",
				mcp.WithDescription("Get a webhook by id."),
				mcp.WithString("webhook_id", mcp.Description("The webhook id"), mcp.Required()),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				id, err := requiredString(args, "webhook_id")
				if err != nil {
					return nil, err
				}
				return s.client.GetWebhook(ctx, id)
			},
		},
		{
			tool: mcp.NewTool("mealie_webhooks_create",
				mcp.WithDescription("Create a webhook that posts the day's meal plan to a URL at a fixed time each day."),
				mcp.WithString("url", mcp.Description("Target URL"), mcp.Required()),
				mcp.WithString("scheduled_time", mcp.Description("Time of day, HH:MM"), mcp.Required()),
				mcp.WithString("name", mcp.Description("Webhook name")),
				mcp.WithBoolean("enabled", mcp.Description("Enabled (default true)")),
				mcp.WithString("webhook_type", mcp.Description("Payload type (default mealplan)"), mcp.Enum(mealie.WebhookTypes...)),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				return s.client.CreateWebhook(ctx, mealie.WebhookInput{
					Name:          stringArg(args, "name"),
					URL:           stringArg(args, "url"),
					Type:          stringArg(args, "webhook_type"),
					ScheduledTime: stringArg(args, "scheduled_time"),
					Enabled:       boolArg(args, "enabled", true),
				})
			},
		},
		{
			tool: mcp.NewTool("mealie_webhooks_update",
				mcp.WithDescription("Update a webhook. Omitted fields are left unchanged."),
				mcp.WithString("webhook_id", mcp.Description("The webhook id"), mcp.Required()),
				mcp.WithString("url", mcp.Description("New target URL")),
				mcp.WithString("scheduled_time", mcp.Description("New time of day, HH:MM")),
				mcp.WithString("name", mcp.Description("New name")),
				mcp.WithBoolean("enabled", mcp.Description("Enable or disable")),
				mcp.WithString("webhook_type", mcp.Description("New payload type"), mcp.Enum(mealie.WebhookTypes...)),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				id, err := requiredString(args, "webhook_id")
				if err != nil {
					return nil, err
				}
				return s.client.UpdateWebhook(ctx, id, mealie.WebhookUpdate{
					Name:          stringArg(args, "name"),
					URL:           stringArg(args, "url"),
					Type:          stringArg(args, "webhook_type"),
					ScheduledTime: stringArg(args, "scheduled_time"),
					Enabled:       optionalBool(args, "enabled"),
				})
			},
		},
		{
			tool: mcp.NewTool("mealie_webhooks_delete",
				mcp.WithDescription("Delete a webhook."),
				mcp.WithString("webhook_id", mcp.Description("The webhook id"), mcp.Required()),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				id, err := requiredString(args, "webhook_id")
				if err != nil {
					return nil, err
				}
				if err := s.client.DeleteWebhook(ctx, id); err != nil {
					return nil, err
				}
				return deleted("webhook", id), nil
			},
		},
		{
			tool: mcp.NewTool("mealie_webhooks_test",
				mcp.WithDescription("Fire a webhook once, now."),
				mcp.WithString("webhook_id", mcp.Description("The webhook id"), mcp.Required()),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				id, err := requiredString(args, "webhook_id")
				if err != nil {
					return nil, err
				}
				if err := s.client.TestWebhook(ctx, id); err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "message": "Test webhook request sent", "webhook_id": id}, nil
			},
		},
		{
			tool: mcp.NewTool("mealie_webhooks_rerun",
				mcp.WithDescription("Fire every webhook scheduled for today again."),
			),
			handle: func(ctx context.Context, _ map[string]any) (any, error) {
				if err := s.client.RerunWebhooks(ctx); err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "message": "Today's webhooks rerun"}, nil
			},
		},
	}
}

func (s *Server) notificationTools() []toolDef {
	options := mcp.WithObject("options",
		mcp.Description("Event switches, e.g. {\"mealplanEntryCreated\": true}. Known events: "+strings.Join(mealie.NotificationEvents, ", ")),
	)
	return []toolDef{
		{
			tool: mcp.NewTool("mealie_notifications_list",
				mcp.WithDescription("List the household's event notifiers."),
			),
			handle: func(ctx context.Context, _ map[string]any) (any, error) {
				list, err := s.client.ListNotifiers(ctx)
				if err != nil {
					return nil, err
				}
				return map[string]any{"total": len(list), "notifications": list}, nil
			},
		},
		{
			tool: mcp.NewTool("mealie_notifications_get",
				mcp.WithDescription("Get an event notifier by id."),
				mcp.WithString("notification_id", mcp.Description("The notifier id"), mcp.Required()),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				id, err := requiredString(args, "notification_id")
				if err != nil {
					return nil, err
				}
				return s.client.GetNotifier(ctx, id)
			},
		},
		{
			tool: mcp.NewTool("mealie_notifications_create",
				mcp.WithDescription("Create an event notifier that sends household events to an Apprise URL."),
				mcp.WithString("name", mcp.Description("Notifier name"), mcp.Required()),
				mcp.WithString("apprise_url", mcp.Description("Apprise URL, e.g. discord://id/token")),
				mcp.WithBoolean("enabled", mcp.Description("Enabled (default true)")),
				options,
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				opts, err := boolMapArg(args, "options")
				if err != nil {
					return nil, err
				}
				return s.client.CreateNotifier(ctx, mealie.NotifierInput{
					Name:       stringArg(args, "name"),
					AppriseURL: stringArg(args, "apprise_url"),
					Enabled:    boolArg(args, "enabled", true),
					Options:    opts,
				})
			},
		},
		{
			tool: mcp.NewTool("mealie_notifications_update",
				mcp.WithDescription("Update an event notifier. Given options are merged into the current ones."),
				mcp.WithString("notification_id", mcp.Description("The notifier id"), mcp.Required()),
				mcp.WithString("name", mcp.Description("New name")),
				mcp.WithString("apprise_url", mcp.Description("New Apprise URL")),
				mcp.WithBoolean("enabled", mcp.Description("Enable or disable")),
				options,
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				id, err := requiredString(args, "notification_id")
				if err != nil {
					return nil, err
				}
				opts, err := boolMapArg(args, "options")
				if err != nil {
					return nil, err
				}
				return s.client.UpdateNotifier(ctx, id, mealie.NotifierUpdate{
					Name:       stringArg(args, "name"),
					AppriseURL: stringArg(args, "apprise_url"),
					Enabled:    optionalBool(args, "enabled"),
					Options:    opts,
				})
			},
		},
		{
			tool: mcp.NewTool("mealie_notifications_delete",
				mcp.WithDescription("Delete an event notifier."),
				mcp.WithString("notification_id", mcp.Description("The notifier id"), mcp.Required()),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				id, err := requiredString(args, "notification_id")
				if err != nil {
					return nil, err
				}
				if err := s.client.DeleteNotifier(ctx, id); err != nil {
					return nil, err
				}
				return deleted("notification", id), nil
			},
		},
		{
			tool: mcp.NewTool("mealie_notifications_test",
				mcp.WithDescription("Send a test message through a notifier."),
				mcp.WithString("notification_id", mcp.Description("The notifier id"), mcp.Required()),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				id, err := requiredString(args, "notification_id")
				if err != nil {
					return nil, err
				}
				if err := s.client.TestNotifier(ctx, id); err != nil {
					return nil, err
				}
				return map[string]any{"success": true, "message": "Test notification sent", "notification_id": id}, nil
			},
		},
	}
}

func (s *Server) recipeActionTools() []toolDef {
	return []toolDef{
		{
			tool: mcp.NewTool("mealie_recipe_actions_list",
				mcp.WithDescription("List recipe actions."),
				mcp.WithNumber("page", mcp.Description("Page number, starting at 1")),
				mcp.WithNumber("per_page", mcp.Description("Actions per page (default 50)")),
				mcp.WithString("order_by", mcp.Description("Field to order by")),
				mcp.WithString("order_direction", mcp.Description("asc or desc"), mcp.Enum("asc", "desc")),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				q := pageArgs(args)
				q.OrderBy = stringArg(args, "order_by")
				q.OrderDirection = stringArg(args, "order_direction")
				return s.client.ListRecipeActions(ctx, q)
			},
		},
		{
			tool: mcp.NewTool("mealie_recipe_actions_get",
				mcp.WithDescription("Get a recipe action by id."),
				mcp.WithString("action_id", mcp.Description("The action id"), mcp.Required()),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				id, err := requiredString(args, "action_id")
				if err != nil {
					return nil, err
				}
				return s.client.GetRecipeAction(ctx, id)
			},
		},
		{
			tool: mcp.NewTool("mealie_recipe_actions_create",
				mcp.WithDescription("Create a recipe action. A link action opens its URL with the recipe slug appended; a post action sends the recipe to its URL."),
				mcp.WithString("action_type", mcp.Description("link or post"), mcp.Enum(mealie.RecipeActionTypes...), mcp.Required()),
				mcp.WithString("title", mcp.Description("Display title"), mcp.Required()),
				mcp.WithString("url", mcp.Description("Link prefix or POST target"), mcp.Required()),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				return s.client.CreateRecipeAction(ctx, stringArg(args, "action_type"), stringArg(args, "title"), stringArg(args, "url"))
			},
		},
		{
			tool: mcp.NewTool("mealie_recipe_actions_update",
				mcp.WithDescription("Update a recipe action. Omitted fields are left unchanged."),
				mcp.WithString("action_id", mcp.Description("The action id"), mcp.Required()),
				mcp.WithString("action_type", mcp.Description("link or post"), mcp.Enum(mealie.RecipeActionTypes...)),
				mcp.WithString("title", mcp.Description("New title")),
				mcp.WithString("url", mcp.Description("New URL")),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				id, err := requiredString(args, "action_id")
				if err != nil {
					return nil, err
				}
				return s.client.UpdateRecipeAction(ctx, id, mealie.RecipeActionUpdate{
					ActionType: stringArg(args, "action_type"),
					Title:      stringArg(args, "title"),
					URL:        stringArg(args, "url"),
				})
			},
		},
		{
			tool: mcp.NewTool("mealie_recipe_actions_delete",
				mcp.WithDescription("Delete a recipe action."),
				mcp.WithString("action_id", mcp.Description("The action id"), mcp.Required()),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				id, err := requiredString(args, "action_id")
				if err != nil {
					return nil, err
				}
				if err := s.client.DeleteRecipeAction(ctx, id); err != nil {
					return nil, err
				}
				return deleted("recipe action", id), nil
			},
		},
		{
			tool: mcp.NewTool("mealie_recipe_actions_trigger",
				mcp.WithDescription("Run a recipe action for a recipe. Link actions return the URL to open."),
				mcp.WithString("action_id", mcp.Description("The action id"), mcp.Required()),
				mcp.WithString("recipe_slug", mcp.Description("The recipe slug"), mcp.Required()),
				mcp.WithNumber("scale", mcp.Description("Recipe scale sent with post actions (default 1)")),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				id, err := requiredString(args, "action_id")
				if err != nil {
					return nil, err
				}
				scale, _ := floatArg(args, "scale")
				return s.client.TriggerRecipeAction(ctx, id, stringArg(args, "recipe_slug"), scale)
			},
		},
	}
}
