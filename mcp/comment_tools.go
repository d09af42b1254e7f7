package mcp

import (
	"context"

	"github.com/hyperengineering/mealie-mcp"
	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) commentTools() []toolDef {
	return []toolDef{
		{
			tool: mcp.NewTool("mealie_comments_list",
				mcp.WithDescription("List the comments on a recipe."),
				mcp.WithString("recipe_slug", mcp.Description("The recipe slug"), mcp.Required()),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				slug, err := requiredString(args, "recipe_slug")
				if err != nil {
					return nil, err
				}
				comments, err := s.client.ListRecipeComments(ctx, slug)
				if err != nil {
					return nil, err
				}
				return map[string]any{"count": len(comments), "comments": comments}, nil
			},
		},
		{
			tool: mcp.NewTool("mealie_comments_create",
				mcp.WithDescription("Comment on a recipe."),
				mcp.WithString("recipe_id", mcp.Description("Recipe id or slug"), mcp.Required()),
				mcp.WithString("text", mcp.Description("Comment text"), mcp.Required()),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				recipe, err := requiredString(args, "recipe_id")
				if err != nil {
					return nil, err
				}
				return s.client.CreateComment(ctx, recipe, stringArg(args, "text"))
			},
		},
		{
			tool: mcp.NewTool("mealie_comments_get",
				mcp.WithDescription("Get a comment by id."),
				mcp.WithString("comment_id", mcp.Description("The comment id"), mcp.Required()),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				id, err := requiredString(args, "comment_id")
				if err != nil {
					return nil, err
				}
				return s.client.GetComment(ctx, id)
			},
		},
		{
			tool: mcp.NewTool("mealie_comments_update",
				mcp.WithDescription("Replace a comment's text."),
				mcp.WithString("comment_id", mcp.Description("The comment id"), mcp.Required()),
				mcp.WithString("text", mcp.Description("New text"), mcp.Required()),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				id, err := requiredString(args, "comment_id")
				if err != nil {
					return nil, err
				}
				return s.client.UpdateComment(ctx, id, stringArg(args, "text"))
			},
		},
		{
			tool: mcp.NewTool("mealie_comments_delete",
				mcp.WithDescription("Delete a comment."),
				mcp.WithString("comment_id", mcp.Description("The comment id"), mcp.Required()),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				id, err := requiredString(args, "comment_id")
				if err != nil {
					return nil, err
				}
				if err := s.client.DeleteComment(ctx, id); err != nil {
					return nil, err
				}
				return deleted("comment", id), nil
			},
		},
	}
}

func (s *Server) timelineTools() []toolDef {
	eventType := func(desc string) mcp.ToolOption {
		return mcp.WithString("event_type", mcp.Description(desc), mcp.Enum(mealie.TimelineEventTypes...))
	}
	return []toolDef{
		{
			tool: mcp.NewTool("mealie_timeline_list",
				mcp.WithDescription("List recipe timeline events, newest first. This is the cooking history."),
				mcp.WithNumber("page", mcp.Description("Page number, starting at 1")),
				mcp.WithNumber("per_page", mcp.Description("Events per page (default 50)")),
				mcp.WithString("recipe_id", mcp.Description("Only events of this recipe (id or slug)")),
				mcp.WithString("order_by", mcp.Description("Field to order by (default timestamp)")),
				mcp.WithString("order_direction", mcp.Description("asc or desc"), mcp.Enum("asc", "desc")),
				mcp.WithString("query_filter", mcp.Description("Upstream query filter expression")),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				q := mealie.TimelineQuery{
					PageQuery:   pageArgs(args),
					QueryFilter: stringArg(args, "query_filter"),
					Recipe:      stringArg(args, "recipe_id"),
				}
				q.OrderBy = stringArg(args, "order_by")
				q.OrderDirection = stringArg(args, "order_direction")
				return s.client.ListTimelineEvents(ctx, q)
			},
		},
		{
			tool: mcp.NewTool("mealie_timeline_get",
				mcp.WithDescription("Get a timeline event by id."),
				mcp.WithString("event_id", mcp.Description("The event id"), mcp.Required()),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				id, err := requiredString(args, "event_id")
				if err != nil {
					return nil, err
				}
				return s.client.GetTimelineEvent(ctx, id)
			},
		},
		{
			tool: mcp.NewTool("mealie_timeline_create",
				mcp.WithDescription("Add an event to a recipe's timeline, e.g. a note about how it turned out."),
				mcp.WithString("recipe_id", mcp.Description("Recipe id or slug"), mcp.Required()),
				mcp.WithString("subject", mcp.Description("Event title"), mcp.Required()),
				eventType("Event type (default info)"),
				mcp.WithString("event_message", mcp.Description("Event body")),
				mcp.WithString("user_id", mcp.Description("Author id (default the current user)")),
				mcp.WithString("timestamp", mcp.Description("RFC 3339 timestamp (default now)")),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				recipe, err := requiredString(args, "recipe_id")
				if err != nil {
					return nil, err
				}
				ts, err := mealie.ParseTimestamp("timestamp", stringArg(args, "timestamp"))
				if err != nil {
					return nil, err
				}
				return s.client.CreateTimelineEvent(ctx, mealie.TimelineEventInput{
					Recipe:    recipe,
					Subject:   stringArg(args, "subject"),
					EventType: stringArg(args, "event_type"),
					Message:   stringArg(args, "event_message"),
					UserID:    stringArg(args, "user_id"),
					Timestamp: ts,
				})
			},
		},
		{
			tool: mcp.NewTool("mealie_timeline_update",
				mcp.WithDescription("Update a timeline event. Omitted fields are left unchanged."),
				mcp.WithString("event_id", mcp.Description("The event id"), mcp.Required()),
				mcp.WithString("subject", mcp.Description("New title")),
				eventType("New event type"),
				mcp.WithString("event_message", mcp.Description("New body."+clearHint)),
				mcp.WithString("timestamp", mcp.Description("New RFC 3339 timestamp")),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				id, err := requiredString(args, "event_id")
				if err != nil {
					return nil, err
				}
				ts, err := mealie.ParseTimestamp("timestamp", stringArg(args, "timestamp"))
				if err != nil {
					return nil, err
				}
				return s.client.UpdateTimelineEvent(ctx, id, mealie.TimelineEventUpdate{
					Subject:   stringArg(args, "subject"),
					EventType: stringArg(args, "event_type"),
					Message:   updateArg(args, "event_message"),
					Timestamp: ts,
				})
			},
		},
		{
			tool: mcp.NewTool("mealie_timeline_delete",
				mcp.WithDescription("Delete a timeline event."),
				mcp.WithString("event_id", mcp.Description("The event id"), mcp.Required()),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				id, err := requiredString(args, "event_id")
				if err != nil {
					return nil, err
				}
				if err := s.client.DeleteTimelineEvent(ctx, id); err != nil {
					return nil, err
				}
				return deleted("timeline event", id), nil
			},
		},
		{
			tool: mcp.NewTool("mealie_timeline_update_image",
				mcp.WithDescription("Attach an image from a URL to a timeline event. A web page URL uses the page's preview image."),
				mcp.WithString("event_id", mcp.Description("The event id"), mcp.Required()),
				mcp.WithString("image_url", mcp.Description("Image or page URL"), mcp.Required()),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				id, err := requiredString(args, "event_id")
				if err != nil {
					return nil, err
				}
				return s.client.UploadTimelineImageFromURL(ctx, id, stringArg(args, "image_url"))
			},
		},
	}
}
