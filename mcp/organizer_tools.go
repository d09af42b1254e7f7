package mcp

import (
	"context"

	"github.com/hyperengineering/mealie-mcp"
	"github.com/mark3labs/mcp-go/mcp"
)

// organizerTools registers the same five tools for tags, categories and
// tools.
func (s *Server) organizerTools() []toolDef {
	var defs []toolDef
	for _, kind := range []mealie.EntityKind{mealie.KindCategory, mealie.KindTag, mealie.KindTool} {
		defs = append(defs, s.organizerToolSet(kind)...)
	}
	return defs
}

func (s *Server) organizerToolSet(kind mealie.EntityKind) []toolDef {
	prefix := "mealie_" + string(kind)
	noun := kind.Singular()
	idKey := noun + "_id"

	create := mcp.NewTool(prefix+"_create",
		mcp.WithDescription("Create a "+noun+"."),
		mcp.WithString("name", mcp.Description("Name of the "+noun), mcp.Required()),
	)
	if kind == mealie.KindTool {
		create = mcp.NewTool(prefix+"_create",
			mcp.WithDescription("Create a kitchen tool."),
			mcp.WithString("name", mcp.Description("Name of the tool"), mcp.Required()),
			mcp.WithBoolean("on_hand", mcp.Description("Whether the tool is on hand (default false)")),
		)
	}

	return []toolDef{
		{
			tool: mcp.NewTool(prefix+"_list",
				mcp.WithDescription("List every "+noun+"."),
			),
			handle: func(ctx context.Context, _ map[string]any) (any, error) {
				return s.client.ListOrganizers(ctx, kind)
			},
		},
		{
			tool: mcp.NewTool(prefix+"_get",
				mcp.WithDescription("Get a "+noun+" by id."),
				mcp.WithString(idKey, mcp.Description("The "+noun+" id"), mcp.Required()),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				id, err := requiredString(args, idKey)
				if err != nil {
					return nil, err
				}
				return s.client.GetOrganizer(ctx, kind, id)
			},
		},
		{
			tool: create,
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				name, err := requiredString(args, "name")
				if err != nil {
					return nil, err
				}
				return s.client.CreateOrganizer(ctx, kind, name, boolArg(args, "on_hand", false))
			},
		},
		{
			tool: mcp.NewTool(prefix+"_update",
				mcp.WithDescription("Rename a "+noun+"."),
				mcp.WithString(idKey, mcp.Description("The "+noun+" id"), mcp.Required()),
				mcp.WithString("name", mcp.Description("New name"), mcp.Required()),
				mcp.WithString("slug", mcp.Description("New slug (default unchanged)")),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				id, err := requiredString(args, idKey)
				if err != nil {
					return nil, err
				}
				name, err := requiredString(args, "name")
				if err != nil {
					return nil, err
				}
				return s.client.UpdateOrganizer(ctx, kind, id, name, stringArg(args, "slug"))
			},
		},
		{
			tool: mcp.NewTool(prefix+"_delete",
				mcp.WithDescription("Delete a "+noun+"."),
				mcp.WithString(idKey, mcp.Description("The "+noun+" id"), mcp.Required()),
			),
			handle: func(ctx context.Context, args map[string]any) (any, error) {
				id, err := requiredString(args, idKey)
				if err != nil {
					return nil, err
				}
				if err := s.client.DeleteOrganizer(ctx, kind, id); err != nil {
					return nil, err
				}
				return deleted(noun, id), nil
			},
		},
	}
}
