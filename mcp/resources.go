package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/hyperengineering/mealie-mcp"
	"github.com/mark3labs/mcp-go/mcp"
)

const jsonMIME = "application/json"

// resourceDef is a static resource or a single-variable template such as
// recipes://{slug}. Templates match any URI that starts with prefix.
type resourceDef struct {
	uri         string
	prefix      string
	name        string
	description string
	read        func(ctx context.Context, param string) (any, error)
}

func (d resourceDef) isTemplate() bool { return d.prefix != "" }

func (s *Server) resourceDefs() []resourceDef {
	return []resourceDef{
		{
			uri:         "recipes://list",
			name:        "All recipes",
			description: "Summaries of every recipe",
			read: func(ctx context.Context, _ string) (any, error) {
				return s.client.ListRecipeSummaries(ctx)
			},
		},
		{
			uri:         "recipes://{slug}",
			prefix:      "recipes://",
			name:        "Recipe",
			description: "Full details of one recipe",
			read: func(ctx context.Context, slug string) (any, error) {
				return s.client.GetRecipe(ctx, slug)
			},
		},
		{
			uri:         "mealplans://current",
			name:        "Current meal plan",
			description: "Meal plan entries for today and the coming week",
			read: func(ctx context.Context, _ string) (any, error) {
				return s.client.ListMealPlans(ctx, mealie.MealPlanRange{})
			},
		},
		{
			uri:         "mealplans://today",
			name:        "Today's meals",
			description: "Meal plan entries for today",
			read: func(ctx context.Context, _ string) (any, error) {
				return s.client.TodayMealPlans(ctx)
			},
		},
		{
			uri:         "mealplans://{date}",
			prefix:      "mealplans://",
			name:        "Meal plan for a date",
			description: "Meal plan entries for one YYYY-MM-DD date",
			read: func(ctx context.Context, date string) (any, error) {
				return s.client.MealPlansForDate(ctx, date)
			},
		},
		{
			uri:         "shopping://lists",
			name:        "Shopping lists",
			description: "Every shopping list",
			read: func(ctx context.Context, _ string) (any, error) {
				return s.client.ListShoppingLists(ctx)
			},
		},
		{
			uri:         "shopping://{list_id}",
			prefix:      "shopping://",
			name:        "Shopping list",
			description: "One shopping list with its items",
			read: func(ctx context.Context, id string) (any, error) {
				return s.client.GetShoppingList(ctx, id)
			},
		},
	}
}

func (s *Server) registerResources() {
	s.resources = s.resourceDefs()
	for _, def := range s.resources {
		def := def
		handler := func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			return []mcp.ResourceContents{
				mcp.TextResourceContents{
					URI:      req.Params.URI,
					MIMEType: jsonMIME,
					Text:     s.readResource(ctx, def, req.Params.URI),
				},
			}, nil
		}
		if def.isTemplate() {
			s.mcpServer.AddResourceTemplate(mcp.NewResourceTemplate(def.uri, def.name,
				mcp.WithTemplateDescription(def.description),
				mcp.WithTemplateMIMEType(jsonMIME),
			), handler)
			continue
		}
		s.mcpServer.AddResource(mcp.NewResource(def.uri, def.name,
			mcp.WithResourceDescription(def.description),
			mcp.WithMIMEType(jsonMIME),
		), handler)
	}
}

// ReadResource returns the JSON text of the resource at uri. Static URIs win
// over templates. A failed read yields an {"error": ...} document.
func (s *Server) ReadResource(ctx context.Context, uri string) (string, error) {
	for _, def := range s.resources {
		if !def.isTemplate() && def.uri == uri {
			return s.readResource(ctx, def, uri), nil
		}
	}
	for _, def := range s.resources {
		if def.isTemplate() && strings.HasPrefix(uri, def.prefix) {
			return s.readResource(ctx, def, uri), nil
		}
	}
	return "", fmt.Errorf("unknown resource: %s", uri)
}

func (s *Server) readResource(ctx context.Context, def resourceDef, uri string) (text string) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Interface("panic", r).Str("resource", uri).Msg("resource read panicked")
			text = errorJSON(fmt.Errorf("internal error: %v", r))
		}
	}()
	param := ""
	if def.isTemplate() {
		param = strings.TrimPrefix(uri, def.prefix)
	}
	v, err := def.read(ctx, param)
	if err != nil {
		s.logger.Warn().Err(err).Str("resource", uri).Msg("resource read failed")
		return errorJSON(err)
	}
	text, err = encode(v)
	if err != nil {
		return errorJSON(err)
	}
	return text
}
