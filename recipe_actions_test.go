package mealie_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/hyperengineering/mealie-mcp"
)

const actionsPath = "/api/households/recipe-actions"

func TestTriggerRecipeAction_LinkResolvesLocally(t *testing.T) {
	c, srv := newTestClient(t)
	srv.SeedRecipe("Chili")
	ctx := context.Background()

	action, err := c.CreateRecipeAction(ctx, "Link", "Print", "https://print.example.com/r/")
	if err != nil {
		t.Fatalf("CreateRecipeAction: %v", err)
	}
	if action.String("actionType") != "link" {
		t.Errorf("actionType = %q, want link", action.String("actionType"))
	}

	res, err := c.TriggerRecipeAction(ctx, action.ID(), "chili", 0)
	if err != nil {
		t.Fatalf("TriggerRecipeAction: %v", err)
	}
	if res.URL != "https://print.example.com/r/chili" {
		t.Errorf("URL = %q", res.URL)
	}
	for _, r := range srv.Requests() {
		if strings.Contains(r.Path, "/trigger/") {
			t.Errorf("unexpected trigger request %s %s", r.Method, r.Path)
		}
	}
}

func TestTriggerRecipeAction_PostSendsScale(t *testing.T) {
	c, srv := newTestClient(t)
	srv.SeedRecipe("Chili")
	ctx := context.Background()

	action, err := c.CreateRecipeAction(ctx, "post", "Send to planner", "https://planner.example.com/in")
	if err != nil {
		t.Fatalf("CreateRecipeAction: %v", err)
	}

	res, err := c.TriggerRecipeAction(ctx, action.ID(), "chili", 2)
	if err != nil {
		t.Fatalf("TriggerRecipeAction: %v", err)
	}
	if res.URL != "" || res.ActionType != "post" {
		t.Errorf("result = %+v", res)
	}
	reqs := srv.RequestsTo(http.MethodPost, actionsPath+"/"+action.ID()+"/trigger/chili")
	if len(reqs) != 1 {
		t.Fatalf("trigger POSTs = %d, want 1", len(reqs))
	}
	if got := reqs[0].Object()["recipeScale"]; got != 2.0 {
		t.Errorf("recipeScale = %v, want 2", got)
	}

	if _, err := c.TriggerRecipeAction(ctx, action.ID(), "nope", 1); !errors.Is(err, mealie.ErrNotFound) {
		t.Errorf("unknown recipe err = %v, want ErrNotFound", err)
	}
}

func TestTriggerRecipeAction_DefaultScale(t *testing.T) {
	c, srv := newTestClient(t)
	srv.SeedRecipe("Chili")
	ctx := context.Background()
	action, err := c.CreateRecipeAction(ctx, "post", "Send", "https://planner.example.com/in")
	if err != nil {
		t.Fatalf("CreateRecipeAction: %v", err)
	}

	if _, err := c.TriggerRecipeAction(ctx, action.ID(), "chili", 0); err != nil {
		t.Fatalf("TriggerRecipeAction: %v", err)
	}
	reqs := srv.RequestsTo(http.MethodPost, actionsPath+"/"+action.ID()+"/trigger/chili")
	if got := reqs[0].Object()["recipeScale"]; got != 1.0 {
		t.Errorf("recipeScale = %v, want 1", got)
	}
}

func TestCreateRecipeAction_Validation(t *testing.T) {
	c, srv := newTestClient(t)
	ctx := context.Background()

	tests := []struct {
		kind, title, url, field string
	}{
		{"email", "Mail", "mailto:x", "action_type"},
		{"link", "", "https://x", "title"},
		{"post", "Send", " ", "url"},
	}
	for _, tt := range tests {
		_, err := c.CreateRecipeAction(ctx, tt.kind, tt.title, tt.url)
		var ve *mealie.ValidationError
		if !errors.As(err, &ve) || ve.Field != tt.field {
			t.Errorf("CreateRecipeAction(%q, %q, %q) err = %v, want %s validation error", tt.kind, tt.title, tt.url, err, tt.field)
		}
	}
	if len(srv.Requests()) != 0 {
		t.Error("no upstream request should be made")
	}
}

func TestUpdateRecipeAction(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()
	action, err := c.CreateRecipeAction(ctx, "link", "Print", "https://print.example.com/r/")
	if err != nil {
		t.Fatalf("CreateRecipeAction: %v", err)
	}

	out, err := c.UpdateRecipeAction(ctx, action.ID(), mealie.RecipeActionUpdate{Title: "Print card"})
	if err != nil {
		t.Fatalf("UpdateRecipeAction: %v", err)
	}
	if out.String("title") != "Print card" || out.String("url") != "https://print.example.com/r/" {
		t.Errorf("updated = %v", out)
	}

	page, err := c.ListRecipeActions(ctx, mealie.PageQuery{})
	if err != nil {
		t.Fatalf("ListRecipeActions: %v", err)
	}
	if len(page.Items) != 1 {
		t.Errorf("actions = %d, want 1", len(page.Items))
	}

	if err := c.DeleteRecipeAction(ctx, action.ID()); err != nil {
		t.Fatalf("DeleteRecipeAction: %v", err)
	}
	if _, err := c.TriggerRecipeAction(ctx, action.ID(), "chili", 1); !errors.Is(err, mealie.ErrNotFound) {
		t.Errorf("deleted action err = %v, want ErrNotFound", err)
	}
}
