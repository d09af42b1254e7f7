package mealie_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/hyperengineering/mealie-mcp"
)

func today() string { return time.Now().Format(mealie.DateLayout) }

func daysFromNow(n int) string { return time.Now().AddDate(0, 0, n).Format(mealie.DateLayout) }

// ============================================================================
// Create
// ============================================================================

func TestCreateMealPlan_DefaultsToDinner(t *testing.T) {
	c, srv := newTestClient(t)
	rec := srv.SeedRecipe("Chili")

	entry, err := c.CreateMealPlan(context.Background(), mealie.MealPlanInput{
		Date:     "2025-03-10",
		RecipeID: rec["id"].(string),
	})
	if err != nil {
		t.Fatalf("CreateMealPlan: %v", err)
	}
	if entry.String("entryType") != "dinner" {
		t.Errorf("entryType = %q, want dinner", entry.String("entryType"))
	}
	recipe, _ := entry["recipe"].(map[string]any)
	if recipe["name"] != "Chili" {
		t.Errorf("recipe = %v, want linked Chili", entry["recipe"])
	}
}

func TestCreateMealPlan_RejectsBadInputLocally(t *testing.T) {
	c, srv := newTestClient(t)

	tests := []struct {
		name string
		in   mealie.MealPlanInput
		want error
	}{
		{"bad date", mealie.MealPlanInput{Date: "03/10/2025", Title: "x"}, mealie.ErrInvalidDate},
		{"bad entry type", mealie.MealPlanInput{Date: "2025-03-10", EntryType: "brunch", Title: "x"}, mealie.ErrInvalidEntryType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.CreateMealPlan(context.Background(), tt.in)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}

	_, err := c.CreateMealPlan(context.Background(), mealie.MealPlanInput{Date: "2025-03-10"})
	var ve *mealie.ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("err = %v, want validation error without recipe or title", err)
	}
	if len(srv.Requests()) != 0 {
		t.Error("no upstream request should be made")
	}
}

// ============================================================================
// Update
// ============================================================================

func TestUpdateMealPlan_ClearRecipeKeepsOtherFields(t *testing.T) {
	c, srv := newTestClient(t)
	rec := srv.SeedRecipe("Chili")
	srv.SeedMealPlan(map[string]any{
		"date":      "2025-03-10",
		"entryType": "lunch",
		"recipeId":  rec["id"],
		"text":      "bring leftovers",
	})

	_, err := c.UpdateMealPlan(context.Background(), "1", mealie.MealPlanUpdate{
		RecipeID: mealie.ParseStringUpdate(mealie.ClearSentinel, true),
	})
	if err != nil {
		t.Fatalf("UpdateMealPlan: %v", err)
	}

	stored := srv.MealPlan(1)
	if v, ok := stored["recipeId"]; !ok || v != nil {
		t.Errorf("recipeId = %v (present %v), want null", v, ok)
	}
	if stored["recipe"] != nil {
		t.Errorf("recipe = %v, want nil", stored["recipe"])
	}
	if stored["date"] != "2025-03-10" {
		t.Errorf("date = %v, want kept 2025-03-10", stored["date"])
	}
	if stored["entryType"] != "lunch" {
		t.Errorf("entryType = %v, want kept lunch", stored["entryType"])
	}
	if stored["text"] != "bring leftovers" {
		t.Errorf("text = %v, want kept", stored["text"])
	}

	put := srv.RequestsTo(http.MethodPut, "/api/households/mealplans/1")[0].Object()
	if put["groupId"] == nil || put["userId"] == nil {
		t.Error("PUT must carry the fetched groupId and userId")
	}
}

func TestUpdateMealPlan_SetRecipeRelinks(t *testing.T) {
	c, srv := newTestClient(t)
	srv.SeedRecipe("Chili")
	tacos := srv.SeedRecipe("Tacos")
	srv.SeedMealPlan(map[string]any{"date": "2025-03-10", "title": "TBD"})

	entry, err := c.UpdateMealPlan(context.Background(), "1", mealie.MealPlanUpdate{
		RecipeID:  mealie.Set(tacos["id"].(string)),
		EntryType: "breakfast",
	})
	if err != nil {
		t.Fatalf("UpdateMealPlan: %v", err)
	}
	recipe, _ := entry["recipe"].(map[string]any)
	if recipe["name"] != "Tacos" {
		t.Errorf("recipe = %v, want Tacos", entry["recipe"])
	}
	if entry.String("entryType") != "breakfast" {
		t.Errorf("entryType = %q", entry.String("entryType"))
	}
	if entry.String("title") != "TBD" {
		t.Errorf("title = %q, want kept TBD", entry.String("title"))
	}
}

func TestUpdateMealPlan_NothingToDo(t *testing.T) {
	c, _ := newTestClient(t)

	_, err := c.UpdateMealPlan(context.Background(), "1", mealie.MealPlanUpdate{})
	var ve *mealie.ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("err = %v, want *ValidationError", err)
	}
}

func TestUpdateMealPlans_ReportsEachItem(t *testing.T) {
	c, srv := newTestClient(t)
	srv.SeedMealPlan(map[string]any{"date": "2025-03-10", "title": "A"})

	result, err := c.UpdateMealPlans(context.Background(), []mealie.MealPlanBatchItem{
		{ID: "1", Update: mealie.MealPlanUpdate{Title: mealie.Set("B")}},
		{ID: "999", Update: mealie.MealPlanUpdate{Title: mealie.Set("C")}},
		{Update: mealie.MealPlanUpdate{Title: mealie.Set("D")}},
	})
	if err != nil {
		t.Fatalf("UpdateMealPlans: %v", err)
	}
	if result.Total != 3 || result.Succeeded != 1 || result.Failed != 2 {
		t.Errorf("counts = %d/%d/%d, want 3/1/2", result.Total, result.Succeeded, result.Failed)
	}
	if result.Results[1].Error != "Not found" {
		t.Errorf("Results[1].Error = %q, want %q", result.Results[1].Error, "Not found")
	}
	if result.Results[2].Error != "mealplan_id: required" {
		t.Errorf("Results[2].Error = %q", result.Results[2].Error)
	}
	if srv.MealPlan(1)["title"] != "B" {
		t.Error("first update should have been applied")
	}
}

// ============================================================================
// Listing and search
// ============================================================================

func TestListMealPlans_SortedAndBounded(t *testing.T) {
	c, srv := newTestClient(t)
	srv.SeedMealPlan(map[string]any{"date": "2025-03-11", "entryType": "breakfast", "title": "c"})
	srv.SeedMealPlan(map[string]any{"date": "2025-03-10", "entryType": "dinner", "title": "b"})
	srv.SeedMealPlan(map[string]any{"date": "2025-03-10", "entryType": "breakfast", "title": "a"})
	srv.SeedMealPlan(map[string]any{"date": "2025-04-01", "title": "out of range"})

	entries, err := c.ListMealPlans(context.Background(), mealie.MealPlanRange{Start: "2025-03-10", End: "2025-03-12"})
	if err != nil {
		t.Fatalf("ListMealPlans: %v", err)
	}
	var titles []string
	for _, e := range entries {
		titles = append(titles, e.String("title"))
	}
	if !equalStrings(titles, []string{"a", "b", "c"}) {
		t.Errorf("titles = %v, want [a b c]", titles)
	}
}

func TestListMealPlans_RejectsInvertedRange(t *testing.T) {
	c, _ := newTestClient(t)

	_, err := c.ListMealPlans(context.Background(), mealie.MealPlanRange{Start: "2025-03-10", End: "2025-03-01"})
	var ve *mealie.ValidationError
	if !errors.As(err, &ve) || ve.Field != "end_date" {
		t.Errorf("err = %v, want end_date validation error", err)
	}
}

func TestMealPlansForDate(t *testing.T) {
	c, srv := newTestClient(t)
	srv.SeedMealPlan(map[string]any{"date": "2025-03-10", "title": "x"})
	srv.SeedMealPlan(map[string]any{"date": "2025-03-11", "title": "y"})

	entries, err := c.MealPlansForDate(context.Background(), "2025-03-11")
	if err != nil {
		t.Fatalf("MealPlansForDate: %v", err)
	}
	if len(entries) != 1 || entries[0].String("title") != "y" {
		t.Errorf("entries = %v", entries)
	}
}

func TestTodayMealPlans(t *testing.T) {
	c, srv := newTestClient(t)
	srv.SeedMealPlan(map[string]any{"date": today(), "title": "now"})
	srv.SeedMealPlan(map[string]any{"date": daysFromNow(1), "title": "later"})

	entries, err := c.TodayMealPlans(context.Background())
	if err != nil {
		t.Fatalf("TodayMealPlans: %v", err)
	}
	if len(entries) != 1 || entries[0].String("title") != "now" {
		t.Errorf("entries = %v", entries)
	}
}

func TestSearchMealPlans_MatchesRecipeAndTitle(t *testing.T) {
	c, srv := newTestClient(t)
	rec := srv.SeedRecipe("Green Chili Stew")
	srv.SeedMealPlan(map[string]any{"date": today(), "recipeId": rec["id"]})
	srv.SeedMealPlan(map[string]any{"date": daysFromNow(2), "title": "chili dogs"})
	srv.SeedMealPlan(map[string]any{"date": daysFromNow(3), "title": "salad"})

	matches, err := c.SearchMealPlans(context.Background(), "CHILI", mealie.MealPlanRange{})
	if err != nil {
		t.Fatalf("SearchMealPlans: %v", err)
	}
	if len(matches) != 2 {
		t.Errorf("matches = %d, want 2", len(matches))
	}
}

// ============================================================================
// Random, bulk delete and rules
// ============================================================================

func TestRandomMealPlan_Upstream(t *testing.T) {
	c, srv := newTestClient(t)
	srv.SeedRecipe("Chili")

	entry, err := c.RandomMealPlan(context.Background(), "2025-03-10", "")
	if err != nil {
		t.Fatalf("RandomMealPlan: %v", err)
	}
	if entry.String("entryType") != "dinner" || entry.String("date") != "2025-03-10" {
		t.Errorf("entry = %v", entry)
	}
}

func TestRandomMealPlan_FallsBackToLocalPick(t *testing.T) {
	c, srv := newTestClient(t)
	rec := srv.SeedRecipe("Chili")
	srv.Override(http.MethodPost, "/api/households/mealplans/random", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail":"No rules configured"}`))
	})

	entry, err := c.RandomMealPlan(context.Background(), "2025-03-10", "lunch")
	if err != nil {
		t.Fatalf("RandomMealPlan: %v", err)
	}
	if entry.String("recipeId") != rec["id"] {
		t.Errorf("recipeId = %q, want %v", entry.String("recipeId"), rec["id"])
	}
	if entry.String("entryType") != "lunch" {
		t.Errorf("entryType = %q, want lunch", entry.String("entryType"))
	}
}

func TestRandomMealPlan_NoRecipesReturnsUpstreamError(t *testing.T) {
	c, _ := newTestClient(t)

	_, err := c.RandomMealPlan(context.Background(), "2025-03-10", "dinner")
	if got := mealie.Message(err); got != "No recipes match your rules" {
		t.Errorf("Message = %q", got)
	}
}

func TestDeleteMealPlansInRange(t *testing.T) {
	c, srv := newTestClient(t)
	srv.SeedMealPlan(map[string]any{"date": "2025-03-10", "title": "a"})
	srv.SeedMealPlan(map[string]any{"date": "2025-03-11", "title": "b"})
	srv.SeedMealPlan(map[string]any{"date": "2025-03-20", "title": "keep"})

	result, err := c.DeleteMealPlansInRange(context.Background(), mealie.MealPlanRange{Start: "2025-03-10", End: "2025-03-11"})
	if err != nil {
		t.Fatalf("DeleteMealPlansInRange: %v", err)
	}
	if result.Succeeded != 2 || result.Failed != 0 {
		t.Errorf("result = %+v", result)
	}
	if srv.MealPlan(3) == nil {
		t.Error("entry outside the range was deleted")
	}
}

func TestMealPlanRules_CreateAndUpdate(t *testing.T) {
	c, srv := newTestClient(t)
	ctx := context.Background()

	rule, err := c.CreateMealPlanRule(ctx, mealie.MealPlanRuleInput{
		Name:      "Meatless Monday",
		Day:       "monday",
		EntryType: "dinner",
		Tags:      []string{"vegetarian"},
	})
	if err != nil {
		t.Fatalf("CreateMealPlanRule: %v", err)
	}
	if srv.CountNamed("tags", "vegetarian") != 1 {
		t.Error("tag should be created")
	}
	if cats, _ := rule["categories"].([]any); cats == nil || len(cats) != 0 {
		t.Errorf("categories = %v, want empty list", rule["categories"])
	}

	updated, err := c.UpdateMealPlanRule(ctx, rule.ID(), mealie.MealPlanRuleInput{Day: "tuesday"})
	if err != nil {
		t.Fatalf("UpdateMealPlanRule: %v", err)
	}
	if updated.String("day") != "tuesday" {
		t.Errorf("day = %q, want tuesday", updated.String("day"))
	}
	if names := refNames(updated["tags"]); !equalStrings(names, []string{"vegetarian"}) {
		t.Errorf("tags = %v, want kept [vegetarian]", names)
	}
}
