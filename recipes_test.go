package mealie_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/hyperengineering/mealie-mcp"
)

func refNames(v any) []string {
	items, _ := v.([]any)
	names := make([]string, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			name, _ := m["name"].(string)
			names = append(names, name)
		}
	}
	return names
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ============================================================================
// Create
// ============================================================================

func TestCreateRecipe_NameOnly(t *testing.T) {
	c, srv := newTestClient(t)

	rec, err := c.CreateRecipe(context.Background(), mealie.RecipeInput{Name: "Toast"})
	if err != nil {
		t.Fatalf("CreateRecipe: %v", err)
	}
	if rec.String("slug") != "toast" {
		t.Errorf("slug = %q, want %q", rec.String("slug"), "toast")
	}
	if n := len(srv.RequestsTo(http.MethodPut, "/api/recipes/toast")); n != 0 {
		t.Errorf("PUT requests = %d, want 0 for a name-only recipe", n)
	}
}

func TestCreateRecipe_ResolvesOrganizersOnce(t *testing.T) {
	c, srv := newTestClient(t)
	srv.Seed("tags", map[string]any{"name": "quick"})

	rec, err := c.CreateRecipe(context.Background(), mealie.RecipeInput{
		Name:         "Weeknight Chili",
		Description:  "Fast and filling",
		Ingredients:  []string{"1 lb beef", "1 can beans"},
		Instructions: []string{"Brown", "Simmer"},
		Tags:         []string{"quick", "comfort", "comfort"},
		Categories:   []string{"Dinner"},
	})
	if err != nil {
		t.Fatalf("CreateRecipe: %v", err)
	}

	if got := srv.CountNamed("tags", "quick"); got != 1 {
		t.Errorf("quick tags = %d, want 1", got)
	}
	if got := srv.CountNamed("tags", "comfort"); got != 1 {
		t.Errorf("comfort tags = %d, want 1", got)
	}
	if got := srv.CountNamed("categories", "Dinner"); got != 1 {
		t.Errorf("Dinner categories = %d, want 1", got)
	}
	if got := len(srv.RequestsTo(http.MethodGet, "/api/organizers/tags")); got != 1 {
		t.Errorf("tag listings = %d, want 1 per operation", got)
	}

	if names := refNames(rec["tags"]); !equalStrings(names, []string{"quick", "comfort"}) {
		t.Errorf("tags = %v, want [quick comfort]", names)
	}
	if rec.String("description") != "Fast and filling" {
		t.Errorf("description = %q", rec.String("description"))
	}
	ings, _ := rec["recipeIngredient"].([]any)
	if len(ings) != 2 {
		t.Errorf("ingredients = %d, want 2", len(ings))
	}
}

func TestCreateRecipe_EmptyName(t *testing.T) {
	c, srv := newTestClient(t)

	_, err := c.CreateRecipe(context.Background(), mealie.RecipeInput{Name: "  "})
	if !errors.Is(err, mealie.ErrEmptyName) {
		t.Errorf("err = %v, want ErrEmptyName", err)
	}
	if len(srv.Requests()) != 0 {
		t.Error("no upstream request should be made")
	}
}

// ============================================================================
// Update
// ============================================================================

func TestUpdateRecipe_OrganizersOnlyPatchAdds(t *testing.T) {
	c, srv := newTestClient(t)
	ctx := context.Background()

	if _, err := c.CreateRecipe(ctx, mealie.RecipeInput{Name: "Chili", Tags: []string{"quick"}}); err != nil {
		t.Fatalf("CreateRecipe: %v", err)
	}
	putsBefore := len(srv.RequestsTo(http.MethodPut, "/api/recipes/chili"))

	rec, err := c.UpdateRecipe(ctx, "chili", mealie.RecipeUpdate{Tags: []string{"spicy", "quick"}})
	if err != nil {
		t.Fatalf("UpdateRecipe: %v", err)
	}

	if names := refNames(rec["tags"]); !equalStrings(names, []string{"quick", "spicy"}) {
		t.Errorf("tags = %v, want [quick spicy]", names)
	}

	patches := srv.RequestsTo(http.MethodPatch, "/api/recipes/chili")
	if len(patches) != 1 {
		t.Fatalf("PATCH requests = %d, want 1", len(patches))
	}
	body := patches[0].Object()
	if len(body) != 1 {
		t.Errorf("PATCH body keys = %v, want only tags", body)
	}
	if got := len(srv.RequestsTo(http.MethodPut, "/api/recipes/chili")); got != putsBefore {
		t.Errorf("organizer-only update issued a PUT")
	}
}

func TestUpdateRecipe_NewTagCreatedOnceAcrossRepeats(t *testing.T) {
	c, srv := newTestClient(t)
	ctx := context.Background()

	if _, err := c.CreateRecipe(ctx, mealie.RecipeInput{Name: "Lentil Soup"}); err != nil {
		t.Fatalf("CreateRecipe: %v", err)
	}

	for i := 0; i < 2; i++ {
		rec, err := c.UpdateRecipe(ctx, "lentil-soup", mealie.RecipeUpdate{Tags: []string{"Vegan"}})
		if err != nil {
			t.Fatalf("UpdateRecipe #%d: %v", i+1, err)
		}
		tags := rec.Refs("tags")
		if len(tags) != 1 || tags[0].Name != "Vegan" || tags[0].ID == "" {
			t.Errorf("update #%d: tags = %+v, want one Vegan tag with an id", i+1, tags)
		}
	}

	if n := srv.CountNamed("tags", "Vegan"); n != 1 {
		t.Errorf("Vegan tags upstream = %d, want 1", n)
	}
	if n := len(srv.RequestsTo(http.MethodPost, "/api/organizers/tags")); n != 1 {
		t.Errorf("tag creates = %d, want 1", n)
	}
}

func TestUpdateRecipe_ClearSentinelNullsField(t *testing.T) {
	c, srv := newTestClient(t)
	ctx := context.Background()

	if _, err := c.CreateRecipe(ctx, mealie.RecipeInput{Name: "Chili", Description: "old", RecipeYield: "4"}); err != nil {
		t.Fatalf("CreateRecipe: %v", err)
	}

	_, err := c.UpdateRecipe(ctx, "chili", mealie.RecipeUpdate{
		Description: mealie.ParseStringUpdate(mealie.ClearSentinel, true),
		TotalTime:   mealie.Set("1h"),
	})
	if err != nil {
		t.Fatalf("UpdateRecipe: %v", err)
	}

	stored := srv.Recipe("chili")
	if v, ok := stored["description"]; !ok || v != nil {
		t.Errorf("description = %v (present %v), want null", v, ok)
	}
	if stored["recipeYield"] != "4" {
		t.Errorf("recipeYield = %v, want kept value 4", stored["recipeYield"])
	}
	if stored["totalTime"] != "1h" {
		t.Errorf("totalTime = %v, want 1h", stored["totalTime"])
	}
}

func TestUpdateRecipe_RenameFollowsNewSlug(t *testing.T) {
	c, srv := newTestClient(t)
	srv.SeedRecipe("Chili")

	rec, err := c.UpdateRecipe(context.Background(), "chili", mealie.RecipeUpdate{Name: "Texas Chili"})
	if err != nil {
		t.Fatalf("UpdateRecipe: %v", err)
	}
	if rec.String("slug") != "texas-chili" {
		t.Errorf("slug = %q, want %q", rec.String("slug"), "texas-chili")
	}
}

func TestUpdateRecipe_NoFields(t *testing.T) {
	c, _ := newTestClient(t)

	_, err := c.UpdateRecipe(context.Background(), "chili", mealie.RecipeUpdate{})
	var ve *mealie.ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("err = %v, want *ValidationError", err)
	}
}

func TestUpdateRecipe_NameCannotBeCleared(t *testing.T) {
	c, srv := newTestClient(t)
	srv.SeedRecipe("Chili")

	_, err := c.UpdateRecipe(context.Background(), "chili", mealie.RecipeUpdate{Name: mealie.ClearSentinel})
	var ve *mealie.ValidationError
	if !errors.As(err, &ve) || ve.Field != "name" {
		t.Fatalf("err = %v, want a name *ValidationError", err)
	}
	if n := len(srv.Requests()); n != 0 {
		t.Errorf("sent %d requests, want 0", n)
	}
}

// ============================================================================
// Structured ingredients
// ============================================================================

func TestUpdateRecipeIngredients_UnknownFoodSentAsName(t *testing.T) {
	c, srv := newTestClient(t)
	srv.SeedRecipe("Pilaf")
	cup := srv.Seed("units", map[string]any{"name": "cup"})
	one := 1.0

	_, err := c.UpdateRecipeIngredients(context.Background(), "pilaf", []mealie.IngredientInput{
		{Quantity: &one, Unit: &mealie.RefInput{Name: "cup"}, Food: &mealie.RefInput{Name: "quinoa"}},
	}, false)
	if err != nil {
		t.Fatalf("UpdateRecipeIngredients: %v", err)
	}

	if n := len(srv.RequestsTo(http.MethodPost, "/api/foods")); n != 0 {
		t.Errorf("food creates = %d, want 0 without create_missing", n)
	}

	put := srv.RequestsTo(http.MethodPut, "/api/recipes/pilaf")[0].Object()
	ing := put["recipeIngredient"].([]any)[0].(map[string]any)
	if ing["food"] != "quinoa" {
		t.Errorf("food = %v, want bare name", ing["food"])
	}
	unit, _ := ing["unit"].(map[string]any)
	if unit["id"] != cup["id"] {
		t.Errorf("unit = %v, want known unit id %v", unit, cup["id"])
	}
	if ing["display"] != "1 cup quinoa" {
		t.Errorf("display = %v", ing["display"])
	}

	rec, err := c.GetRecipe(context.Background(), "pilaf")
	if err != nil {
		t.Fatalf("GetRecipe: %v", err)
	}
	stored := rec["recipeIngredient"].([]any)[0].(map[string]any)
	food, _ := stored["food"].(map[string]any)
	if food["name"] != "quinoa" || food["id"] == nil || food["id"] == "" {
		t.Errorf("stored food = %v, want quinoa resolved with an id", stored["food"])
	}
	if srv.CountNamed("foods", "quinoa") != 1 {
		t.Error("upstream should hold exactly one quinoa food")
	}
}

func TestUpdateRecipeIngredients_CreateMissingOnce(t *testing.T) {
	c, srv := newTestClient(t)
	srv.SeedRecipe("Pilaf")

	_, err := c.UpdateRecipeIngredients(context.Background(), "pilaf", []mealie.IngredientInput{
		{Food: &mealie.RefInput{Name: "rice"}, Note: "rinsed"},
		{Food: &mealie.RefInput{Name: "rice"}, Note: "for garnish"},
	}, true)
	if err != nil {
		t.Fatalf("UpdateRecipeIngredients: %v", err)
	}

	if got := srv.CountNamed("foods", "rice"); got != 1 {
		t.Errorf("rice foods = %d, want 1", got)
	}
	ings, _ := srv.Recipe("pilaf")["recipeIngredient"].([]any)
	if len(ings) != 2 {
		t.Fatalf("ingredients = %d, want 2", len(ings))
	}
	for i, raw := range ings {
		food, _ := raw.(map[string]any)["food"].(map[string]any)
		if food["id"] == nil {
			t.Errorf("ingredient %d food has no id", i)
		}
	}
}

func TestUpdateRecipeIngredients_EmptyLine(t *testing.T) {
	c, _ := newTestClient(t)

	_, err := c.UpdateRecipeIngredients(context.Background(), "pilaf", []mealie.IngredientInput{{}}, false)
	var ve *mealie.ValidationError
	if !errors.As(err, &ve) || ve.Field != "ingredients[0]" {
		t.Errorf("err = %v, want ingredients[0] validation error", err)
	}
}

// ============================================================================
// Other recipe operations
// ============================================================================

func TestBulkTagRecipes_SendsSlugs(t *testing.T) {
	c, srv := newTestClient(t)
	a := srv.SeedRecipe("Chili")
	b := srv.SeedRecipe("Cornbread")

	result, err := c.BulkTagRecipes(context.Background(), []string{a["id"].(string), "cornbread"}, []string{"game day"})
	if err != nil {
		t.Fatalf("BulkTagRecipes: %v", err)
	}
	if !equalStrings(result.Recipes, []string{"chili", "cornbread"}) {
		t.Errorf("recipes = %v", result.Recipes)
	}
	if srv.CountNamed("tags", "game day") != 1 {
		t.Error("tag should be created once")
	}
	if names := refNames(srv.Recipe(b["id"].(string))["tags"]); !equalStrings(names, []string{"game day"}) {
		t.Errorf("cornbread tags = %v", names)
	}
}

func TestBulkDeleteRecipes(t *testing.T) {
	c, srv := newTestClient(t)
	srv.SeedRecipe("Chili")
	srv.SeedRecipe("Cornbread")

	deleted, err := c.BulkDeleteRecipes(context.Background(), []string{"chili"})
	if err != nil {
		t.Fatalf("BulkDeleteRecipes: %v", err)
	}
	if !equalStrings(deleted, []string{"chili"}) {
		t.Errorf("deleted = %v", deleted)
	}
	if srv.Recipe("chili") != nil || srv.Recipe("cornbread") == nil {
		t.Error("only chili should be deleted")
	}
}

func TestDuplicateRecipe(t *testing.T) {
	c, srv := newTestClient(t)
	srv.SeedRecipe("Chili")

	dup, err := c.DuplicateRecipe(context.Background(), "chili", "Vegan Chili")
	if err != nil {
		t.Fatalf("DuplicateRecipe: %v", err)
	}
	if dup.String("slug") != "vegan-chili" {
		t.Errorf("slug = %q, want %q", dup.String("slug"), "vegan-chili")
	}
}

func TestUpdateLastMade(t *testing.T) {
	c, srv := newTestClient(t)
	srv.SeedRecipe("Chili")
	ts := time.Date(2025, 1, 5, 18, 30, 0, 0, time.UTC)

	if _, err := c.UpdateLastMade(context.Background(), "chili", ts); err != nil {
		t.Fatalf("UpdateLastMade: %v", err)
	}
	if got := srv.Recipe("chili")["lastMade"]; got != "2025-01-05T18:30:00Z" {
		t.Errorf("lastMade = %v", got)
	}
}

func TestCreateRecipesFromURLs_ImportsShape(t *testing.T) {
	c, srv := newTestClient(t)

	out, err := c.CreateRecipesFromURLs(context.Background(), []string{"https://a.test/1", "https://a.test/2"}, true)
	if err != nil {
		t.Fatalf("CreateRecipesFromURLs: %v", err)
	}
	if out.String("reportId") == "" {
		t.Error("reportId missing")
	}
	body := srv.RequestsTo(http.MethodPost, "/api/recipes/create/url/bulk")[0].Object()
	imports, _ := body["imports"].([]any)
	if len(imports) != 2 {
		t.Errorf("imports = %v", body["imports"])
	}
}

func TestDeleteRecipe_NotFound(t *testing.T) {
	c, _ := newTestClient(t)

	err := c.DeleteRecipe(context.Background(), "ghost")
	if !errors.Is(err, mealie.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

// ============================================================================
// Bulk export and settings
// ============================================================================

func TestBulkExportRecipes(t *testing.T) {
	c, srv := newTestClient(t)
	chili := srv.SeedRecipe("Chili")
	srv.SeedRecipe("Pilaf")

	res, err := c.BulkExportRecipes(context.Background(), []string{chili["id"].(string), "pilaf"}, "")
	if err != nil {
		t.Fatalf("BulkExportRecipes: %v", err)
	}
	if res.ExportType != "json" {
		t.Errorf("ExportType = %q, want json", res.ExportType)
	}
	if len(res.Recipes) != 2 || res.Recipes[0] != "chili" || res.Recipes[1] != "pilaf" {
		t.Errorf("Recipes = %v, want [chili pilaf]", res.Recipes)
	}
	if len(res.Exports) != 1 || res.Exports[0].String("filename") == "" {
		t.Errorf("Exports = %v, want one export with a filename", res.Exports)
	}
}

func TestBulkExportRecipes_UnknownType(t *testing.T) {
	c, srv := newTestClient(t)
	srv.SeedRecipe("Chili")

	_, err := c.BulkExportRecipes(context.Background(), []string{"chili"}, "zip")
	var ve *mealie.ValidationError
	if !errors.As(err, &ve) || ve.Field != "export_type" {
		t.Errorf("err = %v, want export_type validation error", err)
	}
	if len(srv.Requests()) != 0 {
		t.Error("no upstream request should be made")
	}
}

func TestBulkUpdateSettings_SendsOnlyGivenKeys(t *testing.T) {
	c, srv := newTestClient(t)
	srv.SeedRecipe("Chili")
	srv.SeedRecipe("Pilaf")

	locked := true
	slugs, err := c.BulkUpdateSettings(context.Background(), []string{"chili", "pilaf"}, mealie.RecipeSettings{Locked: &locked})
	if err != nil {
		t.Fatalf("BulkUpdateSettings: %v", err)
	}
	if len(slugs) != 2 {
		t.Errorf("slugs = %v", slugs)
	}

	posts := srv.RequestsTo(http.MethodPost, "/api/recipes/bulk-actions/settings")
	if len(posts) != 1 {
		t.Fatalf("POSTs = %d, want 1", len(posts))
	}
	settings, _ := posts[0].Object()["settings"].(map[string]any)
	if len(settings) != 1 || settings["locked"] != true {
		t.Errorf("settings = %v, want only locked", settings)
	}
	for _, slug := range []string{"chili", "pilaf"} {
		got, _ := srv.Recipe(slug)["settings"].(map[string]any)
		if got["locked"] != true {
			t.Errorf("%s settings = %v, want locked", slug, got)
		}
	}
}

func TestBulkUpdateSettings_Empty(t *testing.T) {
	c, srv := newTestClient(t)

	_, err := c.BulkUpdateSettings(context.Background(), []string{"chili"}, mealie.RecipeSettings{})
	var ve *mealie.ValidationError
	if !errors.As(err, &ve) || ve.Field != "settings" {
		t.Errorf("err = %v, want settings validation error", err)
	}
	if len(srv.Requests()) != 0 {
		t.Error("no upstream request should be made")
	}
}
