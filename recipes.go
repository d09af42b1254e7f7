package mealie

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

const recipesPath = "/api/recipes"

// organizerKeys maps an organizer kind to its field on a recipe.
var organizerKeys = map[EntityKind]string{
	KindTag:      "tags",
	KindCategory: "recipeCategory",
	KindTool:     "tools",
}

// RecipeQuery filters and pages recipe searches.
type RecipeQuery struct {
	Search         string   `url:"search,omitempty"`
	Tags           []string `url:"tags,omitempty"`
	Categories     []string `url:"categories,omitempty"`
	Tools          []string `url:"tools,omitempty"`
	RequireAllTags bool     `url:"requireAllTags,omitempty"`
	PageQuery
}

// RecipeInput describes a new recipe. Only Name is required.
type RecipeInput struct {
	Name         string
	Description  string
	RecipeYield  string
	TotalTime    string
	PrepTime     string
	CookTime     string
	OrgURL       string
	Ingredients  []string
	Instructions []string
	Tags         []string
	Categories   []string
	Tools        []string
}

func (in RecipeInput) hasDetails() bool {
	return in.Description != "" || in.RecipeYield != "" || in.TotalTime != "" ||
		in.PrepTime != "" || in.CookTime != "" || in.OrgURL != "" ||
		len(in.Ingredients) > 0 || len(in.Instructions) > 0 ||
		len(in.Tags) > 0 || len(in.Categories) > 0 || len(in.Tools) > 0
}

// RecipeUpdate describes changes to an existing recipe. Nil slices and Keep
// updates leave the corresponding field untouched. Organizer names are
// added to the recipe's current set, never replacing it.
type RecipeUpdate struct {
	Name         string
	Description  Update[string]
	RecipeYield  Update[string]
	TotalTime    Update[string]
	PrepTime     Update[string]
	CookTime     Update[string]
	OrgURL       Update[string]
	Ingredients  []string
	Instructions []string
	Tags         []string
	Categories   []string
	Tools        []string
}

func (u RecipeUpdate) scalars() map[string]Update[string] {
	return map[string]Update[string]{
		"description": u.Description,
		"recipeYield": u.RecipeYield,
		"totalTime":   u.TotalTime,
		"prepTime":    u.PrepTime,
		"cookTime":    u.CookTime,
		"orgURL":      u.OrgURL,
	}
}

func (u RecipeUpdate) organizers() map[EntityKind][]string {
	out := map[EntityKind][]string{}
	if u.Tags != nil {
		out[KindTag] = u.Tags
	}
	if u.Categories != nil {
		out[KindCategory] = u.Categories
	}
	if u.Tools != nil {
		out[KindTool] = u.Tools
	}
	return out
}

func (u RecipeUpdate) touchesRecord() bool {
	if u.Name != "" || u.Ingredients != nil || u.Instructions != nil {
		return true
	}
	for _, up := range u.scalars() {
		if !up.IsKeep() {
			return true
		}
	}
	return false
}

// SearchRecipes returns one page of recipe summaries matching q.
func (c *Client) SearchRecipes(ctx context.Context, q RecipeQuery) (*Page[RecipeSummary], error) {
	if q.Page == 0 {
		q.Page = 1
	}
	if q.PerPage == 0 {
		q.PerPage = 20
	}
	return getPage[RecipeSummary](ctx, c, recipesPath, q)
}

// ListRecipeSummaries returns a summary of every recipe.
func (c *Client) ListRecipeSummaries(ctx context.Context) ([]RecipeSummary, error) {
	return ListAll[RecipeSummary](ctx, c, recipesPath, nil)
}

// GetRecipe fetches the full recipe by slug or id.
func (c *Client) GetRecipe(ctx context.Context, slug string) (Record, error) {
	if strings.TrimSpace(slug) == "" {
		return nil, &ValidationError{Field: "slug", Message: "required"}
	}
	var rec Record
	if err := c.Get(ctx, recipesPath+"/"+escape(slug), nil, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// CreateRecipe creates a recipe and fills in any details in a second write.
// Organizers are resolved by name, creating missing ones, and become the
// recipe's full organizer set.
func (c *Client) CreateRecipe(ctx context.Context, in RecipeInput) (Record, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, &ValidationError{Field: "name", Message: "required", Err: ErrEmptyName}
	}

	var slug string
	if err := c.Post(ctx, recipesPath, map[string]any{"name": in.Name}, &slug); err != nil {
		return nil, err
	}
	if slug == "" {
		return nil, &FormatError{Method: "POST", Path: recipesPath, Err: fmt.Errorf("response carried no slug")}
	}

	if !in.hasDetails() {
		return c.GetRecipe(ctx, slug)
	}

	rec, err := c.GetRecipe(ctx, slug)
	if err != nil {
		return nil, err
	}

	setIfNotEmpty(rec, "description", in.Description)
	setIfNotEmpty(rec, "recipeYield", in.RecipeYield)
	setIfNotEmpty(rec, "totalTime", in.TotalTime)
	setIfNotEmpty(rec, "prepTime", in.PrepTime)
	setIfNotEmpty(rec, "cookTime", in.CookTime)
	setIfNotEmpty(rec, "orgURL", in.OrgURL)
	if len(in.Ingredients) > 0 {
		rec["recipeIngredient"] = plainIngredients(in.Ingredients)
	}
	if len(in.Instructions) > 0 {
		rec["recipeInstructions"] = instructionSteps(in.Instructions)
	}

	requested := map[EntityKind][]string{
		KindTag:      in.Tags,
		KindCategory: in.Categories,
		KindTool:     in.Tools,
	}
	for kind, names := range requested {
		if len(names) == 0 {
			continue
		}
		refs, err := c.NewResolver(kind).ResolveAll(ctx, names)
		if err != nil {
			return nil, err
		}
		rec[organizerKeys[kind]] = MergeRefs(nil, refs, Replace)
	}

	if err := c.Put(ctx, recipesPath+"/"+escape(slug), rec, nil); err != nil {
		return nil, err
	}
	return c.GetRecipe(ctx, slug)
}

// UpdateRecipe applies u to the recipe. When only organizers change, just
// those keys are sent with PATCH; otherwise the full recipe is read,
// modified and written back with PUT.
func (c *Client) UpdateRecipe(ctx context.Context, slug string, u RecipeUpdate) (Record, error) {
	organizers := u.organizers()
	if !u.touchesRecord() && len(organizers) == 0 {
		return nil, &ValidationError{Message: "no fields to update"}
	}
	if u.Name == ClearSentinel {
		return nil, &ValidationError{Field: "name", Message: "cannot be cleared"}
	}

	rec, err := c.GetRecipe(ctx, slug)
	if err != nil {
		return nil, err
	}
	slug = firstNonEmpty(rec.String("slug"), slug)

	merged := make(map[string][]Ref, len(organizers))
	for kind, names := range organizers {
		refs, err := c.NewResolver(kind).ResolveAll(ctx, names)
		if err != nil {
			return nil, err
		}
		key := organizerKeys[kind]
		merged[key] = MergeRefs(rec.Refs(key), refs, Additive)
	}

	path := recipesPath + "/" + escape(slug)

	if !u.touchesRecord() {
		patch := make(map[string]any, len(merged))
		for key, refs := range merged {
			patch[key] = refs
		}
		if err := c.Patch(ctx, path, patch, nil); err != nil {
			return nil, err
		}
		return c.GetRecipe(ctx, slug)
	}

	if u.Name != "" {
		rec["name"] = u.Name
	}
	for key, up := range u.scalars() {
		up.Apply(rec, key)
	}
	if u.Ingredients != nil {
		rec["recipeIngredient"] = plainIngredients(u.Ingredients)
	}
	if u.Instructions != nil {
		rec["recipeInstructions"] = instructionSteps(u.Instructions)
	}
	for key, refs := range merged {
		rec[key] = refs
	}

	var updated Record
	if err := c.Put(ctx, path, rec, &updated); err != nil {
		return nil, err
	}
	return c.GetRecipe(ctx, firstNonEmpty(updated.String("slug"), slug))
}

// DeleteRecipe deletes a recipe by slug.
func (c *Client) DeleteRecipe(ctx context.Context, slug string) error {
	if strings.TrimSpace(slug) == "" {
		return &ValidationError{Field: "slug", Message: "required"}
	}
	return c.Delete(ctx, recipesPath+"/"+escape(slug), nil)
}

// CreateRecipeFromURL scrapes url upstream and returns the new recipe.
func (c *Client) CreateRecipeFromURL(ctx context.Context, url string, includeTags bool) (Record, error) {
	if strings.TrimSpace(url) == "" {
		return nil, &ValidationError{Field: "url", Message: "required"}
	}
	var slug string
	if err := c.Post(ctx, recipesPath+"/create/url", map[string]any{"url": url, "includeTags": includeTags}, &slug); err != nil {
		return nil, err
	}
	return c.GetRecipe(ctx, slug)
}

// CreateRecipesFromURLs queues a bulk scrape of urls.
func (c *Client) CreateRecipesFromURLs(ctx context.Context, urls []string, includeTags bool) (Record, error) {
	if len(urls) == 0 {
		return nil, &ValidationError{Field: "urls", Message: "at least one URL is required"}
	}
	imports := make([]map[string]any, 0, len(urls))
	for _, u := range urls {
		imports = append(imports, map[string]any{"url": u, "tags": []Ref{}, "categories": []Ref{}})
	}
	out := Record{}
	payload := map[string]any{"imports": imports, "includeTags": includeTags}
	if err := c.Post(ctx, recipesPath+"/create/url/bulk", payload, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DuplicateRecipe copies a recipe. An empty name lets the upstream choose one.
func (c *Client) DuplicateRecipe(ctx context.Context, slug, name string) (Record, error) {
	payload := map[string]any{}
	if name != "" {
		payload["name"] = name
	}
	var rec Record
	if err := c.Post(ctx, recipesPath+"/"+escape(slug)+"/duplicate", payload, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// UpdateLastMade stamps the recipe as made at ts. A zero ts means now.
func (c *Client) UpdateLastMade(ctx context.Context, slug string, ts time.Time) (Record, error) {
	if ts.IsZero() {
		ts = time.Now()
	}
	var rec Record
	payload := map[string]any{"timestamp": ts.UTC().Format(time.RFC3339)}
	if err := c.Patch(ctx, recipesPath+"/"+escape(slug)+"/last-made", payload, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// BulkOrganizeResult reports what a bulk tag or categorize action sent.
type BulkOrganizeResult struct {
	Recipes    []string `json:"recipes"`
	Organizers []Ref    `json:"organizers"`
}

// BulkTagRecipes adds tags to every recipe in recipes (ids or slugs).
func (c *Client) BulkTagRecipes(ctx context.Context, recipes, tags []string) (*BulkOrganizeResult, error) {
	return c.bulkOrganize(ctx, "tag", KindTag, recipes, tags)
}

// BulkCategorizeRecipes adds categories to every recipe in recipes.
func (c *Client) BulkCategorizeRecipes(ctx context.Context, recipes, categories []string) (*BulkOrganizeResult, error) {
	return c.bulkOrganize(ctx, "categorize", KindCategory, recipes, categories)
}

func (c *Client) bulkOrganize(ctx context.Context, action string, kind EntityKind, recipes, names []string) (*BulkOrganizeResult, error) {
	if len(names) == 0 {
		return nil, &ValidationError{Field: string(kind), Message: "at least one name is required"}
	}
	slugs, err := c.recipeSlugs(ctx, recipes)
	if err != nil {
		return nil, err
	}
	refs, err := c.NewResolver(kind).ResolveAll(ctx, names)
	if err != nil {
		return nil, err
	}

	payload := map[string]any{"recipes": slugs, string(kind): refs}
	if err := c.Post(ctx, recipesPath+"/bulk-actions/"+action, payload, nil); err != nil {
		return nil, err
	}
	return &BulkOrganizeResult{Recipes: slugs, Organizers: refs}, nil
}

// BulkDeleteRecipes deletes every recipe in recipes (ids or slugs) and
// returns the slugs sent.
func (c *Client) BulkDeleteRecipes(ctx context.Context, recipes []string) ([]string, error) {
	slugs, err := c.recipeSlugs(ctx, recipes)
	if err != nil {
		return nil, err
	}
	if err := c.Post(ctx, recipesPath+"/bulk-actions/delete", map[string]any{"recipes": slugs}, nil); err != nil {
		return nil, err
	}
	return slugs, nil
}

// ExportTypes lists the bulk export formats the upstream produces.
var ExportTypes = []string{"json"}

// BulkExportResult reports a queued export and the exports now available.
type BulkExportResult struct {
	Recipes    []string `json:"recipes"`
	ExportType string   `json:"export_type"`
	Exports    []Record `json:"exports"`
}

// BulkExportRecipes queues an export of recipes (ids or slugs). The archive
// is built upstream; Exports lists the archives ready for download.
func (c *Client) BulkExportRecipes(ctx context.Context, recipes []string, exportType string) (*BulkExportResult, error) {
	if exportType == "" {
		exportType = ExportTypes[0]
	}
	if !slices.Contains(ExportTypes, exportType) {
		return nil, &ValidationError{Field: "export_type", Message: fmt.Sprintf("must be one of %s", strings.Join(ExportTypes, ", "))}
	}
	slugs, err := c.recipeSlugs(ctx, recipes)
	if err != nil {
		return nil, err
	}
	path := recipesPath + "/bulk-actions/export"
	if err := c.Post(ctx, path, map[string]any{"recipes": slugs, "exportType": exportType}, nil); err != nil {
		return nil, err
	}
	exports, err := getItems[Record](ctx, c, path, nil)
	if err != nil {
		return nil, err
	}
	return &BulkExportResult{Recipes: slugs, ExportType: exportType, Exports: exports}, nil
}

// RecipeSettings holds recipe display and access flags. Nil fields are not
// sent.
type RecipeSettings struct {
	Public          *bool `json:"public,omitempty"`
	ShowNutrition   *bool `json:"showNutrition,omitempty"`
	ShowAssets      *bool `json:"showAssets,omitempty"`
	LandscapeView   *bool `json:"landscapeView,omitempty"`
	DisableComments *bool `json:"disableComments,omitempty"`
	Locked          *bool `json:"locked,omitempty"`
}

func (s RecipeSettings) empty() bool {
	return s == RecipeSettings{}
}

// BulkUpdateSettings applies settings to every recipe in recipes and returns
// the slugs sent.
func (c *Client) BulkUpdateSettings(ctx context.Context, recipes []string, settings RecipeSettings) ([]string, error) {
	if settings.empty() {
		return nil, &ValidationError{Field: "settings", Message: "at least one setting is required"}
	}
	slugs, err := c.recipeSlugs(ctx, recipes)
	if err != nil {
		return nil, err
	}
	payload := map[string]any{"recipes": slugs, "settings": settings}
	if err := c.Post(ctx, recipesPath+"/bulk-actions/settings", payload, nil); err != nil {
		return nil, err
	}
	return slugs, nil
}

// recipeSlugs resolves ids or slugs to slugs; bulk actions only accept slugs.
func (c *Client) recipeSlugs(ctx context.Context, refs []string) ([]string, error) {
	if len(refs) == 0 {
		return nil, &ValidationError{Field: "recipe_ids", Message: "at least one recipe is required"}
	}
	slugs := make([]string, 0, len(refs))
	for _, ref := range refs {
		rec, err := c.GetRecipe(ctx, ref)
		if err != nil {
			return nil, err
		}
		slugs = append(slugs, firstNonEmpty(rec.String("slug"), ref))
	}
	return slugs, nil
}

func plainIngredients(lines []string) []map[string]any {
	out := make([]map[string]any, 0, len(lines))
	for _, line := range lines {
		out = append(out, map[string]any{
			"referenceId": uuid.NewString(),
			"note":        line,
			"display":     line,
		})
	}
	return out
}

func instructionSteps(steps []string) []map[string]any {
	out := make([]map[string]any, 0, len(steps))
	for _, step := range steps {
		out = append(out, map[string]any{
			"id":   uuid.NewString(),
			"text": step,
		})
	}
	return out
}

func setIfNotEmpty(rec Record, key, value string) {
	if value != "" {
		rec[key] = value
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
