package mealie

import (
	"context"
	"math/rand/v2"
	"sort"
	"strings"
	"time"

	"github.com/google/go-querystring/query"
)

const (
	mealplansPath = "/api/households/mealplans"
	rulesPath     = mealplansPath + "/rules"
)

// MealPlanRange bounds a meal plan listing by calendar date, inclusive.
type MealPlanRange struct {
	Start string `url:"start_date,omitempty"`
	End   string `url:"end_date,omitempty"`
}

// DefaultRange fills a missing start with today and a missing end with
// start plus days.
func (r MealPlanRange) DefaultRange(now time.Time, days int) (MealPlanRange, error) {
	if r.Start == "" {
		r.Start = now.Format(DateLayout)
	}
	start, err := ParseDate("start_date", r.Start)
	if err != nil {
		return r, err
	}
	if r.End == "" {
		r.End = start.AddDate(0, 0, days).Format(DateLayout)
	}
	end, err := ParseDate("end_date", r.End)
	if err != nil {
		return r, err
	}
	if end.Before(start) {
		return r, &ValidationError{Field: "end_date", Message: "must not be before start_date"}
	}
	return r, nil
}

// ListMealPlans returns every entry between r.Start and r.End. Missing
// bounds default to today through a week from today.
func (c *Client) ListMealPlans(ctx context.Context, r MealPlanRange) ([]Record, error) {
	r, err := r.DefaultRange(time.Now(), 7)
	if err != nil {
		return nil, err
	}
	q, err := query.Values(r)
	if err != nil {
		return nil, err
	}
	entries, err := ListAll[Record](ctx, c, mealplansPath, q)
	if err != nil {
		return nil, err
	}
	sortEntries(entries)
	return entries, nil
}

// TodayMealPlans returns today's entries.
func (c *Client) TodayMealPlans(ctx context.Context) ([]Record, error) {
	entries, err := getItems[Record](ctx, c, mealplansPath+"/today", nil)
	if err != nil {
		return nil, err
	}
	sortEntries(entries)
	return entries, nil
}

// GetMealPlan fetches one entry by id.
func (c *Client) GetMealPlan(ctx context.Context, id string) (Record, error) {
	return c.getByID(ctx, mealplansPath, id)
}

// MealPlansForDate returns the entries planned for date.
func (c *Client) MealPlansForDate(ctx context.Context, date string) ([]Record, error) {
	if _, err := ParseDate("date", date); err != nil {
		return nil, err
	}
	return c.ListMealPlans(ctx, MealPlanRange{Start: date, End: date})
}

// MealPlanInput describes a new entry. Either RecipeID or Title should be set.
type MealPlanInput struct {
	Date      string
	EntryType string
	RecipeID  string
	Title     string
	Text      string
}

// CreateMealPlan creates an entry.
func (c *Client) CreateMealPlan(ctx context.Context, in MealPlanInput) (Record, error) {
	if _, err := ParseDate("date", in.Date); err != nil {
		return nil, err
	}
	entryType, err := ParseEntryType(firstNonEmpty(in.EntryType, string(EntryDinner)))
	if err != nil {
		return nil, err
	}
	if in.RecipeID == "" && strings.TrimSpace(in.Title) == "" {
		return nil, &ValidationError{Field: "recipe_id", Message: "either recipe_id or title is required"}
	}

	payload := map[string]any{"date": in.Date, "entryType": entryType}
	setIfNotEmpty(payload, "recipeId", in.RecipeID)
	setIfNotEmpty(payload, "title", in.Title)
	setIfNotEmpty(payload, "text", in.Text)

	var rec Record
	if err := c.Post(ctx, mealplansPath, payload, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// MealPlanUpdate describes changes to an entry. Empty Date and EntryType
// keep the current values.
type MealPlanUpdate struct {
	Date      string
	EntryType string
	RecipeID  Update[string]
	Title     Update[string]
	Text      Update[string]
}

func (u MealPlanUpdate) empty() bool {
	return u.Date == "" && u.EntryType == "" && u.RecipeID.IsKeep() && u.Title.IsKeep() && u.Text.IsKeep()
}

// UpdateMealPlan reads the entry, applies u and writes the full entry back.
// Fields u keeps are sent with their fetched values; cleared fields are sent
// as null.
func (c *Client) UpdateMealPlan(ctx context.Context, id string, u MealPlanUpdate) (Record, error) {
	if u.empty() {
		return nil, &ValidationError{Message: "no fields to update"}
	}
	if u.Date != "" {
		if _, err := ParseDate("date", u.Date); err != nil {
			return nil, err
		}
	}
	if u.EntryType != "" {
		if _, err := ParseEntryType(u.EntryType); err != nil {
			return nil, err
		}
	}

	rec, err := c.GetMealPlan(ctx, id)
	if err != nil {
		return nil, err
	}

	if u.Date != "" {
		rec["date"] = u.Date
	}
	if u.EntryType != "" {
		rec["entryType"] = u.EntryType
	}
	u.RecipeID.Apply(rec, "recipeId")
	u.Title.Apply(rec, "title")
	u.Text.Apply(rec, "text")
	if u.RecipeID.IsClear() {
		// The embedded recipe would otherwise contradict the cleared id.
		delete(rec, "recipe")
	}

	var out Record
	if err := c.Put(ctx, mealplansPath+"/"+escape(id), rec, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return c.GetMealPlan(ctx, id)
	}
	return out, nil
}

// DeleteMealPlan deletes an entry by id.
func (c *Client) DeleteMealPlan(ctx context.Context, id string) error {
	return c.deleteByID(ctx, mealplansPath, id)
}

// RandomMealPlan asks the upstream to plan a random recipe for date.
// If the upstream rejects the request, a random recipe is picked locally
// and planned instead.
func (c *Client) RandomMealPlan(ctx context.Context, date, entryType string) (Record, error) {
	if date == "" {
		date = time.Now().Format(DateLayout)
	}
	if _, err := ParseDate("date", date); err != nil {
		return nil, err
	}
	et, err := ParseEntryType(firstNonEmpty(entryType, string(EntryDinner)))
	if err != nil {
		return nil, err
	}

	var rec Record
	apiErr := c.Post(ctx, mealplansPath+"/random", map[string]any{"date": date, "entryType": et}, &rec)
	if apiErr == nil {
		return rec, nil
	}

	page, err := c.SearchRecipes(ctx, RecipeQuery{PageQuery: PageQuery{Page: 1, PerPage: 100}})
	if err != nil || len(page.Items) == 0 {
		return nil, apiErr
	}
	pick := page.Items[rand.IntN(len(page.Items))]
	return c.CreateMealPlan(ctx, MealPlanInput{Date: date, EntryType: string(et), RecipeID: pick.ID})
}

// SearchMealPlans lists entries in r whose recipe name, title or text
// contains q, case-insensitively.
func (c *Client) SearchMealPlans(ctx context.Context, q string, r MealPlanRange) ([]Record, error) {
	if strings.TrimSpace(q) == "" {
		return nil, &ValidationError{Field: "query", Message: "required"}
	}
	if r.Start == "" && r.End == "" {
		now := time.Now()
		r.Start = now.AddDate(0, 0, -30).Format(DateLayout)
		r.End = now.AddDate(0, 0, 30).Format(DateLayout)
	}
	entries, err := c.ListMealPlans(ctx, r)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(q)
	matches := make([]Record, 0)
	for _, e := range entries {
		haystack := []string{e.String("title"), e.String("text")}
		if recipe, ok := e["recipe"].(map[string]any); ok {
			name, _ := recipe["name"].(string)
			haystack = append(haystack, name)
		}
		for _, h := range haystack {
			if strings.Contains(strings.ToLower(h), needle) {
				matches = append(matches, e)
				break
			}
		}
	}
	return matches, nil
}

// DeleteMealPlansInRange deletes every entry between r.Start and r.End.
// Each deletion is reported separately.
func (c *Client) DeleteMealPlansInRange(ctx context.Context, r MealPlanRange) (*BatchResult, error) {
	if r.Start == "" || r.End == "" {
		return nil, &ValidationError{Field: "start_date", Message: "start_date and end_date are required"}
	}
	entries, err := c.ListMealPlans(ctx, r)
	if err != nil {
		return nil, err
	}
	result := &BatchResult{Results: []ItemResult{}}
	for i, e := range entries {
		id := e.ID()
		result.record(i, id, c.DeleteMealPlan(ctx, id))
	}
	return result, nil
}

// MealPlanBatchItem is one element of UpdateMealPlans.
type MealPlanBatchItem struct {
	ID     string
	Update MealPlanUpdate
}

// UpdateMealPlans applies each update independently and reports per-item
// outcomes.
func (c *Client) UpdateMealPlans(ctx context.Context, items []MealPlanBatchItem) (*BatchResult, error) {
	if len(items) == 0 {
		return nil, &ValidationError{Field: "updates", Message: "at least one update is required"}
	}
	result := &BatchResult{Results: []ItemResult{}}
	for i, item := range items {
		if item.ID == "" {
			result.record(i, "", &ValidationError{Field: "mealplan_id", Message: "required"})
			continue
		}
		_, err := c.UpdateMealPlan(ctx, item.ID, item.Update)
		result.record(i, item.ID, err)
	}
	return result, nil
}

// ListMealPlanRules returns every meal plan rule.
func (c *Client) ListMealPlanRules(ctx context.Context) ([]Record, error) {
	return ListAll[Record](ctx, c, rulesPath, nil)
}

// GetMealPlanRule fetches a rule by id.
func (c *Client) GetMealPlanRule(ctx context.Context, id string) (Record, error) {
	return c.getByID(ctx, rulesPath, id)
}

// MealPlanRuleInput describes a rule. Tags and categories are names.
type MealPlanRuleInput struct {
	Name       string
	EntryType  string
	Day        string
	Tags       []string
	Categories []string
}

// CreateMealPlanRule creates a rule, resolving tag and category names.
func (c *Client) CreateMealPlanRule(ctx context.Context, in MealPlanRuleInput) (Record, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, &ValidationError{Field: "name", Message: "required", Err: ErrEmptyName}
	}
	payload := map[string]any{
		"name":      in.Name,
		"entryType": firstNonEmpty(in.EntryType, "unset"),
		"day":       firstNonEmpty(in.Day, "unset"),
	}
	if in.EntryType != "" {
		if _, err := ParseEntryType(in.EntryType); err != nil {
			return nil, err
		}
	}
	if err := c.resolveRuleOrganizers(ctx, payload, in.Tags, in.Categories, true); err != nil {
		return nil, err
	}

	var rec Record
	if err := c.Post(ctx, rulesPath, payload, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// UpdateMealPlanRule changes the given fields of a rule. Nil slices keep
// the current organizers; non-nil ones replace them.
func (c *Client) UpdateMealPlanRule(ctx context.Context, id string, in MealPlanRuleInput) (Record, error) {
	rec, err := c.GetMealPlanRule(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != "" {
		rec["name"] = in.Name
	}
	if in.EntryType != "" {
		if _, err := ParseEntryType(in.EntryType); err != nil {
			return nil, err
		}
		rec["entryType"] = in.EntryType
	}
	if in.Day != "" {
		rec["day"] = in.Day
	}
	if err := c.resolveRuleOrganizers(ctx, rec, in.Tags, in.Categories, false); err != nil {
		return nil, err
	}

	var out Record
	if err := c.Put(ctx, rulesPath+"/"+escape(id), rec, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteMealPlanRule deletes a rule by id.
func (c *Client) DeleteMealPlanRule(ctx context.Context, id string) error {
	return c.deleteByID(ctx, rulesPath, id)
}

func (c *Client) resolveRuleOrganizers(ctx context.Context, payload map[string]any, tags, categories []string, always bool) error {
	sets := []struct {
		kind  EntityKind
		key   string
		names []string
	}{
		{KindTag, "tags", tags},
		{KindCategory, "categories", categories},
	}
	for _, set := range sets {
		if set.names == nil {
			if always {
				payload[set.key] = []Ref{}
			}
			continue
		}
		refs, err := c.NewResolver(set.kind).ResolveAll(ctx, set.names)
		if err != nil {
			return err
		}
		payload[set.key] = MergeRefs(nil, refs, Replace)
	}
	return nil
}

// sortEntries orders entries by date, then by entry type.
func sortEntries(entries []Record) {
	rank := make(map[string]int, len(EntryTypes))
	for i, t := range EntryTypes {
		rank[string(t)] = i
	}
	sort.SliceStable(entries, func(i, j int) bool {
		di, dj := entries[i].String("date"), entries[j].String("date")
		if di != dj {
			return di < dj
		}
		return rank[entries[i].String("entryType")] < rank[entries[j].String("entryType")]
	})
}
