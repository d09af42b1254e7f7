package mealie

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Record is an upstream object decoded without a fixed schema. Recipes, meal
// plan entries and shopping items travel as Records so read-modify-write
// cycles send back every field the upstream returned.
type Record map[string]any

// String returns the string value at key, or "" when absent or not a string.
func (r Record) String(key string) string {
	if s, ok := r[key].(string); ok {
		return s
	}
	return ""
}

// ID returns the record's id rendered as a string. Meal plan ids are numeric
// upstream, everything else is a UUID.
func (r Record) ID() string {
	switch v := r["id"].(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	case json.Number:
		return v.String()
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// Refs decodes the array at key into Refs, skipping malformed entries.
func (r Record) Refs(key string) []Ref {
	items, _ := r[key].([]any)
	refs := make([]Ref, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		ref := Ref{}
		ref.ID, _ = m["id"].(string)
		ref.Name, _ = m["name"].(string)
		ref.Slug, _ = m["slug"].(string)
		ref.GroupID, _ = m["groupId"].(string)
		if ref.ID == "" && ref.Name == "" {
			continue
		}
		refs = append(refs, ref)
	}
	return refs
}

// Ref identifies an upstream tag, category, tool, food or unit.
type Ref struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Slug    string `json:"slug,omitempty"`
	GroupID string `json:"groupId,omitempty"`
}

// Page is the upstream pagination envelope.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// AppInfo is the subset of /api/app/about used for connectivity checks.
type AppInfo struct {
	Version          string `json:"version"`
	Production       bool   `json:"production"`
	DemoStatus       bool   `json:"demoStatus"`
	AllowSignup      bool   `json:"allowSignup"`
	DefaultGroup     string `json:"defaultGroupSlug,omitempty"`
	EnableOIDC       bool   `json:"enableOidc"`
	BuildID          string `json:"buildId,omitempty"`
	DefaultHousehold string `json:"defaultHouseholdSlug,omitempty"`
}

// RecipeSummary is the shape returned by recipe list and search endpoints.
type RecipeSummary struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Slug           string   `json:"slug"`
	Description    string   `json:"description,omitempty"`
	Rating         *float64 `json:"rating,omitempty"`
	TotalTime      string   `json:"totalTime,omitempty"`
	RecipeYield    string   `json:"recipeYield,omitempty"`
	OrgURL         string   `json:"orgURL,omitempty"`
	Tags           []Ref    `json:"tags"`
	RecipeCategory []Ref    `json:"recipeCategory"`
	Tools          []Ref    `json:"tools,omitempty"`
	DateAdded      string   `json:"dateAdded,omitempty"`
	DateUpdated    string   `json:"dateUpdated,omitempty"`
}

// Food is an upstream ingredient food.
type Food struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PluralName  string `json:"pluralName,omitempty"`
	Description string `json:"description"`
	LabelID     string `json:"labelId,omitempty"`
}

// Unit is an upstream ingredient unit.
type Unit struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	PluralName   string `json:"pluralName,omitempty"`
	Description  string `json:"description"`
	Abbreviation string `json:"abbreviation"`
	Fraction     bool   `json:"fraction"`
}

// EntryType is a meal plan slot.
type EntryType string

const (
	EntryBreakfast EntryType = "breakfast"
	EntryLunch     EntryType = "lunch"
	EntryDinner    EntryType = "dinner"
	EntrySide      EntryType = "side"
	EntrySnack     EntryType = "snack"
)

// EntryTypes lists the accepted meal plan entry types in display order.
var EntryTypes = []EntryType{EntryBreakfast, EntryLunch, EntryDinner, EntrySide, EntrySnack}

// ParseEntryType validates s as an EntryType.
func ParseEntryType(s string) (EntryType, error) {
	for _, t := range EntryTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", &ValidationError{Field: "entry_type", Message: fmt.Sprintf("%q is not one of breakfast, lunch, dinner, side, snack", s), Err: ErrInvalidEntryType}
}

// DateLayout is the upstream calendar date format.
const DateLayout = "2006-01-02"

// ParseDate validates s as a YYYY-MM-DD date.
func ParseDate(field, s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, &ValidationError{Field: field, Message: fmt.Sprintf("%q is not a YYYY-MM-DD date", s), Err: ErrInvalidDate}
	}
	return t, nil
}

// ParseTimestamp reads an RFC 3339 timestamp or a plain date. Empty input
// yields the zero time.
func ParseTimestamp(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	return time.Time{}, &ValidationError{Field: field, Message: "must be an RFC 3339 timestamp or YYYY-MM-DD date"}
}

// ItemResult is the outcome of one element of a batch operation.
type ItemResult struct {
	Index   int    `json:"index"`
	ID      string `json:"id,omitempty"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// BatchResult aggregates per-item outcomes. A batch never fails as a whole
// because one element failed.
type BatchResult struct {
	Total     int          `json:"total"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	Results   []ItemResult `json:"results"`
}

func (b *BatchResult) record(index int, id string, err error) {
	b.Total++
	r := ItemResult{Index: index, ID: id, Success: err == nil}
	if err != nil {
		b.Failed++
		r.Error = Message(err)
	} else {
		b.Succeeded++
	}
	b.Results = append(b.Results, r)
}
