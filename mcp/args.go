package mcp

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/hyperengineering/mealie-mcp"
	"github.com/mark3labs/mcp-go/mcp"
)

// Argument helpers. Tool arguments arrive as decoded JSON, so numbers are
// float64 and arrays are []any.

func stringArg(args map[string]any, key string) string {
	switch v := args[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	default:
		return ""
	}
}

// rejectSentinel fails when the clear sentinel is passed for a parameter
// that cannot be cleared. Clearable parameters carry clearHint in their
// schema description.
func rejectSentinel(tool mcp.Tool, args map[string]any) error {
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if v, ok := args[key].(string); !ok || v != mealie.ClearSentinel {
			continue
		}
		prop, _ := tool.InputSchema.Properties[key].(map[string]any)
		desc, _ := prop["description"].(string)
		if !strings.Contains(desc, clearHint) {
			return &mealie.ValidationError{Field: key, Message: "cannot be cleared"}
		}
	}
	return nil
}

func requiredString(args map[string]any, key string) (string, error) {
	v := strings.TrimSpace(stringArg(args, key))
	if v == "" {
		return "", &mealie.ValidationError{Field: key, Message: "required"}
	}
	return v, nil
}

func intArg(args map[string]any, key string, def int) int {
	switch v := args[key].(type) {
	case float64:
		return int(math.Round(v))
	case int:
		return v
	case int64:
		return int(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}

func floatArg(args map[string]any, key string) (float64, bool) {
	switch v := args[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	}
	return 0, false
}

func boolArg(args map[string]any, key string, def bool) bool {
	switch v := args[key].(type) {
	case bool:
		return v
	case string:
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

// optionalBool distinguishes an absent flag from false.
func optionalBool(args map[string]any, key string) *bool {
	v, ok := args[key].(bool)
	if !ok {
		return nil
	}
	return &v
}

// stringSliceArg reads a list of strings. A nil result means the argument
// was absent; an explicit empty list yields an empty, non-nil slice.
func stringSliceArg(args map[string]any, key string) []string {
	switch v := args[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		if strings.TrimSpace(v) == "" {
			return []string{}
		}
		return []string{v}
	default:
		return nil
	}
}

func objectSliceArg(args map[string]any, key string) ([]map[string]any, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		if typed, ok := raw.([]map[string]any); ok {
			return typed, nil
		}
		return nil, &mealie.ValidationError{Field: key, Message: "must be a list of objects"}
	}
	out := make([]map[string]any, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, &mealie.ValidationError{Field: fmt.Sprintf("%s[%d]", key, i), Message: "must be an object"}
		}
		out = append(out, obj)
	}
	return out, nil
}

// boolMapArg reads an object of boolean switches. Absent yields nil.
func boolMapArg(args map[string]any, key string) (map[string]bool, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil, nil
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, &mealie.ValidationError{Field: key, Message: "must be an object"}
	}
	out := make(map[string]bool, len(obj))
	for k, v := range obj {
		b, ok := v.(bool)
		if !ok {
			return nil, &mealie.ValidationError{Field: key + "." + k, Message: "must be true or false"}
		}
		out[k] = b
	}
	return out, nil
}

// updateArg reads an optional field that may be cleared with the sentinel.
func updateArg(args map[string]any, key string) mealie.Update[string] {
	raw, present := args[key]
	return mealie.ParseStringUpdate(raw, present)
}

// ingredientArgs converts structured ingredient objects, as produced by the
// parser tools, into client inputs. Parser output nests the ingredient under
// an "ingredient" key; both shapes are accepted.
func ingredientArgs(items []map[string]any) []mealie.IngredientInput {
	out := make([]mealie.IngredientInput, 0, len(items))
	for _, item := range items {
		if nested, ok := item["ingredient"].(map[string]any); ok {
			item = nested
		}
		in := mealie.IngredientInput{
			Unit:         refArg(item["unit"]),
			Food:         refArg(item["food"]),
			Note:         stringArg(item, "note"),
			Display:      stringArg(item, "display"),
			Title:        stringArg(item, "title"),
			OriginalText: stringArg(item, "originalText"),
			ReferenceID:  stringArg(item, "referenceId"),
		}
		if q, ok := floatArg(item, "quantity"); ok {
			in.Quantity = &q
		}
		out = append(out, in)
	}
	return out
}

func refArg(v any) *mealie.RefInput {
	switch ref := v.(type) {
	case string:
		if strings.TrimSpace(ref) == "" {
			return nil
		}
		return &mealie.RefInput{Name: ref}
	case map[string]any:
		in := &mealie.RefInput{Name: stringArg(ref, "name"), ID: stringArg(ref, "id")}
		if in.Name == "" && in.ID == "" {
			return nil
		}
		return in
	default:
		return nil
	}
}
