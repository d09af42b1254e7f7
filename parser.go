package mealie

import (
	"context"
	"strings"
)

// Parsers accepted by the ingredient parser endpoints.
var Parsers = []string{"nlp", "brute", "openai"}

func checkParser(parser string) (string, error) {
	if parser == "" {
		return "nlp", nil
	}
	for _, p := range Parsers {
		if p == parser {
			return p, nil
		}
	}
	return "", &ValidationError{Field: "parser", Message: "must be one of nlp, brute, openai"}
}

// ParseIngredient parses one free-text ingredient line into structured form.
func (c *Client) ParseIngredient(ctx context.Context, text, parser string) (Record, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &ValidationError{Field: "ingredient", Message: "required"}
	}
	parser, err := checkParser(parser)
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := c.Post(ctx, "/api/parser/ingredient", map[string]any{"ingredient": text, "parser": parser}, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// ParseIngredients parses many lines in one upstream call.
func (c *Client) ParseIngredients(ctx context.Context, texts []string, parser string) ([]Record, error) {
	if len(texts) == 0 {
		return nil, &ValidationError{Field: "ingredients", Message: "at least one ingredient is required"}
	}
	parser, err := checkParser(parser)
	if err != nil {
		return nil, err
	}
	var out []Record
	if err := c.Post(ctx, "/api/parser/ingredients", map[string]any{"ingredients": texts, "parser": parser}, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Record{}
	}
	return out, nil
}
