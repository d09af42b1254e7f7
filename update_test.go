package mealie

import "testing"

func TestParseStringUpdate(t *testing.T) {
	tests := []struct {
		name      string
		raw       any
		present   bool
		wantKeep  bool
		wantClear bool
		wantValue string
	}{
		{"absent", nil, false, true, false, ""},
		{"json null", nil, true, true, false, ""},
		{"sentinel", ClearSentinel, true, false, true, ""},
		{"value", "Grandma's", true, false, false, "Grandma's"},
		{"empty string sets empty", "", true, false, false, ""},
		{"non-string ignored", 42.0, true, true, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := ParseStringUpdate(tt.raw, tt.present)
			if u.IsKeep() != tt.wantKeep {
				t.Errorf("IsKeep() = %v, want %v", u.IsKeep(), tt.wantKeep)
			}
			if u.IsClear() != tt.wantClear {
				t.Errorf("IsClear() = %v, want %v", u.IsClear(), tt.wantClear)
			}
			if v, ok := u.Value(); ok && v != tt.wantValue {
				t.Errorf("Value() = %q, want %q", v, tt.wantValue)
			}
		})
	}
}

func TestUpdate_Apply(t *testing.T) {
	m := map[string]any{"title": "Tacos", "text": "extra salsa"}

	Keep[string]().Apply(m, "title")
	if m["title"] != "Tacos" {
		t.Errorf("Keep changed title to %v", m["title"])
	}

	Clear[string]().Apply(m, "text")
	v, ok := m["text"]
	if !ok || v != nil {
		t.Errorf("Clear: text = %v (present %v), want explicit null", v, ok)
	}

	Set("Fish tacos").Apply(m, "title")
	if m["title"] != "Fish tacos" {
		t.Errorf("Set: title = %v, want %q", m["title"], "Fish tacos")
	}

	partial := map[string]any{}
	Keep[string]().Apply(partial, "description")
	if _, ok := partial["description"]; ok {
		t.Error("Keep must leave the key absent in a partial payload")
	}
}
