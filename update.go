package mealie

// ClearSentinel is the reserved argument value that explicitly unsets an
// optional field. Omitting the argument leaves the field untouched.
const ClearSentinel = "__CLEAR__"

type updateOp uint8

const (
	opKeep updateOp = iota
	opClear
	opSet
)

// Update is a tri-state change to one optional field: keep the current
// value, clear it to null, or set a new value. The zero value keeps.
type Update[T any] struct {
	op    updateOp
	value T
}

// Keep leaves the field unchanged.
func Keep[T any]() Update[T] { return Update[T]{} }

// Clear sets the field to null.
func Clear[T any]() Update[T] { return Update[T]{op: opClear} }

// Set replaces the field with v.
func Set[T any](v T) Update[T] { return Update[T]{op: opSet, value: v} }

// IsKeep reports whether u leaves the field untouched.
func (u Update[T]) IsKeep() bool { return u.op == opKeep }

// IsClear reports whether u clears the field.
func (u Update[T]) IsClear() bool { return u.op == opClear }

// Value returns the new value and whether u sets one.
func (u Update[T]) Value() (T, bool) { return u.value, u.op == opSet }

// Apply writes u into m under key. Keep does nothing, so the key stays
// absent in a partial payload or keeps its fetched value in a full one.
// Clear writes an explicit null.
func (u Update[T]) Apply(m map[string]any, key string) {
	switch u.op {
	case opClear:
		m[key] = nil
	case opSet:
		m[key] = u.value
	}
}

// ParseStringUpdate converts a raw tool argument into an Update. present
// reports whether the caller supplied the argument at all.
func ParseStringUpdate(raw any, present bool) Update[string] {
	if !present || raw == nil {
		return Keep[string]()
	}
	s, ok := raw.(string)
	if !ok {
		return Keep[string]()
	}
	if s == ClearSentinel {
		return Clear[string]()
	}
	return Set(s)
}
