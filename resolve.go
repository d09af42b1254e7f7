package mealie

import (
	"context"
	"fmt"
	"strings"
)

// EntityKind selects a name-addressable upstream collection.
type EntityKind string

const (
	KindTag      EntityKind = "tags"
	KindCategory EntityKind = "categories"
	KindTool     EntityKind = "tools"
	KindFood     EntityKind = "foods"
	KindUnit     EntityKind = "units"
)

// Path returns the collection endpoint for k.
func (k EntityKind) Path() string {
	switch k {
	case KindTag, KindCategory, KindTool:
		return "/api/organizers/" + string(k)
	case KindFood:
		return "/api/foods"
	case KindUnit:
		return "/api/units"
	default:
		return ""
	}
}

// Singular returns the human name of one entity of kind k.
func (k EntityKind) Singular() string {
	switch k {
	case KindCategory:
		return "category"
	default:
		return strings.TrimSuffix(string(k), "s")
	}
}

// MergePolicy decides how resolved organizers combine with a recipe's
// current set.
type MergePolicy int

const (
	// Replace makes the resolved set the full organizer set.
	Replace MergePolicy = iota
	// Additive unions the resolved set with the existing one.
	Additive
)

// Resolver maps names to upstream entities of one kind, creating missing
// ones. A Resolver belongs to a single logical operation: the existing set is
// fetched at most once and entities it creates are remembered, so resolving
// the same name twice never creates a duplicate.
type Resolver struct {
	client *Client
	kind   EntityKind
	byName map[string]Ref
	loaded bool
}

// NewResolver returns a Resolver for kind.
func (c *Client) NewResolver(kind EntityKind) *Resolver {
	return &Resolver{client: c, kind: kind}
}

// Kind returns the entity kind this resolver serves.
func (r *Resolver) Kind() EntityKind { return r.kind }

func (r *Resolver) load(ctx context.Context) error {
	if r.loaded {
		return nil
	}
	existing, err := ListAll[Ref](ctx, r.client, r.kind.Path(), nil)
	if err != nil {
		return err
	}
	r.byName = make(map[string]Ref, len(existing))
	for _, ref := range existing {
		if _, dup := r.byName[ref.Name]; !dup {
			r.byName[ref.Name] = ref
		}
	}
	r.loaded = true
	return nil
}

// Lookup finds an existing entity by exact, case-sensitive name.
func (r *Resolver) Lookup(ctx context.Context, name string) (Ref, bool, error) {
	if err := r.load(ctx); err != nil {
		return Ref{}, false, err
	}
	ref, ok := r.byName[name]
	return ref, ok, nil
}

// Resolve returns the entity named name, creating it upstream when absent.
// Errors from the create call are returned unchanged.
func (r *Resolver) Resolve(ctx context.Context, name string) (Ref, error) {
	if strings.TrimSpace(name) == "" {
		return Ref{}, &ValidationError{Field: r.kind.Singular(), Message: "name cannot be empty", Err: ErrEmptyName}
	}

	ref, ok, err := r.Lookup(ctx, name)
	if err != nil {
		return Ref{}, err
	}
	if ok {
		return ref, nil
	}

	var created Ref
	if err := r.client.Post(ctx, r.kind.Path(), map[string]any{"name": name}, &created); err != nil {
		return Ref{}, err
	}
	if created.ID == "" {
		return Ref{}, fmt.Errorf("mealie: create %s %q: response carried no id", r.kind.Singular(), name)
	}
	if created.Name == "" {
		created.Name = name
	}
	r.byName[name] = created
	return created, nil
}

// ResolveAll resolves each distinct non-blank name in order.
func (r *Resolver) ResolveAll(ctx context.Context, names []string) ([]Ref, error) {
	refs := make([]Ref, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		ref, err := r.Resolve(ctx, name)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// MergeRefs combines existing and resolved according to policy. Additive
// keeps existing entries first and drops resolved entries whose id is
// already present.
func MergeRefs(existing, resolved []Ref, policy MergePolicy) []Ref {
	if policy == Replace {
		return dedupeRefs(resolved)
	}
	merged := make([]Ref, 0, len(existing)+len(resolved))
	merged = append(merged, existing...)
	merged = append(merged, resolved...)
	return dedupeRefs(merged)
}

func dedupeRefs(refs []Ref) []Ref {
	out := make([]Ref, 0, len(refs))
	seen := make(map[string]bool, len(refs))
	for _, ref := range refs {
		key := ref.ID
		if key == "" {
			key = "name:" + ref.Name
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, ref)
	}
	return out
}
