// Package walk decomposes annotated hints and struct values into flat,
// ordered spec collections. Output is depth-first pre-order: a node's spec
// precedes the specs of its subtypes, and fields/subtype arguments appear
// in declared/positional order.
package walk

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/agentic-research/dataspec/hint"
	"github.com/agentic-research/dataspec/spec"
)

// Walker holds the traversal policy knobs. The zero policy (via New) is:
// collapse unions to their first arm, strip annotations from emitted types,
// keep untagged specs.
type Walker struct {
	firstOnly  bool
	taggedOnly bool
	typeOnly   bool
	factory    func(spec.Spec) spec.Spec
}

// Option configures a Walker.
type Option func(*Walker)

// FirstOnly controls union collapsing: when true (the default) only the
// first union arm is decomposed; when false every arm is walked as an
// indexed child.
func FirstOnly(v bool) Option {
	return func(w *Walker) { w.firstOnly = v }
}

// TaggedOnly, when true, drops specs carrying no tags and having no tagged
// descendants.
func TaggedOnly(v bool) Option {
	return func(w *Walker) { w.taggedOnly = v }
}

// TypeOnly controls whether emitted types are stripped of annotations
// (true, the default) or retain them.
func TypeOnly(v bool) Option {
	return func(w *Walker) { w.typeOnly = v }
}

// WithFactory installs a post-processing hook applied to every emitted
// spec.
func WithFactory(f func(spec.Spec) spec.Spec) Option {
	return func(w *Walker) { w.factory = f }
}

// New returns a Walker with the default policy, adjusted by opts.
func New(opts ...Option) *Walker {
	w := &Walker{firstOnly: true, typeOnly: true}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// FromHint decomposes a hint into specs under the root with no data,
// using the default policy.
func FromHint(t hint.Type) (spec.Specs, error) {
	return New().FromHint(t, spec.Root, nil)
}

// FromStruct decomposes a struct value into specs under the root, using the
// default policy.
func FromStruct(obj any) (spec.Specs, error) {
	return New().FromStruct(obj, spec.Root)
}

// FromHint decomposes the hint t rooted at id, carrying data as the runtime
// value of the node itself. The result is merged (directives folded into
// their main specs) and filtered per the walker's policy.
func (w *Walker) FromHint(t hint.Type, id spec.ID, data any) (spec.Specs, error) {
	out, err := w.walkHint(t, id, data, nil)
	if err != nil {
		return nil, err
	}
	return w.finish(out)
}

// FromStruct decomposes a struct value (or pointer) rooted at id. Fields
// are visited in declaration order; a typed nil pointer walks the bare type
// with zero-value data.
func (w *Walker) FromStruct(obj any, id spec.ID) (spec.Specs, error) {
	out, err := w.walkStruct(obj, id, obj)
	if err != nil {
		return nil, err
	}
	return w.finish(out)
}

func (w *Walker) finish(ss spec.Specs) (spec.Specs, error) {
	merged, err := ss.Merge()
	if err != nil {
		return nil, err
	}
	if w.taggedOnly {
		merged = filterTagged(merged)
	}
	return merged, nil
}

// walkHint emits the spec for one node and recurses into its subtypes and
// annotation sub-structs. No merging happens at this level.
func (w *Walker) walkHint(t hint.Type, id spec.ID, data any, origin any) (spec.Specs, error) {
	if w.firstOnly {
		t = hint.First(t)
	}

	res, err := resolveAnnotations(hint.Annotations(t), id)
	if err != nil {
		return nil, err
	}

	if ov, ok := res.overrides["id"]; ok {
		id = ov.Apply(spec.Spec{ID: id}).ID
	}

	typ := t
	if w.typeOnly {
		typ = hint.Strip(t)
	}

	s := spec.Spec{
		ID:     id,
		Name:   id.Base(),
		Tags:   res.tags,
		Type:   typ,
		Data:   data,
		Origin: origin,
		Meta:   res.meta,
	}
	for _, kind := range []string{"name", "type", "unit", "data"} {
		if ov, ok := res.overrides[kind]; ok {
			s = ov.Apply(s)
		}
	}
	for _, ov := range res.tagOverrides {
		s = ov.Apply(s)
	}
	if w.factory != nil {
		s = w.factory(s)
	}

	out := spec.Specs{s}

	// A directive-valued node is a leaf: merge folds it into the main spec
	// at the same ID later.
	if spec.IsSpecifier(s.Data) {
		return out, nil
	}

	switch bare := hint.Bare(t).(type) {
	case hint.Literal:
		// terminates recursion

	case hint.Union:
		for i, arm := range bare.Arms {
			sub, err := w.walkHint(arm, id.Join(strconv.Itoa(i)), nil, origin)
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
		}

	case hint.Struct:
		for _, f := range bare.Fields {
			fdata := f.Data
			if m, ok := s.Data.(map[string]any); ok {
				if v, exists := m[f.Name]; exists {
					fdata = v
				}
			}
			sub, err := w.walkHint(f.Type, id.Join(f.Name), fdata, origin)
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
		}

	default:
		for i, arg := range hint.Args(bare) {
			sub, err := w.walkHint(arg, id.Join(strconv.Itoa(i)), nil, origin)
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
		}
	}

	// Annotation objects that are themselves structs are sub-specifications:
	// their fields become children addressed under the current id.
	for _, sub := range res.subs {
		nested, err := w.walkStruct(sub, id, sub)
		if err != nil {
			return nil, err
		}
		out = append(out, nested...)
	}

	return out, nil
}

// resolved is the outcome of sorting a node's annotations into tags,
// attribute overrides, sub-specifications and leftover metadata.
type resolved struct {
	tags         []hint.Tag
	overrides    map[string]spec.Specifier
	tagOverrides []spec.Specifier
	subs         []any
	meta         []any
}

func resolveAnnotations(anns []any, id spec.ID) (resolved, error) {
	res := resolved{overrides: make(map[string]spec.Specifier)}
	for _, a := range anns {
		switch v := a.(type) {
		case hint.Tag:
			res.tags = append(res.tags, v)
		case spec.Specifier:
			if v.Kind() == "tag" {
				res.tagOverrides = append(res.tagOverrides, v)
				continue
			}
			if _, dup := res.overrides[v.Kind()]; dup {
				return resolved{}, fmt.Errorf("%w: %s at %s",
					spec.ErrAmbiguousSpecifier, v.Kind(), id)
			}
			res.overrides[v.Kind()] = v
		case hint.Type:
			// a hint used as an annotation carries no meaning here
			res.meta = append(res.meta, v)
		default:
			if reflect.ValueOf(a).Kind() == reflect.Struct {
				res.subs = append(res.subs, a)
			} else {
				res.meta = append(res.meta, a)
			}
		}
	}
	return res, nil
}

// filterTagged keeps specs that carry tags or have a tagged descendant.
func filterTagged(ss spec.Specs) spec.Specs {
	var out spec.Specs
	for _, s := range ss {
		if len(s.Tags) > 0 {
			out = append(out, s)
			continue
		}
		for _, o := range ss {
			if len(o.Tags) > 0 && o.ID.IsDescendantOf(s.ID) {
				out = append(out, s)
				break
			}
		}
	}
	return out
}
