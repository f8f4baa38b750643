// Package spec defines the flat record model produced by decomposing
// annotated types: the ID addressing scheme, the immutable Spec record, the
// Specs collection with its selection/grouping/merge operations, and the
// specifier directives that override single attributes.
package spec

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/agentic-research/dataspec/hint"
)

// Spec describes one node in the decomposition of a typed value: a field, a
// generic subtype, or an annotation-derived entry. Specs are immutable by
// convention; the With* helpers return modified copies and a containing
// Specs collection swaps old for new via Replace.
type Spec struct {
	// ID is the spec's address, unique within a completed collection.
	ID ID
	// Name is the display label, defaulting to the last ID segment.
	Name string
	// Tags are the classification markers collected from annotations.
	Tags []hint.Tag
	// Type is the (optionally annotation-stripped) type of the node.
	Type hint.Type
	// Data is the runtime value, or nil for unresolved nodes.
	Data any
	// Unit is the physical unit of the data, if any.
	Unit string
	// Origin is the parent object this spec was derived from, used for
	// grouping sibling directives that came from one annotation instance.
	Origin any
	// Meta holds leftover annotation objects the walker did not interpret.
	Meta []any
}

// New builds a spec with the name defaulted to the last ID segment.
func New(id ID, tags []hint.Tag, typ hint.Type, data any) Spec {
	return Spec{ID: id, Name: id.Base(), Tags: tags, Type: typ, Data: data}
}

// HasTag reports whether the spec carries the given tag.
func (s Spec) HasTag(t hint.Tag) bool {
	for _, tag := range s.Tags {
		if tag == t {
			return true
		}
	}
	return false
}

// HasCategory reports whether any of the spec's tags belongs to the given
// category.
func (s Spec) HasCategory(category string) bool {
	for _, tag := range s.Tags {
		if tag.Category() == category {
			return true
		}
	}
	return false
}

// WithID returns a copy addressed at id.
func (s Spec) WithID(id ID) Spec {
	s.ID = id
	return s
}

// WithName returns a copy with the display name replaced.
func (s Spec) WithName(name string) Spec {
	s.Name = name
	return s
}

// WithTags returns a copy with the tag set replaced.
func (s Spec) WithTags(tags ...hint.Tag) Spec {
	s.Tags = tags
	return s
}

// AddTags returns a copy with the given tags unioned into the tag set,
// preserving first-seen order.
func (s Spec) AddTags(tags ...hint.Tag) Spec {
	merged := make([]hint.Tag, len(s.Tags), len(s.Tags)+len(tags))
	copy(merged, s.Tags)
	for _, t := range tags {
		seen := false
		for _, m := range merged {
			if m == t {
				seen = true
				break
			}
		}
		if !seen {
			merged = append(merged, t)
		}
	}
	s.Tags = merged
	return s
}

// WithType returns a copy with the type replaced.
func (s Spec) WithType(t hint.Type) Spec {
	s.Type = t
	return s
}

// WithData returns a copy with the data replaced.
func (s Spec) WithData(data any) Spec {
	s.Data = data
	return s
}

// WithUnit returns a copy with the unit replaced.
func (s Spec) WithUnit(unit string) Spec {
	s.Unit = unit
	return s
}

// WithOrigin returns a copy with the origin replaced.
func (s Spec) WithOrigin(origin any) Spec {
	s.Origin = origin
	return s
}

// Cast returns a copy whose data has been re-wrapped by conv. The id, tags
// and remaining attributes are unchanged; Cast fails only if conv fails.
func (s Spec) Cast(conv func(any) (any, error)) (Spec, error) {
	data, err := conv(s.Data)
	if err != nil {
		return Spec{}, fmt.Errorf("cast %s: %w", s.ID, err)
	}
	s.Data = data
	return s, nil
}

// Attr returns the named attribute value. Recognized names are id, name,
// tags, type, data, unit and origin.
func (s Spec) Attr(name string) (any, error) {
	switch name {
	case "id":
		return s.ID, nil
	case "name":
		return s.Name, nil
	case "tags":
		return s.Tags, nil
	case "type":
		return s.Type, nil
	case "data":
		return s.Data, nil
	case "unit":
		return s.Unit, nil
	case "origin":
		return s.Origin, nil
	default:
		return nil, fmt.Errorf("%w: unknown attribute %q", ErrUnsupportedSelector, name)
	}
}

// WithAttr returns a copy with the named attribute replaced by value. The
// value must suit the attribute's type; id also accepts a rooted string.
func (s Spec) WithAttr(name string, value any) (Spec, error) {
	switch name {
	case "id":
		switch v := value.(type) {
		case ID:
			return s.WithID(v), nil
		case string:
			id, err := ParseID(v)
			if err != nil {
				return Spec{}, err
			}
			return s.WithID(id), nil
		}
	case "name":
		if v, ok := value.(string); ok {
			return s.WithName(v), nil
		}
	case "tags":
		if v, ok := value.([]hint.Tag); ok {
			return s.WithTags(v...), nil
		}
	case "type":
		if v, ok := value.(hint.Type); ok {
			return s.WithType(v), nil
		}
	case "data":
		return s.WithData(value), nil
	case "unit":
		if v, ok := value.(string); ok {
			return s.WithUnit(v), nil
		}
	case "origin":
		return s.WithOrigin(value), nil
	default:
		return Spec{}, fmt.Errorf("%w: unknown attribute %q", ErrUnsupportedSelector, name)
	}
	return Spec{}, fmt.Errorf("attribute %q does not accept %T", name, value)
}

// Equal reports deep structural equality of two specs.
func (s Spec) Equal(o Spec) bool {
	return reflect.DeepEqual(s, o)
}

func (s Spec) String() string {
	parts := []string{s.ID.String()}
	if len(s.Tags) > 0 {
		tags := make([]string, len(s.Tags))
		for i, t := range s.Tags {
			tags[i] = string(t)
		}
		parts = append(parts, "tags="+strings.Join(tags, "|"))
	}
	if s.Type != nil {
		parts = append(parts, "type="+s.Type.String())
	}
	if s.Data != nil {
		parts = append(parts, fmt.Sprintf("data=%v", s.Data))
	}
	return "Spec(" + strings.Join(parts, ", ") + ")"
}
