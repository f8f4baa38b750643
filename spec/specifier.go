package spec

import (
	"reflect"
	"strings"

	"github.com/agentic-research/dataspec/hint"
)

// Specifier is a directive that overrides exactly one spec attribute. A
// specifier plays three roles:
//
//   - as a hint annotation, it overrides the corresponding attribute of the
//     spec emitted for that node (at most one per kind, except tags);
//   - as a spec's Data value, it marks the spec as a merge directive that
//     Specs.Merge folds into the main spec sharing the same ID;
//   - as a Selector, it equality-tests the attribute against each spec.
//
// The set of implementations is closed: WithID, WithName, WithTag,
// WithType, WithUnit and WithData.
type Specifier interface {
	Selector

	// Kind names the attribute the specifier targets.
	Kind() string
	// Apply folds the carried value into the spec, returning a copy.
	Apply(Spec) Spec
	// Matches equality-tests the carried value against the spec's attribute.
	Matches(Spec) bool
}

// IsSpecifier reports whether v is a specifier directive.
func IsSpecifier(v any) bool {
	_, ok := v.(Specifier)
	return ok
}

// WithID overrides a spec's identifier. An absolute value replaces the
// whole ID; a relative value replaces the final segment(s) under the
// current parent.
func WithID(value string) Specifier { return withID{value} }

// WithName overrides a spec's display name.
func WithName(value string) Specifier { return withName{value} }

// WithTag adds a tag to a spec's tag set. Unlike the other kinds, several
// WithTag directives may target one node; each unions in its tag.
func WithTag(value hint.Tag) Specifier { return withTag{value} }

// WithType overrides a spec's type.
func WithType(value hint.Type) Specifier { return withType{value} }

// WithUnit overrides a spec's unit.
func WithUnit(value string) Specifier { return withUnit{value} }

// WithData overrides a spec's data.
func WithData(value any) Specifier { return withData{value} }

type withID struct{ value string }

func (w withID) Kind() string { return "id" }

func (w withID) Apply(s Spec) Spec {
	if strings.HasPrefix(w.value, rootPath) {
		id, err := ParseID(w.value)
		if err != nil {
			return s
		}
		return s.WithID(id)
	}
	return s.WithID(s.ID.Parent().Join(w.value))
}

func (w withID) Matches(s Spec) bool {
	if strings.HasPrefix(w.value, rootPath) {
		id, err := ParseID(w.value)
		return err == nil && s.ID == id
	}
	return s.ID.Base() == w.value
}

func (w withID) selMatch(s Spec) (bool, error) { return w.Matches(s), nil }

type withName struct{ value string }

func (w withName) Kind() string                  { return "name" }
func (w withName) Apply(s Spec) Spec             { return s.WithName(w.value) }
func (w withName) Matches(s Spec) bool           { return s.Name == w.value }
func (w withName) selMatch(s Spec) (bool, error) { return w.Matches(s), nil }

type withTag struct{ value hint.Tag }

func (w withTag) Kind() string                  { return "tag" }
func (w withTag) Apply(s Spec) Spec             { return s.AddTags(w.value) }
func (w withTag) Matches(s Spec) bool           { return s.HasTag(w.value) }
func (w withTag) selMatch(s Spec) (bool, error) { return w.Matches(s), nil }

type withType struct{ value hint.Type }

func (w withType) Kind() string                  { return "type" }
func (w withType) Apply(s Spec) Spec             { return s.WithType(w.value) }
func (w withType) Matches(s Spec) bool           { return hint.Equal(s.Type, w.value) }
func (w withType) selMatch(s Spec) (bool, error) { return w.Matches(s), nil }

type withUnit struct{ value string }

func (w withUnit) Kind() string                  { return "unit" }
func (w withUnit) Apply(s Spec) Spec             { return s.WithUnit(w.value) }
func (w withUnit) Matches(s Spec) bool           { return s.Unit == w.value }
func (w withUnit) selMatch(s Spec) (bool, error) { return w.Matches(s), nil }

type withData struct{ value any }

func (w withData) Kind() string                  { return "data" }
func (w withData) Apply(s Spec) Spec             { return s.WithData(w.value) }
func (w withData) Matches(s Spec) bool           { return reflect.DeepEqual(s.Data, w.value) }
func (w withData) selMatch(s Spec) (bool, error) { return w.Matches(s), nil }
