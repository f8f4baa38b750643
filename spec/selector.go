package spec

import (
	"reflect"

	"github.com/agentic-research/dataspec/hint"
)

// Selector chooses specs out of a collection. The set of implementations is
// closed: ByTag, ByCategory, ByType, ByPattern, ByGlob, ByAttr, ByData, All
// and any Specifier (which selects by attribute equality). This replaces
// open-ended dispatch on the runtime type of an index value.
type Selector interface {
	selMatch(Spec) (bool, error)
}

// ByTag selects specs whose tag set contains the tag.
type ByTag hint.Tag

func (b ByTag) selMatch(s Spec) (bool, error) {
	return s.HasTag(hint.Tag(b)), nil
}

// ByCategory selects specs carrying any tag of the given category.
type ByCategory string

func (b ByCategory) selMatch(s Spec) (bool, error) {
	return s.HasCategory(string(b)), nil
}

// ByPattern selects specs whose ID full-matches the regular expression.
type ByPattern string

func (b ByPattern) selMatch(s Spec) (bool, error) {
	return s.ID.Matches(string(b))
}

// ByGlob selects specs whose ID matches the restricted glob pattern
// ("*" = one segment, "**" = any segments).
type ByGlob string

func (b ByGlob) selMatch(s Spec) (bool, error) {
	return s.ID.MatchesGlob(string(b))
}

// ByType selects specs whose type satisfies the given type (see
// hint.Satisfies).
type ByType struct {
	Type hint.Type
}

func (b ByType) selMatch(s Spec) (bool, error) {
	return s.Type != nil && hint.Satisfies(s.Type, b.Type), nil
}

// ByAttr selects specs whose named attribute deep-equals Value.
type ByAttr struct {
	Name  string
	Value any
}

func (b ByAttr) selMatch(s Spec) (bool, error) {
	v, err := s.Attr(b.Name)
	if err != nil {
		return false, err
	}
	return reflect.DeepEqual(v, b.Value), nil
}

// ByData selects specs whose data deep-equals Value.
type ByData struct {
	Value any
}

func (b ByData) selMatch(s Spec) (bool, error) {
	return reflect.DeepEqual(s.Data, b.Value), nil
}

// All selects every spec (a shallow copy of the collection).
type All struct{}

func (All) selMatch(Spec) (bool, error) { return true, nil }

// byDirective selects specs whose Data is a Specifier. Used by Merge to
// separate directives from main specs.
type byDirective struct{}

func (byDirective) selMatch(s Spec) (bool, error) { return IsSpecifier(s.Data), nil }
