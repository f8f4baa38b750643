package spec

import (
	"fmt"
	"reflect"
)

// Specs is an ordered, insertion-order-preserving collection of specs. The
// walker produces it depth-first pre-order; all operations here return new
// collections and never mutate elements in place. A completed collection is
// safe for concurrent reads.
type Specs []Spec

// Clone returns a shallow copy.
func (ss Specs) Clone() Specs {
	out := make(Specs, len(ss))
	copy(out, ss)
	return out
}

// First returns a copy of the first spec, or nil if the collection is empty.
func (ss Specs) First() *Spec {
	if len(ss) == 0 {
		return nil
	}
	s := ss[0]
	return &s
}

// Last returns a copy of the last spec, or nil if the collection is empty.
func (ss Specs) Last() *Spec {
	if len(ss) == 0 {
		return nil
	}
	s := ss[len(ss)-1]
	return &s
}

// Unique returns a copy of the sole spec iff the collection has exactly one
// element, nil otherwise.
func (ss Specs) Unique() *Spec {
	if len(ss) != 1 {
		return nil
	}
	s := ss[0]
	return &s
}

// Select returns the specs matched by sel, in original order. A nil
// selector is unsupported; use All{} for a shallow copy. Selection by the
// same tag is idempotent: selecting twice equals selecting once.
func (ss Specs) Select(sel Selector) (Specs, error) {
	if sel == nil {
		return nil, fmt.Errorf("%w: nil", ErrUnsupportedSelector)
	}
	var out Specs
	for _, s := range ss {
		ok, err := sel.selMatch(s)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, s)
		}
	}
	return out, nil
}

// GroupBy partitions the collection by equal values of the named attribute
// (id, name, tags, type, data, unit or origin). Grouping uses value
// equality (reflect.DeepEqual), so behavior does not depend on object
// identity. Groups appear in first-seen order; elements keep their original
// order within a group.
func (ss Specs) GroupBy(attr string) ([]Specs, error) {
	var keys []any
	var groups []Specs
	for _, s := range ss {
		v, err := s.Attr(attr)
		if err != nil {
			return nil, err
		}
		found := false
		for i, k := range keys {
			if reflect.DeepEqual(k, v) {
				groups[i] = append(groups[i], s)
				found = true
				break
			}
		}
		if !found {
			keys = append(keys, v)
			groups = append(groups, Specs{s})
		}
	}
	return groups, nil
}

// Replace returns a new collection with every element structurally equal to
// old replaced by new. Non-matching elements pass through unchanged.
func (ss Specs) Replace(old, new Spec) Specs {
	out := make(Specs, len(ss))
	for i, s := range ss {
		if s.Equal(old) {
			out[i] = new
		} else {
			out[i] = s
		}
	}
	return out
}

// Sub returns the collection with every element structurally equal to a
// member of other removed, preserving order.
func (ss Specs) Sub(other Specs) Specs {
	var out Specs
	for _, s := range ss {
		removed := false
		for _, o := range other {
			if s.Equal(o) {
				removed = true
				break
			}
		}
		if !removed {
			out = append(out, s)
		}
	}
	return out
}

// Merge folds specs sharing an ID into one definitive spec per ID. Within a
// group, every spec whose Data is a Specifier is a directive; exactly one
// member must remain as the main spec, or Merge fails with
// ErrAmbiguousMerge. Each directive is applied to the main spec via its
// attribute rule (WithTag unions into the tag set, the others overwrite).
// Group order follows the first occurrence of each ID.
func (ss Specs) Merge() (Specs, error) {
	groups, err := ss.GroupBy("id")
	if err != nil {
		return nil, err
	}

	out := make(Specs, 0, len(groups))
	for _, group := range groups {
		directives, err := group.Select(byDirective{})
		if err != nil {
			return nil, err
		}
		mains := group.Sub(directives)
		main := mains.Unique()
		if main == nil {
			return nil, fmt.Errorf("%w: %d candidates at %s",
				ErrAmbiguousMerge, len(mains), group[0].ID)
		}

		merged := *main
		for _, d := range directives {
			merged = d.Data.(Specifier).Apply(merged)
		}
		out = append(out, merged)
	}
	return out, nil
}

// IDs returns the identifiers in collection order.
func (ss Specs) IDs() []ID {
	ids := make([]ID, len(ss))
	for i, s := range ss {
		ids[i] = s.ID
	}
	return ids
}
