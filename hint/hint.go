// Package hint models annotated type expressions.
//
// A hint is an explicit, immutable value describing the shape of some data:
// a basic type, a generic container, a union of alternatives, a literal set,
// or a named struct with ordered fields. Any node can be wrapped in an
// Annotated layer carrying arbitrary annotation objects (tags, specifier
// overrides, sub-specifications). The walk package decomposes hints into
// flat spec collections.
package hint

import (
	"fmt"
	"reflect"
	"strings"
)

// Type is an annotated type expression. The set of implementations is
// closed: Basic, List, Map, Union, Literal, Struct and Annotated.
type Type interface {
	String() string
	isType()
}

// BasicKind enumerates the scalar kinds.
type BasicKind int

const (
	KindAny BasicKind = iota
	KindBool
	KindInt
	KindFloat
	KindString
)

var basicNames = map[BasicKind]string{
	KindAny:    "any",
	KindBool:   "bool",
	KindInt:    "int",
	KindFloat:  "float",
	KindString: "string",
}

// Basic is a scalar type.
type Basic struct {
	Kind BasicKind
}

// Predefined basic types.
var (
	Any    = Basic{Kind: KindAny}
	Bool   = Basic{Kind: KindBool}
	Int    = Basic{Kind: KindInt}
	Float  = Basic{Kind: KindFloat}
	String = Basic{Kind: KindString}
)

func (b Basic) isType() {}

func (b Basic) String() string {
	if name, ok := basicNames[b.Kind]; ok {
		return name
	}
	return fmt.Sprintf("basic(%d)", int(b.Kind))
}

// List is a homogeneous sequence type. Its single generic argument is the
// element type, addressed as subtype index 0.
type List struct {
	Elem Type
}

func (l List) isType() {}

func (l List) String() string {
	return fmt.Sprintf("list(%s)", l.Elem)
}

// Map is a key/value container type. Its generic arguments are the key type
// (subtype index 0) and the value type (subtype index 1).
type Map struct {
	Key   Type
	Value Type
}

func (m Map) isType() {}

func (m Map) String() string {
	return fmt.Sprintf("map(%s, %s)", m.Key, m.Value)
}

// Union is a set of alternative types.
type Union struct {
	Arms []Type
}

func (u Union) isType() {}

func (u Union) String() string {
	parts := make([]string, len(u.Arms))
	for i, arm := range u.Arms {
		parts[i] = arm.String()
	}
	return fmt.Sprintf("union(%s)", strings.Join(parts, ", "))
}

// Literal is a closed set of concrete values. Literals terminate recursion:
// they have no subtypes.
type Literal struct {
	Values []any
}

func (l Literal) isType() {}

func (l Literal) String() string {
	parts := make([]string, len(l.Values))
	for i, v := range l.Values {
		parts[i] = fmt.Sprintf("%v", v)
	}
	return fmt.Sprintf("literal(%s)", strings.Join(parts, ", "))
}

// Field is one named member of a Struct hint. Data carries the declared
// default value, used when no runtime value is supplied for the field.
type Field struct {
	Name string
	Type Type
	Data any
}

// Struct is a named record type with ordered fields. A Struct with no
// fields acts as an opaque marker for types decomposed elsewhere (e.g. by
// reflection).
type Struct struct {
	Name   string
	Fields []Field
}

func (s Struct) isType() {}

func (s Struct) String() string {
	if s.Name != "" {
		return s.Name
	}
	return "struct"
}

// Annotated wraps a type with annotation objects. Annotations are opaque to
// this package; the walker interprets tags, specifiers and sub-structs.
type Annotated struct {
	Type        Type
	Annotations []any
}

func (a Annotated) isType() {}

func (a Annotated) String() string {
	return fmt.Sprintf("annotated(%s)", a.Type)
}

// Annotate wraps t with the given annotation objects. The input is never
// mutated; annotating an already-annotated type adds another layer, which
// Annotations flattens on read.
func Annotate(t Type, anns ...any) Type {
	if len(anns) == 0 {
		return t
	}
	return Annotated{Type: t, Annotations: anns}
}

// Tagged wraps t with the given tags.
func Tagged(t Type, tags ...Tag) Type {
	anns := make([]any, len(tags))
	for i, tag := range tags {
		anns[i] = tag
	}
	return Annotate(t, anns...)
}

// Bare unwraps Annotated layers without descending into subtypes.
func Bare(t Type) Type {
	for {
		a, ok := t.(Annotated)
		if !ok {
			return t
		}
		t = a.Type
	}
}

// Strip recursively removes every Annotated layer, including those wrapping
// subtype arguments and union arms.
func Strip(t Type) Type {
	switch v := t.(type) {
	case Annotated:
		return Strip(v.Type)
	case List:
		return List{Elem: Strip(v.Elem)}
	case Map:
		return Map{Key: Strip(v.Key), Value: Strip(v.Value)}
	case Union:
		// identity when there is nothing to rebuild, so stripping an
		// annotation-free type stays structurally equal to the original
		if len(v.Arms) == 0 {
			return v
		}
		arms := make([]Type, len(v.Arms))
		for i, arm := range v.Arms {
			arms[i] = Strip(arm)
		}
		return Union{Arms: arms}
	case Struct:
		if len(v.Fields) == 0 {
			return v
		}
		fields := make([]Field, len(v.Fields))
		for i, f := range v.Fields {
			fields[i] = Field{Name: f.Name, Type: Strip(f.Type), Data: f.Data}
		}
		return Struct{Name: v.Name, Fields: fields}
	default:
		return t
	}
}

// First collapses a union to its first arm, preserving any outer annotation
// layers by re-wrapping the selected arm in them. Non-union types are
// returned unchanged.
func First(t Type) Type {
	switch v := t.(type) {
	case Annotated:
		return Annotated{Type: First(v.Type), Annotations: v.Annotations}
	case Union:
		if len(v.Arms) == 0 {
			return v
		}
		return First(v.Arms[0])
	default:
		return t
	}
}

// Args returns the generic subtype arguments of t, looking through
// annotation layers and flattening union arms. Literals, basics and structs
// have no subtype arguments.
func Args(t Type) []Type {
	switch v := t.(type) {
	case Annotated:
		return Args(v.Type)
	case Union:
		var args []Type
		for _, arm := range v.Arms {
			args = append(args, Args(arm)...)
		}
		return args
	case List:
		return []Type{v.Elem}
	case Map:
		return []Type{v.Key, v.Value}
	default:
		return nil
	}
}

// Annotations collects the annotation objects attached to t, innermost
// first, looking through union arms.
func Annotations(t Type) []any {
	switch v := t.(type) {
	case Annotated:
		return append(Annotations(v.Type), v.Annotations...)
	case Union:
		var anns []any
		for _, arm := range v.Arms {
			anns = append(anns, Annotations(arm)...)
		}
		return anns
	default:
		return nil
	}
}

// Tags returns the Tag values among the annotations of t, in declaration
// order.
func Tags(t Type) []Tag {
	var tags []Tag
	for _, a := range Annotations(t) {
		if tag, ok := a.(Tag); ok {
			tags = append(tags, tag)
		}
	}
	return tags
}

// Equal reports structural equality of two hints, annotations included.
func Equal(a, b Type) bool {
	return reflect.DeepEqual(a, b)
}

// Satisfies reports whether a value of type t would be acceptable where
// target is expected. Annotations are ignored on both sides. Any accepts
// everything; a union target accepts a type satisfying any arm; containers
// match element-wise; structs match by name.
func Satisfies(t, target Type) bool {
	t, target = Strip(Bare(t)), Strip(Bare(target))

	if b, ok := target.(Basic); ok && b.Kind == KindAny {
		return true
	}

	switch tv := target.(type) {
	case Basic:
		b, ok := t.(Basic)
		return ok && b.Kind == tv.Kind
	case List:
		l, ok := t.(List)
		return ok && Satisfies(l.Elem, tv.Elem)
	case Map:
		m, ok := t.(Map)
		return ok && Satisfies(m.Key, tv.Key) && Satisfies(m.Value, tv.Value)
	case Union:
		for _, arm := range tv.Arms {
			if Satisfies(t, arm) {
				return true
			}
		}
		return false
	case Literal:
		return reflect.DeepEqual(t, tv)
	case Struct:
		s, ok := t.(Struct)
		return ok && s.Name == tv.Name
	default:
		return false
	}
}
