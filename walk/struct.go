package walk

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/agentic-research/dataspec/hint"
	"github.com/agentic-research/dataspec/spec"
)

// Annotator attaches rich annotation objects (tags, specifiers,
// sub-specifications) to struct fields, keyed by the Go field name. Struct
// tags cover the string-representable options; types implement Annotator
// when a field needs annotation values that cannot be spelled in a tag.
// A hint.Type among a field's annotations replaces the reflected hint
// entirely, which is how element-level annotations (e.g. a tagged list
// element) are expressed for reflected fields.
type Annotator interface {
	SpecAnnotations() map[string][]any
}

// walkStruct emits specs for every exported field of a struct value, in
// declaration order, delegating each field to the hint walker. origin is
// recorded on every emitted spec so sibling directives from one annotation
// instance can be grouped later.
func (w *Walker) walkStruct(obj any, id spec.ID, origin any) (spec.Specs, error) {
	rv := reflect.ValueOf(obj)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			// bare-type walk: field data falls back to zero values
			rv = reflect.Zero(rv.Type().Elem())
		} else {
			rv = rv.Elem()
		}
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("cannot walk %T: not a struct", obj)
	}

	var fieldAnns map[string][]any
	if a, ok := obj.(Annotator); ok {
		if pv := reflect.ValueOf(obj); pv.Kind() != reflect.Pointer || !pv.IsNil() {
			fieldAnns = a.SpecAnnotations()
		}
	}

	rt := rv.Type()
	var out spec.Specs
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		opts, err := parseFieldTag(f.Tag.Get("spec"))
		if err != nil {
			return nil, fmt.Errorf("field %s.%s: %w", rt.Name(), f.Name, err)
		}
		if opts.skip {
			continue
		}

		segment := opts.segment
		if segment == "" {
			segment = toSnake(f.Name)
		}

		fh := hintOf(f.Type)
		override, extra := splitHintOverride(fieldAnns[f.Name])
		if override != nil {
			fh = override
		}
		fh = hint.Annotate(fh, opts.annotations(extra)...)
		data := rv.Field(i).Interface()

		sub, err := w.walkHint(fh, id.Join(segment), data, origin)
		if err != nil {
			return nil, err
		}
		out = append(out, sub...)

		// Nested struct field types decompose as children of the field's
		// spec, carrying the nested value as their origin. An override hint
		// already declared the field's shape, so it suppresses this pass:
		// walking both would emit two mains per child ID.
		if override == nil && !spec.IsSpecifier(data) {
			if fv, ok := derefStruct(rv.Field(i)); ok {
				nested, err := w.walkStruct(fv.Interface(), id.Join(segment), fv.Interface())
				if err != nil {
					return nil, err
				}
				out = append(out, nested...)
			}
		}
	}
	return out, nil
}

// splitHintOverride separates a hint.Type annotation (the field hint
// override) from the remaining annotation objects.
func splitHintOverride(anns []any) (hint.Type, []any) {
	var override hint.Type
	var rest []any
	for _, a := range anns {
		if h, ok := a.(hint.Type); ok && override == nil {
			override = h
			continue
		}
		rest = append(rest, a)
	}
	return override, rest
}

// derefStruct resolves a field value to a walkable struct, looking through
// one pointer level. Interface-typed fields are leaves.
func derefStruct(v reflect.Value) (reflect.Value, bool) {
	switch v.Kind() {
	case reflect.Struct:
		return v, true
	case reflect.Pointer:
		if v.Type().Elem().Kind() != reflect.Struct {
			return reflect.Value{}, false
		}
		if v.IsNil() {
			return reflect.Zero(v.Type().Elem()), true
		}
		return v.Elem(), true
	default:
		return reflect.Value{}, false
	}
}

// hintOf maps a reflect.Type to its hint. Pointers collapse to their
// element type; structs become opaque named markers decomposed by
// walkStruct rather than by hint fields.
func hintOf(t reflect.Type) hint.Type {
	switch t.Kind() {
	case reflect.Bool:
		return hint.Bool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return hint.Int
	case reflect.Float32, reflect.Float64:
		return hint.Float
	case reflect.String:
		return hint.String
	case reflect.Slice, reflect.Array:
		return hint.List{Elem: hintOf(t.Elem())}
	case reflect.Map:
		return hint.Map{Key: hintOf(t.Key()), Value: hintOf(t.Elem())}
	case reflect.Pointer:
		return hintOf(t.Elem())
	case reflect.Struct:
		return hint.Struct{Name: t.Name()}
	default:
		return hint.Any
	}
}

// fieldTag is the parsed form of a `spec:"..."` struct tag. The first item
// renames the path segment; options follow as key=value pairs:
// tag= (repeatable), unit=, name= (display name), id= (identifier
// override). `spec:"-"` skips the field.
type fieldTag struct {
	skip    bool
	segment string
	tags    []hint.Tag
	unit    string
	display string
	idOver  string
}

func parseFieldTag(raw string) (fieldTag, error) {
	var ft fieldTag
	if raw == "" {
		return ft, nil
	}
	if raw == "-" {
		ft.skip = true
		return ft, nil
	}
	parts := strings.Split(raw, ",")
	ft.segment = parts[0]
	for _, p := range parts[1:] {
		key, value, found := strings.Cut(p, "=")
		if !found {
			return ft, fmt.Errorf("malformed spec tag option %q", p)
		}
		switch key {
		case "tag":
			ft.tags = append(ft.tags, hint.Tag(value))
		case "unit":
			ft.unit = value
		case "name":
			ft.display = value
		case "id":
			ft.idOver = value
		default:
			return ft, fmt.Errorf("unknown spec tag option %q", key)
		}
	}
	return ft, nil
}

// annotations flattens the tag options and any Annotator-provided extras
// into the annotation list attached to the field's hint.
func (ft fieldTag) annotations(extra []any) []any {
	var anns []any
	for _, t := range ft.tags {
		anns = append(anns, t)
	}
	if ft.unit != "" {
		anns = append(anns, spec.WithUnit(ft.unit))
	}
	if ft.display != "" {
		anns = append(anns, spec.WithName(ft.display))
	}
	if ft.idOver != "" {
		anns = append(anns, spec.WithID(ft.idOver))
	}
	return append(anns, extra...)
}

// toSnake converts a Go field name to lower snake case: TempUnit →
// temp_unit, HTTPStatus → http_status.
func toSnake(name string) string {
	runes := []rune(name)
	var sb strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && !unicode.IsUpper(runes[i-1])
			nextLower := i+1 < len(runes) && !unicode.IsUpper(runes[i+1])
			if i > 0 && (prevLower || nextLower) {
				sb.WriteByte('_')
			}
			sb.WriteRune(unicode.ToLower(r))
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
