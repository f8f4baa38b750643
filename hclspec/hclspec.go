// Package hclspec loads hint schemas from HCL documents, so annotated type
// trees can be declared as data instead of constructed in Go. A document is
// a sequence of nested spec blocks:
//
//	spec "temp" {
//	  type = "list(float)"
//	  tags = ["meas:data"]
//	  unit = "K"
//
//	  spec "0" {
//	    type = "float"
//	    tags = ["meas:dtype"]
//	  }
//	}
//
// Load parses bytes only; reading files is the caller's concern.
package hclspec

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"

	"github.com/agentic-research/dataspec/hint"
	"github.com/agentic-research/dataspec/spec"
)

var rootSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "spec", LabelNames: []string{"name"}},
	},
}

var specSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "type"},
		{Name: "tags"},
		{Name: "unit"},
		{Name: "name"},
		{Name: "data"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "spec", LabelNames: []string{"name"}},
	},
}

// Load parses an HCL schema document into a struct hint whose fields are
// the top-level spec blocks. filename is used for diagnostics only.
func Load(filename string, src []byte) (hint.Type, error) {
	file, diags := hclsyntax.ParseConfig(src, filename, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse %s: %s", filename, diags.Error())
	}
	fields, err := decodeFields(file.Body)
	if err != nil {
		return nil, err
	}
	return hint.Struct{Fields: fields}, nil
}

func decodeFields(body hcl.Body) ([]hint.Field, error) {
	content, diags := body.Content(rootSchema)
	if diags.HasErrors() {
		return nil, fmt.Errorf("decode spec blocks: %s", diags.Error())
	}
	var fields []hint.Field
	for _, block := range content.Blocks {
		field, err := decodeSpecBlock(block)
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}
	return fields, nil
}

func decodeSpecBlock(block *hcl.Block) (hint.Field, error) {
	label := block.Labels[0]
	content, diags := block.Body.Content(specSchema)
	if diags.HasErrors() {
		return hint.Field{}, fmt.Errorf("decode spec %q: %s", label, diags.Error())
	}

	// The type attribute declares the shape (default any). Nested spec
	// blocks either graft onto a container type's subtype positions, or,
	// with no type attribute, make this a struct hint.
	var typ hint.Type = hint.Any
	typeAttr, hasType := content.Attributes["type"]
	if hasType {
		s, err := stringValue(typeAttr)
		if err != nil {
			return hint.Field{}, fmt.Errorf("spec %q: %w", label, err)
		}
		typ, err = ParseTypeExpr(s)
		if err != nil {
			return hint.Field{}, fmt.Errorf("spec %q: %w", label, err)
		}
	}
	if len(content.Blocks) > 0 {
		var nested []hint.Field
		for _, b := range content.Blocks {
			f, err := decodeSpecBlock(b)
			if err != nil {
				return hint.Field{}, err
			}
			nested = append(nested, f)
		}
		if hasType {
			var err error
			typ, err = graftSubtypes(typ, nested)
			if err != nil {
				return hint.Field{}, fmt.Errorf("spec %q: %w", label, err)
			}
		} else {
			typ = hint.Struct{Name: label, Fields: nested}
		}
	}

	var anns []any
	if attr, ok := content.Attributes["tags"]; ok {
		tags, err := stringListValue(attr)
		if err != nil {
			return hint.Field{}, fmt.Errorf("spec %q: %w", label, err)
		}
		for _, t := range tags {
			anns = append(anns, hint.Tag(t))
		}
	}
	if attr, ok := content.Attributes["unit"]; ok {
		s, err := stringValue(attr)
		if err != nil {
			return hint.Field{}, fmt.Errorf("spec %q: %w", label, err)
		}
		anns = append(anns, spec.WithUnit(s))
	}
	if attr, ok := content.Attributes["name"]; ok {
		s, err := stringValue(attr)
		if err != nil {
			return hint.Field{}, fmt.Errorf("spec %q: %w", label, err)
		}
		anns = append(anns, spec.WithName(s))
	}

	var data any
	if attr, ok := content.Attributes["data"]; ok {
		v, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return hint.Field{}, fmt.Errorf("spec %q data: %s", label, diags.Error())
		}
		data = ctyToGo(v)
	}

	return hint.Field{Name: label, Type: hint.Annotate(typ, anns...), Data: data}, nil
}

// graftSubtypes replaces the subtype arguments of a container type with
// the hints decoded from nested spec blocks, addressed by positional label:
// "0" for a list element, "0" and "1" for a map's key and value. This is
// how element-level annotations are declared in a schema document.
func graftSubtypes(base hint.Type, fields []hint.Field) (hint.Type, error) {
	switch b := base.(type) {
	case hint.List:
		for _, f := range fields {
			if f.Name != "0" {
				return nil, fmt.Errorf("list subtype block must be labeled \"0\", got %q", f.Name)
			}
			b.Elem = f.Type
		}
		return b, nil
	case hint.Map:
		for _, f := range fields {
			switch f.Name {
			case "0":
				b.Key = f.Type
			case "1":
				b.Value = f.Type
			default:
				return nil, fmt.Errorf("map subtype block must be labeled \"0\" or \"1\", got %q", f.Name)
			}
		}
		return b, nil
	default:
		return nil, fmt.Errorf("type %s takes no subtype blocks", base)
	}
}

func stringValue(attr *hcl.Attribute) (string, error) {
	v, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return "", fmt.Errorf("%s: %s", attr.Name, diags.Error())
	}
	if v.Type() != cty.String {
		return "", fmt.Errorf("%s: expected string, got %s", attr.Name, v.Type().FriendlyName())
	}
	return v.AsString(), nil
}

func stringListValue(attr *hcl.Attribute) ([]string, error) {
	v, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%s: %s", attr.Name, diags.Error())
	}
	if !v.CanIterateElements() {
		return nil, fmt.Errorf("%s: expected list of strings", attr.Name)
	}
	var out []string
	for it := v.ElementIterator(); it.Next(); {
		_, ev := it.Element()
		if ev.Type() != cty.String {
			return nil, fmt.Errorf("%s: expected list of strings", attr.Name)
		}
		out = append(out, ev.AsString())
	}
	return out, nil
}

// ctyToGo converts an HCL attribute value to its native Go form.
func ctyToGo(v cty.Value) any {
	if v.IsNull() {
		return nil
	}
	switch {
	case v.Type() == cty.Bool:
		return v.True()
	case v.Type() == cty.Number:
		bf := v.AsBigFloat()
		if i, acc := bf.Int64(); acc == big.Exact {
			return i
		}
		f, _ := bf.Float64()
		return f
	case v.Type() == cty.String:
		return v.AsString()
	case v.Type().IsTupleType() || v.Type().IsListType() || v.Type().IsSetType():
		var out []any
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			out = append(out, ctyToGo(ev))
		}
		return out
	case v.Type().IsObjectType() || v.Type().IsMapType():
		out := make(map[string]any)
		for it := v.ElementIterator(); it.Next(); {
			k, ev := it.Element()
			out[k.AsString()] = ctyToGo(ev)
		}
		return out
	default:
		return nil
	}
}

// ParseTypeExpr parses a type expression string: bool, int, float, string,
// any, list(T), map(K, V), union(T, ...) or literal(v, ...).
func ParseTypeExpr(s string) (hint.Type, error) {
	s = strings.TrimSpace(s)
	open := strings.IndexByte(s, '(')

	if open < 0 {
		switch s {
		case "bool":
			return hint.Bool, nil
		case "int":
			return hint.Int, nil
		case "float":
			return hint.Float, nil
		case "string":
			return hint.String, nil
		case "any":
			return hint.Any, nil
		default:
			return nil, fmt.Errorf("unknown type %q", s)
		}
	}

	if !strings.HasSuffix(s, ")") {
		return nil, fmt.Errorf("malformed type expression %q", s)
	}
	head := strings.TrimSpace(s[:open])
	args := splitArgs(s[open+1 : len(s)-1])

	switch head {
	case "list":
		if len(args) != 1 {
			return nil, fmt.Errorf("list takes one argument, got %d", len(args))
		}
		elem, err := ParseTypeExpr(args[0])
		if err != nil {
			return nil, err
		}
		return hint.List{Elem: elem}, nil

	case "map":
		if len(args) != 2 {
			return nil, fmt.Errorf("map takes two arguments, got %d", len(args))
		}
		key, err := ParseTypeExpr(args[0])
		if err != nil {
			return nil, err
		}
		value, err := ParseTypeExpr(args[1])
		if err != nil {
			return nil, err
		}
		return hint.Map{Key: key, Value: value}, nil

	case "union":
		if len(args) == 0 {
			return nil, fmt.Errorf("union takes at least one argument")
		}
		arms := make([]hint.Type, len(args))
		for i, a := range args {
			arm, err := ParseTypeExpr(a)
			if err != nil {
				return nil, err
			}
			arms[i] = arm
		}
		return hint.Union{Arms: arms}, nil

	case "literal":
		if len(args) == 0 {
			return nil, fmt.Errorf("literal takes at least one argument")
		}
		values := make([]any, len(args))
		for i, a := range args {
			values[i] = parseLiteral(a)
		}
		return hint.Literal{Values: values}, nil

	default:
		return nil, fmt.Errorf("unknown type constructor %q", head)
	}
}

// splitArgs splits a comma-separated argument list at the top nesting
// level.
func splitArgs(s string) []string {
	var args []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	if rest := strings.TrimSpace(s[start:]); rest != "" {
		args = append(args, rest)
	}
	return args
}

// parseLiteral interprets a literal argument as an int, float, bool or
// (optionally quoted) string. Numbers are tried first: ParseBool would
// otherwise swallow bare 0 and 1.
func parseLiteral(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return strings.Trim(s, `"'`)
}
