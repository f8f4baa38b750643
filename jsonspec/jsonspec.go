// Package jsonspec builds spec collections from raw JSON documents. It is
// the data-side counterpart of the walk package: instead of decomposing a
// declared hint, it decomposes a parsed JSON value, inferring basic hints
// from the value kinds.
package jsonspec

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"

	"github.com/agentic-research/dataspec/hint"
	"github.com/agentic-research/dataspec/spec"
)

// FromJSON parses src and decomposes the document into specs rooted at /.
// Object members become keyed children (keys sorted for deterministic
// order, since JSON objects are unordered after parsing); array elements
// become positional children.
func FromJSON(src []byte) (spec.Specs, error) {
	v, err := oj.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	var out spec.Specs
	walkValue(&out, spec.Root, v)
	return out, nil
}

// Query applies a JSONPath expression to the parsed document and
// decomposes each match under its positional root (/0, /1, ...).
func Query(src []byte, path string) (spec.Specs, error) {
	v, err := oj.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	x, err := jp.ParseString(path)
	if err != nil {
		return nil, fmt.Errorf("invalid jsonpath %q: %w", path, err)
	}

	var out spec.Specs
	for i, match := range x.Get(v) {
		walkValue(&out, spec.Root.Join(strconv.Itoa(i)), match)
	}
	return out, nil
}

func walkValue(out *spec.Specs, id spec.ID, v any) {
	switch t := v.(type) {
	case map[string]any:
		*out = append(*out, spec.New(id, nil, hint.Map{Key: hint.String, Value: hint.Any}, t))
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			walkValue(out, id.Join(k), t[k])
		}

	case []any:
		*out = append(*out, spec.New(id, nil, hint.List{Elem: hint.Any}, t))
		for i, elem := range t {
			walkValue(out, id.Join(strconv.Itoa(i)), elem)
		}

	default:
		*out = append(*out, spec.New(id, nil, hintOfValue(v), v))
	}
}

func hintOfValue(v any) hint.Type {
	switch v.(type) {
	case bool:
		return hint.Bool
	case int64, int:
		return hint.Int
	case float64:
		return hint.Float
	case string:
		return hint.String
	default:
		return hint.Any
	}
}
