package extras

import (
	"reflect"

	"github.com/agentic-research/dataspec/hint"
	"github.com/agentic-research/dataspec/spec"
)

// Tags marking the three child specs a Replace directive decomposes into.
const (
	TagReplaceIndex  hint.Tag = "replacing:index"
	TagReplaceAttr   hint.Tag = "replacing:attr"
	TagReplaceSkipIf hint.Tag = "replacing:skipif"
)

// Replace is a directive annotation: attached to a node, the node's runtime
// value overwrites the named attribute of every spec whose ID matches
// Index, unless the value equals SkipIf. Unlike Format, the attribute is
// replaced outright rather than string-formatted.
type Replace struct {
	// Index is the ID pattern selecting the specs to overwrite.
	Index string `spec:"index,tag=replacing:index"`
	// Attr names the spec attribute to overwrite.
	Attr string `spec:"attr,tag=replacing:attr"`
	// SkipIf is the sentinel value for which replacing is skipped.
	SkipIf any `spec:"skipif,tag=replacing:skipif"`
}

// NewReplace returns a Replace directive targeting the data attribute.
func NewReplace(index string) Replace {
	return Replace{Index: index, Attr: "data"}
}

// ApplyReplace applies every Replace directive found in the collection.
func ApplyReplace(ss spec.Specs, opts ...Option) (spec.Specs, error) {
	cfg := newConfig(opts)
	out := ss.Clone()

	for _, s := range ss {
		children, err := ss.Select(childPattern(s.ID))
		if err != nil {
			return nil, err
		}
		groups, err := children.GroupBy("origin")
		if err != nil {
			return nil, err
		}

		for _, group := range groups {
			index, attr, skipif, err := directiveTriple(group,
				TagReplaceIndex, TagReplaceAttr, TagReplaceSkipIf)
			if err != nil {
				return nil, err
			}
			if index == nil {
				continue
			}
			if reflect.DeepEqual(s.Data, skipif.Data) {
				continue
			}

			pattern, ok := index.Data.(string)
			if !ok {
				continue
			}
			attrName, ok := attr.Data.(string)
			if !ok {
				continue
			}

			targets, err := out.Select(spec.ByPattern(pattern))
			if err != nil {
				return nil, err
			}
			for _, target := range targets {
				updated, err := target.WithAttr(attrName, s.Data)
				if err != nil {
					return nil, err
				}
				out = out.Replace(target, updated)
			}

			if !cfg.leave {
				out = out.Sub(spec.Specs{*index, *attr, *skipif})
			}
		}
	}
	return out, nil
}
