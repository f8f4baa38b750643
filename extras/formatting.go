package extras

import (
	"reflect"

	"github.com/agentic-research/dataspec/hint"
	"github.com/agentic-research/dataspec/spec"
)

// Tags marking the three child specs a Format directive decomposes into.
const (
	TagFormatIndex  hint.Tag = "formatting:index"
	TagFormatAttr   hint.Tag = "formatting:attr"
	TagFormatSkipIf hint.Tag = "formatting:skipif"
)

// Format is a directive annotation: attached to a node, the node's runtime
// value is string-formatted into the named attribute of every spec whose ID
// matches Index, unless the value equals SkipIf.
type Format struct {
	// Index is the ID pattern selecting the specs to format.
	Index string `spec:"index,tag=formatting:index"`
	// Attr names the spec attribute to format (data, name or unit).
	Attr string `spec:"attr,tag=formatting:attr"`
	// SkipIf is the sentinel value for which formatting is skipped.
	SkipIf any `spec:"skipif,tag=formatting:skipif"`
}

// NewFormat returns a Format directive targeting the data attribute.
func NewFormat(index string) Format {
	return Format{Index: index, Attr: "data"}
}

// ApplyFormat applies every Format directive found in the collection. A
// directive is recognized as a group of child specs sharing the directive
// instance as their origin and carrying the three formatting tags; the
// triggering spec's data is substituted into the target attribute's
// template. String-valued attributes only; other targets pass through.
func ApplyFormat(ss spec.Specs, opts ...Option) (spec.Specs, error) {
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
				TagFormatIndex, TagFormatAttr, TagFormatSkipIf)
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
				cur, err := target.Attr(attrName)
				if err != nil {
					return nil, err
				}
				tmpl, ok := cur.(string)
				if !ok {
					continue
				}
				updated, err := target.WithAttr(attrName, formatTemplate(tmpl, s.Data))
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

// directiveTriple extracts the unique index/attr/skipif specs of a
// directive group. It returns nils when the group is not a complete
// directive of the requested kind.
func directiveTriple(group spec.Specs, indexTag, attrTag, skipifTag hint.Tag) (index, attr, skipif *spec.Spec, err error) {
	indexes, err := group.Select(spec.ByTag(indexTag))
	if err != nil {
		return nil, nil, nil, err
	}
	attrs, err := group.Select(spec.ByTag(attrTag))
	if err != nil {
		return nil, nil, nil, err
	}
	skipifs, err := group.Select(spec.ByTag(skipifTag))
	if err != nil {
		return nil, nil, nil, err
	}

	index, attr, skipif = indexes.Unique(), attrs.Unique(), skipifs.Unique()
	if index == nil || attr == nil || skipif == nil {
		return nil, nil, nil, nil
	}
	return index, attr, skipif, nil
}
