package extras

import (
	"github.com/agentic-research/dataspec/hint"
	"github.com/agentic-research/dataspec/spec"
)

// TagNamingName marks the child spec carrying a new display name for its
// parent.
const TagNamingName hint.Tag = "naming:name"

// Name is a directive annotation: attached to a node, it renames that
// node's spec when ApplyNames runs.
type Name struct {
	Value string `spec:"value,tag=naming:name"`
}

// ApplyNames replaces spec display names by their namer directives. For
// every spec with exactly one child tagged naming:name, the child's data
// becomes the spec's name and the directive spec is removed (unless Leave
// is set).
func ApplyNames(ss spec.Specs, opts ...Option) (spec.Specs, error) {
	cfg := newConfig(opts)
	out := ss.Clone()

	for _, s := range ss {
		children, err := ss.Select(childPattern(s.ID))
		if err != nil {
			return nil, err
		}
		namers, err := children.Select(spec.ByTag(TagNamingName))
		if err != nil {
			return nil, err
		}
		namer := namers.Unique()
		if namer == nil {
			continue
		}
		name, ok := namer.Data.(string)
		if !ok {
			continue
		}

		out = out.Replace(s, s.WithName(name))
		if !cfg.leave {
			out = out.Sub(spec.Specs{*namer})
		}
	}
	return out, nil
}
