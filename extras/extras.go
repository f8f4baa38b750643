// Package extras provides post-processing transforms over spec
// collections, driven by directive annotations that the walker decomposes
// into tagged child specs: renaming display names, string-formatting
// attributes, and outright attribute replacement. Transforms never mutate a
// collection; they return a new one.
package extras

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/agentic-research/dataspec/spec"
)

type config struct {
	leave bool
}

// Option configures a transform.
type Option func(*config)

// Leave keeps the directive specs in the output instead of removing them
// once applied.
func Leave() Option {
	return func(c *config) { c.leave = true }
}

func newConfig(opts []Option) config {
	var c config
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// childPattern matches the direct children of id.
func childPattern(id spec.ID) spec.ByPattern {
	base := id.String()
	if id.IsRoot() {
		base = ""
	}
	return spec.ByPattern(regexp.QuoteMeta(base) + "/[^/]+")
}

// formatTemplate substitutes the positional placeholders "{}" and "{0}"
// with the value's default formatting.
func formatTemplate(tmpl string, value any) string {
	v := fmt.Sprint(value)
	tmpl = strings.ReplaceAll(tmpl, "{0}", v)
	return strings.ReplaceAll(tmpl, "{}", v)
}
