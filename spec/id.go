package spec

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

const rootPath = "/"

// ID is the absolute, slash-addressed identifier of a spec's position in
// the decomposed tree. IDs are immutable values: Join composes a new ID,
// never mutates. Equality and map-key behavior follow the normalized path
// string; the root is stored canonically as "", so the zero ID is the root
// and == works across every way of constructing it.
type ID struct {
	path string
}

// Root is the top-level identifier (/).
var Root ID

// normalized wraps a cleaned path, mapping "/" to the canonical root
// representation.
func normalized(p string) ID {
	if p == rootPath {
		return ID{}
	}
	return ID{path: p}
}

// ParseID builds an ID from a slash-separated path. The path must be
// rooted; "." and ".." segments are normalized at construction.
func ParseID(p string) (ID, error) {
	if !strings.HasPrefix(p, rootPath) {
		return ID{}, fmt.Errorf("%w: %q", ErrInvalidIdentifier, p)
	}
	return normalized(path.Clean(p)), nil
}

// MustID is ParseID that panics on error, for statically known paths.
func MustID(p string) ID {
	id, err := ParseID(p)
	if err != nil {
		panic(err)
	}
	return id
}

func (id ID) String() string {
	if id.path == "" {
		return rootPath
	}
	return id.path
}

// Join appends segments, returning a new ID. Segments are normalized, so
// ".." composes upward but never above the root.
func (id ID) Join(segments ...string) ID {
	parts := append([]string{id.String()}, segments...)
	return normalized(path.Join(parts...))
}

// IsRoot reports whether the ID is the root (/).
func (id ID) IsRoot() bool {
	return id.String() == rootPath
}

// Segments returns the ordered path segments. The root has none.
func (id ID) Segments() []string {
	if id.IsRoot() {
		return nil
	}
	return strings.Split(strings.TrimPrefix(id.String(), rootPath), "/")
}

// Base returns the last segment, or "/" for the root.
func (id ID) Base() string {
	return path.Base(id.String())
}

// Parent returns the ID with the last segment removed. The root is its own
// parent.
func (id ID) Parent() ID {
	return normalized(path.Dir(id.String()))
}

// IsDescendantOf reports whether id sits strictly below other.
func (id ID) IsDescendantOf(other ID) bool {
	if id == other {
		return false
	}
	if other.IsRoot() {
		return true
	}
	return strings.HasPrefix(id.String(), other.String()+"/")
}

// Matches reports whether the full ID string matches pattern, interpreted
// as a regular expression. This is a full match, not a prefix match.
func (id ID) Matches(pattern string) (bool, error) {
	re, err := regexp.Compile("\\A(?:" + pattern + ")\\z")
	if err != nil {
		return false, fmt.Errorf("compile pattern %q: %w", pattern, err)
	}
	return re.MatchString(id.String()), nil
}

// MatchesGlob reports whether the ID matches a restricted glob pattern,
// where "*" matches exactly one path segment and "**" matches zero or more
// segments.
func (id ID) MatchesGlob(pattern string) (bool, error) {
	if !strings.HasPrefix(pattern, rootPath) {
		return false, fmt.Errorf("%w: glob %q", ErrInvalidIdentifier, pattern)
	}
	if pattern == rootPath {
		return id.IsRoot(), nil
	}

	var sb strings.Builder
	for _, seg := range strings.Split(strings.TrimPrefix(path.Clean(pattern), rootPath), "/") {
		switch seg {
		case "**":
			sb.WriteString(`(?:/[^/]+)*`)
		case "*":
			sb.WriteString(`/[^/]+`)
		default:
			sb.WriteString("/" + regexp.QuoteMeta(seg))
		}
	}

	// The root renders as "" here so that "/**" matches it.
	target := ""
	if !id.IsRoot() {
		target = id.String()
	}
	re, err := regexp.Compile(`\A(?:` + sb.String() + `)\z`)
	if err != nil {
		return false, fmt.Errorf("compile glob %q: %w", pattern, err)
	}
	return re.MatchString(target), nil
}
