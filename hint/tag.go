package hint

import "strings"

// Tag is a lightweight classification marker attached to a hint as an
// annotation. Tags are plain string values; grouping into categories uses
// the "category:name" convention rather than any type hierarchy, so callers
// extend the vocabulary by declaring constants.
type Tag string

// Category returns the part before the first colon, or "" for an
// uncategorized tag.
func (t Tag) Category() string {
	if i := strings.IndexByte(string(t), ':'); i >= 0 {
		return string(t)[:i]
	}
	return ""
}

// Name returns the part after the first colon, or the whole tag when it has
// no category.
func (t Tag) Name() string {
	if i := strings.IndexByte(string(t), ':'); i >= 0 {
		return string(t)[i+1:]
	}
	return string(t)
}
