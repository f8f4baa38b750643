package spec

import "errors"

var (
	// ErrInvalidIdentifier is returned when an identifier does not start
	// with the root (/).
	ErrInvalidIdentifier = errors.New("identifier must start with the root (/)")

	// ErrAmbiguousSpecifier is returned when more than one specifier of the
	// same kind is attached to a single node.
	ErrAmbiguousSpecifier = errors.New("multiple specifiers of the same kind")

	// ErrUnsupportedSelector is returned when a selection uses a selector or
	// attribute name the collection does not recognize.
	ErrUnsupportedSelector = errors.New("unsupported selector")

	// ErrAmbiguousMerge is returned when an identifier group has zero or
	// more than one candidate main spec.
	ErrAmbiguousMerge = errors.New("cannot identify the main spec to merge")
)
