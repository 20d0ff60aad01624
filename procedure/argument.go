// Package procedure names a stored procedure and its ordered
// parameter types, and serializes a call payload from concrete
// argument values.
package procedure

import "github.com/voltgo/voltgo/wire"

// Argument is the tagged variant §9's design note calls for: a
// statically typed replacement for the source's runtime "is this
// iterable?" check. Callers build one explicitly with Scalar or
// ArrayOf; a Descriptor rejects one that doesn't match its declared
// parameter shape at encode time (EncodeError of kind TypeMismatch),
// rather than guessing.
type Argument struct {
	tag      wire.Tag
	isArray  bool
	value    wire.Cell
	elements []wire.Cell
}

// Scalar builds a single-value argument of the given wire type.
func Scalar(tag wire.Tag, value wire.Cell) Argument {
	return Argument{tag: tag, value: value}
}

// ArrayOf builds an array argument whose elements are all of
// elementTag's domain.
func ArrayOf(elementTag wire.Tag, elements []wire.Cell) Argument {
	return Argument{tag: elementTag, isArray: true, elements: elements}
}

func (a Argument) Tag() wire.Tag   { return a.tag }
func (a Argument) IsArray() bool   { return a.isArray }
