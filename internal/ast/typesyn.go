package ast

import (
	"sable/internal/source"
)

// TypeKind enumerates type-name nodes.
type TypeKind uint8

const (
	TypeInvalid TypeKind = iota
	TypeElementary
	TypeNamed
)

// TypeName is the kind-tagged type-name header.
type TypeName struct {
	Kind    TypeKind
	Span    source.Span
	payload uint32
}

// ElementaryType is a built-in type; it needs no resolution.
type ElementaryType struct {
	Name source.StringID
}

// NamedType is a user-defined type reference, possibly a dot-separated path
// such as Base.Token.
type NamedType struct {
	Segments []source.StringID
}
