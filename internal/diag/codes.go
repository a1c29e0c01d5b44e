package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Declaration registration (the pass that builds scopes).
	DeclInfo            Code = 1000
	DeclDuplicateSymbol Code = 1001
	DeclScopeMismatch   Code = 1002

	// Reference binding.
	BindInfo               Code = 2000
	BindUndeclaredIdent    Code = 2001
	BindTypeNameNotFound   Code = 2002
	BindInternal           Code = 2003
	DocInheritMissing      Code = 2010
	DocInheritNotContract  Code = 2011
	DocInheritDuplicate    Code = 2012

	// Embedded assembly binding.
	AsmDotInName       Code = 2100
	AsmOverloadedIdent Code = 2101
	AsmLocalInFunction Code = 2102
	AsmShadowsOuter    Code = 2103
	AsmLegacySuffix    Code = 2104
	AsmReservedSuffix  Code = 2105

	// I/O and driver.
	IOLoadFileError   Code = 4001
	DrvBadUnitPayload Code = 4002
)

var codeDescription = map[Code]string{
	UnknownCode:            "Unknown error",
	DeclInfo:               "Declaration information",
	DeclDuplicateSymbol:    "Duplicate declaration",
	DeclScopeMismatch:      "Scope stack mismatch",
	BindInfo:               "Binding information",
	BindUndeclaredIdent:    "Undeclared identifier",
	BindTypeNameNotFound:   "Type name not found or not unique",
	BindInternal:           "Binder invariant violation",
	DocInheritMissing:      "@inheritdoc target not found",
	DocInheritNotContract:  "@inheritdoc target is not a contract",
	DocInheritDuplicate:    "@inheritdoc given more than once",
	AsmDotInName:           "Assembly identifier contains '.'",
	AsmOverloadedIdent:     "Overloaded identifier in assembly",
	AsmLocalInFunction:     "Local variable access from assembly function",
	AsmShadowsOuter:        "Assembly declaration shadows outer declaration",
	AsmLegacySuffix:        "Legacy storage suffix",
	AsmReservedSuffix:      "Reserved storage suffix on declared name",
	IOLoadFileError:        "I/O load file error",
	DrvBadUnitPayload:      "Malformed unit payload",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("DCL%04d", ic)
	case ic >= 2000 && ic < 2100:
		return fmt.Sprintf("BND%04d", ic)
	case ic >= 2100 && ic < 3000:
		return fmt.Sprintf("ASM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
