package ast

// UnitID identifies a compilation unit in the builder.
type UnitID uint32

// ItemID identifies a top-level or contract-level item.
type ItemID uint32

// StmtID identifies a statement.
type StmtID uint32

// ExprID identifies an expression.
type ExprID uint32

// TypeID identifies a type-name node.
type TypeID uint32

// VarDeclID identifies a single variable declaration.
type VarDeclID uint32

// ParamListID identifies a parameter or return-parameter list.
type ParamListID uint32

// AsmBlockRef is an opaque handle into the embedded assembly tree attached
// to an assembly statement. The binder converts it to the sublanguage's own
// block ID.
type AsmBlockRef uint32

const (
	NoUnitID      UnitID      = 0
	NoItemID      ItemID      = 0
	NoStmtID      StmtID      = 0
	NoExprID      ExprID      = 0
	NoTypeID      TypeID      = 0
	NoVarDeclID   VarDeclID   = 0
	NoParamListID ParamListID = 0
	NoAsmBlockRef AsmBlockRef = 0
)

func (id UnitID) IsValid() bool      { return id != NoUnitID }
func (id ItemID) IsValid() bool      { return id != NoItemID }
func (id StmtID) IsValid() bool      { return id != NoStmtID }
func (id ExprID) IsValid() bool      { return id != NoExprID }
func (id TypeID) IsValid() bool      { return id != NoTypeID }
func (id VarDeclID) IsValid() bool   { return id != NoVarDeclID }
func (id ParamListID) IsValid() bool { return id != NoParamListID }
func (id AsmBlockRef) IsValid() bool { return id != NoAsmBlockRef }
