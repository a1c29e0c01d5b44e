package astio

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"sable/internal/asm"
	"sable/internal/ast"
	"sable/internal/source"
)

// Encoder serializes an arena tree back into the payload shape. It is the
// exact inverse of Decoder, which keeps a decode-encode round trip stable.
type Encoder struct {
	builder *ast.Builder
	asm     *asm.Builder
}

func NewEncoder(builder *ast.Builder, asmBuilder *asm.Builder) *Encoder {
	return &Encoder{builder: builder, asm: asmBuilder}
}

// EncodeUnit writes one unit as a payload.
func (e *Encoder) EncodeUnit(w io.Writer, unitID ast.UnitID) error {
	dto, err := e.unitToDTO(unitID)
	if err != nil {
		return err
	}
	if err := msgpack.NewEncoder(w).Encode(dto); err != nil {
		return fmt.Errorf("astio: encode unit: %w", err)
	}
	return nil
}

func (e *Encoder) unitToDTO(unitID ast.UnitID) (*UnitDTO, error) {
	unit := e.builder.Unit(unitID)
	if unit == nil {
		return nil, fmt.Errorf("astio: encode unit: unknown unit %d", unitID)
	}
	dto := &UnitDTO{Schema: Schema, Span: spanDTO(unit.Span)}
	for _, itemID := range unit.Items {
		item, err := e.item(itemID)
		if err != nil {
			return nil, err
		}
		dto.Items = append(dto.Items, *item)
	}
	return dto, nil
}

func spanDTO(s source.Span) SpanDTO {
	return SpanDTO{Start: s.Start, End: s.End}
}

func (e *Encoder) name(id source.StringID) string {
	if id == source.NoStringID {
		return ""
	}
	return e.builder.StringsInterner.MustLookup(id)
}

func (e *Encoder) docs(tags []ast.DocTag) []DocDTO {
	if len(tags) == 0 {
		return nil
	}
	out := make([]DocDTO, 0, len(tags))
	for _, tag := range tags {
		out = append(out, DocDTO{Tag: tag.Tag, Content: tag.Content, Span: spanDTO(tag.Span)})
	}
	return out
}

func (e *Encoder) item(itemID ast.ItemID) (*ItemDTO, error) {
	item := e.builder.Item(itemID)
	if item == nil {
		return nil, fmt.Errorf("astio: encode: unknown item %d", itemID)
	}
	dto := &ItemDTO{Span: spanDTO(item.Span)}
	switch item.Kind {
	case ast.ItemContract:
		contract := e.builder.Contract(itemID)
		dto.Kind = KindContract
		dto.Name = e.name(contract.Name)
		dto.NameSpan = spanDTO(contract.NameSpan)
		dto.Docs = e.docs(contract.Docs)
		for _, member := range contract.Items {
			child, err := e.item(member)
			if err != nil {
				return nil, err
			}
			dto.Items = append(dto.Items, *child)
		}

	case ast.ItemFunction:
		fn := e.builder.Fn(itemID)
		dto.Kind = KindFunction
		dto.Name = e.name(fn.Name)
		dto.NameSpan = spanDTO(fn.NameSpan)
		dto.Docs = e.docs(fn.Docs)
		var err error
		if dto.Params, err = e.paramList(fn.Params); err != nil {
			return nil, err
		}
		if dto.Returns, err = e.paramList(fn.Returns); err != nil {
			return nil, err
		}
		if dto.Body, err = e.stmt(fn.Body); err != nil {
			return nil, err
		}

	case ast.ItemModifier:
		mod := e.builder.Modifier(itemID)
		dto.Kind = KindModifier
		dto.Name = e.name(mod.Name)
		dto.NameSpan = spanDTO(mod.NameSpan)
		dto.Docs = e.docs(mod.Docs)
		var err error
		if dto.Params, err = e.paramList(mod.Params); err != nil {
			return nil, err
		}
		if dto.Body, err = e.stmt(mod.Body); err != nil {
			return nil, err
		}

	case ast.ItemStruct:
		st := e.builder.Struct(itemID)
		dto.Kind = KindStruct
		dto.Name = e.name(st.Name)
		dto.NameSpan = spanDTO(st.NameSpan)

	case ast.ItemStateVar:
		sv := e.builder.StateVar(itemID)
		dto.Kind = KindStateVar
		dto.Name = e.name(sv.Name)
		dto.NameSpan = spanDTO(sv.NameSpan)
		dto.Docs = e.docs(sv.Docs)
		var err error
		if dto.Type, err = e.typeName(sv.Type); err != nil {
			return nil, err
		}
		if dto.Value, err = e.expr(sv.Value); err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("astio: encode: invalid item kind %d", item.Kind)
	}
	return dto, nil
}

func (e *Encoder) paramList(listID ast.ParamListID) (*ParamListDTO, error) {
	list := e.builder.ParamList(listID)
	if list == nil {
		return nil, nil
	}
	dto := &ParamListDTO{Span: spanDTO(list.Span), Params: []VarDTO{}}
	for _, declID := range list.Params {
		v, err := e.varDecl(declID)
		if err != nil {
			return nil, err
		}
		dto.Params = append(dto.Params, v)
	}
	return dto, nil
}

func (e *Encoder) varDecl(declID ast.VarDeclID) (VarDTO, error) {
	decl := e.builder.VarDecl(declID)
	if decl == nil {
		return VarDTO{}, fmt.Errorf("astio: encode: unknown variable declaration %d", declID)
	}
	typeDTO, err := e.typeName(decl.Type)
	if err != nil {
		return VarDTO{}, err
	}
	return VarDTO{Name: e.name(decl.Name), Span: spanDTO(decl.NameSpan), Type: typeDTO}, nil
}

func (e *Encoder) typeName(typeID ast.TypeID) (*TypeDTO, error) {
	tn := e.builder.TypeName(typeID)
	if tn == nil {
		return nil, nil
	}
	dto := &TypeDTO{Span: spanDTO(tn.Span)}
	switch tn.Kind {
	case ast.TypeElementary:
		dto.Kind = KindTypeElementary
		dto.Name = e.name(e.builder.Elementary(typeID).Name)
	case ast.TypeNamed:
		dto.Kind = KindTypeNamed
		for _, seg := range e.builder.Named(typeID).Segments {
			dto.Path = append(dto.Path, e.name(seg))
		}
	default:
		return nil, fmt.Errorf("astio: encode: invalid type kind %d", tn.Kind)
	}
	return dto, nil
}

func (e *Encoder) stmt(stmtID ast.StmtID) (*StmtDTO, error) {
	stmt := e.builder.Stmt(stmtID)
	if stmt == nil {
		return nil, nil
	}
	dto := &StmtDTO{Span: spanDTO(stmt.Span)}
	var err error
	switch stmt.Kind {
	case ast.StmtBlock:
		dto.Kind = KindBlock
		if dto.Stmts, err = e.stmts(e.builder.Block(stmtID).Stmts); err != nil {
			return nil, err
		}

	case ast.StmtTry:
		try := e.builder.Try(stmtID)
		dto.Kind = KindTry
		if dto.Value, err = e.expr(try.Value); err != nil {
			return nil, err
		}
		if dto.Clauses, err = e.stmts(try.Clauses); err != nil {
			return nil, err
		}

	case ast.StmtTryClause:
		clause := e.builder.TryClause(stmtID)
		dto.Kind = KindTryClause
		if dto.Params, err = e.paramList(clause.Params); err != nil {
			return nil, err
		}
		if dto.Body, err = e.stmt(clause.Body); err != nil {
			return nil, err
		}

	case ast.StmtFor:
		forStmt := e.builder.For(stmtID)
		dto.Kind = KindFor
		if dto.Init, err = e.stmt(forStmt.Init); err != nil {
			return nil, err
		}
		if dto.Cond, err = e.expr(forStmt.Cond); err != nil {
			return nil, err
		}
		if dto.Post, err = e.expr(forStmt.Post); err != nil {
			return nil, err
		}
		if dto.Body, err = e.stmt(forStmt.Body); err != nil {
			return nil, err
		}

	case ast.StmtVarDecl:
		varDecl := e.builder.VarDeclStmtData(stmtID)
		dto.Kind = KindVarDecl
		for _, declID := range varDecl.Decls {
			v, err := e.varDecl(declID)
			if err != nil {
				return nil, err
			}
			dto.Decls = append(dto.Decls, v)
		}
		if dto.Value, err = e.expr(varDecl.Value); err != nil {
			return nil, err
		}

	case ast.StmtReturn:
		dto.Kind = KindReturn
		if dto.Value, err = e.expr(e.builder.Return(stmtID).Value); err != nil {
			return nil, err
		}

	case ast.StmtExpr:
		dto.Kind = KindExprStmt
		if dto.Expr, err = e.expr(e.builder.ExprStmtData(stmtID).Expr); err != nil {
			return nil, err
		}

	case ast.StmtAsm:
		dto.Kind = KindAsm
		block := asm.BlockID(e.builder.Asm(stmtID).Block)
		if dto.Asm, err = e.asmBlock(block); err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("astio: encode: invalid statement kind %d", stmt.Kind)
	}
	return dto, nil
}

func (e *Encoder) stmts(ids []ast.StmtID) ([]StmtDTO, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	out := make([]StmtDTO, 0, len(ids))
	for _, id := range ids {
		dto, err := e.stmt(id)
		if err != nil {
			return nil, err
		}
		if dto != nil {
			out = append(out, *dto)
		}
	}
	return out, nil
}

func (e *Encoder) expr(exprID ast.ExprID) (*ExprDTO, error) {
	expr := e.builder.Expr(exprID)
	if expr == nil {
		return nil, nil
	}
	dto := &ExprDTO{Span: spanDTO(expr.Span)}
	var err error
	switch expr.Kind {
	case ast.ExprIdent:
		dto.Kind = KindIdent
		dto.Name = e.name(e.builder.Ident(exprID).Name)

	case ast.ExprCall:
		call := e.builder.Call(exprID)
		dto.Kind = KindCall
		if dto.Target, err = e.expr(call.Target); err != nil {
			return nil, err
		}
		for _, arg := range call.Args {
			a, err := e.expr(arg)
			if err != nil {
				return nil, err
			}
			if a != nil {
				dto.Args = append(dto.Args, *a)
			}
		}

	case ast.ExprBinary:
		bin := e.builder.Binary(exprID)
		dto.Kind = KindBinary
		dto.Op = uint8(bin.Op)
		if dto.Left, err = e.expr(bin.Left); err != nil {
			return nil, err
		}
		if dto.Right, err = e.expr(bin.Right); err != nil {
			return nil, err
		}

	case ast.ExprIndex:
		idx := e.builder.Index(exprID)
		dto.Kind = KindIndex
		if dto.Target, err = e.expr(idx.Target); err != nil {
			return nil, err
		}
		if dto.Index, err = e.expr(idx.Index); err != nil {
			return nil, err
		}

	case ast.ExprMember:
		member := e.builder.Member(exprID)
		dto.Kind = KindMember
		dto.Name = e.name(member.Member)
		if dto.Target, err = e.expr(member.Target); err != nil {
			return nil, err
		}

	case ast.ExprLit:
		dto.Kind = KindLit
		dto.Text = e.builder.Lit(exprID).Text

	default:
		return nil, fmt.Errorf("astio: encode: invalid expression kind %d", expr.Kind)
	}
	return dto, nil
}

func (e *Encoder) asmBlock(blockID asm.BlockID) (*AsmBlockDTO, error) {
	block := e.asm.Block(blockID)
	if block == nil {
		return nil, nil
	}
	dto := &AsmBlockDTO{Span: spanDTO(block.Span), Stmts: []AsmStmtDTO{}}
	for _, stmtID := range block.Stmts {
		s, err := e.asmStmt(stmtID)
		if err != nil {
			return nil, err
		}
		dto.Stmts = append(dto.Stmts, *s)
	}
	return dto, nil
}

func (e *Encoder) asmNames(names []asm.TypedName) []AsmNameDTO {
	if len(names) == 0 {
		return nil
	}
	out := make([]AsmNameDTO, 0, len(names))
	for _, n := range names {
		out = append(out, AsmNameDTO{Name: e.name(n.Name), Span: spanDTO(n.Span)})
	}
	return out
}

func (e *Encoder) asmStmt(stmtID asm.StmtID) (*AsmStmtDTO, error) {
	stmt := e.asm.Stmt(stmtID)
	if stmt == nil {
		return nil, fmt.Errorf("astio: encode: unknown assembly statement %d", stmtID)
	}
	dto := &AsmStmtDTO{Span: spanDTO(stmt.Span)}
	var err error
	switch stmt.Kind {
	case asm.StmtExpr:
		dto.Kind = KindExprStmt
		if dto.Expr, err = e.asmExpr(e.asm.ExprStmtData(stmtID).Expr); err != nil {
			return nil, err
		}

	case asm.StmtVarDecl:
		decl := e.asm.VarDecl(stmtID)
		dto.Kind = KindVarDecl
		dto.Vars = e.asmNames(decl.Vars)
		if dto.Value, err = e.asmExpr(decl.Value); err != nil {
			return nil, err
		}

	case asm.StmtFuncDef:
		def := e.asm.FuncDef(stmtID)
		dto.Kind = KindAsmFuncDef
		dto.Name = e.name(def.Name)
		dto.NameSpan = spanDTO(def.NameSpan)
		dto.Params = e.asmNames(def.Params)
		dto.Returns = e.asmNames(def.Returns)
		if dto.Body, err = e.asmBlock(def.Body); err != nil {
			return nil, err
		}

	case asm.StmtBlock:
		dto.Kind = KindBlock
		if dto.Block, err = e.asmBlock(e.asm.BlockStmtData(stmtID).Block); err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("astio: encode: invalid assembly statement kind %d", stmt.Kind)
	}
	return dto, nil
}

func (e *Encoder) asmExpr(exprID asm.ExprID) (*AsmExprDTO, error) {
	expr := e.asm.Expr(exprID)
	if expr == nil {
		return nil, nil
	}
	dto := &AsmExprDTO{Span: spanDTO(expr.Span)}
	var err error
	switch expr.Kind {
	case asm.ExprIdent:
		dto.Kind = KindIdent
		dto.Name = e.name(e.asm.Ident(exprID).Name)
	case asm.ExprCall:
		call := e.asm.Call(exprID)
		dto.Kind = KindCall
		if dto.Target, err = e.asmExpr(call.Target); err != nil {
			return nil, err
		}
		for _, arg := range call.Args {
			a, err := e.asmExpr(arg)
			if err != nil {
				return nil, err
			}
			if a != nil {
				dto.Args = append(dto.Args, *a)
			}
		}
	case asm.ExprLit:
		dto.Kind = KindLit
		dto.Text = e.asm.Lit(exprID).Text
	default:
		return nil, fmt.Errorf("astio: encode: invalid assembly expression kind %d", expr.Kind)
	}
	return dto, nil
}
