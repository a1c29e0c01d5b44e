package astio

import (
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"sable/internal/asm"
	"sable/internal/ast"
	"sable/internal/source"
)

// ErrSchemaVersion reports a payload written with an incompatible schema.
var ErrSchemaVersion = errors.New("astio: unsupported payload schema")

// Decoder rebuilds arena trees from unit payloads. Spans in the payload are
// file-relative; the decoder stamps them with the target file.
type Decoder struct {
	builder *ast.Builder
	asm     *asm.Builder
	file    source.FileID
}

func NewDecoder(builder *ast.Builder, asmBuilder *asm.Builder, file source.FileID) *Decoder {
	return &Decoder{builder: builder, asm: asmBuilder, file: file}
}

// DecodeUnit reads one unit payload and materializes it into the decoder's
// builders.
func (d *Decoder) DecodeUnit(r io.Reader) (ast.UnitID, error) {
	var dto UnitDTO
	if err := msgpack.NewDecoder(r).Decode(&dto); err != nil {
		return ast.NoUnitID, fmt.Errorf("astio: decode unit: %w", err)
	}
	return d.unitFromDTO(&dto)
}

func (d *Decoder) unitFromDTO(dto *UnitDTO) (ast.UnitID, error) {
	if dto.Schema != Schema {
		return ast.NoUnitID, fmt.Errorf("%w: got %d, want %d", ErrSchemaVersion, dto.Schema, Schema)
	}
	items := make([]ast.ItemID, 0, len(dto.Items))
	for i := range dto.Items {
		id, err := d.item(&dto.Items[i])
		if err != nil {
			return ast.NoUnitID, err
		}
		items = append(items, id)
	}
	return d.builder.NewUnit(d.span(dto.Span), items), nil
}

func (d *Decoder) span(s SpanDTO) source.Span {
	return source.Span{File: d.file, Start: s.Start, End: s.End}
}

func (d *Decoder) docs(dtos []DocDTO) []ast.DocTag {
	if len(dtos) == 0 {
		return nil
	}
	out := make([]ast.DocTag, 0, len(dtos))
	for _, doc := range dtos {
		out = append(out, ast.DocTag{Tag: doc.Tag, Content: doc.Content, Span: d.span(doc.Span)})
	}
	return out
}

func (d *Decoder) item(dto *ItemDTO) (ast.ItemID, error) {
	switch dto.Kind {
	case KindContract:
		members := make([]ast.ItemID, 0, len(dto.Items))
		for i := range dto.Items {
			id, err := d.item(&dto.Items[i])
			if err != nil {
				return ast.NoItemID, err
			}
			members = append(members, id)
		}
		return d.builder.NewContract(d.span(dto.Span), ast.ContractItem{
			Name:     d.builder.Intern(dto.Name),
			NameSpan: d.span(dto.NameSpan),
			Items:    members,
			Docs:     d.docs(dto.Docs),
		}), nil

	case KindFunction:
		params, err := d.paramList(dto.Params)
		if err != nil {
			return ast.NoItemID, err
		}
		// Functions always carry a returns list, even an empty one.
		returns := dto.Returns
		if returns == nil {
			returns = &ParamListDTO{}
		}
		returnsID, err := d.paramList(returns)
		if err != nil {
			return ast.NoItemID, err
		}
		body, err := d.stmt(dto.Body)
		if err != nil {
			return ast.NoItemID, err
		}
		return d.builder.NewFn(d.span(dto.Span), ast.FnItem{
			Name:     d.builder.Intern(dto.Name),
			NameSpan: d.span(dto.NameSpan),
			Params:   params,
			Returns:  returnsID,
			Body:     body,
			Docs:     d.docs(dto.Docs),
		}), nil

	case KindModifier:
		params, err := d.paramList(dto.Params)
		if err != nil {
			return ast.NoItemID, err
		}
		body, err := d.stmt(dto.Body)
		if err != nil {
			return ast.NoItemID, err
		}
		return d.builder.NewModifier(d.span(dto.Span), ast.ModifierItem{
			Name:     d.builder.Intern(dto.Name),
			NameSpan: d.span(dto.NameSpan),
			Params:   params,
			Body:     body,
			Docs:     d.docs(dto.Docs),
		}), nil

	case KindStruct:
		return d.builder.NewStruct(d.span(dto.Span), ast.StructItem{
			Name:     d.builder.Intern(dto.Name),
			NameSpan: d.span(dto.NameSpan),
		}), nil

	case KindStateVar:
		typeID, err := d.typeName(dto.Type)
		if err != nil {
			return ast.NoItemID, err
		}
		value, err := d.expr(dto.Value)
		if err != nil {
			return ast.NoItemID, err
		}
		return d.builder.NewStateVar(d.span(dto.Span), ast.StateVarItem{
			Name:     d.builder.Intern(dto.Name),
			NameSpan: d.span(dto.NameSpan),
			Type:     typeID,
			Value:    value,
			Docs:     d.docs(dto.Docs),
		}), nil
	}
	return ast.NoItemID, fmt.Errorf("astio: unknown item kind %q", dto.Kind)
}

func (d *Decoder) paramList(dto *ParamListDTO) (ast.ParamListID, error) {
	if dto == nil {
		return ast.NoParamListID, nil
	}
	params := make([]ast.VarDeclID, 0, len(dto.Params))
	for _, v := range dto.Params {
		id, err := d.varDecl(v)
		if err != nil {
			return ast.NoParamListID, err
		}
		params = append(params, id)
	}
	return d.builder.NewParamList(d.span(dto.Span), params), nil
}

func (d *Decoder) varDecl(dto VarDTO) (ast.VarDeclID, error) {
	typeID, err := d.typeName(dto.Type)
	if err != nil {
		return ast.NoVarDeclID, err
	}
	name := source.NoStringID
	if dto.Name != "" {
		name = d.builder.Intern(dto.Name)
	}
	return d.builder.NewVarDecl(ast.VarDecl{
		Name:     name,
		NameSpan: d.span(dto.Span),
		Type:     typeID,
	}), nil
}

func (d *Decoder) typeName(dto *TypeDTO) (ast.TypeID, error) {
	if dto == nil {
		return ast.NoTypeID, nil
	}
	switch dto.Kind {
	case KindTypeElementary:
		return d.builder.NewElementaryType(d.span(dto.Span), d.builder.Intern(dto.Name)), nil
	case KindTypeNamed:
		segments := make([]source.StringID, 0, len(dto.Path))
		for _, seg := range dto.Path {
			segments = append(segments, d.builder.Intern(seg))
		}
		return d.builder.NewNamedType(d.span(dto.Span), segments), nil
	}
	return ast.NoTypeID, fmt.Errorf("astio: unknown type kind %q", dto.Kind)
}

func (d *Decoder) stmt(dto *StmtDTO) (ast.StmtID, error) {
	if dto == nil {
		return ast.NoStmtID, nil
	}
	switch dto.Kind {
	case KindBlock:
		stmts, err := d.stmts(dto.Stmts)
		if err != nil {
			return ast.NoStmtID, err
		}
		return d.builder.NewBlock(d.span(dto.Span), ast.BlockStmt{Stmts: stmts}), nil

	case KindTry:
		value, err := d.expr(dto.Value)
		if err != nil {
			return ast.NoStmtID, err
		}
		clauses, err := d.stmts(dto.Clauses)
		if err != nil {
			return ast.NoStmtID, err
		}
		return d.builder.NewTry(d.span(dto.Span), ast.TryStmt{Value: value, Clauses: clauses}), nil

	case KindTryClause:
		params, err := d.paramList(dto.Params)
		if err != nil {
			return ast.NoStmtID, err
		}
		body, err := d.stmt(dto.Body)
		if err != nil {
			return ast.NoStmtID, err
		}
		return d.builder.NewTryClause(d.span(dto.Span), ast.TryClauseStmt{Params: params, Body: body}), nil

	case KindFor:
		init, err := d.stmt(dto.Init)
		if err != nil {
			return ast.NoStmtID, err
		}
		cond, err := d.expr(dto.Cond)
		if err != nil {
			return ast.NoStmtID, err
		}
		post, err := d.expr(dto.Post)
		if err != nil {
			return ast.NoStmtID, err
		}
		body, err := d.stmt(dto.Body)
		if err != nil {
			return ast.NoStmtID, err
		}
		return d.builder.NewFor(d.span(dto.Span), ast.ForStmt{Init: init, Cond: cond, Post: post, Body: body}), nil

	case KindVarDecl:
		decls := make([]ast.VarDeclID, 0, len(dto.Decls))
		for _, v := range dto.Decls {
			id, err := d.varDecl(v)
			if err != nil {
				return ast.NoStmtID, err
			}
			decls = append(decls, id)
		}
		value, err := d.expr(dto.Value)
		if err != nil {
			return ast.NoStmtID, err
		}
		return d.builder.NewVarDeclStmt(d.span(dto.Span), ast.VarDeclStmt{Decls: decls, Value: value}), nil

	case KindReturn:
		value, err := d.expr(dto.Value)
		if err != nil {
			return ast.NoStmtID, err
		}
		return d.builder.NewReturn(d.span(dto.Span), ast.ReturnStmt{Value: value}), nil

	case KindExprStmt:
		expr, err := d.expr(dto.Expr)
		if err != nil {
			return ast.NoStmtID, err
		}
		return d.builder.NewExprStmt(d.span(dto.Span), ast.ExprStmt{Expr: expr}), nil

	case KindAsm:
		block, err := d.asmBlock(dto.Asm)
		if err != nil {
			return ast.NoStmtID, err
		}
		return d.builder.NewAsm(d.span(dto.Span), ast.AsmStmt{Block: ast.AsmBlockRef(block)}), nil
	}
	return ast.NoStmtID, fmt.Errorf("astio: unknown statement kind %q", dto.Kind)
}

func (d *Decoder) stmts(dtos []StmtDTO) ([]ast.StmtID, error) {
	if len(dtos) == 0 {
		return nil, nil
	}
	out := make([]ast.StmtID, 0, len(dtos))
	for i := range dtos {
		id, err := d.stmt(&dtos[i])
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func (d *Decoder) expr(dto *ExprDTO) (ast.ExprID, error) {
	if dto == nil {
		return ast.NoExprID, nil
	}
	switch dto.Kind {
	case KindIdent:
		return d.builder.NewIdent(d.span(dto.Span), d.builder.Intern(dto.Name)), nil

	case KindCall:
		target, err := d.expr(dto.Target)
		if err != nil {
			return ast.NoExprID, err
		}
		args := make([]ast.ExprID, 0, len(dto.Args))
		for i := range dto.Args {
			arg, err := d.expr(&dto.Args[i])
			if err != nil {
				return ast.NoExprID, err
			}
			args = append(args, arg)
		}
		return d.builder.NewCall(d.span(dto.Span), ast.CallExpr{Target: target, Args: args}), nil

	case KindBinary:
		left, err := d.expr(dto.Left)
		if err != nil {
			return ast.NoExprID, err
		}
		right, err := d.expr(dto.Right)
		if err != nil {
			return ast.NoExprID, err
		}
		return d.builder.NewBinary(d.span(dto.Span), ast.BinaryExpr{
			Op: ast.BinaryOp(dto.Op), Left: left, Right: right,
		}), nil

	case KindIndex:
		target, err := d.expr(dto.Target)
		if err != nil {
			return ast.NoExprID, err
		}
		index, err := d.expr(dto.Index)
		if err != nil {
			return ast.NoExprID, err
		}
		return d.builder.NewIndex(d.span(dto.Span), ast.IndexExpr{Target: target, Index: index}), nil

	case KindMember:
		target, err := d.expr(dto.Target)
		if err != nil {
			return ast.NoExprID, err
		}
		return d.builder.NewMember(d.span(dto.Span), ast.MemberExpr{
			Target: target,
			Member: d.builder.Intern(dto.Name),
		}), nil

	case KindLit:
		return d.builder.NewLit(d.span(dto.Span), dto.Text), nil
	}
	return ast.NoExprID, fmt.Errorf("astio: unknown expression kind %q", dto.Kind)
}

func (d *Decoder) asmBlock(dto *AsmBlockDTO) (asm.BlockID, error) {
	if dto == nil {
		return asm.NoBlockID, nil
	}
	stmts := make([]asm.StmtID, 0, len(dto.Stmts))
	for i := range dto.Stmts {
		id, err := d.asmStmt(&dto.Stmts[i])
		if err != nil {
			return asm.NoBlockID, err
		}
		stmts = append(stmts, id)
	}
	return d.asm.NewBlock(d.span(dto.Span), stmts), nil
}

func (d *Decoder) asmNames(dtos []AsmNameDTO) []asm.TypedName {
	if len(dtos) == 0 {
		return nil
	}
	out := make([]asm.TypedName, 0, len(dtos))
	for _, n := range dtos {
		out = append(out, asm.TypedName{Name: d.builder.Intern(n.Name), Span: d.span(n.Span)})
	}
	return out
}

func (d *Decoder) asmStmt(dto *AsmStmtDTO) (asm.StmtID, error) {
	switch dto.Kind {
	case KindExprStmt:
		expr, err := d.asmExpr(dto.Expr)
		if err != nil {
			return asm.NoStmtID, err
		}
		return d.asm.NewExprStmt(d.span(dto.Span), expr), nil

	case KindVarDecl:
		value, err := d.asmExpr(dto.Value)
		if err != nil {
			return asm.NoStmtID, err
		}
		return d.asm.NewVarDecl(d.span(dto.Span), asm.VarDeclStmt{
			Vars:  d.asmNames(dto.Vars),
			Value: value,
		}), nil

	case KindAsmFuncDef:
		body, err := d.asmBlock(dto.Body)
		if err != nil {
			return asm.NoStmtID, err
		}
		return d.asm.NewFuncDef(d.span(dto.Span), asm.FuncDefStmt{
			Name:     d.builder.Intern(dto.Name),
			NameSpan: d.span(dto.NameSpan),
			Params:   d.asmNames(dto.Params),
			Returns:  d.asmNames(dto.Returns),
			Body:     body,
		}), nil

	case KindBlock:
		block, err := d.asmBlock(dto.Block)
		if err != nil {
			return asm.NoStmtID, err
		}
		return d.asm.NewBlockStmt(d.span(dto.Span), block), nil
	}
	return asm.NoStmtID, fmt.Errorf("astio: unknown assembly statement kind %q", dto.Kind)
}

func (d *Decoder) asmExpr(dto *AsmExprDTO) (asm.ExprID, error) {
	if dto == nil {
		return asm.NoExprID, nil
	}
	switch dto.Kind {
	case KindIdent:
		return d.asm.NewIdent(d.span(dto.Span), d.builder.Intern(dto.Name)), nil
	case KindCall:
		target, err := d.asmExpr(dto.Target)
		if err != nil {
			return asm.NoExprID, err
		}
		args := make([]asm.ExprID, 0, len(dto.Args))
		for i := range dto.Args {
			arg, err := d.asmExpr(&dto.Args[i])
			if err != nil {
				return asm.NoExprID, err
			}
			args = append(args, arg)
		}
		return d.asm.NewCall(d.span(dto.Span), asm.CallExpr{Target: target, Args: args}), nil
	case KindLit:
		return d.asm.NewLit(d.span(dto.Span), dto.Text), nil
	}
	return asm.NoExprID, fmt.Errorf("astio: unknown assembly expression kind %q", dto.Kind)
}
