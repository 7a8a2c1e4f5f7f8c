package ast

import "somc/internal/source"

type ExprKind uint8

const (
	ExprIdent ExprKind = iota
	ExprIntLit
	ExprBoolLit
	ExprStringLit
	ExprBinary
	ExprUnary
	ExprCall
	ExprFieldAccess
	ExprStructLit
	ExprBlock
	ExprIf
	ExprFnLit
)

type BinOp uint8

const (
	BinAdd BinOp = iota
	BinSub
	BinMul
	BinDiv
	BinEq
	BinNotEq
	BinLt
	BinLe
	BinGt
	BinGe
	BinAnd
	BinOr
)

func (op BinOp) String() string {
	switch op {
	case BinAdd:
		return "+"
	case BinSub:
		return "-"
	case BinMul:
		return "*"
	case BinDiv:
		return "/"
	case BinEq:
		return "=="
	case BinNotEq:
		return "!="
	case BinLt:
		return "<"
	case BinLe:
		return "<="
	case BinGt:
		return ">"
	case BinGe:
		return ">="
	case BinAnd:
		return "&&"
	case BinOr:
		return "||"
	default:
		return "?"
	}
}

type UnOp uint8

const (
	UnNeg UnOp = iota
	UnNot
)

// Expr is a single arena slot. Kind selects which per-kind struct below
// holds the rest of the node's data; Payload indexes into that arena.
type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload uint32
}

type IdentExpr struct {
	Name string
}

type IntLitExpr struct {
	Value int64
}

type BoolLitExpr struct {
	Value bool
}

type StringLitExpr struct {
	Value string
}

type BinaryExpr struct {
	Op    BinOp
	Left  ExprID
	Right ExprID
}

type UnaryExpr struct {
	Op      UnOp
	Operand ExprID
}

type CallExpr struct {
	Callee string // resolved multimethod/function name; resolution may rewrite this to a mangled name
	Args   []ExprID
}

type FieldAccessExpr struct {
	Base  ExprID
	Field string
}

type StructLitField struct {
	Name  string
	Value ExprID
}

type StructLitExpr struct {
	TypeName string
	Fields   []StructLitField
}

type BlockExpr struct {
	Stmts []StmtID
	Tail  ExprID // NoExprID if the block has no trailing expression
}

type IfExpr struct {
	Cond ExprID
	Then ExprID
	Else ExprID // NoExprID if there is no else branch
}

type FnLitParam struct {
	Name string
	Type TypeID
}

type FnLitExpr struct {
	Params []FnLitParam
	Result TypeID // NoTypeID if inferred
	Body   ExprID
}

type Exprs struct {
	arena      *Arena[Expr]
	idents     *Arena[IdentExpr]
	intLits    *Arena[IntLitExpr]
	boolLits   *Arena[BoolLitExpr]
	stringLits *Arena[StringLitExpr]
	binaries   *Arena[BinaryExpr]
	unaries    *Arena[UnaryExpr]
	calls      *Arena[CallExpr]
	fields     *Arena[FieldAccessExpr]
	structLits *Arena[StructLitExpr]
	blocks     *Arena[BlockExpr]
	ifs        *Arena[IfExpr]
	fnLits     *Arena[FnLitExpr]
}

func NewExprs(capHint uint) *Exprs {
	return &Exprs{
		arena:      NewArena[Expr](capHint),
		idents:     NewArena[IdentExpr](capHint),
		intLits:    NewArena[IntLitExpr](capHint),
		boolLits:   NewArena[BoolLitExpr](capHint),
		stringLits: NewArena[StringLitExpr](capHint),
		binaries:   NewArena[BinaryExpr](capHint),
		unaries:    NewArena[UnaryExpr](capHint),
		calls:      NewArena[CallExpr](capHint),
		fields:     NewArena[FieldAccessExpr](capHint),
		structLits: NewArena[StructLitExpr](capHint),
		blocks:     NewArena[BlockExpr](capHint),
		ifs:        NewArena[IfExpr](capHint),
		fnLits:     NewArena[FnLitExpr](capHint),
	}
}

func (e *Exprs) Get(id ExprID) *Expr { return e.arena.Get(uint32(id)) }

func (e *Exprs) NewIdent(span source.Span, name string) ExprID {
	p := e.idents.Allocate(IdentExpr{Name: name})
	return ExprID(e.arena.Allocate(Expr{Kind: ExprIdent, Span: span, Payload: p}))
}

func (e *Exprs) Ident(id ExprID) *IdentExpr { return exprPayload(e, id, ExprIdent, e.idents) }

func (e *Exprs) NewIntLit(span source.Span, value int64) ExprID {
	p := e.intLits.Allocate(IntLitExpr{Value: value})
	return ExprID(e.arena.Allocate(Expr{Kind: ExprIntLit, Span: span, Payload: p}))
}

func (e *Exprs) IntLit(id ExprID) *IntLitExpr { return exprPayload(e, id, ExprIntLit, e.intLits) }

func (e *Exprs) NewBoolLit(span source.Span, value bool) ExprID {
	p := e.boolLits.Allocate(BoolLitExpr{Value: value})
	return ExprID(e.arena.Allocate(Expr{Kind: ExprBoolLit, Span: span, Payload: p}))
}

func (e *Exprs) BoolLit(id ExprID) *BoolLitExpr { return exprPayload(e, id, ExprBoolLit, e.boolLits) }

func (e *Exprs) NewStringLit(span source.Span, value string) ExprID {
	p := e.stringLits.Allocate(StringLitExpr{Value: value})
	return ExprID(e.arena.Allocate(Expr{Kind: ExprStringLit, Span: span, Payload: p}))
}

func (e *Exprs) StringLit(id ExprID) *StringLitExpr {
	return exprPayload(e, id, ExprStringLit, e.stringLits)
}

func (e *Exprs) NewBinary(span source.Span, op BinOp, left, right ExprID) ExprID {
	p := e.binaries.Allocate(BinaryExpr{Op: op, Left: left, Right: right})
	return ExprID(e.arena.Allocate(Expr{Kind: ExprBinary, Span: span, Payload: p}))
}

func (e *Exprs) Binary(id ExprID) *BinaryExpr { return exprPayload(e, id, ExprBinary, e.binaries) }

func (e *Exprs) NewUnary(span source.Span, op UnOp, operand ExprID) ExprID {
	p := e.unaries.Allocate(UnaryExpr{Op: op, Operand: operand})
	return ExprID(e.arena.Allocate(Expr{Kind: ExprUnary, Span: span, Payload: p}))
}

func (e *Exprs) Unary(id ExprID) *UnaryExpr { return exprPayload(e, id, ExprUnary, e.unaries) }

func (e *Exprs) NewCall(span source.Span, callee string, args []ExprID) ExprID {
	p := e.calls.Allocate(CallExpr{Callee: callee, Args: append([]ExprID(nil), args...)})
	return ExprID(e.arena.Allocate(Expr{Kind: ExprCall, Span: span, Payload: p}))
}

func (e *Exprs) Call(id ExprID) *CallExpr { return exprPayload(e, id, ExprCall, e.calls) }

func (e *Exprs) NewFieldAccess(span source.Span, base ExprID, field string) ExprID {
	p := e.fields.Allocate(FieldAccessExpr{Base: base, Field: field})
	return ExprID(e.arena.Allocate(Expr{Kind: ExprFieldAccess, Span: span, Payload: p}))
}

func (e *Exprs) FieldAccess(id ExprID) *FieldAccessExpr {
	return exprPayload(e, id, ExprFieldAccess, e.fields)
}

func (e *Exprs) NewStructLit(span source.Span, typeName string, fields []StructLitField) ExprID {
	p := e.structLits.Allocate(StructLitExpr{TypeName: typeName, Fields: append([]StructLitField(nil), fields...)})
	return ExprID(e.arena.Allocate(Expr{Kind: ExprStructLit, Span: span, Payload: p}))
}

func (e *Exprs) StructLit(id ExprID) *StructLitExpr {
	return exprPayload(e, id, ExprStructLit, e.structLits)
}

func (e *Exprs) NewBlock(span source.Span, stmts []StmtID, tail ExprID) ExprID {
	p := e.blocks.Allocate(BlockExpr{Stmts: append([]StmtID(nil), stmts...), Tail: tail})
	return ExprID(e.arena.Allocate(Expr{Kind: ExprBlock, Span: span, Payload: p}))
}

func (e *Exprs) Block(id ExprID) *BlockExpr { return exprPayload(e, id, ExprBlock, e.blocks) }

func (e *Exprs) NewIf(span source.Span, cond, then, els ExprID) ExprID {
	p := e.ifs.Allocate(IfExpr{Cond: cond, Then: then, Else: els})
	return ExprID(e.arena.Allocate(Expr{Kind: ExprIf, Span: span, Payload: p}))
}

func (e *Exprs) If(id ExprID) *IfExpr { return exprPayload(e, id, ExprIf, e.ifs) }

func (e *Exprs) NewFnLit(span source.Span, params []FnLitParam, result TypeID, body ExprID) ExprID {
	p := e.fnLits.Allocate(FnLitExpr{Params: append([]FnLitParam(nil), params...), Result: result, Body: body})
	return ExprID(e.arena.Allocate(Expr{Kind: ExprFnLit, Span: span, Payload: p}))
}

func (e *Exprs) FnLit(id ExprID) *FnLitExpr { return exprPayload(e, id, ExprFnLit, e.fnLits) }

func exprPayload[T any](e *Exprs, id ExprID, want ExprKind, arena *Arena[T]) *T {
	node := e.arena.Get(uint32(id))
	if node == nil || node.Kind != want {
		return nil
	}
	return arena.Get(node.Payload)
}
