package parse

import (
	"strconv"

	"somc/internal/ast"
	"somc/internal/diag"
	"somc/internal/token"
)

// precedence groups binary operators from loosest to tightest; parseExpr
// climbs this table rather than writing one method per level.
var precedence = map[token.Kind]int{
	token.PipePipe: 1,
	token.AmpAmp:   2,
	token.EqEq:     3,
	token.NotEq:    3,
	token.Lt:       4,
	token.Le:       4,
	token.Gt:       4,
	token.Ge:       4,
	token.Plus:     5,
	token.Minus:    5,
	token.Star:     6,
	token.Slash:    6,
}

var binOps = map[token.Kind]ast.BinOp{
	token.PipePipe: ast.BinOr,
	token.AmpAmp:   ast.BinAnd,
	token.EqEq:     ast.BinEq,
	token.NotEq:    ast.BinNotEq,
	token.Lt:       ast.BinLt,
	token.Le:       ast.BinLe,
	token.Gt:       ast.BinGt,
	token.Ge:       ast.BinGe,
	token.Plus:     ast.BinAdd,
	token.Minus:    ast.BinSub,
	token.Star:     ast.BinMul,
	token.Slash:    ast.BinDiv,
}

func (p *Parser) parseExpr() (ast.ExprID, error) {
	return p.parseBinary(0)
}

func (p *Parser) parseBinary(minPrec int) (ast.ExprID, error) {
	left, err := p.parseUnary()
	if err != nil {
		return ast.NoExprID, err
	}
	for {
		prec, ok := precedence[p.cur.Kind]
		if !ok || prec < minPrec {
			return left, nil
		}
		op := binOps[p.cur.Kind]
		p.advance()
		right, err := p.parseBinary(prec + 1)
		if err != nil {
			return ast.NoExprID, err
		}
		leftSpan := p.b.Exprs.Get(left).Span
		rightSpan := p.b.Exprs.Get(right).Span
		left = p.b.Exprs.NewBinary(leftSpan.Cover(rightSpan), op, left, right)
	}
}

func (p *Parser) parseUnary() (ast.ExprID, error) {
	switch p.cur.Kind {
	case token.Minus:
		start := p.advance().Span
		operand, err := p.parseUnary()
		if err != nil {
			return ast.NoExprID, err
		}
		end := p.b.Exprs.Get(operand).Span
		return p.b.Exprs.NewUnary(start.Cover(end), ast.UnNeg, operand), nil
	case token.Bang:
		start := p.advance().Span
		operand, err := p.parseUnary()
		if err != nil {
			return ast.NoExprID, err
		}
		end := p.b.Exprs.Get(operand).Span
		return p.b.Exprs.NewUnary(start.Cover(end), ast.UnNot, operand), nil
	default:
		return p.parsePostfix()
	}
}

// parsePostfix handles field-access suffixes chained onto a primary
// expression: "expr.field", "expr.a.b". Calls are parsed by parsePrimary
// on a bare name; "expr.field(args)" is not accepted.
func (p *Parser) parsePostfix() (ast.ExprID, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return ast.NoExprID, err
	}
	for {
		switch p.cur.Kind {
		case token.Dot:
			p.advance()
			field, fieldSpan, err := p.expectIdent()
			if err != nil {
				return ast.NoExprID, err
			}
			start := p.b.Exprs.Get(expr).Span
			expr = p.b.Exprs.NewFieldAccess(start.Cover(fieldSpan), expr, field)
		default:
			return expr, nil
		}
	}
}

// parsePrimary parses idents (which may immediately resolve into a call
// expression), literals, parenthesized expressions, if-expressions, and
// function literals.
func (p *Parser) parsePrimary() (ast.ExprID, error) {
	switch p.cur.Kind {
	case token.Ident:
		tok := p.advance()
		if p.at(token.LParen) {
			return p.parseCall(tok)
		}
		return p.b.Exprs.NewIdent(tok.Span, tok.Text), nil
	case token.IntLit:
		tok := p.advance()
		v, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			diag.ReportError(p.reporter, diag.LexBadNumber, tok.Span, "integer literal out of range").Emit()
			return ast.NoExprID, errAbort
		}
		return p.b.Exprs.NewIntLit(tok.Span, v), nil
	case token.KwTrue:
		tok := p.advance()
		return p.b.Exprs.NewBoolLit(tok.Span, true), nil
	case token.KwFalse:
		tok := p.advance()
		return p.b.Exprs.NewBoolLit(tok.Span, false), nil
	case token.StringLit:
		tok := p.advance()
		return p.b.Exprs.NewStringLit(tok.Span, tok.Text), nil
	case token.LParen:
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return ast.NoExprID, err
		}
		if _, err := p.expect(token.RParen, diag.SynUnclosedDelimiter, "')'"); err != nil {
			return ast.NoExprID, err
		}
		return inner, nil
	case token.KwIf:
		return p.parseIf()
	case token.KwFn:
		return p.parseFnLit()
	case token.LBrace:
		return p.parseBlock()
	default:
		diag.ReportError(p.reporter, diag.SynExpectExpression, p.cur.Span, "expected an expression").Emit()
		return ast.NoExprID, errAbort
	}
}

// parseCall parses the "(args)" suffix following a bare name, the
// language's only call syntax: calls always name a multimethod, an
// intrinsic or a function-valued let by its declared name, never an
// arbitrary callee expression.
func (p *Parser) parseCall(name token.Token) (ast.ExprID, error) {
	p.advance() // (
	var args []ast.ExprID
	for !p.at(token.RParen) {
		if len(args) > 0 {
			if _, err := p.expect(token.Comma, diag.SynUnexpectedToken, "','"); err != nil {
				return ast.NoExprID, err
			}
		}
		arg, err := p.parseExpr()
		if err != nil {
			return ast.NoExprID, err
		}
		args = append(args, arg)
	}
	end, err := p.expect(token.RParen, diag.SynUnclosedDelimiter, "')'")
	if err != nil {
		return ast.NoExprID, err
	}
	return p.b.Exprs.NewCall(name.Span.Cover(end.Span), name.Text, args), nil
}

// parseIf parses "if cond { then } [else { else }]" as an expression.
func (p *Parser) parseIf() (ast.ExprID, error) {
	start := p.advance().Span // if
	cond, err := p.parseExpr()
	if err != nil {
		return ast.NoExprID, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return ast.NoExprID, err
	}
	end := p.b.Exprs.Get(then).Span
	elseExpr := ast.NoExprID
	if _, ok := p.accept(token.KwElse); ok {
		if p.at(token.KwIf) {
			elseExpr, err = p.parseIf()
		} else {
			elseExpr, err = p.parseBlock()
		}
		if err != nil {
			return ast.NoExprID, err
		}
		end = p.b.Exprs.Get(elseExpr).Span
	}
	return p.b.Exprs.NewIf(start.Cover(end), cond, then, elseExpr), nil
}

// parseFnLit parses a function literal, "fn(params) [-> T] <body>", where
// body is either a single expression (Scenario T1's "fn() 1 + 1") or a
// "{ ... }" block.
func (p *Parser) parseFnLit() (ast.ExprID, error) {
	start := p.advance().Span // fn
	params, err := p.parseTypedParamList()
	if err != nil {
		return ast.NoExprID, err
	}
	result := ast.NoTypeID
	if _, ok := p.accept(token.Arrow); ok {
		result, err = p.parseTypeExpr()
		if err != nil {
			return ast.NoExprID, err
		}
	}
	var body ast.ExprID
	if p.at(token.LBrace) {
		body, err = p.parseBlock()
	} else {
		body, err = p.parseExpr()
	}
	if err != nil {
		return ast.NoExprID, err
	}
	end := p.b.Exprs.Get(body).Span
	return p.b.Exprs.NewFnLit(start.Cover(end), params, result, body), nil
}

// parseBlock parses "{ stmt* [tail-expr] }". A statement is terminated by
// ';'; the final expression in the block, if not followed by ';', becomes
// the block's value.
func (p *Parser) parseBlock() (ast.ExprID, error) {
	start, err := p.expect(token.LBrace, diag.SynUnclosedDelimiter, "'{'")
	if err != nil {
		return ast.NoExprID, err
	}
	var stmts []ast.StmtID
	tail := ast.NoExprID
	for !p.at(token.RBrace) {
		if p.at(token.KwLet) {
			s, err := p.parseLetStmt()
			if err != nil {
				return ast.NoExprID, err
			}
			stmts = append(stmts, s)
			continue
		}
		if p.at(token.KwReturn) {
			s, err := p.parseReturnStmt()
			if err != nil {
				return ast.NoExprID, err
			}
			stmts = append(stmts, s)
			continue
		}
		expr, err := p.parseExpr()
		if err != nil {
			return ast.NoExprID, err
		}
		if _, ok := p.accept(token.Semicolon); ok {
			exprSpan := p.b.Exprs.Get(expr).Span
			stmts = append(stmts, p.b.Stmts.NewExprStmt(exprSpan, expr))
			continue
		}
		tail = expr
		break
	}
	end, err := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "'}'")
	if err != nil {
		return ast.NoExprID, err
	}
	return p.b.Exprs.NewBlock(start.Span.Cover(end.Span), stmts, tail), nil
}

func (p *Parser) parseLetStmt() (ast.StmtID, error) {
	start := p.advance().Span // let
	name, _, err := p.expectIdent()
	if err != nil {
		return ast.NoStmtID, err
	}
	typ := ast.NoTypeID
	if _, ok := p.accept(token.Colon); ok {
		typ, err = p.parseTypeExpr()
		if err != nil {
			return ast.NoStmtID, err
		}
	}
	if _, err := p.expect(token.Eq, diag.SynExpectColon, "'='"); err != nil {
		return ast.NoStmtID, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return ast.NoStmtID, err
	}
	end, err := p.expect(token.Semicolon, diag.SynExpectSemicolon, "';'")
	if err != nil {
		return ast.NoStmtID, err
	}
	return p.b.Stmts.NewLet(start.Cover(end.Span), name, typ, value), nil
}

func (p *Parser) parseReturnStmt() (ast.StmtID, error) {
	start := p.advance().Span // return
	value := ast.NoExprID
	if !p.at(token.Semicolon) {
		var err error
		value, err = p.parseExpr()
		if err != nil {
			return ast.NoStmtID, err
		}
	}
	end, err := p.expect(token.Semicolon, diag.SynExpectSemicolon, "';'")
	if err != nil {
		return ast.NoStmtID, err
	}
	return p.b.Stmts.NewReturn(start.Cover(end.Span), value), nil
}
