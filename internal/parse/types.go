package parse

import (
	"somc/internal/ast"
	"somc/internal/diag"
	"somc/internal/token"
)

// parseTypeExpr dispatches on the current token to one of the five type
// syntax shapes: a path, a "*T" reference, an inline struct or enum body,
// or a "(T1, ...) -> R" function type.
func (p *Parser) parseTypeExpr() (ast.TypeID, error) {
	switch p.cur.Kind {
	case token.Star:
		return p.parseReferenceType()
	case token.LBrace:
		return p.parseStructType()
	case token.KwEnum:
		return p.parseEnumType()
	case token.LParen:
		return p.parseFunctionType()
	case token.Ident:
		return p.parsePathType()
	default:
		diag.ReportError(p.reporter, diag.SynExpectType, p.cur.Span, "expected a type").Emit()
		return ast.NoTypeID, errAbort
	}
}

func (p *Parser) parsePathType() (ast.TypeID, error) {
	start := p.cur.Span
	name, _, err := p.expectIdent()
	if err != nil {
		return ast.NoTypeID, err
	}
	path := []string{name}
	end := start
	for {
		if _, ok := p.accept(token.ColonColon); !ok {
			break
		}
		seg, sp, err := p.expectIdent()
		if err != nil {
			return ast.NoTypeID, err
		}
		path = append(path, seg)
		end = sp
	}
	return p.b.TypeExprs.New(ast.TypeExpr{Kind: ast.TypeExprPath, Span: start.Cover(end), PathName: path}), nil
}

func (p *Parser) parseReferenceType() (ast.TypeID, error) {
	start := p.advance().Span // *
	inner, err := p.parseTypeExpr()
	if err != nil {
		return ast.NoTypeID, err
	}
	end := p.b.TypeExprs.Get(inner).Span
	return p.b.TypeExprs.New(ast.TypeExpr{Kind: ast.TypeExprReference, Span: start.Cover(end), Inner: inner}), nil
}

// parseStructType parses "{ field: Type, field: Type, ... }", rejecting
// a field name repeated within the same body.
func (p *Parser) parseStructType() (ast.TypeID, error) {
	start, err := p.expect(token.LBrace, diag.SynUnclosedDelimiter, "'{'")
	if err != nil {
		return ast.NoTypeID, err
	}
	var fields []ast.StructFieldSyn
	seen := make(map[string]bool)
	for !p.at(token.RBrace) {
		if len(fields) > 0 {
			if _, err := p.expect(token.Comma, diag.SynUnexpectedToken, "','"); err != nil {
				return ast.NoTypeID, err
			}
			if p.at(token.RBrace) {
				break
			}
		}
		name, fieldSpan, err := p.expectIdent()
		if err != nil {
			return ast.NoTypeID, err
		}
		if seen[name] {
			diag.ReportError(p.reporter, diag.SynDuplicateField, fieldSpan,
				"duplicate field '"+name+"' in struct body").Emit()
			return ast.NoTypeID, errAbort
		}
		seen[name] = true
		if _, err := p.expect(token.Colon, diag.SynExpectColon, "':'"); err != nil {
			return ast.NoTypeID, err
		}
		ty, err := p.parseTypeExpr()
		if err != nil {
			return ast.NoTypeID, err
		}
		fields = append(fields, ast.StructFieldSyn{Name: name, Type: ty, Span: fieldSpan})
	}
	end, err := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "'}'")
	if err != nil {
		return ast.NoTypeID, err
	}
	return p.b.TypeExprs.New(ast.TypeExpr{Kind: ast.TypeExprStruct, Span: start.Span.Cover(end.Span), Fields: fields}), nil
}

// parseEnumType parses "enum { Variant, Variant(T), ... }".
func (p *Parser) parseEnumType() (ast.TypeID, error) {
	start := p.advance().Span // enum
	if _, err := p.expect(token.LBrace, diag.SynUnclosedDelimiter, "'{'"); err != nil {
		return ast.NoTypeID, err
	}
	var variants []ast.EnumVariantSyn
	for !p.at(token.RBrace) {
		if len(variants) > 0 {
			if _, err := p.expect(token.Comma, diag.SynUnexpectedToken, "','"); err != nil {
				return ast.NoTypeID, err
			}
			if p.at(token.RBrace) {
				break
			}
		}
		name, variantSpan, err := p.expectIdent()
		if err != nil {
			return ast.NoTypeID, err
		}
		payload := ast.NoTypeID
		end := variantSpan
		if _, ok := p.accept(token.LParen); ok {
			payload, err = p.parseTypeExpr()
			if err != nil {
				return ast.NoTypeID, err
			}
			closeTok, err := p.expect(token.RParen, diag.SynUnclosedDelimiter, "')'")
			if err != nil {
				return ast.NoTypeID, err
			}
			end = closeTok.Span
		}
		variants = append(variants, ast.EnumVariantSyn{Name: name, Payload: payload, Span: variantSpan.Cover(end)})
	}
	closeTok, err := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "'}'")
	if err != nil {
		return ast.NoTypeID, err
	}
	return p.b.TypeExprs.New(ast.TypeExpr{Kind: ast.TypeExprEnum, Span: start.Cover(closeTok.Span), Variants: variants}), nil
}

// parseFunctionType parses "(T1, ..., Tn) -> R".
func (p *Parser) parseFunctionType() (ast.TypeID, error) {
	start, err := p.expect(token.LParen, diag.SynUnclosedDelimiter, "'('")
	if err != nil {
		return ast.NoTypeID, err
	}
	var params []ast.TypeID
	for !p.at(token.RParen) {
		if len(params) > 0 {
			if _, err := p.expect(token.Comma, diag.SynUnexpectedToken, "','"); err != nil {
				return ast.NoTypeID, err
			}
		}
		ty, err := p.parseTypeExpr()
		if err != nil {
			return ast.NoTypeID, err
		}
		params = append(params, ty)
	}
	if _, err := p.expect(token.RParen, diag.SynUnclosedDelimiter, "')'"); err != nil {
		return ast.NoTypeID, err
	}
	if _, err := p.expect(token.Arrow, diag.SynExpectType, "'->'"); err != nil {
		return ast.NoTypeID, err
	}
	result, err := p.parseTypeExpr()
	if err != nil {
		return ast.NoTypeID, err
	}
	end := p.b.TypeExprs.Get(result).Span
	return p.b.TypeExprs.New(ast.TypeExpr{
		Kind:   ast.TypeExprFunction,
		Span:   start.Span.Cover(end),
		Params: params,
		Result: result,
	}), nil
}
