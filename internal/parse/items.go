package parse

import (
	"somc/internal/ast"
	"somc/internal/diag"
	"somc/internal/token"
)

// parseItem dispatches on the current token to one of the six top-level
// declaration shapes spec.md §6.4 allows.
func (p *Parser) parseItem() (ast.ItemID, error) {
	switch p.cur.Kind {
	case token.KwUse:
		return p.parseImport()
	case token.KwMultimethod:
		return p.parseMultimethodDecl()
	case token.KwImpl:
		return p.parseMultimethodImpl()
	case token.KwIntrinsic:
		return p.parseIntrinsic()
	case token.KwPub:
		return p.parseVisibleDecl()
	case token.KwType:
		return p.parseTypeDecl(ast.VisPrivate)
	case token.KwLet:
		return p.parseLetDecl(ast.VisPrivate)
	default:
		diag.ReportError(p.reporter, diag.SynUnexpectedToken, p.cur.Span,
			"expected a top-level declaration (use, type, let, multimethod, impl, or intrinsic)").Emit()
		return ast.NoItemID, errAbort
	}
}

// parseVisibleDecl handles the "pub" / "pub(mod)" prefix shared by type
// and let declarations, then falls through to whichever follows.
func (p *Parser) parseVisibleDecl() (ast.ItemID, error) {
	p.advance() // pub
	vis := ast.VisPublic
	if _, ok := p.accept(token.LParen); ok {
		if _, ok := p.accept(token.KwMod); !ok {
			diag.ReportError(p.reporter, diag.SynVisibilityKeyword, p.cur.Span,
				"expected 'mod' inside pub(...)").Emit()
			return ast.NoItemID, errAbort
		}
		if _, err := p.expect(token.RParen, diag.SynUnclosedDelimiter, "')'"); err != nil {
			return ast.NoItemID, err
		}
		vis = ast.VisModule
	}
	switch p.cur.Kind {
	case token.KwType:
		return p.parseTypeDecl(vis)
	case token.KwLet:
		return p.parseLetDecl(vis)
	default:
		diag.ReportError(p.reporter, diag.SynUnexpectedToken, p.cur.Span,
			"expected 'type' or 'let' after a visibility prefix").Emit()
		return ast.NoItemID, errAbort
	}
}

// parseImport parses "use a::b::c;".
func (p *Parser) parseImport() (ast.ItemID, error) {
	start := p.advance().Span // use
	var path []string
	name, _, err := p.expectIdent()
	if err != nil {
		return ast.NoItemID, err
	}
	path = append(path, name)
	for {
		if _, ok := p.accept(token.ColonColon); !ok {
			break
		}
		seg, _, err := p.expectIdent()
		if err != nil {
			return ast.NoItemID, err
		}
		path = append(path, seg)
	}
	end, err := p.expect(token.Semicolon, diag.SynExpectSemicolon, "';'")
	if err != nil {
		return ast.NoItemID, err
	}
	return p.b.Items.NewImport(start.Cover(end.Span), path, ""), nil
}

// parseTypeDecl parses "type Name = <body>;" with the leading keyword
// already identified; vis was already consumed from any pub prefix.
func (p *Parser) parseTypeDecl(vis ast.Visibility) (ast.ItemID, error) {
	start := p.advance().Span // type
	name, _, err := p.expectIdent()
	if err != nil {
		return ast.NoItemID, err
	}
	if _, err := p.expect(token.Eq, diag.SynExpectColon, "'='"); err != nil {
		return ast.NoItemID, err
	}
	body, err := p.parseTypeExpr()
	if err != nil {
		return ast.NoItemID, err
	}
	end, err := p.expect(token.Semicolon, diag.SynExpectSemicolon, "';'")
	if err != nil {
		return ast.NoItemID, err
	}
	return p.b.Items.NewType(start.Cover(end.Span), name, vis, body), nil
}

// parseLetDecl parses "let name [: Type] = <expr>;".
func (p *Parser) parseLetDecl(vis ast.Visibility) (ast.ItemID, error) {
	start := p.advance().Span // let
	name, _, err := p.expectIdent()
	if err != nil {
		return ast.NoItemID, err
	}
	typ := ast.NoTypeID
	if _, ok := p.accept(token.Colon); ok {
		typ, err = p.parseTypeExpr()
		if err != nil {
			return ast.NoItemID, err
		}
	}
	if _, err := p.expect(token.Eq, diag.SynExpectColon, "'='"); err != nil {
		return ast.NoItemID, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return ast.NoItemID, err
	}
	end, err := p.expect(token.Semicolon, diag.SynExpectSemicolon, "';'")
	if err != nil {
		return ast.NoItemID, err
	}
	return p.b.Items.NewLet(start.Cover(end.Span), name, vis, typ, value), nil
}

// parseMultimethodDecl parses "multimethod fn name(p1, ..., pn) -> T;". A
// forward declaration commits to a name, a parameter count, and a result
// type, never to any one implementation's parameter types.
func (p *Parser) parseMultimethodDecl() (ast.ItemID, error) {
	start := p.advance().Span // multimethod
	if _, err := p.expect(token.KwFn, diag.SynUnexpectedToken, "'fn'"); err != nil {
		return ast.NoItemID, err
	}
	name, _, err := p.expectIdent()
	if err != nil {
		return ast.NoItemID, err
	}
	if _, err := p.expect(token.LParen, diag.SynUnclosedDelimiter, "'('"); err != nil {
		return ast.NoItemID, err
	}
	arity := 0
	for !p.at(token.RParen) {
		if arity > 0 {
			if _, err := p.expect(token.Comma, diag.SynUnexpectedToken, "','"); err != nil {
				return ast.NoItemID, err
			}
		}
		if _, _, err := p.expectIdent(); err != nil {
			return ast.NoItemID, err
		}
		if _, err := p.expect(token.Colon, diag.SynExpectColon, "':'"); err != nil {
			return ast.NoItemID, err
		}
		if _, err := p.parseTypeExpr(); err != nil {
			return ast.NoItemID, err
		}
		arity++
	}
	if _, err := p.expect(token.RParen, diag.SynUnclosedDelimiter, "')'"); err != nil {
		return ast.NoItemID, err
	}
	if _, err := p.expect(token.Arrow, diag.SynExpectType, "'->'"); err != nil {
		return ast.NoItemID, err
	}
	result, err := p.parseTypeExpr()
	if err != nil {
		return ast.NoItemID, err
	}
	end, err := p.expect(token.Semicolon, diag.SynExpectSemicolon, "';'")
	if err != nil {
		return ast.NoItemID, err
	}
	return p.b.Items.NewMultimethodDecl(start.Cover(end.Span), name, ast.VisPublic, arity, result), nil
}

// parseMultimethodImpl parses "impl fn name(typed params) -> T { body }".
func (p *Parser) parseMultimethodImpl() (ast.ItemID, error) {
	start := p.advance().Span // impl
	if _, err := p.expect(token.KwFn, diag.SynUnexpectedToken, "'fn'"); err != nil {
		return ast.NoItemID, err
	}
	name, _, err := p.expectIdent()
	if err != nil {
		return ast.NoItemID, err
	}
	params, err := p.parseTypedParamList()
	if err != nil {
		return ast.NoItemID, err
	}
	result := ast.NoTypeID
	if _, ok := p.accept(token.Arrow); ok {
		result, err = p.parseTypeExpr()
		if err != nil {
			return ast.NoItemID, err
		}
	}
	body, err := p.parseBlock()
	if err != nil {
		return ast.NoItemID, err
	}
	end := p.b.Exprs.Get(body).Span
	mmParams := make([]ast.MultimethodImplParam, len(params))
	for i, pr := range params {
		mmParams[i] = ast.MultimethodImplParam{Name: pr.Name, Type: pr.Type}
	}
	return p.b.Items.NewMultimethodImpl(start.Cover(end), name, mmParams, result, body), nil
}

// parseIntrinsic parses "intrinsic fn name(params) -> T;" — a signature
// with no body, implemented by the host rather than in source.
func (p *Parser) parseIntrinsic() (ast.ItemID, error) {
	start := p.advance().Span // intrinsic
	if _, err := p.expect(token.KwFn, diag.SynUnexpectedToken, "'fn'"); err != nil {
		return ast.NoItemID, err
	}
	name, _, err := p.expectIdent()
	if err != nil {
		return ast.NoItemID, err
	}
	if _, err := p.expect(token.LParen, diag.SynUnclosedDelimiter, "'('"); err != nil {
		return ast.NoItemID, err
	}
	var params []ast.TypeID
	for !p.at(token.RParen) {
		if len(params) > 0 {
			if _, err := p.expect(token.Comma, diag.SynUnexpectedToken, "','"); err != nil {
				return ast.NoItemID, err
			}
		}
		if _, _, err := p.expectIdent(); err != nil {
			return ast.NoItemID, err
		}
		if _, err := p.expect(token.Colon, diag.SynExpectColon, "':'"); err != nil {
			return ast.NoItemID, err
		}
		ty, err := p.parseTypeExpr()
		if err != nil {
			return ast.NoItemID, err
		}
		params = append(params, ty)
	}
	if _, err := p.expect(token.RParen, diag.SynUnclosedDelimiter, "')'"); err != nil {
		return ast.NoItemID, err
	}
	if _, err := p.expect(token.Arrow, diag.SynExpectType, "'->'"); err != nil {
		return ast.NoItemID, err
	}
	result, err := p.parseTypeExpr()
	if err != nil {
		return ast.NoItemID, err
	}
	end, err := p.expect(token.Semicolon, diag.SynExpectSemicolon, "';'")
	if err != nil {
		return ast.NoItemID, err
	}
	return p.b.Items.NewIntrinsic(start.Cover(end.Span), name, ast.VisPublic, params, result), nil
}

// parseTypedParamList parses "(name: Type, ...)", used by multimethod
// impls and function literals alike.
func (p *Parser) parseTypedParamList() ([]ast.FnLitParam, error) {
	if _, err := p.expect(token.LParen, diag.SynUnclosedDelimiter, "'('"); err != nil {
		return nil, err
	}
	var params []ast.FnLitParam
	for !p.at(token.RParen) {
		if len(params) > 0 {
			if _, err := p.expect(token.Comma, diag.SynUnexpectedToken, "','"); err != nil {
				return nil, err
			}
		}
		name, _, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Colon, diag.SynExpectColon, "':'"); err != nil {
			return nil, err
		}
		ty, err := p.parseTypeExpr()
		if err != nil {
			return nil, err
		}
		params = append(params, ast.FnLitParam{Name: name, Type: ty})
	}
	if _, err := p.expect(token.RParen, diag.SynUnclosedDelimiter, "')'"); err != nil {
		return nil, err
	}
	return params, nil
}
