package lex_test

import (
	"testing"

	"somc/internal/diag"
	"somc/internal/lex"
	"somc/internal/source"
	"somc/internal/token"
)

func scanAll(t *testing.T, src string) []token.Token {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.som", []byte(src))
	lx := lex.New(fs.Get(id), nil)

	var out []token.Token
	for {
		tok := lx.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out
		}
	}
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func assertKinds(t *testing.T, got []token.Kind, want ...token.Kind) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("token count = %d, want %d (%v vs %v)", len(got), len(want), got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestScansDeclarationKeywords(t *testing.T) {
	toks := scanAll(t, "pub type Config = int")
	assertKinds(t, kinds(toks),
		token.KwPub, token.KwType, token.Ident, token.Eq, token.Ident, token.EOF)
}

func TestScansPubMod(t *testing.T) {
	toks := scanAll(t, "pub(mod) fn internal")
	assertKinds(t, kinds(toks),
		token.KwPub, token.LParen, token.KwMod, token.RParen, token.KwFn, token.Ident, token.EOF)
}

func TestScansArrowAndColonColon(t *testing.T) {
	toks := scanAll(t, "use std::io fn() -> int")
	assertKinds(t, kinds(toks),
		token.KwUse, token.Ident, token.ColonColon, token.Ident,
		token.KwFn, token.LParen, token.RParen, token.Arrow, token.Ident, token.EOF)
}

func TestScansIntAndStringLiterals(t *testing.T) {
	toks := scanAll(t, `42 "hello\nworld"`)
	if toks[0].Kind != token.IntLit || toks[0].Text != "42" {
		t.Fatalf("int literal = %+v", toks[0])
	}
	if toks[1].Kind != token.StringLit || toks[1].Text != "hello\nworld" {
		t.Fatalf("string literal = %+v", toks[1])
	}
}

func TestScansComparisonOperators(t *testing.T) {
	toks := scanAll(t, "== != <= >= < >")
	assertKinds(t, kinds(toks),
		token.EqEq, token.NotEq, token.Le, token.Ge, token.Lt, token.Gt, token.EOF)
}

func TestSkipsLineComments(t *testing.T) {
	toks := scanAll(t, "let x = 1 // trailing comment\nlet y = 2")
	kindsGot := kinds(toks)
	count := 0
	for _, k := range kindsGot {
		if k == token.KwLet {
			count++
		}
	}
	if count != 2 {
		t.Fatalf("expected 2 'let' tokens around the skipped comment, got %d (%v)", count, kindsGot)
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.som", []byte("let x"))
	lx := lex.New(fs.Get(id), nil)

	first := lx.Peek()
	second := lx.Peek()
	if first.Kind != token.KwLet || second.Kind != token.KwLet {
		t.Fatalf("Peek should be idempotent, got %v then %v", first.Kind, second.Kind)
	}
	consumed := lx.Next()
	if consumed.Kind != token.KwLet {
		t.Fatalf("Next after Peek = %v, want KwLet", consumed.Kind)
	}
	next := lx.Next()
	if next.Kind != token.Ident || next.Text != "x" {
		t.Fatalf("Next after consuming the peeked token = %+v", next)
	}
}

func TestUnterminatedStringStopsAtEOF(t *testing.T) {
	toks := scanAll(t, `"unterminated`)
	if toks[0].Kind != token.StringLit || toks[0].Text != "unterminated" {
		t.Fatalf("unterminated string = %+v", toks[0])
	}
	if toks[1].Kind != token.EOF {
		t.Fatalf("expected EOF after the unterminated string, got %v", toks[1].Kind)
	}
}

func TestUnterminatedStringReportsDiagnostic(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.som", []byte(`"oops`))
	bag := diag.NewBag(4)
	lx := lex.New(fs.Get(id), diag.BagReporter{Bag: bag})
	lx.Next()

	if bag.Len() != 1 || bag.Items()[0].Code != diag.LexUnterminatedString {
		t.Fatalf("diagnostics = %v, want one LexUnterminatedString", bag.Items())
	}
}

func TestUnknownCharacterReportsDiagnostic(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.som", []byte("let x = 1 @ 2"))
	bag := diag.NewBag(4)
	lx := lex.New(fs.Get(id), diag.BagReporter{Bag: bag})
	for {
		if tok := lx.Next(); tok.Kind == token.EOF {
			break
		}
	}

	if bag.Len() != 1 || bag.Items()[0].Code != diag.LexUnknownChar {
		t.Fatalf("diagnostics = %v, want one LexUnknownChar", bag.Items())
	}
}
