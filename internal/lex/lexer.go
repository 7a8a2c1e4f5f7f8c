// Package lex is a hand-written, byte-at-a-time scanner producing
// internal/token values from a source.File — the minimal lexing layer
// the embedded front end needs ahead of internal/parse.
package lex

import (
	"fmt"

	"fortio.org/safecast"

	"somc/internal/diag"
	"somc/internal/source"
	"somc/internal/token"
)

// Lexer scans one source.File into a stream of tokens, with a one-token
// lookahead buffer so Peek never consumes.
type Lexer struct {
	file     *source.File
	off      uint32
	limit    uint32
	look     *token.Token
	reporter diag.Reporter
}

// New creates a Lexer over file, reporting lexical errors (an unknown
// character, an unterminated string) to reporter. A nil reporter is
// treated as diag.NopReporter{} — scanning never stops on its own, a
// missing closing quote just means the literal runs to EOF.
func New(file *source.File, reporter diag.Reporter) *Lexer {
	limit, err := safecast.Conv[uint32](len(file.Content))
	if err != nil {
		panic(fmt.Errorf("lex: file content length overflow: %w", err))
	}
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	return &Lexer{file: file, limit: limit, reporter: reporter}
}

func (lx *Lexer) eof() bool { return lx.off >= lx.limit }

func (lx *Lexer) peekByte() byte {
	if lx.eof() {
		return 0
	}
	return lx.file.Content[lx.off]
}

func (lx *Lexer) peekByteAt(ahead uint32) byte {
	if lx.off+ahead >= lx.limit {
		return 0
	}
	return lx.file.Content[lx.off+ahead]
}

func (lx *Lexer) bump() byte {
	b := lx.peekByte()
	lx.off++
	return b
}

func (lx *Lexer) spanFrom(start uint32) source.Span {
	return source.Span{File: lx.file.ID, Start: start, End: lx.off}
}

// Next returns the next significant token, skipping whitespace and
// "//" line comments. Past EOF it always returns an EOF token.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}
	return lx.scan()
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	if lx.look == nil {
		t := lx.scan()
		lx.look = &t
	}
	return *lx.look
}

func (lx *Lexer) scan() token.Token {
	lx.skipTrivia()
	if lx.eof() {
		return token.Token{Kind: token.EOF, Span: lx.spanFrom(lx.off)}
	}

	start := lx.off
	ch := lx.peekByte()

	switch {
	case isIdentStart(ch):
		return lx.scanIdentOrKeyword(start)
	case isDigit(ch):
		return lx.scanInt(start)
	case ch == '"':
		return lx.scanString(start)
	default:
		return lx.scanOperator(start)
	}
}

func (lx *Lexer) skipTrivia() {
	for !lx.eof() {
		ch := lx.peekByte()
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			lx.bump()
		case ch == '/' && lx.peekByteAt(1) == '/':
			for !lx.eof() && lx.peekByte() != '\n' {
				lx.bump()
			}
		default:
			return
		}
	}
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentContinue(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

func (lx *Lexer) scanIdentOrKeyword(start uint32) token.Token {
	for !lx.eof() && isIdentContinue(lx.peekByte()) {
		lx.bump()
	}
	text := string(lx.file.Content[start:lx.off])
	kind := token.Ident
	if kw, ok := token.Keywords[text]; ok {
		kind = kw
	}
	return token.Token{Kind: kind, Span: lx.spanFrom(start), Text: text}
}

func (lx *Lexer) scanInt(start uint32) token.Token {
	for !lx.eof() && isDigit(lx.peekByte()) {
		lx.bump()
	}
	return token.Token{Kind: token.IntLit, Span: lx.spanFrom(start), Text: string(lx.file.Content[start:lx.off])}
}

// scanString decodes a double-quoted literal with \", \\, \n, \t escapes.
// An unterminated literal runs to EOF; the lexer itself reports the
// missing closing quote as LexUnterminatedString.
func (lx *Lexer) scanString(start uint32) token.Token {
	lx.bump() // opening quote
	var decoded []byte
	for !lx.eof() && lx.peekByte() != '"' {
		ch := lx.bump()
		if ch == '\\' && !lx.eof() {
			esc := lx.bump()
			switch esc {
			case 'n':
				decoded = append(decoded, '\n')
			case 't':
				decoded = append(decoded, '\t')
			case '"', '\\':
				decoded = append(decoded, esc)
			default:
				decoded = append(decoded, '\\', esc)
			}
			continue
		}
		decoded = append(decoded, ch)
	}
	if !lx.eof() {
		lx.bump() // closing quote
	} else {
		diag.ReportError(lx.reporter, diag.LexUnterminatedString, lx.spanFrom(start), "unterminated string literal").Emit()
	}
	return token.Token{Kind: token.StringLit, Span: lx.spanFrom(start), Text: string(decoded)}
}

func (lx *Lexer) scanOperator(start uint32) token.Token {
	ch := lx.bump()
	kind := token.Illegal
	switch ch {
	case '(':
		kind = token.LParen
	case ')':
		kind = token.RParen
	case '{':
		kind = token.LBrace
	case '}':
		kind = token.RBrace
	case ',':
		kind = token.Comma
	case ';':
		kind = token.Semicolon
	case '*':
		kind = token.Star
	case '.':
		kind = token.Dot
	case '!':
		kind = token.Bang
		if lx.peekByte() == '=' {
			lx.bump()
			kind = token.NotEq
		}
	case ':':
		kind = token.Colon
		if lx.peekByte() == ':' {
			lx.bump()
			kind = token.ColonColon
		}
	case '-':
		kind = token.Minus
		if lx.peekByte() == '>' {
			lx.bump()
			kind = token.Arrow
		}
	case '/':
		kind = token.Slash
	case '+':
		kind = token.Plus
	case '=':
		kind = token.Eq
		if lx.peekByte() == '=' {
			lx.bump()
			kind = token.EqEq
		}
	case '<':
		kind = token.Lt
		if lx.peekByte() == '=' {
			lx.bump()
			kind = token.Le
		}
	case '>':
		kind = token.Gt
		if lx.peekByte() == '=' {
			lx.bump()
			kind = token.Ge
		}
	case '&':
		if lx.peekByte() == '&' {
			lx.bump()
			kind = token.AmpAmp
		}
	case '|':
		if lx.peekByte() == '|' {
			lx.bump()
			kind = token.PipePipe
		}
	}
	if kind == token.Illegal {
		diag.ReportError(lx.reporter, diag.LexUnknownChar, lx.spanFrom(start), fmt.Sprintf("unexpected character %q", ch)).Emit()
	}
	return token.Token{Kind: kind, Span: lx.spanFrom(start), Text: string(ch)}
}
