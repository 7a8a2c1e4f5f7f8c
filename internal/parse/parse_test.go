package parse_test

import (
	"testing"

	"somc/internal/ast"
	"somc/internal/diag"
	"somc/internal/lex"
	"somc/internal/parse"
	"somc/internal/source"
)

func parseSource(t *testing.T, src string) (*ast.Builder, *ast.File, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.som", []byte(src))
	bag := diag.NewBag(16)
	b := ast.NewBuilder(0)
	lx := lex.New(fs.Get(id), diag.BagReporter{Bag: bag})
	p := parse.New(b, lx, diag.BagReporter{Bag: bag}, []string{"app"})
	f, err := p.ParseFile("test.som")
	if err != nil && bag.Len() == 0 {
		t.Fatalf("parse returned an error with no diagnostic recorded: %v", err)
	}
	return b, f, bag
}

func TestParsesImport(t *testing.T) {
	_, f, bag := parseSource(t, "use std::io::println;")
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	if len(f.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(f.Items))
	}
}

func TestParsesPubType(t *testing.T) {
	b, f, bag := parseSource(t, "pub type Config = { v: *Validator };")
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	item := b.Items.Get(f.Items[0])
	if item.Kind != ast.ItemType {
		t.Fatalf("item kind = %v, want ItemType", item.Kind)
	}
	decl := b.Items.Type(f.Items[0])
	if decl.Name != "Config" || decl.Vis != ast.VisPublic {
		t.Fatalf("decl = %+v", decl)
	}
	body := b.TypeExprs.Get(decl.Body)
	if body.Kind != ast.TypeExprStruct || len(body.Fields) != 1 {
		t.Fatalf("body = %+v", body)
	}
	field := body.Fields[0]
	if field.Name != "v" {
		t.Fatalf("field = %+v", field)
	}
	fieldType := b.TypeExprs.Get(field.Type)
	if fieldType.Kind != ast.TypeExprReference {
		t.Fatalf("field type = %+v", fieldType)
	}
}

func TestParsesPubModLet(t *testing.T) {
	b, f, bag := parseSource(t, "pub(mod) let answer: int = 42;")
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	decl := b.Items.Let(f.Items[0])
	if decl.Name != "answer" || decl.Vis != ast.VisModule {
		t.Fatalf("decl = %+v", decl)
	}
}

func TestParsesMultimethodDeclAndImpl(t *testing.T) {
	b, f, bag := parseSource(t, `
multimethod fn area(shape: Shape) -> int;
impl fn area(shape: Circle) -> int { 0 }
`)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	if len(f.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(f.Items))
	}
	decl := b.Items.MultimethodDecl(f.Items[0])
	if decl.Name != "area" || decl.Arity != 1 || !decl.Result.IsValid() {
		t.Fatalf("decl = %+v", decl)
	}
	impl := b.Items.MultimethodImpl(f.Items[1])
	if impl.Name != "area" || len(impl.Params) != 1 || impl.Params[0].Name != "shape" {
		t.Fatalf("impl = %+v", impl)
	}
}

func TestParsesIntrinsic(t *testing.T) {
	b, f, bag := parseSource(t, "intrinsic fn assert(c: bool) -> unit;")
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	decl := b.Items.Intrinsic(f.Items[0])
	if decl.Name != "assert" || len(decl.Params) != 1 {
		t.Fatalf("decl = %+v", decl)
	}
}

func TestParsesFnLitWithExpressionBody(t *testing.T) {
	b, f, bag := parseSource(t, "let two = fn() 1 + 1;")
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	decl := b.Items.Let(f.Items[0])
	fnLit := b.Exprs.FnLit(decl.Value)
	if fnLit == nil {
		t.Fatalf("value is not a function literal")
	}
	body := b.Exprs.Binary(fnLit.Body)
	if body == nil || body.Op != ast.BinAdd {
		t.Fatalf("body = %+v", body)
	}
}

// TestParsesCallAndEqualityAsEffectfulLet covers an effectful top-level
// call. ast.Item has no bare expression-statement shape (only Import,
// Type, Let, Multimethod*, Intrinsic), so a call made only for its side
// effect needs a name to bind to — hence the "let _check = ..." wrapper.
func TestParsesCallAndEqualityAsEffectfulLet(t *testing.T) {
	b, f, bag := parseSource(t, `
let assert = intrinsic_assert;
let two = fn() 1 + 1;
let _check = assert(two() == 2);
`)
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	if len(f.Items) != 3 {
		t.Fatalf("items = %d, want 3", len(f.Items))
	}
	check := b.Items.Let(f.Items[2])
	call := b.Exprs.Call(check.Value)
	if call == nil || call.Callee != "assert" || len(call.Args) != 1 {
		t.Fatalf("call = %+v", call)
	}
	cmp := b.Exprs.Binary(call.Args[0])
	if cmp == nil || cmp.Op != ast.BinEq {
		t.Fatalf("arg = %+v", cmp)
	}
}

func TestParsesIfExpression(t *testing.T) {
	b, f, bag := parseSource(t, "let x = if true { 1 } else { 2 };")
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	decl := b.Items.Let(f.Items[0])
	ifExpr := b.Exprs.If(decl.Value)
	if ifExpr == nil {
		t.Fatalf("value is not an if-expression")
	}
	if !ifExpr.Else.IsValid() {
		t.Fatalf("expected an else branch")
	}
}

func TestParsesFieldAccess(t *testing.T) {
	b, f, bag := parseSource(t, "let v = cfg.validator;")
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
	decl := b.Items.Let(f.Items[0])
	access := b.Exprs.FieldAccess(decl.Value)
	if access == nil || access.Field != "validator" {
		t.Fatalf("access = %+v", access)
	}
}

func TestMissingSemicolonReportsSynExpectSemicolon(t *testing.T) {
	_, _, bag := parseSource(t, "let x = 1")
	if bag.Len() != 1 || bag.Items()[0].Code != diag.SynExpectSemicolon {
		t.Fatalf("diagnostics = %v, want one SynExpectSemicolon", bag.Items())
	}
}

func TestDuplicateStructFieldReportsSynDuplicateField(t *testing.T) {
	_, _, bag := parseSource(t, "type T = { a: int, a: int };")
	if bag.Len() != 1 || bag.Items()[0].Code != diag.SynDuplicateField {
		t.Fatalf("diagnostics = %v, want one SynDuplicateField", bag.Items())
	}
}

func TestMissingBodyBraceReportsSynUnclosedDelimiter(t *testing.T) {
	_, _, bag := parseSource(t, "impl fn area(shape: Circle) -> int 0")
	if bag.Len() == 0 || bag.Items()[0].Code != diag.SynUnclosedDelimiter {
		t.Fatalf("diagnostics = %v, want SynUnclosedDelimiter", bag.Items())
	}
}
