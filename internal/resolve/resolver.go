package resolve

import (
	"context"

	"somc/internal/ast"
	"somc/internal/diag"
	"somc/internal/dispatch"
	"somc/internal/registry"
	"somc/internal/scope"
	"somc/internal/source"
	"somc/internal/types"
)

// Resolver owns every piece of shared state the three passes read and
// write: the type domain, the scope chain, the module registry, and the
// multimethod dispatch table.
type Resolver struct {
	Builder  *ast.Builder
	Types    *types.Interner
	Scopes   *scope.Table
	Registry *registry.Registry
	Dispatch *dispatch.Table
	Reporter diag.Reporter

	// moduleScope caches each module's Module scope built in Pass 2;
	// Pass 3's buildModuleScope call returns the cached scope rather than
	// rebuilding it, and Pass 3 hangs fresh File scopes off it.
	moduleScope map[string]scope.ID
	// handles maps a module path + type name to the TypeID the forward
	// declaration (or later resolution) produced in Pass 1.
	handles map[string]types.TypeID
	// valueHandles maps a module path + let name to the TypeID standing
	// in for that binding's type: either the resolved annotation, or a
	// synthetic forward Pass 3 resolves once it infers the initializer's
	// type. Keyed the same way as handles (private lets use the same
	// file-qualified path trick).
	valueHandles map[string]types.TypeID
	// origins records where each top-level type was declared, so a
	// diagnostic raised well after Pass 1 (e.g. the global InfiniteSize
	// sweep) can still point at the declaration site.
	origins map[types.TypeID]declOrigin
	// implByItem caches the dispatch.Impl Pass 2 registered for each
	// MultimethodImpl item, so Pass 3 can type-check the body against the
	// exact params/result Pass 2 already committed to the dispatch table
	// without re-resolving (and re-diagnosing) the signature.
	implByItem map[ast.ItemID]*dispatch.Impl
	// mmDecls records each multimethod's forward declaration (arity and
	// result type), collected across every file of a module before any
	// implementation is checked against one. An implementation whose
	// arity or result disagrees with its declaration is invariant M2's
	// violation, reported independently of the impl's own dispatch-table
	// registration.
	mmDecls map[string]*mmDeclSignature
	// usedTypes and usedValues record every binding a successful scope
	// lookup resolved to during Pass 2/3, keyed by the bound TypeID. Pass
	// 4's unused-private lint consults these rather than re-walking the
	// AST a second time to find references.
	usedTypes  map[types.TypeID]bool
	usedValues map[types.TypeID]bool
}

// mmDeclSignature is the declared arity and result type of a "multimethod
// fn" forward declaration, resolved once in Pass 2 and consulted by every
// implementation of that name.
type mmDeclSignature struct {
	Arity  int
	Result types.TypeID
	Span   source.Span
}

// declOrigin is the declaration-site bookkeeping needed to render a
// diagnostic against a type that Pass 1 registered.
type declOrigin struct {
	ModulePath []string
	Name       string
	FileName   string
	Seq        int
	Span       source.Span
}

// New constructs a Resolver over a freshly parsed builder.
func New(builder *ast.Builder, reporter diag.Reporter) *Resolver {
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	interner := types.NewInterner()
	tbl := scope.NewTable()
	seedBuiltinTypes(tbl, interner)
	return &Resolver{
		Builder:      builder,
		Types:        interner,
		Scopes:       tbl,
		Registry:     registry.New(),
		Dispatch:     dispatch.New(interner),
		Reporter:     reporter,
		moduleScope:  make(map[string]scope.ID),
		handles:      make(map[string]types.TypeID),
		valueHandles: make(map[string]types.TypeID),
		origins:      make(map[types.TypeID]declOrigin),
		implByItem:   make(map[ast.ItemID]*dispatch.Impl),
		mmDecls:      make(map[string]*mmDeclSignature),
		usedTypes:    make(map[types.TypeID]bool),
		usedValues:   make(map[types.TypeID]bool),
	}
}

// seedBuiltinTypes binds the primitive type names into the global
// scope, so resolveTypeExpr's plain scope lookup finds "int", "bool",
// etc. without any special-casing.
func seedBuiltinTypes(tbl *scope.Table, interner *types.Interner) {
	b := interner.Builtins()
	names := map[string]types.TypeID{
		"unit": b.Unit, "bool": b.Bool, "int": b.Int, "float": b.Float, "string": b.String,
	}
	for name, id := range names {
		_ = tbl.DeclareType(tbl.Global(), name, scope.TypeBinding{Type: id, Vis: ast.VisPublic})
	}
}

// Result is the resolver's terminal output: a sealed registry, the
// interned type domain, and the compiled dispatch table, ready for a
// backend to consume.
type Result struct {
	Registry *registry.Registry
	Types    *types.Interner
	Dispatch *dispatch.Table
}

// Run drives Pass 1 through Pass 4 across modules in the order
// GroupFiles produced. Each pass runs to completion across every module
// before the next begins (§4.4's control-flow rule); a pass that
// reported any error blocks the next from starting. ctx is checked before
// each module of every pass, so cancellation takes effect between modules,
// never in the middle of one.
func (r *Resolver) Run(ctx context.Context, modules []*Module) (Result, error) {
	for _, m := range modules {
		r.Registry.Register(m.Path)
	}

	hadErrors, err := r.runPass(ctx, modules, r.pass1Module)
	if err != nil {
		return Result{}, err
	}
	if hadErrors {
		return Result{}, &ErrPassFailed{Pass: 1}
	}

	hadErrors, err = r.runPass(ctx, modules, r.pass2Module)
	if err != nil {
		return Result{}, err
	}
	if hadErrors {
		return Result{}, &ErrPassFailed{Pass: 2}
	}

	// The global indirect-cycle sweep can only run once every declared
	// type's body has been resolved, so it sits between Pass 2 and Seal
	// rather than inside pass2Module itself.
	if r.checkInfiniteSize(modules) {
		return Result{}, &ErrPassFailed{Pass: 2}
	}

	if err := r.Registry.Seal(r.Types); err != nil {
		return Result{}, err
	}

	hadErrors, err = r.runPass(ctx, modules, r.pass3Module)
	if err != nil {
		return Result{}, err
	}
	if hadErrors {
		return Result{}, &ErrPassFailed{Pass: 3}
	}

	// Pass 4 (unused-private lint) is advisory: it never blocks the run.
	_, err = r.runPass(ctx, modules, r.pass4Module)
	if err != nil {
		return Result{}, err
	}

	return Result{Registry: r.Registry, Types: r.Types, Dispatch: r.Dispatch}, nil
}

// ErrPassFailed reports that a pass raised at least one error diagnostic,
// per §4.4's error collection policy: "a pass that raised any diagnostic
// blocks the next pass from starting."
type ErrPassFailed struct{ Pass int }

func (e *ErrPassFailed) Error() string {
	switch e.Pass {
	case 1:
		return "resolve: pass 1 (forward-declare) reported errors"
	case 2:
		return "resolve: pass 2 (resolve type bodies) reported errors"
	case 3:
		return "resolve: pass 3 (type-check) reported errors"
	default:
		return "resolve: pass reported errors"
	}
}

// countingReporter wraps the Resolver's reporter to detect whether a
// pass raised any error-severity diagnostic, without requiring every
// pass function to thread that bookkeeping through by hand.
type countingReporter struct {
	diag.Reporter
	errors int
}

func (c *countingReporter) Report(d diag.Diagnostic) {
	if d.Severity == diag.SevError {
		c.errors++
	}
	c.Reporter.Report(d)
}

func (r *Resolver) runPass(ctx context.Context, modules []*Module, fn func(context.Context, *Module) error) (bool, error) {
	counter := &countingReporter{Reporter: r.Reporter}
	original := r.Reporter
	r.Reporter = counter
	defer func() { r.Reporter = original }()

	for _, m := range modules {
		if err := ctx.Err(); err != nil {
			return counter.errors > 0, err
		}
		if err := fn(ctx, m); err != nil {
			return counter.errors > 0, err
		}
	}
	return counter.errors > 0, nil
}

func handleKey(modulePath []string, name string) string {
	key := ""
	for _, seg := range modulePath {
		key += seg + "\x00"
	}
	return key + "\x01" + name
}
