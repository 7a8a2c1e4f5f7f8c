package diag

import "fmt"

type Code uint16

const (
	UnknownCode Code = 0

	// Lexical (front end)
	LexInfo               Code = 1000
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002
	LexBadNumber          Code = 1003

	// Syntax (front end)
	SynInfo              Code = 2000
	SynUnexpectedToken   Code = 2001
	SynUnclosedDelimiter Code = 2002
	SynExpectIdentifier  Code = 2003
	SynExpectType         Code = 2004
	SynExpectExpression  Code = 2005
	SynExpectColon       Code = 2006
	SynExpectSemicolon   Code = 2007
	SynDuplicateField    Code = 2008
	SynVisibilityKeyword Code = 2009

	// Name and type resolution (passes 1-3)
	ResInfo                  Code = 3000
	ResDuplicateTopLevelName Code = 3001 // two non-private top-level bindings share a name within a module (R3)
	ResUnknownType           Code = 3002 // a type reference names no forward declaration, builtin, or import
	ResInfiniteSize          Code = 3003 // a struct/enum recurses into itself without an indirection boundary
	ResUndefinedName         Code = 3004 // a value reference resolves in neither the local scope chain nor an active import
	ResTypeMismatch          Code = 3005 // an expression's inferred type disagrees with its expected type
	ResVisibilityViolation   Code = 3006 // a reference crosses a module boundary into a Private or non-exported Module binding
	ResReturnTypeMismatch    Code = 3007 // a function or impl body's return type disagrees with its declared signature
	ResUnusedPrivate         Code = 3008 // a Private binding is declared but never read (pass 4, non-blocking)
	ResShadowedBinding       Code = 3009 // a child scope redeclares a name already bound in an ancestor scope (warning)

	// Module registry / import graph
	ModInfo            Code = 4000
	ModUnknownModule    Code = 4001 // an import names a module path absent from the registry
	ModDuplicateModule  Code = 4002 // two source trees register the same module path
	ModImportCycle      Code = 4003 // informational: modules import one another cyclically (tolerated, not an error)
	ModInvalidManifest  Code = 4004 // a project manifest is missing a required field or fails to parse

	// Multimethod dispatch
	DisInfo             Code = 4100
	DisDuplicateImpl    Code = 4101 // two impls for the same multimethod share an identical parameter-type signature
	DisNoMatchingImpl   Code = 4102 // a call site's argument types match no registered impl
	DisAmbiguousCall    Code = 4103 // a call site's argument types match more than one impl with equal specificity
	DisArityMismatch    Code = 4104 // an impl's parameter count disagrees with its multimethod's declared arity

	// I/O
	IOLoadFileError Code = 5000

	// Observability
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var codeDescription = map[Code]string{
	UnknownCode:              "Unknown error",
	LexInfo:                  "Lexical information",
	LexUnknownChar:           "Unknown character",
	LexUnterminatedString:    "Unterminated string literal",
	LexBadNumber:             "Malformed number literal",
	SynInfo:                  "Syntax information",
	SynUnexpectedToken:       "Unexpected token",
	SynUnclosedDelimiter:     "Unclosed delimiter",
	SynExpectIdentifier:      "Expected identifier",
	SynExpectType:            "Expected type expression",
	SynExpectExpression:      "Expected expression",
	SynExpectColon:           "Expected ':'",
	SynExpectSemicolon:       "Expected ';'",
	SynDuplicateField:        "Duplicate field in type body",
	SynVisibilityKeyword:     "Invalid visibility keyword",
	ResInfo:                  "Resolution information",
	ResDuplicateTopLevelName: "Duplicate top-level name",
	ResUnknownType:           "Unknown type",
	ResInfiniteSize:          "Type has infinite size",
	ResUndefinedName:         "Undefined name",
	ResTypeMismatch:          "Type mismatch",
	ResVisibilityViolation:   "Visibility violation",
	ResReturnTypeMismatch:    "Return type mismatch",
	ResUnusedPrivate:         "Unused private binding",
	ResShadowedBinding:       "Binding shadows an outer declaration",
	ModInfo:                  "Module information",
	ModUnknownModule:         "Unknown module",
	ModDuplicateModule:       "Duplicate module",
	ModImportCycle:           "Import cycle",
	ModInvalidManifest:       "Invalid project manifest",
	DisInfo:                  "Dispatch information",
	DisDuplicateImpl:         "Duplicate multimethod implementation",
	DisNoMatchingImpl:        "No matching multimethod implementation",
	DisAmbiguousCall:         "Ambiguous multimethod call",
	DisArityMismatch:         "Multimethod arity mismatch",
	IOLoadFileError:          "I/O load file error",
	ObsInfo:                  "Observability information",
	ObsTimings:               "Pipeline timings",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("RES%04d", ic)
	case ic >= 4000 && ic < 4100:
		return fmt.Sprintf("MOD%04d", ic)
	case ic >= 4100 && ic < 5000:
		return fmt.Sprintf("DIS%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
