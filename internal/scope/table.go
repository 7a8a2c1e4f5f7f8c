package scope

// Table owns every Scope allocated during a build; scope.ID values index
// into it. The global scope is always ID 1, allocated by NewTable.
type Table struct {
	scopes []Scope
	global ID
}

// NewTable creates a fresh Table with its unique global scope.
func NewTable() *Table {
	t := &Table{}
	t.scopes = append(t.scopes, Scope{}) // reserve slot 0 for NoID
	t.global = t.alloc(Scope{Kind: KindGlobal, Parent: NoID})
	return t
}

// Global returns the root scope's ID.
func (t *Table) Global() ID { return t.global }

func (t *Table) alloc(s Scope) ID {
	t.scopes = append(t.scopes, s)
	return ID(len(t.scopes) - 1)
}

func (t *Table) get(id ID) *Scope {
	if id == NoID || int(id) >= len(t.scopes) {
		return nil
	}
	return &t.scopes[id]
}

// NewChild creates a scope of the given kind whose parent is parent.
func (t *Table) NewChild(parent ID, kind Kind) ID {
	return t.alloc(Scope{Kind: kind, Parent: parent})
}

// ErrDuplicate is returned by DeclareType/DeclareValue when the name is
// already bound in the same scope (not an ancestor — shadowing across
// scopes is allowed by invariant S1).
type ErrDuplicate struct {
	Scope ID
	Name  string
}

func (e *ErrDuplicate) Error() string {
	return "scope: duplicate declaration of " + e.Name + " in the same scope"
}

// ErrNotFound is returned by LookupType/LookupValue when no scope in the
// parent chain, up to and including the receiver, binds the name.
type ErrNotFound struct {
	Name string
}

func (e *ErrNotFound) Error() string {
	return "scope: " + e.Name + " is not defined"
}

// DeclareType binds name in the type namespace of scope id.
func (t *Table) DeclareType(id ID, name string, binding TypeBinding) error {
	s := t.get(id)
	if s == nil {
		return &ErrNotFound{Name: name}
	}
	if s.types == nil {
		s.types = make(map[string]TypeBinding)
	}
	if _, ok := s.types[name]; ok {
		return &ErrDuplicate{Scope: id, Name: name}
	}
	s.types[name] = binding
	return nil
}

// DeclareValue binds name in the value namespace of scope id.
func (t *Table) DeclareValue(id ID, name string, binding ValueBinding) error {
	s := t.get(id)
	if s == nil {
		return &ErrNotFound{Name: name}
	}
	if s.values == nil {
		s.values = make(map[string]ValueBinding)
	}
	if _, ok := s.values[name]; ok {
		return &ErrDuplicate{Scope: id, Name: name}
	}
	s.values[name] = binding
	return nil
}

// LookupType walks id's parent chain outward, returning the first
// binding found (invariant S1 — first match wins, no shadow-by-kind).
func (t *Table) LookupType(id ID, name string) (TypeBinding, error) {
	for cur := id; cur != NoID; {
		s := t.get(cur)
		if s == nil {
			break
		}
		if b, ok := s.types[name]; ok {
			return b, nil
		}
		cur = s.Parent
	}
	return TypeBinding{}, &ErrNotFound{Name: name}
}

// LookupValue walks id's parent chain outward, returning the first
// binding found.
func (t *Table) LookupValue(id ID, name string) (ValueBinding, error) {
	for cur := id; cur != NoID; {
		s := t.get(cur)
		if s == nil {
			break
		}
		if b, ok := s.values[name]; ok {
			return b, nil
		}
		cur = s.Parent
	}
	return ValueBinding{}, &ErrNotFound{Name: name}
}
