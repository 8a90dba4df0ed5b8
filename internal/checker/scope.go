package checker

// SymbolKind represents how a name was introduced
type SymbolKind int

const (
	SymFunction SymbolKind = iota
	SymParam
	SymLet
	SymBuiltin
)

// String returns the string representation of the symbol kind
func (sk SymbolKind) String() string {
	switch sk {
	case SymFunction:
		return "function"
	case SymParam:
		return "parameter"
	case SymLet:
		return "let binding"
	case SymBuiltin:
		return "builtin"
	default:
		return "unknown"
	}
}

// Symbol binds a name to the producer node of its type
type Symbol struct {
	Name  string
	Value Value
	Kind  SymbolKind
}

// Scope represents a lexical scope. Bindings in a scope are invisible to
// its parent and siblings.
type Scope struct {
	parent  *Scope
	symbols map[string]*Symbol
}

// NewScope creates a new scope with an optional parent
func NewScope(parent *Scope) *Scope {
	return &Scope{
		parent:  parent,
		symbols: make(map[string]*Symbol),
	}
}

// Push returns a fresh child scope
func (s *Scope) Push() *Scope {
	return NewScope(s)
}

// Parent returns the enclosing scope, or nil for a root
func (s *Scope) Parent() *Scope {
	return s.parent
}

// Define binds name in the current scope. A later Define of the same
// name replaces the earlier binding.
func (s *Scope) Define(name string, v Value, kind SymbolKind) *Symbol {
	sym := &Symbol{Name: name, Value: v, Kind: kind}
	s.symbols[name] = sym
	return sym
}

// Resolve looks up a symbol in the current scope and parent scopes
// Returns nil if the symbol is not found
func (s *Scope) Resolve(name string) *Symbol {
	for scope := s; scope != nil; scope = scope.parent {
		if sym, ok := scope.symbols[name]; ok {
			return sym
		}
	}
	return nil
}

// ResolveLocal looks up a symbol only in the current scope (not parent scopes)
func (s *Scope) ResolveLocal(name string) *Symbol {
	return s.symbols[name]
}
