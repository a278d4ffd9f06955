package symbols

import (
	"hereafter/internal/ast"
	"hereafter/internal/source"
)

// Scopes is the scope arena of one resolved file. IDs are 1-based like the
// AST arenas, so NoScopeID never hits an entry.
type Scopes struct {
	arena *ast.Arena[Scope]
}

// NewScopes creates an arena with optional capacity hint.
func NewScopes(capacity uint) *Scopes {
	if capacity == 0 {
		capacity = 32
	}
	return &Scopes{arena: ast.NewArena[Scope](capacity)}
}

// New opens a scope and links it into its parent's children.
func (s *Scopes) New(kind ScopeKind, parent ScopeID, owner ScopeOwner, span source.Span) ScopeID {
	id := ScopeID(s.arena.Allocate(Scope{
		Kind:      kind,
		Parent:    parent,
		Owner:     owner,
		Span:      span,
		NameIndex: make(map[source.StringID][]SymbolID),
	}))
	if up := s.Get(parent); up != nil {
		up.Children = append(up.Children, id)
	}
	return id
}

// Get returns the scope or nil for an unknown ID.
func (s *Scopes) Get(id ScopeID) *Scope { return s.arena.Get(uint32(id)) }

// Len reports the number of scopes.
func (s *Scopes) Len() int { return int(s.arena.Len()) }

// Symbols is the declaration arena of one resolved file.
type Symbols struct {
	arena *ast.Arena[Symbol]
}

// NewSymbols creates a symbol arena with optional capacity hint.
func NewSymbols(capacity uint) *Symbols {
	if capacity == 0 {
		capacity = 64
	}
	return &Symbols{arena: ast.NewArena[Symbol](capacity)}
}

// New copies sym into the arena.
func (s *Symbols) New(sym *Symbol) SymbolID {
	if sym == nil {
		panic("symbols.New: nil symbol")
	}
	return SymbolID(s.arena.Allocate(*sym))
}

// Get returns the symbol or nil for an unknown ID.
func (s *Symbols) Get(id SymbolID) *Symbol { return s.arena.Get(uint32(id)) }

// Len reports the number of symbols.
func (s *Symbols) Len() int { return int(s.arena.Len()) }
