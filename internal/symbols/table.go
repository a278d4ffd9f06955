package symbols

import (
	"hereafter/internal/source"
)

// Hints provide optional capacity suggestions for the symbol table arenas.
type Hints struct{ Scopes, Symbols uint }

// Table aggregates symbol-related arenas and shared resources.
type Table struct {
	Scopes  *Scopes
	Symbols *Symbols
	Strings *source.Interner
}

// NewTable builds a fresh table with optional capacity hints.
// If strings is nil, a fresh interner is allocated.
func NewTable(h Hints, strings *source.Interner) *Table {
	if strings == nil {
		strings = source.NewInterner()
	}
	return &Table{
		Scopes:  NewScopes(h.Scopes),
		Symbols: NewSymbols(h.Symbols),
		Strings: strings,
	}
}

// Name returns the text of a symbol's name.
func (t *Table) Name(id SymbolID) string {
	sym := t.Symbols.Get(id)
	if sym == nil {
		return ""
	}
	s, _ := t.Strings.Lookup(sym.Name)
	return s
}

// LookupIn searches a single scope without walking parents.
func (t *Table) LookupIn(scopeID ScopeID, name source.StringID) (SymbolID, bool) {
	scope := t.Scopes.Get(scopeID)
	if scope == nil {
		return NoSymbolID, false
	}
	ids := scope.NameIndex[name]
	if len(ids) == 0 {
		return NoSymbolID, false
	}
	return ids[len(ids)-1], true
}

// Resolve walks from scopeID outward and returns the nearest binding of name.
func (t *Table) Resolve(scopeID ScopeID, name source.StringID) (SymbolID, bool) {
	for scopeID.IsValid() {
		if id, ok := t.LookupIn(scopeID, name); ok {
			return id, true
		}
		scopeID = t.Scopes.Get(scopeID).Parent
	}
	return NoSymbolID, false
}
