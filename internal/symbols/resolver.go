package symbols

import (
	"fmt"

	"hereafter/internal/diag"
	"hereafter/internal/source"
)

// ResolverOptions configures resolver construction.
type ResolverOptions struct {
	Reporter diag.Reporter
}

// Resolver drives scope management and declaration/lookup routines.
type Resolver struct {
	table    *Table
	reporter diag.Reporter
	stack    []ScopeID
}

// NewResolver wires a resolver to an existing scope stack. If root is valid it
// becomes the current scope; otherwise scope-sensitive operations are no-ops.
func NewResolver(table *Table, root ScopeID, opts ResolverOptions) *Resolver {
	r := &Resolver{
		table:    table,
		reporter: opts.Reporter,
		stack:    make([]ScopeID, 0, 8),
	}
	if root.IsValid() {
		r.stack = append(r.stack, root)
	}
	return r
}

// CurrentScope returns the scope at the top of the stack.
func (r *Resolver) CurrentScope() ScopeID {
	if len(r.stack) == 0 {
		return NoScopeID
	}
	return r.stack[len(r.stack)-1]
}

// Enter creates a child scope, pushes it onto the stack, and returns its ID.
func (r *Resolver) Enter(kind ScopeKind, owner ScopeOwner, span source.Span) ScopeID {
	parent := r.CurrentScope()
	scope := r.table.Scopes.New(kind, parent, owner, span)
	r.stack = append(r.stack, scope)
	return scope
}

// Leave pops the current scope, validating against the expected one.
func (r *Resolver) Leave(expected ScopeID) {
	if len(r.stack) == 0 {
		return
	}
	top := r.stack[len(r.stack)-1]
	if expected.IsValid() && top != expected {
		debugScopeMismatch(expected, top)
	}
	r.stack = r.stack[:len(r.stack)-1]
}

// nearestFunction returns the innermost function or module scope.
func (r *Resolver) nearestFunction() ScopeID {
	for i := len(r.stack) - 1; i >= 0; i-- {
		scope := r.table.Scopes.Get(r.stack[i])
		if scope.Kind == ScopeFunction || scope.Kind == ScopeModule {
			return r.stack[i]
		}
	}
	return NoScopeID
}

// Declare installs a symbol into scopeID. var and function declarations may
// repeat; a lexical binding conflicts with anything of the same name.
func (r *Resolver) Declare(scopeID ScopeID, sym Symbol) (SymbolID, bool) {
	scope := r.table.Scopes.Get(scopeID)
	if scope == nil {
		return NoSymbolID, false
	}
	for _, prevID := range scope.NameIndex[sym.Name] {
		prev := r.table.Symbols.Get(prevID)
		if prev == nil || canShareName(prev.Kind, sym.Kind) {
			continue
		}
		r.reportDuplicateSymbol(sym.Name, sym.Span, prev.Span)
		return prevID, false
	}
	sym.Scope = scopeID
	id := r.table.Symbols.New(&sym)
	scope.Symbols = append(scope.Symbols, id)
	scope.NameIndex[sym.Name] = append(scope.NameIndex[sym.Name], id)
	return id, true
}

func canShareName(existing, next SymbolKind) bool {
	if existing.Lexical() || next.Lexical() || existing == SymbolImport || next == SymbolImport {
		return false
	}
	if existing == SymbolCatchParam || next == SymbolCatchParam {
		return next == SymbolVar
	}
	return true
}

// Lookup walks the scope chain searching for a symbol with the given name.
func (r *Resolver) Lookup(name source.StringID) (SymbolID, bool) {
	scopeID := r.CurrentScope()
	for scopeID.IsValid() {
		scope := r.table.Scopes.Get(scopeID)
		if scope == nil {
			break
		}
		if ids := scope.NameIndex[name]; len(ids) > 0 {
			return ids[len(ids)-1], true
		}
		scopeID = scope.Parent
	}
	return NoSymbolID, false
}

func (r *Resolver) reportDuplicateSymbol(name source.StringID, span, prevSpan source.Span) {
	if r.reporter == nil {
		return
	}
	msg := fmt.Sprintf("identifier '%s' has already been declared", r.table.Strings.MustLookup(name))
	builder := diag.ReportError(r.reporter, diag.SemRedeclared, span, msg)
	if prevSpan != (source.Span{}) {
		builder.WithNote(prevSpan, "previous declaration here")
	}
	builder.Emit()
}
