package interp

import "hereafter/internal/source"

type binding struct {
	value    Value
	constant bool
}

// env is one lexical scope. fn marks function and module scopes, where
// var declarations land.
type env struct {
	vars   map[source.StringID]*binding
	parent *env
	fn     bool
}

func newEnv(parent *env, fn bool) *env {
	return &env{vars: make(map[source.StringID]*binding), parent: parent, fn: fn}
}

func (e *env) lookup(name source.StringID) *binding {
	for cur := e; cur != nil; cur = cur.parent {
		if b, ok := cur.vars[name]; ok {
			return b
		}
	}
	return nil
}

// define creates or replaces a binding in this scope.
func (e *env) define(name source.StringID, v Value, constant bool) {
	e.vars[name] = &binding{value: v, constant: constant}
}

// funcScope returns the nearest function or module scope.
func (e *env) funcScope() *env {
	cur := e
	for !cur.fn && cur.parent != nil {
		cur = cur.parent
	}
	return cur
}

// copyNames clones the named bindings into a fresh sibling scope. Loops
// with let heads get a new binding per iteration this way.
func (e *env) copyNames(names []source.StringID) *env {
	next := newEnv(e.parent, e.fn)
	for _, name := range names {
		if b, ok := e.vars[name]; ok {
			next.vars[name] = &binding{value: b.value, constant: b.constant}
		}
	}
	return next
}
