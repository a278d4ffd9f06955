//go:build !hereafter_debug

package symbols

func debugScopeMismatch(ScopeID, ScopeID) {}
