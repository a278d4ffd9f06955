package walk

import (
	"hereafter/internal/ast"
)

// Action steers a traversal after a node has been visited.
type Action uint8

const (
	// Continue descends into the children of the node.
	Continue Action = iota
	// Skip leaves the subtree of the node unvisited.
	Skip
	// Stop ends the traversal.
	Stop
)

// Inspect visits root and its descendants in pre-order.
// It reports false when fn returned Stop.
func Inspect(b *ast.Builder, root Node, fn func(Node) Action) bool {
	if !root.IsValid() {
		return true
	}
	stack := []Node{root}
	var kids []Node
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch fn(n) {
		case Stop:
			return false
		case Skip:
			continue
		}
		kids = Children(b, n, kids[:0])
		// в обратном порядке, чтобы первый ребёнок оказался на вершине стека
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, kids[i])
		}
	}
	return true
}

// InspectStmts runs Inspect over each statement of a list.
func InspectStmts(b *ast.Builder, list []ast.StmtID, fn func(Node) Action) bool {
	for _, id := range list {
		if !Inspect(b, Stmt(id), fn) {
			return false
		}
	}
	return true
}

// Functions lists the function-like nodes under root in pre-order,
// including root itself when it is a function.
func Functions(b *ast.Builder, root Node) []ast.FuncID {
	var out []ast.FuncID
	Inspect(b, root, func(n Node) Action {
		if n.Kind == KindFunc {
			out = append(out, n.Func())
		}
		return Continue
	})
	return out
}

// FileFunctions lists every function of the file in pre-order.
func FileFunctions(b *ast.Builder) []ast.FuncID {
	var out []ast.FuncID
	for _, id := range b.File.Body {
		out = append(out, Functions(b, Stmt(id))...)
	}
	return out
}
