package interp

import (
	"slices"
	"strconv"

	"hereafter/internal/ast"
	"hereafter/internal/source"
	"hereafter/internal/vocab"
	"hereafter/internal/walk"
)

type ctlKind uint8

const (
	ctlNormal ctlKind = iota
	ctlBreak
	ctlContinue
	ctlReturn
)

// completion is how a statement ended.
type completion struct {
	kind  ctlKind
	label source.StringID
	value Value
}

var normal = completion{}

// frame identifies one running function body; labels point into it.
type frame struct {
	labels map[source.StringID]*labelTarget
}

type labelTarget struct {
	frame *frame
	next  int
	name  string
}

// hoist defines the function declarations of list and, at function level,
// every var name declared anywhere below it.
func (in *Interp) hoist(list []ast.StmtID, e *env, fnLevel bool) {
	for _, id := range list {
		if fn, ok := in.b.Stmts.Func(id); ok {
			data := in.b.Funcs.Get(fn)
			e.define(data.Name, in.makeClosure(fn, e), false)
		}
	}
	if !fnLevel {
		return
	}
	walk.InspectStmts(in.b, list, func(n walk.Node) walk.Action {
		if n.Kind == walk.KindFunc {
			return walk.Skip
		}
		var targets []ast.PatID
		if data, ok := in.b.Stmts.Var(n.Stmt()); ok && data.Kind == ast.VarVar {
			for _, d := range data.Decls {
				targets = append(targets, d.Target)
			}
		} else if data, ok := in.b.Stmts.ForIn(n.Stmt()); ok && data.Kind == ast.VarVar {
			targets = append(targets, data.Target)
		}
		for _, target := range targets {
			for _, pat := range in.b.Pats.Names(target, nil) {
				ident, _ := in.b.Pats.Ident(pat)
				if _, exists := e.vars[ident.Name]; !exists {
					e.define(ident.Name, Undefined(), false)
				}
			}
		}
		return walk.Continue
	})
}

// directLabel reports whether id is `let l = label();` and returns l.
func (in *Interp) directLabel(id ast.StmtID) (source.StringID, bool) {
	if !in.opts.Direct {
		return source.NoStringID, false
	}
	data, ok := in.b.Stmts.Var(id)
	if !ok || len(data.Decls) != 1 {
		return source.NoStringID, false
	}
	target, ok := in.b.Pats.Ident(data.Decls[0].Target)
	if !ok {
		return source.NoStringID, false
	}
	call, ok := in.b.Exprs.Call(in.b.Exprs.Unparen(data.Decls[0].Init))
	if !ok || len(call.Args) != 0 {
		return source.NoStringID, false
	}
	callee, ok := in.b.Exprs.Ident(in.b.Exprs.Unparen(call.Callee))
	if !ok || in.name(callee.Name) != in.opts.Vocabulary.LabelName {
		return source.NoStringID, false
	}
	return target.Name, true
}

// execBody runs a function or module body. In direct mode its labels are
// bound before the first statement, so forward gotos work, and a goto to
// one of them resumes right after the declaration. The code before the
// first label runs into it; a label's run ends the body at the next label.
func (in *Interp) execBody(list []ast.StmtID, e *env, fr *frame) (completion, error) {
	skip := make(map[int]bool)
	for i, id := range list {
		name, ok := in.directLabel(id)
		if !ok {
			continue
		}
		target := &labelTarget{frame: fr, next: i + 1, name: in.name(name)}
		obj := newObject(ObjLabel)
		obj.Name = target.name
		obj.Label = target
		e.define(name, MakeObject(obj), true)
		skip[i] = true
	}

	inLabel := false
	for i := 0; i < len(list); {
		if skip[i] {
			if inLabel {
				// сегмент метки закончился: переход в end
				return normal, nil
			}
			inLabel = true
			i++
			continue
		}
		c, err := in.exec(list[i], e)
		if err != nil {
			if sig, ok := err.(*gotoSignal); ok && sig.target.frame == fr {
				i = sig.target.next
				inLabel = true
				continue
			}
			return c, err
		}
		if c.kind != ctlNormal {
			return c, nil
		}
		i++
	}
	return normal, nil
}

func (in *Interp) execList(list []ast.StmtID, e *env) (completion, error) {
	for _, id := range list {
		c, err := in.exec(id, e)
		if err != nil || c.kind != ctlNormal {
			return c, err
		}
	}
	return normal, nil
}

func (in *Interp) exec(id ast.StmtID, e *env) (completion, error) {
	return in.execLabeled(id, e, nil)
}

// execLabeled runs id; labels are the labels directly attached to it.
func (in *Interp) execLabeled(id ast.StmtID, e *env, labels []source.StringID) (completion, error) {
	stmts := in.b.Stmts
	st := stmts.Get(id)
	if err := in.step(st.Span); err != nil {
		return normal, err
	}

	switch st.Kind {
	case ast.StmtBlock:
		data, _ := stmts.Block(id)
		inner := newEnv(e, false)
		in.hoist(data.Stmts, inner, false)
		c, err := in.execList(data.Stmts, inner)
		return breakOut(c, labels), err
	case ast.StmtExpr:
		data, _ := stmts.Expr(id)
		_, err := in.eval(data.Expr, e)
		return normal, err
	case ast.StmtVar:
		return normal, in.execVar(id, e)
	case ast.StmtFunc:
		return normal, nil
	case ast.StmtClass:
		return normal, in.makeError(ErrUnsupported, st.Span, "classes are not supported by the evaluator")
	case ast.StmtReturn:
		data, _ := stmts.Value(id)
		v := Undefined()
		if data.Value.IsValid() {
			var err error
			if v, err = in.eval(data.Value, e); err != nil {
				return normal, err
			}
		}
		return completion{kind: ctlReturn, value: v}, nil
	case ast.StmtThrow:
		data, _ := stmts.Value(id)
		v, err := in.eval(data.Value, e)
		if err != nil {
			return normal, err
		}
		return normal, in.throw(v, st.Span)
	case ast.StmtIf:
		data, _ := stmts.If(id)
		cond, err := in.eval(data.Cond, e)
		if err != nil {
			return normal, err
		}
		var c completion
		switch {
		case cond.Truthy():
			c, err = in.exec(data.Then, e)
		case data.Else.IsValid():
			c, err = in.exec(data.Else, e)
		}
		return breakOut(c, labels), err
	case ast.StmtWhile, ast.StmtDoWhile:
		return in.execWhile(id, e, labels)
	case ast.StmtFor:
		return in.execFor(id, e, labels)
	case ast.StmtForIn:
		return in.execForIn(id, e, labels)
	case ast.StmtBreak, ast.StmtContinue:
		data, _ := stmts.Jump(id)
		kind := ctlBreak
		if st.Kind == ast.StmtContinue {
			kind = ctlContinue
		}
		return completion{kind: kind, label: data.Label}, nil
	case ast.StmtTry:
		return in.execTry(id, e)
	case ast.StmtSwitch:
		return in.execSwitch(id, e, labels)
	case ast.StmtLabeled:
		data, _ := stmts.LabeledStmt(id)
		c, err := in.execLabeled(data.Body, e, append(slices.Clip(labels), data.Label))
		if c.kind == ctlBreak && c.label == data.Label {
			c = normal
		}
		return c, err
	case ast.StmtEmpty:
		return normal, nil
	case ast.StmtImport:
		in.execImport(id, e)
		return normal, nil
	case ast.StmtExport:
		data, _ := stmts.Export(id)
		switch {
		case data.Decl.IsValid():
			return in.exec(data.Decl, e)
		case data.Default.IsValid():
			_, err := in.eval(data.Default, e)
			return normal, err
		}
		return normal, nil
	}
	return normal, in.makeError(ErrUnsupported, st.Span, "unsupported statement "+st.Kind.String())
}

// breakOut turns a labelled break aimed at this statement into normal
// completion.
func breakOut(c completion, labels []source.StringID) completion {
	if c.kind == ctlBreak && c.label.IsValid() && slices.Contains(labels, c.label) {
		return normal
	}
	return c
}

// loopControl decides what a loop does with its body's completion.
// It returns done when the loop must stop, and out as the loop's result.
func loopControl(c completion, labels []source.StringID) (done bool, out completion) {
	switch c.kind {
	case ctlBreak:
		if !c.label.IsValid() || slices.Contains(labels, c.label) {
			return true, normal
		}
		return true, c
	case ctlContinue:
		if !c.label.IsValid() || slices.Contains(labels, c.label) {
			return false, normal
		}
		return true, c
	case ctlReturn:
		return true, c
	}
	return false, normal
}

func (in *Interp) execVar(id ast.StmtID, e *env) error {
	data, _ := in.b.Stmts.Var(id)
	mode := bindLet
	switch data.Kind {
	case ast.VarVar:
		mode = bindVar
	case ast.VarConst:
		mode = bindConst
	}
	for _, d := range data.Decls {
		if !d.Init.IsValid() && mode == bindVar {
			continue
		}
		v := Undefined()
		if d.Init.IsValid() {
			var err error
			if v, err = in.eval(d.Init, e); err != nil {
				return err
			}
			in.nameFunction(v, d.Target)
		}
		if err := in.bindPattern(d.Target, v, e, mode); err != nil {
			return err
		}
	}
	return nil
}

// nameFunction gives `const f = () => {}` the name f.
func (in *Interp) nameFunction(v Value, target ast.PatID) {
	if v.Kind != VKObject || v.Obj.Kind != ObjFunction || v.Obj.Name != "" {
		return
	}
	if ident, ok := in.b.Pats.Ident(target); ok {
		v.Obj.Name = in.name(ident.Name)
	}
}

func (in *Interp) execWhile(id ast.StmtID, e *env, labels []source.StringID) (completion, error) {
	st := in.b.Stmts.Get(id)
	data, _ := in.b.Stmts.Loop(id)
	first := st.Kind == ast.StmtDoWhile
	for {
		if !first {
			cond, err := in.eval(data.Cond, e)
			if err != nil {
				return normal, err
			}
			if !cond.Truthy() {
				return normal, nil
			}
		}
		first = false
		c, err := in.exec(data.Body, e)
		if err != nil {
			return normal, err
		}
		if done, out := loopControl(c, labels); done {
			return out, nil
		}
		if err := in.step(st.Span); err != nil {
			return normal, err
		}
	}
}

func (in *Interp) execFor(id ast.StmtID, e *env, labels []source.StringID) (completion, error) {
	st := in.b.Stmts.Get(id)
	data, _ := in.b.Stmts.For(id)
	loopEnv := newEnv(e, false)
	var perIteration []source.StringID
	if data.Init.IsValid() {
		if v, ok := in.b.Stmts.Var(data.Init); ok && v.Kind != ast.VarVar {
			for _, d := range v.Decls {
				for _, pat := range in.b.Pats.Names(d.Target, nil) {
					ident, _ := in.b.Pats.Ident(pat)
					perIteration = append(perIteration, ident.Name)
				}
			}
		}
		if _, err := in.exec(data.Init, loopEnv); err != nil {
			return normal, err
		}
	}
	for {
		if data.Cond.IsValid() {
			cond, err := in.eval(data.Cond, loopEnv)
			if err != nil {
				return normal, err
			}
			if !cond.Truthy() {
				return normal, nil
			}
		}
		c, err := in.exec(data.Body, loopEnv)
		if err != nil {
			return normal, err
		}
		if done, out := loopControl(c, labels); done {
			return out, nil
		}
		if len(perIteration) > 0 {
			loopEnv = loopEnv.copyNames(perIteration)
		}
		if data.Update.IsValid() {
			if _, err := in.eval(data.Update, loopEnv); err != nil {
				return normal, err
			}
		}
		if err := in.step(st.Span); err != nil {
			return normal, err
		}
	}
}

func (in *Interp) execForIn(id ast.StmtID, e *env, labels []source.StringID) (completion, error) {
	st := in.b.Stmts.Get(id)
	data, _ := in.b.Stmts.ForIn(id)
	right, err := in.eval(data.Right, e)
	if err != nil {
		return normal, err
	}
	var items []Value
	if data.Of {
		if items, err = in.iterate(right, in.exprSpan(data.Right)); err != nil {
			return normal, err
		}
	} else if right.Kind == VKObject {
		for _, k := range right.Obj.Keys() {
			items = append(items, MakeString(k))
		}
	} else if right.Kind == VKString {
		for i := range len(right.Str) {
			items = append(items, MakeString(strconv.Itoa(i)))
		}
	}

	mode := bindAssign
	switch data.Kind {
	case ast.VarVar:
		mode = bindVar
	case ast.VarLet:
		mode = bindLet
	case ast.VarConst:
		mode = bindConst
	}
	for _, item := range items {
		iter := newEnv(e, false)
		if err := in.bindPattern(data.Target, item, iter, mode); err != nil {
			return normal, err
		}
		c, err := in.exec(data.Body, iter)
		if err != nil {
			return normal, err
		}
		if done, out := loopControl(c, labels); done {
			return out, nil
		}
		if err := in.step(st.Span); err != nil {
			return normal, err
		}
	}
	return normal, nil
}

func (in *Interp) execTry(id ast.StmtID, e *env) (completion, error) {
	data, _ := in.b.Stmts.Try(id)
	c, err := in.exec(data.Block, e)
	if sig, ok := err.(*throwSignal); ok && data.Handler.IsValid() {
		handlerEnv := newEnv(e, false)
		if data.Param.IsValid() {
			if err := in.bindPattern(data.Param, sig.value, handlerEnv, bindLet); err != nil {
				return normal, err
			}
		}
		c, err = in.exec(data.Handler, handlerEnv)
	}
	if data.Finalizer.IsValid() {
		fc, ferr := in.exec(data.Finalizer, e)
		if ferr != nil || fc.kind != ctlNormal {
			return fc, ferr
		}
	}
	return c, err
}

func (in *Interp) execSwitch(id ast.StmtID, e *env, labels []source.StringID) (completion, error) {
	data, _ := in.b.Stmts.Switch(id)
	disc, err := in.eval(data.Disc, e)
	if err != nil {
		return normal, err
	}
	start := -1
	for i, c := range data.Cases {
		if !c.Test.IsValid() {
			continue
		}
		test, err := in.eval(c.Test, e)
		if err != nil {
			return normal, err
		}
		if strictEqual(disc, test) {
			start = i
			break
		}
	}
	if start < 0 {
		for i, c := range data.Cases {
			if !c.Test.IsValid() {
				start = i
				break
			}
		}
	}
	if start < 0 {
		return normal, nil
	}

	inner := newEnv(e, false)
	for _, c := range data.Cases {
		in.hoist(c.Body, inner, false)
	}
	for _, c := range data.Cases[start:] {
		res, err := in.execList(c.Body, inner)
		if err != nil {
			return normal, err
		}
		switch {
		case res.kind == ctlBreak && !res.label.IsValid():
			return normal, nil
		case res.kind != ctlNormal:
			return breakOut(res, labels), nil
		}
	}
	return normal, nil
}

func (in *Interp) execImport(id ast.StmtID, e *env) {
	data, _ := in.b.Stmts.Import(id)
	for _, spec := range data.Specs {
		v := Undefined()
		if spec.Kind != ast.ImportNamespace {
			imported := in.name(spec.Local)
			if spec.Kind == ast.ImportNamed {
				imported = in.name(spec.Imported)
			}
			if g := in.globals.lookup(in.b.Strings.Intern(imported)); g != nil && in.reservedModule(data.Module) {
				v = g.value
			}
		}
		e.define(spec.Local, v, true)
	}
}

// reservedModule reports whether path is one of the vocabulary modules,
// whose names resolve to the evaluator's builtins.
func (in *Interp) reservedModule(path string) bool {
	v := in.opts.Vocabulary
	return vocab.ModuleMatches(path, v.CutModule) || vocab.ModuleMatches(path, v.GotoModule)
}
