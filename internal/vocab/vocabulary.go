// Package vocab recognises the reserved call shapes of both passes:
// the cut marker, label declarations and gotos.
package vocab

import (
	"fmt"
	"path"
	"strings"

	"hereafter/internal/lexer"
)

// Vocabulary holds the reserved names. Users may rename them through
// the [vocabulary] table of hereafter.toml.
type Vocabulary struct {
	CutName    string `toml:"cut_name" yaml:"cut_name"`
	CutModule  string `toml:"cut_module" yaml:"cut_module"`
	LabelName  string `toml:"label_name" yaml:"label_name"`
	GotoName   string `toml:"goto_name" yaml:"goto_name"`
	GotoModule string `toml:"goto_module" yaml:"goto_module"`
}

// Default returns the stock vocabulary.
func Default() Vocabulary {
	return Vocabulary{
		CutName:    "fromHere",
		CutModule:  "fromHere",
		LabelName:  "label",
		GotoName:   "goto",
		GotoModule: "goto",
	}
}

// Validate checks that every reserved name is a plain identifier and
// that the three call names are distinct.
func (v Vocabulary) Validate() error {
	fields := []struct {
		key, value string
	}{
		{"cut_name", v.CutName},
		{"cut_module", v.CutModule},
		{"label_name", v.LabelName},
		{"goto_name", v.GotoName},
		{"goto_module", v.GotoModule},
	}
	for _, f := range fields {
		if !lexer.IsIdentifier(f.value) {
			return fmt.Errorf("vocabulary: %s %q is not an identifier", f.key, f.value)
		}
	}
	if v.CutName == v.LabelName || v.CutName == v.GotoName || v.LabelName == v.GotoName {
		return fmt.Errorf("vocabulary: cut, label and goto names must differ")
	}
	return nil
}

// Role selects which reserved call a callee is checked against.
type Role uint8

const (
	RoleCut Role = iota
	RoleLabel
	RoleGoto
)

var roleNames = map[Role]string{
	RoleCut:   "cut",
	RoleLabel: "label",
	RoleGoto:  "goto",
}

func (r Role) String() string {
	v, ok := roleNames[r]
	if !ok {
		return fmt.Sprintf("invalid(%d)", r)
	}
	return v
}

// name возвращает зарезервированное имя роли.
func (v Vocabulary) name(r Role) string {
	switch r {
	case RoleLabel:
		return v.LabelName
	case RoleGoto:
		return v.GotoName
	default:
		return v.CutName
	}
}

func (v Vocabulary) module(r Role) string {
	if r == RoleCut {
		return v.CutModule
	}
	return v.GotoModule
}

// ModuleMatches reports whether an import path names module: its last
// segment without extension must equal module.
func ModuleMatches(importPath, module string) bool {
	base := path.Base(strings.TrimRight(importPath, "/"))
	if ext := path.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return base == module
}
