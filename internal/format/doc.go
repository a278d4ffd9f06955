// Package format turns the AST back into source text.
//
// Emit copies every clean node verbatim from the original file and prints
// synthetic or rewritten nodes structurally, so untouched regions stay
// byte-identical. Reformat prints the whole file structurally.
// Не делает: разбор и анализ, только печать.
package format
