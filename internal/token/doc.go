// Package token defines lexical token kinds and trivia for the JavaScript
// subset accepted by hereafter.
// Invariants:
//   - Token.Span matches Text exactly.
//   - Comments and whitespace never appear in the token stream; they are
//     attached to the following token as Leading trivia.
//   - Contextual words (of, from, as, static, get, set) are identifiers; the
//     parser checks their text.
package token
