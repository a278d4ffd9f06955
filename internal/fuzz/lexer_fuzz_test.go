package fuzztests

import (
	"testing"

	"hereafter/internal/diag"
	"hereafter/internal/lexer"
	"hereafter/internal/source"
	"hereafter/internal/token"
)

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.js", input))

		bag := diag.NewBag(64)
		lx := lexer.New(file, lexer.Options{Reporter: &diag.BagReporter{Bag: bag}})
		// каждый токен должен продвигать позицию, иначе лексер зациклится
		for n := 0; ; n++ {
			tok := lx.Next()
			if tok.Kind == token.EOF {
				break
			}
			if n > 4*len(input)+8 {
				t.Fatalf("lexer produced more tokens than input bytes: %q", truncateForLog(input, 200))
			}
		}
	})
}
