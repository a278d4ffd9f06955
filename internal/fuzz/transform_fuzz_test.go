package fuzztests

import (
	"context"
	"testing"

	"hereafter/internal/cut"
	"hereafter/internal/driver"
)

// FuzzTransformReparses checks that the pipeline never panics and that
// every successful rewrite is itself a program the parser accepts.
func FuzzTransformReparses(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		ctx := context.Background()

		_, res, err := driver.TransformSource(ctx, "fuzz.js", input, driver.Options{Cut: cut.Options{Pad: true}})
		if err != nil {
			t.Fatalf("transform: %v", err)
		}
		if res.Failed() || !res.Changed {
			return
		}
		again, err := driver.ParseSource(ctx, "out.js", res.Output, 64)
		if err != nil {
			t.Fatalf("reparse: %v", err)
		}
		if again.Bag.HasErrors() {
			t.Fatalf("rewritten output does not parse: %v\ninput: %q\noutput:\n%s",
				again.Bag.Items()[0].Message, truncateForLog(input, 200), res.Output)
		}
	})
}
