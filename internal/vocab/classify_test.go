package vocab_test

import (
	"context"
	"os"
	"testing"

	"gopkg.in/yaml.v3"

	"hereafter/internal/diag"
	"hereafter/internal/parser"
	"hereafter/internal/source"
	"hereafter/internal/symbols"
	"hereafter/internal/vocab"
)

type classifyCase struct {
	Name       string    `yaml:"name"`
	Source     string    `yaml:"source"`
	Vocabulary yaml.Node `yaml:"vocabulary"`
	Want       []string  `yaml:"want"`
}

func loadCases(t *testing.T) []classifyCase {
	t.Helper()
	data, err := os.ReadFile("testdata/classify.yaml")
	if err != nil {
		t.Fatalf("read cases: %v", err)
	}
	var cases []classifyCase
	if err := yaml.Unmarshal(data, &cases); err != nil {
		t.Fatalf("decode cases: %v", err)
	}
	if len(cases) == 0 {
		t.Fatalf("no cases")
	}
	return cases
}

func TestClassifyCases(t *testing.T) {
	for _, tc := range loadCases(t) {
		t.Run(tc.Name, func(t *testing.T) {
			v := vocab.Default()
			if !tc.Vocabulary.IsZero() {
				if err := tc.Vocabulary.Decode(&v); err != nil {
					t.Fatalf("decode vocabulary: %v", err)
				}
			}
			if err := v.Validate(); err != nil {
				t.Fatalf("vocabulary: %v", err)
			}

			fs := source.NewFileSet()
			id := fs.AddVirtual("case.js", []byte(tc.Source))
			bag := diag.NewBag(20)
			reporter := &diag.BagReporter{Bag: bag}
			b, _ := parser.Parse(context.Background(), fs, id, nil, parser.Options{MaxErrors: 20, Reporter: reporter})
			if bag.HasErrors() {
				t.Fatalf("parse errors: %v", bag.Items())
			}
			res := symbols.ResolveFile(b, symbols.ResolveOptions{Reporter: reporter})
			c := vocab.NewClassifier(b, &res, v)

			got := make([]string, len(b.File.Body))
			for i, stmt := range b.File.Body {
				got[i] = c.Stmt(stmt).Kind.String()
			}
			if len(got) != len(tc.Want) {
				t.Fatalf("got %v, want %v", got, tc.Want)
			}
			for i := range got {
				if got[i] != tc.Want[i] {
					t.Fatalf("statement %d: got %v, want %v", i, got, tc.Want)
				}
			}
		})
	}
}

func TestGotoPatternCarriesTarget(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("goto.js", []byte("let back = label();\ngoto(back);\n"))
	b, _ := parser.Parse(context.Background(), fs, id, nil, parser.Options{MaxErrors: 5})
	res := symbols.ResolveFile(b, symbols.ResolveOptions{})
	c := vocab.NewClassifier(b, &res, vocab.Default())

	lbl := c.Stmt(b.File.Body[0])
	jump := c.Stmt(b.File.Body[1])
	if lbl.Name != jump.Name || b.Name(jump.Name) != "back" {
		t.Fatalf("label %q, goto %q", b.Name(lbl.Name), b.Name(jump.Name))
	}
	if sym, ok := res.Symbol(jump.Target); !ok || sym.Decl.Stmt != b.File.Body[0] {
		t.Fatalf("goto target does not resolve to the label declaration")
	}
}

func TestVocabularyValidate(t *testing.T) {
	bad := vocab.Default()
	bad.GotoName = "label"
	if err := bad.Validate(); err == nil {
		t.Fatalf("clashing names accepted")
	}
	bad = vocab.Default()
	bad.CutName = "if"
	if err := bad.Validate(); err == nil {
		t.Fatalf("keyword accepted as a name")
	}
	if err := vocab.Default().Validate(); err != nil {
		t.Fatalf("default vocabulary: %v", err)
	}
}

func TestModuleMatches(t *testing.T) {
	cases := map[string]bool{
		"fromHere":             true,
		"./fromHere.js":        true,
		"@scope/pkg/fromHere":  true,
		"../fromHere.ts":       true,
		"fromHereExtra":        false,
		"fromHere/index.js":    false,
		"./lib/other/fromHere": true,
	}
	for in, want := range cases {
		if got := vocab.ModuleMatches(in, "fromHere"); got != want {
			t.Errorf("ModuleMatches(%q) = %v, want %v", in, got, want)
		}
	}
}
