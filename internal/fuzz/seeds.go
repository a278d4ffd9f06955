package fuzztests

import (
	"path/filepath"
	"testing"

	"golang.org/x/tools/txtar"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса
	maxFuzzInput = 1 << 16
)

var snippets = []string{
	"",
	"let x = 1;\n",
	"function f() { fromHere(); return 1; }\n",
	"function f(a) { let n = a; fromHere(); return n + 1; }\n",
	"function g() { let again = label(); goto(again); }\n",
	"function h(n) { let top = label(); if (n > 0) { n--; goto(top); } return n; }\n",
	"const k = (a, ...rest) => ({ a, rest: [...rest] });\n",
	"class A extends B { static s = 1; m() { return super.m?.(); } }\n",
	"for (const [k, v] of Object.entries(o)) { switch (k) { case 'a': break; default: continue; } }\n",
	"label: while (true) { try { throw new Error(`x${1 + 2}`); } catch { break label; } finally {} }\n",
	"async function* gen() { yield* await x; }\n",
	"let r = /a[/]b/g.test(s) ? a ?? b : c || d;\n",
	"export default function () {}\nimport { fromHere as here } from 'fromHere';\n",
}

func addCorpusSeeds(f *testing.F) {
	addGoldenSeeds(f)
	for _, s := range snippets {
		f.Add([]byte(s))
	}
}

// addGoldenSeeds adds the input.js sections of the driver golden archives.
func addGoldenSeeds(f *testing.F) {
	paths, err := filepath.Glob(filepath.Join("..", "driver", "testdata", "golden", "*.txtar"))
	if err != nil {
		return
	}
	for _, p := range paths {
		ar, err := txtar.ParseFile(p)
		if err != nil {
			continue
		}
		for _, file := range ar.Files {
			if file.Name == "input.js" {
				f.Add(clampSeed(file.Data))
			}
		}
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}

// truncateForLog truncates input for logging purposes
func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(append([]byte(nil), input[:maxLen]...), "..."...)
}
