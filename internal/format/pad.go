package format

import (
	"bytes"
	"errors"
	"fmt"
)

// ErrOverrun reports a block that already has more lines than requested.
var ErrOverrun = errors.New("block is longer than the original")

// Pad grows a printed block to exactly target lines by inserting empty
// statements before its closing brace. indent is used for the inserted
// lines and closeIndent for the brace when it moves to its own line.
func Pad(text []byte, target int, indent, closeIndent string) ([]byte, error) {
	lines := bytes.Count(text, []byte{'\n'}) + 1
	if lines > target {
		return text, fmt.Errorf("%w: %d lines, want %d", ErrOverrun, lines, target)
	}
	if lines == target {
		return text, nil
	}
	closing := bytes.LastIndexByte(text, '}')
	if closing < 0 {
		return text, fmt.Errorf("format: padded text has no closing brace")
	}

	var fill bytes.Buffer
	if lines == 1 {
		// `{}` раскрываем в `{\n;\n}`
		fill.WriteByte('\n')
		for range target - 2 {
			fill.WriteString(indent + ";\n")
		}
		fill.WriteString(closeIndent)
	} else {
		closing = bytes.LastIndexByte(text[:closing], '\n') + 1
		for range target - lines {
			fill.WriteString(indent + ";\n")
		}
	}

	out := make([]byte, 0, len(text)+fill.Len())
	out = append(out, text[:closing]...)
	out = append(out, fill.Bytes()...)
	out = append(out, text[closing:]...)
	return out, nil
}
