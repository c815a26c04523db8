package vecdoc

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/gogpu/pageview/geom"
)

// parsePath reads absolute SVG path data using the commands M, L, Q, C
// and Z. A command letter may be followed by several coordinate groups.
func parsePath(data string) (*geom.Path, error) {
	tokens := tokenizePath(data)
	path := geom.NewPath()

	var cmd byte
	for i := 0; i < len(tokens); {
		tok := tokens[i]
		if len(tok) == 1 && unicode.IsLetter(rune(tok[0])) {
			cmd = tok[0] &^ 0x20 // upper case
			i++
			if cmd == 'Z' {
				path.Close()
				continue
			}
		}

		n, ok := pathArity[cmd]
		if !ok {
			if cmd == 0 {
				return nil, fmt.Errorf("path: data must start with a command, got %q", tok)
			}
			return nil, fmt.Errorf("path: unknown command %q", cmd)
		}
		if cmd == 'Z' {
			return nil, fmt.Errorf("path: unexpected number %q after Z", tok)
		}
		if i+n > len(tokens) {
			return nil, fmt.Errorf("path: command %c needs %d numbers", cmd, n)
		}
		var v [6]float64
		for j := 0; j < n; j++ {
			f, err := strconv.ParseFloat(tokens[i+j], 64)
			if err != nil {
				return nil, fmt.Errorf("path: command %c: %w", cmd, err)
			}
			v[j] = f
		}
		i += n

		switch cmd {
		case 'M':
			path.MoveTo(v[0], v[1])
			cmd = 'L' // further pairs are implicit lines
		case 'L':
			path.LineTo(v[0], v[1])
		case 'Q':
			path.QuadTo(v[0], v[1], v[2], v[3])
		case 'C':
			path.CubicTo(v[0], v[1], v[2], v[3], v[4], v[5])
		}
	}
	if path.IsEmpty() {
		return nil, fmt.Errorf("path: no segments in %q", data)
	}
	return path, nil
}

var pathArity = map[byte]int{'M': 2, 'L': 2, 'Q': 4, 'C': 6, 'Z': 0}

func tokenizePath(data string) []string {
	var b strings.Builder
	for _, r := range data {
		switch {
		case r == ',':
			b.WriteByte(' ')
		case unicode.IsLetter(r) && r != 'e' && r != 'E':
			b.WriteByte(' ')
			b.WriteRune(r)
			b.WriteByte(' ')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Fields(b.String())
}
