// Package progress formats single-line, in-place-updating progress bars.
//
// Bar is stateless: each call returns the complete line for the given
// fraction, prefixed with a carriage return so that writing successive
// renders to the same console overwrites the previous one. The console
// multiplexer treats the result as an opaque payload; nothing here writes
// output itself.
package progress

import (
	"math"
	"strconv"
	"strings"
)

// Width is the number of fill segments inside the brackets.
const Width = 20

// Bar returns one render of the progress line:
//
//	\r[=========           ] 45.0% label
//
// The fraction is clamped to [0,1]; NaN renders as 0. At fraction 1.0 the
// line gains a trailing newline so the final state becomes permanent instead
// of being overwritten by whatever prints next.
func Bar(fraction float64, label string) string {
	if math.IsNaN(fraction) || fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	fill := int(math.Round(fraction * Width))

	var b strings.Builder
	b.Grow(Width + len(label) + 16)
	b.WriteString("\r[")
	for i := 0; i < Width; i++ {
		if i < fill {
			b.WriteByte('=')
		} else {
			b.WriteByte(' ')
		}
	}
	b.WriteString("] ")
	b.WriteString(strconv.FormatFloat(fraction*100, 'f', 1, 64))
	b.WriteByte('%')
	if label != "" {
		b.WriteByte(' ')
		b.WriteString(label)
	}
	if fraction >= 1 {
		b.WriteByte('\n')
	}
	return b.String()
}
