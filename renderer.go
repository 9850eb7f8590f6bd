package console

import (
	"strconv"
	"strings"

	"github.com/Wrsford/ThreadedConsole/ansi"
)

// renderFlags snapshots the presentation switches for one flush so a flag
// flipped mid-render cannot split a batch between two styles.
type renderFlags struct {
	showIDs bool
	showTS  bool
}

// renderer turns drained batches into a single byte slice for the sink. It
// owns the cross-flush line bookkeeping (whether the cursor sits at the start
// of a line) and therefore must only ever be driven by one goroutine at a
// time; the Console's render mutex guarantees that.
//
// Batches are processed in descending emitter-id order. The order itself
// carries no meaning, it only has to be deterministic so output is
// reproducible under test.
type renderer struct {
	color       bool
	timeFormat  string
	atLineStart bool
	buf         []byte
}

func newRenderer(color bool, timeFormat string) *renderer {
	return &renderer{
		color:       color,
		timeFormat:  timeFormat,
		atLineStart: true,
		buf:         make([]byte, 0, 1024),
	}
}

// renderAll assembles the whole flush into one buffer. morePending reports
// whether entries remain queued after this drain; together with the batch
// position it decides the separator newline between unrelated emitters. The
// returned slice is only valid until the next renderAll call.
func (r *renderer) renderAll(batches []batch, morePending bool, flags renderFlags) []byte {
	r.buf = r.buf[:0]
	for i, b := range batches {
		more := i < len(batches)-1 || morePending
		r.renderBatch(b, more, flags)
	}
	return r.buf
}

// renderBatch writes one emitter's entries in FIFO order. When the batch ends
// mid-line and more output is still coming, a single newline keeps the next
// emitter's output off this line.
func (r *renderer) renderBatch(b batch, morePending bool, flags renderFlags) {
	for _, e := range b.entries {
		r.renderEntry(e, flags)
	}
	if !r.atLineStart && morePending {
		r.buf = append(r.buf, '\n')
		r.atLineStart = true
	}
}

func (r *renderer) renderEntry(e Entry, flags renderFlags) {
	payload := e.Payload

	// Prefixes are drawn only when the cursor is at a line start or the
	// payload rewinds it there itself with a leading carriage return. The
	// return is stolen and written first so the prefix truly lands in
	// column 0, then stripped from the payload remainder.
	returns := strings.HasPrefix(payload, "\r")
	needPrefix := r.atLineStart || returns
	if returns {
		r.buf = append(r.buf, '\r')
		payload = payload[1:]
	}
	if needPrefix {
		if flags.showIDs {
			r.writeIDPrefix(e.EmitterID)
		}
		if flags.showTS {
			r.writeTimestampPrefix(e)
		}
	}

	if r.color {
		r.buf = append(r.buf, e.Foreground.Foreground()...)
		r.buf = append(r.buf, e.Background.Background()...)
	}
	r.buf = append(r.buf, payload...)
	if r.color {
		// Restore a clean color state so the next prefix or unrelated
		// write does not inherit this entry's colors.
		r.buf = append(r.buf, ansi.Reset...)
	}
	r.atLineStart = strings.HasSuffix(payload, "\n")
}

// writeIDPrefix emits "NNN: " with the id zero-padded to three digits,
// colored deterministically from the palette.
func (r *renderer) writeIDPrefix(id int) {
	if r.color {
		r.buf = append(r.buf, ansi.Prefix(id).Foreground()...)
	}
	r.buf = appendPaddedID(r.buf, id)
	r.buf = append(r.buf, ':', ' ')
	if r.color {
		r.buf = append(r.buf, ansi.Reset...)
	}
}

// writeTimestampPrefix emits "[HH:MM:SS] " in the fixed muted color, using
// the entry's creation time rather than render time.
func (r *renderer) writeTimestampPrefix(e Entry) {
	if r.color {
		r.buf = append(r.buf, ansi.Timestamp.Foreground()...)
	}
	r.buf = append(r.buf, '[')
	r.buf = e.CreatedAt.AppendFormat(r.buf, r.timeFormat)
	r.buf = append(r.buf, ']', ' ')
	if r.color {
		r.buf = append(r.buf, ansi.Reset...)
	}
}

func appendPaddedID(buf []byte, id int) []byte {
	if id >= 0 && id < 1000 {
		buf = append(buf, byte('0'+id/100), byte('0'+id/10%10), byte('0'+id%10))
		return buf
	}
	return strconv.AppendInt(buf, int64(id), 10)
}
