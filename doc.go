// Package console multiplexes colored terminal output from many concurrent
// writers onto one shared sink without interleaving characters and without
// flooding the terminal with redraws.
//
// # Design overview
//
//   - Per-emitter queues: every logical writer (an "emitter", identified by a
//     stable integer id) appends to its own FIFO queue. Writes capture the
//     emitter's current foreground/background colors into an immutable entry,
//     so recoloring never rewrites history.
//   - One flush goroutine: a single background loop drains all queues on an
//     adaptive debounce. Light load flushes fast; deep queues stretch the
//     interval so the terminal sees fewer, larger redraws. A single drain is
//     bounded, so one pass can never starve newly arriving emitters.
//   - Atomic rendering: each emitter's batch is rendered contiguously, with
//     optional identity and timestamp prefixes at line starts, and the whole
//     flush reaches the sink in one write. Payloads beginning with a carriage
//     return (in-place progress updates) have the return written before the
//     prefix so the prefix truly lands in column 0.
//
// # Usage
//
//	con := console.New(os.Stdout, console.WithShowEmitterIDs())
//	defer con.Close()
//
//	em := con.Emitter(7)
//	em.SetForegroundColor(ansi.LightGreen)
//	em.WriteLine("worker ready")
//
// In-place progress updates pair with the progress subpackage:
//
//	for i := 0; i <= 100; i++ {
//		em.Write(progress.Bar(float64(i)/100, "build"))
//	}
//
// Ordering guarantees: output from one emitter is rendered strictly in write
// order. Across emitters there is no global arrival order; each flush renders
// emitters in descending id order, which is arbitrary but deterministic.
//
// Queues grow without bound when producers outpace the renderer; pending
// depth is observable through Stats but deliberately not capped, since
// silently dropping entries would break the no-loss guarantee.
package console
