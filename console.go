package console

import (
	"io"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Wrsford/ThreadedConsole/ansi"
)

// Console multiplexes output from many concurrent emitters onto one sink.
// Writes never touch the sink directly: they append to the calling emitter's
// queue, and a single background goroutine drains all queues on an adaptive
// debounce schedule and renders each emitter's batch atomically. Construct
// one per sink and share it; all methods are safe for concurrent use.
type Console struct {
	opts   Options
	sink   *ObservedWriter
	queues *queueRegistry
	states *stateRegistry
	diag   *zap.Logger

	// renderMu serializes every drain-and-render pass, whether triggered by
	// the background loop, a manual Flush, or Close. The sink is effectively
	// single-writer because of it.
	renderMu sync.Mutex
	render   *renderer

	showIDs  atomic.Bool
	showTS   atomic.Bool
	disabled atomic.Bool

	lastFlush atomic.Int64 // unix nanos of the last drain pass
	flushes   atomic.Uint64
	rendered  atomic.Uint64

	wake      chan struct{}
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
	closeErr  error
}

// Stats is a point-in-time snapshot of a Console's counters.
type Stats struct {
	// Pending is the number of entries queued and not yet rendered. It can
	// grow without bound when producers outpace the renderer; no
	// back-pressure is applied.
	Pending int
	// Flushes counts drain passes that rendered at least one entry.
	Flushes uint64
	// Rendered counts entries delivered to the sink.
	Rendered uint64
	// SinkFailures and SinkShortWrites count failed writes against the sink.
	SinkFailures    uint64
	SinkShortWrites uint64
}

// New creates a Console writing to w and starts its background flush loop.
// Call Close to stop the loop and drain what remains.
func New(w io.Writer, opts ...Option) *Console {
	var o Options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return NewWithOptions(w, o)
}

// NewWithOptions is New with an explicit Options value.
func NewWithOptions(w io.Writer, o Options) *Console {
	o = o.withDefaults()
	color := !o.NoColor && (o.ForceColor || isTerminal(w))
	c := &Console{
		opts:   o,
		queues: newQueueRegistry(),
		states: newStateRegistry(),
		diag:   o.Diagnostics,
		render: newRenderer(color, o.TimeFormat),
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	c.sink = NewObservedWriter(w, func(f WriteFailure) {
		c.diag.Warn("console: sink write failed",
			zap.Int("written", f.Written),
			zap.Int("attempted", f.Attempted),
			zap.Error(f.Err))
	})
	c.showIDs.Store(o.ShowEmitterIDs)
	c.showTS.Store(o.ShowTimestamps)
	c.disabled.Store(o.DisableOutput)
	c.lastFlush.Store(time.Now().UnixNano())
	c.wg.Add(1)
	go c.run()
	return c
}

// Emitter returns a handle bound to id. Handles are cheap; each concurrent
// writer should hold its own, keyed by a stable id for its lifetime.
func (c *Console) Emitter(id int) *Emitter {
	return &Emitter{c: c, id: id}
}

// Write enqueues payload for the default emitter (id 0).
func (c *Console) Write(payload string) {
	c.write(0, payload)
}

// WriteLine enqueues payload plus a single trailing newline for the default
// emitter (id 0).
func (c *Console) WriteLine(payload string) {
	c.write(0, payload+"\n")
}

// ForegroundColor returns the default emitter's foreground color.
func (c *Console) ForegroundColor() ansi.Color {
	return c.states.get(0).Foreground
}

// SetForegroundColor sets the default emitter's foreground color. Entries
// already queued keep the colors captured when they were written.
func (c *Console) SetForegroundColor(col ansi.Color) {
	c.states.setForeground(0, col)
}

// BackgroundColor returns the default emitter's background color.
func (c *Console) BackgroundColor() ansi.Color {
	return c.states.get(0).Background
}

// SetBackgroundColor sets the default emitter's background color.
func (c *Console) SetBackgroundColor(col ansi.Color) {
	c.states.setBackground(0, col)
}

// ShowEmitterIDs reports whether the identity prefix is enabled.
func (c *Console) ShowEmitterIDs() bool { return c.showIDs.Load() }

// SetShowEmitterIDs toggles the "NNN: " identity prefix.
func (c *Console) SetShowEmitterIDs(on bool) { c.showIDs.Store(on) }

// ShowTimestamps reports whether the timestamp prefix is enabled.
func (c *Console) ShowTimestamps() bool { return c.showTS.Load() }

// SetShowTimestamps toggles the "[HH:MM:SS] " prefix.
func (c *Console) SetShowTimestamps(on bool) { c.showTS.Store(on) }

// OutputDisabled reports whether the output switch is off.
func (c *Console) OutputDisabled() bool { return c.disabled.Load() }

// SetDisableOutput toggles the output switch. While disabled, writes and
// flushes are no-ops and no byte reaches the sink; the background loop keeps
// running and anything already queued stays queued.
func (c *Console) SetDisableOutput(off bool) { c.disabled.Store(off) }

// Flush drains and renders immediately, bypassing the debounce wait. It is
// safe to call concurrently with the background loop; both funnel through
// the same render mutex. The returned error, if any, is a *FlushError.
func (c *Console) Flush() error {
	return c.flush()
}

// Stats returns a snapshot of the Console's counters.
func (c *Console) Stats() Stats {
	sink := c.sink.Stats()
	return Stats{
		Pending:         c.queues.len(),
		Flushes:         c.flushes.Load(),
		Rendered:        c.rendered.Load(),
		SinkFailures:    sink.Failures,
		SinkShortWrites: sink.ShortWrites,
	}
}

// Close stops the background loop and performs a final drain bounded by
// DrainTimeout. Close is idempotent; writes arriving after Close are queued
// but never rendered.
func (c *Console) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
		c.wg.Wait()

		var err error
		deadline := time.Now().Add(c.opts.DrainTimeout)
		for c.queues.len() > 0 && !c.disabled.Load() {
			ferr := c.flush()
			if ferr != nil {
				err = multierr.Append(err, ferr)
				break
			}
			if time.Now().After(deadline) {
				break
			}
		}
		c.closeErr = err
	})
	return c.closeErr
}

// write captures the emitter's current colors into an immutable entry and
// appends it to the emitter's queue. It never blocks on the sink.
func (c *Console) write(id int, payload string) {
	if payload == "" || c.disabled.Load() {
		return
	}
	st := c.states.get(id)
	total := c.queues.enqueue(id, newEntry(id, payload, st))
	if total >= c.opts.ReferenceCapacity {
		c.nudge()
	}
}

// nudge wakes the background loop without waiting for the next tick. The
// debounce formula still decides whether the flush actually happens.
func (c *Console) nudge() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// Emitter is a Console handle bound to one emitter id. The zero value is not
// usable; obtain handles from Console.Emitter.
type Emitter struct {
	c  *Console
	id int
}

// ID returns the emitter id the handle is bound to.
func (e *Emitter) ID() int { return e.id }

// Write enqueues payload for this emitter.
func (e *Emitter) Write(payload string) {
	e.c.write(e.id, payload)
}

// WriteLine enqueues payload plus a single trailing newline.
func (e *Emitter) WriteLine(payload string) {
	e.c.write(e.id, payload+"\n")
}

// ForegroundColor returns this emitter's current foreground color,
// materializing the default pair on first observation.
func (e *Emitter) ForegroundColor() ansi.Color {
	return e.c.states.get(e.id).Foreground
}

// SetForegroundColor sets this emitter's foreground color for subsequent
// writes.
func (e *Emitter) SetForegroundColor(col ansi.Color) {
	e.c.states.setForeground(e.id, col)
}

// BackgroundColor returns this emitter's current background color.
func (e *Emitter) BackgroundColor() ansi.Color {
	return e.c.states.get(e.id).Background
}

// SetBackgroundColor sets this emitter's background color for subsequent
// writes.
func (e *Emitter) SetBackgroundColor(col ansi.Color) {
	e.c.states.setBackground(e.id, col)
}
