package console

import (
	"time"

	"go.uber.org/zap"
)

// run is the Console's only background goroutine. It wakes every half base
// interval (or early on a nudge), checks the adaptive debounce, and flushes
// when due. The loop never exits on a flush failure; it reports and keeps
// going so one bad cycle cannot silence all future output.
func (c *Console) run() {
	defer c.wg.Done()
	ticker := time.NewTicker(c.opts.BaseInterval / 2)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
		case <-c.wake:
		}
		if !c.flushDue(time.Now()) {
			continue
		}
		c.safeFlush()
	}
}

// flushDue applies the adaptive debounce: the required spacing grows with
// queue depth, so the loop flushes eagerly under light load and batches
// harder under heavy load.
//
//	effective = base + (pending/referenceCapacity) * base
func (c *Console) flushDue(now time.Time) bool {
	pending := c.queues.len()
	if pending == 0 {
		return false
	}
	base := c.opts.BaseInterval
	effective := base + time.Duration(int64(base)*int64(pending)/int64(c.opts.ReferenceCapacity))
	elapsed := now.Sub(time.Unix(0, c.lastFlush.Load()))
	return elapsed >= effective
}

// safeFlush contains failures and panics from one cycle.
func (c *Console) safeFlush() {
	defer func() {
		if r := recover(); r != nil {
			c.diag.Error("console: flush cycle panicked", zap.Any("panic", r))
		}
	}()
	if err := c.flush(); err != nil {
		c.diag.Warn("console: flush cycle failed", zap.Error(err))
	}
}

// flush is the single drain-and-render path shared by the background loop,
// manual Flush calls, and Close. The render mutex makes drains mutually
// exclusive, so an entry can never be delivered twice, and makes the sink
// single-writer. A drain removes at most MaxDrain entries; the remainder
// waits for the next pass.
func (c *Console) flush() error {
	if c.disabled.Load() {
		return nil
	}
	c.renderMu.Lock()
	defer c.renderMu.Unlock()

	c.lastFlush.Store(time.Now().UnixNano())
	batches, remaining := c.queues.drainAll(c.opts.MaxDrain)
	if len(batches) == 0 {
		return nil
	}

	flags := renderFlags{
		showIDs: c.showIDs.Load(),
		showTS:  c.showTS.Load(),
	}
	out := c.render.renderAll(batches, remaining > 0, flags)

	var count uint64
	for _, b := range batches {
		count += uint64(len(b.entries))
	}
	c.flushes.Add(1)
	c.rendered.Add(count)

	if written, err := c.sink.Write(out); err != nil {
		return &FlushError{Written: written, Err: err}
	}
	return nil
}
