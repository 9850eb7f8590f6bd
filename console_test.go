package console_test

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	console "github.com/Wrsford/ThreadedConsole"
	"github.com/Wrsford/ThreadedConsole/ansi"
)

// lockedBuffer is a goroutine-safe sink for tests where the background loop
// may write concurrently with assertions.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// quiet returns options that keep the background loop effectively idle so
// tests control flushing themselves.
func quiet() console.Options {
	return console.Options{
		BaseInterval: time.Hour,
		NoColor:      true,
	}
}

func TestWriteLineFlushExactOutput(t *testing.T) {
	var buf lockedBuffer
	con := console.NewWithOptions(&buf, quiet())
	defer con.Close()

	con.WriteLine("x")
	if err := con.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if got := buf.String(); got != "x\n" {
		t.Fatalf("got %q, want %q", got, "x\n")
	}

	// A flush with nothing pending emits nothing.
	if err := con.Flush(); err != nil {
		t.Fatalf("second flush: %v", err)
	}
	if got := buf.String(); got != "x\n" {
		t.Fatalf("idle flush wrote bytes: %q", got)
	}
}

func TestSingleEmitterOrderAcrossFlushes(t *testing.T) {
	var buf lockedBuffer
	con := console.NewWithOptions(&buf, quiet())
	defer con.Close()

	var want strings.Builder
	for i := 0; i < 50; i++ {
		line := fmt.Sprintf("line-%02d", i)
		con.WriteLine(line)
		want.WriteString(line + "\n")
		if i%7 == 0 {
			if err := con.Flush(); err != nil {
				t.Fatalf("flush: %v", err)
			}
		}
	}
	if err := con.Flush(); err != nil {
		t.Fatalf("final flush: %v", err)
	}
	if got := buf.String(); got != want.String() {
		t.Fatalf("rendered order differs from write order:\ngot  %q\nwant %q", got, want.String())
	}
}

func TestInterleavedEmittersPreserveOwnOrder(t *testing.T) {
	var buf lockedBuffer
	opts := quiet()
	opts.ShowEmitterIDs = true
	con := console.NewWithOptions(&buf, opts)
	defer con.Close()

	a := con.Emitter(1)
	b := con.Emitter(2)
	const n = 200
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			a.WriteLine(fmt.Sprintf("a%03d", i))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			b.WriteLine(fmt.Sprintf("b%03d", i))
			if i%17 == 0 {
				_ = con.Flush()
			}
		}
	}()
	wg.Wait()
	if err := con.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	var gotA, gotB []string
	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "001: "):
			gotA = append(gotA, strings.TrimPrefix(line, "001: "))
		case strings.HasPrefix(line, "002: "):
			gotB = append(gotB, strings.TrimPrefix(line, "002: "))
		default:
			t.Fatalf("unattributed line %q", line)
		}
	}
	if len(gotA) != n || len(gotB) != n {
		t.Fatalf("lost or duplicated entries: a=%d b=%d want %d each", len(gotA), len(gotB), n)
	}
	for i := 0; i < n; i++ {
		if gotA[i] != fmt.Sprintf("a%03d", i) {
			t.Fatalf("emitter 1 out of order at %d: %q", i, gotA[i])
		}
		if gotB[i] != fmt.Sprintf("b%03d", i) {
			t.Fatalf("emitter 2 out of order at %d: %q", i, gotB[i])
		}
	}
}

func TestCarriageReturnPrefixEndToEnd(t *testing.T) {
	var buf lockedBuffer
	opts := quiet()
	opts.ShowEmitterIDs = true
	con := console.NewWithOptions(&buf, opts)
	defer con.Close()

	con.Emitter(7).Write("\rHello")
	if err := con.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if got := buf.String(); got != "\r007: Hello" {
		t.Fatalf("got %q, want %q", got, "\r007: Hello")
	}
}

func TestDisableOutputDropsEverything(t *testing.T) {
	var buf lockedBuffer
	con := console.NewWithOptions(&buf, quiet())
	defer con.Close()

	// Content queued before the switch flips must not reach the sink either.
	con.WriteLine("queued-before")
	con.SetDisableOutput(true)

	con.Write("after")
	con.WriteLine("after-line")
	if err := con.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if got := buf.String(); got != "" {
		t.Fatalf("disabled console wrote %q", got)
	}
}

func TestColorStateDefaultsAndUpdates(t *testing.T) {
	con := console.NewWithOptions(&lockedBuffer{}, quiet())
	defer con.Close()

	em := con.Emitter(99)
	if got := em.ForegroundColor(); got != ansi.DefaultForeground {
		t.Fatalf("fresh emitter foreground = %v, want %v", got, ansi.DefaultForeground)
	}
	if got := em.BackgroundColor(); got != ansi.DefaultBackground {
		t.Fatalf("fresh emitter background = %v, want %v", got, ansi.DefaultBackground)
	}

	em.SetForegroundColor(ansi.Yellow)
	for i := 0; i < 3; i++ {
		if got := em.ForegroundColor(); got != ansi.Yellow {
			t.Fatalf("foreground read %d = %v, want %v", i, got, ansi.Yellow)
		}
	}
	em.SetForegroundColor(ansi.Red)
	if got := em.ForegroundColor(); got != ansi.Red {
		t.Fatalf("foreground after second set = %v, want %v", got, ansi.Red)
	}
}

func TestQueuedEntriesKeepCapturedColors(t *testing.T) {
	var buf lockedBuffer
	opts := quiet()
	opts.NoColor = false
	opts.ForceColor = true
	con := console.NewWithOptions(&buf, opts)
	defer con.Close()

	em := con.Emitter(1)
	em.SetForegroundColor(ansi.Green)
	em.WriteLine("first")
	// Recoloring after the write must not repaint the queued entry.
	em.SetForegroundColor(ansi.Red)
	em.WriteLine("second")
	if err := con.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	got := buf.String()
	wantFirst := ansi.Green.Foreground() + ansi.DefaultBackground.Background() + "first\n"
	wantSecond := ansi.Red.Foreground() + ansi.DefaultBackground.Background() + "second\n"
	if !strings.Contains(got, wantFirst) {
		t.Fatalf("first entry lost its captured color:\ngot  %q\nwant substring %q", got, wantFirst)
	}
	if !strings.Contains(got, wantSecond) {
		t.Fatalf("second entry has wrong color:\ngot  %q\nwant substring %q", got, wantSecond)
	}
	if strings.Index(got, wantFirst) > strings.Index(got, wantSecond) {
		t.Fatalf("entries rendered out of order: %q", got)
	}
}

type failingWriter struct {
	err error
}

func (w *failingWriter) Write(p []byte) (int, error) {
	return 0, w.err
}

func TestFlushReturnsTypedError(t *testing.T) {
	sinkErr := errors.New("sink broke")
	con := console.NewWithOptions(&failingWriter{err: sinkErr}, quiet())
	defer con.Close()

	con.WriteLine("x")
	err := con.Flush()
	if err == nil {
		t.Fatal("expected flush error")
	}
	var fe *console.FlushError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FlushError, got %T: %v", err, err)
	}
	if !errors.Is(err, sinkErr) {
		t.Fatalf("FlushError does not wrap the sink error: %v", err)
	}
	if stats := con.Stats(); stats.SinkFailures == 0 {
		t.Fatalf("sink failure not counted: %+v", stats)
	}
}

func TestCloseDrainsRemaining(t *testing.T) {
	var buf lockedBuffer
	con := console.NewWithOptions(&buf, quiet())

	for i := 0; i < 5; i++ {
		con.WriteLine(fmt.Sprintf("tail-%d", i))
	}
	if err := con.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	got := buf.String()
	for i := 0; i < 5; i++ {
		if !strings.Contains(got, fmt.Sprintf("tail-%d\n", i)) {
			t.Fatalf("close lost entry %d: %q", i, got)
		}
	}

	// Close is idempotent.
	if err := con.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestBackgroundLoopFlushesWithoutManualTrigger(t *testing.T) {
	var buf lockedBuffer
	con := console.NewWithOptions(&buf, console.Options{
		BaseInterval: 5 * time.Millisecond,
		NoColor:      true,
	})
	defer con.Close()

	con.WriteLine("auto")
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if buf.String() == "auto\n" {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("background loop never flushed; sink has %q", buf.String())
}

func TestStatsCounters(t *testing.T) {
	var buf lockedBuffer
	con := console.NewWithOptions(&buf, quiet())
	defer con.Close()

	con.WriteLine("a")
	con.WriteLine("b")
	if got := con.Stats().Pending; got != 2 {
		t.Fatalf("pending = %d, want 2", got)
	}
	if err := con.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	stats := con.Stats()
	if stats.Pending != 0 {
		t.Fatalf("pending after flush = %d, want 0", stats.Pending)
	}
	if stats.Flushes != 1 || stats.Rendered != 2 {
		t.Fatalf("counters = %+v, want 1 flush / 2 rendered", stats)
	}
}

func TestShowFlagsToggle(t *testing.T) {
	var buf lockedBuffer
	opts := quiet()
	con := console.NewWithOptions(&buf, opts)
	defer con.Close()

	if con.ShowEmitterIDs() || con.ShowTimestamps() {
		t.Fatal("prefixes unexpectedly enabled by default")
	}
	con.SetShowEmitterIDs(true)
	con.WriteLine("with-id")
	if err := con.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if got := buf.String(); got != "000: with-id\n" {
		t.Fatalf("got %q, want %q", got, "000: with-id\n")
	}
}

func TestConsoleColorAccessorsAreEmitterZero(t *testing.T) {
	con := console.NewWithOptions(&lockedBuffer{}, quiet())
	defer con.Close()

	con.SetForegroundColor(ansi.Cyan)
	if got := con.Emitter(0).ForegroundColor(); got != ansi.Cyan {
		t.Fatalf("emitter 0 foreground = %v, want %v", got, ansi.Cyan)
	}
	con.Emitter(0).SetBackgroundColor(ansi.Blue)
	if got := con.BackgroundColor(); got != ansi.Blue {
		t.Fatalf("console background = %v, want %v", got, ansi.Blue)
	}
}
