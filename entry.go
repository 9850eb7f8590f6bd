package console

import (
	"time"

	"github.com/Wrsford/ThreadedConsole/ansi"
)

// Entry is one queued unit of output. It is immutable once constructed: the
// emitter's colors are captured at write time, so changing an emitter's color
// never alters entries that are already waiting to be rendered.
type Entry struct {
	EmitterID  int
	Payload    string
	Foreground ansi.Color
	Background ansi.Color
	CreatedAt  time.Time
}

// State is the mutable per-emitter color pair. A never-seen emitter
// materializes DefaultState on first observation.
type State struct {
	Foreground ansi.Color
	Background ansi.Color
}

// DefaultState returns the neutral color pair applied to new emitters.
func DefaultState() State {
	return State{
		Foreground: ansi.DefaultForeground,
		Background: ansi.DefaultBackground,
	}
}

func newEntry(id int, payload string, st State) Entry {
	return Entry{
		EmitterID:  id,
		Payload:    payload,
		Foreground: st.Foreground,
		Background: st.Background,
		CreatedAt:  time.Now(),
	}
}
