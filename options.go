package console

import (
	"time"

	"go.uber.org/zap"
)

// Defaults applied by New and NewWithOptions when the corresponding Options
// field is zero.
const (
	DefaultBaseInterval      = 100 * time.Millisecond
	DefaultReferenceCapacity = 256
	DefaultDrainTimeout      = time.Second
	DefaultTimeFormat        = "15:04:05"
)

// Options controls scheduling, rendering, and diagnostics for a Console.
type Options struct {
	// BaseInterval is the base debounce interval between flushes. The
	// background loop evaluates every BaseInterval/2 and flushes once the
	// effective interval has elapsed. Defaults to DefaultBaseInterval.
	BaseInterval time.Duration

	// ReferenceCapacity is the "entries per flush" ceiling feeding the
	// adaptive debounce: the effective interval grows by one BaseInterval
	// for every ReferenceCapacity entries pending. Defaults to
	// DefaultReferenceCapacity.
	ReferenceCapacity int

	// MaxDrain bounds how many entries a single flush may remove across all
	// queues, so one cycle cannot run unbounded while new emitters wait.
	// Defaults to 4*ReferenceCapacity.
	MaxDrain int

	// DrainTimeout bounds the final drain performed by Close. Defaults to
	// DefaultDrainTimeout.
	DrainTimeout time.Duration

	// TimeFormat is the layout used by the timestamp prefix. Defaults to
	// DefaultTimeFormat.
	TimeFormat string

	// ShowEmitterIDs enables the "NNN: " identity prefix at line starts.
	ShowEmitterIDs bool

	// ShowTimestamps enables the "[HH:MM:SS] " prefix at line starts.
	ShowTimestamps bool

	// DisableOutput starts the Console with the output switch off: writes
	// and flushes become no-ops until re-enabled.
	DisableOutput bool

	// NoColor forces color escape sequences off regardless of terminal
	// detection. It wins over ForceColor.
	NoColor bool

	// ForceColor bypasses terminal detection and emits color even when the
	// sink is not a TTY. Useful for tests and forced-color pipelines.
	ForceColor bool

	// Diagnostics receives flush failures and recovered panics from the
	// background loop. When nil, a no-op logger is used. The sink itself is
	// never used for diagnostics; a broken sink is what gets reported.
	Diagnostics *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.BaseInterval <= 0 {
		o.BaseInterval = DefaultBaseInterval
	}
	if o.ReferenceCapacity <= 0 {
		o.ReferenceCapacity = DefaultReferenceCapacity
	}
	if o.MaxDrain <= 0 {
		o.MaxDrain = 4 * o.ReferenceCapacity
	}
	if o.DrainTimeout <= 0 {
		o.DrainTimeout = DefaultDrainTimeout
	}
	if o.TimeFormat == "" {
		o.TimeFormat = DefaultTimeFormat
	}
	if o.Diagnostics == nil {
		o.Diagnostics = zap.NewNop()
	}
	return o
}

// Option customizes a Console built with New.
type Option func(*Options)

// WithBaseInterval sets the base debounce interval.
func WithBaseInterval(d time.Duration) Option {
	return func(o *Options) { o.BaseInterval = d }
}

// WithReferenceCapacity sets the entries-per-flush ceiling of the adaptive
// debounce formula.
func WithReferenceCapacity(n int) Option {
	return func(o *Options) { o.ReferenceCapacity = n }
}

// WithMaxDrain bounds the number of entries removed by a single flush.
func WithMaxDrain(n int) Option {
	return func(o *Options) { o.MaxDrain = n }
}

// WithDrainTimeout bounds the final drain performed by Close.
func WithDrainTimeout(d time.Duration) Option {
	return func(o *Options) { o.DrainTimeout = d }
}

// WithTimeFormat sets the timestamp prefix layout.
func WithTimeFormat(layout string) Option {
	return func(o *Options) { o.TimeFormat = layout }
}

// WithShowEmitterIDs enables the identity prefix.
func WithShowEmitterIDs() Option {
	return func(o *Options) { o.ShowEmitterIDs = true }
}

// WithShowTimestamps enables the timestamp prefix.
func WithShowTimestamps() Option {
	return func(o *Options) { o.ShowTimestamps = true }
}

// WithNoColor forces color sequences off.
func WithNoColor() Option {
	return func(o *Options) { o.NoColor = true }
}

// WithForceColor emits color sequences even when the sink is not a TTY.
func WithForceColor() Option {
	return func(o *Options) { o.ForceColor = true }
}

// WithDiagnostics routes background-loop failures to logger.
func WithDiagnostics(logger *zap.Logger) Option {
	return func(o *Options) { o.Diagnostics = logger }
}
