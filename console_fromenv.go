package console

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// envOptions mirrors Options for environment processing. Variables carry the
// TCON_ prefix, e.g. TCON_BASE_INTERVAL=250ms or TCON_SHOW_EMITTER_IDS=true.
type envOptions struct {
	BaseInterval      time.Duration `envconfig:"BASE_INTERVAL"`
	ReferenceCapacity int           `envconfig:"REFERENCE_CAPACITY"`
	MaxDrain          int           `envconfig:"MAX_DRAIN"`
	DrainTimeout      time.Duration `envconfig:"DRAIN_TIMEOUT"`
	TimeFormat        string        `envconfig:"TIME_FORMAT"`
	ShowEmitterIDs    bool          `envconfig:"SHOW_EMITTER_IDS"`
	ShowTimestamps    bool          `envconfig:"SHOW_TIMESTAMPS"`
	DisableOutput     bool          `envconfig:"DISABLE_OUTPUT"`
	NoColor           bool          `envconfig:"NO_COLOR"`
	ForceColor        bool          `envconfig:"FORCE_COLOR"`
}

// OptionsFromEnv builds Options from TCON_* environment variables. Unset
// variables leave the corresponding field zero, so the usual defaults apply
// when the Options are handed to NewWithOptions.
func OptionsFromEnv() (Options, error) {
	var e envOptions
	if err := envconfig.Process("tcon", &e); err != nil {
		return Options{}, err
	}
	return Options{
		BaseInterval:      e.BaseInterval,
		ReferenceCapacity: e.ReferenceCapacity,
		MaxDrain:          e.MaxDrain,
		DrainTimeout:      e.DrainTimeout,
		TimeFormat:        e.TimeFormat,
		ShowEmitterIDs:    e.ShowEmitterIDs,
		ShowTimestamps:    e.ShowTimestamps,
		DisableOutput:     e.DisableOutput,
		NoColor:           e.NoColor,
		ForceColor:        e.ForceColor,
	}, nil
}
