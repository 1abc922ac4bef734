// Package config holds the application settings shared by the commands.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/0xlemi/yinnote/internal/pitch"
)

// Capture backends
const (
	BackendPortAudio = "portaudio"
	BackendMalgo     = "malgo"
	BackendTone      = "tone"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "YINNOTE_"

// Settings configures capture, the tuner loop and the estimator.
type Settings struct {
	// Audio settings
	BufferSize    int
	SampleRate    int
	Channels      int
	Backend       string
	Device        string
	Amplification float64
	ToneFrequency float64

	// Loop settings
	Interval  time.Duration
	SilenceDB float64

	LogLevel string
	LogFile  string

	Pitch pitch.Config
}

// Default returns the settings used when nothing is overridden.
func Default() Settings {
	return Settings{
		BufferSize:    1024,
		SampleRate:    44100,
		Channels:      1,
		Backend:       BackendPortAudio,
		Amplification: 1.0,
		ToneFrequency: 440,
		Interval:      50 * time.Millisecond,
		SilenceDB:     -50,
		LogLevel:      "info",
		Pitch:         pitch.DefaultConfig(),
	}
}

// FromEnv applies YINNOTE_* overrides found through lookup, typically
// os.LookupEnv.
func (s *Settings) FromEnv(lookup func(string) (string, bool)) error {
	var errs []error

	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}
	integer := func(key string, dst *int) {
		if v, ok := lookup(EnvPrefix + key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = n
		}
	}
	float := func(key string, dst *float64) {
		if v, ok := lookup(EnvPrefix + key); ok {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = f
		}
	}

	integer("BUFFER_SIZE", &s.BufferSize)
	integer("SAMPLE_RATE", &s.SampleRate)
	integer("CHANNELS", &s.Channels)
	str("BACKEND", &s.Backend)
	str("DEVICE", &s.Device)
	float("AMPLIFICATION", &s.Amplification)
	float("SILENCE_DB", &s.SilenceDB)
	str("LOG_LEVEL", &s.LogLevel)
	str("LOG_FILE", &s.LogFile)
	float("THRESHOLD", &s.Pitch.Threshold)
	float("REFERENCE_FREQUENCY", &s.Pitch.ReferenceFrequency)
	integer("REFERENCE_INDEX", &s.Pitch.ReferenceIndex)
	float("OCTAVE_CORRECTION", &s.Pitch.OctaveCorrection)

	if v, ok := lookup(EnvPrefix + "INTERVAL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sINTERVAL: %w", EnvPrefix, err))
		} else {
			s.Interval = d
		}
	}

	return errors.Join(errs...)
}

// Validate reports the first unusable setting.
func (s Settings) Validate() error {
	if s.BufferSize < pitch.MinBufferLength {
		return fmt.Errorf("buffer size %d below minimum %d", s.BufferSize, pitch.MinBufferLength)
	}
	if s.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive, got %d", s.SampleRate)
	}
	if s.Channels < 1 {
		return fmt.Errorf("channels must be at least 1, got %d", s.Channels)
	}
	switch s.Backend {
	case BackendPortAudio, BackendMalgo, BackendTone:
	default:
		return fmt.Errorf("unknown backend %q", s.Backend)
	}
	if s.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", s.Interval)
	}
	return s.Pitch.Validate()
}
