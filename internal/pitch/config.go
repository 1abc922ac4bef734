package pitch

import (
	"fmt"
	"math"
)

// Default tuning constants.
const (
	DefaultThreshold          = 0.1
	DefaultReferenceFrequency = 440.0
	DefaultReferenceIndex     = 69
	DefaultOctaveCorrection   = 2.0
)

// Config holds the estimator and note mapping parameters.
type Config struct {
	Threshold          float64 // YIN acceptance threshold on the normalized difference
	ReferenceFrequency float64 // Frequency of the reference note in Hz
	ReferenceIndex     int     // Note index of the reference note
	OctaveCorrection   float64 // Divisor applied to a frequency before note mapping
}

// DefaultConfig returns the configuration the tuner ships with.
func DefaultConfig() Config {
	return Config{
		Threshold:          DefaultThreshold,
		ReferenceFrequency: DefaultReferenceFrequency,
		ReferenceIndex:     DefaultReferenceIndex,
		OctaveCorrection:   DefaultOctaveCorrection,
	}
}

// Validate checks that every parameter is usable.
func (c Config) Validate() error {
	if !(c.Threshold > 0 && c.Threshold < 1) {
		return fmt.Errorf("%w: threshold %v not in (0, 1)", ErrInvalidConfig, c.Threshold)
	}
	return c.Mapper().Validate()
}

// Mapper returns the note mapper described by c.
func (c Config) Mapper() Mapper {
	return Mapper{
		ReferenceFrequency: c.ReferenceFrequency,
		ReferenceIndex:     c.ReferenceIndex,
		OctaveCorrection:   c.OctaveCorrection,
	}
}

func isPositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
