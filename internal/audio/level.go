package audio

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// SilenceDB is the level reported for buffers with no measurable energy.
const SilenceDB = -100.0

// Level describes the loudness of a buffer.
type Level struct {
	RMS  float64
	Peak float64
	DB   float64 // 20*log10(RMS), SilenceDB when RMS is negligible
}

// MeasureLevel calculates RMS, peak and dB level of samples.
func MeasureLevel(samples []float32) Level {
	if len(samples) == 0 {
		return Level{DB: SilenceDB}
	}

	x := make([]float64, len(samples))
	for i, s := range samples {
		x[i] = float64(s)
	}

	rms := floats.Norm(x, 2) / math.Sqrt(float64(len(x)))
	peak := math.Max(floats.Max(x), -floats.Min(x))

	db := SilenceDB
	if rms > 1e-7 {
		db = 20 * math.Log10(rms)
	}

	return Level{RMS: rms, Peak: peak, DB: db}
}
