package pitch

import (
	"fmt"
	"math"
)

// MinBufferLength is the shortest buffer that yields at least three lags.
const MinBufferLength = 12

// Result is the outcome of one estimation. Found is false when the frame
// has no detectable pitch, which is a normal outcome for silence, noise or
// unvoiced input.
type Result struct {
	Found      bool
	Frequency  float64 // Hz
	Lag        float64 // Refined period in samples
	Confidence float64 // 1 - d'[tau]; higher is more periodic
}

// NoPitch is the result reported for frames without a periodic component.
var NoPitch = Result{}

// Estimator runs the YIN method over single frames. It holds no mutable
// state and may be shared between goroutines.
type Estimator struct {
	threshold float64
}

// NewEstimator creates an estimator from cfg.
func NewEstimator(cfg Config) (*Estimator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Estimator{threshold: cfg.Threshold}, nil
}

// Threshold returns the acceptance threshold in use.
func (e *Estimator) Threshold() float64 {
	return e.threshold
}

// Estimate returns the fundamental frequency of samples captured at
// sampleRate. It allocates its own working storage.
func (e *Estimator) Estimate(samples []float32, sampleRate float64) (Result, error) {
	return e.EstimateInto(samples, sampleRate, nil)
}

// EstimateInto is Estimate with caller-owned scratch storage. The scratch
// slice is overwritten before it is read, so it can be reused across frames,
// but not by concurrent calls.
func (e *Estimator) EstimateInto(samples []float32, sampleRate float64, scratch []float64) (Result, error) {
	if WindowLength(len(samples)) < 3 {
		return NoPitch, fmt.Errorf("%w: got %d samples, need at least %d", ErrBufferTooShort, len(samples), MinBufferLength)
	}
	if !isPositive(sampleRate) {
		return NoPitch, fmt.Errorf("%w: %v", ErrInvalidSampleRate, sampleRate)
	}

	d := Difference(samples, scratch)
	if !CumulativeMeanNormalize(d) {
		return NoPitch, nil
	}

	tau, confidence, ok := AbsoluteThreshold(d, e.threshold)
	if !ok {
		return NoPitch, nil
	}

	lag := ParabolicInterpolation(d, tau)
	if !(lag > 0) {
		return NoPitch, nil
	}

	frequency := sampleRate / lag
	if math.IsInf(frequency, 0) || math.IsNaN(frequency) {
		return NoPitch, nil
	}

	return Result{
		Found:      true,
		Frequency:  frequency,
		Lag:        lag,
		Confidence: confidence,
	}, nil
}
