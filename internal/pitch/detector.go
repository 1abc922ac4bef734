package pitch

import (
	"errors"

	"github.com/0xlemi/yinnote/internal/audio"
)

// Errors
var (
	ErrEmptyBuffer       = errors.New("empty audio buffer")
	ErrBufferTooShort    = errors.New("audio buffer too short")
	ErrInvalidSampleRate = errors.New("invalid sample rate")
	ErrInvalidFrequency  = errors.New("invalid frequency")
	ErrInvalidNote       = errors.New("invalid note")
	ErrInvalidConfig     = errors.New("invalid pitch configuration")
)

// Detection pairs an estimation result with the note it maps to. Note is nil
// when no pitch was found.
type Detection struct {
	Result
	Note *Note
}

// Detector defines the interface for pitch detection
type Detector interface {
	// DetectPitch analyzes an audio buffer and returns the detected note
	DetectPitch(buffer *audio.AudioBuffer) (Detection, error)
}

// YINDetector combines an Estimator and a Mapper. It keeps one scratch
// buffer between calls, so a YINDetector must not be used from more than
// one goroutine at a time.
type YINDetector struct {
	estimator *Estimator
	mapper    Mapper
	scratch   []float64
}

// NewYINDetector creates a new pitch detector
func NewYINDetector(cfg Config) (*YINDetector, error) {
	est, err := NewEstimator(cfg)
	if err != nil {
		return nil, err
	}
	return &YINDetector{
		estimator: est,
		mapper:    cfg.Mapper(),
	}, nil
}

// Mapper returns the note mapper used by d.
func (d *YINDetector) Mapper() Mapper {
	return d.mapper
}

// DetectPitch analyzes an audio buffer and returns the detected note
func (d *YINDetector) DetectPitch(buffer *audio.AudioBuffer) (Detection, error) {
	if buffer == nil || len(buffer.Samples) == 0 {
		return Detection{}, ErrEmptyBuffer
	}

	if n := WindowLength(len(buffer.Samples)); cap(d.scratch) < n {
		d.scratch = make([]float64, n)
	}
	res, err := d.estimator.EstimateInto(buffer.Samples, float64(buffer.SampleRate), d.scratch)
	if err != nil {
		return Detection{}, err
	}
	if !res.Found {
		return Detection{Result: res}, nil
	}

	note, err := d.mapper.Note(res.Frequency)
	if err != nil {
		return Detection{Result: res}, err
	}

	return Detection{Result: res, Note: &note}, nil
}
