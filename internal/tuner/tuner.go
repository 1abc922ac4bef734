// Package tuner drives pitch detection over a stream of audio buffers.
package tuner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/0xlemi/yinnote/internal/audio"
	"github.com/0xlemi/yinnote/internal/logging"
	"github.com/0xlemi/yinnote/internal/pitch"
)

// Reading is the outcome of analysing one buffer.
type Reading struct {
	At     time.Duration // Offset from the start of the session or file
	Level  audio.Level
	Silent bool // Level was below the silence gate; no estimation ran
	pitch.Detection
}

// Tuner repeatedly pulls buffers from a Capturer and detects their pitch.
// A Tuner is driven by a single goroutine.
type Tuner struct {
	src       audio.Capturer
	detector  pitch.Detector
	interval  time.Duration
	silenceDB float64
	log       logging.Logger
}

// Option customizes a Tuner.
type Option func(*Tuner)

// WithInterval sets how often a buffer is pulled.
func WithInterval(d time.Duration) Option {
	return func(t *Tuner) { t.interval = d }
}

// WithSilenceDB sets the level below which a buffer is reported as silent.
func WithSilenceDB(db float64) Option {
	return func(t *Tuner) { t.silenceDB = db }
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(t *Tuner) { t.log = l }
}

// New creates a tuner reading from src.
func New(src audio.Capturer, detector pitch.Detector, opts ...Option) *Tuner {
	t := &Tuner{
		src:       src,
		detector:  detector,
		interval:  50 * time.Millisecond,
		silenceDB: -50,
		log:       logging.GetGlobalLogger(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.log = t.log.WithFields(logging.Fields{"component": "tuner"})
	return t
}

// Process analyses a single buffer.
func (t *Tuner) Process(buf *audio.AudioBuffer, at time.Duration) (Reading, error) {
	r := Reading{At: at}
	if err := checkBuffer(buf); err != nil {
		return r, err
	}

	r.Level = audio.MeasureLevel(buf.Samples)
	if r.Level.DB < t.silenceDB {
		r.Silent = true
		return r, nil
	}

	det, err := t.detector.DetectPitch(buf)
	if err != nil {
		return r, err
	}
	r.Detection = det
	return r, nil
}

// Run pulls a buffer every interval and hands each reading to sink until
// ctx is done. Capture hiccups are logged and skipped; invalid buffers are
// skipped as well. Run returns ctx.Err() when cancelled.
func (t *Tuner) Run(ctx context.Context, sink func(Reading)) error {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			buf, err := t.src.GetBuffer()
			if err != nil {
				if errors.Is(err, audio.ErrNoData) {
					continue
				}
				if errors.Is(err, audio.ErrNotCapturing) {
					return err
				}
				t.log.Warn("capture failed", logging.Fields{"error": err})
				continue
			}

			r, err := t.Process(buf, now.Sub(start))
			if err != nil {
				t.log.Debug("buffer skipped", logging.Fields{"error": err, "samples": len(buf.Samples)})
				continue
			}
			if r.Found {
				t.log.Debug("pitch", logging.Fields{
					"hz":         r.Frequency,
					"note":       r.Note.String(),
					"confidence": r.Confidence,
				})
			}
			sink(r)
		}
	}
}

// Analyze splits buf into frames of size samples advancing by hop and
// detects the pitch of each frame. Silent frames are reported with Silent
// set.
func (t *Tuner) Analyze(buf *audio.AudioBuffer, size, hop int) ([]Reading, error) {
	if err := checkBuffer(buf); err != nil {
		return nil, err
	}
	frames, err := Frames(buf.Samples, size, hop)
	if err != nil {
		return nil, err
	}

	readings := make([]Reading, 0, len(frames))
	for i, frame := range frames {
		at := time.Duration(float64(i*hop) / float64(buf.SampleRate) * float64(time.Second))
		r, err := t.Process(&audio.AudioBuffer{Samples: frame, SampleRate: buf.SampleRate}, at)
		if err != nil {
			return nil, err
		}
		readings = append(readings, r)
	}
	return readings, nil
}

// checkBuffer rejects buffers the detector could never analyse, so that the
// silence gate does not hide them.
func checkBuffer(buf *audio.AudioBuffer) error {
	switch {
	case buf == nil || len(buf.Samples) == 0:
		return pitch.ErrEmptyBuffer
	case len(buf.Samples) < pitch.MinBufferLength:
		return fmt.Errorf("%w: %d samples, need %d", pitch.ErrBufferTooShort, len(buf.Samples), pitch.MinBufferLength)
	case buf.SampleRate <= 0:
		return fmt.Errorf("%w: %d", pitch.ErrInvalidSampleRate, buf.SampleRate)
	}
	return nil
}
