package audio

import (
	"errors"
	"math"
	"sync"
)

// Errors
var (
	ErrAlreadyCapturing = errors.New("audio capture already started")
	ErrNotCapturing     = errors.New("audio capture not started")
	ErrNoData           = errors.New("no audio data")
)

// AudioBuffer represents a buffer of audio samples
type AudioBuffer struct {
	Samples    []float32
	SampleRate int
}

// Capturer defines the interface for audio capture
type Capturer interface {
	// Start begins audio capture
	Start() error

	// Stop ends audio capture
	Stop() error

	// GetBuffer returns the current audio buffer
	GetBuffer() (*AudioBuffer, error)

	// IsCapturing returns true if currently capturing audio
	IsCapturing() bool
}

// ToneCapturer is a Capturer that synthesizes a sine wave instead of
// recording. Consecutive buffers are phase continuous.
type ToneCapturer struct {
	mu          sync.Mutex
	isCapturing bool
	frequency   float64
	amplitude   float64
	bufferSize  int
	sampleRate  int
	phase       float64
}

// NewToneCapturer creates a tone generator producing bufferSize samples per
// buffer at sampleRate.
func NewToneCapturer(frequency, amplitude float64, bufferSize, sampleRate int) *ToneCapturer {
	return &ToneCapturer{
		frequency:  frequency,
		amplitude:  amplitude,
		bufferSize: bufferSize,
		sampleRate: sampleRate,
	}
}

// Start begins audio capture
func (c *ToneCapturer) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isCapturing {
		return ErrAlreadyCapturing
	}
	c.isCapturing = true
	return nil
}

// Stop ends audio capture
func (c *ToneCapturer) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isCapturing {
		return ErrNotCapturing
	}
	c.isCapturing = false
	return nil
}

// SetFrequency changes the generated frequency from the next buffer on.
func (c *ToneCapturer) SetFrequency(frequency float64) {
	c.mu.Lock()
	c.frequency = frequency
	c.mu.Unlock()
}

// GetBuffer returns the next block of the tone
func (c *ToneCapturer) GetBuffer() (*AudioBuffer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isCapturing {
		return nil, ErrNotCapturing
	}

	step := 2 * math.Pi * c.frequency / float64(c.sampleRate)
	samples := make([]float32, c.bufferSize)
	for i := range samples {
		samples[i] = float32(c.amplitude * math.Sin(c.phase))
		c.phase = math.Mod(c.phase+step, 2*math.Pi)
	}

	return &AudioBuffer{Samples: samples, SampleRate: c.sampleRate}, nil
}

// IsCapturing returns true if currently capturing audio
func (c *ToneCapturer) IsCapturing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isCapturing
}

// Downmix averages interleaved channels into a mono buffer and applies gain.
func Downmix(in []float32, channels int, gain float32) []float32 {
	if channels < 1 {
		channels = 1
	}
	out := make([]float32, len(in)/channels)
	for i := range out {
		sum := float32(0)
		for ch := 0; ch < channels; ch++ {
			sum += in[i*channels+ch]
		}
		out[i] = (sum / float32(channels)) * gain
	}
	return out
}

// ClampGain keeps an amplification factor positive.
func ClampGain(factor float32) float32 {
	if factor < 0.1 {
		return 0.1
	}
	return factor
}
