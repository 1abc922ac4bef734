// Package device captures live audio from hardware through PortAudio or
// miniaudio. Both backends need cgo.
package device

import (
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"

	"github.com/0xlemi/yinnote/internal/audio"
)

// PortAudioCapturer implements audio capture using PortAudio
type PortAudioCapturer struct {
	isCapturing   bool
	stream        *portaudio.Stream
	buffer        *audio.AudioBuffer
	bufferSize    int
	sampleRate    int
	channels      int
	bufferMutex   sync.Mutex
	amplification float32 // Audio signal amplification factor
}

// NewPortAudioCapturer creates a new audio capturer using PortAudio.
// bufferSize is the number of mono frames delivered per buffer.
func NewPortAudioCapturer(bufferSize, sampleRate, channels int) (*PortAudioCapturer, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize portaudio: %w", err)
	}

	capturer := &PortAudioCapturer{
		buffer: &audio.AudioBuffer{
			Samples:    make([]float32, 0, bufferSize),
			SampleRate: sampleRate,
		},
		bufferSize:    bufferSize,
		sampleRate:    sampleRate,
		channels:      channels,
		amplification: 1.0,
	}

	return capturer, nil
}

// Start begins audio capture
func (c *PortAudioCapturer) Start() error {
	if c.isCapturing {
		return audio.ErrAlreadyCapturing
	}

	var err error
	c.stream, err = portaudio.OpenDefaultStream(
		c.channels, // input channels
		0,          // output channels
		float64(c.sampleRate),
		c.bufferSize, // frames per buffer
		c.processAudio,
	)
	if err != nil {
		return fmt.Errorf("open input stream: %w", err)
	}

	if err := c.stream.Start(); err != nil {
		c.stream.Close()
		return fmt.Errorf("start input stream: %w", err)
	}

	c.isCapturing = true
	return nil
}

// Stop ends audio capture and releases PortAudio.
func (c *PortAudioCapturer) Stop() error {
	if !c.isCapturing {
		return audio.ErrNotCapturing
	}

	if err := c.stream.Stop(); err != nil {
		return fmt.Errorf("stop input stream: %w", err)
	}
	if err := c.stream.Close(); err != nil {
		return fmt.Errorf("close input stream: %w", err)
	}
	if err := portaudio.Terminate(); err != nil {
		return fmt.Errorf("terminate portaudio: %w", err)
	}

	c.isCapturing = false
	return nil
}

// processAudio is the stream callback; it replaces the latest buffer.
func (c *PortAudioCapturer) processAudio(in, _ []float32) {
	c.bufferMutex.Lock()
	defer c.bufferMutex.Unlock()

	c.buffer.Samples = audio.Downmix(in, c.channels, c.amplification)
}

// GetBuffer returns a copy of the most recent buffer
func (c *PortAudioCapturer) GetBuffer() (*audio.AudioBuffer, error) {
	if !c.isCapturing {
		return nil, audio.ErrNotCapturing
	}

	c.bufferMutex.Lock()
	defer c.bufferMutex.Unlock()

	if len(c.buffer.Samples) == 0 {
		return nil, audio.ErrNoData
	}

	bufferCopy := &audio.AudioBuffer{
		Samples:    make([]float32, len(c.buffer.Samples)),
		SampleRate: c.buffer.SampleRate,
	}
	copy(bufferCopy.Samples, c.buffer.Samples)

	return bufferCopy, nil
}

// IsCapturing returns true if currently capturing audio
func (c *PortAudioCapturer) IsCapturing() bool {
	return c.isCapturing
}

// SetAmplification sets the audio amplification factor
func (c *PortAudioCapturer) SetAmplification(factor float32) {
	c.bufferMutex.Lock()
	defer c.bufferMutex.Unlock()

	c.amplification = audio.ClampGain(factor)
}
