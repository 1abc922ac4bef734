package device

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/gen2brain/malgo"

	"github.com/0xlemi/yinnote/internal/audio"
)

// Device describes a capture device reported by miniaudio.
type Device struct {
	Name string
	info malgo.DeviceInfo
}

// MalgoCapturer implements audio capture using miniaudio through malgo.
type MalgoCapturer struct {
	mu            sync.Mutex
	backends      []malgo.Backend
	logf          func(string)
	ctx           *malgo.AllocatedContext
	device        *malgo.Device
	deviceName    string
	isCapturing   bool
	latest        []float32
	bufferSize    int
	sampleRate    int
	channels      int
	amplification float32
}

// NewMalgoCapturer creates a capturer for the named input device; an empty
// name selects the system default. logf receives miniaudio diagnostics and
// may be nil.
func NewMalgoCapturer(deviceName string, bufferSize, sampleRate, channels int, logf func(string)) (*MalgoCapturer, error) {
	if logf == nil {
		logf = func(string) {}
	}
	c := &MalgoCapturer{
		logf:          logf,
		deviceName:    deviceName,
		bufferSize:    bufferSize,
		sampleRate:    sampleRate,
		channels:      channels,
		amplification: 1.0,
	}
	if err := c.initContext(); err != nil {
		return nil, err
	}
	return c, nil
}

// initContext creates the miniaudio context if there is none. Stop releases
// the context, so a restarted capturer gets a fresh one.
func (c *MalgoCapturer) initContext() error {
	if c.ctx != nil {
		return nil
	}
	ctx, err := malgo.InitContext(c.backends, malgo.ContextConfig{}, func(message string) {
		c.logf(message)
	})
	if err != nil {
		return fmt.Errorf("initialize malgo: %w", err)
	}
	c.ctx = ctx
	return nil
}

// ListDevices returns the capture devices known to miniaudio.
func ListDevices() ([]Device, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(string) {})
	if err != nil {
		return nil, fmt.Errorf("initialize malgo: %w", err)
	}
	defer func() {
		_ = ctx.Uninit()
		ctx.Free()
	}()

	return captureDevices(ctx)
}

func captureDevices(ctx *malgo.AllocatedContext) ([]Device, error) {
	infos, err := ctx.Devices(malgo.Capture)
	if err != nil {
		return nil, fmt.Errorf("enumerate capture devices: %w", err)
	}

	devices := make([]Device, 0, len(infos))
	for _, info := range infos {
		name := info.Name()
		if name == "" {
			name = "Unknown input"
		}
		devices = append(devices, Device{Name: name, info: info})
	}
	return devices, nil
}

// Start begins audio capture
func (c *MalgoCapturer) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isCapturing {
		return audio.ErrAlreadyCapturing
	}
	if err := c.initContext(); err != nil {
		return err
	}

	config := malgo.DefaultDeviceConfig(malgo.Capture)
	config.Capture.Format = malgo.FormatF32
	config.Capture.Channels = uint32(c.channels)
	config.SampleRate = uint32(c.sampleRate)
	config.PeriodSizeInFrames = uint32(c.bufferSize)
	config.Alsa.NoMMap = 1

	if c.deviceName != "" {
		devices, err := captureDevices(c.ctx)
		if err != nil {
			return err
		}
		found := false
		for i := range devices {
			if devices[i].Name == c.deviceName {
				config.Capture.DeviceID = devices[i].info.ID.Pointer()
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("capture device %q not found", c.deviceName)
		}
	}

	callbacks := malgo.DeviceCallbacks{
		Data: func(_, input []byte, _ uint32) {
			c.processAudio(input)
		},
	}

	device, err := malgo.InitDevice(c.ctx.Context, config, callbacks)
	if err != nil {
		return fmt.Errorf("init device: %w", err)
	}
	if err := device.Start(); err != nil {
		device.Uninit()
		return fmt.Errorf("start device: %w", err)
	}

	c.device = device
	c.isCapturing = true
	return nil
}

// Stop ends audio capture and releases the miniaudio context.
func (c *MalgoCapturer) Stop() error {
	c.mu.Lock()
	if !c.isCapturing {
		c.mu.Unlock()
		return audio.ErrNotCapturing
	}
	device, ctx := c.device, c.ctx
	c.device, c.ctx = nil, nil
	c.isCapturing = false
	c.latest = nil
	c.mu.Unlock()

	// The data callback takes c.mu, so the device is stopped unlocked.
	err := device.Stop()
	device.Uninit()
	_ = ctx.Uninit()
	ctx.Free()

	if err != nil {
		return fmt.Errorf("stop device: %w", err)
	}
	return nil
}

// processAudio keeps the last bufferSize mono frames.
func (c *MalgoCapturer) processAudio(input []byte) {
	if len(input) == 0 {
		return
	}

	raw := make([]float32, len(input)/4)
	for i := range raw {
		raw[i] = math.Float32frombits(binary.LittleEndian.Uint32(input[i*4:]))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	mono := audio.Downmix(raw, c.channels, c.amplification)
	c.latest = append(c.latest, mono...)
	if excess := len(c.latest) - c.bufferSize; excess > 0 {
		c.latest = append(c.latest[:0], c.latest[excess:]...)
	}
}

// GetBuffer returns a copy of the most recent bufferSize frames
func (c *MalgoCapturer) GetBuffer() (*audio.AudioBuffer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isCapturing {
		return nil, audio.ErrNotCapturing
	}
	if len(c.latest) < c.bufferSize {
		return nil, audio.ErrNoData
	}

	samples := make([]float32, len(c.latest))
	copy(samples, c.latest)
	return &audio.AudioBuffer{Samples: samples, SampleRate: c.sampleRate}, nil
}

// IsCapturing returns true if currently capturing audio
func (c *MalgoCapturer) IsCapturing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isCapturing
}

// SetAmplification sets the audio amplification factor
func (c *MalgoCapturer) SetAmplification(factor float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.amplification = audio.ClampGain(factor)
}
