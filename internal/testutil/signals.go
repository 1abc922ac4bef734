// Package testutil generates deterministic signals for tests.
package testutil

import (
	"bytes"
	"encoding/binary"
	"math"
	"math/rand"
)

// Sine generates a sine wave of freqHz sampled at sampleRate.
func Sine(freqHz, sampleRate, amplitude float64, length int) []float32 {
	out := make([]float32, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = float32(amplitude * math.Sin(step*float64(i)))
	}
	return out
}

// Harmonic generates a tone with the given relative partial amplitudes;
// partials[0] is the fundamental.
func Harmonic(freqHz, sampleRate float64, partials []float64, length int) []float32 {
	out := make([]float32, length)
	for k, amp := range partials {
		step := 2 * math.Pi * freqHz * float64(k+1) / sampleRate
		for i := range out {
			out[i] += float32(amp * math.Sin(step*float64(i)))
		}
	}
	return out
}

// Noise generates uniform white noise with a fixed seed.
func Noise(seed int64, amplitude float64, length int) []float32 {
	out := make([]float32, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = float32((rng.Float64()*2 - 1) * amplitude)
	}
	return out
}

// DC generates a constant signal.
func DC(value float32, length int) []float32 {
	out := make([]float32, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// WAV16 encodes interleaved samples as a 16-bit PCM WAV file.
func WAV16(samples []float32, sampleRate, channels int) []byte {
	var buf bytes.Buffer
	dataSize := uint32(len(samples) * 2)

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, 36+dataSize)
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate*channels*2))
	binary.Write(&buf, binary.LittleEndian, uint16(channels*2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, dataSize)
	for _, s := range samples {
		v := math.Max(-1, math.Min(1, float64(s)))
		binary.Write(&buf, binary.LittleEndian, int16(v*math.MaxInt16))
	}

	return buf.Bytes()
}
