package audio

import (
	"fmt"
	"io"
	"os"

	"github.com/mjibson/go-dsp/wav"
)

// ReadWAV decodes a whole WAV stream into a mono buffer. Channels are
// averaged and the DC offset is removed.
func ReadWAV(r io.Reader) (*AudioBuffer, error) {
	w, err := wav.New(r)
	if err != nil {
		return nil, fmt.Errorf("read wav header: %w", err)
	}
	if w.Samples == 0 {
		return nil, ErrNoData
	}

	data, err := w.ReadFloats(w.Samples)
	if err != nil {
		return nil, fmt.Errorf("read wav samples: %w", err)
	}

	samples := Downmix(data, int(w.NumChannels), 1)
	removeDC(samples)

	return &AudioBuffer{
		Samples:    samples,
		SampleRate: int(w.SampleRate),
	}, nil
}

// ReadWAVFile opens path and decodes it with ReadWAV.
func ReadWAVFile(path string) (*AudioBuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := ReadWAV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return buf, nil
}

func removeDC(samples []float32) {
	if len(samples) == 0 {
		return
	}
	sum := 0.0
	for _, s := range samples {
		sum += float64(s)
	}
	mean := float32(sum / float64(len(samples)))
	for i := range samples {
		samples[i] -= mean
	}
}
