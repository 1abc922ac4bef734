package tuner

import (
	"errors"
	"fmt"
)

// ErrInvalidFraming is returned for non-positive frame or hop sizes.
var ErrInvalidFraming = errors.New("invalid framing")

// Frames splits samples into consecutive windows of size samples, each
// starting hop samples after the previous one. A trailing partial window is
// dropped. The windows share memory with samples.
func Frames(samples []float32, size, hop int) ([][]float32, error) {
	if size <= 0 || hop <= 0 {
		return nil, fmt.Errorf("%w: size %d, hop %d", ErrInvalidFraming, size, hop)
	}

	var frames [][]float32
	for start := 0; start+size <= len(samples); start += hop {
		frames = append(frames, samples[start:start+size:start+size])
	}
	return frames, nil
}
