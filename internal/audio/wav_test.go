package audio

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/0xlemi/yinnote/internal/testutil"
)

func TestReadWAVMono(t *testing.T) {
	// 441 Hz at 44.1 kHz: 40 whole periods, so the source has no DC.
	sine := testutil.Sine(441, 44100, 0.5, 4000)

	buf, err := ReadWAV(bytes.NewReader(testutil.WAV16(sine, 44100, 1)))
	if err != nil {
		t.Fatalf("ReadWAV: %v", err)
	}
	if buf.SampleRate != 44100 {
		t.Fatalf("SampleRate = %d, want 44100", buf.SampleRate)
	}
	if len(buf.Samples) != len(sine) {
		t.Fatalf("len = %d, want %d", len(buf.Samples), len(sine))
	}

	mean := 0.0
	for _, s := range buf.Samples {
		mean += float64(s)
	}
	mean /= float64(len(buf.Samples))
	if math.Abs(mean) > 1e-4 {
		t.Fatalf("DC offset %v not removed", mean)
	}

	// Decoded samples follow the source up to a constant scale.
	if math.Abs(float64(buf.Samples[0])) > 1e-3 {
		t.Fatalf("first sample = %v, want about 0", buf.Samples[0])
	}
	if MeasureLevel(buf.Samples).RMS < 0.1 {
		t.Fatalf("decoded signal unexpectedly quiet: %+v", MeasureLevel(buf.Samples))
	}
}

func TestReadWAVStereoDownmix(t *testing.T) {
	left := testutil.Sine(330, 22050, 0.5, 1024)
	interleaved := make([]float32, 0, 2*len(left))
	for _, s := range left {
		interleaved = append(interleaved, s, s)
	}

	buf, err := ReadWAV(bytes.NewReader(testutil.WAV16(interleaved, 22050, 2)))
	if err != nil {
		t.Fatalf("ReadWAV: %v", err)
	}
	if buf.SampleRate != 22050 || len(buf.Samples) != len(left) {
		t.Fatalf("rate %d len %d, want 22050 and %d", buf.SampleRate, len(buf.Samples), len(left))
	}
}

func TestReadWAVRejectsGarbage(t *testing.T) {
	if _, err := ReadWAV(strings.NewReader("definitely not a wav file")); err == nil {
		t.Fatal("expected error for garbage input")
	}
}

func TestReadWAVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	data := testutil.WAV16(testutil.Sine(440, 8000, 0.5, 800), 8000, 1)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	buf, err := ReadWAVFile(path)
	if err != nil {
		t.Fatalf("ReadWAVFile: %v", err)
	}
	if len(buf.Samples) != 800 || buf.SampleRate != 8000 {
		t.Fatalf("rate %d len %d", buf.SampleRate, len(buf.Samples))
	}

	if _, err := ReadWAVFile(filepath.Join(t.TempDir(), "missing.wav")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
