package audio

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"

	"github.com/0xlemi/yinnote/internal/testutil"
)

func TestToneCapturerLifecycle(t *testing.T) {
	c := NewToneCapturer(440, 0.5, 256, 44100)

	if _, err := c.GetBuffer(); !errors.Is(err, ErrNotCapturing) {
		t.Fatalf("GetBuffer before Start: err = %v", err)
	}
	if err := c.Stop(); !errors.Is(err, ErrNotCapturing) {
		t.Fatalf("Stop before Start: err = %v", err)
	}
	if err := c.Start(); err != nil {
		t.Fatal(err)
	}
	if err := c.Start(); !errors.Is(err, ErrAlreadyCapturing) {
		t.Fatalf("second Start: err = %v", err)
	}
	if !c.IsCapturing() {
		t.Fatal("IsCapturing = false after Start")
	}
	if err := c.Stop(); err != nil {
		t.Fatal(err)
	}
	if c.IsCapturing() {
		t.Fatal("IsCapturing = true after Stop")
	}
}

func TestToneCapturerPhaseContinuous(t *testing.T) {
	c := NewToneCapturer(441, 0.8, 300, 44100)
	if err := c.Start(); err != nil {
		t.Fatal(err)
	}
	defer c.Stop()

	var got []float64
	for i := 0; i < 3; i++ {
		buf, err := c.GetBuffer()
		if err != nil {
			t.Fatal(err)
		}
		if buf.SampleRate != 44100 || len(buf.Samples) != 300 {
			t.Fatalf("buffer rate %d len %d", buf.SampleRate, len(buf.Samples))
		}
		for _, s := range buf.Samples {
			got = append(got, float64(s))
		}
	}

	ref := testutil.Sine(441, 44100, 0.8, 900)
	want := make([]float64, len(ref))
	for i, s := range ref {
		want[i] = float64(s)
	}
	if !floats.EqualApprox(got, want, 1e-5) {
		t.Fatal("consecutive buffers are not phase continuous")
	}
}

func TestDownmix(t *testing.T) {
	stereo := []float32{1, 3, 2, 4, -1, 1}

	if got := Downmix(stereo, 2, 1); !equal32(got, []float32{2, 3, 0}) {
		t.Fatalf("Downmix gain 1 = %v", got)
	}
	if got := Downmix(stereo, 2, 2); !equal32(got, []float32{4, 6, 0}) {
		t.Fatalf("Downmix gain 2 = %v", got)
	}
	if got := Downmix([]float32{0.5, -0.5}, 1, 1); !equal32(got, []float32{0.5, -0.5}) {
		t.Fatalf("mono passthrough = %v", got)
	}
	if got := Downmix([]float32{0.5, -0.5}, 0, 1); len(got) != 2 {
		t.Fatalf("channels 0 treated as %d frames", len(got))
	}
}

func TestClampGain(t *testing.T) {
	if g := ClampGain(-3); g != 0.1 {
		t.Fatalf("ClampGain(-3) = %v", g)
	}
	if g := ClampGain(4); g != 4 {
		t.Fatalf("ClampGain(4) = %v", g)
	}
}

func TestMeasureLevel(t *testing.T) {
	silent := MeasureLevel(make([]float32, 512))
	if silent.DB != SilenceDB || silent.RMS != 0 {
		t.Fatalf("silent level = %+v", silent)
	}
	if empty := MeasureLevel(nil); empty.DB != SilenceDB {
		t.Fatalf("empty level = %+v", empty)
	}

	// 441 Hz at 44.1 kHz is exactly 100 samples per period.
	l := MeasureLevel(testutil.Sine(441, 44100, 1, 1000))
	if math.Abs(l.RMS-1/math.Sqrt2) > 1e-3 {
		t.Fatalf("RMS = %v, want %v", l.RMS, 1/math.Sqrt2)
	}
	if math.Abs(l.Peak-1) > 1e-3 {
		t.Fatalf("Peak = %v, want 1", l.Peak)
	}
	if math.Abs(l.DB+3.0103) > 0.01 {
		t.Fatalf("DB = %v, want -3.01", l.DB)
	}

	neg := MeasureLevel([]float32{-0.5, 0.25})
	if neg.Peak != 0.5 {
		t.Fatalf("Peak of negative excursion = %v, want 0.5", neg.Peak)
	}
}

func equal32(a, b []float32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
