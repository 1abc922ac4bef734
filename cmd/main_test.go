package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/0xlemi/yinnote/internal/audio"
	"github.com/0xlemi/yinnote/internal/pitch"
	"github.com/0xlemi/yinnote/internal/testutil"
	"github.com/0xlemi/yinnote/internal/tuner"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestToneCommand(t *testing.T) {
	out, err := execute(t, "tone", "--freq", "220")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "-> A2 (index 45") {
		t.Fatalf("output = %q, want A2", out)
	}
}

func TestToneCommandEnvOverride(t *testing.T) {
	t.Setenv("YINNOTE_OCTAVE_CORRECTION", "1")

	out, err := execute(t, "tone", "--freq", "220")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "-> A3 (index 57") {
		t.Fatalf("output = %q, want A3 without octave correction", out)
	}

	// An explicit flag beats the environment.
	out, err = execute(t, "tone", "--freq", "220", "--octave-correction", "2")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "-> A2 (") {
		t.Fatalf("output = %q, want A2 from the flag", out)
	}
}

func TestToneCommandNoPitch(t *testing.T) {
	// A single cycle does not fit in the quarter-window of lags.
	out, err := execute(t, "tone", "--freq", "20", "--buffer", "256")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "no pitch found") {
		t.Fatalf("output = %q", out)
	}
}

func TestInvalidSettings(t *testing.T) {
	for _, args := range [][]string{
		{"tone", "--buffer", "4"},
		{"tone", "--threshold", "1.5"},
		{"tone", "--rate", "0"},
	} {
		if _, err := execute(t, args...); err == nil {
			t.Fatalf("%v: expected error", args)
		}
	}

	t.Setenv("YINNOTE_BUFFER_SIZE", "lots")
	if _, err := execute(t, "tone"); err == nil {
		t.Fatal("malformed env override accepted")
	}
}

func TestAnalyzeCommandJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.wav")
	// 441 Hz maps to A3 once halved.
	wav := testutil.WAV16(testutil.Sine(441, 44100, 0.5, 4096), 44100, 1)
	if err := os.WriteFile(path, wav, 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "analyze", path, "--json")
	if err != nil {
		t.Fatal(err)
	}

	var records []frameRecord
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		var rec frameRecord
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			t.Fatalf("line %q: %v", sc.Text(), err)
		}
		records = append(records, rec)
	}
	if len(records) != 4 {
		t.Fatalf("got %d records, want 4:\n%s", len(records), out)
	}
	for i, rec := range records {
		if !rec.Found || rec.Note != "A3" || rec.NoteIndex == nil || *rec.NoteIndex != 57 {
			t.Fatalf("record %d = %+v", i, rec)
		}
	}
}

func TestAnalyzeCommandMissingFile(t *testing.T) {
	if _, err := execute(t, "analyze", filepath.Join(t.TempDir(), "nope.wav")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestWriteReadingsText(t *testing.T) {
	n, err := pitch.DefaultMapper().Note(440)
	if err != nil {
		t.Fatal(err)
	}
	readings := []tuner.Reading{
		{At: 0, Silent: true},
		{At: 500 * time.Millisecond, Level: audio.Level{DB: -20}},
		{
			At: time.Second,
			Detection: pitch.Detection{
				Result: pitch.Result{Found: true, Frequency: 440, Confidence: 0.99},
				Note:   &n,
			},
		},
	}

	var buf bytes.Buffer
	if err := writeReadings(&buf, readings, false); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	if !strings.HasSuffix(lines[0], "silent") || !strings.HasSuffix(lines[1], "--") {
		t.Fatalf("unexpected silent/unvoiced lines:\n%s", buf.String())
	}
	if !strings.Contains(lines[2], "440.00 Hz") || !strings.Contains(lines[2], "A3") {
		t.Fatalf("note line = %q", lines[2])
	}
}
