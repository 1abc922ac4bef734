package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/0xlemi/yinnote/internal/audio"
	"github.com/0xlemi/yinnote/internal/config"
	"github.com/0xlemi/yinnote/internal/logging"
	"github.com/0xlemi/yinnote/internal/pitch"
	"github.com/0xlemi/yinnote/internal/tuner"
)

// frameRecord is the JSON form of one analysed frame.
type frameRecord struct {
	Time       float64 `json:"time"`
	Found      bool    `json:"found"`
	Frequency  float64 `json:"frequency,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	Note       string  `json:"note,omitempty"`
	NoteIndex  *int    `json:"note_index,omitempty"`
	Cents      float64 `json:"cents,omitempty"`
	LevelDB    float64 `json:"level_db"`
}

func newAnalyzeCmd(s *config.Settings) *cobra.Command {
	var (
		hop    int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "analyze FILE.wav",
		Short: "Detect the note of every frame of a WAV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			closeLog, err := setupLogging(s, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeLog()

			buf, err := audio.ReadWAVFile(args[0])
			if err != nil {
				return err
			}
			logging.Debug("decoded wav", logging.Fields{"samples": len(buf.Samples), "rate": buf.SampleRate})

			if hop <= 0 {
				hop = s.BufferSize
			}
			readings, err := analyze(s, buf, hop)
			if err != nil {
				return err
			}
			return writeReadings(cmd.OutOrStdout(), readings, asJSON)
		},
	}

	cmd.Flags().IntVar(&hop, "hop", 0, "samples between frame starts (default: buffer size)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit one JSON object per frame")

	return cmd
}

func analyze(s *config.Settings, buf *audio.AudioBuffer, hop int) ([]tuner.Reading, error) {
	detector, err := pitch.NewYINDetector(s.Pitch)
	if err != nil {
		return nil, err
	}
	t := tuner.New(nil, detector, tuner.WithSilenceDB(s.SilenceDB))
	return t.Analyze(buf, s.BufferSize, hop)
}

func writeReadings(w io.Writer, readings []tuner.Reading, asJSON bool) error {
	enc := json.NewEncoder(w)
	for _, r := range readings {
		if asJSON {
			rec := frameRecord{
				Time:    r.At.Seconds(),
				Found:   r.Found,
				LevelDB: r.Level.DB,
			}
			if r.Note != nil {
				index := r.Note.Index
				rec.Frequency = r.Frequency
				rec.Confidence = r.Confidence
				rec.Note = r.Note.String()
				rec.NoteIndex = &index
				rec.Cents = r.Note.Cents
			}
			if err := enc.Encode(rec); err != nil {
				return err
			}
			continue
		}

		var err error
		switch {
		case r.Note != nil:
			_, err = fmt.Fprintf(w, "%8.3fs  %8.2f Hz  %-4s %+6.1f cents  confidence %.2f\n",
				r.At.Seconds(), r.Frequency, r.Note, r.Note.Cents, r.Confidence)
		case r.Silent:
			_, err = fmt.Fprintf(w, "%8.3fs  silent\n", r.At.Seconds())
		default:
			_, err = fmt.Fprintf(w, "%8.3fs  --\n", r.At.Seconds())
		}
		if err != nil {
			return err
		}
	}
	return nil
}
