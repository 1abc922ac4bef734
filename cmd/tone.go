package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/0xlemi/yinnote/internal/audio"
	"github.com/0xlemi/yinnote/internal/config"
	"github.com/0xlemi/yinnote/internal/pitch"
)

func newToneCmd(s *config.Settings) *cobra.Command {
	var amplitude float64

	cmd := &cobra.Command{
		Use:   "tone",
		Short: "Run the detector on a synthesized sine and print the result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			detector, err := pitch.NewYINDetector(s.Pitch)
			if err != nil {
				return err
			}

			gen := audio.NewToneCapturer(s.ToneFrequency, amplitude, s.BufferSize, s.SampleRate)
			if err := gen.Start(); err != nil {
				return err
			}
			defer gen.Stop()

			buf, err := gen.GetBuffer()
			if err != nil {
				return err
			}
			det, err := detector.DetectPitch(buf)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !det.Found {
				fmt.Fprintf(out, "%.2f Hz: no pitch found\n", s.ToneFrequency)
				return nil
			}
			fmt.Fprintf(out, "%.2f Hz: estimated %.2f Hz (lag %.3f, confidence %.3f) -> %s (index %d, %+.1f cents)\n",
				s.ToneFrequency, det.Frequency, det.Lag, det.Confidence, det.Note, det.Note.Index, det.Note.Cents)
			return nil
		},
	}

	cmd.Flags().Float64Var(&s.ToneFrequency, "freq", s.ToneFrequency, "tone frequency in Hz")
	cmd.Flags().Float64Var(&amplitude, "amp", 0.5, "tone amplitude")

	return cmd
}
