package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/0xlemi/yinnote/internal/config"
	"github.com/0xlemi/yinnote/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	settings := config.Default()

	root := &cobra.Command{
		Use:           "yinnote",
		Short:         "YinNote - musical note detector",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := applyEnv(cmd.Flags(), &settings); err != nil {
				return err
			}
			return settings.Validate()
		},
	}

	pitchFlags(root.PersistentFlags(), &settings)
	root.PersistentFlags().StringVar(&settings.LogLevel, "log-level", settings.LogLevel, "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&settings.LogFile, "log-file", settings.LogFile, "write logs to this file")

	root.AddCommand(
		newListenCmd(&settings),
		newAnalyzeCmd(&settings),
		newToneCmd(&settings),
		newDevicesCmd(),
	)

	return root
}

func pitchFlags(fs *pflag.FlagSet, s *config.Settings) {
	fs.IntVar(&s.BufferSize, "buffer", s.BufferSize, "samples per analysis frame")
	fs.IntVar(&s.SampleRate, "rate", s.SampleRate, "sample rate in Hz")
	fs.Float64Var(&s.Pitch.Threshold, "threshold", s.Pitch.Threshold, "YIN threshold")
	fs.Float64Var(&s.Pitch.ReferenceFrequency, "reference-frequency", s.Pitch.ReferenceFrequency, "frequency of the reference note in Hz")
	fs.IntVar(&s.Pitch.ReferenceIndex, "reference-index", s.Pitch.ReferenceIndex, "note index of the reference note")
	fs.Float64Var(&s.Pitch.OctaveCorrection, "octave-correction", s.Pitch.OctaveCorrection, "divide detected frequencies by this before note mapping")
	fs.Float64Var(&s.SilenceDB, "silence-db", s.SilenceDB, "frames quieter than this are reported as silent")
}

// applyEnv fills settings from YINNOTE_* variables, leaving values that
// were set explicitly on the command line untouched.
func applyEnv(fs *pflag.FlagSet, s *config.Settings) error {
	fromFlags := *s
	if err := s.FromEnv(os.LookupEnv); err != nil {
		return err
	}

	fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "buffer":
			s.BufferSize = fromFlags.BufferSize
		case "rate":
			s.SampleRate = fromFlags.SampleRate
		case "threshold":
			s.Pitch.Threshold = fromFlags.Pitch.Threshold
		case "reference-frequency":
			s.Pitch.ReferenceFrequency = fromFlags.Pitch.ReferenceFrequency
		case "reference-index":
			s.Pitch.ReferenceIndex = fromFlags.Pitch.ReferenceIndex
		case "octave-correction":
			s.Pitch.OctaveCorrection = fromFlags.Pitch.OctaveCorrection
		case "silence-db":
			s.SilenceDB = fromFlags.SilenceDB
		case "log-level":
			s.LogLevel = fromFlags.LogLevel
		case "log-file":
			s.LogFile = fromFlags.LogFile
		case "backend":
			s.Backend = fromFlags.Backend
		case "device":
			s.Device = fromFlags.Device
		case "amplification":
			s.Amplification = fromFlags.Amplification
		case "interval":
			s.Interval = fromFlags.Interval
		case "channels":
			s.Channels = fromFlags.Channels
		}
	})
	return nil
}

// setupLogging installs the global logger. Logs go to the configured file,
// otherwise to fallback. The returned function closes the file.
func setupLogging(s *config.Settings, fallback io.Writer) (func(), error) {
	level, err := logging.ParseLevel(s.LogLevel)
	if err != nil {
		return nil, err
	}

	w, closer := fallback, func() {}
	if s.LogFile != "" {
		f, err := os.OpenFile(s.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		w, closer = f, func() { f.Close() }
	}

	logger := logging.New(w)
	logger.SetLevel(level)
	logging.SetGlobalLogger(logger)
	return closer, nil
}
