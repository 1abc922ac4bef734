package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/0xlemi/yinnote/internal/audio"
	"github.com/0xlemi/yinnote/internal/audio/device"
	"github.com/0xlemi/yinnote/internal/config"
	"github.com/0xlemi/yinnote/internal/logging"
	"github.com/0xlemi/yinnote/internal/pitch"
	"github.com/0xlemi/yinnote/internal/tuner"
	"github.com/0xlemi/yinnote/internal/ui"
)

func newListenCmd(s *config.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Detect notes from a live input in a terminal view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runListen(cmd.Context(), s)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&s.Backend, "backend", s.Backend, "capture backend (portaudio, malgo, tone)")
	fs.StringVar(&s.Device, "device", s.Device, "input device name (malgo backend)")
	fs.IntVar(&s.Channels, "channels", s.Channels, "input channels, mixed down to mono")
	fs.Float64Var(&s.Amplification, "amplification", s.Amplification, "input gain")
	fs.DurationVar(&s.Interval, "interval", s.Interval, "time between analysed frames")
	fs.Float64Var(&s.ToneFrequency, "tone", s.ToneFrequency, "frequency generated by the tone backend")

	return cmd
}

// newCapturer opens the configured capture backend.
func newCapturer(s *config.Settings) (audio.Capturer, error) {
	switch s.Backend {
	case config.BackendPortAudio:
		c, err := device.NewPortAudioCapturer(s.BufferSize, s.SampleRate, s.Channels)
		if err != nil {
			return nil, err
		}
		c.SetAmplification(float32(s.Amplification))
		return c, nil
	case config.BackendMalgo:
		log := logging.WithFields(logging.Fields{"component": "malgo"})
		c, err := device.NewMalgoCapturer(s.Device, s.BufferSize, s.SampleRate, s.Channels, func(msg string) {
			log.Debug(msg)
		})
		if err != nil {
			return nil, err
		}
		c.SetAmplification(float32(s.Amplification))
		return c, nil
	case config.BackendTone:
		return audio.NewToneCapturer(s.ToneFrequency, 0.5, s.BufferSize, s.SampleRate), nil
	}
	return nil, fmt.Errorf("unknown backend %q", s.Backend)
}

func runListen(parent context.Context, s *config.Settings) error {
	// The terminal belongs to the UI; logs only go to --log-file.
	closeLog, err := setupLogging(s, io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	detector, err := pitch.NewYINDetector(s.Pitch)
	if err != nil {
		return err
	}

	capturer, err := newCapturer(s)
	if err != nil {
		return fmt.Errorf("create audio capturer: %w", err)
	}
	if err := capturer.Start(); err != nil {
		return fmt.Errorf("start audio capture: %w", err)
	}
	defer capturer.Stop()

	logging.Info("listening", logging.Fields{
		"backend": s.Backend,
		"buffer":  s.BufferSize,
		"rate":    s.SampleRate,
	})

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	t := tuner.New(capturer, detector,
		tuner.WithInterval(s.Interval),
		tuner.WithSilenceDB(s.SilenceDB),
	)
	p := tea.NewProgram(ui.NewModel("YinNote - Musical Note Detector"), tea.WithAltScreen(), tea.WithContext(ctx))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := t.Run(ctx, func(r tuner.Reading) {
			if r.Silent {
				p.Send(ui.ClearNoteMsg{})
			}
			p.Send(ui.ReadingMsg(r))
		})
		p.Quit()
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		_, err := p.Run()
		stop()
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return err
	})

	return g.Wait()
}
