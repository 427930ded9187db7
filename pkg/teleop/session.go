package teleop

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/gwillem/turtle-teleop/pkg/rawterm"
	"github.com/gwillem/turtle-teleop/pkg/sim"
	"github.com/gwillem/turtle-teleop/pkg/turtle"
)

// InterruptExitCode is the process exit code after an interrupt.
const InterruptExitCode = 130

// Session runs one teleoperation: spawn the turtle, put the keyboard in raw
// mode, drive the turtle until quit, then restore the terminal and kill the
// turtle. Every way out, including an interrupt signal, goes through the
// same teardown, which runs once.
type Session struct {
	Name         string
	Sim          sim.Simulator // closed by Run
	Input        *os.File      // keyboard; must be a terminal
	Keys         io.Reader     // read instead of Input when set
	ScaleLinear  float64
	ScaleAngular float64
	Logger       zerolog.Logger

	// TurtleOptions are passed to turtle.Create.
	TurtleOptions []turtle.Option

	// OnReady is called once raw mode is active, before the first read.
	OnReady func()

	// Signals delivers interrupts. Nil means SIGINT, SIGTERM and SIGHUP.
	Signals <-chan os.Signal
	// Exit ends the process after an interrupt. Nil means os.Exit.
	Exit func(code int)

	teardownOnce sync.Once
	published    int
}

// Published returns the number of velocity commands sent by the last Run.
func (s *Session) Published() int {
	return s.published
}

// Run blocks until the quit key is pressed (nil) or reading the keyboard
// fails (error). On an interrupt it tears down and calls Exit without
// returning.
func (s *Session) Run(ctx context.Context) error {
	log := s.Logger

	// Claim the signals up front so an interrupt during spawn is held until
	// the handler can tear down.
	sigs := s.Signals
	if sigs == nil {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
		defer signal.Stop(ch)
		sigs = ch
	}
	exit := s.Exit
	if exit == nil {
		exit = os.Exit
	}

	opts := append([]turtle.Option{turtle.WithLogger(log)}, s.TurtleOptions...)
	mgr, err := turtle.Create(ctx, s.Sim, s.Name, opts...)
	if err != nil {
		s.Sim.Close()
		return err
	}

	var term *rawterm.Terminal
	teardown := func() {
		s.teardownOnce.Do(func() {
			if term != nil {
				if err := term.Restore(); err != nil {
					log.Error().Err(err).Msg("Failed to restore terminal")
				}
			}
			mgr.Destroy(context.WithoutCancel(ctx))
			if err := s.Sim.Close(); err != nil {
				log.Debug().Err(err).Msg("Close simulator")
			}
		})
	}
	defer teardown()

	term, err = rawterm.MakeRaw(int(s.Input.Fd()))
	if err != nil {
		return fmt.Errorf("keyboard: %w", err)
	}

	// term is assigned before the handler starts and never changes after.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case sig := <-sigs:
			log.Info().Str("signal", sig.String()).Msg("Interrupted")
			teardown()
			exit(InterruptExitCode)
		case <-stop:
		}
	}()

	ctrl, err := NewController(Config{
		Topic:        mgr.Topic(),
		ScaleLinear:  s.ScaleLinear,
		ScaleAngular: s.ScaleAngular,
		Publisher:    s.Sim,
		Logger:       log,
	})
	if err != nil {
		return err
	}

	if s.OnReady != nil {
		s.OnReady()
	}

	var keys io.Reader = s.Input
	if s.Keys != nil {
		keys = s.Keys
	}
	err = ctrl.Run(ctx, keys)
	s.published = ctrl.Published()
	teardown()
	if err != nil {
		log.Error().Err(err).Msg("Keyboard read failed")
		return err
	}
	log.Info().Int("commands", s.published).Msg("Teleoperation stopped")
	return nil
}
