package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"enumflags/internal/prof"
	"enumflags/internal/trace"
)

type sessionKey struct{}

// session owns everything opened for one command run.
type session struct {
	tracer   trace.Tracer
	ring     *trace.RingTracer // nil без --trace-ring
	format   trace.Format
	profiler *prof.Session
	closed   bool
}

// setupSession reads the persistent trace and profiling flags and attaches
// the tracer to the command context.
func setupSession(cmd *cobra.Command, _ []string) error {
	root := cmd.Root()
	traceOutput, err := root.PersistentFlags().GetString("trace")
	if err != nil {
		return fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := root.PersistentFlags().GetString("trace-level")
	if err != nil {
		return fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	formatStr, err := root.PersistentFlags().GetString("trace-format")
	if err != nil {
		return fmt.Errorf("failed to get trace-format flag: %w", err)
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return fmt.Errorf("invalid trace level: %w", err)
	}
	// --trace без уровня включает фазы
	if level == trace.LevelOff && traceOutput != "" {
		level = trace.LevelPhase
	}
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return fmt.Errorf("invalid trace format: %w", err)
	}
	ringSize, err := root.PersistentFlags().GetInt("trace-ring")
	if err != nil {
		return fmt.Errorf("failed to get trace-ring flag: %w", err)
	}
	stream, err := trace.New(trace.Config{Level: level, Format: format, OutputPath: traceOutput})
	if err != nil {
		return fmt.Errorf("failed to create tracer: %w", err)
	}
	tracer := stream
	var ring *trace.RingTracer
	if ringSize > 0 {
		ringLevel := level
		if ringLevel == trace.LevelOff {
			ringLevel = trace.LevelDetail
		}
		ring = trace.NewRingTracer(ringSize, ringLevel)
		tracer = trace.NewMultiTracer(stream, ring)
	}

	var opts prof.Options
	if opts.CPU, err = root.PersistentFlags().GetString("cpu-profile"); err != nil {
		return err
	}
	if opts.Mem, err = root.PersistentFlags().GetString("mem-profile"); err != nil {
		return err
	}
	if opts.Trace, err = root.PersistentFlags().GetString("runtime-trace"); err != nil {
		return err
	}
	profiler, err := prof.Start(opts)
	if err != nil {
		_ = tracer.Close()
		return err
	}

	s := &session{tracer: tracer, ring: ring, format: format, profiler: profiler}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = trace.WithTracer(ctx, tracer)
	ctx = context.WithValue(ctx, sessionKey{}, s)
	cmd.SetContext(ctx)
	return nil
}

func finishSession(cmd *cobra.Command, _ []string) error {
	return closeSession(cmd)
}

// closeSession flushes the tracer and stops the profilers. Commands call it
// themselves before returning an error because PersistentPostRun is skipped
// then.
func closeSession(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		return nil
	}
	s, ok := ctx.Value(sessionKey{}).(*session)
	if !ok || s.closed {
		return nil
	}
	s.closed = true
	return errors.Join(s.tracer.Flush(), s.tracer.Close(), s.profiler.Stop())
}

// dumpTraceRing prints the events kept by --trace-ring after a failed run.
func dumpTraceRing(cmd *cobra.Command, w io.Writer) {
	if cmd == nil || cmd.Context() == nil {
		return
	}
	s, ok := cmd.Context().Value(sessionKey{}).(*session)
	if !ok || s.ring == nil {
		return
	}
	fmt.Fprintln(w, "last trace events:")
	_ = s.ring.Dump(w, s.format)
}
