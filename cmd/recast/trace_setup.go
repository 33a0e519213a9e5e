package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"recast/internal/trace"
)

// activeTracer is kept for dumpTraceOnPanic.
var activeTracer trace.Tracer = trace.Nop

// commandFailed is set before cleanups run; a failed run dumps the trace
// ring when events were kept in memory only.
var commandFailed bool

// panicTail is how many ring events a panic prints.
const panicTail = 512

// readTraceConfig turns the --trace* flags into a tracer config. A bare
// --trace FILE without a level traces phases.
func readTraceConfig(cmd *cobra.Command) (trace.Config, error) {
	flags := cmd.Root().PersistentFlags()
	var cfg trace.Config
	output, err := flags.GetString("trace")
	if err != nil {
		return cfg, err
	}
	levelStr, _ := flags.GetString("trace-level")
	modeStr, _ := flags.GetString("trace-mode")
	formatStr, _ := flags.GetString("trace-format")
	ringSize, _ := flags.GetInt("trace-ring-size")

	if cfg.Level, err = trace.ParseLevel(levelStr); err != nil {
		return cfg, err
	}
	if cfg.Level == trace.LevelOff && output != "" {
		cfg.Level = trace.LevelPhase
	}
	if cfg.Mode, err = trace.ParseMode(modeStr); err != nil {
		return cfg, err
	}
	format, ok := trace.ParseFormat(formatStr)
	if !ok {
		return cfg, fmt.Errorf("invalid trace format %q (expected auto|text|ndjson)", formatStr)
	}
	cfg.Format, cfg.OutputPath, cfg.RingSize = format, output, ringSize
	return cfg, nil
}

// setupTracing installs the tracer into the command context. The cleanup
// dumps the ring on failure, then flushes and closes the tracer.
func setupTracing(cmd *cobra.Command) (func(), error) {
	cfg, err := readTraceConfig(cmd)
	if err != nil {
		return nil, err
	}
	if cfg.Level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func() {}, nil
	}
	tracer, err := trace.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	activeTracer = tracer
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))

	return func() {
		report := func(what string, err error) {
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "trace: %s error: %v\n", what, err)
			}
		}
		if commandFailed {
			report("dump", trace.DumpRing(tracer, cfg))
		}
		report("flush", tracer.Flush())
		report("close", tracer.Close())
		activeTracer = trace.Nop
	}, nil
}

// dumpTraceOnPanic writes the newest ring events, if any, to stderr before
// re-raising a panic.
func dumpTraceOnPanic() {
	r := recover()
	if r == nil {
		return
	}
	if ring := trace.Ring(activeTracer); ring != nil {
		fmt.Fprintln(os.Stderr, "trace: last events before panic:")
		for _, ev := range ring.Tail(panicTail) {
			os.Stderr.Write(trace.FormatEvent(&ev, trace.FormatText))
		}
	}
	panic(r)
}
