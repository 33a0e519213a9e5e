package trace

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
)

// Tracer receives events. Implementations must accept Emit from many
// goroutines at once.
type Tracer interface {
	Emit(ev *Event)
	Flush() error
	// Close flushes; the tracer must not be used afterwards.
	Close() error
	Level() Level
	Enabled() bool
}

// StorageMode says where events go: written as they happen, kept in a
// bounded ring for a later dump, or both.
type StorageMode uint8

const (
	ModeStream StorageMode = iota + 1
	ModeRing
	ModeBoth
)

var modeNames = [...]string{ModeStream: "stream", ModeRing: "ring", ModeBoth: "both"}

func (m StorageMode) String() string {
	if int(m) < len(modeNames) && modeNames[m] != "" {
		return modeNames[m]
	}
	return "unknown"
}

// ParseMode converts a --trace-mode value.
func ParseMode(s string) (StorageMode, error) {
	if i := slices.Index(modeNames[1:], strings.ToLower(s)); i >= 0 {
		return StorageMode(i + 1), nil
	}
	return ModeStream, fmt.Errorf("invalid storage mode: %q (expected: %s)", s, strings.Join(modeNames[1:], "|"))
}

// Config is what `--trace*` flags resolve to.
type Config struct {
	Level  Level
	Mode   StorageMode
	Format Format // FormatAuto picks by OutputPath extension
	// Output wins over OutputPath and is never closed by the package.
	Output     io.Writer
	OutputPath string // "-" or "" for stderr
	RingSize   int    // 0 means the ring default
}

func (c Config) format() Format {
	if c.Format != FormatAuto {
		return c.Format
	}
	if strings.HasSuffix(c.OutputPath, ".ndjson") || strings.HasSuffix(c.OutputPath, ".json") {
		return FormatNDJSON
	}
	return FormatText
}

// New creates a Tracer from cfg. The error level never streams: its events
// go to the ring and are only written by DumpRing.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	mode := cfg.Mode
	if cfg.Level == LevelError {
		mode = ModeRing
	}

	var sinks []Tracer
	if mode == ModeStream || mode == ModeBoth {
		w, err := openOutput(cfg)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, NewStreamTracer(w, cfg.Level, cfg.format()))
	}
	if mode == ModeRing || mode == ModeBoth {
		sinks = append(sinks, NewRingTracer(cfg.RingSize, cfg.Level))
	}
	switch len(sinks) {
	case 0:
		return nil, fmt.Errorf("unknown storage mode: %v", cfg.Mode)
	case 1:
		return sinks[0], nil
	}
	return NewMultiTracer(cfg.Level, sinks...), nil
}

// DumpRing writes the ring buffer of t to cfg's output. It does nothing when
// t has no ring or when the events were already streamed.
func DumpRing(t Tracer, cfg Config) error {
	ring := Ring(t)
	if ring == nil || (cfg.Mode == ModeBoth && cfg.Level != LevelError) {
		return nil
	}
	w, err := openOutput(cfg)
	if err != nil {
		return err
	}
	if dropped := ring.Dropped(); dropped > 0 {
		fmt.Fprintf(w, "trace: %d older events dropped\n", dropped)
	}
	err = ring.Dump(w, cfg.format())
	if cfg.Output == nil {
		err = errors.Join(err, closeOutput(w))
	}
	return err
}

func openOutput(cfg Config) (io.Writer, error) {
	if cfg.Output != nil {
		return cfg.Output, nil
	}
	if cfg.OutputPath == "" || cfg.OutputPath == "-" {
		return os.Stderr, nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("trace output: %w", err)
	}
	return f, nil
}
