package main

import (
	"fmt"
	"os"
	"strings"
)

// switchMode is the value of an auto|on|off flag such as --color or --ui.
type switchMode uint8

const (
	modeAuto switchMode = iota
	modeOn
	modeOff
)

var switchNames = map[string]switchMode{
	"": modeAuto, "auto": modeAuto,
	"on": modeOn, "always": modeOn,
	"off": modeOff, "never": modeOff,
}

func parseSwitch(flag, value string) (switchMode, error) {
	if m, ok := switchNames[strings.ToLower(strings.TrimSpace(value))]; ok {
		return m, nil
	}
	return modeAuto, fmt.Errorf("invalid --%s value %q (expected auto|on|off)", flag, value)
}

// enabled resolves m, calling detect only in auto mode.
func (m switchMode) enabled(detect func() bool) bool {
	switch m {
	case modeOn:
		return true
	case modeOff:
		return false
	}
	return detect()
}

// shouldUseTUI draws on stderr, so auto mode looks at stderr and leaves
// redirected stdout alone.
func shouldUseTUI(mode switchMode, quiet bool) bool {
	return mode.enabled(func() bool { return !quiet && isTerminal(os.Stderr) })
}
