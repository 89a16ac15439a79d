package main

import (
	"fmt"
	"os"
	"strings"
)

// toggle is the value of the tri-state --color and --ui flags.
type toggle string

const (
	toggleAuto toggle = "auto"
	toggleOn   toggle = "on"
	toggleOff  toggle = "off"
)

func readToggle(flag, value string) (toggle, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return toggleAuto, nil
	case "on", "always", "true":
		return toggleOn, nil
	case "off", "never", "false":
		return toggleOff, nil
	default:
		return "", fmt.Errorf("invalid %s value %q (expected auto|on|off)", flag, value)
	}
}

// useColor resolves --color; auto also honors NO_COLOR.
func useColor(mode toggle) bool {
	switch mode {
	case toggleOn:
		return true
	case toggleOff:
		return false
	default:
		if _, set := os.LookupEnv("NO_COLOR"); set {
			return false
		}
		return isTerminal(os.Stdout)
	}
}

// shouldUseTUI resolves --ui. The progress view only makes sense for
// human-readable output on a terminal.
func shouldUseTUI(mode toggle, format string) bool {
	switch mode {
	case toggleOn:
		return true
	case toggleOff:
		return false
	default:
		return format == "pretty" && isTerminal(os.Stdout) && isTerminal(os.Stderr)
	}
}
