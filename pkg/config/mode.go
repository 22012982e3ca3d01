package config

import (
	"fmt"
	"strings"
)

// Mode selects how download progress is displayed.
type Mode string

const (
	// ModeMulti draws one persistent row per component.
	ModeMulti Mode = "multi"
	// ModeSingle draws one ephemeral row for the current download.
	ModeSingle Mode = "single"
)

// ParseMode converts a string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "multi":
		return ModeMulti, nil
	case "single":
		return ModeSingle, nil
	default:
		return "", fmt.Errorf("unsupported progress mode: %s", s)
	}
}

// String returns the string representation of the Mode.
func (m Mode) String() string {
	return string(m)
}
