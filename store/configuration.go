package store

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownLevel is returned when an error-correction level name is not recognised.
	ErrUnknownLevel = errors.New("unknown error correction level")
	// ErrUnknownStyle is returned when a module style name is not recognised.
	ErrUnknownStyle = errors.New("unknown style")
)

// Level is the QR error-correction level.
type Level string

const (
	LevelLow      Level = "L" // ~7% recovery
	LevelMedium   Level = "M" // ~15% recovery
	LevelQuartile Level = "Q" // ~25% recovery
	LevelHigh     Level = "H" // ~30% recovery
)

// Levels lists every level from least to most redundant.
var Levels = []Level{LevelLow, LevelMedium, LevelQuartile, LevelHigh}

// ParseLevel accepts both the single-letter form ("Q") and the long name
// ("quartile"), case-insensitively.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "l", "low":
		return LevelLow, nil
	case "m", "medium":
		return LevelMedium, nil
	case "q", "quartile":
		return LevelQuartile, nil
	case "h", "high":
		return LevelHigh, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLevel, s)
}

// Label returns the human-readable name shown in the form, e.g. "Medium (15%)".
func (l Level) Label() string {
	switch l {
	case LevelLow:
		return "Low (7%)"
	case LevelMedium:
		return "Medium (15%)"
	case LevelQuartile:
		return "Quartile (25%)"
	case LevelHigh:
		return "High (30%)"
	}
	return string(l)
}

// Style controls how dark modules are drawn.
type Style string

const (
	StyleSquare Style = "square"
	StyleDots   Style = "dots"
)

// ParseStyle parses a style name, case-insensitively.
func ParseStyle(s string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "square", "squares":
		return StyleSquare, nil
	case "dots", "dot":
		return StyleDots, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStyle, s)
}

// Configuration is the complete set of user-chosen parameters describing one
// QR code.
type Configuration struct {
	Content         string `json:"content" yaml:"content"`
	Foreground      string `json:"foreground" yaml:"foreground"`
	Background      string `json:"background" yaml:"background"`
	Size            int    `json:"size" yaml:"size"`
	ErrorCorrection Level  `json:"error_correction" yaml:"error_correction"`
	Style           Style  `json:"style" yaml:"style"`
}

// DefaultConfiguration returns the configuration a fresh form starts with.
func DefaultConfiguration() Configuration {
	return Configuration{
		Content:         "https://example.com",
		Foreground:      "#000000",
		Background:      "#ffffff",
		Size:            250,
		ErrorCorrection: LevelMedium,
		Style:           StyleSquare,
	}
}

// SizeBounds describes the allowed pixel sizes: Min, Max and every
// Min+k*Step in between.
type SizeBounds struct {
	Min  int `json:"min" yaml:"min"`
	Max  int `json:"max" yaml:"max"`
	Step int `json:"step" yaml:"step"`
}

// DefaultSizeBounds matches the slider of the form.
func DefaultSizeBounds() SizeBounds {
	return SizeBounds{Min: 200, Max: 600, Step: 50}
}

// Validate reports whether the bounds describe a non-empty range.
func (b SizeBounds) Validate() error {
	if b.Min <= 0 {
		return fmt.Errorf("size min must be positive, got %d", b.Min)
	}
	if b.Max < b.Min {
		return fmt.Errorf("size max %d is below min %d", b.Max, b.Min)
	}
	if b.Step <= 0 {
		return fmt.Errorf("size step must be positive, got %d", b.Step)
	}
	return nil
}

// Clamp returns the in-range grid value nearest to px. Values outside
// [Min, Max] are pinned to the nearest end; in-range values snap to the
// closest Min+k*Step that does not exceed Max.
func (b SizeBounds) Clamp(px int) int {
	if px <= b.Min {
		return b.Min
	}
	if b.Step <= 0 {
		if px > b.Max {
			return b.Max
		}
		return px
	}
	top := b.Min + (b.Max-b.Min)/b.Step*b.Step
	if px >= top {
		return top
	}
	k := (px - b.Min + b.Step/2) / b.Step
	return b.Min + k*b.Step
}
