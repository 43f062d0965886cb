// Package colorize maps isochrone travel durations onto a fast-to-slow color gradient.
package colorize

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Policy decides what happens to durations outside [0, maxDuration].
type Policy string

const (
	// PolicyExtrapolate keeps the raw ratio. Channels saturate at the byte range.
	PolicyExtrapolate Policy = "extrapolate"
	// PolicyClamp clamps the ratio to [0, 1] before the gradient is applied.
	PolicyClamp Policy = "clamp"
)

// ErrInvalidColor is returned when a color string is not "#RRGGBB".
var ErrInvalidColor = errors.New("invalid color, expected #RRGGBB")

// RGB is a color with 8-bit channels.
type RGB struct {
	R, G, B uint8
}

// Hex formats the color as "#RRGGBB".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Gradient interpolates between the color of an instant trip and the color of a trip lasting maxDuration.
type Gradient struct {
	Fast RGB
	Slow RGB
}

// DefaultGradient goes from pure green to pure red.
var DefaultGradient = Gradient{
	Fast: RGB{R: 0x00, G: 0xFF, B: 0x00},
	Slow: RGB{R: 0xFF, G: 0x00, B: 0x00},
}

// Color returns the "#RRGGBB" color of duration on the default gradient.
func Color(duration, maxDuration int, policy Policy) string {
	return DefaultGradient.Color(duration, maxDuration, policy)
}

// Color returns the "#RRGGBB" color of duration on the gradient.
//
// The ratio duration/maxDuration is squared so short trips stay green longer.
// The result only depends on the arguments.
func (g Gradient) Color(duration, maxDuration int, policy Policy) string {
	weight := Weight(duration, maxDuration, policy)

	return RGB{
		R: mix(g.Slow.R, g.Fast.R, weight),
		G: mix(g.Slow.G, g.Fast.G, weight),
		B: mix(g.Slow.B, g.Fast.B, weight),
	}.Hex()
}

// Weight returns the squared duration ratio used as the share of the slow color.
// A non-positive maxDuration puts every duration at the slow end.
func Weight(duration, maxDuration int, policy Policy) float64 {
	if maxDuration <= 0 {
		return 1
	}

	ratio := float64(duration) / float64(maxDuration)
	if policy == PolicyClamp {
		ratio = math.Max(0, math.Min(1, ratio))
	}

	return ratio * ratio
}

func mix(slow, fast uint8, weight float64) uint8 {
	value := math.Round(float64(slow)*weight + float64(fast)*(1-weight))

	return uint8(math.Max(0, math.Min(math.MaxUint8, value)))
}

// ParsePolicy converts a configuration value to a Policy. Empty means PolicyExtrapolate.
func ParsePolicy(value string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(value))) {
	case "", PolicyExtrapolate:
		return PolicyExtrapolate, nil
	case PolicyClamp:
		return PolicyClamp, nil
	default:
		return "", fmt.Errorf("unsupported color policy: %s", value)
	}
}

// ParseRGB parses "#RRGGBB" (the leading '#' is optional).
func ParseRGB(value string) (RGB, error) {
	const hexLength = 6

	value = strings.TrimPrefix(strings.TrimSpace(value), "#")
	if len(value) != hexLength {
		return RGB{}, fmt.Errorf("%w: %q", ErrInvalidColor, value)
	}

	var color RGB
	if _, err := fmt.Sscanf(value, "%02x%02x%02x", &color.R, &color.G, &color.B); err != nil {
		return RGB{}, fmt.Errorf("%w: %q", ErrInvalidColor, value)
	}

	return color, nil
}
