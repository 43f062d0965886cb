package colorize_test

import (
	"testing"

	"github.com/UnknownOlympus/horizon/internal/colorize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		duration    int
		maxDuration int
		policy      colorize.Policy
		want        string
	}{
		{"zero duration is green", 0, 2000, colorize.PolicyExtrapolate, "#00FF00"},
		{"max duration is red", 2000, 2000, colorize.PolicyExtrapolate, "#FF0000"},
		{"quarter of max is mostly green", 500, 2000, colorize.PolicyExtrapolate, "#10EF00"},
		{"half of max", 1000, 2000, colorize.PolicyExtrapolate, "#40BF00"},
		{"over max saturates to red", 4000, 2000, colorize.PolicyExtrapolate, "#FF0000"},
		{"negative extrapolates through the square", -500, 2000, colorize.PolicyExtrapolate, "#10EF00"},
		{"negative clamps to green", -500, 2000, colorize.PolicyClamp, "#00FF00"},
		{"over max clamps to red", 4000, 2000, colorize.PolicyClamp, "#FF0000"},
		{"non positive max is slowest", 10, 0, colorize.PolicyExtrapolate, "#FF0000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, colorize.Color(tt.duration, tt.maxDuration, tt.policy))
		})
	}
}

func TestColor_Monotonic(t *testing.T) {
	t.Parallel()

	const maxDuration = 3600
	prev, err := colorize.ParseRGB(colorize.Color(0, maxDuration, colorize.PolicyClamp))
	require.NoError(t, err)

	for duration := 60; duration <= maxDuration; duration += 60 {
		current, err := colorize.ParseRGB(colorize.Color(duration, maxDuration, colorize.PolicyClamp))
		require.NoError(t, err)

		assert.GreaterOrEqual(t, current.R, prev.R, "red must not decrease at %d", duration)
		assert.LessOrEqual(t, current.G, prev.G, "green must not increase at %d", duration)
		assert.Equal(t, uint8(0), current.B)
		prev = current
	}
}

func TestColor_Reproducible(t *testing.T) {
	t.Parallel()

	first := colorize.Color(1234, 3600, colorize.PolicyExtrapolate)
	for range 10 {
		assert.Equal(t, first, colorize.Color(1234, 3600, colorize.PolicyExtrapolate))
	}
}

func TestGradient_Custom(t *testing.T) {
	t.Parallel()

	gradient := colorize.Gradient{
		Fast: colorize.RGB{R: 0x00, G: 0x00, B: 0xFF},
		Slow: colorize.RGB{R: 0xFF, G: 0xFF, B: 0x00},
	}

	assert.Equal(t, "#0000FF", gradient.Color(0, 100, colorize.PolicyClamp))
	assert.Equal(t, "#FFFF00", gradient.Color(100, 100, colorize.PolicyClamp))
}

func TestWeight(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0.0625, colorize.Weight(500, 2000, colorize.PolicyExtrapolate), 1e-9)
	assert.InDelta(t, 4.0, colorize.Weight(4000, 2000, colorize.PolicyExtrapolate), 1e-9)
	assert.InDelta(t, 1.0, colorize.Weight(4000, 2000, colorize.PolicyClamp), 1e-9)
	assert.InDelta(t, 1.0, colorize.Weight(1, -5, colorize.PolicyClamp), 1e-9)
}

func TestParsePolicy(t *testing.T) {
	t.Parallel()

	policy, err := colorize.ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, colorize.PolicyExtrapolate, policy)

	policy, err = colorize.ParsePolicy(" Clamp ")
	require.NoError(t, err)
	assert.Equal(t, colorize.PolicyClamp, policy)

	_, err = colorize.ParsePolicy("wrap")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported color policy: wrap")
}

func TestParseRGB(t *testing.T) {
	t.Parallel()

	color, err := colorize.ParseRGB("#0fe000")
	require.NoError(t, err)
	assert.Equal(t, colorize.RGB{R: 0x0F, G: 0xE0, B: 0x00}, color)
	assert.Equal(t, "#0FE000", color.Hex())

	color, err = colorize.ParseRGB("FF0000")
	require.NoError(t, err)
	assert.Equal(t, colorize.RGB{R: 0xFF}, color)

	_, err = colorize.ParseRGB("#FFF")
	require.ErrorIs(t, err, colorize.ErrInvalidColor)

	_, err = colorize.ParseRGB("#GG0000")
	require.ErrorIs(t, err, colorize.ErrInvalidColor)
}
