package midi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clefworks/midigen/internal/models"
)

func TestNormalizeDurationFractions(t *testing.T) {
	tests := []struct {
		name     string
		fraction float64
		expected string
	}{
		{name: "whole note fraction maps to quarter token", fraction: 1, expected: "4"},
		{name: "half fraction", fraction: 0.5, expected: "8"},
		{name: "quarter fraction", fraction: 0.25, expected: "16"},
		{name: "eighth fraction", fraction: 0.125, expected: "32"},
		{name: "sixteenth fraction", fraction: 0.0625, expected: "64"},
		{name: "double whole fraction", fraction: 2, expected: "2"},
		{name: "unknown fraction falls back to quarter", fraction: 0.3, expected: "4"},
		{name: "zero falls back to quarter", fraction: 0, expected: "4"},
		{name: "negative falls back to quarter", fraction: -1, expected: "4"},
		{name: "dotted value falls back to quarter", fraction: 0.75, expected: "4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := NormalizeDuration(models.Duration{Numeric: true, Fraction: tt.fraction})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, token)
		})
	}
}

func TestNormalizeDurationTokenIdentity(t *testing.T) {
	for _, token := range []string{"1", "2", "4", "8", "16", "32", "64"} {
		got, err := NormalizeDuration(models.Duration{Token: token})
		require.NoError(t, err)
		assert.Equal(t, token, got)
	}
}

func TestNormalizeDurationRejectsUnknownTokens(t *testing.T) {
	for _, token := range []string{"", "3", "quarter", "128", "4."} {
		_, err := NormalizeDuration(models.Duration{Token: token})
		assert.Error(t, err, "token %q should be rejected", token)
	}
}
