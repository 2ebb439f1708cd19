package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectionParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		params  ProjectionParams
		wantErr bool
	}{
		{"valid", ProjectionParams{FOV: mgl32.DegToRad(90), Near: 0.1, Far: 100}, false},
		{"defaults", DefaultProjection(), false},
		{"zeroFOV", ProjectionParams{FOV: 0, Near: 0.1, Far: 100}, true},
		{"negativeFOV", ProjectionParams{FOV: -1, Near: 0.1, Far: 100}, true},
		{"fullCircleFOV", ProjectionParams{FOV: math.Pi, Near: 0.1, Far: 100}, true},
		{"zeroNear", ProjectionParams{FOV: 1, Near: 0, Far: 100}, true},
		{"nearEqualsFar", ProjectionParams{FOV: 1, Near: 10, Far: 10}, true},
		{"nearBeyondFar", ProjectionParams{FOV: 1, Near: 100, Far: 0.1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr {
				require.Error(t, err)
				var cfgErr *ConfigError
				assert.ErrorAs(t, err, &cfgErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProjectionMatrix_Deterministic(t *testing.T) {
	p := DefaultProjection()

	a := ProjectionMatrix(p, 4.0/3.0)
	b := ProjectionMatrix(p, 4.0/3.0)
	assert.Equal(t, a, b)

	// A different aspect must produce a different matrix.
	c := ProjectionMatrix(p, 16.0/9.0)
	assert.NotEqual(t, a, c)
}
