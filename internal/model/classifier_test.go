package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	ort "github.com/yalue/onnxruntime_go"
)

func TestCheckOutputDims(t *testing.T) {
	tests := []struct {
		name    string
		outputs []ort.InputOutputInfo
		wantErr bool
	}{
		{
			name:    "batched three-class vector",
			outputs: []ort.InputOutputInfo{{Name: "output", Dimensions: ort.NewShape(1, 3)}},
		},
		{
			name:    "dynamic batch axis",
			outputs: []ort.InputOutputInfo{{Name: "output", Dimensions: ort.NewShape(-1, 3)}},
		},
		{
			name:    "unbatched vector",
			outputs: []ort.InputOutputInfo{{Name: "output", Dimensions: ort.NewShape(3)}},
		},
		{
			name:    "five-class artifact",
			outputs: []ort.InputOutputInfo{{Name: "output", Dimensions: ort.NewShape(1, 5)}},
			wantErr: true,
		},
		{
			name:    "two-class artifact",
			outputs: []ort.InputOutputInfo{{Name: "output", Dimensions: ort.NewShape(1, 2)}},
			wantErr: true,
		},
		{
			name:    "scalar output",
			outputs: []ort.InputOutputInfo{{Name: "output", Dimensions: ort.NewShape()}},
			wantErr: true,
		},
		{
			name:    "no outputs declared",
			outputs: nil,
			wantErr: true,
		},
		{
			name: "multiple outputs declared",
			outputs: []ort.InputOutputInfo{
				{Name: "output", Dimensions: ort.NewShape(1, 3)},
				{Name: "features", Dimensions: ort.NewShape(1, 128)},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkOutputDims(tt.outputs)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrClassMismatch)
				return
			}
			require.NoError(t, err)
		})
	}
}
