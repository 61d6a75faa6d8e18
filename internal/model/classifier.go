// Package model wraps the ONNX runtime session that scores leaf images.
package model

import (
	"errors"
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/plantlab/leafdiag/internal/diagnose"
	"github.com/plantlab/leafdiag/internal/preprocess"
)

var (
	ErrLoad          = errors.New("model load failed")
	ErrClassMismatch = errors.New("model output does not match class labels")
	ErrInference     = errors.New("inference failed")
	ErrBadInput      = errors.New("input tensor size mismatch")
)

// Graph node names produced by the tflite-to-ONNX conversion.
const (
	inputName  = "input"
	outputName = "output"
)

// Classifier owns one loaded model artifact for the process lifetime.
// The session reuses a fixed input/output tensor pair, so Predict serializes
// access; everything else is immutable after New.
type Classifier struct {
	mu           sync.Mutex
	session      *ort.AdvancedSession
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]
}

// New loads the artifact at modelPath and verifies that its output
// dimensionality matches the label enumeration. A mismatch is a
// configuration error and refuses to load rather than risking an
// out-of-range lookup at inference time.
func New(modelPath string) (*Classifier, error) {
	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("%w: initialize ONNX environment: %w", ErrLoad, err)
	}

	// Inspect the artifact's declared outputs before building the session:
	// a model whose class axis disagrees with the label enumeration must
	// refuse to load here, not fail mid-request.
	_, outputs, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		ort.DestroyEnvironment()
		return nil, fmt.Errorf("%w: read model metadata from %s: %w", ErrLoad, modelPath, err)
	}
	if err := checkOutputDims(outputs); err != nil {
		ort.DestroyEnvironment()
		return nil, err
	}

	inputShape := ort.NewShape(1, preprocess.ImageSize, preprocess.ImageSize, preprocess.Channels)
	outputShape := ort.NewShape(1, diagnose.NumClasses)

	inputTensor, err := ort.NewEmptyTensor[float32](inputShape)
	if err != nil {
		ort.DestroyEnvironment()
		return nil, fmt.Errorf("%w: create input tensor: %w", ErrLoad, err)
	}

	outputTensor, err := ort.NewEmptyTensor[float32](outputShape)
	if err != nil {
		inputTensor.Destroy()
		ort.DestroyEnvironment()
		return nil, fmt.Errorf("%w: create output tensor: %w", ErrLoad, err)
	}

	session, err := ort.NewAdvancedSession(modelPath,
		[]string{inputName}, []string{outputName},
		[]ort.ArbitraryTensor{inputTensor}, []ort.ArbitraryTensor{outputTensor},
		nil)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		ort.DestroyEnvironment()
		return nil, fmt.Errorf("%w: create session from %s: %w", ErrLoad, modelPath, err)
	}

	return &Classifier{
		session:      session,
		inputTensor:  inputTensor,
		outputTensor: outputTensor,
	}, nil
}

// checkOutputDims verifies that the artifact declares a single output whose
// class axis (the last dimension) carries exactly one value per label.
// Leading dynamic dimensions such as a -1 batch axis are ignored.
func checkOutputDims(outputs []ort.InputOutputInfo) error {
	if len(outputs) != 1 {
		return fmt.Errorf("%w: model declares %d outputs, want 1", ErrClassMismatch, len(outputs))
	}
	dims := outputs[0].Dimensions
	if len(dims) == 0 {
		return fmt.Errorf("%w: model output has no dimensions", ErrClassMismatch)
	}
	if got := dims[len(dims)-1]; got != diagnose.NumClasses {
		return fmt.Errorf("%w: model emits %d classes, labels define %d",
			ErrClassMismatch, got, diagnose.NumClasses)
	}
	return nil
}

// Predict runs one forward pass and returns a copy of the probability
// vector. The input must have exactly preprocess.TensorSize elements.
func (c *Classifier) Predict(input []float32) ([]float32, error) {
	if len(input) != preprocess.TensorSize {
		return nil, fmt.Errorf("%w: got %d values, want %d", ErrBadInput, len(input), preprocess.TensorSize)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	copy(c.inputTensor.GetData(), input)

	if err := c.session.Run(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInference, err)
	}

	out := c.outputTensor.GetData()
	probs := make([]float32, len(out))
	copy(probs, out)
	return probs, nil
}

// Close releases the session and tensors. The classifier is unusable after.
func (c *Classifier) Close() {
	if c.inputTensor != nil {
		c.inputTensor.Destroy()
	}
	if c.outputTensor != nil {
		c.outputTensor.Destroy()
	}
	if c.session != nil {
		c.session.Destroy()
	}
	ort.DestroyEnvironment()
}
