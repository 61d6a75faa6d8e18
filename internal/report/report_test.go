package report

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantlab/leafdiag/internal/diagnose"
)

func leafPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{40, uint8(100 + (x+y)%100), 40, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestRenderProducesPDF(t *testing.T) {
	r := &Renderer{ScratchDir: t.TempDir()}

	for label := diagnose.ClassLabel(0); int(label) < diagnose.NumClasses; label++ {
		doc, err := r.Render(leafPNG(t, 320, 240), diagnose.Prediction{Label: label, Confidence: 93.42})
		require.NoError(t, err, "label %s", label)
		assert.True(t, bytes.HasPrefix(doc, []byte("%PDF-")), "output must be a PDF")
		assert.Greater(t, len(doc), 1000)
	}
}

func TestRenderCleansUpScratchFile(t *testing.T) {
	scratch := t.TempDir()
	r := &Renderer{ScratchDir: scratch}

	_, err := r.Render(leafPNG(t, 100, 100), diagnose.Prediction{Label: diagnose.Healthy, Confidence: 88})
	require.NoError(t, err)

	entries, err := os.ReadDir(scratch)
	require.NoError(t, err)
	assert.Empty(t, entries, "scratch file must be removed after rendering")
}

func TestRenderCleansUpScratchFileOnFailure(t *testing.T) {
	scratch := t.TempDir()
	r := &Renderer{ScratchDir: scratch}

	// Out-of-range label makes the knowledge lookup fail after the image has
	// been staged.
	_, err := r.Render(leafPNG(t, 50, 50), diagnose.Prediction{Label: diagnose.ClassLabel(9), Confidence: 50})
	require.ErrorIs(t, err, ErrRender)

	entries, err := os.ReadDir(scratch)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRenderRejectsUndecodableImage(t *testing.T) {
	r := &Renderer{ScratchDir: t.TempDir()}

	doc, err := r.Render([]byte("not an image"), diagnose.Prediction{Label: diagnose.Healthy, Confidence: 75})
	assert.ErrorIs(t, err, ErrRender)
	assert.Nil(t, doc, "no partial document on failure")
}

func TestRenderFallsBackWhenFontMissing(t *testing.T) {
	r := &Renderer{
		ScratchDir: t.TempDir(),
		FontPath:   filepath.Join(t.TempDir(), "no-such-font.ttf"),
	}

	doc, err := r.Render(leafPNG(t, 64, 64), diagnose.Prediction{Label: diagnose.ZincDeficiency, Confidence: 61.5})
	require.NoError(t, err, "missing font must degrade, not fail")
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF-")))
}

func TestFilenameIsCanonicalEnglish(t *testing.T) {
	assert.Equal(t, "plant_diagnosis_report_english.pdf", Filename)
	assert.Equal(t, "application/pdf", ContentType)
}

func TestFitImage(t *testing.T) {
	tests := []struct {
		name  string
		w, h  float64
		wantW float64
		wantH float64
	}{
		{"wide image capped by width", 1200, 300, imageMaxW, imageMaxW * 300 / 1200},
		{"tall image capped by height", 300, 1200, imageMaxH * 300 / 1200, imageMaxH},
		{"small image not upscaled", 50, 40, 50, 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := fitImage(tt.w, tt.h)
			assert.InDelta(t, tt.wantW, w, 1e-6)
			assert.InDelta(t, tt.wantH, h, 1e-6)
		})
	}
}
