// Package handlers exposes the diagnosis pipeline over HTTP.
package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/plantlab/leafdiag/internal/diagnose"
	"github.com/plantlab/leafdiag/internal/preprocess"
	"github.com/plantlab/leafdiag/internal/report"
)

// maxUploadBytes is the practical ceiling for uploaded leaf photographs.
const maxUploadBytes = 200 << 20

// Predictor scores a preprocessed input tensor. *model.Classifier satisfies
// this; tests substitute a stub.
type Predictor interface {
	Predict(input []float32) ([]float32, error)
}

type Handler struct {
	predictor Predictor
	renderer  *report.Renderer
	log       *zap.Logger
}

func NewHandler(predictor Predictor, renderer *report.Renderer, log *zap.Logger) *Handler {
	return &Handler{
		predictor: predictor,
		renderer:  renderer,
		log:       log,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
}

// DiagnoseResponse is the JSON body returned by Diagnose. Class is the
// canonical English label regardless of the requested language; the
// remaining text fields are localized.
type DiagnoseResponse struct {
	Class           string                            `json:"class"`
	Confidence      float64                           `json:"confidence"`
	Language        string                            `json:"language"`
	Name            string                            `json:"name"`
	Description     string                            `json:"description"`
	Recommendation  string                            `json:"recommendation"`
	TableColumns    []string                          `json:"table_columns"`
	FertilizerTable []diagnose.LocalizedFertilizerRow `json:"fertilizer_table"`
}

// Diagnose accepts a multipart upload (field "image", optional form or query
// value "lang") and returns the localized diagnosis.
func (h *Handler) Diagnose(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Parse explicitly before touching form values so the upload ceiling
	// applies; FormValue alone would parse with net/http's default threshold.
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	lang, err := diagnose.ParseLanguage(r.FormValue("lang"))
	if err != nil {
		http.Error(w, "Unsupported language. Use 'en' or 'ar'", http.StatusBadRequest)
		return
	}

	prediction, _, ok := h.runPipeline(w, r)
	if !ok {
		return
	}

	rec, err := diagnose.Record(prediction.Label, lang)
	if err != nil {
		h.log.Error("record lookup failed", zap.Error(err))
		http.Error(w, "Diagnosis lookup failed", http.StatusInternalServerError)
		return
	}
	columns, err := diagnose.TableColumns(lang)
	if err != nil {
		http.Error(w, "Diagnosis lookup failed", http.StatusInternalServerError)
		return
	}
	table, err := diagnose.FertilizerTable(lang)
	if err != nil {
		http.Error(w, "Diagnosis lookup failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(DiagnoseResponse{
		Class:           prediction.Label.String(),
		Confidence:      prediction.Confidence,
		Language:        string(lang),
		Name:            rec.Name,
		Description:     rec.Description,
		Recommendation:  rec.Recommendation,
		TableColumns:    columns,
		FertilizerTable: table,
	})
}

// Report accepts the same upload and responds with the canonical English PDF
// report. On render failure no partial document is offered.
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	prediction, imageBytes, ok := h.runPipeline(w, r)
	if !ok {
		return
	}

	doc, err := h.renderer.Render(imageBytes, prediction)
	if err != nil {
		h.log.Error("report rendering failed", zap.Error(err))
		http.Error(w, "Report generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename))
	w.Write(doc)
}

// runPipeline reads the upload, preprocesses it, and runs inference. On
// failure it writes the HTTP error response and returns ok=false.
func (h *Handler) runPipeline(w http.ResponseWriter, r *http.Request) (diagnose.Prediction, []byte, bool) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return diagnose.Prediction{}, nil, false
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "No image file provided. Use 'image' as the form field name", http.StatusBadRequest)
		return diagnose.Prediction{}, nil, false
	}
	defer file.Close()

	imageBytes, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "Failed to read upload", http.StatusBadRequest)
		return diagnose.Prediction{}, nil, false
	}

	h.log.Info("received image",
		zap.String("filename", header.Filename),
		zap.Int("bytes", len(imageBytes)))

	input, err := preprocess.TensorFromReader(bytes.NewReader(imageBytes))
	if err != nil {
		if errors.Is(err, preprocess.ErrDecode) {
			http.Error(w, "Invalid image format. Supported: JPEG, PNG", http.StatusBadRequest)
		} else {
			h.log.Error("preprocessing failed", zap.Error(err))
			http.Error(w, "Failed to preprocess image", http.StatusInternalServerError)
		}
		return diagnose.Prediction{}, nil, false
	}

	probs, err := h.predictor.Predict(input)
	if err != nil {
		h.log.Error("prediction failed", zap.Error(err))
		http.Error(w, "Prediction failed: "+err.Error(), http.StatusInternalServerError)
		return diagnose.Prediction{}, nil, false
	}

	prediction, err := diagnose.Resolve(probs)
	if err != nil {
		h.log.Error("resolving prediction failed", zap.Error(err))
		http.Error(w, "Prediction failed", http.StatusInternalServerError)
		return diagnose.Prediction{}, nil, false
	}

	return prediction, imageBytes, true
}
