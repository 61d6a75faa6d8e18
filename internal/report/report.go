// Package report renders the downloadable diagnosis document. The report is
// always produced in English regardless of the UI display language, so the
// downloadable artifact has one canonical form.
package report

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"

	"github.com/plantlab/leafdiag/internal/diagnose"
)

const (
	// Filename is fixed to indicate the canonical English content.
	Filename    = "plant_diagnosis_report_english.pdf"
	ContentType = "application/pdf"

	title = "Plant Nutrient Diagnosis Report"

	pageWidth  = 210.0 // A4 portrait, mm
	sideMargin = 15.0
	imageMaxW  = 120.0
	imageMaxH  = 90.0
)

var ErrRender = errors.New("report rendering failed")

// Renderer produces PDF reports. The zero value uses the system temp
// directory for scratch files and the built-in Helvetica font.
type Renderer struct {
	// ScratchDir holds the transient image file while the page is composed.
	ScratchDir string
	// FontPath optionally names a TTF file. When the file is unavailable the
	// renderer falls back to Helvetica instead of failing.
	FontPath string
}

// Render composes the report for one diagnosis: title, the uploaded image
// scaled to fit, diagnosis and confidence lines, the English recommendation,
// and the general fertilization reference table. It returns the finished
// document as a byte buffer; on any composition failure no partial document
// is returned.
func (r *Renderer) Render(imageBytes []byte, p diagnose.Prediction) ([]byte, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(imageBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: decode uploaded image: %w", ErrRender, err)
	}

	// The image is staged in a uniquely named scratch file per render and
	// removed on every exit path.
	scratch := filepath.Join(r.scratchDir(), uuid.New().String()+"."+format)
	if err := os.WriteFile(scratch, imageBytes, 0o600); err != nil {
		return nil, fmt.Errorf("%w: stage image: %w", ErrRender, err)
	}
	defer os.Remove(scratch)

	pdf := gofpdf.New("P", "mm", "A4", "")
	family, canBold := r.selectFont(pdf)

	bold := ""
	if canBold {
		bold = "B"
	}

	pdf.SetMargins(sideMargin, 15, sideMargin)
	pdf.AddPage()

	pdf.SetFont(family, bold, 18)
	pdf.CellFormat(0, 12, title, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	drawW, drawH := fitImage(float64(cfg.Width), float64(cfg.Height))
	x := (pageWidth - drawW) / 2
	y := pdf.GetY()
	opts := gofpdf.ImageOptions{ImageType: strings.ToUpper(format)}
	pdf.ImageOptions(scratch, x, y, drawW, drawH, false, opts, 0, "")
	pdf.SetY(y + drawH + 10)

	rec, err := diagnose.Record(p.Label, diagnose.English)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}

	pdf.SetFont(family, bold, 12)
	pdf.CellFormat(0, 8, "Diagnosis: "+p.Label.String(), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Confidence: %.2f%%", p.Confidence), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont(family, "", 11)
	pdf.MultiCell(0, 6, rec.Description, "", "L", false)
	pdf.Ln(1)
	pdf.MultiCell(0, 6, "Recommendation: "+rec.Recommendation, "", "L", false)
	pdf.Ln(6)

	if err := r.writeTable(pdf, family, bold); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) writeTable(pdf *gofpdf.Fpdf, family, bold string) error {
	columns, err := diagnose.TableColumns(diagnose.English)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}
	rows, err := diagnose.FertilizerTable(diagnose.English)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}

	pdf.SetFont(family, bold, 12)
	pdf.CellFormat(0, 8, "General Fertilization Reference", "", 1, "L", false, 0, "")

	colW := (pageWidth - 2*sideMargin) / 2

	pdf.SetFont(family, bold, 10)
	pdf.SetFillColor(230, 240, 230)
	for _, col := range columns {
		pdf.CellFormat(colW, 7, col, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(family, "", 10)
	for _, row := range rows {
		pdf.CellFormat(colW, 7, row.Nutrient, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colW, 7, row.Quantity, "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}
	return nil
}

// selectFont registers the configured TTF when it exists; otherwise the
// built-in Helvetica is used. The second return reports whether a bold
// variant is available (custom single-file fonts register one style only).
func (r *Renderer) selectFont(pdf *gofpdf.Fpdf) (string, bool) {
	if r.FontPath != "" {
		if _, err := os.Stat(r.FontPath); err == nil {
			pdf.AddUTF8Font("report", "", r.FontPath)
			if pdf.Err() {
				// Unreadable or malformed font file: degrade, don't fail.
				pdf.ClearError()
				return "Helvetica", true
			}
			return "report", false
		}
	}
	return "Helvetica", true
}

func (r *Renderer) scratchDir() string {
	if r.ScratchDir != "" {
		return r.ScratchDir
	}
	return os.TempDir()
}

// fitImage scales source dimensions to the report's image box, preserving
// aspect ratio.
func fitImage(w, h float64) (float64, float64) {
	if w <= 0 || h <= 0 {
		return imageMaxW, imageMaxH
	}
	scale := imageMaxW / w
	if s := imageMaxH / h; s < scale {
		scale = s
	}
	if scale > 1 {
		scale = 1
	}
	return w * scale, h * scale
}
