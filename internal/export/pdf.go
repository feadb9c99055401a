// Package export writes collage results to image files, JSON layouts and
// PDF reports.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/scripttaste/internal/collage"
	"github.com/piwi3910/scripttaste/internal/model"
)

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	drawAreaTop  = marginTop + headerHeight + 5.0
	qrSize       = 45.0
	rowHeight    = 6.0
)

// ReportSummary is the compact JSON encoded into the report's QR code.
type ReportSummary struct {
	Width            int     `json:"w"`
	Height           int     `json:"h"`
	Posters          int     `json:"posters"`
	Skipped          int     `json:"skipped"`
	DeadspacePercent float64 `json:"deadspace_pct"`
	Algorithm        string  `json:"algorithm"`
	BlurFactor       int     `json:"blur_factor"`
	BlurRadius       float64 `json:"blur_radius"`
}

// Summarize builds the QR payload for a result.
func Summarize(result *collage.Result, settings model.CollageSettings) ReportSummary {
	return ReportSummary{
		Width:            result.Canvas.Width(),
		Height:           result.Canvas.Height(),
		Posters:          len(result.Placements),
		Skipped:          len(result.Skipped),
		DeadspacePercent: math.Round(result.Stats.DeadspacePercent*10) / 10,
		Algorithm:        string(settings.Algorithm),
		BlurFactor:       settings.BlurFactor,
		BlurRadius:       settings.BlurRadius,
	}
}

// ExportReport generates a PDF with the collage on the first page and a
// poster breakdown, settings and a QR-coded summary on the following page.
func ExportReport(path string, result *collage.Result, settings model.CollageSettings) error {
	if result == nil || result.Canvas == nil {
		return fmt.Errorf("no collage to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	pdf.AddPage()
	if err := renderCollagePage(pdf, result); err != nil {
		return err
	}

	pdf.AddPage()
	if err := renderSummaryPage(pdf, result, settings); err != nil {
		return err
	}

	return pdf.OutputFileAndClose(path)
}

// renderCollagePage draws the finished canvas scaled to fit the page, with
// poster outlines and labels on top.
func renderCollagePage(pdf *fpdf.Fpdf, result *collage.Result) error {
	canvas := result.Canvas

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Poster Collage (%d x %d px)", canvas.Width(), canvas.Height())
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Posters: %d | Covered: %d px | Canvas: %d px | Deadspace: %.1f%%",
		len(result.Placements), result.Stats.CoveredArea, result.Stats.CanvasArea, result.Stats.DeadspacePercent)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom
	scale := math.Min(drawWidth/float64(canvas.Width()), drawHeight/float64(canvas.Height()))
	canvasW := float64(canvas.Width()) * scale
	canvasH := float64(canvas.Height()) * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	var buf bytes.Buffer
	if err := EncodePNG(&buf, canvas); err != nil {
		return fmt.Errorf("failed to encode collage: %w", err)
	}
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("collage", opts, &buf)
	pdf.ImageOptions("collage", offsetX, offsetY, canvasW, canvasH, false, opts, 0, "")

	for _, p := range result.Placements {
		pw := float64(p.Poster.Width()) * scale
		ph := float64(p.Poster.Height()) * scale
		px := offsetX + float64(p.X)*scale
		py := offsetY + float64(p.Y)*scale

		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.2)
		pdf.Rect(px, py, pw, ph, "D")

		if pw > 15 && ph > 8 {
			pdf.SetFont("Helvetica", "B", labelFontSize(pw, ph))
			label := truncate(pdf, p.Poster.Label, pw-2)
			labelW := pdf.GetStringWidth(label)
			pdf.SetFillColor(255, 255, 255)
			pdf.SetXY(px+(pw-labelW)/2-1, py+ph-5)
			pdf.CellFormat(labelW+2, 4, label, "", 0, "C", true, 0, "")
		}
	}

	return pdf.Error()
}

// renderSummaryPage draws statistics, the poster table, skipped posters,
// the collage settings and the QR-coded summary.
func renderSummaryPage(pdf *fpdf.Fpdf, result *collage.Result, settings model.CollageSettings) error {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Collage Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	if err := renderQRCode(pdf, pageWidth-marginRight-qrSize, marginTop+16, Summarize(result, settings)); err != nil {
		return err
	}

	y := marginTop + 18
	y = renderKeyValues(pdf, y, "Overall Statistics", [][2]string{
		{"Posters Placed", fmt.Sprintf("%d", len(result.Placements))},
		{"Posters Skipped", fmt.Sprintf("%d", len(result.Skipped))},
		{"Canvas", fmt.Sprintf("%d x %d px", result.Canvas.Width(), result.Canvas.Height())},
		{"Deadspace", fmt.Sprintf("%.1f%%", result.Stats.DeadspacePercent)},
	})

	y = renderKeyValues(pdf, y, "Collage Settings", [][2]string{
		{"Algorithm", string(settings.Algorithm)},
		{"Blur Factor", fmt.Sprintf("%d iterations", settings.BlurFactor)},
		{"Blur Radius", fmt.Sprintf("%.1f px", settings.BlurRadius)},
		{"Background", settings.Background.Hex()},
		{"Margin", fmt.Sprintf("%d px", settings.Margin)},
	})

	y = renderPosterTable(pdf, y, result)

	if len(result.Skipped) > 0 {
		y += 8
		if y > pageHeight-marginBottom-20 {
			pdf.AddPage()
			y = marginTop
		}
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, "Skipped Posters", "", 0, "L", false, 0, "")
		y += 8

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
		for _, s := range result.Skipped {
			if y > pageHeight-marginBottom-5 {
				pdf.AddPage()
				y = marginTop
			}
			pdf.SetXY(marginLeft+5, y)
			pdf.CellFormat(250, 5, fmt.Sprintf("- %s (%.0f min): %s", s.Label, s.Weight, s.Reason), "", 0, "L", false, 0, "")
			y += 5
		}
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by ScriptTaste - poster collage builder", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	return pdf.Error()
}

func renderKeyValues(pdf *fpdf.Fpdf, y float64, heading string, items [][2]string) float64 {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, heading, "", 0, "L", false, 0, "")
	y += 9

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range items {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(50, 6, item[0]+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(60, 6, item[1], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}
	return y + 5
}

var (
	tableWidths  = []float64{12, 90, 35, 40, 40, 30}
	tableHeaders = []string{"#", "Poster", "Minutes", "Size (px)", "Position", "Share"}
)

func renderTableHeader(pdf *fpdf.Fpdf, y float64) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	x := marginLeft
	for i, header := range tableHeaders {
		pdf.SetXY(x, y)
		pdf.CellFormat(tableWidths[i], rowHeight, header, "1", 0, "C", true, 0, "")
		x += tableWidths[i]
	}
}

// renderPosterTable lists every placed poster, continuing on new pages as
// needed, and returns the y position below the table.
func renderPosterTable(pdf *fpdf.Fpdf, y float64, result *collage.Result) float64 {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Poster Breakdown", "", 0, "L", false, 0, "")
	y += 9

	renderTableHeader(pdf, y)
	y += rowHeight

	for i, p := range result.Placements {
		if y > pageHeight-marginBottom-rowHeight {
			pdf.AddPage()
			y = marginTop
			renderTableHeader(pdf, y)
			y += rowHeight
		}

		share := 0.0
		if result.Stats.CoveredArea > 0 {
			share = 100 * float64(p.Poster.Area()) / float64(result.Stats.CoveredArea)
		}
		row := []string{
			fmt.Sprintf("%d", i+1),
			p.Poster.Label,
			fmt.Sprintf("%.0f", p.Poster.Weight),
			fmt.Sprintf("%d x %d", p.Poster.Width(), p.Poster.Height()),
			fmt.Sprintf("(%d, %d)", p.X, p.Y),
			fmt.Sprintf("%.1f%%", share),
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		pdf.SetFont("Helvetica", "", 9)
		x := marginLeft
		for j, cell := range row {
			if j == 1 {
				cell = truncate(pdf, cell, tableWidths[j]-2)
			}
			pdf.SetXY(x, y)
			pdf.CellFormat(tableWidths[j], rowHeight, cell, "1", 0, "C", true, 0, "")
			x += tableWidths[j]
		}
		y += rowHeight
	}
	return y
}

// renderQRCode draws a QR code encoding summary as JSON with its top-left
// corner at (x, y).
func renderQRCode(pdf *fpdf.Fpdf, x, y float64, summary ReportSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal report summary: %w", err)
	}

	png, err := qrcode.Encode(string(data), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("summary_qr", opts, bytes.NewReader(png))
	pdf.ImageOptions("summary_qr", x, y, qrSize, qrSize, false, opts, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(x, y+qrSize)
	pdf.CellFormat(qrSize, 4, "Scan for summary", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	return nil
}

// truncate shortens s with an ellipsis until it fits width at the current font.
func truncate(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"...") > width {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}
