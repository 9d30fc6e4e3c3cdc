package report

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/ogurasousui/feedback-exchange/internal/core/feedback"
)

// ContentType は出力される文書の MIME タイプです。
const ContentType = "application/pdf"

// PDFRenderer はフィードバック一覧を A4 の PDF に描画します。
type PDFRenderer struct {
	fontFamily string
	fontSize   float64
}

// NewPDFRenderer は Helvetica 12pt の PDFRenderer を生成します。
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{fontFamily: "Helvetica", fontSize: 12}
}

// ContentType は ContentType を返します。
func (r *PDFRenderer) ContentType() string {
	return ContentType
}

// Render はレポートを w に書き出します。
func (r *PDFRenderer) Render(w io.Writer, employeeID string, items []*feedback.Feedback) error {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFont(r.fontFamily, "", r.fontSize)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	_, pageHeight := pdf.GetPageSize()

	for _, page := range Layout(employeeID, items) {
		pdf.AddPage()
		for _, line := range page.Lines {
			pdf.Text(line.X, pageHeight-line.Y, tr(line.Text))
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("report: write pdf: %w", err)
	}
	return nil
}
