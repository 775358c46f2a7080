package trustdeed

import (
	"bytes"
	"fmt"

	"codeberg.org/go-pdf/fpdf"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// PDF page geometry in points.
const (
	pdfMargin   = 54
	pdfLeading  = 13
	pdfBodySize = 10
	pdfFineSize = 8
	pdfTitle    = 14
)

// RenderPDF draws the deed on US Letter pages with the core Helvetica font.
// The recording block is framed; the notary acknowledgment starts page two.
func RenderPDF(d Deed) ([]byte, error) {
	doc := fpdf.New("P", "pt", "Letter", "")
	doc.SetTitle("Trust Transfer Deed", true)
	doc.SetCreator("mcp-deed-forms", true)
	doc.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	doc.SetAutoPageBreak(true, pdfMargin)
	doc.AddPage()

	// Core fonts are encoded as Windows-1252; characters outside it become '?'.
	enc := encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder())
	tr := func(s string) string {
		out, err := enc.String(s)
		if err != nil {
			return s
		}
		return out
	}

	pageW, _ := doc.GetPageSize()
	width := pageW - 2*pdfMargin
	boxTop := -1.0

	for _, blk := range layout(d) {
		if boxTop >= 0 && !blk.boxed {
			doc.Rect(pdfMargin-6, boxTop-6, width/2, doc.GetY()-boxTop+12, "D")
			doc.Ln(pdfLeading)
			boxTop = -1
		}
		if blk.boxed && boxTop < 0 {
			boxTop = doc.GetY()
		}
		if blk.page {
			doc.AddPage()
		}

		switch {
		case blk.rule:
			y := doc.GetY() + pdfLeading/2
			doc.Line(pdfMargin, y, pdfMargin+width, y)
			doc.Ln(pdfLeading)
		case blk.gap:
			doc.Ln(pdfLeading / 2)
		case blk.cols != nil:
			doc.SetFont("Helvetica", "", pdfBodySize)
			doc.CellFormat(width/2, pdfLeading, tr(blk.cols[0]), "", 0, "L", false, 0, "")
			doc.CellFormat(width/2, pdfLeading, tr(blk.cols[1]), "", 1, "L", false, 0, "")
		default:
			setStyle(doc, blk.style)
			align := "L"
			if blk.style == styleTitle || blk.style == styleCentered {
				align = "C"
			}
			w := width
			if blk.boxed {
				w = width/2 - 12
			}
			doc.MultiCell(w, pdfLeading, tr(blk.text), "", align, false)
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render deed PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func setStyle(doc *fpdf.Fpdf, s style) {
	switch s {
	case styleHeading:
		doc.SetFont("Helvetica", "B", pdfBodySize)
	case styleTitle:
		doc.SetFont("Helvetica", "B", pdfTitle)
	case styleFine:
		doc.SetFont("Helvetica", "", pdfFineSize)
	default:
		doc.SetFont("Helvetica", "", pdfBodySize)
	}
}
