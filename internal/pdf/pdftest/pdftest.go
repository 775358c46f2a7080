// Package pdftest builds small PDF documents for tests.
package pdftest

import (
	"bytes"
	"fmt"

	"codeberg.org/go-pdf/fpdf"
)

// Build assembles a PDF from object bodies numbered from 1, with object 1 as
// the catalog, and a cross-reference table with exact byte offsets.
func Build(objects ...string) []byte {
	var b bytes.Buffer
	b.WriteString("%PDF-1.7\n")

	offsets := make([]int, len(objects))
	for i, body := range objects {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n", len(objects)+1)
	b.WriteString("0000000000 65535 f\r\n")
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n\r\n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return b.Bytes()
}

// FormPDF returns a one-page form with the fields, in catalog order:
// APN (text, obj 6), Check Box 1 (obj 7), Check Box 2 (obj 10),
// buyer.name (text under a non-terminal parent, obj 9, value "old") and a
// read-only County dropdown (obj 11).
func FormPDF() []byte {
	const widget = "/Type /Annot /Subtype /Widget /P 3 0 R"
	return Build(
		"<< /Type /Catalog /Pages 2 0 R /AcroForm 5 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Annots [6 0 R 7 0 R 10 0 R 9 0 R 11 0 R] >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
		"<< /Fields [6 0 R 7 0 R 10 0 R 8 0 R 11 0 R] /DR << /Font << /Helv 4 0 R >> >> /DA (/Helv 0 Tf 0 g) >>",
		"<< /FT /Tx /T (APN) "+widget+" /Rect [50 700 250 720] /DA (/Helv 10 Tf 0 g) >>",
		"<< /FT /Btn /T (Check Box 1) "+widget+" /Rect [50 650 62 662] /V /Off /AS /Off >>",
		"<< /T (buyer) /Kids [9 0 R] >>",
		"<< /FT /Tx /T (name) /Parent 8 0 R "+widget+" /Rect [50 600 250 620] /V (old) /DA (/Helv 10 Tf 0 g) >>",
		"<< /FT /Btn /T (Check Box 2) "+widget+" /Rect [70 650 82 662] /V /Off /AS /Off >>",
		"<< /FT /Ch /T (County) /Ff 1 "+widget+" /Rect [50 550 250 570] /Opt [(Los Angeles) (Orange)] /DA (/Helv 10 Tf 0 g) >>",
	)
}

// TextPDF renders each line on one letter-size page. Lines end with a space
// so text-layer extraction never fuses adjacent lines into one token.
func TextPDF(lines ...string) []byte {
	doc := fpdf.New("P", "pt", "Letter", "")
	doc.AddPage()
	doc.SetFont("Helvetica", "", 10)

	y := 72.0
	for _, line := range lines {
		doc.Text(36, y, line+" ")
		y += 14
		if y > 740 {
			doc.AddPage()
			y = 72
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		panic(fmt.Sprintf("pdftest: %v", err))
	}
	return buf.Bytes()
}

// BlankPDF is a valid one-page PDF with no text layer, as a scan without
// OCR would appear.
func BlankPDF() []byte {
	return Build(
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> >>",
	)
}
