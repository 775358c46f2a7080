package trustdeed

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const relsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

// Half-point font sizes and twip measures used by WordprocessingML.
const (
	docxBodySize  = 22
	docxTitleSize = 28
	docxFineSize  = 18
	docxHalfPage  = 4680
)

// RenderDOCX writes a minimal WordprocessingML package: one document part
// with a page break before the notary acknowledgment.
func RenderDOCX(d Deed) ([]byte, error) {
	var body strings.Builder
	for _, blk := range layout(d) {
		writeParagraph(&body, blk)
	}

	document := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body.String() +
		`<w:sectPr><w:pgSz w:w="12240" w:h="15840"/><w:pgMar w:top="1080" w:right="1080" w:bottom="1080" w:left="1080" w:header="720" w:footer="720" w:gutter="0"/></w:sectPr>` +
		`</w:body></w:document>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	parts := []struct{ name, data string }{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", relsXML},
		{"word/document.xml", document},
	}
	for _, p := range parts {
		w, err := zw.Create(p.name)
		if err != nil {
			return nil, fmt.Errorf("failed to add %s: %w", p.name, err)
		}
		if _, err := w.Write([]byte(p.data)); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish docx package: %w", err)
	}
	return buf.Bytes(), nil
}

func writeParagraph(b *strings.Builder, blk block) {
	b.WriteString("<w:p>")

	var ppr strings.Builder
	if blk.page {
		ppr.WriteString(`<w:pageBreakBefore/>`)
	}
	if blk.rule {
		ppr.WriteString(`<w:pBdr><w:bottom w:val="single" w:sz="6" w:space="1" w:color="auto"/></w:pBdr>`)
	}
	if blk.cols != nil {
		ppr.WriteString(fmt.Sprintf(`<w:tabs><w:tab w:val="left" w:pos="%d"/></w:tabs>`, docxHalfPage))
	}
	if blk.style == styleTitle || blk.style == styleCentered {
		ppr.WriteString(`<w:jc w:val="center"/>`)
	}
	if ppr.Len() > 0 {
		b.WriteString("<w:pPr>" + ppr.String() + "</w:pPr>")
	}

	switch {
	case blk.rule, blk.gap:
	case blk.cols != nil:
		writeRun(b, blk.cols[0], styleBody)
		b.WriteString("<w:r><w:tab/></w:r>")
		writeRun(b, blk.cols[1], styleBody)
	default:
		writeRun(b, blk.text, blk.style)
	}
	b.WriteString("</w:p>")
}

func writeRun(b *strings.Builder, text string, s style) {
	size := docxBodySize
	bold := false
	switch s {
	case styleHeading:
		bold = true
	case styleTitle:
		bold, size = true, docxTitleSize
	case styleFine:
		size = docxFineSize
	}

	b.WriteString("<w:r><w:rPr>")
	if bold {
		b.WriteString("<w:b/>")
	}
	fmt.Fprintf(b, `<w:sz w:val="%d"/></w:rPr><w:t xml:space="preserve">`, size)
	_ = xml.EscapeText(b, []byte(text))
	b.WriteString("</w:t></w:r>")
}
