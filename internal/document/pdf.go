package document

import (
	"bytes"
	"fmt"
	"strconv"

	"golang.org/x/text/encoding/charmap"
)

// Page geometry, in PDF points.
const (
	pageWidth    = 595
	pageHeight   = 842
	marginLeft   = 72
	titleY       = 770
	titleSize    = 16
	firstLineY   = 740
	lineSize     = 10
	lineHeight   = 14
	bottomMargin = 50
)

// Object numbers of the fixed single-page layout.
const (
	objCatalog = 1
	objPages   = 2
	objPage    = 3
	objContent = 4
	objFont    = 5
)

// EncodePDF renders d as a single-page PDF 1.4 document. Lines that would
// fall below the bottom margin are dropped.
func EncodePDF(d Document) []byte {
	content := contentStream(d)

	b := &pdfBuilder{}
	b.header()
	b.object(objCatalog, fmt.Sprintf("<< /Type /Catalog /Pages %d 0 R >>", objPages))
	b.object(objPages, fmt.Sprintf("<< /Type /Pages /Kids [%d 0 R] /Count 1 >>", objPage))
	b.object(objPage, fmt.Sprintf(
		"<< /Type /Page /Parent %d 0 R /MediaBox [0 0 %d %d] /Resources << /Font << /F1 %d 0 R >> >> /Contents %d 0 R >>",
		objPages, pageWidth, pageHeight, objFont, objContent))
	b.stream(objContent, content)
	b.object(objFont, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")
	return b.finish(objCatalog)
}

func contentStream(d Document) []byte {
	var s bytes.Buffer
	textLine(&s, titleSize, titleY, d.title)

	y := firstLineY
	for _, ln := range d.lines {
		if y < bottomMargin {
			break
		}
		textLine(&s, lineSize, y, ln)
		y -= lineHeight
	}
	return s.Bytes()
}

func textLine(s *bytes.Buffer, size, y int, text string) {
	fmt.Fprintf(s, "BT /F1 %d Tf %d %d Td (", size, marginLeft, y)
	s.Write(escapeText(text))
	s.WriteString(") Tj ET\n")
}

// escapeText makes text safe inside a PDF string literal encoded as Latin-1.
// Parentheses become brackets, backslashes are escaped, control characters
// become spaces and runes outside Latin-1 are dropped.
func escapeText(text string) []byte {
	out := make([]byte, 0, len(text))
	for _, r := range text {
		switch {
		case r == '(':
			out = append(out, '[')
		case r == ')':
			out = append(out, ']')
		case r == '\\':
			out = append(out, '\\', '\\')
		case r < 0x20 || r == 0x7f:
			out = append(out, ' ')
		default:
			if c, ok := charmap.ISO8859_1.EncodeRune(r); ok {
				out = append(out, c)
			}
		}
	}
	return out
}

// pdfBuilder appends objects to a buffer and records the byte offset at
// which each object starts, immediately before writing it.
type pdfBuilder struct {
	buf     bytes.Buffer
	offsets []int
}

func (b *pdfBuilder) header() {
	// The binary comment line marks the file as containing 8-bit data.
	b.buf.WriteString("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")
}

func (b *pdfBuilder) begin(num int) {
	if num != len(b.offsets)+1 {
		panic(fmt.Sprintf("pdf: object %d written out of order", num))
	}
	b.offsets = append(b.offsets, b.buf.Len())
	fmt.Fprintf(&b.buf, "%d 0 obj\n", num)
}

func (b *pdfBuilder) object(num int, dict string) {
	b.begin(num)
	b.buf.WriteString(dict)
	b.buf.WriteString("\nendobj\n")
}

func (b *pdfBuilder) stream(num int, data []byte) {
	b.begin(num)
	fmt.Fprintf(&b.buf, "<< /Length %d >>\nstream\n", len(data))
	b.buf.Write(data)
	b.buf.WriteString("\nendstream\nendobj\n")
}

func (b *pdfBuilder) finish(root int) []byte {
	xrefStart := b.buf.Len()
	size := len(b.offsets) + 1

	fmt.Fprintf(&b.buf, "xref\n0 %d\n", size)
	b.buf.WriteString("0000000000 65535 f \n")
	for _, off := range b.offsets {
		fmt.Fprintf(&b.buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b.buf, "trailer\n<< /Size %d /Root %d 0 R >>\n", size, root)
	b.buf.WriteString("startxref\n")
	b.buf.WriteString(strconv.Itoa(xrefStart))
	b.buf.WriteString("\n%%EOF\n")
	return b.buf.Bytes()
}
