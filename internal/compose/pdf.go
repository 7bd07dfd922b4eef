package compose

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

const pdfVersion = "1.4"

// producer identifies the emitter in document metadata.
const producer = "job-agent composer"

// WriteError reports that the emitter could not persist its output. It is the
// only failure the composition path surfaces: content- and layout-level
// problems are absorbed upstream by the sanitizer, wrapper, and layout engine.
type WriteError struct {
	Path  string
	Cause error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write failure for %s: %v", e.Path, e.Cause)
}

func (e *WriteError) Unwrap() error {
	return e.Cause
}

// DocumentInfo is the PDF metadata.
type DocumentInfo struct {
	Title  string
	Author string
}

// Document serializes laid-out pages into a PDF byte stream. A document is
// built once from its pages and never mutated after emission.
type Document struct {
	spec       PageSpec
	info       DocumentInfo
	compress   bool
	pageNumber bool
	pages      []Page
}

// NewDocument creates a document for the given pages. Page-number footers and
// stream compression are on; they match the original design, not a tunable
// surface.
func NewDocument(spec PageSpec, info DocumentInfo, pages []Page) *Document {
	return &Document{
		spec:       spec,
		info:       info,
		compress:   true,
		pageNumber: true,
		pages:      pages,
	}
}

// fontResource maps our font constants to PDF resource names.
func fontResource(f Font) string {
	switch f {
	case HelveticaBold:
		return "/F2"
	case HelveticaOblique:
		return "/F3"
	default:
		return "/F1"
	}
}

// escapeString escapes the characters PDF literal strings reserve.
func escapeString(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		switch r {
		case '(', ')', '\\':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// contentStream renders one page's spans and rules as a PDF content stream.
func (d *Document) contentStream(p Page, pageNo int) string {
	var sb strings.Builder
	sb.WriteString("q\n")

	for _, rule := range p.Rules {
		sb.WriteString(fmt.Sprintf("%.3f %.3f %.3f RG\n", rule.Color.R, rule.Color.G, rule.Color.B))
		sb.WriteString(fmt.Sprintf("%.2f w\n", rule.Width))
		sb.WriteString(fmt.Sprintf("%.2f %.2f m %.2f %.2f l S\n", rule.X1, rule.Y, rule.X2, rule.Y))
	}

	for _, span := range p.Spans {
		sb.WriteString("BT\n")
		sb.WriteString(fmt.Sprintf("%s %.2f Tf\n", fontResource(span.Font), span.Size))
		sb.WriteString(fmt.Sprintf("%.3f %.3f %.3f rg\n", span.Color.R, span.Color.G, span.Color.B))
		sb.WriteString(fmt.Sprintf("%.2f %.2f Td\n", span.X, span.Y))
		sb.WriteString(fmt.Sprintf("(%s) Tj\n", escapeString(span.Content)))
		sb.WriteString("ET\n")
	}

	if d.pageNumber {
		label := fmt.Sprintf("Page %d", pageNo)
		size := 8.0
		x := (d.spec.Width - StringWidth(label, HelveticaOblique, size)) / 2
		sb.WriteString("BT\n")
		sb.WriteString(fmt.Sprintf("%s %.2f Tf\n", fontResource(HelveticaOblique), size))
		sb.WriteString(fmt.Sprintf("%.3f %.3f %.3f rg\n", FootGray.R, FootGray.G, FootGray.B))
		sb.WriteString(fmt.Sprintf("%.2f %.2f Td\n", x, d.spec.MarginBottom/2))
		sb.WriteString(fmt.Sprintf("(%s) Tj\n", escapeString(label)))
		sb.WriteString("ET\n")
	}

	sb.WriteString("Q\n")
	return sb.String()
}

// Bytes serializes the document. It never fails: emission is pure byte
// assembly once the pages exist.
func (d *Document) Bytes() []byte {
	// Fixed object numbering:
	//   1 catalog, 2 page tree, 3..5 fonts, then per page a stream object and
	//   a page object, finally the info dictionary.
	var objects []string

	kids := make([]string, 0, len(d.pages))
	streamBase := 6 // first stream object number
	for i := range d.pages {
		kids = append(kids, fmt.Sprintf("%d 0 R", streamBase+i*2+1))
	}

	objects = append(objects, "<< /Type /Catalog\n/Pages 2 0 R\n>>")
	objects = append(objects, fmt.Sprintf("<< /Type /Pages\n/Kids [%s]\n/Count %d\n>>",
		strings.Join(kids, " "), len(d.pages)))

	for _, name := range []string{"Helvetica", "Helvetica-Bold", "Helvetica-Oblique"} {
		objects = append(objects, fmt.Sprintf(
			"<< /Type /Font\n/Subtype /Type1\n/BaseFont /%s\n/Encoding /WinAnsiEncoding\n>>", name))
	}

	for i, page := range d.pages {
		content := d.contentStream(page, i+1)

		var streamData []byte
		filter := ""
		if d.compress {
			var buf bytes.Buffer
			zw := zlib.NewWriter(&buf)
			_, _ = zw.Write([]byte(content))
			_ = zw.Close()
			streamData = buf.Bytes()
			filter = "/Filter /FlateDecode\n"
		} else {
			streamData = []byte(content)
		}

		objects = append(objects, fmt.Sprintf("<< /Length %d\n%s>>\nstream\n%sendstream",
			len(streamData), filter, streamData))
		streamObj := len(objects)

		objects = append(objects, fmt.Sprintf(
			"<< /Type /Page\n/Parent 2 0 R\n/MediaBox [0 0 %.2f %.2f]\n/Contents %d 0 R\n/Resources << /Font << /F1 3 0 R /F2 4 0 R /F3 5 0 R >> >>\n>>",
			d.spec.Width, d.spec.Height, streamObj))
	}

	objects = append(objects, d.infoDict())
	infoObj := len(objects)

	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("%%PDF-%s\n", pdfVersion))
	buf.WriteString("%\xE2\xE3\xCF\xD3\n")

	xref := make([]int, len(objects)+1)
	for i, obj := range objects {
		xref[i+1] = buf.Len()
		buf.WriteString(fmt.Sprintf("%d 0 obj\n%s\nendobj\n", i+1, obj))
	}

	xrefPos := buf.Len()
	buf.WriteString("xref\n")
	buf.WriteString(fmt.Sprintf("0 %d\n", len(objects)+1))
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= len(objects); i++ {
		buf.WriteString(fmt.Sprintf("%010d 00000 n \n", xref[i]))
	}

	buf.WriteString("trailer\n")
	buf.WriteString(fmt.Sprintf("<< /Size %d\n/Root 1 0 R\n/Info %d 0 R\n>>", len(objects)+1, infoObj))
	buf.WriteString("\nstartxref\n")
	buf.WriteString(fmt.Sprintf("%d\n", xrefPos))
	buf.WriteString("%%EOF\n")

	return buf.Bytes()
}

// WriteTo implements io.WriterTo. A failing writer surfaces as a WriteError.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(d.Bytes())
	if err != nil {
		return int64(n), &WriteError{Path: "writer", Cause: err}
	}
	return int64(n), nil
}

// WriteFile persists the document at path. The failure is surfaced to the
// caller as a WriteError and is not retried.
func (d *Document) WriteFile(path string) error {
	if err := os.WriteFile(path, d.Bytes(), 0o644); err != nil {
		return &WriteError{Path: path, Cause: err}
	}
	return nil
}

func (d *Document) infoDict() string {
	var sb strings.Builder
	sb.WriteString("<<\n")
	if d.info.Title != "" {
		sb.WriteString(fmt.Sprintf("/Title (%s)\n", escapeString(d.info.Title)))
	}
	if d.info.Author != "" {
		sb.WriteString(fmt.Sprintf("/Author (%s)\n", escapeString(d.info.Author)))
	}
	sb.WriteString(fmt.Sprintf("/Producer (%s)\n", escapeString(producer)))
	dateStr := time.Now().UTC().Format("D:20060102150405Z")
	sb.WriteString(fmt.Sprintf("/CreationDate (%s)\n", dateStr))
	sb.WriteString(fmt.Sprintf("/ModDate (%s)\n", dateStr))
	sb.WriteString(">>")
	return sb.String()
}
