package converter

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nconklindev/unifile/internal/types"
)

const documentPart = "word/document.xml"

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`</Types>`

const relsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`</Relationships>`

const documentHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`

const documentFooter = `<w:sectPr><w:pgSz w:w="12240" w:h="15840"/>` +
	`<w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440" w:header="720" w:footer="720" w:gutter="0"/>` +
	`</w:sectPr></w:body></w:document>`

// writeDocx writes a minimal WordprocessingML package with one paragraph per
// row. Paragraph text is the row joined by types.JoinRow; no header paragraph.
func writeDocx(t *types.Table, w io.Writer, opts Options) error {
	zw := zip.NewWriter(w)

	modified := opts.Timestamp
	if modified.IsZero() {
		modified = time.Now()
	}

	parts := []struct {
		name string
		body func(io.Writer) error
	}{
		{"[Content_Types].xml", constPart(contentTypesXML)},
		{"_rels/.rels", constPart(relsXML)},
		{documentPart, func(pw io.Writer) error { return writeDocumentXML(pw, t, opts.Progress) }},
	}

	for _, part := range parts {
		pw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     part.name,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return err
		}
		if err := part.body(pw); err != nil {
			return err
		}
	}

	return zw.Close()
}

func constPart(s string) func(io.Writer) error {
	return func(w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	}
}

func writeDocumentXML(w io.Writer, t *types.Table, progressChan chan<- float64) error {
	if _, err := io.WriteString(w, documentHeader); err != nil {
		return err
	}

	total := len(t.Rows)
	var buf bytes.Buffer
	for i, row := range t.Rows {
		reportProgress(progressChan, i, total)

		buf.Reset()
		writeParagraph(&buf, types.JoinRow(row))
		if _, err := w.Write(buf.Bytes()); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, documentFooter)
	reportProgress(progressChan, total, total)
	return err
}

// writeParagraph emits a single w:p. Tabs and newlines become w:tab and w:br
// so that the reader below restores the exact text.
func writeParagraph(buf *bytes.Buffer, text string) {
	buf.WriteString("<w:p>")
	if text != "" {
		buf.WriteString("<w:r>")
		var run strings.Builder
		flush := func() {
			if run.Len() == 0 {
				return
			}
			buf.WriteString(`<w:t xml:space="preserve">`)
			xml.EscapeText(buf, []byte(run.String()))
			buf.WriteString("</w:t>")
			run.Reset()
		}
		for _, r := range text {
			switch r {
			case '\t':
				flush()
				buf.WriteString("<w:tab/>")
			case '\n':
				flush()
				buf.WriteString("<w:br/>")
			case '\r':
			default:
				run.WriteRune(r)
			}
		}
		flush()
		buf.WriteString("</w:r>")
	}
	buf.WriteString("</w:p>")
}

// readDocx returns the text of every body-level paragraph of a .docx file in
// document order. Empty paragraphs are kept; paragraphs nested inside tables
// are not body-level and are skipped.
func readDocx(data []byte) ([]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}

	var docFile *zip.File
	for _, f := range zr.File {
		if f.Name == documentPart {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return nil, fmt.Errorf("%s not found in archive", documentPart)
	}

	rc, err := docFile.Open()
	if err != nil {
		return nil, fmt.Errorf("open document.xml: %w", err)
	}
	defer rc.Close()

	return readParagraphs(rc)
}

func readParagraphs(r io.Reader) ([]string, error) {
	decoder := xml.NewDecoder(r)

	var paragraphs []string
	var stack []string
	var current strings.Builder
	paragraphDepth := -1
	inText := false
	sawBody := false

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse document.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			name := t.Name.Local
			inParagraph := paragraphDepth >= 0
			ownRun := inParagraph && isParagraphRun(stack[paragraphDepth+1:])
			switch {
			case name == "body":
				sawBody = true
			case name == "p" && !inParagraph && len(stack) > 0 && stack[len(stack)-1] == "body":
				paragraphDepth = len(stack)
				current.Reset()
			case ownRun && name == "t":
				inText = true
			case ownRun && name == "tab":
				current.WriteByte('\t')
			case ownRun && (name == "br" || name == "cr"):
				current.WriteByte('\n')
			}
			stack = append(stack, name)

		case xml.CharData:
			if inText {
				current.Write(t)
			}

		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			switch {
			case t.Name.Local == "t":
				inText = false
			case t.Name.Local == "p" && len(stack) == paragraphDepth:
				paragraphDepth = -1
				paragraphs = append(paragraphs, current.String())
			}
		}
	}

	if !sawBody {
		return nil, fmt.Errorf("document.xml has no body")
	}
	return paragraphs, nil
}

// isParagraphRun reports whether path, relative to a body paragraph, is one
// of its own runs: w:r or w:hyperlink/w:r. Text boxes and other nested
// content sit deeper and are skipped.
func isParagraphRun(path []string) bool {
	switch len(path) {
	case 1:
		return path[0] == "r"
	case 2:
		return path[0] == "hyperlink" && path[1] == "r"
	}
	return false
}
