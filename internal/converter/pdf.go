package converter

import (
	"bytes"
	"fmt"
	"io"

	"github.com/nconklindev/unifile/internal/types"

	"github.com/go-pdf/fpdf"
	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

func init() {
	// pdfcpu would otherwise create a config directory under the user's home.
	api.DisableConfigDir()
}

// Placement is where one line lands in the PDF output. Page and Slot are
// 0-based; Y is the baseline measured from the top edge.
type Placement struct {
	Page int
	Slot int
	Y    float64
}

// Place lays out n lines greedily: draw at the cursor, advance by one line,
// and once the cursor falls inside the bottom margin start a new page for
// the next line. Lines are never wrapped or split.
func (l PageLayout) Place(n int) []Placement {
	placements := make([]Placement, n)
	page, slot := 0, 0
	y := l.Top
	limit := l.Height - l.Bottom

	for i := 0; i < n; i++ {
		placements[i] = Placement{Page: page, Slot: slot, Y: y}
		y += l.LineHeight
		slot++
		if y > limit {
			page++
			slot = 0
			y = l.Top
		}
	}

	return placements
}

// LinesPerPage is the number of lines Place puts on every full page.
func (l PageLayout) LinesPerPage() int {
	if l.LineHeight <= 0 {
		return 0
	}
	limit := l.Height - l.Bottom
	n := 1
	for y := l.Top + l.LineHeight; y <= limit; y += l.LineHeight {
		n++
	}
	return n
}

// PageCount is the number of pages the PDF exporter emits for n lines.
func (l PageLayout) PageCount(n int) int {
	if n == 0 {
		return 1
	}
	per := l.LinesPerPage()
	return (n + per - 1) / per
}

// writePDF draws one line per row at the layout's left margin. Column names
// are not drawn. An empty table produces a single blank page.
func writePDF(t *types.Table, w io.Writer, opts Options) error {
	layout := opts.Page

	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: layout.Width, Ht: layout.Height},
	})
	doc.SetAutoPageBreak(false, 0)
	doc.SetMargins(layout.Left, layout.Top, 0)
	doc.SetFont(layout.FontFamily, "", layout.FontSize)
	if !opts.Timestamp.IsZero() {
		doc.SetCreationDate(opts.Timestamp)
		doc.SetModificationDate(opts.Timestamp)
	}
	tr := doc.UnicodeTranslatorFromDescriptor("")

	doc.AddPage()
	page := 0
	total := len(t.Rows)
	for i, p := range layout.Place(total) {
		reportProgress(opts.Progress, i, total)

		if p.Page > page {
			doc.AddPage()
			page = p.Page
		}
		doc.Text(layout.Left, p.Y, tr(types.JoinRow(t.Rows[i])))
	}

	if err := doc.Output(w); err != nil {
		return err
	}
	reportProgress(opts.Progress, total, total)
	return nil
}

// readPDF returns the text of every page in page order. The structure is
// checked with pdfcpu first; text comes from the content streams as the
// reader decodes them, without any reflow.
func readPDF(data []byte) (pages []string, err error) {
	if err := api.Validate(bytes.NewReader(data), model.NewDefaultConfiguration()); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	// The reader panics on some malformed content streams.
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("read pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	numPages := reader.NumPage()
	pages = make([]string, 0, numPages)
	fonts := make(map[string]*pdf.Font)

	for i := 1; i <= numPages; i++ {
		p := reader.Page(i)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}

		for _, name := range p.Fonts() {
			if _, ok := fonts[name]; !ok {
				f := p.Font(name)
				fonts[name] = &f
			}
		}

		text, err := p.GetPlainText(fonts)
		if err != nil {
			return nil, fmt.Errorf("read pdf page %d: %w", i, err)
		}
		pages = append(pages, text)
	}

	return pages, nil
}
