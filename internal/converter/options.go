package converter

import (
	"time"

	"go.uber.org/zap"
)

const (
	// RowDetectionLimit bounds the header search to the first 2*RowDetectionLimit rows.
	RowDetectionLimit = 10

	DefaultSheetName    = "Sheet1"
	DefaultMaxInputSize = 100 * 1024 * 1024
)

// PageLayout holds the fixed geometry of the PDF exporter, in points.
// Top is the first baseline measured from the top edge of the page.
type PageLayout struct {
	Width      float64
	Height     float64
	Left       float64
	Top        float64
	Bottom     float64
	LineHeight float64
	FontFamily string
	FontSize   float64
}

// DefaultPageLayout is US Letter with a 30pt left margin, 40pt top and bottom
// margins and 20pt lines, which packs 36 lines per page.
func DefaultPageLayout() PageLayout {
	return PageLayout{
		Width:      612,
		Height:     792,
		Left:       30,
		Top:        40,
		Bottom:     40,
		LineHeight: 20,
		FontFamily: "Helvetica",
		FontSize:   12,
	}
}

// Options configures a Converter.
type Options struct {
	// Logger receives debug and summary lines. Defaults to a no-op logger.
	Logger *zap.Logger

	// Page controls the PDF exporter layout. Zero fields take DefaultPageLayout values.
	Page PageLayout

	// SheetName names the single worksheet written by the Excel exporter.
	SheetName string

	// MaxInputSize rejects larger inputs with ErrInputTooLarge (default: 100 MB).
	MaxInputSize int64

	// DetectHeaderRow searches the first rows of a spreadsheet for the most
	// header-like row instead of taking row 1.
	DetectHeaderRow bool

	// Timestamp pins document creation dates so output bytes are reproducible.
	// Zero means the current time.
	Timestamp time.Time

	// Progress receives completion fractions in [0, 1] during exports.
	// Sends never block; slow readers miss updates.
	Progress chan<- float64
}

// DefaultOptions returns options with every default filled in.
func DefaultOptions() Options {
	var o Options
	o.defaults()
	return o
}

func (o *Options) defaults() {
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.SheetName == "" {
		o.SheetName = DefaultSheetName
	}
	if o.MaxInputSize <= 0 {
		o.MaxInputSize = DefaultMaxInputSize
	}
	d := DefaultPageLayout()
	if o.Page.Width <= 0 {
		o.Page.Width = d.Width
	}
	if o.Page.Height <= 0 {
		o.Page.Height = d.Height
	}
	if o.Page.Left <= 0 {
		o.Page.Left = d.Left
	}
	if o.Page.Top <= 0 {
		o.Page.Top = d.Top
	}
	if o.Page.Bottom <= 0 {
		o.Page.Bottom = d.Bottom
	}
	if o.Page.LineHeight <= 0 {
		o.Page.LineHeight = d.LineHeight
	}
	if o.Page.FontFamily == "" {
		o.Page.FontFamily = d.FontFamily
	}
	if o.Page.FontSize <= 0 {
		o.Page.FontSize = d.FontSize
	}
}
