// Package converter is the conversion and extraction engine: it parses
// csv/xlsx/pdf/docx bytes into a types.Table, cleans tables, and serializes
// tables to xlsx/docx/pdf.
//
// A Converter holds no state between calls. Tables passed to Export are read
// only; callers sharing one table between concurrent exports must not modify
// it while those exports run.
package converter

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nconklindev/unifile/internal/types"

	"go.uber.org/zap"
)

type Converter struct {
	opts   Options
	logger *zap.Logger
}

// New creates a Converter with the given options.
func New(opts Options) *Converter {
	opts.defaults()
	return &Converter{
		opts:   opts,
		logger: opts.Logger,
	}
}

// ParseFormat maps a format tag ("xlsx", ".PDF", ...) onto the closed format set.
func ParseFormat(tag string) (types.Format, error) {
	normalized := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(tag), "."))
	for _, f := range types.Formats {
		if f.String() == normalized {
			return f, nil
		}
	}
	return types.FormatUnknown, unsupported("parse", tag)
}

// FormatFromPath returns the document format based on file extension.
func FormatFromPath(path string) (types.Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return types.FormatUnknown, unsupported("detect", path)
	}
	return ParseFormat(ext)
}

// Import parses data declared as format into a table. pdf and docx yield a
// single "Extracted Text" column; csv and xlsx keep their own columns.
func (c *Converter) Import(data []byte, format types.Format) (*types.Table, error) {
	if !format.CanImport() {
		return nil, newConversionError("import", format, ErrUnsupportedFormat, nil)
	}
	if int64(len(data)) > c.opts.MaxInputSize {
		return nil, newConversionError("import", format, ErrInputTooLarge,
			fmt.Errorf("%d bytes (max %d)", len(data), c.opts.MaxInputSize))
	}

	c.logger.Debug("import", zap.Stringer("format", format), zap.Int("bytes", len(data)))

	var (
		table *types.Table
		err   error
	)
	switch format {
	case types.FormatCSV:
		table, err = readCSV(data)
	case types.FormatXLSX:
		table, err = readXLSX(data, c.opts.DetectHeaderRow)
	case types.FormatPDF:
		var pages []string
		if pages, err = readPDF(data); err == nil {
			table = types.ExtractedTable(pages)
		}
	case types.FormatDOCX:
		var paragraphs []string
		if paragraphs, err = readDocx(data); err == nil {
			table = types.ExtractedTable(paragraphs)
		}
	default:
		return nil, newConversionError("import", format, ErrUnsupportedFormat, nil)
	}
	if err != nil {
		c.logger.Debug("import failed", zap.Stringer("format", format), zap.Error(err))
		return nil, newConversionError("import", format, ErrUnreadableDocument, err)
	}

	c.logger.Info("imported",
		zap.Stringer("format", format),
		zap.Int("columns", len(table.Columns)),
		zap.Int("rows", table.Len()),
	)
	return table, nil
}

// Export writes t to w in the target format. The target and the table are
// validated before anything is written. t is only read.
func (c *Converter) Export(t *types.Table, target types.Format, w io.Writer) error {
	_, err := c.export(t, target, w)
	return err
}

func (c *Converter) export(t *types.Table, target types.Format, w io.Writer) (int64, error) {
	write, err := c.exporter(target)
	if err != nil {
		return 0, err
	}
	if err := t.Validate(); err != nil {
		return 0, newConversionError("export", target, types.ErrInvalidTable, err)
	}

	c.logger.Debug("export", zap.Stringer("format", target), zap.Int("rows", t.Len()))

	s := newSink(w)
	if err := write(t, s, c.opts); err != nil {
		if s.err != nil {
			err = s.err
		}
		c.logger.Debug("export failed", zap.Stringer("format", target), zap.Error(err))
		return s.n, newConversionError("export", target, ErrIOFailure, err)
	}

	c.logger.Info("exported",
		zap.Stringer("format", target),
		zap.Int("rows", t.Len()),
		zap.Int64("bytes", s.n),
	)
	return s.n, nil
}

type exportFunc func(t *types.Table, w io.Writer, opts Options) error

func (c *Converter) exporter(target types.Format) (exportFunc, error) {
	switch target {
	case types.FormatXLSX:
		return writeXLSX, nil
	case types.FormatDOCX:
		return writeDocx, nil
	case types.FormatPDF:
		return writePDF, nil
	default:
		return nil, newConversionError("export", target, ErrUnsupportedFormat, nil)
	}
}

// ExportBytes is Export into memory.
func (c *Converter) ExportBytes(t *types.Table, target types.Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Export(t, target, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportFile writes t to path. The file is closed on every path and removed
// when the export fails, so a failed call never leaves a partial document.
func (c *Converter) ExportFile(t *types.Table, target types.Format, path string) (result *types.ConversionResult, err error) {
	if _, err := c.exporter(target); err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, newConversionError("export", target, types.ErrInvalidTable, err)
	}

	outFile, err := os.Create(path)
	if err != nil {
		return nil, newConversionError("export", target, ErrIOFailure, err)
	}
	defer func() {
		if closeErr := outFile.Close(); closeErr != nil && err == nil {
			err = newConversionError("export", target, ErrIOFailure, closeErr)
		}
		if err != nil {
			result = nil
			if removeErr := os.Remove(path); removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) {
				c.logger.Warn("could not remove partial output", zap.String("path", path), zap.Error(removeErr))
			}
		}
	}()

	n, err := c.export(t, target, outFile)
	if err != nil {
		return nil, err
	}

	return &types.ConversionResult{
		OutputFile:   path,
		OutputFormat: target,
		Columns:      t.Columns,
		RowsRead:     t.Len(),
		RowsWritten:  t.Len(),
		BytesWritten: n,
	}, nil
}

// Convert runs the whole pipeline: import, optional clean, export to w.
// Both formats are checked before any parsing starts.
func (c *Converter) Convert(data []byte, from, to types.Format, w io.Writer, clean bool) (*types.ConversionResult, error) {
	if !from.CanImport() {
		return nil, newConversionError("import", from, ErrUnsupportedFormat, nil)
	}
	if _, err := c.exporter(to); err != nil {
		return nil, err
	}

	table, err := c.Import(data, from)
	if err != nil {
		return nil, err
	}
	rowsRead := table.Len()

	if clean {
		table = Clean(table)
		c.logger.Info("cleaned", zap.Int("before", rowsRead), zap.Int("after", table.Len()))
	}

	n, err := c.export(table, to, w)
	if err != nil {
		return nil, err
	}

	return &types.ConversionResult{
		InputFormat:  from,
		OutputFormat: to,
		Columns:      table.Columns,
		RowsRead:     rowsRead,
		RowsWritten:  table.Len(),
		BytesWritten: n,
		Cleaned:      clean,
	}, nil
}

// ConvertFile reads inputFile, converts it and writes outputFile. The input
// format comes from the extension unless from is set.
func (c *Converter) ConvertFile(inputFile, outputFile string, from, to types.Format, clean bool) (*types.ConversionResult, error) {
	if from == types.FormatUnknown {
		detected, err := FormatFromPath(inputFile)
		if err != nil {
			return nil, err
		}
		from = detected
	}
	if !from.CanImport() {
		return nil, newConversionError("import", from, ErrUnsupportedFormat, nil)
	}
	if _, err := c.exporter(to); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(inputFile)
	if err != nil {
		return nil, err
	}

	table, err := c.Import(data, from)
	if err != nil {
		return nil, err
	}
	rowsRead := table.Len()
	if clean {
		table = Clean(table)
	}

	result, err := c.ExportFile(table, to, outputFile)
	if err != nil {
		return nil, err
	}
	result.InputFile = inputFile
	result.InputFormat = from
	result.RowsRead = rowsRead
	result.Cleaned = clean
	return result, nil
}

// OutputPath derives "<base>_converted.<ext>" next to the input file.
func OutputPath(inputFile string, target types.Format) string {
	ext := filepath.Ext(inputFile)
	base := strings.TrimSuffix(inputFile, ext)
	return base + "_converted" + target.Ext()
}
