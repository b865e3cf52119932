package converter

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nconklindev/unifile/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestConverter(t *testing.T) *Converter {
	return New(Options{Logger: zaptest.NewLogger(t)})
}

func sampleTable() *types.Table {
	return &types.Table{
		Columns: []string{"Name", "Hours"},
		Rows: [][]any{
			{"Alice", 1.5},
			{"Bob", int64(2)},
		},
	}
}

// recordingWriter counts writes so tests can assert nothing reached the sink.
type recordingWriter struct {
	writes int
}

func (w *recordingWriter) Write(p []byte) (int, error) {
	w.writes++
	return len(p), nil
}

type failingWriter struct {
	after int
	n     int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.n+len(p) > w.after {
		return 0, errors.New("device full")
	}
	w.n += len(p)
	return len(p), nil
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		tag      string
		expected types.Format
		wantErr  bool
	}{
		{"csv", types.FormatCSV, false},
		{"XLSX", types.FormatXLSX, false},
		{".pdf", types.FormatPDF, false},
		{" docx ", types.FormatDOCX, false},
		{"xyz", types.FormatUnknown, true},
		{"", types.FormatUnknown, true},
		{"xls", types.FormatUnknown, true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.tag)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrUnsupportedFormat, "ParseFormat(%q)", tt.tag)
			continue
		}
		require.NoError(t, err, "ParseFormat(%q)", tt.tag)
		assert.Equal(t, tt.expected, got, "ParseFormat(%q)", tt.tag)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path     string
		expected types.Format
	}{
		{"doc.docx", types.FormatDOCX},
		{"/tmp/report.PDF", types.FormatPDF},
		{"data.csv", types.FormatCSV},
		{"book.xlsx", types.FormatXLSX},
	}

	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, got)
	}

	_, err := FormatFromPath("file.xyz")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	_, err = FormatFromPath("README")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestImport_UnsupportedFormat(t *testing.T) {
	c := newTestConverter(t)

	table, err := c.Import([]byte("anything"), types.FormatUnknown)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Nil(t, table)

	table, err = c.Import([]byte("anything"), types.Format(99))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Nil(t, table)
}

func TestExport_UnsupportedFormatWritesNothing(t *testing.T) {
	c := newTestConverter(t)

	for _, target := range []types.Format{types.FormatUnknown, types.FormatCSV, types.Format(42)} {
		w := &recordingWriter{}
		err := c.Export(sampleTable(), target, w)
		assert.ErrorIs(t, err, ErrUnsupportedFormat, "target %v", target)
		assert.Zero(t, w.writes, "target %v", target)
	}
}

func TestImport_UnreadableDocument(t *testing.T) {
	c := newTestConverter(t)
	garbage := []byte("\x00\x01 not a document \xff")

	for _, format := range []types.Format{types.FormatPDF, types.FormatDOCX, types.FormatXLSX} {
		table, err := c.Import(garbage, format)
		assert.ErrorIs(t, err, ErrUnreadableDocument, "format %v", format)
		assert.Nil(t, table, "format %v", format)

		var convErr *ConversionError
		require.ErrorAs(t, err, &convErr)
		assert.Equal(t, "import", convErr.Op)
		assert.Equal(t, format, convErr.Format)
	}
}

func TestImport_TooLarge(t *testing.T) {
	c := New(Options{MaxInputSize: 8})

	_, err := c.Import([]byte("A,B\n1,2\n3,4\n"), types.FormatCSV)
	assert.ErrorIs(t, err, ErrInputTooLarge)
}

func TestImport_ExtractionOrder(t *testing.T) {
	c := newTestConverter(t)

	source := types.ExtractedTable([]string{"p0", "p1", "p2"})
	data, err := c.ExportBytes(source, types.FormatDOCX)
	require.NoError(t, err)

	table, err := c.Import(data, types.FormatDOCX)
	require.NoError(t, err)
	assert.Equal(t, []string{types.ExtractedTextColumn}, table.Columns)
	assert.Equal(t, [][]any{{"p0"}, {"p1"}, {"p2"}}, table.Rows)
}

func TestImport_PDFOnePerPage(t *testing.T) {
	c := newTestConverter(t)

	data, err := c.ExportBytes(numberedTable(40), types.FormatPDF)
	require.NoError(t, err)

	table, err := c.Import(data, types.FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, []string{types.ExtractedTextColumn}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Contains(t, table.Rows[0][0], "line000")
	assert.Contains(t, table.Rows[1][0], "line039")
}

func TestExport_IOFailure(t *testing.T) {
	c := newTestConverter(t)

	for _, target := range []types.Format{types.FormatXLSX, types.FormatDOCX, types.FormatPDF} {
		err := c.Export(sampleTable(), target, &failingWriter{after: 10})
		assert.ErrorIs(t, err, ErrIOFailure, "target %v", target)
	}
}

func TestExport_InvalidTable(t *testing.T) {
	c := newTestConverter(t)
	ragged := &types.Table{Columns: []string{"A", "B"}, Rows: [][]any{{"only one"}}}

	w := &recordingWriter{}
	err := c.Export(ragged, types.FormatPDF, w)
	assert.ErrorIs(t, err, types.ErrInvalidTable)
	assert.Zero(t, w.writes)
}

func TestExport_DoesNotModifyTable(t *testing.T) {
	c := newTestConverter(t)
	table := sampleTable()
	before := sampleTable()

	for _, target := range []types.Format{types.FormatXLSX, types.FormatDOCX, types.FormatPDF} {
		_, err := c.ExportBytes(table, target)
		require.NoError(t, err)
	}
	assert.Equal(t, before, table)
}

func TestExportFile(t *testing.T) {
	c := newTestConverter(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "out.xlsx")

	result, err := c.ExportFile(sampleTable(), types.FormatXLSX, path)
	require.NoError(t, err)
	assert.Equal(t, path, result.OutputFile)
	assert.Equal(t, 2, result.RowsWritten)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, result.BytesWritten, info.Size())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	back, err := c.Import(data, types.FormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, sampleTable(), back)
}

func TestExportFile_FailureLeavesNoFile(t *testing.T) {
	c := newTestConverter(t)
	dir := t.TempDir()

	_, err := c.ExportFile(sampleTable(), types.FormatPDF, filepath.Join(dir, "missing", "out.pdf"))
	assert.ErrorIs(t, err, ErrIOFailure)

	path := filepath.Join(dir, "ragged.pdf")
	_, err = c.ExportFile(&types.Table{Columns: []string{"A"}, Rows: [][]any{{}}}, types.FormatPDF, path)
	assert.ErrorIs(t, err, types.ErrInvalidTable)
	assert.NoFileExists(t, path)

	path = filepath.Join(dir, "out.csv")
	_, err = c.ExportFile(sampleTable(), types.FormatCSV, path)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.NoFileExists(t, path)
}

func TestConvert(t *testing.T) {
	c := newTestConverter(t)
	input := []byte("Name,Hours\nAlice,1.5\nAlice,1.5\nBob,\nCarol,3\n")

	var buf bytes.Buffer
	result, err := c.Convert(input, types.FormatCSV, types.FormatDOCX, &buf, true)
	require.NoError(t, err)

	assert.Equal(t, 4, result.RowsRead)
	assert.Equal(t, 2, result.RowsWritten)
	assert.True(t, result.Cleaned)
	assert.Equal(t, int64(buf.Len()), result.BytesWritten)

	paragraphs, err := readDocx(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice, 1.5", "Carol, 3"}, paragraphs)
}

func TestConvert_ValidatesTargetFirst(t *testing.T) {
	c := newTestConverter(t)

	w := &recordingWriter{}
	_, err := c.Convert([]byte("not even csv \""), types.FormatCSV, types.Format(7), w, false)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.NotErrorIs(t, err, ErrUnreadableDocument)
	assert.Zero(t, w.writes)
}

func TestConvertFile(t *testing.T) {
	c := newTestConverter(t)
	dir := t.TempDir()
	inputFile := filepath.Join(dir, "input.csv")
	require.NoError(t, os.WriteFile(inputFile, []byte("Name,Hours\nAlice,1.5\nBob,2.0\n"), 0644))

	outputFile := OutputPath(inputFile, types.FormatPDF)
	assert.Equal(t, filepath.Join(dir, "input_converted.pdf"), outputFile)

	result, err := c.ConvertFile(inputFile, outputFile, types.FormatUnknown, types.FormatPDF, false)
	require.NoError(t, err)
	assert.Equal(t, inputFile, result.InputFile)
	assert.Equal(t, types.FormatCSV, result.InputFormat)
	assert.Equal(t, 2, result.RowsRead)
	assert.FileExists(t, outputFile)
}

func TestExport_ReportsProgress(t *testing.T) {
	progressChan := make(chan float64, 100)
	c := New(Options{Progress: progressChan})

	_, err := c.ExportBytes(numberedTable(10), types.FormatDOCX)
	require.NoError(t, err)
	close(progressChan)

	var last float64
	count := 0
	for p := range progressChan {
		assert.GreaterOrEqual(t, p, last)
		last = p
		count++
	}
	assert.Positive(t, count)
	assert.Equal(t, 1.0, last)
}
