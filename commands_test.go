package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/nconklindev/unifile/internal/converter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestFormatsCmd(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"formats"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "FORMAT")
	assert.Regexp(t, `csv\s+\.csv\s+yes\s+no`, out.String())
	assert.Regexp(t, `docx\s+\.docx\s+yes\s+yes`, out.String())
}

func TestConvertCmd(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "hours.csv")
	require.NoError(t, os.WriteFile(input, []byte("Name,Hours\nAlice,1.5\nAlice,1.5\nBob,\n"), 0644))

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"convert", input, "--to", "xlsx", "--clean"})

	require.NoError(t, cmd.Execute())
	assert.FileExists(t, filepath.Join(dir, "hours_converted.xlsx"))
	assert.Contains(t, out.String(), "hours_converted.xlsx")
	assert.Contains(t, out.String(), "1 rows")
}

func TestRunConvert_Errors(t *testing.T) {
	logger := zaptest.NewLogger(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "notes.docx")
	require.NoError(t, os.WriteFile(input, []byte("not a zip"), 0644))

	var out bytes.Buffer
	err := runConvert(input, &convertFlags{to: "csv"}, logger, &out)
	assert.ErrorIs(t, err, converter.ErrUnsupportedFormat)

	err = runConvert(input, &convertFlags{to: "pdf", from: "odt"}, logger, &out)
	assert.ErrorIs(t, err, converter.ErrUnsupportedFormat)

	err = runConvert(input, &convertFlags{to: "pdf", output: filepath.Join(dir, "out.pdf")}, logger, &out)
	assert.ErrorIs(t, err, converter.ErrUnreadableDocument)
	assert.NoFileExists(t, filepath.Join(dir, "out.pdf"))
	assert.Zero(t, out.Len())
}

func TestConvertCmd_RequiresTarget(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"convert", "input.csv"})

	assert.Error(t, cmd.Execute())
}
