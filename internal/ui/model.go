package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nconklindev/unifile/internal/converter"
	"github.com/nconklindev/unifile/internal/types"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

type state int

const (
	stateFilePicker state = iota
	statePreview
	stateProcessing
	stateComplete
	stateError
)

const (
	previewRows     = 10
	previewMaxWidth = 24
)

// exportTargets is the order targets are offered in the preview screen.
var exportTargets = []types.Format{types.FormatXLSX, types.FormatDOCX, types.FormatPDF}

type Model struct {
	state        state
	logger       *zap.Logger
	filepicker   filepicker.Model
	selectedFile string
	inputFormat  types.Format
	table        *types.Table
	preview      table.Model
	clean        bool
	cursor       int
	result       *types.ConversionResult
	err          error
	width        int
	height       int
	progress     progress.Model
	progressChan chan float64
	resultChan   chan conversionResultMsg
}

type conversionResultMsg struct {
	result *types.ConversionResult
	err    error
}

type fileLoadedMsg struct {
	format types.Format
	table  *types.Table
	err    error
}

type conversionCompleteMsg struct {
	result *types.ConversionResult
	err    error
}

type progressMsg float64

type waitForProgressMsg struct{}

// InitialModel builds the file picker screen. A nil logger discards logs.
func InitialModel(logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}

	fp := filepicker.New()
	fp.AllowedTypes = allowedTypes()
	fp.CurrentDirectory, _ = os.Getwd()

	// Set filepicker colors to match theme
	fp.Styles.Cursor = lipgloss.NewStyle().Foreground(colorPrimary)
	fp.Styles.Symlink = lipgloss.NewStyle().Foreground(colorSecondary)
	fp.Styles.Directory = lipgloss.NewStyle().Foreground(colorSecondary)
	fp.Styles.File = lipgloss.NewStyle().Foreground(colorText)
	fp.Styles.Permission = lipgloss.NewStyle().Foreground(colorMuted)
	fp.Styles.Selected = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	fp.Styles.FileSize = lipgloss.NewStyle().Foreground(colorMuted)

	prog := progress.New(progress.WithGradient(colorGradient, string(colorSecondary)))

	return Model{
		state:      stateFilePicker,
		logger:     logger,
		filepicker: fp,
		progress:   prog,
	}
}

func allowedTypes() []string {
	var exts []string
	for _, f := range types.Formats {
		if f.CanImport() {
			exts = append(exts, f.Ext())
		}
	}
	return exts
}

func (m Model) Init() tea.Cmd {
	return m.filepicker.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Subtract space for title, subtitle, help text, and padding
		height := msg.Height - 14
		if height < 5 {
			height = 5
		}

		m.filepicker.SetHeight(height)

		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case stateFilePicker:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			}

		case statePreview:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "up", "k", "left", "h":
				if m.cursor > 0 {
					m.cursor--
				}
			case "down", "j", "right", "l":
				if m.cursor < len(exportTargets)-1 {
					m.cursor++
				}
			case "c":
				m.clean = !m.clean
			case "esc":
				m.state = stateFilePicker
				m.table = nil
				return m, m.filepicker.Init()
			case "enter":
				m.state = stateProcessing
				return m.convertFile()
			}

		case stateComplete, stateError:
			switch msg.String() {
			case "ctrl+c", "q", "enter", "esc":
				return m, tea.Quit
			}
		}

	case fileLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		m.inputFormat = msg.format
		m.table = msg.table
		m.preview = newPreview(msg.table)
		m.cursor = 0
		m.state = statePreview
		return m, nil

	case conversionCompleteMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		m.result = msg.result
		m.state = stateComplete
		return m, nil

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case progressMsg:
		if m.state == stateProcessing {
			cmd := m.progress.SetPercent(float64(msg))
			return m, tea.Batch(cmd, waitForProgress(m.progressChan, m.resultChan))
		}
		return m, nil

	case waitForProgressMsg:
		return m, waitForProgress(m.progressChan, m.resultChan)
	}

	if m.state == stateFilePicker {
		var cmd tea.Cmd
		m.filepicker, cmd = m.filepicker.Update(msg)

		if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect {
			m.selectedFile = path
			return m, m.loadFile(path)
		}

		return m, cmd
	}

	return m, nil
}

func (m Model) loadFile(path string) tea.Cmd {
	logger := m.logger
	return func() tea.Msg {
		format, err := converter.FormatFromPath(path)
		if err != nil {
			return fileLoadedMsg{err: err}
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fileLoadedMsg{err: err}
		}
		t, err := converter.New(converter.Options{Logger: logger}).Import(data, format)
		return fileLoadedMsg{format: format, table: t, err: err}
	}
}

// newPreview renders the first rows of t, truncating wide cells.
func newPreview(t *types.Table) table.Model {
	columns := make([]table.Column, len(t.Columns))
	for i, name := range t.Columns {
		columns[i] = table.Column{Title: name, Width: clampWidth(len(name))}
	}

	n := min(t.Len(), previewRows)
	rows := make([]table.Row, n)
	for i := 0; i < n; i++ {
		row := make(table.Row, len(t.Columns))
		for j, v := range t.Rows[i] {
			cell := strings.ReplaceAll(types.FormatValue(v), "\n", " ")
			columns[j].Width = max(columns[j].Width, clampWidth(len(cell)))
			row[j] = cell
		}
		rows[i] = row
	}

	return table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(n+1),
		table.WithFocused(false),
		table.WithStyles(previewStyles()),
	)
}

func clampWidth(n int) int {
	return max(4, min(n, previewMaxWidth))
}

func (m Model) convertFile() (Model, tea.Cmd) {
	m.progressChan = make(chan float64, 100)
	m.resultChan = make(chan conversionResultMsg, 1)

	// Capture state for the goroutine
	progressChan := m.progressChan
	resultChan := m.resultChan
	selectedFile := m.selectedFile
	inputFormat := m.inputFormat
	source := m.table
	clean := m.clean
	target := exportTargets[m.cursor]
	logger := m.logger

	cmd := tea.Batch(
		func() tea.Msg {
			go func() {
				t := source
				if clean {
					t = converter.Clean(source)
				}

				c := converter.New(converter.Options{Logger: logger, Progress: progressChan})
				result, err := c.ExportFile(t, target, converter.OutputPath(selectedFile, target))
				if err == nil {
					result.InputFile = selectedFile
					result.InputFormat = inputFormat
					result.RowsRead = source.Len()
					result.Cleaned = clean
				}

				resultChan <- conversionResultMsg{result: result, err: err}

				close(progressChan)
				close(resultChan)
			}()

			return waitForProgressMsg{}
		},
		m.progress.Init(),
	)

	return m, cmd
}

func waitForProgress(progressChan chan float64, resultChan chan conversionResultMsg) tea.Cmd {
	return func() tea.Msg {
		if progressChan == nil {
			return nil
		}

		p, ok := <-progressChan
		if !ok {
			// Progress channel closed, check result
			res, ok := <-resultChan
			if ok {
				return conversionCompleteMsg(res)
			}
			return nil
		}

		return progressMsg(p)
	}
}

func (m Model) View() string {
	switch m.state {
	case stateFilePicker:
		return m.viewFilePicker()
	case statePreview:
		return m.viewPreview()
	case stateProcessing:
		return m.viewProcessing()
	case stateComplete:
		return m.viewComplete()
	case stateError:
		return m.viewError()
	}
	return ""
}

func (m Model) viewFilePicker() string {
	var s strings.Builder

	title := TitleStyle.Render("📄 Unifile - Document Converter")

	authorSpan := SubtitleStyle.Render("by Nick Conklin • ")
	githubSpan := LinkStyle.Render("https://github.com/nconklindev/unifile")
	byLine := lipgloss.JoinHorizontal(lipgloss.Top, authorSpan, githubSpan)

	s.WriteString(lipgloss.JoinVertical(lipgloss.Left, title, byLine))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render("Select a CSV, XLSX, PDF or DOCX file to convert"))
	s.WriteString("\n\n")
	s.WriteString(m.filepicker.View())
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("Press q to quit"))

	return s.String()
}

func (m Model) viewPreview() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("📄 Preview"))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render(fmt.Sprintf("File: %s (%s, %d rows × %d columns)",
		filepath.Base(m.selectedFile), m.inputFormat, m.table.Len(), len(m.table.Columns))))
	s.WriteString("\n\n")

	s.WriteString(m.preview.View())
	s.WriteString("\n")
	if hidden := m.table.Len() - previewRows; hidden > 0 {
		s.WriteString(MoreRowsStyle.Render(fmt.Sprintf("… %s more rows", humanize.Comma(int64(hidden)))))
		s.WriteString("\n")
	}
	s.WriteString("\n")

	chips := make([]string, len(exportTargets))
	for i, target := range exportTargets {
		style := TargetStyle
		if m.cursor == i {
			style = ActiveTargetStyle
		}
		chips[i] = style.Render(strings.ToUpper(target.String()))
	}
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, append([]string{"Convert to: "}, chips...)...))
	s.WriteString("\n\n")

	cleanStatus := "[ ]"
	if m.clean {
		cleanStatus = ToggleOnStyle.Render("[x]")
	}
	s.WriteString(fmt.Sprintf("Drop duplicate and incomplete rows: %s\n", cleanStatus))
	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("←/→: choose format • c: toggle clean • enter: convert • esc: back • q: quit"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewProcessing() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("📄 Processing..."))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("Writing %s...", strings.ToUpper(exportTargets[m.cursor].String())))
	s.WriteString("\n\n")
	s.WriteString(m.progress.View())

	return BoxStyle.Render(s.String())
}

func (m Model) viewComplete() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("✓ Conversion Complete!"))
	s.WriteString("\n\n")

	// Truncate paths if they're too long
	maxPathLen := m.width - 20
	if maxPathLen < 30 {
		maxPathLen = 30
	}

	s.WriteString(fmt.Sprintf("Input:  %s\n", truncatePath(m.result.InputFile, maxPathLen)))
	s.WriteString(SuccessStyle.Render(fmt.Sprintf("Output: %s\n", truncatePath(m.result.OutputFile, maxPathLen))))
	s.WriteString("\n")
	s.WriteString(fmt.Sprintf("Rows read:    %s\n", humanize.Comma(int64(m.result.RowsRead))))
	s.WriteString(fmt.Sprintf("Rows written: %s\n", humanize.Comma(int64(m.result.RowsWritten))))
	if m.result.Cleaned {
		dropped := m.result.RowsRead - m.result.RowsWritten
		s.WriteString(fmt.Sprintf("Rows dropped: %s\n", humanize.Comma(int64(dropped))))
	}
	s.WriteString(fmt.Sprintf("Size:         %s\n", humanize.Bytes(uint64(m.result.BytesWritten))))
	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("Press any key to exit"))

	return BoxStyle.Render(s.String())
}

func truncatePath(path string, maxLen int) string {
	if len(path) > maxLen {
		return "..." + path[len(path)-maxLen+3:]
	}
	return path
}

func (m Model) viewError() string {
	var s strings.Builder

	s.WriteString(ErrorStyle.Render("✗ Error"))
	s.WriteString("\n\n")
	s.WriteString(m.err.Error())
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("Press any key to exit"))

	return BoxStyle.Render(s.String())
}
