package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/nconklindev/unifile/internal/converter"
	"github.com/nconklindev/unifile/internal/logging"
	"github.com/nconklindev/unifile/internal/types"
	"github.com/nconklindev/unifile/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type globalFlags struct {
	verbose bool
	logFile string
}

type convertFlags struct {
	to           string
	from         string
	output       string
	clean        bool
	detectHeader bool
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "unifile",
		Short:         "Convert tables and documents between CSV, XLSX, PDF and DOCX",
		Long:          "unifile reads CSV, XLSX, PDF and DOCX files and writes their content as XLSX, DOCX or PDF.\nRun without arguments to open the interactive picker.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// The TUI owns the terminal, so logs only go to the file.
			logger, cleanup, err := logging.New(logging.Config{FilePath: flags.logFile, Verbose: flags.verbose})
			if err != nil {
				return err
			}
			defer cleanup()

			p := tea.NewProgram(ui.InitialModel(logger), tea.WithAltScreen(), tea.WithMouseCellMotion())
			_, err = p.Run()
			return err
		},
	}
	root.SetVersionTemplate(fmt.Sprintf("unifile %s\ncommit: %s\nbuilt: %s\n", version, commit, date))

	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "print debug logs to stderr")
	root.PersistentFlags().StringVar(&flags.logFile, "log-file", "", "also write JSON logs to this file")

	root.AddCommand(newConvertCmd(flags), newFormatsCmd())
	return root
}

func newConvertCmd(global *globalFlags) *cobra.Command {
	flags := &convertFlags{}

	cmd := &cobra.Command{
		Use:   "convert <input>",
		Short: "Convert one file",
		Example: `  unifile convert report.csv --to xlsx
  unifile convert scan.pdf --to docx -o scan.docx
  unifile convert export.xlsx --to pdf --clean --detect-header`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, cleanup, err := logging.New(logging.Config{
				Console:  cmd.ErrOrStderr(),
				Verbose:  global.verbose,
				FilePath: global.logFile,
			})
			if err != nil {
				return err
			}
			defer cleanup()

			return runConvert(args[0], flags, logger, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&flags.to, "to", "", "target format (xlsx, docx, pdf)")
	cmd.Flags().StringVar(&flags.from, "from", "", "input format, detected from the extension when empty")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output path (default <input>_converted.<ext>)")
	cmd.Flags().BoolVar(&flags.clean, "clean", false, "drop duplicate rows and rows with missing values")
	cmd.Flags().BoolVar(&flags.detectHeader, "detect-header", false, "find the xlsx header row among the first rows")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func runConvert(input string, flags *convertFlags, logger *zap.Logger, out io.Writer) error {
	to, err := converter.ParseFormat(flags.to)
	if err != nil {
		return err
	}

	from := types.FormatUnknown
	if flags.from != "" {
		if from, err = converter.ParseFormat(flags.from); err != nil {
			return err
		}
	}

	output := flags.output
	if output == "" {
		output = converter.OutputPath(input, to)
	}

	opts := converter.DefaultOptions()
	opts.Logger = logger
	opts.DetectHeaderRow = flags.detectHeader

	result, err := converter.New(opts).ConvertFile(input, output, from, to, flags.clean)
	if err != nil {
		return err
	}

	logger.Debug("conversion finished",
		zap.String("input", result.InputFile),
		zap.String("output", result.OutputFile),
		zap.Int("rowsRead", result.RowsRead),
		zap.Int("rowsWritten", result.RowsWritten),
	)

	_, err = fmt.Fprintf(out, "%s -> %s (%s rows, %s)\n",
		result.InputFile,
		result.OutputFile,
		humanize.Comma(int64(result.RowsWritten)),
		humanize.Bytes(uint64(result.BytesWritten)),
	)
	return err
}

func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List supported formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printFormats(cmd.OutOrStdout())
		},
	}
}

func printFormats(out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FORMAT\tEXTENSION\tIMPORT\tEXPORT")
	for _, f := range types.Formats {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", f, f.Ext(), yesNo(f.CanImport()), yesNo(f.CanExport()))
	}
	return w.Flush()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
