package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/landscape-community/landscape-mcp/internal/export"
	"github.com/landscape-community/landscape-mcp/pkg/printer"
)

var (
	exportFilters filterFlags
	exportFormat  string
	exportFile    string
)

var ExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the filtered machine list",
	Long: `Writes the filtered machines as CSV or JSON, or a summary of them as JSON.

Without --file the output goes to a timestamped file in the current
directory. Use --file - to write to stdout.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		view, all, err := fetchSnapshot(cmd.Context(), &exportFilters)
		if err != nil {
			return err
		}

		t := now()
		var (
			name  string
			write func(io.Writer) error
		)
		switch exportFormat {
		case "csv":
			name = export.Filename("csv", t)
			write = func(w io.Writer) error { return export.WriteCSV(w, view.Machines) }
		case "json":
			name = export.Filename("json", t)
			write = func(w io.Writer) error { return export.WriteJSON(w, view.Machines) }
		case "summary":
			name = export.SummaryFilename(t)
			write = func(w io.Writer) error { return export.WriteSummary(w, export.SummaryOf(view, all, t)) }
		default:
			return fmt.Errorf("unknown export format %q (csv, json, summary)", exportFormat)
		}

		if exportFile == "-" {
			return write(cmd.OutOrStdout())
		}
		if exportFile != "" {
			name = exportFile
		}
		if err := writeFile(name, write); err != nil {
			return err
		}
		printer.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Exported %d machines to %s", len(view.Machines), name))
		return nil
	},
}

func writeFile(name string, write func(io.Writer) error) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close %s: %w", name, cerr)
		}
	}()
	if err := write(f); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}


func init() {
	exportFilters.register(ExportCmd)
	ExportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "Export format (csv, json, summary)")
	ExportCmd.Flags().StringVar(&exportFile, "file", "", "Output file, or - for stdout (default: timestamped file in the current directory)")
}
