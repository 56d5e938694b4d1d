package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/landscape-community/landscape-mcp/internal/inventory"
	"github.com/landscape-community/landscape-mcp/pkg/models"
	"github.com/landscape-community/landscape-mcp/pkg/printer"
)

var (
	machineFilters filterFlags
	machinesOutput string
	noHeaders      bool
	statsFilters   filterFlags
	statsOutput    string
)

var MachinesCmd = &cobra.Command{
	Use:   "machines",
	Short: "Inspect machines in the Landscape inventory",
}

var machinesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List machines",
	Example: `  landscapectl machines list --status offline
  landscapectl machines list -t Engineering -a env=prod -o wide`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		view, err := fetchView(cmd.Context(), &machineFilters)
		if err != nil {
			return err
		}
		p, err := newPrinter(cmd, machinesOutput)
		if err != nil {
			return err
		}
		if len(view.Machines) == 0 && !structured(machinesOutput) {
			printer.PrintWarning(cmd.ErrOrStderr(), "no machines match the current filters")
			return nil
		}
		if noHeaders {
			p.SetTableOptions(printer.WithNoHeaders())
		}
		return p.Print(view.Machines, func(tp *printer.TablePrinter, wide bool) {
			printMachineTable(tp, view.Machines, wide)
		})
	},
}

var machinesStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show headline inventory numbers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		view, err := fetchView(cmd.Context(), &statsFilters)
		if err != nil {
			return err
		}
		stats := inventory.Summarize(view.Machines, now())
		stats.Online, stats.Offline = view.Online, view.Offline

		if structured(statsOutput) {
			p, err := newPrinter(cmd, statsOutput)
			if err != nil {
				return err
			}
			return p.Print(stats, nil)
		}
		fmt.Fprintln(cmd.OutOrStdout(), printer.Box("Landscape inventory",
			printer.Field{Label: "Machines", Value: stats.Total},
			printer.Field{Label: "Online", Value: stats.Online},
			printer.Field{Label: "Offline", Value: stats.Offline},
			printer.Field{Label: "Distributions", Value: stats.Distributions},
			printer.Field{Label: "Avg tags", Value: fmt.Sprintf("%.1f", stats.AverageTags)},
		))
		return nil
	},
}

func printMachineTable(tp *printer.TablePrinter, machines []models.Machine, wide bool) {
	headers := []string{"ID", "HOSTNAME", "STATUS", "DISTRIBUTION", "LAST PING"}
	if wide {
		headers = append(headers, "TAGS", "ANNOTATIONS")
	}
	tp.SetHeaders(headers...)

	for _, m := range machines {
		row := []any{
			m.ID,
			printer.TruncateString(m.Hostname, 40),
			inventory.StatusOf(m, now()),
			m.DistributionOr(inventory.UnknownDistribution),
			printer.EmptyValueOrDefault(m.LastPingTime, "Never"),
		}
		if wide {
			row = append(row, len(m.Tags), len(m.Annotations))
		}
		tp.AddRow(row...)
	}
}

func structured(output string) bool {
	switch strings.ToLower(output) {
	case string(printer.OutputTypeJSON), string(printer.OutputTypeYAML):
		return true
	}
	return false
}

func init() {
	machineFilters.register(machinesListCmd)
	outputFlag(machinesListCmd, &machinesOutput)
	machinesListCmd.Flags().BoolVar(&noHeaders, "no-headers", false, "Omit the table header")

	statsFilters.register(machinesStatsCmd)
	machinesStatsCmd.Flags().StringVarP(&statsOutput, "output", "o", "table", "Output format (table, json, yaml)")

	MachinesCmd.AddCommand(machinesListCmd, machinesStatsCmd)
}
