// Package cli implements the landscapectl subcommands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/landscape-community/landscape-mcp/internal/app"
	"github.com/landscape-community/landscape-mcp/internal/config"
	"github.com/landscape-community/landscape-mcp/internal/inventory"
	"github.com/landscape-community/landscape-mcp/internal/landscape"
	"github.com/landscape-community/landscape-mcp/internal/utils"
	"github.com/landscape-community/landscape-mcp/pkg/models"
	"github.com/landscape-community/landscape-mcp/pkg/printer"
)

var (
	cfg    *config.Config
	source landscape.Source

	// now is swapped in tests.
	now = time.Now
)

// SetConfig sets the configuration shared by all commands.
func SetConfig(c *config.Config) {
	cfg = c
}

// SetSource sets the Landscape source shared by all commands.
func SetSource(s landscape.Source) {
	source = s
}

func requireSource() error {
	if cfg == nil || source == nil {
		return errors.New("landscape client not initialized")
	}
	return nil
}

// filterFlags are the machine selection flags shared by several commands.
type filterFlags struct {
	tags        []string
	annotations []string
	search      string
	status      string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&f.tags, "tag", "t", nil, "Keep machines carrying any of these tags (repeatable or comma-separated)")
	cmd.Flags().StringArrayVarP(&f.annotations, "annotation", "a", nil, "Keep machines matching key=value (repeatable; keys ANDed, repeated keys ORed)")
	cmd.Flags().StringVarP(&f.search, "search", "s", "", "Case-insensitive match on hostname, id or annotation values")
	cmd.Flags().StringVar(&f.status, "status", "all", "Status filter (all, online, offline)")
}

func (f *filterFlags) criteria() (inventory.Criteria, error) {
	status, err := inventory.ParseStatusFilter(f.status)
	if err != nil {
		return inventory.Criteria{}, err
	}
	annotations, err := utils.ParseSelectors(f.annotations)
	if err != nil {
		return inventory.Criteria{}, err
	}
	return inventory.Criteria{
		Tags:        f.tags,
		Annotations: annotations,
		Search:      f.search,
		Status:      status,
	}, nil
}

// fetchView fetches one page of machines and applies the filter flags.
func fetchView(ctx context.Context, f *filterFlags) (inventory.View, error) {
	view, _, err := fetchSnapshot(ctx, f)
	return view, err
}

// fetchSnapshot is fetchView that also returns the unfiltered page.
func fetchSnapshot(ctx context.Context, f *filterFlags) (inventory.View, []models.Machine, error) {
	if err := requireSource(); err != nil {
		return inventory.View{}, nil, err
	}
	criteria, err := f.criteria()
	if err != nil {
		return inventory.View{}, nil, err
	}
	machines, err := app.FetchMachines(source, cfg.Dashboard)(ctx)
	if err != nil {
		return inventory.View{}, nil, fmt.Errorf("failed to fetch machines: %w", err)
	}
	return inventory.BuildView(machines, criteria, now()), machines, nil
}

func outputFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVarP(target, "output", "o", "table", "Output format (table, wide, json, yaml)")
}

func newPrinter(cmd *cobra.Command, output string) (*printer.Printer, error) {
	outputType, err := printer.ParseOutputType(output)
	if err != nil {
		return nil, err
	}
	p := printer.New(outputType)
	p.SetOutput(cmd.OutOrStdout())
	return p, nil
}
