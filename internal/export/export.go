// Package export renders a filtered machine view as downloadable files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/landscape-community/landscape-mcp/internal/inventory"
	"github.com/landscape-community/landscape-mcp/pkg/models"
)

// File name stems for machine and summary exports.
const (
	FilePrefix        = "landscape_machines"
	SummaryFilePrefix = "landscape_summary"
)

// CSVHeader is the column order of WriteCSV.
var CSVHeader = []string{"ID", "Hostname", "Distribution", "Tags", "Last Ping"}

// WriteCSV writes one row per machine.
func WriteCSV(w io.Writer, machines []models.Machine) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, m := range machines {
		lastPing := m.LastPingTime
		if lastPing == "" {
			lastPing = "Never"
		}
		row := []string{
			m.ID.String(),
			strings.TrimSpace(m.Hostname),
			m.DistributionOr(inventory.UnknownDistribution),
			strings.Join(m.Tags, ", "),
			lastPing,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the full records as received from the API.
func WriteJSON(w io.Writer, machines []models.Machine) error {
	if machines == nil {
		machines = []models.Machine{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(machines)
}

// Summary describes the exported view.
type Summary struct {
	ExportDate        string `json:"export_date" yaml:"export_date"`
	TotalMachines     int    `json:"total_machines" yaml:"total_machines"`
	OnlineMachines    int    `json:"online_machines" yaml:"online_machines"`
	OfflineMachines   int    `json:"offline_machines" yaml:"offline_machines"`
	UniqueTags        int    `json:"unique_tags" yaml:"unique_tags"`
	UniqueAnnotations int    `json:"unique_annotations" yaml:"unique_annotations"`
}

// NewSummary counts the filtered machines at now. Online and offline come
// from the caller's view so a status filter is reflected the same way the
// dashboard shows it. Unique tags and annotation keys are counted over all,
// the whole snapshot, regardless of the filter.
func NewSummary(filtered, all []models.Machine, online, offline int, now time.Time) Summary {
	return Summary{
		ExportDate:        now.Format("2006-01-02T15:04:05.000000"),
		TotalMachines:     len(filtered),
		OnlineMachines:    online,
		OfflineMachines:   offline,
		UniqueTags:        len(inventory.DistinctTags(all)),
		UniqueAnnotations: inventory.DistinctAnnotationKeys(all),
	}
}

// SummaryOf builds a Summary from a filter view over the snapshot all.
func SummaryOf(v inventory.View, all []models.Machine, now time.Time) Summary {
	return NewSummary(v.Machines, all, v.Online, v.Offline, now)
}

// WriteSummary writes s as indented JSON.
func WriteSummary(w io.Writer, s Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// Filename returns e.g. landscape_machines_20260129_143000.csv.
func Filename(ext string, now time.Time) string {
	return stamped(FilePrefix, ext, now)
}

// SummaryFilename returns e.g. landscape_summary_20260129_143000.json.
func SummaryFilename(now time.Time) string {
	return stamped(SummaryFilePrefix, "json", now)
}

func stamped(prefix, ext string, now time.Time) string {
	return fmt.Sprintf("%s_%s.%s", prefix, now.Format("20060102_150405"), strings.TrimPrefix(ext, "."))
}
