package dashboard

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/landscape-community/landscape-mcp/internal/inventory"
	"github.com/landscape-community/landscape-mcp/pkg/models"
)

// MachineRow is one row of the machine table.
type MachineRow struct {
	ID              string           `json:"id"`
	Hostname        string           `json:"hostname"`
	Status          inventory.Status `json:"status"`
	Distribution    string           `json:"distribution"`
	TagCount        int              `json:"tag_count"`
	AnnotationCount int              `json:"annotation_count"`
	LastPing        string           `json:"last_ping"`
}

// MachineListBody is the filtered machine table.
type MachineListBody struct {
	Machines  []MachineRow `json:"machines"`
	Total     int          `json:"total" doc:"Machines in the snapshot before filtering"`
	Count     int          `json:"count" doc:"Machines after filtering"`
	Online    int          `json:"online"`
	Offline   int          `json:"offline"`
	FetchedAt time.Time    `json:"fetched_at"`
}

// MachineDetailInput selects one machine.
type MachineDetailInput struct {
	ID string `path:"id" doc:"Machine id" example:"42"`
}

// MachineDetailBody is one machine with its tags and annotations.
type MachineDetailBody struct {
	ID           string            `json:"id"`
	Hostname     string            `json:"hostname"`
	Title        string            `json:"title,omitempty"`
	Status       inventory.Status  `json:"status"`
	Distribution string            `json:"distribution"`
	LastPing     string            `json:"last_ping"`
	Tags         []string          `json:"tags"`
	Annotations  map[string]string `json:"annotations"`
}

// OverviewBody holds the headline numbers for the filtered fleet.
type OverviewBody struct {
	Total           int                 `json:"total"`
	Filtered        int                 `json:"filtered"`
	FilteredPercent float64             `json:"filtered_percent"`
	Online          int                 `json:"online"`
	Offline         int                 `json:"offline"`
	Distributions   inventory.Frequency `json:"distributions"`
	AverageTags     float64             `json:"average_tags"`
}

func newMachineRow(m models.Machine, now time.Time) MachineRow {
	return MachineRow{
		ID:              m.ID.String(),
		Hostname:        m.Hostname,
		Status:          inventory.StatusOf(m, now),
		Distribution:    m.DistributionOr(inventory.UnknownDistribution),
		TagCount:        len(m.Tags),
		AnnotationCount: len(m.Annotations),
		LastPing:        lastPing(m),
	}
}

func lastPing(m models.Machine) string {
	if m.LastPingTime == "" {
		return "Never"
	}
	return m.LastPingTime
}

func newOverview(v *view) OverviewBody {
	total := len(v.snapshot.Machines)
	filtered := len(v.Machines)
	body := OverviewBody{
		Total:         total,
		Filtered:      filtered,
		Online:        v.Online,
		Offline:       v.Offline,
		Distributions: inventory.CountDistributions(v.Machines),
		AverageTags:   inventory.AverageTags(v.Machines),
	}
	if total > 0 {
		body.FilteredPercent = float64(filtered) / float64(total) * 100
	}
	if body.Distributions == nil {
		body.Distributions = inventory.Frequency{}
	}
	return body
}

// RegisterMachineEndpoints registers the machine table, machine detail and
// overview endpoints.
func RegisterMachineEndpoints(api huma.API, pathPrefix string, h *handlers) {
	suffix := strings.ReplaceAll(pathPrefix, "/", "-")
	tags := []string{"machines"}

	huma.Register(api, huma.Operation{
		OperationID: "list-machines" + suffix,
		Method:      http.MethodGet,
		Path:        pathPrefix + "/machines",
		Summary:     "List machines",
		Description: "List machines in the snapshot matching the filter, with status counts",
		Tags:        tags,
	}, func(ctx context.Context, input *FilterInput) (*Response[MachineListBody], error) {
		v, err := h.view(ctx, *input)
		if err != nil {
			return nil, err
		}

		rows := make([]MachineRow, 0, len(v.Machines))
		for _, m := range v.Machines {
			rows = append(rows, newMachineRow(m, v.now))
		}
		return &Response[MachineListBody]{
			Body: MachineListBody{
				Machines:  rows,
				Total:     len(v.snapshot.Machines),
				Count:     len(rows),
				Online:    v.Online,
				Offline:   v.Offline,
				FetchedAt: v.snapshot.FetchedAt,
			},
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-machine" + suffix,
		Method:      http.MethodGet,
		Path:        pathPrefix + "/machines/{id}",
		Summary:     "Get machine details",
		Description: "Get one machine's tags and annotations from the snapshot",
		Tags:        tags,
	}, func(ctx context.Context, input *MachineDetailInput) (*Response[MachineDetailBody], error) {
		snap, err := h.snapshot(ctx)
		if err != nil {
			return nil, err
		}
		m, ok := inventory.Find(snap.Machines, input.ID)
		if !ok {
			return nil, huma.Error404NotFound("Machine not found")
		}

		body := MachineDetailBody{
			ID:           m.ID.String(),
			Hostname:     m.Hostname,
			Title:        m.Title,
			Status:       inventory.StatusOf(m, h.now()),
			Distribution: m.DistributionOr(inventory.UnknownDistribution),
			LastPing:     lastPing(m),
			Tags:         m.Tags,
			Annotations:  m.Annotations,
		}
		if body.Tags == nil {
			body.Tags = []string{}
		}
		if body.Annotations == nil {
			body.Annotations = map[string]string{}
		}
		return &Response[MachineDetailBody]{Body: body}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-overview" + suffix,
		Method:      http.MethodGet,
		Path:        pathPrefix + "/overview",
		Summary:     "Fleet overview",
		Description: "Headline numbers for the filtered fleet",
		Tags:        []string{"analytics"},
	}, func(ctx context.Context, input *FilterInput) (*Response[OverviewBody], error) {
		v, err := h.view(ctx, *input)
		if err != nil {
			return nil, err
		}
		return &Response[OverviewBody]{Body: newOverview(v)}, nil
	})
}
