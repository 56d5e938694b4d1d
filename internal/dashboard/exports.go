package dashboard

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/landscape-community/landscape-mcp/internal/export"
)

// FileOutput is a download.
type FileOutput struct {
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	Body               []byte
}

// SummaryOutput is the export summary offered as a download.
type SummaryOutput struct {
	ContentDisposition string `header:"Content-Disposition"`
	Body               export.Summary
}

func attachment(filename string) string {
	return fmt.Sprintf("attachment; filename=%q", filename)
}

// RegisterExportEndpoints registers CSV, JSON and summary downloads of the
// filtered fleet.
func RegisterExportEndpoints(api huma.API, pathPrefix string, h *handlers) {
	suffix := strings.ReplaceAll(pathPrefix, "/", "-")
	tags := []string{"export"}

	huma.Register(api, huma.Operation{
		OperationID: "export-csv" + suffix,
		Method:      http.MethodGet,
		Path:        pathPrefix + "/export/csv",
		Summary:     "Export machines as CSV",
		Tags:        tags,
	}, func(ctx context.Context, input *FilterInput) (*FileOutput, error) {
		v, err := h.view(ctx, *input)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := export.WriteCSV(&buf, v.Machines); err != nil {
			return nil, huma.Error500InternalServerError("Failed to write CSV", err)
		}
		return &FileOutput{
			ContentType:        "text/csv; charset=utf-8",
			ContentDisposition: attachment(export.Filename("csv", v.now)),
			Body:               buf.Bytes(),
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "export-json" + suffix,
		Method:      http.MethodGet,
		Path:        pathPrefix + "/export/json",
		Summary:     "Export machines as JSON",
		Description: "Full filtered machine records, including fields the dashboard does not display",
		Tags:        tags,
	}, func(ctx context.Context, input *FilterInput) (*FileOutput, error) {
		v, err := h.view(ctx, *input)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := export.WriteJSON(&buf, v.Machines); err != nil {
			return nil, huma.Error500InternalServerError("Failed to write JSON", err)
		}
		return &FileOutput{
			ContentType:        "application/json",
			ContentDisposition: attachment(export.Filename("json", v.now)),
			Body:               buf.Bytes(),
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "export-summary" + suffix,
		Method:      http.MethodGet,
		Path:        pathPrefix + "/export/summary",
		Summary:     "Export a summary of the filtered fleet",
		Tags:        tags,
	}, func(ctx context.Context, input *FilterInput) (*SummaryOutput, error) {
		v, err := h.view(ctx, *input)
		if err != nil {
			return nil, err
		}
		return &SummaryOutput{
			ContentDisposition: attachment(export.SummaryFilename(v.now)),
			Body:               export.SummaryOf(v.View, v.snapshot.Machines, v.now),
		}, nil
	})
}

// RegisterAdminEndpoints registers snapshot cache management.
func RegisterAdminEndpoints(api huma.API, pathPrefix string, h *handlers) {
	huma.Register(api, huma.Operation{
		OperationID: "refresh-snapshot" + strings.ReplaceAll(pathPrefix, "/", "-"),
		Method:      http.MethodPost,
		Path:        pathPrefix + "/refresh",
		Summary:     "Refresh the machine snapshot",
		Description: "Drop the cached snapshot so the next view fetches from Landscape",
		Tags:        []string{"admin"},
	}, func(_ context.Context, _ *struct{}) (*Response[EmptyResponse], error) {
		h.inventory.Invalidate()
		return &Response[EmptyResponse]{Body: EmptyResponse{Message: "Snapshot cache cleared"}}, nil
	})
}
