package dashboard

import (
	"context"
	"net/http"
	"sort"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/landscape-community/landscape-mcp/internal/inventory"
)

// Limits applied to the sidebar and charts.
const (
	sidebarAnnotationKeys = 20
	breakdownKeys         = 30
	breakdownValues       = 10
	analyticsKeys         = 15
	matrixKeys            = 10
	matrixValues          = 5
	matrixValueLen        = 20
	analyticsTags         = 12
)

// TagsBody is the categorized tag breakdown of the filtered fleet.
type TagsBody struct {
	Categories []inventory.CategoryBreakdown `json:"categories"`
	UniqueTags int                           `json:"unique_tags"`
}

// ValueShare is one annotation value with its share of the filtered fleet.
type ValueShare struct {
	Value   string  `json:"value"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// AnnotationBreakdown lists the most common values of one key.
type AnnotationBreakdown struct {
	Key          string       `json:"key"`
	UniqueValues int          `json:"unique_values"`
	Values       []ValueShare `json:"values"`
}

// AnnotationsBody holds the filter options and the per-key breakdown.
type AnnotationsBody struct {
	// Options lists keys and values across the whole snapshot for building
	// annotation selectors.
	Options   []inventory.AnnotationKey `json:"options"`
	Breakdown []AnnotationBreakdown     `json:"breakdown"`
}

// AnalyticsBody collects the chart data.
type AnalyticsBody struct {
	Distributions   inventory.Frequency        `json:"distributions"`
	AnnotationKeys  inventory.Frequency        `json:"annotation_keys"`
	KeyValueMatrix  []inventory.KeyValueCell   `json:"key_value_matrix"`
	Tags            inventory.Frequency        `json:"tags"`
	MonitoringCards []inventory.AnnotationCard `json:"monitoring_cards"`
}

func (h *handlers) tagBreakdown(v *view) TagsBody {
	distinct := inventory.DistinctTags(v.Machines)
	categories := inventory.TagBreakdown(h.categorizer.Categorize(distinct), v.Machines)
	return TagsBody{Categories: categories, UniqueTags: len(distinct)}
}

func annotationBreakdown(v *view) []AnnotationBreakdown {
	keys := make([]string, 0)
	for _, kc := range inventory.CountAnnotationKeys(v.Machines) {
		keys = append(keys, kc.Value)
	}
	sort.Strings(keys)
	if len(keys) > breakdownKeys {
		keys = keys[:breakdownKeys]
	}

	out := make([]AnnotationBreakdown, 0, len(keys))
	for _, k := range keys {
		values := inventory.CountAnnotationValues(v.Machines, k)
		b := AnnotationBreakdown{Key: k, UniqueValues: len(values), Values: []ValueShare{}}
		for _, vc := range values.Top(breakdownValues) {
			b.Values = append(b.Values, ValueShare{
				Value:   vc.Value,
				Count:   vc.Count,
				Percent: float64(vc.Count) / float64(len(v.Machines)) * 100,
			})
		}
		out = append(out, b)
	}
	return out
}

func sidebarOptions(v *view) []inventory.AnnotationKey {
	options := inventory.AnnotationIndex(v.snapshot.Machines)
	if len(options) > sidebarAnnotationKeys {
		options = options[:sidebarAnnotationKeys]
	}
	return options
}

func analytics(v *view) AnalyticsBody {
	body := AnalyticsBody{
		Distributions:   inventory.CountDistributions(v.Machines),
		AnnotationKeys:  inventory.CountAnnotationKeys(v.Machines).Top(analyticsKeys),
		KeyValueMatrix:  inventory.KeyValueMatrix(v.Machines, matrixKeys, matrixValues, matrixValueLen),
		Tags:            inventory.CountTags(v.Machines).Top(analyticsTags),
		MonitoringCards: inventory.AnnotationCards(v.Machines, inventory.DefaultCardExclusions),
	}
	if body.Distributions == nil {
		body.Distributions = inventory.Frequency{}
	}
	if body.AnnotationKeys == nil {
		body.AnnotationKeys = inventory.Frequency{}
	}
	if body.KeyValueMatrix == nil {
		body.KeyValueMatrix = []inventory.KeyValueCell{}
	}
	if body.Tags == nil {
		body.Tags = inventory.Frequency{}
	}
	if body.MonitoringCards == nil {
		body.MonitoringCards = []inventory.AnnotationCard{}
	}
	return body
}

// RegisterAnalyticsEndpoints registers the tag, annotation and chart
// endpoints.
func RegisterAnalyticsEndpoints(api huma.API, pathPrefix string, h *handlers) {
	suffix := strings.ReplaceAll(pathPrefix, "/", "-")
	tags := []string{"analytics"}

	huma.Register(api, huma.Operation{
		OperationID: "get-tags" + suffix,
		Method:      http.MethodGet,
		Path:        pathPrefix + "/tags",
		Summary:     "Tag categories",
		Description: "Tags of the filtered fleet grouped into categories with per-tag counts",
		Tags:        tags,
	}, func(ctx context.Context, input *FilterInput) (*Response[TagsBody], error) {
		v, err := h.view(ctx, *input)
		if err != nil {
			return nil, err
		}
		return &Response[TagsBody]{Body: h.tagBreakdown(v)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-annotations" + suffix,
		Method:      http.MethodGet,
		Path:        pathPrefix + "/annotations",
		Summary:     "Annotation breakdown",
		Description: "Annotation filter options and the most common values per key",
		Tags:        tags,
	}, func(ctx context.Context, input *FilterInput) (*Response[AnnotationsBody], error) {
		v, err := h.view(ctx, *input)
		if err != nil {
			return nil, err
		}
		return &Response[AnnotationsBody]{
			Body: AnnotationsBody{
				Options:   sidebarOptions(v),
				Breakdown: annotationBreakdown(v),
			},
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-analytics" + suffix,
		Method:      http.MethodGet,
		Path:        pathPrefix + "/analytics",
		Summary:     "Fleet analytics",
		Description: "Distribution, annotation and tag charts for the filtered fleet",
		Tags:        tags,
	}, func(ctx context.Context, input *FilterInput) (*Response[AnalyticsBody], error) {
		v, err := h.view(ctx, *input)
		if err != nil {
			return nil, err
		}
		return &Response[AnalyticsBody]{Body: analytics(v)}, nil
	})
}
