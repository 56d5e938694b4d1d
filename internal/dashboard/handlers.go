package dashboard

import (
	"context"
	"slices"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/landscape-community/landscape-mcp/internal/inventory"
	"github.com/landscape-community/landscape-mcp/internal/logger"
	"github.com/landscape-community/landscape-mcp/internal/utils"
)

// Inventory serves the fleet snapshot every view is computed from.
// *inventory.Cache implements it.
type Inventory interface {
	Get(ctx context.Context) (*inventory.Snapshot, error)
	Peek() *inventory.Snapshot
	Invalidate()
}

// Option configures the dashboard handlers.
type Option func(*handlers)

// WithCategorizer sets the tag categorizer.
func WithCategorizer(c *inventory.Categorizer) Option {
	return func(h *handlers) { h.categorizer = c }
}

// WithClock sets the clock used for status derivation and export dates.
func WithClock(now func() time.Time) Option {
	return func(h *handlers) { h.now = now }
}

type handlers struct {
	inventory   Inventory
	categorizer *inventory.Categorizer
	now         func() time.Time
}

func newHandlers(inv Inventory, opts ...Option) *handlers {
	h := &handlers{
		inventory:   inv,
		categorizer: inventory.DefaultCategorizer(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Response is a generic wrapper for Huma responses
type Response[T any] struct {
	Body T
}

// EmptyResponse represents a simple success response with a message
type EmptyResponse struct {
	Message string `json:"message" doc:"Success message" example:"Snapshot cache cleared"`
}

// FilterInput carries the filter selection shared by every view.
type FilterInput struct {
	Tag        string `query:"tag" doc:"Comma-separated tags; machines carrying any of them match" required:"false" example:"production,web-tier"`
	Annotation []string `query:"annotation,explode" doc:"key=value selector, repeatable; keys are ANDed, repeated keys are ORed. Values are matched verbatim and may contain commas" required:"false" example:"env=prod"`
	Search     string `query:"search" doc:"Case-insensitive substring matched against hostname, id and annotation values" required:"false" example:"web"`
	Status     string `query:"status" doc:"Status filter: all, online or offline" required:"false" example:"online"`
}

// Criteria converts the query parameters into filter criteria.
func (in FilterInput) Criteria() (inventory.Criteria, error) {
	status, err := inventory.ParseStatusFilter(in.Status)
	if err != nil {
		return inventory.Criteria{}, err
	}
	// Empty entries come from blank form fields.
	selectors := slices.DeleteFunc(slices.Clone(in.Annotation), func(s string) bool { return s == "" })
	annotations, err := utils.ParseSelectors(selectors)
	if err != nil {
		return inventory.Criteria{}, err
	}
	return inventory.Criteria{
		Tags:        utils.SplitList(in.Tag),
		Annotations: annotations,
		Search:      in.Search,
		Status:      status,
	}, nil
}

// view is one filter pass over the current snapshot.
type view struct {
	inventory.View
	snapshot *inventory.Snapshot
	now      time.Time
}

func (h *handlers) snapshot(ctx context.Context) (*inventory.Snapshot, error) {
	snap, err := h.inventory.Get(ctx)
	if err != nil {
		log := logger.WithComponent("dashboard")
		log.Warn().Err(err).Msg("inventory fetch failed")
		return nil, huma.Error502BadGateway("Failed to fetch machines from Landscape", err)
	}
	return snap, nil
}

func (h *handlers) view(ctx context.Context, in FilterInput) (*view, error) {
	criteria, err := in.Criteria()
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}
	snap, err := h.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	now := h.now()
	return &view{
		View:     inventory.BuildView(snap.Machines, criteria, now),
		snapshot: snap,
		now:      now,
	}, nil
}
