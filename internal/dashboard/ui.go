package dashboard

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/landscape-community/landscape-mcp/internal/inventory"
	"github.com/landscape-community/landscape-mcp/internal/logger"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var pageTemplate = template.Must(template.New("index.html.tmpl").Funcs(template.FuncMap{
	"pct":  func(f float64) string { return fmt.Sprintf("%.1f%%", f) },
	"join": strings.Join,
	"lower": func(s inventory.Status) string {
		return strings.ToLower(string(s))
	},
}).ParseFS(templateFS, "templates/index.html.tmpl"))

type pageData struct {
	Filter    FilterInput
	Error     string
	Overview  OverviewBody
	Machines  []MachineRow
	Tags      TagsBody
	Options   []inventory.AnnotationKey
	Cards     []inventory.AnnotationCard
	FetchedAt time.Time
	APIPrefix string
	Query     string
}

// newUIHandler renders the HTML dashboard from the same views as the API.
func newUIHandler(h *handlers) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		input := FilterInput{
			Tag:        strings.Join(q["tag"], ","),
			Annotation: q["annotation"],
			Search:     q.Get("search"),
			Status:     q.Get("status"),
		}
		data := pageData{Filter: input, APIPrefix: APIPrefix, Query: r.URL.RawQuery}
		status := http.StatusOK

		v, err := h.view(r.Context(), input)
		if err != nil {
			data.Error, status = describe(err)
		} else {
			data.Overview = newOverview(v)
			data.Tags = h.tagBreakdown(v)
			data.Options = sidebarOptions(v)
			data.Cards = inventory.AnnotationCards(v.Machines, inventory.DefaultCardExclusions)
			data.FetchedAt = v.snapshot.FetchedAt
			for _, m := range v.Machines {
				data.Machines = append(data.Machines, newMachineRow(m, v.now))
			}
		}

		var buf bytes.Buffer
		if err := pageTemplate.Execute(&buf, data); err != nil {
			log := logger.WithComponent("dashboard")
			log.Error().Err(err).Msg("render dashboard")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		_, _ = buf.WriteTo(w)
	})
}

// describe renders a view error for the banner, including the underlying
// causes of a problem error.
func describe(err error) (string, int) {
	var model *huma.ErrorModel
	if !errors.As(err, &model) {
		return err.Error(), http.StatusInternalServerError
	}
	msg := model.Detail
	for _, d := range model.Errors {
		msg += ": " + d.Message
	}
	return msg, model.Status
}
