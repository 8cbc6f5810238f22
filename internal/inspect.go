package internal

import (
	"chat-relay/domain"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/samber/lo"
)

//go:embed inspect.html
var templatesFS embed.FS

type InspectRow struct {
	ID       string
	Name     string
	Language string
	Active   bool
}

type PageData struct {
	Rows   []InspectRow
	Active int
}

// ParticipantLister returns every registered participant in connect order.
type ParticipantLister func() []domain.Participant

// NewInspector renders the registry as an HTML table. It is only mounted
// when the relay runs at debug level.
func NewInspector(log *slog.Logger, list ParticipantLister) http.Handler {
	tmpl := template.Must(template.ParseFS(templatesFS, "inspect.html"))

	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		rows := lo.Map(list(), func(p domain.Participant, _ int) InspectRow {
			row := InspectRow{ID: p.ID, Name: "-", Language: "-", Active: p.IsActive()}
			if p.Name != nil {
				row.Name = *p.Name
			}
			if p.Language != nil {
				row.Language = p.Language.Key
			}
			return row
		})
		data := PageData{
			Rows:   rows,
			Active: lo.CountBy(rows, func(r InspectRow) bool { return r.Active }),
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.Execute(w, data); err != nil {
			log.Error("Unable to render inspector", "error", err)
		}
	})
}
