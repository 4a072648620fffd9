package web

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"ethiopicker/internal/ethiopic"
	appLog "ethiopicker/internal/log"
	"ethiopicker/internal/model"
)

// embeddedTemplates holds the server-rendered widget page.
//
//go:embed templates/*.html
var embeddedTemplates embed.FS

var pageTemplate = template.Must(template.ParseFS(embeddedTemplates, "templates/widget.html"))

// handlePage renders a mounted widget as HTML. The page marks its root with
// data-ready once rendered so the snapshot command knows when to capture.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.mu.Lock()
	wg, ok := s.lookup(id)
	var state stateResponse
	if ok {
		state = wg.state()
	}
	s.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, state); err != nil {
		appLog.Error("failed to render widget page", err, "id", id)
	}
}

// convertResponse carries both projections of one calendar day.
type convertResponse struct {
	Gregorian string        `json:"gregorian"`
	Ethiopian ethiopic.Date `json:"ethiopian"`
	Label     string        `json:"label"`
	Weekday   string        `json:"weekday"`
}

// handleConvert converts a single date between calendars.
//
//	GET /api/convert?from=gregorian&year=2024&month=9&day=11
//	GET /api/convert?from=ethiopian&year=2017&month=1&day=1
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from := q.Get("from")
	if from == "" {
		from = string(model.Gregorian)
	}
	mode, err := model.ParseCalendarMode(from)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	year := parseIntDefault(q.Get("year"), 0)
	month := parseIntDefault(q.Get("month"), 0)
	day := parseIntDefault(q.Get("day"), 0)

	var (
		gy, gd int
		gm     time.Month
		et     ethiopic.Date
	)
	switch mode {
	case model.Ethiopian:
		et = ethiopic.Date{Year: year, Month: month, Day: day}
		gy, gm, gd, err = ethiopic.ToGregorian(et)
	default:
		gy, gm, gd = year, time.Month(month), day
		et, err = ethiopic.FromGregorian(gy, gm, gd)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	g := time.Date(gy, gm, gd, 0, 0, 0, 0, time.UTC)
	writeJSON(w, http.StatusOK, convertResponse{
		Gregorian: g.Format(time.DateOnly),
		Ethiopian: et,
		Label:     et.String(),
		Weekday:   g.Weekday().String(),
	})
}
