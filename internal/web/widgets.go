package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"ethiopicker/internal/ethiopic"
	"ethiopicker/internal/form"
	"ethiopicker/internal/ics"
	appLog "ethiopicker/internal/log"
	"ethiopicker/internal/model"
	"ethiopicker/internal/selection"
)

// widget is one mounted selector plus the host form it reports to. The
// popover state is view state and lives here, not in the controller.
type widget struct {
	id          string
	ctrl        *selection.Controller
	form        *form.Form
	popoverOpen bool

	// lastUsed is refreshed on every lookup; SweepIdle unmounts widgets
	// left untouched for longer than the idle timeout.
	lastUsed time.Time
}

// mountRequest is the JSON body of POST /api/widgets. Unset fields fall
// back to the picker section of the config.
type mountRequest struct {
	Initial         string `json:"initial"`
	EnableEthiopian *bool  `json:"enable_ethiopian"`
	ShowTimePicker  *bool  `json:"show_time_picker"`
	YearRange       int    `json:"year_range" validate:"omitempty,min=1,max=1000"`
}

// Zero fields of a dateRequest keep the current value. Calendar limits are
// checked by the controller; the tags only bound the input.
type dateRequest struct {
	Year  int `json:"year" validate:"gte=0,lte=9999"`
	Month int `json:"month" validate:"gte=0,lte=13"`
	Day   int `json:"day" validate:"gte=0,lte=31"`
}

type dayRequest struct {
	Year  int `json:"year" validate:"required,min=1,max=9999"`
	Month int `json:"month" validate:"required,min=1,max=12"`
	Day   int `json:"day" validate:"required,min=1,max=31"`
}

type yearRequest struct {
	Year int `json:"year" validate:"required,min=1,max=9999"`
}

type monthRequest struct {
	Month int `json:"month" validate:"required"`
}

type timeRequest struct {
	Time string `json:"time" validate:"required"`
}

type modeRequest struct {
	Mode string `json:"mode" validate:"required,oneof=gregorian ethiopian"`
}

type popoverRequest struct {
	Open bool `json:"open"`
}

// stateResponse is the JSON view of a widget.
type stateResponse struct {
	ID              string                  `json:"id"`
	Instant         string                  `json:"instant"`
	Mode            model.CalendarMode      `json:"mode"`
	Ethiopian       ethiopic.Date           `json:"ethiopian"`
	Active          selection.PartialDate   `json:"active"`
	Time            string                  `json:"time"`
	Label           string                  `json:"label"`
	Summary         string                  `json:"summary"`
	EnableEthiopian bool                    `json:"enable_ethiopian"`
	ShowTimePicker  bool                    `json:"show_time_picker"`
	PopoverOpen     bool                    `json:"popover_open"`
	Years           []int                   `json:"years"`
	Months          []selection.MonthOption `json:"months"`
	Grid            selection.Grid          `json:"grid"`
}

func (wg *widget) state() stateResponse {
	c := wg.ctrl
	opts := c.Options()
	return stateResponse{
		ID:              wg.id,
		Instant:         c.Instant().String(),
		Mode:            c.Mode(),
		Ethiopian:       c.Ethiopian(),
		Active:          c.ActiveDate(),
		Time:            c.TimeOfDay().String(),
		Label:           c.Label(),
		Summary:         c.Summary(),
		EnableEthiopian: opts.EnableEthiopian,
		ShowTimePicker:  opts.ShowTimePicker,
		PopoverOpen:     wg.popoverOpen,
		Years:           c.YearOptions(),
		Months:          c.MonthOptions(),
		Grid:            c.Grid(),
	}
}

func (s *Server) handleMount(w http.ResponseWriter, r *http.Request) {
	var req mountRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	opts := selection.Options{
		EnableEthiopian: s.cfg.Picker.EnableEthiopian,
		ShowTimePicker:  s.cfg.Picker.ShowTimePicker,
		YearRange:       s.cfg.Picker.YearRange,
		Now:             s.now,
	}
	if req.EnableEthiopian != nil {
		opts.EnableEthiopian = *req.EnableEthiopian
	}
	if req.ShowTimePicker != nil {
		opts.ShowTimePicker = *req.ShowTimePicker
	}
	if req.YearRange > 0 {
		opts.YearRange = req.YearRange
	}
	if req.Initial != "" {
		initial, err := model.ParseInstant(req.Initial)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		opts.Initial = &initial
	}

	wg := &widget{id: uuid.NewString(), form: form.New(s.loc), lastUsed: s.now()}
	id := wg.id
	opts.OnChange = wg.form.Bind(func(i model.Instant) {
		s.metrics.Changes.Inc()
		appLog.Debug("selection changed", "id", id, "instant", i.String())
	})

	ctrl, err := selection.New(opts)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	wg.ctrl = ctrl

	s.mu.Lock()
	s.widgets[wg.id] = wg
	n := len(s.widgets)
	state := wg.state()
	s.mu.Unlock()

	s.metrics.Widgets.Set(float64(n))
	appLog.Info("widget mounted", "id", wg.id, "mode", ctrl.Mode(), "instant", ctrl.Instant().String())
	writeJSON(w, http.StatusCreated, state)
}

func (s *Server) handleUnmount(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.mu.Lock()
	_, ok := s.widgets[id]
	delete(s.widgets, id)
	n := len(s.widgets)
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "widget not found")
		return
	}
	s.metrics.Widgets.Set(float64(n))
	appLog.Info("widget unmounted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.withWidget(w, r, func(wg *widget) error { return nil })
}

func (s *Server) handleDate(w http.ResponseWriter, r *http.Request) {
	var req dateRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.edit(w, r, "date", func(c *selection.Controller) error {
		return c.SetDate(selection.PartialDate{Year: req.Year, Month: req.Month, Day: req.Day})
	})
}

func (s *Server) handleDay(w http.ResponseWriter, r *http.Request) {
	var req dayRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.edit(w, r, "day", func(c *selection.Controller) error {
		return c.SelectDay(req.Year, time.Month(req.Month), req.Day)
	})
}

func (s *Server) handleYear(w http.ResponseWriter, r *http.Request) {
	var req yearRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.edit(w, r, "year", func(c *selection.Controller) error {
		return c.SetYear(req.Year)
	})
}

func (s *Server) handleMonth(w http.ResponseWriter, r *http.Request) {
	var req monthRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.edit(w, r, "month", func(c *selection.Controller) error {
		return c.SetMonth(req.Month)
	})
}

func (s *Server) handleTime(w http.ResponseWriter, r *http.Request) {
	var req timeRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.edit(w, r, "time", func(c *selection.Controller) error {
		t, err := model.ParseTimeOfDay(req.Time)
		if err != nil {
			return err
		}
		return c.SetTime(t.Hour, t.Minute, t.Second)
	})
}

func (s *Server) handleMode(w http.ResponseWriter, r *http.Request) {
	var req modeRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.edit(w, r, "mode", func(c *selection.Controller) error {
		m, err := model.ParseCalendarMode(req.Mode)
		if err != nil {
			return err
		}
		return c.SetCalendarMode(m)
	})
}

func (s *Server) handlePopover(w http.ResponseWriter, r *http.Request) {
	var req popoverRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.withWidget(w, r, func(wg *widget) error {
		wg.popoverOpen = req.Open
		return nil
	})
}

// handleImport seeds the selection from the first VEVENT of an uploaded
// iCalendar body.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	start, err := ics.ParseStart(body, s.loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.edit(w, r, "import", func(c *selection.Controller) error {
		return c.SetInstant(start)
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.mu.Lock()
	wg, ok := s.lookup(id)
	var sel ics.Selection
	if ok {
		sel = ics.Selection{
			UID:       id + "@ethiopicker",
			Instant:   wg.ctrl.Instant(),
			Ethiopian: wg.ctrl.Ethiopian(),
			Location:  s.loc,
			Stamp:     s.now(),
		}
	}
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "widget not found")
		return
	}
	body, err := ics.EncodeSelection(sel)
	if err != nil {
		appLog.Error("ics export failed", err, "id", id)
		writeError(w, http.StatusInternalServerError, "failed to export selection")
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.ics"`, id))
	_, _ = w.Write(body)
}

// submitResponse is returned by a successful form submission.
type submitResponse struct {
	Datetime  time.Time     `json:"datetime"`
	Ethiopian ethiopic.Date `json:"ethiopian"`
}

// handleSubmit validates the host form bound to a widget.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.mu.Lock()
	wg, ok := s.lookup(id)
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "widget not found")
		return
	}
	sub, err := wg.form.Submit()
	if err != nil {
		writeSubmitError(w, err)
		return
	}
	s.writeSubmission(w, sub)
}

// handleSubmitValue validates a host form posted directly, without a
// mounted widget.
func (s *Server) handleSubmitValue(w http.ResponseWriter, r *http.Request) {
	var sub form.Submission
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&sub); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := form.Validate(sub); err != nil {
		writeSubmitError(w, err)
		return
	}
	s.writeSubmission(w, sub)
}

func (s *Server) writeSubmission(w http.ResponseWriter, sub form.Submission) {
	appLog.Info("form submitted", "datetime", sub.Datetime.Format(time.RFC3339))
	writeJSON(w, http.StatusOK, submitResponse{
		Datetime:  *sub.Datetime,
		Ethiopian: ethiopic.ToEthiopian(*sub.Datetime),
	})
}

func writeSubmitError(w http.ResponseWriter, err error) {
	if errors.Is(err, form.ErrMissingValue) {
		writeError(w, http.StatusUnprocessableEntity, form.MissingValueMessage)
		return
	}
	writeError(w, http.StatusBadRequest, err.Error())
}

// decode reads a JSON request body, answering 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := s.decodeJSON(w, r, v); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// edit applies fn to the widget's controller and answers with the new
// state. Rejected edits are counted and answered with 400.
func (s *Server) edit(w http.ResponseWriter, r *http.Request, field string, fn func(*selection.Controller) error) {
	s.withWidget(w, r, func(wg *widget) error {
		if err := fn(wg.ctrl); err != nil {
			s.metrics.Rejected.WithLabelValues(field).Inc()
			appLog.Debug("widget edit rejected", "id", wg.id, "field", field, "err", err)
			return err
		}
		return nil
	})
}

// withWidget runs fn under the server lock and writes the widget state,
// or the error fn returned.
func (s *Server) withWidget(w http.ResponseWriter, r *http.Request, fn func(*widget) error) {
	id := r.PathValue("id")

	s.mu.Lock()
	wg, ok := s.lookup(id)
	var (
		err   error
		state stateResponse
	)
	if ok {
		err = fn(wg)
		state = wg.state()
	}
	s.mu.Unlock()

	switch {
	case !ok:
		writeError(w, http.StatusNotFound, "widget not found")
	case err != nil:
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeJSON(w, http.StatusOK, state)
	}
}
