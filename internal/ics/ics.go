// Package ics exports a selection as an iCalendar event and reads the start
// of an event back as an instant.
package ics

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"

	"ethiopicker/internal/ethiopic"
	appLog "ethiopicker/internal/log"
	"ethiopicker/internal/model"
)

const productID = "-//ethiopicker//date selection//EN"

// Selection is the data written into the exported event.
type Selection struct {
	// UID identifies the event; typically the widget id.
	UID string

	Instant   model.Instant
	Ethiopian ethiopic.Date

	// Location interprets Instant; nil means time.Local.
	Location *time.Location

	// Summary defaults to "Selected date".
	Summary string

	// Stamp is written as DTSTAMP; zero means time.Now.
	Stamp time.Time
}

// EncodeSelection renders a VCALENDAR holding one VEVENT that starts and
// ends at the selected instant. The Ethiopian date goes in the description.
func EncodeSelection(s Selection) ([]byte, error) {
	if s.UID == "" {
		return nil, errors.New("ics: UID is required")
	}
	if err := s.Instant.Validate(); err != nil {
		return nil, fmt.Errorf("ics: %w", err)
	}
	if s.Summary == "" {
		s.Summary = "Selected date"
	}
	if s.Stamp.IsZero() {
		s.Stamp = time.Now()
	}

	start := s.Instant.Time(s.Location)

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	ev := cal.AddEvent(s.UID)
	ev.SetDtStampTime(s.Stamp)
	ev.SetStartAt(start)
	ev.SetEndAt(start)
	ev.SetSummary(s.Summary)
	ev.SetDescription(fmt.Sprintf("Ethiopian: %s", s.Ethiopian))

	return []byte(cal.Serialize()), nil
}

// ParseStart returns the DTSTART of the first VEVENT in body, as wall
// clock time in loc.
func ParseStart(body []byte, loc *time.Location) (model.Instant, error) {
	if len(body) == 0 {
		return model.Instant{}, errors.New("empty ICS body")
	}
	if loc == nil {
		loc = time.Local
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		appLog.Error("ics parse failed", err)
		return model.Instant{}, err
	}

	for _, ev := range cal.Events() {
		if ev.GetProperty(ical.ComponentPropertyDtStart) == nil {
			continue
		}
		start, err := ev.GetStartAt()
		if err != nil {
			// Log and skip this event, but keep looking at others.
			appLog.Error("ics vevent start parse failed", err)
			continue
		}
		return model.FromTime(start.In(loc)), nil
	}
	return model.Instant{}, errors.New("ics: no VEVENT with DTSTART")
}
