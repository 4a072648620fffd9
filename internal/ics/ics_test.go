package ics_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ethiopicker/internal/ethiopic"
	"ethiopicker/internal/ics"
	"ethiopicker/internal/model"
)

var eat = time.FixedZone("EAT", 3*60*60)

func TestEncodeSelection(t *testing.T) {
	body, err := ics.EncodeSelection(ics.Selection{
		UID:       "widget-1",
		Instant:   model.Instant{Year: 2024, Month: time.September, Day: 11, Hour: 8, Minute: 15},
		Ethiopian: ethiopic.Date{Year: 2017, Month: 1, Day: 1},
		Location:  eat,
		Stamp:     time.Date(2024, time.September, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	text := string(body)
	assert.True(t, strings.HasPrefix(text, "BEGIN:VCALENDAR"))
	assert.Contains(t, text, "UID:widget-1")
	assert.Contains(t, text, "DTSTART:20240911T051500Z")
	assert.Contains(t, text, "SUMMARY:Selected date")
	assert.Contains(t, text, "Ethiopian: 1 Meskerem 2017")

	got, err := ics.ParseStart(body, eat)
	require.NoError(t, err)
	assert.Equal(t, model.Instant{Year: 2024, Month: time.September, Day: 11, Hour: 8, Minute: 15}, got)
}

func TestEncodeSelectionRejects(t *testing.T) {
	_, err := ics.EncodeSelection(ics.Selection{Instant: model.Instant{Year: 2024, Month: 1, Day: 1}})
	assert.Error(t, err)

	_, err = ics.EncodeSelection(ics.Selection{UID: "x", Instant: model.Instant{Year: 2023, Month: 2, Day: 29}})
	assert.ErrorIs(t, err, ethiopic.ErrInvalidDate)
}

func TestParseStart(t *testing.T) {
	body := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//test//EN",
		"BEGIN:VEVENT",
		"UID:no-start",
		"SUMMARY:skipped",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:meeting",
		"DTSTAMP:20250101T000000Z",
		"DTSTART:20250107T060000Z",
		"SUMMARY:Genna",
		"END:VEVENT",
		"END:VCALENDAR",
		"",
	}, "\r\n")

	got, err := ics.ParseStart([]byte(body), eat)
	require.NoError(t, err)
	assert.Equal(t, model.Instant{Year: 2025, Month: time.January, Day: 7, Hour: 9}, got)
}

func TestParseStartErrors(t *testing.T) {
	_, err := ics.ParseStart(nil, time.UTC)
	assert.Error(t, err)

	empty := "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:-//test//EN\r\nEND:VCALENDAR\r\n"
	_, err = ics.ParseStart([]byte(empty), time.UTC)
	assert.Error(t, err)
}
