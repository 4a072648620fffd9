package form_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ethiopicker/internal/form"
	"ethiopicker/internal/model"
	"ethiopicker/internal/selection"
)

func TestSubmitWithoutValue(t *testing.T) {
	f := form.New(time.UTC)
	_, err := f.Submit()
	assert.ErrorIs(t, err, form.ErrMissingValue)

	_, ok := f.Value()
	assert.False(t, ok)
}

func TestBoundSelectorFillsForm(t *testing.T) {
	f := form.New(time.UTC)
	var seen []model.Instant
	initial := model.Instant{Year: 2024, Month: time.September, Day: 11}

	c, err := selection.New(selection.Options{
		Initial:         &initial,
		EnableEthiopian: true,
		OnChange:        f.Bind(func(i model.Instant) { seen = append(seen, i) }),
	})
	require.NoError(t, err)

	// Mounting alone gives the form a value.
	sub, err := f.Submit()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.September, 11, 0, 0, 0, 0, time.UTC), *sub.Datetime)

	require.NoError(t, c.SetTime(8, 15))
	sub, err = f.Submit()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.September, 11, 8, 15, 0, 0, time.UTC), *sub.Datetime)
	assert.Len(t, seen, 2)
}

func TestValidate(t *testing.T) {
	now := time.Now()
	assert.NoError(t, form.Validate(form.Submission{Datetime: &now}))
	assert.ErrorIs(t, form.Validate(form.Submission{}), form.ErrMissingValue)
}

func TestFormUsesLocation(t *testing.T) {
	loc := time.FixedZone("EAT", 3*60*60)
	f := form.New(loc)
	f.SetValue(model.Instant{Year: 2024, Month: time.January, Day: 1, Hour: 12})
	v, ok := f.Value()
	require.True(t, ok)
	assert.Equal(t, loc, v.Location())
	assert.Equal(t, 9, v.UTC().Hour())
}
