// Package form is the host side of the selector: it receives the selected
// instant through the OnChange callback and validates it on submit.
package form

import (
	"errors"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"ethiopicker/internal/model"
)

// ErrMissingValue is returned when a submission carries no date.
var ErrMissingValue = errors.New("date and time is required")

// MissingValueMessage is shown next to the field when ErrMissingValue is
// returned.
const MissingValueMessage = "Date and time is required."

// Submission is the validated form payload.
type Submission struct {
	Datetime *time.Time `json:"datetime" validate:"required"`
}

var validate = validator.New()

// Form keeps the last value reported by a selector.
type Form struct {
	mu    sync.Mutex
	loc   *time.Location
	value *time.Time
}

// New creates a form that interprets instants in loc.
func New(loc *time.Location) *Form {
	if loc == nil {
		loc = time.Local
	}
	return &Form{loc: loc}
}

// SetValue records v as the datetime field.
func (f *Form) SetValue(v model.Instant) {
	t := v.Time(f.loc)
	f.mu.Lock()
	f.value = &t
	f.mu.Unlock()
}

// Bind returns a callback suitable for selection.Options.OnChange. next,
// when non-nil, is called after the value is recorded.
func (f *Form) Bind(next func(model.Instant)) func(model.Instant) {
	return func(v model.Instant) {
		f.SetValue(v)
		if next != nil {
			next(v)
		}
	}
}

// Value returns the recorded datetime, if any.
func (f *Form) Value() (time.Time, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.value == nil {
		return time.Time{}, false
	}
	return *f.value, true
}

// Submit validates the form and returns the submission.
func (f *Form) Submit() (Submission, error) {
	f.mu.Lock()
	s := Submission{Datetime: f.value}
	f.mu.Unlock()
	if err := Validate(s); err != nil {
		return Submission{}, err
	}
	return s, nil
}

// Validate checks a submission against its struct tags.
func Validate(s Submission) error {
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				if fe.Field() == "Datetime" && fe.Tag() == "required" {
					return ErrMissingValue
				}
			}
		}
		return err
	}
	return nil
}
