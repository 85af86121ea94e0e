package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type color string

func (c color) Valid() bool      { return c == "red" || c == "blue" }
func (c color) Values() []string { return []string{"red", "blue"} }

type sample struct {
	Name    string    `json:"name" validate:"required,notblank,min=3,max=10"`
	Color   color     `json:"color" validate:"required,enum"`
	Tags    []string  `json:"tags" validate:"max=2,dive,required"`
	At      string    `json:"at" validate:"omitempty,hhmm"`
	Phone   string    `json:"phone" validate:"omitempty,phone"`
	Contact string    `json:"contact" validate:"omitempty,contact"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end" validate:"gtfield=Start"`
}

func validSample() sample {
	now := time.Now()
	return sample{
		Name:  "Room",
		Color: "red",
		Start: now,
		End:   now.Add(time.Hour),
	}
}

func TestValidateStructValid(t *testing.T) {
	s := validSample()
	assert.Nil(t, ValidateStruct(&s))
	assert.Nil(t, FieldErrors(&s))
}

func TestValidateStructMessages(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *sample)
		message string
	}{
		{"required", func(s *sample) { s.Name = "" }, "name is required"},
		{"notblank", func(s *sample) { s.Name = " \t  " }, "name cannot be blank"},
		{"min string", func(s *sample) { s.Name = "ab" }, "name must be at least 3 characters"},
		{"max string", func(s *sample) { s.Name = "abcdefghijk" }, "name must be at most 10 characters"},
		{"enum", func(s *sample) { s.Color = "green" }, "color must be one of: red, blue"},
		{"max items", func(s *sample) { s.Tags = []string{"a", "b", "c"} }, "tags must be at most 2 items"},
		{"dive", func(s *sample) { s.Tags = []string{""} }, "tags[0] is required"},
		{"hhmm", func(s *sample) { s.At = "24:00" }, "at must be a time in HH:MM format"},
		{"phone", func(s *sample) { s.Phone = "12ab" }, "phone must be a valid phone number"},
		{"contact", func(s *sample) { s.Contact = "not a contact" }, "contact must be an email address or phone number"},
		{"gtfield", func(s *sample) { s.End = s.Start.Add(-time.Hour) }, "end must be after start"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSample()
			tt.mutate(&s)

			verr := ValidateStruct(&s)
			require.NotNil(t, verr)
			assert.Equal(t, []string{tt.message}, verr.Messages())
		})
	}
}

func TestContactAcceptsEmailOrPhone(t *testing.T) {
	for _, contact := range []string{"warden@hostel.test", "+306912345678", "6912345678"} {
		s := validSample()
		s.Contact = contact
		assert.Nil(t, ValidateStruct(&s), contact)
	}
}

type window struct {
	From time.Time `json:"from" validate:"notpast"`
	To   time.Time `json:"to" validate:"notfuture"`
}

func TestCalendarDayRules(t *testing.T) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	ok := window{From: today, To: today.Add(23 * time.Hour)}
	assert.Nil(t, ValidateStruct(&ok))

	bad := window{From: today.Add(-time.Minute), To: today.AddDate(0, 0, 1)}
	verr := ValidateStruct(&bad)
	require.NotNil(t, verr)
	assert.Equal(t, []string{
		"from cannot be in the past",
		"to cannot be in the future",
	}, verr.Messages())
}

func TestFieldErrorsKeepsFirstMessagePerPath(t *testing.T) {
	s := validSample()
	s.Name = ""
	s.Tags = []string{"ok", ""}

	errs := FieldErrors(&s)
	assert.Equal(t, map[string]string{
		"name":    "name is required",
		"tags[1]": "tags[1] is required",
	}, errs)
}

func TestNewErrorAndUnwrap(t *testing.T) {
	err := error(NewError("a", "b"))
	assert.Equal(t, "a; b", err.Error())

	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, ve.Messages())

	assert.Equal(t, "validation failed", NewError().Error())
}
