package core

import (
	"errors"
	"strings"
	"time"
)

type (
	// Date carries day-resolution calendar semantics. The time of day is
	// always normalized to UTC midnight so range comparisons work on whole
	// days.
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Entry is one recorded work day: what was earned, what was spent and
	// the derived net amount. Net is never stored independently of the other
	// two; the service layer recomputes it on every write.
	Entry struct {
		ID          string
		UserID      string
		Date        Date
		DayOfWeek   string // label supplied at creation time, kept as-is
		Gross       Money
		Expenses    Money
		Net         Money
		Description string
		CreatedAt   time.Time
		UpdatedAt   time.Time
	}

	User struct {
		ID        string
		Email     string
		Name      string
		Password  string
		CreatedAt time.Time
		UpdatedAt time.Time
	}
)

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrNegativeAmount   = errors.New("amount cannot be negative")
	ErrEmptyDayOfWeek   = errors.New("empty day of week")
	ErrEmptyUserID      = errors.New("empty user id")
	ErrEmptyEmail       = errors.New("empty email")
	ErrEmptyName        = errors.New("empty name")
	ErrPasswordTooShort = errors.New("password must have at least 5 characters")
)

// Weekday labels follow the Brazilian convention, Sunday first.
var (
	weekdayNames = [7]string{
		"domingo", "segunda", "terça", "quarta", "quinta", "sexta", "sábado",
	}
	weekdayShortNames = [7]string{
		"dom", "seg", "ter", "qua", "qui", "sex", "sáb",
	}
)

// WeekdayName returns the full weekday label derived from the date,
// independent of any stored label.
func WeekdayName(d Date) string {
	return weekdayNames[int(d.Time.Weekday())]
}

// WeekdayShort returns the abbreviated weekday label derived from the date.
func WeekdayShort(d Date) string {
	return weekdayShortNames[int(d.Time.Weekday())]
}

// NewDate creates a Date at UTC midnight of the given calendar day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// DateOf truncates an arbitrary timestamp to its UTC calendar day.
func DateOf(t time.Time) Date {
	u := t.UTC()
	return NewDate(u.Year(), int(u.Month()), u.Day())
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Time.Format("2006-01-02")
}

// MarshalJSON encodes the date as a YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a YYYY-MM-DD string.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return ErrInvalidDate
	}
	*d = Date{Time: t}
	return nil
}

// AddDays returns the date shifted by the given number of calendar days.
func (d Date) AddDays(days int) Date {
	return Date{Time: d.Time.AddDate(0, 0, days)}
}

// Before reports whether d falls on an earlier calendar day than other.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// After reports whether d falls on a later calendar day than other.
func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrNegativeAmount
	}
	return nil
}

// Net returns gross minus expenses.
func Net(gross, expenses Money) Money {
	return Money{Cents: gross.Cents - expenses.Cents}
}

func (e Entry) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.DayOfWeek) == "" {
		return ErrEmptyDayOfWeek
	}
	if strings.TrimSpace(e.UserID) == "" {
		return ErrEmptyUserID
	}
	if err := e.Gross.Validate(); err != nil {
		return err
	}
	if err := e.Expenses.Validate(); err != nil {
		return err
	}
	if len(e.Description) > 255 {
		return errors.New("description too long (max 255 characters)")
	}
	return nil
}

func (u User) Validate() error {
	if strings.TrimSpace(u.Email) == "" {
		return ErrEmptyEmail
	}
	if strings.TrimSpace(u.Name) == "" {
		return ErrEmptyName
	}
	if len(u.Password) < 5 {
		return ErrPasswordTooShort
	}
	return nil
}
