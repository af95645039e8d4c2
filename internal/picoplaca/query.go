package picoplaca

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Layouts accepted for raw user input. Day, month, hour and minute may
// omit their leading zero, so 7-10-2024 and 7:5 are accepted.
const (
	DateLayout  = "2-1-2006"
	ClockLayout = "15:4"
)

var (
	// ErrInvalidInput groups every rejection of raw user input.
	ErrInvalidInput = errors.New("picoplaca: invalid input")
	// ErrInvalidPlate indicates the plate does not match AAA-1111.
	ErrInvalidPlate = fmt.Errorf("%w: plate must look like AAA-1111", ErrInvalidInput)
	// ErrInvalidDate indicates the date is not DD-MM-YYYY.
	ErrInvalidDate = fmt.Errorf("%w: date must use DD-MM-YYYY", ErrInvalidInput)
	// ErrInvalidTime indicates the time is not HH:MM.
	ErrInvalidTime = fmt.Errorf("%w: time must use HH:MM", ErrInvalidInput)
)

var platePattern = regexp.MustCompile(`^[A-Za-z]{3}-[0-9]{4}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	err := v.RegisterValidation("plate", func(fl validator.FieldLevel) bool {
		return platePattern.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	if err != nil {
		panic(fmt.Sprintf("picoplaca: register plate validation: %v", err))
	}
	return v
}

// Plate is a validated license plate such as PCQ-8981.
type Plate string

// ParsePlate validates s and normalises it to upper case.
func ParsePlate(s string) (Plate, error) {
	s = strings.TrimSpace(s)
	if !platePattern.MatchString(s) {
		return "", ErrInvalidPlate
	}
	return Plate(strings.ToUpper(s)), nil
}

// LastDigit returns the final digit of the plate.
func (p Plate) LastDigit() int {
	if p == "" {
		return -1
	}
	c := p[len(p)-1]
	if c < '0' || c > '9' {
		return -1
	}
	return int(c - '0')
}

// ParseDate parses a DD-MM-YYYY calendar date.
func ParseDate(s string) (time.Time, error) {
	date, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return date, nil
}

// ParseClock parses a 24-hour HH:MM time.
func ParseClock(s string) (ClockTime, error) {
	parsed, err := time.Parse(ClockLayout, strings.TrimSpace(s))
	if err != nil {
		return ClockTime{}, ErrInvalidTime
	}
	return ClockTime{Hour: parsed.Hour(), Minute: parsed.Minute()}, nil
}

// Query carries raw user input for a single check.
type Query struct {
	Plate string `json:"plate" validate:"required,plate"`
	Date  string `json:"date" validate:"required"`
	Time  string `json:"time" validate:"required"`
}

// Input is a Query after validation, ready for Evaluate.
type Input struct {
	Plate   Plate
	Date    time.Time
	Weekday Weekday
	Time    ClockTime
}

// Resolve validates the query and converts it into an Input.
func (q Query) Resolve() (Input, error) {
	if err := validate.Struct(q); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return Input{}, fieldError(verrs[0].Field())
		}
		return Input{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	plate, err := ParsePlate(q.Plate)
	if err != nil {
		return Input{}, err
	}
	date, err := ParseDate(q.Date)
	if err != nil {
		return Input{}, err
	}
	clock, err := ParseClock(q.Time)
	if err != nil {
		return Input{}, err
	}
	return Input{
		Plate:   plate,
		Date:    date,
		Weekday: WeekdayOf(date),
		Time:    clock,
	}, nil
}

func fieldError(field string) error {
	switch field {
	case "Plate":
		return ErrInvalidPlate
	case "Date":
		return ErrInvalidDate
	case "Time":
		return ErrInvalidTime
	default:
		return ErrInvalidInput
	}
}
