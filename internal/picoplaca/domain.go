package picoplaca

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidArgument signals a caller passed a value outside the evaluator contract.
var ErrInvalidArgument = errors.New("picoplaca: invalid argument")

// Weekday enumerates the days the policy distinguishes.
type Weekday int

const (
	Sunday Weekday = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

var weekdayNames = [...]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// WeekdayOf derives the weekday of a calendar date.
func WeekdayOf(date time.Time) Weekday {
	return Weekday(date.Weekday())
}

// ParseWeekday accepts an English weekday name, case-insensitive.
func ParseWeekday(s string) (Weekday, error) {
	token := strings.TrimSpace(s)
	for i, name := range weekdayNames {
		if strings.EqualFold(token, name) {
			return Weekday(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown weekday %q", ErrInvalidArgument, s)
}

// Valid reports whether w is one of the seven days.
func (w Weekday) Valid() bool {
	return w >= Sunday && w <= Saturday
}

func (w Weekday) String() string {
	if !w.Valid() {
		return fmt.Sprintf("Weekday(%d)", int(w))
	}
	return weekdayNames[w]
}

// MarshalText implements encoding.TextMarshaler.
func (w Weekday) MarshalText() ([]byte, error) {
	if !w.Valid() {
		return nil, fmt.Errorf("%w: weekday %d", ErrInvalidArgument, int(w))
	}
	return []byte(weekdayNames[w]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (w *Weekday) UnmarshalText(data []byte) error {
	parsed, err := ParseWeekday(string(data))
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}

// ClockTime is a time of day without date or zone.
type ClockTime struct {
	Hour   int
	Minute int
}

// NewClockTime validates hour and minute.
func NewClockTime(hour, minute int) (ClockTime, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return ClockTime{}, fmt.Errorf("%w: clock time %02d:%02d", ErrInvalidArgument, hour, minute)
	}
	return ClockTime{Hour: hour, Minute: minute}, nil
}

// Clock builds a ClockTime and panics on out-of-range values. Intended for constants.
func Clock(hour, minute int) ClockTime {
	t, err := NewClockTime(hour, minute)
	if err != nil {
		panic(err)
	}
	return t
}

// Minutes returns minutes since midnight.
func (t ClockTime) Minutes() int {
	return t.Hour*60 + t.Minute
}

func (t ClockTime) Before(o ClockTime) bool { return t.Minutes() < o.Minutes() }
func (t ClockTime) After(o ClockTime) bool  { return t.Minutes() > o.Minutes() }
func (t ClockTime) Equal(o ClockTime) bool  { return t.Minutes() == o.Minutes() }

func (t ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// MarshalText renders the time as "HH:MM".
func (t ClockTime) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText parses "HH:MM".
func (t *ClockTime) UnmarshalText(data []byte) error {
	parsed, err := ParseClock(string(data))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t ClockTime) valid() bool {
	return t.Hour >= 0 && t.Hour <= 23 && t.Minute >= 0 && t.Minute <= 59
}

// Window is a closed interval of clock times.
type Window struct {
	Start ClockTime `json:"start"`
	End   ClockTime `json:"end"`
}

// Contains reports whether t lies in the window, both endpoints included.
func (w Window) Contains(t ClockTime) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

var (
	// MorningWindow is the morning peak.
	MorningWindow = Window{Start: Clock(7, 0), End: Clock(9, 30)}
	// EveningWindow is the evening peak.
	EveningWindow = Window{Start: Clock(16, 0), End: Clock(19, 30)}
)

// Windows returns the restricted windows in chronological order.
func Windows() []Window {
	return []Window{MorningWindow, EveningWindow}
}

// Group is the plate parity restricted on a given day.
type Group int

const (
	// GroupNone applies on Sunday, when no parity rule is used.
	GroupNone Group = iota
	GroupOdd
	GroupEven
)

func (g Group) String() string {
	switch g {
	case GroupOdd:
		return "odd"
	case GroupEven:
		return "even"
	default:
		return "none"
	}
}

// GroupFor maps every weekday to its restricted parity.
func GroupFor(w Weekday) Group {
	switch w {
	case Monday, Wednesday, Friday:
		return GroupOdd
	case Tuesday, Thursday, Saturday:
		return GroupEven
	default:
		return GroupNone
	}
}

// ParityOf classifies a plate digit. Zero is even.
func ParityOf(digit int) Group {
	if digit%2 != 0 {
		return GroupOdd
	}
	return GroupEven
}

// Verdict is the outcome of an evaluation.
type Verdict int

const (
	VerdictAllowed Verdict = iota
	VerdictForbidden
	VerdictAllPrivateVehiclesBarred
)

func (v Verdict) String() string {
	switch v {
	case VerdictAllowed:
		return "allowed"
	case VerdictForbidden:
		return "forbidden"
	case VerdictAllPrivateVehiclesBarred:
		return "all_private_vehicles_barred"
	default:
		return fmt.Sprintf("Verdict(%d)", int(v))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (v Verdict) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Verdict) UnmarshalText(data []byte) error {
	switch string(data) {
	case "allowed":
		*v = VerdictAllowed
	case "forbidden":
		*v = VerdictForbidden
	case "all_private_vehicles_barred":
		*v = VerdictAllPrivateVehiclesBarred
	default:
		return fmt.Errorf("%w: unknown verdict %q", ErrInvalidArgument, string(data))
	}
	return nil
}
