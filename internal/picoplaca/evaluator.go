package picoplaca

import "fmt"

// Evaluate decides whether a vehicle whose plate ends in digit may circulate
// at clock time t on weekday. It holds no state and is safe for concurrent use.
func Evaluate(weekday Weekday, digit int, t ClockTime) (Verdict, error) {
	if !weekday.Valid() {
		return 0, fmt.Errorf("%w: weekday %d", ErrInvalidArgument, int(weekday))
	}
	if digit < 0 || digit > 9 {
		return 0, fmt.Errorf("%w: plate digit %d outside 0-9", ErrInvalidArgument, digit)
	}
	if !t.valid() {
		return 0, fmt.Errorf("%w: clock time %02d:%02d", ErrInvalidArgument, t.Hour, t.Minute)
	}

	if weekday == Sunday {
		return VerdictAllPrivateVehiclesBarred, nil
	}
	if ParityOf(digit) == GroupFor(weekday) && InRestrictedWindow(t) {
		return VerdictForbidden, nil
	}
	return VerdictAllowed, nil
}

// InRestrictedWindow reports whether t falls inside a peak window.
// 07:00, 09:30, 16:00 and 19:30 are all restricted.
func InRestrictedWindow(t ClockTime) bool {
	for _, w := range Windows() {
		if w.Contains(t) {
			return true
		}
	}
	return false
}
