package forms

import "time"

// GateState is the submission window state of a form
type GateState string

const (
	GateNotYetOpen GateState = "NOT_YET_OPEN"
	GateOpen       GateState = "OPEN"
	GateClosed     GateState = "CLOSED"
	// GateDisabled is reported when the form's kill switch is off, whatever the time
	GateDisabled GateState = "DISABLED"
)

// AcceptsSubmissions reports whether submissions are allowed in this state
func (s GateState) AcceptsSubmissions() bool {
	return s == GateOpen
}

// EvaluateGate computes the time-based state. A past closeAt wins over openAt.
func EvaluateGate(now time.Time, openAt, closeAt *time.Time) GateState {
	if closeAt != nil && !now.Before(*closeAt) {
		return GateClosed
	}
	if openAt != nil && now.Before(*openAt) {
		return GateNotYetOpen
	}
	return GateOpen
}

// FormStatus is the display state of a form at now: DISABLED takes precedence
// over the time-based states.
func FormStatus(form *FormSchema, now time.Time) GateState {
	if !form.IsActive {
		return GateDisabled
	}
	return EvaluateGate(now, form.OpenAt, form.CloseAt)
}

// UntilNextTransition returns how long until the time-based state changes next,
// and false when no further transition is scheduled.
func UntilNextTransition(now time.Time, openAt, closeAt *time.Time) (time.Duration, bool) {
	switch EvaluateGate(now, openAt, closeAt) {
	case GateNotYetOpen:
		return openAt.Sub(now), true
	case GateOpen:
		if closeAt != nil {
			return closeAt.Sub(now), true
		}
	}
	return 0, false
}
