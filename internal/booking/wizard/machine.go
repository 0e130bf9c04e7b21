// Package wizard implements the five-step booking creation flow: step
// navigation, the accumulated draft, its validation schema and the final
// submission payload. Navigation is modelled as one small state machine so
// the skip rules live in a single auditable place instead of scattered
// button handlers.
package wizard

import "github.com/freightdesk/freightdesk/internal/booking"

// Step identifies one wizard screen.
type Step int

const (
	// StepParties collects shipper and consignee identity and contacts.
	StepParties Step = 1
	// StepRouting collects shipping line, ship, ports, cargo and mode.
	StepRouting Step = 2
	// StepTrucking collects trucking company and truck assignments. It is
	// skipped entirely for Pier to Pier bookings.
	StepTrucking Step = 3
	// StepLocations resolves pickup/delivery coordinates on the map.
	StepLocations Step = 4
	// StepReview is the terminal read-only confirmation screen.
	StepReview Step = 5
)

// FirstStep is where a freshly opened wizard starts and where it resets to
// after a successful submission.
const FirstStep = StepParties

// Title returns the heading shown above the step.
func (s Step) Title() string {
	switch s {
	case StepParties:
		return "Shipper & Consignee"
	case StepRouting:
		return "Route & Cargo"
	case StepTrucking:
		return "Trucking"
	case StepLocations:
		return "Pickup & Delivery Locations"
	case StepReview:
		return "Review & Confirm"
	default:
		return ""
	}
}

// IsFirst reports whether the step has no Previous action.
func (s Step) IsFirst() bool { return s == FirstStep }

// IsTerminal reports whether the step's action button submits instead of
// advancing.
func (s Step) IsTerminal() bool { return s == StepReview }

// Next returns the step that follows s under the given mode. From the
// routing step a Pier to Pier booking jumps straight to locations, skipping
// trucking. Next from the terminal step stays put; submission is a separate
// action.
func Next(s Step, mode booking.Mode) Step {
	if s.IsTerminal() {
		return s
	}
	if s == StepRouting && mode.SkipsTrucking() {
		return StepLocations
	}
	return s + 1
}

// Prev returns the step before s under the given mode, with the symmetric
// trucking skip. Prev from the first step stays put.
func Prev(s Step, mode booking.Mode) Step {
	if s.IsFirst() {
		return s
	}
	if s == StepLocations && mode.SkipsTrucking() {
		return StepRouting
	}
	return s - 1
}

// Applicable reports whether the step is part of the sequence for mode.
func Applicable(s Step, mode booking.Mode) bool {
	if s == StepTrucking {
		return !mode.SkipsTrucking()
	}
	return s >= StepParties && s <= StepReview
}

// Sequence returns the ordered applicable steps for mode.
func Sequence(mode booking.Mode) []Step {
	steps := make([]Step, 0, 5)
	for s := StepParties; s <= StepReview; s++ {
		if Applicable(s, mode) {
			steps = append(steps, s)
		}
	}
	return steps
}
