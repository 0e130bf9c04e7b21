package wizard

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/freightdesk/freightdesk/internal/booking"
)

func TestNextSkipsTruckingForPierToPier(t *testing.T) {
	require.Equal(t, StepLocations, Next(StepRouting, booking.ModePierToPier))
	require.Equal(t, StepRouting, Prev(StepLocations, booking.ModePierToPier))
}

func TestNonPierModesVisitEveryStep(t *testing.T) {
	for _, mode := range booking.Modes() {
		if mode == booking.ModePierToPier {
			continue
		}
		require.False(t, mode.SkipsTrucking(), "mode %s", mode)
		require.Equal(t, []Step{StepParties, StepRouting, StepTrucking, StepLocations, StepReview}, Sequence(mode))
		require.Equal(t, StepTrucking, Next(StepRouting, mode), "mode %s", mode)
		require.Equal(t, StepTrucking, Prev(StepLocations, mode), "mode %s", mode)
	}
}

func TestPierToPierSequenceExcludesTrucking(t *testing.T) {
	require.True(t, booking.ModePierToPier.SkipsTrucking())
	require.Equal(t, []Step{StepParties, StepRouting, StepLocations, StepReview}, Sequence(booking.ModePierToPier))
	require.False(t, Applicable(StepTrucking, booking.ModePierToPier))
}

func TestFirstStepHasNoPrevious(t *testing.T) {
	require.True(t, StepParties.IsFirst())
	require.Equal(t, StepParties, Prev(StepParties, booking.ModeDoorToDoor))
}

func TestReviewIsTerminal(t *testing.T) {
	require.True(t, StepReview.IsTerminal())
	require.Equal(t, StepReview, Next(StepReview, booking.ModeDoorToDoor))
}

func TestDraftSetModeMaintainsSkipFlag(t *testing.T) {
	var d Draft
	d.SetMode(booking.ModePierToPier)
	require.True(t, d.SkipTrucking)

	d.SetMode(booking.ModeDoorToDoor)
	require.False(t, d.SkipTrucking)

	for _, mode := range booking.Modes() {
		d.SetMode(mode)
		require.Equal(t, mode == booking.ModePierToPier, d.SkipTrucking, "mode %s", mode)
	}
}

func TestDraftNavigationFollowsMachine(t *testing.T) {
	d := Draft{Step: StepRouting}
	d.SetMode(booking.ModePierToPier)
	d.Advance()
	require.Equal(t, StepLocations, d.Step)
	d.Back()
	require.Equal(t, StepRouting, d.Step)

	d.SetMode(booking.ModeCYToCY)
	d.Advance()
	require.Equal(t, StepTrucking, d.Step)
}

func TestSetShippingLineClearsShipSelection(t *testing.T) {
	d := Draft{ShippingLineID: 1, ShipID: 42}
	d.SetShippingLine(2)
	require.Zero(t, d.ShipID, "ships are scoped to a line; stale selection is invalid")
	require.Equal(t, int64(2), d.ShippingLineID)

	// Re-selecting the same line keeps the ship.
	d.ShipID = 7
	d.SetShippingLine(2)
	require.Equal(t, int64(7), d.ShipID)
}
