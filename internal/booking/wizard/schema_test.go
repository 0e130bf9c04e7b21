package wizard

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/freightdesk/freightdesk/internal/booking"
)

func TestValidateFieldLiveMode(t *testing.T) {
	s := NewSchema()
	d := &Draft{}

	require.NotEmpty(t, s.ValidateField(d, "shipper_name"))
	d.ShipperName = "Acme Exports"
	require.Empty(t, s.ValidateField(d, "shipper_name"))

	d.ShipperPhone = "0917 123 4567"
	require.Contains(t, s.ValidateField(d, "shipper_phone"), "international phone format")
	d.ShipperPhone = "+639171234567"
	require.Empty(t, s.ValidateField(d, "shipper_phone"))

	d.Quantity = 0
	require.NotEmpty(t, s.ValidateField(d, "quantity"))
	d.Quantity = 1
	require.Empty(t, s.ValidateField(d, "quantity"))

	// Fields without static rules report clean in live mode.
	require.Empty(t, s.ValidateField(d, "pickup_address"))
}

func TestValidateStepTruckingConditional(t *testing.T) {
	s := NewSchema()
	d := doorToDoorDraft()

	require.Empty(t, s.ValidateStep(d, StepTrucking))

	d.PickupTruckID = 0
	errs := s.ValidateStep(d, StepTrucking)
	require.Contains(t, errs, "pickup_truck_id")

	// Pier to Pier waives every trucking requirement.
	d.SetMode(booking.ModePierToPier)
	d.PickupTruckerID = 0
	d.DeliveryTruckerID = 0
	require.Empty(t, s.ValidateStep(d, StepTrucking))
}

func TestValidateStepRoutingRules(t *testing.T) {
	s := NewSchema()
	d := doorToDoorDraft()

	d.OriginPort = "XXX"
	errs := s.ValidateStep(d, StepRouting)
	require.Contains(t, errs["origin_port"], "port from the list")

	d.OriginPort = "CEB"
	errs = s.ValidateStep(d, StepRouting)
	require.Contains(t, errs["destination_port"], "differ from origin")
}

func TestValidateStepLocationsPerMode(t *testing.T) {
	s := NewSchema()
	d := doorToDoorDraft()
	d.PickupLat, d.PickupLng = 0, 0

	errs := s.ValidateStep(d, StepLocations)
	require.Contains(t, errs, "pickup_address")
	require.NotContains(t, errs, "delivery_address")

	// Non-door origin modes only show port coordinates; nothing to resolve.
	d.SetMode(booking.ModeCYToDoor)
	require.NotContains(t, s.ValidateStep(d, StepLocations), "pickup_address")

	d.SetMode(booking.ModePierToPier)
	d.DeliveryLat, d.DeliveryLng = 0, 0
	require.Empty(t, s.ValidateStep(d, StepLocations))
}

func TestValidateAllCleanDraft(t *testing.T) {
	s := NewSchema()
	require.Empty(t, s.ValidateAll(doorToDoorDraft()))
}

func TestValidateAllCollectsAcrossSteps(t *testing.T) {
	s := NewSchema()
	d := doorToDoorDraft()
	d.ConsigneeName = ""
	d.DeliveryTruckID = 0
	d.DeliveryLat = 0
	d.DeliveryLng = 0

	errs := s.ValidateAll(d)
	require.Contains(t, errs, "consignee_name")
	require.Contains(t, errs, "delivery_truck_id")
	require.Contains(t, errs, "delivery_address")
}
