package wizard

import (
	"fmt"

	"github.com/freightdesk/freightdesk/internal/booking"
)

// Row is one label/value pair on the read-only review step.
type Row struct {
	Label string
	Value string
}

// Resolver turns selected IDs into display names. Lookups that fail return
// empty strings and the review falls back to a placeholder rather than
// failing the render.
type Resolver struct {
	ShippingLine func(id int64) string
	Ship         func(id int64) string
	Trucker      func(id int64) string
	Truck        func(id int64) string
}

const placeholder = "—"

// ReviewRows renders the accumulated draft with human-readable labels for
// every enumerated value: "3 × 20FT", "Door to Door (D-D)", port names and
// resolved partner/truck names.
func ReviewRows(d *Draft, res Resolver) []Row {
	rows := []Row{
		{Label: "HWB Number", Value: orPlaceholder(d.HWBNumber)},
		{Label: "Booking Number", Value: orPlaceholder(d.BookingNumber)},
		{Label: "Shipper", Value: orPlaceholder(d.ShipperName)},
		{Label: "Shipper Contact", Value: orPlaceholder(d.ShipperPhone)},
		{Label: "Consignee", Value: orPlaceholder(d.ConsigneeName)},
		{Label: "Consignee Contact", Value: orPlaceholder(d.ConsigneePhone)},
		{Label: "Shipping Line", Value: resolve(res.ShippingLine, d.ShippingLineID)},
		{Label: "Ship", Value: resolve(res.Ship, d.ShipID)},
		{Label: "Origin Port", Value: orPlaceholder(booking.PortLabel(d.OriginPort))},
		{Label: "Destination Port", Value: orPlaceholder(booking.PortLabel(d.DestPort))},
		{Label: "Cargo", Value: cargoSummary(d)},
		{Label: "Commodity", Value: orPlaceholder(d.Commodity)},
		{Label: "Mode", Value: orPlaceholder(d.Mode.Label())},
	}

	if !d.SkipTrucking {
		rows = append(rows,
			Row{Label: "Pickup Trucking", Value: resolve(res.Trucker, d.PickupTruckerID)},
			Row{Label: "Pickup Truck", Value: resolve(res.Truck, d.PickupTruckID)},
			Row{Label: "Delivery Trucking", Value: resolve(res.Trucker, d.DeliveryTruckerID)},
			Row{Label: "Delivery Truck", Value: resolve(res.Truck, d.DeliveryTruckID)},
		)
	}

	if d.Mode.NeedsPickupAddress() {
		rows = append(rows, Row{Label: "Pickup Address", Value: orPlaceholder(d.PickupAddress)})
	}
	if d.Mode.NeedsDeliveryAddress() {
		rows = append(rows, Row{Label: "Delivery Address", Value: orPlaceholder(d.DeliveryAddress)})
	}

	if d.BookingDate != "" {
		rows = append(rows, Row{Label: "Booking Date", Value: d.BookingDate})
	}
	return rows
}

func cargoSummary(d *Draft) string {
	if d.Quantity <= 0 || d.ContainerType == "" {
		return placeholder
	}
	return fmt.Sprintf("%d × %s", d.Quantity, d.ContainerType)
}

func resolve(fn func(int64) string, id int64) string {
	if fn == nil || id <= 0 {
		return placeholder
	}
	if name := fn(id); name != "" {
		return name
	}
	return placeholder
}

func orPlaceholder(v string) string {
	if v == "" {
		return placeholder
	}
	return v
}
