package wizard

import (
	"time"

	"github.com/freightdesk/freightdesk/internal/booking"
)

// BuildPayload assembles the single outbound create request from the
// accumulated draft. The SkipTrucking navigation flag has no counterpart in
// the request type and so can never be serialized. Trucking fields are
// dropped for modes that skip trucking, and port coordinates stand in for
// door coordinates on non-door sides.
func BuildPayload(d *Draft) booking.CreateRequest {
	req := booking.CreateRequest{
		HWBNumber:     d.HWBNumber,
		BookingNumber: d.BookingNumber,
		Shipper: booking.ContactBlock{
			Name:  d.ShipperName,
			Phone: d.ShipperPhone,
		},
		Consignee: booking.ContactBlock{
			Name:  d.ConsigneeName,
			Phone: d.ConsigneePhone,
		},
		ShippingLineID: d.ShippingLineID,
		ShipID:         d.ShipID,
		OriginPort:     d.OriginPort,
		DestPort:       d.DestPort,
		ContainerType:  d.ContainerType,
		Quantity:       d.Quantity,
		Commodity:      d.Commodity,
		Mode:           d.Mode,
		BookingDate:    normalizeDate(d.BookingDate),
	}

	if !d.SkipTrucking {
		req.PickupTruckerID = d.PickupTruckerID
		req.PickupTruckID = d.PickupTruckID
		req.DeliveryTruckerID = d.DeliveryTruckerID
		req.DeliveryTruckID = d.DeliveryTruckID
	}

	if d.Mode.NeedsPickupAddress() {
		req.PickupAddress = d.PickupAddress
		req.PickupLat = d.PickupLat
		req.PickupLng = d.PickupLng
	} else if port, ok := booking.PortByCode(d.OriginPort); ok {
		req.PickupLat = port.Lat
		req.PickupLng = port.Lng
	}

	if d.Mode.NeedsDeliveryAddress() {
		req.DeliveryAddress = d.DeliveryAddress
		req.DeliveryLat = d.DeliveryLat
		req.DeliveryLng = d.DeliveryLng
	} else if port, ok := booking.PortByCode(d.DestPort); ok {
		req.DeliveryLat = port.Lat
		req.DeliveryLng = port.Lng
	}

	return req
}

func normalizeDate(raw string) string {
	if raw == "" {
		return ""
	}
	if _, err := time.Parse("2006-01-02", raw); err != nil {
		return ""
	}
	return raw
}
