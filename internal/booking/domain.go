package booking

import (
	"fmt"
	"time"
)

// ContainerType enumerates cargo container sizes.
type ContainerType string

const (
	ContainerLCL  ContainerType = "LCL"
	Container20FT ContainerType = "20FT"
	Container40FT ContainerType = "40FT"
)

// Label returns the human-readable container type.
func (c ContainerType) Label() string {
	switch c {
	case ContainerLCL:
		return "LCL (Less-than-Container Load)"
	case Container20FT:
		return "20FT"
	case Container40FT:
		return "40FT"
	default:
		return string(c)
	}
}

// Valid reports whether the container type is one of the known sizes.
func (c ContainerType) Valid() bool {
	switch c {
	case ContainerLCL, Container20FT, Container40FT:
		return true
	}
	return false
}

// ContainerTypes lists the selectable sizes in display order.
func ContainerTypes() []ContainerType {
	return []ContainerType{ContainerLCL, Container20FT, Container40FT}
}

// Mode enumerates the booking service modes.
type Mode string

const (
	ModeDoorToDoor Mode = "DOOR_TO_DOOR"
	ModePierToPier Mode = "PIER_TO_PIER"
	ModeCYToDoor   Mode = "CY_TO_DOOR"
	ModeDoorToCY   Mode = "DOOR_TO_CY"
	ModeCYToCY     Mode = "CY_TO_CY"
)

// Label returns the human-readable mode name shown on review and listing
// pages, e.g. "Door to Door (D-D)".
func (m Mode) Label() string {
	switch m {
	case ModeDoorToDoor:
		return "Door to Door (D-D)"
	case ModePierToPier:
		return "Pier to Pier (P-P)"
	case ModeCYToDoor:
		return "CY to Door (CY-D)"
	case ModeDoorToCY:
		return "Door to CY (D-CY)"
	case ModeCYToCY:
		return "CY to CY (CY-CY)"
	default:
		return string(m)
	}
}

// SkipsTrucking reports whether the mode has no trucking legs at all.
// Pier to Pier is port-to-port only; every other mode involves at least one
// trucking assignment.
func (m Mode) SkipsTrucking() bool {
	return m == ModePierToPier
}

// NeedsPickupAddress reports whether the origin side is a door.
func (m Mode) NeedsPickupAddress() bool {
	return m == ModeDoorToDoor || m == ModeDoorToCY
}

// NeedsDeliveryAddress reports whether the destination side is a door.
func (m Mode) NeedsDeliveryAddress() bool {
	return m == ModeDoorToDoor || m == ModeCYToDoor
}

// Valid reports whether the mode is one of the known service modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeDoorToDoor, ModePierToPier, ModeCYToDoor, ModeDoorToCY, ModeCYToCY:
		return true
	}
	return false
}

// Modes lists selectable modes in display order.
func Modes() []Mode {
	return []Mode{ModeDoorToDoor, ModePierToPier, ModeCYToDoor, ModeDoorToCY, ModeCYToCY}
}

// Status is the coarse booking lifecycle, a strictly linear progression.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusInTransit Status = "IN_TRANSIT"
	StatusArrived   Status = "ARRIVED"
	StatusDelivered Status = "DELIVERED"
	StatusCompleted Status = "COMPLETED"
)

var statusOrder = []Status{
	StatusPending,
	StatusConfirmed,
	StatusInTransit,
	StatusArrived,
	StatusDelivered,
	StatusCompleted,
}

// Label returns the display form of the status.
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusConfirmed:
		return "Confirmed"
	case StatusInTransit:
		return "In Transit"
	case StatusArrived:
		return "Arrived"
	case StatusDelivered:
		return "Delivered"
	case StatusCompleted:
		return "Completed"
	default:
		return string(s)
	}
}

// Next returns the status that follows s, or an error when s is terminal or
// unknown. The progression never skips and never goes back.
func (s Status) Next() (Status, error) {
	for i, cur := range statusOrder {
		if cur != s {
			continue
		}
		if i == len(statusOrder)-1 {
			return "", fmt.Errorf("booking: status %s is terminal", s)
		}
		return statusOrder[i+1], nil
	}
	return "", fmt.Errorf("booking: unknown status %q", s)
}

// Milestone is a fine-grained operational event recorded in status history.
type Milestone string

const (
	MilestoneLoadedToTruck   Milestone = "LOADED_TO_TRUCK"
	MilestoneArrivedOrigin   Milestone = "ARRIVED_ORIGIN_PORT"
	MilestoneLoadedToShip    Milestone = "LOADED_TO_SHIP"
	MilestoneInTransit       Milestone = "IN_TRANSIT"
	MilestoneArrivedDest     Milestone = "ARRIVED_DESTINATION_PORT"
	MilestoneOutForDelivery  Milestone = "OUT_FOR_DELIVERY"
	MilestoneDelivered       Milestone = "DELIVERED"
)

// Label returns the display form of the milestone.
func (m Milestone) Label() string {
	switch m {
	case MilestoneLoadedToTruck:
		return "Loaded to Truck"
	case MilestoneArrivedOrigin:
		return "Arrived at Origin Port"
	case MilestoneLoadedToShip:
		return "Loaded to Ship"
	case MilestoneInTransit:
		return "In Transit"
	case MilestoneArrivedDest:
		return "Arrived at Destination Port"
	case MilestoneOutForDelivery:
		return "Out for Delivery"
	case MilestoneDelivered:
		return "Delivered"
	default:
		return string(m)
	}
}

// Valid reports whether the milestone is one of the known operational events.
func (m Milestone) Valid() bool {
	switch m {
	case MilestoneLoadedToTruck, MilestoneArrivedOrigin, MilestoneLoadedToShip,
		MilestoneInTransit, MilestoneArrivedDest, MilestoneOutForDelivery, MilestoneDelivered:
		return true
	}
	return false
}

// Milestones lists the operational events in journey order.
func Milestones() []Milestone {
	return []Milestone{
		MilestoneLoadedToTruck,
		MilestoneArrivedOrigin,
		MilestoneLoadedToShip,
		MilestoneInTransit,
		MilestoneArrivedDest,
		MilestoneOutForDelivery,
		MilestoneDelivered,
	}
}

// StatusEvent is one entry of a booking's status history.
type StatusEvent struct {
	Milestone Milestone `json:"milestone"`
	Note      string    `json:"note,omitempty"`
	At        time.Time `json:"at"`
}

// ContactBlock holds shipper or consignee identity and contact details.
type ContactBlock struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
}

// Booking is the working copy of a booking as transported to and from the
// freight API. The API remains authoritative for every field, including the
// hwb and booking numbers the wizard merely suggests.
type Booking struct {
	ID            int64  `json:"id"`
	HWBNumber     string `json:"hwb_number"`
	BookingNumber string `json:"booking_number"`

	Shipper   ContactBlock `json:"shipper"`
	Consignee ContactBlock `json:"consignee"`

	ShippingLineID int64  `json:"shipping_line_id"`
	ShipID         int64  `json:"ship_id"`
	OriginPort     string `json:"origin_port"`
	DestPort       string `json:"destination_port"`

	PickupLat   float64 `json:"pickup_lat,omitempty"`
	PickupLng   float64 `json:"pickup_lng,omitempty"`
	DeliveryLat float64 `json:"delivery_lat,omitempty"`
	DeliveryLng float64 `json:"delivery_lng,omitempty"`

	ContainerType ContainerType `json:"container_type"`
	Quantity      int           `json:"quantity"`
	Commodity     string        `json:"commodity"`
	Mode          Mode          `json:"booking_mode"`

	// Trucking assignment; zero values mean unassigned, which is only legal
	// for Pier to Pier bookings.
	PickupTruckerID   int64 `json:"pickup_trucker_id,omitempty"`
	PickupTruckID     int64 `json:"pickup_truck_id,omitempty"`
	DeliveryTruckerID int64 `json:"delivery_trucker_id,omitempty"`
	DeliveryTruckID   int64 `json:"delivery_truck_id,omitempty"`

	Status        Status        `json:"status"`
	StatusHistory []StatusEvent `json:"status_history,omitempty"`

	BookingDate time.Time `json:"booking_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SkipsTrucking mirrors the mode-derived flag; it is never serialized.
func (b Booking) SkipsTrucking() bool {
	return b.Mode.SkipsTrucking()
}

// CargoSummary renders the quantity and container type the way listing and
// review pages show them, e.g. "3 × 20FT".
func (b Booking) CargoSummary() string {
	return fmt.Sprintf("%d × %s", b.Quantity, b.ContainerType)
}
