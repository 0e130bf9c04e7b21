package booking

// CreateRequest is the payload for creating a booking. The wizard assembles
// it at submission; it deliberately has no field for the derived
// skip-trucking flag, so the flag cannot reach the wire.
type CreateRequest struct {
	HWBNumber     string `json:"hwb_number,omitempty"`
	BookingNumber string `json:"booking_number,omitempty"`

	Shipper   ContactBlock `json:"shipper"`
	Consignee ContactBlock `json:"consignee"`

	ShippingLineID int64  `json:"shipping_line_id"`
	ShipID         int64  `json:"ship_id"`
	OriginPort     string `json:"origin_port"`
	DestPort       string `json:"destination_port"`

	ContainerType ContainerType `json:"container_type"`
	Quantity      int           `json:"quantity"`
	Commodity     string        `json:"commodity"`
	Mode          Mode          `json:"booking_mode"`

	PickupTruckerID   int64 `json:"pickup_trucker_id,omitempty"`
	PickupTruckID     int64 `json:"pickup_truck_id,omitempty"`
	DeliveryTruckerID int64 `json:"delivery_trucker_id,omitempty"`
	DeliveryTruckID   int64 `json:"delivery_truck_id,omitempty"`

	PickupAddress   string  `json:"pickup_address,omitempty"`
	PickupLat       float64 `json:"pickup_lat,omitempty"`
	PickupLng       float64 `json:"pickup_lng,omitempty"`
	DeliveryAddress string  `json:"delivery_address,omitempty"`
	DeliveryLat     float64 `json:"delivery_lat,omitempty"`
	DeliveryLng     float64 `json:"delivery_lng,omitempty"`

	BookingDate string `json:"booking_date,omitempty"`
}

// StatusUpdateRequest moves a booking one step along its linear lifecycle.
type StatusUpdateRequest struct {
	Status Status `json:"status"`
}

// MilestoneRequest appends a fine-grained status history entry.
type MilestoneRequest struct {
	Milestone Milestone `json:"milestone"`
	Note      string    `json:"note,omitempty"`
}
