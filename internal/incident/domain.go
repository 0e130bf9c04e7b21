package incident

import "time"

// Kind places an incident on the sea or land leg of a shipment.
type Kind string

const (
	KindSea  Kind = "SEA"
	KindLand Kind = "LAND"
)

// Valid reports whether the kind is one of the known values.
func (k Kind) Valid() bool {
	return k == KindSea || k == KindLand
}

// Label renders the kind for listing pages.
func (k Kind) Label() string {
	switch k {
	case KindSea:
		return "Sea Incident"
	case KindLand:
		return "Land Incident"
	default:
		return string(k)
	}
}

// Kinds lists the selectable kinds in display order.
func Kinds() []Kind {
	return []Kind{KindSea, KindLand}
}

// Incident records damage, loss, or delay against a booking.
type Incident struct {
	ID          int64     `json:"id"`
	BookingID   int64     `json:"booking_id"`
	Kind        Kind      `json:"incident_type"`
	Description string    `json:"description"`
	TotalCost   float64   `json:"total_cost"`
	ImageURL    string    `json:"image_url,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Payload creates or updates an incident.
type Payload struct {
	BookingID   int64   `json:"booking_id" validate:"required,gt=0"`
	Kind        Kind    `json:"incident_type" validate:"required,oneof=SEA LAND"`
	Description string  `json:"description" validate:"required"`
	TotalCost   float64 `json:"total_cost" validate:"gte=0"`
	OccurredAt  string  `json:"occurred_at" validate:"omitempty,datetime=2006-01-02"`
}
