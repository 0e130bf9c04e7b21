package ships

import "time"

// Ship is a vessel operated by a shipping line.
type Ship struct {
	ID             int64     `json:"id"`
	ShippingLineID int64     `json:"shipping_line_id"`
	Name           string    `json:"name"`
	VesselNumber   string    `json:"vessel_number"`
	CapacityTEU    int       `json:"capacity_teu"`
	IMONumber      string    `json:"imo_number"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Payload creates or updates a ship.
type Payload struct {
	ShippingLineID int64  `json:"shipping_line_id" validate:"required,gt=0"`
	Name           string `json:"name" validate:"required"`
	VesselNumber   string `json:"vessel_number" validate:"required"`
	CapacityTEU    int    `json:"capacity_teu" validate:"required,gt=0"`
	IMONumber      string `json:"imo_number" validate:"omitempty,len=7,numeric"`
}
