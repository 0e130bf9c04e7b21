package trucks

import "time"

// Truck is a vehicle operated by a trucking company.
type Truck struct {
	ID                int64     `json:"id"`
	TruckingCompanyID int64     `json:"trucking_company_id"`
	PlateNumber       string    `json:"plate_number"`
	Name              string    `json:"name"`
	Remarks           string    `json:"remarks"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Payload creates or updates a truck.
type Payload struct {
	TruckingCompanyID int64  `json:"trucking_company_id" validate:"required,gt=0"`
	PlateNumber       string `json:"plate_number" validate:"required"`
	Name              string `json:"name" validate:"required"`
	Remarks           string `json:"remarks" validate:"omitempty"`
}
