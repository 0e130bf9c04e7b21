package containers

import "time"

// Status tracks whether a container is out with a booking or back in the yard.
type Status string

const (
	StatusInUse    Status = "IN_USE"
	StatusReturned Status = "RETURNED"
)

// Container is a physical box assigned to a booking.
type Container struct {
	ID              int64      `json:"id"`
	ContainerNumber string     `json:"container_number"`
	Size            string     `json:"size"`
	BookingID       int64      `json:"booking_id,omitempty"`
	Status          Status     `json:"status"`
	ReturnedAt      *time.Time `json:"returned_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// ReturnedOn renders the return date for listings, empty while in use.
func (c Container) ReturnedOn() string {
	if c.ReturnedAt == nil {
		return ""
	}
	return c.ReturnedAt.Format("02 Jan 2006")
}

// Payload creates or updates a container record.
type Payload struct {
	ContainerNumber string `json:"container_number" validate:"required"`
	Size            string `json:"size" validate:"required,oneof=LCL 20FT 40FT"`
	BookingID       int64  `json:"booking_id" validate:"omitempty,gt=0"`
}
