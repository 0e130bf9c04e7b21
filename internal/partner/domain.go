package partner

import "time"

// Type discriminates the two partner kinds. They live under separate API
// resources but share one shape and one management screen.
type Type string

const (
	TypeShippingLine Type = "SHIPPING_LINE"
	TypeTrucking     Type = "TRUCKING_COMPANY"
)

// Label returns the display form of the partner type.
func (t Type) Label() string {
	switch t {
	case TypeShippingLine:
		return "Shipping Line"
	case TypeTrucking:
		return "Trucking Company"
	default:
		return string(t)
	}
}

// resourcePath maps the type to its API collection path.
func (t Type) resourcePath() string {
	if t == TypeTrucking {
		return "/trucking-companies"
	}
	return "/shipping-lines"
}

// Partner is a shipping line or trucking company.
type Partner struct {
	ID            int64    `json:"id"`
	Type          Type     `json:"type"`
	Name          string   `json:"name"`
	LogoURL       string   `json:"logo_url,omitempty"`
	ContactPerson string   `json:"contact_person,omitempty"`
	Phone         string   `json:"phone,omitempty"`
	Email         string   `json:"email,omitempty"`
	Address       string   `json:"address,omitempty"`
	IsActive      bool     `json:"is_active"`
	ServiceRoutes []string `json:"serviceRoutes,omitempty"` // trucking only

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Payload creates or updates a partner. Logos travel separately as a
// multipart upload.
type Payload struct {
	Name          string   `json:"name" validate:"required"`
	ContactPerson string   `json:"contact_person,omitempty"`
	Phone         string   `json:"phone,omitempty" validate:"omitempty,e164"`
	Email         string   `json:"email,omitempty" validate:"omitempty,email"`
	Address       string   `json:"address,omitempty"`
	ServiceRoutes []string `json:"serviceRoutes,omitempty"`
}
