package notification

import "time"

// Notification is a server-generated alert shown in the bell dropdown.
type Notification struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Link      string    `json:"link,omitempty"`
	Read      bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
