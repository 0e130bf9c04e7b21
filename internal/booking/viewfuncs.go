package booking

import "html/template"

// TemplateFuncs exposes the booking label helpers to the template engine.
// The engine takes them as opaque functions so it never depends on the
// domain types.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"bookingModeLabel":   func(m Mode) string { return m.Label() },
		"containerTypeLabel": func(ct ContainerType) string { return ct.Label() },
		"statusBadge":        StatusBadge,
		"portLabel":          PortLabel,
	}
}

// StatusBadge maps a booking status to the badge class the tables use.
func StatusBadge(status Status) string {
	switch status {
	case StatusPending:
		return "badge-warning"
	case StatusConfirmed:
		return "badge-info"
	case StatusInTransit:
		return "badge-primary"
	case StatusArrived, StatusDelivered:
		return "badge-success"
	case StatusCompleted:
		return "badge-neutral"
	default:
		return "badge-ghost"
	}
}
