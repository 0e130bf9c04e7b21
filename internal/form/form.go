// Package form is the descriptor-driven modal form shell shared by the
// masterdata pages: a handler declares its fields once and the modal_form
// template renders the dialog with per-field error slots.
package form

// Kind selects the rendered control. Input kinds double as the HTML input
// type attribute.
type Kind string

const (
	KindText     Kind = "text"
	KindTel      Kind = "tel"
	KindEmail    Kind = "email"
	KindNumber   Kind = "number"
	KindDate     Kind = "date"
	KindFile     Kind = "file"
	KindSelect   Kind = "select"
	KindTextarea Kind = "textarea"
)

// Option is one select choice.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// Field describes one form control.
type Field struct {
	Name        string
	Label       string
	Kind        Kind
	Value       string
	Placeholder string
	Required    bool
	Accept      string // file kinds
	Min         string // number kinds
	Step        string
	Rows        int // textarea
	Options     []Option
	Error       string
}

// Hidden is a hidden input carried with the submission.
type Hidden struct {
	Name  string
	Value string
}

// Modal describes one dialog-with-form. The CSRF token is injected by the
// template at render time, not carried here.
type Modal struct {
	ID          string
	Heading     string
	Action      string
	Multipart   bool
	Hidden      []Hidden
	Fields      []Field
	SubmitLabel string
}

// ApplyErrors returns a copy of fields with messages attached by field name.
// Unmatched messages are dropped; unmatched fields keep an empty Error.
func ApplyErrors(fields []Field, errs map[string]string) []Field {
	if len(errs) == 0 {
		return fields
	}
	out := make([]Field, len(fields))
	copy(out, fields)
	for i := range out {
		if msg, ok := errs[out[i].Name]; ok {
			out[i].Error = msg
		}
	}
	return out
}

// SelectOptions builds the option list with the matching value marked
// selected.
func SelectOptions(pairs [][2]string, selected string) []Option {
	opts := make([]Option, 0, len(pairs))
	for _, p := range pairs {
		opts = append(opts, Option{Value: p[0], Label: p[1], Selected: p[0] == selected})
	}
	return opts
}
