package finance

import "time"

// Placeholder renders in place of a missing relation, a deleted partner or
// booking the record still points at.
const Placeholder = "N/A"

// Receivable is a derived AR view over a booking and its payments.
type Receivable struct {
	ID                int64     `json:"id"`
	BookingID         int64     `json:"booking_id"`
	HWBNumber         string    `json:"hwb_number"`
	CustomerName      string    `json:"customer_name"`
	BookingDate       time.Time `json:"booking_date"`
	Terms             int       `json:"terms"`
	CollectibleAmount float64   `json:"collectible_amount"`
	AmountPaid        float64   `json:"amount_paid"`
}

// Overdue reports whether the receivable has passed its payment terms with
// a balance still owing. Fully paid records are never overdue.
func (r Receivable) Overdue(asOf time.Time) bool {
	due := r.BookingDate.AddDate(0, 0, r.Terms)
	return asOf.After(due) && r.CollectibleAmount > r.AmountPaid
}

// Balance is the amount still owed.
func (r Receivable) Balance() float64 {
	if b := r.CollectibleAmount - r.AmountPaid; b > 0 {
		return b
	}
	return 0
}

// AgingDays counts whole days since the booking date.
func (r Receivable) AgingDays(asOf time.Time) int {
	days := int(asOf.Sub(r.BookingDate).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// DisplayCustomer falls back to the placeholder when the customer relation
// is gone.
func (r Receivable) DisplayCustomer() string {
	if r.CustomerName == "" {
		return Placeholder
	}
	return r.CustomerName
}

// Payable is a derived AP view over a booking and its expenses.
type Payable struct {
	ID          int64     `json:"id"`
	BookingID   int64     `json:"booking_id"`
	HWBNumber   string    `json:"hwb_number"`
	PartnerName string    `json:"partner_name"`
	BookingDate time.Time `json:"booking_date"`
	Terms       int       `json:"terms"`
	TotalDue    float64   `json:"total_due"`
	AmountPaid  float64   `json:"amount_paid"`
}

// Overdue mirrors the receivable predicate on the payable side.
func (p Payable) Overdue(asOf time.Time) bool {
	due := p.BookingDate.AddDate(0, 0, p.Terms)
	return asOf.After(due) && p.TotalDue > p.AmountPaid
}

// DisplayPartner falls back to the placeholder when the partner relation
// is gone.
func (p Payable) DisplayPartner() string {
	if p.PartnerName == "" {
		return Placeholder
	}
	return p.PartnerName
}

// Payment is one recorded payment against a booking's receivable.
type Payment struct {
	ID        int64     `json:"id"`
	BookingID int64     `json:"booking_id"`
	Amount    float64   `json:"amount"`
	Method    string    `json:"method"`
	Reference string    `json:"reference,omitempty"`
	PaidAt    time.Time `json:"paid_at"`
}

// PaymentInput records a new payment.
type PaymentInput struct {
	BookingID int64   `json:"booking_id" validate:"required,gt=0"`
	Amount    float64 `json:"amount" validate:"required,gt=0"`
	Method    string  `json:"method" validate:"required"`
	Reference string  `json:"reference" validate:"omitempty"`
}

// AgingBucket summarises outstanding balances per age band.
type AgingBucket struct {
	Current   float64 `json:"current"`
	Bucket30  float64 `json:"bucket_30"`
	Bucket60  float64 `json:"bucket_60"`
	Bucket90  float64 `json:"bucket_90"`
	Bucket120 float64 `json:"bucket_120"`
}
