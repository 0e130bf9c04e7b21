package finance

import (
	"context"
	"sync"
	"time"
)

// Port is the API surface the service needs.
type Port interface {
	Receivables(ctx context.Context) ([]Receivable, error)
	Payables(ctx context.Context) ([]Payable, error)
	Payments(ctx context.Context, bookingID int64) ([]Payment, error)
	RecordPayment(ctx context.Context, input PaymentInput) (Payment, error)
}

// Service caches the AR/AP views and derives overdue and aging figures.
// All amounts come from the remote API; nothing financial is computed here
// beyond the derivations the screens need.
type Service struct {
	port Port

	mu          sync.RWMutex
	receivables []Receivable
	payables    []Payable
}

// NewService builds the service.
func NewService(port Port) *Service {
	return &Service{port: port}
}

// FetchReceivables refreshes and returns the AR view.
func (s *Service) FetchReceivables(ctx context.Context) ([]Receivable, error) {
	items, err := s.port.Receivables(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.receivables = items
	s.mu.Unlock()
	return items, nil
}

// FetchPayables refreshes and returns the AP view.
func (s *Service) FetchPayables(ctx context.Context) ([]Payable, error) {
	items, err := s.port.Payables(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.payables = items
	s.mu.Unlock()
	return items, nil
}

// Receivables returns the last fetched AR view.
func (s *Service) Receivables() []Receivable {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.receivables
}

// Payables returns the last fetched AP view.
func (s *Service) Payables() []Payable {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.payables
}

// OverdueReceivables filters the cached AR view to records past terms.
func (s *Service) OverdueReceivables(asOf time.Time) []Receivable {
	var out []Receivable
	for _, r := range s.Receivables() {
		if r.Overdue(asOf) {
			out = append(out, r)
		}
	}
	return out
}

// ARAging groups outstanding receivable balances by days past due.
func (s *Service) ARAging(asOf time.Time) AgingBucket {
	var bucket AgingBucket
	for _, r := range s.Receivables() {
		balance := r.Balance()
		if balance == 0 {
			continue
		}
		days := int(asOf.Sub(r.BookingDate.AddDate(0, 0, r.Terms)).Hours() / 24)
		switch {
		case days <= 0:
			bucket.Current += balance
		case days <= 30:
			bucket.Bucket30 += balance
		case days <= 60:
			bucket.Bucket60 += balance
		case days <= 90:
			bucket.Bucket90 += balance
		default:
			bucket.Bucket120 += balance
		}
	}
	return bucket
}

// PaymentsOf lists the payments recorded against a booking.
func (s *Service) PaymentsOf(ctx context.Context, bookingID int64) ([]Payment, error) {
	return s.port.Payments(ctx, bookingID)
}

// RecordPayment posts a payment and re-fetches the AR view so the paid
// amounts reflect it.
func (s *Service) RecordPayment(ctx context.Context, input PaymentInput) (Payment, error) {
	payment, err := s.port.RecordPayment(ctx, input)
	if err != nil {
		return Payment{}, err
	}
	_, _ = s.FetchReceivables(ctx)
	return payment, nil
}
