package finance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type memoryPort struct {
	receivables []Receivable
	payables    []Payable
	payments    []Payment
	arFetches   int
}

func (m *memoryPort) Receivables(ctx context.Context) ([]Receivable, error) {
	m.arFetches++
	out := make([]Receivable, len(m.receivables))
	copy(out, m.receivables)
	return out, nil
}

func (m *memoryPort) Payables(ctx context.Context) ([]Payable, error) {
	out := make([]Payable, len(m.payables))
	copy(out, m.payables)
	return out, nil
}

func (m *memoryPort) Payments(ctx context.Context, bookingID int64) ([]Payment, error) {
	var out []Payment
	for _, p := range m.payments {
		if p.BookingID == bookingID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memoryPort) RecordPayment(ctx context.Context, input PaymentInput) (Payment, error) {
	p := Payment{ID: int64(len(m.payments) + 1), BookingID: input.BookingID, Amount: input.Amount, Method: input.Method, PaidAt: time.Now()}
	m.payments = append(m.payments, p)
	for i := range m.receivables {
		if m.receivables[i].BookingID == input.BookingID {
			m.receivables[i].AmountPaid += input.Amount
		}
	}
	return p, nil
}

func TestOverduePredicate(t *testing.T) {
	booked := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rec := Receivable{BookingDate: booked, Terms: 30, CollectibleAmount: 1000, AmountPaid: 0}

	require.False(t, rec.Overdue(booked.AddDate(0, 0, 30)), "due date itself is not overdue")
	require.True(t, rec.Overdue(booked.AddDate(0, 0, 31)))

	rec.AmountPaid = 1000
	require.False(t, rec.Overdue(booked.AddDate(0, 1, 0)), "fully paid is never overdue")

	rec.AmountPaid = 1200
	require.False(t, rec.Overdue(booked.AddDate(1, 0, 0)), "overpaid is never overdue")
}

func TestAgingDaysAndBalance(t *testing.T) {
	booked := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rec := Receivable{BookingDate: booked, Terms: 30, CollectibleAmount: 1000, AmountPaid: 400}

	require.Equal(t, 45, rec.AgingDays(booked.AddDate(0, 0, 45)))
	require.Zero(t, rec.AgingDays(booked.AddDate(0, 0, -1)))
	require.InDelta(t, 600, rec.Balance(), 0.001)

	rec.AmountPaid = 1200
	require.Zero(t, rec.Balance())
}

func TestARAgingBuckets(t *testing.T) {
	asOf := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	day := func(pastDue int) time.Time {
		// booking_date such that asOf is pastDue days beyond booking_date+terms(0)
		return asOf.AddDate(0, 0, -pastDue)
	}
	port := &memoryPort{receivables: []Receivable{
		{BookingID: 1, BookingDate: day(0), CollectibleAmount: 100},
		{BookingID: 2, BookingDate: day(15), CollectibleAmount: 200},
		{BookingID: 3, BookingDate: day(45), CollectibleAmount: 300},
		{BookingID: 4, BookingDate: day(75), CollectibleAmount: 400},
		{BookingID: 5, BookingDate: day(200), CollectibleAmount: 500},
		{BookingID: 6, BookingDate: day(200), CollectibleAmount: 900, AmountPaid: 900},
	}}
	svc := NewService(port)
	_, err := svc.FetchReceivables(context.Background())
	require.NoError(t, err)

	bucket := svc.ARAging(asOf)
	require.InDelta(t, 100, bucket.Current, 0.001)
	require.InDelta(t, 200, bucket.Bucket30, 0.001)
	require.InDelta(t, 300, bucket.Bucket60, 0.001)
	require.InDelta(t, 400, bucket.Bucket90, 0.001)
	require.InDelta(t, 500, bucket.Bucket120, 0.001, "paid record excluded")
}

func TestRecordPaymentRefetchesAR(t *testing.T) {
	booked := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	port := &memoryPort{receivables: []Receivable{
		{BookingID: 7, BookingDate: booked, Terms: 30, CollectibleAmount: 1000},
	}}
	svc := NewService(port)
	_, err := svc.FetchReceivables(context.Background())
	require.NoError(t, err)

	_, err = svc.RecordPayment(context.Background(), PaymentInput{BookingID: 7, Amount: 1000, Method: "BANK_TRANSFER"})
	require.NoError(t, err)
	require.Equal(t, 2, port.arFetches)
	require.Empty(t, svc.OverdueReceivables(booked.AddDate(1, 0, 0)))
}

func TestPlaceholderDisplay(t *testing.T) {
	require.Equal(t, "N/A", Receivable{}.DisplayCustomer())
	require.Equal(t, "Acme Trading", Receivable{CustomerName: "Acme Trading"}.DisplayCustomer())
	require.Equal(t, "N/A", Payable{}.DisplayPartner())
}
