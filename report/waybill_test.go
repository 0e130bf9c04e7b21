package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/freightdesk/freightdesk/internal/booking"
)

func sampleBooking() booking.Booking {
	return booking.Booking{
		ID:            7,
		HWBNumber:     "HWB-000123",
		BookingNumber: "BKG-555001",
		Shipper:       booking.ContactBlock{Name: "Acme Trading", Phone: "+63 2 555 0100", Address: "Quezon City"},
		Consignee:     booking.ContactBlock{Name: "Visayas Retail", Phone: "+63 32 555 0200", Address: "Cebu City"},
		OriginPort:    "MNL",
		DestPort:      "CEB",
		ContainerType: booking.Container20FT,
		Quantity:      3,
		Commodity:     "Dry goods",
		Mode:          booking.ModeDoorToDoor,
		Status:        booking.StatusConfirmed,
		BookingDate:   time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestWaybillHTMLFillsBookingFields(t *testing.T) {
	html, err := WaybillHTML(WaybillData{
		Booking:      sampleBooking(),
		ShippingLine: "Oceanic Lines",
		Ship:         "MV Horizon",
		Collectible:  125000.50,
	})
	require.NoError(t, err)

	require.Contains(t, html, "HWB-000123")
	require.Contains(t, html, "BKG-555001")
	require.Contains(t, html, "Acme Trading")
	require.Contains(t, html, "Visayas Retail")
	require.Contains(t, html, "Door to Door (D-D)")
	require.Contains(t, html, "3 × 20FT")
	require.Contains(t, html, "Oceanic Lines")
	require.Contains(t, html, "MV Horizon")
	require.Contains(t, html, "₱125,000.50")
	require.Contains(t, html, "15 Mar 2026")
}

func TestWaybillHTMLPlaceholdersForMissingRelations(t *testing.T) {
	html, err := WaybillHTML(WaybillData{Booking: sampleBooking()})
	require.NoError(t, err)
	require.Contains(t, html, "—")
}

func TestBundleHTMLPageBreaks(t *testing.T) {
	one, err := WaybillHTML(WaybillData{Booking: sampleBooking()})
	require.NoError(t, err)
	two := sampleBooking()
	two.HWBNumber = "HWB-000124"
	second, err := WaybillHTML(WaybillData{Booking: two})
	require.NoError(t, err)

	bundle := BundleHTML([]string{one, second})
	require.Contains(t, bundle, "HWB-000123")
	require.Contains(t, bundle, "HWB-000124")
	require.Equal(t, 1, strings.Count(bundle, "page-break-after"))

	require.Equal(t, one, BundleHTML([]string{one}))
}
