package report

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/freightdesk/freightdesk/internal/booking"
)

// WaybillData is everything the printed waybill shows. Party and fleet names
// arrive pre-resolved; the template never reaches back into the stores.
type WaybillData struct {
	Booking      booking.Booking
	ShippingLine string
	Ship         string
	Collectible  float64
}

var waybillPrinter = message.NewPrinter(language.English)

var waybillTemplate = template.Must(template.New("waybill").Funcs(template.FuncMap{
	"currency": func(amount float64) string {
		return waybillPrinter.Sprintf("₱%.2f", amount)
	},
	"formatDate": func(t time.Time) string {
		if t.IsZero() {
			return "—"
		}
		return t.Format("02 Jan 2006")
	},
}).Parse(`<html>
<head>
<title>House Waybill {{.Booking.HWBNumber}}</title>
<style>
body { font-family: Helvetica, Arial, sans-serif; font-size: 12px; margin: 32px; }
h1 { font-size: 18px; border-bottom: 2px solid #000; padding-bottom: 8px; }
table { width: 100%; border-collapse: collapse; margin-top: 12px; }
td, th { border: 1px solid #444; padding: 6px 8px; text-align: left; vertical-align: top; }
.section { margin-top: 16px; font-weight: bold; }
</style>
</head>
<body>
<h1>House Waybill {{.Booking.HWBNumber}}</h1>
<table>
<tr><th>Booking Number</th><td>{{.Booking.BookingNumber}}</td><th>Booking Date</th><td>{{formatDate .Booking.BookingDate}}</td></tr>
<tr><th>Mode</th><td>{{.Booking.Mode.Label}}</td><th>Status</th><td>{{.Booking.Status}}</td></tr>
</table>
<div class="section">Parties</div>
<table>
<tr><th>Shipper</th><td>{{.Booking.Shipper.Name}}<br>{{.Booking.Shipper.Address}}<br>{{.Booking.Shipper.Phone}}</td>
<th>Consignee</th><td>{{.Booking.Consignee.Name}}<br>{{.Booking.Consignee.Address}}<br>{{.Booking.Consignee.Phone}}</td></tr>
</table>
<div class="section">Routing</div>
<table>
<tr><th>Origin Port</th><td>{{.Booking.OriginPort}}</td><th>Destination Port</th><td>{{.Booking.DestPort}}</td></tr>
<tr><th>Shipping Line</th><td>{{if .ShippingLine}}{{.ShippingLine}}{{else}}—{{end}}</td><th>Vessel</th><td>{{if .Ship}}{{.Ship}}{{else}}—{{end}}</td></tr>
</table>
<div class="section">Cargo</div>
<table>
<tr><th>Description</th><td>{{.Booking.Commodity}}</td><th>Containers</th><td>{{.Booking.CargoSummary}}</td></tr>
<tr><th>Collectible Amount</th><td colspan="3">{{currency .Collectible}}</td></tr>
</table>
</body>
</html>`))

// WaybillHTML fills the waybill template for one booking.
func WaybillHTML(data WaybillData) (string, error) {
	var buf bytes.Buffer
	if err := waybillTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("report: waybill template: %w", err)
	}
	return buf.String(), nil
}

// BundleHTML joins waybill pages into one document with a page break between
// each, so a bulk export renders as a single multi-page PDF.
func BundleHTML(pages []string) string {
	if len(pages) == 1 {
		return pages[0]
	}
	var parts []string
	for _, page := range pages {
		body := page
		if start := strings.Index(page, "<body>"); start >= 0 {
			if end := strings.LastIndex(page, "</body>"); end > start {
				body = page[start+len("<body>") : end]
			}
		}
		parts = append(parts, body)
	}
	return "<html><body>" + strings.Join(parts, `<div style="page-break-after: always;"></div>`) + "</body></html>"
}
