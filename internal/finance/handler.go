package finance

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/freightdesk/freightdesk/internal/shared"
	"github.com/freightdesk/freightdesk/internal/table"
	"github.com/freightdesk/freightdesk/internal/view"
)

// Handler serves the accounts receivable and accounts payable pages.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	templates *view.Engine
	csrf      *shared.CSRFManager
	validator *validator.Validate
	now       func() time.Time
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		templates: templates,
		csrf:      csrf,
		validator: validator.New(),
		now:       time.Now,
	}
}

// MountRoutes registers finance routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/accounts-receivable", h.receivables)
	r.Get("/accounts-payable", h.payables)
	r.Get("/payments/{bookingID}", h.payments)
	r.Post("/payments", h.recordPayment)
}

// arRow pairs a receivable with its render-time derivations so the template
// stays declarative.
type arRow struct {
	Receivable
	Overdue   bool
	Balance   float64
	AgingDays int
	Customer  string
}

type arPageData struct {
	Rows    table.Page[arRow]
	State   table.State
	Aging   AgingBucket
	Overdue int
	AsOf    time.Time
}

func arColumns() []table.Column[arRow] {
	return []table.Column[arRow]{
		{Key: "hwb", Label: "HWB #", Value: func(r arRow) string { return r.HWBNumber }},
		{Key: "customer", Label: "Customer", Value: func(r arRow) string { return r.Customer }},
		{Key: "date", Label: "Booking Date", Value: func(r arRow) string { return r.BookingDate.Format("02 Jan 2006") }},
		{Key: "terms", Label: "Terms", Value: func(r arRow) string { return strconv.Itoa(r.Terms) + " days" }},
		{Key: "collectible", Label: "Collectible", Value: func(r arRow) string {
			return strconv.FormatFloat(r.CollectibleAmount, 'f', 2, 64)
		}},
		{Key: "paid", Label: "Paid", Value: func(r arRow) string {
			return strconv.FormatFloat(r.AmountPaid, 'f', 2, 64)
		}},
		{Key: "balance", Label: "Balance", Value: func(r arRow) string {
			return strconv.FormatFloat(r.Balance, 'f', 2, 64)
		}},
		{Key: "aging", Label: "Aging", Value: func(r arRow) string { return strconv.Itoa(r.AgingDays) + " days" }},
	}
}

func (h *Handler) receivables(w http.ResponseWriter, r *http.Request) {
	state := table.StateFromQuery(r)
	asOf := h.now()

	items, err := h.service.FetchReceivables(r.Context())
	if err != nil {
		h.logger.Warn("fetch receivables", slog.Any("error", err))
		items = h.service.Receivables()
	}

	rows := make([]arRow, 0, len(items))
	overdue := 0
	for _, item := range items {
		row := arRow{
			Receivable: item,
			Overdue:    item.Overdue(asOf),
			Balance:    item.Balance(),
			AgingDays:  item.AgingDays(asOf),
			Customer:   item.DisplayCustomer(),
		}
		if row.Overdue {
			overdue++
		}
		rows = append(rows, row)
	}

	data := arPageData{
		Rows:    table.Apply(rows, arColumns(), state),
		State:   state,
		Aging:   h.service.ARAging(asOf),
		Overdue: overdue,
		AsOf:    asOf,
	}
	h.render(w, r, "pages/accounts_receivable.html", "Accounts Receivable", data)
}

type apRow struct {
	Payable
	Overdue bool
	Partner string
}

type apPageData struct {
	Rows  table.Page[apRow]
	State table.State
	AsOf  time.Time
}

func apColumns() []table.Column[apRow] {
	return []table.Column[apRow]{
		{Key: "hwb", Label: "HWB #", Value: func(r apRow) string { return r.HWBNumber }},
		{Key: "partner", Label: "Partner", Value: func(r apRow) string { return r.Partner }},
		{Key: "date", Label: "Booking Date", Value: func(r apRow) string { return r.BookingDate.Format("02 Jan 2006") }},
		{Key: "terms", Label: "Terms", Value: func(r apRow) string { return strconv.Itoa(r.Terms) + " days" }},
		{Key: "due", Label: "Total Due", Value: func(r apRow) string {
			return strconv.FormatFloat(r.TotalDue, 'f', 2, 64)
		}},
		{Key: "paid", Label: "Paid", Value: func(r apRow) string {
			return strconv.FormatFloat(r.AmountPaid, 'f', 2, 64)
		}},
	}
}

func (h *Handler) payables(w http.ResponseWriter, r *http.Request) {
	state := table.StateFromQuery(r)
	asOf := h.now()

	items, err := h.service.FetchPayables(r.Context())
	if err != nil {
		h.logger.Warn("fetch payables", slog.Any("error", err))
		items = h.service.Payables()
	}

	rows := make([]apRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, apRow{Payable: item, Overdue: item.Overdue(asOf), Partner: item.DisplayPartner()})
	}

	data := apPageData{Rows: table.Apply(rows, apColumns(), state), State: state, AsOf: asOf}
	h.render(w, r, "pages/accounts_payable.html", "Accounts Payable", data)
}

type paymentsPageData struct {
	BookingID int64
	Payments  []Payment
}

func (h *Handler) payments(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.ParseInt(chi.URLParam(r, "bookingID"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	payments, err := h.service.PaymentsOf(r.Context(), bookingID)
	if err != nil {
		h.logger.Warn("fetch payments", slog.Int64("booking_id", bookingID), slog.Any("error", err))
		h.redirectWithFlash(w, r, "/finance/accounts-receivable", "error", shared.UserSafeMessage(err))
		return
	}
	data := paymentsPageData{BookingID: bookingID, Payments: payments}
	h.render(w, r, "pages/payments.html", "Payments", data)
}

func (h *Handler) recordPayment(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	amount, _ := strconv.ParseFloat(r.PostFormValue("amount"), 64)
	input := PaymentInput{
		BookingID: parseID(r.PostFormValue("booking_id")),
		Amount:    amount,
		Method:    r.PostFormValue("method"),
		Reference: r.PostFormValue("reference"),
	}
	if err := h.validator.Struct(input); err != nil {
		h.redirectWithFlash(w, r, "/finance/accounts-receivable", "error", "Check the payment details and try again")
		return
	}
	if _, err := h.service.RecordPayment(r.Context(), input); err != nil {
		h.redirectWithFlash(w, r, "/finance/accounts-receivable", "error", shared.UserSafeMessage(err))
		return
	}
	h.redirectWithFlash(w, r, "/finance/accounts-receivable", "success", "Payment recorded")
}

func parseID(raw string) int64 {
	id, _ := strconv.ParseInt(raw, 10, 64)
	return id
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, tpl, title string, data any) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrf.EnsureToken(r.Context(), sess)
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       title,
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Data:        data,
	}
	if err := h.templates.Render(w, tpl, viewData); err != nil {
		h.logger.Error("render template", slog.Any("error", err), slog.String("template", tpl))
	}
}

func (h *Handler) redirectWithFlash(w http.ResponseWriter, r *http.Request, location, kind, message string) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.AddFlash(shared.FlashMessage{Kind: kind, Message: message})
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}
