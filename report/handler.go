package report

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/freightdesk/freightdesk/internal/booking"
)

// BookingSource resolves the bookings a waybill prints.
type BookingSource interface {
	Get(ctx context.Context, id int64) (booking.Booking, error)
}

// DataResolver fills the waybill fields that live outside the booking.
type DataResolver interface {
	ShippingLineName(id int64) string
	ShipName(id int64) string
	CollectibleOf(bookingID int64) float64
}

// Exporter enqueues a bulk waybill export job.
type Exporter interface {
	EnqueueExport(ctx context.Context, bookingIDs []int64) (string, error)
	ExportResult(ctx context.Context, token string) ([]byte, bool, error)
}

// Handler manages report endpoints.
type Handler struct {
	client   *Client
	logger   *slog.Logger
	bookings BookingSource
	resolver DataResolver
	exporter Exporter
}

// NewHandler creates a report handler.
func NewHandler(client *Client, logger *slog.Logger, bookings BookingSource, resolver DataResolver, exporter Exporter) *Handler {
	return &Handler{client: client, logger: logger, bookings: bookings, resolver: resolver, exporter: exporter}
}

// MountRoutes registers report routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/ping", h.ping)
	r.Get("/waybill/{bookingID}", h.waybill)
	r.Post("/export", h.startExport)
	r.Get("/export/{token}", h.fetchExport)
}

func (h *Handler) ping(w http.ResponseWriter, r *http.Request) {
	if err := h.client.Ping(r.Context()); err != nil {
		h.logger.Warn("gotenberg ping failed", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (h *Handler) waybill(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "bookingID"), 10, 64)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	b, err := h.bookings.Get(r.Context(), id)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return
	}
	html, err := WaybillHTML(WaybillData{
		Booking:      b,
		ShippingLine: h.resolver.ShippingLineName(b.ShippingLineID),
		Ship:         h.resolver.ShipName(b.ShipID),
		Collectible:  h.resolver.CollectibleOf(b.ID),
	})
	if err != nil {
		h.logger.Error("build waybill html", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	pdf, err := h.client.RenderHTML(r.Context(), html)
	if err != nil {
		h.logger.Error("render waybill pdf", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=waybill-%s.pdf", b.HWBNumber))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

func (h *Handler) startExport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	var ids []int64
	for _, raw := range r.PostForm["booking_id"] {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		http.Error(w, "select at least one booking", http.StatusBadRequest)
		return
	}
	token, err := h.exporter.EnqueueExport(r.Context(), ids)
	if err != nil {
		h.logger.Error("enqueue export", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_, _ = w.Write([]byte(fmt.Sprintf(`{"token":%q}`, token)))
}

func (h *Handler) fetchExport(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	pdf, ready, err := h.exporter.ExportResult(r.Context(), token)
	if err != nil {
		h.logger.Error("fetch export", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if !ready {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"status":"pending"}`))
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=waybills.pdf")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
