package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/freightdesk/freightdesk/internal/booking"
)

// Draft is the accumulated wizard state across all five steps. One struct
// covers the union of step fields with step-scoped optionality; the schema
// decides which fields matter when.
//
// SkipTrucking is derived from the mode and exists only to drive navigation
// and conditional requirements. It is stored with the draft between requests
// but is never part of the submission payload.
type Draft struct {
	Step Step `json:"step"`

	HWBNumber     string `json:"hwb_number"`
	BookingNumber string `json:"booking_number"`
	BookingDate   string `json:"booking_date"`

	ShipperName    string `json:"shipper_name" validate:"required"`
	ShipperPhone   string `json:"shipper_phone" validate:"required,e164"`
	ConsigneeName  string `json:"consignee_name" validate:"required"`
	ConsigneePhone string `json:"consignee_phone" validate:"required,e164"`

	ShippingLineID int64                 `json:"shipping_line_id" validate:"required,gt=0"`
	ShipID         int64                 `json:"ship_id" validate:"required,gt=0"`
	OriginPort     string                `json:"origin_port" validate:"required"`
	DestPort       string                `json:"destination_port" validate:"required"`
	ContainerType  booking.ContainerType `json:"container_type" validate:"required,oneof=LCL 20FT 40FT"`
	Quantity       int                   `json:"quantity" validate:"required,min=1"`
	Commodity      string                `json:"commodity" validate:"required"`
	Mode           booking.Mode          `json:"booking_mode" validate:"required,oneof=DOOR_TO_DOOR PIER_TO_PIER CY_TO_DOOR DOOR_TO_CY CY_TO_CY"`

	SkipTrucking bool `json:"skip_trucking"`

	PickupTruckerID   int64 `json:"pickup_trucker_id"`
	PickupTruckID     int64 `json:"pickup_truck_id"`
	DeliveryTruckerID int64 `json:"delivery_trucker_id"`
	DeliveryTruckID   int64 `json:"delivery_truck_id"`

	PickupAddress   string  `json:"pickup_address"`
	PickupLat       float64 `json:"pickup_lat"`
	PickupLng       float64 `json:"pickup_lng"`
	DeliveryAddress string  `json:"delivery_address"`
	DeliveryLat     float64 `json:"delivery_lat"`
	DeliveryLng     float64 `json:"delivery_lng"`
}

// SetMode records the service mode and maintains the derived SkipTrucking
// flag. Leaving Pier to Pier clears the flag so trucking becomes required
// again.
func (d *Draft) SetMode(m booking.Mode) {
	d.Mode = m
	d.SkipTrucking = m.SkipsTrucking()
}

// SetShippingLine records the carrier and clears any previously selected
// ship: ships are scoped to a shipping line, so a stale selection would be
// invalid.
func (d *Draft) SetShippingLine(id int64) {
	if id != d.ShippingLineID {
		d.ShipID = 0
	}
	d.ShippingLineID = id
}

// Advance moves the draft to the next step under its current mode.
func (d *Draft) Advance() {
	d.Step = Next(d.Step, d.Mode)
}

// Back moves the draft to the previous step under its current mode.
func (d *Draft) Back() {
	d.Step = Prev(d.Step, d.Mode)
}

// hwbCounterKey backs the client-suggested HWB sequence. The server remains
// authoritative; collisions are resolved by accepting whatever the create
// response returns.
const hwbCounterKey = "wizard:hwb_seq"

// DraftStore keeps one draft per session in Redis so the wizard survives
// page loads.
type DraftStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDraftStore constructs a DraftStore.
func NewDraftStore(client *redis.Client, ttl time.Duration) *DraftStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &DraftStore{client: client, ttl: ttl}
}

// Load returns the session's draft, creating a fresh one with suggested
// numbers when none exists.
func (ds *DraftStore) Load(ctx context.Context, sessionID string) (*Draft, error) {
	data, err := ds.client.Get(ctx, ds.key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ds.fresh(ctx)
		}
		return nil, fmt.Errorf("wizard: load draft: %w", err)
	}
	var draft Draft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("wizard: decode draft: %w", err)
	}
	if draft.Step < FirstStep || draft.Step > StepReview {
		draft.Step = FirstStep
	}
	return &draft, nil
}

// Save persists the draft for its session.
func (ds *DraftStore) Save(ctx context.Context, sessionID string, draft *Draft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("wizard: encode draft: %w", err)
	}
	if err := ds.client.Set(ctx, ds.key(sessionID), data, ds.ttl).Err(); err != nil {
		return fmt.Errorf("wizard: save draft: %w", err)
	}
	return nil
}

// Reset discards the session's draft; the next Load starts over at step 1
// with fresh suggested numbers.
func (ds *DraftStore) Reset(ctx context.Context, sessionID string) error {
	if err := ds.client.Del(ctx, ds.key(sessionID)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("wizard: reset draft: %w", err)
	}
	return nil
}

func (ds *DraftStore) fresh(ctx context.Context) (*Draft, error) {
	draft := &Draft{Step: FirstStep, Quantity: 1}

	seq, err := ds.client.Incr(ctx, hwbCounterKey).Result()
	if err != nil {
		// Suggestions are advisory; fall back to a non-sequential value.
		seq = int64(time.Now().Unix() % 1_000_000)
	}
	draft.HWBNumber = fmt.Sprintf("HWB-%06d", seq)
	draft.BookingNumber = SuggestBookingNumber()
	return draft, nil
}

func (ds *DraftStore) key(sessionID string) string {
	return "wizard:draft:" + sessionID
}

// SuggestBookingNumber produces the advisory "BKG-" prefixed digit string
// pre-filled when the wizard opens.
func SuggestBookingNumber() string {
	id := uuid.New()
	var digits [6]byte
	for i := range digits {
		digits[i] = '0' + id[i]%10
	}
	return "BKG-" + string(digits[:])
}
