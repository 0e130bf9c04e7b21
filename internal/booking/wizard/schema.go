package wizard

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/freightdesk/freightdesk/internal/booking"
)

// Schema holds the declarative validation rules for the union of all wizard
// fields. Rules run in "live" mode on every field change and again in full
// at submission. Navigation is deliberately not gated on validity; only
// submission is.
type Schema struct {
	validate *validator.Validate
}

// NewSchema builds the schema with error keys matching the draft's json
// field names.
func NewSchema() *Schema {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Schema{validate: v}
}

// structFieldsByStep lists the statically tagged fields each step owns.
// Trucking and location requirements depend on the mode and are enforced by
// conditionalErrors instead of tags.
var structFieldsByStep = map[Step][]string{
	StepParties: {"ShipperName", "ShipperPhone", "ConsigneeName", "ConsigneePhone"},
	StepRouting: {"ShippingLineID", "ShipID", "OriginPort", "DestPort", "ContainerType", "Quantity", "Commodity", "Mode"},
}

var structFieldByJSON = map[string]string{
	"shipper_name":     "ShipperName",
	"shipper_phone":    "ShipperPhone",
	"consignee_name":   "ConsigneeName",
	"consignee_phone":  "ConsigneePhone",
	"shipping_line_id": "ShippingLineID",
	"ship_id":          "ShipID",
	"origin_port":      "OriginPort",
	"destination_port": "DestPort",
	"container_type":   "ContainerType",
	"quantity":         "Quantity",
	"commodity":        "Commodity",
	"booking_mode":     "Mode",
}

// ValidateField checks a single field, as the live mode does on every
// change. Returns an empty string when the field is valid or carries no
// static rule.
func (s *Schema) ValidateField(d *Draft, jsonName string) string {
	structName, ok := structFieldByJSON[jsonName]
	if !ok {
		return ""
	}
	err := s.validate.StructPartial(d, structName)
	if err == nil {
		return ""
	}
	for _, fieldErr := range err.(validator.ValidationErrors) {
		if fieldErr.Field() == jsonName {
			return messageFor(fieldErr)
		}
	}
	return ""
}

// ValidateStep checks only the fields the given step owns, including the
// mode-conditional ones. Used to report per-step validity without blocking
// Next.
func (s *Schema) ValidateStep(d *Draft, step Step) map[string]string {
	errs := make(map[string]string)
	if fields, ok := structFieldsByStep[step]; ok {
		if err := s.validate.StructPartial(d, fields...); err != nil {
			for _, fieldErr := range err.(validator.ValidationErrors) {
				errs[fieldErr.Field()] = messageFor(fieldErr)
			}
		}
	}
	s.conditionalErrors(d, step, errs)
	return errs
}

// ValidateAll runs the full schema before submission.
func (s *Schema) ValidateAll(d *Draft) map[string]string {
	errs := make(map[string]string)
	if err := s.validate.Struct(d); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok {
			for _, fieldErr := range fieldErrs {
				errs[fieldErr.Field()] = messageFor(fieldErr)
			}
		}
	}
	for _, step := range []Step{StepRouting, StepTrucking, StepLocations} {
		s.conditionalErrors(d, step, errs)
	}
	return errs
}

// conditionalErrors enforces the cross-field rules the tag syntax cannot
// express: catalog-bound ports, trucking required unless the mode skips it,
// and door addresses per mode.
func (s *Schema) conditionalErrors(d *Draft, step Step, errs map[string]string) {
	switch step {
	case StepRouting:
		if d.OriginPort != "" {
			if _, ok := booking.PortByCode(d.OriginPort); !ok {
				errs["origin_port"] = "Select a port from the list."
			}
		}
		if d.DestPort != "" {
			if _, ok := booking.PortByCode(d.DestPort); !ok {
				errs["destination_port"] = "Select a port from the list."
			}
		}
		if d.OriginPort != "" && d.OriginPort == d.DestPort {
			errs["destination_port"] = "Destination must differ from origin."
		}
	case StepTrucking:
		if d.SkipTrucking {
			return
		}
		if d.PickupTruckerID <= 0 {
			errs["pickup_trucker_id"] = "Select a trucking company."
		}
		if d.PickupTruckID <= 0 {
			errs["pickup_truck_id"] = "Select a truck."
		}
		if d.DeliveryTruckerID <= 0 {
			errs["delivery_trucker_id"] = "Select a trucking company."
		}
		if d.DeliveryTruckID <= 0 {
			errs["delivery_truck_id"] = "Select a truck."
		}
	case StepLocations:
		if d.Mode.NeedsPickupAddress() && (d.PickupLat == 0 || d.PickupLng == 0) {
			errs["pickup_address"] = "Resolve the pickup address on the map."
		}
		if d.Mode.NeedsDeliveryAddress() && (d.DeliveryLat == 0 || d.DeliveryLng == 0) {
			errs["delivery_address"] = "Resolve the delivery address on the map."
		}
	}
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "e164":
		return "Use the international phone format, e.g. +639171234567."
	case "min", "gt":
		return "Must be at least 1."
	case "oneof":
		return "Select a valid option."
	default:
		return "Invalid value."
	}
}
