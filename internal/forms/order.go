package forms

import (
	"net/url"

	"github.com/google/uuid"

	"storefront/internal/domain"
)

// OrderStatusForm sets a single order's status
type OrderStatusForm struct {
	Status string `form:"status" validate:"required,order_status"`
}

// ValidateOrderStatus returns the requested status
func ValidateOrderStatus(raw url.Values) (domain.OrderStatus, FieldErrors) {
	var f OrderStatusForm
	if errs := bind(raw, &f); !errs.Valid() {
		return "", errs
	}
	return domain.OrderStatus(f.Status), nil
}

// BulkActions maps each admin batch action to the status it applies
var BulkActions = map[string]domain.OrderStatus{
	"mark_as_approved":  domain.OrderStatusApproved,
	"mark_as_shipped":   domain.OrderStatusShipped,
	"mark_as_delivered": domain.OrderStatusDelivered,
}

// BulkStatusForm applies one batch action to a set of selected orders
type BulkStatusForm struct {
	Action   string   `form:"action" validate:"required,oneof=mark_as_approved mark_as_shipped mark_as_delivered"`
	OrderIDs []string `form:"order_id" validate:"required,min=1,dive,uuid"`
}

// BulkStatus is a validated batch action
type BulkStatus struct {
	OrderIDs []uuid.UUID
	Status   domain.OrderStatus
}

// ValidateBulkStatus returns the selected orders and their target status
func ValidateBulkStatus(raw url.Values) (BulkStatus, FieldErrors) {
	var f BulkStatusForm
	if errs := bind(raw, &f); !errs.Valid() {
		return BulkStatus{}, errs
	}

	ids := make([]uuid.UUID, 0, len(f.OrderIDs))
	for _, id := range f.OrderIDs {
		// Already checked by the uuid tag
		ids = append(ids, uuid.MustParse(id))
	}

	return BulkStatus{OrderIDs: ids, Status: BulkActions[f.Action]}, nil
}
