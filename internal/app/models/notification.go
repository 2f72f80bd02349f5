package models

import "fmt"

type NotificationKind string

const (
	NotificationKindApproved    NotificationKind = "approved"
	NotificationKindRejected    NotificationKind = "rejected"
	NotificationKindRescheduled NotificationKind = "rescheduled"
)

type NotificationIntent struct {
	RequestID      string           `json:"request_id"`
	Kind           NotificationKind `json:"kind"`
	Reason         *string          `json:"reason,omitempty"`
	RequesterID    string           `json:"requester_id"`
	RequesterEmail string           `json:"requester_email,omitempty"`
	SupplierName   string           `json:"supplier_name"`
	Date           string           `json:"date"`
	Slot           string           `json:"slot"`
}

func NewNotificationIntent(booking *BookingRequest, kind NotificationKind) NotificationIntent {
	return NotificationIntent{
		RequestID:      booking.ID,
		Kind:           kind,
		Reason:         booking.RejectionReason,
		RequesterID:    booking.RequesterID,
		RequesterEmail: booking.RequesterEmail,
		SupplierName:   booking.SupplierName,
		Date:           booking.Date,
		Slot:           booking.Slot,
	}
}

type NotificationDeliveryWarning struct {
	Code      string           `json:"code"`
	RequestID string           `json:"request_id"`
	Kind      NotificationKind `json:"kind"`
	Message   string           `json:"message"`
}

func (w NotificationDeliveryWarning) Error() string {
	return fmt.Sprintf("notification %s for request %s not delivered: %s", w.Kind, w.RequestID, w.Message)
}
