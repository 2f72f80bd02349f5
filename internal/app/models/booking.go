package models

import "time"

type BookingStatus string

const (
	BookingStatusPending  BookingStatus = "pending"
	BookingStatusApproved BookingStatus = "approved"
	BookingStatusRejected BookingStatus = "rejected"
)

// ActiveBookingStatuses hold their (date, slot) pair.
var ActiveBookingStatuses = []BookingStatus{BookingStatusPending, BookingStatusApproved}

func (s BookingStatus) IsActive() bool {
	return s == BookingStatusPending || s == BookingStatusApproved
}

func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusPending, BookingStatusApproved, BookingStatusRejected:
		return true
	}
	return false
}

type BookingRequest struct {
	ID               string        `json:"id" bson:"_id"`
	RequesterID      string        `json:"requester_id" bson:"requesterId"`
	RequesterEmail   string        `json:"requester_email,omitempty" bson:"requesterEmail,omitempty"`
	SupplierName     string        `json:"supplier_name" bson:"supplierName"`
	Date             string        `json:"date" bson:"date"`
	Slot             string        `json:"slot" bson:"slot"`
	DeliveryCategory string        `json:"delivery_category" bson:"deliveryCategory"`
	VehicleCategory  string        `json:"vehicle_category" bson:"vehicleCategory"`
	Note             *string       `json:"note,omitempty" bson:"note,omitempty"`
	Status           BookingStatus `json:"status" bson:"status"`
	Active           bool          `json:"-" bson:"active"`
	RejectionReason  *string       `json:"rejection_reason,omitempty" bson:"rejectionReason,omitempty"`
	DecidedBy        *string       `json:"decided_by,omitempty" bson:"decidedBy,omitempty"`
	CreatedAt        time.Time     `json:"created_at" bson:"createdAt"`
	UpdatedAt        time.Time     `json:"updated_at" bson:"updatedAt"`
}

// Occupancy is one (slot, status) entry of a date's occupancy set.
type Occupancy struct {
	RequestID string        `json:"request_id" bson:"_id"`
	Slot      string        `json:"slot" bson:"slot"`
	Status    BookingStatus `json:"status" bson:"status"`
}

type BookingScope string

const (
	BookingScopeAll     BookingScope = ""
	BookingScopePending BookingScope = "pending"
	BookingScopeHistory BookingScope = "history"
)

type BookingFilter struct {
	RequesterID string
	Statuses    []BookingStatus
	Date        string
	Scope       BookingScope
	Page        int
	PageSize    int
}

func (f BookingFilter) Offset() int {
	if f.Page <= 1 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

type BookingStats struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	Total    int `json:"total"`
}

func NewBookingStats(counts map[BookingStatus]int) BookingStats {
	stats := BookingStats{
		Pending:  counts[BookingStatusPending],
		Approved: counts[BookingStatusApproved],
		Rejected: counts[BookingStatusRejected],
	}
	stats.Total = stats.Pending + stats.Approved + stats.Rejected
	return stats
}

// TransitionResult is returned by the state machine operations. Warnings are
// non-blocking; the transition is committed whenever a result is returned.
type TransitionResult struct {
	Booking  *BookingRequest                `json:"booking"`
	Warnings []NotificationDeliveryWarning `json:"warnings,omitempty"`
}
