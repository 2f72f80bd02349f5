package bookings

import (
	"delivery-slot-service/internal/app/models"
	"delivery-slot-service/internal/pkg/exceptions"
)

type Action string

const (
	ActionApprove    Action = "approve"
	ActionReject     Action = "reject"
	ActionReschedule Action = "reschedule"
)

// transitions lists every legal (from, action) pair. Anything missing is an
// illegal transition and leaves the record untouched.
var transitions = map[models.BookingStatus]map[Action]models.BookingStatus{
	models.BookingStatusPending: {
		ActionApprove: models.BookingStatusApproved,
		ActionReject:  models.BookingStatusRejected,
	},
	models.BookingStatusApproved: {
		ActionReschedule: models.BookingStatusApproved,
	},
}

func NextStatus(current models.BookingStatus, action Action) (models.BookingStatus, error) {
	if next, ok := transitions[current][action]; ok {
		return next, nil
	}
	return current, exceptions.ErrIllegalTransition(nil, string(action), string(current))
}

func notificationKindFor(action Action) models.NotificationKind {
	switch action {
	case ActionApprove:
		return models.NotificationKindApproved
	case ActionReject:
		return models.NotificationKindRejected
	default:
		return models.NotificationKindRescheduled
	}
}
