package contracts

import (
	"context"
	"delivery-slot-service/internal/app/models"
)

// AvailabilityNotifier fans out "availability for date changed" signals. The
// payload is only the date; subscribers recompute their view on receipt.
type AvailabilityNotifier interface {
	Publish(ctx context.Context, date string) error
	Subscribe(date string, fn func(date string)) (unsubscribe func())
	Version(ctx context.Context, date string) (int64, error)
}

type NotificationService interface {
	Notify(ctx context.Context, intent models.NotificationIntent) error
}
