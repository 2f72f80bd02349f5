package contracts

import (
	"context"
	"delivery-slot-service/internal/app/models"
	"delivery-slot-service/internal/pkg/dto/requests"
	"delivery-slot-service/internal/pkg/dto/responses"
	"time"
)

type BookingUsecase interface {
	Catalog(ctx context.Context) *responses.Catalog
	Availability(ctx context.Context, principal *models.Principal, query *requests.AvailabilityQuery) (*models.Availability, error)
	AvailabilityVersion(ctx context.Context, date string) (int64, error)
	Submit(ctx context.Context, principal *models.Principal, request *requests.SubmitBooking) (*models.BookingRequest, error)
	Approve(ctx context.Context, principal *models.Principal, bookingID string) (*models.TransitionResult, error)
	Reject(ctx context.Context, principal *models.Principal, bookingID string, request *requests.RejectBooking) (*models.TransitionResult, error)
	Reschedule(ctx context.Context, principal *models.Principal, bookingID string, request *requests.RescheduleBooking) (*models.TransitionResult, error)
	FindByID(ctx context.Context, principal *models.Principal, bookingID string) (*models.BookingRequest, error)
	List(ctx context.Context, principal *models.Principal, query *requests.BookingListQuery) ([]models.BookingRequest, int, error)
	Stats(ctx context.Context, principal *models.Principal) (*models.BookingStats, error)
}

// BookingRepository is the datastore collaborator. Implementations make
// InsertIfAbsent, UpdateStatus and UpdateSchedule atomic on their own.
type BookingRepository interface {
	InsertIfAbsent(ctx context.Context, candidate *models.BookingRequest) (*models.BookingRequest, error)
	UpdateStatus(ctx context.Context, bookingID string, from, to models.BookingStatus, reason *string, decidedBy string, now time.Time) (*models.BookingRequest, error)
	UpdateSchedule(ctx context.Context, bookingID, newDate, newSlot string, newCategory *string, decidedBy string, now time.Time) (*models.BookingRequest, error)
	ListOccupancy(ctx context.Context, date string) ([]models.Occupancy, error)
	FindByID(ctx context.Context, bookingID string) (*models.BookingRequest, error)
	Find(ctx context.Context, filter models.BookingFilter) ([]models.BookingRequest, int, error)
	CountByStatus(ctx context.Context) (map[models.BookingStatus]int, error)
}
