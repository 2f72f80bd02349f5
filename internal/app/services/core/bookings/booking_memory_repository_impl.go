package bookings

import (
	"context"
	"delivery-slot-service/internal/app/contracts"
	"delivery-slot-service/internal/app/models"
	"delivery-slot-service/internal/pkg/exceptions"
	"sort"
	"sync"
	"time"
)

// bookingMemoryRepository keeps everything behind one mutex. It backs the
// memory driver for local runs and the usecase tests.
type bookingMemoryRepository struct {
	mu       sync.Mutex
	bookings map[string]*models.BookingRequest
	// active maps "date|slot" to the ID of its pending or approved holder.
	active map[string]string
}

func NewBookingMemoryRepository() contracts.BookingRepository {
	return &bookingMemoryRepository{
		bookings: make(map[string]*models.BookingRequest),
		active:   make(map[string]string),
	}
}

func activeKey(date, slot string) string {
	return date + "|" + slot
}

func cloneBooking(b *models.BookingRequest) *models.BookingRequest {
	out := *b
	return &out
}

func (r *bookingMemoryRepository) InsertIfAbsent(ctx context.Context, candidate *models.BookingRequest) (*models.BookingRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, exceptions.ErrDatastoreTimeout(err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := activeKey(candidate.Date, candidate.Slot)
	if _, held := r.active[key]; held {
		return nil, exceptions.ErrSlotConflict(nil, candidate.Date, candidate.Slot)
	}

	stored := cloneBooking(candidate)
	stored.Active = stored.Status.IsActive()
	r.bookings[stored.ID] = stored
	if stored.Active {
		r.active[key] = stored.ID
	}
	return cloneBooking(stored), nil
}

func (r *bookingMemoryRepository) UpdateStatus(ctx context.Context, bookingID string, from, to models.BookingStatus, reason *string, decidedBy string, now time.Time) (*models.BookingRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, exceptions.ErrDatastoreTimeout(err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.bookings[bookingID]
	if !ok {
		return nil, exceptions.ErrBookingNotFound(nil, bookingID)
	}
	if stored.Status != from {
		return nil, exceptions.ErrIllegalTransition(nil, string(to), string(stored.Status))
	}

	key := activeKey(stored.Date, stored.Slot)
	stored.Status = to
	stored.Active = to.IsActive()
	stored.RejectionReason = reason
	stored.DecidedBy = &decidedBy
	stored.UpdatedAt = now
	if !stored.Active && r.active[key] == stored.ID {
		delete(r.active, key)
	}
	return cloneBooking(stored), nil
}

func (r *bookingMemoryRepository) UpdateSchedule(ctx context.Context, bookingID, newDate, newSlot string, newCategory *string, decidedBy string, now time.Time) (*models.BookingRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, exceptions.ErrDatastoreTimeout(err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.bookings[bookingID]
	if !ok {
		return nil, exceptions.ErrBookingNotFound(nil, bookingID)
	}
	if stored.Status != models.BookingStatusApproved {
		return nil, exceptions.ErrIllegalTransition(nil, string(ActionReschedule), string(stored.Status))
	}

	newKey := activeKey(newDate, newSlot)
	if holder, held := r.active[newKey]; held && holder != stored.ID {
		return nil, exceptions.ErrSlotConflict(nil, newDate, newSlot)
	}

	delete(r.active, activeKey(stored.Date, stored.Slot))
	stored.Date = newDate
	stored.Slot = newSlot
	if newCategory != nil {
		stored.DeliveryCategory = *newCategory
	}
	stored.DecidedBy = &decidedBy
	stored.UpdatedAt = now
	r.active[newKey] = stored.ID
	return cloneBooking(stored), nil
}

func (r *bookingMemoryRepository) ListOccupancy(ctx context.Context, date string) ([]models.Occupancy, error) {
	if err := ctx.Err(); err != nil {
		return nil, exceptions.ErrDatastoreTimeout(err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	occupancy := []models.Occupancy{}
	for _, b := range r.bookings {
		if b.Date == date && b.Status.IsActive() {
			occupancy = append(occupancy, models.Occupancy{RequestID: b.ID, Slot: b.Slot, Status: b.Status})
		}
	}
	sort.Slice(occupancy, func(i, j int) bool { return occupancy[i].Slot < occupancy[j].Slot })
	return occupancy, nil
}

func (r *bookingMemoryRepository) FindByID(ctx context.Context, bookingID string) (*models.BookingRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, exceptions.ErrDatastoreTimeout(err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.bookings[bookingID]
	if !ok {
		return nil, exceptions.ErrBookingNotFound(nil, bookingID)
	}
	return cloneBooking(stored), nil
}

func (r *bookingMemoryRepository) Find(ctx context.Context, filter models.BookingFilter) ([]models.BookingRequest, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, exceptions.ErrDatastoreTimeout(err)
	}
	filter = normalizePage(filter)

	var allowed map[models.BookingStatus]bool
	if statuses := effectiveStatuses(filter); statuses != nil {
		allowed = make(map[models.BookingStatus]bool, len(statuses))
		for _, s := range statuses {
			allowed[s] = true
		}
	}

	r.mu.Lock()
	matched := []models.BookingRequest{}
	for _, b := range r.bookings {
		if filter.RequesterID != "" && b.RequesterID != filter.RequesterID {
			continue
		}
		if filter.Date != "" && b.Date != filter.Date {
			continue
		}
		if allowed != nil && !allowed[b.Status] {
			continue
		}
		matched = append(matched, *b)
	}
	r.mu.Unlock()

	sortBookings(matched, filter.Scope)

	total := len(matched)
	start := filter.Offset()
	if start >= total {
		return []models.BookingRequest{}, total, nil
	}
	end := start + filter.PageSize
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func sortBookings(bookings []models.BookingRequest, scope models.BookingScope) {
	sort.SliceStable(bookings, func(i, j int) bool {
		a, b := bookings[i], bookings[j]
		switch scope {
		case models.BookingScopePending:
			if a.Date != b.Date {
				return a.Date < b.Date
			}
			if a.Slot != b.Slot {
				return a.Slot < b.Slot
			}
			return a.CreatedAt.Before(b.CreatedAt)
		case models.BookingScopeHistory:
			return a.UpdatedAt.After(b.UpdatedAt)
		default:
			return a.CreatedAt.After(b.CreatedAt)
		}
	})
}

func (r *bookingMemoryRepository) CountByStatus(ctx context.Context) (map[models.BookingStatus]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, exceptions.ErrDatastoreTimeout(err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	counts := make(map[models.BookingStatus]int)
	for _, b := range r.bookings {
		counts[b.Status]++
	}
	return counts, nil
}
