package bookings

import (
	"context"
	"delivery-slot-service/internal/app/models"
	"delivery-slot-service/internal/pkg/constvars"
	"delivery-slot-service/internal/pkg/exceptions"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_FindPagesAndOrders(t *testing.T) {
	repo := NewBookingMemoryRepository()
	ctx := context.Background()
	base := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		c := candidate()
		c.ID = fmt.Sprintf("bk-%d", i)
		c.Slot = fmt.Sprintf("%02d:00", 13-i)
		c.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		_, err := repo.InsertIfAbsent(ctx, c)
		require.NoError(t, err)
	}

	page, total, err := repo.Find(ctx, models.BookingFilter{Scope: models.BookingScopePending, Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, page, 2)
	assert.Equal(t, "09:00", page[0].Slot)
	assert.Equal(t, "10:00", page[1].Slot)

	page, _, err = repo.Find(ctx, models.BookingFilter{Page: 3, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "bk-0", page[0].ID)

	page, total, err = repo.Find(ctx, models.BookingFilter{Page: 9, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Empty(t, page)
}

func TestMemoryRepository_RejectedSlotCanBeRebooked(t *testing.T) {
	repo := NewBookingMemoryRepository()
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	first, err := repo.InsertIfAbsent(ctx, candidate())
	require.NoError(t, err)
	reason := "full"
	_, err = repo.UpdateStatus(ctx, first.ID, models.BookingStatusPending, models.BookingStatusRejected, &reason, "admin-1", now)
	require.NoError(t, err)

	again := candidate()
	again.ID = "bk-2"
	_, err = repo.InsertIfAbsent(ctx, again)
	require.NoError(t, err)

	occupancy, err := repo.ListOccupancy(ctx, again.Date)
	require.NoError(t, err)
	require.Len(t, occupancy, 1)
	assert.Equal(t, "bk-2", occupancy[0].RequestID)
}

func TestMemoryRepository_ReturnsCopies(t *testing.T) {
	repo := NewBookingMemoryRepository()
	ctx := context.Background()

	created, err := repo.InsertIfAbsent(ctx, candidate())
	require.NoError(t, err)
	created.Status = models.BookingStatusRejected

	stored, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPending, stored.Status)
}

func TestMemoryRepository_CancelledContext(t *testing.T) {
	repo := NewBookingMemoryRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.InsertIfAbsent(ctx, candidate())
	assert.True(t, exceptions.HasCode(err, constvars.ErrCodeDatastoreTimeout))
	_, err = repo.ListOccupancy(ctx, "2025-03-11")
	assert.True(t, exceptions.HasCode(err, constvars.ErrCodeDatastoreTimeout))
}
