package slots

import (
	"delivery-slot-service/internal/app/models"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompute_FutureDatePartitionsByExactSlot(t *testing.T) {
	calc := NewCalculator(DefaultCatalog())
	occupancy := []models.Occupancy{
		{RequestID: "a", Slot: "09:00", Status: models.BookingStatusPending},
		{RequestID: "b", Slot: "14:30", Status: models.BookingStatusApproved},
	}

	view := calc.Compute(day(t, "2026-10-21"), "material", occupancy, at(t, "2026-10-20 10:15"))

	assert.Equal(t, "2026-10-21", view.Date)
	assert.Equal(t, "material", view.DeliveryCategory)
	assert.Equal(t, []string{"09:00", "14:30"}, view.Occupied)
	assert.Len(t, view.Available, 18)
	assert.NotContains(t, view.Available, "09:00")
	assert.Contains(t, view.Available, "09:30")
}

func TestCompute_TodayOmitsPastSlots(t *testing.T) {
	calc := NewCalculator(DefaultCatalog())
	occupancy := []models.Occupancy{
		{RequestID: "a", Slot: "09:00", Status: models.BookingStatusApproved},
		{RequestID: "b", Slot: "11:00", Status: models.BookingStatusPending},
	}

	view := calc.Compute(day(t, "2026-10-20"), "", occupancy, at(t, "2026-10-20 10:15"))

	assert.Equal(t, []string{"11:00"}, view.Occupied)
	assert.Equal(t, "10:30", view.Available[0])
	assert.NotContains(t, view.Available, "10:00")
	assert.Len(t, view.Available, 14)
}

func TestCompute_PastDateIsEmpty(t *testing.T) {
	calc := NewCalculator(DefaultCatalog())
	view := calc.Compute(day(t, "2026-10-19"), "", nil, at(t, "2026-10-20 10:15"))

	assert.Empty(t, view.Available)
	assert.Empty(t, view.Occupied)
	assert.NotNil(t, view.Available)
}

func TestCompute_IgnoresRejected(t *testing.T) {
	calc := NewCalculator(DefaultCatalog())
	occupancy := []models.Occupancy{{RequestID: "a", Slot: "09:00", Status: models.BookingStatusRejected}}

	view := calc.Compute(day(t, "2026-10-21"), "", occupancy, at(t, "2026-10-20 10:15"))
	assert.Empty(t, view.Occupied)
	assert.Contains(t, view.Available, "09:00")
}
