package slots

import (
	"delivery-slot-service/internal/app/models"
	"time"
)

type Calculator struct {
	catalog *Catalog
}

func NewCalculator(catalog *Catalog) *Calculator {
	return &Calculator{catalog: catalog}
}

func (c *Calculator) Catalog() *Catalog {
	return c.catalog
}

// Compute partitions the bookable slots of date into available and occupied.
// Occupancy matches on exact slot only; category is echoed back but does not
// influence the partition. Slots that are no longer bookable are left out of
// both lists.
func (c *Calculator) Compute(date time.Time, category string, occupancy []models.Occupancy, now time.Time) *models.Availability {
	taken := make(map[string]struct{}, len(occupancy))
	for _, o := range occupancy {
		if o.Status.IsActive() {
			taken[o.Slot] = struct{}{}
		}
	}

	view := &models.Availability{
		Date:             date.Format(DateLayout),
		DeliveryCategory: category,
		Available:        []string{},
		Occupied:         []string{},
		GeneratedAt:      now,
	}

	for _, s := range c.catalog.AllSlots() {
		if !IsSlotBookable(date, s, now) {
			continue
		}
		label := s.String()
		if _, ok := taken[label]; ok {
			view.Occupied = append(view.Occupied, label)
		} else {
			view.Available = append(view.Available, label)
		}
	}
	return view
}
