package slots

import (
	"delivery-slot-service/internal/app/config"
	"fmt"
	"time"
)

// Catalog is the ordered set of slots offered every operating day. It is
// built once at startup and read-only afterwards.
type Catalog struct {
	slots       []Slot
	index       map[Slot]struct{}
	granularity int
}

// DefaultCatalog is 08:00 through 17:30 every 30 minutes.
func DefaultCatalog() *Catalog {
	c, _ := NewCatalog(config.AppSlots{DayStart: "08:00", DayEnd: "18:00", GranularityMinutes: 30})
	return c
}

func NewCatalog(cfg config.AppSlots) (*Catalog, error) {
	start, err := ParseSlot(cfg.DayStart)
	if err != nil {
		return nil, fmt.Errorf("day start: %w", err)
	}
	end, err := ParseSlot(cfg.DayEnd)
	if err != nil {
		return nil, fmt.Errorf("day end: %w", err)
	}
	if !start.Before(end) {
		return nil, fmt.Errorf("day start %s must be before day end %s", start, end)
	}
	if cfg.GranularityMinutes <= 0 {
		return nil, fmt.Errorf("granularity must be positive, got %d", cfg.GranularityMinutes)
	}

	var lunchStart, lunchEnd time.Duration
	if cfg.LunchStart != "" && cfg.LunchEnd != "" {
		ls, err := ParseSlot(cfg.LunchStart)
		if err != nil {
			return nil, fmt.Errorf("lunch start: %w", err)
		}
		le, err := ParseSlot(cfg.LunchEnd)
		if err != nil {
			return nil, fmt.Errorf("lunch end: %w", err)
		}
		if !ls.Before(le) {
			return nil, fmt.Errorf("lunch start %s must be before lunch end %s", ls, le)
		}
		lunchStart, lunchEnd = ls.Offset(), le.Offset()
	}

	step := time.Duration(cfg.GranularityMinutes) * time.Minute
	c := &Catalog{index: make(map[Slot]struct{}), granularity: cfg.GranularityMinutes}
	for offset := start.Offset(); offset < end.Offset(); offset += step {
		if lunchEnd > 0 && offset >= lunchStart && offset < lunchEnd {
			continue
		}
		s := Slot{Hour: int(offset / time.Hour), Minute: int((offset % time.Hour) / time.Minute)}
		c.slots = append(c.slots, s)
		c.index[s] = struct{}{}
	}
	return c, nil
}

// AllSlots returns a copy in ascending order.
func (c *Catalog) AllSlots() []Slot {
	out := make([]Slot, len(c.slots))
	copy(out, c.slots)
	return out
}

func (c *Catalog) Strings() []string {
	out := make([]string, len(c.slots))
	for i, s := range c.slots {
		out[i] = s.String()
	}
	return out
}

func (c *Catalog) Contains(s Slot) bool {
	_, ok := c.index[s]
	return ok
}

// Parse parses value and checks it belongs to the catalog.
func (c *Catalog) Parse(value string) (Slot, error) {
	s, err := ParseSlot(value)
	if err != nil {
		return Slot{}, err
	}
	if !c.Contains(s) {
		return Slot{}, fmt.Errorf("slot %s is not offered", s)
	}
	return s, nil
}

func (c *Catalog) GranularityMinutes() int {
	return c.granularity
}
