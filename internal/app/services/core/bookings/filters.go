package bookings

import (
	"delivery-slot-service/internal/app/models"
	"delivery-slot-service/internal/pkg/constvars"
)

// effectiveStatuses narrows the explicit status filter by the scope. A nil
// result means no status constraint; an empty non-nil result matches nothing.
func effectiveStatuses(filter models.BookingFilter) []models.BookingStatus {
	var scoped []models.BookingStatus
	switch filter.Scope {
	case models.BookingScopePending:
		scoped = []models.BookingStatus{models.BookingStatusPending}
	case models.BookingScopeHistory:
		scoped = []models.BookingStatus{models.BookingStatusApproved, models.BookingStatusRejected}
	}

	if len(filter.Statuses) == 0 {
		return scoped
	}
	if scoped == nil {
		return filter.Statuses
	}

	out := []models.BookingStatus{}
	for _, s := range filter.Statuses {
		for _, allowed := range scoped {
			if s == allowed {
				out = append(out, s)
			}
		}
	}
	return out
}

func normalizePage(filter models.BookingFilter) models.BookingFilter {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = constvars.DefaultPageSize
	}
	if filter.PageSize > constvars.MaxPageSize {
		filter.PageSize = constvars.MaxPageSize
	}
	return filter
}

func statusStrings(statuses []models.BookingStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
