package queries

const bookingColumns = `id, requester_id, requester_email, supplier_name, to_char(scheduled_date, 'YYYY-MM-DD'),
	to_char(scheduled_slot, 'HH24:MI'), delivery_category, vehicle_category, note, status, rejection_reason,
	decided_by, created_at, updated_at`

// InsertBookingIfSlotFree relies on the partial unique index over active
// (scheduled_date, scheduled_slot) pairs; no row is returned when the slot is held.
const InsertBookingIfSlotFree = `INSERT INTO booking_requests (id, requester_id, requester_email, supplier_name,
	scheduled_date, scheduled_slot, delivery_category, vehicle_category, note, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (scheduled_date, scheduled_slot) WHERE status IN ('pending', 'approved') DO NOTHING
RETURNING ` + bookingColumns

const UpdateBookingStatus = `UPDATE booking_requests
SET status = $1, rejection_reason = $2, decided_by = $3, updated_at = $4
WHERE id = $5 AND status = $6
RETURNING ` + bookingColumns

const UpdateBookingSchedule = `UPDATE booking_requests
SET scheduled_date = $1, scheduled_slot = $2, delivery_category = COALESCE($3, delivery_category),
	decided_by = $4, updated_at = $5
WHERE id = $6 AND status = 'approved'
RETURNING ` + bookingColumns

const GetBookingByID = `SELECT ` + bookingColumns + ` FROM booking_requests WHERE id = $1`

const GetBookingStatusByID = `SELECT status FROM booking_requests WHERE id = $1`

const GetOccupancyByDate = `SELECT id, to_char(scheduled_slot, 'HH24:MI'), status
FROM booking_requests
WHERE scheduled_date = $1 AND status IN ('pending', 'approved')
ORDER BY scheduled_slot ASC`

const CountBookingsByStatus = `SELECT status, COUNT(*) FROM booking_requests GROUP BY status`

// FindBookingsBase is completed by the repository with a WHERE clause built from
// the filter, an ORDER BY and LIMIT/OFFSET placeholders.
const FindBookingsBase = `SELECT ` + bookingColumns + ` FROM booking_requests`

const CountBookingsBase = `SELECT COUNT(*) FROM booking_requests`
