package bookings

import (
	"context"
	"database/sql"
	"delivery-slot-service/internal/app/contracts"
	"delivery-slot-service/internal/app/models"
	"delivery-slot-service/internal/pkg/constvars"
	"delivery-slot-service/internal/pkg/exceptions"
	"delivery-slot-service/internal/pkg/queries"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type bookingPostgresRepository struct {
	DB  *sql.DB
	Log *zap.Logger
}

func NewBookingPostgresRepository(db *sql.DB, logger *zap.Logger) contracts.BookingRepository {
	return &bookingPostgresRepository{
		DB:  db,
		Log: logger,
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*models.BookingRequest, error) {
	var (
		booking                 models.BookingRequest
		status                  string
		note, reason, decidedBy sql.NullString
	)
	err := row.Scan(
		&booking.ID,
		&booking.RequesterID,
		&booking.RequesterEmail,
		&booking.SupplierName,
		&booking.Date,
		&booking.Slot,
		&booking.DeliveryCategory,
		&booking.VehicleCategory,
		&note,
		&status,
		&reason,
		&decidedBy,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.Status = models.BookingStatus(status)
	booking.Active = booking.Status.IsActive()
	booking.Note = nullableString(note)
	booking.RejectionReason = nullableString(reason)
	booking.DecidedBy = nullableString(decidedBy)
	return &booking, nil
}

func nullableString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func toNullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == constvars.PostgresUniqueViolationCode
}

func mapPostgresError(err error, wrap func(error) *exceptions.CustomError) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return exceptions.ErrDatastoreTimeout(err)
	}
	return wrap(err)
}

func (r *bookingPostgresRepository) InsertIfAbsent(ctx context.Context, candidate *models.BookingRequest) (*models.BookingRequest, error) {
	row := r.DB.QueryRowContext(ctx, queries.InsertBookingIfSlotFree,
		candidate.ID,
		candidate.RequesterID,
		candidate.RequesterEmail,
		candidate.SupplierName,
		candidate.Date,
		candidate.Slot,
		candidate.DeliveryCategory,
		candidate.VehicleCategory,
		toNullString(candidate.Note),
		string(candidate.Status),
		candidate.CreatedAt,
		candidate.UpdatedAt,
	)

	booking, err := scanBooking(row)
	switch {
	case err == nil:
		return booking, nil
	case errors.Is(err, sql.ErrNoRows), isUniqueViolation(err):
		return nil, exceptions.ErrSlotConflict(nil, candidate.Date, candidate.Slot)
	default:
		r.Log.Error("bookingPostgresRepository.InsertIfAbsent error",
			zap.String(constvars.LoggingBookingDateKey, candidate.Date),
			zap.String(constvars.LoggingBookingSlotKey, candidate.Slot),
			zap.Error(err),
		)
		return nil, mapPostgresError(err, exceptions.ErrPostgresDBInsertData)
	}
}

func (r *bookingPostgresRepository) UpdateStatus(ctx context.Context, bookingID string, from, to models.BookingStatus, reason *string, decidedBy string, now time.Time) (*models.BookingRequest, error) {
	row := r.DB.QueryRowContext(ctx, queries.UpdateBookingStatus,
		string(to),
		toNullString(reason),
		decidedBy,
		now,
		bookingID,
		string(from),
	)

	booking, err := scanBooking(row)
	switch {
	case err == nil:
		return booking, nil
	case errors.Is(err, sql.ErrNoRows):
		return nil, r.explainMissedUpdate(ctx, bookingID, string(to))
	default:
		return nil, mapPostgresError(err, exceptions.ErrPostgresDBUpdateData)
	}
}

func (r *bookingPostgresRepository) UpdateSchedule(ctx context.Context, bookingID, newDate, newSlot string, newCategory *string, decidedBy string, now time.Time) (*models.BookingRequest, error) {
	row := r.DB.QueryRowContext(ctx, queries.UpdateBookingSchedule,
		newDate,
		newSlot,
		toNullString(newCategory),
		decidedBy,
		now,
		bookingID,
	)

	booking, err := scanBooking(row)
	switch {
	case err == nil:
		return booking, nil
	case errors.Is(err, sql.ErrNoRows):
		return nil, r.explainMissedUpdate(ctx, bookingID, string(ActionReschedule))
	case isUniqueViolation(err):
		return nil, exceptions.ErrSlotConflict(nil, newDate, newSlot)
	default:
		return nil, mapPostgresError(err, exceptions.ErrPostgresDBUpdateData)
	}
}

// explainMissedUpdate tells a missing record apart from a lost
// compare-and-set once a guarded UPDATE touched no row.
func (r *bookingPostgresRepository) explainMissedUpdate(ctx context.Context, bookingID, action string) error {
	var status string
	err := r.DB.QueryRowContext(ctx, queries.GetBookingStatusByID, bookingID).Scan(&status)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return exceptions.ErrBookingNotFound(nil, bookingID)
	case err != nil:
		return mapPostgresError(err, exceptions.ErrPostgresDBFindData)
	default:
		return exceptions.ErrIllegalTransition(nil, action, status)
	}
}

func (r *bookingPostgresRepository) ListOccupancy(ctx context.Context, date string) ([]models.Occupancy, error) {
	rows, err := r.DB.QueryContext(ctx, queries.GetOccupancyByDate, date)
	if err != nil {
		return nil, mapPostgresError(err, exceptions.ErrPostgresDBFindData)
	}
	defer rows.Close()

	occupancy := []models.Occupancy{}
	for rows.Next() {
		var (
			o      models.Occupancy
			status string
		)
		if err := rows.Scan(&o.RequestID, &o.Slot, &status); err != nil {
			return nil, exceptions.ErrPostgresDBIterateDataset(err)
		}
		o.Status = models.BookingStatus(status)
		occupancy = append(occupancy, o)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPostgresError(err, exceptions.ErrPostgresDBIterateDataset)
	}
	return occupancy, nil
}

func (r *bookingPostgresRepository) FindByID(ctx context.Context, bookingID string) (*models.BookingRequest, error) {
	booking, err := scanBooking(r.DB.QueryRowContext(ctx, queries.GetBookingByID, bookingID))
	switch {
	case err == nil:
		return booking, nil
	case errors.Is(err, sql.ErrNoRows):
		return nil, exceptions.ErrBookingNotFound(nil, bookingID)
	default:
		return nil, mapPostgresError(err, exceptions.ErrPostgresDBFindData)
	}
}

func buildFindWhere(filter models.BookingFilter) (string, []interface{}) {
	var (
		conditions []string
		args       []interface{}
	)
	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}

	if filter.RequesterID != "" {
		add("requester_id = $%d", filter.RequesterID)
	}
	if filter.Date != "" {
		add("scheduled_date = $%d", filter.Date)
	}
	if statuses := effectiveStatuses(filter); statuses != nil {
		add("status = ANY($%d)", pq.Array(statusStrings(statuses)))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func orderByFor(scope models.BookingScope) string {
	switch scope {
	case models.BookingScopePending:
		return " ORDER BY scheduled_date ASC, scheduled_slot ASC, created_at ASC"
	case models.BookingScopeHistory:
		return " ORDER BY updated_at DESC"
	default:
		return " ORDER BY created_at DESC"
	}
}

func (r *bookingPostgresRepository) Find(ctx context.Context, filter models.BookingFilter) ([]models.BookingRequest, int, error) {
	filter = normalizePage(filter)
	where, args := buildFindWhere(filter)

	var total int
	if err := r.DB.QueryRowContext(ctx, queries.CountBookingsBase+where, args...).Scan(&total); err != nil {
		return nil, 0, mapPostgresError(err, exceptions.ErrPostgresDBFindData)
	}

	pageArgs := append(args, filter.PageSize, filter.Offset())
	query := queries.FindBookingsBase + where + orderByFor(filter.Scope) +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)

	rows, err := r.DB.QueryContext(ctx, query, pageArgs...)
	if err != nil {
		return nil, 0, mapPostgresError(err, exceptions.ErrPostgresDBFindData)
	}
	defer rows.Close()

	bookings := []models.BookingRequest{}
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, 0, exceptions.ErrPostgresDBIterateDataset(err)
		}
		bookings = append(bookings, *booking)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapPostgresError(err, exceptions.ErrPostgresDBIterateDataset)
	}
	return bookings, total, nil
}

func (r *bookingPostgresRepository) CountByStatus(ctx context.Context) (map[models.BookingStatus]int, error) {
	rows, err := r.DB.QueryContext(ctx, queries.CountBookingsByStatus)
	if err != nil {
		return nil, mapPostgresError(err, exceptions.ErrPostgresDBFindData)
	}
	defer rows.Close()

	counts := make(map[models.BookingStatus]int)
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, exceptions.ErrPostgresDBIterateDataset(err)
		}
		counts[models.BookingStatus(status)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, mapPostgresError(err, exceptions.ErrPostgresDBIterateDataset)
	}
	return counts, nil
}
