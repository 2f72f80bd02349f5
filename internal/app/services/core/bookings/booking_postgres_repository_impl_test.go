package bookings

import (
	"context"
	"database/sql"
	"delivery-slot-service/internal/app/models"
	"delivery-slot-service/internal/pkg/constvars"
	"delivery-slot-service/internal/pkg/exceptions"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var bookingRowColumns = []string{
	"id", "requester_id", "requester_email", "supplier_name", "scheduled_date", "scheduled_slot",
	"delivery_category", "vehicle_category", "note", "status", "rejection_reason", "decided_by",
	"created_at", "updated_at",
}

func newPostgresRepo(t *testing.T) (*bookingPostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewBookingPostgresRepository(db, zap.NewNop()).(*bookingPostgresRepository), mock
}

func bookingRow(id, status string, reason interface{}) *sqlmock.Rows {
	at := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(bookingRowColumns).AddRow(
		id, "sup-1", "sup-1@supplier.example", "Acme Metals", "2025-03-11", "09:00",
		"raw-materials", "truck", nil, status, reason, nil, at, at,
	)
}

func candidate() *models.BookingRequest {
	at := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	return &models.BookingRequest{
		ID:               "bk-1",
		RequesterID:      "sup-1",
		RequesterEmail:   "sup-1@supplier.example",
		SupplierName:     "Acme Metals",
		Date:             "2025-03-11",
		Slot:             "09:00",
		DeliveryCategory: "raw-materials",
		VehicleCategory:  "truck",
		Status:           models.BookingStatusPending,
		CreatedAt:        at,
		UpdatedAt:        at,
	}
}

func TestPostgresInsertIfAbsent(t *testing.T) {
	insert := regexp.QuoteMeta("INSERT INTO booking_requests")

	t.Run("inserted", func(t *testing.T) {
		repo, mock := newPostgresRepo(t)
		mock.ExpectQuery(insert).WillReturnRows(bookingRow("bk-1", "pending", nil))

		got, err := repo.InsertIfAbsent(context.Background(), candidate())
		require.NoError(t, err)
		assert.Equal(t, "bk-1", got.ID)
		assert.True(t, got.Active)
		assert.Nil(t, got.Note)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no row returned means the slot is held", func(t *testing.T) {
		repo, mock := newPostgresRepo(t)
		mock.ExpectQuery(insert).WillReturnRows(sqlmock.NewRows(bookingRowColumns))

		_, err := repo.InsertIfAbsent(context.Background(), candidate())
		assert.True(t, exceptions.HasCode(err, constvars.ErrCodeSlotConflict))
	})

	t.Run("unique violation is a conflict", func(t *testing.T) {
		repo, mock := newPostgresRepo(t)
		mock.ExpectQuery(insert).WillReturnError(&pq.Error{Code: "23505"})

		_, err := repo.InsertIfAbsent(context.Background(), candidate())
		assert.True(t, exceptions.HasCode(err, constvars.ErrCodeSlotConflict))
	})

	t.Run("deadline is a retryable timeout", func(t *testing.T) {
		repo, mock := newPostgresRepo(t)
		mock.ExpectQuery(insert).WillReturnError(context.DeadlineExceeded)

		_, err := repo.InsertIfAbsent(context.Background(), candidate())
		assert.True(t, exceptions.HasCode(err, constvars.ErrCodeDatastoreTimeout))
		assert.True(t, exceptions.IsRetryable(err))
	})

	t.Run("other driver errors", func(t *testing.T) {
		repo, mock := newPostgresRepo(t)
		mock.ExpectQuery(insert).WillReturnError(errors.New("connection reset"))

		_, err := repo.InsertIfAbsent(context.Background(), candidate())
		require.Error(t, err)
		assert.False(t, exceptions.HasCode(err, constvars.ErrCodeSlotConflict))
		assert.False(t, exceptions.IsRetryable(err))
	})
}

func TestPostgresUpdateStatus(t *testing.T) {
	update := regexp.QuoteMeta("UPDATE booking_requests")
	statusLookup := regexp.QuoteMeta("SELECT status FROM booking_requests WHERE id = $1")
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	reason := "duplicate"

	t.Run("compare and set succeeds", func(t *testing.T) {
		repo, mock := newPostgresRepo(t)
		mock.ExpectQuery(update).
			WithArgs("rejected", sql.NullString{String: reason, Valid: true}, "admin-1", now, "bk-1", "pending").
			WillReturnRows(bookingRow("bk-1", "rejected", reason))

		got, err := repo.UpdateStatus(context.Background(), "bk-1", models.BookingStatusPending, models.BookingStatusRejected, &reason, "admin-1", now)
		require.NoError(t, err)
		assert.Equal(t, models.BookingStatusRejected, got.Status)
		assert.False(t, got.Active)
		require.NotNil(t, got.RejectionReason)
		assert.Equal(t, reason, *got.RejectionReason)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("lost race is an illegal transition", func(t *testing.T) {
		repo, mock := newPostgresRepo(t)
		mock.ExpectQuery(update).WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(statusLookup).WithArgs("bk-1").
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("approved"))

		_, err := repo.UpdateStatus(context.Background(), "bk-1", models.BookingStatusPending, models.BookingStatusRejected, &reason, "admin-1", now)
		assert.True(t, exceptions.HasCode(err, constvars.ErrCodeIllegalTransition))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing record", func(t *testing.T) {
		repo, mock := newPostgresRepo(t)
		mock.ExpectQuery(update).WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(statusLookup).WithArgs("nope").WillReturnError(sql.ErrNoRows)

		_, err := repo.UpdateStatus(context.Background(), "nope", models.BookingStatusPending, models.BookingStatusApproved, nil, "admin-1", now)
		assert.True(t, exceptions.HasCode(err, constvars.ErrCodeNotFound))
	})
}

func TestPostgresUpdateSchedule(t *testing.T) {
	update := regexp.QuoteMeta("UPDATE booking_requests")
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	t.Run("moved", func(t *testing.T) {
		repo, mock := newPostgresRepo(t)
		mock.ExpectQuery(update).
			WithArgs("2025-03-11", "09:00", sql.NullString{}, "admin-1", now, "bk-1").
			WillReturnRows(bookingRow("bk-1", "approved", nil))

		got, err := repo.UpdateSchedule(context.Background(), "bk-1", "2025-03-11", "09:00", nil, "admin-1", now)
		require.NoError(t, err)
		assert.Equal(t, "09:00", got.Slot)
	})

	t.Run("target held by another request", func(t *testing.T) {
		repo, mock := newPostgresRepo(t)
		mock.ExpectQuery(update).WillReturnError(&pq.Error{Code: "23505"})

		_, err := repo.UpdateSchedule(context.Background(), "bk-1", "2025-03-11", "10:00", nil, "admin-1", now)
		assert.True(t, exceptions.HasCode(err, constvars.ErrCodeSlotConflict))
	})
}

func TestPostgresListOccupancy(t *testing.T) {
	repo, mock := newPostgresRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM booking_requests")).WithArgs("2025-03-11").
		WillReturnRows(sqlmock.NewRows([]string{"id", "slot", "status"}).
			AddRow("bk-1", "09:00", "pending").
			AddRow("bk-2", "10:30", "approved"))

	got, err := repo.ListOccupancy(context.Background(), "2025-03-11")
	require.NoError(t, err)
	assert.Equal(t, []models.Occupancy{
		{RequestID: "bk-1", Slot: "09:00", Status: models.BookingStatusPending},
		{RequestID: "bk-2", Slot: "10:30", Status: models.BookingStatusApproved},
	}, got)
}

func TestPostgresFind(t *testing.T) {
	repo, mock := newPostgresRepo(t)
	filter := models.BookingFilter{RequesterID: "sup-1", Scope: models.BookingScopePending, Page: 2, PageSize: 10}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM booking_requests WHERE requester_id = $1 AND status = ANY($2)")).
		WithArgs("sup-1", pq.Array([]string{"pending"})).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY scheduled_date ASC, scheduled_slot ASC, created_at ASC LIMIT $3 OFFSET $4")).
		WithArgs("sup-1", pq.Array([]string{"pending"}), 10, 10).
		WillReturnRows(bookingRow("bk-11", "pending", nil))

	got, total, err := repo.Find(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, 11, total)
	require.Len(t, got, 1)
	assert.Equal(t, "bk-11", got[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBuildFindWhere(t *testing.T) {
	where, args := buildFindWhere(models.BookingFilter{})
	assert.Empty(t, where)
	assert.Empty(t, args)

	where, args = buildFindWhere(models.BookingFilter{Date: "2025-03-11", Scope: models.BookingScopeHistory})
	assert.Equal(t, " WHERE scheduled_date = $1 AND status = ANY($2)", where)
	assert.Len(t, args, 2)
}

func TestPostgresCountByStatus(t *testing.T) {
	repo, mock := newPostgresRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY status")).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("pending", 4).
			AddRow("rejected", 1))

	got, err := repo.CountByStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[models.BookingStatus]int{
		models.BookingStatusPending:  4,
		models.BookingStatusRejected: 1,
	}, got)
}
