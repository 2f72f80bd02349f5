package bookings

import (
	"context"
	"delivery-slot-service/internal/app/config"
	"delivery-slot-service/internal/app/contracts"
	"delivery-slot-service/internal/app/models"
	"delivery-slot-service/internal/app/services/core/slots"
	"delivery-slot-service/internal/pkg/constvars"
	"delivery-slot-service/internal/pkg/dto/requests"
	"delivery-slot-service/internal/pkg/dto/responses"
	"delivery-slot-service/internal/pkg/exceptions"
	"delivery-slot-service/internal/pkg/utils"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
)

type bookingUsecase struct {
	repo          contracts.BookingRepository
	locker        contracts.LockerService
	notifier      contracts.AvailabilityNotifier
	notifications contracts.NotificationService
	calculator    *slots.Calculator
	clock         slots.Clock
	log           *zap.Logger

	timezone           string
	deliveryCategories []string
	vehicleCategories  []string
	datastoreTimeout   time.Duration
	lockTTL            time.Duration
	lockWaitTimeout    time.Duration
}

func NewBookingUsecase(
	repo contracts.BookingRepository,
	locker contracts.LockerService,
	notifier contracts.AvailabilityNotifier,
	notifications contracts.NotificationService,
	calculator *slots.Calculator,
	clock slots.Clock,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.BookingUsecase {
	return &bookingUsecase{
		repo:               repo,
		locker:             locker,
		notifier:           notifier,
		notifications:      notifications,
		calculator:         calculator,
		clock:              clock,
		log:                logger,
		timezone:           internalConfig.App.Timezone,
		deliveryCategories: internalConfig.Booking.DeliveryCategories,
		vehicleCategories:  internalConfig.Booking.VehicleCategories,
		datastoreTimeout:   millis(internalConfig.Booking.DatastoreTimeoutInMillis, 3*time.Second),
		lockTTL:            seconds(internalConfig.Booking.LockTTLInSeconds, 15*time.Second),
		lockWaitTimeout:    millis(internalConfig.Booking.LockWaitTimeoutInMillis, 2*time.Second),
	}
}

func millis(value int, fallback time.Duration) time.Duration {
	if value <= 0 {
		return fallback
	}
	return time.Duration(value) * time.Millisecond
}

func seconds(value int, fallback time.Duration) time.Duration {
	if value <= 0 {
		return fallback
	}
	return time.Duration(value) * time.Second
}

// withDatastore bounds one datastore round trip and folds a blown deadline
// into the retryable timeout error.
func (uc *bookingUsecase) withDatastore(ctx context.Context, fn func(ctx context.Context) error) error {
	dsCtx, cancel := context.WithTimeout(ctx, uc.datastoreTimeout)
	defer cancel()

	err := fn(dsCtx)
	if err == nil {
		return nil
	}
	if exceptions.HasCode(err, constvars.ErrCodeDatastoreTimeout) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(dsCtx.Err(), context.DeadlineExceeded) {
		return exceptions.ErrDatastoreTimeout(err)
	}
	return err
}

func requirePrincipal(principal *models.Principal) error {
	if principal == nil || strings.TrimSpace(principal.ID) == "" {
		return exceptions.ErrUnauthenticated(nil)
	}
	return nil
}

func requireAdmin(principal *models.Principal) error {
	if err := requirePrincipal(principal); err != nil {
		return err
	}
	if !principal.IsAdmin {
		return exceptions.ErrForbidden(nil)
	}
	return nil
}

func (uc *bookingUsecase) Catalog(ctx context.Context) *responses.Catalog {
	catalog := uc.calculator.Catalog()
	return &responses.Catalog{
		Slots:              catalog.Strings(),
		GranularityMinutes: catalog.GranularityMinutes(),
		DeliveryCategories: uc.deliveryCategories,
		VehicleCategories:  uc.vehicleCategories,
		Timezone:           uc.timezone,
	}
}

func (uc *bookingUsecase) Availability(ctx context.Context, principal *models.Principal, query *requests.AvailabilityQuery) (*models.Availability, error) {
	requestID := utils.GetRequestID(ctx)
	uc.log.Info("bookingUsecase.Availability called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBookingDateKey, query.Date),
	)

	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(query); err != nil {
		return nil, exceptions.ErrInputValidation(err)
	}

	now := uc.clock.Now()
	date, err := slots.ParseDate(query.Date, now.Location())
	if err != nil {
		return nil, exceptions.ErrInputValidation(err)
	}

	var occupancy []models.Occupancy
	err = uc.withDatastore(ctx, func(ctx context.Context) error {
		var err error
		occupancy, err = uc.repo.ListOccupancy(ctx, query.Date)
		return err
	})
	if err != nil {
		return nil, err
	}

	view := uc.calculator.Compute(date, strings.TrimSpace(query.DeliveryCategory), occupancy, uc.clock.Now())
	if version, err := uc.notifier.Version(ctx, query.Date); err == nil {
		view.Version = version
	} else {
		uc.log.Warn("bookingUsecase.Availability could not read version",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
	}
	return view, nil
}

func (uc *bookingUsecase) AvailabilityVersion(ctx context.Context, date string) (int64, error) {
	if _, err := time.Parse(slots.DateLayout, date); err != nil {
		return 0, exceptions.ErrURLParamValidation(err, "date")
	}
	return uc.notifier.Version(ctx, date)
}

func (uc *bookingUsecase) Submit(ctx context.Context, principal *models.Principal, request *requests.SubmitBooking) (*models.BookingRequest, error) {
	requestID := utils.GetRequestID(ctx)
	uc.log.Info("bookingUsecase.Submit called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBookingDateKey, request.Date),
		zap.String(constvars.LoggingBookingSlotKey, request.Slot),
	)

	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(request); err != nil {
		return nil, exceptions.ErrInputValidation(err)
	}
	slot, err := uc.calculator.Catalog().Parse(request.Slot)
	if err != nil {
		return nil, exceptions.ErrSlotNotInCatalog(err, request.Slot)
	}
	if err := uc.checkCategory("delivery_category", request.DeliveryCategory, uc.deliveryCategories); err != nil {
		return nil, err
	}
	if err := uc.checkCategory("vehicle_category", request.VehicleCategory, uc.vehicleCategories); err != nil {
		return nil, err
	}

	date, err := slots.ParseDate(request.Date, uc.clock.Now().Location())
	if err != nil {
		return nil, exceptions.ErrInputValidation(err)
	}
	if !slots.IsSlotBookable(date, slot, uc.clock.Now()) {
		return nil, exceptions.ErrStaleSlot(nil, request.Date, slot.String())
	}

	created, err := uc.reserve(ctx, principal, request, date, slot)
	if err != nil {
		return nil, err
	}

	uc.publish(ctx, created.Date)
	utils.LogBusinessEvent(uc.log, constvars.EventBookingSubmitted, requestID,
		zap.String(constvars.LoggingBookingIDKey, created.ID),
		zap.String(constvars.LoggingPrincipalIDKey, principal.ID),
		zap.String(constvars.LoggingBookingDateKey, created.Date),
		zap.String(constvars.LoggingBookingSlotKey, created.Slot),
	)
	return created, nil
}

// reserve holds the slot lock only around the re-check and the insert; the
// caller publishes after the lock is gone.
func (uc *bookingUsecase) reserve(ctx context.Context, principal *models.Principal, request *requests.SubmitBooking, date time.Time, slot slots.Slot) (*models.BookingRequest, error) {
	dateLabel := date.Format(slots.DateLayout)
	release, err := uc.lockSlots(ctx, slotLockKey(dateLabel, slot.String()))
	if err != nil {
		return nil, err
	}
	defer release()

	now := uc.clock.Now()
	if !slots.IsSlotBookable(date, slot, now) {
		return nil, exceptions.ErrStaleSlot(nil, dateLabel, slot.String())
	}

	candidate := &models.BookingRequest{
		ID:               utils.GenerateBookingID(),
		RequesterID:      principal.ID,
		RequesterEmail:   principal.Email,
		SupplierName:     strings.TrimSpace(request.SupplierName),
		Date:             dateLabel,
		Slot:             slot.String(),
		DeliveryCategory: strings.TrimSpace(request.DeliveryCategory),
		VehicleCategory:  strings.TrimSpace(request.VehicleCategory),
		Note:             trimmedOrNil(request.Note),
		Status:           models.BookingStatusPending,
		Active:           true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	var created *models.BookingRequest
	err = uc.withDatastore(ctx, func(ctx context.Context) error {
		var err error
		created, err = uc.repo.InsertIfAbsent(ctx, candidate)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (uc *bookingUsecase) Approve(ctx context.Context, principal *models.Principal, bookingID string) (*models.TransitionResult, error) {
	uc.log.Info("bookingUsecase.Approve called",
		zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
		zap.String(constvars.LoggingBookingIDKey, bookingID),
	)
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	return uc.decide(ctx, principal, bookingID, ActionApprove, nil)
}

func (uc *bookingUsecase) Reject(ctx context.Context, principal *models.Principal, bookingID string, request *requests.RejectBooking) (*models.TransitionResult, error) {
	uc.log.Info("bookingUsecase.Reject called",
		zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
		zap.String(constvars.LoggingBookingIDKey, bookingID),
	)
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}

	reason := ""
	if request != nil {
		reason = strings.TrimSpace(request.Reason)
	}
	if reason == "" {
		return nil, exceptions.ErrInputValidationMessage(constvars.ErrClientRejectionReasonRequired)
	}
	if err := utils.ValidateStruct(&requests.RejectBooking{Reason: reason}); err != nil {
		return nil, exceptions.ErrInputValidation(err)
	}
	return uc.decide(ctx, principal, bookingID, ActionReject, &reason)
}

// decide runs approve or reject as a compare-and-set on the status read just
// before, so a concurrent decision surfaces as an illegal transition.
func (uc *bookingUsecase) decide(ctx context.Context, principal *models.Principal, bookingID string, action Action, reason *string) (*models.TransitionResult, error) {
	current, err := uc.findByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	next, err := NextStatus(current.Status, action)
	if err != nil {
		return nil, err
	}

	var updated *models.BookingRequest
	err = uc.withDatastore(ctx, func(ctx context.Context) error {
		var err error
		updated, err = uc.repo.UpdateStatus(ctx, bookingID, current.Status, next, reason, principal.ID, uc.clock.Now())
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.publish(ctx, updated.Date)
	return uc.finishTransition(ctx, principal, updated, action), nil
}

func (uc *bookingUsecase) Reschedule(ctx context.Context, principal *models.Principal, bookingID string, request *requests.RescheduleBooking) (*models.TransitionResult, error) {
	requestID := utils.GetRequestID(ctx)
	uc.log.Info("bookingUsecase.Reschedule called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBookingIDKey, bookingID),
	)

	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(request); err != nil {
		return nil, exceptions.ErrInputValidation(err)
	}
	slot, err := uc.calculator.Catalog().Parse(request.Slot)
	if err != nil {
		return nil, exceptions.ErrSlotNotInCatalog(err, request.Slot)
	}
	newCategory := trimmedOrNil(request.DeliveryCategory)
	if newCategory != nil {
		if err := uc.checkCategory("delivery_category", *newCategory, uc.deliveryCategories); err != nil {
			return nil, err
		}
	}
	date, err := slots.ParseDate(request.Date, uc.clock.Now().Location())
	if err != nil {
		return nil, exceptions.ErrInputValidation(err)
	}
	newDate := date.Format(slots.DateLayout)

	current, err := uc.findByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if _, err := NextStatus(current.Status, ActionReschedule); err != nil {
		return nil, err
	}
	if !occupies(current, newDate, slot) && !slots.IsSlotBookable(date, slot, uc.clock.Now()) {
		return nil, exceptions.ErrStaleSlot(nil, newDate, slot.String())
	}

	updated, vacated, err := uc.move(ctx, principal, current, date, slot, newCategory)
	if err != nil {
		return nil, err
	}

	uc.publish(ctx, vacated.Date)
	if updated.Date != vacated.Date {
		uc.publish(ctx, updated.Date)
	}
	return uc.finishTransition(ctx, principal, updated, ActionReschedule), nil
}

// errScheduleMoved means the booking left the pair we locked before we got
// the lock.
var errScheduleMoved = errors.New("booking moved while waiting for its slot lock")

const maxMoveAttempts = 3

// move retries with fresh lock keys while a concurrent reschedule keeps
// moving the booking away from the pair it locked. It returns the record as
// it was right before the update so the caller can announce the slot it left.
func (uc *bookingUsecase) move(ctx context.Context, principal *models.Principal, current *models.BookingRequest, date time.Time, slot slots.Slot, newCategory *string) (*models.BookingRequest, *models.BookingRequest, error) {
	for attempt := 1; ; attempt++ {
		updated, fresh, err := uc.moveLocked(ctx, principal, current, date, slot, newCategory)
		if !errors.Is(err, errScheduleMoved) {
			return updated, fresh, err
		}
		uc.log.Info("bookingUsecase.move booking moved concurrently, retrying",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.String(constvars.LoggingBookingIDKey, current.ID),
			zap.String(constvars.LoggingBookingDateKey, fresh.Date),
			zap.Int("attempt", attempt),
		)
		if attempt == maxMoveAttempts {
			return nil, nil, exceptions.ErrLockWaitTimeout(err, slotLockKey(fresh.Date, fresh.Slot))
		}
		current = fresh
	}
}

func (uc *bookingUsecase) moveLocked(ctx context.Context, principal *models.Principal, current *models.BookingRequest, date time.Time, slot slots.Slot, newCategory *string) (*models.BookingRequest, *models.BookingRequest, error) {
	newDate := date.Format(slots.DateLayout)
	release, err := uc.lockSlots(ctx,
		slotLockKey(current.Date, current.Slot),
		slotLockKey(newDate, slot.String()),
	)
	if err != nil {
		return nil, nil, err
	}
	defer release()

	fresh, err := uc.findByID(ctx, current.ID)
	if err != nil {
		return nil, nil, err
	}
	if fresh.Date != current.Date || fresh.Slot != current.Slot {
		return nil, fresh, errScheduleMoved
	}
	if _, err := NextStatus(fresh.Status, ActionReschedule); err != nil {
		return nil, nil, err
	}

	now := uc.clock.Now()
	if !occupies(fresh, newDate, slot) && !slots.IsSlotBookable(date, slot, now) {
		return nil, nil, exceptions.ErrStaleSlot(nil, newDate, slot.String())
	}

	var updated *models.BookingRequest
	err = uc.withDatastore(ctx, func(ctx context.Context) error {
		var err error
		updated, err = uc.repo.UpdateSchedule(ctx, fresh.ID, newDate, slot.String(), newCategory, principal.ID, now)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return updated, fresh, nil
}

// occupies reports whether booking already holds the target pair. Staying put
// is allowed even after the slot's cutoff.
func occupies(booking *models.BookingRequest, date string, slot slots.Slot) bool {
	return booking.Date == date && booking.Slot == slot.String()
}

// finishTransition hands the notification off after commit. A hand-off
// failure never undoes the transition; it comes back as a warning.
func (uc *bookingUsecase) finishTransition(ctx context.Context, principal *models.Principal, booking *models.BookingRequest, action Action) *models.TransitionResult {
	requestID := utils.GetRequestID(ctx)
	kind := notificationKindFor(action)

	utils.LogBusinessEvent(uc.log, businessEventFor(action), requestID,
		zap.String(constvars.LoggingBookingIDKey, booking.ID),
		zap.String(constvars.LoggingPrincipalIDKey, principal.ID),
		zap.String(constvars.LoggingBookingStatusKey, string(booking.Status)),
	)

	result := &models.TransitionResult{Booking: booking}
	if err := uc.notifications.Notify(ctx, models.NewNotificationIntent(booking, kind)); err != nil {
		uc.log.Warn("bookingUsecase notification hand-off failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingBookingIDKey, booking.ID),
			zap.String(constvars.LoggingNotificationKindKey, string(kind)),
			zap.Error(err),
		)
		result.Warnings = append(result.Warnings, models.NotificationDeliveryWarning{
			Code:      constvars.ErrCodeNotificationDelivery,
			RequestID: booking.ID,
			Kind:      kind,
			Message:   constvars.WarnClientNotificationNotDelivered,
		})
	}
	return result
}

func businessEventFor(action Action) string {
	switch action {
	case ActionApprove:
		return constvars.EventBookingApproved
	case ActionReject:
		return constvars.EventBookingRejected
	default:
		return constvars.EventBookingRescheduled
	}
}

// publish is best effort. Subscribers still converge through polling and the
// cutoff worker when an invalidation is lost.
func (uc *bookingUsecase) publish(ctx context.Context, date string) {
	if err := uc.notifier.Publish(ctx, date); err != nil {
		uc.log.Warn("bookingUsecase availability publish failed",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.String(constvars.LoggingBookingDateKey, date),
			zap.Error(err),
		)
	}
}

func (uc *bookingUsecase) findByID(ctx context.Context, bookingID string) (*models.BookingRequest, error) {
	if strings.TrimSpace(bookingID) == "" {
		return nil, exceptions.ErrBookingNotFound(nil, bookingID)
	}
	var booking *models.BookingRequest
	err := uc.withDatastore(ctx, func(ctx context.Context) error {
		var err error
		booking, err = uc.repo.FindByID(ctx, bookingID)
		return err
	})
	return booking, err
}

func (uc *bookingUsecase) FindByID(ctx context.Context, principal *models.Principal, bookingID string) (*models.BookingRequest, error) {
	uc.log.Info("bookingUsecase.FindByID called",
		zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
		zap.String(constvars.LoggingBookingIDKey, bookingID),
	)
	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}

	booking, err := uc.findByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !principal.IsAdmin && booking.RequesterID != principal.ID {
		return nil, exceptions.ErrNotBookingOwner(nil, bookingID)
	}
	return booking, nil
}

func (uc *bookingUsecase) List(ctx context.Context, principal *models.Principal, query *requests.BookingListQuery) ([]models.BookingRequest, int, error) {
	uc.log.Info("bookingUsecase.List called",
		zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
	)
	if err := requirePrincipal(principal); err != nil {
		return nil, 0, err
	}
	if err := utils.ValidateStruct(query); err != nil {
		return nil, 0, exceptions.ErrInputValidation(err)
	}

	filter := models.BookingFilter{
		Date:     query.Date,
		Scope:    models.BookingScope(query.Scope),
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	if query.Status != "" {
		filter.Statuses = []models.BookingStatus{models.BookingStatus(query.Status)}
	}
	if !principal.IsAdmin {
		filter.RequesterID = principal.ID
	}

	var (
		bookings []models.BookingRequest
		total    int
	)
	err := uc.withDatastore(ctx, func(ctx context.Context) error {
		var err error
		bookings, total, err = uc.repo.Find(ctx, filter)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

func (uc *bookingUsecase) Stats(ctx context.Context, principal *models.Principal) (*models.BookingStats, error) {
	uc.log.Info("bookingUsecase.Stats called",
		zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
	)
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}

	var counts map[models.BookingStatus]int
	err := uc.withDatastore(ctx, func(ctx context.Context) error {
		var err error
		counts, err = uc.repo.CountByStatus(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	stats := models.NewBookingStats(counts)
	return &stats, nil
}

// checkCategory accepts anything when no list is configured; tags stay opaque.
func (uc *bookingUsecase) checkCategory(field, value string, allowed []string) error {
	if len(allowed) == 0 {
		return nil
	}
	value = strings.TrimSpace(value)
	for _, a := range allowed {
		if strings.EqualFold(a, value) {
			return nil
		}
	}
	return exceptions.ErrCategoryNotAllowed(nil, field, value)
}

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
