package controllers

import (
	"context"
	"delivery-slot-service/internal/app/contracts"
	"delivery-slot-service/internal/app/services/shared/notifier"
	"delivery-slot-service/internal/pkg/constvars"
	"delivery-slot-service/internal/pkg/dto/requests"
	"delivery-slot-service/internal/pkg/dto/responses"
	"delivery-slot-service/internal/pkg/exceptions"
	"delivery-slot-service/internal/pkg/utils"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const streamHeartbeatInterval = 25 * time.Second

type AvailabilityController struct {
	Log            *zap.Logger
	BookingUsecase contracts.BookingUsecase
	Notifier       contracts.AvailabilityNotifier
	RequestTimeout time.Duration
	Heartbeat      time.Duration
	// Done closes open streams when the server shuts down.
	Done <-chan struct{}
}

func NewAvailabilityController(logger *zap.Logger, bookingUsecase contracts.BookingUsecase, availabilityNotifier contracts.AvailabilityNotifier, requestTimeout time.Duration) *AvailabilityController {
	return &AvailabilityController{
		Log:            logger,
		BookingUsecase: bookingUsecase,
		Notifier:       availabilityNotifier,
		RequestTimeout: requestTimeout,
		Heartbeat:      streamHeartbeatInterval,
	}
}

func (ctrl *AvailabilityController) GetCatalog(w http.ResponseWriter, r *http.Request) {
	catalog := ctrl.BookingUsecase.Catalog(r.Context())
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetCatalogSuccessMessage, catalog)
}

func (ctrl *AvailabilityController) GetAvailability(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFrom(r)
	if !ok {
		ctrl.Log.Error("AvailabilityController.GetAvailability requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}

	query := &requests.AvailabilityQuery{
		Date:             strings.TrimSpace(r.URL.Query().Get(constvars.QueryParamDate)),
		DeliveryCategory: strings.TrimSpace(r.URL.Query().Get(constvars.QueryParamCategory)),
	}

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.RequestTimeout)
	defer cancel()

	result, err := ctrl.BookingUsecase.Availability(ctx, utils.GetPrincipal(r.Context()), query)
	if err != nil {
		ctrl.Log.Error("AvailabilityController.GetAvailability error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		writeUsecaseError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetAvailabilitySuccessMessage, result)
}

func (ctrl *AvailabilityController) GetVersion(w http.ResponseWriter, r *http.Request) {
	date := strings.TrimSpace(r.URL.Query().Get(constvars.QueryParamDate))

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.RequestTimeout)
	defer cancel()

	version, err := ctrl.BookingUsecase.AvailabilityVersion(ctx, date)
	if err != nil {
		ctrl.Log.Error("AvailabilityController.GetVersion error from usecase",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(r.Context())),
			zap.Error(err),
		)
		writeUsecaseError(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetAvailabilityVersionSuccessMessage, responses.AvailabilityVersion{
		Date:    date,
		Version: version,
	})
}

// Stream pushes invalidations as server-sent events until the client goes
// away. Without a date every date is streamed.
func (ctrl *AvailabilityController) Stream(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	date := strings.TrimSpace(r.URL.Query().Get(constvars.QueryParamDate))
	if date != "" {
		if _, err := time.Parse(constvars.CalendarDateLayout, date); err != nil {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamValidation(err, "date"))
			return
		}
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerProcess(fmt.Errorf("streaming unsupported")))
		return
	}

	ctx := r.Context()
	events := make(chan string, 16)
	unsubscribe := ctrl.Notifier.Subscribe(subscriptionDate(date), func(changed string) {
		select {
		case events <- changed:
		case <-ctx.Done():
		}
	})
	defer unsubscribe()

	w.Header().Set(constvars.HeaderContentType, constvars.MIMETextEventStream)
	w.Header().Set(constvars.HeaderCacheControl, "no-cache")
	w.Header().Set(constvars.HeaderConnection, "keep-alive")
	w.WriteHeader(http.StatusOK)

	ctrl.Log.Info("AvailabilityController.Stream opened",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBookingDateKey, date),
	)

	if err := writeEvent(w, constvars.SSEEventReady, responses.AvailabilityInvalidation{Date: date}); err != nil {
		return
	}
	flusher.Flush()

	heartbeat := time.NewTicker(ctrl.Heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			ctrl.Log.Info("AvailabilityController.Stream closed",
				zap.String(constvars.LoggingRequestIDKey, requestID),
			)
			return
		case <-ctrl.Done:
			ctrl.Log.Info("AvailabilityController.Stream closed by shutdown",
				zap.String(constvars.LoggingRequestIDKey, requestID),
			)
			return
		case changed := <-events:
			if err := writeEvent(w, constvars.SSEEventInvalidate, responses.AvailabilityInvalidation{Date: changed}); err != nil {
				return
			}
			flusher.Flush()
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func subscriptionDate(date string) string {
	if date == "" {
		return notifier.AllDates
	}
	return date
}

func writeEvent(w http.ResponseWriter, event string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	return err
}
