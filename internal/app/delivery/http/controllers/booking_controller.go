package controllers

import (
	"context"
	"delivery-slot-service/internal/app/contracts"
	"delivery-slot-service/internal/app/models"
	"delivery-slot-service/internal/pkg/constvars"
	"delivery-slot-service/internal/pkg/dto/requests"
	"delivery-slot-service/internal/pkg/exceptions"
	"delivery-slot-service/internal/pkg/utils"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BookingController struct {
	Log            *zap.Logger
	BookingUsecase contracts.BookingUsecase
	RequestTimeout time.Duration
}

func NewBookingController(logger *zap.Logger, bookingUsecase contracts.BookingUsecase, requestTimeout time.Duration) *BookingController {
	return &BookingController{
		Log:            logger,
		BookingUsecase: bookingUsecase,
		RequestTimeout: requestTimeout,
	}
}

func (ctrl *BookingController) Submit(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFrom(r)
	if !ok {
		ctrl.Log.Error("BookingController.Submit requestID not found in context")
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrMissingRequestID(nil))
		return
	}
	ctrl.Log.Info("BookingController.Submit called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	request := new(requests.SubmitBooking)
	if err := utils.ParseJSONBody(r, request); err != nil {
		ctrl.Log.Error("BookingController.Submit error parsing body",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.RequestTimeout)
	defer cancel()

	result, err := ctrl.BookingUsecase.Submit(ctx, utils.GetPrincipal(r.Context()), request)
	if err != nil {
		ctrl.Log.Error("BookingController.Submit error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		writeUsecaseError(ctrl.Log, w, err)
		return
	}

	ctrl.Log.Info("BookingController.Submit succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBookingIDKey, result.ID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.SubmitBookingSuccessMessage, result)
}

func (ctrl *BookingController) List(w http.ResponseWriter, r *http.Request) {
	requestID := utils.GetRequestID(r.Context())
	pagination := utils.BuildPaginationRequest(r)
	values := r.URL.Query()

	query := &requests.BookingListQuery{
		Status:     strings.TrimSpace(values.Get(constvars.QueryParamStatus)),
		Scope:      strings.TrimSpace(values.Get(constvars.QueryParamScope)),
		Date:       strings.TrimSpace(values.Get(constvars.QueryParamDate)),
		Pagination: *pagination,
	}

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.RequestTimeout)
	defer cancel()

	result, total, err := ctrl.BookingUsecase.List(ctx, utils.GetPrincipal(r.Context()), query)
	if err != nil {
		ctrl.Log.Error("BookingController.List error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		writeUsecaseError(ctrl.Log, w, err)
		return
	}

	paginationData := utils.BuildPaginationResponse(total, pagination.Page, pagination.PageSize, r.URL.Path)
	utils.BuildSuccessResponseWithPagination(w, constvars.StatusOK, constvars.ListBookingsSuccessMessage, paginationData, result)
}

func (ctrl *BookingController) Stats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), ctrl.RequestTimeout)
	defer cancel()

	result, err := ctrl.BookingUsecase.Stats(ctx, utils.GetPrincipal(r.Context()))
	if err != nil {
		writeUsecaseError(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetBookingStatsSuccessMessage, result)
}

func (ctrl *BookingController) FindByID(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, constvars.URLParamBookingID)

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.RequestTimeout)
	defer cancel()

	result, err := ctrl.BookingUsecase.FindByID(ctx, utils.GetPrincipal(r.Context()), bookingID)
	if err != nil {
		ctrl.Log.Error("BookingController.FindByID error from usecase",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(r.Context())),
			zap.String(constvars.LoggingBookingIDKey, bookingID),
			zap.Error(err),
		)
		writeUsecaseError(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetBookingSuccessMessage, result)
}

func (ctrl *BookingController) Approve(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, constvars.URLParamBookingID)

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.RequestTimeout)
	defer cancel()

	result, err := ctrl.BookingUsecase.Approve(ctx, utils.GetPrincipal(r.Context()), bookingID)
	ctrl.writeTransition(w, r, "Approve", bookingID, constvars.ApproveBookingSuccessMessage, result, err)
}

func (ctrl *BookingController) Reject(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, constvars.URLParamBookingID)

	request := new(requests.RejectBooking)
	if err := utils.ParseJSONBody(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.RequestTimeout)
	defer cancel()

	result, err := ctrl.BookingUsecase.Reject(ctx, utils.GetPrincipal(r.Context()), bookingID, request)
	ctrl.writeTransition(w, r, "Reject", bookingID, constvars.RejectBookingSuccessMessage, result, err)
}

func (ctrl *BookingController) Reschedule(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, constvars.URLParamBookingID)

	request := new(requests.RescheduleBooking)
	if err := utils.ParseJSONBody(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), ctrl.RequestTimeout)
	defer cancel()

	result, err := ctrl.BookingUsecase.Reschedule(ctx, utils.GetPrincipal(r.Context()), bookingID, request)
	ctrl.writeTransition(w, r, "Reschedule", bookingID, constvars.RescheduleBookingSuccessMessage, result, err)
}

// writeTransition answers 200 for every committed transition. Notification
// warnings ride along in the payload with a different message.
func (ctrl *BookingController) writeTransition(w http.ResponseWriter, r *http.Request, op, bookingID, message string, result *models.TransitionResult, err error) {
	requestID := utils.GetRequestID(r.Context())
	if err != nil {
		ctrl.Log.Error("BookingController."+op+" error from usecase",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingBookingIDKey, bookingID),
			zap.Error(err),
		)
		writeUsecaseError(ctrl.Log, w, err)
		return
	}

	if len(result.Warnings) > 0 {
		ctrl.Log.Warn("BookingController."+op+" committed with warnings",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingBookingIDKey, bookingID),
			zap.Int("warning_count", len(result.Warnings)),
		)
		message = constvars.TransitionWithWarningsMessage
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, message, result)
}
