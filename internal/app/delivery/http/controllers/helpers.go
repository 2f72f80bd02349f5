package controllers

import (
	"context"
	"delivery-slot-service/internal/pkg/constvars"
	"delivery-slot-service/internal/pkg/exceptions"
	"delivery-slot-service/internal/pkg/utils"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

func requestIDFrom(r *http.Request) (string, bool) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	return requestID, ok && requestID != ""
}

// writeUsecaseError maps a bare request deadline to the gateway timeout and
// lets every CustomError speak for itself.
func writeUsecaseError(log *zap.Logger, w http.ResponseWriter, err error) {
	var customErr *exceptions.CustomError
	if !errors.As(err, &customErr) && errors.Is(err, context.DeadlineExceeded) {
		utils.BuildErrorResponse(log, w, exceptions.ErrServerDeadlineExceeded(err))
		return
	}
	utils.BuildErrorResponse(log, w, err)
}
