package contracts

import (
	"context"
	"delivery-slot-service/internal/pkg/dto/requests"
)

type EmailSender interface {
	SendEmail(ctx context.Context, request *requests.EmailPayload) error
}
