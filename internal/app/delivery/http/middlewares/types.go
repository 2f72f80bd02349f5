package middlewares

import (
	"context"
	"delivery-slot-service/internal/app/config"
	"delivery-slot-service/internal/app/services/shared/jwtmanager"
	"delivery-slot-service/internal/app/services/shared/ratelimiter"

	"go.uber.org/zap"
)

type TokenVerifier interface {
	VerifyToken(ctx context.Context, in *jwtmanager.VerifyTokenInput) (*jwtmanager.VerifyTokenOutput, error)
}

type StreamLimiter interface {
	ApplyResourceLimiter(ctx context.Context, in *ratelimiter.ApplyResourceLimiterInput) (*ratelimiter.ApplyResourceLimiterOutput, error)
}

type Middlewares struct {
	Log            *zap.Logger
	InternalConfig *config.InternalConfig
	TokenVerifier  TokenVerifier
	StreamLimiter  StreamLimiter
}

func NewMiddlewares(logger *zap.Logger, internalConfig *config.InternalConfig, tokenVerifier TokenVerifier, streamLimiter StreamLimiter) *Middlewares {
	return &Middlewares{
		Log:            logger,
		InternalConfig: internalConfig,
		TokenVerifier:  tokenVerifier,
		StreamLimiter:  streamLimiter,
	}
}
