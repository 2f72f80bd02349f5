package config

import (
	"context"
	"database/sql"

	"github.com/go-chi/chi/v5"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Bootstrap struct {
	Router         *chi.Mux
	Redis          *redis.Client
	PostgresDB     *sql.DB
	MongoDB        *mongo.Client
	Logger         *zap.Logger
	RabbitMQ       *amqp091.Connection
	InternalConfig *InternalConfig
	DriverConfig   *DriverConfig
	// WorkerStop if set will be called during Shutdown to gracefully stop background workers
	WorkerStop []func()
}

func (b *Bootstrap) Shutdown(ctx context.Context) error {
	for i := len(b.WorkerStop) - 1; i >= 0; i-- {
		b.WorkerStop[i]()
	}
	b.Logger.Info("Successfully stopped background workers")

	if b.RabbitMQ != nil {
		if err := b.RabbitMQ.Close(); err != nil {
			return err
		}
		b.Logger.Info("Successfully closing RabbitMQ")
	}

	if b.MongoDB != nil {
		if err := b.MongoDB.Disconnect(ctx); err != nil {
			return err
		}
		b.Logger.Info("Successfully closing MongoDB")
	}

	if b.PostgresDB != nil {
		if err := b.PostgresDB.Close(); err != nil {
			return err
		}
		b.Logger.Info("Successfully closing PostgresDB")
	}

	if b.Redis != nil {
		if err := b.Redis.Close(); err != nil {
			return err
		}
		b.Logger.Info("Successfully closing Redis")
	}

	// stdout sync returns EINVAL on some platforms, nothing to act on
	_ = b.Logger.Sync()
	return nil
}
