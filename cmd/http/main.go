package main

import (
	"context"
	"delivery-slot-service/internal/app/config"
	"delivery-slot-service/internal/app/contracts"
	"delivery-slot-service/internal/app/delivery/http/controllers"
	"delivery-slot-service/internal/app/delivery/http/middlewares"
	"delivery-slot-service/internal/app/delivery/http/routers"
	"delivery-slot-service/internal/app/drivers/database"
	"delivery-slot-service/internal/app/drivers/logger"
	"delivery-slot-service/internal/app/drivers/mailer"
	"delivery-slot-service/internal/app/drivers/messaging"
	"delivery-slot-service/internal/app/services/core/bookings"
	"delivery-slot-service/internal/app/services/core/slots"
	"delivery-slot-service/internal/app/services/shared/jwtmanager"
	"delivery-slot-service/internal/app/services/shared/locker"
	notificationmailer "delivery-slot-service/internal/app/services/shared/mailer"
	"delivery-slot-service/internal/app/services/shared/notifier"
	"delivery-slot-service/internal/app/services/shared/ratelimiter"
	"delivery-slot-service/internal/app/services/shared/redis"
	"delivery-slot-service/internal/app/services/shared/smtp"
	"delivery-slot-service/internal/pkg/constvars"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	migrate "github.com/rubenv/sql-migrate"
	"go.uber.org/zap"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	log := logger.NewZapLogger(driverConfig, internalConfig)

	location, err := time.LoadLocation(internalConfig.App.Timezone)
	if err != nil {
		log.Fatal("Error loading location", zap.String("timezone", internalConfig.App.Timezone), zap.Error(err))
	}
	time.Local = location

	bootstrap := &config.Bootstrap{
		Router:         chi.NewRouter(),
		Redis:          database.NewRedisClient(driverConfig, log),
		Logger:         log,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
	}

	switch driverConfig.Datastore.Driver {
	case constvars.DatastoreDriverPostgres:
		bootstrap.PostgresDB = database.NewPostgresDB(driverConfig, log)
	case constvars.DatastoreDriverMongo:
		bootstrap.MongoDB = database.NewMongoDB(driverConfig, log)
	}
	if internalConfig.Notification.Enabled {
		bootstrap.RabbitMQ = messaging.NewRabbitMQ(driverConfig, log)
	}

	rootCtx, stopWorkers := context.WithCancel(context.Background())
	if err := bootstrapingTheApp(rootCtx, bootstrap); err != nil {
		log.Fatal("Failed to bootstrap the app", zap.Error(err))
	}

	server := &http.Server{
		Addr:              internalConfig.App.Port,
		Handler:           bootstrap.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server listening", zap.String("address", internalConfig.App.Port))
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	log.Info("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeout),
	)
	defer cancel()

	// Shutdown waits for open availability streams; cancelling the root
	// context ends them.
	server.RegisterOnShutdown(stopWorkers)
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	stopWorkers()

	if err := bootstrap.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to release resources", zap.Error(err))
	}

	log.Info("Server exiting")
}

func bootstrapingTheApp(ctx context.Context, bootstrap *config.Bootstrap) error {
	log := bootstrap.Logger
	internalConfig := bootstrap.InternalConfig

	// Redis
	redisRepository := redis.NewRedisRepository(bootstrap.Redis)
	lockerService := locker.NewLockService(
		redisRepository,
		log,
		time.Duration(internalConfig.Booking.LockRetryIntervalInMillis)*time.Millisecond,
	)

	// Availability invalidations
	hub := notifier.NewHub(log)
	bridge := notifier.NewRedisBridge(hub, redisRepository, log)
	if err := bridge.Start(ctx); err != nil {
		log.Warn("Availability bridge not started, invalidations stay local", zap.Error(err))
	}
	bootstrap.WorkerStop = append(bootstrap.WorkerStop, bridge.Stop)

	// Slots
	catalog, err := slots.NewCatalog(internalConfig.Slots)
	if err != nil {
		return err
	}
	clock, err := slots.NewSystemClock(internalConfig.App.Timezone)
	if err != nil {
		return err
	}
	calculator := slots.NewCalculator(catalog)

	worker := slots.NewWorker(log, internalConfig, catalog, lockerService, bridge, clock)
	worker.Start(ctx)
	bootstrap.WorkerStop = append(bootstrap.WorkerStop, worker.Stop)

	// Notifications
	notificationService, err := setupNotifications(bootstrap)
	if err != nil {
		return err
	}

	// Bookings
	bookingRepository, err := setupBookingRepository(ctx, bootstrap)
	if err != nil {
		return err
	}
	bookingUsecase := bookings.NewBookingUsecase(
		bookingRepository,
		lockerService,
		bridge,
		notificationService,
		calculator,
		clock,
		internalConfig,
		log,
	)

	// Identity
	jwtManager, err := jwtmanager.NewJWTManager(internalConfig, log)
	if err != nil {
		return err
	}
	streamLimiter := ratelimiter.NewResourceLimiter(redisRepository, log)

	// Middlewares
	middlewares := middlewares.NewMiddlewares(log, internalConfig, jwtManager, streamLimiter)

	requestTimeout := time.Duration(internalConfig.App.RequestTimeoutInSeconds) * time.Second
	bookingController := controllers.NewBookingController(log, bookingUsecase, requestTimeout)
	availabilityController := controllers.NewAvailabilityController(log, bookingUsecase, bridge, requestTimeout)
	availabilityController.Done = ctx.Done()

	routers.SetupRoutes(bootstrap.Router, internalConfig, middlewares, bookingController, availabilityController)
	return nil
}

func setupBookingRepository(ctx context.Context, bootstrap *config.Bootstrap) (contracts.BookingRepository, error) {
	log := bootstrap.Logger
	driver := bootstrap.DriverConfig.Datastore.Driver

	switch driver {
	case constvars.DatastoreDriverPostgres:
		if bootstrap.InternalConfig.Booking.PostgresRunMigrationsOnStart {
			n, err := database.RunMigrations(bootstrap.PostgresDB, database.MigrationDir, migrate.Up, 0)
			if err != nil {
				return nil, err
			}
			log.Info("Applied postgres migrations", zap.Int("count", n))
		}
		return bookings.NewBookingPostgresRepository(bootstrap.PostgresDB, log), nil

	case constvars.DatastoreDriverMongo:
		repository := bookings.NewBookingMongoRepository(bootstrap.MongoDB, bootstrap.DriverConfig.MongoDB.DbName)
		if bootstrap.InternalConfig.Booking.MongoEnsureIndexesOnStartup {
			indexCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			defer cancel()
			if err := repository.EnsureIndexes(indexCtx); err != nil {
				return nil, err
			}
			log.Info("Ensured booking indexes on MongoDB")
		}
		return repository, nil

	case constvars.DatastoreDriverMemory:
		log.Warn("Using the in-memory booking datastore, bookings are lost on restart")
		return bookings.NewBookingMemoryRepository(), nil
	}

	return nil, errors.New("unknown DATASTORE_DRIVER " + driver)
}

func setupNotifications(bootstrap *config.Bootstrap) (contracts.NotificationService, error) {
	log := bootstrap.Logger
	notificationConfig := bootstrap.InternalConfig.Notification

	if bootstrap.RabbitMQ == nil {
		log.Warn("Notifications disabled, decisions are only logged")
		return notificationmailer.NewLogOnlyNotificationService(log), nil
	}

	queue, err := notificationmailer.NewNotificationQueue(
		bootstrap.RabbitMQ,
		log,
		notificationConfig.RabbitMQQueue,
		notificationConfig.ConsumerPrefetch,
	)
	if err != nil {
		return nil, err
	}
	bootstrap.WorkerStop = append(bootstrap.WorkerStop, func() {
		if err := queue.Close(); err != nil {
			log.Warn("Failed to close notification queue", zap.Error(err))
		}
	})

	if notificationConfig.ConsumerEnabled {
		emailSender := smtp.NewSmtpService(mailer.NewSMTPClient(bootstrap.DriverConfig))
		consumer := notificationmailer.NewNotificationConsumer(queue, emailSender, notificationConfig.MaxDeliveryFaults, log)
		if err := consumer.Start(); err != nil {
			return nil, err
		}
		bootstrap.WorkerStop = append(bootstrap.WorkerStop, consumer.Stop)
	}

	timeout := time.Duration(bootstrap.InternalConfig.Booking.NotificationTimeoutInMillis) * time.Millisecond
	return notificationmailer.NewNotificationService(queue, timeout, log), nil
}
