package config

import (
	"delivery-slot-service/internal/pkg/constvars"
	"delivery-slot-service/internal/pkg/utils"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		Datastore: Datastore{
			Driver: utils.GetEnvString("DATASTORE_DRIVER", constvars.DatastoreDriverPostgres),
		},
		PostgresDB: PostgresDB{
			Host:     utils.GetEnvString("POSTGRES_HOST", "localhost"),
			Port:     utils.GetEnvString("POSTGRES_PORT", "5432"),
			Username: utils.GetEnvString("POSTGRES_USERNAME", "postgres"),
			Password: utils.GetEnvString("POSTGRES_PASSWORD", "postgres"),
			DBName:   utils.GetEnvString("POSTGRES_DB_NAME", "delivery_slots"),
			SSLMode:  utils.GetEnvString("POSTGRES_SSL_MODE", "disable"),
		},
		MongoDB: MongoDB{
			Port:     utils.GetEnvString("MONGODB_PORT", "27017"),
			Host:     utils.GetEnvString("MONGODB_HOST", "localhost"),
			DbName:   utils.GetEnvString("MONGODB_DB_NAME", "delivery_slots"),
			Username: utils.GetEnvString("MONGODB_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("MONGODB_PASSWORD", "defaultPassword"),
		},
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", ""),
			DB:       utils.GetEnvInt("REDIS_DB", 0),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
		RabbitMQ: RabbitMQ{
			Port:     utils.GetEnvString("RABBITMQ_PORT", "5672"),
			Host:     utils.GetEnvString("RABBITMQ_HOST", "localhost"),
			Username: utils.GetEnvString("RABBITMQ_USERNAME", "guest"),
			Password: utils.GetEnvString("RABBITMQ_PASSWORD", "guest"),
		},
		SMTP: SMTP{
			Host:        utils.GetEnvString("SMTP_HOST", "localhost"),
			Port:        utils.GetEnvInt("SMTP_PORT", 2525),
			Username:    utils.GetEnvString("SMTP_USERNAME", ""),
			Password:    utils.GetEnvString("SMTP_PASSWORD", ""),
			EmailSender: utils.GetEnvString("SMTP_EMAIL_SENDER", "no-reply@localhost"),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:                         utils.GetEnvString("APP_ENV", constvars.AppEnvDevelopment),
			Port:                        utils.GetEnvString("APP_PORT", ":8080"),
			Version:                     utils.GetEnvString("APP_VERSION", "v1"),
			Address:                     utils.GetEnvString("APP_ADDRESS", "localhost"),
			Timezone:                    utils.GetEnvString("APP_TIMEZONE", "America/Sao_Paulo"),
			EndpointPrefix:              utils.GetEnvString("APP_ENDPOINT_PREFIX", "api"),
			MaxRequests:                 utils.GetEnvInt("APP_MAX_REQUEST", 20),
			ServiceAccountMaxRequests:   utils.GetEnvInt("APP_SERVICE_ACCOUNT_MAX_REQUEST", 100),
			ShutdownTimeout:             utils.GetEnvInt("APP_SHUTDOWN_TIMEOUT", 10),
			RequestTimeoutInSeconds:     utils.GetEnvInt("APP_REQUEST_TIMEOUT_IN_SECONDS", 10),
			SubmissionsPerMinute:        utils.GetEnvInt("APP_SUBMISSIONS_PER_MINUTE", 10),
			SubmissionBlockTimeInSecond: utils.GetEnvInt("APP_SUBMISSION_BLOCK_TIME_IN_SECONDS", 60),
			StreamConnectsPerMinute:     utils.GetEnvInt("APP_STREAM_CONNECTS_PER_MINUTE", 30),
			AdminEmailDomain:            utils.GetEnvString("APP_ADMIN_EMAIL_DOMAIN", "mmm.com"),
			AdminAPIKeyHash:             utils.GetEnvString("APP_ADMIN_API_KEY_HASH", ""),
			AllowedOrigins:              utils.GetEnvStringSlice("APP_ALLOWED_ORIGINS", []string{"*"}),
		},
		JWT: AppJWT{
			Secret:        utils.GetEnvString("JWT_SECRET", "anyjwt"),
			Issuer:        utils.GetEnvString("JWT_ISSUER", ""),
			ExpTimeInHour: utils.GetEnvInt("JWT_EXP_TIME_IN_HOUR", 8),
		},
		Slots: AppSlots{
			DayStart:           utils.GetEnvString("APP_SLOT_DAY_START", "08:00"),
			DayEnd:             utils.GetEnvString("APP_SLOT_DAY_END", "18:00"),
			GranularityMinutes: utils.GetEnvInt("APP_SLOT_GRANULARITY_MINUTES", 30),
			LunchStart:         utils.GetEnvString("APP_SLOT_LUNCH_START", ""),
			LunchEnd:           utils.GetEnvString("APP_SLOT_LUNCH_END", ""),
		},
		Booking: AppBooking{
			DeliveryCategories:           utils.GetEnvStringSlice("APP_DELIVERY_CATEGORIES", constvars.DefaultDeliveryCategories),
			VehicleCategories:            utils.GetEnvStringSlice("APP_VEHICLE_CATEGORIES", constvars.DefaultVehicleCategories),
			DatastoreTimeoutInMillis:     utils.GetEnvInt("APP_DATASTORE_TIMEOUT_IN_MILLISECONDS", 3000),
			LockTTLInSeconds:             utils.GetEnvInt("APP_SLOT_LOCK_TTL_IN_SECONDS", 15),
			LockWaitTimeoutInMillis:      utils.GetEnvInt("APP_LOCK_WAIT_TIMEOUT_IN_MILLISECONDS", 2000),
			LockRetryIntervalInMillis:    utils.GetEnvInt("APP_LOCK_RETRY_INTERVAL_IN_MILLISECONDS", 50),
			NotificationTimeoutInMillis:  utils.GetEnvInt("APP_NOTIFICATION_TIMEOUT_IN_MILLISECONDS", 2000),
			MongoEnsureIndexesOnStartup:  utils.GetEnvBool("APP_MONGO_ENSURE_INDEXES", true),
			PostgresRunMigrationsOnStart: utils.GetEnvBool("APP_POSTGRES_RUN_MIGRATIONS", false),
		},
		Notification: AppNotification{
			Enabled:           utils.GetEnvBool("APP_NOTIFICATION_ENABLED", true),
			RabbitMQQueue:     utils.GetEnvString("APP_RABBITMQ_NOTIFICATION_QUEUE", "booking_notifications"),
			ConsumerPrefetch:  utils.GetEnvInt("APP_NOTIFICATION_CONSUMER_PREFETCH", 5),
			ConsumerEnabled:   utils.GetEnvBool("APP_NOTIFICATION_CONSUMER_ENABLED", true),
			MaxDeliveryFaults: utils.GetEnvInt("APP_NOTIFICATION_MAX_DELIVERY_FAULTS", 3),
		},
		Worker: AppWorker{
			AvailabilityRefreshCronSpec: utils.GetEnvString("APP_AVAILABILITY_REFRESH_CRON", ""),
			LeaderLockTTLInSeconds:      utils.GetEnvInt("APP_WORKER_LEADER_LOCK_TTL_IN_SECONDS", 120),
		},
	}
}
