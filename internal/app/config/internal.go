package config

type InternalConfig struct {
	App          App
	JWT          AppJWT
	Slots        AppSlots
	Booking      AppBooking
	Notification AppNotification
	Worker       AppWorker
}

type App struct {
	Env                         string
	Port                        string
	Version                     string
	Address                     string
	Timezone                    string
	EndpointPrefix              string
	MaxRequests                 int
	ServiceAccountMaxRequests   int
	ShutdownTimeout             int
	RequestTimeoutInSeconds     int
	SubmissionsPerMinute        int
	SubmissionBlockTimeInSecond int
	StreamConnectsPerMinute     int
	AdminEmailDomain            string
	AdminAPIKeyHash             string
	AllowedOrigins              []string
}

type AppJWT struct {
	Secret        string
	Issuer        string
	ExpTimeInHour int
}

// AppSlots describes the operating day. DayEnd is exclusive and a lunch gap is
// skipped only when both LunchStart and LunchEnd are set.
type AppSlots struct {
	DayStart           string
	DayEnd             string
	GranularityMinutes int
	LunchStart         string
	LunchEnd           string
}

type AppBooking struct {
	DeliveryCategories           []string
	VehicleCategories            []string
	DatastoreTimeoutInMillis     int
	LockTTLInSeconds             int
	LockWaitTimeoutInMillis      int
	LockRetryIntervalInMillis    int
	NotificationTimeoutInMillis  int
	MongoEnsureIndexesOnStartup  bool
	PostgresRunMigrationsOnStart bool
}

type AppNotification struct {
	Enabled           bool
	RabbitMQQueue     string
	ConsumerPrefetch  int
	ConsumerEnabled   bool
	MaxDeliveryFaults int
}

type AppWorker struct {
	// AvailabilityRefreshCronSpec overrides the schedule derived from the
	// slot catalog. Empty means fire at every slot start.
	AvailabilityRefreshCronSpec string
	LeaderLockTTLInSeconds      int
}
