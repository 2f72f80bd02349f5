package constvars

const (
	RedisSlotLockKeyFormat            = "booking:lock:slot:%s:%s"
	RedisAvailabilityVersionKeyFormat = "availability:version:%s"
	RedisAvailabilityChannel          = "availability:changed"
	RedisAvailabilityWorkerLeaderKey  = "availability:worker:leader"
)

const (
	PostgresTableBookingRequests   = "booking_requests"
	PostgresUniqueViolationCode    = "23505"
	PostgresUniqueActiveSlotIndex  = "booking_requests_active_slot_uidx"
	MongoCollectionBookingRequests = "booking_requests"
	MongoUniqueActiveSlotIndex     = "active_date_slot_unique"
	MongoDuplicateKeyErrorCode     = 11000
)

const (
	EventBookingSubmitted   = "booking.submitted"
	EventBookingApproved    = "booking.approved"
	EventBookingRejected    = "booking.rejected"
	EventBookingRescheduled = "booking.rescheduled"
)

const (
	CalendarDateLayout = "2006-01-02"
)

const (
	SSEEventInvalidate = "invalidate"
	SSEEventReady      = "ready"
)

const (
	DeadLetterQueueSuffix = "_dlq"
)

var (
	DefaultDeliveryCategories = []string{"material", "equipamento", "documento", "outros"}
	DefaultVehicleCategories  = []string{"moto", "carro", "van", "caminhao"}
)
