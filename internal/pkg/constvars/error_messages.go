package constvars

// Validation messages mapper
var CustomValidationErrorMessages = map[string]string{
	"required":      "is required",
	"email":         "must be a valid email",
	"min":           "must be at least %s characters long",
	"max":           "maximum at %s characters long",
	"oneof":         "must be one of [%s]",
	"gte":           "must be greater than or equal to %s",
	"lte":           "must be less than or equal to %s",
	"uuid":          "must be a valid UUID",
	"slot_time":     "must be a time of day formatted as HH:MM",
	"calendar_date": "must be a date formatted as YYYY-MM-DD",
	"not_blank":     "must not be blank",
}

// Tags that require parameter substitution
var TagsWithParams = map[string]bool{
	"min":   true,
	"max":   true,
	"oneof": true,
	"gte":   true,
	"lte":   true,
}

// Error messages for clients
const (
	ErrClientCannotProcessRequest          = "failed to process your request"
	ErrClientSomethingWrongWithApplication = "there is something wrong with the application"
	ErrClientServerLongRespond             = "the app taking too long to respond"
	ErrClientNotAuthorized                 = "you can't access this feature"
	ErrClientNotLoggedIn                   = "your session ended, please login again"
	ErrClientSlotJustTaken                 = "slot just taken, please choose another"
	ErrClientSlotNoLongerBookable          = "this slot is no longer bookable, please refresh availability"
	ErrClientSlotNotOffered                = "the requested slot is not offered"
	ErrClientBookingChangedRefresh         = "this request was already processed, please refresh and try again"
	ErrClientBookingNotFound               = "booking request not found"
	ErrClientTryAgainLater                 = "the service is busy, please try again"
	ErrClientTooManyRequests               = "too many requests, please slow down"
	ErrClientRejectionReasonRequired       = "reason must not be blank"
	WarnClientNotificationNotDelivered     = "the change is saved but the requester could not be notified"
)

// Error messages for developers
const (
	ErrDevInvalidInput               = "invalid input"
	ErrDevValidationFailed           = "validation failed"
	ErrDevCannotParseJSON            = "cannot parse JSON"
	ErrDevCannotMarshalJSON          = "cannot marshal JSON"
	ErrDevURLParamValidationFailed   = "url param %s validation failed"
	ErrDevServerDeadlineExceeded     = "server deadline exceeded"
	ErrDevServerProcess              = "server failed to process"
	ErrDevMissingRequestID           = "request id missing in context"
	ErrDevAuthTokenMissing           = "auth token missing"
	ErrDevAuthTokenInvalidOrExpired  = "auth token invalid or expired"
	ErrDevAuthSigningMethod          = "unexpected token signing method"
	ErrDevAuthInvalidAPIKey          = "invalid api key"
	ErrDevPrincipalMissing           = "principal missing in context"
	ErrDevPrincipalNotAdmin          = "principal lacks admin capability"
	ErrDevPrincipalNotOwner          = "principal does not own booking %s"
	ErrDevSlotConflict               = "slot %s on %s already held by an active request"
	ErrDevSlotStale                  = "slot %s on %s is past its cutoff"
	ErrDevSlotNotInCatalog           = "slot %s not in catalog"
	ErrDevCategoryNotAllowed         = "%s %q not allowed"
	ErrDevIllegalTransition          = "illegal transition %s from status %s"
	ErrDevBookingNotFound            = "booking %s not found"
	ErrDevDatastoreTimeout           = "datastore round trip timed out"
	ErrDevLockWaitTimeout            = "timed out waiting for slot lock %s"
	ErrDevTooManyRequests            = "rate limit exceeded"
	ErrDevDBFailedToFindDocument     = "failed to find document"
	ErrDevDBFailedToInsertDocument   = "failed to insert document"
	ErrDevDBFailedToUpdateDocument   = "failed to update document"
	ErrDevDBFailedToIterateDocuments = "failed to iterate documents"
	ErrDevDBFailedToCountDocuments   = "failed to count documents"
	ErrDevDBFailedToCreateIndex      = "failed to create index"
	ErrDevDBFailedToFindData         = "failed to find data"
	ErrDevDBFailedToInsertData       = "failed to insert data"
	ErrDevDBFailedToUpdateData       = "failed to update data"
	ErrDevDBFailedToIterateDataset   = "failed to iterate dataset"
	ErrDevRedisGetData               = "failed to get data from redis"
	ErrDevRedisSetData               = "failed to set data to redis"
	ErrDevRedisDeleteData            = "failed to delete data from redis"
	ErrDevRedisIncrementValue        = "failed to increment value in redis"
	ErrDevRedisExpire                = "failed to set expiry in redis"
	ErrDevRedisPublish               = "failed to publish to redis channel %s"
	ErrDevRedisSubscribe             = "failed to subscribe to redis channel %s"
	ErrDevRedisUnlock                = "failed to release redis lock"
	ErrDevRabbitMQPublishMessage     = "failed to publish message to queue %s"
	ErrDevRabbitMQDeclareQueue       = "failed to declare queue %s"
	ErrDevRabbitMQConsume            = "failed to consume queue %s"
	ErrDevSMTPSendEmail              = "failed to send email using host %s"
)

const (
	ErrCodeSlotConflict         = "SLOT_CONFLICT"
	ErrCodeStaleSlot            = "STALE_SLOT"
	ErrCodeIllegalTransition    = "ILLEGAL_TRANSITION"
	ErrCodeForbidden            = "FORBIDDEN"
	ErrCodeUnauthenticated      = "UNAUTHENTICATED"
	ErrCodeDatastoreTimeout     = "DATASTORE_TIMEOUT"
	ErrCodeNotificationDelivery = "NOTIFICATION_DELIVERY"
	ErrCodeValidation           = "VALIDATION"
	ErrCodeNotFound             = "NOT_FOUND"
	ErrCodeRateLimited          = "RATE_LIMITED"
)
