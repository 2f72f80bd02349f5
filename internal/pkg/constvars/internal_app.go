package constvars

type ContextKey string

const (
	ResourceCatalog      = "catalog"
	ResourceAvailability = "availability"
	ResourceBookings     = "bookings"
)

const (
	AppPaginationUrlFormat = "%s?page=%d&page_size=%d"
	DefaultPageSize        = 20
	MaxPageSize            = 100
)

const (
	AppEnvProduction  = "production"
	AppEnvDevelopment = "development"
)

const (
	CONTEXT_REQUEST_ID_KEY           ContextKey = "request_id"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY ContextKey = "is_client_request_id"
	CONTEXT_PRINCIPAL_KEY            ContextKey = "principal"
	CONTEXT_API_KEY_AUTH_KEY         ContextKey = "api_key_auth"
)

const (
	REQUEST_ID_PREFIX = "DLVSLT_SVC_"
)

const (
	RoleAdmin    = "admin"
	RoleSupplier = "supplier"
)

const (
	ServiceAccountID    = "api-key-admin"
	ServiceAccountEmail = "service-account@internal"
)

const (
	DatastoreDriverPostgres = "postgres"
	DatastoreDriverMongo    = "mongo"
	DatastoreDriverMemory   = "memory"
)
