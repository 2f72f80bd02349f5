package constvars

const (
	URLParamBookingID = "booking_id"
)

const (
	QueryParamDate     = "date"
	QueryParamCategory = "category"
	QueryParamStatus   = "status"
	QueryParamScope    = "scope"
)
