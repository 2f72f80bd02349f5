package constvars

const (
	ResponseUnknown = "unknown"
	ResponseSuccess = "success"
	ResponseError   = "error"

	GetCatalogSuccessMessage             = "get slot catalog successfully"
	GetAvailabilitySuccessMessage        = "get availability successfully"
	GetAvailabilityVersionSuccessMessage = "get availability version successfully"
	SubmitBookingSuccessMessage          = "booking request submitted successfully"
	GetBookingSuccessMessage             = "get booking request successfully"
	ListBookingsSuccessMessage           = "list booking requests successfully"
	GetBookingStatsSuccessMessage        = "get booking stats successfully"
	ApproveBookingSuccessMessage         = "booking request approved successfully"
	RejectBookingSuccessMessage          = "booking request rejected successfully"
	RescheduleBookingSuccessMessage      = "booking request rescheduled successfully"
	TransitionWithWarningsMessage        = "transition committed, notification pending attention"
)
