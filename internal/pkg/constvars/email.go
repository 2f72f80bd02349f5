package constvars

const (
	EmailSendBasicEmailSubjectFormat = "From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n"
)

const (
	EmailSubjectBookingApproved    = "[DELIVERY] Your delivery slot was approved"
	EmailSubjectBookingRejected    = "[DELIVERY] Your delivery slot was rejected"
	EmailSubjectBookingRescheduled = "[DELIVERY] Your delivery slot was rescheduled"

	EmailBodyBookingApproved    = "Hello %s,\n\nYour delivery on %s at %s has been approved.\n\nRequest: %s"
	EmailBodyBookingRejected    = "Hello %s,\n\nYour delivery on %s at %s has been rejected.\nReason: %s\n\nRequest: %s"
	EmailBodyBookingRescheduled = "Hello %s,\n\nYour delivery has been moved to %s at %s.\n\nRequest: %s"
)
