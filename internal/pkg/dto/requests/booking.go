package requests

type SubmitBooking struct {
	SupplierName     string  `json:"supplier_name" validate:"required,not_blank,max=120"`
	Date             string  `json:"date" validate:"required,calendar_date"`
	Slot             string  `json:"slot" validate:"required,slot_time"`
	DeliveryCategory string  `json:"delivery_category" validate:"required,not_blank,max=64"`
	VehicleCategory  string  `json:"vehicle_category" validate:"required,not_blank,max=64"`
	Note             *string `json:"note,omitempty" validate:"omitempty,max=1000"`
}

type RejectBooking struct {
	Reason string `json:"reason" validate:"required,not_blank,max=500"`
}

type RescheduleBooking struct {
	Date             string  `json:"date" validate:"required,calendar_date"`
	Slot             string  `json:"slot" validate:"required,slot_time"`
	DeliveryCategory *string `json:"delivery_category,omitempty" validate:"omitempty,not_blank,max=64"`
}

type AvailabilityQuery struct {
	Date             string `validate:"required,calendar_date"`
	DeliveryCategory string `validate:"omitempty,max=64"`
}

type BookingListQuery struct {
	Status string `validate:"omitempty,oneof=pending approved rejected"`
	Scope  string `validate:"omitempty,oneof=pending history"`
	Date   string `validate:"omitempty,calendar_date"`
	Pagination
}
