package responses

type Catalog struct {
	Slots              []string `json:"slots"`
	GranularityMinutes int      `json:"granularity_minutes"`
	DeliveryCategories []string `json:"delivery_categories"`
	VehicleCategories  []string `json:"vehicle_categories"`
	Timezone           string   `json:"timezone"`
}

type AvailabilityVersion struct {
	Date    string `json:"date"`
	Version int64  `json:"version"`
}

type AvailabilityInvalidation struct {
	Date string `json:"date"`
}
