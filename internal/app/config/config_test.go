package config

import (
	"delivery-slot-service/internal/pkg/constvars"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewInternalConfig_Defaults(t *testing.T) {
	cfg := NewInternalConfig()

	assert.Equal(t, "08:00", cfg.Slots.DayStart)
	assert.Equal(t, "18:00", cfg.Slots.DayEnd)
	assert.Equal(t, 30, cfg.Slots.GranularityMinutes)
	assert.Empty(t, cfg.Slots.LunchStart)
	assert.Equal(t, constvars.DefaultDeliveryCategories, cfg.Booking.DeliveryCategories)
	assert.Equal(t, 3000, cfg.Booking.DatastoreTimeoutInMillis)
	assert.Equal(t, "mmm.com", cfg.App.AdminEmailDomain)
}

func TestNewInternalConfig_FromEnv(t *testing.T) {
	t.Setenv("APP_SLOT_GRANULARITY_MINUTES", "15")
	t.Setenv("APP_SLOT_LUNCH_START", "12:00")
	t.Setenv("APP_SLOT_LUNCH_END", "13:00")
	t.Setenv("APP_DELIVERY_CATEGORIES", "pallets, , bulk ")
	t.Setenv("APP_MONGO_ENSURE_INDEXES", "false")
	t.Setenv("APP_DATASTORE_TIMEOUT_IN_MILLISECONDS", "not-a-number")

	cfg := NewInternalConfig()

	assert.Equal(t, 15, cfg.Slots.GranularityMinutes)
	assert.Equal(t, "12:00", cfg.Slots.LunchStart)
	assert.Equal(t, []string{"pallets", "bulk"}, cfg.Booking.DeliveryCategories)
	assert.False(t, cfg.Booking.MongoEnsureIndexesOnStartup)
	assert.Equal(t, 3000, cfg.Booking.DatastoreTimeoutInMillis)
}

func TestNewDriverConfig_DatastoreDriver(t *testing.T) {
	assert.Equal(t, constvars.DatastoreDriverPostgres, NewDriverConfig().Datastore.Driver)

	t.Setenv("DATASTORE_DRIVER", constvars.DatastoreDriverMemory)
	assert.Equal(t, constvars.DatastoreDriverMemory, NewDriverConfig().Datastore.Driver)
}
