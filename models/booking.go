package models

import (
	"time"

	"github.com/google/uuid"
)

// Booking links a customer identity, a provider identity and a service
// type. Owned by the bookings subsystem; this core only reads it to decide
// contact suggestions.
type Booking struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerID  string    `gorm:"index;not null" json:"customer_id"`
	ProviderID  string    `gorm:"index;not null" json:"provider_id"`
	ServiceType Role      `gorm:"type:varchar(16);not null" json:"service_type"`
	CreatedAt   time.Time `json:"created_at"`
}
