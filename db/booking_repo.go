package db

import (
	"github.com/pkg/errors"
	"github.com/sportlinkhq/sportlink/models"
	"gorm.io/gorm"
)

// BookingRepository is read-only from the chat core's perspective; bookings
// are written by the bookings subsystem.
type BookingRepository interface {
	Exists(customerID, providerID string, serviceType models.Role) (bool, error)
}

type bookingRepo struct {
	DB *gorm.DB
}

// NewBookingRepo creates a new instance of BookingRepository
func NewBookingRepo(db *GormDB) BookingRepository {
	return &bookingRepo{db.DB}
}

func (r *bookingRepo) Exists(customerID, providerID string, serviceType models.Role) (bool, error) {
	var count int64
	err := r.DB.Model(&models.Booking{}).
		Where("customer_id = ? AND provider_id = ? AND service_type = ?", customerID, providerID, serviceType).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "check booking")
	}
	return count > 0, nil
}
