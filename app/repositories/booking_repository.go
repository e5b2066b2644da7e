package repositories

import (
	"github.com/dnguyen-dev/bistro/app/models"
	"github.com/dnguyen-dev/bistro/pkg/orm"
)

// BookingRepository appends and reads the immutable booking history.
// There is deliberately no update or delete.
type BookingRepository struct{}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{}
}

// Create appends a new history record. Fails on a duplicate code
// because of the unique index.
func (r *BookingRepository) Create(record *models.BookingRecord) error {
	return orm.DB().Create(record)
}

// FindByCode looks up one record by its booking code.
func (r *BookingRepository) FindByCode(code string) (models.BookingRecord, error) {
	var record models.BookingRecord
	err := orm.DB().Model(&models.BookingRecord{}).Where("code = ?", code).First(&record)
	return record, err
}

// ForUser returns a user's history, newest first.
func (r *BookingRepository) ForUser(userID uint) ([]models.BookingRecord, error) {
	var records []models.BookingRecord
	err := orm.DB().Model(&models.BookingRecord{}).
		Where("user_id = ?", userID).Order("booked_at desc").Get(&records)
	return records, err
}
