package repositories

import (
	"time"

	"github.com/dnguyen-dev/bistro/app/models"
	"github.com/dnguyen-dev/bistro/pkg/orm"
)

// TableRepository handles the dining-room table inventory.
type TableRepository struct{}

func NewTableRepository() *TableRepository {
	return &TableRepository{}
}

// All returns every table ordered by number.
func (r *TableRepository) All() ([]models.Table, error) {
	var tables []models.Table
	err := orm.DB().Model(&models.Table{}).Order("number").Get(&tables)
	return tables, err
}

// FindByNumber looks up a table by its room number.
func (r *TableRepository) FindByNumber(number int) (models.Table, error) {
	var table models.Table
	err := orm.DB().Model(&models.Table{}).Where("number = ?", number).First(&table)
	return table, err
}

// Reserve marks a table reserved for the given date under a booking code.
func (r *TableRepository) Reserve(number int, date time.Time, code string) error {
	return orm.DB().Model(&models.Table{}).Where("number = ?", number).Updates(map[string]any{
		"status":        models.TableReserved,
		"reserved_for":  date,
		"reserved_code": code,
	})
}

// ReleasePast frees tables whose reserved date is before cutoff.
// Returns how many were released.
func (r *TableRepository) ReleasePast(cutoff time.Time) (int64, error) {
	var n int64
	q := orm.DB().Model(&models.Table{}).
		Where("status = ? AND reserved_for IS NOT NULL AND reserved_for < ?", models.TableReserved, cutoff)
	if err := q.Count(&n); err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}
	err := q.Updates(map[string]any{
		"status":        models.TableAvailable,
		"reserved_for":  nil,
		"reserved_code": "",
	})
	return n, err
}
