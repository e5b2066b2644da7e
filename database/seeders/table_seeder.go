package seeders

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dnguyen-dev/bistro/app/models"
)

func init() {
	Register("tables", SeedTables)
}

// SeedTables lays out the dining room: ten tables, two of which start
// out reserved (walk-in regulars hold them). Statuses of existing rows
// are left alone so re-seeding never cancels live reservations.
func SeedTables(db *gorm.DB) error {
	layout := []struct {
		number   int
		capacity int
		reserved bool
	}{
		{1, 2, false},
		{2, 2, false},
		{3, 4, false},
		{4, 4, true},
		{5, 4, false},
		{6, 6, false},
		{7, 6, true},
		{8, 8, false},
		{9, 8, false},
		{10, 10, false},
	}

	tables := make([]models.Table, 0, len(layout))
	for _, t := range layout {
		status := models.TableAvailable
		if t.reserved {
			status = models.TableReserved
		}
		tables = append(tables, models.Table{
			Number:   t.number,
			Capacity: t.capacity,
			Status:   status,
		})
	}

	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "number"}},
		DoUpdates: clause.AssignmentColumns([]string{"capacity"}),
	}).Create(&tables).Error
}
