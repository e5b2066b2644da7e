package migrations

import (
	"gorm.io/gorm"

	"github.com/dnguyen-dev/bistro/app/models"
	"github.com/dnguyen-dev/bistro/pkg/migration"
)

func init() {
	migration.Register("20260301000000_create_users_table", &CreateUsersTable{})
	migration.Register("20260301000001_create_menu_items_table", &CreateMenuItemsTable{})
	migration.Register("20260301000002_create_tables_table", &CreateTablesTable{})
	migration.Register("20260301000003_create_bookings_table", &CreateBookingsTable{})
}

// -------- 0001: users --------

type CreateUsersTable struct{}

func (m *CreateUsersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}

func (m *CreateUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("users")
}

// -------- 0002: menu items --------

type CreateMenuItemsTable struct{}

func (m *CreateMenuItemsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.MenuItem{})
}

func (m *CreateMenuItemsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("menu_items")
}

// -------- 0003: tables --------

type CreateTablesTable struct{}

func (m *CreateTablesTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Table{})
}

func (m *CreateTablesTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("tables")
}

// -------- 0004: bookings --------

type CreateBookingsTable struct{}

func (m *CreateBookingsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.BookingRecord{})
}

func (m *CreateBookingsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("booking_records")
}
