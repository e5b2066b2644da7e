package repositories

import (
	"time"

	"github.com/dnguyen-dev/bistro/app/models"
	"github.com/dnguyen-dev/bistro/pkg/orm"
)

// MenuRepository reads the dish catalogue. The catalogue changes only
// via seeding, so listings are cached in the KV store.
type MenuRepository struct{}

func NewMenuRepository() *MenuRepository {
	return &MenuRepository{}
}

// All returns every menu item, cached for five minutes.
func (r *MenuRepository) All() ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := orm.DB().Model(&models.MenuItem{}).Order("code").
		Cache("bistro:menu:all", 5*time.Minute, &items)
	return items, err
}

// ByCategory returns the items in one category.
func (r *MenuRepository) ByCategory(category string) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := orm.DB().Model(&models.MenuItem{}).
		Where("category = ?", category).Order("code").Get(&items)
	return items, err
}

// BestSellers returns the flagged dishes.
func (r *MenuRepository) BestSellers() ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := orm.DB().Model(&models.MenuItem{}).
		Where("is_best_seller = ?", true).Order("code").Get(&items)
	return items, err
}

// FindByCode looks up a dish by its catalogue code.
func (r *MenuRepository) FindByCode(code string) (models.MenuItem, error) {
	var item models.MenuItem
	err := orm.DB().Model(&models.MenuItem{}).Where("code = ?", code).First(&item)
	return item, err
}
