package repositories

import (
	"github.com/dnguyen-dev/bistro/app/models"
	"github.com/dnguyen-dev/bistro/pkg/orm"
)

// UserRepository handles database operations for User.
type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

// FindByEmail looks up a user by their email address.
func (r *UserRepository) FindByEmail(email string) (models.User, error) {
	var user models.User
	err := orm.DB().Model(&models.User{}).Where("email = ?", email).First(&user)
	return user, err
}

// FindByID looks up a user by primary key.
func (r *UserRepository) FindByID(id uint) (models.User, error) {
	var user models.User
	err := orm.DB().Model(&models.User{}).Where("id = ?", id).First(&user)
	return user, err
}

// EmailTaken reports whether a user with this email already exists.
func (r *UserRepository) EmailTaken(email string) (bool, error) {
	var n int64
	err := orm.DB().Model(&models.User{}).Where("email = ?", email).Count(&n)
	return n > 0, err
}

// Create persists a new user record.
func (r *UserRepository) Create(user *models.User) error {
	return orm.DB().Create(user)
}
