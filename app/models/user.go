package models

import "gorm.io/gorm"

// User is a registered customer. Passwords are bcrypt hashes, never
// stored or compared in plaintext.
type User struct {
	gorm.Model
	Name     string `gorm:"size:255;not null" json:"name"`
	Email    string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Phone    string `gorm:"size:20" json:"phone"`
	Password string `gorm:"size:255;not null" json:"-"` // hashed, never serialised
}
