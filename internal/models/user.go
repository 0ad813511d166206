package models

import "gorm.io/gorm"

// User is an account identified by its lower-cased email.
type User struct {
	gorm.Model
	Email       string `gorm:"uniqueIndex;type:varchar(255);not null"`
	Password    string `gorm:"type:varchar(255);not null"` // bcrypt hash, never plaintext
	Name        string `gorm:"type:varchar(255)"`
	IsActive    bool   `gorm:"not null;default:true"`
	IsStaff     bool   `gorm:"not null;default:false"`
	IsSuperuser bool   `gorm:"not null;default:false"`
}

func (u User) String() string { return u.Email }
