package models

import "time"

// Token is the opaque API key of a user. There is at most one per user.
type Token struct {
	Key       string `gorm:"primaryKey;type:varchar(40)"`
	UserID    uint   `gorm:"uniqueIndex;not null"`
	User      *User  `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}
