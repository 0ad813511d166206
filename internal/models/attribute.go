package models

import "gorm.io/gorm"

// Tag labels recipes of a single owner.
type Tag struct {
	gorm.Model
	Name   string `gorm:"type:varchar(255);not null"`
	UserID uint   `gorm:"not null;index"`
	User   *User  `gorm:"constraint:OnDelete:CASCADE"`
}

func (t Tag) String() string { return t.Name }

func (t Tag) GetID() uint { return t.ID }

// Ingredient is owned the same way a Tag is.
type Ingredient struct {
	gorm.Model
	Name   string `gorm:"type:varchar(255);not null"`
	UserID uint   `gorm:"not null;index"`
	User   *User  `gorm:"constraint:OnDelete:CASCADE"`
}

func (i Ingredient) String() string { return i.Name }

func (i Ingredient) GetID() uint { return i.ID }

// NewTag and NewIngredient build owned attributes; the owner never comes from a payload.
func NewTag(ownerID uint, name string) Tag {
	return Tag{UserID: ownerID, Name: name}
}

func NewIngredient(ownerID uint, name string) Ingredient {
	return Ingredient{UserID: ownerID, Name: name}
}
