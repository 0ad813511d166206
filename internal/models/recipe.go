package models

import "gorm.io/gorm"

// Join tables of the recipe relations. The filter queries select from them directly.
const (
	RecipeTagsTable        = "recipe_tags"
	RecipeIngredientsTable = "recipe_ingredients"
)

// Recipe is owned by one user and links to that user's tags and ingredients.
type Recipe struct {
	gorm.Model
	Title       string       `gorm:"type:varchar(255);not null"`
	TimeMinutes int          `gorm:"not null"`
	PriceCents  int64        `gorm:"not null"`
	Link        string       `gorm:"type:varchar(255)"`
	Image       string       `gorm:"type:varchar(255)"` // storage key, empty when unset
	UserID      uint         `gorm:"not null;index"`
	User        *User        `gorm:"constraint:OnDelete:CASCADE"`
	Tags        []Tag        `gorm:"many2many:recipe_tags;"`
	Ingredients []Ingredient `gorm:"many2many:recipe_ingredients;"`
}

func (r Recipe) String() string { return r.Title }

// All returns every model that must exist in the schema, in dependency order.
func All() []any {
	return []any{&User{}, &Token{}, &Tag{}, &Ingredient{}, &Recipe{}}
}
