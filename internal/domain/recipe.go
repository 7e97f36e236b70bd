package domain

import "time"

// Ingredient is a catalogue entry. Names are not unique: the same name may
// exist with different measurement units.
type Ingredient struct {
	ID              int64  `json:"id" gorm:"primaryKey"`
	Name            string `json:"name" gorm:"size:254;not null;index"`
	MeasurementUnit string `json:"measurement_unit" gorm:"size:128;not null"`
}

func (Ingredient) TableName() string { return "ingredients" }

type Tag struct {
	ID    int64  `json:"id" gorm:"primaryKey"`
	Name  string `json:"name" gorm:"size:200;not null;uniqueIndex" validate:"required,max=200"`
	Color string `json:"color" gorm:"size:7;not null;uniqueIndex" validate:"required,len=7,hexcolor"`
	Slug  string `json:"slug" gorm:"size:200;not null;uniqueIndex" validate:"required,max=200"`
}

func (Tag) TableName() string { return "tags" }

type Recipe struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	AuthorID    int64     `json:"author_id" gorm:"not null;index"`
	Name        string    `json:"name" gorm:"size:200;not null"`
	Text        string    `json:"text" gorm:"type:text;not null"`
	Image       string    `json:"image" gorm:"not null"`
	CookingTime int       `json:"cooking_time" gorm:"not null;check:chk_recipes_cooking_time,cooking_time >= 1"`
	PubDate     time.Time `json:"pub_date" gorm:"autoCreateTime;index"`

	// Virtual fields для preload
	Author      *User              `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Ingredients []RecipeIngredient `json:"ingredients,omitempty" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	TagLinks    []RecipeTag        `json:"-" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

func (Recipe) TableName() string { return "recipes" }

// Tags returns the preloaded tags of the recipe.
func (r *Recipe) Tags() []Tag {
	tags := make([]Tag, 0, len(r.TagLinks))
	for _, l := range r.TagLinks {
		if l.Tag != nil {
			tags = append(tags, *l.Tag)
		}
	}
	return tags
}

// RecipeIngredient is the amount-bearing association between a recipe and
// an ingredient. An ingredient appears at most once per recipe.
type RecipeIngredient struct {
	ID           int64 `json:"-" gorm:"primaryKey"`
	RecipeID     int64 `json:"-" gorm:"not null;uniqueIndex:idx_recipe_ingredient"`
	IngredientID int64 `json:"id" gorm:"not null;uniqueIndex:idx_recipe_ingredient;index"`
	Amount       int   `json:"amount" gorm:"not null;check:chk_recipe_ingredients_amount,amount >= 1"`

	Ingredient *Ingredient `json:"-" gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE"`
}

func (RecipeIngredient) TableName() string { return "recipe_ingredients" }

type RecipeTag struct {
	ID       int64 `gorm:"primaryKey"`
	RecipeID int64 `gorm:"not null;uniqueIndex:idx_recipe_tag"`
	TagID    int64 `gorm:"not null;uniqueIndex:idx_recipe_tag;index"`

	Tag *Tag `gorm:"foreignKey:TagID;constraint:OnDelete:CASCADE"`
}

func (RecipeTag) TableName() string { return "recipe_tags" }

// RecipeShort is the compact recipe form used in favorites, cart and
// subscription listings.
type RecipeShort struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

func (r *Recipe) Short() RecipeShort {
	return RecipeShort{ID: r.ID, Name: r.Name, Image: r.Image, CookingTime: r.CookingTime}
}
