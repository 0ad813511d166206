package serializers

import "recipeapi/internal/models"

// UserResponse never includes the password hash.
type UserResponse struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func User(u *models.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, Name: u.Name}
}

// AttributeResponse is a tag or an ingredient.
type AttributeResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func Tags(tags []models.Tag) []AttributeResponse {
	out := make([]AttributeResponse, 0, len(tags))
	for _, t := range tags {
		out = append(out, AttributeResponse{ID: t.ID, Name: t.Name})
	}
	return out
}

func Ingredients(ingredients []models.Ingredient) []AttributeResponse {
	out := make([]AttributeResponse, 0, len(ingredients))
	for _, i := range ingredients {
		out = append(out, AttributeResponse{ID: i.ID, Name: i.Name})
	}
	return out
}

// RecipeListItem references relations by id.
type RecipeListItem struct {
	ID          uint    `json:"id"`
	Title       string  `json:"title"`
	Ingredients []uint  `json:"ingredients"`
	Tags        []uint  `json:"tags"`
	TimeMinutes int     `json:"time_minutes"`
	Price       Decimal `json:"price"`
	Link        string  `json:"link"`
}

// RecipeDetail nests relations as {id, name} objects.
type RecipeDetail struct {
	ID          uint                `json:"id"`
	Title       string              `json:"title"`
	Ingredients []AttributeResponse `json:"ingredients"`
	Tags        []AttributeResponse `json:"tags"`
	TimeMinutes int                 `json:"time_minutes"`
	Price       Decimal             `json:"price"`
	Link        string              `json:"link"`
	Image       *string             `json:"image"`
}

// RecipeImage is the answer to an image upload.
type RecipeImage struct {
	ID    uint    `json:"id"`
	Image *string `json:"image"`
}

func tagIDs(tags []models.Tag) []uint {
	ids := make([]uint, 0, len(tags))
	for _, t := range tags {
		ids = append(ids, t.ID)
	}
	return ids
}

func ingredientIDs(ingredients []models.Ingredient) []uint {
	ids := make([]uint, 0, len(ingredients))
	for _, i := range ingredients {
		ids = append(ids, i.ID)
	}
	return ids
}

// ImageURL turns a storage key into the address clients fetch.
type ImageURL func(key string) string

func imageRef(r *models.Recipe, url ImageURL) *string {
	if r.Image == "" {
		return nil
	}
	u := url(r.Image)
	return &u
}

func listItem(r *models.Recipe, _ ImageURL) interface{} {
	return RecipeListItem{
		ID:          r.ID,
		Title:       r.Title,
		Ingredients: ingredientIDs(r.Ingredients),
		Tags:        tagIDs(r.Tags),
		TimeMinutes: r.TimeMinutes,
		Price:       DecimalFromCents(r.PriceCents),
		Link:        r.Link,
	}
}

func detail(r *models.Recipe, url ImageURL) interface{} {
	return RecipeDetail{
		ID:          r.ID,
		Title:       r.Title,
		Ingredients: Ingredients(r.Ingredients),
		Tags:        Tags(r.Tags),
		TimeMinutes: r.TimeMinutes,
		Price:       DecimalFromCents(r.PriceCents),
		Link:        r.Link,
		Image:       imageRef(r, url),
	}
}

func image(r *models.Recipe, url ImageURL) interface{} {
	return RecipeImage{ID: r.ID, Image: imageRef(r, url)}
}
