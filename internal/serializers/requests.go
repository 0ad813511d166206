package serializers

import "recipeapi/internal/services"

// UserRequest is the body of POST /user/create/ and PUT /user/me/.
type UserRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=5,max=72"`
	Name     string `json:"name" validate:"max=255"`
}

func (r UserRequest) NewUser() services.NewUser {
	return services.NewUser{Email: r.Email, Password: r.Password, Name: r.Name}
}

func (r UserRequest) Update() services.ProfileUpdate {
	return services.ProfileUpdate{Email: &r.Email, Password: &r.Password, Name: &r.Name}
}

// UserPatchRequest is the body of PATCH /user/me/.
type UserPatchRequest struct {
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Password *string `json:"password" validate:"omitempty,min=5,max=72"`
	Name     *string `json:"name" validate:"omitempty,max=255"`
}

func (r UserPatchRequest) Update() services.ProfileUpdate {
	return services.ProfileUpdate{Email: r.Email, Password: r.Password, Name: r.Name}
}

// TokenRequest is the body of POST /user/token/.
type TokenRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AttributeRequest is the body of POST /recipe/tags/ and /recipe/ingredients/.
type AttributeRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// RecipeRequest is the body of POST /recipe/recipes/ and PUT /recipe/recipes/:id/.
type RecipeRequest struct {
	Title       *string  `json:"title" validate:"required,max=255"`
	TimeMinutes *int     `json:"time_minutes" validate:"required,gte=0"`
	Price       *Decimal `json:"price" validate:"required,nonnegative,max_places=2,max_digits=5,max_whole=3"`
	Link        *string  `json:"link" validate:"omitempty,max=255"`
	Tags        *[]uint  `json:"tags"`
	Ingredients *[]uint  `json:"ingredients"`
}

// RecipePatchRequest is the body of PATCH /recipe/recipes/:id/.
type RecipePatchRequest struct {
	Title       *string  `json:"title" validate:"omitempty,max=255"`
	TimeMinutes *int     `json:"time_minutes" validate:"omitempty,gte=0"`
	Price       *Decimal `json:"price" validate:"omitempty,nonnegative,max_places=2,max_digits=5,max_whole=3"`
	Link        *string  `json:"link" validate:"omitempty,max=255"`
	Tags        *[]uint  `json:"tags"`
	Ingredients *[]uint  `json:"ingredients"`
}

func recipeInput(title *string, minutes *int, price *Decimal, link *string, tags, ingredients *[]uint) services.RecipeInput {
	in := services.RecipeInput{
		Title:         title,
		TimeMinutes:   minutes,
		Link:          link,
		TagIDs:        tags,
		IngredientIDs: ingredients,
	}
	if price != nil {
		cents := price.Cents()
		in.PriceCents = &cents
	}
	return in
}

func (r RecipeRequest) Input() services.RecipeInput {
	return recipeInput(r.Title, r.TimeMinutes, r.Price, r.Link, r.Tags, r.Ingredients)
}

func (r RecipePatchRequest) Input() services.RecipeInput {
	return recipeInput(r.Title, r.TimeMinutes, r.Price, r.Link, r.Tags, r.Ingredients)
}
