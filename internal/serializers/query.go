package serializers

import (
	"errors"
	"strconv"
	"strings"

	"recipeapi/internal/errs"
	"recipeapi/internal/repositories"
)

// ParseIDs reads a comma-separated id list such as "1, 2,3". An empty value
// yields no ids. Anything that is not a positive integer is reported on param.
func ParseIDs(param, raw string) ([]uint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]uint, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		id, err := strconv.ParseUint(part, 10, 0)
		if err != nil || id == 0 {
			return nil, errs.NewValidation(param, "Expected a comma-separated list of ids, got \""+part+"\".")
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

// RecipeFilterFrom builds the list filter from the tags and ingredients query parameters.
func RecipeFilterFrom(tags, ingredients string) (repositories.RecipeFilter, error) {
	var filter repositories.RecipeFilter
	merged := &errs.ValidationError{}

	collect := func(param, raw string) []uint {
		ids, err := ParseIDs(param, raw)
		var v *errs.ValidationError
		if errors.As(err, &v) {
			merged.Add(param, v.Fields[param])
		}
		return ids
	}
	filter.TagIDs = collect("tags", tags)
	filter.IngredientIDs = collect("ingredients", ingredients)

	return filter, merged.OrNil()
}
