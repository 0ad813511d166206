package serializers

import (
	"fmt"

	"recipeapi/internal/models"
)

// Operation names a recipe endpoint action.
type Operation string

const (
	OpList        Operation = "list"
	OpRetrieve    Operation = "retrieve"
	OpCreate      Operation = "create"
	OpUpdate      Operation = "update"
	OpUploadImage Operation = "upload-image"
)

// Representation is one output shape of a recipe.
type Representation string

const (
	RepList   Representation = "list"
	RepDetail Representation = "detail"
	RepImage  Representation = "image"
)

// recipeRepresentations decides which shape each operation answers with.
var recipeRepresentations = map[Operation]Representation{
	OpList:        RepList,
	OpRetrieve:    RepDetail,
	OpCreate:      RepList,
	OpUpdate:      RepList,
	OpUploadImage: RepImage,
}

var recipeSerializers = map[Representation]func(*models.Recipe, ImageURL) interface{}{
	RepList:   listItem,
	RepDetail: detail,
	RepImage:  image,
}

// RepresentationFor returns the shape used by op.
func RepresentationFor(op Operation) (Representation, error) {
	rep, ok := recipeRepresentations[op]
	if !ok {
		return "", fmt.Errorf("no representation for operation %q", op)
	}
	return rep, nil
}

// Recipe serializes r in the shape op calls for.
func Recipe(op Operation, r *models.Recipe, url ImageURL) (interface{}, error) {
	rep, err := RepresentationFor(op)
	if err != nil {
		return nil, err
	}
	return recipeSerializers[rep](r, url), nil
}

// Recipes serializes a slice in the shape op calls for.
func Recipes(op Operation, recipes []models.Recipe, url ImageURL) ([]interface{}, error) {
	rep, err := RepresentationFor(op)
	if err != nil {
		return nil, err
	}
	serialize := recipeSerializers[rep]
	out := make([]interface{}, 0, len(recipes))
	for i := range recipes {
		out = append(out, serialize(&recipes[i], url))
	}
	return out, nil
}
