package storage

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/gabriel-vasile/mimetype"

	"recipeapi/internal/errs"
)

// InvalidImageMessage is reported on the image field for anything that is not a decodable picture.
const InvalidImageMessage = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."

var imageTypes = []string{"image/jpeg", "image/png", "image/gif"}

// DetectImage sniffs data and fully decodes it. It returns the detected
// content type, or a ValidationError on the "image" field.
func DetectImage(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errs.NewValidation("image", "The submitted file is empty.")
	}

	mtype := mimetype.Detect(data)
	if !mimetype.EqualsAny(mtype.String(), imageTypes...) {
		return "", errs.NewValidation("image", InvalidImageMessage)
	}

	if _, _, err := image.Decode(bytes.NewReader(data)); err != nil {
		return "", errs.NewValidation("image", InvalidImageMessage)
	}
	return mtype.String(), nil
}
