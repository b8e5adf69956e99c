package materialize

import (
	"bytes"
	"image"

	// Decoders available to image.Decode.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/cockroachdb/errors"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Decode turns a backend result into an image and reports the format name.
func Decode(res *Result) (image.Image, string, error) {
	if res == nil {
		return nil, "", errNoResult
	}

	if len(res.Data) == 0 {
		return nil, "", errEmptyData
	}

	img, format, err := image.Decode(bytes.NewReader(res.Data))
	if err != nil {
		return nil, "", errors.Wrapf(err, "decoding %d bytes", len(res.Data))
	}

	return img, format, nil
}
