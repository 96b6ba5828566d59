package atlas

import (
	"image"
	"image/png"
	"io"
	"os"

	apperrors "github.com/robinei/atlastool/pkg/errors"
)

// DecodeFile reads and decodes the image at path.
func DecodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "no such image: %s", path)
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeDecodeFailed, err, "decode %s", path)
	}
	return img, nil
}

// EncodePNG writes img to w in PNG format.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeEncodeFailed, err, "encode png")
	}
	return nil
}

// WritePNG encodes img as a PNG file at path, creating or truncating it.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeWriteFailed, err, "create %s", path)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return apperrors.Wrap(apperrors.ErrCodeEncodeFailed, err, "encode %s", path)
	}
	if err := f.Close(); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeWriteFailed, err, "close %s", path)
	}
	return nil
}
