package atlas

import (
	"image"

	xdraw "golang.org/x/image/draw"

	"github.com/robinei/atlastool/pkg/errors"
)

// Scale returns img enlarged by an integer factor between 1 and 8 using
// nearest-neighbor sampling, the same filtering the engine applies when it
// displays the atlas. Every source pixel becomes a factor x factor block;
// no new colors are introduced.
func Scale(img image.Image, factor int) (*image.NRGBA, error) {
	if err := errors.ValidateScale(factor); err != nil {
		return nil, err
	}

	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst, nil
}
