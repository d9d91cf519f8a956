package filters

import (
	"fmt"
	"image"
	"image/color"

	"image-filter-studio/internal/models"
	"image-filter-studio/internal/opencv"

	"gocv.io/x/gocv"
)

// matOp writes the transform of src into dst.
type matOp func(src gocv.Mat, dst *gocv.Mat)

// withMat runs op on a BGR (or gray) Mat copy of input and converts the
// result back into input's channel order. The input is never touched.
func withMat(name string, input *models.Image, op matOp) (*models.Image, error) {
	return transform(name, input, input.Order(), op)
}

// transform is withMat with an explicit output order.
func transform(name string, input *models.Image, order models.ChannelOrder, op matOp) (*models.Image, error) {
	src, err := opencv.MatFromImage(input)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	dst := gocv.NewMat()
	defer dst.Close()

	op(src, &dst)
	if dst.Empty() {
		return nil, fmt.Errorf("%s: OpenCV returned an empty result", name)
	}
	return fromMat(dst, order)
}

// fromMat copies mat into an image tagged with order. Three channel Mats
// come back BGR and are swapped when order is RGB.
func fromMat(mat gocv.Mat, order models.ChannelOrder) (*models.Image, error) {
	out, err := opencv.ImageFromMat(mat)
	if err != nil {
		return nil, err
	}
	if out.Order() == order {
		return out, nil
	}
	return out.WithOrder(order)
}

// replicateBorder runs op on src padded by r pixels of replicated edge and
// crops the centre back out. gocv's Blur and MedianBlur do not take a
// border argument, so the padding pins the edge policy for all blurs.
func replicateBorder(src gocv.Mat, dst *gocv.Mat, r int, op matOp) {
	padded := gocv.NewMat()
	defer padded.Close()
	gocv.CopyMakeBorder(src, &padded, r, r, r, r, gocv.BorderReplicate, color.RGBA{})

	blurred := gocv.NewMat()
	defer blurred.Close()
	op(padded, &blurred)
	if blurred.Empty() {
		return
	}

	centre := blurred.Region(image.Rect(r, r, r+src.Cols(), r+src.Rows()))
	defer centre.Close()
	centre.CopyTo(dst)
}
