package filters

import (
	"context"
	"image"
	"image/color"

	"image-filter-studio/internal/models"

	"gocv.io/x/gocv"
)

const (
	binaryThreshold = 127
	foreground      = 255
)

// maskOp transforms a binary CV_8UC1 mask (0 or 255 per pixel) with a
// ksize x ksize all-ones structuring element. Erode and Dilate use OpenCV's
// default constant border, which is neutral for both, so samples outside
// the image never erode or dilate the edge.
type maskOp func(mask gocv.Mat, dst *gocv.Mat, kernel gocv.Mat)

// MorphologyFilter runs the shared binary pipeline: luma, threshold at 127,
// the mask operation, then replication back to the input's channel count.
// Colour is not preserved.
type MorphologyFilter struct {
	name string
	op   maskOp
}

func NewErosionFilter() *MorphologyFilter {
	return &MorphologyFilter{name: "erosion", op: func(mask gocv.Mat, dst *gocv.Mat, kernel gocv.Mat) {
		gocv.Erode(mask, dst, kernel)
	}}
}

func NewDilationFilter() *MorphologyFilter {
	return &MorphologyFilter{name: "dilation", op: func(mask gocv.Mat, dst *gocv.Mat, kernel gocv.Mat) {
		gocv.Dilate(mask, dst, kernel)
	}}
}

func NewOpeningFilter() *MorphologyFilter {
	return &MorphologyFilter{name: "opening", op: func(mask gocv.Mat, dst *gocv.Mat, kernel gocv.Mat) {
		gocv.MorphologyEx(mask, dst, gocv.MorphOpen, kernel)
	}}
}

func NewClosingFilter() *MorphologyFilter {
	return &MorphologyFilter{name: "closing", op: func(mask gocv.Mat, dst *gocv.Mat, kernel gocv.Mat) {
		gocv.MorphologyEx(mask, dst, gocv.MorphClose, kernel)
	}}
}

func NewBoundaryExtractionFilter() *MorphologyFilter {
	return &MorphologyFilter{name: "boundary_extraction", op: boundaryMask}
}

// NewRegionFillingFilter validates ksize like the other operations but
// does not use the structuring element.
func NewRegionFillingFilter() *MorphologyFilter {
	return &MorphologyFilter{name: "region_filling", op: fillMask}
}

func (m *MorphologyFilter) Name() string {
	return m.name
}

func (m *MorphologyFilter) Apply(ctx context.Context, input *models.Image, params Params) (*models.Image, error) {
	if err := validateInput(ctx, input); err != nil {
		return nil, err
	}
	ksize, err := params.KernelSize()
	if err != nil {
		return nil, err
	}

	return withMat(m.name, input, func(src gocv.Mat, dst *gocv.Mat) {
		mask := gocv.NewMat()
		defer mask.Close()
		binarize(src, &mask)

		kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(ksize, ksize))
		defer kernel.Close()

		result := gocv.NewMat()
		defer result.Close()
		m.op(mask, &result, kernel)
		if result.Empty() {
			return
		}
		toChannels(result, dst, input.Channels())
	})
}

// binarize converts src to luma and thresholds it: > 127 becomes 255,
// everything else 0.
func binarize(src gocv.Mat, dst *gocv.Mat) {
	gray := gocv.NewMat()
	defer gray.Close()
	toGray(src, &gray)
	gocv.Threshold(gray, dst, binaryThreshold, foreground, gocv.ThresholdBinary)
}

// Binarize returns the single-channel binary mask of src.
func Binarize(src *models.Image) (*models.Image, error) {
	return transform("binarize", src, models.OrderGray, binarize)
}

// boundaryMask is mask minus its erosion, saturating at 0.
func boundaryMask(mask gocv.Mat, dst *gocv.Mat, kernel gocv.Mat) {
	eroded := gocv.NewMat()
	defer eroded.Close()
	gocv.Erode(mask, &eroded, kernel)
	gocv.Subtract(mask, eroded, dst)
}

// fillMask fills background regions that cannot be reached from outside
// the image. The mask is padded with a one-pixel background frame and the
// background component containing the frame corner is the outside, so the
// seed is background even when foreground touches (0, 0). Background
// connectivity is 4-way. Every background pixel outside that component is
// a hole and gets ORed into the mask.
func fillMask(mask gocv.Mat, dst *gocv.Mat, _ gocv.Mat) {
	w, h := mask.Cols(), mask.Rows()

	padded := gocv.NewMat()
	defer padded.Close()
	gocv.CopyMakeBorder(mask, &padded, 1, 1, 1, 1, gocv.BorderConstant, color.RGBA{})

	background := gocv.NewMat()
	defer background.Close()
	gocv.BitwiseNot(padded, &background)

	labels := gocv.NewMat()
	defer labels.Close()
	gocv.ConnectedComponentsWithParams(background, &labels, 4, gocv.MatTypeCV32S, gocv.CCL_DEFAULT)
	outside := float64(labels.GetIntAt(0, 0))

	reached := gocv.NewMat()
	defer reached.Close()
	gocv.InRangeWithScalar(labels, gocv.NewScalar(outside, 0, 0, 0), gocv.NewScalar(outside, 0, 0, 0), &reached)

	holes := gocv.NewMat()
	defer holes.Close()
	gocv.BitwiseNot(reached, &holes)

	inner := holes.Region(image.Rect(1, 1, w+1, h+1))
	defer inner.Close()
	gocv.BitwiseOr(mask, inner, dst)
}
