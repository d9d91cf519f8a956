package filters

import (
	"image-filter-studio/internal/models"

	"gocv.io/x/gocv"
)

// toGray writes the luma plane of src (0.299R + 0.587G + 0.114B) into dst.
// Single-channel Mats are copied as is.
func toGray(src gocv.Mat, dst *gocv.Mat) {
	if src.Channels() == 1 {
		src.CopyTo(dst)
		return
	}
	gocv.CvtColor(src, dst, gocv.ColorBGRToGray)
}

// toChannels replicates a single-channel plane across three channels when
// the target has colour.
func toChannels(plane gocv.Mat, dst *gocv.Mat, channels int) {
	if channels == 1 {
		plane.CopyTo(dst)
		return
	}
	gocv.CvtColor(plane, dst, gocv.ColorGrayToBGR)
}

// Grayscale returns the single-channel luma of src.
func Grayscale(src *models.Image) (*models.Image, error) {
	return transform("grayscale", src, models.OrderGray, toGray)
}
