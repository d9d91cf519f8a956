package opencv

import (
	"fmt"

	"image-filter-studio/internal/models"

	"gocv.io/x/gocv"
)

// maxSide mirrors the size guard applied before allocating Mats.
const maxSide = 32768

func validateMat(mat gocv.Mat, operation string) error {
	if mat.Empty() {
		return fmt.Errorf("Mat is empty for operation: %s", operation)
	}
	if mat.Rows() <= 0 || mat.Cols() <= 0 || mat.Rows() > maxSide || mat.Cols() > maxSide {
		return fmt.Errorf("Mat has invalid dimensions %dx%d for operation: %s", mat.Cols(), mat.Rows(), operation)
	}
	return nil
}

// ImageFromMat copies an 8-bit Mat into an owned image. Three channel Mats
// are tagged BGR; four channel Mats lose alpha.
func ImageFromMat(mat gocv.Mat) (*models.Image, error) {
	if err := validateMat(mat, "Mat to image conversion"); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}

	switch mat.Type() {
	case gocv.MatTypeCV8UC1:
		return models.NewImageFromBytes(mat.Cols(), mat.Rows(), models.OrderGray, mat.ToBytes())
	case gocv.MatTypeCV8UC3:
		return models.NewImageFromBytes(mat.Cols(), mat.Rows(), models.OrderBGR, mat.ToBytes())
	case gocv.MatTypeCV8UC4:
		bgr := gocv.NewMat()
		defer bgr.Close()
		gocv.CvtColor(mat, &bgr, gocv.ColorBGRAToBGR)
		return models.NewImageFromBytes(bgr.Cols(), bgr.Rows(), models.OrderBGR, bgr.ToBytes())
	default:
		return nil, fmt.Errorf("%w: unsupported Mat type %v", models.ErrInvalidInput, mat.Type())
	}
}

// MatFromImage copies img into a new Mat in OpenCV's BGR order. The caller
// owns the Mat and must Close it.
func MatFromImage(img *models.Image) (gocv.Mat, error) {
	if err := img.Validate(); err != nil {
		return gocv.NewMat(), err
	}

	if img.Order() == models.OrderRGB {
		bgr, err := img.WithOrder(models.OrderBGR)
		if err != nil {
			return gocv.NewMat(), err
		}
		img = bgr
	}

	matType := gocv.MatTypeCV8UC3
	if img.Channels() == 1 {
		matType = gocv.MatTypeCV8UC1
	}

	mat, err := gocv.NewMatFromBytes(img.Height(), img.Width(), matType, img.Pix())
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("Mat creation failed: %w", err)
	}
	// NewMatFromBytes shares the slice; detach from the image buffer.
	owned := mat.Clone()
	mat.Close()
	return owned, nil
}
