package filters

import (
	"context"
	"fmt"
	"image"

	"image-filter-studio/internal/models"

	"gocv.io/x/gocv"
)

// All three smoothing filters work per channel over a ksize x ksize window
// and extend the border by replicating the edge pixel.

type MeanFilter struct{}

func NewMeanFilter() *MeanFilter {
	return &MeanFilter{}
}

func (m *MeanFilter) Name() string {
	return "mean_filter"
}

func (m *MeanFilter) Apply(ctx context.Context, input *models.Image, params Params) (*models.Image, error) {
	if err := validateInput(ctx, input); err != nil {
		return nil, err
	}
	ksize, err := params.KernelSize()
	if err != nil {
		return nil, err
	}

	return withMat(m.Name(), input, func(src gocv.Mat, dst *gocv.Mat) {
		replicateBorder(src, dst, ksize/2, func(padded gocv.Mat, out *gocv.Mat) {
			gocv.Blur(padded, out, image.Pt(ksize, ksize))
		})
	})
}

type MedianFilter struct{}

func NewMedianFilter() *MedianFilter {
	return &MedianFilter{}
}

func (m *MedianFilter) Name() string {
	return "median_filter"
}

func (m *MedianFilter) Apply(ctx context.Context, input *models.Image, params Params) (*models.Image, error) {
	if err := validateInput(ctx, input); err != nil {
		return nil, err
	}
	ksize, err := params.KernelSize()
	if err != nil {
		return nil, err
	}

	return withMat(m.Name(), input, func(src gocv.Mat, dst *gocv.Mat) {
		replicateBorder(src, dst, ksize/2, func(padded gocv.Mat, out *gocv.Mat) {
			gocv.MedianBlur(padded, out, ksize)
		})
	})
}

type GaussianFilter struct{}

func NewGaussianFilter() *GaussianFilter {
	return &GaussianFilter{}
}

func (g *GaussianFilter) Name() string {
	return "gaussian_filter"
}

// Apply accepts an optional sigma; 0 lets OpenCV derive it from ksize as
// 0.3*((ksize-1)*0.5-1)+0.8.
func (g *GaussianFilter) Apply(ctx context.Context, input *models.Image, params Params) (*models.Image, error) {
	if err := validateInput(ctx, input); err != nil {
		return nil, err
	}
	ksize, err := params.KernelSize()
	if err != nil {
		return nil, err
	}
	sigma, err := params.Float("sigma", 0)
	if err != nil {
		return nil, err
	}
	if sigma < 0 {
		return nil, fmt.Errorf("%w: sigma must be >= 0, got %v", models.ErrInvalidInput, sigma)
	}

	return withMat(g.Name(), input, func(src gocv.Mat, dst *gocv.Mat) {
		gocv.GaussianBlur(src, dst, image.Pt(ksize, ksize), sigma, sigma, gocv.BorderReplicate)
	})
}
