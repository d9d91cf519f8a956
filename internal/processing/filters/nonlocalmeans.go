package filters

import (
	"context"
	"fmt"

	"image-filter-studio/internal/models"

	"gocv.io/x/gocv"
)

type NonLocalMeansFilter struct{}

func NewNonLocalMeansFilter() *NonLocalMeansFilter {
	return &NonLocalMeansFilter{}
}

func (n *NonLocalMeansFilter) Name() string {
	return "remove_noise"
}

// nlmParams mirrors the usual OpenCV defaults: h=10, hColor=10,
// templateWindowSize=7, searchWindowSize=21.
type nlmParams struct {
	h            float32
	hColor       float32
	templateSize int
	searchSize   int
}

func (n *NonLocalMeansFilter) parseParams(params Params) (nlmParams, error) {
	var p nlmParams

	// ksize is accepted for a uniform call shape and validated, but unused.
	if _, err := params.KernelSize(); err != nil {
		return p, err
	}
	h, err := params.Float("h", 10)
	if err != nil {
		return p, err
	}
	hColor, err := params.Float("h_color", 10)
	if err != nil {
		return p, err
	}
	if p.templateSize, err = params.Int("template_size", 7); err != nil {
		return p, err
	}
	if p.searchSize, err = params.Int("search_size", 21); err != nil {
		return p, err
	}

	if h <= 0 || hColor <= 0 {
		return p, fmt.Errorf("%w: filter strengths must be > 0", models.ErrInvalidInput)
	}
	for name, size := range map[string]int{"template_size": p.templateSize, "search_size": p.searchSize} {
		if size < 1 || size%2 == 0 {
			return p, fmt.Errorf("%w: %s must be odd and >= 1, got %d", models.ErrInvalidInput, name, size)
		}
	}
	p.h, p.hColor = float32(h), float32(hColor)
	return p, nil
}

// Apply denoises gray images with h alone. Colour images are split by
// OpenCV into luminance, denoised with h, and chroma, denoised with hColor.
func (n *NonLocalMeansFilter) Apply(ctx context.Context, input *models.Image, params Params) (*models.Image, error) {
	if err := validateInput(ctx, input); err != nil {
		return nil, err
	}
	p, err := n.parseParams(params)
	if err != nil {
		return nil, err
	}

	return withMat(n.Name(), input, func(src gocv.Mat, dst *gocv.Mat) {
		if src.Channels() == 1 {
			gocv.FastNlMeansDenoisingWithParams(src, dst, p.h, p.templateSize, p.searchSize)
			return
		}
		gocv.FastNlMeansDenoisingColoredWithParams(src, dst, p.h, p.hColor, p.templateSize, p.searchSize)
	})
}
