package filters

import (
	"context"
	"fmt"
	"math/rand/v2"

	"image-filter-studio/internal/models"
)

// NormSource yields standard normal variates. *rand.Rand satisfies it.
type NormSource interface {
	NormFloat64() float64
}

// SourceFactory hands every noise call its own generator so filters keep
// no state between calls.
type SourceFactory func() NormSource

// RandomSources returns a factory of unseeded generators.
func RandomSources() SourceFactory {
	return func() NormSource {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
}

// SeededSources returns a factory whose every generator replays the same
// stream for seed.
func SeededSources(seed uint64) SourceFactory {
	return func() NormSource {
		return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// addGaussian adds mean + sigma*N(0,1) to every sample, clamps to [0,255]
// and truncates.
func addGaussian(input *models.Image, src NormSource, mean, sigma float64) *models.Image {
	out := input.Clone()
	pix := out.Pix()
	for i, v := range pix {
		pix[i] = clampByte(float64(v) + mean + sigma*src.NormFloat64())
	}
	return out
}

type NoiseFilter struct {
	sources SourceFactory
}

func NewNoiseFilter(sources SourceFactory) *NoiseFilter {
	if sources == nil {
		sources = RandomSources()
	}
	return &NoiseFilter{sources: sources}
}

func (n *NoiseFilter) Name() string {
	return "add_noise"
}

// Apply scales the noise by intensity: sigma = intensity * 255.
func (n *NoiseFilter) Apply(ctx context.Context, input *models.Image, params Params) (*models.Image, error) {
	if err := validateInput(ctx, input); err != nil {
		return nil, err
	}

	intensity, err := params.Float("intensity", 0.05)
	if err != nil {
		return nil, err
	}
	if intensity < 0 {
		return nil, fmt.Errorf("%w: intensity must be >= 0, got %v", models.ErrInvalidInput, intensity)
	}

	return addGaussian(input, n.sources(), 0, intensity*255), nil
}

type GaussianNoiseFilter struct {
	sources SourceFactory
}

func NewGaussianNoiseFilter(sources SourceFactory) *GaussianNoiseFilter {
	if sources == nil {
		sources = RandomSources()
	}
	return &GaussianNoiseFilter{sources: sources}
}

func (g *GaussianNoiseFilter) Name() string {
	return "gaussian_noise"
}

func (g *GaussianNoiseFilter) Apply(ctx context.Context, input *models.Image, params Params) (*models.Image, error) {
	if err := validateInput(ctx, input); err != nil {
		return nil, err
	}

	mean, err := params.Float("mean", 0)
	if err != nil {
		return nil, err
	}
	sigma, err := params.Float("sigma", 25)
	if err != nil {
		return nil, err
	}
	if sigma < 0 {
		return nil, fmt.Errorf("%w: sigma must be >= 0, got %v", models.ErrInvalidInput, sigma)
	}

	return addGaussian(input, g.sources(), mean, sigma), nil
}
