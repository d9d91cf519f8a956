package filters

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"image-filter-studio/internal/models"
)

// DefaultKernelSize is used by every filter that takes a ksize parameter
// when the caller does not supply one.
const DefaultKernelSize = 5

// Params carries optional scalar arguments keyed by name.
type Params map[string]interface{}

// Filter maps one image to a new image of the same width and height. The
// input is never modified or retained.
type Filter interface {
	Name() string
	Apply(ctx context.Context, input *models.Image, params Params) (*models.Image, error)
}

// Float returns params[key] as a float64, or def when the key is absent.
func (p Params) Float(key string, def float64) (float64, error) {
	raw, ok := p[key]
	if !ok || raw == nil {
		return def, nil
	}

	var v float64
	switch val := raw.(type) {
	case float64:
		v = val
	case float32:
		v = float64(val)
	case int:
		v = float64(val)
	case int64:
		v = float64(val)
	case int32:
		v = float64(val)
	case string:
		parsed, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: parameter %s=%q is not a number", models.ErrInvalidInput, key, val)
		}
		v = parsed
	default:
		return 0, fmt.Errorf("%w: parameter %s has unsupported type %T", models.ErrInvalidInput, key, raw)
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: parameter %s is not finite", models.ErrInvalidInput, key)
	}
	return v, nil
}

// Int returns params[key] as an int. Fractional values are rejected.
func (p Params) Int(key string, def int) (int, error) {
	v, err := p.Float(key, float64(def))
	if err != nil {
		return 0, err
	}
	if v != math.Trunc(v) {
		return 0, fmt.Errorf("%w: parameter %s=%v must be an integer", models.ErrInvalidInput, key, v)
	}
	return int(v), nil
}

// KernelSize returns the validated ksize parameter.
func (p Params) KernelSize() (int, error) {
	ksize, err := p.Int("ksize", DefaultKernelSize)
	if err != nil {
		return 0, err
	}
	if ksize < 1 || ksize%2 == 0 {
		return 0, fmt.Errorf("%w: ksize must be odd and >= 1, got %d", models.ErrInvalidInput, ksize)
	}
	return ksize, nil
}

// validateInput enforces the shape contract shared by the catalogue.
func validateInput(ctx context.Context, input *models.Image) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := input.Validate(); err != nil {
		return err
	}
	if c := input.Channels(); c != 1 && c != 3 {
		return fmt.Errorf("%w: unsupported channel count %d", models.ErrInvalidInput, c)
	}
	return nil
}

func clampByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
