package filters

import (
	"testing"

	"github.com/stretchr/testify/require"

	"image-filter-studio/internal/models"
)

// grayFrom builds a gray image from rows of samples.
func grayFrom(t *testing.T, rows [][]uint8) *models.Image {
	t.Helper()
	h, w := len(rows), len(rows[0])
	pix := make([]uint8, 0, w*h)
	for _, r := range rows {
		require.Len(t, r, w)
		pix = append(pix, r...)
	}
	img, err := models.NewImageFromBytes(w, h, models.OrderGray, pix)
	require.NoError(t, err)
	return img
}

func filled(t *testing.T, w, h int, order models.ChannelOrder, v uint8) *models.Image {
	t.Helper()
	img, err := models.NewImage(w, h, order)
	require.NoError(t, err)
	for i := range img.Pix() {
		img.Pix()[i] = v
	}
	return img
}

// maskOf renders a plane of '#' (foreground) and '.' (background).
func maskOf(t *testing.T, art ...string) *models.Image {
	t.Helper()
	rows := make([][]uint8, len(art))
	for y, line := range art {
		rows[y] = make([]uint8, len(line))
		for x, ch := range line {
			if ch == '#' {
				rows[y][x] = 255
			}
		}
	}
	return grayFrom(t, rows)
}

// fixedSource replays values cyclically.
type fixedSource struct {
	values []float64
	i      int
}

func (f *fixedSource) NormFloat64() float64 {
	v := f.values[f.i%len(f.values)]
	f.i++
	return v
}

func fixedSources(values ...float64) SourceFactory {
	return func() NormSource {
		return &fixedSource{values: values}
	}
}
