package filters

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"image-filter-studio/internal/models"
)

func applyMorph(t *testing.T, f Filter, img *models.Image, ksize int) *models.Image {
	t.Helper()
	out, err := f.Apply(context.Background(), img, Params{"ksize": ksize})
	require.NoError(t, err)
	return out
}

func TestErosionKeepsWhiteImageWhite(t *testing.T) {
	// Samples outside the image are ignored, so nothing erodes from the
	// border inwards.
	img := filled(t, 4, 4, models.OrderGray, 255)

	out := applyMorph(t, NewErosionFilter(), img, 3)
	for i, v := range out.Pix() {
		assert.Equal(t, uint8(255), v, "pixel %d", i)
	}
}

func TestErosionAndDilation(t *testing.T) {
	img := maskOf(t,
		".......",
		".###...",
		".###...",
		".###...",
		".......",
		".....#.",
		".......",
	)

	eroded := applyMorph(t, NewErosionFilter(), img, 3)
	assert.True(t, maskOf(t,
		".......",
		".......",
		"..#....",
		".......",
		".......",
		".......",
		".......",
	).Equal(eroded))

	dilated := applyMorph(t, NewDilationFilter(), img, 3)
	assert.True(t, maskOf(t,
		"#####..",
		"#####..",
		"#####..",
		"#####..",
		"#######",
		"....###",
		"....###",
	).Equal(dilated))
}

func TestThresholdIsStrictlyAbove127(t *testing.T) {
	img := grayFrom(t, [][]uint8{{127, 128}})
	out := applyMorph(t, NewDilationFilter(), img, 1)
	assert.Equal(t, []uint8{0, 255}, out.Pix())
}

func TestOpeningRemovesSpecksKeepsBlocks(t *testing.T) {
	img := maskOf(t,
		"#.......",
		"...####.",
		"...####.",
		"...####.",
		"........",
	)
	out := applyMorph(t, NewOpeningFilter(), img, 3)
	assert.True(t, maskOf(t,
		"........",
		"...####.",
		"...####.",
		"...####.",
		"........",
	).Equal(out))
}

func TestClosingFillsGaps(t *testing.T) {
	img := maskOf(t,
		"..........",
		"..........",
		"..######..",
		"..##.###..",
		"..######..",
		"..........",
		"..........",
	)
	out := applyMorph(t, NewClosingFilter(), img, 3)
	assert.True(t, maskOf(t,
		"..........",
		"..........",
		"..######..",
		"..######..",
		"..######..",
		"..........",
		"..........",
	).Equal(out))
}

func randomMask(t *testing.T, w, h int, seed uint64) *models.Image {
	t.Helper()
	r := rand.New(rand.NewPCG(seed, seed+1))
	img, err := models.NewImage(w, h, models.OrderGray)
	require.NoError(t, err)
	for i := range img.Pix() {
		if r.IntN(100) < 55 {
			img.Pix()[i] = 255
		}
	}
	return img
}

func TestOpeningAndClosingAreIdempotent(t *testing.T) {
	for seed := uint64(1); seed <= 5; seed++ {
		img := randomMask(t, 23, 17, seed)
		for _, f := range []Filter{NewOpeningFilter(), NewClosingFilter()} {
			for _, ksize := range []int{1, 3, 5} {
				once := applyMorph(t, f, img, ksize)
				twice := applyMorph(t, f, once, ksize)
				assert.True(t, once.Equal(twice), "%s ksize=%d seed=%d", f.Name(), ksize, seed)
			}
		}
	}
}

func TestBoundaryIsMaskMinusErosion(t *testing.T) {
	img := filled(t, 11, 9, models.OrderGray, 0)
	noisy := randomMask(t, 11, 9, 42)
	copy(img.Pix(), noisy.Pix())
	img.Set(0, 0, 0, 200) // non-binary sample above threshold

	binary, err := Binarize(img)
	require.NoError(t, err)
	mask := binary.Pix()
	assert.Equal(t, uint8(255), mask[0])

	eroded := applyMorph(t, NewErosionFilter(), img, 3)
	boundary := applyMorph(t, NewBoundaryExtractionFilter(), img, 3)

	for i := range mask {
		want := uint8(0)
		if mask[i] > eroded.Pix()[i] {
			want = mask[i] - eroded.Pix()[i]
		}
		assert.Equal(t, want, boundary.Pix()[i], "pixel %d", i)
	}
}

func TestAllZeroMaskStaysZero(t *testing.T) {
	morph := []Filter{
		NewErosionFilter(), NewDilationFilter(), NewOpeningFilter(),
		NewClosingFilter(), NewBoundaryExtractionFilter(), NewRegionFillingFilter(),
	}
	for _, order := range []models.ChannelOrder{models.OrderGray, models.OrderBGR} {
		img := filled(t, 6, 5, order, 0)
		for _, f := range morph {
			out := applyMorph(t, f, img, 3)
			for _, v := range out.Pix() {
				require.Equal(t, uint8(0), v, "%s on %s", f.Name(), order)
			}
		}
	}
}

func TestRegionFillingFillsEnclosedHoles(t *testing.T) {
	img := maskOf(t,
		"........",
		".#####..",
		".#...#..",
		".#.#.#..",
		".#####..",
		"........",
		"###.....",
		"#.#.....",
	)

	out := applyMorph(t, NewRegionFillingFilter(), img, 5)
	assert.True(t, maskOf(t,
		"........",
		".#####..",
		".#####..",
		".#####..",
		".#####..",
		"........",
		"###.....",
		"#.#.....",
	).Equal(out))
}

func TestRegionFillingWithForegroundAtOrigin(t *testing.T) {
	img := maskOf(t,
		"#####",
		"#...#",
		"#.#.#",
		"#...#",
		"#####",
	)

	out := applyMorph(t, NewRegionFillingFilter(), img, 3)
	for _, v := range out.Pix() {
		assert.Equal(t, uint8(255), v)
	}
}

func TestRegionFillingUsesFourConnectedBackground(t *testing.T) {
	// The hole touches the outside only diagonally, so it stays enclosed.
	img := maskOf(t,
		".#...",
		"#.#..",
		".#...",
	)
	out := applyMorph(t, NewRegionFillingFilter(), img, 3)
	assert.Equal(t, uint8(255), out.At(1, 1, 0))
	assert.Equal(t, uint8(0), out.At(0, 0, 0))
	assert.Equal(t, uint8(0), out.At(4, 2, 0))
}

func TestMorphologyOnColourReplicatesChannels(t *testing.T) {
	img, err := models.NewImageFromBytes(2, 1, models.OrderBGR, []uint8{
		255, 255, 255, // white
		255, 0, 0, // pure blue, luma 29
	})
	require.NoError(t, err)

	out := applyMorph(t, NewDilationFilter(), img, 1)
	assert.Equal(t, models.OrderBGR, out.Order())
	assert.Equal(t, []uint8{255, 255, 255, 0, 0, 0}, out.Pix())
}
