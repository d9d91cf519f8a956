package services

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"image-filter-studio/internal/codec"
	"image-filter-studio/internal/logger"
	"image-filter-studio/internal/models"
	"image-filter-studio/internal/processing/filters"
	"image-filter-studio/internal/session"
)

type fixture struct {
	session    *session.Session
	images     *ImageService
	processing *ProcessingService
}

func newFixture() fixture {
	cat := filters.NewCatalogue(filters.WithNoiseSources(filters.SeededSources(5)))
	s := session.New(cat)
	return fixture{
		session:    s,
		images:     NewImageService(codec.NewStd(), s, logger.Nop(), 500, 300),
		processing: NewProcessingService(cat, s, nil),
	}
}

func writeSample(t *testing.T, w, h int) (string, *models.Image) {
	t.Helper()
	img, err := models.NewImage(w, h, models.OrderBGR)
	require.NoError(t, err)
	for i := range img.Pix() {
		img.Pix()[i] = uint8(i % 251)
	}
	path := filepath.Join(t.TempDir(), "in.png")
	require.NoError(t, codec.NewStd().Encode(img, path))
	return path, img
}

func TestOpenApplySave(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	in, img := writeSample(t, 12, 8)

	loaded, err := f.images.Open(ctx, in)
	require.NoError(t, err)
	assert.True(t, img.Equal(loaded))
	assert.Equal(t, session.StateLoaded, f.session.State())

	steps := []filters.Step{
		{Name: "median_filter", Params: filters.Params{"ksize": 3}},
		{Name: "boundary_extraction"},
	}
	require.NoError(t, f.processing.RunSteps(ctx, steps))
	assert.Equal(t, 2, f.session.HistoryDepth())

	out := filepath.Join(t.TempDir(), "out.png")
	require.NoError(t, f.images.Save(ctx, out))

	saved, err := codec.NewStd().Decode(out)
	require.NoError(t, err)
	assert.True(t, f.session.Current().Equal(saved))
}

func TestRunStepsStopsAtFailure(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	in, _ := writeSample(t, 6, 6)
	_, err := f.images.Open(ctx, in)
	require.NoError(t, err)

	err = f.processing.RunSteps(ctx, []filters.Step{
		{Name: "erosion"},
		{Name: "erosion", Params: filters.Params{"ksize": 2}},
		{Name: "dilation"},
	})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
	assert.Contains(t, err.Error(), "step 2")
	assert.Equal(t, 1, f.session.HistoryDepth())
}

func TestOpenFailureKeepsSession(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	in, img := writeSample(t, 4, 4)
	_, err := f.images.Open(ctx, in)
	require.NoError(t, err)

	_, err = f.images.Open(ctx, filepath.Join(t.TempDir(), "missing.png"))
	assert.ErrorIs(t, err, models.ErrDecode)

	_, err = f.images.OpenReader(ctx, io.NopCloser(bytes.NewReader([]byte("junk"))), "junk.png")
	assert.ErrorIs(t, err, models.ErrDecode)

	assert.True(t, img.Equal(f.session.Current()))
}

func TestOpenReader(t *testing.T) {
	f := newFixture()
	_, img := writeSample(t, 5, 3)

	var buf bytes.Buffer
	require.NoError(t, codec.EncodeTo(&buf, img, "png"))

	got, err := f.images.OpenReader(context.Background(), io.NopCloser(&buf), "mem.png")
	require.NoError(t, err)
	assert.True(t, img.Equal(got))
}

func TestUndoResetThroughService(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	assert.ErrorIs(t, f.processing.Undo(), models.ErrNothingToUndo)
	assert.ErrorIs(t, f.processing.Reset(), models.ErrNoImageLoaded)
	assert.ErrorIs(t, f.images.Save(ctx, filepath.Join(t.TempDir(), "x.png")), models.ErrNoImageLoaded)

	in, img := writeSample(t, 6, 6)
	_, err := f.images.Open(ctx, in)
	require.NoError(t, err)
	require.NoError(t, f.processing.Apply(ctx, "add_noise", nil))
	require.NoError(t, f.processing.Undo())
	assert.True(t, img.Equal(f.session.Current()))

	require.NoError(t, f.processing.Apply(ctx, "gaussian_noise", nil))
	require.NoError(t, f.processing.Reset())
	assert.True(t, img.Equal(f.session.Current()))
}

func TestPreviewFitsBox(t *testing.T) {
	wide, err := models.NewImage(1000, 200, models.OrderBGR)
	require.NoError(t, err)

	p := FitPreview(wide, 500, 300)
	require.NotNil(t, p)
	assert.Equal(t, 500, p.Bounds().Dx())
	assert.Equal(t, 100, p.Bounds().Dy())

	small, err := models.NewImage(40, 30, models.OrderGray)
	require.NoError(t, err)
	p = FitPreview(small, 500, 300)
	assert.Equal(t, 40, p.Bounds().Dx())
	assert.Equal(t, 30, p.Bounds().Dy())

	assert.Nil(t, FitPreview(nil, 10, 10))
}

func TestFiltersListsCatalogue(t *testing.T) {
	f := newFixture()
	descs := f.processing.Filters()
	require.Len(t, descs, 12)
	assert.Equal(t, "add_noise", descs[0].Name)
	assert.Equal(t, "Region Filling", descs[11].Label)
}
