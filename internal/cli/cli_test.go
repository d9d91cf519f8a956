package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"image-filter-studio/internal/codec"
	"image-filter-studio/internal/models"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "none.env"), "--log-level", "error"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestListPrintsEveryTransform(t *testing.T) {
	out, err := execute(t, "list")
	require.NoError(t, err)

	for _, name := range []string{"add_noise", "remove_noise", "region_filling", "Boundary Extraction", "ksize=5"} {
		assert.Contains(t, out, name)
	}
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 13)
}

func TestApplyWritesResult(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out.png")

	img, err := models.NewImage(9, 9, models.OrderGray)
	require.NoError(t, err)
	img.Set(4, 4, 0, 255)
	require.NoError(t, codec.NewStd().Encode(img, in))

	stdout, err := execute(t, "apply", "-i", in, "-o", out, "--checksum", "dilation:ksize=3")
	require.NoError(t, err)

	got, err := codec.NewStd().Decode(out)
	require.NoError(t, err)
	for y := 0; y < 9; y++ {
		for x := 0; x < 9; x++ {
			want := uint8(0)
			if x >= 3 && x <= 5 && y >= 3 && y <= 5 {
				want = 255
			}
			assert.Equal(t, want, got.At(x, y, 0), "(%d,%d)", x, y)
		}
	}
	assert.Contains(t, stdout, out)
}

func TestApplyErrors(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	img, err := models.NewImage(4, 4, models.OrderBGR)
	require.NoError(t, err)
	require.NoError(t, codec.NewStd().Encode(img, in))

	_, err = execute(t, "apply", "-i", in, "-o", filepath.Join(dir, "o.png"), "sharpen")
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = execute(t, "apply", "-i", in, "-o", filepath.Join(dir, "o.png"), "erosion:ksize")
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = execute(t, "apply", "-i", filepath.Join(dir, "missing.png"), "-o", filepath.Join(dir, "o.png"), "erosion")
	assert.ErrorIs(t, err, models.ErrDecode)

	_, err = execute(t, "apply", "-o", filepath.Join(dir, "o.png"), "erosion")
	assert.Error(t, err)
}

func TestSeedFlagMakesNoiseReproducible(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	img, err := models.NewImage(8, 8, models.OrderBGR)
	require.NoError(t, err)
	require.NoError(t, codec.NewStd().Encode(img, in))

	a, err := execute(t, "--seed", "77", "apply", "-i", in, "-o", filepath.Join(dir, "a.png"), "--checksum", "gaussian_noise")
	require.NoError(t, err)
	b, err := execute(t, "--seed", "77", "apply", "-i", in, "-o", filepath.Join(dir, "b.png"), "--checksum", "gaussian_noise")
	require.NoError(t, err)

	assert.Equal(t, strings.Fields(a)[0], strings.Fields(b)[0])
}

func TestBadConfigurationFails(t *testing.T) {
	t.Setenv("IMAGEFILTER_CODEC", "magick")
	_, err := execute(t, "list")
	assert.Error(t, err)
}

func TestMaxHistoryFlagOverridesEnvironmentWithZero(t *testing.T) {
	t.Setenv("IMAGEFILTER_MAX_HISTORY", "3")

	st := &state{envFile: filepath.Join(t.TempDir(), "none.env")}
	cmd := &cobra.Command{}
	cmd.Flags().IntVar(&st.maxHistory, "max-history", 0, "")
	require.NoError(t, cmd.Flags().Set("max-history", "0"))

	require.NoError(t, st.setup(cmd))
	defer st.services.Close()
	assert.Equal(t, 0, st.cfg.MaxHistory)

	require.NoError(t, cmd.Flags().Set("max-history", "-1"))
	assert.Error(t, st.setup(cmd))
}
