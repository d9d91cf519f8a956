package opencv

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"image-filter-studio/internal/codec"
	"image-filter-studio/internal/logger"
	"image-filter-studio/internal/models"

	"gocv.io/x/gocv"
)

// Codec reads and writes files through OpenCV. Every file, gray ones
// included, is read as 3-channel BGR (IMReadColor).
type Codec struct {
	logger logger.Logger
}

func NewCodec(log logger.Logger) *Codec {
	if log == nil {
		log = logger.Nop()
	}
	return &Codec{logger: log}
}

var _ codec.Codec = (*Codec)(nil)

func (c *Codec) Decode(path string) (*models.Image, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrDecode, err)
	}

	mat := gocv.IMRead(path, gocv.IMReadColor)
	defer mat.Close()
	if mat.Empty() {
		return nil, fmt.Errorf("%w: OpenCV could not read %s", models.ErrDecode, path)
	}

	img, err := ImageFromMat(mat)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrDecode, err)
	}

	c.logger.Debug("OpenCVCodec", "image read", map[string]interface{}{
		"path":     path,
		"width":    img.Width(),
		"height":   img.Height(),
		"channels": img.Channels(),
	})
	return img, nil
}

func (c *Codec) DecodeBytes(data []byte) (*models.Image, error) {
	mat, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrDecode, err)
	}
	defer mat.Close()
	if mat.Empty() {
		return nil, fmt.Errorf("%w: OpenCV could not decode %d bytes", models.ErrDecode, len(data))
	}

	img, err := ImageFromMat(mat)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrDecode, err)
	}
	return img, nil
}

func (c *Codec) Encode(img *models.Image, path string) error {
	mat, err := MatFromImage(img)
	defer mat.Close()
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrEncode, err)
	}

	var params []int
	if codec.Format(path) == "jpeg" {
		params = []int{int(gocv.IMWriteJpegQuality), codec.JPEGQuality}
	}

	// OpenCV picks the encoder from the extension and refuses unknown ones,
	// so paths without a known extension are written as PNG bytes.
	ok := false
	if hasKnownExtension(path) {
		ok = gocv.IMWriteWithParams(path, mat, params)
	} else {
		ok, err = writeEncoded(path, mat)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", models.ErrEncode, path, err)
		}
	}
	if !ok {
		return fmt.Errorf("%w: OpenCV could not write %s", models.ErrEncode, path)
	}

	c.logger.Debug("OpenCVCodec", "image written", map[string]interface{}{
		"path":   path,
		"format": codec.Format(path),
	})
	return nil
}

func hasKnownExtension(path string) bool {
	ext := filepath.Ext(path)
	return ext != "" && slices.ContainsFunc(codec.SupportedExtensions(), func(known string) bool {
		return strings.EqualFold(ext, known)
	})
}

func writeEncoded(path string, mat gocv.Mat) (bool, error) {
	buf, err := gocv.IMEncode(gocv.PNGFileExt, mat)
	if err != nil {
		return false, err
	}
	defer buf.Close()
	if err := os.WriteFile(path, buf.GetBytes(), 0o644); err != nil {
		return false, err
	}
	return true, nil
}
