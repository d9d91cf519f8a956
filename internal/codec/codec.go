package codec

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"image-filter-studio/internal/models"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// JPEGQuality is used for every JPEG write.
const JPEGQuality = 95

// Codec reads and writes image files.
type Codec interface {
	Decode(path string) (*models.Image, error)
	DecodeBytes(data []byte) (*models.Image, error)
	Encode(img *models.Image, path string) error
}

// Format returns the encoding used for path, chosen by extension. Unknown
// extensions map to png.
func Format(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".bmp":
		return "bmp"
	case ".tif", ".tiff":
		return "tiff"
	default:
		return "png"
	}
}

// SupportedExtensions lists the extensions offered in file dialogs.
func SupportedExtensions() []string {
	return []string{".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff"}
}

// Std is the pure Go codec built on image/* and golang.org/x/image.
type Std struct{}

func NewStd() *Std {
	return &Std{}
}

func (c *Std) Decode(path string) (*models.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrDecode, err)
	}
	return c.DecodeBytes(data)
}

func (c *Std) DecodeBytes(data []byte) (*models.Image, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrDecode, err)
	}
	img, err := models.FromStdImage(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrDecode, err)
	}
	return img, nil
}

func (c *Std) Encode(img *models.Image, path string) error {
	if err := img.Validate(); err != nil {
		return fmt.Errorf("%w: %v", models.ErrEncode, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrEncode, err)
	}

	err = EncodeTo(f, img, Format(path))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return fmt.Errorf("%w: %s: %v", models.ErrEncode, path, err)
	}
	return nil
}

// EncodeTo writes img to w in the named format.
func EncodeTo(w io.Writer, img *models.Image, format string) error {
	std := img.ToStdImage()
	switch format {
	case "jpeg":
		return jpeg.Encode(w, std, &jpeg.Options{Quality: JPEGQuality})
	case "bmp":
		return bmp.Encode(w, std)
	case "tiff":
		return tiff.Encode(w, std, &tiff.Options{Compression: tiff.Deflate})
	default:
		return png.Encode(w, std)
	}
}
