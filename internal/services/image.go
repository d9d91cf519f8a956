package services

import (
	"bufio"
	"context"
	"fmt"
	"image"
	"io"
	"time"

	"image-filter-studio/internal/codec"
	"image-filter-studio/internal/logger"
	"image-filter-studio/internal/models"
	"image-filter-studio/internal/session"

	"github.com/disintegration/imaging"
)

// ImageService handles loading, saving and previewing the session image.
type ImageService struct {
	codec   codec.Codec
	session *session.Session
	logger  logger.Logger

	previewWidth  int
	previewHeight int
}

// NewImageService creates a new image service
func NewImageService(c codec.Codec, s *session.Session, log logger.Logger, previewWidth, previewHeight int) *ImageService {
	if log == nil {
		log = logger.Nop()
	}
	return &ImageService{
		codec:         c,
		session:       s,
		logger:        log,
		previewWidth:  previewWidth,
		previewHeight: previewHeight,
	}
}

// Open decodes the file at path and loads it into the session.
func (is *ImageService) Open(ctx context.Context, path string) (*models.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	img, err := is.codec.Decode(path)
	if err != nil {
		is.logger.Error("ImageService", err, map[string]interface{}{"path": path})
		return nil, err
	}
	return is.load(img, path, start)
}

// OpenReader loads an image from an already opened stream, such as the
// reader handed back by a file dialog. The reader is closed.
func (is *ImageService) OpenReader(ctx context.Context, reader io.ReadCloser, name string) (*models.Image, error) {
	defer reader.Close()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	data, err := io.ReadAll(bufio.NewReader(reader))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read image data: %v", models.ErrDecode, err)
	}

	img, err := is.codec.DecodeBytes(data)
	if err != nil {
		is.logger.Error("ImageService", err, map[string]interface{}{"name": name, "size_bytes": len(data)})
		return nil, err
	}
	return is.load(img, name, start)
}

func (is *ImageService) load(img *models.Image, name string, start time.Time) (*models.Image, error) {
	if err := is.session.Load(img); err != nil {
		return nil, err
	}

	is.logger.Info("ImageService", "image loaded", map[string]interface{}{
		"source":   name,
		"session":  is.session.ID().String(),
		"width":    img.Width(),
		"height":   img.Height(),
		"channels": img.Channels(),
		"checksum": fmt.Sprintf("%016x", img.Checksum()),
		"duration": time.Since(start),
	})
	return img, nil
}

// Save writes the current session image to path. The format follows the
// extension.
func (is *ImageService) Save(ctx context.Context, path string) error {
	if err := is.session.Save(ctx, is.codec, path); err != nil {
		is.logger.Error("ImageService", err, map[string]interface{}{"path": path})
		return err
	}

	is.logger.Info("ImageService", "image saved", map[string]interface{}{
		"path":    path,
		"format":  codec.Format(path),
		"session": is.session.ID().String(),
	})
	return nil
}

// Preview scales img to fit the configured preview box with Lanczos
// resampling, keeping the aspect ratio. Smaller images are not enlarged.
func (is *ImageService) Preview(img *models.Image) image.Image {
	return FitPreview(img, is.previewWidth, is.previewHeight)
}

// FitPreview renders img into a w x h box. It returns nil for a nil image.
func FitPreview(img *models.Image, w, h int) image.Image {
	if img == nil || img.Validate() != nil {
		return nil
	}
	std := img.ToStdImage()
	if w <= 0 || h <= 0 {
		return std
	}
	return imaging.Fit(std, w, h, imaging.Lanczos)
}

// SupportedFormats lists the file extensions the codecs accept.
func (is *ImageService) SupportedFormats() []string {
	return codec.SupportedExtensions()
}
