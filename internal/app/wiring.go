package app

import (
	"fmt"

	"image-filter-studio/internal/codec"
	"image-filter-studio/internal/config"
	"image-filter-studio/internal/logger"
	"image-filter-studio/internal/opencv"
	"image-filter-studio/internal/processing/filters"
	"image-filter-studio/internal/services"
	"image-filter-studio/internal/session"
)

// Services is the object graph shared by the GUI and the CLI.
type Services struct {
	Catalogue  *filters.Catalogue
	Session    *session.Session
	Codec      codec.Codec
	Images     *services.ImageService
	Processing *services.ProcessingService
	Logger     logger.Logger
}

// NewServices builds the catalogue, session, codec and services from cfg.
func NewServices(cfg config.Config, log logger.Logger) (*Services, error) {
	if log == nil {
		log = logger.Nop()
	}

	var opts []filters.Option
	if cfg.NoiseSeed != nil {
		opts = append(opts, filters.WithNoiseSources(filters.SeededSources(*cfg.NoiseSeed)))
	}
	catalogue := filters.NewCatalogue(opts...)

	c, err := NewCodec(cfg.Codec, log)
	if err != nil {
		return nil, err
	}

	s := session.New(catalogue, session.WithMaxHistory(cfg.MaxHistory))

	log.Debug("Services", "services wired", map[string]interface{}{
		"codec":       cfg.Codec,
		"max_history": cfg.MaxHistory,
		"seeded":      cfg.NoiseSeed != nil,
		"transforms":  len(catalogue.Names()),
	})

	return &Services{
		Catalogue:  catalogue,
		Session:    s,
		Codec:      c,
		Images:     services.NewImageService(c, s, log, cfg.PreviewWidth, cfg.PreviewHeight),
		Processing: services.NewProcessingService(catalogue, s, log),
		Logger:     log,
	}, nil
}

// NewCodec selects the codec implementation by name.
func NewCodec(name string, log logger.Logger) (codec.Codec, error) {
	switch name {
	case "", config.CodecStd:
		return codec.NewStd(), nil
	case config.CodecOpenCV:
		return opencv.NewCodec(log), nil
	default:
		return nil, fmt.Errorf("unknown codec %q", name)
	}
}

// Close releases the session images.
func (s *Services) Close() {
	s.Session.Close()
}
