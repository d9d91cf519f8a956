package services

import (
	"context"
	"fmt"
	"time"

	"image-filter-studio/internal/logger"
	"image-filter-studio/internal/processing/filters"
	"image-filter-studio/internal/session"
)

// ProcessingService runs catalogue transforms and history commands against
// the session.
type ProcessingService struct {
	catalogue *filters.Catalogue
	session   *session.Session
	logger    logger.Logger
}

// NewProcessingService creates a new processing service
func NewProcessingService(cat *filters.Catalogue, s *session.Session, log logger.Logger) *ProcessingService {
	if log == nil {
		log = logger.Nop()
	}
	return &ProcessingService{catalogue: cat, session: s, logger: log}
}

// Filters describes every registered transform in display order.
func (ps *ProcessingService) Filters() []filters.Descriptor {
	names := ps.catalogue.Names()
	out := make([]filters.Descriptor, 0, len(names))
	for _, name := range names {
		if d, ok := ps.catalogue.Describe(name); ok {
			out = append(out, d)
		}
	}
	return out
}

// Apply runs one named transform on the current image.
func (ps *ProcessingService) Apply(ctx context.Context, name string, params filters.Params) error {
	start := time.Now()
	if err := ps.session.Apply(ctx, name, params); err != nil {
		ps.logger.Error("ProcessingService", err, map[string]interface{}{
			"filter":  name,
			"params":  params,
			"session": ps.session.ID().String(),
		})
		return err
	}

	ps.logger.Info("ProcessingService", "transform applied", map[string]interface{}{
		"filter":   name,
		"params":   params,
		"session":  ps.session.ID().String(),
		"history":  ps.session.HistoryDepth(),
		"duration": time.Since(start),
	})
	return nil
}

// RunSteps applies steps in order and stops at the first failure.
func (ps *ProcessingService) RunSteps(ctx context.Context, steps []filters.Step) error {
	for i, step := range steps {
		if err := ps.Apply(ctx, step.Name, step.Params); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, step, err)
		}
	}
	return nil
}

func (ps *ProcessingService) Undo() error {
	if err := ps.session.Undo(); err != nil {
		ps.logger.Warning("ProcessingService", "undo refused", map[string]interface{}{"reason": err.Error()})
		return err
	}
	ps.logger.Debug("ProcessingService", "undo", map[string]interface{}{"history": ps.session.HistoryDepth()})
	return nil
}

func (ps *ProcessingService) Reset() error {
	if err := ps.session.Reset(); err != nil {
		ps.logger.Warning("ProcessingService", "reset refused", map[string]interface{}{"reason": err.Error()})
		return err
	}
	ps.logger.Debug("ProcessingService", "reset", map[string]interface{}{"session": ps.session.ID().String()})
	return nil
}
