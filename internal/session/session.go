package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"image-filter-studio/internal/models"
	"image-filter-studio/internal/processing/filters"

	"github.com/google/uuid"
)

// State reports where a Session is in its lifecycle.
type State int

const (
	StateEmpty State = iota
	StateLoaded
	StateEdited
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoaded:
		return "loaded"
	case StateEdited:
		return "edited"
	default:
		return "unknown"
	}
}

// Transformer runs a named transform. *filters.Catalogue satisfies it.
type Transformer interface {
	Apply(ctx context.Context, name string, input *models.Image, params filters.Params) (*models.Image, error)
}

// Encoder writes an image to path. Both codec implementations satisfy it.
type Encoder interface {
	Encode(img *models.Image, path string) error
}

// Session owns the original image, the current working image and the
// undo history. All methods are safe for concurrent use.
type Session struct {
	mu          sync.Mutex
	transformer Transformer
	maxHistory  int

	id       uuid.UUID
	original *models.Image
	current  *models.Image
	history  []*models.Image
}

type Option func(*Session)

// WithMaxHistory bounds the undo stack. Zero keeps every snapshot; when the
// bound is exceeded the oldest snapshot is dropped.
func WithMaxHistory(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.maxHistory = n
		}
	}
}

func New(transformer Transformer, opts ...Option) *Session {
	s := &Session{transformer: transformer}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces everything held by the session with a copy of img.
func (s *Session) Load(img *models.Image) error {
	if err := img.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.release()
	s.id = uuid.Must(uuid.NewV7())
	s.original = img.Clone()
	s.current = img.Clone()
	return nil
}

// Apply runs the named transform on the current image. The previous image
// is pushed onto the history first; if the transform fails the push is
// rolled back and the session is left as it was.
func (s *Session) Apply(ctx context.Context, name string, params filters.Params) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return models.ErrNoImageLoaded
	}

	s.history = append(s.history, s.current.Clone())

	out, err := s.transformer.Apply(ctx, name, s.current, params)
	if err == nil {
		err = s.checkShape(out)
	}
	if err != nil {
		s.history[len(s.history)-1] = nil
		s.history = s.history[:len(s.history)-1]
		return fmt.Errorf("apply %s: %w", name, err)
	}

	s.current = out
	if s.maxHistory > 0 && len(s.history) > s.maxHistory {
		s.history[0] = nil
		s.history = s.history[1:]
	}
	return nil
}

func (s *Session) checkShape(out *models.Image) error {
	if err := out.Validate(); err != nil {
		return err
	}
	if out.Width() != s.current.Width() || out.Height() != s.current.Height() {
		return fmt.Errorf("%w: transform changed dimensions from %dx%d to %dx%d", models.ErrInvalidInput,
			s.current.Width(), s.current.Height(), out.Width(), out.Height())
	}
	if out.Channels() != s.current.Channels() {
		return fmt.Errorf("%w: transform changed channel count from %d to %d", models.ErrInvalidInput,
			s.current.Channels(), out.Channels())
	}
	return nil
}

// Undo restores the image that preceded the most recent apply.
func (s *Session) Undo() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.history)
	if n == 0 {
		return models.ErrNothingToUndo
	}
	s.current = s.history[n-1]
	s.history[n-1] = nil
	s.history = s.history[:n-1]
	return nil
}

// Reset discards every edit and returns to the loaded image.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.original == nil {
		return models.ErrNoImageLoaded
	}
	s.current = s.original.Clone()
	s.history = nil
	return nil
}

// Save hands the current image to enc. Codec failures are reported as
// ErrEncode.
func (s *Session) Save(ctx context.Context, enc Encoder, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return models.ErrNoImageLoaded
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := enc.Encode(s.current, path); err != nil {
		if errors.Is(err, models.ErrEncode) {
			return err
		}
		return fmt.Errorf("%w: %s: %v", models.ErrEncode, path, err)
	}
	return nil
}

// Current returns a copy of the working image, or nil when empty.
func (s *Session) Current() *models.Image {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil
	}
	return s.current.Clone()
}

// Original returns a copy of the loaded image, or nil when empty.
func (s *Session) Original() *models.Image {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.original == nil {
		return nil
	}
	return s.original.Clone()
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.current == nil:
		return StateEmpty
	case len(s.history) == 0:
		return StateLoaded
	default:
		return StateEdited
	}
}

func (s *Session) HistoryDepth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}

// ID identifies the current load. It is uuid.Nil while empty.
func (s *Session) ID() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Close drops every held image and returns the session to Empty.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.release()
}

func (s *Session) release() {
	s.id = uuid.Nil
	s.original = nil
	s.current = nil
	clear(s.history)
	s.history = nil
}
