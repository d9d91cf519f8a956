package gui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"image-filter-studio/internal/logger"
	"image-filter-studio/internal/models"
	"image-filter-studio/internal/processing/filters"
	"image-filter-studio/internal/services"
	"image-filter-studio/internal/session"

	"fyne.io/fyne/v2"
)

// defaultSaveExtension is appended when the chosen save path has none.
const defaultSaveExtension = ".jpg"

// Controller coordinates between view components and the session services
type Controller struct {
	view       *View
	images     *services.ImageService
	processing *services.ProcessingService
	session    *session.Session
	logger     logger.Logger

	mu         sync.Mutex
	kernelSize int
	busy       bool

	ctx    context.Context
	cancel context.CancelFunc
}

func NewController(images *services.ImageService, processing *services.ProcessingService, s *session.Session, log logger.Logger) *Controller {
	if log == nil {
		log = logger.Nop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		images:     images,
		processing: processing,
		session:    s,
		logger:     log,
		kernelSize: filters.DefaultKernelSize,
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (c *Controller) SetView(view *View) {
	c.view = view
}

// LoadImage asks for a file and replaces the session contents with it.
func (c *Controller) LoadImage() {
	c.view.ShowFileDialog(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			c.handleError("File selection error", err)
			return
		}
		if reader == nil {
			return
		}

		name := reader.URI().Name()
		started := c.run("Loading image...", func() (string, error) {
			if _, err := c.images.OpenReader(c.ctx, reader, name); err != nil {
				return "", err
			}
			original := c.images.Preview(c.session.Original())
			fyne.Do(func() {
				c.view.SetOriginalImage(original)
			})
			return "Loaded " + name, nil
		})
		if !started {
			reader.Close()
		}
	})
}

// SaveImage asks for a destination and writes the current image there.
func (c *Controller) SaveImage() {
	if c.session.State() == session.StateEmpty {
		c.handleError("Save error", models.ErrNoImageLoaded)
		return
	}

	c.view.ShowSaveDialog(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			c.handleError("File save error", err)
			return
		}
		if writer == nil {
			return
		}

		// The codec writes by path; drop the handle the dialog created.
		path := writer.URI().Path()
		writer.Close()
		if filepath.Ext(path) == "" {
			os.Remove(path)
			path += defaultSaveExtension
		}

		c.run("Saving image...", func() (string, error) {
			if err := c.images.Save(c.ctx, path); err != nil {
				return "", err
			}
			return "Saved " + filepath.Base(path), nil
		})
	})
}

// ApplyFilter runs the named transform with the selected kernel size.
func (c *Controller) ApplyFilter(name string) {
	params := filters.Params{"ksize": c.getKernelSize()}
	c.run("Applying "+name+"...", func() (string, error) {
		if err := c.processing.Apply(c.ctx, name, params); err != nil {
			return "", err
		}
		return "Applied " + name, nil
	})
}

func (c *Controller) Undo() {
	c.run("Undoing...", func() (string, error) {
		if err := c.processing.Undo(); err != nil {
			return "", err
		}
		return "Undone", nil
	})
}

func (c *Controller) Reset() {
	c.run("Resetting...", func() (string, error) {
		if err := c.processing.Reset(); err != nil {
			return "", err
		}
		return "Reset to original", nil
	})
}

func (c *Controller) SetKernelSize(ksize int) {
	c.mu.Lock()
	c.kernelSize = ksize
	c.mu.Unlock()

	c.logger.Debug("Controller", "kernel size changed", map[string]interface{}{"ksize": ksize})
}

// run executes op off the UI goroutine, then refreshes the processed pane
// and history controls. Requests made while another is running are
// dropped and reported as not started.
func (c *Controller) run(status string, op func() (string, error)) bool {
	if !c.tryBegin() {
		c.logger.Debug("Controller", "operation already active", map[string]interface{}{"status": status})
		return false
	}

	fyne.Do(func() {
		c.view.SetBusy(true)
		c.view.SetStatus(status)
	})

	go func() {
		defer c.end()

		done, err := op()
		processed := c.images.Preview(c.session.Current())
		state := c.session.State()
		depth := c.session.HistoryDepth()

		fyne.Do(func() {
			c.view.SetBusy(false)
			c.view.SetProcessedImage(processed)
			c.view.SetHistory(state != session.StateEmpty, depth)

			if err != nil {
				c.view.SetStatus("Ready")
				c.handleError(status, err)
				return
			}
			c.view.SetStatus(done)
		})
	}()
	return true
}

func (c *Controller) handleError(title string, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	c.logger.Error("Controller", err, map[string]interface{}{
		"title": title,
	})

	fyne.Do(func() {
		c.view.ShowError(title, err)
	})
}

func (c *Controller) tryBegin() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return false
	}
	c.busy = true
	return true
}

func (c *Controller) end() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false
}

func (c *Controller) getKernelSize() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kernelSize
}

// Shutdown cancels any running operation.
func (c *Controller) Shutdown() {
	c.cancel()
	c.logger.Info("Controller", "shutdown completed", nil)
}
