package app

import (
	"context"

	"image-filter-studio/internal/config"
	"image-filter-studio/internal/gui"
	"image-filter-studio/internal/gui/widgets"
	"image-filter-studio/internal/logger"
	"image-filter-studio/internal/processing/filters"
	"image-filter-studio/internal/shutdown"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
)

const (
	AppName    = "Image Filter Studio"
	AppID      = "com.imageprocessing.imagefilterstudio"
	AppVersion = "1.0.0"

	// chromeWidth and chromeHeight leave room for the toolbar, pane labels
	// and the transform grid around the two previews.
	chromeWidth  = 40
	chromeHeight = 220
)

type Application struct {
	fyneApp    fyne.App
	window     fyne.Window
	view       *gui.View
	controller *gui.Controller
	services   *Services
	logger     logger.Logger
	shutdown   *shutdown.Manager
}

func NewApplication(cfg config.Config, svc *Services) (*Application, error) {
	log := svc.Logger

	fyneApp := app.NewWithID(AppID)
	window := fyneApp.NewWindow(AppName)

	windowWidth := float32(cfg.PreviewWidth*2 + chromeWidth)
	windowHeight := float32(cfg.PreviewHeight + chromeHeight)
	window.Resize(fyne.NewSize(windowWidth, windowHeight))
	window.SetFixedSize(false)
	window.CenterOnScreen()
	window.SetMaster()

	log.Info("Application", "starting application", map[string]interface{}{
		"version":       AppVersion,
		"window_width":  windowWidth,
		"window_height": windowHeight,
		"codec":         cfg.Codec,
	})

	buttons := make([]widgets.FilterButton, 0)
	for _, d := range svc.Processing.Filters() {
		buttons = append(buttons, widgets.FilterButton{Name: d.Name, Label: d.Label})
	}

	view := gui.NewView(window, gui.ViewOptions{
		PreviewWidth:  cfg.PreviewWidth,
		PreviewHeight: cfg.PreviewHeight,
		DefaultKernel: filters.DefaultKernelSize,
		Filters:       buttons,
		Extensions:    svc.Images.SupportedFormats(),
	})
	controller := gui.NewController(svc.Images, svc.Processing, svc.Session, log)
	controller.SetView(view)
	view.SetController(controller)

	shutdownMgr := shutdown.NewManager(log)
	shutdownMgr.Register("session", svc.Close)
	shutdownMgr.Register("controller", controller.Shutdown)
	shutdownMgr.Register("window", func() {
		fyne.Do(fyneApp.Quit)
	})

	application := &Application{
		fyneApp:    fyneApp,
		window:     window,
		view:       view,
		controller: controller,
		services:   svc,
		logger:     log,
		shutdown:   shutdownMgr,
	}

	log.Info("Application", "initialization complete", nil)
	return application, nil
}

// Run shows the window and blocks until it is closed or ctx is cancelled.
func (a *Application) Run(ctx context.Context) error {
	a.window.SetCloseIntercept(func() {
		a.logger.Info("Application", "shutdown requested", nil)
		go a.shutdown.Shutdown()
	})
	a.shutdown.Listen(ctx)

	a.view.Show()

	a.logger.Info("Application", "GUI displayed", nil)
	a.fyneApp.Run()

	a.shutdown.Shutdown()
	return nil
}
