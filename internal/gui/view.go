package gui

import (
	"image"

	"image-filter-studio/internal/gui/widgets"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
)

// filterColumns matches the two button rows of the original tool.
const filterColumns = 6

// View handles all UI components and their layout
type View struct {
	window     fyne.Window
	controller *Controller

	toolbar       *widgets.Toolbar
	imageDisplay  *widgets.ImageDisplay
	filterPanel   *widgets.FilterPanel
	mainContainer *fyne.Container
	extensions    []string
}

// ViewOptions sizes the view and lists the transform buttons.
type ViewOptions struct {
	PreviewWidth  int
	PreviewHeight int
	DefaultKernel int
	Filters       []widgets.FilterButton
	Extensions    []string
}

func NewView(window fyne.Window, opts ViewOptions) *View {
	view := &View{
		window:     window,
		extensions: opts.Extensions,
	}

	view.toolbar = widgets.NewToolbar(opts.DefaultKernel)
	view.imageDisplay = widgets.NewImageDisplay(opts.PreviewWidth, opts.PreviewHeight)
	view.filterPanel = widgets.NewFilterPanel(opts.Filters, filterColumns)

	view.mainContainer = container.NewBorder(
		view.toolbar.GetContainer(),
		view.filterPanel.GetContainer(),
		nil, nil,
		view.imageDisplay.GetContainer(),
	)
	return view
}

func (v *View) SetController(controller *Controller) {
	v.controller = controller
	v.setupEventHandlers()
}

func (v *View) setupEventHandlers() {
	if v.controller == nil {
		return
	}

	v.toolbar.SetBrowseHandler(v.controller.LoadImage)
	v.toolbar.SetSaveHandler(v.controller.SaveImage)
	v.toolbar.SetResetHandler(v.controller.Reset)
	v.toolbar.SetUndoHandler(v.controller.Undo)
	v.toolbar.SetKernelHandler(v.controller.SetKernelSize)
	v.filterPanel.SetHandler(v.controller.ApplyFilter)
}

// The setters below must run on the UI goroutine.

func (v *View) SetOriginalImage(img image.Image) {
	v.imageDisplay.SetOriginalImage(img)
}

func (v *View) SetProcessedImage(img image.Image) {
	v.imageDisplay.SetProcessedImage(img)
}

func (v *View) SetStatus(status string) {
	v.toolbar.SetStatus(status)
}

func (v *View) SetHistory(loaded bool, depth int) {
	v.toolbar.SetHistory(loaded, depth)
	v.filterPanel.SetEnabled(loaded)
}

func (v *View) SetBusy(busy bool) {
	v.toolbar.SetBusy(busy)
	if busy {
		v.filterPanel.SetEnabled(false)
	}
}

func (v *View) ShowError(title string, err error) {
	dialog.ShowError(err, v.window)
}

func (v *View) ShowFileDialog(callback func(fyne.URIReadCloser, error)) {
	d := dialog.NewFileOpen(callback, v.window)
	if len(v.extensions) > 0 {
		d.SetFilter(storage.NewExtensionFileFilter(v.extensions))
	}
	d.Show()
}

func (v *View) ShowSaveDialog(callback func(fyne.URIWriteCloser, error)) {
	d := dialog.NewFileSave(callback, v.window)
	d.SetFileName("processed.jpg")
	d.Show()
}

func (v *View) Show() {
	v.window.SetContent(v.mainContainer)
	v.window.Show()
}
