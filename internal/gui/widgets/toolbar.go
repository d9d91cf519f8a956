package widgets

import (
	"fmt"
	"image/color"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// KernelSizes are the window sides offered in the kernel selector.
var KernelSizes = []string{"1", "3", "5", "7", "9", "11", "15"}

type Toolbar struct {
	container    *fyne.Container
	browseButton *widget.Button
	saveButton   *widget.Button
	resetButton  *widget.Button
	undoButton   *widget.Button
	ksizeSelect  *widget.Select
	statusLabel  *widget.Label
	historyLabel *widget.Label

	browseHandler func()
	saveHandler   func()
	resetHandler  func()
	undoHandler   func()
	ksizeHandler  func(int)
}

func NewToolbar(defaultKernel int) *Toolbar {
	toolbar := &Toolbar{}
	toolbar.createComponents(defaultKernel)
	toolbar.buildLayout()
	return toolbar
}

func (t *Toolbar) createComponents(defaultKernel int) {
	t.browseButton = widget.NewButton("Browse", t.onBrowseClicked)
	t.browseButton.Importance = widget.HighImportance

	t.saveButton = widget.NewButton("Save Image", t.onSaveClicked)
	t.saveButton.Importance = widget.HighImportance
	t.saveButton.Disable()

	t.resetButton = widget.NewButton("Reset", t.onResetClicked)
	t.resetButton.Disable()

	t.undoButton = widget.NewButton("Undo", t.onUndoClicked)
	t.undoButton.Disable()

	t.ksizeSelect = widget.NewSelect(KernelSizes, t.onKernelChanged)
	t.ksizeSelect.SetSelected(strconv.Itoa(defaultKernel))

	t.statusLabel = widget.NewLabel("Ready")
	t.historyLabel = widget.NewLabel("History: 0")
}

func (t *Toolbar) buildLayout() {
	background := canvas.NewRectangle(color.RGBA{R: 248, G: 249, B: 250, A: 255})

	fileSection := container.NewHBox(
		t.browseButton,
		t.saveButton,
	)

	historySection := container.NewHBox(
		t.resetButton,
		t.undoButton,
		t.historyLabel,
	)

	kernelGroup := container.NewHBox(
		widget.NewLabel("Kernel size"),
		t.ksizeSelect,
	)

	content := container.NewHBox(
		fileSection,
		widget.NewSeparator(),
		historySection,
		widget.NewSeparator(),
		kernelGroup,
		widget.NewSeparator(),
		t.statusLabel,
	)

	t.container = container.NewStack(
		background,
		container.NewPadded(content),
	)
}

func (t *Toolbar) onBrowseClicked() {
	if t.browseHandler != nil {
		t.browseHandler()
	}
}

func (t *Toolbar) onSaveClicked() {
	if t.saveHandler != nil {
		t.saveHandler()
	}
}

func (t *Toolbar) onResetClicked() {
	if t.resetHandler != nil {
		t.resetHandler()
	}
}

func (t *Toolbar) onUndoClicked() {
	if t.undoHandler != nil {
		t.undoHandler()
	}
}

func (t *Toolbar) onKernelChanged(value string) {
	ksize, err := strconv.Atoi(value)
	if err != nil || t.ksizeHandler == nil {
		return
	}
	t.ksizeHandler(ksize)
}

func (t *Toolbar) GetContainer() *fyne.Container {
	return t.container
}

func (t *Toolbar) SetBrowseHandler(handler func()) {
	t.browseHandler = handler
}

func (t *Toolbar) SetSaveHandler(handler func()) {
	t.saveHandler = handler
}

func (t *Toolbar) SetResetHandler(handler func()) {
	t.resetHandler = handler
}

func (t *Toolbar) SetUndoHandler(handler func()) {
	t.undoHandler = handler
}

func (t *Toolbar) SetKernelHandler(handler func(int)) {
	t.ksizeHandler = handler
}

// SetStatus must run on the UI goroutine.
func (t *Toolbar) SetStatus(status string) {
	t.statusLabel.SetText(status)
}

// SetHistory reflects the session state in the button states. It must run
// on the UI goroutine.
func (t *Toolbar) SetHistory(loaded bool, depth int) {
	t.historyLabel.SetText(fmt.Sprintf("History: %d", depth))

	if loaded {
		t.saveButton.Enable()
		t.resetButton.Enable()
	} else {
		t.saveButton.Disable()
		t.resetButton.Disable()
	}
	if depth > 0 {
		t.undoButton.Enable()
	} else {
		t.undoButton.Disable()
	}
}

// SetBusy disables every control while a long operation runs. It must run
// on the UI goroutine.
func (t *Toolbar) SetBusy(busy bool) {
	for _, w := range []fyne.Disableable{t.browseButton, t.ksizeSelect} {
		if busy {
			w.Disable()
		} else {
			w.Enable()
		}
	}
	if busy {
		t.saveButton.Disable()
		t.resetButton.Disable()
		t.undoButton.Disable()
	}
}
