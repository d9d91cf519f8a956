package widgets

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

type ImageDisplay struct {
	container      fyne.CanvasObject
	originalImage  *canvas.Image
	processedImage *canvas.Image
	splitView      *container.Split
}

// NewImageDisplay builds the side-by-side Original / Processed panes, each
// at least width x height.
func NewImageDisplay(width, height int) *ImageDisplay {
	display := &ImageDisplay{}
	display.createComponents(fyne.NewSize(float32(width), float32(height)))
	display.setupLayout()
	return display
}

func (id *ImageDisplay) createComponents(minSize fyne.Size) {
	id.originalImage = canvas.NewImageFromImage(nil)
	id.originalImage.FillMode = canvas.ImageFillContain
	id.originalImage.ScaleMode = canvas.ImageScaleSmooth
	id.originalImage.SetMinSize(minSize)

	id.processedImage = canvas.NewImageFromImage(nil)
	id.processedImage.FillMode = canvas.ImageFillContain
	id.processedImage.ScaleMode = canvas.ImageScaleSmooth
	id.processedImage.SetMinSize(minSize)
}

func (id *ImageDisplay) setupLayout() {
	originalContainer := container.NewBorder(
		widget.NewRichTextFromMarkdown("**Original**"),
		nil, nil, nil,
		id.originalImage,
	)

	processedContainer := container.NewBorder(
		widget.NewRichTextFromMarkdown("**Processed**"),
		nil, nil, nil,
		id.processedImage,
	)

	id.splitView = container.NewHSplit(originalContainer, processedContainer)
	id.splitView.SetOffset(0.5)
	id.container = id.splitView
}

func (id *ImageDisplay) GetContainer() fyne.CanvasObject {
	return id.container
}

// SetOriginalImage must run on the UI goroutine. nil clears the pane.
func (id *ImageDisplay) SetOriginalImage(img image.Image) {
	id.originalImage.Image = img
	id.originalImage.Refresh()
}

// SetProcessedImage must run on the UI goroutine. nil clears the pane.
func (id *ImageDisplay) SetProcessedImage(img image.Image) {
	id.processedImage.Image = img
	id.processedImage.Refresh()
}
