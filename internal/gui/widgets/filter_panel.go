package widgets

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// FilterButton describes one transform button.
type FilterButton struct {
	Name  string
	Label string
}

// FilterPanel is the grid of one button per registered transform.
type FilterPanel struct {
	container *fyne.Container
	buttons   []*widget.Button
	handler   func(string)
}

func NewFilterPanel(filters []FilterButton, columns int) *FilterPanel {
	p := &FilterPanel{}

	objects := make([]fyne.CanvasObject, 0, len(filters))
	for _, f := range filters {
		name := f.Name
		b := widget.NewButton(f.Label, func() {
			if p.handler != nil {
				p.handler(name)
			}
		})
		b.Disable()
		p.buttons = append(p.buttons, b)
		objects = append(objects, b)
	}

	p.container = container.NewVBox(
		widget.NewRichTextFromMarkdown("**Transforms**"),
		container.NewGridWithColumns(columns, objects...),
	)
	return p
}

func (p *FilterPanel) GetContainer() *fyne.Container {
	return p.container
}

func (p *FilterPanel) SetHandler(handler func(string)) {
	p.handler = handler
}

// SetEnabled must run on the UI goroutine.
func (p *FilterPanel) SetEnabled(enabled bool) {
	for _, b := range p.buttons {
		if enabled {
			b.Enable()
		} else {
			b.Disable()
		}
	}
}
