package filters

import (
	"context"
	"fmt"
	"sync"

	"image-filter-studio/internal/models"
)

// ParamSpec documents one optional parameter of a filter.
type ParamSpec struct {
	Name        string
	Default     interface{}
	Description string
}

// Descriptor is the display metadata for a registered filter.
type Descriptor struct {
	Name   string
	Label  string
	Params []ParamSpec
}

// Catalogue is the name -> Filter registry consulted by the session.
type Catalogue struct {
	mu          sync.RWMutex
	filters     map[string]Filter
	descriptors map[string]Descriptor
	order       []string
}

type catalogueOptions struct {
	noiseSources SourceFactory
}

type Option func(*catalogueOptions)

// WithNoiseSources injects the random stream used by the noise filters.
func WithNoiseSources(sources SourceFactory) Option {
	return func(o *catalogueOptions) {
		o.noiseSources = sources
	}
}

var ksizeSpec = ParamSpec{Name: "ksize", Default: DefaultKernelSize, Description: "odd window side"}

// NewCatalogue registers the twelve standard filters in display order.
func NewCatalogue(opts ...Option) *Catalogue {
	o := catalogueOptions{noiseSources: RandomSources()}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Catalogue{
		filters:     make(map[string]Filter),
		descriptors: make(map[string]Descriptor),
	}

	builtins := []struct {
		filter Filter
		label  string
		params []ParamSpec
	}{
		{NewNoiseFilter(o.noiseSources), "Add Noise", []ParamSpec{
			{Name: "intensity", Default: 0.05, Description: "noise sigma as a fraction of 255"},
		}},
		{NewNonLocalMeansFilter(), "Remove Noise", []ParamSpec{
			{Name: "h", Default: 10.0, Description: "luma filter strength"},
			{Name: "h_color", Default: 10.0, Description: "chroma filter strength"},
			{Name: "template_size", Default: 7, Description: "odd patch side"},
			{Name: "search_size", Default: 21, Description: "odd search window side"},
		}},
		{NewMeanFilter(), "Mean Filter", []ParamSpec{ksizeSpec}},
		{NewMedianFilter(), "Median Filter", []ParamSpec{ksizeSpec}},
		{NewGaussianFilter(), "Gaussian Filter", []ParamSpec{
			ksizeSpec,
			{Name: "sigma", Default: 0.0, Description: "0 derives sigma from ksize"},
		}},
		{NewGaussianNoiseFilter(o.noiseSources), "Gaussian Noise", []ParamSpec{
			{Name: "mean", Default: 0.0, Description: "noise mean"},
			{Name: "sigma", Default: 25.0, Description: "noise standard deviation"},
		}},
		{NewErosionFilter(), "Erosion", []ParamSpec{ksizeSpec}},
		{NewDilationFilter(), "Dilation", []ParamSpec{ksizeSpec}},
		{NewOpeningFilter(), "Opening", []ParamSpec{ksizeSpec}},
		{NewClosingFilter(), "Closing", []ParamSpec{ksizeSpec}},
		{NewBoundaryExtractionFilter(), "Boundary Extraction", []ParamSpec{ksizeSpec}},
		{NewRegionFillingFilter(), "Region Filling", []ParamSpec{ksizeSpec}},
	}

	for _, b := range builtins {
		// Built-in names are unique.
		_ = c.Register(b.filter, Descriptor{Name: b.filter.Name(), Label: b.label, Params: b.params})
	}
	return c
}

// Register adds a filter. Names must be unique.
func (c *Catalogue) Register(f Filter, d Descriptor) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	name := f.Name()
	if _, exists := c.filters[name]; exists {
		return fmt.Errorf("filter %q already registered", name)
	}
	d.Name = name
	if d.Label == "" {
		d.Label = name
	}
	c.filters[name] = f
	c.descriptors[name] = d
	c.order = append(c.order, name)
	return nil
}

// Lookup fails with ErrInvalidInput for unknown names.
func (c *Catalogue) Lookup(name string) (Filter, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, ok := c.filters[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown transform %q", models.ErrInvalidInput, name)
	}
	return f, nil
}

// Names lists registered filters in registration order.
func (c *Catalogue) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, len(c.order))
	copy(names, c.order)
	return names
}

func (c *Catalogue) Describe(name string) (Descriptor, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	d, ok := c.descriptors[name]
	return d, ok
}

// Apply looks up name and runs it on input.
func (c *Catalogue) Apply(ctx context.Context, name string, input *models.Image, params Params) (*models.Image, error) {
	f, err := c.Lookup(name)
	if err != nil {
		return nil, err
	}
	return f.Apply(ctx, input, params)
}
