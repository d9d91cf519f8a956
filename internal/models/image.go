package models

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"

	"github.com/cespare/xxhash/v2"
)

// ChannelOrder tags how the interleaved samples of an Image are laid out.
type ChannelOrder int

const (
	OrderGray ChannelOrder = iota
	OrderBGR
	OrderRGB
)

func (o ChannelOrder) String() string {
	switch o {
	case OrderGray:
		return "gray"
	case OrderBGR:
		return "BGR"
	case OrderRGB:
		return "RGB"
	default:
		return "unknown"
	}
}

// Channels returns the number of samples per pixel for the order.
func (o ChannelOrder) Channels() int {
	switch o {
	case OrderGray:
		return 1
	case OrderBGR, OrderRGB:
		return 3
	default:
		return 0
	}
}

// Image is an owned, dense 8-bit raster. Samples are stored row-major with
// interleaved channels. Width, height and channel order are fixed at
// construction.
type Image struct {
	width  int
	height int
	order  ChannelOrder
	pix    []uint8
}

// NewImage allocates a zeroed image.
func NewImage(width, height int, order ChannelOrder) (*Image, error) {
	if err := validateShape(width, height, order); err != nil {
		return nil, err
	}
	return &Image{
		width:  width,
		height: height,
		order:  order,
		pix:    make([]uint8, width*height*order.Channels()),
	}, nil
}

// NewImageFromBytes builds an image from a copy of pix.
func NewImageFromBytes(width, height int, order ChannelOrder, pix []uint8) (*Image, error) {
	if err := validateShape(width, height, order); err != nil {
		return nil, err
	}
	want := width * height * order.Channels()
	if len(pix) != want {
		return nil, fmt.Errorf("%w: pixel buffer has %d bytes, want %d", ErrInvalidInput, len(pix), want)
	}
	buf := make([]uint8, want)
	copy(buf, pix)
	return &Image{width: width, height: height, order: order, pix: buf}, nil
}

func validateShape(width, height int, order ChannelOrder) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: image has zero area (%dx%d)", ErrInvalidInput, width, height)
	}
	if order.Channels() == 0 {
		return fmt.Errorf("%w: unsupported channel order %d", ErrInvalidInput, int(order))
	}
	return nil
}

func (img *Image) Width() int          { return img.width }
func (img *Image) Height() int         { return img.height }
func (img *Image) Channels() int       { return img.order.Channels() }
func (img *Image) Order() ChannelOrder { return img.order }

// Pix exposes the backing samples. Callers that do not own the image must
// treat the slice as read-only.
func (img *Image) Pix() []uint8 { return img.pix }

// Validate reports whether img satisfies the raster invariants. It is
// meant for images that did not come from a constructor.
func (img *Image) Validate() error {
	if img == nil {
		return fmt.Errorf("%w: image is nil", ErrInvalidInput)
	}
	if err := validateShape(img.width, img.height, img.order); err != nil {
		return err
	}
	if len(img.pix) != img.width*img.height*img.order.Channels() {
		return fmt.Errorf("%w: pixel buffer does not match %dx%dx%d",
			ErrInvalidInput, img.width, img.height, img.order.Channels())
	}
	return nil
}

func (img *Image) offset(x, y, c int) int {
	return (y*img.width+x)*img.order.Channels() + c
}

// At returns channel c of the pixel at (x, y).
func (img *Image) At(x, y, c int) uint8 {
	return img.pix[img.offset(x, y, c)]
}

// Set writes channel c of the pixel at (x, y).
func (img *Image) Set(x, y, c int, v uint8) {
	img.pix[img.offset(x, y, c)] = v
}

// Clone returns an independent deep copy.
func (img *Image) Clone() *Image {
	buf := make([]uint8, len(img.pix))
	copy(buf, img.pix)
	return &Image{width: img.width, height: img.height, order: img.order, pix: buf}
}

// Equal reports whether both images have identical shape, order and samples.
func (img *Image) Equal(other *Image) bool {
	if img == nil || other == nil {
		return img == other
	}
	if img.width != other.width || img.height != other.height || img.order != other.order {
		return false
	}
	return string(img.pix) == string(other.pix)
}

// Checksum is a 64-bit xxhash over shape, order and samples.
func (img *Image) Checksum() uint64 {
	var hdr [24]byte
	binary.LittleEndian.PutUint64(hdr[0:], uint64(img.width))
	binary.LittleEndian.PutUint64(hdr[8:], uint64(img.height))
	binary.LittleEndian.PutUint64(hdr[16:], uint64(img.order))

	d := xxhash.New()
	_, _ = d.Write(hdr[:])
	_, _ = d.Write(img.pix)
	return d.Sum64()
}

// WithOrder returns a copy with the colour samples rearranged to order.
// Only BGR and RGB are interchangeable; gray stays gray.
func (img *Image) WithOrder(order ChannelOrder) (*Image, error) {
	if img.order == order {
		return img.Clone(), nil
	}
	if img.order == OrderGray || order == OrderGray {
		return nil, fmt.Errorf("%w: cannot reorder %s to %s", ErrInvalidInput, img.order, order)
	}
	out := img.Clone()
	for i := 0; i+2 < len(out.pix); i += 3 {
		out.pix[i], out.pix[i+2] = out.pix[i+2], out.pix[i]
	}
	out.order = order
	return out, nil
}

// FromStdImage converts a decoded image into an owned raster. Gray sources
// stay single channel; everything else becomes 3-channel BGR with alpha
// dropped, matching what an OpenCV colour read produces.
func FromStdImage(src image.Image) (*Image, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: source image is nil", ErrInvalidInput)
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	switch typed := src.(type) {
	case *image.Gray:
		out, err := NewImage(w, h, OrderGray)
		if err != nil {
			return nil, err
		}
		for y := 0; y < h; y++ {
			start := typed.PixOffset(b.Min.X, b.Min.Y+y)
			copy(out.pix[y*w:(y+1)*w], typed.Pix[start:start+w])
		}
		return out, nil
	case *image.Gray16:
		out, err := NewImage(w, h, OrderGray)
		if err != nil {
			return nil, err
		}
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				out.pix[y*w+x] = uint8(typed.Gray16At(b.Min.X+x, b.Min.Y+y).Y >> 8)
			}
		}
		return out, nil
	}

	out, err := NewImage(w, h, OrderBGR)
	if err != nil {
		return nil, err
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			i := (y*w + x) * 3
			out.pix[i] = c.B
			out.pix[i+1] = c.G
			out.pix[i+2] = c.R
		}
	}
	return out, nil
}

// ToStdImage renders the raster as *image.Gray or *image.RGBA for encoders
// and display.
func (img *Image) ToStdImage() image.Image {
	rect := image.Rect(0, 0, img.width, img.height)
	if img.order == OrderGray {
		g := image.NewGray(rect)
		copy(g.Pix, img.pix)
		return g
	}

	rIdx, bIdx := 2, 0
	if img.order == OrderRGB {
		rIdx, bIdx = 0, 2
	}
	out := image.NewRGBA(rect)
	for i, j := 0, 0; i < len(img.pix); i, j = i+3, j+4 {
		out.Pix[j] = img.pix[i+rIdx]
		out.Pix[j+1] = img.pix[i+1]
		out.Pix[j+2] = img.pix[i+bIdx]
		out.Pix[j+3] = 0xff
	}
	return out
}

// String summarises the image for log lines.
func (img *Image) String() string {
	return fmt.Sprintf("%dx%d %s", img.width, img.height, img.order)
}
