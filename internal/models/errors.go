package models

import "errors"

var (
	// ErrInvalidInput marks malformed images or transform parameters.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoImageLoaded is returned by session operations issued before a load.
	ErrNoImageLoaded = errors.New("no image loaded")

	// ErrNothingToUndo is returned by Undo when the history stack is empty.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrDecode wraps codec failures while reading an image.
	ErrDecode = errors.New("decode image")

	// ErrEncode wraps codec failures while writing an image.
	ErrEncode = errors.New("encode image")
)
