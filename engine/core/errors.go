package core

import (
	"errors"
)

var (
	ErrBindingOutOfRange      = errors.New("binding index not described by the layout")
	ErrArrayIndexOutOfRange   = errors.New("array range exceeds the binding's declared array size")
	ErrDescriptorTypeMismatch = errors.New("descriptor type does not match the binding")
	ErrDescriptorSetUnusable  = errors.New("descriptor set is unusable, a new handle must be assigned")
	ErrElementCountMismatch   = errors.New("number of elements does not match the array range")
	ErrNilResource            = errors.New("binding element is missing a required resource")
	ErrNullHandle             = errors.New("null vulkan handle")
	ErrDeviceLost             = errors.New("owning device is no longer available")
	ErrDriverFailure          = errors.New("driver call failed")
	ErrReleased               = errors.New("object has been released")
)
