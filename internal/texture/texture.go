// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package texture provides the render targets used by the effect passes
// and the fixed-key pool that owns them.
package texture

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
)

// Common errors for texture operations.
var (
	// ErrAllocation is returned when a texture or render target cannot be
	// created. Rendering cannot proceed without it.
	ErrAllocation = errors.New("texture: allocation failed")

	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("texture: invalid dimensions")

	// ErrTooLarge is returned when a dimension exceeds the allocator limit.
	ErrTooLarge = errors.New("texture: dimensions exceed device limit")

	// ErrSizeMismatch is returned when an upload does not match the texture size.
	ErrSizeMismatch = errors.New("texture: size mismatch")

	// ErrPoolNotReady is returned when a pool has no textures, either
	// before the first Resize or after a failed one.
	ErrPoolNotReady = errors.New("texture: pool not ready")
)

// DefaultMaxDimension is the largest width or height HeapAllocator accepts
// when no explicit limit is set.
const DefaultMaxDimension = 16384

// bytesPerPixel of the only supported format, RGBA8 unorm.
const bytesPerPixel = 4

// Descriptor describes a texture to allocate.
// This mirrors the WebGPU GPUTextureDescriptor, reduced to what a 2D
// render target needs.
type Descriptor struct {
	// Label is a debug label, e.g. the pool key.
	Label string

	// Width is the texture width in pixels.
	Width int

	// Height is the texture height in pixels.
	Height int

	// Format is the pixel format. Only RGBA8Unorm is supported; the zero
	// value is treated as RGBA8Unorm.
	Format gputypes.TextureFormat
}

// Texture is a 2D RGBA8 pixel buffer usable both as a pass input and as a
// render target. Channels are stored non-premultiplied, one byte each.
//
// A Texture is not safe for concurrent writes; passes split their output
// into disjoint row bands.
type Texture struct {
	label    string
	width    int
	height   int
	format   gputypes.TextureFormat
	pix      []byte
	released bool
}

// New allocates a texture on the Go heap.
func New(desc Descriptor) (*Texture, error) {
	return HeapAllocator{}.Allocate(desc)
}

// Label returns the debug label.
func (t *Texture) Label() string {
	return t.label
}

// Width returns the texture width in pixels.
func (t *Texture) Width() int {
	return t.width
}

// Height returns the texture height in pixels.
func (t *Texture) Height() int {
	return t.height
}

// Size returns (width, height).
func (t *Texture) Size() (int, int) {
	return t.width, t.height
}

// Format returns the pixel format.
func (t *Texture) Format() gputypes.TextureFormat {
	return t.format
}

// Stride returns the number of bytes per row.
func (t *Texture) Stride() int {
	return t.width * bytesPerPixel
}

// Pix returns the raw pixel data, or nil once the texture is destroyed.
func (t *Texture) Pix() []byte {
	return t.pix
}

// Row returns the bytes of row y.
func (t *Texture) Row(y int) []byte {
	start := y * t.Stride()
	return t.pix[start : start+t.Stride()]
}

// SameSize reports whether t and o have identical dimensions.
func (t *Texture) SameSize(o *Texture) bool {
	return o != nil && t.width == o.width && t.height == o.height
}

// At returns the pixel at (x, y). Out-of-bounds reads return zero.
func (t *Texture) At(x, y int) (r, g, b, a uint8) {
	if x < 0 || x >= t.width || y < 0 || y >= t.height || t.pix == nil {
		return 0, 0, 0, 0
	}
	i := (y*t.width + x) * bytesPerPixel
	return t.pix[i], t.pix[i+1], t.pix[i+2], t.pix[i+3]
}

// Set writes the pixel at (x, y). Out-of-bounds writes are ignored.
func (t *Texture) Set(x, y int, r, g, b, a uint8) {
	if x < 0 || x >= t.width || y < 0 || y >= t.height || t.pix == nil {
		return
	}
	i := (y*t.width + x) * bytesPerPixel
	t.pix[i], t.pix[i+1], t.pix[i+2], t.pix[i+3] = r, g, b, a
}

// Fill sets every pixel to the given value.
func (t *Texture) Fill(r, g, b, a uint8) {
	for i := 0; i < len(t.pix); i += bytesPerPixel {
		t.pix[i], t.pix[i+1], t.pix[i+2], t.pix[i+3] = r, g, b, a
	}
}

// Upload copies img into the texture. img must have the texture's size.
func (t *Texture) Upload(img *image.NRGBA) error {
	b := img.Bounds()
	if b.Dx() != t.width || b.Dy() != t.height {
		return fmt.Errorf("%w: image %dx%d, texture %dx%d",
			ErrSizeMismatch, b.Dx(), b.Dy(), t.width, t.height)
	}
	for y := range t.height {
		off := img.PixOffset(b.Min.X, b.Min.Y+y)
		copy(t.Row(y), img.Pix[off:off+t.Stride()])
	}
	return nil
}

// Image returns an *image.NRGBA sharing the texture's memory.
func (t *Texture) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    t.pix,
		Stride: t.Stride(),
		Rect:   image.Rect(0, 0, t.width, t.height),
	}
}

// Clone returns a deep copy with the given label.
func (t *Texture) Clone(label string) *Texture {
	pix := make([]byte, len(t.pix))
	copy(pix, t.pix)
	return &Texture{label: label, width: t.width, height: t.height, format: t.format, pix: pix}
}

// Destroy releases the pixel storage. Destroy is idempotent.
func (t *Texture) Destroy() {
	t.pix = nil
	t.released = true
}

// Released reports whether Destroy has been called.
func (t *Texture) Released() bool {
	return t.released
}

// Allocator creates textures.
type Allocator interface {
	Allocate(desc Descriptor) (*Texture, error)
}

// HeapAllocator allocates textures as Go byte slices.
type HeapAllocator struct {
	// MaxDimension limits width and height. Zero means DefaultMaxDimension.
	MaxDimension int
}

// Allocate creates a zeroed (transparent black) texture.
func (h HeapAllocator) Allocate(desc Descriptor) (*Texture, error) {
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, fmt.Errorf("%w: %q %dx%d: %w", ErrAllocation, desc.Label, desc.Width, desc.Height, ErrInvalidDimensions)
	}
	limit := h.MaxDimension
	if limit <= 0 {
		limit = DefaultMaxDimension
	}
	if desc.Width > limit || desc.Height > limit {
		return nil, fmt.Errorf("%w: %q %dx%d (limit %d): %w", ErrAllocation, desc.Label, desc.Width, desc.Height, limit, ErrTooLarge)
	}
	format := desc.Format
	if format == gputypes.TextureFormatUndefined {
		format = gputypes.TextureFormatRGBA8Unorm
	}
	if format != gputypes.TextureFormatRGBA8Unorm {
		return nil, fmt.Errorf("%w: %q: unsupported format %v", ErrAllocation, desc.Label, format)
	}
	return &Texture{
		label:  desc.Label,
		width:  desc.Width,
		height: desc.Height,
		format: format,
		pix:    make([]byte, desc.Width*desc.Height*bytesPerPixel),
	}, nil
}
