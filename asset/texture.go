// Package asset implements texture storage and sampling (spec.md
// §3, §4.6) plus a file-backed, hot-reloadable texture store.
//
// The Texture/Sampler/Sample contract is grounded on the original Rust
// source's crates/pipeline/src/bind_group.rs (Texture{width, height,
// format, data}) and crates/pipeline/src/format.rs (TextureFormat).
// TextureStore follows github.com/maja42/nora's textureStore.go: a
// generation-stamped key -> loaded-resource map with fsnotify-driven
// hot-reload, retargeted from GPU texture objects to plain byte
// buffers.
package asset

import (
	"errors"
	"fmt"
)

// PixelFormat names a texture's per-texel byte layout (spec.md §3).
type PixelFormat uint8

const (
	R8 PixelFormat = iota
	RGB8
	RGBA8
)

// BytesPerTexel returns the number of bytes one pixel occupies.
func (f PixelFormat) BytesPerTexel() int {
	switch f {
	case R8:
		return 1
	case RGB8:
		return 3
	case RGBA8:
		return 4
	}
	return 0
}

func (f PixelFormat) String() string {
	switch f {
	case R8:
		return "R8"
	case RGB8:
		return "RGB8"
	case RGBA8:
		return "RGBA8"
	}
	return "UnknownFormat"
}

// ErrTextureSize is returned by NewTexture when the pixel slice length
// does not match width*height*bytes-per-texel.
var ErrTextureSize = errors.New("asset: texture byte length does not match width*height*bytes-per-texel")

// Texture is a 2D texture: (width, height, format, pixel bytes).
type Texture struct {
	Width, Height int
	Format        PixelFormat
	Pixels        []byte
}

// NewTexture validates and constructs a Texture.
func NewTexture(width, height int, format PixelFormat, pixels []byte) (*Texture, error) {
	want := width * height * format.BytesPerTexel()
	if len(pixels) != want {
		return nil, fmt.Errorf("%w: have %d bytes, want %d (%dx%d %s)", ErrTextureSize, len(pixels), want, width, height, format)
	}
	return &Texture{Width: width, Height: height, Format: format, Pixels: pixels}, nil
}

// texelAt returns the byte offset of pixel (x, y).
func (t *Texture) texelAt(x, y int) int {
	return (y*t.Width + x) * t.Format.BytesPerTexel()
}
