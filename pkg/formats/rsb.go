package formats

import (
	"errors"
	"fmt"
	"os"
)

// RSB format errors.
var (
	ErrUnsupportedRSBVersion = errors.New("unsupported RSB version")
	ErrUnsupportedRSBPalette = errors.New("unsupported RSB palette value")
)

// PixelLayout identifies how the values in a pixel array decompose into
// channels. The layout is a property of the whole array, decided once at
// parse time from the file's version, palette selector and bitmask.
type PixelLayout uint8

// Pixel layouts.
const (
	// LayoutPaletteIndex pixels are indices into the palette table.
	LayoutPaletteIndex PixelLayout = iota
	// LayoutARGB pixels pack channels in alpha, red, green, blue order.
	// Used when the bitmask channel widths sum to exactly 32 bits.
	LayoutARGB
	// LayoutBGRA pixels pack channels in blue, green, red, alpha order.
	LayoutBGRA
)

// String returns a human-readable layout name.
func (l PixelLayout) String() string {
	switch l {
	case LayoutPaletteIndex:
		return "PaletteIndex"
	case LayoutARGB:
		return "ARGB"
	case LayoutBGRA:
		return "BGRA"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(l))
	}
}

// Rsb represents a parsed texture container.
//
// Version 0 files may carry a palette: an 8-bit indexed image plus a 256
// entry color table, followed by a second, bitmask-packed 16-bit copy of the
// same image in MaskedPixels. Version 1 files carry only the packed pixel
// array. Versions 2 and above (Ghost Recon and later) use a different layout
// and are rejected.
type Rsb struct {
	// Version is the container version. Rainbow Six uses 0, Rogue Spear
	// and its expansions use 1.
	Version uint32

	// Width is the texture width in pixels.
	Width uint32

	// Height is the texture height in pixels.
	Height uint32

	// Palette is the palette selector. Only present when Version == 0.
	Palette *uint32

	// PaletteColors is the 256-entry color table. Only present when the
	// palette selector is 1.
	PaletteColors []PaletteColor

	// BitMask holds the per-channel bit widths used to unpack Pixels and
	// MaskedPixels. Zero-valued in the palette branch until the second
	// bitmask is read.
	BitMask BitMask

	// Layout identifies how Pixels decompose into channels.
	Layout PixelLayout

	// Pixels is the image data, Width*Height values in row-major order.
	Pixels []Pixel

	// MaskedPixels is the second, bitmask-packed copy of the image.
	// Present only in the palette branch.
	MaskedPixels []MaskedPixel
}

// Size returns the pixel count of the texture.
func (r *Rsb) Size() int {
	return int(r.Width) * int(r.Height)
}

// BitMask holds the per-channel bit widths of packed pixel data. A width of
// zero means the channel is absent.
type BitMask struct {
	R uint32
	G uint32
	B uint32
	A uint32
}

// Bits returns the total bit depth of the mask.
func (m BitMask) Bits() uint32 {
	return m.R + m.G + m.B + m.A
}

// IsARGB reports whether packed pixels use ARGB channel order. ARGB order is
// used exactly when the channel widths sum to 32 bits; everything else is
// BGRA. No Rogue Spear asset has 32-bit depth.
func (m BitMask) IsARGB() bool {
	return m.Bits() == 32
}

// PaletteColor is one entry of the 256-color palette table, stored on disk
// in B, G, R, A byte order.
type PaletteColor struct {
	B uint8
	G uint8
	R uint8
	A uint8
}

// Pixel is one packed pixel value. Palette-index pixels hold the index in
// the low byte; ARGB and BGRA pixels hold a 16-bit packed value widened to
// 32 bits. The array's PixelLayout and BitMask are needed to extract
// channels.
type Pixel uint32

// R extracts the red channel. The second return is false when the mask has
// no red bits or the layout is a palette index.
func (p Pixel) R(mask BitMask, layout PixelLayout) (uint32, bool) {
	switch layout {
	case LayoutARGB:
		return channel(uint32(p), mask.R, mask.A)
	case LayoutBGRA:
		return channel(uint32(p), mask.R, mask.B+mask.G)
	default:
		return 0, false
	}
}

// G extracts the green channel.
func (p Pixel) G(mask BitMask, layout PixelLayout) (uint32, bool) {
	switch layout {
	case LayoutARGB:
		return channel(uint32(p), mask.G, mask.A+mask.R)
	case LayoutBGRA:
		return channel(uint32(p), mask.G, mask.B)
	default:
		return 0, false
	}
}

// B extracts the blue channel.
func (p Pixel) B(mask BitMask, layout PixelLayout) (uint32, bool) {
	switch layout {
	case LayoutARGB:
		return channel(uint32(p), mask.B, mask.A+mask.R+mask.G)
	case LayoutBGRA:
		return channel(uint32(p), mask.B, 0)
	default:
		return 0, false
	}
}

// A extracts the alpha channel.
func (p Pixel) A(mask BitMask, layout PixelLayout) (uint32, bool) {
	switch layout {
	case LayoutARGB:
		return channel(uint32(p), mask.A, 0)
	case LayoutBGRA:
		return channel(uint32(p), mask.A, mask.B+mask.G+mask.R)
	default:
		return 0, false
	}
}

// Index returns the palette index of a palette-layout pixel.
func (p Pixel) Index() uint8 {
	return uint8(p)
}

// MaskedPixel is one 16-bit packed pixel of the palette branch's second
// image copy. Channels pack in R, G, B, A order from the low bit: with
// BitMask{R: 5, G: 6, B: 5, A: 0} the low 5 bits are red, the next 6 green,
// the top 5 blue and alpha is absent.
type MaskedPixel uint16

// R extracts the red channel. The second return is false when the mask has
// no red bits.
func (p MaskedPixel) R(mask BitMask) (uint16, bool) {
	v, ok := channel(uint32(p), mask.R, 0)
	return uint16(v), ok
}

// G extracts the green channel.
func (p MaskedPixel) G(mask BitMask) (uint16, bool) {
	v, ok := channel(uint32(p), mask.G, mask.R)
	return uint16(v), ok
}

// B extracts the blue channel.
func (p MaskedPixel) B(mask BitMask) (uint16, bool) {
	v, ok := channel(uint32(p), mask.B, mask.G+mask.R)
	return uint16(v), ok
}

// A extracts the alpha channel.
func (p MaskedPixel) A(mask BitMask) (uint16, bool) {
	v, ok := channel(uint32(p), mask.A, mask.B+mask.G+mask.R)
	return uint16(v), ok
}

// channel extracts width bits at shift from value. Widths of zero report
// absence. The mask is computed in 64 bits so a 32-bit wide channel does not
// overflow the shift.
func channel(value, width, shift uint32) (uint32, bool) {
	if width == 0 {
		return 0, false
	}
	mask := uint32((uint64(1)<<width)-1) << shift
	return (value & mask) >> shift, true
}

// ParseRSB parses an RSB texture from raw bytes.
func ParseRSB(data []byte) (*Rsb, error) {
	rd := newReader(data)
	rsb := &Rsb{}

	var err error
	if rsb.Version, err = rd.readU32("version"); err != nil {
		return nil, err
	}
	// Only Rainbow Six and Rogue Spear containers are handled.
	if rsb.Version >= 2 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedRSBVersion, rsb.Version)
	}

	if rsb.Width, err = rd.readU32("width"); err != nil {
		return nil, err
	}
	if rsb.Height, err = rd.readU32("height"); err != nil {
		return nil, err
	}

	if rsb.Version == 0 {
		palette, err := rd.readU32("palette selector")
		if err != nil {
			return nil, err
		}
		rsb.Palette = &palette

		switch palette {
		case 0:
			if rsb.BitMask, err = parseBitMask(rd); err != nil {
				return nil, err
			}
		case 1:
			if rsb.PaletteColors, err = parsePaletteColors(rd); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("%w: %d", ErrUnsupportedRSBPalette, palette)
		}
	} else {
		if rsb.BitMask, err = parseBitMask(rd); err != nil {
			return nil, err
		}
	}

	paletted := rsb.Palette != nil && *rsb.Palette == 1
	switch {
	case paletted:
		rsb.Layout = LayoutPaletteIndex
	case rsb.BitMask.IsARGB():
		rsb.Layout = LayoutARGB
	default:
		rsb.Layout = LayoutBGRA
	}

	// Validate the declared pixel count against the remaining bytes before
	// allocating. The product is computed in 64 bits so corrupt dimensions
	// cannot overflow it.
	pixelBytes := uint64(2)
	if paletted {
		pixelBytes = 1
	}
	count := uint64(rsb.Width) * uint64(rsb.Height)
	if count*pixelBytes > uint64(rd.remaining()) {
		return nil, fmt.Errorf("%w: %dx%d pixel data", ErrTruncatedData, rsb.Width, rsb.Height)
	}

	size := int(count)
	rsb.Pixels = make([]Pixel, 0, size)
	for i := 0; i < size; i++ {
		var px Pixel
		if paletted {
			idx, err := rd.readU8("palette color index")
			if err != nil {
				return nil, fmt.Errorf("pixel %d: %w", i, err)
			}
			px = Pixel(idx)
		} else {
			v, err := rd.readU16("pixel value")
			if err != nil {
				return nil, fmt.Errorf("pixel %d: %w", i, err)
			}
			px = Pixel(v)
		}
		rsb.Pixels = append(rsb.Pixels, px)
	}

	// The palette branch carries a second copy of the image: a bitmask
	// followed by 16-bit packed pixels.
	if paletted {
		if rsb.BitMask, err = parseBitMask(rd); err != nil {
			return nil, err
		}
		if count*2 > uint64(rd.remaining()) {
			return nil, fmt.Errorf("%w: %dx%d masked pixel data", ErrTruncatedData, rsb.Width, rsb.Height)
		}
		rsb.MaskedPixels = make([]MaskedPixel, 0, size)
		for i := 0; i < size; i++ {
			v, err := rd.readU16("masked pixel value")
			if err != nil {
				return nil, fmt.Errorf("masked pixel %d: %w", i, err)
			}
			rsb.MaskedPixels = append(rsb.MaskedPixels, MaskedPixel(v))
		}
	}

	return rsb, nil
}

// ParseRSBFile parses an RSB texture from disk.
func ParseRSBFile(path string) (*Rsb, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading RSB file: %w", err)
	}
	return ParseRSB(data)
}

func parseBitMask(rd *reader) (BitMask, error) {
	var m BitMask
	var err error
	if m.R, err = rd.readU32("bitmask red"); err != nil {
		return BitMask{}, err
	}
	if m.G, err = rd.readU32("bitmask green"); err != nil {
		return BitMask{}, err
	}
	if m.B, err = rd.readU32("bitmask blue"); err != nil {
		return BitMask{}, err
	}
	if m.A, err = rd.readU32("bitmask alpha"); err != nil {
		return BitMask{}, err
	}
	return m, nil
}

// parsePaletteColors reads the 256-entry color table as consecutive 4-byte
// entries in B, G, R, A order.
func parsePaletteColors(rd *reader) ([]PaletteColor, error) {
	raw, err := rd.take(256*4, "palette colors")
	if err != nil {
		return nil, err
	}
	colors := make([]PaletteColor, 0, 256)
	for i := 0; i < 256; i++ {
		entry := raw[i*4 : i*4+4]
		colors = append(colors, PaletteColor{
			B: entry[0],
			G: entry[1],
			R: entry[2],
			A: entry[3],
		})
	}
	return colors, nil
}
