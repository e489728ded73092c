// Package raster converts decoded RSB pixel data into displayable images.
package raster

import (
	"fmt"

	"github.com/Faultbox/sherman/pkg/formats"
)

// Image is a 32-bit 0RGB framebuffer, one value per pixel in row-major
// order.
type Image struct {
	Width  int
	Height int
	Pixels []uint32
}

// Convert renders an RSB into a 0RGB framebuffer. Packed pixels are widened
// with the bitmask's channel counts; palette pixels are resolved through the
// color table.
func Convert(rsb *formats.Rsb) (*Image, error) {
	img := &Image{
		Width:  int(rsb.Width),
		Height: int(rsb.Height),
		Pixels: make([]uint32, 0, rsb.Size()),
	}

	if rsb.Layout == formats.LayoutPaletteIndex {
		if len(rsb.PaletteColors) == 0 {
			return nil, fmt.Errorf("palette-indexed image has no color table")
		}
		for _, px := range rsb.Pixels {
			c := rsb.PaletteColors[px.Index()]
			img.Pixels = append(img.Pixels, uint32(c.R)<<16|uint32(c.G)<<8|uint32(c.B))
		}
		return img, nil
	}

	mask := rsb.BitMask
	for i, px := range rsb.Pixels {
		r, ok := px.R(mask, rsb.Layout)
		if !ok {
			return nil, fmt.Errorf("pixel %d: mask %+v has no red channel", i, mask)
		}
		g, _ := px.G(mask, rsb.Layout)
		b, _ := px.B(mask, rsb.Layout)
		img.Pixels = append(img.Pixels, widen(r, g, b, mask))
	}
	return img, nil
}

// widen scales the narrow channel values up toward 8 bits and packs them as
// 0RGB. The retail assets only use the 5/6/5/0 and 4/4/4/4 layouts; the
// green channel of the 5/6/5 layout gets half the multiplier so it lands in
// the same range as red and blue.
func widen(r, g, b uint32, mask formats.BitMask) uint32 {
	gScale := mask.G
	if mask.G == 6 {
		gScale = mask.G >> 1
	}
	return (r*mask.R)<<16 | (g*gScale)<<8 | b*mask.B
}
