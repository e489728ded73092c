package formats

import (
	"errors"
	"testing"
)

func TestMaskedPixel_Extract16Bit(t *testing.T) {
	// Sample pixel data from 'data/texture/sky_night_rainy_BK.rsb'.
	pixels := []MaskedPixel{0x2946, 0x2966, 0x2145, 0x2125, 0x2105}

	mask := BitMask{R: 5, G: 6, B: 5, A: 0}
	if mask.Bits() != 16 {
		t.Fatalf("this test must use 16-bit pixel depth, got %d", mask.Bits())
	}
	if mask.IsARGB() {
		t.Fatal("channel data is not 32-bit ARGB")
	}

	want := []struct{ r, g, b uint16 }{
		{6, 10, 5},
		{6, 11, 5},
		{5, 10, 4},
		{5, 9, 4},
		{5, 8, 4},
	}

	for i, px := range pixels {
		r, ok := px.R(mask)
		if !ok || r != want[i].r {
			t.Errorf("pixel %d: expected r=%d, got %d (ok=%v)", i, want[i].r, r, ok)
		}
		g, ok := px.G(mask)
		if !ok || g != want[i].g {
			t.Errorf("pixel %d: expected g=%d, got %d (ok=%v)", i, want[i].g, g, ok)
		}
		b, ok := px.B(mask)
		if !ok || b != want[i].b {
			t.Errorf("pixel %d: expected b=%d, got %d (ok=%v)", i, want[i].b, b, ok)
		}
		if _, ok := px.A(mask); ok {
			t.Errorf("pixel %d: expected no alpha channel", i)
		}
	}
}

func TestPixel_ExtractBGRA(t *testing.T) {
	// Sample pixel data from 'data/texture/rsw_mp5k.rsb'.
	pixels := []Pixel{0x4208, 0x1062, 0x10a3, 0x2104}

	mask := BitMask{R: 5, G: 6, B: 5, A: 0}
	if mask.Bits() != 16 {
		t.Fatalf("this test must use 16-bit pixel depth, got %d", mask.Bits())
	}

	want := []struct{ b, g, r uint32 }{
		{8, 16, 8},
		{2, 3, 2},
		{3, 5, 2},
		{4, 8, 4},
	}

	for i, px := range pixels {
		b, ok := px.B(mask, LayoutBGRA)
		if !ok || b != want[i].b {
			t.Errorf("pixel %d: expected b=%d, got %d (ok=%v)", i, want[i].b, b, ok)
		}
		g, ok := px.G(mask, LayoutBGRA)
		if !ok || g != want[i].g {
			t.Errorf("pixel %d: expected g=%d, got %d (ok=%v)", i, want[i].g, g, ok)
		}
		r, ok := px.R(mask, LayoutBGRA)
		if !ok || r != want[i].r {
			t.Errorf("pixel %d: expected r=%d, got %d (ok=%v)", i, want[i].r, r, ok)
		}
		if _, ok := px.A(mask, LayoutBGRA); ok {
			t.Errorf("pixel %d: expected no alpha channel", i)
		}
	}
}

func TestPixel_ExtractARGB(t *testing.T) {
	mask := BitMask{R: 8, G: 8, B: 8, A: 8}
	if !mask.IsARGB() {
		t.Fatal("expected 32-bit mask to select ARGB order")
	}

	// A=0x11, R=0x22, G=0x33, B=0x44 packed high to low.
	px := Pixel(0x11223344)

	if a, ok := px.A(mask, LayoutARGB); !ok || a != 0x44 {
		t.Errorf("expected a=0x44, got 0x%x (ok=%v)", a, ok)
	}
	if r, ok := px.R(mask, LayoutARGB); !ok || r != 0x33 {
		t.Errorf("expected r=0x33, got 0x%x (ok=%v)", r, ok)
	}
	if g, ok := px.G(mask, LayoutARGB); !ok || g != 0x22 {
		t.Errorf("expected g=0x22, got 0x%x (ok=%v)", g, ok)
	}
	if b, ok := px.B(mask, LayoutARGB); !ok || b != 0x11 {
		t.Errorf("expected b=0x11, got 0x%x (ok=%v)", b, ok)
	}
}

func TestPixel_PaletteLayoutHasNoChannels(t *testing.T) {
	mask := BitMask{R: 5, G: 6, B: 5}
	px := Pixel(42)

	if _, ok := px.R(mask, LayoutPaletteIndex); ok {
		t.Error("palette-index pixels have no red channel")
	}
	if px.Index() != 42 {
		t.Errorf("expected index 42, got %d", px.Index())
	}
}

func writeBitMask(buf *wireBuffer, m BitMask) {
	buf.u32(m.R)
	buf.u32(m.G)
	buf.u32(m.B)
	buf.u32(m.A)
}

func TestParseRSB_UnsupportedVersion(t *testing.T) {
	var buf wireBuffer
	buf.u32(2)
	_, err := ParseRSB(buf.Bytes())
	if !errors.Is(err, ErrUnsupportedRSBVersion) {
		t.Errorf("expected ErrUnsupportedRSBVersion, got %v", err)
	}
}

func TestParseRSB_UnsupportedPalette(t *testing.T) {
	var buf wireBuffer
	buf.u32(0) // version
	buf.u32(1) // width
	buf.u32(1) // height
	buf.u32(5) // palette selector, only 0 and 1 are handled
	_, err := ParseRSB(buf.Bytes())
	if !errors.Is(err, ErrUnsupportedRSBPalette) {
		t.Errorf("expected ErrUnsupportedRSBPalette, got %v", err)
	}
}

func TestParseRSB_Truncated(t *testing.T) {
	var buf wireBuffer
	buf.u32(1) // version
	buf.u32(4) // width
	_, err := ParseRSB(buf.Bytes())
	if !errors.Is(err, ErrTruncatedData) {
		t.Errorf("expected ErrTruncatedData, got %v", err)
	}
}

// Dimensions are validated against the remaining bytes before any pixel
// allocation. A corrupt header declaring maximum width and height must fail
// with a decode error, not an oversized or overflowed allocation.
func TestParseRSB_HugeDimensions(t *testing.T) {
	var buf wireBuffer
	buf.u32(1)          // version
	buf.u32(0xFFFFFFFF) // width
	buf.u32(0xFFFFFFFF) // height
	writeBitMask(&buf, BitMask{R: 5, G: 6, B: 5})

	_, err := ParseRSB(buf.Bytes())
	if !errors.Is(err, ErrTruncatedData) {
		t.Errorf("expected ErrTruncatedData, got %v", err)
	}
}

func TestParseRSB_ShortPixelData(t *testing.T) {
	var buf wireBuffer
	buf.u32(1) // version
	buf.u32(2) // width
	buf.u32(2) // height
	writeBitMask(&buf, BitMask{R: 5, G: 6, B: 5})
	buf.u16(0x4208) // one pixel of four

	_, err := ParseRSB(buf.Bytes())
	if !errors.Is(err, ErrTruncatedData) {
		t.Errorf("expected ErrTruncatedData, got %v", err)
	}
}

func TestParseRSB_ShortMaskedPixelData(t *testing.T) {
	var buf wireBuffer
	buf.u32(0) // version
	buf.u32(2) // width
	buf.u32(2) // height
	buf.u32(1) // palette selector
	for i := 0; i < 256*4; i++ {
		buf.u8(0)
	}
	for i := 0; i < 4; i++ {
		buf.u8(uint8(i)) // palette indices
	}
	writeBitMask(&buf, BitMask{R: 5, G: 6, B: 5})
	buf.u16(0x2946) // one masked pixel of four

	_, err := ParseRSB(buf.Bytes())
	if !errors.Is(err, ErrTruncatedData) {
		t.Errorf("expected ErrTruncatedData, got %v", err)
	}
}

func TestParseRSB_Version1(t *testing.T) {
	var buf wireBuffer
	buf.u32(1) // version
	buf.u32(2) // width
	buf.u32(1) // height
	writeBitMask(&buf, BitMask{R: 5, G: 6, B: 5})
	buf.u16(0x4208)
	buf.u16(0x1062)

	rsb, err := ParseRSB(buf.Bytes())
	if err != nil {
		t.Fatalf("failed to parse v1 RSB: %v", err)
	}

	if rsb.Version != 1 {
		t.Errorf("expected version 1, got %d", rsb.Version)
	}
	if rsb.Palette != nil {
		t.Error("v1 files carry no palette selector")
	}
	if rsb.Layout != LayoutBGRA {
		t.Errorf("expected BGRA layout for a 16-bit mask, got %v", rsb.Layout)
	}
	if rsb.Size() != 2 || len(rsb.Pixels) != 2 {
		t.Fatalf("expected 2 pixels, got size=%d len=%d", rsb.Size(), len(rsb.Pixels))
	}
	if rsb.Pixels[0] != 0x4208 || rsb.Pixels[1] != 0x1062 {
		t.Errorf("unexpected pixel values: %#x %#x", rsb.Pixels[0], rsb.Pixels[1])
	}
	if rsb.MaskedPixels != nil {
		t.Error("v1 files carry no masked pixel copy")
	}
}

func TestParseRSB_Version0Bitmask(t *testing.T) {
	var buf wireBuffer
	buf.u32(0) // version
	buf.u32(1) // width
	buf.u32(1) // height
	buf.u32(0) // palette selector: bitmask follows directly
	writeBitMask(&buf, BitMask{R: 5, G: 6, B: 5})
	buf.u16(0x2946)

	rsb, err := ParseRSB(buf.Bytes())
	if err != nil {
		t.Fatalf("failed to parse v0 RSB: %v", err)
	}

	if rsb.Palette == nil || *rsb.Palette != 0 {
		t.Fatalf("expected palette selector 0, got %v", rsb.Palette)
	}
	if rsb.PaletteColors != nil {
		t.Error("selector 0 carries no palette table")
	}
	if rsb.Layout != LayoutBGRA {
		t.Errorf("expected BGRA layout, got %v", rsb.Layout)
	}
	if len(rsb.Pixels) != 1 || rsb.Pixels[0] != 0x2946 {
		t.Errorf("unexpected pixels: %#v", rsb.Pixels)
	}
}

func TestParseRSB_Version0Palette(t *testing.T) {
	var buf wireBuffer
	buf.u32(0) // version
	buf.u32(2) // width
	buf.u32(1) // height
	buf.u32(1) // palette selector: 256-entry table follows

	// Entry i is (B, G, R, A) = (i, i+1, i+2, i+3).
	for i := 0; i < 256; i++ {
		buf.u8(uint8(i))
		buf.u8(uint8(i + 1))
		buf.u8(uint8(i + 2))
		buf.u8(uint8(i + 3))
	}

	buf.u8(7) // palette indices
	buf.u8(250)

	// Second copy of the image: bitmask plus 16-bit packed pixels.
	writeBitMask(&buf, BitMask{R: 5, G: 6, B: 5})
	buf.u16(0x2946)
	buf.u16(0x2966)

	rsb, err := ParseRSB(buf.Bytes())
	if err != nil {
		t.Fatalf("failed to parse palette RSB: %v", err)
	}

	if rsb.Palette == nil || *rsb.Palette != 1 {
		t.Fatalf("expected palette selector 1, got %v", rsb.Palette)
	}
	if rsb.Layout != LayoutPaletteIndex {
		t.Errorf("expected palette-index layout, got %v", rsb.Layout)
	}

	if len(rsb.PaletteColors) != 256 {
		t.Fatalf("expected 256 palette colors, got %d", len(rsb.PaletteColors))
	}
	want := PaletteColor{B: 7, G: 8, R: 9, A: 10}
	if rsb.PaletteColors[7] != want {
		t.Errorf("expected palette entry 7 = %+v, got %+v", want, rsb.PaletteColors[7])
	}

	if len(rsb.Pixels) != 2 {
		t.Fatalf("expected 2 pixels, got %d", len(rsb.Pixels))
	}
	if rsb.Pixels[0].Index() != 7 || rsb.Pixels[1].Index() != 250 {
		t.Errorf("unexpected palette indices: %d %d", rsb.Pixels[0].Index(), rsb.Pixels[1].Index())
	}

	if rsb.BitMask != (BitMask{R: 5, G: 6, B: 5}) {
		t.Errorf("expected second bitmask 5/6/5/0, got %+v", rsb.BitMask)
	}
	if len(rsb.MaskedPixels) != 2 {
		t.Fatalf("expected 2 masked pixels, got %d", len(rsb.MaskedPixels))
	}
	if g, ok := rsb.MaskedPixels[1].G(rsb.BitMask); !ok || g != 11 {
		t.Errorf("expected masked pixel green 11, got %d (ok=%v)", g, ok)
	}
}

func TestBitMask_Bits(t *testing.T) {
	tests := []struct {
		mask BitMask
		bits uint32
		argb bool
	}{
		{BitMask{R: 5, G: 6, B: 5, A: 0}, 16, false},
		{BitMask{R: 8, G: 8, B: 8, A: 8}, 32, true},
		{BitMask{R: 4, G: 4, B: 4, A: 4}, 16, false},
		{BitMask{}, 0, false},
	}
	for _, tt := range tests {
		if got := tt.mask.Bits(); got != tt.bits {
			t.Errorf("%+v: expected %d bits, got %d", tt.mask, tt.bits, got)
		}
		if got := tt.mask.IsARGB(); got != tt.argb {
			t.Errorf("%+v: expected IsARGB %v, got %v", tt.mask, tt.argb, got)
		}
	}
}

func TestChannel_FullWidth(t *testing.T) {
	// A 32-bit wide channel must not overflow the mask computation.
	v, ok := channel(0xDEADBEEF, 32, 0)
	if !ok || v != 0xDEADBEEF {
		t.Errorf("expected 0xDEADBEEF, got %#x (ok=%v)", v, ok)
	}

	if _, ok := channel(0xFF, 0, 4); ok {
		t.Error("zero-width channel must report absence")
	}
}
