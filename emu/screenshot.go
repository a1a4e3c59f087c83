package emu

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/draw"

	"nescore/hw"
)

// Screenshot returns a copy of the last complete frame, scaled by factor
// with nearest-neighbor interpolation.
func (nes *NES) Screenshot(factor int) *image.RGBA {
	factor = max(factor, 1)
	src := nes.PPU.Frame()
	dst := image.NewRGBA(image.Rect(0, 0, hw.ScreenWidth*factor, hw.ScreenHeight*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// EncodeScreenshot writes the last complete frame as PNG into w.
func (nes *NES) EncodeScreenshot(w io.Writer, factor int) error {
	return png.Encode(w, nes.Screenshot(factor))
}

// SaveScreenshot writes the last complete frame as PNG into the file at path.
func (nes *NES) SaveScreenshot(path string, factor int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := nes.EncodeScreenshot(f, factor); err != nil {
		f.Close()
		return fmt.Errorf("screenshot: %w", err)
	}
	return f.Close()
}
