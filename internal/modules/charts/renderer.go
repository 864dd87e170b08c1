// Package charts renders the small per-security bar charts shown next to each ranking row.
package charts

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
)

// Chart geometry in stored pixels. A logical chart is 1 + 4n columns wide
// (one gap column, then three columns per bar); each logical column is
// stored three pixels wide.
const (
	Height        = 20
	ColumnScale   = 3
	BarPixels     = 9
	BarPitchPixel = 4 * ColumnScale
)

var (
	background = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	foreground = color.RGBA{A: 255}
)

// Width returns the stored width of a chart with n bars
func Width(n int) int {
	return ColumnScale * (1 + 4*n)
}

// RenderBars rasterises one black bar per value on a white background.
// Bars extend from the zero baseline to the value, so negative values
// draw below the baseline. A zero range draws the background only.
func RenderBars(values []float64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, Width(len(values)), Height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: background}, image.Point{}, draw.Src)

	if len(values) == 0 {
		return img
	}

	lowest, highest := values[0], values[0]
	for _, v := range values[1:] {
		if v < lowest {
			lowest = v
		}
		if v > highest {
			highest = v
		}
	}

	base, span := 0.0, highest
	if lowest < 0 {
		base, span = lowest, highest-lowest
	}
	if span == 0 {
		return img
	}

	zero := (0 - base) / span
	for i, v := range values {
		h := (v - base) / span
		lo, hi := h, zero
		if lo > hi {
			lo, hi = hi, lo
		}

		top := int(Height * (1 - hi))
		bottom := int(Height * (1 - lo))
		x := i * BarPitchPixel
		draw.Draw(img, image.Rect(x, top, x+BarPixels, bottom), &image.Uniform{C: foreground}, image.Point{}, draw.Src)
	}
	return img
}

// WriteBars renders the values and encodes them as a truecolor PNG
func WriteBars(w io.Writer, values []float64) error {
	if err := png.Encode(w, RenderBars(values)); err != nil {
		return fmt.Errorf("failed to encode chart: %w", err)
	}
	return nil
}
