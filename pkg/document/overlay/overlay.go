// Package overlay renders detected text regions as outlined rectangles
// on a copy of the source image.
package overlay

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/iQuantC/docsight/pkg/document"
)

// Options configure the rendered rectangles.
type Options struct {
	Color       color.Color
	StrokeWidth int
}

// Option mutates the rendering options.
type Option func(*Options)

// WithColor sets the outline color.
func WithColor(c color.Color) Option {
	return func(o *Options) { o.Color = c }
}

// WithStrokeWidth sets the outline stroke width in pixels.
func WithStrokeWidth(width int) Option {
	return func(o *Options) { o.StrokeWidth = width }
}

// DefaultOptions returns the default rendering options: red, width 2.
func DefaultOptions() *Options {
	return &Options{
		Color:       color.RGBA{R: 255, A: 255},
		StrokeWidth: 2,
	}
}

// Render draws one unfilled rectangle per line onto a fresh copy of src
// and returns the copy; src is never written to. Boxes are scaled from
// normalized fractions to pixels and drawn exactly as given, in input
// order. Only the physical canvas clips them.
func Render(src image.Image, lines []document.Line, opts ...Option) *image.RGBA {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	bounds := src.Bounds()
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Src)

	for _, line := range lines {
		rect := PixelRect(line.Box, bounds)
		strokeRect(dst, rect, options.Color, options.StrokeWidth)
	}

	return dst
}

// PixelRect scales a normalized box by the image dimensions. The
// rectangle spans (Left*W, Top*H) to (Left*W+Width*W, Top*H+Height*H)
// relative to the image origin.
func PixelRect(box document.Box, bounds image.Rectangle) image.Rectangle {
	w := float64(bounds.Dx())
	h := float64(bounds.Dy())

	left := int(box.Left * w)
	top := int(box.Top * h)
	right := int(box.Left*w + box.Width*w)
	bottom := int(box.Top*h + box.Height*h)

	return image.Rect(left, top, right, bottom).Add(bounds.Min)
}

// strokeRect draws the rectangle outline, stroke expanding inward.
func strokeRect(dst *image.RGBA, r image.Rectangle, c color.Color, width int) {
	if width <= 0 {
		return
	}

	fill := image.NewUniform(c)
	clip := dst.Bounds()

	edges := [4]image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+width), // top
		image.Rect(r.Min.X, r.Max.Y-width, r.Max.X, r.Max.Y), // bottom
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+width, r.Max.Y), // left
		image.Rect(r.Max.X-width, r.Min.Y, r.Max.X, r.Max.Y), // right
	}

	for _, edge := range edges {
		draw.Draw(dst, edge.Intersect(clip), fill, image.Point{}, draw.Src)
	}
}
