// Package pattern generates the deterministic red/blue checkerboard used to
// validate texture sampling.
package pattern

import (
	"image"
	"image/color"
)

// DefaultSize is the side length of the test texture.
const DefaultSize = 512

var (
	Red  = color.RGBA{R: 255}
	Blue = color.RGBA{B: 255}
)

// Checkerboard is a square RGBA bitmap in texture upload order: row 0 of Pix
// is the bottom row, as OpenGL expects. The alpha channel is always zero.
type Checkerboard struct {
	Size int
	Pix  []byte
}

// NewCheckerboard fills a size x size checkerboard. In top-down image
// coordinates pixel (x, y) is red when (2x < size) XOR (2y < size), else blue.
func NewCheckerboard(size int) *Checkerboard {
	pix := make([]byte, 4*size*size)
	for row := range size {
		// Image row y is stored at texture row size-1-y.
		y := size - 1 - row
		for x := range size {
			c := Blue
			if (2*x < size) != (2*y < size) {
				c = Red
			}
			i := 4 * (row*size + x)
			pix[i+0] = c.R
			pix[i+1] = c.G
			pix[i+2] = c.B
			pix[i+3] = 0
		}
	}
	return &Checkerboard{Size: size, Pix: pix}
}

// At returns the texel at (x, y) with the origin at the bottom-left corner.
func (c *Checkerboard) At(x, y int) color.RGBA {
	i := 4 * (y*c.Size + x)
	return color.RGBA{R: c.Pix[i], G: c.Pix[i+1], B: c.Pix[i+2], A: c.Pix[i+3]}
}

// Image returns the checkerboard as a top-down image.
func (c *Checkerboard) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, c.Size, c.Size))
	stride := 4 * c.Size
	for row := range c.Size {
		src := c.Pix[row*stride : (row+1)*stride]
		dst := (c.Size - 1 - row) * img.Stride
		copy(img.Pix[dst:dst+stride], src)
	}
	return img
}
