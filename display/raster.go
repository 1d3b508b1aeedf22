package display

import (
	"image"
	"image/color"
	"image/draw"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	black = color.Gray{Y: 0}
	white = color.Gray{Y: 255}
)

// Raster is a Sink that draws frames into a 128x64 grayscale image using a 7x13 bitmap font.
// Present swaps the finished frame into the image returned by Image, so readers never see a
// half-drawn frame.
type Raster struct {
	face *basicfont.Face
	back *image.Gray

	mu    sync.Mutex
	front *image.Gray
}

// NewRaster creates a blank Raster
func NewRaster() *Raster {
	bounds := image.Rect(0, 0, Width, Height)
	return &Raster{
		face:  basicfont.Face7x13,
		back:  image.NewGray(bounds),
		front: image.NewGray(bounds),
	}
}

// Draw implements Sink
func (r *Raster) Draw(f Frame) error {
	for _, cmd := range f {
		switch cmd.Op {
		case OpClear:
			draw.Draw(r.back, r.back.Bounds(), image.NewUniform(black), image.Point{}, draw.Src)
		case OpText:
			r.text(cmd)
		case OpPresent:
			r.mu.Lock()
			copy(r.front.Pix, r.back.Pix)
			r.mu.Unlock()
		}
	}
	return nil
}

func (r *Raster) text(cmd Command) {
	fg := white
	if cmd.Inverted {
		width := font.MeasureString(r.face, cmd.Text).Ceil()
		rect := image.Rect(int(cmd.X), int(cmd.Y), int(cmd.X)+width, int(cmd.Y)+LineHeight)
		draw.Draw(r.back, rect, image.NewUniform(white), image.Point{}, draw.Src)
		fg = black
	}

	d := font.Drawer{
		Dst:  r.back,
		Src:  image.NewUniform(fg),
		Face: r.face,
		Dot:  fixed.P(int(cmd.X), int(cmd.Y)+r.face.Ascent),
	}
	d.DrawString(cmd.Text)
}

// Image returns a copy of the last presented frame
func (r *Raster) Image() *image.Gray {
	r.mu.Lock()
	defer r.mu.Unlock()

	img := image.NewGray(r.front.Bounds())
	copy(img.Pix, r.front.Pix)
	return img
}
