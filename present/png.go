// Package present writes frames and maps to files: PNG snapshots of
// rendered frames and SVG plans of a map.
package present

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Scale returns frame enlarged by an integer factor with nearest-neighbour
// sampling. A scale below 2 returns frame itself.
func Scale(frame *image.RGBA, scale int) *image.RGBA {
	if scale < 2 {
		return frame
	}
	b := frame.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), frame, b, xdraw.Src, nil)
	return dst
}

// Caption draws lines of text in the top-left corner of img.
func Caption(img *image.RGBA, lines ...string) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{0x00, 0xff, 0xff, 0xff}),
		Face: face,
	}
	for i, line := range lines {
		d.Dot = fixed.P(img.Bounds().Min.X+4, img.Bounds().Min.Y+(i+1)*face.Height)
		d.DrawString(line)
	}
}

// WritePNG encodes frame scaled up by scale, with an optional caption.
func WritePNG(w io.Writer, frame *image.RGBA, scale int, caption ...string) error {
	img := Scale(frame, scale)
	if len(caption) > 0 {
		if img == frame {
			img = image.NewRGBA(frame.Bounds())
			copy(img.Pix, frame.Pix)
		}
		Caption(img, caption...)
	}
	return png.Encode(w, img)
}

// PNGFile is a Presenter that overwrites a PNG file with every frame.
type PNGFile struct {
	Path    string
	Scale   int
	Caption func() []string // optional, called per frame
}

// Present writes frame to the file.
func (p *PNGFile) Present(frame *image.RGBA) error {
	f, err := os.Create(p.Path)
	if err != nil {
		return err
	}
	var caption []string
	if p.Caption != nil {
		caption = p.Caption()
	}
	if err := WritePNG(f, frame, p.Scale, caption...); err != nil {
		f.Close()
		return fmt.Errorf("encode %v: %w", p.Path, err)
	}
	return f.Close()
}
