package present

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stuarthighley/buildmap"
	"github.com/stuarthighley/buildmap/internal/testmaps"
	"github.com/stuarthighley/buildmap/player"
)

func testFrame() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	for y := range 3 {
		for x := range 4 {
			img.SetRGBA(x, y, color.RGBA{uint8(x * 60), uint8(y * 80), 0, 0xff})
		}
	}
	return img
}

func TestScale(t *testing.T) {
	frame := testFrame()
	if Scale(frame, 1) != frame {
		t.Errorf("Expected scale 1 to return the frame itself")
	}
	big := Scale(frame, 3)
	if big.Bounds() != image.Rect(0, 0, 12, 9) {
		t.Fatalf("Unexpected bounds %v", big.Bounds())
	}
	for _, pt := range []image.Point{{0, 0}, {5, 4}, {11, 8}} {
		want := frame.RGBAAt(pt.X/3, pt.Y/3)
		if got := big.RGBAAt(pt.X, pt.Y); got != want {
			t.Errorf("Pixel %v: got %v, want %v", pt, got, want)
		}
	}
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	frame := image.NewRGBA(image.Rect(0, 0, 64, 32))
	if err := WritePNG(&buf, frame, 2, "sector 0"); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 128, 64) {
		t.Errorf("Unexpected bounds %v", img.Bounds())
	}
	lit := false
	for y := 0; y < 20 && !lit; y++ {
		for x := 0; x < 80; x++ {
			if r, _, _, _ := img.At(x, y).RGBA(); r == 0 {
				if _, g, _, _ := img.At(x, y).RGBA(); g != 0 {
					lit = true
					break
				}
			}
		}
	}
	if !lit {
		t.Errorf("Expected caption pixels in the corner")
	}
	for _, p := range frame.Pix[:4] {
		if p != 0 {
			t.Errorf("Expected the source frame to be left untouched")
		}
	}
}

func TestPNGFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	p := &PNGFile{Path: path, Scale: 2, Caption: func() []string { return []string{"hi"} }}
	if err := p.Present(testFrame()); err != nil {
		t.Fatalf("Present: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil || cfg.Width != 8 || cfg.Height != 6 {
		t.Errorf("Unexpected PNG %+v, %v", cfg, err)
	}

	bad := &PNGFile{Path: filepath.Join(t.TempDir(), "missing", "out.png")}
	if err := bad.Present(testFrame()); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected os.ErrNotExist, got %v", err)
	}
}

func TestPlan(t *testing.T) {
	m, err := buildmap.Parse(testmaps.Grid(2, 1, 100).Bytes())
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	s := player.State{X: 50, Y: 50, Sector: 0}
	if err := DefaultPlan.Write(&buf, m, s); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"<svg", "sector0", "sector1", "stroke:red", "x=3.1 y=3.1", "</svg>"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q", want)
		}
	}
	// 8 walls plus the view direction
	if n := strings.Count(out, "<line"); n != 9 {
		t.Errorf("Expected 9 lines, got %d", n)
	}
	if n := strings.Count(out, "stroke:red"); n != 2 {
		t.Errorf("Expected 2 portal lines, got %d", n)
	}
}

func TestPlanEmptyMap(t *testing.T) {
	if err := DefaultPlan.Write(&bytes.Buffer{}, &buildmap.Map{}, player.State{}); err == nil {
		t.Errorf("Expected an error for a map without walls")
	}
}
