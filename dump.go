package prism

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"golang.org/x/image/bmp"
	"honnef.co/go/safeish"
)

// DumpFrame writes the resolved buffer as an uncompressed 24-bit BMP
// named Frame<NNNNN>.bmp under dir, where NNNNN is the current frame
// count. An empty dir defaults to "Frames". The file's directory is
// created if needed.
func (r *Renderer) DumpFrame(dir string) error {
	if r.fb == nil {
		return errNotInitialized
	}
	if dir == "" {
		dir = "Frames"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	name := filepath.Join(dir, fmt.Sprintf("Frame%05d.bmp", r.state.FrameCount))
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()

	img := &image.RGBA{
		Pix:    safeish.SliceCast[[]uint8](r.fb.resolved),
		Stride: r.fb.width * 4,
		Rect:   image.Rect(0, 0, r.fb.width, r.fb.height),
	}
	if err := bmp.Encode(f, img); err != nil {
		return err
	}
	return f.Close()
}
