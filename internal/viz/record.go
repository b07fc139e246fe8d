package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"io"
	"os"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	cellW, cellH = 8, 16
	gifDelay     = 2 // hundredths of a second
	maxPalette   = 256
)

// Recorder rasterises canvas frames for a GIF animation.
type Recorder struct {
	Background color.Color
	Foreground color.Color
	frames     []*image.Paletted
}

func NewRecorder(t Theme) *Recorder {
	return &Recorder{
		Background: hexColor(string(t.Background), color.Black),
		Foreground: hexColor(string(t.Text), color.White),
	}
}

func (r *Recorder) Len() int { return len(r.frames) }

// Capture draws every lit braille dot of c as a filled block in the dot's
// cell colour.
func (r *Recorder) Capture(c *Canvas) {
	img := image.NewPaletted(image.Rect(0, 0, c.Width*cellW, c.Height*cellH), color.Palette{r.Background, r.Foreground})
	index := map[string]uint8{"": 1}
	dotW, dotH := cellW/2, cellH/4

	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			pattern := c.Grid[row][col] - brailleBase
			if pattern <= 0 {
				continue
			}
			ci := r.colorIndex(img, index, c.Colors[row][col])
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&rune(pixelMap[dy][dx]) == 0 {
						continue
					}
					x0, y0 := col*cellW+dx*dotW, row*cellH+dy*dotH
					for py := 0; py < dotH; py++ {
						for px := 0; px < dotW; px++ {
							img.SetColorIndex(x0+px, y0+py, ci)
						}
					}
				}
			}
		}
	}
	r.frames = append(r.frames, img)
}

func (r *Recorder) colorIndex(img *image.Paletted, index map[string]uint8, hex string) uint8 {
	if i, ok := index[hex]; ok {
		return i
	}
	if len(img.Palette) >= maxPalette {
		return 1
	}
	img.Palette = append(img.Palette, hexColor(hex, r.Foreground))
	i := uint8(len(img.Palette) - 1)
	index[hex] = i
	return i
}

// Encode writes the captured frames as a looping GIF.
func (r *Recorder) Encode(w io.Writer) error {
	if len(r.frames) == 0 {
		return fmt.Errorf("viz: no frames recorded")
	}
	anim := gif.GIF{LoopCount: 0}
	for _, f := range r.frames {
		anim.Image = append(anim.Image, f)
		anim.Delay = append(anim.Delay, gifDelay)
	}
	return gif.EncodeAll(w, &anim)
}

// Save encodes the recording to path and clears it.
func (r *Recorder) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.Encode(f); err != nil {
		f.Close()
		return err
	}
	r.frames = r.frames[:0]
	return f.Close()
}

func hexColor(hex string, fallback color.Color) color.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return fallback
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
