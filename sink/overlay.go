package sink

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/golang/freetype/truetype"
	"github.com/llgcode/draw2d"
	"github.com/llgcode/draw2d/draw2dimg"
	"golang.org/x/image/font/gofont/goregular"

	fractal "github.com/lesguillemets/rgae"
)

var captionFont = draw2d.FontData{
	Name:   "goregular",
	Family: draw2d.FontFamilySans,
	Style:  draw2d.FontStyleNormal,
}

var registerFont = sync.OnceValue(func() error {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return fmt.Errorf("parse font: %w", err)
	}
	draw2d.RegisterFont(captionFont, f)
	return nil
})

// Overlay decorates a rendered image with the complex axes and a caption.
type Overlay struct {
	View    fractal.Viewport
	Axes    bool
	Caption string
}

// Apply returns a decorated copy of img; img itself is not modified.
func (o *Overlay) Apply(img image.Image) (*image.RGBA, error) {
	b := img.Bounds()
	out := image.NewRGBA(b)
	draw.Draw(out, b, img, b.Min, draw.Src)

	gc := draw2dimg.NewGraphicContext(out)
	w, h := float64(b.Dx()), float64(b.Dy())

	if o.Axes {
		gc.SetLineWidth(1)
		gc.SetStrokeColor(color.RGBA{255, 255, 255, 96})
		v := o.View
		// real axis
		if v.Top <= 0 && v.Top+v.Height >= 0 {
			y := -v.Top / v.Height * h
			gc.MoveTo(0, y)
			gc.LineTo(w, y)
			gc.Stroke()
		}
		// imaginary axis
		if v.Left <= 0 && v.Left+v.Width >= 0 {
			x := -v.Left / v.Width * w
			gc.MoveTo(x, 0)
			gc.LineTo(x, h)
			gc.Stroke()
		}
	}

	if o.Caption != "" {
		if err := registerFont(); err != nil {
			return nil, err
		}
		const size, pad = 11.0, 4.0
		gc.SetFontData(captionFont)
		gc.SetFontSize(size)
		left, top, right, bottom := gc.GetStringBounds(o.Caption)

		// filled box behind the text in the bottom left corner
		bx, by := pad, h-pad-(bottom-top)-2*pad
		gc.SetFillColor(color.RGBA{10, 20, 50, 200})
		gc.BeginPath()
		gc.MoveTo(bx, by)
		gc.LineTo(bx+(right-left)+2*pad, by)
		gc.LineTo(bx+(right-left)+2*pad, h-pad)
		gc.LineTo(bx, h-pad)
		gc.Close()
		gc.Fill()

		gc.SetFillColor(color.White)
		gc.FillStringAt(o.Caption, bx+pad-left, by+pad-top)
	}
	return out, nil
}

// Caption describes a run in one line.
func Caption(cfg fractal.Config, maximum uint32) string {
	s := fmt.Sprintf("%v  %v  maxi=%d  T=%g", cfg.Mode, cfg.View, cfg.MaxIterations, cfg.Threshold)
	if cfg.Mode == fractal.OrbitDensity {
		s += fmt.Sprintf("  rr=%d  %v", cfg.Samples, cfg.Distribution)
	}
	return s + fmt.Sprintf("  max=%d  %v", maximum, cfg.Transfer)
}
