package gantt

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strconv"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// supersample is the factor the chart is drawn at before downscaling.
const supersample = 2

var (
	colorWhite      = color.RGBA{255, 255, 255, 255}
	colorText       = color.RGBA{51, 51, 51, 255}    // #333
	colorDim        = color.RGBA{102, 102, 102, 255} // #666
	colorNonWorking = color.RGBA{240, 240, 240, 255} // #f0f0f0
	colorBand       = color.RGBA{204, 204, 204, 255} // #ccc
	colorRule       = color.RGBA{229, 229, 229, 255} // #e5e5e5
	colorToday      = color.RGBA{214, 39, 40, 255}   // #d62728
)

// renderContext draws in unscaled chart coordinates onto a supersampled
// image.
type renderContext struct {
	img   *image.RGBA
	scale int
	face  font.Face
	bold  font.Face
}

func newRenderContext(img *image.RGBA, scale, fontSize int) (*renderContext, error) {
	face, err := newFace(goregular.TTF, float64(fontSize*scale))
	if err != nil {
		return nil, err
	}
	bold, err := newFace(gobold.TTF, float64(fontSize*scale))
	if err != nil {
		return nil, err
	}
	return &renderContext{img: img, scale: scale, face: face, bold: bold}, nil
}

func newFace(ttf []byte, size float64) (font.Face, error) {
	fnt, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}
	return opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

// RenderPNG renders a chart to PNG. The chart is drawn at twice its size
// and downsampled for smoother text and edges.
func RenderPNG(c Chart, w io.Writer, opts Options) error {
	img, err := renderImage(c, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

func renderImage(c Chart, opts Options) (*image.RGBA, error) {
	f, err := newFrame(c, opts)
	if err != nil {
		return nil, err
	}
	if f.width*f.height > maxPixels {
		return nil, fmt.Errorf("chart is %dx%d pixels, limit %d", f.width, f.height, maxPixels)
	}
	opts = f.opts

	large := image.NewRGBA(image.Rect(0, 0, f.width*supersample, f.height*supersample))
	ctx, err := newRenderContext(large, supersample, opts.FontSize)
	if err != nil {
		return nil, err
	}
	draw.Draw(large, large.Bounds(), image.NewUniform(colorWhite), image.Point{}, draw.Src)

	if opts.Title != "" {
		ctx.text(ctx.bold, 8, f.titleH-opts.FontSize/2, opts.Title, colorText)
	}

	bandY := f.titleH + opts.RowHeight
	for i := 0; i < f.days; i++ {
		if c.NonWorking(i) {
			ctx.fillRect(f.dayX(i), bandY, opts.DayWidth, f.height-bandY, colorNonWorking)
		}
	}

	for _, m := range c.Months() {
		x := f.dayX(m.Start)
		ctx.strokeRect(x, f.titleH, m.Span*opts.DayWidth, opts.RowHeight, colorBand)
		ctx.text(ctx.face, x+4, textY(f.titleH, opts), m.Label, colorText)
	}

	for i := 0; i < f.days; i++ {
		if label := f.dayLabel(c, i); label != "" {
			ctx.textCentered(ctx.face, f.dayX(i)+opts.DayWidth/2, textY(bandY, opts), label, colorDim)
		}
	}

	for i, b := range c.Bars {
		y := f.rowY(i)
		ctx.fillRect(0, y, f.width, 1, colorRule)
		face := ctx.face
		if b.Parent {
			face = ctx.bold
		}
		x := f.labelX(b)
		label := ctx.fit(face, b.Label, opts.LabelWidth-x-4)
		ctx.text(face, x, textY(y, opts), label, colorText)
		if !b.Dated() {
			continue
		}
		bx, by, bw, bh := f.barRect(c, i)
		fill, ok := parseHex(b.Colour)
		if !ok {
			fill, _ = parseHex(DefaultColour)
		}
		ctx.fillRect(bx, by, bw, bh, fill)
	}

	if x, ok := f.todayX(c); ok {
		ctx.dashedVLine(x, bandY, f.height, colorToday)
	}

	final := image.NewRGBA(image.Rect(0, 0, f.width, f.height))
	draw.CatmullRom.Scale(final, final.Bounds(), large, large.Bounds(), draw.Over, nil)
	return final, nil
}

// fillRect fills a rectangle given in chart coordinates.
func (ctx *renderContext) fillRect(x, y, w, h int, c color.Color) {
	s := ctx.scale
	r := image.Rect(x*s, y*s, (x+w)*s, (y+h)*s)
	draw.Draw(ctx.img, r, image.NewUniform(c), image.Point{}, draw.Over)
}

func (ctx *renderContext) strokeRect(x, y, w, h int, c color.Color) {
	ctx.fillRect(x, y, w, 1, c)
	ctx.fillRect(x, y+h-1, w, 1, c)
	ctx.fillRect(x, y, 1, h, c)
	ctx.fillRect(x+w-1, y, 1, h, c)
}

// dashedVLine draws a two-pixel line from y1 to y2 in 4-on 3-off dashes.
func (ctx *renderContext) dashedVLine(x, y1, y2 int, c color.Color) {
	for y := y1; y < y2; y += 7 {
		h := 4
		if y+h > y2 {
			h = y2 - y
		}
		ctx.fillRect(x-1, y, 2, h, c)
	}
}

// text draws s with its baseline at (x, y) in chart coordinates.
func (ctx *renderContext) text(face font.Face, x, y int, s string, c color.Color) {
	d := &font.Drawer{
		Dst:  ctx.img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x*ctx.scale, y*ctx.scale),
	}
	d.DrawString(s)
}

func (ctx *renderContext) textCentered(face font.Face, x, y int, s string, c color.Color) {
	width := font.MeasureString(face, s).Ceil() / ctx.scale
	ctx.text(face, x-width/2, y, s, c)
}

// fit shortens s with an ellipsis until it is at most max pixels wide.
func (ctx *renderContext) fit(face font.Face, s string, max int) string {
	limit := fixed.I(max * ctx.scale)
	if font.MeasureString(face, s) <= limit {
		return s
	}
	r := []rune(s)
	for len(r) > 0 {
		r = r[:len(r)-1]
		if t := string(r) + "…"; font.MeasureString(face, t) <= limit {
			return t
		}
	}
	return ""
}

// parseHex parses a #rrggbb colour.
func parseHex(s string) (color.RGBA, bool) {
	if len(s) != 7 || s[0] != '#' {
		return color.RGBA{}, false
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.RGBA{}, false
	}
	return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 255}, true
}
