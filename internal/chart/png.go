package chart

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// tab10
var palette = []color.RGBA{
	{0x1f, 0x77, 0xb4, 0xff},
	{0xff, 0x7f, 0x0e, 0xff},
	{0x2c, 0xa0, 0x2c, 0xff},
	{0xd6, 0x27, 0x28, 0xff},
	{0x94, 0x67, 0xbd, 0xff},
	{0x8c, 0x56, 0x4b, 0xff},
	{0xe3, 0x77, 0xc2, 0xff},
	{0x7f, 0x7f, 0x7f, 0xff},
	{0xbc, 0xbd, 0x22, 0xff},
	{0x17, 0xbe, 0xcf, 0xff},
}

// PNGRenderer draws a pie with a legend on the right.
type PNGRenderer struct {
	Width  int
	Height int
}

func NewPNGRenderer() *PNGRenderer {
	return &PNGRenderer{Width: 1000, Height: 600}
}

func (r *PNGRenderer) ContentType() string {
	return "image/png"
}

func (r *PNGRenderer) Render(c Chart) ([]byte, error) {
	if r.Width <= 0 || r.Height <= 0 {
		return nil, fmt.Errorf("invalid canvas %dx%d", r.Width, r.Height)
	}

	img := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	face := basicfont.Face7x13
	titleY := 30
	drawText(img, face, c.Title, r.Width/2-textWidth(face, c.Title)/2, titleY, color.Black)

	cx := float64(r.Width) * 0.4
	cy := float64(r.Height)/2 + 10
	radius := math.Min(cx, cy) * 0.75

	if len(c.Wedges) == 0 {
		msg := "No flights stored yet"
		drawText(img, face, msg, int(cx)-textWidth(face, msg)/2, int(cy), color.Black)
	}

	for i, w := range c.Wedges {
		fillWedge(img, cx, cy, radius, w.StartAngle, w.EndAngle, palette[i%len(palette)])
	}

	for _, w := range c.Wedges {
		mid := (w.StartAngle + w.EndAngle) / 2
		px, py := polar(cx, cy, radius*0.6, mid)
		drawText(img, face, w.PercentStr, int(px)-textWidth(face, w.PercentStr)/2, int(py)+4, color.White)

		lx, ly := polar(cx, cy, radius*1.1, mid)
		x := int(lx)
		if math.Cos(mid*math.Pi/180) < 0 {
			x -= textWidth(face, w.Label)
		}
		drawText(img, face, w.Label, x, int(ly)+4, color.Black)
	}

	r.drawLegend(img, face, c)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *PNGRenderer) drawLegend(img *image.RGBA, face font.Face, c Chart) {
	if len(c.Wedges) == 0 {
		return
	}
	labels := make([]string, len(c.Wedges))
	for i, w := range c.Wedges {
		labels[i] = w.Label
	}

	layout := layoutLegend(labels, r.Width, r.Height)
	drawText(img, face, c.LegendTitle, layout.TitleX, layout.TitleY, color.Black)
	for _, e := range layout.Entries {
		x := e.X
		if e.Swatch >= 0 {
			swatch := image.Rect(x, e.Y-10, x+12, e.Y+2)
			draw.Draw(img, swatch, &image.Uniform{C: palette[e.Swatch%len(palette)]}, image.Point{}, draw.Src)
			x += 18
		}
		drawText(img, face, e.Label, x, e.Y, color.Black)
	}
}

const (
	legendRow    = 18
	legendColumn = 110
	legendTop    = 50
	legendBottom = 10
)

type legendEntry struct {
	X, Y   int
	Label  string
	Swatch int // palette index, -1 for the overflow line
}

type legendLayout struct {
	TitleX, TitleY int
	Entries        []legendEntry
}

// layoutLegend places entries in columns on the right 45% of the canvas.
// Entries that still do not fit collapse into a trailing "+N more" line.
func layoutLegend(labels []string, width, height int) legendLayout {
	rowsPerCol := (height-legendTop-legendBottom)/legendRow - 1
	if rowsPerCol < 1 {
		rowsPerCol = 1
	}
	maxCols := (width - width*55/100) / legendColumn
	if maxCols < 1 {
		maxCols = 1
	}

	shown, overflow := labels, 0
	if capacity := rowsPerCol * maxCols; len(labels) > capacity {
		shown = labels[:capacity-1]
		overflow = len(labels) - len(shown)
	}
	n := len(shown)
	if overflow > 0 {
		n++
	}

	cols := (n + rowsPerCol - 1) / rowsPerCol
	rows := n
	if rows > rowsPerCol {
		rows = rowsPerCol
	}

	x0 := width * 3 / 4
	if x0+cols*legendColumn > width {
		x0 = width - cols*legendColumn
	}
	y0 := height/2 - (rows+1)*legendRow/2
	if y0 < legendTop {
		y0 = legendTop
	}

	layout := legendLayout{TitleX: x0, TitleY: y0, Entries: make([]legendEntry, 0, n)}
	at := func(i int) (int, int) {
		return x0 + (i/rowsPerCol)*legendColumn, y0 + (i%rowsPerCol+1)*legendRow
	}
	for i, label := range shown {
		x, y := at(i)
		layout.Entries = append(layout.Entries, legendEntry{X: x, Y: y, Label: label, Swatch: i})
	}
	if overflow > 0 {
		x, y := at(len(shown))
		layout.Entries = append(layout.Entries, legendEntry{X: x, Y: y, Label: fmt.Sprintf("+%d more", overflow), Swatch: -1})
	}
	return layout
}

func fillWedge(img *image.RGBA, cx, cy, radius, from, to float64, col color.RGBA) {
	b := img.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.DrawOp = draw.Over

	z.MoveTo(float32(cx), float32(cy))
	for a := from; a < to; a++ {
		x, y := polar(cx, cy, radius, a)
		z.LineTo(float32(x), float32(y))
	}
	x, y := polar(cx, cy, radius, to)
	z.LineTo(float32(x), float32(y))
	z.ClosePath()

	z.Draw(img, b, &image.Uniform{C: col}, image.Point{})
}

// polar maps an angle in degrees (counterclockwise, y up) to image coordinates.
func polar(cx, cy, radius, deg float64) (float64, float64) {
	rad := deg * math.Pi / 180
	return cx + radius*math.Cos(rad), cy - radius*math.Sin(rad)
}

func drawText(img *image.RGBA, face font.Face, s string, x, y int, col color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

func textWidth(face font.Face, s string) int {
	return font.MeasureString(face, s).Round()
}
