package export

import (
	"fmt"
	"image/color"
	"io"
	"strconv"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/ganot/accomplish/internal/stats"
)

const (
	chartWidth  = 1200
	chartHeight = 900
)

var (
	chartBlue   = color.NRGBA{R: 41, G: 128, B: 185, A: 255}
	chartPink   = color.NRGBA{R: 231, G: 84, B: 128, A: 255}
	chartGreen  = color.NRGBA{R: 39, G: 174, B: 96, A: 255}
	chartAxis   = color.NRGBA{R: 160, G: 160, B: 160, A: 255}
	chartText   = color.NRGBA{R: 40, G: 40, B: 40, A: 255}
	chartCanvas = color.White
)

var (
	fontOnce sync.Once
	fontTTF  *truetype.Font
	fontErr  error
)

func face(size float64) (font.Face, error) {
	fontOnce.Do(func() {
		fontTTF, fontErr = truetype.Parse(goregular.TTF)
	})
	if fontErr != nil {
		return nil, fmt.Errorf("loading chart font: %w", fontErr)
	}
	return truetype.NewFace(fontTTF, &truetype.Options{Size: size}), nil
}

type series struct {
	name   string
	color  color.Color
	values []float64
}

// WriteChartPNG renders a dashboard snapshot: monthly distribution on top,
// top initiators and gender by project below.
func WriteChartPNG(w io.Writer, d *stats.Dashboard, title string) error {
	if title == "" {
		title = "Activities Report"
	}

	titleFace, err := face(28)
	if err != nil {
		return err
	}
	labelFace, err := face(12)
	if err != nil {
		return err
	}

	dc := gg.NewContext(chartWidth, chartHeight)
	dc.SetColor(chartCanvas)
	dc.Clear()

	dc.SetColor(chartBlue)
	dc.DrawRectangle(0, 0, chartWidth, 70)
	dc.Fill()
	dc.SetFontFace(titleFace)
	dc.SetColor(color.White)
	dc.DrawStringAnchored(title, 24, 35, 0, 0.5)

	dc.SetFontFace(labelFace)

	months := make([]string, len(d.Monthly))
	monthly := make([]float64, len(d.Monthly))
	for i, m := range d.Monthly {
		months[i] = m.Month[:3]
		monthly[i] = float64(m.Count)
	}
	drawBars(dc, 40, 100, chartWidth-80, 340, "Monthly Activity Distribution", months,
		[]series{{name: "Activities", color: chartBlue, values: monthly}})

	initiators := make([]string, len(d.Initiators))
	counts := make([]float64, len(d.Initiators))
	for i, in := range d.Initiators {
		initiators[i] = in.Name
		counts[i] = float64(in.Count)
	}
	drawBars(dc, 40, 500, chartWidth/2-60, 360, "Initiative Sources", initiators,
		[]series{{name: "Activities", color: chartGreen, values: counts}})

	projects := make([]string, len(d.GenderByProject))
	male := make([]float64, len(d.GenderByProject))
	female := make([]float64, len(d.GenderByProject))
	for i, g := range d.GenderByProject {
		projects[i] = g.Project
		male[i] = float64(g.Male)
		female[i] = float64(g.Female)
	}
	drawBars(dc, chartWidth/2+20, 500, chartWidth/2-60, 360, "Gender Distribution by Project", projects,
		[]series{
			{name: "Male", color: chartBlue, values: male},
			{name: "Female", color: chartPink, values: female},
		})

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

// drawBars draws a grouped bar chart inside the box at (x, y).
func drawBars(dc *gg.Context, x, y, w, h float64, title string, labels []string, data []series) {
	dc.SetColor(chartText)
	dc.DrawStringAnchored(title, x, y, 0, 1)

	top := y + 30
	bottom := y + h - 40
	left := x + 40
	right := x + w

	peak := 0.0
	for _, s := range data {
		for _, v := range s.values {
			peak = max(peak, v)
		}
	}
	if peak == 0 {
		peak = 1
	}

	dc.SetColor(chartAxis)
	dc.SetLineWidth(1)
	dc.DrawLine(left, bottom, right, bottom)
	dc.DrawLine(left, top, left, bottom)
	dc.Stroke()
	dc.SetColor(chartText)
	dc.DrawStringAnchored(strconv.FormatFloat(peak, 'f', -1, 64), left-6, top, 1, 0.5)
	dc.DrawStringAnchored("0", left-6, bottom, 1, 0.5)

	for i, s := range data {
		dc.SetColor(s.color)
		lx := right - float64(len(data)-i)*90
		dc.DrawRectangle(lx, y-2, 10, 10)
		dc.Fill()
		dc.SetColor(chartText)
		dc.DrawStringAnchored(s.name, lx+14, y+3, 0, 0.5)
	}

	if len(labels) == 0 {
		dc.DrawStringAnchored("No data", (left+right)/2, (top+bottom)/2, 0.5, 0.5)
		return
	}

	slot := (right - left) / float64(len(labels))
	barW := slot * 0.7 / float64(len(data))
	for i, label := range labels {
		sx := left + float64(i)*slot + slot*0.15
		for j, s := range data {
			barH := (bottom - top) * s.values[i] / peak
			dc.SetColor(s.color)
			dc.DrawRectangle(sx+float64(j)*barW, bottom-barH, barW, barH)
			dc.Fill()
		}
		dc.SetColor(chartText)
		dc.DrawStringAnchored(truncate(label, int(slot/7)), left+float64(i)*slot+slot/2, bottom+14, 0.5, 0.5)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n < 4 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
