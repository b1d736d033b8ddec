package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/ganot/accomplish/internal/domain/activity"
)

const (
	bannerHeight = 40.0
	tableTop     = 50.0
	pageMargin   = 10.0
	bottomMargin = 20.0
	lineHeight   = 3.5
	cellPadding  = 1.0
)

var (
	bannerColor = [3]int{41, 128, 185}
	stripeColor = [3]int{245, 245, 245}
	gridColor   = [3]int{200, 200, 200}
)

// Narrow columns get a fixed width in mm; the others share what is left.
var fixedWidths = map[int]float64{
	0:               15,
	1:               20,
	colHours:        15,
	colParticipants: 20,
	colMale:         15,
	colFemale:       15,
}

// PDFOptions control the report banner.
type PDFOptions struct {
	Title       string
	GeneratedAt time.Time
}

// WritePDF renders activities as a landscape A4 table. The banner with the
// title and generation time is drawn on every page and the footer carries
// "Page n of N".
func WritePDF(w io.Writer, acts []activity.Activity, opts PDFOptions) error {
	if opts.Title == "" {
		opts.Title = "Activities Report"
	}
	if opts.GeneratedAt.IsZero() {
		opts.GeneratedAt = time.Now()
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetCreationDate(opts.GeneratedAt)
	pdf.SetTitle(opts.Title, true)
	pdf.SetMargins(pageMargin, tableTop, pageMargin)
	pdf.SetAutoPageBreak(false, bottomMargin)
	pdf.AliasNbPages("")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, pageH := pdf.GetPageSize()
	widths := columnWidths(pageW - 2*pageMargin)
	generated := "Generated on: " + opts.GeneratedAt.Format("1/2/2006, 3:04:05 PM")

	pdf.SetHeaderFunc(func() {
		pdf.SetFillColor(bannerColor[0], bannerColor[1], bannerColor[2])
		pdf.Rect(0, 0, pageW, bannerHeight, "F")
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Helvetica", "B", 24)
		pdf.Text(14, 25, tr(opts.Title))
		pdf.SetFont("Helvetica", "", 10)
		pdf.Text(pageW-14-pdf.GetStringWidth(generated), 25, generated)
		pdf.SetXY(pageMargin, tableTop)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	drawTableHeader(pdf, widths)
	bodyTop := pdf.GetY()
	perPage := linesFitting(pageH - bottomMargin - bodyTop)

	pdf.SetDrawColor(gridColor[0], gridColor[1], gridColor[2])
	pdf.SetLineWidth(0.1)
	for i, a := range acts {
		cells := Strings(a)
		pdf.SetFont("Helvetica", "", 7)
		wrapped := make([][]string, len(cells))
		lines := 1
		for j, c := range cells {
			wrapped[j] = pdf.SplitText(tr(c), widths[j]-2*cellPadding)
			lines = max(lines, len(wrapped[j]))
		}

		// Rows taller than a page continue on the next one.
		offset := 0
		for k, n := range rowSlices(lines, linesFitting(pageH-bottomMargin-pdf.GetY()), perPage) {
			if k > 0 {
				pdf.AddPage()
				drawTableHeader(pdf, widths)
			}
			if n == 0 {
				continue
			}

			fill := i%2 == 1
			if fill {
				pdf.SetFillColor(stripeColor[0], stripeColor[1], stripeColor[2])
			} else {
				pdf.SetFillColor(255, 255, 255)
			}
			pdf.SetTextColor(0, 0, 0)
			pdf.SetFont("Helvetica", "", 7)
			drawRow(pdf, widths, sliceLines(wrapped, offset, offset+n), float64(n)*lineHeight+2*cellPadding, "L")
			offset += n
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}
	return nil
}

func drawTableHeader(pdf *fpdf.Fpdf, widths []float64) {
	pdf.SetFont("Helvetica", "B", 8)
	lines := 1
	for j, h := range Headers {
		lines = max(lines, len(pdf.SplitText(h, widths[j]-2*cellPadding)))
	}
	pdf.SetFillColor(bannerColor[0], bannerColor[1], bannerColor[2])
	pdf.SetTextColor(255, 255, 255)
	pdf.SetDrawColor(gridColor[0], gridColor[1], gridColor[2])
	pdf.SetLineWidth(0.1)
	drawRow(pdf, widths, Headers, float64(lines)*lineHeight+2*cellPadding, "C")
}

// drawRow draws one table row of height h starting at the current position
// and leaves the cursor at the start of the next row.
func drawRow(pdf *fpdf.Fpdf, widths []float64, cells []string, h float64, align string) {
	x, y := pdf.GetXY()
	for j, c := range cells {
		pdf.Rect(x, y, widths[j], h, "FD")
		pdf.SetXY(x+cellPadding, y+cellPadding)
		pdf.MultiCell(widths[j]-2*cellPadding, lineHeight, c, "", align, false)
		x += widths[j]
	}
	pdf.SetXY(pageMargin, y+h)
}

// linesFitting reports how many body lines fit in a row of height h.
func linesFitting(h float64) int {
	return max(int((h-2*cellPadding)/lineHeight), 0)
}

// rowSlices splits a row of total lines into the line counts drawn on
// successive pages. avail lines are left on the current page and perPage fit
// on a fresh one. A leading zero means the row starts on a new page.
func rowSlices(total, avail, perPage int) []int {
	perPage = max(perPage, 1)
	if total <= avail {
		return []int{total}
	}

	var out []int
	if total > perPage && avail > 0 {
		out = append(out, avail)
		total -= avail
	} else {
		out = append(out, 0)
	}
	for total > 0 {
		n := min(total, perPage)
		out = append(out, n)
		total -= n
	}
	return out
}

func sliceLines(wrapped [][]string, from, to int) []string {
	cells := make([]string, len(wrapped))
	for j, lines := range wrapped {
		lo, hi := min(from, len(lines)), min(to, len(lines))
		cells[j] = strings.Join(lines[lo:hi], "\n")
	}
	return cells
}

func columnWidths(total float64) []float64 {
	fixed := 0.0
	for _, w := range fixedWidths {
		fixed += w
	}
	flexible := (total - fixed) / float64(len(Headers)-len(fixedWidths))

	widths := make([]float64, len(Headers))
	for i := range widths {
		if w, ok := fixedWidths[i]; ok {
			widths[i] = w
			continue
		}
		widths[i] = flexible
	}
	return widths
}
