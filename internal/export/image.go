package export

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"offerplan/internal/core"
)

const (
	imgCellHeight = 18
	imgPadding    = 12
	imgCharWidth  = 7 // basicfont.Face7x13 advance
)

var imgColumns = []string{"Month", "Projected", "Target", "Gap", "Achievement", "Offers"}

// renderImage draws the month-by-month projection table as a PNG so the
// rollup can be dropped into chat threads and slide decks.
func renderImage(plan core.Plan) (Result, error) {
	summary := core.SummarizePlan(plan)

	rows := make([][]string, 0, len(plan)+2)
	rows = append(rows, imgColumns)
	for i, m := range plan {
		ms := summary.Months[i]
		rows = append(rows, []string{
			m.Name,
			imgCurrency(ms.TotalProjected),
			imgCurrency(ms.TargetRevenue),
			imgCurrency(ms.Gap),
			fmt.Sprintf("%d%%", ms.AchievementPercent),
			fmt.Sprintf("%d", ms.ActiveOffers),
		})
	}
	rows = append(rows, []string{
		"Total",
		imgCurrency(summary.TotalProjected),
		imgCurrency(summary.TargetRevenue),
		imgCurrency(summary.Gap),
		fmt.Sprintf("%d%%", summary.AchievementPercent),
		"",
	})

	widths := columnWidths(rows)
	imgWidth := 2 * imgPadding
	for _, w := range widths {
		imgWidth += w*imgCharWidth + imgPadding
	}
	imgHeight := 2*imgPadding + len(rows)*imgCellHeight

	img := image.NewRGBA(image.Rect(0, 0, imgWidth, imgHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	dark := color.RGBA{34, 34, 34, 255}
	for rowIdx, row := range rows {
		y := imgPadding + (rowIdx+1)*imgCellHeight - 5
		x := imgPadding
		for colIdx, cell := range row {
			drawText(img, x, y, cell, dark)
			x += widths[colIdx]*imgCharWidth + imgPadding
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return Result{}, fmt.Errorf("encode png export: %w", err)
	}
	return Result{
		ContentType: "image/png",
		Filename:    exportFilename(plan, "png"),
		Data:        buf.Bytes(),
	}, nil
}

// imgCurrency renders an amount with an ASCII "Rs" prefix.
// basicfont.Face7x13 has no glyph for the rupee sign, which would
// otherwise draw as a replacement box.
func imgCurrency(amount float64) string {
	return strings.Replace(core.FormatIndianCurrency(amount), "₹", "Rs ", 1)
}

func columnWidths(rows [][]string) []int {
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if n := len([]rune(cell)); n > widths[i] {
				widths[i] = n
			}
		}
	}
	return widths
}

func drawText(img *image.RGBA, x, y int, text string, c color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
