package main

import (
	"fmt"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"korq/internal/store"
)

// ExportPNG renders the whole workspace to a PNG at one pixel per
// world unit: connections beneath cards, arrowheads at the target
// anchors, a small margin around the content bounds.
func (s *Session) ExportPNG(filename string) error {
	if len(s.cards) == 0 {
		return fmt.Errorf("nothing to export")
	}

	minX, minY := s.cards[0].X, s.cards[0].Y
	maxX := s.cards[0].X + s.cards[0].Width
	maxY := s.cards[0].Y + s.cards[0].Height
	for _, c := range s.cards[1:] {
		minX = math.Min(minX, c.X)
		minY = math.Min(minY, c.Y)
		maxX = math.Max(maxX, c.X+c.Width)
		maxY = math.Max(maxY, c.Y+c.Height)
	}

	const margin = 2 * gridUnit
	minX -= margin
	minY -= margin
	maxX += margin
	maxY += margin

	dc := gg.NewContext(int(maxX-minX), int(maxY-minY))
	dc.SetColor(color.White)
	dc.Clear()

	ttfFont, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return fmt.Errorf("parsing font: %w", err)
	}
	titleFace := truetype.NewFace(ttfFont, &truetype.Options{
		Size: 16, DPI: 72, Hinting: font.HintingFull,
	})
	bodyFace := truetype.NewFace(ttfFont, &truetype.Options{
		Size: 12, DPI: 72, Hinting: font.HintingFull,
	})

	dc.SetColor(color.Black)
	for _, conn := range s.conns {
		from := s.cardByID(conn.FromCard)
		to := s.cardByID(conn.ToCard)
		if from == nil || to == nil {
			continue
		}
		drawConnectionPNG(dc, cardRect(*from), cardRect(*to), minX, minY)
	}

	for _, c := range s.cards {
		drawCardPNG(dc, c, minX, minY, titleFace, bodyFace)
	}

	return dc.SavePNG(filename)
}

func drawConnectionPNG(dc *gg.Context, from, to Rect, minX, minY float64) {
	pa, pb := connectionAnchors(from, to)
	ax, ay := pa.X-minX, pa.Y-minY
	bx, by := pb.X-minX, pb.Y-minY

	dc.SetLineWidth(2)
	dc.DrawLine(ax, ay, bx, by)
	dc.Stroke()

	// Arrowhead at the target anchor.
	angle := math.Atan2(by-ay, bx-ax)
	const headLen = 12.0
	const headAngle = math.Pi / 7
	dc.DrawLine(bx, by,
		bx-headLen*math.Cos(angle-headAngle), by-headLen*math.Sin(angle-headAngle))
	dc.DrawLine(bx, by,
		bx-headLen*math.Cos(angle+headAngle), by-headLen*math.Sin(angle+headAngle))
	dc.Stroke()
}

func drawCardPNG(dc *gg.Context, c store.Card, minX, minY float64, titleFace, bodyFace font.Face) {
	x, y := c.X-minX, c.Y-minY

	dc.SetColor(color.White)
	dc.DrawRoundedRectangle(x, y, c.Width, c.Height, 6)
	dc.Fill()
	dc.SetColor(color.Black)
	dc.SetLineWidth(1.5)
	dc.DrawRoundedRectangle(x, y, c.Width, c.Height, 6)
	dc.Stroke()

	const pad = 10.0
	dc.SetFontFace(titleFace)
	dc.DrawStringAnchored(fitLine(c.Title, int(c.Width/9)), x+pad, y+pad+8, 0, 0.5)

	dc.SetFontFace(bodyFace)
	lineY := y + pad + 30
	for _, line := range splitLines(displayText(c.Content)) {
		if lineY > y+c.Height-pad {
			break
		}
		dc.DrawStringAnchored(fitLine(line, int(c.Width/7)), x+pad, lineY, 0, 0.5)
		lineY += 16
	}
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	return append(lines, s[start:])
}
