package service

import (
	"bytes"
	"fmt"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/Aashish23092/loan-appraisal/dto"
	"github.com/Aashish23092/loan-appraisal/logger"
)

const (
	chartMargin   = 48.0
	chartFontSize = 12.0
	minChartSize  = 120
)

type chartSeries struct {
	label   string
	r, g, b float64
	value   func(dto.AmortizationRow) float64
}

var paymentSeries = []chartSeries{
	{"Payment", 0.12, 0.47, 0.71, func(r dto.AmortizationRow) float64 { return r.Payment }},
	{"Interest", 0.84, 0.15, 0.16, func(r dto.AmortizationRow) float64 { return r.Interest }},
	{"Principal", 0.17, 0.63, 0.17, func(r dto.AmortizationRow) float64 { return r.Principal }},
}

// ChartService renders the schedule as a line chart.
type ChartService struct {
	width    int
	height   int
	fontPath string
	log      *logger.Logger
}

// NewChartService creates a ChartService. An empty fontPath uses the built-in
// bitmap face, which only covers ASCII labels.
func NewChartService(width, height int, fontPath string, log *logger.Logger) *ChartService {
	if width < minChartSize {
		width = minChartSize
	}
	if height < minChartSize {
		height = minChartSize
	}
	return &ChartService{
		width:    width,
		height:   height,
		fontPath: fontPath,
		log:      log.With("service", "ChartService"),
	}
}

// PaymentChartPNG draws payment, interest and principal per period as a PNG.
// An empty schedule yields a blank chart with a caption.
func (s *ChartService) PaymentChartPNG(schedule []dto.AmortizationRow) ([]byte, error) {
	dc := gg.NewContext(s.width, s.height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	s.setFont(dc)

	w := float64(s.width)
	h := float64(s.height)
	left, right := chartMargin, w-chartMargin/2
	top, bottom := chartMargin/2, h-chartMargin

	dc.SetRGB(0.2, 0.2, 0.2)
	dc.SetLineWidth(1)
	dc.DrawLine(left, bottom, right, bottom)
	dc.DrawLine(left, top, left, bottom)
	dc.Stroke()

	if len(schedule) == 0 {
		dc.DrawStringAnchored("No schedule data", w/2, h/2, 0.5, 0.5)
		return encodeChart(dc)
	}

	maxValue := 0.0
	for _, row := range schedule {
		for _, series := range paymentSeries {
			maxValue = math.Max(maxValue, series.value(row))
		}
	}
	if maxValue <= 0 {
		maxValue = 1
	}

	xAt := func(i int) float64 {
		if len(schedule) == 1 {
			return (left + right) / 2
		}
		return left + float64(i)*(right-left)/float64(len(schedule)-1)
	}
	yAt := func(v float64) float64 {
		return bottom - v/maxValue*(bottom-top)
	}

	dc.SetLineWidth(2)
	for _, series := range paymentSeries {
		dc.SetRGB(series.r, series.g, series.b)
		for i, row := range schedule {
			x, y := xAt(i), yAt(series.value(row))
			if i == 0 {
				dc.MoveTo(x, y)
			} else {
				dc.LineTo(x, y)
			}
		}
		if len(schedule) == 1 {
			dc.DrawCircle(xAt(0), yAt(series.value(schedule[0])), 3)
			dc.Fill()
			continue
		}
		dc.Stroke()
	}

	dc.SetRGB(0.2, 0.2, 0.2)
	dc.DrawStringAnchored("1", left, bottom+6, 0.5, 1)
	dc.DrawStringAnchored(fmt.Sprintf("%d", schedule[len(schedule)-1].Period), right, bottom+6, 0.5, 1)
	dc.DrawStringAnchored("Month", (left+right)/2, h-chartMargin/4, 0.5, 0.5)
	dc.DrawStringAnchored(compactAmount(maxValue), left-4, top, 1, 0.5)

	legendX := left + 8
	for i, series := range paymentSeries {
		y := top + 8 + float64(i)*16
		dc.SetRGB(series.r, series.g, series.b)
		dc.DrawRectangle(legendX, y-4, 10, 8)
		dc.Fill()
		dc.SetRGB(0.2, 0.2, 0.2)
		dc.DrawStringAnchored(series.label, legendX+16, y, 0, 0.5)
	}

	return encodeChart(dc)
}

func (s *ChartService) setFont(dc *gg.Context) {
	if s.fontPath != "" {
		err := dc.LoadFontFace(s.fontPath, chartFontSize)
		if err == nil {
			return
		}
		s.log.Warn("chart font not loaded, using built-in face", "path", s.fontPath, "error", err)
	}
	dc.SetFontFace(basicfont.Face7x13)
}

func encodeChart(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("chart encode: %w", err)
	}
	return buf.Bytes(), nil
}

// compactAmount labels the y axis in millions.
func compactAmount(v float64) string {
	if v >= 1e6 {
		return fmt.Sprintf("%.1fM", v/1e6)
	}
	return fmt.Sprintf("%.0f", v)
}
