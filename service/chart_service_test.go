package service

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aashish23092/loan-appraisal/dto"
	"github.com/Aashish23092/loan-appraisal/logger"
)

func TestPaymentChartPNG(t *testing.T) {
	schedule, _ := Recalc(testApplication())
	chart := NewChartService(640, 240, "", logger.NewNop())

	data, err := chart.PaymentChartPNG(schedule)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 640, img.Bounds().Dx())
	assert.Equal(t, 240, img.Bounds().Dy())
}

func TestPaymentChartPNGEdgeCases(t *testing.T) {
	chart := NewChartService(10, 10, "/nonexistent/font.ttf", logger.NewNop())

	for name, schedule := range map[string][]dto.AmortizationRow{
		"empty":  {},
		"single": BuildSchedule(10_000_000, 12, 1),
	} {
		t.Run(name, func(t *testing.T) {
			data, err := chart.PaymentChartPNG(schedule)
			require.NoError(t, err)

			img, err := png.Decode(bytes.NewReader(data))
			require.NoError(t, err)
			assert.Equal(t, minChartSize, img.Bounds().Dx())
		})
	}
}
