package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"SERVER_PORT", "OCR_LANGUAGES", "MAX_FILE_SIZE", "COLLATERAL_WINDOW",
		"SCHEDULE_PREVIEW_ROWS", "REPORT_ROWS", "CHART_WIDTH", "CHART_HEIGHT",
	} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "vie+eng", cfg.OCRLanguages)
	assert.Equal(t, int64(10*1024*1024), cfg.MaxFileSize)
	assert.Equal(t, 6, cfg.CollateralWindow)
	assert.Equal(t, 24, cfg.SchedulePreviewRows)
	assert.Equal(t, 10, cfg.ReportRows)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("MAX_FILE_SIZE", "2048")
	t.Setenv("COLLATERAL_WINDOW", "5")
	t.Setenv("CHART_WIDTH", "not-a-number")

	cfg := LoadConfig()

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, int64(2048), cfg.MaxFileSize)
	assert.Equal(t, 5, cfg.CollateralWindow)
	assert.Equal(t, 900, cfg.ChartWidth)
}

func TestValidate(t *testing.T) {
	t.Setenv("COLLATERAL_WINDOW", "0")
	assert.Error(t, LoadConfig().Validate())

	cfg := LoadConfig()
	cfg.CollateralWindow = 6
	cfg.MaxFileSize = 0
	assert.Error(t, cfg.Validate())

	cfg.MaxFileSize = 1
	cfg.ChartHeight = 50
	assert.Error(t, cfg.Validate())
}
