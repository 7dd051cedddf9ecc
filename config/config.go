package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	ServerPort          string
	LogMode             string
	TesseractDataPath   string
	OCRLanguages        string
	MaxFileSize         int64
	CollateralWindow    int
	SchedulePreviewRows int
	ReportRows          int
	ChartFontPath       string
	ChartWidth          int
	ChartHeight         int
}

func LoadConfig() *Config {
	return &Config{
		ServerPort:          getEnv("SERVER_PORT", "8080"),
		LogMode:             getEnv("LOG_MODE", "dev"),
		TesseractDataPath:   getEnv("TESSDATA_PREFIX", "/usr/share/tesseract-ocr/5/tessdata/"),
		OCRLanguages:        getEnv("OCR_LANGUAGES", "vie+eng"),
		MaxFileSize:         getEnvAsInt64("MAX_FILE_SIZE", 10*1024*1024), // 10 MB
		CollateralWindow:    getEnvAsInt("COLLATERAL_WINDOW", 6),
		SchedulePreviewRows: getEnvAsInt("SCHEDULE_PREVIEW_ROWS", 24),
		ReportRows:          getEnvAsInt("REPORT_ROWS", 10),
		ChartFontPath:       getEnv("CHART_FONT", ""),
		ChartWidth:          getEnvAsInt("CHART_WIDTH", 900),
		ChartHeight:         getEnvAsInt("CHART_HEIGHT", 320),
	}
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}
	if c.MaxFileSize <= 0 {
		return fmt.Errorf("MAX_FILE_SIZE must be positive, got %d", c.MaxFileSize)
	}
	if c.CollateralWindow <= 0 {
		return fmt.Errorf("COLLATERAL_WINDOW must be positive, got %d", c.CollateralWindow)
	}
	if c.SchedulePreviewRows < 0 || c.ReportRows < 0 {
		return fmt.Errorf("SCHEDULE_PREVIEW_ROWS and REPORT_ROWS must not be negative")
	}
	if c.ChartWidth < 200 || c.ChartHeight < 100 {
		return fmt.Errorf("chart size %dx%d is too small", c.ChartWidth, c.ChartHeight)
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}
