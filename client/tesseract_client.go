package client

import (
	"fmt"
	"os"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/Aashish23092/loan-appraisal/logger"
)

type TesseractClient struct {
	dataPath  string
	languages []string
	log       *logger.Logger
}

// NewTesseractClient creates a client for the given tessdata directory and
// "+"-separated language list, e.g. "vie+eng".
func NewTesseractClient(dataPath, languages string, log *logger.Logger) *TesseractClient {
	langs := strings.FieldsFunc(languages, func(r rune) bool { return r == '+' || r == ',' })
	if len(langs) == 0 {
		langs = []string{"vie", "eng"}
	}
	return &TesseractClient{
		dataPath:  dataPath,
		languages: langs,
		log:       log.With("client", "TesseractClient"),
	}
}

// ExtractTextAndQualityFromBytes writes the image to a temporary file and
// runs OCR on it.
func (tc *TesseractClient) ExtractTextAndQualityFromBytes(data []byte, ext string) (string, float64, error) {
	tempFile, err := os.CreateTemp("", "ocr-*"+ext)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tempFile.Name())

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return "", 0, fmt.Errorf("failed to write temp file: %w", err)
	}
	tempFile.Close()

	return tc.ExtractTextAndQuality(tempFile.Name())
}

// ExtractTextAndQuality returns the recognized text and the mean word confidence.
func (tc *TesseractClient) ExtractTextAndQuality(filePath string) (string, float64, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if tc.dataPath != "" {
		client.SetTessdataPrefix(tc.dataPath)
	}
	if err := client.SetLanguage(tc.languages...); err != nil {
		return "", 0, fmt.Errorf("failed to set language: %w", err)
	}

	if err := client.SetImage(filePath); err != nil {
		return "", 0, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", 0, fmt.Errorf("failed to extract text: %w", err)
	}

	// Get bounding boxes to calculate confidence
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		tc.log.Warn("bounding boxes unavailable", "file", filePath, "error", err)
		return text, 0, nil
	}

	var totalConf float64
	for _, box := range boxes {
		totalConf += box.Confidence
	}

	avgConf := 0.0
	if len(boxes) > 0 {
		avgConf = totalConf / float64(len(boxes))
	}

	return text, avgConf, nil
}

// Close performs cleanup
func (tc *TesseractClient) Close() {
	tc.log.Info("Tesseract client closed")
}
