package dto

import "errors"

// Custom errors
var (
	ErrUnsupportedDocument = errors.New("unsupported document type")
	ErrNoTextExtracted     = errors.New("no text could be extracted from the document")
	ErrFileTooLarge        = errors.New("file exceeds maximum upload size")
	ErrNoQRCode            = errors.New("no citizen id qr code found")
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// DocumentQuality describes how the text of an uploaded document was obtained.
type DocumentQuality struct {
	Source        string   `json:"source"` // "docx", "pdf_text", "pdf_ocr", "image_ocr", "text"
	OcrConfidence float64  `json:"ocr_confidence"`
	Issues        []string `json:"issues"`
}

// ApplicationResponse is returned by every endpoint that reads or changes
// the session's application.
type ApplicationResponse struct {
	Application     LoanApplication      `json:"application"`
	Summary         Summary              `json:"summary"`
	SchedulePreview []AmortizationRow    `json:"schedule_preview"`
	Quality         *DocumentQuality     `json:"quality,omitempty"`
	IDCard          *CCCDExtractResponse `json:"id_card,omitempty"`
	ProcessedAt     string               `json:"processed_at"`
}

// ScheduleResponse returns schedule rows with the summary.
type ScheduleResponse struct {
	Rows      []AmortizationRow `json:"rows"`
	TotalRows int               `json:"total_rows"`
	Summary   Summary           `json:"summary"`
}
