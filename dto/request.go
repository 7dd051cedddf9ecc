package dto

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
)

// SupportedDocumentExtensions lists the upload formats the intake understands.
var SupportedDocumentExtensions = []string{".docx", ".pdf", ".txt", ".png", ".jpg", ".jpeg"}

// UploadRequest represents a multipart application upload.
type UploadRequest struct {
	File     *multipart.FileHeader
	IDCard   *multipart.FileHeader
	Password string
}

// Validate validates the upload request
func (r *UploadRequest) Validate(maxFileSize int64) error {
	if r.File == nil {
		return fmt.Errorf("file is required")
	}
	if !IsSupportedDocument(r.File.Filename) {
		return fmt.Errorf("%w: %s", ErrUnsupportedDocument, filepath.Ext(r.File.Filename))
	}
	if maxFileSize > 0 && r.File.Size > maxFileSize {
		return ErrFileTooLarge
	}
	if r.IDCard != nil {
		ext := strings.ToLower(filepath.Ext(r.IDCard.Filename))
		if ext != ".png" && ext != ".jpg" && ext != ".jpeg" {
			return fmt.Errorf("invalid id card type. Supported: PNG, JPG")
		}
	}
	return nil
}

// IsSupportedDocument reports whether filename has an extension the intake accepts.
func IsSupportedDocument(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, e := range SupportedDocumentExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ExtractTextRequest carries raw document text for extraction.
type ExtractTextRequest struct {
	Text string `json:"text" binding:"required"`
}

// FinanceTermsInput mirrors FinanceTerms but lets the rate be omitted.
type FinanceTermsInput struct {
	Purpose           string   `json:"purpose"`
	TotalNeed         int64    `json:"total_need" binding:"gte=0"`
	OwnCapital        int64    `json:"own_capital" binding:"gte=0"`
	LoanAmount        int64    `json:"loan_amount" binding:"gte=0"`
	AnnualRatePercent *float64 `json:"annual_rate_percent" binding:"omitempty,gte=0,lte=100"`
	TermMonths        int      `json:"term_months" binding:"gte=0,lte=1200"`
}

// UpdateApplicationRequest replaces the session's application.
type UpdateApplicationRequest struct {
	Identification Identification    `json:"identification"`
	Finance        FinanceTermsInput `json:"finance"`
	Collateral     []Collateral      `json:"collateral" binding:"dive"`
	Income         Income            `json:"income"`
}

// ToApplication resolves omitted values into a complete LoanApplication.
func (r *UpdateApplicationRequest) ToApplication() LoanApplication {
	rate := DefaultAnnualRatePercent
	if r.Finance.AnnualRatePercent != nil {
		rate = *r.Finance.AnnualRatePercent
	}

	collateral := append([]Collateral(nil), r.Collateral...)
	if len(collateral) == 0 {
		collateral = []Collateral{PlaceholderCollateral()}
	}

	return LoanApplication{
		Identification: r.Identification,
		Finance: FinanceTerms{
			Purpose:           r.Finance.Purpose,
			TotalNeed:         r.Finance.TotalNeed,
			OwnCapital:        r.Finance.OwnCapital,
			LoanAmount:        r.Finance.LoanAmount,
			AnnualRatePercent: rate,
			TermMonths:        r.Finance.TermMonths,
		},
		Collateral: collateral,
		Income:     r.Income,
	}
}
