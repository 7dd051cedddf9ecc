package service

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Aashish23092/loan-appraisal/dto"
	"github.com/Aashish23092/loan-appraisal/logger"
	"github.com/Aashish23092/loan-appraisal/metrics"
	"github.com/Aashish23092/loan-appraisal/utils"
)

// minTextLength is the shortest PDF text layer accepted before the PDF is
// treated as a scan and sent to OCR.
const minTextLength = 20

// OCRClient recognizes text in an image file.
type OCRClient interface {
	ExtractTextAndQuality(filePath string) (string, float64, error)
	ExtractTextAndQualityFromBytes(data []byte, ext string) (string, float64, error)
}

type AppraisalService struct {
	ocrClient    OCRClient
	pdfProcessor PDFProcessor
	cccdService  *CCCDService
	parser       *utils.LoanParser
	session      *AppraisalSession
	metrics      *metrics.Metrics
	log          *logger.Logger
	previewRows  int
}

func NewAppraisalService(
	ocrClient OCRClient,
	pdfProcessor PDFProcessor,
	cccdService *CCCDService,
	parser *utils.LoanParser,
	session *AppraisalSession,
	m *metrics.Metrics,
	log *logger.Logger,
	previewRows int,
) *AppraisalService {
	return &AppraisalService{
		ocrClient:    ocrClient,
		pdfProcessor: pdfProcessor,
		cccdService:  cccdService,
		parser:       parser,
		session:      session,
		metrics:      m,
		log:          log.With("service", "AppraisalService"),
		previewRows:  previewRows,
	}
}

// Session exposes the session for the export collaborators.
func (s *AppraisalService) Session() *AppraisalSession {
	return s.session
}

// ExtractFromUpload turns an uploaded application document (and an optional
// ID card image) into the session's application.
func (s *AppraisalService) ExtractFromUpload(ctx context.Context, req *dto.UploadRequest) (*dto.ApplicationResponse, error) {
	data, err := readUpload(req.File)
	if err != nil {
		return nil, err
	}

	text, quality, err := s.ProcessDocument(ctx, req.File.Filename, data, req.Password)
	if err != nil {
		return nil, err
	}

	app := s.parser.Parse(text)

	var card *dto.CCCDExtractResponse
	if req.IDCard != nil {
		card, err = s.extractIDCard(req.IDCard)
		if err != nil {
			s.log.Warn("id card not read", "file", req.IDCard.Filename, "error", err)
			quality.Issues = append(quality.Issues, "id_card_qr_not_found")
		} else {
			card.ApplyTo(&app.Identification)
		}
	}

	s.metrics.IncrementDocumentsExtracted(quality.Source)
	s.log.Info("application extracted",
		"file", req.File.Filename,
		"source", quality.Source,
		"chars", utf8.RuneCountInString(text),
		"collateral", len(app.Collateral),
	)

	resp := s.replace(app)
	resp.Quality = &quality
	resp.IDCard = card
	return resp, nil
}

// ExtractFromText runs the extractor on raw text and replaces the session's application.
func (s *AppraisalService) ExtractFromText(text string) *dto.ApplicationResponse {
	app := s.parser.Parse(text)
	s.metrics.IncrementDocumentsExtracted("text")
	return s.replace(app)
}

// Update replaces the session's application with an edited one.
func (s *AppraisalService) Update(app dto.LoanApplication) *dto.ApplicationResponse {
	return s.replace(app)
}

// Reset restores the default template.
func (s *AppraisalService) Reset() *dto.ApplicationResponse {
	s.session.Reset()
	s.metrics.IncrementSchedulesComputed()
	return s.Current()
}

// Current returns the session's application and summary.
func (s *AppraisalService) Current() *dto.ApplicationResponse {
	app, summary, schedule := s.session.Snapshot()
	return s.buildResponse(app, summary, schedule)
}

// Schedule returns the first limit rows of the schedule; limit <= 0 returns all rows.
func (s *AppraisalService) Schedule(limit int) dto.ScheduleResponse {
	_, summary, schedule := s.session.Snapshot()
	return dto.ScheduleResponse{
		Rows:      headRows(schedule, limit),
		TotalRows: len(schedule),
		Summary:   summary,
	}
}

// ProcessDocument returns the plain text of an uploaded document.
func (s *AppraisalService) ProcessDocument(ctx context.Context, filename string, data []byte, password string) (string, dto.DocumentQuality, error) {
	quality := dto.DocumentQuality{Issues: []string{}}
	ext := strings.ToLower(filepath.Ext(filename))

	var text string
	var err error

	switch ext {
	case ".docx":
		quality.Source = "docx"
		quality.OcrConfidence = 100.0
		text, err = ExtractDocxText(data)
		if err != nil {
			return "", quality, fmt.Errorf("failed to read docx %s: %w", filename, err)
		}

	case ".txt":
		quality.Source = "text"
		quality.OcrConfidence = 100.0
		if !utf8.Valid(data) {
			quality.Issues = append(quality.Issues, "invalid_utf8")
		}
		text = strings.ToValidUTF8(string(data), "")

	case ".pdf":
		text, err = s.pdfProcessor.ExtractText(data, password)
		if err != nil {
			s.log.Warn("pdf text extraction failed", "file", filename, "error", err)
			quality.Issues = append(quality.Issues, "pdf_text_extraction_failed")
		}

		if len(strings.TrimSpace(text)) >= minTextLength {
			quality.Source = "pdf_text"
			quality.OcrConfidence = 100.0
			break
		}

		s.log.Info("pdf has minimal text, attempting image-based OCR", "file", filename)
		quality.Source = "pdf_ocr"
		text, quality.OcrConfidence, err = s.ocrPDFPages(ctx, data, password)
		if err != nil {
			return "", quality, fmt.Errorf("failed to ocr pdf %s: %w", filename, err)
		}

	case ".png", ".jpg", ".jpeg":
		quality.Source = "image_ocr"
		text, quality.OcrConfidence, err = s.ocrClient.ExtractTextAndQualityFromBytes(data, ext)
		if err != nil {
			return "", quality, fmt.Errorf("image OCR failed: %w", err)
		}

	default:
		return "", quality, fmt.Errorf("%w: %s", dto.ErrUnsupportedDocument, ext)
	}

	if quality.OcrConfidence < 60 {
		quality.Issues = append(quality.Issues, "low_quality_document")
	}
	if strings.TrimSpace(text) == "" {
		return "", quality, dto.ErrNoTextExtracted
	}
	return text, quality, nil
}

func (s *AppraisalService) ocrPDFPages(ctx context.Context, data []byte, password string) (string, float64, error) {
	images, err := s.pdfProcessor.ExtractImages(data, password)
	if err != nil {
		return "", 0, err
	}
	if len(images) == 0 {
		return "", 0, dto.ErrNoTextExtracted
	}

	var combined strings.Builder
	var totalConfidence float64
	var pages int

	for idx, img := range images {
		if err := ctx.Err(); err != nil {
			return "", 0, err
		}

		buf := new(bytes.Buffer)
		if err := png.Encode(buf, img); err != nil {
			s.log.Warn("failed to encode page", "page", idx+1, "error", err)
			continue
		}

		pageText, conf, err := s.ocrClient.ExtractTextAndQualityFromBytes(buf.Bytes(), ".png")
		if err != nil {
			s.log.Warn("page OCR failed", "page", idx+1, "error", err)
			continue
		}

		combined.WriteString(pageText)
		combined.WriteString("\n")
		totalConfidence += conf
		pages++
	}

	if pages == 0 {
		return "", 0, dto.ErrNoTextExtracted
	}
	return combined.String(), totalConfidence / float64(pages), nil
}

func (s *AppraisalService) extractIDCard(file *multipart.FileHeader) (*dto.CCCDExtractResponse, error) {
	data, err := readUpload(file)
	if err != nil {
		return nil, err
	}
	return s.cccdService.ExtractFromImageBytes(data)
}

func (s *AppraisalService) replace(app dto.LoanApplication) *dto.ApplicationResponse {
	s.session.Replace(app)
	s.metrics.IncrementSchedulesComputed()
	return s.Current()
}

func (s *AppraisalService) buildResponse(app dto.LoanApplication, summary dto.Summary, schedule []dto.AmortizationRow) *dto.ApplicationResponse {
	return &dto.ApplicationResponse{
		Application:     app,
		Summary:         summary,
		SchedulePreview: headRows(schedule, s.previewRows),
		ProcessedAt:     time.Now().Format(time.RFC3339),
	}
}

func headRows(rows []dto.AmortizationRow, limit int) []dto.AmortizationRow {
	if limit <= 0 || limit >= len(rows) {
		return rows
	}
	return rows[:limit]
}

func readUpload(file *multipart.FileHeader) ([]byte, error) {
	f, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", file.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", file.Filename, err)
	}
	return data, nil
}
