package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Aashish23092/loan-appraisal/dto"
	"github.com/Aashish23092/loan-appraisal/logger"
	"github.com/Aashish23092/loan-appraisal/metrics"
	"github.com/Aashish23092/loan-appraisal/service"
)

const (
	defaultScheduleLimit = 24

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

	xlsxFilename = "ke_hoach_tra_no.xlsx"
	docxFilename = "bao_cao_thamdinh.docx"
)

// AppraisalHandler serves the appraisal session over HTTP.
type AppraisalHandler struct {
	appraisalService *service.AppraisalService
	exportService    *service.ExportService
	chartService     *service.ChartService
	metrics          *metrics.Metrics
	log              *logger.Logger
	maxFileSize      int64
}

func NewAppraisalHandler(
	appraisalService *service.AppraisalService,
	exportService *service.ExportService,
	chartService *service.ChartService,
	m *metrics.Metrics,
	log *logger.Logger,
	maxFileSize int64,
) *AppraisalHandler {
	return &AppraisalHandler{
		appraisalService: appraisalService,
		exportService:    exportService,
		chartService:     chartService,
		metrics:          m,
		log:              log.With("handler", "AppraisalHandler"),
		maxFileSize:      maxFileSize,
	}
}

// Register mounts the appraisal routes on rg.
func (h *AppraisalHandler) Register(rg *gin.RouterGroup) {
	appraisal := rg.Group("/appraisal")
	{
		appraisal.POST("/upload", h.Upload)
		appraisal.POST("/extract", h.ExtractText)
		appraisal.GET("", h.Get)
		appraisal.PUT("", h.Update)
		appraisal.POST("/reset", h.Reset)
		appraisal.GET("/schedule", h.Schedule)
		appraisal.GET("/export/xlsx", h.ExportXLSX)
		appraisal.GET("/export/docx", h.ExportDOCX)
		appraisal.GET("/chart.png", h.Chart)
	}
}

// Upload handles POST /appraisal/upload
func (h *AppraisalHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "File is required", err)
		return
	}

	req := &dto.UploadRequest{
		File:     file,
		Password: c.PostForm("password"),
	}
	if card, err := c.FormFile("id_card"); err == nil {
		req.IDCard = card
	} else if !errors.Is(err, http.ErrMissingFile) {
		h.sendError(c, http.StatusBadRequest, "Failed to read id card", err)
		return
	}

	if err := req.Validate(h.maxFileSize); err != nil {
		h.sendError(c, statusFor(err, http.StatusBadRequest), "Invalid upload", err)
		return
	}

	h.log.Info("upload received", "file", file.Filename, "size", file.Size, "id_card", req.IDCard != nil)

	resp, err := h.appraisalService.ExtractFromUpload(c.Request.Context(), req)
	if err != nil {
		h.sendError(c, statusFor(err, http.StatusInternalServerError), "Failed to extract application", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ExtractText handles POST /appraisal/extract
func (h *AppraisalHandler) ExtractText(c *gin.Context) {
	var req dto.ExtractTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	c.JSON(http.StatusOK, h.appraisalService.ExtractFromText(req.Text))
}

// Get handles GET /appraisal
func (h *AppraisalHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.appraisalService.Current())
}

// Update handles PUT /appraisal
func (h *AppraisalHandler) Update(c *gin.Context) {
	var req dto.UpdateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.sendError(c, http.StatusBadRequest, "Invalid application", err)
		return
	}
	c.JSON(http.StatusOK, h.appraisalService.Update(req.ToApplication()))
}

// Reset handles POST /appraisal/reset
func (h *AppraisalHandler) Reset(c *gin.Context) {
	c.JSON(http.StatusOK, h.appraisalService.Reset())
}

// Schedule handles GET /appraisal/schedule?limit=N. limit=0 returns every row.
func (h *AppraisalHandler) Schedule(c *gin.Context) {
	limit := defaultScheduleLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.sendError(c, http.StatusBadRequest, "limit must be a non-negative integer", nil)
			return
		}
		limit = n
	}
	c.JSON(http.StatusOK, h.appraisalService.Schedule(limit))
}

// ExportXLSX handles GET /appraisal/export/xlsx
func (h *AppraisalHandler) ExportXLSX(c *gin.Context) {
	app, summary, schedule := h.appraisalService.Session().Snapshot()
	data, err := h.exportService.ScheduleXLSX(app, schedule, summary)
	if err != nil {
		h.sendError(c, http.StatusInternalServerError, "Failed to build workbook", err)
		return
	}
	h.metrics.IncrementExports("xlsx")
	h.sendAttachment(c, xlsxFilename, xlsxContentType, data)
}

// ExportDOCX handles GET /appraisal/export/docx
func (h *AppraisalHandler) ExportDOCX(c *gin.Context) {
	app, summary, schedule := h.appraisalService.Session().Snapshot()
	data, err := h.exportService.ReportDOCX(app, schedule, summary)
	if err != nil {
		h.sendError(c, http.StatusInternalServerError, "Failed to build report", err)
		return
	}
	h.metrics.IncrementExports("docx")
	h.sendAttachment(c, docxFilename, docxContentType, data)
}

// Chart handles GET /appraisal/chart.png
func (h *AppraisalHandler) Chart(c *gin.Context) {
	_, _, schedule := h.appraisalService.Session().Snapshot()
	data, err := h.chartService.PaymentChartPNG(schedule)
	if err != nil {
		h.sendError(c, http.StatusInternalServerError, "Failed to render chart", err)
		return
	}
	h.metrics.IncrementExports("png")
	c.Data(http.StatusOK, "image/png", data)
}

func (h *AppraisalHandler) sendAttachment(c *gin.Context, filename, contentType string, data []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, data)
}

// sendError sends a structured error response
func (h *AppraisalHandler) sendError(c *gin.Context, statusCode int, message string, err error) {
	errorMsg := message
	if err != nil {
		errorMsg = err.Error()
		h.log.Warn("request failed",
			"path", c.FullPath(),
			"status", statusCode,
			"message", message,
			"error", err,
		)
	}

	c.JSON(statusCode, dto.ErrorResponse{
		Error:   errorCode(statusCode),
		Message: errorMsg,
		Code:    statusCode,
	})
}

// statusFor maps intake errors to HTTP statuses.
func statusFor(err error, fallback int) int {
	switch {
	case errors.Is(err, dto.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, dto.ErrUnsupportedDocument):
		return http.StatusBadRequest
	case errors.Is(err, dto.ErrNoTextExtracted):
		return http.StatusUnprocessableEntity
	default:
		return fallback
	}
}

func errorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "INVALID_REQUEST"
	case http.StatusRequestEntityTooLarge:
		return "FILE_TOO_LARGE"
	case http.StatusUnprocessableEntity:
		return "EXTRACTION_FAILED"
	default:
		return "INTERNAL_ERROR"
	}
}
