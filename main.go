package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Aashish23092/loan-appraisal/client"
	"github.com/Aashish23092/loan-appraisal/config"
	"github.com/Aashish23092/loan-appraisal/handler"
	"github.com/Aashish23092/loan-appraisal/logger"
	"github.com/Aashish23092/loan-appraisal/metrics"
	"github.com/Aashish23092/loan-appraisal/service"
	"github.com/Aashish23092/loan-appraisal/utils"
)

func main() {
	// Initialize configuration
	cfg := config.LoadConfig()

	appLogger, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer appLogger.Sync()

	if err := cfg.Validate(); err != nil {
		appLogger.Fatal("invalid configuration", "error", err)
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	// Initialize Tesseract client
	tesseractClient := client.NewTesseractClient(cfg.TesseractDataPath, cfg.OCRLanguages, appLogger)
	defer tesseractClient.Close()

	// Initialize service layer
	pdfProcessor := service.NewPDFProcessor()
	cccdService := service.NewCCCDService(appLogger)
	parser := utils.NewLoanParser(utils.ParserOptions{CollateralWindow: cfg.CollateralWindow})
	session := service.NewAppraisalSession()

	appraisalService := service.NewAppraisalService(
		tesseractClient,
		pdfProcessor,
		cccdService,
		parser,
		session,
		m,
		appLogger,
		cfg.SchedulePreviewRows,
	)
	exportService := service.NewExportService(appLogger, cfg.ReportRows)
	chartService := service.NewChartService(cfg.ChartWidth, cfg.ChartHeight, cfg.ChartFontPath, appLogger)

	// Initialize handler layer
	appraisalHandler := handler.NewAppraisalHandler(appraisalService, exportService, chartService, m, appLogger, cfg.MaxFileSize)

	// Setup Gin router
	if cfg.LogMode == "prod" || cfg.LogMode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), handler.RequestLogger(appLogger))

	// Leave room for the id card next to the document
	router.MaxMultipartMemory = 2*cfg.MaxFileSize + 1<<20

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "Loan Appraisal",
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes
	api := router.Group("/api/v1")
	appraisalHandler.Register(api)

	// Start server
	appLogger.Info("starting loan appraisal service",
		"port", cfg.ServerPort,
		"ocr_languages", cfg.OCRLanguages,
		"collateral_window", cfg.CollateralWindow,
	)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		appLogger.Fatal("failed to start server", "error", err)
	}
}
