package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mariaherliana/fusionpdf/client"
	"github.com/mariaherliana/fusionpdf/config"
	"github.com/mariaherliana/fusionpdf/dto"
	"github.com/mariaherliana/fusionpdf/handler"
	"github.com/mariaherliana/fusionpdf/service"
)

func main() {
	// Tesseract v5 resolves its language packs through this variable
	cfg := config.LoadConfig()
	os.Setenv("TESSDATA_PREFIX", cfg.TesseractDataPath)
	log.Println("TESSDATA_PREFIX set to:", os.Getenv("TESSDATA_PREFIX"))

	// OCR engines: Tesseract always, PaddleOCR sidecar when configured
	tesseractClient := client.NewTesseractClient(cfg.TesseractDataPath, cfg.OCRLanguage)
	defer tesseractClient.Close()

	var paddleClient service.OCRClient
	if cfg.PaddleAPIURL != "" {
		paddleClient = client.NewPaddleClient(cfg.PaddleAPIURL)
	}

	// Extraction and orchestration
	pdfProcessor := service.NewPDFProcessor()
	extractionService := service.NewExtractionService(
		pdfProcessor,
		tesseractClient,
		paddleClient,
		time.Duration(cfg.OCRTimeoutSeconds)*time.Second,
	)
	fusionService := service.NewFusionService(extractionService, pdfProcessor, cfg.WorkerCount)

	// Per-request defaults come from config; every knob stays overridable
	// per call
	defaults := dto.DefaultCompareOptions()
	defaults.AbsTol = cfg.AbsTolerance
	defaults.RelTol = cfg.RelTolerance
	defaults.WindowLines = cfg.WindowLines
	defaults.MinTextChars = cfg.MinTextChars

	fusionHandler := handler.NewFusionHandler(fusionService, defaults)

	// Setup Gin router
	router := gin.Default()
	router.MaxMultipartMemory = cfg.MaxFileSize

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "FusionPDF Comparison",
		})
	})

	// API routes
	api := router.Group("/api/v1")
	{
		api.POST("/compare", fusionHandler.ComparePair)
		api.POST("/merge", fusionHandler.MergePair)
		api.POST("/compare/bulk", fusionHandler.CompareBulk)
		api.POST("/merge/bulk", fusionHandler.MergeBulk)
	}

	// Start server
	log.Printf("Starting FusionPDF Comparison Service on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
