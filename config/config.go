package config

import (
	"os"
	"strconv"
)

type Config struct {
	ServerPort        string
	TesseractDataPath string
	OCRLanguage       string
	PaddleAPIURL      string
	OCRTimeoutSeconds int
	MinTextChars      int
	WindowLines       int
	AbsTolerance      float64
	RelTolerance      float64
	WorkerCount       int
	MaxFileSize       int64
}

func LoadConfig() *Config {
	return &Config{
		ServerPort:        getenv("SERVER_PORT", "8080"),
		TesseractDataPath: getenv("TESSDATA_PREFIX", "/usr/share/tesseract-ocr/5/tessdata/"),
		OCRLanguage:       getenv("OCR_LANGUAGE", "eng"),
		PaddleAPIURL:      os.Getenv("PADDLEOCR_API_URL"),
		OCRTimeoutSeconds: getenvInt("OCR_TIMEOUT_SECONDS", 60),
		MinTextChars:      getenvInt("MIN_TEXT_CHARS", 80),
		WindowLines:       getenvInt("SCAN_WINDOW_LINES", 2),
		AbsTolerance:      getenvFloat("ABS_TOLERANCE", 1.0),
		RelTolerance:      getenvFloat("REL_TOLERANCE", 0.005),
		WorkerCount:       getenvInt("WORKER_COUNT", 4),
		MaxFileSize:       32 * 1024 * 1024, // 32 MB
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getenvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
