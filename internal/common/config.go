package common

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/joseph-ayodele/bl-generator/constants"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Log      LogConfig
	OCR      OCRConfig
	Render   RenderConfig
	Metadata MetadataConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	HTTPAddr          string
	MaxUploadBytes    int64
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
	RequestTimeout    time.Duration
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string // debug | info | warn | error
	Format string // text | json
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Engine        string // tesseract | gosseract
	Pdftoppm      string
	Tesseract     string
	TesseractLang string
	TessdataDir   string
	DPI           int
	MaxPages      int
	Workers       int
	PSM           int
	OEM           int
	Enhance       bool
}

// RenderConfig holds B/L rendering configuration
type RenderConfig struct {
	TemplatePath string
}

// MetadataConfig names the document-info property the record is embedded under.
type MetadataConfig struct {
	Key string
}

// LoadDotEnv loads a .env file when one exists. A missing file is not an error.
func LoadDotEnv(paths ...string) error {
	err := godotenv.Load(paths...)
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPAddr:          getEnv("HTTP_ADDR", ":8000"),
			MaxUploadBytes:    getEnvAsInt64("MAX_UPLOAD_BYTES", 20<<20),
			ReadHeaderTimeout: getEnvAsDuration("READ_HEADER_TIMEOUT", 10*time.Second),
			ShutdownTimeout:   getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
			RequestTimeout:    getEnvAsDuration("REQUEST_TIMEOUT", 2*time.Minute),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
		OCR: OCRConfig{
			Engine:        getEnv("OCR_ENGINE", constants.EngineTesseract),
			Pdftoppm:      getEnv("PDFTOPPM_BIN", "pdftoppm"),
			Tesseract:     getEnv("TESSERACT_BIN", "tesseract"),
			TesseractLang: getEnv("TESSERACT_LANG", "eng"),
			TessdataDir:   getEnv("TESSDATA_PREFIX", ""),
			DPI:           getEnvAsInt("OCR_DPI", 300),
			MaxPages:      getEnvAsInt("OCR_MAX_PAGES", 0),
			Workers:       getEnvAsInt("OCR_WORKERS", 4),
			PSM:           getEnvAsInt("OCR_PSM", 0),
			OEM:           getEnvAsInt("OCR_OEM", 0),
			Enhance:       getEnvAsBool("OCR_ENHANCE", true),
		},
		Render: RenderConfig{
			TemplatePath: getEnv("RENDER_TEMPLATE_PATH", "image.jpeg"),
		},
		Metadata: MetadataConfig{
			Key: getEnv("METADATA_KEY", constants.MetadataKey),
		},
	}
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

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	v := NewValidator().
		Field("HTTP_ADDR", c.Server.HTTPAddr, Required).
		Field("TESSERACT_LANG", c.OCR.TesseractLang, Required).
		Field("METADATA_KEY", c.Metadata.Key, Required)
	if v.HasErrors() {
		return NewAppError(CodeConfig, v.ErrorMessage(), ErrInvalidInput)
	}
	if !strings.Contains(strings.ToLower(c.Metadata.Key), constants.MetadataKeyMarker) {
		return NewAppError(CodeConfig, "METADATA_KEY must contain "+constants.MetadataKeyMarker, ErrInvalidInput)
	}
	switch c.OCR.Engine {
	case constants.EngineTesseract, constants.EngineGosseract:
	default:
		return NewAppError(CodeConfig, "OCR_ENGINE must be tesseract or gosseract", ErrInvalidInput)
	}
	if c.OCR.DPI <= 0 || c.OCR.Workers <= 0 {
		return NewAppError(CodeConfig, "OCR_DPI and OCR_WORKERS must be positive", ErrInvalidInput)
	}
	return nil
}
