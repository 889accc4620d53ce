package server

import (
	"log/slog"

	"github.com/gin-gonic/gin"
)

// NewRouter mounts the B/L endpoints with request ids, access logging,
// panic recovery and an open CORS policy.
func NewRouter(s *BLServer, logger *slog.Logger) *gin.Engine {
	if logger == nil {
		logger = slog.Default()
	}
	r := gin.New()
	r.Use(requestContext(logger), accessLog(logger), recovery(logger), corsPolicy())

	r.GET("/", s.Index)
	r.GET("/healthz", s.Health)
	r.POST("/generate-bl", s.GenerateBL)
	r.POST("/generate-bl-json", s.GenerateJSON)
	r.POST("/generate-bl-xlsx", s.GenerateXLSX)
	r.POST("/generate-bl-from-json", s.GenerateFromEmbedded)
	r.POST("/extract-json-from-pdf", s.ExtractEmbedded)
	return r
}
