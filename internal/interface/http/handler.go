package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/lifepattern/internal/domain/analyzer"
	"github.com/yanqian/lifepattern/pkg/util"
)

// CacheInfo names the lookup cache backend for health reporting.
type CacheInfo interface {
	Name() string
}

// Handler wires the HTTP transport to the analyzer service.
type Handler struct {
	svc    analyzer.Service
	cache  CacheInfo
	logger *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(svc analyzer.Service, cache CacheInfo, logger *slog.Logger) *Handler {
	return &Handler{
		svc:    svc,
		cache:  cache,
		logger: logger.With("component", "http.handler"),
	}
}

// Analyze runs a full life pattern analysis. An empty body analyzes the caller's IP location.
func (h *Handler) Analyze(c *gin.Context) {
	var req analyzer.Request
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	req.ClientIP = c.ClientIP()

	resp, err := h.svc.Analyze(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomainError(err, "analysis_failed"))
		return
	}

	resp.RequestID = requestIDFrom(c)
	c.JSON(http.StatusOK, resp)
}

// QuickInsight returns the moon phase, local time and a tip without any upstream calls.
func (h *Handler) QuickInsight(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.QuickInsight(c.Request.Context()))
}

// Moon reports the lunar state for ?date=YYYY-MM-DD, or now.
func (h *Handler) Moon(c *gin.Context) {
	state, err := h.svc.Moon(c.Request.Context(), c.Query("date"))
	if err != nil {
		abortWithError(c, fromDomainError(err, "moon_failed"))
		return
	}
	c.JSON(http.StatusOK, state)
}

// Health reports liveness and the active lookup cache backend.
func (h *Handler) Health(c *gin.Context) {
	cache := "disabled"
	if h.cache != nil {
		cache = h.cache.Name()
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": util.NowUTC().Format(time.RFC3339),
		"cache":     cache,
	})
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
