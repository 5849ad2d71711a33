package http

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/sergioberino/tedcross/internal/domain"
)

// defaultPageSize caps list endpoints so a full matched set is never
// serialized in one response
const defaultPageSize = 100

// Handler serves the results of the most recent cross-validation run
type Handler struct {
	mu     sync.RWMutex
	report *domain.ComplianceReport
}

// NewHandler creates a new HTTP handler
func NewHandler() *Handler {
	return &Handler{}
}

// SetReport publishes a finished run to the API
func (h *Handler) SetReport(report *domain.ComplianceReport) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.report = report
}

func (h *Handler) currentReport() *domain.ComplianceReport {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.report
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "tedcross",
		"ready":   h.currentReport() != nil,
	})
}

// GetSummary returns the run summary counters
func (h *Handler) GetSummary(c *gin.Context) {
	report := h.currentReport()
	if report == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": domain.ErrReportNotReady.Error()})
		return
	}
	c.JSON(http.StatusOK, report.Summary)
}

// GetMatched returns a page of the enriched matched set
func (h *Handler) GetMatched(c *gin.Context) {
	report := h.currentReport()
	if report == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": domain.ErrReportNotReady.Error()})
		return
	}
	offset, limit := pageParams(c)
	page := slicePage(report.Matched, offset, limit)
	c.JSON(http.StatusOK, gin.H{"total": len(report.Matched), "offset": offset, "results": page})
}

// GetMissing returns a page of the missing set, highest amounts first
func (h *Handler) GetMissing(c *gin.Context) {
	report := h.currentReport()
	if report == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": domain.ErrReportNotReady.Error()})
		return
	}
	offset, limit := pageParams(c)
	page := slicePage(report.Missing, offset, limit)
	c.JSON(http.StatusOK, gin.H{"total": len(report.Missing), "offset": offset, "results": page})
}

// GetOrganizationStats returns per-organization compliance statistics
func (h *Handler) GetOrganizationStats(c *gin.Context) {
	report := h.currentReport()
	if report == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": domain.ErrReportNotReady.Error()})
		return
	}
	c.JSON(http.StatusOK, report.OrganizationStats)
}

// GetContractorStats returns per-contractor compliance statistics
func (h *Handler) GetContractorStats(c *gin.Context) {
	report := h.currentReport()
	if report == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": domain.ErrReportNotReady.Error()})
		return
	}
	c.JSON(http.StatusOK, report.ContractorStats)
}

func pageParams(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	if limit <= 0 || limit > 1000 {
		limit = defaultPageSize
	}
	return offset, limit
}

func slicePage[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
