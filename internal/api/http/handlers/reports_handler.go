package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kam-ticket/helpdesk-service/internal/service"
)

// ReportsHandler exposes the metrics engine.
type ReportsHandler struct {
	metrics *service.MetricsService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(metrics *service.MetricsService) *ReportsHandler {
	return &ReportsHandler{metrics: metrics}
}

// Counts GET /tickets/reports/counts.
func (h *ReportsHandler) Counts(c *fiber.Ctx) error {
	counts, err := h.metrics.Counts(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(counts)
}

// MonthlyResolved GET /tickets/reports/monthly-resolved. Returns the
// canonical year/month buckets plus the flattened 12-slot series the
// dashboard chart reads.
func (h *ReportsHandler) MonthlyResolved(c *fiber.Ctx) error {
	buckets, err := h.metrics.MonthlyResolved(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"buckets": buckets,
		"series":  service.MonthlyResolvedSeries(buckets),
	})
}

// DepartmentBreakdown GET /tickets/reports/department-breakdown.
func (h *ReportsHandler) DepartmentBreakdown(c *fiber.Ctx) error {
	entries, err := h.metrics.DepartmentBreakdown(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(entries)
}

// AgentPerformance GET /tickets/reports/agent-performance.
func (h *ReportsHandler) AgentPerformance(c *fiber.Ctx) error {
	entries, err := h.metrics.AgentPerformance(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(entries)
}

// TimeDistribution GET /tickets/reports/time-distribution.
func (h *ReportsHandler) TimeDistribution(c *fiber.Ctx) error {
	buckets, err := h.metrics.TimeDistribution(c.Context(), c.Query("granularity", "monthly"), c.Query("status"))
	if err != nil {
		return err
	}
	return c.JSON(buckets)
}
