package handler

import (
	"strconv"

	"go-stockwatch/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AuditHandler struct {
	auditService service.AuditService
}

func NewAuditHandler(auditService service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// GetRecentLogs lists the newest audit entries (admin only, gated in routes)
// GET /api/v1/audit-logs?limit=100
func (h *AuditHandler) GetRecentLogs(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "0"))

	logs, err := h.auditService.Recent(limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch audit logs"})
	}
	return c.JSON(logs)
}
