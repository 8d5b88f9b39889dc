package handler

import (
	"strconv"

	apperrors "go-stockwatch/internal/errors"
	"go-stockwatch/internal/middleware"
	"go-stockwatch/internal/model"
	"go-stockwatch/internal/service"

	"github.com/gofiber/fiber/v2"
)

type LedgerHandler struct {
	service service.LedgerService
}

func NewLedgerHandler(s service.LedgerService) *LedgerHandler {
	return &LedgerHandler{service: s}
}

// CreateTransaction posts one stock movement
// POST /api/v1/transactions
func (h *LedgerHandler) CreateTransaction(c *fiber.Ctx) error {
	var entry model.Transaction
	if err := c.BodyParser(&entry); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	principal, ok := middleware.Principal(c)
	if !ok {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	if err := h.service.PostTransaction(&entry, principal); err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return c.Status(httpErr.StatusCode).JSON(httpErr.ToErrorResponse())
	}

	return c.Status(201).JSON(fiber.Map{"message": "Transaction recorded", "data": entry})
}

// GetProductHistory lists a product's ledger, most recent first
// GET /api/v1/products/:id/transactions
func (h *LedgerHandler) GetProductHistory(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	history, err := h.service.ProductHistory(id)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return c.Status(httpErr.StatusCode).JSON(httpErr.ToErrorResponse())
	}
	return c.JSON(history)
}

// GetTransactions lists recent movements across all products
// GET /api/v1/transactions?limit=100
func (h *LedgerHandler) GetTransactions(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", "100"))
	if err != nil || limit <= 0 {
		limit = 100
	}

	transactions, err := h.service.RecentHistory(limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(transactions)
}
