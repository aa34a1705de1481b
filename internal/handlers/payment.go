package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/narra/internal/middleware"
	"github.com/example/narra/internal/models"
	"github.com/example/narra/internal/services"
	"github.com/example/narra/internal/utils"
)

// PaymentHandler manages payment ledger endpoints.
type PaymentHandler struct {
	payments *services.PaymentService
	telegram *services.TelegramService
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(payments *services.PaymentService, telegram *services.TelegramService) *PaymentHandler {
	return &PaymentHandler{payments: payments, telegram: telegram}
}

type paymentRequest struct {
	OrderID       string  `json:"orderId" validate:"required"`
	Amount        float64 `json:"amount" validate:"gte=0"`
	PaymentMethod string  `json:"paymentMethod" validate:"required"`
}

// RecordDownPayment records the checkout down payment for an order.
func (h *PaymentHandler) RecordDownPayment(c *fiber.Ctx) error {
	return h.record(c, models.PaymentTypeDownPayment)
}

// RecordRemainingBalance records the final payment for an order.
func (h *PaymentHandler) RecordRemainingBalance(c *fiber.Ctx) error {
	return h.record(c, models.PaymentTypeRemainingBalance)
}

func (h *PaymentHandler) record(c *fiber.Ctx, paymentType string) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req paymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := utils.ValidateStruct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payment data: "+err.Error())
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid order id")
	}

	var payment *models.Payment
	if paymentType == models.PaymentTypeDownPayment {
		payment, err = h.payments.RecordDownPayment(orderID, userID, req.Amount, req.PaymentMethod)
	} else {
		payment, err = h.payments.RecordRemainingBalance(orderID, userID, req.Amount, req.PaymentMethod)
	}
	if err != nil {
		return mapServiceError(err)
	}

	if h.telegram != nil {
		go func() {
			if err := h.telegram.NotifyPaymentRecorded(payment.OrderID.String(), payment.PaymentType, payment.Amount); err != nil {
				log.Printf("[Payment] Telegram notification failed for order %s: %v", payment.OrderID, err)
			}
		}()
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": payment})
}

// ListUserPayments returns the ledger entries owned by the user in the path.
// Only the owner may call it.
func (h *PaymentHandler) ListUserPayments(c *fiber.Ctx) error {
	callerID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid user id")
	}

	pg := utils.ParsePagination(c)
	payments, total, err := h.payments.ListPaymentsForUser(userID, callerID, pg)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    payments,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}
