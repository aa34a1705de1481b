package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/narra/internal/middleware"
	"github.com/example/narra/internal/models"
	"github.com/example/narra/internal/services"
	"github.com/example/narra/internal/utils"
)

// OrderHandler manages order endpoints.
type OrderHandler struct {
	db       *gorm.DB
	orders   *services.OrderService
	telegram *services.TelegramService
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(db *gorm.DB, orders *services.OrderService, telegram *services.TelegramService) *OrderHandler {
	return &OrderHandler{db: db, orders: orders, telegram: telegram}
}

// CreateOrder places an order for the authenticated user.
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req services.CreateOrderInput
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	order, err := h.orders.CreateOrder(userID, req)
	if err != nil {
		return mapServiceError(err)
	}

	go h.notifyNewOrder(order, userID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": order})
}

func (h *OrderHandler) notifyNewOrder(order *models.Order, userID uuid.UUID) {
	if h.telegram == nil {
		return
	}

	notification := services.OrderNotification{
		OrderID:         order.ID.String(),
		TotalAmount:     order.TotalAmount,
		DownPayment:     order.DownPayment,
		ShippingAddress: order.ShippingAddress,
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err == nil {
		notification.CustomerName = user.DisplayName
		notification.CustomerEmail = user.Email
	}

	for _, item := range order.Items {
		notification.Items = append(notification.Items, services.OrderItemNotification{
			Name:     item.ProductName,
			Variant:  item.VariantName,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}

	if err := h.telegram.NotifyNewOrder(notification); err != nil {
		log.Printf("[Order] Telegram notification failed for order %s: %v", order.ID, err)
	}
}

// ListUserOrders returns the orders owned by the user in the path. Only the
// owner may call it.
func (h *OrderHandler) ListUserOrders(c *fiber.Ctx) error {
	callerID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid user id")
	}

	pg := utils.ParsePagination(c)
	orders, total, err := h.orders.ListOrdersForUser(userID, callerID, pg)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    orders,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetOrder returns a single order for its owner or an admin.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	callerID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	order, err := h.orders.GetOrder(id, callerID, callerIsAdmin(h.db, callerID))
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}

// ListAllOrders returns every order, newest first. Admin only.
func (h *OrderHandler) ListAllOrders(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	orders, total, err := h.orders.ListAllOrders(middleware.IsAdminRequest(c), pg)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    orders,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// UpdateOrder applies a partial admin update to an order's status fields.
func (h *OrderHandler) UpdateOrder(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req services.UpdateOrderInput
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	order, err := h.orders.UpdateOrderFields(id, middleware.IsAdminRequest(c), req)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}

type locationRequest struct {
	Lat               float64 `json:"lat"`
	Lng               float64 `json:"lng"`
	EstimatedDelivery string  `json:"estimatedDelivery"`
}

// UpdateLocation stores the courier position and forces in_transit.
// Admin only.
func (h *OrderHandler) UpdateLocation(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req locationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	order, err := h.orders.SetDeliveryLocation(id, middleware.IsAdminRequest(c), req.Lat, req.Lng, req.EstimatedDelivery)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}
