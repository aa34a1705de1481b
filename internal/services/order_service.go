package services

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/narra/internal/config"
	"github.com/example/narra/internal/models"
	"github.com/example/narra/internal/utils"
)

// OrderService owns the state machine of a single order: creation at
// checkout, owner and admin reads, and the admin-only status and delivery
// mutations.
type OrderService struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewOrderService constructs OrderService.
func NewOrderService(db *gorm.DB, cfg *config.Config) *OrderService {
	return &OrderService{db: db, cfg: cfg}
}

// OrderItemInput is one cart line submitted at checkout. Product and variant
// IDs are carried as strings because the client may send anything; unparsable
// IDs are stored as null references while the snapshot fields are kept.
type OrderItemInput struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	VariantID   string  `json:"variantId"`
	VariantName string  `json:"variantName"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Remarks     string  `json:"remarks"`
}

// CreateOrderInput is the checkout payload.
type CreateOrderInput struct {
	Items           []OrderItemInput `json:"items" validate:"required,min=1,dive"`
	TotalAmount     float64          `json:"totalAmount" validate:"gte=0"`
	DownPayment     float64          `json:"downPayment" validate:"gte=0"`
	ShippingAddress string           `json:"shippingAddress"`
}

// CreateOrder persists a new order in the pending state. The total is
// recomputed from the line items and must match the client-supplied amount;
// the down payment must not exceed the total.
func (s *OrderService) CreateOrder(userID uuid.UUID, in CreateOrderInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, validationErrorf("order must contain at least one item")
	}

	var itemTotal float64
	items := make([]models.OrderItem, 0, len(in.Items))
	for i, it := range in.Items {
		if it.Quantity < 1 {
			return nil, validationErrorf("item %d: quantity must be at least 1", i)
		}
		if it.Price < 0 {
			return nil, validationErrorf("item %d: price must not be negative", i)
		}

		item := models.OrderItem{
			ProductName: it.ProductName,
			VariantName: it.VariantName,
			Price:       it.Price,
			Quantity:    it.Quantity,
			Remarks:     it.Remarks,
		}

		if it.ProductID != "" {
			if id, err := uuid.Parse(it.ProductID); err == nil {
				item.ProductID = &id
			}
		}
		if it.VariantID != "" {
			if id, err := uuid.Parse(it.VariantID); err == nil {
				item.VariantID = &id
			}
		}

		itemTotal += it.Price * float64(it.Quantity)
		items = append(items, item)
	}

	if !amountsEqual(itemTotal, in.TotalAmount) {
		return nil, validationErrorf("totalAmount %.2f does not match item total %.2f", in.TotalAmount, itemTotal)
	}
	if in.DownPayment < 0 || in.DownPayment > in.TotalAmount+amountTolerance {
		return nil, validationErrorf("down payment must be between 0 and the order total")
	}

	order := models.Order{
		UserID:           userID,
		Items:            items,
		TotalAmount:      in.TotalAmount,
		DownPayment:      in.DownPayment,
		RemainingBalance: in.TotalAmount - in.DownPayment,
		ShippingAddress:  in.ShippingAddress,
		Status:           models.OrderStatusPending,
		PaymentStatus:    models.PaymentStatusDownPaymentPaid,
		DeliveryStatus:   models.DeliveryProcessing,
	}

	if err := s.db.Create(&order).Error; err != nil {
		return nil, err
	}

	return &order, nil
}

// GetOrder loads a single order. Callers see only their own orders unless
// they are admins.
func (s *OrderService) GetOrder(orderID, callerID uuid.UUID, callerIsAdmin bool) (*models.Order, error) {
	var order models.Order
	if err := s.db.Preload("Items").First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if order.UserID != callerID && !callerIsAdmin {
		return nil, ErrForbidden
	}

	return &order, nil
}

// ListOrdersForUser returns a user's orders, newest first. Only the owner
// may list them.
func (s *OrderService) ListOrdersForUser(userID, callerID uuid.UUID, pg utils.Pagination) ([]models.Order, int64, error) {
	if userID != callerID {
		return nil, 0, ErrForbidden
	}

	query := s.db.Model(&models.Order{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	if err := query.Preload("Items").
		Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// ListAllOrders returns every order, newest first. Admin only.
func (s *OrderService) ListAllOrders(callerIsAdmin bool, pg utils.Pagination) ([]models.Order, int64, error) {
	if !callerIsAdmin {
		return nil, 0, ErrForbidden
	}

	var total int64
	if err := s.db.Model(&models.Order{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	if err := s.db.Preload("Items").
		Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// UpdateOrderInput carries the admin-editable order fields. Anything else
// (owner, items, amounts, timestamps) is immutable through this path.
type UpdateOrderInput struct {
	Status         *string `json:"status"`
	PaymentStatus  *string `json:"paymentStatus"`
	DeliveryStatus *string `json:"deliveryStatus"`
}

// UpdateOrderFields applies a partial admin update. Values are checked
// against the known enums and the delivery transition table unless the
// legacy unrestricted mode is configured.
func (s *OrderService) UpdateOrderFields(orderID uuid.UUID, callerIsAdmin bool, in UpdateOrderInput) (*models.Order, error) {
	if !callerIsAdmin {
		return nil, ErrForbidden
	}

	var order models.Order
	if err := s.db.First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{}

	if in.Status != nil {
		if !s.cfg.UnrestrictedOrderUpdates && !models.ValidOrderStatus(*in.Status) {
			return nil, validationErrorf("unknown order status %q", *in.Status)
		}
		updates["status"] = *in.Status
	}

	if in.PaymentStatus != nil {
		if !s.cfg.UnrestrictedOrderUpdates && !models.ValidPaymentStatus(*in.PaymentStatus) {
			return nil, validationErrorf("unknown payment status %q", *in.PaymentStatus)
		}
		updates["payment_status"] = *in.PaymentStatus
	}

	if in.DeliveryStatus != nil {
		if !s.cfg.UnrestrictedOrderUpdates {
			if !models.ValidDeliveryStatus(*in.DeliveryStatus) {
				return nil, validationErrorf("unknown delivery status %q", *in.DeliveryStatus)
			}
			if !models.CanTransitionDelivery(order.DeliveryStatus, *in.DeliveryStatus) {
				return nil, conflictErrorf("cannot move delivery from %s to %s", order.DeliveryStatus, *in.DeliveryStatus)
			}
		}
		updates["delivery_status"] = *in.DeliveryStatus
	}

	if len(updates) == 0 {
		return nil, validationErrorf("no updatable fields in request")
	}

	if err := s.db.Model(&order).Updates(updates).Error; err != nil {
		return nil, err
	}

	return s.GetOrder(orderID, order.UserID, true)
}

// SetDeliveryLocation stores the courier position, updates the delivery
// estimate and forces the order into in_transit. Terminal orders are
// rejected unless the legacy unrestricted mode is configured.
func (s *OrderService) SetDeliveryLocation(orderID uuid.UUID, callerIsAdmin bool, lat, lng float64, estimatedDelivery string) (*models.Order, error) {
	if !callerIsAdmin {
		return nil, ErrForbidden
	}
	if lat < -90 || lat > 90 {
		return nil, validationErrorf("latitude %v out of range", lat)
	}
	if lng < -180 || lng > 180 {
		return nil, validationErrorf("longitude %v out of range", lng)
	}

	var order models.Order
	if err := s.db.First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !s.cfg.UnrestrictedOrderUpdates && models.TerminalDelivery(order.DeliveryStatus) {
		return nil, conflictErrorf("order delivery is already %s", order.DeliveryStatus)
	}

	order.CurrentLocation = &models.Location{Lat: lat, Lng: lng}
	order.DeliveryStatus = models.DeliveryInTransit
	if estimatedDelivery != "" {
		order.EstimatedDelivery = &estimatedDelivery
	}

	if err := s.db.Model(&order).
		Select("CurrentLocation", "DeliveryStatus", "EstimatedDelivery").
		Updates(&order).Error; err != nil {
		return nil, err
	}

	return s.GetOrder(orderID, order.UserID, true)
}
