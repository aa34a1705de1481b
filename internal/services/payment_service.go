package services

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/narra/internal/models"
	"github.com/example/narra/internal/utils"
)

// PaymentService keeps the append-only payment ledger and folds the matching
// order state change into the same transaction, so a ledger row is never
// committed without its order update.
type PaymentService struct {
	db *gorm.DB
}

// NewPaymentService constructs PaymentService.
func NewPaymentService(db *gorm.DB) *PaymentService {
	return &PaymentService{db: db}
}

// RecordDownPayment appends a down_payment ledger entry and confirms the
// order. The order must still be pending and the amount must match the down
// payment fixed at checkout; only the order owner may pay.
func (s *PaymentService) RecordDownPayment(orderID, userID uuid.UUID, amount float64, paymentMethod string) (*models.Payment, error) {
	var payment models.Payment

	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := loadOrder(tx, orderID)
		if err != nil {
			return err
		}
		if order.UserID != userID {
			return ErrForbidden
		}

		switch order.Status {
		case models.OrderStatusPending:
			// awaiting the down payment
		case models.OrderStatusConfirmed, models.OrderStatusPaid:
			return conflictErrorf("down payment already recorded for this order")
		default:
			return conflictErrorf("order is not payable in status %s", order.Status)
		}

		if !amountsEqual(amount, order.DownPayment) {
			return validationErrorf("amount %.2f does not match the order down payment %.2f", amount, order.DownPayment)
		}

		payment = models.Payment{
			OrderID:       order.ID,
			UserID:        userID,
			Amount:        amount,
			PaymentMethod: paymentMethod,
			PaymentType:   models.PaymentTypeDownPayment,
			Status:        models.PaymentCompleted,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		return tx.Model(&models.Order{}).Where("id = ?", order.ID).Updates(map[string]interface{}{
			"payment_status": models.PaymentStatusDownPaymentPaid,
			"status":         models.OrderStatusConfirmed,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	return &payment, nil
}

// RecordRemainingBalance appends a remaining_balance ledger entry and marks
// the order paid. A down payment must already be on record and the amount
// must clear the outstanding balance exactly.
func (s *PaymentService) RecordRemainingBalance(orderID, userID uuid.UUID, amount float64, paymentMethod string) (*models.Payment, error) {
	var payment models.Payment

	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := loadOrder(tx, orderID)
		if err != nil {
			return err
		}
		if order.UserID != userID {
			return ErrForbidden
		}

		switch order.Status {
		case models.OrderStatusPending:
			return conflictErrorf("down payment has not been recorded for this order")
		case models.OrderStatusPaid:
			return conflictErrorf("order is already fully paid")
		case models.OrderStatusConfirmed:
			// awaiting the remaining balance
		default:
			return conflictErrorf("order is not payable in status %s", order.Status)
		}

		if !amountsEqual(amount, order.RemainingBalance) {
			return validationErrorf("amount %.2f does not match the remaining balance %.2f", amount, order.RemainingBalance)
		}

		payment = models.Payment{
			OrderID:       order.ID,
			UserID:        userID,
			Amount:        amount,
			PaymentMethod: paymentMethod,
			PaymentType:   models.PaymentTypeRemainingBalance,
			Status:        models.PaymentCompleted,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		return tx.Model(&models.Order{}).Where("id = ?", order.ID).Updates(map[string]interface{}{
			"payment_status":    models.PaymentStatusFullyPaid,
			"remaining_balance": 0,
			"status":            models.OrderStatusPaid,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	return &payment, nil
}

// ListPaymentsForUser returns a user's ledger entries, newest first. Only
// the owner may list them.
func (s *PaymentService) ListPaymentsForUser(userID, callerID uuid.UUID, pg utils.Pagination) ([]models.Payment, int64, error) {
	if userID != callerID {
		return nil, 0, ErrForbidden
	}

	query := s.db.Model(&models.Payment{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var payments []models.Payment
	if err := query.Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&payments).Error; err != nil {
		return nil, 0, err
	}

	return payments, total, nil
}

func loadOrder(tx *gorm.DB, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}
