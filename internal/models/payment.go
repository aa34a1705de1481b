package models

import "github.com/google/uuid"

// Payment types.
const (
	PaymentTypeDownPayment      = "down_payment"
	PaymentTypeRemainingBalance = "remaining_balance"
)

// PaymentCompleted is the only ledger status written today; there is no
// pending or failed path.
const PaymentCompleted = "completed"

// Payment is an append-only ledger entry tied to an order. Rows are never
// updated or deleted once written.
type Payment struct {
	BaseModel
	OrderID       uuid.UUID `gorm:"type:uuid;index" json:"orderId"`
	UserID        uuid.UUID `gorm:"type:uuid;index" json:"userId"`
	Amount        float64   `json:"amount"`
	PaymentMethod string    `json:"paymentMethod"`
	PaymentType   string    `json:"paymentType"`
	Status        string    `json:"status"`
}
