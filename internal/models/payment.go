package models

import "time"

// PaymentStatus is the settlement outcome of a payment.
// Pending exists only in flight; a persisted payment is never pending.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// IsSettled reports whether the status is a final settlement outcome.
func (s PaymentStatus) IsSettled() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusFailed
}

// PaymentInfo is a settled payment record. Both outcomes are persisted
// so the history shows declined attempts alongside successful ones.
// Records are immutable once written.
type PaymentInfo struct {
	ID          string        `gorm:"type:varchar(36);primaryKey" json:"id"`
	TenantID    string        `gorm:"type:varchar(36);not null;index" json:"tenant_id"`
	ApartmentID string        `gorm:"type:varchar(36);not null;index" json:"apartment_id"`
	Amount      float64       `gorm:"type:decimal(10,2);not null" json:"amount"`
	Status      PaymentStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	Date        time.Time     `gorm:"type:timestamp;not null" json:"date"`
	Description string        `gorm:"type:text" json:"description"`
}

func (PaymentInfo) TableName() string {
	return "payments"
}
