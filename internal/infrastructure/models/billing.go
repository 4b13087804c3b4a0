package models

import (
	"time"

	"github.com/google/uuid"
)

// StripeCustomer maps a user to a processor customer
type StripeCustomer struct {
	UserID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	StripeCustomerID string    `gorm:"type:varchar(255);not null"`
	CreatedAt        time.Time
}

func (StripeCustomer) TableName() string {
	return "stripe_customers"
}

type Purchase struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID            uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID         uuid.UUID `gorm:"type:uuid;not null;index"`
	BusinessID        uuid.UUID `gorm:"type:uuid;not null;index"`
	Reference         string    `gorm:"type:varchar(500)"`
	CheckoutSessionID string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	CreatedAt         time.Time
}

type ScheduledPayment struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	PurchaseID   uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	ProductID    uuid.UUID `gorm:"type:uuid;not null;index"`
	ScheduledFor int       `gorm:"not null;check:scheduled_for_range,scheduled_for BETWEEN 1 AND 28"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type OrphanedProcessorObject struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Kind        string    `gorm:"type:varchar(20);not null"`
	ProcessorID string    `gorm:"type:varchar(255);not null;index"`
	OwnerID     uuid.UUID `gorm:"type:uuid;not null"`
	Reason      string    `gorm:"type:varchar(50);not null"`
	Attempts    int       `gorm:"not null;default:0"`
	LastError   *string   `gorm:"type:text"`
	ResolvedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
