package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Business struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID            uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Name              string    `gorm:"type:varchar(255);not null"`
	Slug              string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	PayoutAccountID   *string   `gorm:"type:varchar(255)"`
	PayoutAccountType string    `gorm:"type:varchar(20);not null;default:'individual'"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
	DeletedAt         gorm.DeletedAt `gorm:"index"`
}

type Product struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	BusinessID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name       string    `gorm:"type:varchar(255);not null"`
	Price      int64     `gorm:"not null"`
	Currency   string    `gorm:"type:varchar(3);not null;default:'usd'"`
	Type       string    `gorm:"type:varchar(30);not null;default:'standard'"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}
