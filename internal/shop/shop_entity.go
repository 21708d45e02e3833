package shop

import (
	"time"

	"github.com/google/uuid"
)

type Shop struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"type:varchar(120);not null;uniqueIndex:uq_shop_name"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
