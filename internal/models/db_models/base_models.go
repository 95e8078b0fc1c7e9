package db_models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel is shared by platform-owned records such as members. Timestamps
// are unix seconds.
type BaseModel struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt int64          `gorm:"autoCreateTime" json:"-"`
	UpdatedAt int64          `gorm:"autoUpdateTime" json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	b.touch(time.Now(), true)
	return nil
}

func (b *BaseModel) BeforeUpdate(tx *gorm.DB) error {
	b.touch(time.Now(), false)
	return nil
}

func (b *BaseModel) touch(now time.Time, created bool) {
	if created {
		b.CreatedAt = now.Unix()
	}
	b.UpdatedAt = now.Unix()
}
