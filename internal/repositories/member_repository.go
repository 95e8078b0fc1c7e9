package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"donations/internal/models/db_models"
)

type MemberRepository interface {
	FindById(ctx context.Context, id string) (*db_models.Member, error)
}

type memberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{
		db: db,
	}
}

func (m *memberRepository) FindById(ctx context.Context, id string) (*db_models.Member, error) {
	var member db_models.Member
	err := m.db.WithContext(ctx).First(&member, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &member, nil
}
