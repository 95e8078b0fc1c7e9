package services

import (
	"context"

	dbm "donations/internal/models/db_models"
	"donations/internal/repositories"
	"donations/pkg/utils"
)

type MemberServiceInterface interface {
	// FindProfile returns the stored profile of a signed-in member.
	FindProfile(ctx context.Context, memberID string) (*dbm.Member, error)
}

type MemberService struct {
	memberRepo repositories.MemberRepository
}

func NewMemberService(memberRepo repositories.MemberRepository) MemberServiceInterface {
	return &MemberService{
		memberRepo: memberRepo,
	}
}

func (m *MemberService) FindProfile(ctx context.Context, memberID string) (*dbm.Member, error) {
	member, err := m.memberRepo.FindById(ctx, memberID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if member == nil {
		return nil, utils.ErrMemberNotFound
	}
	return member, nil
}
