package member_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"donations/internal/repositories"
	"donations/internal/services"
)

var Module = fx.Provide(
	provideMemberService, provideMemberRepo)

func provideMemberRepo(db *gorm.DB) repositories.MemberRepository {
	return repositories.NewMemberRepository(db)
}

func provideMemberService(memberRepo repositories.MemberRepository) services.MemberServiceInterface {
	return services.NewMemberService(memberRepo)
}
