package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"donations/pkg/utils"
)

const MemberIDKey = "member_id"

// OptionalMemberAuthMiddleware sets the member id when a valid bearer token is
// sent. Anonymous donors go through untouched, and so does an invalid token:
// donating never requires being signed in.
func OptionalMemberAuthMiddleware(key []byte) gin.HandlerFunc {

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if len(key) == 0 || !strings.HasPrefix(authHeader, "Bearer ") {
			c.Next()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ValidateMemberToken(key, tokenString)
		if err != nil {
			log.WithError(err).Debug("Ignoring invalid member token")
			c.Next()
			return
		}

		c.Set(MemberIDKey, claims.MemberID)
		c.Next()
	}
}
