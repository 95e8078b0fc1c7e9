package utils

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// MemberClaims identifies an authenticated member on the platform. Member
// tokens are minted by the platform's account service; this service only
// validates them.
type MemberClaims struct {
	MemberID string `json:"member_id"`
	jwt.RegisteredClaims
}

func ValidateMemberToken(key []byte, tokenString string) (*MemberClaims, error) {
	claims := &MemberClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.MemberID == "" {
		return nil, errors.New("invalid member token")
	}

	return claims, nil
}
