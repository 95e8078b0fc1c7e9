package utils

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrInvalidDonationToken = errors.New("invalid donation token")
	ErrDonationNotFound     = errors.New("donation not found")
	ErrMemberNotFound       = errors.New("member not found")
	ErrInvalidAmount        = errors.New("amount must be greater than 0")
	ErrDatabaseError        = errors.New("database error")
)

// ValidationErrors maps a draft field to its first failing rule.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for field, msg := range v {
		fields = append(fields, field+": "+msg)
	}
	sort.Strings(fields)
	return "validation failed: " + strings.Join(fields, "; ")
}
