package db_models

import "strings"

type PersonName struct {
	FirstName string `gorm:"size:50" json:"first_name" validate:"required,max=50"`
	LastName  string `gorm:"size:50" json:"last_name" validate:"required,max=50"`
}

func (p PersonName) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}
