package db_models

// Member is an adherent of the party. Donations only read its profile.
type Member struct {
	BaseModel
	Gender string `gorm:"size:6"`
	PersonName
	EmailAddress string `gorm:"unique"`
	PostAddress
	GeoPoint
	Phone *Phone `gorm:"size:35"`
}
