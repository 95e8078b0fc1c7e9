package db_models

import "strings"

// PostAddress is embedded by value in every entity carrying a postal address.
type PostAddress struct {
	Country    string `gorm:"size:2" json:"country" validate:"required,iso3166_1_alpha2"`
	PostalCode string `gorm:"size:15" json:"postal_code" validate:"required,max=15,postcode_iso3166_alpha2_field=Country"`
	CityName   string `gorm:"size:255" json:"city_name" validate:"required,max=255"`
	Address    string `gorm:"size:150" json:"address" validate:"required,max=150"`
}

// Inline formats the address the way geocoders expect it.
func (a PostAddress) Inline() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{a.Address, strings.TrimSpace(a.PostalCode + " " + a.CityName), a.Country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

type GeoPoint struct {
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

func (g GeoPoint) HasCoordinates() bool {
	return g.Latitude != nil && g.Longitude != nil
}
