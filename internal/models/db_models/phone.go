package db_models

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// Phone mirrors the libphonenumber split between calling code and national number.
// LeadingZeros counts the zeros an integer national number cannot hold,
// as in Italian landlines (+39 06...).
type Phone struct {
	CountryCode    int32  `json:"country_code"`
	NationalNumber uint64 `json:"national_number"`
	LeadingZeros   int32  `json:"leading_zeros,omitempty"`
}

// ParsePhone builds a phone from a calling code and the national significant
// number as typed, leading zeros included.
func ParsePhone(countryCode int32, nationalDigits string) (Phone, error) {
	digits := strings.TrimLeft(nationalDigits, "0")
	zeros := int32(len(nationalDigits) - len(digits))
	if digits == "" {
		return Phone{}, fmt.Errorf("phone: no significant digits in %q", nationalDigits)
	}
	nn, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return Phone{}, fmt.Errorf("phone: parse %q: %w", nationalDigits, err)
	}
	return Phone{CountryCode: countryCode, NationalNumber: nn, LeadingZeros: zeros}, nil
}

func (p Phone) toLib() *phonenumbers.PhoneNumber {
	cc, nn := p.CountryCode, p.NationalNumber
	num := &phonenumbers.PhoneNumber{CountryCode: &cc, NationalNumber: &nn}
	if p.LeadingZeros > 0 {
		italian, zeros := true, p.LeadingZeros
		num.ItalianLeadingZero = &italian
		num.NumberOfLeadingZeros = &zeros
	}
	return num
}

// IsValid reports whether the number is dialable for its declared country code.
func (p Phone) IsValid() bool {
	if p.CountryCode <= 0 || p.NationalNumber == 0 {
		return false
	}
	return phonenumbers.IsValidNumber(p.toLib())
}

// E164 renders the number as +<cc><national>, e.g. +33612345678.
func (p Phone) E164() string {
	return phonenumbers.Format(p.toLib(), phonenumbers.E164)
}

// NationalNumberString is the national significant number, leading zeros included.
func (p Phone) NationalNumberString() string {
	return phonenumbers.GetNationalSignificantNumber(p.toLib())
}

func (Phone) GormDataType() string {
	return "string"
}

// Value stores the number in E.164 form.
func (p Phone) Value() (driver.Value, error) {
	if p.CountryCode == 0 && p.NationalNumber == 0 {
		return nil, nil
	}
	return p.E164(), nil
}

func (p *Phone) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case nil:
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("phone: unsupported scan type %T", src)
	}
	if raw == "" {
		return nil
	}

	num, err := phonenumbers.Parse(raw, "")
	if err != nil {
		return fmt.Errorf("phone: parse %q: %w", raw, err)
	}
	p.CountryCode = num.GetCountryCode()
	p.NationalNumber = num.GetNationalNumber()
	p.LeadingZeros = 0
	if num.GetItalianLeadingZero() {
		p.LeadingZeros = num.GetNumberOfLeadingZeros()
	}
	return nil
}
