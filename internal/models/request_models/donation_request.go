package request_models

import (
	dbm "donations/internal/models/db_models"
)

const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// DonationRequest is the in-memory draft filled by the details form. It is
// never persisted; a valid draft is turned into a db_models.Donation.
type DonationRequest struct {
	Amount       int    `json:"amount" validate:"gt=0"`
	Gender       string `json:"gender" validate:"required,oneof=male female"`
	FirstName    string `json:"first_name" validate:"required,max=50"`
	LastName     string `json:"last_name" validate:"required,max=50"`
	EmailAddress string `json:"email_address" validate:"required,email,max=255"`
	dbm.PostAddress
	Phone *dbm.Phone `json:"phone,omitempty"`
}

func NewDonationRequest(amount int) *DonationRequest {
	return &DonationRequest{Amount: amount}
}

// NewDonationRequestFromMember pre-fills the draft with the member's stored profile.
func NewDonationRequestFromMember(member *dbm.Member, amount int) *DonationRequest {
	req := &DonationRequest{
		Amount:       amount,
		Gender:       member.Gender,
		FirstName:    member.FirstName,
		LastName:     member.LastName,
		EmailAddress: member.EmailAddress,
		PostAddress:  member.PostAddress,
	}
	if member.Phone != nil {
		phone := *member.Phone
		req.Phone = &phone
	}
	return req
}

func (r *DonationRequest) Clone() *DonationRequest {
	clone := *r
	if r.Phone != nil {
		phone := *r.Phone
		clone.Phone = &phone
	}
	return &clone
}

func (r *DonationRequest) ToDonation() *dbm.Donation {
	var phone *dbm.Phone
	if r.Phone != nil {
		p := *r.Phone
		phone = &p
	}

	return dbm.NewDonation(
		r.Amount,
		r.Gender,
		dbm.PersonName{FirstName: r.FirstName, LastName: r.LastName},
		r.EmailAddress,
		r.PostAddress,
		phone,
	)
}

// DonationDetailsForm is the body posted to /donate/details. Every field is
// optional so a partial post keeps the pre-filled values of the draft.
type DonationDetailsForm struct {
	Gender       *string    `json:"gender"`
	FirstName    *string    `json:"first_name"`
	LastName     *string    `json:"last_name"`
	EmailAddress *string    `json:"email_address"`
	Country      *string    `json:"country"`
	PostalCode   *string    `json:"postal_code"`
	CityName     *string    `json:"city_name"`
	Address      *string    `json:"address"`
	Phone        *dbm.Phone `json:"phone"`
}

func (f DonationDetailsForm) ApplyTo(r *DonationRequest) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&r.Gender, f.Gender)
	set(&r.FirstName, f.FirstName)
	set(&r.LastName, f.LastName)
	set(&r.EmailAddress, f.EmailAddress)
	set(&r.Country, f.Country)
	set(&r.PostalCode, f.PostalCode)
	set(&r.CityName, f.CityName)
	set(&r.Address, f.Address)
	if f.Phone != nil {
		phone := *f.Phone
		r.Phone = &phone
	}
}
