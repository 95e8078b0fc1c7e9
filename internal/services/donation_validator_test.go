package services

import (
	"errors"
	"testing"

	dbm "donations/internal/models/db_models"
	"donations/internal/models/request_models"
	"donations/pkg/utils"
)

func TestDonationValidator_ValidDraft(t *testing.T) {
	v := NewDonationValidator()
	if err := v.Validate(validDraft()); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	noPhone := validDraft()
	noPhone.Phone = nil
	if err := v.Validate(noPhone); err != nil {
		t.Fatalf("Validate() without phone error = %v", err)
	}
}

func TestDonationValidator_FieldErrors(t *testing.T) {
	v := NewDonationValidator()

	tests := []struct {
		name   string
		mutate func(r *request_models.DonationRequest)
		field  string
	}{
		{"blank first name", func(r *request_models.DonationRequest) { r.FirstName = "" }, "first_name"},
		{"bad gender", func(r *request_models.DonationRequest) { r.Gender = "x" }, "gender"},
		{"bad email", func(r *request_models.DonationRequest) { r.EmailAddress = "nope" }, "email_address"},
		{"zero amount", func(r *request_models.DonationRequest) { r.Amount = 0 }, "amount"},
		{"unknown country", func(r *request_models.DonationRequest) { r.Country = "XX" }, "country"},
		{"postal code for another country", func(r *request_models.DonationRequest) { r.PostalCode = "SW1A 1AA" }, "postal_code"},
		{"invalid phone", func(r *request_models.DonationRequest) {
			r.Phone = &dbm.Phone{CountryCode: 33, NationalNumber: 12}
		}, "phone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := validDraft()
			tt.mutate(draft)

			err := v.Validate(draft)
			var verrs utils.ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("Validate() error = %v, want ValidationErrors", err)
			}
			if _, ok := verrs[tt.field]; !ok {
				t.Errorf("missing error for %q in %v", tt.field, verrs)
			}
		})
	}
}
