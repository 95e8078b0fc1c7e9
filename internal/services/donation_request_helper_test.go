package services

import (
	"errors"
	"testing"

	dbm "donations/internal/models/db_models"
	"donations/pkg/utils"
)

func newTestHelper(t *testing.T) (DonationRequestHelper, *donationTokenService) {
	t.Helper()
	tokens := newTestTokens(t)
	validator := NewDonationValidator()
	return NewDonationRequestHelper(
		tokens,
		NewRetryPayloadCodec(tokens, validator),
		NewDonationStatusResolver(tokens),
		validator,
	), tokens
}

func TestDonationRequestHelper_CreateFromRequest(t *testing.T) {
	helper, _ := newTestHelper(t)

	draft, err := helper.CreateFromRequest(2500, nil, nil)
	if err != nil {
		t.Fatalf("CreateFromRequest() error = %v", err)
	}
	if draft.Amount != 2500 || draft.FirstName != "" || draft.Phone != nil {
		t.Errorf("anonymous draft = %+v", draft)
	}

	member := &dbm.Member{
		Gender:       "male",
		PersonName:   dbm.PersonName{FirstName: "Jean", LastName: "Moulin"},
		EmailAddress: "jean.moulin@example.com",
		PostAddress:  dbm.PostAddress{Country: "FR", PostalCode: "69001", CityName: "Lyon", Address: "2 place des Terreaux"},
		Phone:        &dbm.Phone{CountryCode: 33, NationalNumber: 612345678},
	}

	draft, err = helper.CreateFromRequest(2500, nil, member)
	if err != nil {
		t.Fatalf("CreateFromRequest() error = %v", err)
	}
	if draft.FirstName != "Jean" || draft.CityName != "Lyon" || draft.Amount != 2500 {
		t.Errorf("member draft = %+v", draft)
	}
	draft.Phone.NationalNumber = 1
	if member.Phone.NationalNumber != 612345678 {
		t.Error("draft must not share the member's phone")
	}
}

func TestDonationRequestHelper_CreateFromRequestErrors(t *testing.T) {
	helper, _ := newTestHelper(t)

	if _, err := helper.CreateFromRequest(0, nil, nil); !errors.Is(err, utils.ErrInvalidAmount) {
		t.Errorf("amount 0: error = %v, want ErrInvalidAmount", err)
	}

	forged := `{"fn":"Jean"}`
	if _, err := helper.CreateFromRequest(1000, &forged, nil); !errors.Is(err, utils.ErrInvalidDonationToken) {
		t.Errorf("forged retry: error = %v, want ErrInvalidDonationToken", err)
	}
}

func TestDonationRequestHelper_RetryFlow(t *testing.T) {
	helper, tokens := newTestHelper(t)

	donation := awaitingDonation(t)
	donation.Finish(map[string]any{"result": "00004"})

	status, err := helper.CreateCallbackStatus(donation)
	if err != nil {
		t.Fatalf("CreateCallbackStatus() error = %v", err)
	}

	query, err := helper.CreateRetryQuery(donation, string(status.Code), status.Token)
	if err != nil {
		t.Fatalf("CreateRetryQuery() error = %v", err)
	}
	if query.Get(AmountParam) != "5000" {
		t.Errorf("amount = %q, want 5000", query.Get(AmountParam))
	}

	raw := query.Get(RetryPayloadParam)
	draft, err := helper.CreateFromRequest(5000, &raw, nil)
	if err != nil {
		t.Fatalf("CreateFromRequest(retry) error = %v", err)
	}
	if draft.EmailAddress != donation.EmailAddress || draft.LastName != donation.LastName {
		t.Errorf("resumed draft = %+v", draft)
	}
	if err := helper.Validate(draft); err != nil {
		t.Errorf("resumed draft should be valid: %v", err)
	}

	retryToken, _ := tokens.Issue(RetryTokenPurpose)
	if _, err := helper.CreateRetryQuery(donation, string(status.Code), retryToken); !errors.Is(err, utils.ErrInvalidDonationToken) {
		t.Errorf("retry token on result page: error = %v, want ErrInvalidDonationToken", err)
	}
}
