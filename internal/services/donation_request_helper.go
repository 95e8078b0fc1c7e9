package services

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	dbm "donations/internal/models/db_models"
	"donations/internal/models/request_models"
	"donations/pkg/utils"
)

// AmountParam is the query parameter holding the donation amount in cents.
const AmountParam = "amount"

type DonationRequestHelper interface {
	CreateFromRequest(amount int, retryPayload *string, member *dbm.Member) (*request_models.DonationRequest, error)
	Validate(req *request_models.DonationRequest) error
	CreateCallbackStatus(donation *dbm.Donation) (*CallbackStatus, error)
	CreateRetryQuery(donation *dbm.Donation, code, callbackToken string) (url.Values, error)
}

type donationRequestHelper struct {
	tokens    DonationTokenService
	codec     RetryPayloadCodec
	resolver  DonationStatusResolver
	validator DonationValidator
}

func NewDonationRequestHelper(
	tokens DonationTokenService,
	codec RetryPayloadCodec,
	resolver DonationStatusResolver,
	validator DonationValidator,
) DonationRequestHelper {
	return &donationRequestHelper{
		tokens:    tokens,
		codec:     codec,
		resolver:  resolver,
		validator: validator,
	}
}

// CreateFromRequest builds the draft from the member profile when a member is
// signed in, from scratch otherwise, then resumes a retry payload if one is given.
func (h *donationRequestHelper) CreateFromRequest(amount int, retryPayload *string, member *dbm.Member) (*request_models.DonationRequest, error) {
	if amount <= 0 {
		return nil, utils.ErrInvalidAmount
	}

	var draft *request_models.DonationRequest
	if member != nil {
		draft = request_models.NewDonationRequestFromMember(member, amount)
	} else {
		draft = request_models.NewDonationRequest(amount)
	}

	if retryPayload == nil {
		return draft, nil
	}

	return h.codec.Decode(draft, *retryPayload)
}

func (h *donationRequestHelper) Validate(req *request_models.DonationRequest) error {
	return h.validator.Validate(req)
}

func (h *donationRequestHelper) CreateCallbackStatus(donation *dbm.Donation) (*CallbackStatus, error) {
	return h.resolver.CreateCallbackStatus(donation)
}

// CreateRetryQuery returns the query of the retry link shown on the result page.
func (h *donationRequestHelper) CreateRetryQuery(donation *dbm.Donation, code, callbackToken string) (url.Values, error) {
	if err := h.resolver.ValidateCallbackStatus(code, callbackToken); err != nil {
		return nil, err
	}

	payload := h.codec.Encode(donation)

	token, err := h.tokens.Issue(RetryTokenPurpose)
	if err != nil {
		return nil, fmt.Errorf("issue retry token: %w", err)
	}
	payload[RetryKeyToken] = token

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode retry payload: %w", err)
	}

	return url.Values{
		RetryPayloadParam: {string(raw)},
		AmountParam:       {strconv.Itoa(donation.Amount)},
	}, nil
}
