package services

import (
	"fmt"
	"net/url"

	dbm "donations/internal/models/db_models"
	"donations/pkg/utils"
)

type StatusCategory string

const (
	StatusSuccess      StatusCategory = "success"
	StatusGatewayError StatusCategory = "gateway-error"
	StatusInvalidCard  StatusCategory = "invalid-card"
	StatusTimeout      StatusCategory = "timeout"
	StatusUnknownError StatusCategory = "unknown-error"
)

const (
	ResultStatusSuccess = "success"
	ResultStatusError   = "error"
)

// Paybox result codes. Built once, never mutated.
var payboxStatuses = map[string]StatusCategory{
	dbm.PayboxSuccessCode: StatusSuccess,

	// Platform or authorization center error
	"00001": StatusGatewayError,
	"00003": StatusGatewayError,

	// Invalid card number/validity
	"00004": StatusInvalidCard,
	"00008": StatusInvalidCard,
	"00021": StatusInvalidCard,

	"00030": StatusTimeout,
}

var knownCategories = map[StatusCategory]struct{}{
	StatusSuccess:      {},
	StatusGatewayError: {},
	StatusInvalidCard:  {},
	StatusTimeout:      {},
	StatusUnknownError: {},
}

// CallbackStatus is carried in the redirect from the gateway return to the result page.
type CallbackStatus struct {
	Code   StatusCategory `json:"code"`
	UUID   string         `json:"uuid"`
	Status string         `json:"status"`
	Token  string         `json:"donation_callback_token"`
}

func (s *CallbackStatus) IsSuccess() bool {
	return s.Code == StatusSuccess
}

func (s *CallbackStatus) Query() url.Values {
	return url.Values{
		"code":               {string(s.Code)},
		CallbackTokenPurpose: {s.Token},
	}
}

type DonationStatusResolver interface {
	Classify(resultCode string) StatusCategory
	CreateCallbackStatus(donation *dbm.Donation) (*CallbackStatus, error)
	ValidateCallbackStatus(code, token string) error
}

type donationStatusResolver struct {
	tokens DonationTokenService
}

func NewDonationStatusResolver(tokens DonationTokenService) DonationStatusResolver {
	return &donationStatusResolver{tokens: tokens}
}

func (r *donationStatusResolver) Classify(resultCode string) StatusCategory {
	if category, ok := payboxStatuses[resultCode]; ok {
		return category
	}
	return StatusUnknownError
}

func (r *donationStatusResolver) CreateCallbackStatus(donation *dbm.Donation) (*CallbackStatus, error) {
	code := r.Classify(donation.ResultCode())

	token, err := r.tokens.Issue(CallbackTokenPurpose)
	if err != nil {
		return nil, fmt.Errorf("issue callback token: %w", err)
	}

	status := ResultStatusError
	if code == StatusSuccess {
		status = ResultStatusSuccess
	}

	return &CallbackStatus{
		Code:   code,
		UUID:   donation.UUID.String(),
		Status: status,
		Token:  token,
	}, nil
}

// ValidateCallbackStatus guards the result page: the callback token must be
// genuine and the code one of the categories this resolver emits.
func (r *donationStatusResolver) ValidateCallbackStatus(code, token string) error {
	valid := r.tokens.Verify(CallbackTokenPurpose, token)
	_, known := knownCategories[StatusCategory(code)]

	if valid && known {
		return nil
	}
	return utils.ErrInvalidDonationToken
}
