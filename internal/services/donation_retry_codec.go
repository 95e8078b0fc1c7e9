package services

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	dbm "donations/internal/models/db_models"
	"donations/internal/models/request_models"
	"donations/pkg/utils"
)

// Query parameter carrying the JSON retry payload.
const RetryPayloadParam = "donation_retry_payload"

const (
	RetryKeyGender       = "ge"
	RetryKeyLastName     = "ln"
	RetryKeyFirstName    = "fn"
	RetryKeyEmail        = "em"
	RetryKeyCountry      = "co"
	RetryKeyPostalCode   = "pc"
	RetryKeyCityName     = "ci"
	RetryKeyCityNameAlt  = "cn"
	RetryKeyAddress      = "ad"
	RetryKeyPhoneCountry = "phc"
	RetryKeyPhoneNumber  = "phn"
	RetryKeyToken        = "_token"
)

// RetryPayload is the flat short-keyed map carried in a retry link.
type RetryPayload map[string]any

// PresencePolicy decides when a payload key counts as provided.
type PresencePolicy int

const (
	// PresenceKeyPresent: the key exists with a non-null value, even "".
	PresenceKeyPresent PresencePolicy = iota
	// PresenceNonEmpty: the key exists with a truthy value, so neither "" nor "0".
	PresenceNonEmpty
)

type retryField struct {
	key      string
	presence PresencePolicy
	apply    func(req *request_models.DonationRequest, value string) bool
}

// Order matters: cn is applied after ci.
var retryFields = []retryField{
	{RetryKeyGender, PresenceKeyPresent, func(r *request_models.DonationRequest, v string) bool {
		if v != request_models.GenderMale && v != request_models.GenderFemale {
			return false
		}
		r.Gender = v
		return true
	}},
	{RetryKeyLastName, PresenceKeyPresent, func(r *request_models.DonationRequest, v string) bool {
		r.LastName = v
		return true
	}},
	{RetryKeyFirstName, PresenceKeyPresent, func(r *request_models.DonationRequest, v string) bool {
		r.FirstName = v
		return true
	}},
	{RetryKeyEmail, PresenceKeyPresent, func(r *request_models.DonationRequest, v string) bool {
		email, err := url.QueryUnescape(v)
		if err != nil {
			return false
		}
		r.EmailAddress = email
		return true
	}},
	// Known quirk: an empty or "0" country is ignored while every other empty
	// field overwrites the base draft.
	{RetryKeyCountry, PresenceNonEmpty, func(r *request_models.DonationRequest, v string) bool {
		r.Country = v
		return true
	}},
	{RetryKeyPostalCode, PresenceKeyPresent, func(r *request_models.DonationRequest, v string) bool {
		r.PostalCode = v
		return true
	}},
	{RetryKeyCityName, PresenceKeyPresent, func(r *request_models.DonationRequest, v string) bool {
		r.CityName = v
		return true
	}},
	{RetryKeyCityNameAlt, PresenceKeyPresent, func(r *request_models.DonationRequest, v string) bool {
		r.CityName = v
		return true
	}},
	{RetryKeyAddress, PresenceKeyPresent, func(r *request_models.DonationRequest, v string) bool {
		address, err := url.QueryUnescape(v)
		if err != nil {
			return false
		}
		r.Address = address
		return true
	}},
}

type RetryPayloadCodec interface {
	Encode(donation *dbm.Donation) RetryPayload
	Merge(base *request_models.DonationRequest, payload RetryPayload) *request_models.DonationRequest
	Decode(base *request_models.DonationRequest, raw string) (*request_models.DonationRequest, error)
}

type retryPayloadCodec struct {
	tokens    DonationTokenService
	validator DonationValidator
}

func NewRetryPayloadCodec(tokens DonationTokenService, validator DonationValidator) RetryPayloadCodec {
	return &retryPayloadCodec{tokens: tokens, validator: validator}
}

func (c *retryPayloadCodec) Encode(donation *dbm.Donation) RetryPayload {
	payload := RetryPayload{
		RetryKeyGender:     donation.Gender,
		RetryKeyLastName:   donation.LastName,
		RetryKeyFirstName:  donation.FirstName,
		RetryKeyEmail:      url.QueryEscape(donation.EmailAddress),
		RetryKeyCountry:    donation.Country,
		RetryKeyPostalCode: donation.PostalCode,
		RetryKeyCityName:   donation.CityName,
		RetryKeyAddress:    url.QueryEscape(donation.Address),
	}

	if donation.Phone != nil {
		payload[RetryKeyPhoneCountry] = donation.Phone.CountryCode
		payload[RetryKeyPhoneNumber] = donation.Phone.NationalNumberString()
	}

	return payload
}

// Merge copies every present and well-formed field onto a clone of base.
// Missing or malformed fields keep the base value.
func (c *retryPayloadCodec) Merge(base *request_models.DonationRequest, payload RetryPayload) *request_models.DonationRequest {
	retry := base.Clone()

	for _, field := range retryFields {
		value, ok := payload.lookup(field.key, field.presence)
		if !ok {
			continue
		}
		if !field.apply(retry, value) {
			log.WithField("key", field.key).Debug("Ignoring malformed retry payload field")
		}
	}

	if phone, ok := payload.phone(); ok {
		retry.Phone = phone
	}

	return retry
}

// Decode resumes a draft from a retry link. A missing or invalid token is
// always an error; a draft that fails validation silently yields base.
func (c *retryPayloadCodec) Decode(base *request_models.DonationRequest, raw string) (*request_models.DonationRequest, error) {
	var payload RetryPayload

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil || payload == nil {
		return nil, fmt.Errorf("%w: undecodable retry payload", utils.ErrInvalidDonationToken)
	}

	retry := c.Merge(base, payload)

	token, _ := payload[RetryKeyToken].(string)
	if !c.tokens.Verify(RetryTokenPurpose, token) {
		return nil, utils.ErrInvalidDonationToken
	}

	if err := c.validator.Validate(retry); err != nil {
		log.WithError(err).Debug("Retry payload rejected, starting from a fresh draft")
		return base, nil
	}

	return retry, nil
}

func (p RetryPayload) lookup(key string, presence PresencePolicy) (string, bool) {
	raw, ok := p[key]
	if !ok || raw == nil {
		return "", false
	}

	value, ok := scalarString(raw)
	if !ok {
		return "", false
	}
	if presence == PresenceNonEmpty && (value == "" || value == "0") {
		return "", false
	}
	return value, true
}

func (p RetryPayload) phone() (*dbm.Phone, bool) {
	cc, ok := p.lookup(RetryKeyPhoneCountry, PresenceKeyPresent)
	if !ok {
		return nil, false
	}
	nn, ok := p.lookup(RetryKeyPhoneNumber, PresenceKeyPresent)
	if !ok {
		return nil, false
	}

	countryCode, err := strconv.ParseInt(cc, 10, 32)
	if err != nil {
		return nil, false
	}
	phone, err := dbm.ParsePhone(int32(countryCode), nn)
	if err != nil {
		return nil, false
	}

	return &phone, true
}

func scalarString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int32:
		return strconv.FormatInt(int64(t), 10), true
	case int:
		return strconv.Itoa(t), true
	default:
		return "", false
	}
}
