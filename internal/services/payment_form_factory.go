package services

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	dbm "donations/internal/models/db_models"
)

// PayboxConfig holds the merchant credentials of the Paybox System gateway.
type PayboxConfig struct {
	Site        string
	Rang        string
	Identifiant string
	Key         string // hex HMAC key from the back office
	URL         string // e.g. https://tpeweb.paybox.com/cgi/MYchoix_pagepaiement.cgi
	Currency    string // ISO 4217 numeric, 978 = EUR
	CallbackURL string // browser return and IPN target
}

// PayboxReturnFormat lists the variables the gateway appends to the callback.
// "id" is the reference, "result" the status code.
const PayboxReturnFormat = "id:R;authorization:A;result:E;transaction:S;amount:M;date:W;time:Q;card_type:C;card_end:D;card_print:H"

type PayboxField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// PayboxForm is posted by the browser to URL. Field order is significant:
// the HMAC covers the fields in this order.
type PayboxForm struct {
	URL    string        `json:"url"`
	Fields []PayboxField `json:"fields"`
}

type PaymentFormFactory interface {
	CreatePayboxFormForDonation(donation *dbm.Donation) (*PayboxForm, error)
}

type payboxFormFactory struct {
	cfg PayboxConfig
	key []byte
}

func NewPaymentFormFactory(cfg PayboxConfig) (PaymentFormFactory, error) {
	if cfg.Site == "" || cfg.Rang == "" || cfg.Identifiant == "" || cfg.URL == "" {
		return nil, errors.New("missing Paybox credentials")
	}
	key, err := hex.DecodeString(cfg.Key)
	if err != nil || len(key) == 0 {
		return nil, fmt.Errorf("paybox key must be hex encoded: %w", err)
	}
	if cfg.Currency == "" {
		cfg.Currency = "978"
	}

	return &payboxFormFactory{cfg: cfg, key: key}, nil
}

// CreatePayboxFormForDonation is deterministic: the same donation always
// yields the same fields and signature.
func (f *payboxFormFactory) CreatePayboxFormForDonation(donation *dbm.Donation) (*PayboxForm, error) {
	if donation.State() != dbm.DonationStateAwaitingCallback {
		return nil, fmt.Errorf("donation %s cannot be paid in state %s", donation.UUID, donation.State())
	}

	fields := []PayboxField{
		{"PBX_SITE", f.cfg.Site},
		{"PBX_RANG", f.cfg.Rang},
		{"PBX_IDENTIFIANT", f.cfg.Identifiant},
		{"PBX_TOTAL", strconv.Itoa(donation.Amount)},
		{"PBX_DEVISE", f.cfg.Currency},
		{"PBX_CMD", PayboxReference(donation)},
		{"PBX_PORTEUR", donation.EmailAddress},
		{"PBX_RETOUR", PayboxReturnFormat},
		{"PBX_EFFECTUE", f.cfg.CallbackURL},
		{"PBX_REFUSE", f.cfg.CallbackURL},
		{"PBX_ANNULE", f.cfg.CallbackURL},
		{"PBX_ATTENTE", f.cfg.CallbackURL},
		{"PBX_REPONDRE_A", f.cfg.CallbackURL},
		{"PBX_TYPEPAIEMENT", "CARTE"},
		{"PBX_HASH", "SHA512"},
		{"PBX_TIME", donation.CreatedAt.UTC().Format(time.RFC3339)},
	}

	fields = append(fields, PayboxField{"PBX_HMAC", f.sign(fields)})

	return &PayboxForm{URL: f.cfg.URL, Fields: fields}, nil
}

func (f *payboxFormFactory) sign(fields []PayboxField) string {
	pairs := make([]string, 0, len(fields))
	for _, field := range fields {
		pairs = append(pairs, field.Name+"="+field.Value)
	}

	mac := hmac.New(sha512.New, f.key)
	mac.Write([]byte(strings.Join(pairs, "&")))
	return strings.ToUpper(hex.EncodeToString(mac.Sum(nil)))
}

// PayboxReference is echoed back by the gateway as the "id" callback
// parameter; the donation UUID is everything before the first underscore.
func PayboxReference(donation *dbm.Donation) string {
	return fmt.Sprintf("%s_%d", donation.UUID, donation.CreatedAt.Unix())
}

// ParsePayboxReference extracts the donation UUID prefix of a reference.
func ParsePayboxReference(reference string) string {
	return strings.SplitN(reference, "_", 2)[0]
}
