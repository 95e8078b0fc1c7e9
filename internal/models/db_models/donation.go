package db_models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PayboxSuccessCode is the only gateway result code meaning the donor was charged.
const PayboxSuccessCode = "00000"

type DonationState string

const (
	DonationStateNew              DonationState = "new"
	DonationStateInitialized      DonationState = "initialized"
	DonationStateAwaitingCallback DonationState = "awaiting-callback"
	DonationStateFinished         DonationState = "finished"
)

var ErrDonationNotInitialized = errors.New("donation has no identity yet")

// InitializedEntityError is raised (as a panic) when an identity is assigned twice.
type InitializedEntityError struct {
	UUID uuid.UUID
}

func (e *InitializedEntityError) Error() string {
	return fmt.Sprintf("donation %s is already initialized", e.UUID)
}

type Donation struct {
	ID     uint      `gorm:"primaryKey" json:"-"`
	UUID   uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"uuid"`
	Amount int       `gorm:"not null" json:"amount"` // cents
	Gender string    `gorm:"size:6" json:"gender"`
	PersonName
	EmailAddress string `gorm:"size:255" json:"email_address"`
	PostAddress
	GeoPoint
	Phone *Phone `gorm:"size:35" json:"phone,omitempty"`

	// Gateway outcome, written once by Finish.
	PayboxResultCode        *string           `gorm:"size:100" json:"paybox_result_code,omitempty"`
	PayboxAuthorizationCode *string           `gorm:"size:100" json:"paybox_authorization_code,omitempty"`
	PayboxPayload           datatypes.JSONMap `gorm:"type:jsonb" json:"-"`
	Finished                bool              `gorm:"not null;default:false;index" json:"finished"`
	DonatedAt               *time.Time        `json:"donated_at,omitempty"`

	ClientIP  *string   `gorm:"size:50" json:"-"`
	CreatedAt time.Time `json:"created_at"`

	persisted bool
}

func NewDonation(amount int, gender string, name PersonName, emailAddress string, address PostAddress, phone *Phone) *Donation {
	return &Donation{
		Amount:       amount,
		Gender:       gender,
		PersonName:   name,
		EmailAddress: emailAddress,
		PostAddress:  address,
		Phone:        phone,
		CreatedAt:    time.Now(),
	}
}

// Init binds the identity and client IP. Calling it twice is a programming
// error and panics with *InitializedEntityError.
func (d *Donation) Init(clientIP string) {
	if d.UUID != uuid.Nil {
		panic(&InitializedEntityError{UUID: d.UUID})
	}

	d.UUID = uuid.New()
	d.ClientIP = &clientIP
}

// Finish records the gateway payload. It returns false without touching the
// record when the donation was already finished.
func (d *Donation) Finish(payload map[string]any) bool {
	if d.Finished {
		return false
	}

	d.Finished = true
	d.PayboxPayload = datatypes.JSONMap(payload)

	code, _ := payload["result"].(string)
	d.PayboxResultCode = &code

	if auth, ok := payload["authorization"].(string); ok {
		d.PayboxAuthorizationCode = &auth
	}

	if code == PayboxSuccessCode {
		now := time.Now()
		d.DonatedAt = &now
	}

	return true
}

func (d *Donation) IsFinished() bool {
	return d.Finished
}

func (d *Donation) IsSuccessful() bool {
	return d.Finished && d.DonatedAt != nil
}

func (d *Donation) ResultCode() string {
	if d.PayboxResultCode == nil {
		return ""
	}
	return *d.PayboxResultCode
}

func (d *Donation) State() DonationState {
	switch {
	case d.Finished:
		return DonationStateFinished
	case d.UUID == uuid.Nil:
		return DonationStateNew
	case d.persisted:
		return DonationStateAwaitingCallback
	default:
		return DonationStateInitialized
	}
}

func (d *Donation) AmountInEuros() float64 {
	return float64(d.Amount) / 100
}

func (d *Donation) GeocodableAddress() string {
	return d.PostAddress.Inline()
}

func (d *Donation) String() string {
	return strings.TrimSpace(fmt.Sprintf("%s %s (%g €)", d.LastName, d.FirstName, d.AmountInEuros()))
}

func (d *Donation) BeforeCreate(tx *gorm.DB) error {
	if d.UUID == uuid.Nil {
		return ErrDonationNotInitialized
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}
	return nil
}

func (d *Donation) AfterCreate(tx *gorm.DB) error {
	d.persisted = true
	return nil
}

func (d *Donation) AfterFind(tx *gorm.DB) error {
	d.persisted = true
	return nil
}
