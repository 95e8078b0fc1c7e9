package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"donations/internal/repositories"
	"donations/pkg/events"
)

// GeocodingSubscriber stores coordinates for newly created donations.
// Geocoding failures are swallowed: a donation without coordinates is fine.
type GeocodingSubscriber struct {
	geocoder     Geocoder
	donationRepo repositories.DonationRepository
}

func NewGeocodingSubscriber(geocoder Geocoder, donationRepo repositories.DonationRepository) *GeocodingSubscriber {
	return &GeocodingSubscriber{geocoder: geocoder, donationRepo: donationRepo}
}

func (s *GeocodingSubscriber) OnDonationCreated(ctx context.Context, event events.Event) error {
	created, ok := event.(DonationCreatedEvent)
	if !ok {
		return fmt.Errorf("unexpected event %T", event)
	}
	donation := created.Donation

	coords, err := s.geocoder.Geocode(ctx, donation.GeocodableAddress())
	if err != nil {
		log.WithError(err).WithField("donation_uuid", donation.UUID).Debug("Geocoding failed")
		return nil
	}
	if coords == nil {
		return nil
	}

	return s.donationRepo.UpdateCoordinates(ctx, donation.UUID, coords.Latitude, coords.Longitude)
}

// ReceiptSubscriber mails a receipt for successful donations.
type ReceiptSubscriber struct {
	mail IMailService
}

func NewReceiptSubscriber(mail IMailService) *ReceiptSubscriber {
	return &ReceiptSubscriber{mail: mail}
}

func (s *ReceiptSubscriber) OnDonationFinished(ctx context.Context, event events.Event) error {
	finished, ok := event.(DonationFinishedEvent)
	if !ok {
		return fmt.Errorf("unexpected event %T", event)
	}
	if !finished.Donation.IsSuccessful() {
		return nil
	}

	return s.mail.SendDonationReceipt(&finished.Donation)
}

// DonationEventProducer writes a message to a broker topic.
type DonationEventProducer interface {
	Produce(ctx context.Context, topic string, key, value []byte) error
}

type DonationPaidMessage struct {
	DonationUUID string    `json:"donation_uuid"`
	Amount       int       `json:"amount"`
	Currency     string    `json:"currency"`
	EmailAddress string    `json:"email_address"`
	Country      string    `json:"country"`
	PostalCode   string    `json:"postal_code"`
	DonatedAt    time.Time `json:"donated_at"`
}

// BrokerSubscriber forwards successful donations to the platform's message
// broker for downstream consumers (CRM sync, tax receipts).
type BrokerSubscriber struct {
	producer DonationEventProducer
	topic    string
}

func NewBrokerSubscriber(producer DonationEventProducer, topic string) *BrokerSubscriber {
	return &BrokerSubscriber{producer: producer, topic: topic}
}

func (s *BrokerSubscriber) OnDonationFinished(ctx context.Context, event events.Event) error {
	finished, ok := event.(DonationFinishedEvent)
	if !ok {
		return fmt.Errorf("unexpected event %T", event)
	}
	donation := finished.Donation
	if !donation.IsSuccessful() {
		return nil
	}

	value, err := json.Marshal(DonationPaidMessage{
		DonationUUID: donation.UUID.String(),
		Amount:       donation.Amount,
		Currency:     "EUR",
		EmailAddress: donation.EmailAddress,
		Country:      donation.Country,
		PostalCode:   donation.PostalCode,
		DonatedAt:    *donation.DonatedAt,
	})
	if err != nil {
		return fmt.Errorf("encode donation message: %w", err)
	}

	return s.producer.Produce(ctx, s.topic, []byte(donation.UUID.String()), value)
}

// RegisterDonationSubscribers wires every donation subscriber onto the bus.
// Nil collaborators are skipped so optional integrations can stay unconfigured.
func RegisterDonationSubscribers(
	bus events.Bus,
	geocoding *GeocodingSubscriber,
	receipt *ReceiptSubscriber,
	broker *BrokerSubscriber,
) error {
	if bus == nil {
		return errors.New("event bus is required")
	}
	if geocoding != nil {
		bus.Subscribe(EventDonationCreated, "geocoding", geocoding.OnDonationCreated)
	}
	if receipt != nil {
		bus.Subscribe(EventDonationFinished, "receipt_mail", receipt.OnDonationFinished)
	}
	if broker != nil {
		bus.Subscribe(EventDonationFinished, "broker", broker.OnDonationFinished)
	}
	return nil
}
