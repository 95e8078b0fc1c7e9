package services

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"

	dbm "donations/internal/models/db_models"
	"donations/internal/models/request_models"
	"donations/pkg/events"
)

// MockDonationRepository implements repositories.DonationRepository for testing
type MockDonationRepository struct {
	InsertFunc            func(ctx context.Context, donation *dbm.Donation) error
	FindByUUIDFunc        func(ctx context.Context, id uuid.UUID) (*dbm.Donation, error)
	SaveFinishedFunc      func(ctx context.Context, donation *dbm.Donation) (bool, error)
	UpdateCoordinatesFunc func(ctx context.Context, id uuid.UUID, lat, lng float64) error
}

func (m *MockDonationRepository) Insert(ctx context.Context, donation *dbm.Donation) error {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, donation)
	}
	return donation.AfterCreate(nil)
}

func (m *MockDonationRepository) FindByUUID(ctx context.Context, id uuid.UUID) (*dbm.Donation, error) {
	if m.FindByUUIDFunc != nil {
		return m.FindByUUIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockDonationRepository) SaveFinished(ctx context.Context, donation *dbm.Donation) (bool, error) {
	if m.SaveFinishedFunc != nil {
		return m.SaveFinishedFunc(ctx, donation)
	}
	return true, nil
}

func (m *MockDonationRepository) UpdateCoordinates(ctx context.Context, id uuid.UUID, lat, lng float64) error {
	if m.UpdateCoordinatesFunc != nil {
		return m.UpdateCoordinatesFunc(ctx, id, lat, lng)
	}
	return nil
}

// recordingBus collects published events synchronously.
type recordingBus struct {
	mu        sync.Mutex
	published []events.Event
	subs      map[string][]events.Handler
}

func (b *recordingBus) Subscribe(eventName, subscriber string, handler events.Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs == nil {
		b.subs = make(map[string][]events.Handler)
	}
	b.subs[eventName] = append(b.subs[eventName], handler)
}

func (b *recordingBus) Publish(ctx context.Context, event events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, event)
}

func (b *recordingBus) Close() {}

func (b *recordingBus) Events() []events.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]events.Event(nil), b.published...)
}

const testTokenSecret = "0123456789abcdef0123456789abcdef"

func newTestTokens(t *testing.T) *donationTokenService {
	t.Helper()
	tokens, err := NewDonationTokenService(TokenConfig{Secret: []byte(testTokenSecret)})
	if err != nil {
		t.Fatalf("NewDonationTokenService() error = %v", err)
	}
	return tokens.(*donationTokenService)
}

func validDraft() *request_models.DonationRequest {
	return &request_models.DonationRequest{
		Amount:       5000,
		Gender:       request_models.GenderFemale,
		FirstName:    "Marie",
		LastName:     "Curie",
		EmailAddress: "marie.curie@example.com",
		PostAddress: dbm.PostAddress{
			Country:    "FR",
			PostalCode: "75005",
			CityName:   "Paris",
			Address:    "1 rue Pierre et Marie Curie",
		},
		Phone: &dbm.Phone{CountryCode: 33, NationalNumber: 612345678},
	}
}

// awaitingDonation returns a donation as it is after insertion.
func awaitingDonation(t *testing.T) *dbm.Donation {
	t.Helper()
	donation := validDraft().ToDonation()
	donation.Init("203.0.113.7")
	if err := donation.AfterCreate(nil); err != nil {
		t.Fatalf("AfterCreate() error = %v", err)
	}
	return donation
}
