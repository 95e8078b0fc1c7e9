package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	dbm "donations/internal/models/db_models"
	"donations/pkg/utils"
)

func TestDonationService_Handle(t *testing.T) {
	repo := &MockDonationRepository{}
	bus := &recordingBus{}
	service := NewDonationService(repo, NewDonationValidator(), bus)

	donation, err := service.Handle(context.Background(), validDraft(), "198.51.100.4")
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	if donation.UUID == uuid.Nil {
		t.Error("donation should have an identity")
	}
	if donation.ClientIP == nil || *donation.ClientIP != "198.51.100.4" {
		t.Errorf("ClientIP = %v", donation.ClientIP)
	}
	if donation.State() != dbm.DonationStateAwaitingCallback {
		t.Errorf("State() = %q, want awaiting-callback", donation.State())
	}

	published := bus.Events()
	if len(published) != 1 {
		t.Fatalf("published %d events, want 1", len(published))
	}
	created, ok := published[0].(DonationCreatedEvent)
	if !ok || created.Donation.UUID != donation.UUID {
		t.Errorf("published %+v", published[0])
	}
}

func TestDonationService_HandleInvalidDraft(t *testing.T) {
	inserted := false
	repo := &MockDonationRepository{
		InsertFunc: func(ctx context.Context, donation *dbm.Donation) error {
			inserted = true
			return nil
		},
	}
	bus := &recordingBus{}
	service := NewDonationService(repo, NewDonationValidator(), bus)

	draft := validDraft()
	draft.EmailAddress = ""

	_, err := service.Handle(context.Background(), draft, "198.51.100.4")

	var verrs utils.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("Handle() error = %v, want ValidationErrors", err)
	}
	if inserted || len(bus.Events()) != 0 {
		t.Error("an invalid draft must not be persisted nor announced")
	}
}

func TestDonationService_HandleInsertFailure(t *testing.T) {
	repo := &MockDonationRepository{
		InsertFunc: func(ctx context.Context, donation *dbm.Donation) error {
			return errors.New("connection refused")
		},
	}
	bus := &recordingBus{}
	service := NewDonationService(repo, NewDonationValidator(), bus)

	if _, err := service.Handle(context.Background(), validDraft(), ""); !errors.Is(err, utils.ErrDatabaseError) {
		t.Fatalf("Handle() error = %v, want ErrDatabaseError", err)
	}
	if len(bus.Events()) != 0 {
		t.Error("no event expected when the insert fails")
	}
}

func TestDonationService_FindByUUID(t *testing.T) {
	stored := awaitingDonation(t)
	repo := &MockDonationRepository{
		FindByUUIDFunc: func(ctx context.Context, id uuid.UUID) (*dbm.Donation, error) {
			if id == stored.UUID {
				return stored, nil
			}
			return nil, nil
		},
	}
	service := NewDonationService(repo, NewDonationValidator(), &recordingBus{})

	got, err := service.FindByUUID(context.Background(), stored.UUID)
	if err != nil || got != stored {
		t.Fatalf("FindByUUID() = %v, %v", got, err)
	}

	if _, err := service.FindByUUID(context.Background(), uuid.New()); !errors.Is(err, utils.ErrDonationNotFound) {
		t.Errorf("FindByUUID(unknown) error = %v, want ErrDonationNotFound", err)
	}
}
