package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	dbm "donations/internal/models/db_models"
	"donations/internal/models/request_models"
	"donations/internal/repositories"
	"donations/pkg/events"
	"donations/pkg/utils"
)

type DonationService interface {
	// Handle turns a valid draft into a persisted donation awaiting its callback.
	Handle(ctx context.Context, req *request_models.DonationRequest, clientIP string) (*dbm.Donation, error)
	FindByUUID(ctx context.Context, id uuid.UUID) (*dbm.Donation, error)
}

type donationService struct {
	donationRepo repositories.DonationRepository
	validator    DonationValidator
	bus          events.Bus
}

func NewDonationService(donationRepo repositories.DonationRepository, validator DonationValidator, bus events.Bus) DonationService {
	return &donationService{
		donationRepo: donationRepo,
		validator:    validator,
		bus:          bus,
	}
}

func (s *donationService) Handle(ctx context.Context, req *request_models.DonationRequest, clientIP string) (*dbm.Donation, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	donation := req.ToDonation()
	donation.Init(clientIP)

	if err := s.donationRepo.Insert(ctx, donation); err != nil {
		return nil, fmt.Errorf("%w: insert donation: %v", utils.ErrDatabaseError, err)
	}

	log.WithFields(log.Fields{
		"donation_uuid": donation.UUID,
		"amount":        donation.Amount,
	}).Info("Donation created, awaiting payment")

	s.bus.Publish(ctx, DonationCreatedEvent{Donation: *donation})

	return donation, nil
}

func (s *donationService) FindByUUID(ctx context.Context, id uuid.UUID) (*dbm.Donation, error) {
	donation, err := s.donationRepo.FindByUUID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: find donation: %v", utils.ErrDatabaseError, err)
	}
	if donation == nil {
		return nil, utils.ErrDonationNotFound
	}
	return donation, nil
}
