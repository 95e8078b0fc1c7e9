package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"donations/internal/repositories"
	"donations/pkg/events"
	"donations/pkg/utils"
)

// DonationCallbackHandler processes the gateway return for a donation and
// tells the browser where to go next.
type DonationCallbackHandler interface {
	Handle(ctx context.Context, id uuid.UUID, payload map[string]any) (*CallbackStatus, error)
}

type donationCallbackHandler struct {
	donationRepo repositories.DonationRepository
	resolver     DonationStatusResolver
	bus          events.Bus
}

func NewDonationCallbackHandler(
	donationRepo repositories.DonationRepository,
	resolver DonationStatusResolver,
	bus events.Bus,
) DonationCallbackHandler {
	return &donationCallbackHandler{
		donationRepo: donationRepo,
		resolver:     resolver,
		bus:          bus,
	}
}

func (h *donationCallbackHandler) Handle(ctx context.Context, id uuid.UUID, payload map[string]any) (*CallbackStatus, error) {
	donation, err := h.donationRepo.FindByUUID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: find donation: %v", utils.ErrDatabaseError, err)
	}
	if donation == nil {
		return nil, utils.ErrDonationNotFound
	}

	logCtx := log.WithField("donation_uuid", id)

	if donation.IsFinished() {
		// Gateway retry or browser return after the IPN: nothing to do.
		logCtx.Debug("Donation already finished, ignoring callback")
		return h.resolver.CreateCallbackStatus(donation)
	}

	donation.Finish(payload)

	applied, err := h.donationRepo.SaveFinished(ctx, donation)
	if err != nil {
		return nil, fmt.Errorf("%w: save finished donation: %v", utils.ErrDatabaseError, err)
	}

	if !applied {
		// A concurrent delivery finished it first; report what was stored.
		logCtx.Info("Concurrent callback already finished donation")
		stored, err := h.donationRepo.FindByUUID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("%w: reload donation: %v", utils.ErrDatabaseError, err)
		}
		if stored == nil {
			return nil, utils.ErrDonationNotFound
		}
		return h.resolver.CreateCallbackStatus(stored)
	}

	category := h.resolver.Classify(donation.ResultCode())
	logCtx.WithFields(log.Fields{
		"result_code": donation.ResultCode(),
		"category":    category,
	}).Info("Donation finished")

	h.bus.Publish(ctx, DonationFinishedEvent{Donation: *donation, Category: category})

	return h.resolver.CreateCallbackStatus(donation)
}
