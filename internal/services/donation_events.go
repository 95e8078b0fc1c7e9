package services

import (
	dbm "donations/internal/models/db_models"
)

const (
	EventDonationCreated  = "donation.created"
	EventDonationFinished = "donation.finished"
)

// DonationCreatedEvent is published once a draft has been persisted.
type DonationCreatedEvent struct {
	Donation dbm.Donation
}

func (DonationCreatedEvent) Name() string { return EventDonationCreated }

// DonationFinishedEvent is published by the callback delivery that finished the donation.
type DonationFinishedEvent struct {
	Donation dbm.Donation
	Category StatusCategory
}

func (DonationFinishedEvent) Name() string { return EventDonationFinished }
