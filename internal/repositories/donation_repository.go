package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"donations/internal/models/db_models"
)

type DonationRepository interface {
	Insert(ctx context.Context, donation *db_models.Donation) error
	FindByUUID(ctx context.Context, id uuid.UUID) (*db_models.Donation, error)
	// SaveFinished persists a finished donation only if the stored row is not
	// finished yet. It reports whether this call did the write.
	SaveFinished(ctx context.Context, donation *db_models.Donation) (bool, error)
	UpdateCoordinates(ctx context.Context, id uuid.UUID, lat, lng float64) error
}

type donationRepository struct {
	db *gorm.DB
}

func NewDonationRepository(db *gorm.DB) DonationRepository {
	return &donationRepository{
		db: db,
	}
}

func (d *donationRepository) Insert(ctx context.Context, donation *db_models.Donation) error {
	return d.db.WithContext(ctx).Create(donation).Error
}

func (d *donationRepository) FindByUUID(ctx context.Context, id uuid.UUID) (*db_models.Donation, error) {
	var donation db_models.Donation
	err := d.db.WithContext(ctx).First(&donation, "uuid = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &donation, nil
}

func (d *donationRepository) SaveFinished(ctx context.Context, donation *db_models.Donation) (bool, error) {
	if !donation.IsFinished() {
		return false, errors.New("donation is not finished")
	}

	result := d.db.WithContext(ctx).
		Model(&db_models.Donation{}).
		Where("uuid = ? AND finished = ?", donation.UUID, false).
		Updates(map[string]interface{}{
			"finished":                  true,
			"paybox_payload":            donation.PayboxPayload,
			"paybox_result_code":        donation.PayboxResultCode,
			"paybox_authorization_code": donation.PayboxAuthorizationCode,
			"donated_at":                donation.DonatedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

func (d *donationRepository) UpdateCoordinates(ctx context.Context, id uuid.UUID, lat, lng float64) error {
	return d.db.WithContext(ctx).
		Model(&db_models.Donation{}).
		Where("uuid = ?", id).
		Updates(map[string]interface{}{
			"latitude":  lat,
			"longitude": lng,
		}).Error
}
