package donation_fx

import (
	"time"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"donations/internal/config"
	"donations/internal/repositories"
	"donations/internal/services"
	"donations/pkg/events"
)

var Module = fx.Provide(
	provideTokenService,
	services.NewDonationValidator,
	services.NewRetryPayloadCodec,
	services.NewDonationStatusResolver,
	services.NewDonationRequestHelper,
	provideDonationRepo,
	provideDonationService,
	provideCallbackHandler,
	providePaymentFormFactory,
)

func provideTokenService(cfg *config.Config) (services.DonationTokenService, error) {
	return services.NewDonationTokenService(services.TokenConfig{
		Secret: []byte(cfg.DonationTokenSecret),
		TTLs: map[string]time.Duration{
			services.CallbackTokenPurpose: cfg.CallbackTokenTTL,
			services.RetryTokenPurpose:    cfg.RetryTokenTTL,
		},
	})
}

func provideDonationRepo(db *gorm.DB) repositories.DonationRepository {
	return repositories.NewDonationRepository(db)
}

func provideDonationService(
	donationRepo repositories.DonationRepository,
	validator services.DonationValidator,
	bus events.Bus,
) services.DonationService {
	return services.NewDonationService(donationRepo, validator, bus)
}

func provideCallbackHandler(
	donationRepo repositories.DonationRepository,
	resolver services.DonationStatusResolver,
	bus events.Bus,
) services.DonationCallbackHandler {
	return services.NewDonationCallbackHandler(donationRepo, resolver, bus)
}

func providePaymentFormFactory(cfg *config.Config) (services.PaymentFormFactory, error) {
	return services.NewPaymentFormFactory(services.PayboxConfig{
		Site:        cfg.Paybox.Site,
		Rang:        cfg.Paybox.Rang,
		Identifiant: cfg.Paybox.Identifiant,
		Key:         cfg.Paybox.Key,
		URL:         cfg.Paybox.URL,
		Currency:    cfg.Paybox.Currency,
		CallbackURL: cfg.CallbackURL(),
	})
}
