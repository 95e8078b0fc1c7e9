package events_fx

import (
	"context"
	"time"

	"go.uber.org/fx"

	"donations/internal/config"
	"donations/internal/infra"
	"donations/internal/repositories"
	"donations/internal/services"
	"donations/pkg/events"
)

var Module = fx.Options(
	fx.Provide(provideBus),
	fx.Invoke(registerSubscribers),
)

func provideBus(lc fx.Lifecycle) events.Bus {
	bus := events.NewBus(30 * time.Second)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			bus.Close()
			return nil
		},
	})
	return bus
}

func registerSubscribers(
	lc fx.Lifecycle,
	cfg *config.Config,
	bus events.Bus,
	geocoder services.Geocoder,
	mail services.IMailService,
	donationRepo repositories.DonationRepository,
) error {
	var geocoding *services.GeocodingSubscriber
	if geocoder != nil {
		geocoding = services.NewGeocodingSubscriber(geocoder, donationRepo)
	}

	var receipt *services.ReceiptSubscriber
	if mail != nil {
		receipt = services.NewReceiptSubscriber(mail)
	}

	var broker *services.BrokerSubscriber
	if cfg.Kafka.BootstrapServers != "" {
		producer, err := infra.NewKafkaProducer(cfg.Kafka.BootstrapServers)
		if err != nil {
			return err
		}
		broker = services.NewBrokerSubscriber(producer, cfg.Kafka.DonationsTopic)

		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				// Drain subscribers before the producer goes away.
				bus.Close()
				producer.Close()
				return nil
			},
		})
	}

	return services.RegisterDonationSubscribers(bus, geocoding, receipt, broker)
}
