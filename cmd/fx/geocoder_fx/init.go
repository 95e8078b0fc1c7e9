package geocoder_fx

import (
	log "github.com/sirupsen/logrus"
	"go.uber.org/fx"

	"donations/internal/config"
	"donations/internal/services"
	mem "donations/pkg/memcache"
)

var Module = fx.Provide(provideGeocodeCache, provideGeocoder)

func provideGeocodeCache() mem.GeocodeCache {
	return mem.NewGeocodeCache()
}

func provideGeocoder(cfg *config.Config, cache mem.GeocodeCache) services.Geocoder {
	if cfg.MapboxAccessToken == "" {
		log.Warn("MAPBOX_ACCESS_TOKEN not set, donations will not be geocoded")
		return nil
	}
	return services.NewMapboxGeocoder(cfg.MapboxAccessToken, cache)
}
