// pkg/memcache/geocode_cache.go
package mem

import (
	"strings"
	"sync"
	"time"
)

type Coordinates struct {
	Latitude  float64
	Longitude float64
}

type GeocodeCache interface {
	Set(address string, coords Coordinates, ttl time.Duration)

	// Get returns the cached coordinates for address if not expired.
	Get(address string) (Coordinates, bool)
}

type entry struct {
	coords    Coordinates
	expiresAt time.Time
}

type GeocodeCacheStore struct {
	mu   sync.RWMutex
	data map[string]entry
}

func NewGeocodeCache() *GeocodeCacheStore {
	return &GeocodeCacheStore{
		data: make(map[string]entry),
	}
}

func normalize(address string) string {
	return strings.ToLower(strings.Join(strings.Fields(address), " "))
}

func (s *GeocodeCacheStore) Set(address string, coords Coordinates, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[normalize(address)] = entry{
		coords:    coords,
		expiresAt: time.Now().Add(ttl),
	}
}

func (s *GeocodeCacheStore) Get(address string) (Coordinates, bool) {
	key := normalize(address)

	s.mu.RLock()
	e, ok := s.data[key]
	s.mu.RUnlock()

	if !ok {
		return Coordinates{}, false
	}
	if time.Now().After(e.expiresAt) {
		s.mu.Lock()
		delete(s.data, key) // cleanup expired
		s.mu.Unlock()
		return Coordinates{}, false
	}
	return e.coords, true
}
