// Package redis keeps live courier positions. Each courier has one hash
// that expires when the courier stops reporting.
package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/ports"

	goredis "github.com/redis/go-redis/v9"
)

const (
	DefaultLocationTTL = 10 * time.Minute

	keyPrefix = "courier:location:"

	fieldLat       = "lat"
	fieldLng       = "lng"
	fieldUpdatedAt = "updated_at"
)

type LocationStore struct {
	client goredis.UniversalClient
	ttl    time.Duration
}

var _ ports.LocationStore = (*LocationStore)(nil)

func NewLocationStore(client goredis.UniversalClient, ttl time.Duration) *LocationStore {
	if ttl <= 0 {
		ttl = DefaultLocationTTL
	}
	return &LocationStore{client: client, ttl: ttl}
}

func NewClient(addr string, password string, db int) *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// Save overwrites the courier's position and restarts its expiry.
func (s *LocationStore) Save(ctx context.Context, loc ports.CourierLocation) error {
	key := locationKey(loc.CourierID)
	_, err := s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.HSet(ctx, key,
			fieldLat, strconv.FormatFloat(loc.Point.Lat(), 'f', -1, 64),
			fieldLng, strconv.FormatFloat(loc.Point.Lng(), 'f', -1, 64),
			fieldUpdatedAt, loc.UpdatedAt.UTC().Format(time.RFC3339Nano),
		)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save location of courier %s: %w", loc.CourierID, err)
	}
	return nil
}

// Get returns nil when the courier has no live position.
func (s *LocationStore) Get(ctx context.Context, courierID kernel.UUID) (*ports.CourierLocation, error) {
	fields, err := s.client.HGetAll(ctx, locationKey(courierID)).Result()
	if err != nil {
		return nil, fmt.Errorf("get location of courier %s: %w", courierID, err)
	}
	return parseLocation(courierID, fields)
}

// GetMany reads all positions in one round trip. Couriers without a live
// position are absent from the result.
func (s *LocationStore) GetMany(ctx context.Context, courierIDs []kernel.UUID) (map[kernel.UUID]ports.CourierLocation, error) {
	result := make(map[kernel.UUID]ports.CourierLocation, len(courierIDs))
	if len(courierIDs) == 0 {
		return result, nil
	}

	cmds := make([]*goredis.MapStringStringCmd, len(courierIDs))
	_, err := s.client.Pipelined(ctx, func(pipe goredis.Pipeliner) error {
		for i, id := range courierIDs {
			cmds[i] = pipe.HGetAll(ctx, locationKey(id))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("get courier locations: %w", err)
	}

	for i, id := range courierIDs {
		loc, parseErr := parseLocation(id, cmds[i].Val())
		if parseErr != nil {
			return nil, parseErr
		}
		if loc != nil {
			result[id] = *loc
		}
	}
	return result, nil
}

func (s *LocationStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func parseLocation(courierID kernel.UUID, fields map[string]string) (*ports.CourierLocation, error) {
	if len(fields) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(fields[fieldLat], 64)
	if err != nil {
		return nil, fmt.Errorf("courier %s location lat: %w", courierID, err)
	}
	lng, err := strconv.ParseFloat(fields[fieldLng], 64)
	if err != nil {
		return nil, fmt.Errorf("courier %s location lng: %w", courierID, err)
	}
	point, err := kernel.NewGeoPoint(lat, lng)
	if err != nil {
		return nil, err
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, fields[fieldUpdatedAt])
	if err != nil {
		return nil, fmt.Errorf("courier %s location time: %w", courierID, err)
	}

	return &ports.CourierLocation{CourierID: courierID, Point: point, UpdatedAt: updatedAt}, nil
}

func locationKey(id kernel.UUID) string {
	return keyPrefix + id.String()
}
