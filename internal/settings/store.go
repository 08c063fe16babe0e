// Package settings persists the per-hub module preferences in Redis.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"patientrecords/internal/models"
)

type Store interface {
	// Get returns the stored settings of a hub, or the defaults when the hub
	// never saved any.
	Get(ctx context.Context, hubID uuid.UUID) (models.ModuleSettings, error)
	Save(ctx context.Context, hubID uuid.UUID, s models.ModuleSettings) error
}

type redisStore struct {
	client redis.UniversalClient
}

// ParseAddr accepts either host:port or a redis:// URL.
func ParseAddr(addr string) string {
	return strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://")
}

func NewClient(addr, password string, db int) *redis.Client {
	parsedAddr := ParseAddr(addr)

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Warn().Err(err).Str("addr", parsedAddr).Msg("redis ping failed")
	}
	return client
}

func NewRedisStore(client redis.UniversalClient) Store {
	return &redisStore{client: client}
}

func key(hubID uuid.UUID) string {
	return fmt.Sprintf("patient_records:settings:%s", hubID.String())
}

func (r *redisStore) Get(ctx context.Context, hubID uuid.UUID) (models.ModuleSettings, error) {
	data, err := r.client.Get(ctx, key(hubID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.DefaultModuleSettings(), nil
	}
	if err != nil {
		return models.DefaultModuleSettings(), err
	}

	s := models.DefaultModuleSettings()
	if err := json.Unmarshal(data, &s); err != nil {
		return models.DefaultModuleSettings(), fmt.Errorf("decode settings: %w", err)
	}
	s.DefaultView = models.NormalizeView(s.DefaultView, models.ViewTable)
	return s, nil
}

func (r *redisStore) Save(ctx context.Context, hubID uuid.UUID, s models.ModuleSettings) error {
	s.DefaultView = models.NormalizeView(s.DefaultView, models.ViewTable)
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key(hubID), data, 0).Err()
}
