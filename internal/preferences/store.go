package preferences

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bookmytix/admin-core/internal/models"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// KVStore persists small string preferences.
type KVStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// defaultRedisPrefix namespaces preference keys in a shared Redis.
const defaultRedisPrefix = "bookmytix:pref:"

// RedisStore keeps preferences in Redis.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore wraps client; an empty prefix uses the default namespace.
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if strings.TrimSpace(prefix) == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

// Get reads key; a missing key is not an error.
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, errGet := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(errGet, redis.Nil) {
		return "", false, nil
	}
	if errGet != nil {
		return "", false, fmt.Errorf("preferences: redis get %s: %w", key, errGet)
	}
	return value, true, nil
}

// Set writes key without expiry.
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if errSet := s.client.Set(ctx, s.prefix+key, value, 0).Err(); errSet != nil {
		return fmt.Errorf("preferences: redis set %s: %w", key, errSet)
	}
	return nil
}

// settingKeyPrefix separates preference rows from global settings.
const settingKeyPrefix = "pref:"

// SettingStore keeps preferences as JSON strings in the settings table.
type SettingStore struct {
	db *gorm.DB
}

// NewSettingStore returns a settings-table backed store.
func NewSettingStore(db *gorm.DB) *SettingStore {
	return &SettingStore{db: db}
}

// Get reads key; a missing row is not an error.
func (s *SettingStore) Get(ctx context.Context, key string) (string, bool, error) {
	var row models.Setting
	errFind := s.db.WithContext(ctx).Where(&models.Setting{Key: settingKeyPrefix + key}).Limit(1).Find(&row).Error
	if errFind != nil {
		return "", false, fmt.Errorf("preferences: find %s: %w", key, errFind)
	}
	if row.Key == "" || len(row.Value) == 0 {
		return "", false, nil
	}
	var value string
	if errUnmarshal := json.Unmarshal(row.Value, &value); errUnmarshal != nil {
		return "", false, fmt.Errorf("preferences: decode %s: %w", key, errUnmarshal)
	}
	return value, true, nil
}

// Set upserts key.
func (s *SettingStore) Set(ctx context.Context, key, value string) error {
	raw, errMarshal := json.Marshal(value)
	if errMarshal != nil {
		return errMarshal
	}
	row := models.Setting{Key: settingKeyPrefix + key, Value: raw, UpdatedAt: time.Now().UTC()}
	if errSave := s.db.WithContext(ctx).Save(&row).Error; errSave != nil {
		return fmt.Errorf("preferences: save %s: %w", key, errSave)
	}
	return nil
}
