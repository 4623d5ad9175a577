package preferences

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/bookmytix/admin-core/internal/models"
	"github.com/bookmytix/admin-core/internal/settings"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openPreferencesDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:preferences_%d?mode=memory&cache=shared", time.Now().UnixNano())
	conn, errOpen := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, errOpen)
	require.NoError(t, conn.AutoMigrate(&models.Setting{}))
	return conn
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("down")
}

func (failingStore) Set(context.Context, string, string) error { return errors.New("down") }

func TestLocaleDefaultsToIndonesian(t *testing.T) {
	svc := NewLocaleService(NewSettingStore(openPreferencesDB(t)))
	assert.Equal(t, LocaleIndonesian, svc.Locale(context.Background(), 1))
}

func TestSetLocalePersistsPerAdmin(t *testing.T) {
	ctx := context.Background()
	svc := NewLocaleService(NewSettingStore(openPreferencesDB(t)))

	require.NoError(t, svc.SetLocale(ctx, 1, "EN"))
	assert.Equal(t, LocaleEnglish, svc.Locale(ctx, 1))
	assert.Equal(t, LocaleIndonesian, svc.Locale(ctx, 2))

	require.NoError(t, svc.SetLocale(ctx, 1, "id"))
	assert.Equal(t, LocaleIndonesian, svc.Locale(ctx, 1))
}

func TestSetLocaleRejectsUnknown(t *testing.T) {
	svc := NewLocaleService(NewSettingStore(openPreferencesDB(t)))
	err := svc.SetLocale(context.Background(), 1, "fr")
	assert.ErrorIs(t, err, ErrInvalidLocale)
}

func TestLocaleFallsBackToSetting(t *testing.T) {
	settings.StoreDBConfig(time.Now(), map[string]json.RawMessage{
		settings.DefaultLocaleKey: json.RawMessage(`"en"`),
	})
	t.Cleanup(func() { settings.StoreDBConfig(time.Time{}, nil) })

	svc := NewLocaleService(NewSettingStore(openPreferencesDB(t)))
	assert.Equal(t, LocaleEnglish, svc.Locale(context.Background(), 7))
}

func TestLocaleIgnoresInvalidDefaultSetting(t *testing.T) {
	settings.StoreDBConfig(time.Now(), map[string]json.RawMessage{
		settings.DefaultLocaleKey: json.RawMessage(`"de"`),
	})
	t.Cleanup(func() { settings.StoreDBConfig(time.Time{}, nil) })

	assert.Equal(t, LocaleIndonesian, DefaultLocale())
}

func TestLocaleStoreFailureFallsBack(t *testing.T) {
	svc := NewLocaleService(failingStore{})
	assert.Equal(t, LocaleIndonesian, svc.Locale(context.Background(), 1))
	assert.Error(t, svc.SetLocale(context.Background(), 1, "en"))
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	prefix := fmt.Sprintf("bookmytix:test:%d:", time.Now().UnixNano())
	store := NewRedisStore(client, prefix)
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "k", "en"))
	value, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "en", value)
	client.Del(ctx, prefix+"k")
}
