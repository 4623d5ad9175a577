package preferences

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bookmytix/admin-core/internal/settings"
	log "github.com/sirupsen/logrus"
)

// Supported dashboard locales.
const (
	LocaleIndonesian = "id"
	LocaleEnglish    = "en"
)

// ErrInvalidLocale is returned for locales other than id and en.
var ErrInvalidLocale = errors.New("invalid locale")

// ValidLocale reports whether locale is supported.
func ValidLocale(locale string) bool {
	return locale == LocaleIndonesian || locale == LocaleEnglish
}

// LocaleService resolves and stores the per-admin dashboard locale.
type LocaleService struct {
	store KVStore
}

// NewLocaleService returns a service backed by store.
func NewLocaleService(store KVStore) *LocaleService {
	return &LocaleService{store: store}
}

func localeKey(adminID uint64) string {
	return fmt.Sprintf("admin:%d:locale", adminID)
}

// DefaultLocale returns the DEFAULT_LOCALE setting when valid, else id.
func DefaultLocale() string {
	locale := strings.ToLower(settings.DBConfigString(settings.DefaultLocaleKey, settings.DefaultLocale))
	if !ValidLocale(locale) {
		return settings.DefaultLocale
	}
	return locale
}

// Locale returns the saved locale for adminID, or the default.
// A store failure falls back to the default rather than failing the request.
func (s *LocaleService) Locale(ctx context.Context, adminID uint64) string {
	if s == nil || s.store == nil {
		return DefaultLocale()
	}
	value, ok, errGet := s.store.Get(ctx, localeKey(adminID))
	if errGet != nil {
		log.WithError(errGet).WithField("admin_id", adminID).Warn("preferences: read locale")
		return DefaultLocale()
	}
	if !ok || !ValidLocale(value) {
		return DefaultLocale()
	}
	return value
}

// SetLocale stores locale for adminID.
func (s *LocaleService) SetLocale(ctx context.Context, adminID uint64, locale string) error {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if !ValidLocale(locale) {
		return ErrInvalidLocale
	}
	if s == nil || s.store == nil {
		return errors.New("preferences: no store configured")
	}
	return s.store.Set(ctx, localeKey(adminID), locale)
}
