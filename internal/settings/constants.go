package settings

// DB config keys and defaults for settings.
const (
	// SiteNameKey is the DB config key for the dashboard title.
	SiteNameKey = "SITE_NAME"
	// DefaultSiteName is the fallback dashboard title.
	DefaultSiteName = "BookMyTix Admin"
	// DefaultLocaleKey selects the locale for admins without a saved preference.
	DefaultLocaleKey = "DEFAULT_LOCALE"
	// DefaultLocale is the fallback dashboard locale.
	DefaultLocale = "id"
	// ChatReplyDelayMsKey overrides the simulated AI reply delay in milliseconds.
	ChatReplyDelayMsKey = "CHAT_REPLY_DELAY_MS"
)

// KnownKeys lists the settings the admin API accepts.
var KnownKeys = []string{SiteNameKey, DefaultLocaleKey, ChatReplyDelayMsKey}

// IsKnownKey reports whether key is an accepted setting.
func IsKnownKey(key string) bool {
	for _, known := range KnownKeys {
		if known == key {
			return true
		}
	}
	return false
}
