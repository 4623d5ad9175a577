package models

import (
	"encoding/json"
	"time"
)

// Setting is a runtime-tunable key/value entry; Value holds JSON.
type Setting struct {
	Key       string          `gorm:"type:varchar(128);primaryKey"` // Setting key, e.g. DEFAULT_LOCALE.
	Value     json.RawMessage `gorm:"type:json"`                    // JSON-encoded value.
	UpdatedAt time.Time       `gorm:"not null;autoUpdateTime"`      // Last update timestamp.
}
