package settings

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// DefaultRefreshInterval is how often Refresher reloads the settings table.
const DefaultRefreshInterval = 30 * time.Second

// Refresher periodically reloads the DB config snapshot so that writes from
// other instances become visible.
type Refresher struct {
	db        *gorm.DB
	interval  time.Duration
	onRefresh func()
}

// NewRefresher returns a refresher; onRefresh, when set, runs after every successful reload.
func NewRefresher(db *gorm.DB, interval time.Duration, onRefresh func()) *Refresher {
	if db == nil {
		return nil
	}
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &Refresher{db: db, interval: interval, onRefresh: onRefresh}
}

// Start launches the refresh loop in a background goroutine.
func (r *Refresher) Start(ctx context.Context) {
	if r == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	go r.run(ctx)
	log.Infof("settings refresher started (interval=%s)", r.interval)
}

func (r *Refresher) run(ctx context.Context) {
	for {
		timer := time.NewTimer(r.interval)
		select {
		case <-ctx.Done():
			if !timer.Stop() {
				<-timer.C
			}
			return
		case <-timer.C:
		}
		r.refreshOnce(ctx)
	}
}

func (r *Refresher) refreshOnce(ctx context.Context) {
	if errRefresh := RefreshDBConfigSnapshot(ctx, r.db); errRefresh != nil {
		if ctx.Err() == nil {
			log.WithError(errRefresh).Warn("settings refresher: reload failed")
		}
		return
	}
	if r.onRefresh != nil {
		r.onRefresh()
	}
}
