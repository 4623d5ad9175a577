package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bookmytix/admin-core/internal/chat"
	"github.com/bookmytix/admin-core/internal/config"
	"github.com/bookmytix/admin-core/internal/db"
	adminhttp "github.com/bookmytix/admin-core/internal/http/api/admin"
	"github.com/bookmytix/admin-core/internal/logging"
	"github.com/bookmytix/admin-core/internal/models"
	"github.com/bookmytix/admin-core/internal/preferences"
	"github.com/bookmytix/admin-core/internal/pricing"
	"github.com/bookmytix/admin-core/internal/realtime"
	"github.com/bookmytix/admin-core/internal/security"
	"github.com/bookmytix/admin-core/internal/settings"
	"github.com/bookmytix/admin-core/internal/store"
	"github.com/bookmytix/admin-core/internal/webui"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// shutdownTimeout bounds graceful HTTP shutdown.
const shutdownTimeout = 10 * time.Second

// Migrate opens the database, runs migrations and optionally seeds demo pricing rules.
func Migrate(ctx context.Context, cfg config.AppConfig, seed bool) error {
	conf, err := config.Load(config.ResolveConfigPath(cfg.ConfigPath))
	if err != nil {
		return err
	}
	conn, err := openDatabase(conf)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close(conn) }()

	if seed {
		inserted, errSeed := store.SeedPricingRules(ctx, conn, pricing.DefaultRules())
		if errSeed != nil {
			return errSeed
		}
		log.Infof("seeded %d pricing rules", inserted)
	}
	return nil
}

// RunServer boots the admin API and blocks until ctx is cancelled.
func RunServer(ctx context.Context, cfg config.AppConfig) error {
	configPath := config.ResolveConfigPath(cfg.ConfigPath)
	conf, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if errJWT := conf.JWT.Validate(); errJWT != nil {
		return errJWT
	}

	logCloser, err := logging.Setup(conf.Logging)
	if err != nil {
		return err
	}
	defer func() { _ = logCloser.Close() }()

	conn, err := openDatabase(conf)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close(conn) }()

	if errRefresh := settings.RefreshDBConfigSnapshot(ctx, conn); errRefresh != nil {
		return fmt.Errorf("load settings: %w", errRefresh)
	}
	if conf.SeedDemoData {
		inserted, errSeed := store.SeedPricingRules(ctx, conn, pricing.DefaultRules())
		if errSeed != nil {
			return errSeed
		}
		if inserted > 0 {
			log.Infof("seeded %d demo pricing rules", inserted)
		}
	}

	pricingStore := pricing.NewStore(store.NewGormRuleRepository(conn))

	hub := realtime.NewHub()
	hub.Start(ctx)

	chatStore := chat.NewStore(chat.DefaultConversations(), chat.Options{
		ReplyDelay: settings.ChatReplyDelay(conf.Chat.ReplyDelay),
		Notifier:   hub,
	})
	defer chatStore.Close()

	applyReplyDelay := func() {
		chatStore.SetReplyDelay(settings.ChatReplyDelay(conf.Chat.ReplyDelay))
	}
	settings.NewRefresher(conn, settings.DefaultRefreshInterval, applyReplyDelay).Start(ctx)

	kv, closeKV := preferenceStore(ctx, conf.Redis, conn)
	defer closeKV()

	engine := gin.New()
	engine.Use(logging.GinLogger(), gin.Recovery())
	adminhttp.RegisterRoutes(engine, adminhttp.Dependencies{
		DB:      conn,
		JWT:     conf.JWT,
		Pricing: pricingStore,
		Chat:    chatStore,
		Hub:     hub,
		Locales: preferences.NewLocaleService(kv),
		OnSettingChange: func(key string) {
			if key == settings.ChatReplyDelayMsKey {
				applyReplyDelay()
			}
		},
	})
	if dir := strings.TrimSpace(conf.Server.DashboardDir); dir != "" {
		bundle, errBundle := webui.Load(dir)
		if errBundle != nil {
			return errBundle
		}
		bundle.Register(engine)
	}

	server := &http.Server{
		Addr:              conf.Server.Addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		log.Infof("admin api listening on %s (config=%s)", conf.Server.Addr, configPath)
		if errServe := server.ListenAndServe(); errServe != nil && !errors.Is(errServe, http.ErrServerClosed) {
			serveErr <- errServe
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case errServe, ok := <-serveErr:
		if ok && errServe != nil {
			return errServe
		}
	}

	log.Info("shutting down admin api")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// CreateAdminParams holds inputs for admin bootstrap.
type CreateAdminParams struct {
	Username   string
	Password   string
	SuperAdmin bool
}

// CreateAdmin inserts an admin account. An empty password is generated and returned.
func CreateAdmin(ctx context.Context, cfg config.AppConfig, params CreateAdminParams) (models.Admin, string, error) {
	username := strings.TrimSpace(params.Username)
	if username == "" {
		return models.Admin{}, "", errors.New("username is required")
	}
	password := params.Password
	if password == "" {
		generated, errGen := security.GenerateRandomString(16)
		if errGen != nil {
			return models.Admin{}, "", errGen
		}
		password = generated
	}

	conf, err := config.Load(config.ResolveConfigPath(cfg.ConfigPath))
	if err != nil {
		return models.Admin{}, "", err
	}
	conn, err := openDatabase(conf)
	if err != nil {
		return models.Admin{}, "", err
	}
	defer func() { _ = db.Close(conn) }()

	hash, err := security.HashPassword(password)
	if err != nil {
		return models.Admin{}, "", fmt.Errorf("create admin: %w", err)
	}
	admin := models.Admin{
		Username:     username,
		Password:     hash,
		Active:       true,
		IsSuperAdmin: params.SuperAdmin,
		Permissions:  datatypes.JSON("[]"),
	}
	if errCreate := conn.WithContext(ctx).Create(&admin).Error; errCreate != nil {
		return models.Admin{}, "", fmt.Errorf("create admin: %w", errCreate)
	}
	return admin, password, nil
}

// QuoteParams describes a flight to price from the CLI.
type QuoteParams struct {
	Flight pricing.Flight
	Demo   bool // Use the seed rules instead of the database.
}

// Quote prices one flight against the database rules or the seed rules.
func Quote(ctx context.Context, cfg config.AppConfig, params QuoteParams) (pricing.FlightWithMarkup, error) {
	if params.Demo {
		return pricing.NewStore(pricing.NewMemoryRepository(pricing.DefaultRules()...)).CalculateMarkup(ctx, params.Flight)
	}

	conf, err := config.Load(config.ResolveConfigPath(cfg.ConfigPath))
	if err != nil {
		return pricing.FlightWithMarkup{}, err
	}
	conn, err := openDatabase(conf)
	if err != nil {
		return pricing.FlightWithMarkup{}, err
	}
	defer func() { _ = db.Close(conn) }()

	return pricing.NewStore(store.NewGormRuleRepository(conn)).CalculateMarkup(ctx, params.Flight)
}

// openDatabase opens the configured database and applies migrations.
func openDatabase(conf config.Config) (*gorm.DB, error) {
	conn, err := db.Open(conf.Database.DSN)
	if err != nil {
		return nil, err
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		_ = db.Close(conn)
		return nil, errMigrate
	}
	return conn, nil
}

// preferenceStore picks redis when configured and reachable, else the settings table.
func preferenceStore(ctx context.Context, conf config.RedisConfig, conn *gorm.DB) (preferences.KVStore, func()) {
	if !conf.Enabled() {
		return preferences.NewSettingStore(conn), func() {}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Addr,
		Password: conf.Password,
		DB:       conf.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if errPing := client.Ping(pingCtx).Err(); errPing != nil {
		log.WithError(errPing).Warnf("redis %s unreachable, storing preferences in the database", conf.Addr)
		_ = client.Close()
		return preferences.NewSettingStore(conn), func() {}
	}
	log.Infof("storing preferences in redis %s", conf.Addr)
	return preferences.NewRedisStore(client, ""), func() { _ = client.Close() }
}

// MarshalQuote renders a quote for CLI output.
func MarshalQuote(quote pricing.FlightWithMarkup) ([]byte, error) {
	return json.MarshalIndent(quote, "", "  ")
}
