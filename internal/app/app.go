// Package app wires configuration, database, cache, mail and the HTTP engine
// into a runnable service.
package app

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/fidelizaa/loyalty/internal/config"
	"github.com/fidelizaa/loyalty/internal/db"
	"github.com/fidelizaa/loyalty/internal/http"
	"github.com/fidelizaa/loyalty/internal/logging"
	"github.com/fidelizaa/loyalty/internal/loyalty"
	"github.com/fidelizaa/loyalty/internal/mail"
	"github.com/fidelizaa/loyalty/internal/models"
	"github.com/fidelizaa/loyalty/internal/security"
)

// shutdownTimeout bounds how long in-flight requests may run after a stop
// signal.
const shutdownTimeout = 10 * time.Second

// Migrate opens the database, runs migrations and seeds the super admin.
func Migrate(ctx context.Context, cfg *config.Config) error {
	logging.Setup(cfg.Log)
	conn, err := db.Open(cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer func() {
		if errClose := db.Close(conn); errClose != nil {
			log.Warnf("close database failed: %v", errClose)
		}
	}()
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return errMigrate
	}
	return seedSuperAdmin(ctx, conn, cfg.Bootstrap)
}

// RunServer boots the API server and blocks until ctx is cancelled.
func RunServer(ctx context.Context, cfg *config.Config) error {
	logging.Setup(cfg.Log)

	conn, err := db.Open(cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer func() {
		if errClose := db.Close(conn); errClose != nil {
			log.Warnf("close database failed: %v", errClose)
		}
	}()
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return errMigrate
	}
	if errSeed := seedSuperAdmin(ctx, conn, cfg.Bootstrap); errSeed != nil {
		return errSeed
	}

	var cache *loyalty.RewardsCache
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() { _ = client.Close() }()
		cache = loyalty.NewRewardsCache(client, cfg.Redis.TTL)
		log.Infof("rewards cache enabled via redis at %s", cfg.Redis.Addr)
	}

	ledger := loyalty.NewLedger(conn)
	catalog := loyalty.NewCatalog(conn, cache)
	workflow := loyalty.NewWorkflow(conn, catalog)
	mailer := mail.New(cfg.Mail)

	engine := http.NewEngine(http.Deps{
		DB:       conn,
		Ledger:   ledger,
		Catalog:  catalog,
		Workflow: workflow,
		Mailer:   mailer,
		Config:   cfg,
	})

	server := &nethttp.Server{
		Addr:              cfg.Server.Addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", cfg.Server.Addr)
		if errServe := server.ListenAndServe(); errServe != nil && !errors.Is(errServe, nethttp.ErrServerClosed) {
			errCh <- errServe
			return
		}
		errCh <- nil
	}()

	select {
	case errServe := <-errCh:
		return errServe
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if errShutdown := server.Shutdown(shutdownCtx); errShutdown != nil {
		return fmt.Errorf("shutdown: %w", errShutdown)
	}
	return <-errCh
}

// seedSuperAdmin creates the bootstrap super admin account when the
// configured email does not exist yet. Existing accounts are left untouched
// so password changes survive restarts.
func seedSuperAdmin(ctx context.Context, conn *gorm.DB, cfg config.BootstrapConfig) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	var count int64
	if errCount := conn.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", cfg.AdminEmail).
		Count(&count).Error; errCount != nil {
		return fmt.Errorf("seed admin: %w", errCount)
	}
	if count > 0 {
		return nil
	}

	hash, errHash := security.HashPassword(cfg.AdminPassword)
	if errHash != nil {
		return fmt.Errorf("seed admin: %w", errHash)
	}
	name := cfg.AdminName
	if name == "" {
		name = "Administrator"
	}
	admin := models.User{
		Name:     name,
		Email:    cfg.AdminEmail,
		Password: hash,
		Role:     models.RoleSuperAdmin,
		IsActive: true,
	}
	if errCreate := conn.WithContext(ctx).Create(&admin).Error; errCreate != nil {
		return fmt.Errorf("seed admin: %w", errCreate)
	}
	log.Infof("seeded super admin %s", cfg.AdminEmail)
	return nil
}
