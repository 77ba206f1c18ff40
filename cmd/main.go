package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ray-remotestate/qrmenu/config"
	"github.com/ray-remotestate/qrmenu/database"
	"github.com/ray-remotestate/qrmenu/handlers"
	"github.com/ray-remotestate/qrmenu/notify"
	"github.com/ray-remotestate/qrmenu/server"
	"github.com/ray-remotestate/qrmenu/services"
	"github.com/ray-remotestate/qrmenu/storage"
	"github.com/ray-remotestate/qrmenu/utils"
)

const shutdownTimeOut = 10 * time.Second

type imageStore interface {
	services.ImageStore
	handlers.ImageOpener
}

func main() {
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("invalid configuration:\n%v", err)
	}

	logger := logrus.StandardLogger()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	} else {
		logger.WithField("level", cfg.LogLevel).Warn("unknown log level, using info")
	}

	if cfg.Auth.AdminPasswordHash == "" {
		if cfg.Auth.AdminPasswordHash, err = utils.HashPassword(cfg.Auth.AdminPassword); err != nil {
			logger.WithError(err).Fatal("failed to hash admin password")
		}
		cfg.Auth.AdminPassword = ""
	}

	db, err := database.ConnectAndMigrate(cfg.Database)
	if err != nil {
		logger.WithError(err).Panic("failed to initialize database")
	}
	logger.WithField("driver", cfg.Database.Driver).Info("migration is successful")

	images, err := newImageStore(cfg.Images)
	if err != nil {
		logger.WithError(err).Fatal("failed to initialize image store")
	}

	var notifier services.Notifier = services.NopNotifier{}
	if cfg.Telegram.Enabled() {
		tg, err := notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID, logger)
		if err != nil {
			logger.WithError(err).Warn("telegram notifications disabled")
		} else {
			notifier = tg
		}
	}

	catalog := services.NewCatalogService(db, images, logger)
	orders := services.NewOrderService(db, cfg.Orders, notifier, logger)
	bills := services.NewBillService(db, logger)
	admin := services.NewAdminService(db, cfg.Auth, logger)

	srv := server.SetupRoutes(server.Handlers{
		Menu:   handlers.NewMenuHandler(catalog, cfg.Images.MaxUploadBytes, logger),
		Orders: handlers.NewOrderHandler(orders, bills, logger),
		Admin:  handlers.NewAdminHandler(admin, strings.HasPrefix(cfg.PublicURL, "https://"), logger),
		Public: handlers.NewPublicHandler(db, images, cfg.PublicURL, logger),
	}, cfg.Auth.SecretKey, logger)

	go func() {
		logger.WithField("port", cfg.Port).Info("server started")
		if err := srv.Run(cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("failed to run server")
		}
	}()

	<-done

	logger.Info("shutting down...")
	if err := srv.Shutdown(shutdownTimeOut); err != nil {
		logger.WithError(err).Error("failed to gracefully shutdown server")
	}
	if err := db.Shutdown(); err != nil {
		logger.WithError(err).Error("failed to close database connection!")
	}

	logger.Info("system is shut ..zzz")
}

func newImageStore(cfg config.Images) (imageStore, error) {
	if cfg.Store == config.ImageStoreS3 {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return storage.NewS3(ctx, cfg.S3Bucket, cfg.S3Region, cfg.S3Prefix)
	}
	return storage.NewLocal(cfg.Dir)
}
