// Package chessclub собирает основное приложение клуба: хранилище, кеш,
// объектное хранилище изображений, очередь уведомлений, сервисы и HTTP-сервер.
package chessclub

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/chessclub-membership/internal/cache"
	"github.com/magabrotheeeer/chessclub-membership/internal/config"
	"github.com/magabrotheeeer/chessclub-membership/internal/lib/jwt"
	"github.com/magabrotheeeer/chessclub-membership/internal/lib/password"
	"github.com/magabrotheeeer/chessclub-membership/internal/migrations"
	"github.com/magabrotheeeer/chessclub-membership/internal/rabbitmq"
	authservice "github.com/magabrotheeeer/chessclub-membership/internal/services/auth"
	billingservice "github.com/magabrotheeeer/chessclub-membership/internal/services/billing"
	federateservice "github.com/magabrotheeeer/chessclub-membership/internal/services/federate"
	libraryservice "github.com/magabrotheeeer/chessclub-membership/internal/services/library"
	memberservice "github.com/magabrotheeeer/chessclub-membership/internal/services/member"
	paymentservice "github.com/magabrotheeeer/chessclub-membership/internal/services/payment"
	paymentsheetservice "github.com/magabrotheeeer/chessclub-membership/internal/services/paymentsheet"
	teamservice "github.com/magabrotheeeer/chessclub-membership/internal/services/team"
	tournamentservice "github.com/magabrotheeeer/chessclub-membership/internal/services/tournament"
	"github.com/magabrotheeeer/chessclub-membership/internal/storage/images"
	"github.com/magabrotheeeer/chessclub-membership/internal/storage/repository"
)

// App — основное приложение клуба.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// New собирает все зависимости и возвращает готовое к запуску приложение.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	minioClient, err := minio.New(cfg.AddressMinio, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, err
	}
	imageStore, err := images.NewStore(ctx, minioClient, cfg.MinioBucket)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.AddressRabbitMQ, 5, 3*time.Second)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn)
	if err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			logger.Error("failed to close rabbitmq connection", slog.Any("err", closeErr))
		}
		return nil, err
	}
	notifier := rabbitmq.NewNotifier(ch)

	hasher := password.NewHasher(cfg.BcryptCost)
	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	services := Services{
		Auth:         authservice.New(db, hasher, notifier, jwtMaker, logger),
		Federate:     federateservice.New(db, db, imageStore, cacheRedis, logger),
		Payment:      paymentservice.New(db, logger),
		Member:       memberservice.New(db, hasher, notifier, logger),
		Library:      libraryservice.New(db, logger),
		Billing:      billingservice.New(db, logger),
		PaymentSheet: paymentsheetservice.New(db, db, logger),
		Tournament:   tournamentservice.New(db, logger),
		Team:         teamservice.New(db, logger),
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, db, services)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		conn:   conn,
		ch:     ch,
	}, nil
}

// Run запускает HTTP-сервер и блокируется до отмены контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.ch.Close(); closeErr != nil {
			a.logger.Error("failed to close rabbitmq channel", slog.Any("err", closeErr))
		}
		if closeErr := a.conn.Close(); closeErr != nil {
			a.logger.Error("failed to close rabbitmq connection", slog.Any("err", closeErr))
		}
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close database", slog.Any("err", closeErr))
		}
		return err
	}
}
