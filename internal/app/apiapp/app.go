package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Janibulhoqsiam/stripe-webhook-render/internal/config"
	"github.com/Janibulhoqsiam/stripe-webhook-render/internal/infra/httpclient"
	"github.com/Janibulhoqsiam/stripe-webhook-render/internal/infra/paystack"
	stripeinfra "github.com/Janibulhoqsiam/stripe-webhook-render/internal/infra/stripe"
	pgrepo "github.com/Janibulhoqsiam/stripe-webhook-render/internal/repo/postgres"
	redrepo "github.com/Janibulhoqsiam/stripe-webhook-render/internal/repo/redis"
	confsvc "github.com/Janibulhoqsiam/stripe-webhook-render/internal/services/confirmations"
	entsvc "github.com/Janibulhoqsiam/stripe-webhook-render/internal/services/entitlements"
	paymentsvc "github.com/Janibulhoqsiam/stripe-webhook-render/internal/services/payments"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, cfg, log)

	var pool *pgxpool.Pool
	if p, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN); err != nil {
		log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
	} else {
		pool = p
	}

	var redisClient *goredis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn("redis init failed, verification caching disabled", zap.Error(err))
			redisClient = nil
		}
	}

	stripeClient := stripeinfra.NewClient(cfg.Stripe)
	paystackClient := paystack.NewClient(cfg.Paystack, httpclient.New(cfg.Paystack.CallTimeout))

	entitlementRepo := pgrepo.NewEntitlementRepo(pool)
	verificationCache := redrepo.NewVerificationCacheRepo(redisClient, cfg.Paystack.VerifyCacheTTL)

	entitlementService := entsvc.NewService(entitlementRepo, entsvc.SubstringPolicy{})
	paymentService := paymentsvc.NewService(paymentsvc.Dependencies{
		Entitlements: entitlementService,
		LineItems:    stripeClient,
		Checkout:     stripeClient,
	})
	confirmationService := confsvc.NewService(confsvc.Dependencies{
		Sessions:     stripeClient,
		Verifier:     paystackClient,
		Cache:        verificationCache,
		Entitlements: entitlementService,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	RegisterRoutes(r, Dependencies{
		EntitlementService:  entitlementService,
		PaymentService:      paymentService,
		ConfirmationService: confirmationService,
		Logger:              log,
		Config:              cfg,
	})

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		httpRouter: r,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
