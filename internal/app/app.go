package app

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"os"

	"github.com/niksmo/storefront/config"
	"github.com/niksmo/storefront/internal/adapter"
	"github.com/niksmo/storefront/internal/adapter/auth"
	"github.com/niksmo/storefront/internal/adapter/httphandler"
	"github.com/niksmo/storefront/internal/adapter/kafka"
	"github.com/niksmo/storefront/internal/adapter/storage"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/internal/core/service"
	"github.com/niksmo/storefront/pkg/schema"
	"github.com/twmb/franz-go/pkg/sr"
)

type App struct {
	ctx        context.Context
	cfg        config.Config
	storage    storage.Storage
	auth       *auth.TokenAuthority
	tlsCfg     *tls.Config
	producer   *kafka.PurchasesProducer
	service    *service.Service
	httpServer httphandler.HTTPServer
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	app.initTLS()
	app.initOutboundAdapters()
	app.initCoreService()
	app.initInboundAdapters()

	return app
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initTLS() {
	const op = "App.initTLS"

	files := app.cfg.Broker.TLS
	if !app.cfg.Broker.Enabled || !files.Enabled() {
		return
	}
	tlsCfg, err := adapter.MakeTLSConfig(files.CA, files.Cert, files.Key)
	if err != nil {
		app.fallDown(op, err)
	}
	app.tlsCfg = tlsCfg
}

func (app *App) initOutboundAdapters() {
	app.storage = storage.New()
	app.initAuth()
	if app.cfg.Broker.Enabled {
		app.initPurchasesProducer()
	}
}

func (app *App) initAuth() {
	const op = "App.initAuth"

	accounts := make([]domain.UserAccount, len(app.cfg.Auth.Users))
	for i, u := range app.cfg.Auth.Users {
		accounts[i] = domain.UserAccount{
			Username: u.Username,
			Password: u.Password,
			Role:     domain.Role(u.Role),
		}
	}

	a, err := auth.NewTokenAuthority(
		app.cfg.Auth.TokenSecret, app.cfg.Auth.TokenTTL, accounts,
	)
	if err != nil {
		app.fallDown(op, err)
	}
	app.auth = a
}

func (app *App) initPurchasesProducer() {
	const op = "App.initPurchasesProducer"

	ctx := app.ctx
	topic := app.cfg.Broker.Topics.Purchases

	srOpts := []sr.ClientOpt{sr.URLs(app.cfg.Broker.SchemaRegistryURLs...)}
	if app.tlsCfg != nil {
		srOpts = append(srOpts, sr.DialTLSConfig(app.tlsCfg))
	}
	srClient, err := sr.NewClient(srOpts...)
	if err != nil {
		app.fallDown(op, err)
	}

	purchaseSerde, err := schema.NewSerdePurchaseV1(
		ctx,
		schema.SubjectOpt(topic+"-value"),
		schema.SchemaIdentifierOpt(schema.NewSchemaCreater(srClient)),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	p, err := kafka.NewPurchasesProducer(
		kafka.ProducerClientOpt(
			ctx, app.cfg.Broker.SeedBrokers, topic, app.tlsCfg,
		),
		kafka.ProducerEncoderOpt(purchaseSerde),
	)
	if err != nil {
		app.fallDown(op, err)
	}
	app.producer = &p
}

func (app *App) initCoreService() {
	var emitter port.PurchaseEmitter
	if app.producer != nil {
		emitter = app.producer
	}

	app.service = service.New(
		app.storage.Products,
		app.storage.Reviews,
		app.storage.Carts,
		app.storage.Wishlists,
		app.storage.Purchases,
		emitter,
	)
}

func (app *App) initInboundAdapters() {
	s := app.service
	router := httphandler.NewRouter(
		app.cfg.CORS.AllowedOrigins,
		app.auth,
		app.auth,
		httphandler.Services{
			Catalog:   s,
			Reviews:   s,
			Cart:      s,
			Wishlist:  s,
			Purchases: s,
		},
	)
	app.httpServer = httphandler.NewHTTPServer(
		app.cfg.HTTPServerAddr, router, app.cfg.HTTPRequestTimeout,
	)
}

func (app *App) Run(stopFn context.CancelFunc) {
	go app.httpServer.Run(stopFn)

	slog.Info("application is running")
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)
	app.service.Close(ctx)
	if app.producer != nil {
		app.producer.Close()
	}
	app.storage.Close()

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
