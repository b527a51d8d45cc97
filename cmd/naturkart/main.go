package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"

	"github.com/naturkart/naturkart/auth"
	"github.com/naturkart/naturkart/config"
	"github.com/naturkart/naturkart/server"
	"github.com/naturkart/naturkart/store"
)

func main() {
	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Info),
		glog.WithName("naturkart"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)
	log := lgr.GetLogger("main")

	cfg, err := config.Load()
	if err != nil {
		log.Error("configuration error: %v", err)
		os.Exit(1)
	}

	ctx := context.Background()

	db := store.Connect(cfg.DatabaseDSN(), false)
	defer db.Close()

	if err := store.Migrate(ctx, db); err != nil {
		log.Error("migration error: %v", err)
		os.Exit(1)
	}

	users := auth.NewUsersRepository(db)

	tokens, err := auth.NewTokenService(
		[]byte(cfg.SecretKey),
		cfg.AccessTokenExpireDays,
		cfg.JWTIssuer,
		cfg.Algorithm,
		lgr.GetLogger("tokens"),
	)
	if err != nil {
		log.Error("token service error: %v", err)
		os.Exit(1)
	}

	keycloak := auth.NewKeycloak(auth.KeycloakConfig{
		ServerURL:    cfg.KeycloakURL,
		PublicURL:    cfg.KeycloakPublicURL,
		Realm:        cfg.KeycloakRealm,
		ClientID:     cfg.KeycloakClientID,
		ClientSecret: cfg.KeycloakClientSecret,
	})

	auther := auth.NewAuthenticator(keycloak, users, tokens).
		WithLogger(lgr.GetLogger("auth"))

	var resolver auth.RequestResolver = auther
	if cfg.DisableAuth {
		log.Warn("authentication disabled, all requests resolve to the test user")
		resolver = auth.NewTestUserResolver(users)
	}

	app := server.New(cfg, server.Deps{
		Logger:       lgr.GetLogger("http"),
		Tokens:       tokens,
		Provider:     keycloak,
		Auther:       auther,
		Resolver:     resolver,
		Observations: store.NewObservationsRepository(db),
		Locations:    store.NewLocationsRepository(db),
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error("server error: %v", err)
			os.Exit(1)
		}
	}()

	log.Info("listening on :%s", cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("shutdown error: %v", err)
	}
}
