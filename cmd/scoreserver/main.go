// Command scoreserver runs the HTTP scoring surface (score_text,
// score_file) as a long-lived daemon.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/qualys/dspm/internal/api"
	"github.com/qualys/dspm/internal/auth"
	"github.com/qualys/dspm/internal/config"
	"github.com/qualys/dspm/internal/core"
	"github.com/qualys/dspm/internal/pipeline"
	"github.com/qualys/dspm/internal/registry"
	"github.com/qualys/dspm/internal/rules"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	reg := registry.New(cfg.OpenLabels.WeightsFile)
	ctx := core.NewContext(reg, core.WithMaxWorkers(cfg.OpenLabels.MaxWorkers))

	var pipelineOpts []pipeline.Option
	var authSvc *auth.Service

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		log.Printf("database unavailable, running without custom rules or auth: %v", err)
	} else {
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		defer db.Close()

		ruleStore := rules.NewPostgresStore(db)
		ruleEngine := rules.NewEngine(ruleStore)
		if err := ruleEngine.LoadRules(context.Background()); err != nil {
			log.Printf("loading custom rules: %v", err)
		} else {
			pipelineOpts = append(pipelineOpts, pipeline.WithCustomRules(ruleEngine))
		}

		authSvc = auth.NewService(auth.Config{
			JWTSecret:          cfg.Auth.JWTSecret,
			AccessTokenExpiry:  cfg.Auth.AccessTokenExpiry,
			RefreshTokenExpiry: cfg.Auth.RefreshTokenExpiry,
			Issuer:             "openlabels",
		}, auth.NewPostgresUserStore(db))
	}

	p := pipeline.New(reg, ctx, pipelineOpts...)

	var serverOpts []api.ScoringServerOption
	serverOpts = append(serverOpts, api.WithScoringLogger(slog.Default()))
	if authSvc != nil {
		serverOpts = append(serverOpts, api.WithScoringAuth(authSvc))
	}
	server := api.NewScoringServer(cfg, p, serverOpts...)

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutting down...")
		cancel()
	}()

	log.Printf("starting scoring server on %s:%d", cfg.Server.Host, cfg.Server.Port)
	if err := server.Run(runCtx); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
