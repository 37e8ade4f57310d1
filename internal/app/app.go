// Package app wires configuration, logging, the hub, and the HTTP server
// into a runnable process.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	server "game-connect/server"
	"game-connect/server/internal/games"
)

const shutdownGrace = 5 * time.Second

// Run starts the session server and blocks until ctx is cancelled or the
// listener fails.
func Run(ctx context.Context) error {
	cfg, err := server.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := newLogger(cfg.LogFile)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	state, err := games.New(cfg.Ruleset)
	if err != nil {
		return fmt.Errorf("select rule set: %w", err)
	}

	hub := server.NewHub(cfg, state, log)
	stop := make(chan struct{})
	go hub.RunLoop(stop)
	defer close(stop)

	srv := &http.Server{Addr: cfg.Addr, Handler: server.NewHTTPHandler(hub)}

	errCh := make(chan error, 1)
	go func() {
		gameCfg := state.Config()
		log.Infow("server listening",
			"addr", cfg.Addr,
			"ruleset", cfg.Ruleset,
			"mode", gameCfg.Mode,
			"min_players", gameCfg.MinPlayers,
			"max_players", gameCfg.MaxPlayers,
			"tls", cfg.TLSCertFile != "",
		)
		var err error
		if cfg.TLSCertFile != "" {
			err = srv.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
		} else {
			err = srv.ListenAndServe()
		}
		errCh <- err
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	}
}

// newLogger builds a sugared zap logger: console output by default, a
// rolling file when a path is configured.
func newLogger(path string) (*zap.SugaredLogger, error) {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	var ws zapcore.WriteSyncer
	if path == "" {
		ws = zapcore.Lock(os.Stdout)
	} else {
		ws = zapcore.AddSync(&lumberjack.Logger{
			Filename:   path,
			MaxSize:    10, // MB
			MaxBackups: 3,
			MaxAge:     7, // days
		})
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), ws, zapcore.InfoLevel)
	return zap.New(core, zap.AddCaller()).Sugar(), nil
}
