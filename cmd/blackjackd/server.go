package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/coder/quartz"

	"github.com/lox/blackjackd/cmd/blackjackd/shared"
	"github.com/lox/blackjackd/internal/randutil"
	"github.com/lox/blackjackd/internal/server"
	"github.com/lox/blackjackd/internal/store"
)

// ServerCmd contains server configuration
type ServerCmd struct {
	Config        string `kong:"default='blackjackd.hcl',help='Path to HCL config file'"`
	Addr          string `kong:"help='Listen address, overrides config'"`
	Debug         bool   `kong:"help='Enable debug logging'"`
	Seed          *int64 `kong:"help='Deterministic RNG seed (optional)'"`
	DealerDelayMs *int   `kong:"help='Pause between dealer card reveals in milliseconds, overrides config'"`
}

func (c *ServerCmd) Run() error {
	cfg, err := server.LoadConfig(c.Config)
	if err != nil {
		return err
	}

	logger := shared.SetupLogger(cfg.Server.LogLevel, c.Debug)

	var src randutil.Source
	if c.Seed != nil {
		logger.Info("using deterministic seed", "seed", *c.Seed)
		src = randutil.NewSeeded(*c.Seed)
	} else {
		src = randutil.Crypto{}
	}

	addr := cfg.Server.Addr()
	if c.Addr != "" {
		addr = c.Addr
	}
	dealerDelay := cfg.Server.DealerDelay()
	if c.DealerDelayMs != nil {
		dealerDelay = time.Duration(*c.DealerDelayMs) * time.Millisecond
	}

	s := server.NewServer(addr, logger)
	gameService := server.NewGameService(s, store.NewMemoryStore(), src, quartz.NewReal(), dealerDelay, logger)
	s.SetGameService(gameService)

	logger.Info("starting blackjackd server",
		"address", addr,
		"dealer_delay", dealerDelay,
	)

	ctx := shared.SetupSignalHandler(logger)

	serverErr := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		return s.Stop()
	}
}
