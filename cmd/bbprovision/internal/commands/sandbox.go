package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wolfeidau/bbprovision/internal/logger"
	"github.com/wolfeidau/bbprovision/internal/sandbox"
	"github.com/wolfeidau/bbprovision/internal/store/memory"
)

// SandboxCmd serves the in-memory backend so runs can be rehearsed locally, e.g.
//
//	bbprovision sandbox --seed seed.yaml &
//	SUPABASE_URL=http://localhost:54321 bbprovision sync
type SandboxCmd struct {
	Listen     string   `help:"listen address" default:"localhost:54321" env:"BB_SANDBOX_LISTEN"`
	ServiceKey string   `help:"Service role key accepted by the sandbox" env:"SRK"`
	Seed       string   `help:"YAML fixtures to load at startup" type:"existingfile"`
	Missing    []string `help:"Tables or procedures to report as missing"`
}

func (s *SandboxCmd) Run(ctx context.Context, globals *Globals) error {
	if s.ServiceKey == "" {
		return fmt.Errorf("a service key is required (set SRK or --service-key)")
	}

	log.Logger = logger.Setup(globals.Debug)

	st := memory.New()
	if s.Seed != "" {
		seed, err := sandbox.LoadSeed(s.Seed)
		if err != nil {
			return err
		}
		if err := seed.Apply(ctx, st); err != nil {
			return err
		}
	}

	handler := sandbox.New(st, s.ServiceKey,
		sandbox.WithLogger(log.Logger),
		sandbox.WithMissing(s.Missing...),
	)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              s.Listen,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	log.Info().Str("version", globals.Version).Str("listen", s.Listen).Msg("Starting sandbox backend")

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	log.Info().Msg("Sandbox stopped")
	return nil
}
