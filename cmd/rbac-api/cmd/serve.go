package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/rbac-admin/rbac-api/internal/api"
	"github.com/rbac-admin/rbac-api/internal/core/ports"
	"github.com/rbac-admin/rbac-api/internal/core/rules"
	"github.com/rbac-admin/rbac-api/internal/core/service"
	"github.com/rbac-admin/rbac-api/internal/core/store"
	"github.com/rbac-admin/rbac-api/internal/infrastructure/queue"
)

const shutdownTimeout = 10 * time.Second

var seedOnEmpty bool

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().BoolVar(&seedOnEmpty, "seed-if-empty", true, "write the embedded seed when the store holds no document")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the HTTP API until SIGINT or SIGTERM.

Examples:
  rbac-api serve
  STORE_BACKEND=mongo MONGO_URI=mongodb://localhost:27017 rbac-api serve`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(ctx context.Context) error {
	b, err := openBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer b.Close(context.Background())

	if seedOnEmpty {
		seeded, err := seedIfEmpty(ctx, b.docs)
		if err != nil {
			return err
		}
		if seeded {
			log.Info().Msg("store was empty, seed document written")
		}
	}

	st, err := store.Open(ctx, b.docs, log)
	if err != nil {
		return err
	}

	tokens, err := newTokenManager(cfg)
	if err != nil {
		return err
	}
	revocations, err := openRevocations(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer revocations.Close()

	sink, err := newAuditSink(ctx, b, log)
	if err != nil {
		return err
	}
	// The dispatcher outlives ctx so it can drain after shutdown starts.
	dispatcher := queue.NewDispatcher(cfg.AuditWorkers, sink, log)
	dispatcher.Start(context.Background())
	defer dispatcher.Close()

	engine := rules.NewEngine(cfg.Authz.SuperAdminRole)

	health := map[string]ports.Pinger{"store": st}
	if revocations.pinger != nil {
		health["redis"] = revocations.pinger
	}

	e := api.NewRouter(api.Deps{
		Log:             log,
		State:           st,
		Resolver:        service.NewPrincipalResolver(st, tokens, revocations, log),
		Auth:            service.NewAuthService(st, tokens, revocations, cfg.Token.TTL, log),
		Users:           service.NewUserService(st, engine, dispatcher, log),
		Roles:           service.NewRoleService(st, engine, dispatcher, log),
		Health:          health,
		ManagementRoles: cfg.Authz.ManagementRoles,
		LoginRateLimit:  cfg.LoginRateLimit,
		CORSOrigins:     cfg.CORSOrigins,
		Production:      cfg.IsProduction(),
	})

	if cfg.Store.Watch && b.file != nil {
		go func() {
			if err := b.file.Watch(ctx, log, st.Reload); err != nil {
				log.Error().Err(err).Msg("document watcher stopped")
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("scheme", cfg.Token.Scheme).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown")
		return err
	}
	log.Info().Msg("http server stopped")
	return nil
}
