package cli

import (
	"context"
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/matzehuels/familytree/internal/server"
	"github.com/matzehuels/familytree/pkg/observability"
	"github.com/matzehuels/familytree/pkg/pipeline"
)

// serveCommand runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Trees are kept in the store configured under [store] (memory, file or
mongo) and layouts in the cache configured under [cache] (file, redis or
none). Callers identify themselves with the X-User-ID header.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string) error {
	cfg := c.Config
	if addr == "" {
		addr = cfg.Server.Addr
	}

	cc, err := cfg.Cache.OpenCache(ctx)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(cc, cfg.Cache.Keyer(), c.Logger)
	defer runner.Close()

	st, err := cfg.Store.OpenStore(ctx, c.Logger)
	if err != nil {
		return err
	}
	defer st.Close()

	hooks := observability.NewLogHooks(c.Logger)
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	srv := server.New(server.Options{
		Runner:       runner,
		Store:        st,
		Logger:       c.Logger,
		Defaults:     pipeline.Options{Layout: cfg.Layout, Style: cfg.Render.Style},
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
	})

	c.Logger.Info("starting server", "cache", cfg.Cache.Backend, "store", cfg.Store.Backend)
	err = srv.ListenAndServe(ctx, addr, cfg.Server.ReadTimeout.Duration, cfg.Server.WriteTimeout.Duration, cfg.Server.ShutdownTimeout.Duration)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
