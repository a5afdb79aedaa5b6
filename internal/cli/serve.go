package cli

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jsongraph/internal/server"
	"github.com/matzehuels/jsongraph/pkg/cache"
)

const shutdownTimeout = 5 * time.Second

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the document over the HTTP API",
		Example: `  jsongraph serve -d fruits.json --addr :8080
  JSONGRAPH_STORE=redis JSONGRAPH_NAME=fruits jsongraph serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.cfg.Server.Addr
			}
			return c.runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string) error {
	h, closeStore, err := c.openHandle(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	renderCache, err := c.newCache(ctx, false)
	if err != nil {
		c.Logger.Warn("render cache unavailable", "err", err)
		renderCache = cache.NewNullCache()
	}
	defer renderCache.Close()

	api := server.New(h, server.Options{
		Collection: c.cfg.Edit.Collection,
		CORSOrigin: c.cfg.Server.CORSOrigin,
		Logger:     c.Logger,
		Cache:      renderCache,
		Keyer:      cache.NewScopedKeyer(nil, c.cfg.Store.Backend+":"+c.cfg.Store.Name),
		CacheTTL:   c.cfg.Cache.TTL.Duration,
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	printSuccess("Serving %s on %s", h.Store().Backend(), StyleHighlight.Render(addr))
	printNextStep("Health check", "curl "+baseURL(addr)+"/api/health")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return ctx.Err()
}

// baseURL turns a listen address into a URL for display.
func baseURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}
