// Package cli implements the jsongraph command-line interface.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/jsongraph/internal/config"
	"github.com/matzehuels/jsongraph/pkg/buildinfo"
	"github.com/matzehuels/jsongraph/pkg/cache"
	"github.com/matzehuels/jsongraph/pkg/document"
	errs "github.com/matzehuels/jsongraph/pkg/errors"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "jsongraph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Flags shared by every command.
	configPath string
	document   string
	backend    string

	cfg config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "jsongraph browses and edits JSON documents as node graphs",
		Long:         `jsongraph shows a JSON document as a graph of container nodes, lets you inspect each node's rows and edit the fields of known record shapes in place.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/jsongraph/config.toml)")
	flags.StringVarP(&c.document, "document", "d", "", "document file (JSON or YAML)")
	flags.StringVar(&c.backend, "store", "", "document store: file, memory, redis, mongo")

	root.AddCommand(c.nodesCommand())
	root.AddCommand(c.rowsCommand())
	root.AddCommand(c.pathCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.tuiCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig resolves settings and applies the shared flags on top.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.document != "" {
		cfg.Store.Path = c.document
	}
	if c.backend != "" {
		cfg.Store.Backend = c.backend
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

// =============================================================================
// Store and Cache Factories
// =============================================================================

// openStore connects to the configured document store.
func (c *CLI) openStore(ctx context.Context) (document.Store, error) {
	s := c.cfg.Store
	switch s.Backend {
	case config.BackendFile:
		if s.Path == "" {
			return nil, errs.New(errs.ErrCodeInvalidInput, "no document given (use --document or store.path)")
		}
		return document.NewFileStore(s.Path)
	case config.BackendMemory:
		text := ""
		if s.Path != "" {
			if err := errs.ValidateFilePath(s.Path); err != nil {
				return nil, err
			}
			data, err := os.ReadFile(s.Path)
			if err != nil {
				return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "read %s", s.Path)
			}
			text = string(data)
		}
		return document.NewMemoryStore(text), nil
	case config.BackendRedis:
		return document.NewRedisStore(ctx, s.RedisURL, s.Name)
	case config.BackendMongo:
		return document.NewMongoStore(ctx, s.MongoURI, s.MongoDatabase, s.Name)
	}
	return nil, errs.New(errs.ErrCodeUnsupported, "unknown store backend %q", s.Backend)
}

// openHandle loads the document from the configured store. The returned
// close function releases the store.
func (c *CLI) openHandle(ctx context.Context) (*document.Handle, func(), error) {
	store, err := c.openStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	h, err := document.Load(ctx, store, c.Logger)
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	c.Logger.Debug("loaded document", "backend", store.Backend(), "revision", h.Meta().Revision)
	return h, func() { _ = store.Close() }, nil
}

// newCache opens the configured render cache. File cache failures degrade
// to no caching.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.cfg.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		return cache.NewRedisCache(ctx, c.cfg.Cache.RedisURL)
	}
	dir, err := c.cfg.CacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/jsongraph/).
func (c *CLI) cacheDir() (string, error) {
	return c.cfg.CacheDir()
}
