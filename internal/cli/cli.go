// Package cli implements the framegraph command-line interface.
//
// The commands play scenario files through the frame engine:
//   - render: write the frames of a scenario as SVG files, an HTML player or a PNG/PDF poster
//   - play: browse the frames of a scenario in the terminal
//   - serve: run the HTTP preview server
//   - cache: manage the layout cache
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/framegraph/pkg/buildinfo"
	"github.com/matzehuels/framegraph/pkg/cache"
	"github.com/matzehuels/framegraph/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "framegraph"

	// redisPrefix namespaces framegraph keys in a shared Redis.
	redisPrefix = "framegraph:"
)

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
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Framegraph animates changing linked structures as SVG",
		Long:         `Framegraph plays scenarios of graphs, trees and lists as they change, rendering each step as an animated SVG frame that fades, moves and recolors only what changed.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.playCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// cacheFlags selects the layout cache backend.
type cacheFlags struct {
	noCache bool
	redis   string // address; empty uses the file cache
}

func (f *cacheFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the layout cache")
	cmd.Flags().StringVar(&f.redis, "redis", "", "Redis address for a shared layout cache (host:port)")
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(f cacheFlags) (*pipeline.Runner, error) {
	store, err := newCache(f)
	if err != nil {
		return nil, err
	}
	// Layouts are scoped per release since Graphviz output may change between them.
	keyer := cache.NewScopedKeyer(nil, buildinfo.Version+":")
	return pipeline.NewRunner(store, keyer, c.Logger), nil
}

func newCache(f cacheFlags) (cache.Cache, error) {
	if f.noCache {
		return cache.NewNullCache(), nil
	}
	if f.redis != "" {
		return cache.NewRedisCache(f.redis, os.Getenv("REDIS_PASSWORD"), 0, cache.WithRedisPrefix(redisPrefix)), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/framegraph/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}
