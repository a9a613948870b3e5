package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/geoknoesis/rdf-graph/graph"
	"github.com/geoknoesis/rdf-graph/internal/config"
	"github.com/geoknoesis/rdf-graph/internal/logging"
	"github.com/geoknoesis/rdf-graph/store"
)

// environment is what every command runs against: a loaded store and a
// session over it.
type environment struct {
	cfg     *config.Config
	store   *store.Store
	session *graph.Session
	logger  *slog.Logger
	out     *OutputFormatter
}

func (e *environment) Close() error { return e.store.Close() }

func newEnvironment(ctx context.Context, opts *RootOptions, cmd *cobra.Command) (*environment, error) {
	out := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cfg := config.Default()
	if opts.ConfigPath != "" {
		var err error
		if cfg, err = config.Load(opts.ConfigPath); err != nil {
			return nil, WrapExitError(ExitCommandError, "load config", err)
		}
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "logging", err)
	}
	if opts.Verbose {
		level = logging.LevelDebug
	}
	logger := logging.New(logging.Config{
		Level:  level,
		JSON:   cfg.Logging.Format == "json",
		Output: cmd.ErrOrStderr(),
	})

	backend, err := openBackend(cfg, logger)
	if err != nil {
		return nil, WrapExitError(ExitFailure, "open storage", err)
	}
	st, err := store.New(backend,
		store.WithLogger(logger),
		store.WithDefaultGraph(cfg.DefaultGraph),
		store.WithPrefixes(cfg.Prefixes),
		store.WithURINamespace(cfg.URIPolicy.Namespace))
	if err != nil {
		_ = backend.Close()
		return nil, WrapExitError(ExitCommandError, "create store", err)
	}

	sources := cfg.Sources()
	for _, file := range opts.LoadFiles {
		sources = append(sources, store.Source{Graph: cfg.DefaultGraph, Path: file})
	}
	if err := st.LoadSources(ctx, sources); err != nil {
		_ = st.Close()
		return nil, classify("load data", err)
	}
	out.VerboseLog("loaded %d source(s)", len(sources))

	return &environment{
		cfg:     cfg,
		store:   st,
		session: graph.NewSession(st, graph.WithLogger(logger)),
		logger:  logger,
		out:     out,
	}, nil
}

func openBackend(cfg *config.Config, logger *slog.Logger) (store.Backend, error) {
	switch cfg.Storage.Backend {
	case "", "memory":
		return store.NewMemoryBackend(), nil
	case "badger":
		return store.OpenBadger(store.BadgerConfig{
			Path:     cfg.Storage.Path,
			InMemory: cfg.Storage.InMemory,
			Logger:   logger,
		})
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// inGraph runs fn in the graph named by --graph, or in the default graph.
func (e *environment) inGraph(graphURI string, fn func() error) error {
	if graphURI == "" {
		return fn()
	}
	return e.session.WithActiveGraph(graphURI, fn)
}

// node resolves a command line argument: a qname with a known prefix, a
// "_:" blank node identity or a URI.
func (e *environment) node(arg string) (graph.NamedNode, error) {
	if _, ok := e.store.ExpandQName(arg); ok && !strings.Contains(arg, "://") {
		return e.session.NamedNode(graph.Ref{QName: arg})
	}
	return e.session.NamedNode(arg)
}

// withEnvironment wraps a command body with environment setup, error
// reporting and teardown.
func withEnvironment(opts *RootOptions, cmd *cobra.Command, body func(*environment) error) error {
	env, err := newEnvironment(cmd.Context(), opts, cmd)
	if err != nil {
		out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), ErrWriter: cmd.ErrOrStderr()}
		return out.Error(err)
	}
	defer env.Close()
	if err := env.inGraph(opts.Graph, func() error { return body(env) }); err != nil {
		return env.out.Error(classify(cmd.Name(), err))
	}
	return nil
}
