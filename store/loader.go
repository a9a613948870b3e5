package store

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/geoknoesis/rdf-graph/rdf"
)

// Source is one file to load into a graph.
type Source struct {
	Graph string
	Path  string
}

// Load parses r and adds its statements to graph. Quads that name a graph
// go to that graph instead. It returns the number of new triples.
func (s *Store) Load(ctx context.Context, graph string, r io.Reader, format rdf.Format) (int, error) {
	if err := rdf.ValidateIRI(graph); err != nil {
		return 0, fmt.Errorf("%w: graph: %v", rdf.ErrArgument, err)
	}
	if err := s.backend.CreateGraph(graph); err != nil {
		return 0, rdf.WrapEngineError("create graph", err)
	}
	added := 0
	handler := rdf.QuadHandlerFunc(func(q rdf.Quad) error {
		target := graph
		if !q.InDefaultGraph() {
			target = q.G.String()
		}
		isNew, err := s.backend.Add(target, q.ToTriple())
		if err != nil {
			return rdf.WrapEngineError("add", err)
		}
		if isNew {
			added++
			loadedTriples.WithLabelValues(target).Inc()
		}
		return nil
	})
	err := rdf.ParseQuads(ctx, r, format, rdf.DefaultDecodeOptions(), handler)
	return added, err
}

func tracer() trace.Tracer {
	return otel.Tracer("github.com/geoknoesis/rdf-graph/store")
}

// LoadFile loads one file, choosing the format from its extension.
func (s *Store) LoadFile(ctx context.Context, graph, path string) (int, error) {
	ctx, span := tracer().Start(ctx, "store.LoadFile",
		trace.WithAttributes(
			attribute.String("graph", graph),
			attribute.String("path", path),
		))
	defer span.End()

	start := time.Now()
	fail := func(n int, err error) (int, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load failed")
		return n, err
	}
	format, err := rdf.FormatFromPath(path)
	if err != nil {
		return fail(0, err)
	}
	f, err := os.Open(path)
	if err != nil {
		return fail(0, fmt.Errorf("open %s: %w", path, err))
	}
	defer f.Close()
	n, err := s.Load(ctx, graph, f, format)
	if err != nil {
		return fail(n, fmt.Errorf("load %s: %w", path, err))
	}
	span.SetAttributes(attribute.Int("triples", n))
	s.logger.Info("loaded graph file",
		slog.String("graph", graph),
		slog.String("path", path),
		slog.String("format", string(format)),
		slog.Int("triples", n),
		slog.Duration("elapsed", time.Since(start)))
	return n, nil
}

// LoadSources loads all sources concurrently. The first failure cancels
// the remaining loads.
func (s *Store) LoadSources(ctx context.Context, sources []Source) error {
	ctx, span := tracer().Start(ctx, "store.LoadSources",
		trace.WithAttributes(attribute.Int("sources", len(sources))))
	defer span.End()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, src := range sources {
		src := src
		g.Go(func() error {
			_, err := s.LoadFile(ctx, src.Graph, src.Path)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load failed")
		return err
	}
	return nil
}

// Export writes the triples of graph as N-Triples.
func (s *Store) Export(w io.Writer, graph string) error {
	triples, err := s.Match(graph, nil, nil, nil)
	if err != nil {
		return err
	}
	return rdf.WriteTriples(w, triples)
}
