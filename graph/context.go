package graph

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/geoknoesis/rdf-graph/rdf"
)

// GraphContext holds the active graph of one session and the stack of graphs
// that were active before each nested WithActiveGraph scope.
//
// A GraphContext belongs to a single request and must not be shared between
// goroutines.
type GraphContext struct {
	active   string
	stack    []string
	switcher GraphSwitcher
	logger   *slog.Logger
}

// NewGraphContext starts with initial as the active graph.
func NewGraphContext(initial string, switcher GraphSwitcher, logger *slog.Logger) *GraphContext {
	if logger == nil {
		logger = slog.Default()
	}
	return &GraphContext{active: initial, switcher: switcher, logger: logger}
}

// Active returns the graph used by reads, writes and queries that do not name one.
func (c *GraphContext) Active() string { return c.active }

// Depth returns the number of open scopes.
func (c *GraphContext) Depth() int { return len(c.stack) }

// With runs fn with graph as the active graph and then restores the graph
// that was active before, whether fn returns normally, fails or panics.
//
// An empty or unknown graph fails with rdf.ErrArgument before anything
// changes. If the engine cannot switch back, that error replaces the one
// returned by fn.
func (c *GraphContext) With(graph string, fn func() error) (err error) {
	if strings.TrimSpace(graph) == "" {
		return fmt.Errorf("%w: missing graph uri", rdf.ErrArgument)
	}
	known, err := c.switcher.HasGraph(graph)
	if err != nil {
		return err
	}
	if !known {
		return fmt.Errorf("%w: unknown graph %s", rdf.ErrArgument, graph)
	}
	if err := c.switcher.EnterGraph(graph); err != nil {
		return err
	}

	previous := c.active
	c.stack = append(c.stack, previous)
	c.active = graph
	c.logger.Debug("entered graph", slog.String("graph", graph), slog.Int("depth", len(c.stack)))

	defer func() {
		c.active = c.stack[len(c.stack)-1]
		c.stack = c.stack[:len(c.stack)-1]
		if exitErr := c.switcher.ExitGraph(c.active); exitErr != nil {
			c.logger.Error("failed to restore active graph",
				slog.String("graph", c.active),
				slog.String("error", exitErr.Error()))
			err = exitErr
			return
		}
		c.logger.Debug("restored graph", slog.String("graph", c.active), slog.Int("depth", len(c.stack)))
	}()

	return fn()
}
